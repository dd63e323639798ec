package response

import "github.com/gofiber/fiber/v2"

// Machine-readable error kinds. Clients use these to tell permanent
// failures from transient ones without parsing the message text.
const (
	KindValidation     = "validation_error"
	KindAuthentication = "authentication_error"
	KindAuthorization  = "authorization_error"
	KindNotFound       = "not_found"
	KindConflict       = "conflict_error"
	KindCompliance     = "compliance_error"
	KindDependency     = "dependency_error"
)

// Response represents a standard API response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response with a machine-readable kind
func Error(c *fiber.Ctx, statusCode int, kind, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success:   false,
		Error:     message,
		Code:      kind,
		Retryable: kind == KindDependency,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, KindValidation, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, KindAuthentication, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, KindAuthorization, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, KindNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, KindConflict, message)
}

// Compliance sends a 422 response for regulatory limit violations
func Compliance(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnprocessableEntity, KindCompliance, message)
}

// ServiceUnavailable sends a 503 response for upstream dependency failures
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusServiceUnavailable, KindDependency, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, KindDependency, message)
}
