package handlers

import (
	"errors"
	"strconv"

	"hemplife-wholesale/internal/adapters/http/middleware"
	"hemplife-wholesale/internal/core/services"
	"hemplife-wholesale/internal/pkg/response"
	"hemplife-wholesale/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List returns the catalog for the current principal. Admins see the
// full catalog including inactive products.
// @Summary List products
// @Description List the wholesale catalog
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var err error
	var products interface{}
	if principal.IsAdmin() {
		products, err = h.productService.ListForAdmin(c.Context())
	} else {
		products, err = h.productService.ListForMember(c.Context())
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to list products")
	}

	return response.Success(c, "Products retrieved successfully", fiber.Map{
		"products": products,
	})
}

// PublicList returns featured products without wholesale pricing
// @Summary Public product list
// @Description Featured products for the unauthenticated storefront
// @Tags Products
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /products/public [get]
func (h *ProductHandler) PublicList(c *fiber.Ctx) error {
	products, err := h.productService.PublicList(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list products")
	}

	return response.Success(c, "Products retrieved successfully", fiber.Map{
		"products": products,
	})
}

// Get returns one product
// @Summary Get product
// @Description Get a product by id
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	product, err := h.productService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to get product")
	}

	return response.Success(c, "Product retrieved successfully", fiber.Map{
		"product": product,
	})
}

// Create adds a product
// @Summary Create product
// @Description Add a product to the catalog
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ProductInput true "Product data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req services.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	product, err := h.productService.Create(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTHCLimit):
			return response.Compliance(c, "Delta-9 THC must not exceed 0.3%")
		case errors.Is(err, services.ErrSKUTaken):
			return response.Conflict(c, "A product with this SKU already exists")
		default:
			return response.InternalServerError(c, "Failed to create product")
		}
	}

	return response.Created(c, "Product created", fiber.Map{
		"product": product,
	})
}

// Update applies a partial update
// @Summary Update product
// @Description Update catalog fields; absent fields are left unchanged
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param body body services.ProductPatch true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	var req services.ProductPatch
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	product, err := h.productService.Update(c.Context(), uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return response.NotFound(c, "Product not found")
		case errors.Is(err, services.ErrTHCLimit):
			return response.Compliance(c, "Delta-9 THC must not exceed 0.3%")
		default:
			return response.InternalServerError(c, "Failed to update product")
		}
	}

	return response.Success(c, "Product updated", fiber.Map{
		"product": product,
	})
}

// Delete removes a product
// @Summary Delete product
// @Description Remove a product from the catalog
// @Tags Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product id")
	}

	if err := h.productService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Product not found")
		}
		return response.InternalServerError(c, "Failed to delete product")
	}

	return response.Success(c, "Product deleted", nil)
}
