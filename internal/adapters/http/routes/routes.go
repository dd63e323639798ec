package routes

import (
	"hemplife-wholesale/internal/adapters/http/handlers"
	"hemplife-wholesale/internal/adapters/http/middleware"
	"hemplife-wholesale/internal/adapters/persistence/repositories"
	"hemplife-wholesale/internal/config"
	"hemplife-wholesale/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. It wires the full
// repository and service graph and returns the cron scheduler so main
// can start and stop it with the server.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.AutoService {
	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	inviteRepo := repositories.NewInviteRepository(db)
	productRepo := repositories.NewProductRepository(db)
	stateRepo := repositories.NewRestrictedStateRepository(db)
	notifyLogRepo := repositories.NewNotificationLogRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// Initialize services
	notifyService := services.NewNotificationService(services.NewResendSender(), notifyLogRepo, adminRepo)
	sessionService := services.NewSessionService(sessionRepo, memberRepo, adminRepo)
	authService := services.NewAuthService(memberRepo, adminRepo, sessionService)
	inviteService := services.NewInviteService(inviteRepo)
	memberService := services.NewMemberService(memberRepo, stateRepo, inviteService, notifyService)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, memberRepo, productRepo, stateRepo, notifyService)
	dashboardService := services.NewDashboardService(memberRepo, orderRepo, inviteRepo)
	geoService := services.NewGeoService(cfg.Geo.USOnly)
	autoService := services.NewAutoService(sessionService, dashboardService, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	memberHandler := handlers.NewMemberHandler(memberService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	accessHandler := handlers.NewAccessHandler(geoService, stateRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, notifyService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupPublicRoutes(apiV1, authHandler, memberHandler, inviteHandler,
		productHandler, accessHandler, sessionService)
	setupAuthenticatedRoutes(apiV1, authHandler, inviteHandler, productHandler,
		orderHandler, sessionService)
	setupAdminRoutes(apiV1, memberHandler, inviteHandler, productHandler,
		orderHandler, dashboardHandler, sessionService)

	return autoService
}

// setupPublicRoutes configures routes that need no session
func setupPublicRoutes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	memberHandler *handlers.MemberHandler,
	inviteHandler *handlers.InviteHandler,
	productHandler *handlers.ProductHandler,
	accessHandler *handlers.AccessHandler,
	sessionService *services.SessionService,
) {
	// Login is throttled harder than the general limiter
	router.Post("/auth/login", middleware.AuthRateLimiter(), authHandler.Login)

	// Wholesale application intake
	router.Post("/members/apply", middleware.StrictRateLimiter(), memberHandler.Apply)

	// Invite code pre-check for the application form
	router.Get("/invites/validate/:code", middleware.AuthRateLimiter(), inviteHandler.Validate)

	// Unauthenticated storefront catalog, cacheable for an hour
	router.Get("/products/public", middleware.PublicCatalogCache(), productHandler.PublicList)

	// Compliance info
	router.Get("/restricted-states", middleware.PublicCatalogCache(), accessHandler.RestrictedStates)

	// Geo gate. Optional auth lets admins bypass the lookup.
	router.Get("/access/check", middleware.OptionalAuth(sessionService), accessHandler.Check)
}

// setupAuthenticatedRoutes configures routes for any valid session
func setupAuthenticatedRoutes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	inviteHandler *handlers.InviteHandler,
	productHandler *handlers.ProductHandler,
	orderHandler *handlers.OrderHandler,
	sessionService *services.SessionService,
) {
	auth := router.Group("", middleware.AuthMiddleware(sessionService))

	auth.Post("/auth/logout", authHandler.Logout)
	auth.Get("/auth/me", authHandler.Me)

	// Catalog for logged-in principals
	auth.Get("/products", productHandler.List)
	auth.Get("/products/:id", productHandler.Get)

	// Invites visible to the principal
	auth.Get("/invites", inviteHandler.List)

	// Orders. Members see their own, admins see everything.
	auth.Get("/orders", orderHandler.List)
	auth.Get("/orders/:id", orderHandler.Get)

	// Cancellation only needs ownership, so a member suspended after
	// ordering can still withdraw a pending order
	auth.Patch("/orders/:id/cancel", orderHandler.Cancel)

	// Active members only
	member := auth.Group("", middleware.ActiveMemberOnly())
	member.Post("/orders", orderHandler.Place)
	member.Post("/invites/member-generate", inviteHandler.MemberGenerate)
}

// setupAdminRoutes configures admin-only routes
func setupAdminRoutes(
	router fiber.Router,
	memberHandler *handlers.MemberHandler,
	inviteHandler *handlers.InviteHandler,
	productHandler *handlers.ProductHandler,
	orderHandler *handlers.OrderHandler,
	dashboardHandler *handlers.DashboardHandler,
	sessionService *services.SessionService,
) {
	admin := router.Group("", middleware.AuthMiddleware(sessionService), middleware.AdminOnly())

	// Membership review
	admin.Get("/members", memberHandler.List)
	admin.Get("/members/:id", memberHandler.Get)
	admin.Patch("/members/:id/status", memberHandler.ChangeStatus)
	admin.Delete("/members/:id", memberHandler.Delete)

	// Invite code administration
	admin.Post("/invites/generate", inviteHandler.Generate)

	// Catalog management
	admin.Post("/products", productHandler.Create)
	admin.Put("/products/:id", productHandler.Update)
	admin.Delete("/products/:id", productHandler.Delete)

	// Fulfillment
	admin.Patch("/orders/:id/status", orderHandler.ChangeStatus)

	// Overview
	admin.Get("/dashboard", middleware.NoCacheHeaders(), dashboardHandler.GetStats)
	admin.Get("/dashboard/notifications", middleware.NoCacheHeaders(), dashboardHandler.Notifications)
}
