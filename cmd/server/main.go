package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"hemplife-wholesale/internal/adapters/http/middleware"
	"hemplife-wholesale/internal/adapters/http/routes"
	"hemplife-wholesale/internal/adapters/persistence/models"
	"hemplife-wholesale/internal/config"

	"github.com/gofiber/fiber/v2"

	_ "hemplife-wholesale/docs" // Swagger docs
)

// @title Hemp Life Farmers Wholesale API
// @version 1.0
// @description Membership, catalog and ordering backend for the Hemp Life Farmers wholesale program
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@hemplifefarmers.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.hemplifefarmers.com
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}
	log.Println("Database migration completed")

	// Seed restricted states, the order counter and the bootstrap admin
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Hemp Life Farmers Wholesale API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	autoService := routes.Setup(app, db, cfg)

	// Cron jobs: hourly session purge, daily pending-application digest
	autoService.Start()
	defer autoService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
