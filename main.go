package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/convoyhq/convoyops-backend/database"
	"github.com/convoyhq/convoyops-backend/internal/analytics"
	"github.com/convoyhq/convoyops-backend/internal/jobs"
	"github.com/convoyhq/convoyops-backend/internal/models"
	"github.com/convoyhq/convoyops-backend/internal/routes"
	"github.com/convoyhq/convoyops-backend/internal/services"
	"github.com/convoyhq/convoyops-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.User{},
			&models.ActivityRecord{},
			&models.WorkSession{},
			&models.PerformanceRecord{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// Initialize Twilio service (optional - summaries are skipped without it)
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️  Twilio not configured - WhatsApp summaries disabled: %v", err)
		twilioService = nil
	} else {
		log.Println("✅ Twilio service initialized")
	}

	// Initialize the performance analytics engine
	engine := analytics.NewEngine(store, staleAfterFromEnv())

	// Start scheduled performance jobs
	performanceJob := jobs.NewPerformanceJob(store, engine, twilioService)
	performanceJob.Start()

	log.Println("✅ All services initialized and scheduled jobs started")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "ConvoyOps Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Admin-Key",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Root endpoint with service status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":     "ConvoyOps Backend API",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
		}

		// Add database status if using database
		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var userCount, activityCount, sessionCount, performanceCount int64
			database.DB.Model(&models.User{}).Count(&userCount)
			database.DB.Model(&models.ActivityRecord{}).Count(&activityCount)
			database.DB.Model(&models.WorkSession{}).Count(&sessionCount)
			database.DB.Model(&models.PerformanceRecord{}).Count(&performanceCount)

			response["database"] = fiber.Map{
				"status":      dbStatus,
				"users":       userCount,
				"activities":  activityCount,
				"sessions":    sessionCount,
				"performance": performanceCount,
			}
		}

		response["services"] = fiber.Map{
			"analytics": "active",
			"whatsapp":  twilioService != nil,
			"scheduled_jobs": fiber.Map{
				"nightly_refresh": "active",
				"weekly_summary":  "active",
			},
		}

		return c.JSON(response)
	})

	// Setup routes
	routes.SetupRoutes(app, store, engine)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Stopping performance jobs...")
		performanceJob.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 ConvoyOps Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Printf("📱 WhatsApp: %s", getWhatsAppStatus(twilioService))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

// staleAfterFromEnv reads the performance record TTL (hours), default 24
func staleAfterFromEnv() time.Duration {
	if raw := os.Getenv("PERFORMANCE_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
		log.Printf("⚠️  Invalid PERFORMANCE_TTL_HOURS %q - using default", raw)
	}
	return analytics.DefaultStaleAfter
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getWhatsAppStatus(t *services.TwilioService) string {
	if t == nil {
		return "Not configured"
	}
	return "Configured"
}
