package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/convoyhq/convoyops-backend/internal/analytics"
	"github.com/convoyhq/convoyops-backend/internal/handlers"
	"github.com/convoyhq/convoyops-backend/internal/middleware"
	"github.com/convoyhq/convoyops-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, engine *analytics.Engine) {
	healthHandler := handlers.NewHealthHandler("1.0.0")
	userHandler := handlers.NewUserHandler(store)
	activityHandler := handlers.NewActivityHandler(store)
	sessionHandler := handlers.NewSessionHandler(store)
	performanceHandler := handlers.NewPerformanceHandler(engine)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// User routes
	users := api.Group("/users")
	users.Post("/register", userHandler.Register)
	users.Get("/", userHandler.ListByRole)
	users.Get("/:id", userHandler.GetUser)

	// Activity routes (movement and preparation records)
	activities := api.Group("/activities")
	activities.Post("/", activityHandler.CreateActivity)
	activities.Get("/:id", activityHandler.GetActivity)
	activities.Put("/:id/depart", activityHandler.Depart)
	activities.Put("/:id/arrive", activityHandler.Arrive)
	activities.Put("/:id/tasks/:task", activityHandler.UpdateTask)
	activities.Put("/:id/complete", activityHandler.CompleteActivity)

	// Work session routes (clock-in/clock-out)
	sessions := api.Group("/sessions")
	sessions.Post("/start", sessionHandler.ClockIn)
	sessions.Post("/:id/end", sessionHandler.ClockOut)

	// Performance analytics routes
	performance := api.Group("/performance")
	performance.Get("/compare", performanceHandler.Compare)
	performance.Get("/summary", performanceHandler.Summary)
	performance.Get("/:id", performanceHandler.GetUserPerformance)

	// ========== ADMIN ROUTES ==========
	admin := app.Group("/admin", middleware.RequireAdminKey())
	admin.Post("/performance/:id/refresh", performanceHandler.ForceRefresh)
}
