package server

import (
	"socialapp/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/swagger"
)

// SetupRoutes registers the operational endpoints and the /api resources.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{Title: "Social App Metrics Dashboard"}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	users := api.Group("/users")
	users.Post("/", middleware.RateLimit(s.redis, middleware.RegisterLimit), s.Register)
	users.Get("/", s.GetAllUsers)
	users.Delete("/", s.AuthRequired(), s.DeleteMe)
	users.Get("/:id", s.AuthRequired(), s.GetUser)
	users.Put("/:id", s.AuthRequired(), s.UpdateUserEmail)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/", middleware.RateLimit(s.redis, middleware.LoginLimit), s.Login)
	authRoutes.Get("/", s.AuthRequired(), s.GetAuthUser)

	api.Get("/profile/me", s.AuthRequired(), s.GetMyProfile)

	// like, unlike and comment paths go before /:id
	posts := api.Group("/post", s.AuthRequired())
	posts.Post("/", s.CreatePost)
	posts.Get("/", s.GetPosts)
	posts.Put("/like/:id", s.LikePost)
	posts.Put("/unlike/:id", s.UnlikePost)
	posts.Post("/comment/:id", s.CreateComment)
	posts.Delete("/comment/:id/:commentId", s.DeleteComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)

	if s.config.IsProduction() {
		s.SetupStatic(app)
	}
}
