package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/favourites-api/internal/api/http/handlers"
	"github.com/spec-kit/favourites-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Favourites     *handlers.FavouritesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
		app.Get("/health/metrics", cfg.Health.Metrics)
	}

	userGroup := app.Group("/api/user")
	userGroup.Post("/register", cfg.Users.Register)
	userGroup.Post("/login", cfg.Users.Login)

	favourites := userGroup.Group("/favourites", cfg.AuthMiddleware.Handle)
	favourites.Get("", cfg.Favourites.List)
	favourites.Put("/:id", cfg.Favourites.Add)
	favourites.Delete("/:id", cfg.Favourites.Remove)
}
