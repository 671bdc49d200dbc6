package routes

import (
	"github.com/labstack/echo/v4"

	"draperads/internal/api/middleware"
	"draperads/internal/handlers"
	"draperads/internal/services"
	"draperads/internal/session"
	"draperads/internal/utils/logger"
)

// SetupAuthRoutes registers the identity provider login flow. Without a
// provider only the current-user route is served.
func SetupAuthRoutes(api *echo.Group, provider handlers.IdentityProvider, users *services.UserService,
	sessions *session.Manager, authMiddleware *middleware.AuthMiddleware) {
	log := logger.New("auth_routes")
	authHandler := handlers.NewAuthHandler(provider, users, sessions)

	// Public routes (no auth required)
	if provider != nil {
		api.GET("/login", authHandler.Login)
		api.GET("/callback", authHandler.Callback)
		api.GET("/logout", authHandler.Logout)
	} else {
		log.Warn("No identity provider configured, login routes are disabled")
	}

	// Protected routes
	api.GET("/auth/user", authHandler.CurrentUser, authMiddleware.RequireAuth())
}
