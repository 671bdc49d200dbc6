package routes

import (
	"github.com/labstack/echo/v4"

	"draperads/internal/api/middleware"
	"draperads/internal/handlers"
	"draperads/internal/services"
)

// SetupAdRoutes registers the ad lifecycle routes that are not plain CRUD.
func SetupAdRoutes(api *echo.Group, ads *services.AdService, authMiddleware *middleware.AuthMiddleware) {
	adsHandler := handlers.NewAdsHandler(ads)

	api.PATCH("/ads/:id/status", adsHandler.UpdateStatus)
	api.POST("/publish", adsHandler.Publish, authMiddleware.RequireAuth())
}
