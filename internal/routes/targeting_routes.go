package routes

import (
	"github.com/labstack/echo/v4"

	"draperads/internal/handlers"
	"draperads/internal/wizard"
)

func SetupTargetingRoutes(api *echo.Group, graph wizard.GraphReader) {
	targetingHandler := handlers.NewTargetingHandler(graph, nil)

	targeting := api.Group("/targeting/:accountId")
	targeting.GET("/campaigns", targetingHandler.Campaigns)
	targeting.GET("/adsets", targetingHandler.AdSets)
	targeting.GET("/pages", targetingHandler.Pages)
	targeting.GET("/instagram", targetingHandler.Instagram)
}
