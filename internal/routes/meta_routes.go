package routes

import (
	"github.com/labstack/echo/v4"

	"draperads/internal/handlers"
	"draperads/internal/session"
)

func SetupMetaRoutes(api *echo.Group, client handlers.MetaAPI, sessions *session.Manager) {
	metaHandler := handlers.NewMetaHandler(client, sessions)

	metaGroup := api.Group("/meta")
	metaGroup.GET("/login", metaHandler.Login)
	metaGroup.GET("/callback", metaHandler.Callback)
	metaGroup.GET("/status", metaHandler.Status)
	metaGroup.GET("/accounts", metaHandler.Accounts)
	metaGroup.GET("/pages", metaHandler.Pages)
	metaGroup.GET("/instagram/:pageId", metaHandler.Instagram)
	metaGroup.POST("/create-ad", metaHandler.CreateAd)
}
