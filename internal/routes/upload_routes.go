package routes

import (
	"github.com/labstack/echo/v4"

	"draperads/internal/handlers"
	"draperads/internal/utils/logger"
)

func SetupUploadRoutes(api *echo.Group, storage handlers.MediaStorage, analyzer handlers.ImageAnalyzer) {
	log := logger.New("upload_routes")

	uploadHandler := handlers.NewUploadHandler(storage, analyzer)
	api.POST("/upload", uploadHandler.UploadMedia)

	log.Success("Upload routes initialized successfully")
}
