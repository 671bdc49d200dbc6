package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "draperads/docs/swagger"
	"draperads/internal/api/registry"
	"draperads/internal/metrics"
	"draperads/internal/routes"
	"draperads/internal/services"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "DraperAds API")
	})
	// Health check
	// @Summary Health check
	// @Description Check the database and redis connections
	// @Produce json
	// @Success 200 {object} map[string]interface{} "OK"
	// @Failure 503 {object} map[string]interface{} "Database unreachable"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", metrics.Handler())
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.deps.UploadDir != "" {
		s.echo.Static("/uploads", s.deps.UploadDir)
	}

	// Every /api route carries a session
	api := s.echo.Group("/api", s.deps.Sessions.Middleware())

	// Register CRUD routes for the catalog, ads and ad sets
	registry.RegisterCRUDRoutes(api, s.db, s.ads)
	routes.SetupAdRoutes(api, s.ads, s.auth)

	routes.SetupAuthRoutes(api, s.deps.Identity, services.NewUserService(s.db), s.deps.Sessions, s.auth)

	if s.deps.Storage != nil {
		routes.SetupUploadRoutes(api, s.deps.Storage, s.deps.Analyzer)
	} else {
		log.Warn("No media storage configured, /api/upload is disabled")
	}

	if s.deps.Meta != nil {
		routes.SetupMetaRoutes(api, s.deps.Meta, s.deps.Sessions)
		routes.SetupTargetingRoutes(api, s.deps.Meta)
	} else {
		routes.SetupTargetingRoutes(api, nil)
	}
}
