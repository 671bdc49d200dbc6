package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-advanced-admin/admin"
	admingorm "github.com/go-advanced-admin/orm-gorm"
	adminecho "github.com/go-advanced-admin/web-echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	authmw "draperads/internal/api/middleware"
	"draperads/internal/api/validator"
	"draperads/internal/config"
	"draperads/internal/handlers"
	"draperads/internal/models"
	"draperads/internal/services"
	"draperads/internal/session"
	console "draperads/internal/utils/logger"
)

// Deps are the collaborators the server wires into its routes. Identity,
// Meta, Analyzer, Storage and Redis are optional; the routes that need a
// missing one are not registered.
type Deps struct {
	DB        *gorm.DB
	Sessions  *session.Manager
	Identity  handlers.IdentityProvider
	Refresher authmw.TokenRefresher
	Meta      handlers.MetaAPI
	Analyzer  handlers.ImageAnalyzer
	Storage   handlers.MediaStorage
	UploadDir string
	Redis     *redis.Client
}

type Server struct {
	echo   *echo.Echo
	config *config.Config
	db     *gorm.DB
	deps   Deps
	ads    *services.AdService
	auth   *authmw.AuthMiddleware
}

var log = console.New("API-Server")

// NewServer @title DraperAds API
// @version 1.0
// @description Ad builder API: creatives, ad sets, media upload and publishing.
// @host localhost:5000
// @BasePath /
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.DB == nil || deps.Sessions == nil {
		return nil, errors.New("api server needs a database and a session manager")
	}

	e := echo.New()
	e.HideBanner = true

	// Create custom validator
	e.Validator = validator.NewValidator()

	// Configure middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 60 * time.Second,
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	// Uploads are capped at 10MB by the handler so it can answer with a JSON error.
	e.Use(middleware.BodyLimit("12M"))

	if cfg.Server.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimit))))
	}

	// Custom error handler
	e.HTTPErrorHandler = customHTTPErrorHandler

	s := &Server{
		echo:   e,
		config: cfg,
		db:     deps.DB,
		deps:   deps,
		ads:    services.NewAdService(deps.DB, deps.Meta),
		auth:   authmw.NewAuthMiddleware(deps.Sessions, deps.Refresher),
	}

	if cfg.Server.AdminPanel {
		if err := s.registerAdminPanel(); err != nil {
			return nil, err
		}
	}

	// Register routes
	s.registerRoutes()
	return s, nil
}

// registerAdminPanel mounts the entity admin. Access requires a logged-in session.
func (s *Server) registerAdminPanel() error {
	gormIntegrator := admingorm.NewIntegrator(s.db)
	echoIntegrator := adminecho.NewIntegrator(s.echo.Group(""))

	permissionChecker := func(
		request admin.PermissionRequest, ctx interface{},
	) (bool, error) {
		c, ok := ctx.(echo.Context)
		if !ok {
			return false, nil
		}
		sess := s.deps.Sessions.Peek(c)
		return sess != nil && sess.Data.Authenticated(), nil
	}

	adminPanel, err := admin.NewPanel(
		gormIntegrator, echoIntegrator, permissionChecker, nil,
	)
	if err != nil {
		return log.Error("Failed to create admin panel", err)
	}

	app, err := adminPanel.RegisterApp(
		"DraperAds",
		"DraperAds Admin",
		nil,
	)
	if err != nil {
		return log.Error("Failed to register admin app", err)
	}

	for _, model := range []interface{}{
		&models.Template{}, &models.AdAccount{}, &models.Ad{}, &models.AdSet{}, &models.User{},
	} {
		if _, err := app.RegisterModel(model, nil); err != nil {
			return log.Error("Failed to register admin model %T", err, model)
		}
	}

	log.Success("Admin panel registered")
	return nil
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server be driven directly, e.g. by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Health check endpoint
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	database := "up"
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		database = "down"
		status = http.StatusServiceUnavailable
	}

	cache := "disabled"
	if s.deps.Redis != nil {
		cache = "up"
		if err := s.deps.Redis.Ping(ctx).Err(); err != nil {
			log.Warn("Redis ping failed: %v", err)
			cache = "down"
		}
	}

	health := "healthy"
	if status != http.StatusOK {
		health = "unhealthy"
	}

	return c.JSON(status, map[string]interface{}{
		"status":   health,
		"database": database,
		"redis":    cache,
		"version":  "1.0.0",
		"time":     time.Now().Format(time.RFC3339),
	})
}

// Custom HTTP error handler
func customHTTPErrorHandler(err error, c echo.Context) {
	var (
		code = http.StatusInternalServerError
		body = map[string]interface{}{}
		ve   validator.ValidationErrors
		he   *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		code = http.StatusBadRequest
		body["message"] = "Validation failed"
		body["errors"] = ve.Fields()
	case errors.As(err, &he):
		code = he.Code
		body["message"] = he.Message
	default:
		log.Warn("Request %s %s failed: %v", c.Request().Method, c.Path(), err)
		body["message"] = err.Error()
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}
