package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"draperads/internal/services"
)

// identityResetter is implemented by models whose server-owned columns must
// not be set from a request body.
type identityResetter interface {
	ResetIdentity()
}

// BaseController provides generic CRUD operations for any model
type BaseController[T any] struct {
	service services.BaseService[T]
	filters map[string]string
}

// NewBaseController creates a new base controller
func NewBaseController[T any](service services.BaseService[T]) *BaseController[T] {
	return &BaseController[T]{
		service: service,
		filters: map[string]string{},
	}
}

// WithFilter allows the query parameter param to filter List on column.
func (c *BaseController[T]) WithFilter(param, column string) *BaseController[T] {
	c.filters[param] = column
	return c
}

// parseIncludes parses the include query parameter and returns a slice of relationships to preload
func parseIncludes(ctx echo.Context) []string {
	include := ctx.QueryParam("include")
	if include == "" {
		return nil
	}
	return strings.Split(include, ",")
}

func parseID(ctx echo.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id parameter")
	}
	return uint(id), nil
}

func notFoundOr500(err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (c *BaseController[T]) bind(ctx echo.Context) (*T, error) {
	var entity T
	if err := (&echo.DefaultBinder{}).BindBody(ctx, &entity); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if r, ok := any(&entity).(identityResetter); ok {
		r.ResetIdentity()
	}
	if err := ctx.Validate(&entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Create handles creation of new entities
func (c *BaseController[T]) Create(ctx echo.Context) error {
	entity, err := c.bind(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Create(ctx.Request().Context(), entity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusCreated, entity)
}

// Get handles retrieval of a single entity
func (c *BaseController[T]) Get(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	entity, err := c.service.Get(ctx.Request().Context(), id, parseIncludes(ctx)...)
	if err != nil {
		return notFoundOr500(err)
	}

	return ctx.JSON(http.StatusOK, entity)
}

// List returns a plain array. Pagination is opt-in via page and limit;
// X-Total-Count carries the unpaginated count.
func (c *BaseController[T]) List(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	filters := make(map[string]interface{})
	for param, column := range c.filters {
		if value := ctx.QueryParam(param); value != "" {
			filters[column] = value
		}
	}

	order := "asc"
	if strings.EqualFold(ctx.QueryParam("order"), "desc") {
		order = "desc"
	}

	entities, total, err := c.service.List(ctx.Request().Context(), services.ListOptions{
		Page:     page,
		Limit:    limit,
		Filters:  filters,
		Order:    order,
		Includes: parseIncludes(ctx),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ctx.Response().Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	return ctx.JSON(http.StatusOK, entities)
}

// Update replaces the updatable columns of an existing entity
func (c *BaseController[T]) Update(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	entity, err := c.bind(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Update(ctx.Request().Context(), id, entity); err != nil {
		return notFoundOr500(err)
	}

	return ctx.JSON(http.StatusOK, entity)
}

// Delete handles deletion of an entity
func (c *BaseController[T]) Delete(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Request().Context(), id); err != nil {
		return notFoundOr500(err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterRoutes registers CRUD routes for the controller
func (c *BaseController[T]) RegisterRoutes(g *echo.Group, path string, methods ...string) {
	if len(methods) == 0 {
		methods = []string{"POST", "GET", "PUT", "DELETE"}
	}

	for _, method := range methods {
		switch method {
		case "POST":
			g.POST(path, c.Create)
		case "GET":
			g.GET(path+"/:id", c.Get)
			g.GET(path, c.List)
		case "PUT":
			g.PUT(path+"/:id", c.Update)
		case "DELETE":
			g.DELETE(path+"/:id", c.Delete)
		}
	}
}
