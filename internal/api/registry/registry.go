package registry

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"draperads/internal/api/controllers"
	"draperads/internal/models"
	"draperads/internal/services"
)

// 📝 RegisterCRUDRoutes registers the catalog, ad and ad set CRUD routes
func RegisterCRUDRoutes(g *echo.Group, db *gorm.DB, ads *services.AdService) {
	templateController := controllers.NewBaseController[models.Template](services.NewBaseService(db, models.Template{}))
	// @Summary List templates
	// @Description Get the creative template catalog
	// @Tags catalog
	// @Produce json
	// @Success 200 {array} models.Template
	// @Failure 500 {object} map[string]string "Internal server error"
	// @Router /api/templates [get]
	templateController.RegisterRoutes(g, "/templates", "GET")

	accountController := controllers.NewBaseController[models.AdAccount](services.NewBaseService(db, models.AdAccount{}))
	// @Summary List ad accounts
	// @Description Get the advertising accounts ads can be published to
	// @Tags catalog
	// @Produce json
	// @Success 200 {array} models.AdAccount
	// @Failure 500 {object} map[string]string "Internal server error"
	// @Router /api/ad-accounts [get]
	accountController.RegisterRoutes(g, "/ad-accounts", "GET")

	adController := controllers.NewBaseController[models.Ad](ads).WithFilter("status", "status")
	// @Summary Create ad
	// @Description Create a draft ad. Status defaults to draft and statistics to {}
	// @Tags ads
	// @Accept json
	// @Produce json
	// @Param ad body models.Ad true "Ad object"
	// @Success 201 {object} models.Ad
	// @Failure 400 {object} map[string]interface{} "Validation failed"
	// @Failure 500 {object} map[string]string "Internal server error"
	// @Router /api/ads [post]
	//
	// @Summary Get ad
	// @Tags ads
	// @Param id path int true "Ad ID"
	// @Success 200 {object} models.Ad
	// @Failure 404 {object} map[string]string "Not found"
	// @Router /api/ads/{id} [get]
	//
	// @Summary Update ad
	// @Description Overwrite the creative fields of an ad in place
	// @Tags ads
	// @Param id path int true "Ad ID"
	// @Param ad body models.Ad true "Ad object"
	// @Success 200 {object} models.Ad
	// @Failure 400 {object} map[string]interface{} "Validation failed"
	// @Failure 404 {object} map[string]string "Not found"
	// @Router /api/ads/{id} [put]
	adController.RegisterRoutes(g, "/ads", "POST", "GET", "PUT")

	adSetController := controllers.NewBaseController[models.AdSet](services.NewBaseService(db, models.AdSet{})).
		WithFilter("adId", "ad_id")
	// @Summary Create ad set
	// @Tags ad-sets
	// @Accept json
	// @Produce json
	// @Param adSet body models.AdSet true "Ad set object"
	// @Success 201 {object} models.AdSet
	// @Failure 400 {object} map[string]interface{} "Validation failed"
	// @Router /api/ad-sets [post]
	//
	// @Summary List ad sets
	// @Tags ad-sets
	// @Param adId query int false "Only ad sets of this ad"
	// @Success 200 {array} models.AdSet
	// @Router /api/ad-sets [get]
	adSetController.RegisterRoutes(g, "/ad-sets", "POST", "GET")
}
