package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"draperads/internal/models"
	"draperads/internal/services"
	"draperads/internal/session"
	"draperads/internal/utils/logger"
)

type AdsHandler struct {
	ads *services.AdService
	log *logger.Logger
}

func NewAdsHandler(ads *services.AdService) *AdsHandler {
	return &AdsHandler{ads: ads, log: logger.New("AdsHandler")}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,ad_status"`
}

type PublishRequest struct {
	AdID      uint         `json:"adId" validate:"required"`
	AdSetData models.AdSet `json:"adSetData"`
}

type PublishResponse struct {
	Success bool `json:"success"`
	*services.PublishResult
}

func adID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id parameter")
	}
	return uint(id), nil
}

// UpdateStatus moves an ad through its lifecycle
// @Summary Update ad status
// @Description Set the status of an ad. publishedAt is set only when the status is published
// @Tags ads
// @Accept json
// @Produce json
// @Param id path int true "Ad ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} models.Ad
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 404 {object} map[string]string "Ad not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/ads/{id}/status [patch]
func (h *AdsHandler) UpdateStatus(c echo.Context) error {
	id, err := adID(c)
	if err != nil {
		return err
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ad, err := h.ads.UpdateStatus(c.Request().Context(), id, models.AdStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
		case errors.Is(err, services.ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, ad)
}

// Publish creates an ad set for a draft ad and pushes it to the ads platform
// @Summary Publish ad
// @Description Create the ad set, publish to the ads platform and mark the ad active, atomically
// @Tags ads
// @Accept json
// @Produce json
// @Param request body PublishRequest true "Ad id and ad set"
// @Success 200 {object} PublishResponse
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Ad not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/publish [post]
func (h *AdsHandler) Publish(c echo.Context) error {
	var req PublishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.AdSetData.AdID == 0 {
		req.AdSetData.AdID = req.AdID
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var token string
	if sess := session.FromContext(c); sess != nil {
		token = sess.Data.MetaAccessToken
	}

	result, err := h.ads.Publish(c.Request().Context(), req.AdID, req.AdSetData, token)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
		}
		return err
	}

	h.log.Success("Ad %d published to ad set %d", req.AdID, result.AdSet.ID)
	return c.JSON(http.StatusOK, PublishResponse{Success: true, PublishResult: result})
}
