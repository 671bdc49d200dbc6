package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"draperads/internal/session"
	"draperads/internal/wizard"
)

// TargetingHandler serves campaigns, ad sets and identities for the target
// step. A session connected to the ads platform reads live data; otherwise
// the sample accounts are served.
type TargetingHandler struct {
	graph    wizard.GraphReader
	fixtures wizard.TargetingProvider
}

func NewTargetingHandler(graph wizard.GraphReader, fixtures wizard.TargetingProvider) *TargetingHandler {
	if fixtures == nil {
		fixtures = wizard.NewFixtureProvider()
	}
	return &TargetingHandler{graph: graph, fixtures: fixtures}
}

func (h *TargetingHandler) provider(c echo.Context) wizard.TargetingProvider {
	sess := session.FromContext(c)
	if h.graph != nil && sess != nil && sess.Data.MetaAccessToken != "" {
		return wizard.NewMetaProvider(h.graph, sess.Data.MetaAccessToken)
	}
	return h.fixtures
}

func targetingError(err error) error {
	if errors.Is(err, wizard.ErrUnknownAccount) {
		return echo.NewHTTPError(http.StatusNotFound, "Ad account not found")
	}
	return err
}

func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	ids := []string{}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Campaigns lists an account's campaigns, active first
// @Summary List campaigns
// @Tags targeting
// @Produce json
// @Param accountId path string true "Ad account ID"
// @Param q query string false "Name search"
// @Success 200 {array} wizard.Campaign
// @Failure 404 {object} map[string]string "Ad account not found"
// @Router /api/targeting/{accountId}/campaigns [get]
func (h *TargetingHandler) Campaigns(c echo.Context) error {
	campaigns, err := h.provider(c).ListCampaigns(c.Request().Context(), c.Param("accountId"))
	if err != nil {
		return targetingError(err)
	}
	campaigns = wizard.FilterCampaigns(campaigns, c.QueryParam("q"))
	wizard.SortCampaigns(campaigns)
	return c.JSON(http.StatusOK, campaigns)
}

// AdSets lists ad sets grouped under their campaigns
// @Summary List ad sets
// @Tags targeting
// @Produce json
// @Param accountId path string true "Ad account ID"
// @Param campaignIds query string false "Comma separated campaign ids; none selected yields an empty list"
// @Param q query string false "Name search"
// @Success 200 {array} wizard.AdSet
// @Failure 404 {object} map[string]string "Ad account not found"
// @Router /api/targeting/{accountId}/adsets [get]
func (h *TargetingHandler) AdSets(c echo.Context) error {
	ctx := c.Request().Context()
	provider := h.provider(c)
	accountID := c.Param("accountId")

	campaigns, err := provider.ListCampaigns(ctx, accountID)
	if err != nil {
		return targetingError(err)
	}
	// Same rule as the wizard: ad sets are offered only under selected campaigns.
	campaignIDs := splitIDs(c.QueryParam("campaignIds"))
	if len(campaignIDs) == 0 {
		return c.JSON(http.StatusOK, []wizard.AdSet{})
	}
	sets, err := provider.ListAdSets(ctx, accountID, campaignIDs)
	if err != nil {
		return targetingError(err)
	}

	sets = wizard.FilterAdSets(sets, c.QueryParam("q"))
	wizard.SortAdSets(sets, campaigns)
	return c.JSON(http.StatusOK, sets)
}

// Pages lists the pages available to an account
// @Summary List pages
// @Tags targeting
// @Produce json
// @Param accountId path string true "Ad account ID"
// @Success 200 {array} wizard.Page
// @Router /api/targeting/{accountId}/pages [get]
func (h *TargetingHandler) Pages(c echo.Context) error {
	pages, err := h.provider(c).ListPages(c.Request().Context(), c.Param("accountId"))
	if err != nil {
		return targetingError(err)
	}
	return c.JSON(http.StatusOK, pages)
}

// Instagram lists the Instagram accounts available to an account
// @Summary List Instagram accounts
// @Tags targeting
// @Produce json
// @Param accountId path string true "Ad account ID"
// @Success 200 {array} wizard.InstagramAccount
// @Router /api/targeting/{accountId}/instagram [get]
func (h *TargetingHandler) Instagram(c echo.Context) error {
	accounts, err := h.provider(c).ListInstagramAccounts(c.Request().Context(), c.Param("accountId"))
	if err != nil {
		return targetingError(err)
	}
	return c.JSON(http.StatusOK, accounts)
}
