package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"draperads/internal/meta"
	"draperads/internal/session"
	"draperads/internal/utils"
	"draperads/internal/utils/logger"
)

// MetaHandler delegates to the ads platform with the token kept in the session.
type MetaHandler struct {
	client   MetaAPI
	sessions *session.Manager
	log      *logger.Logger
}

func NewMetaHandler(client MetaAPI, sessions *session.Manager) *MetaHandler {
	return &MetaHandler{client: client, sessions: sessions, log: logger.New("MetaHandler")}
}

func metaError(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]interface{}{"error": true, "message": message})
}

func (h *MetaHandler) fail(c echo.Context, action string, err error) error {
	if errors.Is(err, meta.ErrNoToken) {
		return metaError(c, http.StatusUnauthorized, "Not connected to Meta")
	}
	h.log.Error(action, err)
	return metaError(c, http.StatusInternalServerError, err.Error())
}

// token returns the connected access token or writes a 401.
func (h *MetaHandler) token(c echo.Context) (string, bool) {
	sess := session.FromContext(c)
	if sess == nil || sess.Data.MetaAccessToken == "" {
		return "", false
	}
	return sess.Data.MetaAccessToken, true
}

// Login redirects to the ads platform authorization dialog
// @Summary Connect ads platform
// @Tags meta
// @Success 302 "Redirect to authorization dialog"
// @Router /api/meta/login [get]
func (h *MetaHandler) Login(c echo.Context) error {
	sess := session.FromContext(c)
	if sess == nil {
		return metaError(c, http.StatusInternalServerError, "session unavailable")
	}

	state, err := utils.GenerateRandomString(32)
	if err != nil {
		return h.fail(c, "Failed to generate state", err)
	}
	sess.Data.MetaState = state
	if err := h.sessions.Save(c, sess); err != nil {
		return h.fail(c, "Failed to save session", err)
	}

	return c.Redirect(http.StatusFound, h.client.LoginURL(state))
}

// Callback verifies state and stores the access token in the session
// @Summary Ads platform callback
// @Tags meta
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by login"
// @Success 302 "Redirect to the app"
// @Failure 400 {object} map[string]interface{} "Invalid state"
// @Failure 500 {object} map[string]interface{} "Token exchange failed"
// @Router /api/meta/callback [get]
func (h *MetaHandler) Callback(c echo.Context) error {
	sess := session.FromContext(c)
	state := c.QueryParam("state")
	if sess == nil || sess.Data.MetaState == "" || state != sess.Data.MetaState {
		return metaError(c, http.StatusBadRequest, "Invalid state parameter")
	}

	token, err := h.client.HandleCallback(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		return h.fail(c, "Meta callback failed", err)
	}

	sess.Data.MetaState = ""
	sess.Data.MetaAccessToken = token.AccessToken
	if err := h.sessions.Save(c, sess); err != nil {
		return h.fail(c, "Failed to save session", err)
	}

	h.log.Success("Ads platform connected")
	return c.Redirect(http.StatusFound, "/?meta=connected")
}

// Status reports whether the session holds an ads platform token
// @Summary Ads platform connection status
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/meta/status [get]
func (h *MetaHandler) Status(c echo.Context) error {
	_, connected := h.token(c)
	return c.JSON(http.StatusOK, map[string]bool{"connected": connected})
}

// Accounts lists the connected user's ad accounts
// @Summary List ads platform accounts
// @Tags meta
// @Produce json
// @Success 200 {array} meta.AdAccount
// @Failure 401 {object} map[string]interface{} "Not connected"
// @Failure 500 {object} map[string]interface{} "Graph API error"
// @Router /api/meta/accounts [get]
func (h *MetaHandler) Accounts(c echo.Context) error {
	token, ok := h.token(c)
	if !ok {
		return h.fail(c, "", meta.ErrNoToken)
	}
	accounts, err := h.client.GetAdAccounts(c.Request().Context(), token)
	if err != nil {
		return h.fail(c, "Failed to fetch ad accounts", err)
	}
	return c.JSON(http.StatusOK, accounts)
}

// Pages lists the connected user's pages
// @Summary List pages
// @Tags meta
// @Produce json
// @Success 200 {array} meta.Page
// @Failure 401 {object} map[string]interface{} "Not connected"
// @Router /api/meta/pages [get]
func (h *MetaHandler) Pages(c echo.Context) error {
	token, ok := h.token(c)
	if !ok {
		return h.fail(c, "", meta.ErrNoToken)
	}
	pages, err := h.client.GetPages(c.Request().Context(), token)
	if err != nil {
		return h.fail(c, "Failed to fetch pages", err)
	}
	return c.JSON(http.StatusOK, pages)
}

// Instagram lists the Instagram accounts linked to a page
// @Summary List Instagram accounts of a page
// @Tags meta
// @Produce json
// @Param pageId path string true "Page ID"
// @Success 200 {array} meta.InstagramAccount
// @Failure 401 {object} map[string]interface{} "Not connected"
// @Router /api/meta/instagram/{pageId} [get]
func (h *MetaHandler) Instagram(c echo.Context) error {
	token, ok := h.token(c)
	if !ok {
		return h.fail(c, "", meta.ErrNoToken)
	}
	accounts, err := h.client.GetInstagramAccounts(c.Request().Context(), token, c.Param("pageId"))
	if err != nil {
		return h.fail(c, "Failed to fetch Instagram accounts", err)
	}
	return c.JSON(http.StatusOK, accounts)
}

// CreateAd forwards an ad to the ads platform
// @Summary Create ad on the ads platform
// @Tags meta
// @Accept json
// @Produce json
// @Param request body meta.AdRequest true "Ad"
// @Success 200 {object} meta.AdResult
// @Failure 401 {object} map[string]interface{} "Not connected"
// @Router /api/meta/create-ad [post]
func (h *MetaHandler) CreateAd(c echo.Context) error {
	token, ok := h.token(c)
	if !ok {
		return h.fail(c, "", meta.ErrNoToken)
	}

	var req meta.AdRequest
	if err := c.Bind(&req); err != nil {
		return metaError(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.client.CreateAd(c.Request().Context(), token, req)
	if err != nil {
		return h.fail(c, "Failed to create ad", err)
	}
	return c.JSON(http.StatusOK, result)
}
