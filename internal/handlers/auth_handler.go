package handlers

import (
	"errors"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"

	"draperads/internal/api/middleware"
	"draperads/internal/auth"
	"draperads/internal/models"
	"draperads/internal/services"
	"draperads/internal/session"
	"draperads/internal/utils"
	"draperads/internal/utils/logger"
)

type AuthHandler struct {
	provider IdentityProvider
	users    *services.UserService
	sessions *session.Manager
	log      *logger.Logger
}

func NewAuthHandler(provider IdentityProvider, users *services.UserService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		users:    users,
		sessions: sessions,
		log:      logger.New("AuthHandler"),
	}
}

// loginURL tries the request host with its port first, then without.
func (h *AuthHandler) loginURL(host, state, verifier string) (string, string, error) {
	candidates := []string{host}
	if name, _, err := net.SplitHostPort(host); err == nil {
		candidates = append(candidates, name)
	}

	var err error
	for _, domain := range candidates {
		var u string
		if u, err = h.provider.AuthCodeURL(domain, state, verifier); err == nil {
			return u, domain, nil
		}
	}
	return "", "", err
}

// Login starts the identity provider login for the requesting domain
// @Summary Log in
// @Description Redirect to the identity provider. State and PKCE verifier are kept in the session
// @Tags auth
// @Success 302 "Redirect to identity provider"
// @Failure 400 {object} map[string]string "Domain not configured"
// @Router /api/login [get]
func (h *AuthHandler) Login(c echo.Context) error {
	sess := session.FromContext(c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	state, err := utils.GenerateRandomString(32)
	if err != nil {
		return h.log.Error("Failed to generate login state", err)
	}
	verifier := oauth2.GenerateVerifier()

	target, domain, err := h.loginURL(c.Request().Host, state, verifier)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownDomain) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return h.log.Error("Failed to build login URL", err)
	}

	sess.Data.LoginState = state
	sess.Data.LoginVerifier = verifier
	sess.Data.LoginDomain = domain
	if err := h.sessions.Save(c, sess); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, target)
}

// Callback completes the login and stores the identity in the session
// @Summary Login callback
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string true "Login state"
// @Success 302 "Redirect to the app"
// @Failure 400 {object} map[string]string "State mismatch"
// @Router /api/callback [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	sess := session.FromContext(c)
	if sess == nil || sess.Data.LoginState == "" {
		return c.Redirect(http.StatusFound, middleware.LoginURL)
	}

	if c.QueryParam("state") != sess.Data.LoginState {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid login state")
	}
	if c.QueryParam("error") != "" || c.QueryParam("code") == "" {
		h.log.Warn("Login was not completed: %s", c.QueryParam("error"))
		return c.Redirect(http.StatusFound, middleware.LoginURL)
	}

	ctx := c.Request().Context()
	id, err := h.provider.Exchange(ctx, sess.Data.LoginDomain, c.QueryParam("code"), sess.Data.LoginVerifier)
	if err != nil {
		h.log.Warn("Login exchange failed: %v", err)
		return c.Redirect(http.StatusFound, middleware.LoginURL)
	}

	user := &models.User{
		ID:              id.Subject,
		Email:           id.Email,
		FirstName:       id.FirstName,
		LastName:        id.LastName,
		ProfileImageURL: id.ProfileImageURL,
	}
	if err := h.users.Upsert(ctx, user); err != nil {
		return h.log.Error("Failed to upsert user %s", err, id.Subject)
	}

	sess.Data = session.Data{
		UserID:          user.ID,
		Claims:          id.Claims,
		AccessToken:     id.AccessToken,
		RefreshToken:    id.RefreshToken,
		IDToken:         id.IDToken,
		ExpiresAt:       id.ExpiresAt.Unix(),
		MetaAccessToken: sess.Data.MetaAccessToken,
	}
	if err := h.sessions.Regenerate(c, sess); err != nil {
		return err
	}

	h.log.Success("User %s logged in", user.ID)
	return c.Redirect(http.StatusFound, "/")
}

// Logout destroys the session and ends the provider session
// @Summary Log out
// @Tags auth
// @Success 302 "Redirect to the provider end-session endpoint"
// @Router /api/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Destroy(c, session.FromContext(c)); err != nil {
		return err
	}
	home := c.Scheme() + "://" + c.Request().Host
	return c.Redirect(http.StatusFound, h.provider.EndSessionURL(home))
}

// CurrentUser returns the logged-in user
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /api/auth/user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, user)
}
