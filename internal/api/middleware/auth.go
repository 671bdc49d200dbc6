package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"draperads/internal/auth"
	"draperads/internal/session"
	"draperads/internal/utils/logger"
)

var log = logger.New("auth_middleware")

const LoginURL = "/api/login"

// TokenRefresher runs a refresh-token grant against the identity provider.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*auth.Identity, error)
}

type AuthMiddleware struct {
	sessions  *session.Manager
	refresher TokenRefresher
	now       func() time.Time
}

func NewAuthMiddleware(sessions *session.Manager, refresher TokenRefresher) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, refresher: refresher, now: time.Now}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"message":  "Unauthorized",
		"loginUrl": LoginURL,
	})
}

// RequireAuth lets the request through while the identity token is valid.
// An expired token is refreshed once; failure yields 401.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := session.FromContext(c)
			if sess == nil || !sess.Data.Authenticated() {
				return unauthorized(c)
			}

			if !sess.Data.Expired(m.now()) {
				c.Set("userID", sess.Data.UserID)
				return next(c)
			}

			if sess.Data.RefreshToken == "" || m.refresher == nil {
				return unauthorized(c)
			}

			id, err := m.refresher.Refresh(c.Request().Context(), sess.Data.RefreshToken)
			if err != nil {
				log.Warn("Token refresh failed for %s: %v", sess.Data.UserID, err)
				return unauthorized(c)
			}

			sess.Data.AccessToken = id.AccessToken
			if id.RefreshToken != "" {
				sess.Data.RefreshToken = id.RefreshToken
			}
			if id.IDToken != "" {
				sess.Data.IDToken = id.IDToken
				sess.Data.Claims = id.Claims
			}
			sess.Data.ExpiresAt = id.ExpiresAt.Unix()
			if err := m.sessions.Save(c, sess); err != nil {
				return unauthorized(c)
			}

			c.Set("userID", sess.Data.UserID)
			return next(c)
		}
	}
}

// GetUserID returns the authenticated user's id
func GetUserID(c echo.Context) string {
	if id, ok := c.Get("userID").(string); ok {
		return id
	}
	return ""
}
