package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draperads/internal/config"
	"draperads/internal/db/dbtest"
	"draperads/internal/models"
)

func newTestManager(t *testing.T, secure bool) *Manager {
	t.Helper()
	m, err := NewManager(dbtest.New(t), config.LoadTestConfig().Session, secure)
	require.NoError(t, err)
	return m
}

func newTestEcho(m *Manager) *echo.Echo {
	e := echo.New()
	e.Use(m.Middleware())
	e.POST("/login", func(c echo.Context) error {
		sess := FromContext(c)
		sess.Data.UserID = "user-1"
		sess.Data.ExpiresAt = time.Now().Add(time.Hour).Unix()
		if err := m.Save(c, sess); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, FromContext(c).Data.UserID)
	})
	e.POST("/logout", func(c echo.Context) error {
		if err := m.Destroy(c, FromContext(c)); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	return e
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestSaveAndReload(t *testing.T) {
	m := newTestManager(t, false)
	e := newTestEcho(m)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	cookie := sessionCookie(t, rec, "draper.sid")
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestPayloadIsSealed(t *testing.T) {
	m := newTestManager(t, false)
	_, err := m.Issue(context.Background(), Data{UserID: "user-secret"})
	require.NoError(t, err)

	var row models.Session
	require.NoError(t, m.db.First(&row).Error)
	assert.NotContains(t, row.Sess, "user-secret")
}

func TestSecureCookieInProduction(t *testing.T) {
	m := newTestManager(t, true)
	cookie, err := m.Cookie("sid")
	require.NoError(t, err)
	assert.True(t, cookie.Secure)
	assert.Equal(t, 7*24*3600, cookie.MaxAge)
}

func TestTamperedCookieIsIgnored(t *testing.T) {
	m := newTestManager(t, false)
	e := newTestEcho(m)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "draper.sid", Value: "not-a-token"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "", rec.Body.String())
}

func TestSlidingExpiry(t *testing.T) {
	m := newTestManager(t, false)
	start := time.Now()
	m.now = func() time.Time { return start }

	cookie, err := m.Issue(context.Background(), Data{UserID: "user-1"})
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(6 * 24 * time.Hour) }
	e := newTestEcho(m)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	e.ServeHTTP(httptest.NewRecorder(), req)

	var row models.Session
	require.NoError(t, m.db.First(&row).Error)
	assert.WithinDuration(t, start.Add(13*24*time.Hour), row.Expire, time.Minute)
}

func TestDestroy(t *testing.T) {
	m := newTestManager(t, false)
	e := newTestEcho(m)

	cookie, err := m.Issue(context.Background(), Data{UserID: "user-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	m.db.Model(&models.Session{}).Count(&count)
	assert.Zero(t, count)
}

func TestPrune(t *testing.T) {
	m := newTestManager(t, false)
	start := time.Now()
	m.now = func() time.Time { return start }

	_, err := m.Issue(context.Background(), Data{UserID: "old"})
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(8 * 24 * time.Hour) }
	_, err = m.Issue(context.Background(), Data{UserID: "fresh"})
	require.NoError(t, err)

	n, err := m.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDataExpiry(t *testing.T) {
	now := time.Now()
	d := Data{UserID: "u", ExpiresAt: now.Add(time.Minute).Unix()}
	assert.True(t, d.Authenticated())
	assert.False(t, d.Expired(now))
	assert.True(t, d.Expired(now.Add(2*time.Minute)))
	assert.False(t, Data{}.Authenticated())
}

func TestPeek(t *testing.T) {
	m := newTestManager(t, false)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	assert.Nil(t, m.Peek(e.NewContext(req, httptest.NewRecorder())))

	cookie, err := m.Issue(context.Background(), Data{UserID: "user-9", ExpiresAt: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	sess := m.Peek(e.NewContext(req, rec))
	require.NotNil(t, sess)
	assert.Equal(t, "user-9", sess.Data.UserID)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRegenerate(t *testing.T) {
	m := newTestManager(t, false)
	e := newTestEcho(m)
	e.POST("/elevate", func(c echo.Context) error {
		sess := FromContext(c)
		sess.Data.UserID = "user-2"
		if err := m.Regenerate(c, sess); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	before := sessionCookie(t, rec, "draper.sid")

	req := httptest.NewRequest(http.MethodPost, "/elevate", nil)
	req.AddCookie(before)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var after *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "draper.sid" {
			after = c
		}
	}
	require.NotNil(t, after)
	assert.NotEqual(t, before.Value, after.Value)

	for cookie, want := range map[*http.Cookie]string{before: "", after: "user-2"} {
		req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(cookie)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Body.String())
	}

	var n int64
	m.db.Model(&models.Session{}).Count(&n)
	assert.Equal(t, int64(1), n)
}
