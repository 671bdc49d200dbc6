// Package session keeps server-side sessions in the sessions table.
// The cookie carries only a signed session id; the row holds the sealed payload.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"draperads/internal/config"
	"draperads/internal/models"
	"draperads/internal/utils"
	"draperads/internal/utils/crypto"
	"draperads/internal/utils/logger"
)

const contextKey = "session"

var ErrNoSession = errors.New("no session")

var log = logger.New("SESSION")

// Data is everything a session remembers between requests.
type Data struct {
	UserID       string         `json:"userId,omitempty"`
	Claims       map[string]any `json:"claims,omitempty"`
	AccessToken  string         `json:"accessToken,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	IDToken      string         `json:"idToken,omitempty"`
	ExpiresAt    int64          `json:"expiresAt,omitempty"`

	// Pending identity-provider login.
	LoginState    string `json:"loginState,omitempty"`
	LoginVerifier string `json:"loginVerifier,omitempty"`
	LoginDomain   string `json:"loginDomain,omitempty"`

	// Ads platform delegation.
	MetaAccessToken string `json:"metaAccessToken,omitempty"`
	MetaState       string `json:"metaState,omitempty"`
}

// Authenticated reports whether the session belongs to a logged-in user.
func (d Data) Authenticated() bool {
	return d.UserID != "" && d.ExpiresAt != 0
}

// Expired reports whether the identity access token is past its expiry.
func (d Data) Expired(now time.Time) bool {
	return now.Unix() >= d.ExpiresAt
}

type Session struct {
	ID   string
	Data Data
	New  bool
}

type Manager struct {
	db     *gorm.DB
	sealer *crypto.Sealer
	secret string
	name   string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(db *gorm.DB, cfg config.SessionConfig, secure bool) (*Manager, error) {
	sealer, err := crypto.NewSealer(cfg.Secret, "draperads session payload")
	if err != nil {
		return nil, log.Error("Failed to create session sealer", err)
	}

	ttl := time.Duration(cfg.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	name := cfg.CookieName
	if name == "" {
		name = "draper.sid"
	}

	return &Manager{
		db:     db,
		sealer: sealer,
		secret: cfg.Secret,
		name:   name,
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}, nil
}

// Middleware attaches a session to every request. A valid cookie loads the
// stored row and slides its expiry forward; otherwise an empty, unsaved
// session is attached.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := m.fromCookie(c)
			if sess == nil {
				sess = &Session{ID: uuid.NewString(), New: true}
			} else if err := m.touch(c, sess); err != nil {
				log.Warn("Failed to extend session: %v", err)
			}
			c.Set(contextKey, sess)
			return next(c)
		}
	}
}

func (m *Manager) fromCookie(c echo.Context) *Session {
	cookie, err := c.Cookie(m.name)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sid, err := utils.ParseSessionToken(cookie.Value, m.secret)
	if err != nil {
		log.Debug("Ignoring session cookie: %v", err)
		return nil
	}

	sess, err := m.Load(c.Request().Context(), sid)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			log.Warn("Failed to load session: %v", err)
		}
		return nil
	}
	return sess
}

// Peek returns the stored session named by the request cookie without
// attaching it or extending its expiry. It returns nil when there is none.
func (m *Manager) Peek(c echo.Context) *Session {
	return m.fromCookie(c)
}

// FromContext returns the session the middleware attached.
func FromContext(c echo.Context) *Session {
	if sess, ok := c.Get(contextKey).(*Session); ok {
		return sess
	}
	return nil
}

// Load fetches an unexpired session by id.
func (m *Manager) Load(ctx context.Context, sid string) (*Session, error) {
	var row models.Session
	err := m.db.WithContext(ctx).Where("sid = ? AND expire > ?", sid, m.now()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	plain, err := m.sealer.Open(row.Sess)
	if err != nil {
		return nil, fmt.Errorf("failed to open session %s: %w", sid, err)
	}

	sess := &Session{ID: sid}
	if err := json.Unmarshal(plain, &sess.Data); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sid, err)
	}
	return sess, nil
}

// Save persists the session and (re)issues its cookie.
func (m *Manager) Save(c echo.Context, sess *Session) error {
	if err := m.persist(c.Request().Context(), sess); err != nil {
		return err
	}
	return m.setCookie(c, sess.ID)
}

// Regenerate moves sess to a new id, deletes the row stored under the old
// one and saves the data under the new id. Call it whenever the session's
// privilege changes, such as at login.
func (m *Manager) Regenerate(c echo.Context, sess *Session) error {
	if !sess.New {
		if err := m.db.WithContext(c.Request().Context()).
			Where("sid = ?", sess.ID).Delete(&models.Session{}).Error; err != nil {
			return log.Error("Failed to drop session %s", err, sess.ID)
		}
	}
	sess.ID = uuid.NewString()
	sess.New = true
	return m.Save(c, sess)
}

// Issue stores a fresh session holding data and returns its cookie.
func (m *Manager) Issue(ctx context.Context, data Data) (*http.Cookie, error) {
	sess := &Session{ID: uuid.NewString(), Data: data, New: true}
	if err := m.persist(ctx, sess); err != nil {
		return nil, err
	}
	return m.Cookie(sess.ID)
}

func (m *Manager) persist(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess.Data)
	if err != nil {
		return err
	}
	sealed, err := m.sealer.Seal(payload)
	if err != nil {
		return err
	}

	row := models.Session{SID: sess.ID, Sess: sealed, Expire: m.now().Add(m.ttl)}
	err = m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sid"}},
		DoUpdates: clause.AssignmentColumns([]string{"sess", "expire"}),
	}).Create(&row).Error
	if err != nil {
		return log.Error("Failed to save session", err)
	}

	sess.New = false
	return nil
}

// Destroy deletes the session row and expires the cookie.
func (m *Manager) Destroy(c echo.Context, sess *Session) error {
	if sess != nil {
		if err := m.db.WithContext(c.Request().Context()).
			Where("sid = ?", sess.ID).Delete(&models.Session{}).Error; err != nil {
			return log.Error("Failed to destroy session", err)
		}
		sess.Data = Data{}
	}

	c.SetCookie(&http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) touch(c echo.Context, sess *Session) error {
	err := m.db.WithContext(c.Request().Context()).Model(&models.Session{}).
		Where("sid = ?", sess.ID).Update("expire", m.now().Add(m.ttl)).Error
	if err != nil {
		return err
	}
	return m.setCookie(c, sess.ID)
}

func (m *Manager) setCookie(c echo.Context, sid string) error {
	cookie, err := m.Cookie(sid)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	return nil
}

// Cookie builds the signed session cookie for sid.
func (m *Manager) Cookie(sid string) (*http.Cookie, error) {
	token, err := utils.GenerateSessionToken(sid, m.ttl, m.secret)
	if err != nil {
		return nil, log.Error("Failed to sign session cookie", err)
	}

	return &http.Cookie{
		Name:     m.name,
		Value:    token,
		Path:     "/",
		Expires:  m.now().Add(m.ttl),
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Prune deletes expired sessions and returns how many were removed.
func (m *Manager) Prune(ctx context.Context) (int64, error) {
	res := m.db.WithContext(ctx).Where("expire <= ?", m.now()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, log.Error("Failed to prune sessions", res.Error)
	}
	return res.RowsAffected, nil
}
