package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draperads/internal/config"
)

type fakeIssuer struct {
	server     *httptest.Server
	key        *rsa.PrivateKey
	lastForm   url.Values
	omitIDTok  bool
	subject    string
	jwksserved int
}

func newFakeIssuer(t *testing.T) *fakeIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &fakeIssuer{key: key, subject: "12345"}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":                 f.server.URL,
			"authorization_endpoint": f.server.URL + "/auth",
			"token_endpoint":         f.server.URL + "/token",
			"jwks_uri":               f.server.URL + "/jwks",
			"end_session_endpoint":   f.server.URL + "/session/end",
		})
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		f.jwksserved++
		pub, err := jwk.New(&f.key.PublicKey)
		require.NoError(t, err)
		require.NoError(t, pub.Set(jwk.KeyIDKey, "test-key"))
		require.NoError(t, pub.Set(jwk.AlgorithmKey, "RS256"))
		set := jwk.NewSet()
		set.Add(pub)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.lastForm = r.PostForm
		resp := map[string]any{
			"access_token":  "access-" + r.PostForm.Get("grant_type"),
			"token_type":    "Bearer",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		}
		if !f.omitIDTok {
			resp["id_token"] = f.idToken(t, "test-client")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeIssuer) idToken(t *testing.T, audience string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":        f.server.URL,
		"aud":        audience,
		"sub":        f.subject,
		"email":      "Don@Draper.example",
		"first_name": "Don",
		"last_name":  "Draper",
		"exp":        time.Now().Add(time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	})
	token.Header["kid"] = "test-key"
	signed, err := token.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

func newTestProvider(t *testing.T, f *fakeIssuer) *Provider {
	t.Helper()
	cfg := config.AuthConfig{
		IssuerURL: f.server.URL,
		ClientID:  "test-client",
		Domains:   []string{"example.com", "localhost:5000"},
		Scopes:    []string{"openid", "email", "profile", "offline_access"},
	}
	p, err := NewProvider(context.Background(), cfg, f.server.Client())
	require.NoError(t, err)
	return p
}

func TestAuthCodeURL(t *testing.T) {
	f := newFakeIssuer(t)
	p := newTestProvider(t, f)

	raw, err := p.AuthCodeURL("example.com", "state-1", "verifier-verifier-verifier-verifier-1234")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "/auth", u.Path)
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "https://example.com/api/callback", q.Get("redirect_uri"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.Equal(t, "login consent", q.Get("prompt"))

	raw, err = p.AuthCodeURL("localhost:5000", "s", "v")
	require.NoError(t, err)
	assert.Contains(t, raw, url.QueryEscape("http://localhost:5000/api/callback"))
}

func TestAuthCodeURLUnknownDomain(t *testing.T) {
	p := newTestProvider(t, newFakeIssuer(t))
	_, err := p.AuthCodeURL("evil.example", "s", "v")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestExchange(t *testing.T) {
	f := newFakeIssuer(t)
	p := newTestProvider(t, f)

	id, err := p.Exchange(context.Background(), "example.com", "code-1", "verifier-1")
	require.NoError(t, err)

	assert.Equal(t, "verifier-1", f.lastForm.Get("code_verifier"))
	assert.Equal(t, "code-1", f.lastForm.Get("code"))
	assert.Equal(t, "12345", id.Subject)
	assert.Equal(t, "Don@Draper.example", id.Email)
	assert.Equal(t, "Don", id.FirstName)
	assert.Equal(t, "Draper", id.LastName)
	assert.Equal(t, "access-authorization_code", id.AccessToken)
	assert.Equal(t, "refresh-1", id.RefreshToken)
	assert.True(t, id.ExpiresAt.After(time.Now()))
}

func TestExchangeWithoutIDToken(t *testing.T) {
	f := newFakeIssuer(t)
	f.omitIDTok = true
	p := newTestProvider(t, f)

	_, err := p.Exchange(context.Background(), "example.com", "code-1", "verifier-1")
	assert.ErrorIs(t, err, ErrMissingIDToken)
}

func TestVerifyIDTokenRejectsWrongAudience(t *testing.T) {
	f := newFakeIssuer(t)
	p := newTestProvider(t, f)

	_, err := p.VerifyIDToken(context.Background(), f.idToken(t, "someone-else"))
	assert.ErrorIs(t, err, ErrInvalidIDToken)
}

func TestVerifyIDTokenCachesKeys(t *testing.T) {
	f := newFakeIssuer(t)
	p := newTestProvider(t, f)

	for i := 0; i < 3; i++ {
		_, err := p.VerifyIDToken(context.Background(), f.idToken(t, "test-client"))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.jwksserved)
}

func TestRefresh(t *testing.T) {
	f := newFakeIssuer(t)
	p := newTestProvider(t, f)

	id, err := p.Refresh(context.Background(), "refresh-0")
	require.NoError(t, err)
	assert.Equal(t, "refresh_token", f.lastForm.Get("grant_type"))
	assert.Equal(t, "refresh-0", f.lastForm.Get("refresh_token"))
	assert.Equal(t, "access-refresh_token", id.AccessToken)
	assert.Equal(t, "12345", id.Subject)
}

func TestEndSessionURL(t *testing.T) {
	f := newFakeIssuer(t)
	p := newTestProvider(t, f)

	u, err := url.Parse(p.EndSessionURL("https://example.com"))
	require.NoError(t, err)
	assert.Equal(t, "/session/end", u.Path)
	assert.Equal(t, "test-client", u.Query().Get("client_id"))
	assert.Equal(t, "https://example.com", u.Query().Get("post_logout_redirect_uri"))
}
