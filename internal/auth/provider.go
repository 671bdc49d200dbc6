// Package auth delegates login to an OpenID Connect provider.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/jwk"
	"golang.org/x/oauth2"

	"draperads/internal/config"
	"draperads/internal/utils/logger"
)

var (
	ErrUnknownDomain  = errors.New("domain is not configured for login")
	ErrMissingIDToken = errors.New("token response has no id_token")
	ErrInvalidIDToken = errors.New("invalid id_token")
)

var log = logger.New("OIDC")

// Identity is the outcome of a successful login or refresh.
type Identity struct {
	Subject         string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	Claims          map[string]any
	AccessToken     string
	RefreshToken    string
	IDToken         string
	ExpiresAt       time.Time
}

type discoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
	EndSessionEndpoint    string `json:"end_session_endpoint"`
}

// Provider holds one OAuth2 client configuration per allowed domain.
type Provider struct {
	cfg       config.AuthConfig
	discovery discoveryDocument
	client    *http.Client
	configs   map[string]*oauth2.Config

	mu   sync.Mutex
	keys jwk.Set
}

// NewProvider fetches the issuer's discovery document and prepares a
// client configuration for every configured domain.
func NewProvider(ctx context.Context, cfg config.AuthConfig, client *http.Client) (*Provider, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if len(cfg.Domains) == 0 {
		return nil, errors.New("at least one login domain is required")
	}

	p := &Provider{cfg: cfg, client: client, configs: make(map[string]*oauth2.Config)}
	if err := p.discover(ctx); err != nil {
		return nil, err
	}

	for _, domain := range cfg.Domains {
		p.configs[domain] = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  p.discovery.AuthorizationEndpoint,
				TokenURL: p.discovery.TokenEndpoint,
			},
			RedirectURL: callbackURL(domain),
			Scopes:      cfg.Scopes,
		}
		log.Info("Registered login strategy for %s", domain)
	}
	return p, nil
}

func callbackURL(domain string) string {
	scheme := "https"
	if strings.HasPrefix(domain, "localhost") || strings.HasPrefix(domain, "127.0.0.1") {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/api/callback", scheme, domain)
}

func (p *Provider) discover(ctx context.Context) error {
	endpoint := strings.TrimRight(p.cfg.IssuerURL, "/") + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return log.Error("Failed to fetch discovery document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return log.Error("Discovery request failed", fmt.Errorf("status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(&p.discovery); err != nil {
		return log.Error("Failed to decode discovery document", err)
	}
	if p.discovery.AuthorizationEndpoint == "" || p.discovery.TokenEndpoint == "" || p.discovery.JWKSURI == "" {
		return errors.New("discovery document is missing endpoints")
	}
	return nil
}

// Domains lists the hosts login may start from.
func (p *Provider) Domains() []string {
	return p.cfg.Domains
}

func (p *Provider) config(domain string) (*oauth2.Config, error) {
	cfg, ok := p.configs[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}
	return cfg, nil
}

func (p *Provider) context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.client)
}

// AuthCodeURL builds the provider login URL for domain using PKCE.
func (p *Provider) AuthCodeURL(domain, state, verifier string) (string, error) {
	cfg, err := p.config(domain)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "login consent"),
	), nil
}

// Exchange trades an authorization code for tokens and a verified identity.
func (p *Provider) Exchange(ctx context.Context, domain, code, verifier string) (*Identity, error) {
	cfg, err := p.config(domain)
	if err != nil {
		return nil, err
	}

	token, err := cfg.Exchange(p.context(ctx), code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, log.Error("Code exchange failed", err)
	}

	raw, _ := token.Extra("id_token").(string)
	if raw == "" {
		return nil, ErrMissingIDToken
	}
	return p.identity(ctx, token, raw)
}

// Refresh runs a refresh-token grant. Claims are only set when the
// provider returns a new id_token.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*Identity, error) {
	cfg, err := p.config(p.cfg.Domains[0])
	if err != nil {
		return nil, err
	}

	expired := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Now().Add(-time.Minute)}
	token, err := cfg.TokenSource(p.context(ctx), expired).Token()
	if err != nil {
		return nil, log.Error("Refresh grant failed", err)
	}

	raw, _ := token.Extra("id_token").(string)
	if raw == "" {
		return &Identity{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			ExpiresAt:    token.Expiry,
		}, nil
	}
	return p.identity(ctx, token, raw)
}

func (p *Provider) identity(ctx context.Context, token *oauth2.Token, rawIDToken string) (*Identity, error) {
	claims, err := p.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		Subject:         stringClaim(claims, "sub"),
		Email:           stringClaim(claims, "email"),
		FirstName:       stringClaim(claims, "first_name", "given_name"),
		LastName:        stringClaim(claims, "last_name", "family_name"),
		ProfileImageURL: stringClaim(claims, "profile_image_url", "picture"),
		Claims:          claims,
		AccessToken:     token.AccessToken,
		RefreshToken:    token.RefreshToken,
		IDToken:         rawIDToken,
		ExpiresAt:       token.Expiry,
	}
	if exp, ok := claims["exp"].(float64); ok {
		id.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if id.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidIDToken)
	}
	return id, nil
}

func stringClaim(claims map[string]any, names ...string) string {
	for _, name := range names {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// VerifyIDToken checks signature, issuer, audience and expiry.
func (p *Provider) VerifyIDToken(ctx context.Context, raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		return p.publicKey(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	if !claims.VerifyIssuer(p.discovery.Issuer, true) {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrInvalidIDToken)
	}
	if !claims.VerifyAudience(p.cfg.ClientID, true) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidIDToken)
	}
	return claims, nil
}

// publicKey looks kid up in the cached key set, refetching once on a miss.
func (p *Provider) publicKey(ctx context.Context, kid string) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		if p.keys == nil || attempt > 0 {
			set, err := jwk.Fetch(ctx, p.discovery.JWKSURI, jwk.WithHTTPClient(p.client))
			if err != nil {
				return nil, log.Error("Failed to fetch signing keys", err)
			}
			p.keys = set
		}

		key, found := p.keys.LookupKeyID(kid)
		if !found {
			continue
		}
		var pub interface{}
		if err := key.Raw(&pub); err != nil {
			return nil, err
		}
		return pub, nil
	}
	return nil, fmt.Errorf("signing key %q not found", kid)
}

// EndSessionURL is where logout sends the browser, returning to postLogout.
func (p *Provider) EndSessionURL(postLogout string) string {
	if p.discovery.EndSessionEndpoint == "" {
		return postLogout
	}
	q := url.Values{}
	q.Set("client_id", p.cfg.ClientID)
	q.Set("post_logout_redirect_uri", postLogout)
	return p.discovery.EndSessionEndpoint + "?" + q.Encode()
}
