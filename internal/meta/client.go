// Package meta talks to the ads platform: OAuth delegation and Graph API reads.
package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"draperads/internal/config"
	"draperads/internal/utils/logger"
)

var ErrNoToken = errors.New("ads platform is not connected")

var log = logger.New("META")

// APIError is returned for any non-2xx Graph API response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api returned %d: %s", e.Status, e.Message)
}

type AdAccount struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
	Currency      string `json:"currency"`
}

type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	AccessToken string `json:"access_token,omitempty"`
}

type InstagramAccount struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

type Campaign struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Objective string `json:"objective"`
}

type AdSet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	CampaignID string `json:"campaign_id"`
}

// AdRequest is the creative and targeting forwarded on publish.
type AdRequest struct {
	AdAccountID       string         `json:"adAccountId"`
	CampaignID        string         `json:"campaignId,omitempty"`
	Name              string         `json:"name"`
	CampaignObjective string         `json:"campaignObjective"`
	Placements        []string       `json:"placements"`
	Enhancements      map[string]any `json:"enhancements,omitempty"`
	PrimaryText       string         `json:"primaryText"`
	Headline          string         `json:"headline"`
	Description       string         `json:"description,omitempty"`
	CTA               string         `json:"cta"`
	WebsiteURL        string         `json:"websiteUrl"`
	MediaURL          string         `json:"mediaUrl,omitempty"`
}

// AdResult is the platform's answer to an ad creation.
type AdResult struct {
	ID      string `json:"id"`
	AdSetID string `json:"adSetId"`
	Success bool   `json:"success"`
}

type Client struct {
	oauth    *oauth2.Config
	graphURL string
	http     *http.Client
}

func NewClient(cfg config.MetaConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	graphURL := strings.TrimRight(cfg.GraphURL, "/")

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.DialogURL,
				TokenURL:  graphURL + "/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		graphURL: graphURL,
		http:     httpClient,
	}
}

// LoginURL builds the authorization dialog URL. The caller keeps state for the callback.
func (c *Client) LoginURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", "code"))
}

// HandleCallback exchanges an authorization code for an access token.
func (c *Client) HandleCallback(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, errors.New("authorization code is required")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, log.Error("Failed to exchange code for token", err)
	}
	return token, nil
}

func (c *Client) GetAdAccounts(ctx context.Context, accessToken string) ([]AdAccount, error) {
	var out []AdAccount
	err := c.get(ctx, accessToken, "/me/adaccounts", "id,name,account_id,account_status,currency", nil, &out)
	return out, err
}

func (c *Client) GetPages(ctx context.Context, accessToken string) ([]Page, error) {
	var out []Page
	err := c.get(ctx, accessToken, "/me/accounts", "id,name,category,access_token", nil, &out)
	return out, err
}

func (c *Client) GetInstagramAccounts(ctx context.Context, accessToken, pageID string) ([]InstagramAccount, error) {
	var out []InstagramAccount
	err := c.get(ctx, accessToken, "/"+url.PathEscape(pageID)+"/instagram_accounts", "id,username,profile_picture_url", nil, &out)
	return out, err
}

func (c *Client) GetCampaigns(ctx context.Context, accessToken, accountID string) ([]Campaign, error) {
	var out []Campaign
	err := c.get(ctx, accessToken, "/"+url.PathEscape(accountID)+"/campaigns", "id,name,status,objective", nil, &out)
	return out, err
}

func (c *Client) GetAdSets(ctx context.Context, accessToken, accountID string) ([]AdSet, error) {
	var out []AdSet
	err := c.get(ctx, accessToken, "/"+url.PathEscape(accountID)+"/adsets", "id,name,status,campaign_id", nil, &out)
	return out, err
}

// CreateAd does not reach the platform yet; it returns synthesized ids.
// TODO: post the creative to /act_{id}/adcreatives and /act_{id}/ads once the app has ads_management approval.
func (c *Client) CreateAd(ctx context.Context, accessToken string, req AdRequest) (*AdResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info("Simulating ad creation %q on %s", req.Name, req.AdAccountID)
	return &AdResult{
		ID:      "mock_ad_" + uuid.NewString()[:8],
		AdSetID: "mock_adset_" + uuid.NewString()[:8],
		Success: true,
	}, nil
}

// get fetches a Graph edge and decodes its data array into out.
func (c *Client) get(ctx context.Context, accessToken, path, fields string, params url.Values, out interface{}) error {
	if accessToken == "" {
		return ErrNoToken
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("fields", fields)
	params.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.graphURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return log.Error("Graph request %s failed", err, path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: graphErrorMessage(body)}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode graph response: %w", err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		envelope.Data = json.RawMessage("[]")
	}
	return json.Unmarshal(envelope.Data, out)
}

func graphErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(body))
}
