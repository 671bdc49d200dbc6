package handlers

import (
	"context"

	"golang.org/x/oauth2"

	"draperads/internal/auth"
	"draperads/internal/meta"
	"draperads/internal/suggest"
)

// MediaStorage persists uploaded media and returns its public URL and stored name.
type MediaStorage interface {
	Save(ctx context.Context, data []byte, filename, contentType string) (url string, name string, err error)
}

// ImageAnalyzer proposes ad copy for an image.
type ImageAnalyzer interface {
	Enabled() bool
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) suggest.Suggestions
}

// IdentityProvider is the login side of the OpenID Connect adapter.
type IdentityProvider interface {
	AuthCodeURL(domain, state, verifier string) (string, error)
	Exchange(ctx context.Context, domain, code, verifier string) (*auth.Identity, error)
	EndSessionURL(postLogout string) string
}

// MetaAPI is the ads platform client.
type MetaAPI interface {
	LoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*oauth2.Token, error)
	GetAdAccounts(ctx context.Context, accessToken string) ([]meta.AdAccount, error)
	GetPages(ctx context.Context, accessToken string) ([]meta.Page, error)
	GetInstagramAccounts(ctx context.Context, accessToken, pageID string) ([]meta.InstagramAccount, error)
	GetCampaigns(ctx context.Context, accessToken, accountID string) ([]meta.Campaign, error)
	GetAdSets(ctx context.Context, accessToken, accountID string) ([]meta.AdSet, error)
	CreateAd(ctx context.Context, accessToken string, req meta.AdRequest) (*meta.AdResult, error)
}
