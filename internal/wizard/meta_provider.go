package wizard

import (
	"context"
	"strings"

	"draperads/internal/meta"
)

// GraphReader is the read side of the ads platform client.
type GraphReader interface {
	GetCampaigns(ctx context.Context, accessToken, accountID string) ([]meta.Campaign, error)
	GetAdSets(ctx context.Context, accessToken, accountID string) ([]meta.AdSet, error)
	GetPages(ctx context.Context, accessToken string) ([]meta.Page, error)
	GetInstagramAccounts(ctx context.Context, accessToken, pageID string) ([]meta.InstagramAccount, error)
}

// MetaProvider reads targeting data live from the ads platform on behalf
// of one connected user.
type MetaProvider struct {
	client GraphReader
	token  string
}

func NewMetaProvider(client GraphReader, accessToken string) *MetaProvider {
	return &MetaProvider{client: client, token: accessToken}
}

func (p *MetaProvider) ListCampaigns(ctx context.Context, accountID string) ([]Campaign, error) {
	campaigns, err := p.client.GetCampaigns(ctx, p.token, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, Campaign{ID: c.ID, Name: c.Name, Status: strings.ToUpper(c.Status), Objective: c.Objective})
	}
	return out, nil
}

func (p *MetaProvider) ListAdSets(ctx context.Context, accountID string, campaignIDs []string) ([]AdSet, error) {
	sets, err := p.client.GetAdSets(ctx, p.token, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]AdSet, 0, len(sets))
	for _, s := range sets {
		out = append(out, AdSet{ID: s.ID, Name: s.Name, Status: strings.ToUpper(s.Status), CampaignID: s.CampaignID})
	}
	return adSetsOf(out, campaignIDs), nil
}

// ListPages returns the pages of the connected user; pages are not scoped
// to an ad account on the platform.
func (p *MetaProvider) ListPages(ctx context.Context, accountID string) ([]Page, error) {
	pages, err := p.client.GetPages(ctx, p.token)
	if err != nil {
		return nil, err
	}
	out := make([]Page, 0, len(pages))
	for _, pg := range pages {
		out = append(out, Page{ID: pg.ID, Name: pg.Name})
	}
	return out, nil
}

func (p *MetaProvider) ListInstagramAccounts(ctx context.Context, accountID string) ([]InstagramAccount, error) {
	pages, err := p.client.GetPages(ctx, p.token)
	if err != nil {
		return nil, err
	}
	out := make([]InstagramAccount, 0)
	for _, pg := range pages {
		accounts, err := p.client.GetInstagramAccounts(ctx, p.token, pg.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			out = append(out, InstagramAccount{ID: a.ID, Username: a.Username, PageID: pg.ID})
		}
	}
	return out, nil
}
