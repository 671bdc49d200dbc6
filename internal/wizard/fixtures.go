package wizard

import "context"

type fixtureAccount struct {
	campaigns []Campaign
	adSets    []AdSet
	pages     []Page
	instagram []InstagramAccount
}

// FixtureProvider serves built-in sample data for two demo accounts.
type FixtureProvider struct {
	accounts map[string]fixtureAccount
}

func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{accounts: map[string]fixtureAccount{
		"act_1234567890": {
			campaigns: []Campaign{
				{ID: "camp_101", Name: "Summer Sale 2024", Status: StatusActive, Objective: "sales"},
				{ID: "camp_102", Name: "Brand Awareness Q3", Status: StatusActive, Objective: "awareness"},
				{ID: "camp_103", Name: "Holiday Preview", Status: StatusPaused, Objective: "traffic"},
			},
			adSets: []AdSet{
				{ID: "adset_1011", Name: "Women 25-34 Interests", Status: StatusActive, CampaignID: "camp_101"},
				{ID: "adset_1012", Name: "Lookalike Purchasers 1%", Status: StatusPaused, CampaignID: "camp_101"},
				{ID: "adset_1013", Name: "Retargeting Cart Abandoners", Status: StatusActive, CampaignID: "camp_101"},
				{ID: "adset_1021", Name: "Broad US 18-65", Status: StatusActive, CampaignID: "camp_102"},
				{ID: "adset_1022", Name: "Video Viewers 50%", Status: StatusActive, CampaignID: "camp_102"},
				{ID: "adset_1031", Name: "Past Holiday Buyers", Status: StatusPaused, CampaignID: "camp_103"},
			},
			pages: []Page{
				{ID: "page_501", Name: "Draper Retail"},
				{ID: "page_502", Name: "Draper Outlet"},
			},
			instagram: []InstagramAccount{
				{ID: "ig_601", Username: "draper.retail", PageID: "page_501"},
				{ID: "ig_602", Username: "draper.outlet", PageID: "page_502"},
			},
		},
		"act_9876543210": {
			campaigns: []Campaign{
				{ID: "camp_201", Name: "Lead Generation", Status: StatusActive, Objective: "leads"},
				{ID: "camp_202", Name: "App Installs", Status: StatusPaused, Objective: "app_promotion"},
			},
			adSets: []AdSet{
				{ID: "adset_2011", Name: "Small Business Owners", Status: StatusActive, CampaignID: "camp_201"},
				{ID: "adset_2012", Name: "Decision Makers", Status: StatusPaused, CampaignID: "camp_201"},
				{ID: "adset_2021", Name: "Android Users", Status: StatusPaused, CampaignID: "camp_202"},
				{ID: "adset_2022", Name: "iOS Users", Status: StatusActive, CampaignID: "camp_202"},
			},
			pages: []Page{
				{ID: "page_701", Name: "Draper Services"},
			},
			instagram: []InstagramAccount{
				{ID: "ig_801", Username: "draper.services", PageID: "page_701"},
			},
		},
	}}
}

func (p *FixtureProvider) account(id string) (fixtureAccount, error) {
	acct, ok := p.accounts[id]
	if !ok {
		return fixtureAccount{}, ErrUnknownAccount
	}
	return acct, nil
}

func (p *FixtureProvider) ListCampaigns(ctx context.Context, accountID string) ([]Campaign, error) {
	acct, err := p.account(accountID)
	if err != nil {
		return nil, err
	}
	return append([]Campaign(nil), acct.campaigns...), nil
}

func (p *FixtureProvider) ListAdSets(ctx context.Context, accountID string, campaignIDs []string) ([]AdSet, error) {
	acct, err := p.account(accountID)
	if err != nil {
		return nil, err
	}
	return append([]AdSet(nil), adSetsOf(acct.adSets, campaignIDs)...), nil
}

func (p *FixtureProvider) ListPages(ctx context.Context, accountID string) ([]Page, error) {
	acct, err := p.account(accountID)
	if err != nil {
		return nil, err
	}
	return append([]Page(nil), acct.pages...), nil
}

func (p *FixtureProvider) ListInstagramAccounts(ctx context.Context, accountID string) ([]InstagramAccount, error) {
	acct, err := p.account(accountID)
	if err != nil {
		return nil, err
	}
	return append([]InstagramAccount(nil), acct.instagram...), nil
}
