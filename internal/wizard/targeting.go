// Package wizard models the three-step ad builder: design the creative,
// pick where it runs, then launch.
package wizard

import (
	"context"
	"errors"
)

const (
	StatusActive = "ACTIVE"
	StatusPaused = "PAUSED"
)

var ErrUnknownAccount = errors.New("unknown ad account")

type Campaign struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Objective string `json:"objective,omitempty"`
}

type AdSet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	CampaignID string `json:"campaignId"`
}

type Page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type InstagramAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	PageID   string `json:"pageId,omitempty"`
}

// TargetingProvider supplies the campaigns, ad sets and identities an ad
// can be distributed to.
type TargetingProvider interface {
	ListCampaigns(ctx context.Context, accountID string) ([]Campaign, error)
	// ListAdSets returns the ad sets of campaignIDs; nil lists the whole account.
	ListAdSets(ctx context.Context, accountID string, campaignIDs []string) ([]AdSet, error)
	ListPages(ctx context.Context, accountID string) ([]Page, error)
	ListInstagramAccounts(ctx context.Context, accountID string) ([]InstagramAccount, error)
}

func isActive(status string) bool {
	return status == StatusActive
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func adSetsOf(sets []AdSet, campaignIDs []string) []AdSet {
	if campaignIDs == nil {
		return sets
	}
	out := make([]AdSet, 0, len(sets))
	for _, s := range sets {
		if containsID(campaignIDs, s.CampaignID) {
			out = append(out, s)
		}
	}
	return out
}
