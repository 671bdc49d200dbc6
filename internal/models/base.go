package models

import (
	"time"
)

// Base contains common columns for all catalog and ad tables
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdStatus is the lifecycle status shared by ads and ad sets.
type AdStatus string

const (
	AdStatusDraft     AdStatus = "draft"
	AdStatusPublished AdStatus = "published"
	AdStatusActive    AdStatus = "active"
	AdStatusCompleted AdStatus = "completed"
)

// AdStatuses lists every valid status in lifecycle order.
var AdStatuses = []AdStatus{AdStatusDraft, AdStatusPublished, AdStatusActive, AdStatusCompleted}

// IsValidAdStatus checks if a given status is one of the lifecycle values
func IsValidAdStatus(status AdStatus) bool {
	switch status {
	case AdStatusDraft, AdStatusPublished, AdStatusActive, AdStatusCompleted:
		return true
	default:
		return false
	}
}

// Call-to-action codes accepted by the ads platform.
const (
	CTALearnMore = "learn_more"
	CTAShopNow   = "shop_now"
	CTASignUp    = "sign_up"
	CTABookNow   = "book_now"
	CTAContactUs = "contact_us"
	CTADownload  = "download"
	CTAGetOffer  = "get_offer"
	CTASubscribe = "subscribe"
	CTAApplyNow  = "apply_now"
	CTAWatchMore = "watch_more"
)

var callToActions = map[string]bool{
	CTALearnMore: true,
	CTAShopNow:   true,
	CTASignUp:    true,
	CTABookNow:   true,
	CTAContactUs: true,
	CTADownload:  true,
	CTAGetOffer:  true,
	CTASubscribe: true,
	CTAApplyNow:  true,
	CTAWatchMore: true,
}

// IsValidCTA reports whether code is a known call-to-action.
func IsValidCTA(code string) bool {
	return callToActions[code]
}

// Campaign objectives accepted for ad sets.
var CampaignObjectives = []string{"awareness", "traffic", "engagement", "leads", "app_promotion", "sales"}
