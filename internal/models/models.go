package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template is a static catalog entry the creative is designed from.
type Template struct {
	Base
	Name            string `gorm:"not null" json:"name"`
	PreviewImageURL string `json:"previewImageUrl"`
}

// AdAccount references an advertising account on the ads platform.
type AdAccount struct {
	Base
	AccountID string `gorm:"uniqueIndex;not null" json:"accountId"`
	Name      string `gorm:"not null" json:"name"`
}

type Ad struct {
	Base
	TemplateID  *uint             `json:"templateId"`
	MediaURL    string            `json:"mediaUrl"`
	PrimaryText string            `gorm:"not null" json:"primaryText" validate:"required"`
	Headline    string            `gorm:"not null" json:"headline" validate:"required"`
	Description string            `json:"description"`
	CTA         string            `gorm:"column:cta;not null" json:"cta" validate:"required,ad_cta"`
	WebsiteURL  string            `gorm:"not null" json:"websiteUrl" validate:"required,url"`
	BrandName   string            `json:"brandName"`
	Status      AdStatus          `gorm:"type:varchar(16);not null;index" json:"status" validate:"omitempty,ad_status"`
	PublishedAt *time.Time        `json:"publishedAt"`
	MetaAdID    *string           `json:"metaAdId"`
	Statistics  datatypes.JSONMap `json:"statistics"`
	WizardState datatypes.JSON    `json:"wizardState,omitempty"`
	AdSets      []AdSet           `gorm:"foreignKey:AdID;constraint:OnDelete:CASCADE" json:"adSets,omitempty" validate:"-"`
}

func (a *Ad) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = AdStatusDraft
	}
	if a.Statistics == nil {
		a.Statistics = datatypes.JSONMap{}
	}
	a.MetaAdID = nil
	return nil
}

// AdSet is one targeting unit bound to exactly one Ad.
type AdSet struct {
	Base
	AdID              uint                        `gorm:"not null;index" json:"adId" validate:"required"`
	Ad                *Ad                         `json:"ad,omitempty" validate:"-"`
	Name              string                      `gorm:"not null" json:"name" validate:"required"`
	AccountID         string                      `gorm:"not null" json:"accountId" validate:"required"`
	CampaignID        string                      `json:"campaignId"`
	CampaignObjective string                      `gorm:"not null" json:"campaignObjective" validate:"required,campaign_objective"`
	Placements        datatypes.JSONSlice[string] `json:"placements" validate:"required,min=1,dive,required"`
	Enhancements      datatypes.JSONMap           `json:"enhancements,omitempty"`
	Status            AdStatus                    `gorm:"type:varchar(16);not null" json:"status" validate:"omitempty,ad_status"`
	MetaAdSetID       *string                     `json:"metaAdSetId"`
}

func (s *AdSet) BeforeCreate(tx *gorm.DB) error {
	if s.Status == "" {
		s.Status = AdStatusDraft
	}
	return nil
}
