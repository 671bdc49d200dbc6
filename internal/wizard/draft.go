package wizard

import (
	"errors"

	"draperads/internal/api/validator"
	"draperads/internal/models"
)

// Field limits shown next to the creative inputs.
const (
	MaxPrimaryText = 125
	MaxHeadline    = 40
	MaxDescription = 30
)

// CreativeDraft is the in-progress creative of the design step.
type CreativeDraft struct {
	TemplateID  *uint  `json:"templateId"`
	MediaURL    string `json:"mediaUrl"`
	PrimaryText string `json:"primaryText" validate:"required,max=125"`
	Headline    string `json:"headline" validate:"required,max=40"`
	Description string `json:"description" validate:"max=30"`
	CTA         string `json:"cta" validate:"required,ad_cta"`
	WebsiteURL  string `json:"websiteUrl" validate:"required,url"`
	BrandName   string `json:"brandName" validate:"required"`
}

var draftValidator = validator.New()

// Validate returns one entry per invalid field, or nil.
func (d CreativeDraft) Validate() []validator.FieldError {
	err := draftValidator.Validate(&d)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve.Fields()
	}
	return []validator.FieldError{{Field: "", Message: err.Error()}}
}

// Valid reports whether the draft can leave the design step.
func (d CreativeDraft) Valid() bool {
	return len(d.Validate()) == 0
}

// Remaining is how many characters are left for primary text, headline and description.
func (d CreativeDraft) Remaining() (primaryText, headline, description int) {
	return MaxPrimaryText - len([]rune(d.PrimaryText)),
		MaxHeadline - len([]rune(d.Headline)),
		MaxDescription - len([]rune(d.Description))
}

// Ad converts the draft into a persistable ad row.
func (d CreativeDraft) Ad() models.Ad {
	return models.Ad{
		TemplateID:  d.TemplateID,
		MediaURL:    d.MediaURL,
		PrimaryText: d.PrimaryText,
		Headline:    d.Headline,
		Description: d.Description,
		CTA:         d.CTA,
		WebsiteURL:  d.WebsiteURL,
		BrandName:   d.BrandName,
	}
}

// DraftFromAd rehydrates a draft from a stored ad.
func DraftFromAd(ad models.Ad) CreativeDraft {
	return CreativeDraft{
		TemplateID:  ad.TemplateID,
		MediaURL:    ad.MediaURL,
		PrimaryText: ad.PrimaryText,
		Headline:    ad.Headline,
		Description: ad.Description,
		CTA:         ad.CTA,
		WebsiteURL:  ad.WebsiteURL,
		BrandName:   ad.BrandName,
	}
}
