package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"draperads/internal/models"
)

func TestAdValidation(t *testing.T) {
	v := New()

	err := v.Validate(&models.Ad{})
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))

	fields := map[string]string{}
	for _, f := range ve.Fields() {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "primaryText is required", fields["primaryText"])
	assert.Contains(t, fields, "headline")
	assert.Contains(t, fields, "cta")
	assert.Contains(t, fields, "websiteUrl")
	assert.NotContains(t, fields, "brandName")
	assert.NotContains(t, fields, "status")
}

func TestAdValidationCustomTags(t *testing.T) {
	v := New()
	ad := &models.Ad{
		PrimaryText: "Buy now",
		Headline:    "Sale",
		CTA:         "buy_everything",
		WebsiteURL:  "https://x.com",
		Status:      "archived",
	}

	err := v.Validate(ad)
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))
	fields := ve.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "cta", fields[0].Field)
	assert.Equal(t, "status", fields[1].Field)

	ad.CTA = models.CTAShopNow
	ad.Status = models.AdStatusDraft
	assert.NoError(t, v.Validate(ad))
}

func TestNestedFieldPath(t *testing.T) {
	type publish struct {
		AdID      uint         `json:"adId" validate:"required"`
		AdSetData models.AdSet `json:"adSetData"`
	}

	err := New().Validate(&publish{
		AdID: 1,
		AdSetData: models.AdSet{
			AdID:              1,
			AccountID:         "acct1",
			CampaignObjective: "traffic",
			Placements:        datatypes.JSONSlice[string]{},
		},
	})
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))

	paths := []string{}
	for _, f := range ve.Fields() {
		paths = append(paths, f.Field)
	}
	assert.ElementsMatch(t, []string{"adSetData.name", "adSetData.placements"}, paths)
}
