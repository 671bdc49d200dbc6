package models

import (
	"fmt"

	console "draperads/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("SEEDER")

var defaultTemplates = []Template{
	{Name: "Single Image", PreviewImageURL: "/static/templates/single-image.png"},
	{Name: "Square Product", PreviewImageURL: "/static/templates/square-product.png"},
	{Name: "Story Vertical", PreviewImageURL: "/static/templates/story-vertical.png"},
	{Name: "Video Spotlight", PreviewImageURL: "/static/templates/video-spotlight.png"},
}

// Sample ad accounts; the wizard fixture data is keyed by these ids.
var defaultAdAccounts = []AdAccount{
	{AccountID: "act_1234567890", Name: "Draper Retail"},
	{AccountID: "act_9876543210", Name: "Draper Services"},
}

// SeedCatalog inserts templates and ad accounts when their tables are empty
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Template{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count templates: %w", err)
	}
	log.Info("Template count: %d", count)
	if count == 0 {
		templates := append([]Template(nil), defaultTemplates...)
		if err := db.Create(&templates).Error; err != nil {
			return fmt.Errorf("failed to seed templates: %w", err)
		}
	}

	if err := db.Model(&AdAccount{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count ad accounts: %w", err)
	}
	log.Info("Ad account count: %d", count)
	if count == 0 {
		accounts := append([]AdAccount(nil), defaultAdAccounts...)
		if err := db.Create(&accounts).Error; err != nil {
			return fmt.Errorf("failed to seed ad accounts: %w", err)
		}
	}

	return nil
}
