package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"draperads/internal/events"
	"draperads/internal/meta"
	"draperads/internal/metrics"
	"draperads/internal/models"
	"draperads/internal/utils/logger"
)

var (
	ErrInvalidStatus   = errors.New("invalid ad status")
	ErrPublishRejected = errors.New("ads platform rejected the ad")
	ErrNoPublisher     = errors.New("no ads platform publisher configured")
)

// Publisher creates the ad on the ads platform.
type Publisher interface {
	CreateAd(ctx context.Context, accessToken string, req meta.AdRequest) (*meta.AdResult, error)
}

// PublishResult is what a successful publish returns to the caller.
type PublishResult struct {
	Ad           *models.Ad     `json:"ad"`
	AdSet        *models.AdSet  `json:"adSet"`
	MetaResponse *meta.AdResult `json:"metaResponse"`
}

type AdService struct {
	*BaseServiceImpl[models.Ad]
	db        *gorm.DB
	publisher Publisher
	log       *logger.Logger
}

func NewAdService(db *gorm.DB, publisher Publisher) *AdService {
	return &AdService{
		BaseServiceImpl: NewBaseService(db, models.Ad{},
			WithUpdateOmit[models.Ad]("status", "published_at", "meta_ad_id", "statistics")),
		db:        db,
		publisher: publisher,
		log:       logger.New("AdService"),
	}
}

// UpdateStatus moves an ad to status. published_at is written only when
// the new status is published.
func (s *AdService) UpdateStatus(ctx context.Context, id uint, status models.AdStatus) (*models.Ad, error) {
	if !models.IsValidAdStatus(status) {
		return nil, ErrInvalidStatus
	}

	db := s.db.WithContext(ctx)
	ad, err := models.GetAdByID(id, db)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if status == models.AdStatusPublished {
		updates["published_at"] = time.Now()
	}
	if err := db.Model(ad).Updates(updates).Error; err != nil {
		return nil, s.log.Error("Failed to update status of ad %d", err, id)
	}

	if ad, err = models.GetAdByID(id, db); err != nil {
		return nil, err
	}

	events.Emit(events.AdUpdated, ad)
	return ad, nil
}

// Publish creates an ad set for the ad, pushes both to the ads platform and
// marks them active. Every write happens in one transaction: if any step
// fails nothing is persisted.
func (s *AdService) Publish(ctx context.Context, adID uint, set models.AdSet, accessToken string) (*PublishResult, error) {
	if s.publisher == nil {
		return nil, ErrNoPublisher
	}
	result := &PublishResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ad, err := models.GetAdByID(adID, tx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		set.ResetIdentity()
		set.AdID = ad.ID
		set.Status = models.AdStatusDraft
		set.MetaAdSetID = nil
		if err := tx.Omit(clause.Associations).Create(&set).Error; err != nil {
			return fmt.Errorf("failed to create ad set: %w", err)
		}

		res, err := s.publisher.CreateAd(ctx, accessToken, meta.AdRequest{
			AdAccountID:       set.AccountID,
			CampaignID:        set.CampaignID,
			Name:              set.Name,
			CampaignObjective: set.CampaignObjective,
			Placements:        set.Placements,
			Enhancements:      set.Enhancements,
			PrimaryText:       ad.PrimaryText,
			Headline:          ad.Headline,
			Description:       ad.Description,
			CTA:               ad.CTA,
			WebsiteURL:        ad.WebsiteURL,
			MediaURL:          ad.MediaURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create ad on platform: %w", err)
		}
		if res == nil || !res.Success {
			return ErrPublishRejected
		}

		adUpdates := map[string]interface{}{
			"status":     models.AdStatusActive,
			"meta_ad_id": res.ID,
		}
		if ad.PublishedAt == nil {
			adUpdates["published_at"] = time.Now()
		}
		if err := tx.Model(ad).Updates(adUpdates).Error; err != nil {
			return fmt.Errorf("failed to activate ad: %w", err)
		}

		if err := tx.Model(&set).Updates(map[string]interface{}{
			"status":         models.AdStatusActive,
			"meta_ad_set_id": res.AdSetID,
		}).Error; err != nil {
			return fmt.Errorf("failed to activate ad set: %w", err)
		}

		freshAd, err := models.GetAdByID(ad.ID, tx)
		if err != nil {
			return err
		}
		var freshSet models.AdSet
		if err := tx.First(&freshSet, set.ID).Error; err != nil {
			return err
		}

		result.Ad = freshAd
		result.AdSet = &freshSet
		result.MetaResponse = res
		return nil
	})
	if err != nil {
		metrics.AdsPublished.WithLabelValues("failed").Inc()
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, s.log.Error("Publish of ad %d rolled back", err, adID)
	}

	metrics.AdsPublished.WithLabelValues("ok").Inc()
	events.Emit(events.AdPublished, result)
	return result, nil
}
