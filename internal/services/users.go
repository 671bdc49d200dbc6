package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"draperads/internal/events"
	"draperads/internal/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Upsert inserts the user or refreshes the profile columns of an existing row.
func (s *UserService) Upsert(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).First(user, "id = ?", user.ID).Error; err != nil {
		return err
	}

	events.Emit(events.UserLoggedIn, user)
	return nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := models.GetUserByID(id, s.db.WithContext(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
