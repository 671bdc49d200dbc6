package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResetIdentity clears server-owned columns so a bound request body cannot set them.
func (b *Base) ResetIdentity() {
	b.ID = 0
	b.CreatedAt = time.Time{}
	b.UpdatedAt = time.Time{}
}

// ResetIdentity also clears the lifecycle columns; only status changes and
// publish move an ad out of draft.
func (a *Ad) ResetIdentity() {
	a.Base.ResetIdentity()
	a.Status = ""
	a.PublishedAt = nil
	a.MetaAdID = nil
	a.Statistics = nil
}

func (s *AdSet) ResetIdentity() {
	s.Base.ResetIdentity()
	s.Status = ""
	s.MetaAdSetID = nil
}

func (a *Ad) AfterFind(tx *gorm.DB) error {
	if a.Statistics == nil {
		a.Statistics = datatypes.JSONMap{}
	}
	return nil
}

func (s *AdSet) AfterFind(tx *gorm.DB) error {
	if s.Placements == nil {
		s.Placements = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}
