package models

import (
	"gorm.io/gorm"
)

// GetAdByID retrieves an ad by its primary key
func GetAdByID(id uint, db *gorm.DB) (*Ad, error) {
	ad := &Ad{}
	if err := db.First(ad, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return ad, nil
}

// GetUserByID retrieves a user by subject
func GetUserByID(id string, db *gorm.DB) (*User, error) {
	user := &User{}
	if err := db.Where("id = ?", id).First(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
