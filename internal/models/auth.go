package models

import (
	"time"
)

// User is keyed by the identity provider's subject claim.
type User struct {
	ID              string    `gorm:"primaryKey;size:255" json:"id"`
	Email           string    `gorm:"index" json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DisplayName joins first and last name, falling back to the email.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Session is a server-side session row. Sess holds the sealed payload.
type Session struct {
	SID    string    `gorm:"primaryKey;column:sid;size:64"`
	Sess   string    `gorm:"type:text;not null"`
	Expire time.Time `gorm:"index;not null"`
}

func (Session) TableName() string {
	return "sessions"
}
