package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a rider account. Guests never get a row here.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	ScreenName   *string   `gorm:"size:50;uniqueIndex" json:"screen_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	AuthProvider string    `gorm:"size:50;default:'email'" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName returns the screen name, or an empty string when unset.
func (u *User) DisplayName() string {
	if u.ScreenName == nil {
		return ""
	}
	return *u.ScreenName
}
