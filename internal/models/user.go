package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User rows are written by the signup/auth service; this service only reads
// them to resolve payment ownership by email.
type User struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Email       string    `gorm:"unique;not null"`
	FullName    string
	Username    string
	PhoneNumber string
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
