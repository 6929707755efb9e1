package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	Phone             *string `gorm:"size:20" json:"phone,omitempty"`
	Bio               *string `gorm:"type:text" json:"bio,omitempty"`
	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleMarketer   = "marketer"
	RoleAdmin      = "admin"
)
