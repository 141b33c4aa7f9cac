package models

import (
	"time"
)

const (
	RoleAdmin      = "Admin"
	RoleParent     = "Parent"
	RoleSpecialist = "Specialist"
	RoleManager    = "Manager"
)

const (
	UserActive   = "Active"
	UserInactive = "Inactive"
)

type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	FullName       string  `gorm:"size:100;not null" json:"full_name"`
	Email          string  `gorm:"size:100;not null;unique" json:"email"`
	Password       string  `gorm:"size:255;not null" json:"-"`
	Phone          *string `gorm:"size:20" json:"phone"`
	Role           string  `gorm:"size:20;not null;default:'Parent'" json:"role"`
	ProfilePicture *string `gorm:"size:255" json:"profile_picture"`
	Status         string  `gorm:"size:10;not null;default:'Active'" json:"status"`

	// Set for institution managers; which institution they decide for.
	InstitutionID *uint `json:"institution_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
