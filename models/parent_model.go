package models

import "time"

type Parent struct {
	UserID     uint    `gorm:"primaryKey" json:"user_id"`
	Address    *string `gorm:"size:255" json:"address"`
	Occupation *string `gorm:"size:100" json:"occupation"`

	User User `gorm:"foreignkey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
