package models

import "time"

type Institution struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Location    *string `gorm:"size:255" json:"location"`
	Website     *string `gorm:"size:100" json:"website"`
	ContactInfo *string `gorm:"size:100" json:"contact_info"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
