package models

import "time"

type Specialist struct {
	UserID          uint    `gorm:"primaryKey" json:"user_id"`
	Specialization  *string `gorm:"size:100" json:"specialization"`
	YearsExperience int     `gorm:"default:0" json:"years_experience"`
	InstitutionID   *uint   `json:"institution_id"`

	User        User         `gorm:"foreignkey:UserID" json:"user,omitempty"`
	Institution *Institution `gorm:"foreignkey:InstitutionID" json:"institution,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
