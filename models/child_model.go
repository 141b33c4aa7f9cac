package models

import "time"

const (
	RegistrationNotRegistered = "Not Registered"
	RegistrationPending       = "Pending"
	RegistrationApproved      = "Approved"
	RegistrationRejected      = "Rejected"
	RegistrationArchived      = "Archived"
)

type Child struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	ParentID       uint    `gorm:"not null;index" json:"parent_id"`
	FullName       string  `gorm:"size:100;not null" json:"full_name"`
	DateOfBirth    *string `gorm:"size:10" json:"date_of_birth"`
	Gender         *string `gorm:"size:10" json:"gender"`
	DiagnosisID    *uint   `json:"diagnosis_id"`
	Photo          string  `gorm:"size:255" json:"photo"`
	MedicalHistory string  `gorm:"type:text" json:"medical_history"`

	RegistrationStatus   string `gorm:"size:20;not null;default:'Not Registered'" json:"registration_status"`
	CurrentInstitutionID *uint  `json:"current_institution_id"`

	// Soft delete: archived children stay out of default listings.
	DeletedAt *time.Time `json:"-"`

	Diagnosis *Diagnosis `gorm:"foreignkey:DiagnosisID" json:"diagnosis,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
