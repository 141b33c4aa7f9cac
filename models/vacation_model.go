package models

import "time"

const (
	VacationPending  = "Pending"
	VacationApproved = "Approved"
	VacationRejected = "Rejected"
)

// VacationRequest dates are "2006-01-02" strings, both ends inclusive.
type VacationRequest struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	SpecialistID  uint    `gorm:"not null;index" json:"specialist_id"`
	InstitutionID *uint   `gorm:"index" json:"institution_id"`
	StartDate     string  `gorm:"size:10;not null" json:"start_date"`
	EndDate       string  `gorm:"size:10;not null" json:"end_date"`
	Reason        *string `gorm:"type:text" json:"reason"`
	Status        string  `gorm:"size:10;not null;default:'Pending'" json:"status"`

	Specialist User `gorm:"foreignkey:SpecialistID" json:"specialist,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
