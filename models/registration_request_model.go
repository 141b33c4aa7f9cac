package models

import "time"

type ChildRegistrationRequest struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	ChildID             uint       `gorm:"not null;index" json:"child_id"`
	InstitutionID       uint       `gorm:"not null" json:"institution_id"`
	RequestedByParentID uint       `gorm:"not null" json:"requested_by_parent_id"`
	Status              string     `gorm:"size:10;not null;default:'Pending'" json:"status"`
	RequestedAt         time.Time  `json:"requested_at"`
	ReviewedAt          *time.Time `json:"reviewed_at"`
	Notes               *string    `gorm:"type:text" json:"notes"`
	AssignedManagerID   *uint      `json:"assigned_manager_id"`

	Child           Child       `gorm:"foreignkey:ChildID" json:"child,omitempty"`
	Institution     Institution `gorm:"foreignkey:InstitutionID" json:"institution,omitempty"`
	AssignedManager *User       `gorm:"foreignkey:AssignedManagerID" json:"assigned_manager,omitempty"`
}
