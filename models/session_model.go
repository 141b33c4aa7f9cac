package models

import "time"

const (
	SessionScheduled       = "Scheduled"
	SessionConfirmed       = "Confirmed"
	SessionPendingApproval = "PendingApproval"
	SessionCompleted       = "Completed"
	SessionCancelled       = "Cancelled"
	SessionAbsent          = "Absent"
	SessionRescheduled     = "Rescheduled"
)

const (
	SessionOnline = "Online"
	SessionOnsite = "Onsite"
)

const (
	DeletePending  = "Pending"
	DeleteApproved = "Approved"
	DeleteRejected = "Rejected"
)

// CommittedSessionStatuses are the statuses that occupy a specialist's
// time slot for conflict purposes.
var CommittedSessionStatuses = []string{SessionScheduled, SessionConfirmed, SessionCompleted}

// CommittedSlotIndex is the storage backstop against two committed sessions
// racing into the same (specialist, date, time) slot. Raw SQL because the
// index is partial, which gorm index tags cannot express; run it right after
// AutoMigrate. The WHERE clause must match CommittedSessionStatuses.
const CommittedSlotIndex = "CREATE UNIQUE INDEX IF NOT EXISTS uniq_committed_slot " +
	"ON sessions(specialist_id, date, time) " +
	"WHERE status IN ('Scheduled','Confirmed','Completed')"

// Session stores its calendar date as "2006-01-02" and its time of day as
// "15:04". ISO ordering keeps date comparisons plain string comparisons.
type Session struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	ChildID       uint  `gorm:"not null;index" json:"child_id"`
	SpecialistID  uint  `gorm:"not null;index" json:"specialist_id"`
	InstitutionID *uint `json:"institution_id"`
	SessionTypeID *uint `json:"session_type_id"`

	Date     string  `gorm:"size:10;not null" json:"date"`
	Time     string  `gorm:"size:5;not null" json:"time"`
	Duration int     `gorm:"not null;default:60" json:"duration"`
	Price    float64 `gorm:"type:numeric(10,2);default:0" json:"price"`

	SessionType string `gorm:"size:10;not null;default:'Onsite'" json:"session_type"`
	Status      string `gorm:"size:20;not null;default:'Scheduled'" json:"status"`

	RequestedByParent bool    `gorm:"not null;default:false" json:"requested_by_parent"`
	DeleteRequest     bool    `gorm:"not null;default:false" json:"delete_request"`
	DeleteStatus      *string `gorm:"size:10" json:"delete_status"`
	IsPending         bool    `gorm:"not null;default:false" json:"is_pending"`
	ParentApproved    *bool   `json:"parent_approved"`
	OriginalSessionID *uint   `json:"original_session_id"`
	Reason            *string `gorm:"type:text" json:"reason"`
	IsVisible         bool    `gorm:"not null;default:true" json:"is_visible"`

	Child       Child        `gorm:"foreignkey:ChildID" json:"child,omitempty"`
	Specialist  User         `gorm:"foreignkey:SpecialistID" json:"specialist,omitempty"`
	Institution *Institution `gorm:"foreignkey:InstitutionID" json:"institution,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
