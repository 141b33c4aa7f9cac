package workflow

import (
	"errors"
	"time"

	"github.com/rahaf-dev/sanad_backend/metrics"
	"github.com/rahaf-dev/sanad_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegistrationService owns a child's application to be served by an
// institution, and the resulting changes to the child's registration state.
type RegistrationService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewRegistrationService(db *gorm.DB, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{db: db, logger: logger, now: time.Now}
}

type RegistrationRequestView struct {
	RequestID       uint       `json:"request_id"`
	InstitutionID   uint       `json:"institution_id"`
	InstitutionName string     `json:"institution_name"`
	Status          string     `json:"status"`
	RequestedAt     time.Time  `json:"requested_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	Notes           *string    `json:"notes"`
	AssignedManager *string    `json:"assigned_manager"`
}

type RegistrationStatusView struct {
	ChildID            uint                      `json:"child_id"`
	ChildName          string                    `json:"child_name"`
	RegistrationStatus string                    `json:"registration_status"`
	CurrentInstitution *models.Institution       `json:"current_institution"`
	Requests           []RegistrationRequestView `json:"registration_requests"`
}

// Create files a registration request and flips the child to Pending in the
// same transaction. A child can hold at most one pending request.
func (s *RegistrationService) Create(actor Actor, childID, institutionID uint) (*models.ChildRegistrationRequest, error) {
	if err := actor.require(RoleParent); err != nil {
		return nil, err
	}
	if childID == 0 || institutionID == 0 {
		return nil, Validationf("child and institution are required")
	}

	var request *models.ChildRegistrationRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		child, err := loadOwnedChild(tx, childID, actor.UserID)
		if err != nil {
			return err
		}
		var institution models.Institution
		if err := tx.First(&institution, "id = ?", institutionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("institution not found")
			}
			return Internal(err)
		}

		var pending int64
		err = tx.Model(&models.ChildRegistrationRequest{}).
			Where("child_id = ? AND status = ?", childID, models.RegistrationPending).
			Count(&pending).Error
		if err != nil {
			return Internal(err)
		}
		if pending > 0 {
			return Conflictf("child already has a pending registration request")
		}

		request = &models.ChildRegistrationRequest{
			ChildID:             childID,
			InstitutionID:       institutionID,
			RequestedByParentID: actor.UserID,
			Status:              models.RegistrationPending,
			RequestedAt:         s.now(),
		}
		if err := tx.Create(request).Error; err != nil {
			return Internal(err)
		}

		child.RegistrationStatus = models.RegistrationPending
		if err := tx.Save(child).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RegistrationRequests.Inc()
	s.logger.Info("registration request created",
		zap.Uint("request_id", request.ID),
		zap.Uint("child_id", childID),
		zap.Uint("institution_id", institutionID))
	return request, nil
}

// Decide resolves a pending request. Approval registers the child with the
// institution; rejection leaves the child marked Rejected (it does not revert
// to Not Registered, see DESIGN.md). Request and child rows change together.
func (s *RegistrationService) Decide(actor Actor, requestID uint, approve bool, notes string) (*models.ChildRegistrationRequest, error) {
	if err := actor.require(RoleManager); err != nil {
		return nil, err
	}

	var manager models.User
	if err := s.db.First(&manager, "id = ?", actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("not authorized")
		}
		return nil, Internal(err)
	}
	if manager.InstitutionID == nil {
		return nil, Unauthorized("manager has no institution")
	}

	var request *models.ChildRegistrationRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var found models.ChildRegistrationRequest
		if err := tx.First(&found, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("registration request not found")
			}
			return Internal(err)
		}
		request = &found
		if request.InstitutionID != *manager.InstitutionID {
			return Unauthorized("request belongs to another institution")
		}
		if request.Status != models.RegistrationPending {
			return InvalidState("registration request is already decided")
		}

		var child models.Child
		if err := tx.First(&child, "id = ?", request.ChildID).Error; err != nil {
			return Internal(err)
		}

		reviewedAt := s.now()
		request.ReviewedAt = &reviewedAt
		request.AssignedManagerID = &manager.ID
		if notes != "" {
			request.Notes = &notes
		}
		if approve {
			request.Status = models.RegistrationApproved
			child.RegistrationStatus = models.RegistrationApproved
			child.CurrentInstitutionID = &request.InstitutionID
		} else {
			request.Status = models.RegistrationRejected
			child.RegistrationStatus = models.RegistrationRejected
		}
		if err := tx.Save(request).Error; err != nil {
			return Internal(err)
		}
		if err := tx.Save(&child).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DecisionsProcessed.WithLabelValues("registration", decisionLabel(approve)).Inc()
	s.logger.Info("registration request decided",
		zap.Uint("request_id", request.ID),
		zap.Bool("approved", approve))
	return request, nil
}

// Status reports the child's registration state with the full request
// history, newest first.
func (s *RegistrationService) Status(actor Actor, childID uint) (*RegistrationStatusView, error) {
	if err := actor.require(RoleParent); err != nil {
		return nil, err
	}

	child, err := loadOwnedChild(s.db, childID, actor.UserID)
	if err != nil {
		return nil, err
	}

	view := &RegistrationStatusView{
		ChildID:            child.ID,
		ChildName:          child.FullName,
		RegistrationStatus: child.RegistrationStatus,
	}

	if child.CurrentInstitutionID != nil {
		var institution models.Institution
		if err := s.db.First(&institution, "id = ?", *child.CurrentInstitutionID).Error; err == nil {
			view.CurrentInstitution = &institution
		}
	}

	var requests []models.ChildRegistrationRequest
	err = s.db.
		Preload("Institution").
		Preload("AssignedManager").
		Where("child_id = ?", childID).
		Order("requested_at desc").
		Find(&requests).Error
	if err != nil {
		return nil, Internal(err)
	}

	view.Requests = make([]RegistrationRequestView, 0, len(requests))
	for _, r := range requests {
		item := RegistrationRequestView{
			RequestID:       r.ID,
			InstitutionID:   r.InstitutionID,
			InstitutionName: r.Institution.Name,
			Status:          r.Status,
			RequestedAt:     r.RequestedAt,
			ReviewedAt:      r.ReviewedAt,
			Notes:           r.Notes,
		}
		if r.AssignedManager != nil {
			item.AssignedManager = &r.AssignedManager.FullName
		}
		view.Requests = append(view.Requests, item)
	}
	return view, nil
}
