package workflow

import (
	"errors"
	"time"

	"github.com/rahaf-dev/sanad_backend/metrics"
	"github.com/rahaf-dev/sanad_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VacationService owns the vacation-request lifecycle: created and editable
// by the specialist while pending, decided once by an institution manager.
type VacationService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewVacationService(db *gorm.DB, logger *zap.Logger) *VacationService {
	return &VacationService{db: db, logger: logger, now: time.Now}
}

type VacationInput struct {
	StartDate string
	EndDate   string
	Reason    string
}

// UnavailableDatesResult pairs the committed session dates with "today" so
// callers can exclude past dates themselves.
type UnavailableDatesResult struct {
	UnavailableDates []string `json:"unavailable_dates"`
	Today            string   `json:"today"`
}

func (s *VacationService) validateRange(in VacationInput) error {
	if in.StartDate == "" || in.EndDate == "" {
		return Validationf("start date and end date are required")
	}
	if _, err := time.Parse(DateLayout, in.StartDate); err != nil {
		return Validationf("invalid start date format")
	}
	if _, err := time.Parse(DateLayout, in.EndDate); err != nil {
		return Validationf("invalid end date format")
	}
	// ISO date strings order lexicographically.
	if in.StartDate < s.now().Format(DateLayout) {
		return PastDate("start date cannot be in the past")
	}
	if in.StartDate > in.EndDate {
		return Validationf("start date must be before end date")
	}
	return nil
}

func (s *VacationService) specialistProfile(tx *gorm.DB, userID uint) (*models.Specialist, error) {
	var specialist models.Specialist
	if err := tx.First(&specialist, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("not a specialist")
		}
		return nil, Internal(err)
	}
	return &specialist, nil
}

func loadVacation(tx *gorm.DB, id, specialistID uint) (*models.VacationRequest, error) {
	var vacation models.VacationRequest
	err := tx.First(&vacation, "id = ? AND specialist_id = ?", id, specialistID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("vacation request not found")
		}
		return nil, Internal(err)
	}
	return &vacation, nil
}

// Create files a new vacation request after checking it against the
// specialist's committed sessions.
func (s *VacationService) Create(actor Actor, in VacationInput) (*models.VacationRequest, error) {
	if err := actor.require(RoleSpecialist); err != nil {
		return nil, err
	}
	if err := s.validateRange(in); err != nil {
		return nil, err
	}

	var vacation *models.VacationRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		specialist, err := s.specialistProfile(tx, actor.UserID)
		if err != nil {
			return err
		}
		overlaps, err := VacationOverlaps(tx, actor.UserID, in.StartDate, in.EndDate)
		if err != nil {
			return err
		}
		if overlaps {
			metrics.ConflictsRejected.Inc()
			return Conflictf("vacation overlaps with a scheduled session")
		}

		reason := in.Reason
		vacation = &models.VacationRequest{
			SpecialistID:  actor.UserID,
			InstitutionID: specialist.InstitutionID,
			StartDate:     in.StartDate,
			EndDate:       in.EndDate,
			Reason:        &reason,
			Status:        models.VacationPending,
		}
		if err := tx.Create(vacation).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vacation request created",
		zap.Uint("request_id", vacation.ID),
		zap.Uint("specialist_id", actor.UserID))
	return vacation, nil
}

// Edit rewrites a pending request in place, re-running the same date and
// conflict validation. Decided requests are immutable to the specialist.
func (s *VacationService) Edit(actor Actor, requestID uint, in VacationInput) (*models.VacationRequest, error) {
	if err := actor.require(RoleSpecialist); err != nil {
		return nil, err
	}
	if err := s.validateRange(in); err != nil {
		return nil, err
	}

	var vacation *models.VacationRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		vacation, err = loadVacation(tx, requestID, actor.UserID)
		if err != nil {
			return err
		}
		if vacation.Status != models.VacationPending {
			return InvalidState("cannot modify an approved or rejected vacation")
		}
		overlaps, err := VacationOverlaps(tx, actor.UserID, in.StartDate, in.EndDate)
		if err != nil {
			return err
		}
		if overlaps {
			metrics.ConflictsRejected.Inc()
			return Conflictf("vacation overlaps with a scheduled session")
		}

		reason := in.Reason
		vacation.StartDate = in.StartDate
		vacation.EndDate = in.EndDate
		vacation.Reason = &reason
		if err := tx.Save(vacation).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vacation request updated", zap.Uint("request_id", vacation.ID))
	return vacation, nil
}

// Withdraw removes a pending request. Decided requests stay on record.
func (s *VacationService) Withdraw(actor Actor, requestID uint) error {
	if err := actor.require(RoleSpecialist); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		vacation, err := loadVacation(tx, requestID, actor.UserID)
		if err != nil {
			return err
		}
		if vacation.Status != models.VacationPending {
			return InvalidState("cannot delete an approved or rejected vacation")
		}
		if err := tx.Delete(vacation).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("vacation request withdrawn", zap.Uint("request_id", requestID))
	return nil
}

// ListMine returns the specialist's own requests, latest range first.
func (s *VacationService) ListMine(actor Actor) ([]models.VacationRequest, error) {
	if err := actor.require(RoleSpecialist); err != nil {
		return nil, err
	}
	var vacations []models.VacationRequest
	err := s.db.
		Where("specialist_id = ?", actor.UserID).
		Order("start_date desc").
		Find(&vacations).Error
	if err != nil {
		return nil, Internal(err)
	}
	return vacations, nil
}

// ListForInstitution returns every request filed against the manager's
// institution.
func (s *VacationService) ListForInstitution(actor Actor) ([]models.VacationRequest, error) {
	if err := actor.require(RoleManager); err != nil {
		return nil, err
	}
	manager, err := s.manager(actor)
	if err != nil {
		return nil, err
	}

	var vacations []models.VacationRequest
	err = s.db.
		Preload("Specialist").
		Where("institution_id = ?", *manager.InstitutionID).
		Order("created_at desc").
		Find(&vacations).Error
	if err != nil {
		return nil, Internal(err)
	}
	return vacations, nil
}

// Decide transitions a pending request to Approved or Rejected. The decision
// is terminal. It does not revisit sessions already scheduled inside the
// range; see DESIGN.md.
func (s *VacationService) Decide(actor Actor, requestID uint, approve bool) (*models.VacationRequest, error) {
	if err := actor.require(RoleManager); err != nil {
		return nil, err
	}
	manager, err := s.manager(actor)
	if err != nil {
		return nil, err
	}

	var vacation *models.VacationRequest
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var found models.VacationRequest
		err := tx.First(&found, "id = ? AND institution_id = ?", requestID, *manager.InstitutionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("vacation request not found")
			}
			return Internal(err)
		}
		vacation = &found
		if vacation.Status != models.VacationPending {
			return InvalidState("vacation request is already decided")
		}

		if approve {
			vacation.Status = models.VacationApproved
		} else {
			vacation.Status = models.VacationRejected
		}
		if err := tx.Save(vacation).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DecisionsProcessed.WithLabelValues("vacation", decisionLabel(approve)).Inc()
	s.logger.Info("vacation request decided",
		zap.Uint("request_id", vacation.ID),
		zap.Bool("approved", approve))
	return vacation, nil
}

// UnavailableDates lists the dates already blocked by committed sessions for
// a specialist, for booking calendars.
func (s *VacationService) UnavailableDates(specialistID uint) (*UnavailableDatesResult, error) {
	dates, err := CommittedSessionDates(s.db, specialistID)
	if err != nil {
		return nil, err
	}
	return &UnavailableDatesResult{
		UnavailableDates: dates,
		Today:            s.now().Format(DateLayout),
	}, nil
}

func (s *VacationService) manager(actor Actor) (*models.User, error) {
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
	return &manager, nil
}
