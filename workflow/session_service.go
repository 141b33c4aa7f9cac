package workflow

import (
	"errors"
	"time"

	"github.com/rahaf-dev/sanad_backend/metrics"
	"github.com/rahaf-dev/sanad_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService owns the session state machine. Every mutation validates the
// actor first, then runs its conflict check and write inside one transaction.
type SessionService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewSessionService(db *gorm.DB, logger *zap.Logger) *SessionService {
	return &SessionService{db: db, logger: logger, now: time.Now}
}

type CreateSessionInput struct {
	ChildID       uint
	InstitutionID *uint
	SessionTypeID *uint
	Date          string
	Time          string
	Duration      int
	Price         float64
	SessionType   string
}

type ProposeRescheduleInput struct {
	Date   string
	Time   string
	Reason string
}

// UpcomingSession is the read model for a parent's schedule listing.
type UpcomingSession struct {
	SessionID       uint    `json:"session_id"`
	ChildName       string  `json:"child_name"`
	SpecialistName  string  `json:"specialist_name"`
	InstitutionName string  `json:"institution_name"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Duration        int     `json:"duration"`
	Price           float64 `json:"price"`
	SessionType     string  `json:"session_type"`
	Status          string  `json:"status"`
}

func (s *SessionService) startOf(date, timeOfDay string) (time.Time, error) {
	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+timeOfDay, time.Local)
	if err != nil {
		return time.Time{}, Validationf("invalid date or time format")
	}
	return start, nil
}

func (s *SessionService) validateCreate(in *CreateSessionInput) error {
	if in.ChildID == 0 || in.Date == "" || in.Time == "" {
		return Validationf("missing required fields")
	}
	if in.Duration <= 0 {
		return Validationf("duration must be positive")
	}
	if in.Price < 0 {
		return Validationf("price cannot be negative")
	}
	if in.SessionType == "" {
		in.SessionType = models.SessionOnsite
	}
	if in.SessionType != models.SessionOnline && in.SessionType != models.SessionOnsite {
		return Validationf("session type must be Online or Onsite")
	}
	start, err := s.startOf(in.Date, in.Time)
	if err != nil {
		return err
	}
	if start.Before(s.now()) {
		return PastDate("cannot schedule a session in the past")
	}
	if in.SessionType == models.SessionOnsite && in.InstitutionID == nil {
		return Validationf("institution is required for onsite sessions")
	}
	return nil
}

func loadSession(tx *gorm.DB, id uint) (*models.Session, error) {
	var session models.Session
	if err := tx.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("session not found")
		}
		return nil, Internal(err)
	}
	return &session, nil
}

func loadOwnedChild(tx *gorm.DB, childID, parentID uint) (*models.Child, error) {
	var child models.Child
	err := tx.First(&child, "id = ? AND parent_id = ? AND deleted_at IS NULL", childID, parentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("child not found")
		}
		return nil, Internal(err)
	}
	return &child, nil
}

// CreateFromSpecialist books a committed session for the acting specialist.
func (s *SessionService) CreateFromSpecialist(actor Actor, in CreateSessionInput) (*models.Session, error) {
	if err := actor.require(RoleSpecialist); err != nil {
		return nil, err
	}
	if err := s.validateCreate(&in); err != nil {
		return nil, err
	}

	session := &models.Session{
		ChildID:       in.ChildID,
		SpecialistID:  actor.UserID,
		InstitutionID: in.InstitutionID,
		SessionTypeID: in.SessionTypeID,
		Date:          in.Date,
		Time:          in.Time,
		Duration:      in.Duration,
		Price:         in.Price,
		SessionType:   in.SessionType,
		Status:        models.SessionScheduled,
		IsVisible:     true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var child models.Child
		if err := tx.First(&child, "id = ? AND deleted_at IS NULL", in.ChildID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("child not found")
			}
			return Internal(err)
		}
		taken, err := SlotTaken(tx, actor.UserID, in.Date, in.Time, 0)
		if err != nil {
			return err
		}
		if taken {
			metrics.ConflictsRejected.Inc()
			return Conflictf("you already have a session scheduled at this time")
		}
		if err := tx.Create(session).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SessionsCreated.Inc()
	s.logger.Info("session created",
		zap.Uint("session_id", session.ID),
		zap.Uint("specialist_id", actor.UserID),
		zap.String("date", session.Date),
		zap.String("time", session.Time))
	return session, nil
}

// CreateFromParent records a parent's booking request. It does not occupy the
// slot until the specialist accepts, but still must not target a taken slot.
func (s *SessionService) CreateFromParent(actor Actor, specialistID uint, in CreateSessionInput) (*models.Session, error) {
	if err := actor.require(RoleParent); err != nil {
		return nil, err
	}
	if specialistID == 0 {
		return nil, Validationf("missing required fields")
	}
	if err := s.validateCreate(&in); err != nil {
		return nil, err
	}

	session := &models.Session{
		ChildID:           in.ChildID,
		SpecialistID:      specialistID,
		InstitutionID:     in.InstitutionID,
		SessionTypeID:     in.SessionTypeID,
		Date:              in.Date,
		Time:              in.Time,
		Duration:          in.Duration,
		Price:             in.Price,
		SessionType:       in.SessionType,
		Status:            models.SessionPendingApproval,
		RequestedByParent: true,
		IsVisible:         true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := loadOwnedChild(tx, in.ChildID, actor.UserID); err != nil {
			return err
		}
		taken, err := SlotTaken(tx, specialistID, in.Date, in.Time, 0)
		if err != nil {
			return err
		}
		if taken {
			metrics.ConflictsRejected.Inc()
			return Conflictf("the specialist already has a session at this time")
		}
		if err := tx.Create(session).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SessionsCreated.Inc()
	s.logger.Info("parent session request created",
		zap.Uint("session_id", session.ID),
		zap.Uint("parent_id", actor.UserID),
		zap.Uint("specialist_id", specialistID))
	return session, nil
}

// DecideParentRequest lets the specialist accept or reject a pending
// parent-requested session. Acceptance re-checks the slot: other commitments
// may have appeared since the request was made.
func (s *SessionService) DecideParentRequest(actor Actor, sessionID uint, approve bool) (*models.Session, error) {
	if err := actor.require(RoleSpecialist); err != nil {
		return nil, err
	}

	var session *models.Session
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.SpecialistID != actor.UserID {
			return Unauthorized("this is not your session to manage")
		}
		if session.Status != models.SessionPendingApproval || !session.RequestedByParent {
			return InvalidState("session is not awaiting specialist approval")
		}

		if approve {
			taken, err := SlotTaken(tx, session.SpecialistID, session.Date, session.Time, session.ID)
			if err != nil {
				return err
			}
			if taken {
				metrics.ConflictsRejected.Inc()
				return Conflictf("you already have a session scheduled at this time")
			}
			session.Status = models.SessionScheduled
		} else {
			session.Status = models.SessionCancelled
		}
		if err := tx.Save(session).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DecisionsProcessed.WithLabelValues("session_request", decisionLabel(approve)).Inc()
	s.logger.Info("parent session request decided",
		zap.Uint("session_id", session.ID),
		zap.Bool("approved", approve))
	return session, nil
}

// ProposeReschedule creates a new pending row superseding the original one.
// The original stays committed and visible until the parent decides.
func (s *SessionService) ProposeReschedule(actor Actor, sessionID uint, in ProposeRescheduleInput) (*models.Session, error) {
	if err := actor.require(RoleSpecialist); err != nil {
		return nil, err
	}
	if in.Date == "" || in.Time == "" {
		return nil, Validationf("missing required fields")
	}
	start, err := s.startOf(in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	if start.Before(s.now()) {
		return nil, PastDate("cannot reschedule a session into the past")
	}

	var proposal *models.Session
	err = s.db.Transaction(func(tx *gorm.DB) error {
		original, err := loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		if original.SpecialistID != actor.UserID {
			return Unauthorized("this is not your session to manage")
		}
		if original.Status != models.SessionScheduled && original.Status != models.SessionConfirmed {
			return InvalidState("only scheduled or confirmed sessions can be rescheduled")
		}

		taken, err := SlotTaken(tx, original.SpecialistID, in.Date, in.Time, original.ID)
		if err != nil {
			return err
		}
		if taken {
			metrics.ConflictsRejected.Inc()
			return Conflictf("you already have a session scheduled at this time")
		}

		reason := in.Reason
		proposal = &models.Session{
			ChildID:           original.ChildID,
			SpecialistID:      original.SpecialistID,
			InstitutionID:     original.InstitutionID,
			SessionTypeID:     original.SessionTypeID,
			Date:              in.Date,
			Time:              in.Time,
			Duration:          original.Duration,
			Price:             original.Price,
			SessionType:       original.SessionType,
			Status:            models.SessionRescheduled,
			IsPending:         true,
			OriginalSessionID: &original.ID,
			Reason:            &reason,
			IsVisible:         true,
		}
		if err := tx.Create(proposal).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reschedule proposed",
		zap.Uint("original_session_id", sessionID),
		zap.Uint("proposal_id", proposal.ID))
	return proposal, nil
}

// DecideReschedule applies the parent's decision atomically: approval cancels
// and hides the original while the proposal becomes the scheduled session;
// rejection cancels and hides the proposal, leaving the original untouched.
// Approval re-checks the proposed slot, which may have been taken since the
// proposal was filed.
func (s *SessionService) DecideReschedule(actor Actor, proposalID uint, approve bool) (*models.Session, error) {
	if err := actor.require(RoleParent); err != nil {
		return nil, err
	}

	var proposal *models.Session
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		proposal, err = loadSession(tx, proposalID)
		if err != nil {
			return err
		}
		if proposal.Status != models.SessionRescheduled || !proposal.IsPending {
			return InvalidState("session is not a pending reschedule proposal")
		}
		if _, err := loadOwnedChild(tx, proposal.ChildID, actor.UserID); err != nil {
			return Unauthorized("this reschedule does not concern your children")
		}
		if proposal.OriginalSessionID == nil {
			return InvalidState("proposal has no original session")
		}
		original, err := loadSession(tx, *proposal.OriginalSessionID)
		if err != nil {
			return err
		}

		decided := approve
		proposal.ParentApproved = &decided
		proposal.IsPending = false
		if approve {
			taken, err := SlotTaken(tx, proposal.SpecialistID, proposal.Date, proposal.Time, proposal.ID)
			if err != nil {
				return err
			}
			if taken {
				metrics.ConflictsRejected.Inc()
				return Conflictf("the proposed slot is no longer available")
			}
			original.Status = models.SessionCancelled
			original.IsVisible = false
			proposal.Status = models.SessionScheduled
			if err := tx.Save(original).Error; err != nil {
				return Internal(err)
			}
		} else {
			proposal.Status = models.SessionCancelled
			proposal.IsVisible = false
		}
		if err := tx.Save(proposal).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DecisionsProcessed.WithLabelValues("reschedule", decisionLabel(approve)).Inc()
	s.logger.Info("reschedule decided",
		zap.Uint("proposal_id", proposal.ID),
		zap.Bool("approved", approve))
	return proposal, nil
}

// RequestDelete flags a committed session for deletion; the status is left
// untouched until the specialist or manager decides.
func (s *SessionService) RequestDelete(actor Actor, sessionID uint, reason string) (*models.Session, error) {
	if err := actor.require(RoleParent); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, Validationf("a reason is required")
	}

	var session *models.Session
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		if _, err := loadOwnedChild(tx, session.ChildID, actor.UserID); err != nil {
			return Unauthorized("this session does not concern your children")
		}
		if session.Status != models.SessionScheduled && session.Status != models.SessionConfirmed {
			return InvalidState("only scheduled or confirmed sessions can be deleted")
		}
		if session.DeleteRequest && session.DeleteStatus != nil && *session.DeleteStatus == models.DeletePending {
			return Conflictf("session already has a pending delete request")
		}

		pending := models.DeletePending
		session.DeleteRequest = true
		session.DeleteStatus = &pending
		session.Reason = &reason
		if err := tx.Save(session).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session delete requested",
		zap.Uint("session_id", session.ID),
		zap.Uint("parent_id", actor.UserID))
	return session, nil
}

// DecideDelete lets the owning specialist, or a manager of the session's
// institution, resolve a pending delete request.
func (s *SessionService) DecideDelete(actor Actor, sessionID uint, approve bool) (*models.Session, error) {
	if actor.Role != RoleSpecialist && actor.Role != RoleManager {
		return nil, Unauthorized("Specialist or Manager role required")
	}

	var session *models.Session
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		switch actor.Role {
		case RoleSpecialist:
			if session.SpecialistID != actor.UserID {
				return Unauthorized("this is not your session to manage")
			}
		case RoleManager:
			var manager models.User
			if err := tx.First(&manager, "id = ?", actor.UserID).Error; err != nil {
				return Internal(err)
			}
			if manager.InstitutionID == nil || session.InstitutionID == nil ||
				*manager.InstitutionID != *session.InstitutionID {
				return Unauthorized("session belongs to another institution")
			}
		}
		if !session.DeleteRequest || session.DeleteStatus == nil || *session.DeleteStatus != models.DeletePending {
			return InvalidState("session has no pending delete request")
		}

		if approve {
			approved := models.DeleteApproved
			session.DeleteStatus = &approved
			session.Status = models.SessionCancelled
			session.IsVisible = false
		} else {
			rejected := models.DeleteRejected
			session.DeleteStatus = &rejected
			session.DeleteRequest = false
		}
		if err := tx.Save(session).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DecisionsProcessed.WithLabelValues("session_delete", decisionLabel(approve)).Inc()
	s.logger.Info("session delete decided",
		zap.Uint("session_id", session.ID),
		zap.Bool("approved", approve))
	return session, nil
}

// MarkCompleted records that a session actually took place.
func (s *SessionService) MarkCompleted(actor Actor, sessionID uint) (*models.Session, error) {
	return s.markOutcome(actor, sessionID, models.SessionCompleted)
}

// MarkAbsent records that the child did not show up.
func (s *SessionService) MarkAbsent(actor Actor, sessionID uint) (*models.Session, error) {
	return s.markOutcome(actor, sessionID, models.SessionAbsent)
}

func (s *SessionService) markOutcome(actor Actor, sessionID uint, outcome string) (*models.Session, error) {
	if err := actor.require(RoleSpecialist); err != nil {
		return nil, err
	}

	var session *models.Session
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		if session.SpecialistID != actor.UserID {
			return Unauthorized("this is not your session to manage")
		}
		if session.Status != models.SessionScheduled && session.Status != models.SessionConfirmed {
			return InvalidState("only scheduled or confirmed sessions can be marked")
		}
		start, err := s.startOf(session.Date, session.Time)
		if err != nil {
			return err
		}
		if start.Add(time.Duration(session.Duration) * time.Minute).After(s.now()) {
			return InvalidState("cannot mark a session before it has ended")
		}

		session.Status = outcome
		if err := tx.Save(session).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session outcome recorded",
		zap.Uint("session_id", session.ID),
		zap.String("outcome", outcome))
	return session, nil
}

// ListUpcomingForParent resolves the scheduled sessions across all of the
// parent's children, with display names attached.
func (s *SessionService) ListUpcomingForParent(actor Actor) ([]UpcomingSession, error) {
	if err := actor.require(RoleParent); err != nil {
		return nil, err
	}

	var childIDs []uint
	err := s.db.Model(&models.Child{}).
		Where("parent_id = ? AND deleted_at IS NULL", actor.UserID).
		Pluck("id", &childIDs).Error
	if err != nil {
		return nil, Internal(err)
	}
	if len(childIDs) == 0 {
		return []UpcomingSession{}, nil
	}

	var sessions []models.Session
	err = s.db.
		Preload("Child").
		Preload("Specialist").
		Preload("Institution").
		Where("child_id IN ? AND status = ? AND is_visible = ?", childIDs, models.SessionScheduled, true).
		Order("date asc, time asc").
		Find(&sessions).Error
	if err != nil {
		return nil, Internal(err)
	}

	upcoming := make([]UpcomingSession, 0, len(sessions))
	for _, session := range sessions {
		view := UpcomingSession{
			SessionID:      session.ID,
			ChildName:      session.Child.FullName,
			SpecialistName: session.Specialist.FullName,
			Date:           session.Date,
			Time:           session.Time,
			Duration:       session.Duration,
			Price:          session.Price,
			SessionType:    session.SessionType,
			Status:         session.Status,
		}
		if session.Institution != nil {
			view.InstitutionName = session.Institution.Name
		}
		upcoming = append(upcoming, view)
	}
	return upcoming, nil
}

// ListForSpecialist returns the specialist's own visible sessions.
func (s *SessionService) ListForSpecialist(actor Actor) ([]models.Session, error) {
	if err := actor.require(RoleSpecialist); err != nil {
		return nil, err
	}
	var sessions []models.Session
	err := s.db.
		Preload("Child").
		Where("specialist_id = ? AND is_visible = ?", actor.UserID, true).
		Order("date asc, time asc").
		Find(&sessions).Error
	if err != nil {
		return nil, Internal(err)
	}
	return sessions, nil
}

// CancelExpiredParentRequests cancels parent-requested sessions still waiting
// for approval after their proposed start has passed; they can never be
// accepted anymore since acceptance re-validates the date.
func CancelExpiredParentRequests(db *gorm.DB, now time.Time) (int64, error) {
	today := now.Format(DateLayout)
	clock := now.Format(TimeLayout)
	res := db.Model(&models.Session{}).
		Where("status = ? AND requested_by_parent = ? AND (date < ? OR (date = ? AND time < ?))",
			models.SessionPendingApproval, true, today, today, clock).
		Update("status", models.SessionCancelled)
	if res.Error != nil {
		return 0, Internal(res.Error)
	}
	return res.RowsAffected, nil
}

func decisionLabel(approve bool) string {
	if approve {
		return "approve"
	}
	return "reject"
}
