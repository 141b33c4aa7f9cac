package handlers

import (
	"strconv"

	"github.com/rahaf-dev/sanad_backend/workflow"
	"github.com/gofiber/fiber/v2"
)

type CreateSessionRequest struct {
	ChildID       uint    `json:"child_id" validate:"required"`
	SpecialistID  uint    `json:"specialist_id,omitempty"`
	InstitutionID *uint   `json:"institution_id,omitempty"`
	SessionTypeID *uint   `json:"session_type_id,omitempty"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string  `json:"time" validate:"required,datetime=15:04"`
	Duration      int     `json:"duration,omitempty"`
	Price         float64 `json:"price,omitempty"`
	SessionType   string  `json:"session_type,omitempty" validate:"omitempty,oneof=Online Onsite"`
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Notes    string `json:"notes,omitempty"`
}

type RescheduleRequest struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string `json:"time" validate:"required,datetime=15:04"`
	Reason string `json:"reason,omitempty"`
}

type DeleteSessionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func sessionInput(req CreateSessionRequest) workflow.CreateSessionInput {
	duration := req.Duration
	if duration == 0 {
		duration = 60
	}
	return workflow.CreateSessionInput{
		ChildID:       req.ChildID,
		InstitutionID: req.InstitutionID,
		SessionTypeID: req.SessionTypeID,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      duration,
		Price:         req.Price,
		SessionType:   req.SessionType,
	}
}

// CreateSession books a committed session for the acting specialist.
func CreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := sessionService.CreateFromSpecialist(currentActor(c), sessionInput(req))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session created successfully",
		"session": session,
	})
}

// RequestSession files a parent's booking request for a specialist's slot.
func RequestSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.SpecialistID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "specialist_id is required"})
	}

	session, err := sessionService.CreateFromParent(currentActor(c), req.SpecialistID, sessionInput(req))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session request submitted, awaiting specialist approval",
		"session": session,
	})
}

// DecideSessionRequest is the specialist's accept/reject on a parent request.
func DecideSessionRequest(c *fiber.Ctx) error {
	sessionID, ok := paramID(c, "sessionId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}
	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := sessionService.DecideParentRequest(currentActor(c), sessionID, req.Decision == "approve")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Session request processed",
		"session": session,
	})
}

// ProposeReschedule creates a pending replacement slot for the parent to
// approve.
func ProposeReschedule(c *fiber.Ctx) error {
	sessionID, ok := paramID(c, "sessionId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}
	var req RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	proposal, err := sessionService.ProposeReschedule(currentActor(c), sessionID, workflow.ProposeRescheduleInput{
		Date:   req.Date,
		Time:   req.Time,
		Reason: req.Reason,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Reschedule proposed, awaiting parent approval",
		"session": proposal,
	})
}

// DecideReschedule is the parent's decision on a proposed reschedule.
func DecideReschedule(c *fiber.Ctx) error {
	proposalID, ok := paramID(c, "sessionId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}
	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := sessionService.DecideReschedule(currentActor(c), proposalID, req.Decision == "approve")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Reschedule request processed",
		"session": session,
	})
}

// RequestSessionDelete flags a session for deletion with a reason.
func RequestSessionDelete(c *fiber.Ctx) error {
	sessionID, ok := paramID(c, "sessionId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}
	var req DeleteSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := sessionService.RequestDelete(currentActor(c), sessionID, req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Delete request submitted, awaiting review",
		"session": session,
	})
}

// DecideSessionDelete resolves a pending delete request.
func DecideSessionDelete(c *fiber.Ctx) error {
	sessionID, ok := paramID(c, "sessionId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}
	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := sessionService.DecideDelete(currentActor(c), sessionID, req.Decision == "approve")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Delete request processed",
		"session": session,
	})
}

func MarkSessionCompleted(c *fiber.Ctx) error {
	sessionID, ok := paramID(c, "sessionId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}
	session, err := sessionService.MarkCompleted(currentActor(c), sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Session marked as completed",
		"session": session,
	})
}

func MarkSessionAbsent(c *fiber.Ctx) error {
	sessionID, ok := paramID(c, "sessionId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}
	session, err := sessionService.MarkAbsent(currentActor(c), sessionID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Session marked as absent",
		"session": session,
	})
}

// GetUpcomingSessions lists the parent's scheduled sessions across children.
func GetUpcomingSessions(c *fiber.Ctx) error {
	sessions, err := sessionService.ListUpcomingForParent(currentActor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

// GetMySessions lists the acting specialist's visible sessions.
func GetMySessions(c *fiber.Ctx) error {
	sessions, err := sessionService.ListForSpecialist(currentActor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sessions)
}
