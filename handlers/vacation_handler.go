package handlers

import (
	"github.com/rahaf-dev/sanad_backend/workflow"
	"github.com/gofiber/fiber/v2"
)

type VacationRequestBody struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason,omitempty"`
}

// CreateVacation files a vacation request for the acting specialist.
func CreateVacation(c *fiber.Ctx) error {
	var req VacationRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vacation, err := vacationService.Create(currentActor(c), workflow.VacationInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Vacation request created",
		"vacation": vacation,
	})
}

// UpdateVacation edits a request while it is still pending.
func UpdateVacation(c *fiber.Ctx) error {
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}
	var req VacationRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vacation, err := vacationService.Edit(currentActor(c), requestID, workflow.VacationInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Vacation updated successfully",
		"vacation": vacation,
	})
}

// WithdrawVacation removes a pending request.
func WithdrawVacation(c *fiber.Ctx) error {
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}
	if err := vacationService.Withdraw(currentActor(c), requestID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vacation deleted successfully"})
}

// GetMyVacations lists the acting specialist's requests.
func GetMyVacations(c *fiber.Ctx) error {
	vacations, err := vacationService.ListMine(currentActor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(vacations)
}

// GetInstitutionVacations lists requests for the manager's institution.
func GetInstitutionVacations(c *fiber.Ctx) error {
	vacations, err := vacationService.ListForInstitution(currentActor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(vacations)
}

// DecideVacation is the manager's approval or rejection.
func DecideVacation(c *fiber.Ctx) error {
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}
	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vacation, err := vacationService.Decide(currentActor(c), requestID, req.Decision == "approve")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Vacation status updated",
		"vacation": vacation,
	})
}

// GetUnavailableDates exposes the dates blocked by committed sessions for a
// specialist's booking calendar. Past dates are the caller's concern.
func GetUnavailableDates(c *fiber.Ctx) error {
	specialistID, ok := paramID(c, "specialistId")
	if !ok {
		actor := currentActor(c)
		specialistID = actor.UserID
	}
	result, err := vacationService.UnavailableDates(specialistID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}
