package handlers

import (
	"time"

	"github.com/rahaf-dev/sanad_backend/database"
	"github.com/rahaf-dev/sanad_backend/models"
	"github.com/gofiber/fiber/v2"
)

type AddChildRequest struct {
	FullName       string `json:"full_name" validate:"required"`
	DateOfBirth    string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender         string `json:"gender" validate:"required,oneof=Male Female Other"`
	DiagnosisID    *uint  `json:"diagnosis_id,omitempty"`
	Photo          string `json:"photo,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
	InstitutionID  *uint  `json:"institution_id,omitempty"`
}

type UpdateChildRequest struct {
	FullName       string `json:"full_name" validate:"required"`
	DateOfBirth    string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender         string `json:"gender" validate:"required,oneof=Male Female Other"`
	DiagnosisID    *uint  `json:"diagnosis_id,omitempty"`
	Photo          string `json:"photo,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
}

type RegistrationRequestBody struct {
	ChildID       uint `json:"child_id" validate:"required"`
	InstitutionID uint `json:"institution_id" validate:"required"`
}

// AddChild creates a child record; when an institution is given, a
// registration request is filed in the same call.
func AddChild(c *fiber.Ctx) error {
	actor := currentActor(c)

	var req AddChildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dob := req.DateOfBirth
	gender := req.Gender
	child := models.Child{
		ParentID:           actor.UserID,
		FullName:           req.FullName,
		DateOfBirth:        &dob,
		Gender:             &gender,
		DiagnosisID:        req.DiagnosisID,
		Photo:              req.Photo,
		MedicalHistory:     req.MedicalHistory,
		RegistrationStatus: models.RegistrationNotRegistered,
	}
	if err := database.DB.Create(&child).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add child"})
	}

	response := fiber.Map{
		"message":                "Child added successfully",
		"child_id":               child.ID,
		"registration_requested": false,
	}
	if req.InstitutionID != nil {
		if _, err := registrationService.Create(actor, child.ID, *req.InstitutionID); err != nil {
			// The child record stands; only the follow-up request failed.
			response["registration_error"] = err.Error()
		} else {
			response["registration_requested"] = true
		}
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetChildren lists the parent's non-archived children with light filters.
func GetChildren(c *fiber.Ctx) error {
	actor := currentActor(c)

	query := database.DB.
		Preload("Diagnosis").
		Where("parent_id = ? AND deleted_at IS NULL", actor.UserID)

	if search := c.Query("search"); search != "" {
		query = query.Where("full_name LIKE ?", "%"+search+"%")
	}
	if gender := c.Query("gender"); gender == "Male" || gender == "Female" {
		query = query.Where("gender = ?", gender)
	}

	var children []models.Child
	if err := query.Order("full_name asc").Find(&children).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	return c.JSON(fiber.Map{"data": children})
}

func GetChild(c *fiber.Ctx) error {
	actor := currentActor(c)
	childID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid child id"})
	}

	var child models.Child
	err := database.DB.
		Preload("Diagnosis").
		First(&child, "id = ? AND parent_id = ? AND deleted_at IS NULL", childID, actor.UserID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Child not found"})
	}
	return c.JSON(child)
}

func UpdateChild(c *fiber.Ctx) error {
	actor := currentActor(c)
	childID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid child id"})
	}

	var req UpdateChildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var child models.Child
	err := database.DB.First(&child, "id = ? AND parent_id = ? AND deleted_at IS NULL", childID, actor.UserID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Child not found"})
	}

	dob := req.DateOfBirth
	gender := req.Gender
	child.FullName = req.FullName
	child.DateOfBirth = &dob
	child.Gender = &gender
	child.DiagnosisID = req.DiagnosisID
	if req.Photo != "" {
		child.Photo = req.Photo
	}
	if req.MedicalHistory != "" {
		child.MedicalHistory = req.MedicalHistory
	}
	if err := database.DB.Save(&child).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update child"})
	}
	return c.JSON(child)
}

// ArchiveChild soft-deletes: the record survives, hidden from listings.
func ArchiveChild(c *fiber.Ctx) error {
	actor := currentActor(c)
	childID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid child id"})
	}

	var child models.Child
	err := database.DB.First(&child, "id = ? AND parent_id = ? AND deleted_at IS NULL", childID, actor.UserID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Child not found or already deleted"})
	}

	now := time.Now()
	child.DeletedAt = &now
	child.RegistrationStatus = models.RegistrationArchived
	if err := database.DB.Save(&child).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to archive child"})
	}
	return c.JSON(fiber.Map{
		"message":  "Child archived successfully",
		"child_id": child.ID,
	})
}

// RequestRegistration files a child-to-institution registration request.
func RequestRegistration(c *fiber.Ctx) error {
	childID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid child id"})
	}
	var req RegistrationRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if req.InstitutionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "institution_id is required"})
	}

	request, err := registrationService.Create(currentActor(c), childID, req.InstitutionID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration request submitted successfully",
		"request": request,
	})
}

// GetRegistrationStatus returns the child's state plus full request history.
func GetRegistrationStatus(c *fiber.Ctx) error {
	childID, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid child id"})
	}
	status, err := registrationService.Status(currentActor(c), childID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(status)
}

// DecideRegistration is the institution manager's review.
func DecideRegistration(c *fiber.Ctx) error {
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

	request, err := registrationService.Decide(currentActor(c), requestID, req.Decision == "approve", req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Registration request processed",
		"request": request,
	})
}

// ListInstitutions is the public directory parents pick from.
func ListInstitutions(c *fiber.Ctx) error {
	var institutions []models.Institution
	if err := database.DB.Order("name asc").Find(&institutions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	return c.JSON(institutions)
}
