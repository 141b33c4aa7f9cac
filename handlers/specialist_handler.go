package handlers

import (
	"time"

	"github.com/rahaf-dev/sanad_backend/database"
	"github.com/rahaf-dev/sanad_backend/models"
	"github.com/gofiber/fiber/v2"
)

// GetUpcomingSessionsCount returns how many committed sessions lie ahead for
// the acting specialist.
func GetUpcomingSessionsCount(c *fiber.Ctx) error {
	actor := currentActor(c)
	today := time.Now().Format("2006-01-02")

	var count int64
	err := database.DB.Model(&models.Session{}).
		Where("specialist_id = ? AND date >= ? AND status = ?", actor.UserID, today, models.SessionScheduled).
		Count(&count).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	return c.JSON(fiber.Map{"upcoming_sessions": count})
}

// GetChildrenCount returns how many distinct children the specialist has
// sessions with.
func GetChildrenCount(c *fiber.Ctx) error {
	actor := currentActor(c)

	var count int64
	err := database.DB.Model(&models.Session{}).
		Distinct("child_id").
		Where("specialist_id = ?", actor.UserID).
		Count(&count).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	return c.JSON(fiber.Map{"children_count": count})
}

// GetChildrenInInstitution lists the children who have had sessions within
// the specialist's institution.
func GetChildrenInInstitution(c *fiber.Ctx) error {
	actor := currentActor(c)

	var specialist models.Specialist
	if err := database.DB.First(&specialist, "user_id = ?", actor.UserID).Error; err != nil || specialist.InstitutionID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Specialist or institution not found"})
	}

	var childIDs []uint
	err := database.DB.Model(&models.Session{}).
		Distinct("child_id").
		Where("institution_id = ?", *specialist.InstitutionID).
		Pluck("child_id", &childIDs).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	if len(childIDs) == 0 {
		return c.JSON([]models.Child{})
	}

	var children []models.Child
	err = database.DB.
		Select("id", "full_name", "gender", "date_of_birth", "photo").
		Where("id IN ? AND deleted_at IS NULL", childIDs).
		Find(&children).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error"})
	}
	return c.JSON(children)
}
