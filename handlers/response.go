package handlers

import (
	"github.com/getsentry/sentry-go"
	"github.com/rahaf-dev/sanad_backend/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

var validate = validator.New()

// currentActor builds the workflow actor from the verified JWT claims.
func currentActor(c *fiber.Ctx) workflow.Actor {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	return workflow.Actor{
		UserID: uint(claims["user_id"].(float64)),
		Role:   workflow.Role(claims["role"].(string)),
	}
}

// fail maps a workflow error kind onto an HTTP status and the standard error
// envelope.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch workflow.KindOf(err) {
	case workflow.KindValidation, workflow.KindPastDate, workflow.KindInvalidState:
		status = fiber.StatusBadRequest
	case workflow.KindConflict:
		status = fiber.StatusConflict
	case workflow.KindAuthorization:
		status = fiber.StatusForbidden
	case workflow.KindNotFound:
		status = fiber.StatusNotFound
	case workflow.KindInternal:
		zap.L().Error("unexpected failure", zap.String("path", c.Path()), zap.Error(err))
		sentry.CaptureException(err)
		return c.Status(status).JSON(fiber.Map{"error": "Server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
