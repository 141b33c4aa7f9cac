package handlers

import (
	"github.com/rahaf-dev/sanad_backend/workflow"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	sessionService      *workflow.SessionService
	vacationService     *workflow.VacationService
	registrationService *workflow.RegistrationService
)

// InitServices wires the workflow engine; call once after the database is up.
func InitServices(db *gorm.DB, logger *zap.Logger) {
	sessionService = workflow.NewSessionService(db, logger)
	vacationService = workflow.NewVacationService(db, logger)
	registrationService = workflow.NewRegistrationService(db, logger)
}
