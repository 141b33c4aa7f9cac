package jobs

import (
	"time"

	"go.uber.org/zap"

	"github.com/rahaf-dev/sanad_backend/database"
	"github.com/rahaf-dev/sanad_backend/workflow"
)

// CancelExpiredRequests closes out parent session requests whose slot
// has already passed without a specialist decision.
func CancelExpiredRequests() {
	log := zap.L().Named("jobs")
	log.Info("running job: cancel expired session requests")

	cancelled, err := workflow.CancelExpiredParentRequests(database.DB, time.Now())
	if err != nil {
		log.Error("cancel expired session requests failed", zap.Error(err))
		return
	}
	if cancelled > 0 {
		log.Info("cancelled expired session requests", zap.Int64("count", cancelled))
	}
}
