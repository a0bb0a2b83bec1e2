package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"humanglue-backend/internal/domains/application"
	"humanglue-backend/pkg/logger"
)

// staleDraftAge is how long a draft may sit untouched before the
// scheduler withdraws it.
const staleDraftAge = 90 * 24 * time.Hour

// CleanupHandler withdraws abandoned draft applications. It runs on a
// schedule, not in response to user actions.
type CleanupHandler struct {
	svc application.Service
}

func NewCleanupHandler(svc application.Service) *CleanupHandler {
	return &CleanupHandler{svc: svc}
}

func (h *CleanupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	withdrawn, err := h.svc.CleanupStaleDrafts(ctx, staleDraftAge)
	if err != nil {
		logger.Error("Stale draft cleanup failed", err)
		return err
	}

	logger.Info("Stale draft cleanup finished", map[string]interface{}{
		"withdrawn": withdrawn,
	})
	return nil
}
