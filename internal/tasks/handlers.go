package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"draperads/internal/events"
	"draperads/internal/metrics"
	"draperads/internal/utils/logger"
)

// SessionPruner deletes expired sessions.
type SessionPruner interface {
	Prune(ctx context.Context) (int64, error)
}

// TaskHandler processes background tasks
type TaskHandler struct {
	sessions SessionPruner
	logger   *logger.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(sessions SessionPruner) *TaskHandler {
	return &TaskHandler{
		sessions: sessions,
		logger:   logger.New("task_handler"),
	}
}

// HandleSessionPrune removes expired session rows.
func (h *TaskHandler) HandleSessionPrune(ctx context.Context, task *asynq.Task) error {
	n, err := h.sessions.Prune(ctx)
	if err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}

	metrics.SessionsPruned.Add(float64(n))
	if n > 0 {
		h.logger.Info("🧹 Pruned %d expired sessions", n)
		events.Emit(events.SessionsPruned, n)
	}
	return nil
}

// Mux routes every task type to its handler.
func (h *TaskHandler) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeSessionPrune, h.HandleSessionPrune)
	return mux
}
