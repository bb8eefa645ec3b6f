package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/meditriage/triage-api/internal/repository"
	"github.com/meditriage/triage-api/pkg/logger"
)

// AssignmentCleanupWorker removes completed assignments past the retention
// window. Open assignments are never touched.
type AssignmentCleanupWorker struct {
	repo            repository.AssignmentRepository
	retentionDays   int
	cleanupInterval time.Duration
	logger          *logger.Logger
}

func NewAssignmentCleanupWorker(repo repository.AssignmentRepository, retentionDays int, cleanupInterval time.Duration, log *logger.Logger) *AssignmentCleanupWorker {
	return &AssignmentCleanupWorker{
		repo:            repo,
		retentionDays:   retentionDays,
		cleanupInterval: cleanupInterval,
		logger:          log,
	}
}

func (w *AssignmentCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.cleanup(ctx); err != nil {
				w.logger.Error(err, "assignment cleanup failed")
			}
		}
	}
}

func (w *AssignmentCleanupWorker) cleanup(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)

	rows, err := w.repo.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete completed assignments: %w", err)
	}

	if rows > 0 {
		w.logger.Info("cleaned up completed assignments", "deleted", rows, "cutoff", cutoff)
	}
	return nil
}
