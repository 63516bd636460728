package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/ravshanbekov/joblens/internal/observability"
	"github.com/ravshanbekov/joblens/internal/store"
)

// RetentionService expires captures past their retention window on a
// daily cadence.
type RetentionService struct {
	store    *store.Store
	maxAge   time.Duration
	interval time.Duration
}

func NewRetentionService(st *store.Store, maxAge time.Duration) *RetentionService {
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	return &RetentionService{
		store:    st,
		maxAge:   maxAge,
		interval: 24 * time.Hour,
	}
}

func (s *RetentionService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *RetentionService) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.cleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(ctx)
		}
	}
}

func (s *RetentionService) cleanup(ctx context.Context) {
	deleted, err := s.store.DeleteOldCaptures(ctx, s.maxAge)
	if err != nil {
		observability.IncError(observability.ErrorStore, "retention")
		slog.Error("retention cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("retention removed expired captures", "count", deleted)
	}
}
