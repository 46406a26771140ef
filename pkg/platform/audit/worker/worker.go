package worker

import (
	"context"
	"log/slog"

	audit "pointsgate/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. A
// failing store is logged and skipped rather than stopping the loop;
// audit delivery is best effort.
type Worker struct {
	stores []audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(inbox <-chan audit.Event, logger *slog.Logger, stores ...audit.Store) *Worker {
	return &Worker{stores: stores, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			for _, store := range w.stores {
				if err := store.Append(ctx, event); err != nil {
					w.logger.ErrorContext(ctx, "audit append failed",
						"action", event.Action,
						"error", err,
					)
				}
			}
		}
	}
}
