package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"pointsgate/pkg/requestcontext"
)

const defaultInboxSize = 256

// Recorder accepts events from request handlers without blocking them.
// Events flow through a bounded inbox to the background worker; when the
// inbox is full the event is dropped and a warning logged, since audit
// emission must never stall a score request.
type Recorder struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewRecorder builds a recorder with a bounded inbox.
func NewRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{
		inbox:  make(chan Event, defaultInboxSize),
		logger: logger,
	}
}

// Inbox exposes the event channel for the worker.
func (r *Recorder) Inbox() <-chan Event {
	return r.inbox
}

// Record stamps and enqueues an event. Missing ID, Timestamp, RequestID
// and client metadata are filled from the context.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}

	select {
	case r.inbox <- event:
	default:
		r.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"request_id", event.RequestID,
		)
	}
}
