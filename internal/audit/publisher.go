package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"newsdesk/pkg/requestcontext"
)

// DefaultBuffer is the publisher's queue length.
const DefaultBuffer = 256

// Publisher queues audit events for a Worker so that request handling never
// waits on the sink. When the queue is full the event is dropped and logged.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{inbox: make(chan Event, buffer), logger: logger}
}

// Emit fills request-scoped fields missing from base and queues it.
func (p *Publisher) Emit(ctx context.Context, base Event) {
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	if base.Timestamp.IsZero() {
		base.Timestamp = requestcontext.Now(ctx)
	}
	if base.RequestID == "" {
		base.RequestID = requestcontext.RequestID(ctx)
	}
	if base.UserID == "" {
		base.UserID = requestcontext.UserID(ctx)
	}
	if base.ClientIP == "" {
		base.ClientIP = requestcontext.ClientIP(ctx)
	}
	if base.Client == (Client{}) {
		base.Client = ClientFromUserAgent(requestcontext.UserAgent(ctx))
	}

	select {
	case p.inbox <- base:
	default:
		p.logger.WarnContext(ctx, "audit queue full, dropping event",
			"request_id", base.RequestID,
			"action", base.Action,
		)
	}
}

// Events exposes the queue to a Worker.
func (p *Publisher) Events() <-chan Event {
	return p.inbox
}
