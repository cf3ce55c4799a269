package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Logger records audited actions.
type Logger interface {
	// Log records a successful action by the actor.
	Log(ctx context.Context, actorID uuid.UUID, action string, opts ...EventOption) error

	// LogError records a failed action by the actor.
	LogError(ctx context.Context, actorID uuid.UUID, action string, actionErr error, opts ...EventOption) error
}

type logger struct {
	storage Storage
}

// NewLogger creates an audit logger writing to the given storage.
// Panics if storage is nil.
func NewLogger(storage Storage) Logger {
	if storage == nil {
		panic("audit: Storage is required")
	}
	return &logger{storage: storage}
}

// Log records a successful action.
func (l *logger) Log(ctx context.Context, actorID uuid.UUID, action string, opts ...EventOption) error {
	return l.append(ctx, actorID, action, ResultSuccess, "", opts)
}

// LogError records a failed action.
func (l *logger) LogError(ctx context.Context, actorID uuid.UUID, action string, actionErr error, opts ...EventOption) error {
	msg := ""
	if actionErr != nil {
		msg = actionErr.Error()
	}
	return l.append(ctx, actorID, action, ResultError, msg, opts)
}

func (l *logger) append(ctx context.Context, actorID uuid.UUID, action string, result Result, errMsg string, opts []EventOption) error {
	event := Event{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		Result:    result,
		Error:     errMsg,
		CreatedAt: time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}

	return l.storage.Append(ctx, event)
}
