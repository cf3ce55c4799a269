package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler consumes a published event. A returned error is logged, never
// surfaced to the publisher: post-commit side effects must not fail the
// request that triggered them.
type Handler func(ctx context.Context, event Event) error

// Bus is an in-process, asynchronous event bus for post-commit side
// effects. Handlers run in their own goroutines; panics are recovered and
// logged. All methods are safe for concurrent use.
type Bus struct {
	log *slog.Logger

	mu       sync.RWMutex
	handlers map[Kind][]Handler
	closed   bool

	wg sync.WaitGroup
}

// NewBus creates an event bus. A nil logger falls back to slog.Default.
func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{
		log:      log,
		handlers: make(map[Kind][]Handler),
	}
}

// Subscribe registers a handler for the given kind. Panics if handler is
// nil. Subscriptions made after Close are ignored.
func (b *Bus) Subscribe(kind Kind, handler Handler) {
	if handler == nil {
		panic("events: handler is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// Publish dispatches the event to all handlers subscribed to its kind.
// Dispatch is asynchronous and detached from the request context's
// cancellation, so side effects still run after the response is written.
// Publish never fails; handler errors and panics are logged.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if event.ID == (uuid.UUID{}) {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, handler := range b.handlers[event.Kind] {
		b.wg.Add(1)
		go b.dispatch(detached, handler, event)
	}
}

// Close waits for all in-flight handlers to finish. Events published after
// Close are dropped.
func (b *Bus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

func (b *Bus) dispatch(ctx context.Context, handler Handler, event Event) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				slog.String("kind", string(event.Kind)),
				slog.String("event_id", event.ID.String()),
				slog.Any("panic", r))
		}
	}()

	if err := handler(ctx, event); err != nil {
		b.log.Error("event handler failed",
			slog.String("kind", string(event.Kind)),
			slog.String("event_id", event.ID.String()),
			slog.Any("error", err))
	}
}
