package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const asyncFlushTimeout = 5 * time.Second

// asyncStorage buffers events in a channel and appends them from a single
// background worker, keeping audit writes off the request's hot path.
// Events are never dropped silently: a full buffer surfaces ErrBufferFull
// to the caller.
type asyncStorage struct {
	inner  Storage
	buffer chan Event
	log    *slog.Logger

	once sync.Once
	done chan struct{}
}

// NewAsyncStorage wraps a Storage with a buffered background writer.
// Close drains the buffer before returning. Panics if inner is nil or
// bufferSize is not positive.
func NewAsyncStorage(inner Storage, bufferSize int, log *slog.Logger) *asyncStorage {
	if inner == nil {
		panic("audit: inner Storage is required")
	}
	if bufferSize <= 0 {
		panic("audit: bufferSize must be positive")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &asyncStorage{
		inner:  inner,
		buffer: make(chan Event, bufferSize),
		log:    log,
		done:   make(chan struct{}),
	}
	go s.worker()
	return s
}

// Append enqueues the event for background writing.
func (s *asyncStorage) Append(ctx context.Context, event Event) error {
	select {
	case s.buffer <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

// Close stops the worker after draining buffered events.
func (s *asyncStorage) Close() error {
	s.once.Do(func() {
		close(s.buffer)
		<-s.done
	})
	return nil
}

func (s *asyncStorage) worker() {
	defer close(s.done)

	for event := range s.buffer {
		ctx, cancel := context.WithTimeout(context.Background(), asyncFlushTimeout)
		if err := s.inner.Append(ctx, event); err != nil {
			s.log.Error("audit append failed",
				slog.String("action", event.Action),
				slog.String("actor_id", event.ActorID.String()),
				slog.Any("error", err))
		}
		cancel()
	}
}
