package events_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academykit/academykit/pkg/events"
	"github.com/academykit/academykit/pkg/quota"
)

func TestBusPublish(t *testing.T) {
	t.Parallel()

	t.Run("delivers to subscribed handlers", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus(nil)

		var mu sync.Mutex
		var received []events.Event
		bus.Subscribe(events.KindPlanChanged, func(ctx context.Context, e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, e)
			return nil
		})

		ownerID := uuid.New()
		bus.Publish(context.Background(), events.Event{
			Kind:     events.KindPlanChanged,
			TenantID: uuid.New(),
			Payload:  events.PlanChanged{OwnerID: ownerID, From: quota.PlanFree, To: quota.PlanPro},
		})
		require.NoError(t, bus.Close())

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, received, 1)
		assert.NotEqual(t, uuid.UUID{}, received[0].ID)
		assert.False(t, received[0].OccurredAt.IsZero())

		payload, ok := received[0].Payload.(events.PlanChanged)
		require.True(t, ok)
		assert.Equal(t, ownerID, payload.OwnerID)
		assert.Equal(t, quota.PlanPro, payload.To)
	})

	t.Run("kinds are independent", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus(nil)

		var created atomic.Int32
		bus.Subscribe(events.KindResourceCreated, func(ctx context.Context, e events.Event) error {
			created.Add(1)
			return nil
		})

		bus.Publish(context.Background(), events.Event{Kind: events.KindPlanChanged})
		bus.Publish(context.Background(), events.Event{Kind: events.KindResourceCreated})
		require.NoError(t, bus.Close())

		assert.Equal(t, int32(1), created.Load())
	})

	t.Run("handler failure never reaches the publisher", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus(nil)
		bus.Subscribe(events.KindResourceCreated, func(ctx context.Context, e events.Event) error {
			return errors.New("smtp timeout")
		})
		bus.Subscribe(events.KindResourceCreated, func(ctx context.Context, e events.Event) error {
			panic("boom")
		})

		assert.NotPanics(t, func() {
			bus.Publish(context.Background(), events.Event{Kind: events.KindResourceCreated})
			require.NoError(t, bus.Close())
		})
	})

	t.Run("runs after the request context is cancelled", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus(nil)

		done := make(chan error, 1)
		bus.Subscribe(events.KindResourceCreated, func(ctx context.Context, e events.Event) error {
			select {
			case <-ctx.Done():
				done <- ctx.Err()
			case <-time.After(50 * time.Millisecond):
				done <- nil
			}
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		bus.Publish(ctx, events.Event{Kind: events.KindResourceCreated})
		require.NoError(t, bus.Close())

		assert.NoError(t, <-done)
	})

	t.Run("dropped after close", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus(nil)

		var called atomic.Bool
		bus.Subscribe(events.KindPlanChanged, func(ctx context.Context, e events.Event) error {
			called.Store(true)
			return nil
		})
		require.NoError(t, bus.Close())

		bus.Publish(context.Background(), events.Event{Kind: events.KindPlanChanged})
		time.Sleep(20 * time.Millisecond)
		assert.False(t, called.Load())
	})
}
