package outbox

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domoutbox "github.com/Kazumiii-arch/VortexChestShop/internal/domain/outbox"
)

type testEvent struct {
	name string
	n    int
}

func (e testEvent) EventName() string { return e.name }

func TestBusDeliversToAllSubscribers(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(zap.NewNop())
	bus.Start(ctx)
	defer bus.Stop(ctx)

	var (
		mu       sync.Mutex
		received []int
		wg       sync.WaitGroup
	)
	wg.Add(6)
	for s := 0; s < 2; s++ {
		bus.Subscribe("shop.test", func(_ context.Context, e domoutbox.Event) error {
			defer wg.Done()
			mu.Lock()
			received = append(received, e.(testEvent).n)
			mu.Unlock()
			return nil
		})
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, bus.Publish(ctx, testEvent{name: "shop.test", n: i}))
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("deliveries did not complete")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, received, 6)
}

func TestBusIsolatesFailingHandlers(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(zap.NewNop())
	bus.Start(ctx)
	defer bus.Stop(ctx)

	var healthy atomic.Int32
	bus.Subscribe("shop.test", func(context.Context, domoutbox.Event) error {
		panic("handler exploded")
	})
	bus.Subscribe("shop.test", func(context.Context, domoutbox.Event) error {
		return errors.New("handler failed")
	})
	done := make(chan struct{})
	bus.Subscribe("shop.test", func(context.Context, domoutbox.Event) error {
		healthy.Add(1)
		close(done)
		return nil
	})

	require.NoError(t, bus.Publish(ctx, testEvent{name: "shop.test"}))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("healthy handler never ran")
	}
	assert.Equal(t, int32(1), healthy.Load())
}

func TestBusDropsUnsubscribedEvents(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(zap.NewNop())
	bus.Start(ctx)

	require.NoError(t, bus.Publish(ctx, testEvent{name: "nobody.cares"}))
	bus.Stop(ctx)
}

func TestBusPublishAfterStopDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(zap.NewNop())
	bus.Start(ctx)
	bus.Stop(ctx)

	require.NotPanics(t, func() {
		assert.NoError(t, bus.Publish(ctx, testEvent{name: "shop.test"}))
	})
}

func TestBusPublishAbortsOnCanceledContext(t *testing.T) {
	bus := NewBus(zap.NewNop())
	// never started: the queue only drains if the loop runs, so fill it up
	for i := 0; i < queueBuffer; i++ {
		require.NoError(t, bus.Publish(context.Background(), testEvent{name: "shop.test"}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := bus.Publish(ctx, testEvent{name: "shop.test"})
	require.ErrorIs(t, err, context.Canceled)
}
