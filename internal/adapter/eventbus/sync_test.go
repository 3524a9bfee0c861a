package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/gospot/internal/domain"
	"github.com/tejashwikalptaru/gospot/internal/logger"
	"github.com/tejashwikalptaru/gospot/internal/testutil"
)

// testEvent is a minimal event carrying an integer payload.
type testEvent struct {
	domain.BaseEvent
	kind  domain.EventType
	Value int
}

func (e testEvent) Type() domain.EventType { return e.kind }

func newTestEvent(kind domain.EventType, value int) testEvent {
	return testEvent{BaseEvent: domain.NewBaseEvent(), kind: kind, Value: value}
}

func newTestBus(t *testing.T) *SyncEventBus {
	t.Helper()
	bus := NewSyncEventBus(logger.NewTestLogger())
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func TestNewSyncEventBus(t *testing.T) {
	bus := NewSyncEventBus(nil)

	require.NotNil(t, bus)
	assert.Equal(t, 0, bus.SubscriberCount())
	assert.False(t, bus.closed)
}

func TestPublishSubscribe(t *testing.T) {
	bus := newTestBus(t)

	var received domain.Event
	callCount := 0

	subID := bus.Subscribe(domain.EventMetadataUpdated, func(event domain.Event) {
		received = event
		callCount++
	})
	require.NotEmpty(t, subID)

	bus.Publish(newTestEvent(domain.EventMetadataUpdated, 7))

	assert.Equal(t, 1, callCount)
	require.NotNil(t, received)
	assert.Equal(t, domain.EventMetadataUpdated, received.Type())
	assert.Equal(t, 7, received.(testEvent).Value)
	assert.False(t, received.Timestamp().IsZero())
}

func TestPublish_OnlyMatchingType(t *testing.T) {
	bus := newTestBus(t)

	var calls atomic.Int32
	bus.Subscribe(domain.EventLoggedIn, func(domain.Event) { calls.Add(1) })

	bus.Publish(newTestEvent(domain.EventLoggedOut, 0))
	bus.Publish(nil)

	assert.Equal(t, int32(0), calls.Load())
}

func TestMultipleSubscribers_InOrder(t *testing.T) {
	bus := newTestBus(t)

	var order []int
	for i := 1; i <= 3; i++ {
		bus.Subscribe(domain.EventEndOfTrack, func(domain.Event) { order = append(order, i) })
	}

	bus.Publish(newTestEvent(domain.EventEndOfTrack, 0))

	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestUnsubscribe(t *testing.T) {
	bus := newTestBus(t)

	var calls atomic.Int32
	subID := bus.Subscribe(domain.EventStartPlayback, func(domain.Event) { calls.Add(1) })

	bus.Publish(newTestEvent(domain.EventStartPlayback, 0))
	assert.Equal(t, int32(1), calls.Load())

	bus.Unsubscribe(subID)
	bus.Publish(newTestEvent(domain.EventStartPlayback, 0))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, bus.SubscriberCountFor(domain.EventStartPlayback))
}

func TestUnsubscribe_PreservesOrder(t *testing.T) {
	bus := newTestBus(t)

	var order []string
	bus.Subscribe(domain.EventLoggedIn, func(domain.Event) { order = append(order, "a") })
	b := bus.Subscribe(domain.EventLoggedIn, func(domain.Event) { order = append(order, "b") })
	bus.Subscribe(domain.EventLoggedIn, func(domain.Event) { order = append(order, "c") })
	bus.Subscribe(domain.EventLoggedIn, func(domain.Event) { order = append(order, "d") })

	bus.Unsubscribe(b)
	bus.Publish(newTestEvent(domain.EventLoggedIn, 0))

	assert.Equal(t, []string{"a", "c", "d"}, order)
}

func TestUnsubscribeInvalidID(t *testing.T) {
	bus := newTestBus(t)

	assert.NotPanics(t, func() {
		bus.Unsubscribe("invalid-id")
		bus.Unsubscribe("")
	})
}

func TestUnsubscribe_DuringDelivery(t *testing.T) {
	bus := newTestBus(t)

	var second atomic.Int32
	var secondID domain.SubscriptionID

	bus.Subscribe(domain.EventMetadataUpdated, func(domain.Event) {
		bus.Unsubscribe(secondID)
	})
	secondID = bus.Subscribe(domain.EventMetadataUpdated, func(domain.Event) { second.Add(1) })

	// The first publish still sees its snapshot
	bus.Publish(newTestEvent(domain.EventMetadataUpdated, 0))
	bus.Publish(newTestEvent(domain.EventMetadataUpdated, 0))

	assert.Equal(t, int32(1), second.Load())
}

func TestSubscribeFiltered(t *testing.T) {
	bus := newTestBus(t)

	var got []int
	bus.SubscribeFiltered(domain.EventEntityLoaded, func(e domain.Event) bool {
		return e.(testEvent).Value%2 == 0
	}, func(e domain.Event) {
		got = append(got, e.(testEvent).Value)
	})

	for i := 0; i < 5; i++ {
		bus.Publish(newTestEvent(domain.EventEntityLoaded, i))
	}

	assert.Equal(t, []int{0, 2, 4}, got)
}

func TestSubscribeAll(t *testing.T) {
	bus := newTestBus(t)

	var mu sync.Mutex
	var received []domain.EventType

	bus.SubscribeAll(func(event domain.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event.Type())
	})

	bus.Publish(newTestEvent(domain.EventLoggedIn, 0))
	bus.Publish(newTestEvent(domain.EventMetadataUpdated, 0))
	bus.Publish(newTestEvent(domain.EventLogMessage, 0))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.EventType{
		domain.EventLoggedIn,
		domain.EventMetadataUpdated,
		domain.EventLogMessage,
	}, received)
}

func TestHasSubscribers(t *testing.T) {
	bus := newTestBus(t)

	assert.False(t, bus.HasSubscribers(domain.EventLoggedIn))

	bus.Subscribe(domain.EventLoggedIn, func(domain.Event) {})
	assert.True(t, bus.HasSubscribers(domain.EventLoggedIn))
	assert.False(t, bus.HasSubscribers(domain.EventLoggedOut))

	bus.SubscribeAll(func(domain.Event) {})
	assert.True(t, bus.HasSubscribers(domain.EventLoggedOut))
}

func TestHandlerPanic(t *testing.T) {
	bus := newTestBus(t)

	var calls atomic.Int32
	bus.Subscribe(domain.EventPlayTokenLost, func(domain.Event) { panic("test panic") })
	bus.Subscribe(domain.EventPlayTokenLost, func(domain.Event) { calls.Add(1) })

	assert.NotPanics(t, func() {
		bus.Publish(newTestEvent(domain.EventPlayTokenLost, 0))
	})
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubscribeNilHandlerPanics(t *testing.T) {
	bus := newTestBus(t)

	assert.Panics(t, func() { bus.Subscribe(domain.EventLoggedIn, nil) })
	assert.Panics(t, func() { bus.SubscribeAll(nil) })
}

func TestClose(t *testing.T) {
	bus := NewSyncEventBus(logger.NewTestLogger())

	var calls atomic.Int32
	bus.Subscribe(domain.EventLoggedIn, func(domain.Event) { calls.Add(1) })
	bus.SubscribeAll(func(domain.Event) { calls.Add(1) })
	require.Equal(t, 2, bus.SubscriberCount())

	require.NoError(t, bus.Close())
	assert.Equal(t, 0, bus.SubscriberCount())

	bus.Publish(newTestEvent(domain.EventLoggedIn, 0))
	assert.Equal(t, int32(0), calls.Load())

	assert.Error(t, bus.Close())
	assert.Panics(t, func() { bus.Subscribe(domain.EventLoggedIn, func(domain.Event) {}) })
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	bus := NewSyncEventBus(logger.NewTestLogger())
	defer bus.Close()

	var eventCount atomic.Int32
	bus.Subscribe(domain.EventNotifyMainThread, func(domain.Event) { eventCount.Add(1) })

	const numPublishers = 5
	const numSubscribers = 5
	const eventsPerPublisher = 50

	var wg sync.WaitGroup
	wg.Add(numPublishers + numSubscribers)

	for i := 0; i < numPublishers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerPublisher; j++ {
				bus.Publish(newTestEvent(domain.EventNotifyMainThread, j))
				time.Sleep(time.Microsecond)
			}
		}()
	}

	for i := 0; i < numSubscribers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				id := bus.Subscribe(domain.EventLogMessage, func(domain.Event) {})
				bus.Unsubscribe(id)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(numPublishers*eventsPerPublisher), eventCount.Load())
	assert.Equal(t, 1, bus.SubscriberCount())
}
