package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroker_Subscribe(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)

	broker.Publish(LogLineEvent, "hello")

	select {
	case event := <-ch:
		require.Equal(t, "hello", event.Payload)
		require.Equal(t, LogLineEvent, event.Type)
		require.False(t, event.Timestamp.IsZero())
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for event")
	}
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx := context.Background()

	ch1 := broker.Subscribe(ctx)
	ch2 := broker.Subscribe(ctx)

	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(BarChangedEvent, 7)

	for i, ch := range []<-chan Event[int]{ch1, ch2} {
		select {
		case event := <-ch:
			require.Equal(t, 7, event.Payload, "subscriber %d", i)
			require.Equal(t, BarChangedEvent, event.Type, "subscriber %d", i)
		case <-time.After(100 * time.Millisecond):
			require.Fail(t, "timeout waiting for event", "subscriber %d", i)
		}
	}
}

func TestBroker_ContextCancellation(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())

	ch := broker.Subscribe(ctx)
	require.Equal(t, 1, broker.SubscriberCount())

	cancel()
	time.Sleep(20 * time.Millisecond) // wait for cleanup goroutine

	require.Equal(t, 0, broker.SubscriberCount())

	_, ok := <-ch
	require.False(t, ok, "channel should be closed")
}

func TestBroker_NonBlocking(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())

	// Second publish is dropped rather than blocking.
	broker.Publish(BarChangedEvent, 1)
	broker.Publish(BarChangedEvent, 2)

	event := <-ch
	require.Equal(t, 1, event.Payload)

	select {
	case extra := <-ch:
		require.Fail(t, "expected second event to be dropped", "got %v", extra.Payload)
	default:
	}
}

func TestBroker_SubscribeAfterClose(t *testing.T) {
	broker := NewBroker[string]()
	broker.Close()

	ch := broker.Subscribe(context.Background())
	_, ok := <-ch
	require.False(t, ok, "subscription after close should be a closed channel")
}

func TestBroker_PublishAfterClose(t *testing.T) {
	broker := NewBroker[string]()
	broker.Close()

	// Must not panic.
	broker.Publish(LogLineEvent, "late")
	broker.Close() // double close is a no-op
}
