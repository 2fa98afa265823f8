package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sciforge/chemlab/internal/session"
	"github.com/sciforge/chemlab/internal/testutil"
)

func TestBrokerDeliversToUserSubscribers(t *testing.T) {
	b := NewBroker(testutil.TestLogger())

	alice := b.Subscribe("alice")
	defer b.Unsubscribe("alice", alice)
	bob := b.Subscribe("bob")
	defer b.Unsubscribe("bob", bob)

	b.Publish(session.Event{Type: "reaction", UserID: "alice"})

	select {
	case ev := <-alice:
		assert.Equal(t, "reaction", ev.Type)
	case <-time.After(time.Second):
		t.Fatal("alice did not receive her event")
	}

	select {
	case ev := <-bob:
		t.Fatalf("bob received alice's event: %+v", ev)
	default:
	}
}

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker(testutil.TestLogger())

	first := b.Subscribe("alice")
	defer b.Unsubscribe("alice", first)
	second := b.Subscribe("alice")
	defer b.Unsubscribe("alice", second)

	b.Publish(session.Event{Type: "safety_alert", UserID: "alice"})

	for _, ch := range []chan session.Event{first, second} {
		select {
		case ev := <-ch:
			assert.Equal(t, "safety_alert", ev.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestBrokerDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroker(testutil.TestLogger())

	ch := b.Subscribe("alice")
	defer b.Unsubscribe("alice", ch)

	// Fill the buffer without draining, then publish one more. Publish must
	// return without blocking.
	for i := 0; i < subscriberBuf+10; i++ {
		b.Publish(session.Event{Type: "reaction", UserID: "alice"})
	}

	require.Len(t, ch, subscriberBuf)
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(testutil.TestLogger())

	ch := b.Subscribe("alice")
	b.Unsubscribe("alice", ch)

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after the last unsubscribe is a no-op.
	b.Publish(session.Event{Type: "reaction", UserID: "alice"})
}
