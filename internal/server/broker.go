package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sciforge/chemlab/internal/session"
)

const (
	writeWait     = 10 * time.Second
	pingInterval  = 30 * time.Second
	subscriberBuf = 64
	wsReadLimit   = 512 // Clients only send control frames; anything bigger is a protocol error.
)

// Broker fans session events out to websocket subscribers, keyed by user.
// It implements session.Publisher. Publish never blocks: subscribers with a
// full buffer have the event dropped so one slow client cannot stall the
// session mutex.
type Broker struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[string]map[chan session.Event]struct{}
}

// NewBroker creates a websocket event broker.
func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		subscribers: make(map[string]map[chan session.Event]struct{}),
	}
}

// Publish delivers an event to all subscribers of the event's user.
func (b *Broker) Publish(ev session.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[ev.UserID] {
		select {
		case ch <- ev:
		default:
			// Subscriber buffer full, drop this event for them.
		}
	}
}

// Subscribe returns a channel receiving the given user's session events.
// The caller must call Unsubscribe when done.
func (b *Broker) Subscribe(userID string) chan session.Event {
	ch := make(chan session.Event, subscriberBuf)
	b.mu.Lock()
	if b.subscribers[userID] == nil {
		b.subscribers[userID] = make(map[chan session.Event]struct{})
	}
	b.subscribers[userID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel and closes it.
func (b *Broker) Unsubscribe(userID string, ch chan session.Event) {
	b.mu.Lock()
	if subs := b.subscribers[userID]; subs != nil {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(b.subscribers, userID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

// ServeWS upgrades the request to a websocket and streams the user's events
// until the client disconnects.
func (b *Broker) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		b.logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}
	defer conn.Close()

	ch := b.Subscribe(userID)
	defer b.Unsubscribe(userID, ch)

	// Read pump: discard client frames, detect disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(wsReadLimit)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				b.logger.Warn("websocket event marshal failed", "user_id", userID, "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
