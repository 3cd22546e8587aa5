// Package realtime implements the room-based fan-out layer for chat and
// notifications. It is a best-effort push channel, not a durable queue:
// events published to a room reach the connections subscribed at that
// moment and nobody else. The stores remain the source of truth.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/api/metrics"
)

// envelope is the wire format for every pushed event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type subscription struct {
	room   string
	client *Client
}

type publication struct {
	room    string
	event   string
	payload any
	except  *Client // nil = deliver to every subscriber
}

// Hub owns the room membership table. A single run-loop goroutine processes
// joins, leaves and publishes, so events published to one room are fanned
// out in publish order without any locking.
type Hub struct {
	join    chan subscription
	leave   chan subscription
	drop    chan *Client
	publish chan publication

	rooms   map[string]map[*Client]struct{}
	members map[*Client]map[string]struct{}

	log zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		join:    make(chan subscription),
		leave:   make(chan subscription),
		drop:    make(chan *Client),
		publish: make(chan publication, 256),
		rooms:   make(map[string]map[*Client]struct{}),
		members: make(map[*Client]map[string]struct{}),
		log:     log,
	}
}

// Run processes hub events until ctx is cancelled. Must be started exactly
// once, before the first connection is accepted.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-h.join:
			h.handleJoin(sub)
		case sub := <-h.leave:
			h.handleLeave(sub)
		case c := <-h.drop:
			h.handleDrop(c)
		case pub := <-h.publish:
			h.handlePublish(pub)
		}
	}
}

// Join subscribes a connection to a room.
func (h *Hub) Join(room string, c *Client) {
	h.join <- subscription{room: room, client: c}
}

// Leave unsubscribes a connection from one room. Idempotent.
func (h *Hub) Leave(room string, c *Client) {
	h.leave <- subscription{room: room, client: c}
}

// Drop removes a connection from every room it joined. Idempotent; called
// on disconnect.
func (h *Hub) Drop(c *Client) {
	h.drop <- c
}

// Publish delivers the event to every connection currently subscribed to
// the room. Fire-and-forget: no acknowledgment, no retry, no persistence.
func (h *Hub) Publish(room, event string, payload any) {
	h.publish <- publication{room: room, event: event, payload: payload}
}

// relay is Publish with a sender exclusion, used for chat echo suppression.
func (h *Hub) relay(room, event string, payload any, except *Client) {
	h.publish <- publication{room: room, event: event, payload: payload, except: except}
}

func (h *Hub) handleJoin(sub subscription) {
	if h.rooms[sub.room] == nil {
		h.rooms[sub.room] = make(map[*Client]struct{})
	}
	h.rooms[sub.room][sub.client] = struct{}{}

	if h.members[sub.client] == nil {
		h.members[sub.client] = make(map[string]struct{})
		metrics.SocketConnections.Inc()
	}
	h.members[sub.client][sub.room] = struct{}{}

	h.log.Debug().Str("room", sub.room).Str("connection_id", sub.client.ID).Msg("joined room")
}

func (h *Hub) handleLeave(sub subscription) {
	if clients := h.rooms[sub.room]; clients != nil {
		delete(clients, sub.client)
		if len(clients) == 0 {
			delete(h.rooms, sub.room)
		}
	}
	if rooms := h.members[sub.client]; rooms != nil {
		delete(rooms, sub.room)
	}
}

func (h *Hub) handleDrop(c *Client) {
	rooms, ok := h.members[c]
	if !ok {
		return
	}
	for room := range rooms {
		if clients := h.rooms[room]; clients != nil {
			delete(clients, c)
			if len(clients) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	delete(h.members, c)
	close(c.send)
	metrics.SocketConnections.Dec()

	h.log.Debug().Str("connection_id", c.ID).Msg("connection dropped")
}

func (h *Hub) handlePublish(pub publication) {
	clients := h.rooms[pub.room]
	if len(clients) == 0 {
		// Nobody is listening; the durable copy already lives in the store.
		return
	}

	raw, err := json.Marshal(envelope{Event: pub.event, Data: pub.payload})
	if err != nil {
		h.log.Error().Err(err).Str("event", pub.event).Msg("event marshal failed")
		return
	}

	metrics.SocketEventsTotal.WithLabelValues(pub.event).Inc()
	for c := range clients {
		if c == pub.except {
			continue
		}
		select {
		case c.send <- raw:
		default:
			// Slow consumer: drop the event for this connection rather than
			// stall the room.
			h.log.Warn().Str("connection_id", c.ID).Str("event", pub.event).Msg("send buffer full, event dropped")
		}
	}
}
