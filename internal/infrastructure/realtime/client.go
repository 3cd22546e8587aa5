package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/aulahub/lms-platform/internal/core/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
)

// clientMessage is what connected clients send upward.
type clientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinRoomData struct {
	ConversationID string `json:"conversation_id"`
}

type sendMessageData struct {
	ConversationID string          `json:"conversation_id"`
	Message        json.RawMessage `json:"message"`
}

// Client is one live websocket connection bound to an authenticated user.
// Every session auto-joins its user room; conversation rooms are joined on
// request.
type Client struct {
	ID     string
	UserID string

	hub      *Hub
	presence ports.Presence
	conn     *websocket.Conn
	send     chan []byte
	log      zerolog.Logger
}

// NewClient wraps an upgraded connection. The caller must invoke Start.
func NewClient(hub *Hub, presence ports.Presence, conn *websocket.Conn, userID string, log zerolog.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		ID:       id,
		UserID:   userID,
		hub:      hub,
		presence: presence,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		log:      log.With().Str("connection_id", id).Str("user_id", userID).Logger(),
	}
}

// Start joins the user room, marks presence and launches the read and write
// pumps. It returns immediately.
func (c *Client) Start(ctx context.Context) {
	c.hub.Join(ports.UserRoom(c.UserID), c)
	if err := c.presence.Touch(ctx, c.UserID); err != nil {
		c.log.Warn().Err(err).Msg("presence touch failed")
	}

	go c.writePump()
	go c.readPump()
}

// readPump consumes client events until the connection closes, then drops
// the connection from all rooms and clears presence.
func (c *Client) readPump() {
	defer func() {
		c.hub.Drop(c)
		_ = c.conn.Close()
		if err := c.presence.Drop(context.Background(), c.UserID); err != nil {
			c.log.Warn().Err(err).Msg("presence drop failed")
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		// A live pong refreshes presence alongside the read deadline.
		_ = c.presence.Touch(context.Background(), c.UserID)
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Warn().Err(err).Msg("malformed client event")
			continue
		}
		c.handle(msg)
	}
}

// handle dispatches one client event. The send_message relay is advisory:
// the durable append happens over the REST path, and a client that skips it
// will diverge from the store.
func (c *Client) handle(msg clientMessage) {
	switch msg.Event {
	case "join_room":
		var data joinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.ConversationID == "" {
			return
		}
		c.hub.Join(ports.ConversationRoom(data.ConversationID), c)

	case "leave_room":
		var data joinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.ConversationID == "" {
			return
		}
		c.hub.Leave(ports.ConversationRoom(data.ConversationID), c)

	case "send_message":
		var data sendMessageData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.ConversationID == "" {
			return
		}
		c.hub.relay(ports.ConversationRoom(data.ConversationID), ports.EventReceiveMessage, data.Message, c)

	default:
		c.log.Debug().Str("event", msg.Event).Msg("unknown client event")
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. It exits when the hub closes the send channel on drop.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
