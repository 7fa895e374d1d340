package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type Client struct {
	UserID   uint
	Username string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint, username string) *Client {
	return &Client{
		UserID:   userID,
		Username: username,
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 64),
	}
}

type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type categoryPayload struct {
	Category string `json:"category"`
}

// ReadPump consumes client frames until the connection drops. The only
// client-driven events are category room join/leave.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("realtime: read error: %v", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.sendEvent(Event{Event: "error", Data: ginH{"message": "Malformed message"}})
		return
	}

	switch msg.Event {
	case "category:join":
		var payload categoryPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.Category == "" {
			c.sendEvent(Event{Event: "error", Data: ginH{"message": "Category is required"}})
			return
		}
		members := c.hub.JoinCategory(c, payload.Category)
		c.hub.BroadcastToCategory(payload.Category, Event{
			Event: "category:user-joined",
			Data: ginH{
				"username":        c.Username,
				"category":        payload.Category,
				"usersInCategory": members,
				"timestamp":       timestamp(),
			},
		})

	case "category:leave":
		var payload categoryPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.Category == "" {
			return
		}
		c.hub.LeaveCategory(c, payload.Category)
	}
}

// WritePump flushes queued events to the connection and keeps it alive with
// pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendEvent(event Event) {
	select {
	case c.send <- mustMarshal(event):
	default:
	}
}
