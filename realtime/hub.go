package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is the envelope for every frame pushed to clients.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// TimelineUpdate is published after every mutation that changes a post
// aggregate. Post is nil when the post was deleted.
type TimelineUpdate struct {
	Type      string      `json:"type"`
	Post      interface{} `json:"post"`
	PostID    uint        `json:"postId"`
	Action    string      `json:"action,omitempty"`
	UserID    uint        `json:"userId,omitempty"`
	CommentID uint        `json:"commentId,omitempty"`
	Category  string      `json:"category,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type broadcastMessage struct {
	category string // empty means every connected client
	data     []byte
}

// Hub tracks connected viewers and their category rooms and fans events out
// to them. Delivery is best-effort and at-most-once: a slow client is
// disconnected, a full queue drops the event.
type Hub struct {
	clients    map[*Client]bool
	categories map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		categories: make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()

			h.fanOut("", mustMarshal(Event{
				Event: "user:online",
				Data: ginH{
					"userId":      client.UserID,
					"username":    client.Username,
					"totalOnline": total,
					"timestamp":   timestamp(),
				},
			}))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; !ok {
				h.mu.Unlock()
				continue
			}
			delete(h.clients, client)
			for category, members := range h.categories {
				delete(members, client)
				if len(members) == 0 {
					delete(h.categories, category)
				}
			}
			close(client.send)
			total := len(h.clients)
			h.mu.Unlock()

			h.fanOut("", mustMarshal(Event{
				Event: "user:offline",
				Data: ginH{
					"userId":      client.UserID,
					"username":    client.Username,
					"totalOnline": total,
					"timestamp":   timestamp(),
				},
			}))

		case msg := <-h.broadcast:
			h.fanOut(msg.category, msg.data)
		}
	}
}

type ginH map[string]interface{}

func (h *Hub) fanOut(category string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := h.clients
	if category != "" {
		targets = h.categories[category]
	}
	for client := range targets {
		select {
		case client.send <- data:
		default:
			// Slow consumer; drop the event rather than block the hub.
			log.Printf("realtime: dropping event for slow client (user %d)", client.UserID)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinCategory subscribes client to post:new events for a category room.
func (h *Hub) JoinCategory(client *Client, category string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.categories[category]; !ok {
		h.categories[category] = make(map[*Client]bool)
	}
	h.categories[category][client] = true
	return len(h.categories[category])
}

func (h *Hub) LeaveCategory(client *Client, category string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.categories[category]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.categories, category)
		}
	}
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastTimeline publishes a timeline:update to every connected viewer.
// Safe on a nil hub so handlers can run without realtime wired up. Never
// blocks the caller: if the hub queue is full the event is dropped and
// logged, and the HTTP response proceeds regardless.
func (h *Hub) BroadcastTimeline(update TimelineUpdate) {
	if update.Timestamp == "" {
		update.Timestamp = timestamp()
	}
	h.publish("", Event{Event: "timeline:update", Data: update})
}

// BroadcastToCategory publishes an event only to viewers in one category
// room.
func (h *Hub) BroadcastToCategory(category string, event Event) {
	h.publish(category, event)
}

func (h *Hub) publish(category string, event Event) {
	if h == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to marshal %s event: %v", event.Event, err)
		return
	}
	select {
	case h.broadcast <- broadcastMessage{category: category, data: data}:
	default:
		log.Printf("realtime: broadcast queue full, dropping %s event", event.Event)
	}
}

func mustMarshal(event Event) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to marshal %s event: %v", event.Event, err)
		return []byte("{}")
	}
	return data
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
