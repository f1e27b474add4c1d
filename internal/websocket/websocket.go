package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Topics published by the application.
const (
	TopicProducts    = "products"
	TopicSalesOrders = "sales_orders"
	TopicOrders      = "orders"
	TopicUsers       = "users"
	TopicAudit       = "audit"
)

// Event is one change notification. Data carries the record as stored after
// the change (nil for deletes), so subscribers replace their copy instead of
// patching it.
type Event struct {
	Topic  string `json:"topic"`
	Type   string `json:"type"`
	ID     any    `json:"id"`
	Action string `json:"action"`
	Data   any    `json:"data,omitempty"`
}

// clientMessage is what browsers send to manage their subscriptions.
type clientMessage struct {
	Op    string `json:"op"`
	Topic string `json:"topic"`
}

// client wraps a WebSocket connection with a mutex for thread-safe writes.
// A client with no topics receives every event.
type client struct {
	conn   *ws.Conn
	mu     sync.Mutex
	topics map[string]bool
}

func (c *client) wants(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.topics) == 0 || c.topics[topic]
}

func (c *client) write(data []byte) (writeErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			writeErr = fmt.Errorf("ws: write panic: %v", r)
		}
	}()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteMessage(ws.TextMessage, data)
}

// Hub fans change events out to WebSocket clients and in-process
// subscribers, filtered by topic.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	subs    map[string]map[int]chan Event
	nextSub int
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		subs:    make(map[string]map[int]chan Event),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok && c.conn != nil {
		_ = c.conn.Close()
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribe registers an in-process listener for topic. Events are dropped
// for a listener whose buffer is full. cancel closes the channel.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]chan Event)
	}
	h.subs[topic][id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[topic], id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers evt to every subscriber of topic.
func (h *Hub) Publish(topic string, evt Event) {
	evt.Topic = topic
	data, err := json.Marshal(evt)
	if err != nil {
		zap.S().Errorw("ws: marshal event", "topic", topic, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	for _, ch := range h.subs[topic] {
		select {
		case ch <- evt:
		default:
			zap.S().Warnw("ws: subscriber buffer full, event dropped", "topic", topic)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.wants(topic) {
			continue
		}
		if err := c.write(data); err != nil {
			h.unregister(c)
		}
	}
}

// BroadcastChange publishes a change to a record on topic. action is a
// lower-case verb such as "create", "update", "archive" or "delete".
func (h *Hub) BroadcastChange(topic, action string, id, data any) {
	h.Publish(topic, Event{
		Type:   topic + "_" + action + "d",
		ID:     id,
		Action: action,
		Data:   data,
	})
}

// Upgrader is the default WebSocket upgrader.
var Upgrader = ws.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *Hub) handleMessage(c *client, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Topic == "" {
		return
	}
	c.mu.Lock()
	switch msg.Op {
	case "subscribe":
		c.topics[msg.Topic] = true
	case "unsubscribe":
		delete(c.topics, msg.Topic)
	default:
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	ack, _ := json.Marshal(clientMessage{Op: msg.Op + "d", Topic: msg.Topic})
	if err := c.write(ack); err != nil {
		h.unregister(c)
	}
}

// HandleWebSocket upgrades the connection, keeps it alive with pings and
// applies the client's subscribe / unsubscribe messages.
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("ws: upgrade error", "error", err)
		return
	}

	c := &client{conn: conn, topics: map[string]bool{}}
	hub.register(c)
	zap.S().Debugw("ws: client connected", "clients", hub.ClientCount())

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.mu.Lock()
				err := conn.WriteControl(ws.PingMessage, nil, time.Now().Add(5*time.Second))
				c.mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		hub.handleMessage(c, raw)
	}
	close(done)
	hub.unregister(c)
	zap.S().Debugw("ws: client disconnected")
}
