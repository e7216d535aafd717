package sse

import (
	"bytes"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/casevault/backend/internal/metrics"
)

// Event is one frame on the live feed.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client is a single feed subscriber. EventChannel is closed by the hub
// when the client unregisters or the hub stops.
type Client struct {
	ID           string
	EventChannel chan Event

	filter map[string]struct{} // nil subscribes to every event type
}

func (c *Client) wants(eventType string) bool {
	if c.filter == nil {
		return true
	}
	_, ok := c.filter[eventType]
	return ok
}

// Hub fans events out to connected feed clients. The client map is
// owned exclusively by the run loop; all access goes through channels.
type Hub struct {
	register   chan *Client
	unregister chan string
	broadcast  chan Event
	shutdown   chan struct{}
	done       chan struct{}
	count      atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		broadcast:  make(chan Event, BroadcastBufferSize),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the fan-out loop.
func (h *Hub) Start() {
	go h.run()
}

// Stop terminates the loop and closes every client channel.
func (h *Hub) Stop() {
	close(h.shutdown)
	<-h.done
}

func (h *Hub) run() {
	clients := make(map[string]*Client)

	defer func() {
		for _, c := range clients {
			close(c.EventChannel)
		}
		h.count.Store(0)
		metrics.SSESubscribers.Set(0)
		close(h.done)
	}()

	for {
		select {
		case c := <-h.register:
			clients[c.ID] = c
			h.count.Store(int64(len(clients)))
			metrics.SSESubscribers.Set(float64(len(clients)))

		case id := <-h.unregister:
			if c, ok := clients[id]; ok {
				close(c.EventChannel)
				delete(clients, id)
				h.count.Store(int64(len(clients)))
				metrics.SSESubscribers.Set(float64(len(clients)))
			}

		case evt := <-h.broadcast:
			for _, c := range clients {
				if !c.wants(evt.Type) {
					continue
				}
				// Non-blocking send: a slow consumer misses events
				// rather than stalling the feed.
				select {
				case c.EventChannel <- evt:
				default:
				}
			}

		case <-h.shutdown:
			return
		}
	}
}

// Register subscribes a new client, optionally filtered to eventTypes.
func (h *Hub) Register(eventTypes []string) *Client {
	c := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		c.filter = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			c.filter[t] = struct{}{}
		}
	}

	select {
	case h.register <- c:
	case <-h.shutdown:
		close(c.EventChannel)
	}
	return c
}

// Unregister drops a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for every interested client. Best effort:
// when the buffer is full the event is dropped.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	evt := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- evt:
	default:
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// FormatSSEMessage renders an event as a wire-format SSE frame.
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(evt.ID) + len(evt.Type) + 24)
	buf.WriteString("id: ")
	buf.WriteString(evt.ID)
	buf.WriteString("\nevent: ")
	buf.WriteString(evt.Type)
	buf.WriteString("\ndata: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}
