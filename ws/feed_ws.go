package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// FeedHub broadcasts report lifecycle events (report_created,
// status_changed, report_assigned) to every connected dashboard client.
type FeedHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan FeedEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

type FeedEvent struct {
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func NewFeedHub() *FeedHub {
	return &FeedHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan FeedEvent, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *FeedHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(ev); err != nil {
					log.Printf("ws write error: %v", err)
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish never blocks a report operation: when the buffer is full the
// event is dropped (the feed is a convenience stream, not a log).
func (h *FeedHub) Publish(event string, data any) {
	ev := FeedEvent{Event: event, Data: data, Timestamp: time.Now()}
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("ws feed full, dropping %s", event)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // dev only
}

// GET /ws/feed
func (h *FeedHub) HandleFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	h.register <- conn

	// read loop exists only to detect close
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister <- conn
				return
			}
		}
	}()
}
