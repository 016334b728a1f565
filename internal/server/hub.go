package server

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the envelope for every websocket message.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	EventFrame  = "FRAME"
	EventParams = "PARAMS"
	EventStatus = "STATUS"
)

// Hub fans events out to every connected websocket client. All client
// bookkeeping happens on the run loop goroutine.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	closeOnce  sync.Once
}

func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Event),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}

		case event := <-h.broadcast:
			for client := range h.clients {
				if err := client.WriteJSON(event); err != nil {
					log.Printf("websocket write: %v", err)
					client.Close()
					delete(h.clients, client)
				}
			}

		case <-h.done:
			for client := range h.clients {
				client.Close()
				delete(h.clients, client)
			}
			return
		}
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(eventType string, payload any) {
	select {
	case h.broadcast <- Event{Type: eventType, Payload: payload}:
	case <-h.done:
	}
}

// Add registers a client. If the hub is stopped the connection is
// closed instead of blocking on the dead run loop.
func (h *Hub) Add(conn *websocket.Conn) {
	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
	}
}

// Remove unregisters a client.
func (h *Hub) Remove(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Close disconnects every client and stops the run loop.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
