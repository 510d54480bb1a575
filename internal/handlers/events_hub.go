// edufy-erp/internal/handlers/events_hub.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Event is a realtime notification pushed to connected back-office clients
// (new enrollment, recorded payment, new lead).
type Event struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Ref     uint      `json:"ref,omitempty"`
	At      time.Time `json:"at"`
}

// Hub fans events out to every connected websocket client.
type Hub struct {
	clients    map[*hubClient]bool
	broadcast  chan Event
	register   chan *hubClient
	unregister chan *hubClient
}

type hubClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// GlobalHub is the process-wide event hub; main starts its Run loop.
var GlobalHub = NewHub()

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*hubClient]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *hubClient),
		unregister: make(chan *hubClient),
	}
}

// Run owns the client map; all membership changes and broadcasts go through
// this loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				slog.Error("Failed to marshal event", "error", err, "type", event.Type)
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow client, drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Publish queues an event for broadcast. Never blocks the caller: when the
// queue is full the event is dropped, notifications are not durable.
func (h *Hub) Publish(event Event) {
	event.At = time.Now()
	select {
	case h.broadcast <- event:
	default:
		slog.Warn("Event queue full, dropping event", "type", event.Type)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// EventsWebsocketHandler upgrades the connection and subscribes the client
// to the event stream. The stream is one-way, inbound frames are discarded.
func EventsWebsocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade websocket", "error", err)
		return
	}

	client := &hubClient{hub: GlobalHub, conn: conn, send: make(chan []byte, 16)}
	GlobalHub.register <- client

	go client.writePump()
	go client.readPump()
}

func (cl *hubClient) readPump() {
	defer func() {
		cl.hub.unregister <- cl
		cl.conn.Close()
	}()
	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (cl *hubClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()
	for {
		select {
		case message, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
