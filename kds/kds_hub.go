package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/dinein-backend/utils"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	restaurantID uint
	role         string
}

// Hub menampung semua client KDS (staff, manager) per restoran dan
// meneruskan event hanya ke restoran yang bersangkutan.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]client)}
}

// Register adds a connection to the restaurant's audience.
func (h *Hub) Register(conn *websocket.Conn, restaurantID uint, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = client{restaurantID: restaurantID, role: role}
	utils.InfoLogger.WithFields(map[string]interface{}{
		"restaurant_id": restaurantID,
		"role":          role,
		"clients":       len(h.clients),
	}).Info("KDS client connected")
}

// Unregister melepaskan connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(conn)
}

func (h *Hub) remove(conn *websocket.Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

// Clients counts the connections listening to a restaurant.
func (h *Hub) Clients(restaurantID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.clients {
		if c.restaurantID == restaurantID {
			n++
		}
	}
	return n
}

// Publish sends an event to every client of the restaurant. Connections that
// fail to receive it are dropped.
func (h *Hub) Publish(restaurantID uint, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("event", event).Error("Error marshaling KDS message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, c := range h.clients {
		if c.restaurantID != restaurantID {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.WithError(err).WithField("role", c.role).Warn("Error sending message to KDS client")
			h.remove(conn)
		}
	}
}
