package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Event names are part of the client contract.
const (
	EventConnectionTest      = "connection-test"
	EventJoinCustomerDisplay = "join-customer-display"
	EventNewOrderQR          = "new-order-qr"
	EventPaymentStatusUpdate = "payment-status-update"
	EventAdminNotification   = "admin-notification"
)

type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Hub owns the set of connected clients and the customer-display group.
// It is injected rather than package-level so tests can build isolated
// instances. Broadcasts are fire-and-forget: no acknowledgement, no replay
// for late joiners (they fetch the latest-orders snapshot instead).
type Hub struct {
	mu              sync.Mutex
	clients         map[*websocket.Conn]bool
	customerDisplay map[*websocket.Conn]bool

	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[*websocket.Conn]bool),
		customerDisplay: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades the request and runs the read loop until the
// client disconnects. The only client-to-server message handled is
// join-customer-display.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Greet before registering so this write cannot race a broadcast.
	if err := conn.WriteJSON(envelope{
		Event: EventConnectionTest,
		Data:  gin.H{"message": "connected", "time": time.Now()},
	}); err != nil {
		return
	}

	h.add(conn)
	defer h.remove(conn)

	for {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		if msg.Event == EventJoinCustomerDisplay {
			h.joinCustomerDisplay(conn)
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	delete(h.customerDisplay, conn)
	h.mu.Unlock()
}

func (h *Hub) joinCustomerDisplay(conn *websocket.Conn) {
	h.mu.Lock()
	h.customerDisplay[conn] = true
	h.mu.Unlock()
	h.logger.Debug("client joined customer display")
}

// BroadcastNewOrderQR pushes a freshly created order with its QR payload to
// the customer-display group and every other connected client.
func (h *Hub) BroadcastNewOrderQR(payload interface{}) {
	h.broadcast(EventNewOrderQR, payload)
}

// BroadcastPaymentStatus pushes a payment-status-update event.
func (h *Hub) BroadcastPaymentStatus(payload interface{}) {
	h.broadcast(EventPaymentStatusUpdate, payload)
}

// BroadcastAdminNotification pushes an admin notification to every client.
func (h *Hub) BroadcastAdminNotification(payload interface{}) {
	h.broadcast(EventAdminNotification, payload)
}

// broadcast writes the event once to each connected client; the
// customer-display group is a subset of the client set, so a single pass
// covers both audiences. Dead connections are dropped on write failure.
func (h *Hub) broadcast(event string, payload interface{}) {
	msg := envelope{Event: event, Data: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
			delete(h.customerDisplay, conn)
			h.logger.Debug("dropped websocket client", zap.Error(err))
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) customerDisplayCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.customerDisplay)
}
