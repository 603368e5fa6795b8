package folio

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// LiveMessage is sent to connected browsers when content changes.
type LiveMessage struct {
	Type  string   `json:"type"`
	Paths []string `json:"paths,omitempty"`
}

// Logger is the subset of echo.Logger used outside request handling.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LiveHub tracks live-reload websocket clients in watch mode.
type LiveHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	log      Logger
}

// NewLiveHub returns an empty hub.
func NewLiveHub(log Logger) *LiveHub {
	return &LiveHub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log,
	}
}

// Handle upgrades the request and keeps the connection registered until the
// browser goes away.
func (h *LiveHub) Handle(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Errorf("live reload upgrade: %v", err)
		return nil
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Reads only detect the close; browsers never send anything.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("live reload: %v", err)
			}
			return nil
		}
	}
}

// Broadcast sends msg to every connected client, dropping the ones that fail.
func (h *LiveHub) Broadcast(msg LiveMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Errorf("live reload write: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Clients returns the number of connected browsers.
func (h *LiveHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *LiveHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(h.clients, conn)
	}
}
