package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 只读流, 任意来源可订阅
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TradeHub pushes post-close fills to websocket subscribers. It is
// the orchestrator's trade listener.
type TradeHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *logger.Logger
}

func NewTradeHub(log *logger.Logger) *TradeHub {
	return &TradeHub{
		clients: make(map[*websocket.Conn]bool),
		logger:  log,
	}
}

// OnTrade broadcasts one fill to every subscriber. A failed write
// drops the client; subscribers reconnect on their own.
func (h *TradeHub) OnTrade(trade contracts.Trade) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(trade); err != nil {
			h.logger.WithError(err).Debug("Dropping websocket subscriber")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ServeWS upgrades the request and registers the subscriber
func (h *TradeHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("subscribers", count).Debug("Websocket subscriber connected")

	// drain control frames; any read error unregisters
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				if h.clients[conn] {
					conn.Close()
					delete(h.clients, conn)
				}
				h.mu.Unlock()
				return
			}
		}
	}()
}

// Close disconnects all subscribers
func (h *TradeHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
