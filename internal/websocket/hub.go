// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "scout-service/internal/domain/websocket"

	"go.uber.org/zap"
)

// Hub tracks live preview connections per agency and routes client frames
// to the registered handlers.
type Hub struct {
	// agency ID -> connected clients
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	handlerRegistry *HandlerRegistry
	logger          *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		done:            make(chan struct{}),
		handlerRegistry: NewHandlerRegistry(),
		logger:          logger,
	}
}

// Add hands a connected client to the hub. It reports false once the hub
// has stopped.
func (h *Hub) Add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// RegisterHandler must be called before Run.
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.InboundMessage) error {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return ErrUnsupportedEvent
	}

	return handler.HandleMessage(ctx, client, msg)
}

// Run serves register and unregister requests until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if h.clients[client.agencyID] == nil {
		h.clients[client.agencyID] = make(map[*Client]bool)
	}
	h.clients[client.agencyID][client] = true
	total := h.totalClients()
	h.mu.Unlock()

	client.logger.Info("websocket client connected", zap.Int("total", total))

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, "", map[string]interface{}{
		"agency_id": client.agencyID,
		"events":    h.handlerRegistry.Events(),
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.agencyID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.agencyID)
			}

			client.logger.Info("websocket client disconnected", zap.Int("total", h.totalClients()))
		}
	}
}

// BroadcastToAgency sends msg to every client of the agency.
func (h *Hub) BroadcastToAgency(agencyID string, msg *wstypes.WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[agencyID] {
		client.SendMessage(msg)
	}
}

// RulesChanged tells an agency's open previews that prices may have moved.
func (h *Hub) RulesChanged(agencyID string, rules interface{}) {
	h.BroadcastToAgency(agencyID, wstypes.NewMessage(wstypes.EventTypeRulesUpdated, "", rules))
}

func (h *Hub) ConnectedClients(agencyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[agencyID])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// totalClients must be called with mu held.
func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for agencyID, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
		delete(h.clients, agencyID)
	}
	h.logger.Info("websocket hub stopped")
}
