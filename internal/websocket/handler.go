// internal/websocket/handler.go
package websocket

import (
	"context"
	"sort"

	wstypes "scout-service/internal/domain/websocket"
)

// MessageHandler interface that each module must implement
type MessageHandler interface {
	// HandleMessage processes one client frame. Replies go through client.
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.InboundMessage) error

	// SupportedEvents returns the list of event types this handler supports
	SupportedEvents() []wstypes.EventType
}

// HandlerRegistry manages all message handlers
type HandlerRegistry struct {
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wstypes.EventType]MessageHandler),
	}
}

// Register binds handler to each of its events. An event can have only one
// handler; registering a second one is a wiring bug and panics.
func (r *HandlerRegistry) Register(handler MessageHandler) {
	for _, eventType := range handler.SupportedEvents() {
		if _, taken := r.handlers[eventType]; taken {
			panic("websocket: duplicate handler for " + string(eventType))
		}
		r.handlers[eventType] = handler
	}
}

// Events lists the registered event types in sorted order.
func (r *HandlerRegistry) Events() []wstypes.EventType {
	events := make([]wstypes.EventType, 0, len(r.handlers))
	for e := range r.handlers {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i] < events[j] })
	return events
}

// GetHandler returns the handler for a given event type
func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	handler, exists := r.handlers[eventType]
	return handler, exists
}
