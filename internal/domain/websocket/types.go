// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"
)

// EventType names a frame on the live preview socket.
type EventType string

const (
	// Connection events
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"
	EventTypeConnected EventType = "connected"
	EventTypeError     EventType = "error"

	// Pricing events
	EventTypeQuote        EventType = "quote"
	EventTypeRulesUpdated EventType = "rules:updated"
)

// InboundMessage is a client frame. Data is decoded by the handler
// registered for Type.
type InboundMessage struct {
	Type      EventType       `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// WSMessage is a server frame. Error frames carry Error and, for validation
// failures, the offending Field.
type WSMessage struct {
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Field     string      `json:"field,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewMessage(eventType EventType, requestID string, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		RequestID: requestID,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func NewError(requestID, field, message string) *WSMessage {
	return &WSMessage{
		Type:      EventTypeError,
		RequestID: requestID,
		Field:     field,
		Error:     message,
		Timestamp: time.Now(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*InboundMessage, error) {
	var msg InboundMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
