// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrInvalidMessage   = errors.New("invalid message")
	ErrUnsupportedEvent = errors.New("unsupported message type")
)
