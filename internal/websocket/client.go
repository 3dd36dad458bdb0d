// internal/websocket/client.go
package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	wstypes "scout-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 32
)

// ClientAuth holds authentication information
type ClientAuth struct {
	AgencyID string
	UserID   string
}

// Client is one live preview connection. Frames from a client are handled
// in order, one at a time.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	agencyID string
	userID   string
	logger   *zap.Logger

	// Context for graceful shutdown
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, auth *ClientAuth) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		agencyID: auth.AgencyID,
		userID:   auth.UserID,
		logger:   hub.logger.With(zap.String("agency_id", auth.AgencyID), zap.String("user_id", auth.UserID)),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (c *Client) AgencyID() string {
	return c.agencyID
}

func (c *Client) UserID() string {
	return c.userID
}

// ReadPump handles incoming messages from client
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		c.handleMessage(message)

		if c.ctx.Err() != nil {
			return
		}
	}
}

// WritePump handles outgoing messages to client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from client
func (c *Client) handleMessage(data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		c.SendMessage(wstypes.NewError("", "", ErrInvalidMessage.Error()))
		return
	}

	if msg.Type == wstypes.EventTypePing {
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, msg.RequestID, nil))
		return
	}

	if err := c.hub.HandleClientMessage(c.ctx, c, msg); err != nil {
		if !errors.Is(err, ErrUnsupportedEvent) && !errors.Is(err, ErrInvalidMessage) {
			c.logger.Error("websocket handler failed", zap.String("type", string(msg.Type)), zap.Error(err))
			err = errors.New("internal error")
		}
		c.SendMessage(wstypes.NewError(msg.RequestID, "", err.Error()))
	}
}

// SendMessage queues a frame. A client that cannot keep up is disconnected.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		c.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		c.logger.Warn("websocket send buffer full, disconnecting")
		c.Close()
	}
}

// Close stops the write pump, which closes the connection.
func (c *Client) Close() {
	c.closeOnce.Do(c.cancel)
}
