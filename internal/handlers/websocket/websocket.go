// internal/handlers/websocket/websocket.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"scout-service/internal/middleware"
	"scout-service/internal/pkg/response"
	ws "scout-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler accepts upgrades from the given origins. "*" allows
// any origin.
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// HandleConnection upgrades an authenticated request into a live preview
// connection scoped to the caller's agency.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	agencyID, ok := middleware.GetAgencyID(c)
	if !ok {
		response.Unauthorized(c, "missing agency scope")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Warn("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, &ws.ClientAuth{
		AgencyID: agencyID,
		UserID:   middleware.GetUserID(c),
	})

	if !h.hub.Add(client) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// GetStats returns connection counts for the caller's agency
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	response.Success(c, http.StatusOK, "websocket stats", gin.H{
		"agency_connections": h.hub.ConnectedClients(agencyID),
		"total_connections":  h.hub.TotalClients(),
		"timestamp":          time.Now(),
	})
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Non-browser clients send no Origin
		if origin == "" {
			return true
		}
		return set[strings.ToLower(origin)]
	}
}
