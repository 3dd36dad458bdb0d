// internal/app/router.go
package app

import (
	"net/http"

	campaignHandler "scout-service/internal/handlers/campaign"
	quoteHandler "scout-service/internal/handlers/quote"
	rulesHandler "scout-service/internal/handlers/rules"
	wsHandler "scout-service/internal/handlers/websocket"
	"scout-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	QuoteHandler    *quoteHandler.QuoteHandler
	RulesHandler    *rulesHandler.RulesHandler
	CampaignHandler *campaignHandler.CampaignHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
	PreviewLimit    gin.HandlerFunc
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// ==================== Health Check ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	ws := r.Group("/ws")
	ws.Use(h.AuthMiddleware.Auth(), h.PreviewLimit)
	{
		ws.GET("/preview", h.WSHandler.HandleConnection)
	}

	api := r.Group("/api/v1")
	api.Use(h.AuthMiddleware.Auth())

	// ==================== Quotes ====================
	quotes := api.Group("/quotes")
	{
		quotes.POST("/preview", h.PreviewLimit, h.QuoteHandler.Preview)
	}

	// ==================== Pricing Rules ====================
	rules := api.Group("/pricing-rules")
	{
		rules.GET("", h.RulesHandler.GetRules)
		rules.PUT("", h.RulesHandler.UpdateRules)
		rules.DELETE("", h.RulesHandler.ResetRules)
	}

	// ==================== Campaigns ====================
	campaigns := api.Group("/campaigns")
	{
		campaigns.POST("", h.CampaignHandler.CreateCampaign)
		campaigns.GET("", h.CampaignHandler.ListCampaigns)
		campaigns.GET("/:id", h.CampaignHandler.GetCampaign)
		campaigns.PUT("/:id", h.CampaignHandler.UpdateCampaign)
		campaigns.GET("/:id/schedule", h.CampaignHandler.GetSchedule)
		campaigns.POST("/:id/cancel", h.CampaignHandler.CancelCampaign)
	}

	api.GET("/ws/stats", h.WSHandler.GetStats)
}
