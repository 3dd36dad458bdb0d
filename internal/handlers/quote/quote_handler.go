// internal/handlers/quote/quote_handler.go
package quote

import (
	"context"
	"net/http"

	"scout-service/internal/domain/pricing"
	"scout-service/internal/middleware"
	"scout-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Previewer interface {
	Preview(ctx context.Context, agencyID string, req pricing.QuoteRequest) (*pricing.Result, error)
}

type QuoteHandler struct {
	quoteService Previewer
}

func NewQuoteHandler(quoteService Previewer) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// Preview prices a draft campaign with the caller's effective rules.
// Nothing is stored.
func (h *QuoteHandler) Preview(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	var req pricing.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.quoteService.Preview(c.Request.Context(), agencyID, req)
	if err != nil {
		response.FromError(c, "failed to price campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "quote calculated", result)
}
