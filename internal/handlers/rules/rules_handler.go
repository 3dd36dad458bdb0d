// internal/handlers/rules/rules_handler.go
package rules

import (
	"context"
	"net/http"

	"scout-service/internal/domain/pricing"
	"scout-service/internal/middleware"
	"scout-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type RulesService interface {
	Get(ctx context.Context, agencyID string) (*pricing.RulesResponse, error)
	Upsert(ctx context.Context, agencyID string, req *pricing.UpdateRulesRequest) (*pricing.RulesResponse, error)
	Reset(ctx context.Context, agencyID string) (*pricing.RulesResponse, error)
}

// ChangeNotifier is told about every change to an agency's rules.
type ChangeNotifier interface {
	RulesChanged(agencyID string, rules interface{})
}

type RulesHandler struct {
	rulesService RulesService
	notifier     ChangeNotifier
}

// NewRulesHandler builds the handler. notifier may be nil.
func NewRulesHandler(rulesService RulesService, notifier ChangeNotifier) *RulesHandler {
	return &RulesHandler{
		rulesService: rulesService,
		notifier:     notifier,
	}
}

// GetRules returns the caller's effective pricing rules
func (h *RulesHandler) GetRules(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	result, err := h.rulesService.Get(c.Request.Context(), agencyID)
	if err != nil {
		response.FromError(c, "failed to get pricing rules", err)
		return
	}

	response.Success(c, http.StatusOK, "pricing rules retrieved", result)
}

// UpdateRules replaces the caller's rule override
func (h *RulesHandler) UpdateRules(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	var req pricing.UpdateRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.rulesService.Upsert(c.Request.Context(), agencyID, &req)
	if err != nil {
		response.FromError(c, "failed to update pricing rules", err)
		return
	}

	h.notify(agencyID, result)
	response.Success(c, http.StatusOK, "pricing rules updated successfully", result)
}

// ResetRules drops the override so the defaults apply again
func (h *RulesHandler) ResetRules(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	result, err := h.rulesService.Reset(c.Request.Context(), agencyID)
	if err != nil {
		response.FromError(c, "failed to reset pricing rules", err)
		return
	}

	h.notify(agencyID, result)
	response.Success(c, http.StatusOK, "pricing rules reset to defaults", result)
}

func (h *RulesHandler) notify(agencyID string, result *pricing.RulesResponse) {
	if h.notifier != nil {
		h.notifier.RulesChanged(agencyID, result)
	}
}
