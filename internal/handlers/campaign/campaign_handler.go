// internal/handlers/campaign/campaign_handler.go
package campaign

import (
	"context"
	"net/http"
	"strconv"

	"scout-service/internal/domain/campaign"
	"scout-service/internal/middleware"
	xerrors "scout-service/internal/pkg/errors"
	"scout-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type CampaignService interface {
	Create(ctx context.Context, agencyID string, req *campaign.CreateCampaignRequest) (*campaign.Campaign, error)
	Update(ctx context.Context, agencyID string, id int64, req *campaign.UpdateCampaignRequest) (*campaign.Campaign, error)
	Get(ctx context.Context, agencyID string, id int64) (*campaign.Campaign, error)
	List(ctx context.Context, agencyID string, filters *campaign.CampaignListFilters) (*campaign.CampaignListResponse, error)
	Schedule(ctx context.Context, agencyID string, id int64) (*campaign.ScheduleResponse, error)
	Cancel(ctx context.Context, agencyID string, id int64) (*campaign.Campaign, error)
}

type CampaignHandler struct {
	campaignService CampaignService
}

func NewCampaignHandler(campaignService CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// CreateCampaign prices and stores a new campaign
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	var req campaign.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.campaignService.Create(c.Request.Context(), agencyID, &req)
	if err != nil {
		response.FromError(c, "failed to create campaign", err)
		return
	}

	response.Success(c, http.StatusCreated, "campaign created successfully", result)
}

// UpdateCampaign edits a campaign that has not started yet
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	var req campaign.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.campaignService.Update(c.Request.Context(), agencyID, campaignID, &req)
	if err != nil {
		response.FromError(c, "failed to update campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign updated successfully", result)
}

// GetCampaign retrieves a campaign by ID
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	result, err := h.campaignService.Get(c.Request.Context(), agencyID, campaignID)
	if err != nil {
		response.FromError(c, "campaign not found", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign retrieved", result)
}

// ListCampaigns retrieves campaigns with filters
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	var filters campaign.CampaignListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.campaignService.List(c.Request.Context(), agencyID, &filters)
	if err != nil {
		response.FromError(c, "failed to list campaigns", err)
		return
	}

	response.Success(c, http.StatusOK, "campaigns retrieved", result)
}

// GetSchedule lists the delivery days of a campaign
func (h *CampaignHandler) GetSchedule(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	result, err := h.campaignService.Schedule(c.Request.Context(), agencyID, campaignID)
	if err != nil {
		response.FromError(c, "failed to get campaign schedule", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign schedule retrieved", result)
}

// CancelCampaign stops a scheduled or running campaign
func (h *CampaignHandler) CancelCampaign(c *gin.Context) {
	agencyID := middleware.MustGetAgencyID(c)

	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	result, err := h.campaignService.Cancel(c.Request.Context(), agencyID, campaignID)
	if err != nil {
		response.FromError(c, "failed to cancel campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign cancelled successfully", result)
}

func campaignIDParam(c *gin.Context) (int64, bool) {
	campaignID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || campaignID <= 0 {
		response.ValidationError(c, "invalid campaign ID", xerrors.Field("id", xerrors.ErrInvalidInput, "must be a positive integer"))
		return 0, false
	}
	return campaignID, true
}
