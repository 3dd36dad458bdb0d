// internal/domain/campaign/dto.go
package campaign

import (
	"scout-service/internal/domain/delivery"
	"scout-service/internal/domain/pricing"
)

type CreateCampaignRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	CustomerID int64  `json:"customer_id" binding:"required,min=1"`
	Platform   string `json:"platform" binding:"required,max=50"`

	pricing.QuoteRequest
}

type UpdateCampaignRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Platform *string `json:"platform" binding:"omitempty,max=50"`

	// Delivery
	StartDate *delivery.Date           `json:"start_date"`
	EndDate   *delivery.Date           `json:"end_date"`
	Weekdays  delivery.WeekdaySchedule `json:"weekdays"`

	// Quantities
	JobQuantities      []pricing.JobTypeQuantity `json:"job_quantities"`
	AdditionalQuantity *int64                    `json:"additional_quantity"`
}

// ChangesQuote reports whether the update touches anything that feeds pricing.
func (r *UpdateCampaignRequest) ChangesQuote() bool {
	return r.StartDate != nil || r.EndDate != nil || r.Weekdays != nil ||
		r.JobQuantities != nil || r.AdditionalQuantity != nil
}

type CampaignListFilters struct {
	Status    *CampaignStatus `form:"status"`
	Platform  string          `form:"platform"`
	Search    string          `form:"search"`
	Page      int             `form:"page"`
	PageSize  int             `form:"page_size"`
	SortBy    string          `form:"sort_by"` // created_at, start_date, end_date, total_amount
	SortOrder string          `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// Normalize applies paging defaults and caps the page size at 100.
func (f *CampaignListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}

type CampaignListResponse struct {
	Campaigns  []Campaign `json:"campaigns"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

type ScheduleResponse struct {
	CampaignID int64                  `json:"campaign_id"`
	Reference  string                 `json:"reference"`
	Days       []delivery.DeliveryDay `json:"days"`
	Total      int                    `json:"total"`
}
