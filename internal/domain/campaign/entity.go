// internal/domain/campaign/entity.go
package campaign

import (
	"time"

	"scout-service/internal/domain/delivery"
	"scout-service/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

type CampaignStatus string

const (
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusScheduled, CampaignStatusActive, CampaignStatusCompleted, CampaignStatusCancelled:
		return true
	}
	return false
}

// Campaign is a priced scout campaign. Totals are computed server-side and
// RulesSnapshot keeps the pricing rules they were computed with.
type Campaign struct {
	ID         int64  `json:"id" db:"id"`
	Reference  string `json:"reference" db:"reference"`
	AgencyID   string `json:"agency_id" db:"agency_id"`
	CustomerID int64  `json:"customer_id" db:"customer_id"`
	Name       string `json:"name" db:"name"`
	Platform   string `json:"platform" db:"platform"`

	// Delivery
	StartDate delivery.Date            `json:"start_date" db:"start_date"`
	EndDate   delivery.Date            `json:"end_date" db:"end_date"`
	Weekdays  delivery.WeekdaySchedule `json:"weekdays" db:"weekdays"`

	// Quantities
	JobQuantities      []pricing.JobTypeQuantity `json:"job_quantities" db:"-"`
	DailyQuantity      int64                     `json:"daily_quantity" db:"daily_quantity"`
	AdditionalQuantity int64                     `json:"additional_quantity" db:"additional_quantity"`
	DeliveryDays       int                       `json:"delivery_days" db:"delivery_days"`
	TotalQuantity      int64                     `json:"total_quantity" db:"total_quantity"`

	// Pricing
	Currency      string          `json:"currency" db:"currency"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	RulesSnapshot pricing.Rules   `json:"rules_snapshot" db:"rules_snapshot"`

	Status    CampaignStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

func (c *Campaign) DeliveryConfig() delivery.Config {
	return delivery.Config{
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Weekdays:  c.Weekdays,
	}
}

func (c *Campaign) QuoteRequest() pricing.QuoteRequest {
	return pricing.QuoteRequest{
		Delivery:           c.DeliveryConfig(),
		JobQuantities:      c.JobQuantities,
		AdditionalQuantity: c.AdditionalQuantity,
	}
}

// Apply copies a computed quote onto the campaign.
func (c *Campaign) Apply(rules pricing.Rules, result *pricing.Result) {
	c.RulesSnapshot = rules
	c.Currency = result.Currency
	c.DailyQuantity = result.DailyQuantity
	c.DeliveryDays = result.DeliveryDays
	c.TotalQuantity = result.TotalQuantity
	c.TotalAmount = result.TotalAmount
}

// Editable reports whether the campaign's configuration may still change.
func (c *Campaign) Editable() bool {
	return c.Status == CampaignStatusScheduled
}
