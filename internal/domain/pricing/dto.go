// internal/domain/pricing/dto.go
package pricing

import (
	"time"

	"scout-service/internal/domain/delivery"
	xerrors "scout-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
)

// JobTypeQuantity is the daily send quantity configured for one job type.
type JobTypeQuantity struct {
	JobType       string `json:"job_type"`
	DailyQuantity int64  `json:"daily_quantity"`
}

// QuoteRequest is everything needed to price a campaign besides the rules.
type QuoteRequest struct {
	Delivery           delivery.Config   `json:"delivery"`
	JobQuantities      []JobTypeQuantity `json:"job_quantities"`
	AdditionalQuantity int64             `json:"additional_quantity"`
}

// UpdateRulesRequest replaces an agency's rules. Prices and multipliers
// are pointers so an omitted field is rejected instead of read as zero.
type UpdateRulesRequest struct {
	Currency            string           `json:"currency" binding:"required,len=3"`
	BaseUnitPrice       *decimal.Decimal `json:"base_unit_price" binding:"required"`
	WeekendMultiplier   *decimal.Decimal `json:"weekend_multiplier" binding:"required"`
	NightMultiplier     *decimal.Decimal `json:"night_multiplier" binding:"required"`
	AdditionalUnitPrice *decimal.Decimal `json:"additional_unit_price" binding:"required"`
	NightWindow         *NightWindow     `json:"night_window"`
}

// ToRules fills an absent night window with the default and rejects
// missing prices or multipliers.
func (r *UpdateRulesRequest) ToRules() (Rules, error) {
	for _, f := range []struct {
		field string
		value *decimal.Decimal
	}{
		{"base_unit_price", r.BaseUnitPrice},
		{"weekend_multiplier", r.WeekendMultiplier},
		{"night_multiplier", r.NightMultiplier},
		{"additional_unit_price", r.AdditionalUnitPrice},
	} {
		if f.value == nil {
			return Rules{}, xerrors.Field(f.field, xerrors.ErrInvalidInput, "is required")
		}
	}

	window := DefaultNightWindow()
	if r.NightWindow != nil {
		window = *r.NightWindow
	}
	return Rules{
		Currency:            r.Currency,
		BaseUnitPrice:       *r.BaseUnitPrice,
		WeekendMultiplier:   *r.WeekendMultiplier,
		NightMultiplier:     *r.NightMultiplier,
		AdditionalUnitPrice: *r.AdditionalUnitPrice,
		NightWindow:         window,
	}, nil
}

type RulesSource string

const (
	RulesSourceDefault RulesSource = "default"
	RulesSourceAgency  RulesSource = "agency"
)

// RulesResponse is an agency's effective rules and where they came from.
type RulesResponse struct {
	Rules     Rules       `json:"rules"`
	Source    RulesSource `json:"source"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}
