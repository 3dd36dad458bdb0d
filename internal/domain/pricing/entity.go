// internal/domain/pricing/entity.go
package pricing

import (
	"encoding/json"
	"time"

	"scout-service/internal/domain/delivery"

	"github.com/shopspring/decimal"
)

// Default night window: 22:00 through 05:59.
const (
	DefaultNightStartHour = 22
	DefaultNightEndHour   = 5
)

// NightWindow is an inclusive range of start hours. When StartHour is greater
// than EndHour the window wraps midnight.
type NightWindow struct {
	StartHour int `json:"start_hour" yaml:"start_hour"`
	EndHour   int `json:"end_hour" yaml:"end_hour"`
}

func DefaultNightWindow() NightWindow {
	return NightWindow{StartHour: DefaultNightStartHour, EndHour: DefaultNightEndHour}
}

// Contains reports whether a send starting at hour falls in the window.
func (w NightWindow) Contains(hour int) bool {
	if w.StartHour <= w.EndHour {
		return hour >= w.StartHour && hour <= w.EndHour
	}
	return hour >= w.StartHour || hour <= w.EndHour
}

// Rules is a tenant's pricing configuration.
type Rules struct {
	Currency            string          `json:"currency"`
	BaseUnitPrice       decimal.Decimal `json:"base_unit_price"`
	WeekendMultiplier   decimal.Decimal `json:"weekend_multiplier"`
	NightMultiplier     decimal.Decimal `json:"night_multiplier"`
	AdditionalUnitPrice decimal.Decimal `json:"additional_unit_price"`
	NightWindow         NightWindow     `json:"night_window"`
}

// AgencyRules is a stored per-agency override of the default rules.
type AgencyRules struct {
	AgencyID  string    `json:"agency_id" db:"agency_id"`
	Rules     Rules     `json:"rules" db:"rules"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DayLine is the priced entry for one delivery day.
type DayLine struct {
	Date       delivery.Date   `json:"date"`
	Weekday    time.Weekday    `json:"-"`
	StartHour  int             `json:"start_hour"`
	Quantity   int64           `json:"quantity"`
	Weekend    bool            `json:"weekend"`
	Night      bool            `json:"night"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Amount     decimal.Decimal `json:"amount"`
}

// Result is the priced campaign. DeliveryAmount and AdditionalAmount are kept
// at full precision; only TotalAmount is rounded.
type Result struct {
	Currency           string          `json:"currency"`
	DailyQuantity      int64           `json:"daily_quantity"`
	AdditionalQuantity int64           `json:"additional_quantity"`
	DeliveryDays       int             `json:"delivery_days"`
	TotalQuantity      int64           `json:"total_quantity"`
	DeliveryAmount     decimal.Decimal `json:"delivery_amount"`
	AdditionalAmount   decimal.Decimal `json:"additional_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Breakdown          []DayLine       `json:"breakdown"`
}

type dayLineAlias DayLine

func (l DayLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		dayLineAlias
		Weekday string `json:"weekday"`
	}{dayLineAlias(l), delivery.WeekdayName(l.Weekday)})
}

func (l *DayLine) UnmarshalJSON(b []byte) error {
	aux := struct {
		*dayLineAlias
		Weekday string `json:"weekday"`
	}{dayLineAlias: (*dayLineAlias)(l)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	wd, err := delivery.ParseWeekday(aux.Weekday)
	if err != nil {
		return err
	}
	l.Weekday = wd
	return nil
}
