// internal/service/pricing/calculator.go
package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"scout-service/internal/domain/delivery"
	domain "scout-service/internal/domain/pricing"
	xerrors "scout-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
)

// MaxRuleScale is the number of fractional digits the rules table stores.
const MaxRuleScale = 6

var one = decimal.NewFromInt(1)

// Compute prices a resolved schedule. Day amounts are summed at full
// precision and only the final total is rounded to a whole currency unit.
// The additional quantity is charged once per campaign, not per day.
func Compute(sched delivery.ResolvedSchedule, dailyQuantity, additionalQuantity int64, rules domain.Rules) (*domain.Result, error) {
	if dailyQuantity <= 0 {
		return nil, xerrors.Field("daily_quantity", xerrors.ErrInvalidQuantity, "must be positive, got %d", dailyQuantity)
	}
	if additionalQuantity < 0 {
		return nil, xerrors.Field("additional_quantity", xerrors.ErrInvalidQuantity, "must not be negative, got %d", additionalQuantity)
	}
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	if n := int64(sched.Len()); n > 0 && dailyQuantity > math.MaxInt64/n {
		return nil, xerrors.Field("daily_quantity", xerrors.ErrInvalidQuantity, "total quantity over %d days overflows", n)
	}

	qty := decimal.NewFromInt(dailyQuantity)
	unitAmount := qty.Mul(rules.BaseUnitPrice)

	lines := make([]domain.DayLine, 0, sched.Len())
	deliveryAmount := decimal.Zero

	for _, day := range sched.Days {
		multiplier, weekend, night := Multiplier(day.Weekday, day.StartHour, rules)
		amount := unitAmount.Mul(multiplier)
		deliveryAmount = deliveryAmount.Add(amount)

		lines = append(lines, domain.DayLine{
			Date:       day.Date,
			Weekday:    day.Weekday,
			StartHour:  day.StartHour,
			Quantity:   dailyQuantity,
			Weekend:    weekend,
			Night:      night,
			Multiplier: multiplier,
			Amount:     amount,
		})
	}

	additionalAmount := decimal.NewFromInt(additionalQuantity).Mul(rules.AdditionalUnitPrice)

	return &domain.Result{
		Currency:           rules.Currency,
		DailyQuantity:      dailyQuantity,
		AdditionalQuantity: additionalQuantity,
		DeliveryDays:       len(lines),
		TotalQuantity:      dailyQuantity * int64(len(lines)),
		DeliveryAmount:     deliveryAmount,
		AdditionalAmount:   additionalAmount,
		TotalAmount:        deliveryAmount.Add(additionalAmount).Round(0),
		Breakdown:          lines,
	}, nil
}

// Multiplier returns the stacked rate multiplier for a send on wd starting at
// hour. Weekend and night multipliers apply independently and multiply.
func Multiplier(wd time.Weekday, hour int, rules domain.Rules) (m decimal.Decimal, weekend, night bool) {
	m = one
	if IsWeekend(wd) {
		weekend = true
		m = m.Mul(rules.WeekendMultiplier)
	}
	if rules.NightWindow.Contains(hour) {
		night = true
		m = m.Mul(rules.NightMultiplier)
	}
	return m, weekend, night
}

func IsWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}

// ValidateRules rejects negative prices, multipliers below 1, values with
// more than MaxRuleScale fractional digits and night window hours outside
// the day. Nothing is clamped or rounded.
func ValidateRules(rules domain.Rules) error {
	for _, f := range []struct {
		field string
		value decimal.Decimal
	}{
		{"rules.base_unit_price", rules.BaseUnitPrice},
		{"rules.weekend_multiplier", rules.WeekendMultiplier},
		{"rules.night_multiplier", rules.NightMultiplier},
		{"rules.additional_unit_price", rules.AdditionalUnitPrice},
	} {
		if f.value.Exponent() < -MaxRuleScale && !f.value.Equal(f.value.Truncate(MaxRuleScale)) {
			return xerrors.Field(f.field, xerrors.ErrInvalidQuantity, "at most %d decimal places, got %s", MaxRuleScale, f.value)
		}
	}
	if rules.BaseUnitPrice.IsNegative() {
		return xerrors.Field("rules.base_unit_price", xerrors.ErrInvalidQuantity, "must not be negative, got %s", rules.BaseUnitPrice)
	}
	if rules.AdditionalUnitPrice.IsNegative() {
		return xerrors.Field("rules.additional_unit_price", xerrors.ErrInvalidQuantity, "must not be negative, got %s", rules.AdditionalUnitPrice)
	}
	if rules.WeekendMultiplier.LessThan(one) {
		return xerrors.Field("rules.weekend_multiplier", xerrors.ErrInvalidQuantity, "must be at least 1, got %s", rules.WeekendMultiplier)
	}
	if rules.NightMultiplier.LessThan(one) {
		return xerrors.Field("rules.night_multiplier", xerrors.ErrInvalidQuantity, "must be at least 1, got %s", rules.NightMultiplier)
	}
	w := rules.NightWindow
	if w.StartHour < 0 || w.StartHour > 23 {
		return xerrors.Field("rules.night_window.start_hour", xerrors.ErrInvalidStartHour, "got %d", w.StartHour)
	}
	if w.EndHour < 0 || w.EndHour > 23 {
		return xerrors.Field("rules.night_window.end_hour", xerrors.ErrInvalidStartHour, "got %d", w.EndHour)
	}
	return nil
}

// DailyQuantity sums the per-job-type daily quantities of a campaign.
func DailyQuantity(items []domain.JobTypeQuantity) (int64, error) {
	var total int64
	for i, item := range items {
		if strings.TrimSpace(item.JobType) == "" {
			return 0, xerrors.Field(fmt.Sprintf("job_quantities[%d].job_type", i), xerrors.ErrInvalidInput, "job type is required")
		}
		if item.DailyQuantity < 0 {
			return 0, xerrors.Field(fmt.Sprintf("job_quantities[%d].daily_quantity", i), xerrors.ErrInvalidQuantity, "must not be negative, got %d", item.DailyQuantity)
		}
		if item.DailyQuantity > math.MaxInt64-total {
			return 0, xerrors.Field(fmt.Sprintf("job_quantities[%d].daily_quantity", i), xerrors.ErrInvalidQuantity, "total daily quantity overflows")
		}
		total += item.DailyQuantity
	}
	if total <= 0 {
		return 0, xerrors.Field("job_quantities", xerrors.ErrInvalidQuantity, "total daily quantity must be positive")
	}
	return total, nil
}
