// internal/service/schedule/resolver.go
package schedule

import (
	"time"

	"scout-service/internal/domain/delivery"
	xerrors "scout-service/internal/pkg/errors"
)

// MaxRangeDays bounds the length of a single campaign range (two years).
const MaxRangeDays = 732

// Resolve expands the date range and weekday mask of cfg into the ascending
// list of delivery days. Both endpoints are eligible. A range that only
// covers disabled weekdays yields an empty schedule, which is valid.
func Resolve(cfg delivery.Config) (delivery.ResolvedSchedule, error) {
	if err := Validate(cfg); err != nil {
		return delivery.ResolvedSchedule{}, err
	}

	span := cfg.StartDate.DaysUntil(cfg.EndDate) + 1
	days := make([]delivery.DeliveryDay, 0, span)

	for d := cfg.StartDate; !d.After(cfg.EndDate); d = d.AddDays(1) {
		wd := d.Weekday()
		setting := cfg.Weekdays.Lookup(wd)
		if !setting.Enabled {
			continue
		}
		days = append(days, delivery.DeliveryDay{
			Date:      d,
			Weekday:   wd,
			StartHour: setting.StartHour,
		})
	}

	return delivery.ResolvedSchedule{Days: days}, nil
}

// Validate checks cfg without expanding it.
func Validate(cfg delivery.Config) error {
	if cfg.StartDate.IsZero() {
		return xerrors.Field("start_date", xerrors.ErrInvalidRange, "start date is required")
	}
	if cfg.EndDate.IsZero() {
		return xerrors.Field("end_date", xerrors.ErrInvalidRange, "end date is required")
	}
	if cfg.EndDate.Before(cfg.StartDate) {
		return xerrors.Field("end_date", xerrors.ErrInvalidRange, "%s is before %s", cfg.EndDate, cfg.StartDate)
	}
	if span := cfg.StartDate.DaysUntil(cfg.EndDate) + 1; span > MaxRangeDays {
		return xerrors.Field("end_date", xerrors.ErrInvalidRange, "range of %d days exceeds %d", span, MaxRangeDays)
	}

	if cfg.Weekdays.EnabledCount() == 0 {
		return xerrors.Field("weekdays", xerrors.ErrNoDeliveryDays, "")
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		s := cfg.Weekdays.Lookup(wd)
		if !s.Enabled {
			continue
		}
		if s.StartHour < 0 || s.StartHour > 23 {
			field := "weekdays." + delivery.WeekdayName(wd) + ".start_hour"
			return xerrors.Field(field, xerrors.ErrInvalidStartHour, "got %d", s.StartHour)
		}
	}

	return nil
}
