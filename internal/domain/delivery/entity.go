// internal/domain/delivery/entity.go
package delivery

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WeekdaySetting is the delivery toggle for one weekday. StartHour only
// matters when Enabled is true.
type WeekdaySetting struct {
	Enabled   bool `json:"enabled"`
	StartHour int  `json:"start_hour"`
}

// WeekdaySchedule maps weekdays to their settings. A missing weekday is
// treated as disabled.
type WeekdaySchedule map[time.Weekday]WeekdaySetting

// Config is the delivery part of a campaign: an inclusive date range plus the
// weekday mask.
type Config struct {
	StartDate Date            `json:"start_date"`
	EndDate   Date            `json:"end_date"`
	Weekdays  WeekdaySchedule `json:"weekdays"`
}

// DeliveryDay is one concrete date on which scouts are sent.
type DeliveryDay struct {
	Date      Date         `json:"date"`
	Weekday   time.Weekday `json:"-"`
	StartHour int          `json:"start_hour"`
}

// ResolvedSchedule is the ascending list of delivery days of a config.
type ResolvedSchedule struct {
	Days []DeliveryDay `json:"days"`
}

func (s ResolvedSchedule) Len() int {
	return len(s.Days)
}

// Lookup returns the setting for wd; absent weekdays are disabled.
func (w WeekdaySchedule) Lookup(wd time.Weekday) WeekdaySetting {
	if w == nil {
		return WeekdaySetting{}
	}
	return w[wd]
}

// EnabledCount returns the number of enabled weekdays. Keys outside
// Sunday..Saturday are ignored.
func (w WeekdaySchedule) EnabledCount() int {
	return len(w.EnabledWeekdays())
}

// Clone returns a copy that shares nothing with w.
func (w WeekdaySchedule) Clone() WeekdaySchedule {
	if w == nil {
		return nil
	}
	out := make(WeekdaySchedule, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdayName returns the lower-case English name used in JSON.
func WeekdayName(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

// ParseWeekday accepts full weekday names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", s)
	}
	return wd, nil
}

func (w WeekdaySchedule) MarshalJSON() ([]byte, error) {
	out := make(map[string]WeekdaySetting, len(w))
	for wd, s := range w {
		if wd < time.Sunday || wd > time.Saturday {
			continue
		}
		out[WeekdayName(wd)] = s
	}
	return json.Marshal(out)
}

func (w *WeekdaySchedule) UnmarshalJSON(b []byte) error {
	var raw map[string]WeekdaySetting
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("weekdays must be an object keyed by weekday name: %w", err)
	}
	out := make(WeekdaySchedule, len(raw))
	for name, s := range raw {
		wd, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		out[wd] = s
	}
	*w = out
	return nil
}

// EnabledWeekdays returns the enabled weekdays, Sunday first.
func (w WeekdaySchedule) EnabledWeekdays() []time.Weekday {
	var days []time.Weekday
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if w.Lookup(wd).Enabled {
			days = append(days, wd)
		}
	}
	return days
}

func (d DeliveryDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date      Date   `json:"date"`
		Weekday   string `json:"weekday"`
		StartHour int    `json:"start_hour"`
	}{d.Date, WeekdayName(d.Weekday), d.StartHour})
}
