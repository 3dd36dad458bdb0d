package delivery

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.June, 3), d)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2024-06-03", d.String())

	_, err = ParseDate("03/06/2024")
	assert.Error(t, err)
}

func TestDate_AddDaysAcrossMonthAndLeapDay(t *testing.T) {
	assert.Equal(t, NewDate(2024, time.March, 1), NewDate(2024, time.February, 28).AddDays(2))
	assert.Equal(t, NewDate(2024, time.February, 29), NewDate(2024, time.February, 28).AddDays(1))
	assert.Equal(t, NewDate(2025, time.January, 1), NewDate(2024, time.December, 31).AddDays(1))
	assert.Equal(t, 6, NewDate(2024, time.June, 3).DaysUntil(NewDate(2024, time.June, 9)))
}

func TestDateOf_UsesLocalCalendar(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2024-06-02 20:00 UTC is already June 3rd in Tokyo.
	ts := time.Date(2024, time.June, 2, 20, 0, 0, 0, time.UTC).In(tokyo)
	assert.Equal(t, NewDate(2024, time.June, 3), DateOf(ts))
}

func TestDate_JSON(t *testing.T) {
	var cfg Config
	err := json.Unmarshal([]byte(`{
		"start_date": "2024-06-03",
		"end_date": "2024-06-09",
		"weekdays": {"Monday": {"enabled": true, "start_hour": 9}, "saturday": {"enabled": true, "start_hour": 23}}
	}`), &cfg)
	require.NoError(t, err)

	assert.Equal(t, NewDate(2024, time.June, 3), cfg.StartDate)
	assert.Equal(t, NewDate(2024, time.June, 9), cfg.EndDate)
	assert.Equal(t, WeekdaySetting{Enabled: true, StartHour: 9}, cfg.Weekdays.Lookup(time.Monday))
	assert.Equal(t, WeekdaySetting{Enabled: true, StartHour: 23}, cfg.Weekdays.Lookup(time.Saturday))
	assert.Equal(t, WeekdaySetting{}, cfg.Weekdays.Lookup(time.Tuesday))
	assert.Equal(t, 2, cfg.Weekdays.EnabledCount())
	assert.Equal(t, []time.Weekday{time.Monday, time.Saturday}, cfg.Weekdays.EnabledWeekdays())

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"start_date": "2024-06-03",
		"end_date": "2024-06-09",
		"weekdays": {"monday": {"enabled": true, "start_hour": 9}, "saturday": {"enabled": true, "start_hour": 23}}
	}`, string(out))
}

func TestWeekdaySchedule_RejectsUnknownNames(t *testing.T) {
	var w WeekdaySchedule
	err := json.Unmarshal([]byte(`{"funday": {"enabled": true}}`), &w)
	assert.Error(t, err)
}

func TestWeekdaySchedule_IgnoresKeysOutsideWeek(t *testing.T) {
	w := WeekdaySchedule{
		7:            {Enabled: true, StartHour: 9},
		-1:           {Enabled: true, StartHour: 9},
		time.Tuesday: {Enabled: true, StartHour: 10},
	}
	assert.Equal(t, 1, w.EnabledCount())
	assert.Equal(t, []time.Weekday{time.Tuesday}, w.EnabledWeekdays())

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tuesday":{"enabled":true,"start_hour":10}}`, string(out))

	assert.Equal(t, 0, WeekdaySchedule{7: {Enabled: true}}.EnabledCount())
}

func TestWeekdaySchedule_NilLookup(t *testing.T) {
	var w WeekdaySchedule
	assert.False(t, w.Lookup(time.Friday).Enabled)
	assert.Nil(t, w.Clone())
}

func TestDeliveryDay_JSON(t *testing.T) {
	out, err := json.Marshal(DeliveryDay{Date: NewDate(2024, time.June, 8), Weekday: time.Saturday, StartHour: 23})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-08","weekday":"saturday","start_hour":23}`, string(out))
}
