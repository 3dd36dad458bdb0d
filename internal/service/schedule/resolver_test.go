package schedule

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"scout-service/internal/domain/delivery"
	xerrors "scout-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allWeekdays(hour int) delivery.WeekdaySchedule {
	w := delivery.WeekdaySchedule{}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		w[wd] = delivery.WeekdaySetting{Enabled: true, StartHour: hour}
	}
	return w
}

func TestResolve_LongestRangeAccepted(t *testing.T) {
	start := delivery.NewDate(2024, time.January, 1)
	cfg := delivery.Config{
		StartDate: start,
		EndDate:   start.AddDays(MaxRangeDays - 1),
		Weekdays:  allWeekdays(9),
	}

	got, err := Resolve(cfg)
	require.NoError(t, err)
	require.Equal(t, MaxRangeDays, got.Len())
	assert.Equal(t, start, got.Days[0].Date)
	assert.Equal(t, cfg.EndDate, got.Days[got.Len()-1].Date)
}

func TestResolve_FullWeek(t *testing.T) {
	cfg := delivery.Config{
		StartDate: delivery.NewDate(2024, time.June, 3),
		EndDate:   delivery.NewDate(2024, time.June, 9),
		Weekdays:  allWeekdays(9),
	}

	got, err := Resolve(cfg)
	require.NoError(t, err)
	require.Equal(t, 7, got.Len())

	assert.Equal(t, delivery.NewDate(2024, time.June, 3), got.Days[0].Date)
	assert.Equal(t, time.Monday, got.Days[0].Weekday)
	assert.Equal(t, delivery.NewDate(2024, time.June, 9), got.Days[6].Date)
	assert.Equal(t, time.Sunday, got.Days[6].Weekday)
	for _, d := range got.Days {
		assert.Equal(t, 9, d.StartHour)
	}
}

func TestResolve_WeekendOnlyNight(t *testing.T) {
	cfg := delivery.Config{
		StartDate: delivery.NewDate(2024, time.June, 3),
		EndDate:   delivery.NewDate(2024, time.June, 9),
		Weekdays: delivery.WeekdaySchedule{
			time.Saturday: {Enabled: true, StartHour: 23},
			time.Sunday:   {Enabled: true, StartHour: 23},
		},
	}

	got, err := Resolve(cfg)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, delivery.DeliveryDay{Date: delivery.NewDate(2024, time.June, 8), Weekday: time.Saturday, StartHour: 23}, got.Days[0])
	assert.Equal(t, delivery.DeliveryDay{Date: delivery.NewDate(2024, time.June, 9), Weekday: time.Sunday, StartHour: 23}, got.Days[1])
}

func TestResolve_PerWeekdayStartHours(t *testing.T) {
	cfg := delivery.Config{
		StartDate: delivery.NewDate(2024, time.June, 3),
		EndDate:   delivery.NewDate(2024, time.June, 5),
		Weekdays: delivery.WeekdaySchedule{
			time.Monday:    {Enabled: true, StartHour: 9},
			time.Tuesday:   {Enabled: false, StartHour: 40}, // ignored while disabled
			time.Wednesday: {Enabled: true, StartHour: 22},
		},
	}

	got, err := Resolve(cfg)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, 9, got.Days[0].StartHour)
	assert.Equal(t, 22, got.Days[1].StartHour)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name      string
		cfg       delivery.Config
		wantErr   error
		wantField string
	}{
		{
			name: "start after end",
			cfg: delivery.Config{
				StartDate: delivery.NewDate(2024, time.June, 9),
				EndDate:   delivery.NewDate(2024, time.June, 3),
				Weekdays:  allWeekdays(9),
			},
			wantErr:   xerrors.ErrInvalidRange,
			wantField: "end_date",
		},
		{
			name: "missing start date",
			cfg: delivery.Config{
				EndDate:  delivery.NewDate(2024, time.June, 3),
				Weekdays: allWeekdays(9),
			},
			wantErr:   xerrors.ErrInvalidRange,
			wantField: "start_date",
		},
		{
			name: "range too long",
			cfg: delivery.Config{
				StartDate: delivery.NewDate(2024, time.January, 1),
				EndDate:   delivery.NewDate(2026, time.January, 5),
				Weekdays:  allWeekdays(9),
			},
			wantErr:   xerrors.ErrInvalidRange,
			wantField: "end_date",
		},
		{
			name: "range one day over the limit",
			cfg: delivery.Config{
				StartDate: delivery.NewDate(2024, time.January, 1),
				EndDate:   delivery.NewDate(2024, time.January, 1).AddDays(MaxRangeDays),
				Weekdays:  allWeekdays(9),
			},
			wantErr:   xerrors.ErrInvalidRange,
			wantField: "end_date",
		},
		{
			name: "only keys outside the week enabled",
			cfg: delivery.Config{
				StartDate: delivery.NewDate(2024, time.June, 3),
				EndDate:   delivery.NewDate(2024, time.June, 9),
				Weekdays: delivery.WeekdaySchedule{
					7: {Enabled: true, StartHour: 9},
				},
			},
			wantErr:   xerrors.ErrNoDeliveryDays,
			wantField: "weekdays",
		},
		{
			name: "no weekday enabled",
			cfg: delivery.Config{
				StartDate: delivery.NewDate(2024, time.June, 3),
				EndDate:   delivery.NewDate(2024, time.June, 9),
				Weekdays: delivery.WeekdaySchedule{
					time.Monday: {Enabled: false, StartHour: 9},
				},
			},
			wantErr:   xerrors.ErrNoDeliveryDays,
			wantField: "weekdays",
		},
		{
			name: "nil weekday map",
			cfg: delivery.Config{
				StartDate: delivery.NewDate(2024, time.June, 3),
				EndDate:   delivery.NewDate(2024, time.June, 9),
			},
			wantErr:   xerrors.ErrNoDeliveryDays,
			wantField: "weekdays",
		},
		{
			name: "start hour out of range",
			cfg: delivery.Config{
				StartDate: delivery.NewDate(2024, time.June, 3),
				EndDate:   delivery.NewDate(2024, time.June, 9),
				Weekdays: delivery.WeekdaySchedule{
					time.Thursday: {Enabled: true, StartHour: 24},
				},
			},
			wantErr:   xerrors.ErrInvalidStartHour,
			wantField: "weekdays.thursday.start_hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			field, ok := xerrors.FieldOf(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, 0, got.Len())
		})
	}
}

func TestResolve_OnlyDisabledWeekdaysInRange(t *testing.T) {
	// A single Tuesday with only weekends enabled is a valid, empty schedule.
	cfg := delivery.Config{
		StartDate: delivery.NewDate(2024, time.June, 4),
		EndDate:   delivery.NewDate(2024, time.June, 4),
		Weekdays: delivery.WeekdaySchedule{
			time.Saturday: {Enabled: true, StartHour: 9},
			time.Sunday:   {Enabled: true, StartHour: 9},
		},
	}

	got, err := Resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestResolve_SingleDayRangeIncludesEndpoint(t *testing.T) {
	cfg := delivery.Config{
		StartDate: delivery.NewDate(2024, time.June, 4),
		EndDate:   delivery.NewDate(2024, time.June, 4),
		Weekdays:  delivery.WeekdaySchedule{time.Tuesday: {Enabled: true, StartHour: 7}},
	}

	got, err := Resolve(cfg)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, cfg.StartDate, got.Days[0].Date)
}

func TestResolve_CrossesLeapDayAndYearEnd(t *testing.T) {
	cfg := delivery.Config{
		StartDate: delivery.NewDate(2023, time.December, 30),
		EndDate:   delivery.NewDate(2024, time.March, 2),
		Weekdays:  allWeekdays(10),
	}

	got, err := Resolve(cfg)
	require.NoError(t, err)
	// Dec 30-31 (2) + Jan (31) + Feb 2024 (29) + Mar 1-2 (2)
	assert.Equal(t, 64, got.Len())
	for i := 1; i < got.Len(); i++ {
		assert.Equal(t, got.Days[i-1].Date.AddDays(1), got.Days[i].Date)
	}
}

func randomConfig(r *rand.Rand) delivery.Config {
	start := delivery.NewDate(2024, time.January, 1).AddDays(r.Intn(400))
	end := start.AddDays(r.Intn(60))
	if r.Intn(5) == 0 {
		end = start
	}
	w := delivery.WeekdaySchedule{}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if r.Intn(2) == 0 {
			w[wd] = delivery.WeekdaySetting{Enabled: true, StartHour: r.Intn(24)}
		}
	}
	if w.EnabledCount() == 0 {
		w[time.Weekday(r.Intn(7))] = delivery.WeekdaySetting{Enabled: true, StartHour: r.Intn(24)}
	}
	return delivery.Config{StartDate: start, EndDate: end, Weekdays: w}
}

func TestResolve_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		cfg := randomConfig(r)

		got, err := Resolve(cfg)
		require.NoError(t, err)

		if cfg.StartDate == cfg.EndDate {
			assert.LessOrEqual(t, got.Len(), 1)
		}

		expected := 0
		for d := cfg.StartDate; !d.After(cfg.EndDate); d = d.AddDays(1) {
			if cfg.Weekdays.Lookup(d.Weekday()).Enabled {
				expected++
			}
		}
		assert.Equal(t, expected, got.Len())

		for j, day := range got.Days {
			assert.False(t, day.Date.Before(cfg.StartDate))
			assert.False(t, day.Date.After(cfg.EndDate))
			assert.Equal(t, day.Date.Weekday(), day.Weekday)
			setting := cfg.Weekdays.Lookup(day.Weekday)
			assert.True(t, setting.Enabled)
			assert.Equal(t, setting.StartHour, day.StartHour)
			if j > 0 {
				assert.True(t, got.Days[j-1].Date.Before(day.Date), "schedule must be strictly ascending")
			}
		}

		again, err := Resolve(cfg)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}
