package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"scout-service/internal/domain/delivery"
	"scout-service/internal/domain/pricing"
	"scout-service/internal/pkg/cache"
	xerrors "scout-service/internal/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type staticRules struct {
	rules pricing.Rules
	err   error
}

func (s staticRules) Effective(ctx context.Context, agencyID string) (pricing.Rules, error) {
	return s.rules, s.err
}

func testRules() pricing.Rules {
	return pricing.Rules{
		Currency:            "JPY",
		BaseUnitPrice:       decimal.NewFromInt(10),
		WeekendMultiplier:   decimal.RequireFromString("1.5"),
		NightMultiplier:     decimal.RequireFromString("1.3"),
		AdditionalUnitPrice: decimal.NewFromInt(5),
		NightWindow:         pricing.DefaultNightWindow(),
	}
}

// One week, every day at 09:00 with 100 sends a day and 50 extra.
func weekRequest() pricing.QuoteRequest {
	weekdays := delivery.WeekdaySchedule{}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		weekdays[wd] = delivery.WeekdaySetting{Enabled: true, StartHour: 9}
	}
	return pricing.QuoteRequest{
		Delivery: delivery.Config{
			StartDate: delivery.NewDate(2024, time.January, 1),
			EndDate:   delivery.NewDate(2024, time.January, 7),
			Weekdays:  weekdays,
		},
		JobQuantities: []pricing.JobTypeQuantity{
			{JobType: "engineer", DailyQuantity: 60},
			{JobType: "sales", DailyQuantity: 40},
		},
		AdditionalQuantity: 50,
	}
}

func TestRun(t *testing.T) {
	q, err := Run(weekRequest(), testRules())
	require.NoError(t, err)

	assert.Equal(t, 7, q.Schedule.Len())
	assert.Equal(t, int64(100), q.Result.DailyQuantity)
	assert.Equal(t, int64(700), q.Result.TotalQuantity)
	// 5 weekdays x 1000 + 2 weekend days x 1500 + 50 x 5
	assert.True(t, decimal.NewFromInt(8250).Equal(q.Result.TotalAmount), q.Result.TotalAmount.String())
	assert.Equal(t, testRules(), q.Rules)
}

func TestRun_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *pricing.QuoteRequest)
		kind   error
		field  string
	}{
		{"reversed range", func(r *pricing.QuoteRequest) {
			r.Delivery.StartDate, r.Delivery.EndDate = r.Delivery.EndDate, r.Delivery.StartDate
		}, xerrors.ErrInvalidRange, "end_date"},
		{"no weekdays", func(r *pricing.QuoteRequest) { r.Delivery.Weekdays = nil }, xerrors.ErrNoDeliveryDays, "weekdays"},
		{"no jobs", func(r *pricing.QuoteRequest) { r.JobQuantities = nil }, xerrors.ErrInvalidQuantity, "job_quantities"},
		{"negative job", func(r *pricing.QuoteRequest) { r.JobQuantities[1].DailyQuantity = -1 }, xerrors.ErrInvalidQuantity, "job_quantities[1].daily_quantity"},
		{"negative additional", func(r *pricing.QuoteRequest) { r.AdditionalQuantity = -1 }, xerrors.ErrInvalidQuantity, "additional_quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := weekRequest()
			tt.mutate(&req)
			_, err := Run(req, testRules())
			assert.ErrorIs(t, err, tt.kind)
			field, _ := xerrors.FieldOf(err)
			assert.Equal(t, tt.field, field)
		})
	}
}

func setupCache(t *testing.T) (*cache.PreviewCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewPreviewCache(client, time.Minute), mr
}

func TestQuoteService_PreviewCaches(t *testing.T) {
	previews, mr := setupCache(t)
	svc := NewQuoteService(staticRules{rules: testRules()}, previews, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Preview(ctx, "agency-1", weekRequest())
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 1)

	second, err := svc.Preview(ctx, "agency-1", weekRequest())
	require.NoError(t, err)
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.Len(t, second.Breakdown, 7)

	// a different rule set never reads the first entry
	rules := testRules()
	rules.BaseUnitPrice = decimal.NewFromInt(20)
	svc2 := NewQuoteService(staticRules{rules: rules}, previews, zap.NewNop())
	third, err := svc2.Preview(ctx, "agency-1", weekRequest())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(16250).Equal(third.TotalAmount), third.TotalAmount.String())
	assert.Len(t, mr.Keys(), 2)
}

func TestQuoteService_PreviewServesCachedEntry(t *testing.T) {
	previews, _ := setupCache(t)
	svc := NewQuoteService(staticRules{rules: testRules()}, previews, zap.NewNop())
	ctx := context.Background()

	key, err := cache.PreviewKey(weekRequest(), testRules())
	require.NoError(t, err)
	marker := &pricing.Result{Currency: "JPY", TotalAmount: decimal.NewFromInt(1)}
	require.NoError(t, previews.Set(ctx, key, marker))

	got, err := svc.Preview(ctx, "agency-1", weekRequest())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(got.TotalAmount))

	// finalize paths ignore the cache
	q, err := svc.Quote(ctx, "agency-1", weekRequest())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(8250).Equal(q.Result.TotalAmount))
}

func TestQuoteService_PreviewWithoutRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	core, logs := observer.New(zap.WarnLevel)
	svc := NewQuoteService(staticRules{rules: testRules()}, cache.NewPreviewCache(client, time.Minute), zap.New(core))

	got, err := svc.Preview(context.Background(), "agency-1", weekRequest())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(8250).Equal(got.TotalAmount))
	assert.Equal(t, 1, logs.FilterMessage("preview cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("preview cache write failed").Len())
}

func TestQuoteService_NoCache(t *testing.T) {
	svc := NewQuoteService(staticRules{rules: testRules()}, nil, zap.NewNop())

	got, err := svc.Preview(context.Background(), "agency-1", weekRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(700), got.TotalQuantity)
}

func TestQuoteService_RulesFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := NewQuoteService(staticRules{err: boom}, nil, zap.NewNop())

	_, err := svc.Preview(context.Background(), "agency-1", weekRequest())
	assert.ErrorIs(t, err, boom)

	_, err = svc.Quote(context.Background(), "agency-1", weekRequest())
	assert.ErrorIs(t, err, boom)
}

func TestQuoteService_InvalidRequestNotCached(t *testing.T) {
	previews, mr := setupCache(t)
	svc := NewQuoteService(staticRules{rules: testRules()}, previews, zap.NewNop())

	req := weekRequest()
	req.JobQuantities = nil
	_, err := svc.Preview(context.Background(), "agency-1", req)
	assert.ErrorIs(t, err, xerrors.ErrInvalidQuantity)
	assert.Empty(t, mr.Keys())
}
