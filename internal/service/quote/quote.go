// internal/service/quote/quote.go
package quote

import (
	"context"
	"fmt"

	"scout-service/internal/domain/delivery"
	"scout-service/internal/domain/pricing"
	"scout-service/internal/pkg/cache"
	pricingsvc "scout-service/internal/service/pricing"
	"scout-service/internal/service/schedule"

	"go.uber.org/zap"
)

type RulesProvider interface {
	Effective(ctx context.Context, agencyID string) (pricing.Rules, error)
}

type PreviewCache interface {
	Get(ctx context.Context, key string) (*pricing.Result, error)
	Set(ctx context.Context, key string, result *pricing.Result) error
}

// Quotation is a priced request together with the rules and schedule used.
type Quotation struct {
	Rules    pricing.Rules
	Schedule delivery.ResolvedSchedule
	Result   *pricing.Result
}

// Run resolves and prices req with rules. It does no I/O.
func Run(req pricing.QuoteRequest, rules pricing.Rules) (*Quotation, error) {
	sched, err := schedule.Resolve(req.Delivery)
	if err != nil {
		return nil, err
	}

	daily, err := pricingsvc.DailyQuantity(req.JobQuantities)
	if err != nil {
		return nil, err
	}

	result, err := pricingsvc.Compute(sched, daily, req.AdditionalQuantity, rules)
	if err != nil {
		return nil, err
	}

	return &Quotation{Rules: rules, Schedule: sched, Result: result}, nil
}

type QuoteService struct {
	rules  RulesProvider
	cache  PreviewCache
	logger *zap.Logger
}

// NewQuoteService builds the service. previews may be nil to disable caching.
func NewQuoteService(rules RulesProvider, previews PreviewCache, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		rules:  rules,
		cache:  previews,
		logger: logger,
	}
}

// Preview prices req for display. Results may come from the preview cache;
// cache failures only cost a recomputation.
func (s *QuoteService) Preview(ctx context.Context, agencyID string, req pricing.QuoteRequest) (*pricing.Result, error) {
	rules, err := s.rules.Effective(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing rules: %w", err)
	}

	var key string
	if s.cache != nil {
		key, err = cache.PreviewKey(req, rules)
		if err != nil {
			s.logger.Warn("preview cache key failed", zap.String("agency_id", agencyID), zap.Error(err))
		} else if cached, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("preview cache read failed", zap.String("agency_id", agencyID), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	q, err := Run(req, rules)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && key != "" {
		if err := s.cache.Set(ctx, key, q.Result); err != nil {
			s.logger.Warn("preview cache write failed", zap.String("agency_id", agencyID), zap.Error(err))
		}
	}

	return q.Result, nil
}

// Quote prices req with the agency's current rules, never from the cache.
// Anything persisted is priced through here.
func (s *QuoteService) Quote(ctx context.Context, agencyID string, req pricing.QuoteRequest) (*Quotation, error) {
	rules, err := s.rules.Effective(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing rules: %w", err)
	}
	return Run(req, rules)
}
