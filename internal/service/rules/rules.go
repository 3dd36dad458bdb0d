// internal/service/rules/rules.go
package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scout-service/internal/domain/pricing"
	xerrors "scout-service/internal/pkg/errors"
	pricingsvc "scout-service/internal/service/pricing"

	"go.uber.org/zap"
)

type RulesStore interface {
	FindByAgency(ctx context.Context, agencyID string) (*pricing.AgencyRules, error)
	Upsert(ctx context.Context, agencyID string, rules pricing.Rules) (*pricing.AgencyRules, error)
	Delete(ctx context.Context, agencyID string) error
}

// RulesService resolves the pricing rules each agency is quoted with: its
// stored override, or the service defaults.
type RulesService struct {
	store    RulesStore
	defaults pricing.Rules
	logger   *zap.Logger
}

func NewRulesService(store RulesStore, defaults pricing.Rules, logger *zap.Logger) (*RulesService, error) {
	if err := pricingsvc.ValidateRules(defaults); err != nil {
		return nil, fmt.Errorf("invalid default pricing rules: %w", err)
	}
	return &RulesService{
		store:    store,
		defaults: defaults,
		logger:   logger,
	}, nil
}

func (s *RulesService) Defaults() pricing.Rules {
	return s.defaults
}

// Effective returns the rules a quote for agencyID is computed with.
func (s *RulesService) Effective(ctx context.Context, agencyID string) (pricing.Rules, error) {
	resp, err := s.Get(ctx, agencyID)
	if err != nil {
		return pricing.Rules{}, err
	}
	return resp.Rules, nil
}

func (s *RulesService) Get(ctx context.Context, agencyID string) (*pricing.RulesResponse, error) {
	stored, err := s.store.FindByAgency(ctx, agencyID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return &pricing.RulesResponse{Rules: s.defaults, Source: pricing.RulesSourceDefault}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing rules: %w", err)
	}

	updatedAt := stored.UpdatedAt
	return &pricing.RulesResponse{
		Rules:     stored.Rules,
		Source:    pricing.RulesSourceAgency,
		UpdatedAt: &updatedAt,
	}, nil
}

// Upsert validates and stores an agency override. Rules the calculator would
// reject are never stored.
func (s *RulesService) Upsert(ctx context.Context, agencyID string, req *pricing.UpdateRulesRequest) (*pricing.RulesResponse, error) {
	rules, err := req.ToRules()
	if err != nil {
		return nil, err
	}
	rules.Currency = strings.ToUpper(strings.TrimSpace(rules.Currency))
	if len(rules.Currency) != 3 {
		return nil, xerrors.Field("currency", xerrors.ErrInvalidInput, "must be a 3-letter code, got %q", req.Currency)
	}
	if err := pricingsvc.ValidateRules(rules); err != nil {
		return nil, err
	}

	stored, err := s.store.Upsert(ctx, agencyID, rules)
	if err != nil {
		s.logger.Error("failed to store pricing rules", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to store pricing rules: %w", err)
	}

	s.logger.Info("pricing rules updated",
		zap.String("agency_id", agencyID),
		zap.String("currency", rules.Currency),
		zap.String("base_unit_price", rules.BaseUnitPrice.String()),
	)

	updatedAt := stored.UpdatedAt
	return &pricing.RulesResponse{
		Rules:     stored.Rules,
		Source:    pricing.RulesSourceAgency,
		UpdatedAt: &updatedAt,
	}, nil
}

// Reset drops the agency override. Resetting an agency already on the
// defaults is not an error.
func (s *RulesService) Reset(ctx context.Context, agencyID string) (*pricing.RulesResponse, error) {
	err := s.store.Delete(ctx, agencyID)
	if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to reset pricing rules: %w", err)
	}
	if err == nil {
		s.logger.Info("pricing rules reset to defaults", zap.String("agency_id", agencyID))
	}
	return &pricing.RulesResponse{Rules: s.defaults, Source: pricing.RulesSourceDefault}, nil
}
