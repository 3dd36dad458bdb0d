// internal/repository/postgres/pricing_rules_repo.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"scout-service/internal/domain/pricing"
	xerrors "scout-service/internal/pkg/errors"
)

type PricingRulesRepository struct {
	db *sql.DB
}

func NewPricingRulesRepository(db *sql.DB) *PricingRulesRepository {
	return &PricingRulesRepository{db: db}
}

// FindByAgency returns the agency's stored override, or ErrNotFound when the
// agency prices with the defaults.
func (r *PricingRulesRepository) FindByAgency(ctx context.Context, agencyID string) (*pricing.AgencyRules, error) {
	query := `
		SELECT agency_id, currency, base_unit_price, weekend_multiplier,
		       night_multiplier, additional_unit_price,
		       night_start_hour, night_end_hour, updated_at
		FROM agency_pricing_rules
		WHERE agency_id = $1
	`

	var ar pricing.AgencyRules
	err := r.db.QueryRowContext(ctx, query, agencyID).Scan(
		&ar.AgencyID, &ar.Rules.Currency, &ar.Rules.BaseUnitPrice, &ar.Rules.WeekendMultiplier,
		&ar.Rules.NightMultiplier, &ar.Rules.AdditionalUnitPrice,
		&ar.Rules.NightWindow.StartHour, &ar.Rules.NightWindow.EndHour, &ar.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pricing rules: %w", err)
	}

	return &ar, nil
}

// Upsert stores the agency's override, replacing any previous one, and
// returns the row as the database stored it.
func (r *PricingRulesRepository) Upsert(ctx context.Context, agencyID string, rules pricing.Rules) (*pricing.AgencyRules, error) {
	query := `
		INSERT INTO agency_pricing_rules (
			agency_id, currency, base_unit_price, weekend_multiplier,
			night_multiplier, additional_unit_price, night_start_hour, night_end_hour
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (agency_id) DO UPDATE SET
			currency = EXCLUDED.currency,
			base_unit_price = EXCLUDED.base_unit_price,
			weekend_multiplier = EXCLUDED.weekend_multiplier,
			night_multiplier = EXCLUDED.night_multiplier,
			additional_unit_price = EXCLUDED.additional_unit_price,
			night_start_hour = EXCLUDED.night_start_hour,
			night_end_hour = EXCLUDED.night_end_hour,
			updated_at = NOW()
		RETURNING agency_id, currency, base_unit_price, weekend_multiplier,
		          night_multiplier, additional_unit_price,
		          night_start_hour, night_end_hour, updated_at
	`

	var ar pricing.AgencyRules
	err := r.db.QueryRowContext(
		ctx, query,
		agencyID, rules.Currency, rules.BaseUnitPrice, rules.WeekendMultiplier,
		rules.NightMultiplier, rules.AdditionalUnitPrice,
		rules.NightWindow.StartHour, rules.NightWindow.EndHour,
	).Scan(
		&ar.AgencyID, &ar.Rules.Currency, &ar.Rules.BaseUnitPrice, &ar.Rules.WeekendMultiplier,
		&ar.Rules.NightMultiplier, &ar.Rules.AdditionalUnitPrice,
		&ar.Rules.NightWindow.StartHour, &ar.Rules.NightWindow.EndHour, &ar.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert pricing rules: %w", err)
	}

	return &ar, nil
}

// Delete drops the agency's override so it falls back to the defaults.
func (r *PricingRulesRepository) Delete(ctx context.Context, agencyID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM agency_pricing_rules WHERE agency_id = $1`, agencyID)
	if err != nil {
		return fmt.Errorf("failed to delete pricing rules: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}
