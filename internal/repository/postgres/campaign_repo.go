// internal/repository/postgres/campaign_repo.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"scout-service/internal/domain/campaign"
	"scout-service/internal/domain/delivery"
	"scout-service/internal/domain/pricing"
	xerrors "scout-service/internal/pkg/errors"

	"github.com/lib/pq"
)

const campaignColumns = `
	id, reference, agency_id, customer_id, name, platform,
	start_date, end_date, weekdays, job_types, job_daily_quantities,
	daily_quantity, additional_quantity, delivery_days, total_quantity,
	currency, total_amount, rules_snapshot, status, created_at, updated_at`

var campaignSortColumns = map[string]string{
	"created_at":   "created_at",
	"start_date":   "start_date",
	"end_date":     "end_date",
	"total_amount": "total_amount",
}

type CampaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create inserts a campaign and fills in its generated id and timestamps.
func (r *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) error {
	query := `
		INSERT INTO campaigns (
			reference, agency_id, customer_id, name, platform,
			start_date, end_date, weekdays, job_types, job_daily_quantities,
			daily_quantity, additional_quantity, delivery_days, total_quantity,
			currency, total_amount, rules_snapshot, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at
	`

	weekdaysJSON, rulesJSON, err := marshalCampaignJSON(c)
	if err != nil {
		return err
	}
	jobTypes, jobQuantities := splitJobQuantities(c.JobQuantities)

	err = r.db.QueryRowContext(
		ctx, query,
		c.Reference, c.AgencyID, c.CustomerID, c.Name, c.Platform,
		c.StartDate.Time(), c.EndDate.Time(), weekdaysJSON, pq.Array(jobTypes), pq.Array(jobQuantities),
		c.DailyQuantity, c.AdditionalQuantity, c.DeliveryDays, c.TotalQuantity,
		c.Currency, c.TotalAmount, rulesJSON, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

// FindByID returns the agency's campaign. Campaigns owned by another agency
// are reported as not found.
func (r *CampaignRepository) FindByID(ctx context.Context, agencyID string, id int64) (*campaign.Campaign, error) {
	query := `SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE id = $1 AND agency_id = $2
	`

	c, err := scanCampaign(r.db.QueryRowContext(ctx, query, id, agencyID))
	if err == sql.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}

	return c, nil
}

// Update rewrites a scheduled campaign. A campaign that left the scheduled
// state since it was read yields ErrConflict.
func (r *CampaignRepository) Update(ctx context.Context, c *campaign.Campaign) error {
	query := `
		UPDATE campaigns SET
			name = $1, platform = $2,
			start_date = $3, end_date = $4, weekdays = $5,
			job_types = $6, job_daily_quantities = $7,
			daily_quantity = $8, additional_quantity = $9,
			delivery_days = $10, total_quantity = $11,
			currency = $12, total_amount = $13, rules_snapshot = $14,
			updated_at = $15
		WHERE id = $16 AND agency_id = $17 AND status = $18
		RETURNING updated_at
	`

	weekdaysJSON, rulesJSON, err := marshalCampaignJSON(c)
	if err != nil {
		return err
	}
	jobTypes, jobQuantities := splitJobQuantities(c.JobQuantities)

	err = r.db.QueryRowContext(
		ctx, query,
		c.Name, c.Platform,
		c.StartDate.Time(), c.EndDate.Time(), weekdaysJSON,
		pq.Array(jobTypes), pq.Array(jobQuantities),
		c.DailyQuantity, c.AdditionalQuantity,
		c.DeliveryDays, c.TotalQuantity,
		c.Currency, c.TotalAmount, rulesJSON,
		time.Now(),
		c.ID, c.AgencyID, campaign.CampaignStatusScheduled,
	).Scan(&c.UpdatedAt)

	if err == sql.ErrNoRows {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	return nil
}

// UpdateStatus moves a campaign to status `to` only if it is currently in one
// of the `from` states.
func (r *CampaignRepository) UpdateStatus(ctx context.Context, agencyID string, id int64, from []campaign.CampaignStatus, to campaign.CampaignStatus) error {
	query := `
		UPDATE campaigns SET status = $1, updated_at = $2
		WHERE id = $3 AND agency_id = $4 AND status = ANY($5)
	`

	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, agencyID, pq.Array(statusStrings(from)))
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return xerrors.ErrConflict
	}

	return nil
}

// List returns one page of the agency's campaigns and the total match count.
func (r *CampaignRepository) List(ctx context.Context, agencyID string, filters *campaign.CampaignListFilters) ([]campaign.Campaign, int64, error) {
	conditions := []string{"agency_id = $1"}
	args := []interface{}{agencyID}
	argPos := 2

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	if filters.Platform != "" {
		conditions = append(conditions, fmt.Sprintf("platform = $%d", argPos))
		args = append(args, filters.Platform)
		argPos++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR reference ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM campaigns %s", whereClause)
	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	filters.Normalize()
	offset := (filters.Page - 1) * filters.PageSize

	sortBy, ok := campaignSortColumns[filters.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s
		FROM campaigns
		%s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d
	`, campaignColumns, whereClause, sortBy, sortOrder, sortOrder, argPos, argPos+1)

	args = append(args, filters.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []campaign.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate campaigns: %w", err)
	}

	return campaigns, total, nil
}

// SweepStatuses activates scheduled campaigns whose start date has arrived
// and completes active campaigns whose end date has passed, in one
// transaction.
func (r *CampaignRepository) SweepStatuses(ctx context.Context, today delivery.Date) (activated, completed int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	res, err := tx.ExecContext(ctx,
		`UPDATE campaigns SET status = $1, updated_at = $2 WHERE status = $3 AND start_date <= $4`,
		campaign.CampaignStatusActive, now, campaign.CampaignStatusScheduled, today.Time(),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to activate campaigns: %w", err)
	}
	if activated, err = res.RowsAffected(); err != nil {
		return 0, 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE campaigns SET status = $1, updated_at = $2 WHERE status = $3 AND end_date < $4`,
		campaign.CampaignStatusCompleted, now, campaign.CampaignStatusActive, today.Time(),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to complete campaigns: %w", err)
	}
	if completed, err = res.RowsAffected(); err != nil {
		return 0, 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit status sweep: %w", err)
	}

	return activated, completed, nil
}

func scanCampaign(row rowScanner) (*campaign.Campaign, error) {
	var c campaign.Campaign
	var startDate, endDate time.Time
	var weekdaysJSON, rulesJSON []byte
	var jobTypes []string
	var jobQuantities []int64

	err := row.Scan(
		&c.ID, &c.Reference, &c.AgencyID, &c.CustomerID, &c.Name, &c.Platform,
		&startDate, &endDate, &weekdaysJSON, pq.Array(&jobTypes), pq.Array(&jobQuantities),
		&c.DailyQuantity, &c.AdditionalQuantity, &c.DeliveryDays, &c.TotalQuantity,
		&c.Currency, &c.TotalAmount, &rulesJSON, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.StartDate = delivery.DateOf(startDate)
	c.EndDate = delivery.DateOf(endDate)

	if len(weekdaysJSON) > 0 {
		if err := json.Unmarshal(weekdaysJSON, &c.Weekdays); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weekdays: %w", err)
		}
	}
	if len(rulesJSON) > 0 {
		if err := json.Unmarshal(rulesJSON, &c.RulesSnapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rules snapshot: %w", err)
		}
	}

	if len(jobTypes) != len(jobQuantities) {
		return nil, fmt.Errorf("campaign %d has %d job types but %d quantities", c.ID, len(jobTypes), len(jobQuantities))
	}
	c.JobQuantities = make([]pricing.JobTypeQuantity, len(jobTypes))
	for i := range jobTypes {
		c.JobQuantities[i] = pricing.JobTypeQuantity{JobType: jobTypes[i], DailyQuantity: jobQuantities[i]}
	}

	return &c, nil
}

func marshalCampaignJSON(c *campaign.Campaign) (weekdays, rules []byte, err error) {
	weekdays, err = json.Marshal(c.Weekdays)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal weekdays: %w", err)
	}
	rules, err = json.Marshal(c.RulesSnapshot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal rules snapshot: %w", err)
	}
	return weekdays, rules, nil
}

func splitJobQuantities(items []pricing.JobTypeQuantity) ([]string, []int64) {
	types := make([]string, len(items))
	quantities := make([]int64, len(items))
	for i, item := range items {
		types[i] = item.JobType
		quantities[i] = item.DailyQuantity
	}
	return types, quantities
}

func statusStrings(statuses []campaign.CampaignStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
