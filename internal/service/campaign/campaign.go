// internal/service/campaign/campaign.go
package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scout-service/internal/domain/campaign"
	"scout-service/internal/domain/delivery"
	"scout-service/internal/domain/pricing"
	xerrors "scout-service/internal/pkg/errors"
	"scout-service/internal/service/quote"
	"scout-service/internal/service/schedule"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type CampaignStore interface {
	Create(ctx context.Context, c *campaign.Campaign) error
	FindByID(ctx context.Context, agencyID string, id int64) (*campaign.Campaign, error)
	Update(ctx context.Context, c *campaign.Campaign) error
	UpdateStatus(ctx context.Context, agencyID string, id int64, from []campaign.CampaignStatus, to campaign.CampaignStatus) error
	List(ctx context.Context, agencyID string, filters *campaign.CampaignListFilters) ([]campaign.Campaign, int64, error)
	SweepStatuses(ctx context.Context, today delivery.Date) (activated, completed int64, err error)
}

type Quoter interface {
	Quote(ctx context.Context, agencyID string, req pricing.QuoteRequest) (*quote.Quotation, error)
}

type CampaignService struct {
	store  CampaignStore
	quoter Quoter
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewCampaignService builds the service. loc is the calendar that decides
// which day "today" is.
func NewCampaignService(store CampaignStore, quoter Quoter, loc *time.Location, logger *zap.Logger) *CampaignService {
	if loc == nil {
		loc = time.UTC
	}
	return &CampaignService{
		store:  store,
		quoter: quoter,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

func (s *CampaignService) Today() delivery.Date {
	return delivery.DateOf(s.now().In(s.loc))
}

// Create prices the campaign with the agency's current rules and stores it.
// Client-side totals are never trusted.
func (s *CampaignService) Create(ctx context.Context, agencyID string, req *campaign.CreateCampaignRequest) (*campaign.Campaign, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, xerrors.Field("name", xerrors.ErrInvalidInput, "name is required")
	}
	platform := strings.TrimSpace(req.Platform)
	if platform == "" {
		return nil, xerrors.Field("platform", xerrors.ErrInvalidInput, "platform is required")
	}

	today := s.Today()
	if err := s.checkNotEnded(req.Delivery, today); err != nil {
		return nil, err
	}

	q, err := s.quoter.Quote(ctx, agencyID, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	c := &campaign.Campaign{
		Reference:          ulid.Make().String(),
		AgencyID:           agencyID,
		CustomerID:         req.CustomerID,
		Name:               name,
		Platform:           platform,
		StartDate:          req.Delivery.StartDate,
		EndDate:            req.Delivery.EndDate,
		Weekdays:           req.Delivery.Weekdays.Clone(),
		JobQuantities:      req.JobQuantities,
		AdditionalQuantity: req.AdditionalQuantity,
		Status:             campaign.CampaignStatusScheduled,
	}
	c.Apply(q.Rules, q.Result)

	if !c.StartDate.After(today) {
		c.Status = campaign.CampaignStatusActive
	}

	if err := s.store.Create(ctx, c); err != nil {
		s.logger.Error("failed to create campaign", zap.String("agency_id", agencyID), zap.Error(err))
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.logger.Info("campaign created",
		zap.Int64("campaign_id", c.ID),
		zap.String("reference", c.Reference),
		zap.String("agency_id", agencyID),
		zap.Int("delivery_days", c.DeliveryDays),
		zap.String("total_amount", c.TotalAmount.String()),
	)

	return c, nil
}

// Update changes a scheduled campaign and reprices it when any delivery or
// quantity setting changes.
func (s *CampaignService) Update(ctx context.Context, agencyID string, id int64, req *campaign.UpdateCampaignRequest) (*campaign.Campaign, error) {
	c, err := s.store.FindByID(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}

	if !c.Editable() {
		return nil, fmt.Errorf("%w: campaign is %s", xerrors.ErrConflict, c.Status)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, xerrors.Field("name", xerrors.ErrInvalidInput, "name must not be empty")
		}
		c.Name = name
	}
	if req.Platform != nil {
		platform := strings.TrimSpace(*req.Platform)
		if platform == "" {
			return nil, xerrors.Field("platform", xerrors.ErrInvalidInput, "platform must not be empty")
		}
		c.Platform = platform
	}

	if req.ChangesQuote() {
		if req.StartDate != nil {
			c.StartDate = *req.StartDate
		}
		if req.EndDate != nil {
			c.EndDate = *req.EndDate
		}
		if req.Weekdays != nil {
			c.Weekdays = req.Weekdays.Clone()
		}
		if req.JobQuantities != nil {
			c.JobQuantities = req.JobQuantities
		}
		if req.AdditionalQuantity != nil {
			c.AdditionalQuantity = *req.AdditionalQuantity
		}

		if err := s.checkNotEnded(c.DeliveryConfig(), s.Today()); err != nil {
			return nil, err
		}

		q, err := s.quoter.Quote(ctx, agencyID, c.QuoteRequest())
		if err != nil {
			return nil, err
		}
		c.Apply(q.Rules, q.Result)
	}

	if err := s.store.Update(ctx, c); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, fmt.Errorf("%w: campaign is no longer scheduled", err)
		}
		s.logger.Error("failed to update campaign", zap.Int64("campaign_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	s.logger.Info("campaign updated",
		zap.Int64("campaign_id", c.ID),
		zap.String("agency_id", agencyID),
		zap.String("total_amount", c.TotalAmount.String()),
	)

	return c, nil
}

func (s *CampaignService) Get(ctx context.Context, agencyID string, id int64) (*campaign.Campaign, error) {
	return s.store.FindByID(ctx, agencyID, id)
}

// List returns one page of the agency's campaigns.
func (s *CampaignService) List(ctx context.Context, agencyID string, filters *campaign.CampaignListFilters) (*campaign.CampaignListResponse, error) {
	if filters.Status != nil && !filters.Status.Valid() {
		return nil, xerrors.Field("status", xerrors.ErrInvalidInput, "unknown status %q", *filters.Status)
	}
	filters.Normalize()

	campaigns, total, err := s.store.List(ctx, agencyID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &campaign.CampaignListResponse{
		Campaigns:  campaigns,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Schedule resolves the stored campaign's delivery days.
func (s *CampaignService) Schedule(ctx context.Context, agencyID string, id int64) (*campaign.ScheduleResponse, error) {
	c, err := s.store.FindByID(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}

	sched, err := schedule.Resolve(c.DeliveryConfig())
	if err != nil {
		return nil, fmt.Errorf("stored campaign %d has an invalid schedule: %w", c.ID, err)
	}

	return &campaign.ScheduleResponse{
		CampaignID: c.ID,
		Reference:  c.Reference,
		Days:       sched.Days,
		Total:      sched.Len(),
	}, nil
}

// Cancel stops a scheduled or active campaign.
func (s *CampaignService) Cancel(ctx context.Context, agencyID string, id int64) (*campaign.Campaign, error) {
	c, err := s.store.FindByID(ctx, agencyID, id)
	if err != nil {
		return nil, err
	}

	from := []campaign.CampaignStatus{campaign.CampaignStatusScheduled, campaign.CampaignStatusActive}
	if err := s.store.UpdateStatus(ctx, agencyID, id, from, campaign.CampaignStatusCancelled); err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, fmt.Errorf("%w: campaign is %s", err, c.Status)
		}
		return nil, fmt.Errorf("failed to cancel campaign: %w", err)
	}
	c.Status = campaign.CampaignStatusCancelled

	s.logger.Info("campaign cancelled", zap.Int64("campaign_id", id), zap.String("agency_id", agencyID))

	return c, nil
}

// SweepStatuses moves campaigns whose date range was entered or left as of
// today.
func (s *CampaignService) SweepStatuses(ctx context.Context, today delivery.Date) (activated, completed int64, err error) {
	activated, completed, err = s.store.SweepStatuses(ctx, today)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sweep campaign statuses: %w", err)
	}
	return activated, completed, nil
}

func (s *CampaignService) checkNotEnded(cfg delivery.Config, today delivery.Date) error {
	if !cfg.EndDate.IsZero() && cfg.EndDate.Before(today) {
		return xerrors.Field("end_date", xerrors.ErrInvalidRange, "campaign would already have ended on %s", cfg.EndDate)
	}
	return nil
}
