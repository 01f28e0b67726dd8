package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/growzzy/growzzy-api/infrastructure/database/postgres"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

const campaignsTable = "campaigns"

var campaignColumns = []string{
	"id", "user_id", "platform", "connection_id", "external_id", "name", "status", "budget", "spend",
	"revenue", "impressions", "clicks", "conversions", "roas", "ctr", "cpc", "last_synced_at",
	"created_at", "updated_at",
}

//go:generate mockgen -source=campaign.go -destination=mocks/campaign_mock.go -package=mocks
type CampaignRepository interface {
	Upsert(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Campaign, error)
	List(ctx context.Context, filters domain.CampaignFilters) ([]*domain.Campaign, error)
	UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error
	UpdateBudget(ctx context.Context, id string, budget float64) error
}

type campaignRepository struct {
	db postgres.Queryer
}

func NewCampaignRepository(conn *postgres.Connection) CampaignRepository {
	return &campaignRepository{
		db: conn,
	}
}

// buildCampaignUpsert overwrites every synced field on conflict and leaves
// id and created_at untouched.
func buildCampaignUpsert(id string, c *domain.Campaign) (string, []any, error) {
	return psql.
		Insert(campaignsTable).
		Columns(
			"id", "user_id", "platform", "connection_id", "external_id", "name", "status", "budget",
			"spend", "revenue", "impressions", "clicks", "conversions", "roas", "ctr", "cpc", "last_synced_at",
		).
		Values(
			id, c.UserID, c.Platform, c.ConnectionID, c.ExternalID, c.Name, c.Status, c.Budget,
			c.Spend, c.Revenue, c.Impressions, c.Clicks, c.Conversions, c.ROAS, c.CTR, c.CPC, c.LastSyncedAt,
		).
		Suffix(`
			ON CONFLICT (user_id, platform, external_id) DO UPDATE SET
				connection_id = EXCLUDED.connection_id,
				name = EXCLUDED.name,
				status = EXCLUDED.status,
				budget = EXCLUDED.budget,
				spend = EXCLUDED.spend,
				revenue = EXCLUDED.revenue,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				conversions = EXCLUDED.conversions,
				roas = EXCLUDED.roas,
				ctr = EXCLUDED.ctr,
				cpc = EXCLUDED.cpc,
				last_synced_at = EXCLUDED.last_synced_at,
				updated_at = NOW()
			RETURNING id, created_at, updated_at
		`).
		ToSql()
}

func (r *campaignRepository) Upsert(ctx context.Context, campaign *domain.Campaign) (*domain.Campaign, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	query, args, err := buildCampaignUpsert(id, campaign)
	if err != nil {
		return nil, err
	}

	saved := *campaign
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, wrapDBError(err)
	}

	return &saved, nil
}

// GetByID is scoped to the owner; another user's campaign reads as missing.
func (r *campaignRepository) GetByID(ctx context.Context, userID, id string) (*domain.Campaign, error) {
	query, args, err := psql.
		Select(campaignColumns...).
		From(campaignsTable).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	campaign, err := scanCampaign(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError(err)
	}

	return campaign, nil
}

func buildCampaignList(filters domain.CampaignFilters) (string, []any, error) {
	where := squirrel.Eq{"user_id": filters.UserID}
	if filters.Platform != nil {
		where["platform"] = *filters.Platform
	}
	if filters.Status != nil {
		where["status"] = *filters.Status
	}

	return psql.
		Select(campaignColumns...).
		From(campaignsTable).
		Where(where).
		OrderBy("spend DESC", "name ASC").
		ToSql()
}

func (r *campaignRepository) List(ctx context.Context, filters domain.CampaignFilters) ([]*domain.Campaign, error) {
	query, args, err := buildCampaignList(filters)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	return campaigns, nil
}

func (r *campaignRepository) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	return r.update(ctx, id, "status", status)
}

func (r *campaignRepository) UpdateBudget(ctx context.Context, id string, budget float64) error {
	return r.update(ctx, id, "budget", budget)
}

func (r *campaignRepository) update(ctx context.Context, id, column string, value any) error {
	query, args, err := psql.
		Update(campaignsTable).
		Set(column, value).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapDBError(err)
	}
	return nil
}

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Platform,
		&c.ConnectionID,
		&c.ExternalID,
		&c.Name,
		&c.Status,
		&c.Budget,
		&c.Spend,
		&c.Revenue,
		&c.Impressions,
		&c.Clicks,
		&c.Conversions,
		&c.ROAS,
		&c.CTR,
		&c.CPC,
		&c.LastSyncedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
