package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/growzzy/growzzy-api/infrastructure/database/postgres"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/utils"
	jsoniter "github.com/json-iterator/go"
)

const automationsTable = "automations"

var automationColumns = []string{
	"id", "user_id", "name", "trigger_type", "trigger_config", "action_type", "action_config",
	"active", "last_executed_at", "created_at", "updated_at",
}

//go:generate mockgen -source=automation.go -destination=mocks/automation_mock.go -package=mocks
type AutomationRepository interface {
	Create(ctx context.Context, automation *domain.Automation) (*domain.Automation, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Automation, error)
	ListActive(ctx context.Context) ([]*domain.Automation, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Automation, error)
	MarkExecuted(ctx context.Context, id string, executedAt time.Time) error
}

type automationRepository struct {
	db postgres.Queryer
}

func NewAutomationRepository(conn *postgres.Connection) AutomationRepository {
	return &automationRepository{
		db: conn,
	}
}

func (r *automationRepository) Create(ctx context.Context, automation *domain.Automation) (*domain.Automation, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	triggerConfig, err := jsoniter.Marshal(automation.TriggerConfig)
	if err != nil {
		return nil, fmt.Errorf("encoding trigger config: %w", err)
	}
	actionConfig, err := jsoniter.Marshal(automation.ActionConfig)
	if err != nil {
		return nil, fmt.Errorf("encoding action config: %w", err)
	}

	query, args, err := psql.
		Insert(automationsTable).
		Columns("id", "user_id", "name", "trigger_type", "trigger_config", "action_type", "action_config", "active").
		Values(id, automation.UserID, automation.Name, automation.TriggerType, string(triggerConfig), automation.ActionType, string(actionConfig), automation.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	saved := *automation
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, wrapDBError(err)
	}

	return &saved, nil
}

func (r *automationRepository) GetByID(ctx context.Context, userID, id string) (*domain.Automation, error) {
	query, args, err := psql.
		Select(automationColumns...).
		From(automationsTable).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	automation, err := scanAutomation(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError(err)
	}

	return automation, nil
}

func (r *automationRepository) ListActive(ctx context.Context) ([]*domain.Automation, error) {
	return r.list(ctx, squirrel.Eq{"active": true})
}

func (r *automationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Automation, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID})
}

func (r *automationRepository) list(ctx context.Context, where squirrel.Eq) ([]*domain.Automation, error) {
	query, args, err := psql.
		Select(automationColumns...).
		From(automationsTable).
		Where(where).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	automations := make([]*domain.Automation, 0)
	for rows.Next() {
		automation, err := scanAutomation(rows)
		if err != nil {
			return nil, err
		}
		automations = append(automations, automation)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	return automations, nil
}

func (r *automationRepository) MarkExecuted(ctx context.Context, id string, executedAt time.Time) error {
	query, args, err := psql.
		Update(automationsTable).
		Set("last_executed_at", executedAt).
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

func scanAutomation(row rowScanner) (*domain.Automation, error) {
	var (
		a             domain.Automation
		triggerConfig []byte
		actionConfig  []byte
	)

	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.TriggerType,
		&triggerConfig,
		&a.ActionType,
		&actionConfig,
		&a.Active,
		&a.LastExecutedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := jsoniter.Unmarshal(triggerConfig, &a.TriggerConfig); err != nil {
		return nil, fmt.Errorf("automation %s: decoding trigger config: %w", a.ID, err)
	}
	if err := jsoniter.Unmarshal(actionConfig, &a.ActionConfig); err != nil {
		return nil, fmt.Errorf("automation %s: decoding action config: %w", a.ID, err)
	}

	return &a, nil
}
