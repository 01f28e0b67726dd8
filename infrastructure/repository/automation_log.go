package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/growzzy/growzzy-api/infrastructure/database/postgres"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

const (
	automationLogsTable    = "automation_execution_logs"
	defaultAutomationLogs  = 50
	maxAutomationLogsLimit = 500
)

//go:generate mockgen -source=automation_log.go -destination=mocks/automation_log_mock.go -package=mocks
type AutomationLogRepository interface {
	Append(ctx context.Context, entry *domain.AutomationExecutionLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AutomationExecutionLog, error)
}

type automationLogRepository struct {
	db postgres.Queryer
}

func NewAutomationLogRepository(conn *postgres.Connection) AutomationLogRepository {
	return &automationLogRepository{
		db: conn,
	}
}

func (r *automationLogRepository) Append(ctx context.Context, entry *domain.AutomationExecutionLog) error {
	if entry.ID == "" {
		id, err := utils.GenerateID()
		if err != nil {
			return err
		}
		entry.ID = id
	}

	query, args, err := psql.
		Insert(automationLogsTable).
		Columns("id", "automation_id", "user_id", "action_type", "triggered", "status", "message", "error", "executed_at").
		Values(entry.ID, entry.AutomationID, entry.UserID, entry.ActionType, entry.Triggered, entry.Status, entry.Message, entry.Error, entry.ExecutedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// ListByUser returns the newest entries first.
func (r *automationLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AutomationExecutionLog, error) {
	if limit <= 0 {
		limit = defaultAutomationLogs
	}
	if limit > maxAutomationLogsLimit {
		limit = maxAutomationLogsLimit
	}

	query, args, err := psql.
		Select("id", "automation_id", "user_id", "action_type", "triggered", "status", "message", "error", "executed_at").
		From(automationLogsTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("executed_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	entries := make([]*domain.AutomationExecutionLog, 0)
	for rows.Next() {
		var entry domain.AutomationExecutionLog
		if err := rows.Scan(
			&entry.ID,
			&entry.AutomationID,
			&entry.UserID,
			&entry.ActionType,
			&entry.Triggered,
			&entry.Status,
			&entry.Message,
			&entry.Error,
			&entry.ExecutedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	return entries, nil
}
