package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/growzzy/growzzy-api/infrastructure/database/postgres"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	"github.com/growzzy/growzzy-api/pkg/secure"
	"github.com/growzzy/growzzy-api/pkg/utils"
)

const connectionsTable = "platform_connections"

var connectionColumns = []string{
	"id", "user_id", "platform", "account_id", "account_name", "access_token", "refresh_token",
	"expires_at", "scopes", "active", "last_synced_at", "created_at", "updated_at",
}

// ConnectionRepository is the credential store. Tokens are encrypted on
// write and decrypted on read.
//
//go:generate mockgen -source=connection.go -destination=mocks/connection_mock.go -package=mocks
type ConnectionRepository interface {
	Upsert(ctx context.Context, conn *domain.PlatformConnection) (*domain.PlatformConnection, error)
	GetByID(ctx context.Context, id string) (*domain.PlatformConnection, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.PlatformConnection, error)
	ListActiveByUser(ctx context.Context, userID string) ([]*domain.PlatformConnection, error)
	ListUsersWithActiveConnections(ctx context.Context) ([]string, error)
	UpdateTokens(ctx context.Context, id string, token *domain.OAuthToken) error
	MarkSynced(ctx context.Context, id string, syncedAt time.Time) error
	Deactivate(ctx context.Context, req domain.DisconnectRequest) (int64, error)
}

type connectionRepository struct {
	db     postgres.Queryer
	cipher secure.Cipher
}

func NewConnectionRepository(conn *postgres.Connection, cipher secure.Cipher) ConnectionRepository {
	return &connectionRepository{
		db:     conn,
		cipher: cipher,
	}
}

// Upsert keys on (user_id, platform, account_id) and always reactivates the row.
func (r *connectionRepository) Upsert(ctx context.Context, conn *domain.PlatformConnection) (*domain.PlatformConnection, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return nil, err
	}

	accessToken, err := r.cipher.Encrypt(conn.AccessToken)
	if err != nil {
		return nil, err
	}

	var refreshToken *string
	if conn.RefreshToken != nil && *conn.RefreshToken != "" {
		encrypted, err := r.cipher.Encrypt(*conn.RefreshToken)
		if err != nil {
			return nil, err
		}
		refreshToken = &encrypted
	}

	query, args, err := psql.
		Insert(connectionsTable).
		Columns("id", "user_id", "platform", "account_id", "account_name", "access_token", "refresh_token", "expires_at", "scopes", "active").
		Values(id, conn.UserID, conn.Platform, conn.AccountID, conn.AccountName, accessToken, refreshToken, conn.ExpiresAt, strings.Join(conn.Scopes, ","), true).
		Suffix(`
			ON CONFLICT (user_id, platform, account_id) DO UPDATE SET
				account_name = EXCLUDED.account_name,
				access_token = EXCLUDED.access_token,
				refresh_token = COALESCE(EXCLUDED.refresh_token, platform_connections.refresh_token),
				expires_at = EXCLUDED.expires_at,
				scopes = EXCLUDED.scopes,
				active = TRUE,
				updated_at = NOW()
			RETURNING id, created_at, updated_at
		`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	saved := *conn
	saved.Active = true
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, wrapDBError(err)
	}

	return &saved, nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id string) (*domain.PlatformConnection, error) {
	query, args, err := psql.
		Select(connectionColumns...).
		From(connectionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	conn, err := r.scanConnection(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return conn, nil
}

func (r *connectionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.PlatformConnection, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID})
}

func (r *connectionRepository) ListActiveByUser(ctx context.Context, userID string) ([]*domain.PlatformConnection, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID, "active": true})
}

func (r *connectionRepository) list(ctx context.Context, where squirrel.Eq) ([]*domain.PlatformConnection, error) {
	query, args, err := psql.
		Select(connectionColumns...).
		From(connectionsTable).
		Where(where).
		OrderBy("platform ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	connections := make([]*domain.PlatformConnection, 0)
	for rows.Next() {
		conn, err := r.scanConnection(rows)
		if err != nil {
			return nil, err
		}
		connections = append(connections, conn)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	return connections, nil
}

func (r *connectionRepository) ListUsersWithActiveConnections(ctx context.Context) ([]string, error) {
	query, args, err := psql.
		Select("DISTINCT user_id").
		From(connectionsTable).
		Where(squirrel.Eq{"active": true}).
		OrderBy("user_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	userIDs := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}

	return userIDs, rows.Err()
}

func (r *connectionRepository) UpdateTokens(ctx context.Context, id string, token *domain.OAuthToken) error {
	accessToken, err := r.cipher.Encrypt(token.AccessToken)
	if err != nil {
		return err
	}

	builder := psql.
		Update(connectionsTable).
		Set("access_token", accessToken).
		Set("expires_at", token.ExpiresAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if token.RefreshToken != "" {
		refreshToken, err := r.cipher.Encrypt(token.RefreshToken)
		if err != nil {
			return err
		}
		builder = builder.Set("refresh_token", refreshToken)
	}

	return r.exec(ctx, builder)
}

func (r *connectionRepository) MarkSynced(ctx context.Context, id string, syncedAt time.Time) error {
	return r.exec(ctx, psql.
		Update(connectionsTable).
		Set("last_synced_at", syncedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// Deactivate flips matching rows to inactive; rows are never deleted.
func (r *connectionRepository) Deactivate(ctx context.Context, req domain.DisconnectRequest) (int64, error) {
	where := squirrel.Eq{"user_id": req.UserID, "platform": req.Platform, "active": true}
	if req.AccountID != "" {
		where["account_id"] = req.AccountID
	}

	query, args, err := psql.
		Update(connectionsTable).
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, wrapDBError(err)
	}

	return res.RowsAffected()
}

func (r *connectionRepository) exec(ctx context.Context, builder squirrel.UpdateBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (r *connectionRepository) scanConnection(row rowScanner) (*domain.PlatformConnection, error) {
	var (
		conn         domain.PlatformConnection
		refreshToken sql.NullString
		scopes       string
	)

	if err := row.Scan(
		&conn.ID,
		&conn.UserID,
		&conn.Platform,
		&conn.AccountID,
		&conn.AccountName,
		&conn.AccessToken,
		&refreshToken,
		&conn.ExpiresAt,
		&scopes,
		&conn.Active,
		&conn.LastSyncedAt,
		&conn.CreatedAt,
		&conn.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if scopes != "" {
		conn.Scopes = strings.Split(scopes, ",")
	}

	if err := r.decryptTokens(&conn, refreshToken); err != nil {
		log.L.WithFields(log.Fields{
			"connection_id": conn.ID,
			"platform":      conn.Platform,
			"error":         err.Error(),
		}).Warn("Could not decrypt stored tokens, connection needs to be reconnected")
		conn.AccessToken = ""
		conn.RefreshToken = nil
	}

	return &conn, nil
}

// decryptTokens fails when the row was encrypted under another key. The caller
// keeps the row with empty tokens so one stale connection does not hide its
// siblings.
func (r *connectionRepository) decryptTokens(conn *domain.PlatformConnection, refreshToken sql.NullString) error {
	accessToken, err := r.cipher.Decrypt(conn.AccessToken)
	if err != nil {
		return err
	}
	conn.AccessToken = accessToken

	if refreshToken.Valid && refreshToken.String != "" {
		plain, err := r.cipher.Decrypt(refreshToken.String)
		if err != nil {
			return err
		}
		conn.RefreshToken = &plain
	}

	return nil
}
