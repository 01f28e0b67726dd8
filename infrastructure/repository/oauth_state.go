package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/growzzy/growzzy-api/infrastructure/database/postgres"
	"github.com/growzzy/growzzy-api/internal/domain"
)

const oauthStatesTable = "oauth_states"

// OAuthStateRepository stores pending authorization requests. Consume is
// single-use: it returns the state at most once, even for concurrent callers.
//
//go:generate mockgen -source=oauth_state.go -destination=mocks/oauth_state_mock.go -package=mocks
type OAuthStateRepository interface {
	Save(ctx context.Context, state *domain.OAuthState) error
	Consume(ctx context.Context, state string, platform domain.Platform) (*domain.OAuthState, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type oauthStateRepository struct {
	db postgres.Queryer
}

func NewOAuthStateRepository(conn *postgres.Connection) OAuthStateRepository {
	return &oauthStateRepository{
		db: conn,
	}
}

func (r *oauthStateRepository) Save(ctx context.Context, state *domain.OAuthState) error {
	query, args, err := psql.
		Insert(oauthStatesTable).
		Columns("state", "platform", "user_id", "shop", "redirect_uri", "expires_at").
		Values(state.State, state.Platform, state.UserID, state.Shop, state.RedirectURI, state.ExpiresAt).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&state.CreatedAt); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Consume deletes and returns the row in one statement. Expired rows are
// returned too so the caller can tell "expired" apart from "unknown".
func (r *oauthStateRepository) Consume(ctx context.Context, state string, platform domain.Platform) (*domain.OAuthState, error) {
	query, args, err := psql.
		Delete(oauthStatesTable).
		Where(squirrel.Eq{"state": state, "platform": platform}).
		Suffix("RETURNING state, platform, user_id, shop, redirect_uri, expires_at, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	var s domain.OAuthState
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&s.State,
		&s.Platform,
		&s.UserID,
		&s.Shop,
		&s.RedirectURI,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError(err)
	}

	return &s, nil
}

func (r *oauthStateRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := psql.
		Delete(oauthStatesTable).
		Where(squirrel.Lt{"expires_at": now}).
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
