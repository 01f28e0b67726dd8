package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/growzzy/growzzy-api/internal/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

// expiredStateGrace keeps a state readable for a while after it expires so a
// late callback is reported as expired rather than unknown.
const expiredStateGrace = time.Hour

type redisOAuthStateRepository struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisOAuthStateRepository(client redis.Cmdable) OAuthStateRepository {
	return &redisOAuthStateRepository{
		client: client,
		now:    time.Now,
	}
}

func oauthStateKey(platform domain.Platform, state string) string {
	return fmt.Sprintf("oauth_state:%s:%s", platform, state)
}

func (r *redisOAuthStateRepository) Save(ctx context.Context, state *domain.OAuthState) error {
	if state.CreatedAt.IsZero() {
		state.CreatedAt = r.now().UTC()
	}

	payload, err := jsoniter.Marshal(state)
	if err != nil {
		return err
	}

	ttl := state.ExpiresAt.Sub(r.now()) + expiredStateGrace
	if ttl <= 0 {
		ttl = expiredStateGrace
	}

	if err := r.client.Set(ctx, oauthStateKey(state.Platform, state.State), payload, ttl).Err(); err != nil {
		return fmt.Errorf("saving oauth state: %w", err)
	}
	return nil
}

// Consume relies on GETDEL being atomic on the server.
func (r *redisOAuthStateRepository) Consume(ctx context.Context, state string, platform domain.Platform) (*domain.OAuthState, error) {
	payload, err := r.client.GetDel(ctx, oauthStateKey(platform, state)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("consuming oauth state: %w", err)
	}

	var s domain.OAuthState
	if err := jsoniter.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteExpired is a no-op; keys carry their own TTL.
func (r *redisOAuthStateRepository) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
