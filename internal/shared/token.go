package shared

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// TokenStore issues and resolves opaque bearer tokens. Redis holds the live
// token for the hot path; a postgres row records issuance so the worker can
// sweep expired entries and operators can revoke out of band.
type TokenStore struct {
	client *redis.Client
	pool   *pgxpool.Pool
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, pool *pgxpool.Pool, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, pool: pool, ttl: ttl}
}

// Issue mints a token for the user and stores it with the configured TTL.
func (s *TokenStore) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.redisKey(token), userID.String(), s.ttl).Err(); err != nil {
		return "", err
	}
	if s.pool != nil {
		_, err = s.pool.Exec(ctx,
			`INSERT INTO auth_tokens (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
			hashToken(token), userID, time.Now().Add(s.ttl))
		if err != nil {
			_ = s.client.Del(ctx, s.redisKey(token)).Err()
			return "", err
		}
	}
	return token, nil
}

// Resolve returns the user behind the token, or ErrTokenUnknown.
func (s *TokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	raw, err := s.client.Get(ctx, s.redisKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrTokenUnknown
		}
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrTokenUnknown
	}
	return id, nil
}

// Revoke invalidates the token. Revoking an unknown token is a no-op.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if s.pool != nil {
		if _, err := s.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE token_hash = $1`, hashToken(token)); err != nil {
			return err
		}
	}
	return nil
}

func (s *TokenStore) redisKey(token string) string {
	return "gatewarden:token:" + hashToken(token)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
