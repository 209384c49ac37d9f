package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error { return s.rdb.Close() }

// --- email confirmation tokens ---

func confirmKey(token string) string { return "confirm:" + token }

func (s *Store) SetConfirmToken(ctx context.Context, token string, userID uint64, ttl time.Duration) error {
	return s.rdb.Set(ctx, confirmKey(token), userID, ttl).Err()
}

// GetConfirmToken returns redis.Nil when the token is unknown or expired.
func (s *Store) GetConfirmToken(ctx context.Context, token string) (uint64, error) {
	return s.rdb.Get(ctx, confirmKey(token)).Uint64()
}

func (s *Store) DeleteConfirmToken(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, confirmKey(token)).Err()
}

// --- revoked JWTs (logout) ---

func revokedKey(jti string) string { return "revoked:" + jti }

// RevokeToken marks a token id revoked until its natural expiry.
func (s *Store) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedKey(jti), 1, ttl).Err()
}

func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- per-user analysis busy flag ---

func busyKey(userID uint64) string { return fmt.Sprintf("analysis:busy:%d", userID) }

// AcquireBusy returns false when an analysis is already pending for the user.
// The TTL is a safety net against a crashed worker leaving the flag stuck.
func (s *Store) AcquireBusy(ctx context.Context, userID uint64, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, busyKey(userID), 1, ttl).Result()
}

func (s *Store) ReleaseBusy(ctx context.Context, userID uint64) error {
	return s.rdb.Del(ctx, busyKey(userID)).Err()
}
