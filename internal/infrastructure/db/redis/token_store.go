package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gooddeal/storefront/internal/core/domain"
)

// TokenStore keeps refresh token ids and password reset codes.
// Key formats: refresh:<jti> and reset:<code>, both holding the user id.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) SaveRefresh(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKey(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// ConsumeRefresh reads and deletes the token id in one GETDEL, so of two
// concurrent rotations only one sees the owner.
func (s *TokenStore) ConsumeRefresh(ctx context.Context, jti string) (string, error) {
	owner, err := s.client.GetDel(ctx, refreshKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return owner, nil
}

func (s *TokenStore) RevokeRefresh(ctx context.Context, jti string) error {
	if err := s.client.Del(ctx, refreshKey(jti)).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *TokenStore) SaveResetCode(ctx context.Context, code, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, resetKey(code), userID, ttl).Err(); err != nil {
		return fmt.Errorf("save reset code: %w", err)
	}
	return nil
}

// ConsumeResetCode reads and deletes the code in one step so it can be used
// once.
func (s *TokenStore) ConsumeResetCode(ctx context.Context, code string) (string, error) {
	owner, err := s.client.GetDel(ctx, resetKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("consume reset code: %w", err)
	}
	return owner, nil
}

func refreshKey(jti string) string { return "refresh:" + jti }
func resetKey(code string) string  { return "reset:" + code }
