package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"helpdesk/internal/domain/delivery"
)

const (
	correlationPrefix     = "helpdesk:correlation:"
	defaultCorrelationTTL = 7 * 24 * time.Hour
)

// CorrelationStore maps transport correlation tokens to ticket identities in
// Redis. Tokens outlive process restarts so admin replies keep resolving;
// the TTL bounds how long a stale notification stays answerable.
type CorrelationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCorrelationStore(client *redis.Client, ttl time.Duration) *CorrelationStore {
	if ttl <= 0 {
		ttl = defaultCorrelationTTL
	}
	return &CorrelationStore{client: client, ttl: ttl}
}

func (s *CorrelationStore) Bind(ctx context.Context, token string, ticketID uint) error {
	if token == "" {
		return fmt.Errorf("correlation token cannot be empty")
	}
	key := correlationPrefix + token
	if err := s.client.Set(ctx, key, uint64(ticketID), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to bind correlation token: %w", err)
	}
	return nil
}

func (s *CorrelationStore) Resolve(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, delivery.ErrUnresolvedCorrelation
	}
	key := correlationPrefix + token

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, delivery.ErrUnresolvedCorrelation
		}
		return 0, fmt.Errorf("failed to resolve correlation token: %w", err)
	}

	ticketID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ticket ID in correlation token: %w", err)
	}
	return uint(ticketID), nil
}
