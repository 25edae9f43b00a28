package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const pollOffsetKey = "helpdesk:poll:offset"

// OffsetStore persists the Bot API polling offset in Redis so a restart
// resumes where the previous process stopped.
type OffsetStore struct {
	client *redis.Client
}

func NewOffsetStore(client *redis.Client) *OffsetStore {
	return &OffsetStore{client: client}
}

func (s *OffsetStore) GetOffset(ctx context.Context) (int64, error) {
	val, err := s.client.Get(ctx, pollOffsetKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load polling offset: %w", err)
	}
	offset, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid polling offset %q: %w", val, err)
	}
	return offset, nil
}

func (s *OffsetStore) SaveOffset(ctx context.Context, offset int64) error {
	if err := s.client.Set(ctx, pollOffsetKey, offset, 0).Err(); err != nil {
		return fmt.Errorf("failed to save polling offset: %w", err)
	}
	return nil
}
