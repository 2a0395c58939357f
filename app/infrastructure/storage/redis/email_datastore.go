package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mark47B/browser-data-service/app/domain/repository"
)

const neverAskAgainKey = "email_protection:in_context:never_ask_again"

type RedisEmailInContextDataStore struct {
	client *redis.Client
}

func NewRedisEmailInContextDataStore(c *redis.Client) repository.EmailInContextDataStore {
	return &RedisEmailInContextDataStore{client: c}
}

func (s *RedisEmailInContextDataStore) OnUserChoseNeverAskAgain(ctx context.Context) error {
	if err := s.client.Set(ctx, neverAskAgainKey, "1", 0).Err(); err != nil {
		return fmt.Errorf("set never ask again: %w", err)
	}
	return nil
}

func (s *RedisEmailInContextDataStore) HasUserChosenNeverAskAgain(ctx context.Context) (bool, error) {
	err := s.client.Get(ctx, neverAskAgainKey).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get never ask again: %w", err)
	}
	return true, nil
}
