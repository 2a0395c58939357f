package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mark47B/browser-data-service/app/domain/repository"
)

const (
	cohortKey      = "netp:cohort"
	vpnFeaturesKey = "vpn:registered_features"
)

type RedisCohortStore struct {
	client *redis.Client
}

func NewRedisCohortStore(c *redis.Client) repository.CohortStore {
	return &RedisCohortStore{client: c}
}

func (s *RedisCohortStore) CohortDate(ctx context.Context) (*time.Time, error) {
	val, err := s.client.Get(ctx, cohortKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cohort: %w", err)
	}
	date, err := time.Parse(time.DateOnly, val)
	if err != nil {
		return nil, fmt.Errorf("bad cohort %q: %w", val, err)
	}
	return &date, nil
}

func (s *RedisCohortStore) SetCohortDate(ctx context.Context, date time.Time) error {
	return s.client.Set(ctx, cohortKey, date.Format(time.DateOnly), 0).Err()
}

type RedisVPNFeaturesRegistry struct {
	client *redis.Client
}

func NewRedisVPNFeaturesRegistry(c *redis.Client) repository.VPNFeaturesRegistry {
	return &RedisVPNFeaturesRegistry{client: c}
}

func (r *RedisVPNFeaturesRegistry) IsFeatureRegistered(ctx context.Context, feature string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, vpnFeaturesKey, feature).Result()
	if err != nil {
		return false, fmt.Errorf("sismember %s: %w", feature, err)
	}
	return ok, nil
}

func (r *RedisVPNFeaturesRegistry) RegisterFeature(ctx context.Context, feature string) error {
	return r.client.SAdd(ctx, vpnFeaturesKey, feature).Err()
}

func (r *RedisVPNFeaturesRegistry) UnregisterFeature(ctx context.Context, feature string) error {
	return r.client.SRem(ctx, vpnFeaturesKey, feature).Err()
}
