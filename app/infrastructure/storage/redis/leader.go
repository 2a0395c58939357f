package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

// renewScript extends the lease only while replicaID still holds the key.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

// releaseScript deletes the key only while replicaID still holds it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type RedisLeaderLock struct {
	client *redis.Client
}

func NewRedisLeaderLock(c *redis.Client) repository.LeaderLockRepository {
	return &RedisLeaderLock{client: c}
}

func (l *RedisLeaderLock) Holder(ctx context.Context, lockKey string) (string, error) {
	holder, err := l.client.Get(ctx, lockKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", entity.ErrNoLeader
	case err != nil:
		return "", fmt.Errorf("get leader key: %w", err)
	default:
		return holder, nil
	}
}

func (l *RedisLeaderLock) TryAcquire(ctx context.Context, lockKey, replicaID string, lease time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey, replicaID, lease).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (l *RedisLeaderLock) Renew(ctx context.Context, lockKey, replicaID string, lease time.Duration) error {
	n, err := renewScript.Run(ctx, l.client, []string{lockKey}, replicaID, lease.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("[%s] renew lease: %w", replicaID, err)
	}
	if n == 0 {
		return fmt.Errorf("[%s] renew lease: %w", replicaID, entity.ErrNotLeader)
	}
	return nil
}

func (l *RedisLeaderLock) Release(ctx context.Context, lockKey, replicaID string) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKey}, replicaID).Err(); err != nil {
		return fmt.Errorf("[%s] release leader: %w", replicaID, err)
	}
	return nil
}
