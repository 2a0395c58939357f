package repository

import (
	"context"
	"time"
)

// LeaderLockRepository is a leased lock that elects the replica refreshing
// the privacy config. Holder returns entity.ErrNoLeader when nobody holds it.
type LeaderLockRepository interface {
	Holder(ctx context.Context, lockKey string) (string, error)
	TryAcquire(ctx context.Context, lockKey, replicaID string, lease time.Duration) (bool, error)
	Renew(ctx context.Context, lockKey, replicaID string, lease time.Duration) error
	Release(ctx context.Context, lockKey, replicaID string) error
}
