package etcd

import (
	"context"
	"fmt"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

// EtcdLeaderLock holds the leader key under a lease owned by this replica.
type EtcdLeaderLock struct {
	client *clientv3.Client

	mu      sync.Mutex
	leaseID clientv3.LeaseID
}

func NewEtcdLeaderLock(cli *clientv3.Client) repository.LeaderLockRepository {
	return &EtcdLeaderLock{
		client: cli,
	}
}

func (s *EtcdLeaderLock) TryAcquire(ctx context.Context, lockKey, replicaID string, lease time.Duration) (bool, error) {
	grant, err := s.client.Grant(ctx, leaseSeconds(lease))
	if err != nil {
		return false, fmt.Errorf("grant lease: %w", err)
	}

	resp, err := s.client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(lockKey), "=", 0)).
		Then(clientv3.OpPut(lockKey, replicaID, clientv3.WithLease(grant.ID))).
		Commit()
	if err != nil {
		return false, fmt.Errorf("acquire txn commit: %w", err)
	}
	if !resp.Succeeded {
		// unused lease would otherwise linger until its ttl
		_, _ = s.client.Revoke(ctx, grant.ID)
		return false, nil
	}

	s.mu.Lock()
	s.leaseID = grant.ID
	s.mu.Unlock()
	return true, nil
}

func (s *EtcdLeaderLock) Holder(ctx context.Context, lockKey string) (string, error) {
	resp, err := s.client.Get(ctx, lockKey)
	if err != nil {
		return "", fmt.Errorf("etcd get: %w", err)
	}
	if len(resp.Kvs) == 0 {
		return "", entity.ErrNoLeader
	}
	return string(resp.Kvs[0].Value), nil
}

func (s *EtcdLeaderLock) Renew(ctx context.Context, lockKey, replicaID string, _ time.Duration) error {
	s.mu.Lock()
	leaseID := s.leaseID
	s.mu.Unlock()
	if leaseID == 0 {
		return fmt.Errorf("renew: no lease assigned: %w", entity.ErrNotLeader)
	}

	resp, err := s.client.Txn(ctx).
		If(clientv3.Compare(clientv3.Value(lockKey), "=", replicaID)).
		Then(clientv3.OpPut(lockKey, replicaID, clientv3.WithLease(leaseID))).
		Commit()
	if err != nil {
		return fmt.Errorf("renew txn commit: %w", err)
	}
	if !resp.Succeeded {
		return fmt.Errorf("renew %s: %w", replicaID, entity.ErrNotLeader)
	}

	kaResp, err := s.client.KeepAliveOnce(ctx, leaseID)
	if err != nil {
		return fmt.Errorf("keepalive lease %d: %w", leaseID, err)
	}
	if kaResp == nil {
		return fmt.Errorf("keepalive lease %d: empty response", leaseID)
	}
	return nil
}

func (s *EtcdLeaderLock) Release(ctx context.Context, lockKey, replicaID string) error {
	resp, err := s.client.Txn(ctx).
		If(clientv3.Compare(clientv3.Value(lockKey), "=", replicaID)).
		Then(clientv3.OpDelete(lockKey)).
		Commit()
	if err != nil {
		return fmt.Errorf("release txn commit: %w", err)
	}

	s.mu.Lock()
	leaseID := s.leaseID
	s.leaseID = 0
	s.mu.Unlock()
	if leaseID != 0 {
		if _, err := s.client.Revoke(ctx, leaseID); err != nil {
			return fmt.Errorf("revoke lease %d: %w", leaseID, err)
		}
	}

	if !resp.Succeeded {
		return fmt.Errorf("release %s (key=%s): %w", replicaID, lockKey, entity.ErrNotLeader)
	}
	return nil
}

// etcd leases have whole-second ttls and a one second minimum.
func leaseSeconds(d time.Duration) int64 {
	sec := int64(d / time.Second)
	if sec < 1 {
		return 1
	}
	return sec
}
