package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

// ReplicaLeaderService elects the single replica that refreshes the privacy
// config and keeps renewing its lease until shutdown or loss.
type ReplicaLeaderService struct {
	lock   repository.LeaderLockRepository
	logger *zap.Logger

	lockKey   string
	replicaID string // host:port
	lease     time.Duration

	iAmLeader atomic.Bool

	mu           sync.Mutex
	cancelKeeper context.CancelFunc
	closed       bool
}

func NewReplicaLeaderService(
	lock repository.LeaderLockRepository,
	lockKey,
	replicaID string,
	lease time.Duration,
	logger *zap.Logger) *ReplicaLeaderService {

	return &ReplicaLeaderService{
		lock:      lock,
		logger:    logger.Named("ReplicaLeader").With(zap.String("replica", replicaID)),
		lockKey:   lockKey,
		replicaID: replicaID,
		lease:     lease,
	}
}

func (s *ReplicaLeaderService) RunLeaderElection(ctx context.Context) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil
	}

	ok, err := s.lock.TryAcquire(ctx, s.lockKey, s.replicaID, s.lease)
	if err != nil {
		s.iAmLeader.Store(false)
		return fmt.Errorf("try acquire leader: %w", err)
	}
	if !ok {
		s.iAmLeader.Store(false)
		s.logger.Debug("not leader")
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.release()
		return nil
	}
	if s.cancelKeeper != nil {
		s.cancelKeeper()
	}
	keeperCtx, cancel := context.WithCancel(context.Background())
	s.cancelKeeper = cancel
	s.iAmLeader.Store(true)
	s.mu.Unlock()

	s.logger.Info("got leadership")
	go s.keepLeadership(keeperCtx)
	return nil
}

// Run campaigns for leadership every half lease while this replica is not
// the leader, so a replica takes over after the leader leaves or loses its
// lease. It returns when ctx is done.
func (s *ReplicaLeaderService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.lease / 2)
	defer ticker.Stop()
	for {
		if !s.AmILeader() {
			if err := s.RunLeaderElection(ctx); err != nil {
				s.logger.Warn("leader election", zap.Error(err))
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *ReplicaLeaderService) keepLeadership(ctx context.Context) {
	ticker := time.NewTicker(s.lease / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.lock.Renew(ctx, s.lockKey, s.replicaID, s.lease); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("lost leadership", zap.Error(err))
				s.iAmLeader.Store(false)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// WhoLeader returns the current lock holder, running an election when the
// lock is free.
func (s *ReplicaLeaderService) WhoLeader(ctx context.Context) (string, error) {
	holder, err := s.lock.Holder(ctx, s.lockKey)
	if err == nil {
		return holder, nil
	}
	if !errors.Is(err, entity.ErrNoLeader) {
		return "", fmt.Errorf("get leader: %w", err)
	}
	if err := s.RunLeaderElection(ctx); err != nil {
		return "", fmt.Errorf("run election: %w", err)
	}
	if s.AmILeader() {
		return s.replicaID, nil
	}
	// another replica won the race
	return s.lock.Holder(ctx, s.lockKey)
}

func (s *ReplicaLeaderService) AmILeader() bool {
	return s.iAmLeader.Load()
}

// GracefulShutdown stops renewing, releases the lock when held and keeps
// this replica out of later elections.
func (s *ReplicaLeaderService) GracefulShutdown() {
	s.mu.Lock()
	s.closed = true
	if s.cancelKeeper != nil {
		s.cancelKeeper()
		s.cancelKeeper = nil
	}
	s.mu.Unlock()

	if !s.iAmLeader.Swap(false) {
		return
	}
	s.release()
}

func (s *ReplicaLeaderService) release() {
	releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.lock.Release(releaseCtx, s.lockKey, s.replicaID); err != nil {
		s.logger.Error("release leader", zap.Error(err))
	}
}
