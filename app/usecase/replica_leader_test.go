package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

func TestRunLeaderElectionAcquiresFreeLock(t *testing.T) {
	lock := &fakeLeaderLock{}
	s := NewReplicaLeaderService(lock, "leader", "replica-a:1234", time.Minute, zap.NewNop())
	t.Cleanup(s.GracefulShutdown)

	require.NoError(t, s.RunLeaderElection(context.Background()))

	assert.True(t, s.AmILeader())
	assert.Equal(t, "replica-a:1234", lock.holder)
}

func TestRunLeaderElectionLosesToHolder(t *testing.T) {
	lock := &fakeLeaderLock{holder: "replica-b:1234"}
	s := NewReplicaLeaderService(lock, "leader", "replica-a:1234", time.Minute, zap.NewNop())

	require.NoError(t, s.RunLeaderElection(context.Background()))

	assert.False(t, s.AmILeader())
	leader, err := s.WhoLeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "replica-b:1234", leader)
}

func TestWhoLeaderElectsWhenLockIsFree(t *testing.T) {
	lock := &fakeLeaderLock{}
	s := NewReplicaLeaderService(lock, "leader", "replica-a:1234", time.Minute, zap.NewNop())
	t.Cleanup(s.GracefulShutdown)

	leader, err := s.WhoLeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "replica-a:1234", leader)
	assert.True(t, s.AmILeader())
}

func TestGracefulShutdownReleasesLock(t *testing.T) {
	lock := &fakeLeaderLock{}
	s := NewReplicaLeaderService(lock, "leader", "replica-a:1234", time.Minute, zap.NewNop())
	require.NoError(t, s.RunLeaderElection(context.Background()))

	s.GracefulShutdown()

	assert.False(t, s.AmILeader())
	assert.Equal(t, 1, lock.released)
	_, err := lock.Holder(context.Background(), "leader")
	assert.ErrorIs(t, err, entity.ErrNoLeader)
}

func TestKeeperDropsLeadershipWhenRenewFails(t *testing.T) {
	lock := &fakeLeaderLock{}
	s := NewReplicaLeaderService(lock, "leader", "replica-a:1234", 20*time.Millisecond, zap.NewNop())
	t.Cleanup(s.GracefulShutdown)
	require.NoError(t, s.RunLeaderElection(context.Background()))

	lock.mu.Lock()
	lock.holder = "replica-b:1234"
	lock.mu.Unlock()

	assert.Eventually(t, func() bool { return !s.AmILeader() }, time.Second, 5*time.Millisecond)
}

func TestRunTakesOverAfterLeaderShutdown(t *testing.T) {
	lock := &fakeLeaderLock{}
	a := NewReplicaLeaderService(lock, "leader", "replica-a:1234", 20*time.Millisecond, zap.NewNop())
	b := NewReplicaLeaderService(lock, "leader", "replica-b:1234", 20*time.Millisecond, zap.NewNop())
	t.Cleanup(b.GracefulShutdown)
	require.NoError(t, a.RunLeaderElection(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	assert.Never(t, b.AmILeader, 50*time.Millisecond, 5*time.Millisecond)
	a.GracefulShutdown()

	assert.Eventually(t, b.AmILeader, time.Second, 5*time.Millisecond)
	holder, err := lock.Holder(context.Background(), "leader")
	require.NoError(t, err)
	assert.Equal(t, "replica-b:1234", holder)
}

func TestRunRecoversLeadershipLostOnRenew(t *testing.T) {
	lock := &fakeLeaderLock{}
	s := NewReplicaLeaderService(lock, "leader", "replica-a:1234", 20*time.Millisecond, zap.NewNop())
	require.NoError(t, s.RunLeaderElection(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		s.GracefulShutdown()
	})

	lock.mu.Lock()
	lock.holder = "replica-b:1234"
	lock.mu.Unlock()
	assert.Eventually(t, func() bool { return !s.AmILeader() }, time.Second, 2*time.Millisecond)

	lock.mu.Lock()
	lock.holder = ""
	lock.mu.Unlock()
	assert.Eventually(t, s.AmILeader, time.Second, 5*time.Millisecond)
}

func TestElectionAfterShutdownDoesNotAcquire(t *testing.T) {
	lock := &fakeLeaderLock{}
	s := NewReplicaLeaderService(lock, "leader", "replica-a:1234", time.Minute, zap.NewNop())
	s.GracefulShutdown()

	require.NoError(t, s.RunLeaderElection(context.Background()))

	assert.False(t, s.AmILeader())
	_, err := lock.Holder(context.Background(), "leader")
	assert.ErrorIs(t, err, entity.ErrNoLeader)
}
