package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestRedisLeaderLock(t *testing.T) {
	client, mr := newTestClient(t)
	lock := NewRedisLeaderLock(client)
	ctx := context.Background()

	_, err := lock.Holder(ctx, "leader")
	assert.ErrorIs(t, err, entity.ErrNoLeader)

	ok, err := lock.TryAcquire(ctx, "leader", "a:1234", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.TryAcquire(ctx, "leader", "b:1234", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	holder, err := lock.Holder(ctx, "leader")
	require.NoError(t, err)
	assert.Equal(t, "a:1234", holder)

	require.NoError(t, lock.Renew(ctx, "leader", "a:1234", 30*time.Second))
	assert.Equal(t, 30*time.Second, mr.TTL("leader"))
	assert.ErrorIs(t, lock.Renew(ctx, "leader", "b:1234", 30*time.Second), entity.ErrNotLeader)

	require.NoError(t, lock.Release(ctx, "leader", "b:1234"))
	assert.True(t, mr.Exists("leader"))
	require.NoError(t, lock.Release(ctx, "leader", "a:1234"))
	assert.False(t, mr.Exists("leader"))
}

func TestRedisLeaderLockExpires(t *testing.T) {
	client, mr := newTestClient(t)
	lock := NewRedisLeaderLock(client)
	ctx := context.Background()

	_, err := lock.TryAcquire(ctx, "leader", "a:1234", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	assert.ErrorIs(t, lock.Renew(ctx, "leader", "a:1234", time.Second), entity.ErrNotLeader)
	ok, err := lock.TryAcquire(ctx, "leader", "b:1234", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisEmailInContextDataStore(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewRedisEmailInContextDataStore(client)
	ctx := context.Background()

	chosen, err := store.HasUserChosenNeverAskAgain(ctx)
	require.NoError(t, err)
	assert.False(t, chosen)

	require.NoError(t, store.OnUserChoseNeverAskAgain(ctx))

	chosen, err = store.HasUserChosenNeverAskAgain(ctx)
	require.NoError(t, err)
	assert.True(t, chosen)
}

func TestRedisCohortStore(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewRedisCohortStore(client)
	ctx := context.Background()

	date, err := store.CohortDate(ctx)
	require.NoError(t, err)
	assert.Nil(t, date)

	require.NoError(t, store.SetCohortDate(ctx, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	mr.CheckGet(t, "netp:cohort", "2023-01-01")

	date, err = store.CohortDate(ctx)
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.True(t, date.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRedisVPNFeaturesRegistry(t *testing.T) {
	client, _ := newTestClient(t)
	registry := NewRedisVPNFeaturesRegistry(client)
	ctx := context.Background()

	ok, err := registry.IsFeatureRegistered(ctx, entity.FeatureNetPVpn)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, registry.RegisterFeature(ctx, entity.FeatureNetPVpn))
	ok, err = registry.IsFeatureRegistered(ctx, entity.FeatureNetPVpn)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, registry.UnregisterFeature(ctx, entity.FeatureNetPVpn))
	ok, err = registry.IsFeatureRegistered(ctx, entity.FeatureNetPVpn)
	require.NoError(t, err)
	assert.False(t, ok)
}
