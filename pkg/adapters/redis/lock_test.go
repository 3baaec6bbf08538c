package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/midiroute/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_ClaimRelease(t *testing.T) {
	mr, client := newTestClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	release, err := locker.Claim(ctx, "studio", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:studio"))

	_, err = redis.NewLocker(client, "test:").Claim(ctx, "studio", 5*time.Second)
	assert.ErrorIs(t, err, redis.ErrClaimHeld)

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx), "release is idempotent")
	assert.False(t, mr.Exists("test:lock:studio"))

	again, err := locker.Claim(ctx, "studio", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocker_KeepsClaimAlive(t *testing.T) {
	mr, client := newTestClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release, err := locker.Claim(ctx, "studio", 300*time.Millisecond)
	require.NoError(t, err)
	defer release(context.Background())

	mr.FastForward(200 * time.Millisecond)
	require.True(t, mr.Exists("test:lock:studio"))

	assert.Eventually(t, func() bool {
		return mr.TTL("test:lock:studio") > 200*time.Millisecond
	}, time.Second, 10*time.Millisecond, "refresh extends the claim")
}

func TestLocker_ReleaseDoesNotDropForeignClaim(t *testing.T) {
	mr, client := newTestClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	release, err := locker.Claim(ctx, "studio", time.Second)
	require.NoError(t, err)

	// The claim expired and someone else took it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("test:lock:studio", "other"))

	require.NoError(t, release(ctx))
	got, err := mr.Get("test:lock:studio")
	require.NoError(t, err)
	assert.Equal(t, "other", got)
}
