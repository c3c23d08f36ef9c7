package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
)

func newLockFactoryForTest(t *testing.T) (*miniredis.Miniredis, *Client, *LockFactory) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	log := logging.NewNopLogger()
	client, err := NewClient(&RedisConfig{Addr: mr.Addr()}, log)
	require.NoError(t, err)

	return mr, client, NewLockFactory(client, log)
}

func TestMutex_LockAndUnlock(t *testing.T) {
	mr, client, factory := newLockFactoryForTest(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	mu := factory.NewMutex("case:100")

	require.NoError(t, mu.Lock(ctx))
	assert.True(t, mr.Exists("tbk:lock:case:100"))
	require.NoError(t, mu.Unlock(ctx))
	assert.False(t, mr.Exists("tbk:lock:case:100"))
}

func TestMutex_TryLockContention(t *testing.T) {
	mr, client, factory := newLockFactoryForTest(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	first := factory.NewMutex("case:100")
	second := factory.NewMutex("case:100")

	ok, err := first.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Unlock(ctx))
	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMutex_UnlockByNonOwnerFails(t *testing.T) {
	mr, client, factory := newLockFactoryForTest(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	owner := factory.NewMutex("case:100")
	other := factory.NewMutex("case:100")

	require.NoError(t, owner.Lock(ctx))
	assert.ErrorIs(t, other.Unlock(ctx), ErrLockNotHeld)

	// Owner can still release.
	assert.NoError(t, owner.Unlock(ctx))
}

func TestMutex_LockGivesUpAfterRetries(t *testing.T) {
	mr, client, factory := newLockFactoryForTest(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	holder := factory.NewMutex("case:100")
	require.NoError(t, holder.Lock(ctx))

	contender := factory.NewMutex("case:100",
		WithRetryCount(2), WithRetryDelay(time.Millisecond))
	assert.ErrorIs(t, contender.Lock(ctx), ErrLockNotAcquired)
}

func TestCaseLocker_AcquireAndRelease(t *testing.T) {
	mr, client, factory := newLockFactoryForTest(t)
	defer mr.Close()
	defer client.Close()

	locker := NewCaseLocker(factory, logging.NewNopLogger())

	release, err := locker.AcquireCase(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, mr.Exists("tbk:lock:case:100"))

	release()
	assert.False(t, mr.Exists("tbk:lock:case:100"))
}

//Personal.AI order the ending
