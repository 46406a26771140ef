package selector

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointsgate/internal/rulecheck"
	"pointsgate/pkg/testutil"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	verdict := rulecheck.Result{
		RulesMatch:          false,
		PreferDeterministic: false,
		ChangesDetected:     []string{"sibling: known=15, official=25"},
		CheckedAt:           time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Put(ctx, verdict))

	got, ok, err := store.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, verdict.ChangesDetected, got.ChangesDetected)
	assert.False(t, got.RulesMatch)
	assert.True(t, verdict.CheckedAt.Equal(got.CheckedAt))
}

func TestRedisStore_Clear(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, rulecheck.Result{RulesMatch: true, CheckedAt: time.Now()}))
	require.NoError(t, store.Clear(ctx))

	_, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_VerdictExpires(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	testutil.Given(t, "a stored verdict", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, rulecheck.Result{RulesMatch: true, CheckedAt: time.Now()}))

		testutil.When(t, "the Redis TTL elapses", func(t *testing.T) {
			mr.FastForward(2 * time.Hour)

			testutil.Then(t, "the verdict is gone", func(t *testing.T) {
				_, ok, err := store.Get(ctx)
				require.NoError(t, err)
				assert.False(t, ok)
			})
		})
	})
}
