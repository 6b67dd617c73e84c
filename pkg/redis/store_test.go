package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tickstate/pkg/redis"
	"github.com/dmitrymomot/tickstate/pkg/snapshot"
	"github.com/dmitrymomot/tickstate/pkg/snapshot/snapshottest"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_Contract(t *testing.T) {
	t.Parallel()
	_, client := newClient(t)
	snapshottest.RunStoreContract(t, redis.NewStore(client))
}

func TestStore_Prefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, client := newClient(t)

	store := redis.NewStore(client, redis.WithPrefix("game:"))
	require.NoError(t, store.Save(ctx, snapshot.Snapshot{Name: "hero", State: "idle"}))

	assert.True(t, mr.Exists("game:hero"))
	assert.False(t, mr.Exists(redis.DefaultKeyPrefix+"hero"))
}

func TestStore_EmptyName(t *testing.T) {
	t.Parallel()
	_, client := newClient(t)

	err := redis.NewStore(client).Save(context.Background(), snapshot.Snapshot{})
	assert.ErrorIs(t, err, snapshot.ErrEmptyName)
}

func TestStore_TTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, client := newClient(t)

	store := redis.NewStore(client, redis.WithTTL(time.Minute))
	require.NoError(t, store.Save(ctx, snapshot.Snapshot{Name: "hero", State: "idle"}))
	assert.Equal(t, time.Minute, mr.TTL(redis.DefaultKeyPrefix+"hero"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "hero")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestStore_CorruptValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mr, client := newClient(t)

	require.NoError(t, mr.Set(redis.DefaultKeyPrefix+"hero", "{not json"))

	_, err := redis.NewStore(client).Load(ctx, "hero")
	assert.ErrorIs(t, err, redis.ErrCorruptSnapshot)
}

func TestStore_ReservedIndexName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, client := newClient(t)

	store := redis.NewStore(client)
	require.NoError(t, store.Save(ctx, snapshot.Snapshot{Name: "door", State: "closed"}))

	err := store.Save(ctx, snapshot.Snapshot{Name: "_index", State: "open"})
	assert.ErrorIs(t, err, redis.ErrReservedName)

	_, err = store.Load(ctx, "_index")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
	require.NoError(t, store.Delete(ctx, "_index"))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"door"}, names)
	assert.NoError(t, store.Healthcheck(ctx))
}
