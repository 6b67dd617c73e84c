package redis_test

import (
	"context"
	"fmt"

	"github.com/alicebob/miniredis/v2"

	"github.com/dmitrymomot/tickstate/pkg/config"
	"github.com/dmitrymomot/tickstate/pkg/redis"
	"github.com/dmitrymomot/tickstate/pkg/snapshot"
)

func ExampleNewStore() {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	defer mr.Close()

	var cfg redis.Config
	config.MustLoad(&cfg)
	cfg.ConnectionURL = "redis://" + mr.Addr() + "/0"

	ctx := context.Background()
	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer client.Close()

	store := redis.NewStore(client,
		redis.WithPrefix(cfg.KeyPrefix),
		redis.WithTTL(cfg.SnapshotTTL),
	)
	if err := store.Save(ctx, snapshot.Snapshot{Name: "door", State: "open"}); err != nil {
		panic(err)
	}

	snap, err := store.Load(ctx, "door")
	if err != nil {
		panic(err)
	}
	fmt.Println(snap.Name, snap.State)
	// Output: door open
}
