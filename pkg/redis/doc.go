// Package redis connects to Redis and stores state machine snapshots in it.
//
// Connect retries the initial ping according to Config. Store implements
// snapshot.Store with one JSON value per machine plus a sorted-set index, and
// its Healthcheck method doubles as a probe for the introspection server. The
// index lives under the prefix too, so the snapshot name "_index" is reserved
// and Save rejects it with ErrReservedName.
//
// Configuration is usually parsed from the environment with
// github.com/caarlos0/env:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := redis.NewStore(client,
//	    redis.WithPrefix(cfg.KeyPrefix),
//	    redis.WithTTL(cfg.SnapshotTTL),
//	)
package redis
