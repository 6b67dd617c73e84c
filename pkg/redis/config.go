package redis

import "time"

// Config describes how to reach the Redis server that stores machine snapshots.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // redis://:password@host:port/db
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"tickstate:snapshot:"`
	SnapshotTTL    time.Duration `env:"REDIS_SNAPSHOT_TTL" envDefault:"0s"` // zero keeps snapshots forever
}
