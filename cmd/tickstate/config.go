package main

import (
	"time"

	"github.com/dmitrymomot/tickstate/pkg/config"
	"github.com/dmitrymomot/tickstate/pkg/redis"
)

// Config is read from the environment (and .env) before flags are applied.
type Config struct {
	Env          string        `env:"TICKSTATE_ENV" envDefault:"development"`
	LogLevel     string        `env:"TICKSTATE_LOG_LEVEL"`
	LogFormat    string        `env:"TICKSTATE_LOG_FORMAT"`
	TickInterval time.Duration `env:"TICKSTATE_TICK_INTERVAL" envDefault:"16ms"`
	Ticks        uint64        `env:"TICKSTATE_TICKS" envDefault:"0"`
	Listen       string        `env:"TICKSTATE_LISTEN"`
	Redis        redis.Config
	RedisEnabled bool `env:"TICKSTATE_REDIS" envDefault:"false"`
}

// loadConfig reads envFiles, if any, and parses Config from the environment.
// It always parses again so every command invocation sees the current
// environment.
func loadConfig(envFiles []string) (Config, error) {
	if len(envFiles) > 0 {
		if err := config.LoadEnv(envFiles...); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := config.Reload(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
