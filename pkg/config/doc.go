// Package config parses environment variables into tagged structs with
// github.com/caarlos0/env/v11 and reads .env files with
// github.com/joho/godotenv.
//
// Every tickstate config struct (the CLI's Config, redis.Config) is loaded
// the same way:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
// The first Load reads ./.env when it exists. Each struct type is parsed once
// and cached by type; Reload parses one type again and Reset drops the whole
// cache. LoadEnv reads explicit env files, overriding the process
// environment, which is what the CLI's --env-file flag does before loading
// its Config.
//
// Errors can be matched with errors.Is: ErrParsingConfig, ErrInvalidConfigType,
// ErrNilPointer and ErrLoadingEnvFile.
package config
