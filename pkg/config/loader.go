package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// registry holds one parsed value per config struct type.
type registry struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	loaded = &registry{values: make(map[reflect.Type]any)}

	dotenvOnce sync.Once
)

// Load fills v from the environment. The first call also reads ./.env if it
// exists. Each struct type is parsed once; later calls for the same type get
// the cached copy, even if the environment changed in between. A failed parse
// is not cached.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s", ErrInvalidConfigType, typ)
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	loaded.mu.Lock()
	defer loaded.mu.Unlock()

	if cached, ok := loaded.values[typ]; ok {
		*v = cached.(T)
		return nil
	}

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	loaded.values[typ] = cfg
	*v = cfg
	return nil
}

// MustLoad is like Load but panics on error. Meant for main packages.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Reload drops the cached value of T and parses the environment again.
func Reload[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loaded.mu.Lock()
	delete(loaded.values, reflect.TypeFor[T]())
	loaded.mu.Unlock()

	return Load(v)
}

// Reset drops every cached value.
func Reset() {
	loaded.mu.Lock()
	defer loaded.mu.Unlock()
	clear(loaded.values)
}

// LoadEnv reads the given env files into the process environment, or ./.env
// when no path is given. Values from the files override variables that are
// already set, and later files override earlier ones. Values already cached by
// Load are not affected; use Reload or Reset for that.
func LoadEnv(paths ...string) error {
	dotenvOnce.Do(func() {})

	var err error
	if len(paths) == 0 {
		err = godotenv.Overload()
	} else {
		err = godotenv.Overload(paths...)
	}
	if err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv is like LoadEnv but panics on error.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
