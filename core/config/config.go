package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// cache maps a configuration struct type to its loaded value.
	cache sync.Map // reflect.Type -> any

	// dotenvOnce guards the one-time .env load. A missing .env file is not
	// an error; real environments configure through the process environment.
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg. The first successful load of a
// given struct type is cached; later calls return the cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil target")
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(*cfg)
	if v, ok := cache.Load(key); ok {
		*cfg = v.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}

	cache.Store(key, *cfg)
	return nil
}

// MustLoad is Load that panics on failure, for use during startup where a
// missing required variable should abort the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
