// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/apexhub/core/config"
//
//	type SchedulerConfig struct {
//		TickInterval time.Duration `env:"SCHEDULER_TICK" envDefault:"10s"`
//		JobTimeout   time.Duration `env:"SCHEDULER_JOB_TIMEOUT" envDefault:"0"`
//	}
//
//	func main() {
//		var cfg SchedulerConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime;
// subsequent Load calls for the same type return the cached value. Different
// types are cached independently.
package config
