package cache

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// PoolConfig declares a pool for batch registration at startup.
type PoolConfig struct {
	Name    string
	MaxSize int
	TTL     time.Duration
}

// Pools is the process-wide set of named cache pools. It is constructed
// explicitly and injected into request handlers and background tasks; there
// is no package-level instance.
type Pools struct {
	mu     sync.RWMutex
	pools  map[string]*Pool
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Pools container.
type Option func(*Pools)

// WithClock injects the time source used for TTL checks. Defaults to
// time.Now; tests use a mock clock to advance entry age deterministically.
func WithClock(now func() time.Time) Option {
	return func(ps *Pools) {
		if now != nil {
			ps.now = now
		}
	}
}

// WithLogger sets the logger for pool lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(ps *Pools) {
		if logger != nil {
			ps.logger = logger
		}
	}
}

// New creates an empty Pools container.
func New(opts ...Option) *Pools {
	ps := &Pools{
		pools:  make(map[string]*Pool),
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}
	for _, opt := range opts {
		opt(ps)
	}
	return ps
}

// Register creates a pool. It fails with ErrDuplicatePool when the name is
// taken and ErrInvalidPoolConfig for non-positive size or TTL. Misconfigured
// pools must fail loudly here, at startup, not degrade at request time.
func (ps *Pools) Register(name string, maxSize int, ttl time.Duration) error {
	if name == "" || maxSize <= 0 || ttl <= 0 {
		return fmt.Errorf("%w: name=%q max_size=%d ttl=%s", ErrInvalidPoolConfig, name, maxSize, ttl)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.pools[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePool, name)
	}
	ps.pools[name] = newPool(name, maxSize, ttl, ps.now)

	ps.logger.Info("registered cache pool",
		slog.String("pool", name),
		slog.Int("max_size", maxSize),
		slog.Duration("ttl", ttl))

	return nil
}

// RegisterMany registers a batch of pool declarations, stopping at the first
// failure.
func (ps *Pools) RegisterMany(configs ...PoolConfig) error {
	for _, cfg := range configs {
		if err := ps.Register(cfg.Name, cfg.MaxSize, cfg.TTL); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value cached under key in the named pool. Unknown pools
// and unknown, expired, or evicted keys miss.
func (ps *Pools) Get(pool, key string) (any, bool) {
	p, ok := ps.pool(pool)
	if !ok {
		return nil, false
	}
	return p.Get(key)
}

// Set stores value under key in the named pool. Unknown pools are a no-op.
func (ps *Pools) Set(pool, key string, value any) {
	if p, ok := ps.pool(pool); ok {
		p.Set(key, value)
	}
}

// Delete removes key from the named pool. Unknown pools are a no-op.
func (ps *Pools) Delete(pool, key string) {
	if p, ok := ps.pool(pool); ok {
		p.Delete(key)
	}
}

// InvalidatePrefix removes every key in the named pool starting with prefix.
func (ps *Pools) InvalidatePrefix(pool, prefix string) {
	if p, ok := ps.pool(pool); ok {
		p.InvalidatePrefix(prefix)
	}
}

// InvalidateAll clears the named pool.
func (ps *Pools) InvalidateAll(pool string) {
	if p, ok := ps.pool(pool); ok {
		p.InvalidateAll()
	}
}

// InvalidateMulti removes keys starting with prefix across several pools.
// An empty prefix clears each pool entirely.
func (ps *Pools) InvalidateMulti(pools []string, prefix string) {
	for _, name := range pools {
		if prefix == "" {
			ps.InvalidateAll(name)
			continue
		}
		ps.InvalidatePrefix(name, prefix)
	}
}

// Pool returns the named pool for callers that want to hold a direct
// reference instead of paying the name lookup per operation.
func (ps *Pools) Pool(name string) (*Pool, bool) {
	return ps.pool(name)
}

func (ps *Pools) pool(name string) (*Pool, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	p, ok := ps.pools[name]
	return p, ok
}
