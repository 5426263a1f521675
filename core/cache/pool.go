package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Pool is a single named cache: a bounded map with TTL expiry and LRU
// eviction. Pools are created through Pools.Register and share nothing with
// each other beyond the parent container.
type Pool struct {
	mu      sync.Mutex
	name    string
	maxSize int
	ttl     time.Duration
	entries map[string]*list.Element
	order   *list.List // front = most recently touched
	now     func() time.Time
}

type entry struct {
	key      string
	value    any
	storedAt time.Time
}

func newPool(name string, maxSize int, ttl time.Duration, now func() time.Time) *Pool {
	return &Pool{
		name:    name,
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*list.Element, maxSize),
		order:   list.New(),
		now:     now,
	}
}

// Name returns the pool name.
func (p *Pool) Name() string { return p.name }

// Get returns the cached value for key. It misses on unknown, expired, or
// evicted keys. A hit counts as a recency touch for LRU ordering.
func (p *Pool) Get(key string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, ok := p.entries[key]
	if !ok {
		return nil, false
	}

	e := el.Value.(*entry)
	if p.expired(e) {
		p.remove(el)
		return nil, false
	}

	p.order.MoveToFront(el)
	return e.value, true
}

// Set stores value under key. An existing entry is refreshed: its value is
// replaced, its age resets to zero, and it becomes the most recently used.
// When the pool is at capacity, the least recently used entry is evicted
// before inserting.
func (p *Pool) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()

	if el, ok := p.entries[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.storedAt = now
		p.order.MoveToFront(el)
		return
	}

	if p.order.Len() >= p.maxSize {
		if oldest := p.order.Back(); oldest != nil {
			p.remove(oldest)
		}
	}

	p.entries[key] = p.order.PushFront(&entry{key: key, value: value, storedAt: now})
}

// Delete removes key from the pool. Unknown keys are a no-op.
func (p *Pool) Delete(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if el, ok := p.entries[key]; ok {
		p.remove(el)
	}
}

// InvalidatePrefix removes every key starting with prefix.
func (p *Pool) InvalidatePrefix(prefix string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, el := range p.entries {
		if strings.HasPrefix(key, prefix) {
			p.remove(el)
		}
	}
}

// InvalidateAll removes every entry from the pool.
func (p *Pool) InvalidateAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = make(map[string]*list.Element, p.maxSize)
	p.order.Init()
}

// Len returns the current number of entries, including any that have expired
// but have not yet been dropped on access.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.order.Len()
}

func (p *Pool) expired(e *entry) bool {
	return p.now().Sub(e.storedAt) >= p.ttl
}

// remove must be called with p.mu held.
func (p *Pool) remove(el *list.Element) {
	e := el.Value.(*entry)
	delete(p.entries, e.key)
	p.order.Remove(el)
}
