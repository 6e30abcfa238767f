// Package imagecache holds uploaded images for a short window so a later
// product-match call can run visual comparison against the original photo.
// Entries are small and short-lived; a single lock over a plain map is
// enough.
package imagecache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/google/uuid"
)

var (
	// ErrCapacityExceeded means the cache is full of unexpired entries.
	// Callers should treat this as "visual comparison unavailable", not a
	// hard failure.
	ErrCapacityExceeded = errors.New("imagecache: capacity exceeded")

	// ErrNotFound covers both unknown and expired session ids.
	ErrNotFound = errors.New("imagecache: not found or expired")
)

const (
	DefaultTTL           = 600 * time.Second
	DefaultMaxEntries    = 100
	DefaultSweepInterval = 60 * time.Second
)

type entry struct {
	data     []byte
	storedAt time.Time
}

// Cache is a time-boxed, capacity-bounded store of raw image bytes keyed by
// session id. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	sweepEvery time.Duration

	log  *logger.Logger
	stop chan struct{}
	once sync.Once

	now func() time.Time
}

// Option overrides a cache default.
type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func WithMaxEntries(n int) Option {
	return func(c *Cache) { c.maxEntries = n }
}

func WithSweepInterval(d time.Duration) Option {
	return func(c *Cache) { c.sweepEvery = d }
}

// withClock is used by tests to control expiry.
func withClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		sweepEvery: DefaultSweepInterval,
		log:        logger.MustNamed("imagecache"),
		stop:       make(chan struct{}),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store saves image bytes and returns a fresh session id. Expired entries
// are purged first; if the cache is still full, ErrCapacityExceeded is
// returned without evicting live entries.
func (c *Cache) Store(data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictExpiredLocked()
	if len(c.entries) >= c.maxEntries {
		return "", ErrCapacityExceeded
	}

	sessionID := uuid.NewString()
	c.entries[sessionID] = entry{data: data, storedAt: c.now()}
	return sessionID, nil
}

// Get returns the bytes stored under sessionID. An expired entry is deleted
// on access and reported as not found; it never resurrects.
func (c *Cache) Get(sessionID string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, sessionID)
		return nil, ErrNotFound
	}
	return e.data, nil
}

// Len reports the number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Run sweeps expired entries periodically until Close is called, so memory
// does not grow unbounded between accesses.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			removed := c.evictExpiredLocked()
			remaining := len(c.entries)
			c.mu.Unlock()
			if removed > 0 {
				c.log.Debugw("swept expired images", "removed", removed, "remaining", remaining)
			}
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the periodic sweep.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) evictExpiredLocked() int {
	now := c.now()
	removed := 0
	for id, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}
