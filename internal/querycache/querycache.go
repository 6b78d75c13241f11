// Package querycache provides a keyed, client-style query cache.
//
// Values can be read, written, invalidated (kept as a stale fallback and
// refetched on the next read), removed, and loaded through a fetcher whose
// in-flight call is shared between readers and can be cancelled. A fetch
// result is only stored when nothing touched the key while it was running,
// so a slow background refetch never overwrites a newer write.
//
// Stored values are treated as immutable; callers must not modify a value
// after handing it to the cache or after reading it back.
package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/storefront-cart/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// ErrFetchCancelled is returned to readers of a fetch that was cancelled
// while no value was cached for its key. Refresh wraps it in a *StaleError
// when a write superseded the load.
var ErrFetchCancelled = errors.New("querycache: fetch cancelled")

// StaleError is returned by Fetch together with the cached value when a
// refetch failed and a previous value could be served instead.
type StaleError struct {
	Err error
}

func (e *StaleError) Error() string {
	return "querycache: serving stale value: " + e.Err.Error()
}

func (e *StaleError) Unwrap() error {
	return e.Err
}

// Fetcher loads the canonical value for a key.
type Fetcher[V any] func(ctx context.Context) (V, error)

// MutateFunc receives the current value (and whether one exists) and
// returns the value to write and whether to write it.
type MutateFunc[V any] func(current V, exists bool) (next V, write bool)

// Config holds query cache configuration.
type Config struct {
	// Capacity is the maximum number of entries; the least recently used entry is evicted beyond it.
	Capacity int
	// TTL is how long an entry is kept after its last write.
	TTL time.Duration
	// StaleTime is how long a written value counts as fresh. Zero disables time-based staleness.
	StaleTime time.Duration
	// CleanupInterval is how often expired entries are swept.
	CleanupInterval time.Duration
	// FetchTimeout bounds a shared load, which outlives the callers waiting on it.
	FetchTimeout time.Duration
}

// DefaultConfig returns the default query cache configuration.
func DefaultConfig() Config {
	return Config{
		Capacity:        10000,
		TTL:             30 * time.Minute,
		StaleTime:       30 * time.Second,
		CleanupInterval: time.Minute,
		FetchTimeout:    10 * time.Second,
	}
}

// Stats provides cache performance counters.
type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	StaleReads    int64 `json:"stale_reads"`
	Evictions     int64 `json:"evictions"`
	Cancellations int64 `json:"cancellations"`
	Size          int   `json:"size"`
	Capacity      int   `json:"capacity"`
}

type entry[V any] struct {
	key       string
	value     V
	writtenAt time.Time
	stale     bool
	// fetched is set when the value was stored by a load rather than written.
	fetched bool
	prev    *entry[V]
	next    *entry[V]
}

// loaded is the result of a shared load.
type loaded[V any] struct {
	value V
	// fetched reports whether value came from a fetcher, not from a write.
	fetched bool
}

// flight tracks the fetch currently running for a key.
type flight struct {
	cancel    context.CancelFunc
	discarded bool
}

// Cache is a keyed query cache with LRU eviction and TTL expiration.
type Cache[V any] struct {
	mu       sync.Mutex
	cfg      Config
	items    map[string]*entry[V]
	head     *entry[V]
	tail     *entry[V]
	inflight map[string]*flight
	group    singleflight.Group
	clock    func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once

	hits          int64
	misses        int64
	staleReads    int64
	evictions     int64
	cancellations int64
}

// New creates a query cache and starts its background cleanup.
func New[V any](cfg Config) *Cache[V] {
	return newWithClock[V](cfg, time.Now)
}

func newWithClock[V any](cfg Config, clock func() time.Time) *Cache[V] {
	defaults := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = defaults.Capacity
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaults.CleanupInterval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaults.FetchTimeout
	}

	c := &Cache[V]{
		cfg:      cfg,
		items:    make(map[string]*entry[V]),
		inflight: make(map[string]*flight),
		clock:    clock,
		stopCh:   make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Stop shuts down the background cleanup. It is safe to call more than once.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// Peek returns the current value for key, fresh or stale.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookupLocked(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set writes a fresh value for key and discards any in-flight fetch.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(key)
	c.setLocked(key, value)
}

// Invalidate marks the value for key as stale so the next Fetch reloads it.
// The value stays readable as a fallback.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(key)
	if e, ok := c.items[key]; ok {
		e.stale = true
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

// Remove drops the entry for key entirely.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(key)
	if e, ok := c.items[key]; ok {
		c.removeEntry(e)
		metrics.RecordCacheOperation("remove", "success")
	}
}

// Cancel cancels the in-flight fetch for key. Its result will not be stored.
func (c *Cache[V]) Cancel(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(key)
}

// Mutate atomically cancels the in-flight fetch for key, reads the current
// value and writes the value returned by fn when it asks for a write.
// It returns the value that was current before fn ran.
func (c *Cache[V]) Mutate(key string, fn MutateFunc[V]) (previous V, existed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked(key)
	if e, ok := c.lookupLocked(key); ok {
		previous, existed = e.value, true
	}

	if next, write := fn(previous, existed); write {
		c.setLocked(key, next)
	}
	return previous, existed
}

// Fetch returns the fresh value for key, loading it with fetch when the
// entry is missing or stale. Concurrent readers share one fetch.
//
// When the load fails and a previous value exists, that value is returned
// with a *StaleError. Without a previous value the load error is returned.
func (c *Cache[V]) Fetch(ctx context.Context, key string, fetch Fetcher[V]) (V, error) {
	c.mu.Lock()
	if e, ok := c.lookupLocked(key); ok && c.freshLocked(e) {
		value := e.value
		c.mu.Unlock()
		atomic.AddInt64(&c.hits, 1)
		metrics.RecordCacheOperation("get", "hit")
		return value, nil
	}
	c.mu.Unlock()

	atomic.AddInt64(&c.misses, 1)
	metrics.RecordCacheOperation("get", "miss")

	res, err := c.shared(ctx, key, fetch)
	if err != nil {
		return c.fallback(key, err)
	}
	return res.value, nil
}

// Refresh loads key regardless of freshness. A nil error guarantees the
// returned value came from a fetcher. When a write superseded the load, the
// cached value is returned with a *StaleError wrapping ErrFetchCancelled;
// other failures behave as in Fetch.
func (c *Cache[V]) Refresh(ctx context.Context, key string, fetch Fetcher[V]) (V, error) {
	res, err := c.shared(ctx, key, fetch)
	if err != nil {
		return c.fallback(key, err)
	}
	if !res.fetched {
		atomic.AddInt64(&c.staleReads, 1)
		metrics.RecordCacheOperation("get", "stale")
		return res.value, &StaleError{Err: ErrFetchCancelled}
	}
	return res.value, nil
}

// shared runs or joins the load for key and waits for it or for ctx.
func (c *Cache[V]) shared(ctx context.Context, key string, fetch Fetcher[V]) (loaded[V], error) {
	// The load outlives the first caller so joined readers are not cut off
	// when that caller goes away. FetchTimeout bounds it instead.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(loadCtx, c.cfg.FetchTimeout)
		defer cancel()
		return c.load(lctx, key, fetch)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return loaded[V]{}, res.Err
		}
		value, _ := res.Val.(loaded[V])
		return value, nil
	case <-ctx.Done():
		return loaded[V]{}, ctx.Err()
	}
}

// load runs fetch for key and stores the result unless the flight was
// discarded while it ran.
func (c *Cache[V]) load(ctx context.Context, key string, fetch Fetcher[V]) (loaded[V], error) {
	c.mu.Lock()
	// A write may have landed between the freshness check and this flight starting.
	if e, ok := c.lookupLocked(key); ok && c.freshLocked(e) {
		res := loaded[V]{value: e.value, fetched: e.fetched}
		c.mu.Unlock()
		return res, nil
	}
	fctx, cancel := context.WithCancel(ctx)
	f := &flight{cancel: cancel}
	c.inflight[key] = f
	c.mu.Unlock()

	defer cancel()
	value, err := fetch(fctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[key] == f {
		delete(c.inflight, key)
	}

	if f.discarded {
		metrics.RecordCacheOperation("fetch", "discarded")
		if e, ok := c.lookupLocked(key); ok {
			return loaded[V]{value: e.value, fetched: e.fetched}, nil
		}
		return loaded[V]{}, ErrFetchCancelled
	}
	if err != nil {
		metrics.RecordCacheOperation("fetch", "error")
		return loaded[V]{}, err
	}

	c.setLocked(key, value)
	if e, ok := c.items[key]; ok {
		e.fetched = true
	}
	metrics.RecordCacheOperation("fetch", "success")
	return loaded[V]{value: value, fetched: true}, nil
}

// fallback serves the cached value, if any, after a failed load.
func (c *Cache[V]) fallback(key string, err error) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.lookupLocked(key); ok {
		atomic.AddInt64(&c.staleReads, 1)
		metrics.RecordCacheOperation("get", "stale")
		return e.value, &StaleError{Err: err}
	}
	var zero V
	return zero, err
}

// Stats returns current cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	size := len(c.items)
	c.mu.Unlock()

	return Stats{
		Hits:          atomic.LoadInt64(&c.hits),
		Misses:        atomic.LoadInt64(&c.misses),
		StaleReads:    atomic.LoadInt64(&c.staleReads),
		Evictions:     atomic.LoadInt64(&c.evictions),
		Cancellations: atomic.LoadInt64(&c.cancellations),
		Size:          size,
		Capacity:      c.cfg.Capacity,
	}
}

// cancelLocked discards the in-flight fetch for key, if any.
func (c *Cache[V]) cancelLocked(key string) {
	f, ok := c.inflight[key]
	if !ok {
		return
	}
	f.discarded = true
	f.cancel()
	delete(c.inflight, key)
	c.group.Forget(key)
	atomic.AddInt64(&c.cancellations, 1)
	metrics.RecordCacheOperation("cancel", "success")
}

// lookupLocked returns the live entry for key, dropping it when expired.
func (c *Cache[V]) lookupLocked(key string) (*entry[V], bool) {
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.clock().Sub(e.writtenAt) > c.cfg.TTL {
		c.removeEntry(e)
		metrics.RecordCacheOperation("evict", "expired")
		return nil, false
	}
	c.moveToFront(e)
	return e, true
}

func (c *Cache[V]) freshLocked(e *entry[V]) bool {
	if e.stale {
		return false
	}
	return c.cfg.StaleTime <= 0 || c.clock().Sub(e.writtenAt) < c.cfg.StaleTime
}

func (c *Cache[V]) setLocked(key string, value V) {
	if e, ok := c.items[key]; ok {
		e.value = value
		e.writtenAt = c.clock()
		e.stale = false
		e.fetched = false
		c.moveToFront(e)
		metrics.RecordCacheOperation("set", "success")
		return
	}

	e := &entry[V]{key: key, value: value, writtenAt: c.clock()}
	c.items[key] = e
	c.addToFront(e)

	if len(c.items) > c.cfg.Capacity {
		c.removeTail()
		atomic.AddInt64(&c.evictions, 1)
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("set", "success")
	metrics.UpdateCacheMetrics(len(c.items), c.cfg.Capacity)
}

// startCleanup periodically sweeps expired entries.
func (c *Cache[V]) startCleanup() {
	ticker := time.NewTicker(c.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

// cleanup removes all expired entries.
func (c *Cache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	for _, e := range c.items {
		if now.Sub(e.writtenAt) > c.cfg.TTL {
			c.removeEntry(e)
		}
	}
	metrics.UpdateCacheMetrics(len(c.items), c.cfg.Capacity)
}

func (c *Cache[V]) removeEntry(e *entry[V]) {
	delete(c.items, e.key)
	c.unlink(e)
}

func (c *Cache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *Cache[V]) addToFront(e *entry[V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache[V]) unlink(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

// removeTail evicts the least recently used entry, cancelling its fetch.
func (c *Cache[V]) removeTail() {
	if c.tail == nil {
		return
	}
	key := c.tail.key
	c.cancelLocked(key)
	c.removeEntry(c.tail)
}
