package searcherator

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached search stays fresh. Search results
// age slowly; a week matches how the library is typically used (repeated
// research runs over the same terms).
const DefaultCacheTTL = 7 * 24 * time.Hour

// Cache stores successful search documents keyed by Query.CacheKey.
// Implementations must be safe for concurrent use. Only successes are
// ever stored; failed searches are never cached.
type Cache interface {
	Get(key string) (Document, bool)
	Set(key string, doc Document, ttl time.Duration)
	Delete(key string)
	Clear()
}

type InMemoryCache struct {
	shards    []*cacheShard
	numShards int
}

type cacheShard struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
}

type cacheEntry struct {
	doc       Document
	expiresAt time.Time
}

func NewInMemoryCache() *InMemoryCache {
	numShards := 16
	shards := make([]*cacheShard, numShards)
	for i := range shards {
		shards[i] = &cacheShard{
			store: make(map[string]*cacheEntry),
		}
	}
	return &InMemoryCache{
		shards:    shards,
		numShards: numShards,
	}
}

func (c *InMemoryCache) getShard(key string) *cacheShard {
	hash := fnv.New32a()
	hash.Write([]byte(key))
	return c.shards[hash.Sum32()%uint32(c.numShards)]
}

func (c *InMemoryCache) Get(key string) (Document, bool) {
	shard := c.getShard(key)
	shard.mu.RLock()
	entry, exists := shard.store[key]
	shard.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		shard.mu.Lock()
		// Re-check: a writer may have replaced the entry meanwhile.
		if current, ok := shard.store[key]; ok && current == entry {
			delete(shard.store, key)
		}
		shard.mu.Unlock()
		return nil, false
	}

	return entry.doc, true
}

func (c *InMemoryCache) Set(key string, doc Document, ttl time.Duration) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	shard.store[key] = &cacheEntry{
		doc:       doc,
		expiresAt: time.Now().Add(ttl),
	}
}

func (c *InMemoryCache) Delete(key string) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.store, key)
}

func (c *InMemoryCache) Clear() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.store = make(map[string]*cacheEntry)
		shard.mu.Unlock()
	}
}

// Len reports the number of live entries, expired ones included until
// they are lazily evicted.
func (c *InMemoryCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.store)
		shard.mu.RUnlock()
	}
	return total
}

// Context keys for per-call cache control
type contextKey string

const (
	CacheControlKey contextKey = "searcherator_cache_control"
)

// CacheControl adjusts how a single Search uses the cache. Refresh skips
// the read but still stores the fresh result (the way to force a re-fetch
// of a stale-looking entry). Disabled skips both sides.
type CacheControl struct {
	Disabled bool
	Refresh  bool
	TTL      time.Duration
}

// WithContextCacheDisabled disables cache read and write for calls made
// with the returned context.
func WithContextCacheDisabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, CacheControlKey, &CacheControl{Disabled: true})
}

// WithContextRefresh forces a fresh fetch for calls made with the returned
// context; the result still lands in the cache on success.
func WithContextRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, CacheControlKey, &CacheControl{Refresh: true})
}

// WithContextCacheTTL overrides the client cache TTL for calls made with
// the returned context.
func WithContextCacheTTL(ctx context.Context, ttl time.Duration) context.Context {
	return context.WithValue(ctx, CacheControlKey, &CacheControl{TTL: ttl})
}

func cacheControlFromContext(ctx context.Context) *CacheControl {
	if cc, ok := ctx.Value(CacheControlKey).(*CacheControl); ok {
		return cc
	}
	return nil
}
