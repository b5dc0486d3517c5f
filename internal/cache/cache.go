// Package cache keeps recently built listing pages in memory.
package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// PageCache stores one value per page number of a listing. Invalidate drops
// every page at once by moving to a new key generation, so a write racing with
// an invalidation can only land under a generation nobody reads anymore.
type PageCache[V any] struct {
	name string
	ttl  time.Duration
	cost func(V) int64
	gen  atomic.Uint64
	c    *ristretto.Cache[string, V]
}

// New creates a cache for the listing called name. A zero ttl disables
// caching: Get always misses and Set does nothing.
func New[V any](name string, ttl time.Duration, maxCost int64, cost func(V) int64) (*PageCache[V], error) {
	if maxCost <= 0 {
		maxCost = 1 << 20
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: 10_000,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", name, err)
	}
	if cost == nil {
		cost = func(V) int64 { return 1 }
	}
	return &PageCache[V]{name: name, ttl: ttl, cost: cost, c: c}, nil
}

func (pc *PageCache[V]) key(page int) string {
	return fmt.Sprintf("%s@%d:page=%d", pc.name, pc.gen.Load(), page)
}

func (pc *PageCache[V]) Get(page int) (V, bool) {
	if pc.ttl <= 0 {
		var zero V
		return zero, false
	}
	return pc.c.Get(pc.key(page))
}

// Set stores v and waits until it is visible to Get.
func (pc *PageCache[V]) Set(page int, v V) {
	if pc.ttl <= 0 {
		return
	}
	pc.c.SetWithTTL(pc.key(page), v, pc.cost(v), pc.ttl)
	pc.c.Wait()
}

// Invalidate forgets every cached page.
func (pc *PageCache[V]) Invalidate() {
	pc.gen.Add(1)
}

func (pc *PageCache[V]) Close() {
	pc.c.Close()
}
