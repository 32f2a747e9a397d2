package grid

import (
	"math"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mihai-snyk/moeadv/pkg/multiobjective/framework"
)

const (
	DefaultCacheExpiration = 30 * time.Minute
	cacheCleanupInterval   = 10 * time.Minute
)

// Cache memoizes grids by decision list, so states created for the same problem
// share one immutable Grid. It is safe for concurrent use.
type Cache struct {
	grids *gocache.Cache
}

// NewCache returns a cache whose entries expire after ttl. A non-positive ttl
// selects DefaultCacheExpiration.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}
	return &Cache{grids: gocache.New(ttl, cacheCleanupInterval)}
}

// Get returns the grid for decisions, building and storing it on a miss.
func (c *Cache) Get(decisions []framework.Decision) (*Grid, error) {
	key := cacheKey(decisions)
	if cached, found := c.grids.Get(key); found {
		return cached.(*Grid), nil
	}
	g, err := New(decisions)
	if err != nil {
		return nil, err
	}
	c.grids.SetDefault(key, g)
	return g, nil
}

// Len returns the number of cached grids, including expired ones not yet cleaned up.
func (c *Cache) Len() int { return c.grids.ItemCount() }

// Flush drops every cached grid.
func (c *Cache) Flush() { c.grids.Flush() }

// cacheKey encodes the exact bit patterns of every bound so that grids are only
// shared between bit-identical decision lists.
func cacheKey(decisions []framework.Decision) string {
	var b strings.Builder
	for _, d := range decisions {
		b.WriteString(strconv.Quote(d.Name))
		for _, v := range []float64{d.Lower, d.Upper, d.Delta} {
			b.WriteByte(':')
			b.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
		}
		b.WriteByte(';')
	}
	return b.String()
}
