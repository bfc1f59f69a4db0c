package geocode

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"go-monsoon/metrics"
	"go-monsoon/types"
)

// Cache wraps a Geocoder and memoizes lookups for a while. Clean misses are
// cached too, so a retyped unknown place does not hammer the backend.
// Errors are never cached.
type Cache struct {
	backend Geocoder
	store   *gocache.Cache
}

type forwardEntry struct {
	result ForwardResult
	ok     bool
}

type reverseEntry struct {
	label string
	ok    bool
}

// WithCache wraps backend with a 10 minute lookup cache.
func WithCache(backend Geocoder) *Cache {
	return &Cache{
		backend: backend,
		store:   gocache.New(10*time.Minute, 20*time.Minute),
	}
}

func (c *Cache) Forward(ctx context.Context, place string) (ForwardResult, bool, error) {
	key := "f:" + strings.ToLower(strings.TrimSpace(place))
	if v, hit := c.store.Get(key); hit {
		metrics.ObserveGeocode("cache", "forward", "hit")
		e := v.(forwardEntry)
		return e.result, e.ok, nil
	}

	result, ok, err := c.backend.Forward(ctx, place)
	if err != nil {
		return ForwardResult{}, false, err
	}
	c.store.SetDefault(key, forwardEntry{result: result, ok: ok})
	return result, ok, nil
}

func (c *Cache) Reverse(ctx context.Context, coord types.Coordinate) (string, bool, error) {
	// Rounded to ~11 m so nearby fixes share an entry.
	key := fmt.Sprintf("r:%.4f,%.4f", coord.Lat, coord.Lon)
	if v, hit := c.store.Get(key); hit {
		metrics.ObserveGeocode("cache", "reverse", "hit")
		e := v.(reverseEntry)
		return e.label, e.ok, nil
	}

	label, ok, err := c.backend.Reverse(ctx, coord)
	if err != nil {
		return "", false, err
	}
	c.store.SetDefault(key, reverseEntry{label: label, ok: ok})
	return label, ok, nil
}
