package nominatim

import (
	"context"

	"cineplan/internal/domain"
	"cineplan/internal/geo"
)

// CachedGeocoder wraps a Geocoder with a cache keyed by the raw label, so
// distinct raw spellings of the same place never share an entry and each
// still resolves independently on a miss. Failures are never cached.
type CachedGeocoder struct {
	next   domain.Geocoder
	cache  domain.Cache
	ttlSec int
}

func NewCached(next domain.Geocoder, cache domain.Cache, ttlSec int) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, ttlSec: ttlSec}
}

func (g *CachedGeocoder) Resolve(ctx context.Context, label string) (geo.Coordinate, error) {
	key := "geocode:" + label
	var coord geo.Coordinate
	if ok, _ := g.cache.Get(ctx, key, &coord); ok {
		return coord, nil
	}
	coord, err := g.next.Resolve(ctx, label)
	if err != nil {
		return geo.Coordinate{}, err
	}
	_ = g.cache.Set(ctx, key, coord, g.ttlSec)
	return coord, nil
}
