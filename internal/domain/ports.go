package domain

import (
	"context"

	"cineplan/internal/geo"
)

// Geocoder resolves a free-form place label to a coordinate.
// Implementations return ErrGeoNotFound or ErrGeoUnavailable; nothing else
// crosses this boundary as an error.
type Geocoder interface {
	Resolve(ctx context.Context, label string) (geo.Coordinate, error)
}

// Cache is a small JSON-value cache (backed by redis in production).
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// IntentParser turns free text into the raw JSON the engine's decoders
// tolerate. It is an external collaborator (a language model); callers must
// survive any shape of output it produces.
type IntentParser interface {
	ParseIntents(ctx context.Context, query string) (string, error)
	ParseRefinement(ctx context.Context, query string) (string, error)
}
