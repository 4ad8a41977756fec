package domain

import "errors"

var (
	// ErrGeoNotFound means the geocoding service answered but knows no such place.
	ErrGeoNotFound = errors.New("geo: location not found")
	// ErrGeoUnavailable covers timeouts and transport failures of the
	// geocoding service.
	ErrGeoUnavailable = errors.New("geo: service unavailable")
	// ErrSessionNotFound is returned by the session store for unknown IDs.
	ErrSessionNotFound = errors.New("session not found")
)
