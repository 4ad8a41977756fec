package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"cineplan/internal/adapters/observability"
	"cineplan/internal/catalog"
	"cineplan/internal/domain"
)

// Selector ranks and picks venues around a resolved location.
type Selector struct {
	geocoder domain.Geocoder
	cat      *catalog.Catalog
}

func NewSelector(g domain.Geocoder, c *catalog.Catalog) *Selector {
	return &Selector{geocoder: g, cat: c}
}

// Selection conditions, reported rather than raised.
const (
	CondOK             = ""
	CondGeoNotFound    = "geo_not_found"
	CondGeoUnavailable = "geo_unavailable"
	CondNoEligible     = "no_eligible"
	CondPartial        = "partial"
)

// SelectReport is the outcome of one selection. An empty Rooms slice is a
// valid result; Condition says why it is short when it is.
type SelectReport struct {
	Rooms     []domain.SelectedRoom
	Requested int
	Shortfall int
	Condition string
}

// Select resolves location, queries the catalog within radiusKm, orders the
// eligible rooms by ascending distance with descending capacity breaking
// ties, and truncates to roomCount. Geocoding failures and empty pools come
// back as reported conditions, never as errors. audience is informational
// only; it does not constrain which rooms are chosen.
func (s *Selector) Select(ctx context.Context, location string, audience, roomCount int, radiusKm float64) SelectReport {
	rep := SelectReport{Requested: roomCount}

	coord, err := s.geocoder.Resolve(ctx, location)
	if err != nil {
		rep.Shortfall = roomCount
		if errors.Is(err, domain.ErrGeoNotFound) {
			rep.Condition = CondGeoNotFound
		} else {
			rep.Condition = CondGeoUnavailable
		}
		observability.ObserveShortfall(rep.Condition)
		log.Warn().Str("location", location).Err(err).Msg("geocoding failed, empty selection")
		return rep
	}

	hits := s.cat.WithinRadius(coord, radiusKm)
	if len(hits) == 0 {
		rep.Shortfall = roomCount
		rep.Condition = CondNoEligible
		observability.ObserveShortfall(rep.Condition)
		log.Warn().
			Str("location", location).
			Float64("radius_km", radiusKm).
			Msg("no eligible venue in radius")
		return rep
	}

	// Proximity first; among equidistant rooms the larger wins.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].DistanceKm != hits[j].DistanceKm {
			return hits[i].DistanceKm < hits[j].DistanceKm
		}
		return hits[i].Room.Capacity > hits[j].Room.Capacity
	})

	if len(hits) > roomCount {
		hits = hits[:roomCount]
	} else if len(hits) < roomCount {
		rep.Shortfall = roomCount - len(hits)
		rep.Condition = CondPartial
		observability.ObserveShortfall(rep.Condition)
		log.Warn().
			Str("location", location).
			Int("found", len(hits)).
			Int("requested", roomCount).
			Msg("partial fulfillment")
	}

	log.Debug().
		Str("location", location).
		Int("audience", audience).
		Int("rooms", len(hits)).
		Msg("selection done")

	rep.Rooms = make([]domain.SelectedRoom, 0, len(hits))
	for _, h := range hits {
		rep.Rooms = append(rep.Rooms, domain.SelectedRoom{
			Venue:          h.Venue.Name,
			Room:           h.Room.Name,
			Address:        h.Venue.Address,
			Coord:          h.Venue.Coord,
			Capacity:       h.Room.Capacity,
			DistanceKm:     h.DistanceKm,
			Contact:        h.Venue.Contact,
			SourceLocation: location,
		})
	}
	return rep
}

// dedupKey identifies a selected room across selector calls: venue, room and
// address joined case-insensitively.
func dedupKey(r domain.SelectedRoom) string {
	return strings.ToLower(fmt.Sprintf("%s_%s_%s", r.Venue, r.Room, r.Address))
}
