package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cineplan/internal/domain"
	"cineplan/internal/geo"
)

// rawVenue mirrors the pre-geocoded catalog file produced by cmd/geocoder.
type rawVenue struct {
	Name    string         `json:"cinema"`
	Address string         `json:"adresse"`
	Lat     *float64       `json:"lat"`
	Lon     *float64       `json:"lon"`
	Contact domain.Contact `json:"contact"`
	Rooms   []rawRoom      `json:"salles"`
}

type rawRoom struct {
	Name     string          `json:"salle"`
	Capacity json.RawMessage `json:"capacite"`
}

// Catalog is the immutable in-memory venue set. Safe for shared reads once
// loaded.
type Catalog struct {
	venues []domain.Venue
}

// Load decodes the catalog, dropping venues that lack either coordinate and
// rooms whose capacity is not coercible to a positive integer. It returns
// the number of venues ignored for missing coordinates.
func Load(r io.Reader) (*Catalog, int, error) {
	var raw []rawVenue
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{venues: make([]domain.Venue, 0, len(raw))}
	ignored := 0
	for _, rv := range raw {
		if rv.Lat == nil || rv.Lon == nil {
			ignored++
			continue
		}
		v := domain.Venue{
			Name:    rv.Name,
			Address: rv.Address,
			Coord:   geo.Coordinate{Lat: *rv.Lat, Lon: *rv.Lon},
			Contact: rv.Contact,
		}
		for _, rr := range rv.Rooms {
			capacity, ok := coerceCapacity(rr.Capacity)
			if !ok || capacity <= 0 {
				continue // per-room drop, silent
			}
			v.Rooms = append(v.Rooms, domain.Room{Name: rr.Name, Capacity: capacity})
		}
		c.venues = append(c.venues, v)
	}
	return c, ignored, nil
}

// coerceCapacity accepts numbers and numeric strings ("120", "120.0").
func coerceCapacity(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

// Len reports the number of venues that survived loading.
func (c *Catalog) Len() int { return len(c.venues) }

// Hit is one eligible (venue, room) pair from a radius query. DistanceKm is
// rounded to two decimals.
type Hit struct {
	Venue      domain.Venue
	Room       domain.Room
	DistanceKm float64
}

// WithinRadius returns, for every venue within radiusKm of center
// (boundary inclusive), its single best room: highest capacity, first
// occurrence winning ties. Venues without a valid room contribute nothing.
func (c *Catalog) WithinRadius(center geo.Coordinate, radiusKm float64) []Hit {
	var hits []Hit
	for _, v := range c.venues {
		d := geo.DistanceKm(center, v.Coord)
		if d > radiusKm {
			continue
		}
		best, ok := bestRoom(v.Rooms)
		if !ok {
			continue
		}
		hits = append(hits, Hit{Venue: v, Room: best, DistanceKm: geo.RoundKm(d)})
	}
	return hits
}

func bestRoom(rooms []domain.Room) (domain.Room, bool) {
	if len(rooms) == 0 {
		return domain.Room{}, false
	}
	best := rooms[0]
	for _, r := range rooms[1:] {
		if r.Capacity > best.Capacity { // strict: first occurrence wins ties
			best = r
		}
	}
	return best, true
}
