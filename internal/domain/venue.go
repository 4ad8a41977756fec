package domain

import "cineplan/internal/geo"

// Room is a single screening room inside a venue. Capacity is always
// positive; rooms that fail that check are dropped at catalog load.
type Room struct {
	Name     string
	Capacity int
}

// Contact is the venue contact info. Every field is optional.
type Contact struct {
	Name  string `json:"nom,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"telephone,omitempty"`
}

// Venue is a cinema with a fixed geocoded address. Venues missing
// coordinates never make it past catalog load.
type Venue struct {
	Name    string
	Address string
	Coord   geo.Coordinate
	Contact Contact
	Rooms   []Room
}

// SelectedRoom is a derived selection record: one room of one venue plus the
// rounded great-circle distance from the query point and the label of the
// query that produced it.
type SelectedRoom struct {
	Venue          string         `json:"cinema"`
	Room           string         `json:"salle"`
	Address        string         `json:"adresse"`
	Coord          geo.Coordinate `json:"coord"`
	Capacity       int            `json:"capacite"`
	DistanceKm     float64        `json:"distance_km"`
	Contact        Contact        `json:"contact"`
	SourceLocation string         `json:"source_localisation"`
}
