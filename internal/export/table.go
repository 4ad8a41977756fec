// Package export renders a plan for humans and spreadsheets: a text table
// per zone, or one flat CSV with a zone column.
package export

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"cineplan/internal/domain"
)

func contactLine(c domain.Contact) string {
	var parts []string
	for _, p := range []string{c.Name, c.Email, c.Phone} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

// Table renders one table per zone, headed by the found/requested tally.
// Zones whose selection is empty still appear, with a placeholder line.
func Table(groups []domain.PlanGroup) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Zone : %s (%d/%d salles trouvées)\n", g.Location, len(g.Rooms), g.RequestedRooms)
		if len(g.Rooms) == 0 {
			b.WriteString("  aucune salle sélectionnée\n")
			continue
		}
		w := table.NewWriter()
		w.AppendHeader(table.Row{"Cinéma", "Salle", "Adresse", "Capacité", "Distance (km)", "Contact"})
		for _, r := range g.Rooms {
			w.AppendRow(table.Row{r.Venue, r.Room, r.Address, r.Capacity, r.DistanceKm, contactLine(r.Contact)})
		}
		b.WriteString(w.Render())
		b.WriteString("\n")
	}
	return b.String()
}

// CSV renders every zone into one flat sheet.
func CSV(groups []domain.PlanGroup) string {
	w := table.NewWriter()
	w.AppendHeader(table.Row{"Zone", "Cinéma", "Salle", "Adresse", "Capacité", "Distance (km)", "Contact", "Latitude", "Longitude"})
	for _, g := range groups {
		for _, r := range g.Rooms {
			w.AppendRow(table.Row{
				g.Location, r.Venue, r.Room, r.Address, r.Capacity, r.DistanceKm,
				contactLine(r.Contact), r.Coord.Lat, r.Coord.Lon,
			})
		}
	}
	return w.RenderCSV()
}
