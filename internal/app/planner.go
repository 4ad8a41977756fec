package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"cineplan/internal/domain"
)

// Planner turns parsed intents into plan groups on a session.
type Planner struct {
	sel *Selector
}

func NewPlanner(sel *Selector) *Planner {
	return &Planner{sel: sel}
}

// SearchResult summarizes one search pass for the caller: the plan after
// mutation plus the requested/found tallies and anything worth surfacing.
type SearchResult struct {
	Groups         []domain.PlanGroup `json:"groupes"`
	TotalRequested int                `json:"salles_demandees"`
	TotalFound     int                `json:"salles_trouvees"`
	Warnings       []string           `json:"warnings,omitempty"`
}

// SearchPlan runs every intent against the catalog and appends the outcome
// to the session. An intent without a room count asks for one room. A
// location already present in the session (by normalized label) is topped up
// in place rather than duplicated, keeping the one-group-per-label
// invariant. Groups are recorded even when nothing was found; an empty
// group is a result, not an absence.
func (p *Planner) SearchPlan(ctx context.Context, s *Session, intents []domain.Intent, radiusKm float64) SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res SearchResult
	for _, in := range intents {
		if in.Location == "" || in.Audience < 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("intent ignored (invalid): %+v", in))
			continue
		}
		roomCount := in.RoomCount
		if roomCount <= 0 {
			roomCount = 1
		}
		res.TotalRequested += roomCount

		rep := p.sel.Select(ctx, in.Location, in.Audience, roomCount, radiusKm)
		if rep.Condition != CondOK && rep.Condition != CondPartial {
			res.Warnings = append(res.Warnings, fmt.Sprintf("no room found for %q within %.0f km (%s)", in.Location, radiusKm, rep.Condition))
		} else if rep.Shortfall > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("only %d of %d room(s) found for %q", len(rep.Rooms), roomCount, in.Location))
		}

		if i := s.findGroup(in.Location); i >= 0 {
			added := appendUnique(&s.groups[i], rep.Rooms, len(rep.Rooms))
			s.groups[i].RequestedRooms += roomCount
			res.TotalFound += added
		} else {
			s.groups = append(s.groups, domain.PlanGroup{
				Location:       in.Location,
				RequestedRooms: roomCount,
				Rooms:          rep.Rooms,
			})
			res.TotalFound += len(rep.Rooms)
		}

		log.Info().
			Str("location", in.Location).
			Int("audience", in.Audience).
			Int("requested", roomCount).
			Int("found", len(rep.Rooms)).
			Msg("search zone done")
	}

	res.Groups = s.snapshotLocked()
	return res
}

// appendUnique appends up to limit candidates whose dedup key is not
// already present in the group, in candidate order. Returns the number
// appended.
func appendUnique(g *domain.PlanGroup, candidates []domain.SelectedRoom, limit int) int {
	seen := make(map[string]struct{}, len(g.Rooms))
	for _, r := range g.Rooms {
		seen[dedupKey(r)] = struct{}{}
	}
	added := 0
	for _, c := range candidates {
		if added >= limit {
			break
		}
		k := dedupKey(c)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		g.Rooms = append(g.Rooms, c)
		added++
	}
	return added
}
