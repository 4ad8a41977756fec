package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"cineplan/internal/domain"
)

// Refinement defaults: additions over-fetch around a wider radius than the
// initial search so there is something left after deduplication.
const (
	refineRadiusKm  = 100.0
	refineAudience  = 1000
	overFetchFactor = 2
)

// Refiner applies structured refinement instructions to a session. Every
// instruction degrades to a reported no-op rather than an error, and each
// affected group is rewritten as a whole (never left half-mutated).
type Refiner struct {
	sel *Selector
}

func NewRefiner(sel *Selector) *Refiner {
	return &Refiner{sel: sel}
}

// Outcome reports what one instruction did.
type Outcome struct {
	Action       string             `json:"action"`
	Applied      bool               `json:"applied"`
	RoomsAdded   int                `json:"salles_ajoutees,omitempty"`
	RoomsRemoved int                `json:"salles_supprimees,omitempty"`
	Message      string             `json:"message,omitempty"`
	Groups       []domain.PlanGroup `json:"groupes"`
}

// Apply dispatches one instruction against the session.
func (r *Refiner) Apply(ctx context.Context, s *Session, ins domain.Instruction) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out Outcome
	switch ins.Action {
	case domain.ActionAdd:
		out = r.applyAdd(ctx, s, ins)
	case domain.ActionRemove:
		out = r.applyRemove(s, ins)
	case domain.ActionModify:
		// Declared by the instruction schema but unsupported: no behavior is
		// inferred for it.
		out = Outcome{Action: domain.ActionUnrecognized, Message: "modification d'un critère non supportée"}
	case domain.ActionUnrecognized:
		out = Outcome{Action: domain.ActionUnrecognized, Message: ins.Message}
	default:
		out = Outcome{Action: domain.ActionUnrecognized, Message: "action inconnue: " + ins.Action}
	}
	out.Groups = s.snapshotLocked()
	return out
}

func (r *Refiner) applyAdd(ctx context.Context, s *Session, ins domain.Instruction) Outcome {
	out := Outcome{Action: domain.ActionAdd}
	if ins.Location == "" {
		out.Message = "localisation manquante pour l'ajout"
		return out
	}
	if ins.Count <= 0 {
		out.Message = "le nombre de salles à ajouter doit être positif"
		return out
	}

	if i := s.findGroup(ins.Location); i >= 0 {
		// Over-fetch so deduplication against the current selection still
		// leaves candidates.
		rep := r.sel.Select(ctx, ins.Location, refineAudience, ins.Count*overFetchFactor, refineRadiusKm)
		added := appendUnique(&s.groups[i], rep.Rooms, ins.Count)
		s.groups[i].RequestedRooms += added
		out.RoomsAdded = added
		out.Applied = added > 0
		if added == 0 {
			out.Message = fmt.Sprintf("aucune nouvelle salle trouvée pour %s", ins.Location)
		}
		log.Info().Str("location", ins.Location).Int("added", added).Msg("refine: add to existing group")
		return out
	}

	rep := r.sel.Select(ctx, ins.Location, refineAudience, ins.Count, refineRadiusKm)
	if len(rep.Rooms) == 0 {
		out.Message = fmt.Sprintf("aucune salle trouvée pour %s", ins.Location)
		return out
	}
	s.groups = append(s.groups, domain.PlanGroup{
		Location:       ins.Location,
		RequestedRooms: len(rep.Rooms),
		Rooms:          rep.Rooms,
	})
	out.RoomsAdded = len(rep.Rooms)
	out.Applied = true
	log.Info().Str("location", ins.Location).Int("added", len(rep.Rooms)).Msg("refine: new group")
	return out
}

func (r *Refiner) applyRemove(s *Session, ins domain.Instruction) Outcome {
	out := Outcome{Action: domain.ActionRemove}

	// Location-only mode: empty the selection of every group whose raw label
	// matches case-insensitively. The requested count stays as a record of
	// what was asked.
	if ins.Location != "" && ins.Criterion == "" {
		removed := 0
		for i := range s.groups {
			if strings.EqualFold(s.groups[i].Location, ins.Location) {
				removed += len(s.groups[i].Rooms)
				s.groups[i].Rooms = []domain.SelectedRoom{}
			}
		}
		out.RoomsRemoved = removed
		out.Applied = removed > 0
		if removed == 0 {
			out.Message = fmt.Sprintf("aucune salle à supprimer pour %s", ins.Location)
		}
		return out
	}

	// Criterion mode applies across every group in the session.
	if ins.Criterion == "" || ins.Value == nil {
		out.Message = "critère ou valeur manquant pour la suppression"
		return out
	}
	keep, ok := keepPredicate(ins.Criterion, ins.Operator, *ins.Value)
	if !ok {
		out.Message = "critère non reconnu: " + ins.Criterion
		return out
	}

	removed := 0
	for i := range s.groups {
		// whole new slice, then swap: no partially-filtered group survives
		kept := make([]domain.SelectedRoom, 0, len(s.groups[i].Rooms))
		for _, room := range s.groups[i].Rooms {
			if keep(room) {
				kept = append(kept, room)
			}
		}
		removed += len(s.groups[i].Rooms) - len(kept)
		s.groups[i].Rooms = kept
	}
	out.RoomsRemoved = removed
	out.Applied = removed > 0
	if removed == 0 {
		out.Message = "aucune salle ne correspondait au critère"
	}
	log.Info().
		Str("criterion", ins.Criterion).
		Str("operator", ins.Operator).
		Float64("value", *ins.Value).
		Int("removed", removed).
		Msg("refine: criterion removal")
	return out
}

// keepPredicate encodes the asymmetric "minimum"/"maximum" framing of the
// removal criteria. The operator says which side gets deleted, so the kept
// side flips per criterion: capacite_min+inferieur deletes rooms below the
// minimum (keep capacity >= value), while capacite_max+inferieur deletes
// rooms above the maximum (keep capacity <= value).
func keepPredicate(criterion, operator string, value float64) (func(domain.SelectedRoom) bool, bool) {
	field := func(r domain.SelectedRoom) float64 { return float64(r.Capacity) }
	switch criterion {
	case domain.CriterionCapacityMin:
		switch operator {
		case domain.OpLess:
			return func(r domain.SelectedRoom) bool { return field(r) >= value }, true
		case domain.OpGreater:
			return func(r domain.SelectedRoom) bool { return field(r) <= value }, true
		default: // egal
			return func(r domain.SelectedRoom) bool { return field(r) == value }, true
		}
	case domain.CriterionCapacityMax:
		switch operator {
		case domain.OpLess:
			return func(r domain.SelectedRoom) bool { return field(r) <= value }, true
		case domain.OpGreater:
			return func(r domain.SelectedRoom) bool { return field(r) >= value }, true
		default:
			return func(r domain.SelectedRoom) bool { return field(r) == value }, true
		}
	case domain.CriterionDistanceMax:
		field = func(r domain.SelectedRoom) float64 { return r.DistanceKm }
		switch operator {
		case domain.OpLess:
			return func(r domain.SelectedRoom) bool { return field(r) <= value }, true
		case domain.OpGreater:
			return func(r domain.SelectedRoom) bool { return field(r) >= value }, true
		default:
			return func(r domain.SelectedRoom) bool { return field(r) == value }, true
		}
	}
	return nil, false
}
