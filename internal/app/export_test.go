package app

import "cineplan/internal/domain"

// Seed installs groups directly, bypassing the search path, for tests.
func (s *Session) Seed(groups []domain.PlanGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = make([]domain.PlanGroup, len(groups))
	for i, g := range groups {
		cp := g
		cp.Rooms = append([]domain.SelectedRoom(nil), g.Rooms...)
		s.groups[i] = cp
	}
}
