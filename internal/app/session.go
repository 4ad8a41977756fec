package app

import (
	"sync"

	"github.com/google/uuid"

	"cineplan/internal/domain"
	"cineplan/internal/geo"
)

// Session holds one planning session's working set: the plan groups in
// discovery order, at most one per normalized location label. Group
// mutation is not concurrency-safe on its own, so every operation on a
// session runs under its mutex; the store hands out the same *Session for a
// given ID and callers are expected to be a single cooperative owner.
type Session struct {
	ID string

	mu     sync.Mutex
	groups []domain.PlanGroup
}

func newSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// findGroup returns the index of the group matching label by normalized
// equality, or -1. Callers hold the lock.
func (s *Session) findGroup(label string) int {
	want := geo.Normalize(label)
	for i := range s.groups {
		if geo.Normalize(s.groups[i].Location) == want {
			return i
		}
	}
	return -1
}

// Snapshot returns a deep copy of the plan groups, safe to hand out after
// the lock is released.
func (s *Session) Snapshot() []domain.PlanGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() []domain.PlanGroup {
	out := make([]domain.PlanGroup, len(s.groups))
	for i, g := range s.groups {
		cp := g
		cp.Rooms = make([]domain.SelectedRoom, len(g.Rooms))
		copy(cp.Rooms, g.Rooms)
		out[i] = cp
	}
	return out
}

// SessionStore is the in-memory session registry. Sessions live for as long
// as the process; teardown is simply dropping them.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*Session{}}
}

func (st *SessionStore) Create() *Session {
	s := newSession()
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
