package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vancomm/minefield/internal/mines"
)

// Session is one player's game. Restarting replaces the field but keeps the
// id, so the player's cookie stays valid.
type Session struct {
	ID uuid.UUID

	mu        sync.Mutex
	field     *mines.MineField
	startedAt time.Time
	endedAt   *time.Time
	lastUsed  time.Time
	now       func() time.Time
}

// State is a consistent snapshot of a session taken under its lock.
type State struct {
	ID        uuid.UUID
	Field     *mines.MineField
	StartedAt time.Time
	EndedAt   *time.Time
}

func (s *Session) snapshot() State {
	return State{
		ID:        s.ID,
		Field:     s.field,
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
	}
}

// Do runs fn with exclusive access to the session. Engine calls on a field
// must go through Do.
func (s *Session) Do(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.snapshot()
	err := fn(&st)
	s.field = st.Field
	s.startedAt = st.StartedAt
	s.endedAt = st.EndedAt
	s.lastUsed = s.now()
	return err
}

func (st *State) End(at time.Time) {
	if st.EndedAt == nil {
		at = at.UTC()
		st.EndedAt = &at
	}
}

func (st *State) Restart(field *mines.MineField, at time.Time) {
	st.Field = field
	st.StartedAt = at.UTC()
	st.EndedAt = nil
}

func (st *State) Ended() bool {
	return st.EndedAt != nil
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
