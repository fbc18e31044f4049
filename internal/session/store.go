package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vancomm/minefield/internal/mines"
)

var ErrNotFound = errors.New("game session not found")

// Store keeps sessions in memory. Nothing survives a process restart.
type Store struct {
	logger   *slog.Logger
	idle     time.Duration
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewStore(logger *slog.Logger, idle time.Duration) *Store {
	return &Store{
		logger:   logger,
		idle:     idle,
		sessions: make(map[uuid.UUID]*Session),
		now:      time.Now,
	}
}

func (s *Store) Create(field *mines.MineField) *Session {
	now := s.now()
	session := &Session{
		ID:        uuid.New(),
		field:     field,
		startedAt: now.UTC(),
		lastUsed:  now,
		now:       func() time.Time { return s.now() },
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

// Lookup parses a textual session id; malformed ids are reported as
// [ErrNotFound].
func (s *Store) Lookup(id string) (*Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.Get(parsed)
}

func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions that have not been used for longer than the idle
// timeout and returns how many were dropped.
func (s *Store) Sweep() int {
	deadline := s.now().Add(-s.idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, session := range s.sessions {
		if session.idleSince().Before(deadline) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps on every tick until ctx is done.
func (s *Store) Run(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info(
					"evicted idle sessions",
					slog.Int("evicted", n),
					slog.Int("remaining", s.Len()),
				)
			}
		}
	}
}
