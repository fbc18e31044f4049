package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/minefield/internal/mines"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newField(t *testing.T, dim, n int) *mines.MineField {
	t.Helper()
	f, err := mines.New(
		mines.GameParams{DimSize: dim, NumMines: n},
		rand.New(rand.NewPCG(1, 2)),
	)
	require.NoError(t, err)
	return f
}

func TestStoreCreateAndLookup(t *testing.T) {
	s := NewStore(discard, time.Minute)
	field := newField(t, 5, 3)

	session := s.Create(field)
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	got, err = s.Lookup(session.ID.String())
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = s.Lookup("not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	s.Delete(session.ID)
	_, err = s.Get(session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionDo(t *testing.T) {
	s := NewStore(discard, time.Minute)
	session := s.Create(newField(t, 5, 0))

	err := session.Do(func(st *State) error {
		assert.Equal(t, session.ID, st.ID)
		assert.False(t, st.Ended())
		_, err := st.Field.Dig(0, 0)
		return err
	})
	require.NoError(t, err)

	errBoom := errors.New("boom")
	err = session.Do(func(st *State) error {
		assert.Equal(t, 25, st.Field.RevealedCount())
		st.End(time.Now())
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_ = session.Do(func(st *State) error {
		require.True(t, st.Ended())
		ended := *st.EndedAt
		st.End(ended.Add(time.Hour))
		assert.Equal(t, ended, *st.EndedAt, "end time must not move")
		return nil
	})
}

func TestSessionRestart(t *testing.T) {
	s := NewStore(discard, time.Minute)
	old := newField(t, 5, 3)
	session := s.Create(old)

	fresh := newField(t, 6, 4)
	_ = session.Do(func(st *State) error {
		st.End(time.Now())
		st.Restart(fresh, time.Now())
		return nil
	})
	_ = session.Do(func(st *State) error {
		assert.Same(t, fresh, st.Field)
		assert.False(t, st.Ended())
		return nil
	})
}

func TestSessionDoSerializes(t *testing.T) {
	s := NewStore(discard, time.Minute)
	session := s.Create(newField(t, 20, 0))

	var wg sync.WaitGroup
	for row := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = session.Do(func(st *State) error {
				_, err := st.Field.Dig(row, row)
				return err
			})
		}()
	}
	wg.Wait()

	_ = session.Do(func(st *State) error {
		assert.Equal(t, 400, st.Field.RevealedCount())
		return nil
	})
}

func TestStoreSweep(t *testing.T) {
	s := NewStore(discard, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	stale := s.Create(newField(t, 5, 1))
	fresh := s.Create(newField(t, 5, 1))

	now = now.Add(50 * time.Second)
	_ = fresh.Do(func(*State) error { return nil })

	now = now.Add(20 * time.Second)
	assert.Equal(t, 1, s.Sweep())

	_, err := s.Get(stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestStoreRunStopsWithContext(t *testing.T) {
	s := NewStore(discard, time.Nanosecond)
	s.Create(newField(t, 5, 1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
