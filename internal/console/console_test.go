package console

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/mines"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func setup(t *testing.T, params mines.GameParams) (*Game, *bytes.Buffer, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	Log = logger

	var out bytes.Buffer
	g, err := New(params, newRand, &out)
	require.NoError(t, err)
	return g, &out, hook
}

// findCell returns the first cell matching pred in row-major order.
func findCell(t *testing.T, f *mines.MineField, pred func(mines.Cell) bool) mines.Coord {
	t.Helper()
	for row := range f.DimSize() {
		for col := range f.DimSize() {
			c, err := f.Cell(row, col)
			require.NoError(t, err)
			if pred(c) {
				return mines.Coord{Row: row, Col: col}
			}
		}
	}
	t.Fatal("no matching cell")
	return mines.Coord{}
}

func TestNewInvalid(t *testing.T) {
	_, err := New(mines.GameParams{DimSize: 2, NumMines: 4}, newRand, &bytes.Buffer{})
	assert.ErrorIs(t, err, mines.ErrInvalidConfiguration)
}

func TestHandleDig(t *testing.T) {
	g, out, hook := setup(t, mines.GameParams{DimSize: 3, NumMines: 0})

	quit, err := g.Handle(" 1, 1 ")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, "0 0 0\n0 0 0\n0 0 0\n", out.String())
	assert.Equal(t, 9, g.Field().RevealedCount())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "dug", entry.Message)
	assert.Equal(t, 9, entry.Data["revealed"])
}

func TestHandleBadInput(t *testing.T) {
	tests := []struct {
		name, line, want string
	}{
		{"format", "a,b", msgBadFormat},
		{"missing comma", "1 1", msgBadFormat},
		{"row out of bounds", "3,0", msgBadLocation},
		{"negative", "0,-1", msgBadLocation},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g, out, _ := setup(t, mines.GameParams{DimSize: 3, NumMines: 1})

			quit, err := g.Handle(test.line)
			require.NoError(t, err)
			assert.False(t, quit)
			assert.Equal(t, test.want+"\n", out.String())
			assert.Zero(t, g.Field().RevealedCount())
			assert.False(t, g.Over())
		})
	}
}

func TestHandleExplosionAndRestart(t *testing.T) {
	g, out, _ := setup(t, mines.GameParams{DimSize: 3, NumMines: 2})

	mine := findCell(t, g.Field(), mines.Cell.IsMine)
	_, err := g.Handle(mine.String())
	require.NoError(t, err)
	assert.True(t, g.Over())
	assert.Contains(t, out.String(), msgGameOver)
	assert.Contains(t, out.String(), g.Field().Solution().String())

	out.Reset()
	_, err = g.Handle("0,0")
	require.NoError(t, err)
	assert.Equal(t, msgRestart+"\n", out.String())
	assert.Equal(t, 1, g.Field().RevealedCount())

	old := g.Field()
	out.Reset()
	_, err = g.Handle("RESTART")
	require.NoError(t, err)
	assert.NotSame(t, old, g.Field())
	assert.False(t, g.Over())
	assert.Zero(t, g.Field().RevealedCount())
	assert.Equal(t, mines.GameParams{DimSize: 3, NumMines: 2}, g.Field().Params())
	assert.Equal(t, "     \n     \n     \n", out.String())
}

func TestHandleQuit(t *testing.T) {
	g, _, _ := setup(t, mines.GameParams{DimSize: 3, NumMines: 1})
	quit, err := g.Handle("quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestRun(t *testing.T) {
	g, out, _ := setup(t, mines.GameParams{DimSize: 4, NumMines: 3})
	safe := findCell(t, g.Field(), func(c mines.Cell) bool { return !c.IsMine() })

	in := strings.NewReader("bogus\n" + safe.String() + "\nquit\n2,2\n")
	require.NoError(t, g.Run(context.Background(), in))

	assert.Equal(t, 3, strings.Count(out.String(), msgPrompt))
	assert.Contains(t, out.String(), msgBadFormat)
	assert.True(t, g.Field().IsRevealed(safe.Row, safe.Col))
	assert.False(t, g.Over())
}

func TestRunEndOfInput(t *testing.T) {
	g, _, _ := setup(t, mines.GameParams{DimSize: 3, NumMines: 1})
	assert.NoError(t, g.Run(context.Background(), strings.NewReader("")))
}

func TestRunCanceled(t *testing.T) {
	g, _, _ := setup(t, mines.GameParams{DimSize: 3, NumMines: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Run(ctx, strings.NewReader("0,0\n")), context.Canceled)
	assert.Zero(t, g.Field().RevealedCount())
}
