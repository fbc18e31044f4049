package mines

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/gammazero/deque"
)

var Log *slog.Logger = slog.Default()

type RevealResult int

const (
	Safe RevealResult = iota
	Exploded
)

func (r RevealResult) String() string {
	switch r {
	case Safe:
		return "safe"
	case Exploded:
		return "exploded"
	default:
		return fmt.Sprintf("RevealResult(%d)", int(r))
	}
}

// MineField is the state of one game. Its shape and mines never change after
// [New]; only the set of revealed cells grows. A MineField is not safe for
// concurrent use.
type MineField struct {
	dimSize   int
	numMines  int
	grid      []Cell /* real mine points and counts, row-major */
	revealed  []bool /* cells dug so far */
	nrevealed int
	exploded  bool
}

func New(params GameParams, r *rand.Rand) (*MineField, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	grid, samples := params.plantMines(r)
	Log.Debug(
		"planted mines",
		slog.String("params", params.Seed()),
		slog.Int("samples", samples),
	)
	return &MineField{
		dimSize:  params.DimSize,
		numMines: params.NumMines,
		grid:     grid,
		revealed: make([]bool, len(grid)),
	}, nil
}

func (f *MineField) DimSize() int {
	return f.dimSize
}

func (f *MineField) NumMines() int {
	return f.numMines
}

func (f *MineField) Params() GameParams {
	return GameParams{DimSize: f.dimSize, NumMines: f.numMines}
}

func (f *MineField) InBounds(row, col int) bool {
	return f.Params().PointInBounds(row, col)
}

func (f *MineField) index(row, col int) (int, error) {
	if !f.InBounds(row, col) {
		return 0, fmt.Errorf(
			"%w: (%d, %d) on %dx%d field",
			ErrOutOfBounds, row, col, f.dimSize, f.dimSize,
		)
	}
	return row*f.dimSize + col, nil
}

func (f *MineField) Cell(row, col int) (Cell, error) {
	i, err := f.index(row, col)
	if err != nil {
		return 0, err
	}
	return f.grid[i], nil
}

// NeighborMineCount counts the mines around (row, col) by looking at the
// neighbours themselves rather than the stored count.
func (f *MineField) NeighborMineCount(row, col int) (int, error) {
	if _, err := f.index(row, col); err != nil {
		return 0, err
	}
	n := 0
	for j := range neighbors(f.dimSize, row, col) {
		if f.grid[j].IsMine() {
			n++
		}
	}
	return n, nil
}

func (f *MineField) IsExploded() bool {
	return f.exploded
}

func (f *MineField) IsRevealed(row, col int) bool {
	i, err := f.index(row, col)
	return err == nil && f.revealed[i]
}

func (f *MineField) RevealedCount() int {
	return f.nrevealed
}

// Revealed lists dug cells in row-major order.
func (f *MineField) Revealed() []Coord {
	coords := make([]Coord, 0, f.nrevealed)
	for i, ok := range f.revealed {
		if ok {
			coords = append(coords, Coord{Row: i / f.dimSize, Col: i % f.dimSize})
		}
	}
	return coords
}

func (f *MineField) reveal(i int) {
	if !f.revealed[i] {
		f.revealed[i] = true
		f.nrevealed++
	}
}

// Dig opens (row, col). Only the dug cell decides the result; cells opened by
// the cascade from a zero count never do, since a zero has no mine around it.
// Digging after an explosion is allowed.
func (f *MineField) Dig(row, col int) (RevealResult, error) {
	i, err := f.index(row, col)
	if err != nil {
		return Safe, err
	}

	f.reveal(i)

	if f.grid[i].IsMine() {
		f.exploded = true
		return Exploded, nil
	}
	if f.grid[i] > 0 {
		return Safe, nil
	}

	/*
	 * Open every hidden neighbour of each zero in the queue, queueing
	 * the ones that turn out to be zeros as well. A cell is revealed
	 * before it is queued, so it is never queued twice.
	 */
	var todo deque.Deque[int]
	todo.PushBack(i)
	for todo.Len() > 0 {
		j := todo.PopFront()
		for k := range neighbors(f.dimSize, j/f.dimSize, j%f.dimSize) {
			if f.revealed[k] {
				continue
			}
			f.reveal(k)
			if f.grid[k] == 0 {
				todo.PushBack(k)
			}
		}
	}

	return Safe, nil
}

func (f *MineField) render(visible func(i int) bool) VisibleGrid {
	g := make(VisibleGrid, f.dimSize)
	for row := range f.dimSize {
		g[row] = make([]Symbol, f.dimSize)
		for col := range f.dimSize {
			i := row*f.dimSize + col
			if visible(i) {
				g[row][col] = symbolOf(f.grid[i])
			} else {
				g[row][col] = Blank
			}
		}
	}
	return g
}

// VisibleGrid shows revealed cells and hides the rest behind [Blank].
func (f *MineField) VisibleGrid() VisibleGrid {
	return f.render(func(i int) bool { return f.revealed[i] })
}

// Solution shows every cell, revealed or not.
func (f *MineField) Solution() VisibleGrid {
	return f.render(func(int) bool { return true })
}
