package mines

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type GameParams struct {
	DimSize  int `json:"dim_size"`
	NumMines int `json:"num_mines"`
}

// Validate reports whether mines can be placed on the field at all. Rejection
// sampling never finishes when there are at least as many mines as cells.
func (p GameParams) Validate() error {
	if p.DimSize < 1 {
		return fmt.Errorf("%w: dim size %d must be positive", ErrInvalidConfiguration, p.DimSize)
	}
	if p.DimSize > math.MaxInt32 {
		return fmt.Errorf("%w: dim size %d is too large", ErrInvalidConfiguration, p.DimSize)
	}
	if p.NumMines < 0 {
		return fmt.Errorf("%w: mine count %d is negative", ErrInvalidConfiguration, p.NumMines)
	}
	if cells := p.DimSize * p.DimSize; p.NumMines >= cells {
		return fmt.Errorf(
			"%w: %d mines do not fit on %dx%d field (%d cells)",
			ErrInvalidConfiguration, p.NumMines, p.DimSize, p.DimSize, cells,
		)
	}
	return nil
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d", p.DimSize, p.NumMines)
}

func (p GameParams) PointInBounds(row, col int) bool {
	return 0 <= row && row < p.DimSize && 0 <= col && col < p.DimSize
}

type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ParseCoord reads a "row,col" command. Whitespace is allowed around both
// numbers.
func ParseCoord(s string) (Coord, error) {
	rowStr, colStr, found := strings.Cut(s, ",")
	if !found {
		return Coord{}, fmt.Errorf("%w: %q", ErrBadCoord, s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return Coord{}, fmt.Errorf("%w: row %q is not an int", ErrBadCoord, rowStr)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return Coord{}, fmt.Errorf("%w: col %q is not an int", ErrBadCoord, colStr)
	}
	return Coord{Row: row, Col: col}, nil
}

func (c Coord) String() string {
	return strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col)
}
