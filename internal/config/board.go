package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Board bounds the games a player may start.
type Board struct {
	MinSize      int `env:"BOARD_MIN_SIZE" envDefault:"5"`
	MaxSize      int `env:"BOARD_MAX_SIZE" envDefault:"20"`
	DefaultSize  int `env:"BOARD_DEFAULT_SIZE" envDefault:"10"`
	MinMines     int `env:"BOARD_MIN_MINES" envDefault:"1"`
	MaxMines     int `env:"BOARD_MAX_MINES" envDefault:"100"`
	DefaultMines int `env:"BOARD_DEFAULT_MINES" envDefault:"10"`
}

func NewBoard() (*Board, error) {
	var b Board
	if err := env.Parse(&b); err != nil {
		return nil, fmt.Errorf("unable to parse board config: %w", err)
	}
	if b.MinSize < 1 || b.MinSize > b.MaxSize {
		return nil, fmt.Errorf("invalid board size range [%d, %d]", b.MinSize, b.MaxSize)
	}
	if b.MinMines < 0 || b.MinMines > b.MaxMines {
		return nil, fmt.Errorf("invalid mine count range [%d, %d]", b.MinMines, b.MaxMines)
	}
	if err := b.Check(b.DefaultSize, b.DefaultMines); err != nil {
		return nil, fmt.Errorf("invalid board defaults: %w", err)
	}
	return &b, nil
}

// Check reports whether a game of the given shape is allowed. A mine count
// must also leave at least one free cell.
func (b Board) Check(dimSize, numMines int) error {
	if dimSize < b.MinSize || dimSize > b.MaxSize {
		return fmt.Errorf("board size must be between %d and %d", b.MinSize, b.MaxSize)
	}
	if numMines < b.MinMines || numMines > b.MaxMines {
		return fmt.Errorf("mine count must be between %d and %d", b.MinMines, b.MaxMines)
	}
	if numMines >= dimSize*dimSize {
		return fmt.Errorf("mine count must be less than %d on a %dx%d board",
			dimSize*dimSize, dimSize, dimSize)
	}
	return nil
}
