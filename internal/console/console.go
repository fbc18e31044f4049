// Package console plays a single game on a text terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/mines"
)

const (
	cmdRestart = "restart"
	cmdQuit    = "quit"
)

const (
	msgPrompt      = "Enter row,col to dig (e.g. 0,0): "
	msgBadLocation = "Invalid location. Try again."
	msgBadFormat   = "Invalid input format. Please enter row,col."
	msgGameOver    = "Game Over! You dug a bomb."
	msgRestart     = "Type restart to play again or quit to leave."
)

var Log logrus.FieldLogger = logrus.New()

// Game drives one MineField from text commands. The field is replaced on
// restart, keeping its size and mine count.
type Game struct {
	params  mines.GameParams
	newRand func() *rand.Rand
	field   *mines.MineField
	out     io.Writer
}

func New(params mines.GameParams, newRand func() *rand.Rand, out io.Writer) (*Game, error) {
	field, err := mines.New(params, newRand())
	if err != nil {
		return nil, err
	}
	return &Game{
		params:  params,
		newRand: newRand,
		field:   field,
		out:     out,
	}, nil
}

func (g *Game) Field() *mines.MineField {
	return g.field
}

func (g *Game) Over() bool {
	return g.field.IsExploded()
}

func (g *Game) printf(format string, args ...any) {
	fmt.Fprintf(g.out, format, args...)
}

func (g *Game) printBoard() {
	g.printf("%s", g.field.VisibleGrid())
}

// Handle applies one command. It reports whether the player asked to quit.
// Bad input is printed and leaves the game as it was.
func (g *Game) Handle(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	log := Log.WithField("input", line)

	switch strings.ToLower(line) {
	case "":
		return false, nil
	case cmdQuit:
		log.Debug("player quit")
		return true, nil
	case cmdRestart:
		field, err := mines.New(g.params, g.newRand())
		if err != nil {
			return false, err
		}
		log.WithFields(logrus.Fields{
			"dim_size":  g.params.DimSize,
			"num_mines": g.params.NumMines,
		}).Info("restarted")
		g.field = field
		g.printBoard()
		return false, nil
	}

	if g.Over() {
		g.printf("%s\n", msgRestart)
		return false, nil
	}

	at, err := mines.ParseCoord(line)
	if err != nil {
		log.WithError(err).Debug("bad command")
		g.printf("%s\n", msgBadFormat)
		return false, nil
	}

	res, err := g.field.Dig(at.Row, at.Col)
	switch {
	case errors.Is(err, mines.ErrOutOfBounds):
		log.WithError(err).Debug("bad location")
		g.printf("%s\n", msgBadLocation)
		return false, nil
	case err != nil:
		return false, err
	}

	log.WithFields(logrus.Fields{
		"result":   res,
		"revealed": g.field.RevealedCount(),
	}).Debug("dug")

	if res == mines.Exploded {
		g.printf("%s\n", msgGameOver)
		g.printf("%s", g.field.Solution())
		g.printf("%s\n", msgRestart)
		return false, nil
	}
	g.printBoard()
	return false, nil
}

// Run reads commands line by line until quit, end of input or ctx is done.
func (g *Game) Run(ctx context.Context, in io.Reader) error {
	g.printBoard()

	scanner := bufio.NewScanner(in)
	for {
		if !g.Over() {
			g.printf("%s", msgPrompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := g.Handle(scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}
