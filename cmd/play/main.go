package main

import (
	"context"
	"flag"
	"fmt"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/console"
	"github.com/vancomm/minefield/internal/mines"
)

var (
	log = logrus.New()

	dimSize  int
	numMines int
	logPath  string
)

func init() {
	flag.IntVar(&dimSize, "size", 10, "board size")
	flag.IntVar(&numMines, "mines", 10, "number of mines")
	flag.StringVar(&logPath, "log", "", "log file path, logging is off when empty")
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// setupLogging keeps the terminal for the board and sends everything else to
// a rotated file.
func setupLogging() error {
	log.SetOutput(io.Discard)
	if logPath == "" {
		return nil
	}

	level := logrus.InfoLevel
	if config.Development() {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logPath,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	log.AddHook(hook)
	return nil
}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	if err := setupLogging(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	console.Log = log

	board, err := config.NewBoard()
	if err != nil {
		log.WithError(err).Error("unable to read board config")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := board.Check(dimSize, numMines); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params := mines.GameParams{DimSize: dimSize, NumMines: numMines}
	game, err := console.New(params, createRand, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log.WithFields(logrus.Fields{
		"dim_size":  dimSize,
		"num_mines": numMines,
	}).Info("game started")

	if err := game.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("game stopped")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
