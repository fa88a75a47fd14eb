package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/view"
)

const (
	exitOK = iota
	exitErr
)

var (
	debug = flag.Bool("debug", false, "enable debug logging")

	serveRun   = flag.Bool("serve", false, "run http server mode")
	serveAddr  = flag.String("addr", "localhost:8080", "listen address in http server mode")
	consoleRun = flag.Bool("console", false, "run console mode")

	movegenRun  = flag.Bool("movegen", false, "run movegen mode")
	movegenDraw = flag.Bool("movegen.draw", false, "draw applied moves in movegen mode")

	perftDepth = flag.Int("perft", 0, "run perft mode to the given depth")

	demoRun   = flag.Bool("demo", false, "run demo mode, playing random moves")
	demoSteps = flag.Int("demo.steps", 200, "maximum number of moves in demo mode")
	demoSeed  = flag.Uint64("demo.seed", 1, "random seed in demo mode")

	tacticsPGN = flag.String("tactics", "", "pgn collection to train with in server or console mode")
	dbDir      = flag.String("db", "", "directory of the progress and position database")
	boardName  = flag.String("board", "main", "name of the board, used to restore its position")
	animation  = flag.Duration("animation", view.DefaultAnimationDuration, "duration of one move animation")
)

func main() {
	flag.Parse()

	log := newLogger(*debug)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := realMain(ctx, log, flag.Args())
	stop()
	if err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(exitErr)
	}
	os.Exit(exitOK)
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

func realMain(ctx context.Context, log zerolog.Logger, args []string) error {
	fen := board.DefaultStartingPositionFEN
	if len(args) > 0 {
		fen = strings.Join(args, " ")
	}
	switch {
	case *movegenRun:
		return movegen(fen, *movegenDraw)
	case *perftDepth > 0:
		return perft(*perftDepth, fen)
	case *demoRun:
		return demo(ctx, log, fen, *demoSteps, *demoSeed)
	case *serveRun:
		return serve(ctx, log, fen, *serveAddr, len(args) == 0)
	case *consoleRun:
		return runConsole(ctx, log, fen, len(args) == 0)
	}
	flag.Usage()
	return fmt.Errorf("no mode selected")
}

// boardID is stable across runs so a saved position can be found again.
func boardID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("chessboard/"+name))
}
