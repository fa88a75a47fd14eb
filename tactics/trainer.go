package tactics

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
	"github.com/daystram/chessboard/store"
)

const DefaultAutoMoveDelay = 400 * time.Millisecond

var ErrPuzzleSolved = errors.New("puzzle already solved")

type Result uint8

const (
	ResultWrong Result = iota
	ResultCorrect
	ResultSolved
)

func (r Result) String() string {
	switch r {
	case ResultCorrect:
		return "correct"
	case ResultSolved:
		return "solved"
	default:
		return "wrong"
	}
}

// ProgressStore keeps the player's position in a collection across runs.
type ProgressStore interface {
	LoadProgress(collection string) (store.Progress, error)
	SaveProgress(collection string, p store.Progress) error
}

type Config struct {
	// Collection names the puzzle set in the progress store.
	Collection string

	// AutoMoveDelay is the pause before the opponent's reply is played.
	// Zero means DefaultAutoMoveDelay, a negative value replies at once.
	AutoMoveDelay time.Duration

	// Store may be nil, progress is then kept in memory only.
	Store  ProgressStore
	Logger zerolog.Logger
}

// Trainer walks the player through a collection of puzzles. The player
// always plays the side to move in the puzzle's starting position, the
// trainer answers with the next move of the main line.
type Trainer struct {
	cfg Config
	log zerolog.Logger

	mu       sync.Mutex
	puzzles  []Puzzle
	index    int
	ply      int
	board    board.Board
	player   board.Side
	progress store.Progress
}

// NewTrainer resumes the collection where the store left it.
func NewTrainer(puzzles []Puzzle, cfg Config) (*Trainer, error) {
	if len(puzzles) == 0 {
		return nil, ErrNoPuzzles
	}
	switch {
	case cfg.AutoMoveDelay == 0:
		cfg.AutoMoveDelay = DefaultAutoMoveDelay
	case cfg.AutoMoveDelay < 0:
		cfg.AutoMoveDelay = 0
	}
	t := &Trainer{
		cfg:     cfg,
		log:     cfg.Logger.With().Str("collection", cfg.Collection).Logger(),
		puzzles: puzzles,
	}
	if cfg.Store != nil {
		p, err := cfg.Store.LoadProgress(cfg.Collection)
		if err != nil {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		t.progress = p
	}
	index := t.progress.Index
	if index < 0 || index >= len(puzzles) {
		index = 0
	}
	if err := t.Load(index); err != nil {
		return nil, err
	}
	return t, nil
}

// Load starts the puzzle at index and records it as the current one.
func (t *Trainer) Load(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked(index)
}

// Next starts the following puzzle, wrapping around at the end.
func (t *Trainer) Next() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked((t.index + 1) % len(t.puzzles))
}

func (t *Trainer) loadLocked(index int) error {
	if index < 0 || index >= len(t.puzzles) {
		return fmt.Errorf("%w: index %d out of %d", ErrNoPuzzles, index, len(t.puzzles))
	}
	p := t.puzzles[index]
	b, turn, err := board.NewBoard(board.WithFEN(p.FEN))
	if err != nil {
		return fmt.Errorf("%w: puzzle %d: %v", ErrBadPuzzle, index, err)
	}
	t.index, t.ply, t.board, t.player = index, 0, *b, turn
	t.progress.Index = index
	t.saveLocked()
	t.log.Debug().Int("index", index).Str("fen", p.FEN).Msg("puzzle started")
	return nil
}

func (t *Trainer) saveLocked() {
	if t.cfg.Store == nil {
		return
	}
	if err := t.cfg.Store.SaveProgress(t.cfg.Collection, t.progress); err != nil {
		t.log.Warn().Err(err).Msg("cannot save progress")
	}
}

func (t *Trainer) Current() Puzzle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.puzzles[t.index]
}

func (t *Trainer) Len() int {
	return len(t.puzzles)
}

// Board returns the position the player is to move in.
func (t *Trainer) Board() board.Board {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.board
}

func (t *Trainer) PlayerSide() board.Side {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.player
}

func (t *Trainer) Progress() store.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

func (t *Trainer) IsSolved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ply >= len(t.puzzles[t.index].Solution)
}

// expectedLocked parses the next main line move on the current board.
func (t *Trainer) expectedLocked() (board.Move, error) {
	sol := t.puzzles[t.index].Solution
	if t.ply >= len(sol) {
		return board.Move{}, ErrPuzzleSolved
	}
	return t.board.ParseUCI(sol[t.ply])
}

// Attempt checks the player's move against the main line. A correct move is
// applied along with the reply, which is returned for the caller to show.
// The last correct move of the line yields ResultSolved. Moves that are not
// legal at all fail with board.ErrIllegalMove.
func (t *Trainer) Attempt(mv board.Move) (Result, *board.Move, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	want, err := t.expectedLocked()
	if err != nil {
		return ResultWrong, nil, err
	}
	got, err := t.board.FindMove(mv.From, mv.To, mv.IsPromote)
	if err != nil {
		return ResultWrong, nil, err
	}
	if got.From != want.From || got.To != want.To || got.IsPromote != want.IsPromote {
		t.progress.Failed++
		t.saveLocked()
		t.log.Debug().Str("move", got.UCI()).Str("want", want.UCI()).Msg("wrong move")
		return ResultWrong, nil, nil
	}
	before, ply := t.board, t.ply
	t.board.Apply(got)
	t.ply++

	var reply *board.Move
	next, err := t.expectedLocked()
	switch {
	case err == nil:
		t.board.Apply(next)
		t.ply++
		reply = &next
	case !errors.Is(err, ErrPuzzleSolved):
		t.board, t.ply = before, ply
		return ResultWrong, nil, fmt.Errorf("%w: puzzle %d ply %d: %v", ErrBadPuzzle, t.index, ply+1, err)
	}
	if t.ply >= len(t.puzzles[t.index].Solution) {
		t.progress.Solved++
		t.saveLocked()
		t.log.Debug().Int("index", t.index).Msg("puzzle solved")
		return ResultSolved, reply, nil
	}
	return ResultCorrect, reply, nil
}

// Hint returns the origin square of the expected move.
func (t *Trainer) Hint() (position.Pos, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mv, err := t.expectedLocked()
	if err != nil {
		return position.Invalid, err
	}
	return mv.From, nil
}

func (t *Trainer) Solution() (board.Move, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expectedLocked()
}
