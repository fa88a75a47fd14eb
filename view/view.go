package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
)

var (
	// ErrClosed is returned by operations on a closed view.
	ErrClosed = errors.New("view closed")

	// ErrDragDisabled is returned when a drag ends on a piece that may not move.
	ErrDragDisabled = errors.New("drag and drop disabled")
)

// View is a headless chess board. It keeps two states: the logical position,
// updated synchronously when a move is accepted, and the visual layout of
// piece objects, updated in order by a single worker goroutine.
type View struct {
	id  uuid.UUID
	cfg Config
	log zerolog.Logger

	// mu guards the logical state. Lock order is mu, then visMu.
	mu         sync.Mutex
	model      board.Board
	drag       bool
	instructor bool
	flipped    bool

	visMu  sync.RWMutex
	layout *layout

	events *bus
	queue  *taskQueue

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg *Config) (*View, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if c.FEN == "" {
		c.FEN = board.DefaultStartingPositionFEN
	}
	if c.Animator == nil {
		c.Animator = SleepAnimator
	}
	if c.AnimationDuration < 0 {
		c.AnimationDuration = 0
	}
	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSize
	}

	b, _, err := board.NewBoard(board.WithFEN(c.FEN))
	if err != nil {
		return nil, err
	}

	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v := &View{
		id:      id,
		cfg:     c,
		log:     c.Logger.With().Str("view", id.String()).Logger(),
		model:   *b,
		flipped: c.Flipped,
		layout:  newLayout(DefaultPoolSize),
		events:  newBus(),
		queue:   newTaskQueue(c.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	v.layout.rebuild(b.Pieces())

	go v.run()
	v.log.Debug().Str("fen", c.FEN).Msg("view started")
	return v, nil
}

func (v *View) ID() uuid.UUID {
	return v.id
}

// On registers fn for events of type t and returns a function removing it.
func (v *View) On(t EventType, fn Listener) func() {
	return v.events.on(t, fn)
}

// OnAll registers fn for every event type.
func (v *View) OnAll(fn Listener) func() {
	offs := make([]func(), 0, len(eventTypes))
	for _, t := range eventTypes {
		offs = append(offs, v.events.on(t, fn))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// Close stops the worker once the running task returns. Queued tasks are dropped.
func (v *View) Close() error {
	if !v.queue.close() {
		return ErrClosed
	}
	v.cancel()
	<-v.done
	v.log.Debug().Msg("view closed")
	return nil
}

// Sync waits until every task queued before the call has run.
func (v *View) Sync() error {
	reached := make(chan struct{})
	if err := v.enqueue("sync", func(context.Context) { close(reached) }); err != nil {
		return err
	}
	select {
	case <-reached:
		return nil
	case <-v.done:
		return ErrClosed
	}
}

// ShowFEN replaces the position. The layout is rebuilt wholesale once the
// queued animations have run, then EventFEN fires.
func (v *View) ShowFEN(fen string) error {
	return v.showFEN(fen)
}

// ShowPosition shows fen and highlights the move that led to it. highlight
// is skipped unless it is a valid slide.
func (v *View) ShowPosition(fen string, highlight board.Step) error {
	if !highlight.IsSlide() || highlight.Validate() != nil {
		return v.showFEN(fen)
	}
	return v.showFEN(fen, Event{Type: EventHighlight, Step: highlight})
}

func (v *View) ResetBoard() error {
	return v.showFEN(board.DefaultStartingPositionFEN, Event{Type: EventResetBoard})
}

func (v *View) showFEN(fen string, after ...Event) error {
	b, _, err := board.NewBoard(board.WithFEN(fen))
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.model = *b
	return v.enqueue("show fen", func(context.Context) {
		v.showPlacement(b.Pieces())
		v.events.emit(Event{Type: EventFEN, FEN: fen})
		for _, e := range after {
			v.events.emit(e)
		}
	})
}

func (v *View) ClearBoard() error {
	b, _, err := board.NewBoard(board.WithFEN(board.EmptyPositionFEN))
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.model = *b
	return v.enqueue("clear board", func(context.Context) {
		v.visMu.Lock()
		v.layout.clear()
		v.visMu.Unlock()
		v.events.emit(Event{Type: EventClearBoard})
	})
}

func (v *View) ClearHighlight() error {
	return v.enqueue("clear highlight", func(context.Context) {
		v.events.emit(Event{Type: EventClearHighlight})
	})
}

func (v *View) Flip() error {
	v.mu.Lock()
	v.flipped = !v.flipped
	flipped := v.flipped
	v.mu.Unlock()
	return v.enqueue("flip", func(context.Context) {
		v.events.emit(Event{Type: EventFlip, Flipped: flipped})
	})
}

func (v *View) IsFlipped() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.flipped
}

// ShowHint points at the square of the piece to move.
func (v *View) ShowHint(from position.Pos) error {
	return v.enqueue("hint", func(context.Context) {
		v.events.emit(Event{Type: EventHint, Square: from})
	})
}

// ShowSolution announces mv without playing it.
func (v *View) ShowSolution(mv board.Move) error {
	return v.enqueue("solution", func(context.Context) {
		v.events.emit(Event{Type: EventSolution, Move: mv, Square: mv.From})
	})
}

// FEN returns the FEN of the logical position, which may be ahead of the layout.
func (v *View) FEN() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.model.FEN()
}

// Board returns a copy of the logical position.
func (v *View) Board() board.Board {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.model
}

func (v *View) ValidMovesAndResult() (board.MoveMap, board.State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.model.ValidMovesAndResult()
}

// Pieces returns a snapshot of the whole pool, hidden objects included.
func (v *View) Pieces() []PieceObject {
	v.visMu.RLock()
	defer v.visMu.RUnlock()
	pcs := make([]PieceObject, 0, len(v.layout.pool))
	for _, p := range v.layout.pool {
		pcs = append(pcs, p.PieceObject)
	}
	return pcs
}

func (v *View) PieceAt(pos position.Pos) (PieceObject, bool) {
	v.visMu.RLock()
	defer v.visMu.RUnlock()
	p, ok := v.layout.squares[pos]
	if !ok {
		return PieceObject{}, false
	}
	return p.PieceObject, true
}

func (v *View) CountPiecesOnBoard() int {
	v.visMu.RLock()
	defer v.visMu.RUnlock()
	var n int
	for _, p := range v.layout.pool {
		if p.Visible {
			n++
		}
	}
	return n
}

// Placements lists the displayed pieces from rank 8 to rank 1.
func (v *View) Placements() []board.Placement {
	v.visMu.RLock()
	defer v.visMu.RUnlock()
	return v.layout.placements()
}

// PlacementFEN builds the placement field from the displayed pieces.
func (v *View) PlacementFEN() string {
	return board.PlacementFEN(v.Placements())
}

// AnimationState reports the reconciler state.
func (v *View) AnimationState() AnimationState {
	v.visMu.RLock()
	defer v.visMu.RUnlock()
	s := v.layout.anim
	s.Steps = append([]board.Step(nil), s.Steps...)
	return s
}

// Draw renders the displayed pieces with board.Draw.
func (v *View) Draw(marks ...position.Pos) string {
	return board.Draw(v.Placements(), v.IsFlipped(), marks...)
}

func (v *View) showPlacement(pls []board.Placement) {
	v.mu.Lock()
	drag, instructor := v.drag, v.instructor
	var mm board.MoveMap
	if drag && !instructor {
		mm, _ = v.model.ValidMovesAndResult()
	}
	v.visMu.Lock()
	v.layout.rebuild(pls)
	if drag {
		v.layout.setDraggable(mm, instructor)
	}
	v.visMu.Unlock()
	v.mu.Unlock()
}

func (v *View) enqueue(name string, t func(ctx context.Context)) error {
	if !v.queue.push(task{name: name, run: t}) {
		return fmt.Errorf("%w: cannot queue %s", ErrClosed, name)
	}
	return nil
}
