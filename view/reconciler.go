package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
)

// AnimationState is Idle when Busy is false, otherwise Animating the step
// at Index of Steps.
type AnimationState struct {
	Busy  bool
	Index int
	Steps []board.Step
}

type task struct {
	name string
	run  func(ctx context.Context)
}

// taskQueue is an unbounded FIFO consumed by a single worker. push never
// blocks, so listeners running on the worker may queue more work.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []task
	closed bool
	wake   chan struct{}
}

func newTaskQueue(size int) *taskQueue {
	return &taskQueue{
		tasks: make([]task, 0, size),
		wake:  make(chan struct{}, 1),
	}
}

func (q *taskQueue) push(t task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

func (q *taskQueue) pop() (task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return task{}, false
	}
	t := q.tasks[0]
	q.tasks[0] = task{}
	q.tasks = q.tasks[1:]
	return t, true
}

// close reports false if the queue was already closed.
func (q *taskQueue) close() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.closed = true
	q.tasks = nil
	return true
}

func (v *View) run() {
	defer close(v.done)
	for {
		if v.ctx.Err() != nil {
			return
		}
		t, ok := v.queue.pop()
		if !ok {
			select {
			case <-v.queue.wake:
				continue
			case <-v.ctx.Done():
				return
			}
		}
		v.log.Trace().Str("task", t.name).Msg("running task")
		t.run(v.ctx)
	}
}

// PlayMove plays the legal move mv: the position is updated now, the
// animation runs after everything already queued. Dragging is disabled.
func (v *View) PlayMove(mv board.Move) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	legal, err := v.model.FindMove(mv.From, mv.To, mv.IsPromote)
	if err != nil {
		return err
	}
	c := v.model.Chain(legal)
	v.model.Apply(legal)
	v.disableDragLocked()
	return v.enqueueChain(c)
}

// PlayChain animates a chain built by the caller. When the chain matches a
// legal move the position follows that move, otherwise the position is
// rebuilt from the pieces as they stand after the steps. A malformed step
// panics: chains must come from board.Board.Chain.
func (v *View) PlayChain(c board.Chain) error {
	if err := c.Validate(); err != nil {
		panic(fmt.Errorf("play chain %q: %w", c.Label, err))
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if mv, ok := v.matchChainLocked(c); ok {
		v.model.Apply(mv)
	} else {
		v.model = *board.NewBoardFromPlacements(applySteps(v.model.Pieces(), c.Steps), v.model.Turn().Opposite())
	}
	v.disableDragLocked()
	return v.enqueueChain(c)
}

func (v *View) matchChainLocked(c board.Chain) (board.Move, bool) {
	first := c.Steps[0]
	if !first.IsSlide() {
		return board.Move{}, false
	}
	promote := board.PieceUnknown
	if last := c.Steps[len(c.Steps)-1]; !last.IsSlide() {
		promote = last.IsPromote
	}
	mv, err := v.model.FindMove(first.From, first.To, promote)
	if err != nil {
		return board.Move{}, false
	}
	want := v.model.Chain(mv)
	if len(want.Steps) != len(c.Steps) {
		return board.Move{}, false
	}
	for i := range want.Steps {
		if want.Steps[i] != c.Steps[i] {
			return board.Move{}, false
		}
	}
	return mv, true
}

func applySteps(pls []board.Placement, steps []board.Step) []board.Placement {
	cells := make(map[position.Pos]board.Code, len(pls))
	for _, pl := range pls {
		cells[pl.Pos] = pl.Code
	}
	for _, st := range steps {
		if !st.IsSlide() {
			if c, ok := cells[st.To]; ok {
				cells[st.To] = board.NewCode(c.Side(), st.IsPromote)
			}
			continue
		}
		if st.IsCapture {
			delete(cells, st.Capture)
		}
		if c, ok := cells[st.From]; ok {
			delete(cells, st.From)
			cells[st.To] = c
		}
	}
	out := make([]board.Placement, 0, len(cells))
	for pos, c := range cells {
		out = append(out, board.Placement{Code: c, Pos: pos})
	}
	return out
}

func (v *View) enqueueChain(c board.Chain) error {
	return v.enqueue("chain "+c.Label, func(ctx context.Context) {
		v.animate(ctx, c)
	})
}

func (v *View) durationPerSlide(c board.Chain) time.Duration {
	n := c.SlideCount()
	if n == 0 {
		return 0
	}
	return v.cfg.AnimationDuration / time.Duration(n)
}

// animate drives the chain from Idle through Animating back to Idle. The
// highlight is always keyed on the first step.
func (v *View) animate(ctx context.Context, c board.Chain) {
	v.visMu.Lock()
	v.layout.anim = AnimationState{Busy: true, Steps: c.Steps}
	v.visMu.Unlock()
	v.events.emit(Event{Type: EventAnimationStart, Label: c.Label})

	d := v.durationPerSlide(c)
	for i, st := range c.Steps {
		v.visMu.Lock()
		v.layout.anim.Index = i
		if !st.IsSlide() {
			if p, ok := v.layout.squares[st.To]; ok {
				p.Code = board.NewCode(p.Code.Side(), st.IsPromote)
			}
			v.visMu.Unlock()
			continue
		}
		if st.IsCapture && st.Capture != st.To {
			if p, ok := v.layout.squares[st.Capture]; ok {
				p.hide()
				delete(v.layout.squares, st.Capture)
			}
		}
		moving, ok := v.layout.squares[st.From]
		var snapshot PieceObject
		if ok {
			snapshot = moving.PieceObject
		}
		v.visMu.Unlock()

		if ok && d > 0 && ctx.Err() == nil {
			if err := v.cfg.Animator.Slide(ctx, snapshot, st.From, st.To, d); err != nil {
				v.log.Debug().Err(err).Str("step", st.String()).Msg("slide interrupted")
			}
		}

		if !ok {
			v.log.Warn().Str("step", st.String()).Msg("no piece on origin square")
			continue
		}
		v.visMu.Lock()
		if p, occupied := v.layout.squares[st.To]; occupied && p != moving {
			p.hide()
		}
		delete(v.layout.squares, st.From)
		moving.Square = st.To
		v.layout.squares[st.To] = moving
		v.visMu.Unlock()
	}

	v.mu.Lock()
	drag, instructor := v.drag, v.instructor
	var mm board.MoveMap
	if drag && !instructor {
		mm, _ = v.model.ValidMovesAndResult()
	}
	v.visMu.Lock()
	v.layout.anim = AnimationState{}
	if drag {
		v.layout.setDraggable(mm, instructor)
	}
	v.visMu.Unlock()
	v.mu.Unlock()

	v.events.emit(Event{Type: EventHighlight, Step: c.Steps[0], Label: c.Label})
	v.events.emit(Event{Type: EventAnimationComplete, Label: c.Label})
}
