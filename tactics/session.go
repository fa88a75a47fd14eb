package tactics

import (
	"sync"
	"time"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/view"
)

// Session drives a view with a trainer: dropped pieces are checked against
// the main line, wrong moves are taken back, correct ones are answered after
// AutoMoveDelay and a solved puzzle moves on to the next one.
type Session struct {
	t *Trainer
	v *view.View

	mu     sync.Mutex
	timers []*time.Timer
	off    func()
	closed bool
}

// Bind shows the current puzzle on v and starts listening to its moves.
func Bind(t *Trainer, v *view.View) (*Session, error) {
	s := &Session{t: t, v: v}
	s.off = v.On(view.EventMove, s.onMove)
	if err := s.show(); err != nil {
		s.off()
		return nil, err
	}
	return s, nil
}

func (s *Session) Trainer() *Trainer {
	return s.t
}

// Close stops listening and cancels pending replies.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.off()
	for _, tm := range s.timers {
		tm.Stop()
	}
	s.timers = nil
}

func (s *Session) show() error {
	b := s.t.Board()
	if flip := s.t.PlayerSide() == board.SideBlack; flip != s.v.IsFlipped() {
		if err := s.v.Flip(); err != nil {
			return err
		}
	}
	if err := s.v.ShowFEN(b.FEN()); err != nil {
		return err
	}
	return s.v.EnableDragAndDrop()
}

func (s *Session) after(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	var tm *time.Timer
	tm = time.AfterFunc(s.t.cfg.AutoMoveDelay, func() {
		s.mu.Lock()
		for i, other := range s.timers {
			if other == tm {
				s.timers = append(s.timers[:i], s.timers[i+1:]...)
				break
			}
		}
		closed := s.closed
		s.mu.Unlock()
		if !closed {
			fn()
		}
	})
	s.timers = append(s.timers, tm)
}

func (s *Session) onMove(e view.Event) {
	s.v.DisableDragAndDrop()
	res, reply, err := s.t.Attempt(e.Move)
	log := s.t.log.With().Str("move", e.Move.UCI()).Str("result", res.String()).Logger()
	if err != nil {
		log.Debug().Err(err).Msg("move not checked")
	}
	switch {
	case err != nil || res == ResultWrong:
		s.after(func() {
			if err := s.show(); err != nil {
				log.Warn().Err(err).Msg("cannot take back move")
			}
		})
	case reply != nil:
		s.after(func() {
			if err := s.v.PlayMove(*reply); err != nil {
				log.Warn().Err(err).Msg("cannot play reply")
				return
			}
			if res == ResultSolved {
				s.after(s.next)
				return
			}
			if err := s.v.EnableDragAndDrop(); err != nil {
				log.Warn().Err(err).Msg("cannot enable drag")
			}
		})
	case res == ResultSolved:
		s.after(s.next)
	}
}

func (s *Session) next() {
	if err := s.Next(); err != nil {
		s.t.log.Warn().Err(err).Msg("cannot load next puzzle")
	}
}

// Next skips to the following puzzle.
func (s *Session) Next() error {
	if err := s.t.Next(); err != nil {
		return err
	}
	return s.show()
}

// Hint marks the origin square of the expected move.
func (s *Session) Hint() error {
	pos, err := s.t.Hint()
	if err != nil {
		return err
	}
	return s.v.ShowHint(pos)
}

// Solution shows the expected move without playing it.
func (s *Session) Solution() error {
	mv, err := s.t.Solution()
	if err != nil {
		return err
	}
	return s.v.ShowSolution(mv)
}
