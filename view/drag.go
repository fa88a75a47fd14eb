package view

import (
	"context"
	"fmt"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
)

// EnableDragAndDrop lets the pieces of the side to move be dragged once the
// queued animations have run.
func (v *View) EnableDragAndDrop() error {
	return v.enqueue("enable drag", func(context.Context) {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.drag = true
		var mm board.MoveMap
		if !v.instructor {
			mm, _ = v.model.ValidMovesAndResult()
		}
		v.visMu.Lock()
		v.layout.setDraggable(mm, v.instructor)
		v.visMu.Unlock()
	})
}

func (v *View) DisableDragAndDrop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.disableDragLocked()
}

func (v *View) disableDragLocked() {
	v.drag = false
	v.visMu.Lock()
	v.layout.resetDraggable()
	v.visMu.Unlock()
}

// EnableInstructorMode lets any piece be dragged to any square but one
// holding a king, regardless of the rules.
func (v *View) EnableInstructorMode() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.instructor = true
	v.drag = true
	v.visMu.Lock()
	v.layout.setDraggable(nil, true)
	v.visMu.Unlock()
}

func (v *View) DisableInstructorMode() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.instructor = false
	v.disableDragLocked()
}

func (v *View) IsInstructorMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.instructor
}

// ValidMovesForPiece lists the legal destinations of a displayed piece.
func (v *View) ValidMovesForPiece(id int) []position.Pos {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visMu.RLock()
	p := v.layout.byID(id)
	from := position.Invalid
	if p != nil && p.Visible {
		from = p.Square
	}
	v.visMu.RUnlock()
	if !from.IsValid() {
		return nil
	}
	mm, _ := v.model.ValidMovesAndResult()
	return append([]position.Pos(nil), mm[from]...)
}

// DragEnd translates a piece dropped on to into a move. A drop on the origin
// square is a no-op returning the zero Move. A rejected drop fires
// EventSnapBack and returns an error wrapping board.ErrIllegalMove or
// ErrDragDisabled. An accepted drop updates the position, fires EventMove and
// animates the move.
func (v *View) DragEnd(id int, to position.Pos) (board.Move, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.visMu.RLock()
	p := v.layout.byID(id)
	var obj PieceObject
	if p != nil {
		obj = p.PieceObject
	}
	v.visMu.RUnlock()

	if p == nil || !obj.Visible {
		return board.Move{}, fmt.Errorf("%w: no piece %d on the board", board.ErrIllegalMove, id)
	}
	if !v.drag || !obj.Draggable {
		v.snapBackLocked(obj)
		return board.Move{}, fmt.Errorf("%w: piece %d", ErrDragDisabled, id)
	}
	if obj.Square == to {
		return board.Move{}, nil
	}
	if !to.IsValid() {
		v.snapBackLocked(obj)
		return board.Move{}, fmt.Errorf("%w: drop off the board", board.ErrIllegalMove)
	}
	if v.instructor {
		return v.instructorMoveLocked(obj, to)
	}

	from := obj.Square
	promote := board.PieceUnknown
	if v.model.IsPromotion(from, to) && v.cfg.PromotionChooser != nil {
		promote = v.cfg.PromotionChooser(from, to, v.model.Turn())
	}
	mv, err := v.model.FindMove(from, to, promote)
	if err != nil {
		v.log.Debug().Err(err).Str("from", from.Notation()).Str("to", to.Notation()).Msg("drag rejected")
		v.snapBackLocked(obj)
		return board.Move{}, err
	}

	c := v.model.Chain(mv)
	v.model.Apply(mv)
	fen := v.model.FEN()
	err = v.enqueue("drag move", func(ctx context.Context) {
		v.events.emit(Event{Type: EventMove, Move: mv, FEN: fen, Label: c.Label, PieceID: id})
		v.animate(ctx, c)
	})
	return mv, err
}

func (v *View) snapBackLocked(obj PieceObject) {
	_ = v.enqueue("snap back", func(context.Context) {
		v.events.emit(Event{Type: EventSnapBack, PieceID: obj.ID, Square: obj.Square})
	})
}

// instructorMoveLocked moves the piece freely, hiding whatever stands on to.
// Pawns reaching the first or last rank become queens.
func (v *View) instructorMoveLocked(obj PieceObject, to position.Pos) (board.Move, error) {
	from := obj.Square
	pls := v.model.Pieces()
	code := obj.Code
	mv := board.Move{From: from, To: to, Piece: code.Piece(), IsTurn: code.Side()}
	for _, pl := range pls {
		if pl.Pos != to {
			continue
		}
		if pl.Code.Piece() == board.PieceKing {
			v.snapBackLocked(obj)
			return board.Move{}, fmt.Errorf("%w: cannot capture the king on %s", board.ErrIllegalMove, to)
		}
		mv.IsCapture = true
	}
	if code.Piece() == board.PiecePawn && (to.Y() == position.Rank1 || to.Y() == position.Rank8) {
		code = board.NewCode(code.Side(), board.PieceQueen)
		mv.IsPromote = board.PieceQueen
	}

	next := make([]board.Placement, 0, len(pls))
	for _, pl := range pls {
		if pl.Pos == from || pl.Pos == to {
			continue
		}
		next = append(next, pl)
	}
	next = append(next, board.Placement{Code: code, Pos: to})
	v.model = *board.NewBoardFromPlacements(next, v.model.Turn())
	fen := v.model.FEN()

	err := v.enqueue("instructor move", func(context.Context) {
		v.visMu.Lock()
		if p, ok := v.layout.squares[to]; ok {
			p.hide()
		}
		if p := v.layout.byID(obj.ID); p != nil {
			delete(v.layout.squares, from)
			p.Square = to
			p.Code = code
			v.layout.squares[to] = p
		}
		v.visMu.Unlock()
		v.events.emit(Event{Type: EventMove, Move: mv, FEN: fen, PieceID: obj.ID})
	})
	return mv, err
}
