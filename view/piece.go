package view

import (
	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
)

// PieceObject is a snapshot of one visual piece. Hidden pieces keep their
// last Code and have Square set to position.Invalid.
type PieceObject struct {
	ID        int
	Code      board.Code
	Square    position.Pos
	Visible   bool
	Draggable bool
}

type pieceObject struct {
	PieceObject
}

func (p *pieceObject) hide() {
	p.Visible = false
	p.Draggable = false
	p.Square = position.Invalid
}

func (p *pieceObject) show(c board.Code, pos position.Pos) {
	p.Code = c
	p.Square = pos
	p.Visible = true
}

// layout is the visual state: a pool of piece objects and the square map
// pointing into it. It is guarded by View.visMu.
type layout struct {
	pool    []*pieceObject
	squares map[position.Pos]*pieceObject
	anim    AnimationState
}

func newLayout(size int) *layout {
	l := &layout{squares: make(map[position.Pos]*pieceObject)}
	l.grow(size)
	return l
}

func (l *layout) grow(size int) {
	for len(l.pool) < size {
		p := &pieceObject{PieceObject{ID: len(l.pool), Square: position.Invalid}}
		l.pool = append(l.pool, p)
	}
}

// rebuild maps pls onto the pool in order and hides every unused object.
func (l *layout) rebuild(pls []board.Placement) {
	l.grow(len(pls))
	l.squares = make(map[position.Pos]*pieceObject, len(pls))
	for i, pl := range pls {
		p := l.pool[i]
		p.show(pl.Code, pl.Pos)
		p.Draggable = false
		l.squares[pl.Pos] = p
	}
	for _, p := range l.pool[len(pls):] {
		p.hide()
	}
}

func (l *layout) clear() {
	l.squares = make(map[position.Pos]*pieceObject)
	for _, p := range l.pool {
		p.hide()
	}
}

func (l *layout) byID(id int) *pieceObject {
	if id < 0 || id >= len(l.pool) {
		return nil
	}
	return l.pool[id]
}

func (l *layout) placements() []board.Placement {
	pls := make([]board.Placement, 0, len(l.squares))
	for y := board.Height - 1; y >= 0; y-- {
		for x := 0; x < board.Width; x++ {
			pos := position.New(x, y)
			if p, ok := l.squares[pos]; ok {
				pls = append(pls, board.Placement{Code: p.Code, Pos: pos})
			}
		}
	}
	return pls
}

// setDraggable marks the pieces standing on origins, or every visible piece
// when all is set.
func (l *layout) setDraggable(origins board.MoveMap, all bool) {
	for _, p := range l.pool {
		if !p.Visible {
			p.Draggable = false
			continue
		}
		_, ok := origins[p.Square]
		p.Draggable = all || ok
	}
}

func (l *layout) resetDraggable() {
	for _, p := range l.pool {
		p.Draggable = false
	}
}
