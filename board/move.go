package board

import (
	"errors"
	"fmt"

	"github.com/daystram/chessboard/position"
)

var (
	// ErrIllegalMove represents a move that is not in the legal move list.
	ErrIllegalMove = errors.New("illegal move")

	// ErrMalformedStep represents a step that cannot be animated.
	ErrMalformedStep = errors.New("malformed step")
)

type Move struct {
	From, To position.Pos
	Piece    Piece

	IsTurn      Side
	IsCapture   bool
	IsCheck     bool
	IsCastle    CastleDirection
	IsEnPassant bool
	IsPromote   Piece
}

func (m Move) String() string {
	return m.UCI()
}

// Algebra is a context-free notation: it never disambiguates and only knows
// about check, not mate. Use Board.SAN for the standard notation.
func (m Move) Algebra() string {
	if m.IsCastle != CastleDirectionUnknown {
		return m.IsCastle.Notation()
	}
	nt := m.Piece.SymbolAlgebra(SideWhite) // SideWhite because it returns capital symbols
	if m.IsCapture {
		if m.Piece == PiecePawn {
			nt += position.NotationComponentX(m.From.X())
		} else {
			nt += m.From.Notation()
		}
		nt += "x"
	}
	nt += m.To.Notation()
	if m.IsPromote != PieceUnknown {
		nt += "=" + m.IsPromote.SymbolAlgebra(SideWhite)
	}
	if m.IsCheck {
		nt += "+"
	}
	if m.IsEnPassant {
		nt += " e.p."
	}
	return nt
}

func (m Move) UCI() string {
	return m.From.Notation() + m.To.Notation() + m.IsPromote.SymbolAlgebra(SideBlack)
}

// CaptureSquare returns the square of the captured piece, or position.Invalid.
// It differs from To only for en passant.
func (m Move) CaptureSquare() position.Pos {
	switch {
	case m.IsEnPassant && m.IsTurn == SideWhite:
		return m.To - position.Stride
	case m.IsEnPassant:
		return m.To + position.Stride
	case m.IsCapture:
		return m.To
	default:
		return position.Invalid
	}
}

// MoveMap maps every origin square with at least one legal move to its
// ascending list of destinations.
type MoveMap map[position.Pos][]position.Pos

func (mm MoveMap) Has(from, to position.Pos) bool {
	for _, d := range mm[from] {
		if d == to {
			return true
		}
	}
	return false
}

// Count returns the number of distinct origin-destination pairs.
func (mm MoveMap) Count() int {
	var n int
	for _, ds := range mm {
		n += len(ds)
	}
	return n
}

// Step is an elementary visual change. A slide moves the piece on From to
// To, removing the piece on Capture when IsCapture is set. A promote step
// (IsPromote set) swaps the type of the piece on To.
type Step struct {
	From, To  position.Pos
	IsCapture bool
	Capture   position.Pos
	IsPromote Piece
}

func SlideStep(from, to position.Pos) Step {
	return Step{From: from, To: to, Capture: position.Invalid}
}

func CaptureStep(from, to, capture position.Pos) Step {
	return Step{From: from, To: to, IsCapture: true, Capture: capture}
}

func PromoteStep(pos position.Pos, p Piece) Step {
	return Step{From: position.Invalid, To: pos, Capture: position.Invalid, IsPromote: p}
}

func (s Step) IsSlide() bool {
	return s.IsPromote == PieceUnknown
}

func (s Step) Validate() error {
	if !s.To.IsValid() {
		return fmt.Errorf("%w: missing destination", ErrMalformedStep)
	}
	if !s.IsSlide() {
		if !s.IsPromote.IsPromoteCandidate() {
			return fmt.Errorf("%w: cannot promote to %s", ErrMalformedStep, s.IsPromote)
		}
		return nil
	}
	if !s.From.IsValid() {
		return fmt.Errorf("%w: missing origin", ErrMalformedStep)
	}
	if s.From == s.To {
		return fmt.Errorf("%w: slide from %s onto itself", ErrMalformedStep, s.From)
	}
	if s.IsCapture && !s.Capture.IsValid() {
		return fmt.Errorf("%w: missing capture square", ErrMalformedStep)
	}
	return nil
}

func (s Step) String() string {
	switch {
	case !s.IsSlide():
		return s.To.Notation() + "=" + s.IsPromote.SymbolAlgebra(SideWhite)
	case s.IsCapture && s.Capture != s.To:
		return s.From.Notation() + "x" + s.To.Notation() + "(" + s.Capture.Notation() + ")"
	case s.IsCapture:
		return s.From.Notation() + "x" + s.To.Notation()
	default:
		return s.From.Notation() + "-" + s.To.Notation()
	}
}

// Chain is a compound move expressed as ordered steps.
type Chain struct {
	Label string
	Steps []Step
}

func (c Chain) Validate() error {
	if len(c.Steps) == 0 {
		return fmt.Errorf("%w: empty chain", ErrMalformedStep)
	}
	for i, s := range c.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (c Chain) SlideCount() int {
	var n int
	for _, s := range c.Steps {
		if s.IsSlide() {
			n++
		}
	}
	return n
}
