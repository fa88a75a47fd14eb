package position

import (
	"errors"
)

const (
	// MaxComponentScalar is the number of files and ranks on the board.
	MaxComponentScalar = 8

	// Stride is the distance between two ranks in the 0x88 index space.
	Stride = 16

	// TotalCells is the size of the 0x88 index space, including the off-board half.
	TotalCells = 128

	// Invalid marks the absence of a square. It is off-board by construction.
	Invalid Pos = 0xFF

	offBoardMask = 0x88
)

var (
	// ErrInvalidNotation represents an invalid notation error.
	ErrInvalidNotation = errors.New("invalid notation")
)

// Pos is a square in the 0x88 index space: rank*16 + file.
// Any index with a bit of 0x88 set lies off the board.
type Pos uint8

func New(x, y int) Pos {
	if x < 0 || x >= MaxComponentScalar || y < 0 || y >= MaxComponentScalar {
		return Invalid
	}
	return Pos(y*Stride + x)
}

func NewPosFromNotation(n string) (Pos, error) {
	x, y, err := notationToXY(n)
	if err != nil {
		return Invalid, err
	}
	return New(x, y), nil
}

// NewPosFromIndex converts a little-endian rank-file index (a1=0, h8=63).
func NewPosFromIndex(i int) Pos {
	if i < 0 || i >= MaxComponentScalar*MaxComponentScalar {
		return Invalid
	}
	return New(i%MaxComponentScalar, i/MaxComponentScalar)
}

// OnBoard reports whether the raw 0x88 offset arithmetic result i is a board square.
// Negative values and values past the last rank have the 0x80 bit set.
func OnBoard(i int) bool {
	return i&offBoardMask == 0
}

func (p Pos) IsValid() bool {
	return p&offBoardMask == 0
}

// Index returns the little-endian rank-file index (a1=0, h8=63), or -1.
func (p Pos) Index() int {
	if !p.IsValid() {
		return -1
	}
	return p.Y()*MaxComponentScalar + p.X()
}

func (p Pos) String() string {
	return p.Notation()
}

func (p Pos) Notation() string {
	if !p.IsValid() {
		return ""
	}
	return string(rune('a'+p.X())) + string(rune('1'+p.Y()))
}

func (p Pos) X() int {
	return int(p) & 0x07
}

func (p Pos) Y() int {
	return int(p) >> 4
}

// Mirror returns the same file on the opposite side of the board.
func (p Pos) Mirror() Pos {
	if !p.IsValid() {
		return Invalid
	}
	return p ^ 0x70
}

func notationToXY(n string) (int, int, error) {
	if len(n) != 2 {
		return 0, 0, ErrInvalidNotation
	}
	pX, err := notationToX(n[0])
	if err != nil {
		return 0, 0, err
	}
	pY, err := notationToY(n[1])
	if err != nil {
		return 0, 0, err
	}
	return pX, pY, nil
}

func notationToX(x byte) (int, error) {
	pX := int(x) - 'a'
	if pX < 0 || MaxComponentScalar <= pX {
		return 0, ErrInvalidNotation
	}
	return pX, nil
}

func notationToY(y byte) (int, error) {
	pY := int(y) - '1'
	if pY < 0 || MaxComponentScalar <= pY {
		return 0, ErrInvalidNotation
	}
	return pY, nil
}

func NotationComponentX(x int) string {
	if x < 0 || MaxComponentScalar <= x {
		return ""
	}
	return string(rune('a' + x))
}

func NotationComponentY(y int) string {
	if y < 0 || MaxComponentScalar <= y {
		return ""
	}
	return string(rune('1' + y))
}
