package board

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/daystram/chessboard/position"
)

// Board is a chess position on an 0x88 square array. It is a value type:
// assigning a Board copies the whole position.
type Board struct {
	cells         [position.TotalCells]Code
	kings         [2 + 1]position.Pos
	turn          Side
	castleRights  CastleRights
	enPassantPos  position.Pos
	halfMoveClock uint32
	fullMoveClock uint32
}

// Placement is a piece standing on a square.
type Placement struct {
	Code Code
	Pos  position.Pos
}

func (p Placement) String() string {
	return p.Code.SymbolFEN() + p.Pos.Notation()
}

type boardConfig struct {
	fen string
}

type BoardOption func(*boardConfig)

func WithFEN(fen string) BoardOption {
	return func(cfg *boardConfig) {
		cfg.fen = fen
	}
}

func NewBoard(opts ...BoardOption) (*Board, Side, error) {
	cfg := &boardConfig{
		fen: DefaultStartingPositionFEN,
	}
	for _, f := range opts {
		f(cfg)
	}
	b := &Board{}
	if err := UnmarshalFEN(cfg.fen, b); err != nil {
		return nil, SideUnknown, err
	}
	return b, b.turn, nil
}

// NewBoardFromPlacements builds a position holding exactly pls. Castling
// rights are kept only where king and rook stand on their home squares.
func NewBoardFromPlacements(pls []Placement, turn Side) *Board {
	b := emptyBoard()
	for _, pl := range pls {
		if pl.Pos.IsValid() && !pl.Code.IsEmpty() {
			b.set(pl.Pos, pl.Code)
		}
	}
	b.turn = turn
	for d := CastleDirectionWhiteRight; d <= CastleDirectionBlackLeft; d++ {
		s := SideBlack
		if d.IsWhite() {
			s = SideWhite
		}
		p := posCastling[d]
		b.castleRights.Set(d, b.cells[p.king[0]] == NewCode(s, PieceKing) && b.cells[p.rook[0]] == NewCode(s, PieceRook))
	}
	return &b
}

func emptyBoard() Board {
	return Board{
		kings:         [2 + 1]position.Pos{position.Invalid, position.Invalid, position.Invalid},
		turn:          SideWhite,
		enPassantPos:  position.Invalid,
		fullMoveClock: 1,
	}
}

func (b *Board) Clone() *Board {
	c := *b
	return &c
}

func (b *Board) Turn() Side {
	return b.turn
}

func (b *Board) CastleRights() CastleRights {
	return b.castleRights
}

func (b *Board) EnPassant() position.Pos {
	return b.enPassantPos
}

func (b *Board) HalfMoveClock() uint32 {
	return b.halfMoveClock
}

func (b *Board) FullMoveClock() uint32 {
	return b.fullMoveClock
}

func (b *Board) FEN() string {
	return MarshalFEN(b)
}

func (b *Board) At(pos position.Pos) Code {
	if !pos.IsValid() {
		return CodeEmpty
	}
	return b.cells[pos]
}

// King returns the square of the side's king, or position.Invalid.
func (b *Board) King(s Side) position.Pos {
	if s == SideUnknown {
		return position.Invalid
	}
	return b.kings[s]
}

// Pieces lists every piece from rank 8 to rank 1, file a to file h.
func (b *Board) Pieces() []Placement {
	var pls []Placement
	for y := Height - 1; y >= 0; y-- {
		for x := 0; x < Width; x++ {
			pos := position.New(x, y)
			if c := b.cells[pos]; !c.IsEmpty() {
				pls = append(pls, Placement{Code: c, Pos: pos})
			}
		}
	}
	return pls
}

func (b *Board) CountPieces() int {
	var n int
	for sq := 0; sq < position.TotalCells; sq++ {
		if position.OnBoard(sq) && !b.cells[sq].IsEmpty() {
			n++
		}
	}
	return n
}

func (b *Board) set(pos position.Pos, c Code) {
	if prev := b.cells[pos]; prev.Piece() == PieceKing && b.kings[prev.Side()] == pos {
		b.kings[prev.Side()] = position.Invalid
	}
	b.cells[pos] = c
	if c.Piece() == PieceKing {
		b.kings[c.Side()] = pos
	}
}

func (b *Board) Dump() string {
	builder := strings.Builder{}
	for y := Height - 1; y >= 0; y-- {
		_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n")
		_, _ = builder.WriteString(fmt.Sprintf(" %d |", y+1))
		for x := 0; x < Width; x++ {
			sym := b.cells[position.New(x, y)].SymbolFEN()
			if sym == "" {
				sym = " "
			}
			_, _ = builder.WriteString(fmt.Sprintf(" %s |", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   +---+---+---+---+---+---+---+---+\n   ")
	for x := 0; x < Width; x++ {
		_, _ = builder.WriteString(fmt.Sprintf("  %s ", position.NotationComponentX(x)))
	}
	return builder.String()
}

func (b *Board) Draw() string {
	return Draw(b.Pieces(), false)
}

func (b *Board) DebugString() string {
	return fmt.Sprintf("cast: %s\nenps: %s\nhalf: %4d\nfull: %4d\nstat: %s",
		b.castleRights, b.enPassantPos, b.halfMoveClock, b.fullMoveClock, b.State())
}

var (
	colorSquareLight = color.New(color.FgHiBlack, color.BgHiWhite)
	colorSquareDark  = color.New(color.FgHiBlack, color.BgGreen)
	colorSquareMark  = color.New(color.FgHiBlack, color.BgYellow)
	colorLabel       = color.New(color.Bold)
)

// Draw renders pls as a colored grid. flipped puts rank 1 on top. Squares in
// marks are highlighted.
func Draw(pls []Placement, flipped bool, marks ...position.Pos) string {
	var cells [position.TotalCells]Code
	for _, pl := range pls {
		if pl.Pos.IsValid() {
			cells[pl.Pos] = pl.Code
		}
	}
	marked := make(map[position.Pos]bool, len(marks))
	for _, m := range marks {
		marked[m] = true
	}

	files := make([]int, 0, Width)
	ranks := make([]int, 0, Height)
	for i := 0; i < Width; i++ {
		if flipped {
			files = append(files, Width-1-i)
			ranks = append(ranks, i)
		} else {
			files = append(files, i)
			ranks = append(ranks, Height-1-i)
		}
	}

	builder := strings.Builder{}
	for _, y := range ranks {
		_, _ = builder.WriteString(colorLabel.Sprintf(" %d ", y+1))
		for _, x := range files {
			pos := position.New(x, y)
			c := cells[pos]
			sym := c.Piece().SymbolUnicode(c.Side(), false)
			if c.IsEmpty() {
				sym = " "
			}
			paint := colorSquareLight
			switch {
			case marked[pos]:
				paint = colorSquareMark
			case x%2 == y%2:
				paint = colorSquareDark
			}
			_, _ = builder.WriteString(paint.Sprintf(" %s ", sym))
		}
		_, _ = builder.WriteString("\n")
	}
	_, _ = builder.WriteString("   ")
	for _, x := range files {
		_, _ = builder.WriteString(colorLabel.Sprintf(" %s ", position.NotationComponentX(x)))
	}
	return builder.String()
}
