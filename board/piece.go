package board

// Piece is a piece type. The values follow the 0x88 board convention where
// every sliding piece has the 0x4 bit set.
type Piece uint8

const (
	PieceUnknown Piece = 0x0
	PiecePawn    Piece = 0x1
	PieceKnight  Piece = 0x2
	PieceKing    Piece = 0x3
	PieceBishop  Piece = 0x5
	PieceRook    Piece = 0x6
	PieceQueen   Piece = 0x7
)

// PawnPromoteCandidates represents the candidates for pawn promotion.
var PawnPromoteCandidates = []Piece{PieceQueen, PieceRook, PieceBishop, PieceKnight}

func (p Piece) String() string {
	return p.Name()
}

func (p Piece) Name() string {
	switch p {
	case PiecePawn:
		return "Pawn"
	case PieceBishop:
		return "Bishop"
	case PieceKnight:
		return "Knight"
	case PieceRook:
		return "Rook"
	case PieceQueen:
		return "Queen"
	case PieceKing:
		return "King"
	default:
		return ""
	}
}

func (p Piece) IsSlider() bool {
	return p&0x4 != 0
}

func (p Piece) IsPromoteCandidate() bool {
	for _, c := range PawnPromoteCandidates {
		if p == c {
			return true
		}
	}
	return false
}

func (p Piece) SymbolAlgebra(s Side) string {
	if p == PiecePawn {
		return ""
	}
	return p.SymbolFEN(s)
}

func (p Piece) SymbolFEN(s Side) string {
	var sym rune
	switch p {
	case PiecePawn:
		sym = 'P'
	case PieceBishop:
		sym = 'B'
	case PieceKnight:
		sym = 'N'
	case PieceRook:
		sym = 'R'
	case PieceQueen:
		sym = 'Q'
	case PieceKing:
		sym = 'K'
	default:
		return ""
	}
	if s == SideBlack {
		sym |= 0x20 // lowercase is +32 uppercase
	}
	return string(sym)
}

func (p Piece) SymbolUnicode(s Side, invert bool) string {
	if invert {
		s = s.Opposite()
	}
	switch s {
	case SideWhite:
		switch p {
		case PiecePawn:
			return "♙"
		case PieceBishop:
			return "♗"
		case PieceKnight:
			return "♘"
		case PieceRook:
			return "♖"
		case PieceQueen:
			return "♕"
		case PieceKing:
			return "♔"
		default:
			return ""
		}
	case SideBlack:
		switch p {
		case PiecePawn:
			return "♟"
		case PieceBishop:
			return "♝"
		case PieceKnight:
			return "♞"
		case PieceRook:
			return "♜"
		case PieceQueen:
			return "♛"
		case PieceKing:
			return "♚"
		default:
			return ""
		}
	default:
		return ""
	}
}

// PieceFromSymbol parses a case-insensitive piece letter.
func PieceFromSymbol(sym byte) Piece {
	switch sym | 0x20 {
	case 'p':
		return PiecePawn
	case 'n':
		return PieceKnight
	case 'b':
		return PieceBishop
	case 'r':
		return PieceRook
	case 'q':
		return PieceQueen
	case 'k':
		return PieceKing
	default:
		return PieceUnknown
	}
}

// Code packs a piece type and its color into one byte: the low three bits
// hold the Piece, the 0x8 bit flags black. The zero Code is an empty square.
type Code uint8

const (
	CodeEmpty Code = 0

	maskCodePiece Code = 0x7
	maskCodeBlack Code = 0x8
)

func NewCode(s Side, p Piece) Code {
	if p == PieceUnknown {
		return CodeEmpty
	}
	switch s {
	case SideWhite:
		return Code(p)
	case SideBlack:
		return Code(p) | maskCodeBlack
	default:
		return CodeEmpty
	}
}

// CodeFromSymbol parses a FEN piece letter; uppercase is white.
func CodeFromSymbol(sym byte) Code {
	p := PieceFromSymbol(sym)
	if p == PieceUnknown {
		return CodeEmpty
	}
	if sym >= 'a' && sym <= 'z' {
		return NewCode(SideBlack, p)
	}
	return NewCode(SideWhite, p)
}

func (c Code) IsEmpty() bool {
	return c == CodeEmpty
}

func (c Code) Piece() Piece {
	return Piece(c & maskCodePiece)
}

func (c Code) Side() Side {
	if c.IsEmpty() {
		return SideUnknown
	}
	if c&maskCodeBlack != 0 {
		return SideBlack
	}
	return SideWhite
}

func (c Code) SymbolFEN() string {
	return c.Piece().SymbolFEN(c.Side())
}

func (c Code) String() string {
	if c.IsEmpty() {
		return ""
	}
	return c.Side().String() + " " + c.Piece().Name()
}
