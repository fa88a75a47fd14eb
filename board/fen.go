package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/daystram/chessboard/position"
)

var (
	// ErrMalformedFEN represents a FEN string that cannot be parsed.
	ErrMalformedFEN = errors.New("malformed fen")
)

// UnmarshalFEN parses fen into b. b is left untouched on error.
func UnmarshalFEN(fen string, b *Board) error {
	if b == nil {
		return fmt.Errorf("%w: nil board", ErrMalformedFEN)
	}
	segments := strings.Split(fen, " ")
	if len(segments) != 6 {
		return fmt.Errorf("%w: want 6 fields, got %d", ErrMalformedFEN, len(segments))
	}

	nb := emptyBoard()
	if err := parsePlacement(segments[0], &nb); err != nil {
		return err
	}

	switch segments[1] {
	case "w":
		nb.turn = SideWhite
	case "b":
		nb.turn = SideBlack
	default:
		return fmt.Errorf("%w: invalid side %q", ErrMalformedFEN, segments[1])
	}

	castleRights, err := parseCastleRights(segments[2])
	if err != nil {
		return err
	}
	nb.castleRights = castleRights

	if segments[3] != "-" {
		pos, err := position.NewPosFromNotation(segments[3])
		if err != nil {
			return fmt.Errorf("%w: invalid en passant square %q", ErrMalformedFEN, segments[3])
		}
		if pos.Y() != position.Rank3 && pos.Y() != position.Rank6 {
			return fmt.Errorf("%w: en passant square %s not on rank 3 or 6", ErrMalformedFEN, pos)
		}
		nb.enPassantPos = pos
	}

	halfMoveClock, err := strconv.ParseUint(segments[4], 10, 32)
	if err != nil {
		return fmt.Errorf("%w: invalid half move clock %q", ErrMalformedFEN, segments[4])
	}
	nb.halfMoveClock = uint32(halfMoveClock)

	fullMoveClock, err := strconv.ParseUint(segments[5], 10, 32)
	if err != nil || fullMoveClock == 0 {
		return fmt.Errorf("%w: invalid full move clock %q", ErrMalformedFEN, segments[5])
	}
	nb.fullMoveClock = uint32(fullMoveClock)

	*b = nb
	return nil
}

func parsePlacement(placement string, b *Board) error {
	rows := strings.Split(placement, "/")
	if len(rows) != Height {
		return fmt.Errorf("%w: want %d ranks, got %d", ErrMalformedFEN, Height, len(rows))
	}
	for i, row := range rows {
		y := Height - 1 - i
		x := 0
		for j := 0; j < len(row); j++ {
			sym := row[j]
			if sym >= '1' && sym <= '8' {
				x += int(sym - '0')
				if x > Width {
					return fmt.Errorf("%w: rank %d overflows", ErrMalformedFEN, y+1)
				}
				continue
			}
			c := CodeFromSymbol(sym)
			if c.IsEmpty() {
				return fmt.Errorf("%w: unknown symbol %q in rank %d", ErrMalformedFEN, sym, y+1)
			}
			if x >= Width {
				return fmt.Errorf("%w: rank %d overflows", ErrMalformedFEN, y+1)
			}
			b.set(position.New(x, y), c)
			x++
		}
		if x != Width {
			return fmt.Errorf("%w: rank %d has %d files", ErrMalformedFEN, y+1, x)
		}
	}
	return nil
}

func parseCastleRights(s string) (CastleRights, error) {
	var c CastleRights
	if s == "-" {
		return c, nil
	}
	if s == "" {
		return c, fmt.Errorf("%w: empty castling rights", ErrMalformedFEN)
	}
	for i := 0; i < len(s); i++ {
		var d CastleDirection
		switch s[i] {
		case 'K':
			d = CastleDirectionWhiteRight
		case 'Q':
			d = CastleDirectionWhiteLeft
		case 'k':
			d = CastleDirectionBlackRight
		case 'q':
			d = CastleDirectionBlackLeft
		default:
			return c, fmt.Errorf("%w: invalid castling rights %q", ErrMalformedFEN, s)
		}
		if c.IsAllowed(d) {
			return c, fmt.Errorf("%w: repeated castling right %q", ErrMalformedFEN, s[i])
		}
		c.Set(d, true)
	}
	return c, nil
}

// MarshalFEN serializes b into its canonical FEN string.
func MarshalFEN(b *Board) string {
	builder := strings.Builder{}
	writePlacement(&builder, &b.cells)
	_, _ = builder.WriteString(" " + b.turn.SymbolFEN())
	_, _ = builder.WriteString(" " + b.castleRights.String())
	if b.enPassantPos.IsValid() {
		_, _ = builder.WriteString(" " + b.enPassantPos.Notation())
	} else {
		_, _ = builder.WriteString(" -")
	}
	_, _ = builder.WriteString(fmt.Sprintf(" %d %d", b.halfMoveClock, b.fullMoveClock))
	return builder.String()
}

// PlacementFEN serializes only the piece placement field of pls.
func PlacementFEN(pls []Placement) string {
	var cells [position.TotalCells]Code
	for _, pl := range pls {
		if pl.Pos.IsValid() {
			cells[pl.Pos] = pl.Code
		}
	}
	builder := strings.Builder{}
	writePlacement(&builder, &cells)
	return builder.String()
}

func writePlacement(builder *strings.Builder, cells *[position.TotalCells]Code) {
	for y := Height - 1; y >= 0; y-- {
		empty := 0
		for x := 0; x < Width; x++ {
			c := cells[position.New(x, y)]
			if c.IsEmpty() {
				empty++
				continue
			}
			if empty != 0 {
				_, _ = builder.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			_, _ = builder.WriteString(c.SymbolFEN())
		}
		if empty != 0 {
			_, _ = builder.WriteString(strconv.Itoa(empty))
		}
		if y != 0 {
			_, _ = builder.WriteString("/")
		}
	}
}
