package board

import "github.com/daystram/chessboard/position"

type CastleDirection uint8

const (
	CastleDirectionUnknown CastleDirection = iota
	CastleDirectionWhiteRight
	CastleDirectionWhiteLeft
	CastleDirectionBlackRight
	CastleDirectionBlackLeft
)

func (d CastleDirection) String() string {
	switch d {
	case CastleDirectionWhiteRight:
		return "White O-O"
	case CastleDirectionWhiteLeft:
		return "White O-O-O"
	case CastleDirectionBlackRight:
		return "Black O-O"
	case CastleDirectionBlackLeft:
		return "Black O-O-O"
	default:
		return ""
	}
}

func (d CastleDirection) IsWhite() bool {
	return d == CastleDirectionWhiteRight || d == CastleDirectionWhiteLeft
}

func (d CastleDirection) IsRight() bool {
	return d == CastleDirectionWhiteRight || d == CastleDirectionBlackRight
}

func (d CastleDirection) Notation() string {
	if d == CastleDirectionUnknown {
		return ""
	}
	if d.IsRight() {
		return "O-O"
	}
	return "O-O-O"
}

type CastleRights uint8

func (c *CastleRights) Set(d CastleDirection, allow bool) {
	if allow {
		*c |= maskCastleRights[d]
	} else {
		*c &^= maskCastleRights[d]
	}
}

func (c *CastleRights) IsAllowed(d CastleDirection) bool {
	return *c&maskCastleRights[d] != 0
}

func (c *CastleRights) IsSideAllowed(s Side) bool {
	if s == SideWhite {
		return *c&(maskCastleRights[CastleDirectionWhiteLeft]|maskCastleRights[CastleDirectionWhiteRight]) != 0
	}
	return *c&(maskCastleRights[CastleDirectionBlackLeft]|maskCastleRights[CastleDirectionBlackRight]) != 0
}

func (c CastleRights) String() string {
	if c == 0 {
		return "-"
	}
	var s string
	if c.IsAllowed(CastleDirectionWhiteRight) {
		s += "K"
	}
	if c.IsAllowed(CastleDirectionWhiteLeft) {
		s += "Q"
	}
	if c.IsAllowed(CastleDirectionBlackRight) {
		s += "k"
	}
	if c.IsAllowed(CastleDirectionBlackLeft) {
		s += "q"
	}
	return s
}

// castleRightsTouchedBy returns the rights lost when a piece leaves or lands on pos.
func castleRightsTouchedBy(pos position.Pos) CastleRights {
	switch pos {
	case position.E1:
		return maskCastleRights[CastleDirectionWhiteRight] | maskCastleRights[CastleDirectionWhiteLeft]
	case position.H1:
		return maskCastleRights[CastleDirectionWhiteRight]
	case position.A1:
		return maskCastleRights[CastleDirectionWhiteLeft]
	case position.E8:
		return maskCastleRights[CastleDirectionBlackRight] | maskCastleRights[CastleDirectionBlackLeft]
	case position.H8:
		return maskCastleRights[CastleDirectionBlackRight]
	case position.A8:
		return maskCastleRights[CastleDirectionBlackLeft]
	default:
		return 0
	}
}
