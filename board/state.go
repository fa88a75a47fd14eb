package board

type State uint8

const (
	// StateUnknown is when game state is unknown.
	StateUnknown State = iota

	// StateRunning is when game is on progress.
	StateRunning

	// StateCheck is when the side to move is in check but has a legal move.
	StateCheck

	// StateCheckmate is when the side to move is in check and has no legal move.
	StateCheckmate

	// StateStalemate is when a side cannot move a piece and King is not in check.
	StateStalemate

	// StateFiftyMove is when the game has gone through 50 moves without any captures or pawn moves.
	StateFiftyMove

	// StateInsufficientMaterial is when neither side can deliver mate.
	StateInsufficientMaterial
)

func (s State) IsRunning() bool {
	return s == StateRunning || s == StateCheck
}

func (s State) IsCheck() bool {
	return s == StateCheck
}

func (s State) IsCheckmate() bool {
	return s == StateCheckmate
}

func (s State) IsDraw() bool {
	switch s {
	case StateStalemate, StateFiftyMove, StateInsufficientMaterial:
		return true
	default:
		return false
	}
}

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "StateUnknown"
	case StateRunning:
		return "StateRunning"
	case StateCheck:
		return "StateCheck"
	case StateCheckmate:
		return "StateCheckmate"
	case StateStalemate:
		return "StateStalemate"
	case StateFiftyMove:
		return "StateFiftyMove"
	case StateInsufficientMaterial:
		return "StateInsufficientMaterial"
	default:
		return ""
	}
}

// Result is the short PGN-style result of a finished game from the side to
// move's perspective, or "*" while running.
func (s State) Result(turn Side) string {
	switch {
	case s.IsCheckmate() && turn == SideWhite:
		return "0-1"
	case s.IsCheckmate():
		return "1-0"
	case s.IsDraw():
		return "1/2-1/2"
	default:
		return "*"
	}
}
