package board

import "github.com/daystram/chessboard/position"

const (
	Width  = position.MaxComponentScalar
	Height = position.MaxComponentScalar

	// fiftyMoveLimit is the half-move clock value at which the game is drawn.
	fiftyMoveLimit = 100
)

var (
	DefaultStartingPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	EmptyPositionFEN           = "8/8/8/8/8/8/8/8 w - - 0 1"

	// 0x88 offsets; a ray stops as soon as the running index fails position.OnBoard.
	offsetsKnight   = [8]int{33, 31, 18, 14, -14, -18, -31, -33}
	offsetsDiagonal = [4]int{17, 15, -15, -17}
	offsetsLateral  = [4]int{16, 1, -1, -16}
	offsetsKing     = [8]int{17, 16, 15, 1, -1, -15, -16, -17}

	posCastling = [4 + 1]struct {
		king, rook [2]position.Pos
		empty      []position.Pos
		safe       []position.Pos
	}{
		CastleDirectionWhiteRight: {
			king:  [2]position.Pos{position.E1, position.G1},
			rook:  [2]position.Pos{position.H1, position.F1},
			empty: []position.Pos{position.F1, position.G1},
			safe:  []position.Pos{position.E1, position.F1, position.G1},
		},
		CastleDirectionWhiteLeft: {
			king:  [2]position.Pos{position.E1, position.C1},
			rook:  [2]position.Pos{position.A1, position.D1},
			empty: []position.Pos{position.B1, position.C1, position.D1},
			safe:  []position.Pos{position.E1, position.D1, position.C1},
		},
		CastleDirectionBlackRight: {
			king:  [2]position.Pos{position.E8, position.G8},
			rook:  [2]position.Pos{position.H8, position.F8},
			empty: []position.Pos{position.F8, position.G8},
			safe:  []position.Pos{position.E8, position.F8, position.G8},
		},
		CastleDirectionBlackLeft: {
			king:  [2]position.Pos{position.E8, position.C8},
			rook:  [2]position.Pos{position.A8, position.D8},
			empty: []position.Pos{position.B8, position.C8, position.D8},
			safe:  []position.Pos{position.E8, position.D8, position.C8},
		},
	}

	maskCastleRights = [5]CastleRights{
		CastleDirectionWhiteRight: 0b1000,
		CastleDirectionWhiteLeft:  0b0100,
		CastleDirectionBlackRight: 0b0010,
		CastleDirectionBlackLeft:  0b0001,
	}
)

func castleDirections(s Side) [2]CastleDirection {
	if s == SideWhite {
		return [2]CastleDirection{CastleDirectionWhiteRight, CastleDirectionWhiteLeft}
	}
	return [2]CastleDirection{CastleDirectionBlackRight, CastleDirectionBlackLeft}
}

// pawnRules returns the forward offset, the double-push rank and the promotion rank of s.
func pawnRules(s Side) (forward, homeRank, lastRank int) {
	if s == SideWhite {
		return position.Stride, position.Rank2, position.Rank8
	}
	return -position.Stride, position.Rank7, position.Rank1
}
