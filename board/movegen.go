package board

import (
	"fmt"

	"github.com/daystram/chessboard/position"
)

// LegalMoves generates every legal move of the side to move.
func (b *Board) LegalMoves() []Move {
	pseudo := b.generatePseudoMoves(make([]Move, 0, 64))
	legal := pseudo[:0]
	for _, mv := range pseudo {
		bb := *b
		bb.Apply(mv)
		if bb.IsKingChecked(b.turn) {
			continue
		}
		mv.IsCheck = bb.IsKingChecked(bb.turn)
		legal = append(legal, mv)
	}
	return legal
}

// ValidMovesAndResult returns the legal move map of the side to move together
// with the game state.
func (b *Board) ValidMovesAndResult() (MoveMap, State) {
	mvs := b.LegalMoves()
	mm := make(MoveMap)
	for _, mv := range mvs {
		mm[mv.From] = insertSorted(mm[mv.From], mv.To)
	}
	return mm, b.stateOf(mvs)
}

func (b *Board) State() State {
	return b.stateOf(b.LegalMoves())
}

func (b *Board) stateOf(mvs []Move) State {
	checked := b.IsKingChecked(b.turn)
	switch {
	case len(mvs) == 0 && checked:
		return StateCheckmate
	case len(mvs) == 0:
		return StateStalemate
	case checked:
		return StateCheck
	case b.halfMoveClock >= fiftyMoveLimit:
		return StateFiftyMove
	case b.isInsufficientMaterial():
		return StateInsufficientMaterial
	default:
		return StateRunning
	}
}

// IsKingChecked reports whether the king of s is attacked. A side without a
// king is never in check.
func (b *Board) IsKingChecked(s Side) bool {
	k := b.King(s)
	if !k.IsValid() {
		return false
	}
	return b.IsAttacked(k, s.Opposite())
}

// IsAttacked reports whether any piece of side by attacks pos.
func (b *Board) IsAttacked(pos position.Pos, by Side) bool {
	sq := int(pos)

	pawn := NewCode(by, PiecePawn)
	forward, _, _ := pawnRules(by)
	for _, d := range [2]int{-forward - 1, -forward + 1} {
		if from := sq + d; position.OnBoard(from) && b.cells[from] == pawn {
			return true
		}
	}

	knight := NewCode(by, PieceKnight)
	for _, d := range offsetsKnight {
		if from := sq + d; position.OnBoard(from) && b.cells[from] == knight {
			return true
		}
	}

	king := NewCode(by, PieceKing)
	for _, d := range offsetsKing {
		if from := sq + d; position.OnBoard(from) && b.cells[from] == king {
			return true
		}
	}

	queen := NewCode(by, PieceQueen)
	bishop, rook := NewCode(by, PieceBishop), NewCode(by, PieceRook)
	for _, d := range offsetsDiagonal {
		if c := b.firstOnRay(sq, d); c == bishop || c == queen {
			return true
		}
	}
	for _, d := range offsetsLateral {
		if c := b.firstOnRay(sq, d); c == rook || c == queen {
			return true
		}
	}
	return false
}

func (b *Board) firstOnRay(sq, d int) Code {
	for to := sq + d; position.OnBoard(to); to += d {
		if c := b.cells[to]; !c.IsEmpty() {
			return c
		}
	}
	return CodeEmpty
}

func (b *Board) generatePseudoMoves(mvs []Move) []Move {
	s := b.turn
	for sq := 0; sq < position.TotalCells; sq++ {
		if !position.OnBoard(sq) {
			sq += position.Stride/2 - 1 // skip the off-board half of the rank
			continue
		}
		c := b.cells[sq]
		if c.IsEmpty() || c.Side() != s {
			continue
		}
		from := position.Pos(sq)
		switch p := c.Piece(); p {
		case PiecePawn:
			mvs = b.genPawnMoves(mvs, from)
		case PieceKnight:
			mvs = b.genStepMoves(mvs, from, p, offsetsKnight[:])
		case PieceKing:
			mvs = b.genStepMoves(mvs, from, p, offsetsKing[:])
			mvs = b.genCastleMoves(mvs)
		case PieceBishop:
			mvs = b.genRayMoves(mvs, from, p, offsetsDiagonal[:])
		case PieceRook:
			mvs = b.genRayMoves(mvs, from, p, offsetsLateral[:])
		case PieceQueen:
			mvs = b.genRayMoves(mvs, from, p, offsetsDiagonal[:])
			mvs = b.genRayMoves(mvs, from, p, offsetsLateral[:])
		}
	}
	return mvs
}

func (b *Board) genPawnMoves(mvs []Move, from position.Pos) []Move {
	s := b.turn
	forward, homeRank, lastRank := pawnRules(s)

	one := int(from) + forward
	if position.OnBoard(one) && b.cells[one].IsEmpty() {
		mvs = appendPawnMove(mvs, Move{From: from, To: position.Pos(one), Piece: PiecePawn, IsTurn: s}, lastRank)
		two := one + forward
		if from.Y() == homeRank && b.cells[two].IsEmpty() {
			mvs = append(mvs, Move{From: from, To: position.Pos(two), Piece: PiecePawn, IsTurn: s})
		}
	}

	for _, d := range [2]int{forward - 1, forward + 1} {
		to := int(from) + d
		if !position.OnBoard(to) {
			continue
		}
		target := b.cells[to]
		switch {
		case !target.IsEmpty() && target.Side() != s:
			mvs = appendPawnMove(mvs, Move{From: from, To: position.Pos(to), Piece: PiecePawn, IsTurn: s, IsCapture: true}, lastRank)
		case target.IsEmpty() && position.Pos(to) == b.enPassantPos:
			mv := Move{From: from, To: position.Pos(to), Piece: PiecePawn, IsTurn: s, IsCapture: true, IsEnPassant: true}
			if b.cells[mv.CaptureSquare()] == NewCode(s.Opposite(), PiecePawn) {
				mvs = append(mvs, mv)
			}
		}
	}
	return mvs
}

func appendPawnMove(mvs []Move, mv Move, lastRank int) []Move {
	if mv.To.Y() != lastRank {
		return append(mvs, mv)
	}
	for _, p := range PawnPromoteCandidates {
		mv.IsPromote = p
		mvs = append(mvs, mv)
	}
	return mvs
}

func (b *Board) genStepMoves(mvs []Move, from position.Pos, p Piece, offsets []int) []Move {
	s := b.turn
	for _, d := range offsets {
		to := int(from) + d
		if !position.OnBoard(to) {
			continue
		}
		target := b.cells[to]
		if target.Side() == s {
			continue
		}
		mvs = append(mvs, Move{From: from, To: position.Pos(to), Piece: p, IsTurn: s, IsCapture: !target.IsEmpty()})
	}
	return mvs
}

func (b *Board) genRayMoves(mvs []Move, from position.Pos, p Piece, offsets []int) []Move {
	s := b.turn
	for _, d := range offsets {
		for to := int(from) + d; position.OnBoard(to); to += d {
			target := b.cells[to]
			if target.Side() == s {
				break
			}
			mvs = append(mvs, Move{From: from, To: position.Pos(to), Piece: p, IsTurn: s, IsCapture: !target.IsEmpty()})
			if !target.IsEmpty() {
				break
			}
		}
	}
	return mvs
}

func (b *Board) genCastleMoves(mvs []Move) []Move {
	s := b.turn
	for _, d := range castleDirections(s) {
		if !b.castleRights.IsAllowed(d) {
			continue
		}
		hops := posCastling[d]
		if b.cells[hops.king[0]] != NewCode(s, PieceKing) || b.cells[hops.rook[0]] != NewCode(s, PieceRook) {
			continue
		}
		blocked := false
		for _, pos := range hops.empty {
			if !b.cells[pos].IsEmpty() {
				blocked = true
				break
			}
		}
		for _, pos := range hops.safe {
			if blocked {
				break
			}
			blocked = b.IsAttacked(pos, s.Opposite())
		}
		if blocked {
			continue
		}
		mvs = append(mvs, Move{From: hops.king[0], To: hops.king[1], Piece: PieceKing, IsTurn: s, IsCastle: d})
	}
	return mvs
}

// Apply plays mv on the board. mv is expected to come from LegalMoves.
func (b *Board) Apply(mv Move) {
	s := b.turn
	c := b.cells[mv.From]
	isPawn := c.Piece() == PiecePawn

	capture := b.cells[mv.To]
	if pos := mv.CaptureSquare(); pos.IsValid() {
		capture = b.cells[pos]
		b.set(pos, CodeEmpty)
	}
	if mv.IsPromote != PieceUnknown {
		c = NewCode(s, mv.IsPromote)
	}
	b.set(mv.From, CodeEmpty)
	b.set(mv.To, c)
	if mv.IsCastle != CastleDirectionUnknown {
		hops := posCastling[mv.IsCastle]
		rook := b.cells[hops.rook[0]]
		b.set(hops.rook[0], CodeEmpty)
		b.set(hops.rook[1], rook)
	}

	b.castleRights &^= castleRightsTouchedBy(mv.From) | castleRightsTouchedBy(mv.To)

	b.enPassantPos = position.Invalid
	if isPawn && abs(int(mv.To)-int(mv.From)) == 2*position.Stride {
		b.enPassantPos = position.Pos((int(mv.From) + int(mv.To)) / 2)
	}

	if isPawn || !capture.IsEmpty() {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	if s == SideBlack {
		b.fullMoveClock++
	}
	b.turn = s.Opposite()
}

// IsPromotion reports whether moving from-to is a legal pawn promotion.
func (b *Board) IsPromotion(from, to position.Pos) bool {
	for _, mv := range b.LegalMoves() {
		if mv.From == from && mv.To == to && mv.IsPromote != PieceUnknown {
			return true
		}
	}
	return false
}

// FindMove looks up the legal move from-to. An unknown promote piece selects
// the queen for promotions.
func (b *Board) FindMove(from, to position.Pos, promote Piece) (Move, error) {
	if promote == PieceUnknown {
		promote = PieceQueen
	}
	for _, mv := range b.LegalMoves() {
		if mv.From != from || mv.To != to {
			continue
		}
		if mv.IsPromote == PieceUnknown || mv.IsPromote == promote {
			return mv, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
}

// ParseUCI parses a long algebraic move such as e2e4 or e7e8q.
func (b *Board) ParseUCI(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := position.NewPosFromNotation(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	to, err := position.NewPosFromNotation(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	promote := PieceUnknown
	if len(s) == 5 {
		promote = PieceFromSymbol(s[4])
		if !promote.IsPromoteCandidate() {
			return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, s)
		}
	}
	return b.FindMove(from, to, promote)
}

// SAN returns the standard algebraic notation of the legal move mv.
func (b *Board) SAN(mv Move) string {
	var nt string
	if mv.IsCastle != CastleDirectionUnknown {
		nt = mv.IsCastle.Notation()
	} else {
		if mv.Piece == PiecePawn {
			if mv.IsCapture {
				nt += position.NotationComponentX(mv.From.X())
			}
		} else {
			nt += mv.Piece.SymbolAlgebra(SideWhite) + b.disambiguate(mv)
		}
		if mv.IsCapture {
			nt += "x"
		}
		nt += mv.To.Notation()
		if mv.IsPromote != PieceUnknown {
			nt += "=" + mv.IsPromote.SymbolAlgebra(SideWhite)
		}
	}

	bb := *b
	bb.Apply(mv)
	if bb.IsKingChecked(bb.turn) {
		if len(bb.LegalMoves()) == 0 {
			return nt + "#"
		}
		return nt + "+"
	}
	return nt
}

func (b *Board) disambiguate(mv Move) string {
	var ambiguous, sameFile, sameRank bool
	for _, other := range b.LegalMoves() {
		if other.Piece != mv.Piece || other.To != mv.To || other.From == mv.From {
			continue
		}
		ambiguous = true
		sameFile = sameFile || other.From.X() == mv.From.X()
		sameRank = sameRank || other.From.Y() == mv.From.Y()
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return position.NotationComponentX(mv.From.X())
	case !sameRank:
		return position.NotationComponentY(mv.From.Y())
	default:
		return mv.From.Notation()
	}
}

// Chain decomposes the legal move mv into animation steps labelled with its SAN.
func (b *Board) Chain(mv Move) Chain {
	c := Chain{Label: b.SAN(mv)}
	if mv.IsCastle != CastleDirectionUnknown {
		hops := posCastling[mv.IsCastle]
		c.Steps = []Step{
			SlideStep(hops.king[0], hops.king[1]),
			SlideStep(hops.rook[0], hops.rook[1]),
		}
		return c
	}
	if mv.IsCapture {
		c.Steps = append(c.Steps, CaptureStep(mv.From, mv.To, mv.CaptureSquare()))
	} else {
		c.Steps = append(c.Steps, SlideStep(mv.From, mv.To))
	}
	if mv.IsPromote != PieceUnknown {
		c.Steps = append(c.Steps, PromoteStep(mv.To, mv.IsPromote))
	}
	return c
}

func (b *Board) isInsufficientMaterial() bool {
	var minors, knights int
	var bishopColors [2]bool
	for sq := 0; sq < position.TotalCells; sq++ {
		if !position.OnBoard(sq) {
			continue
		}
		switch b.cells[sq].Piece() {
		case PiecePawn, PieceRook, PieceQueen:
			return false
		case PieceKnight:
			minors++
			knights++
		case PieceBishop:
			minors++
			pos := position.Pos(sq)
			bishopColors[(pos.X()+pos.Y())%2] = true
		}
	}
	if minors <= 1 {
		return true
	}
	// only same-colored bishops left
	return knights == 0 && !(bishopColors[0] && bishopColors[1])
}
