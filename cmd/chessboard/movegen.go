package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/daystram/chessboard/board"
)

func movegen(fen string, draw bool) error {
	fmt.Println("============ movegen")
	b, turn, err := board.NewBoard(board.WithFEN(fen))
	if err != nil {
		return err
	}
	fmt.Println("to move:", turn)
	fmt.Println(b.Dump())
	fmt.Println(b.Draw())
	fmt.Println(b.State())
	dumpMoves(b)

	if draw {
		for _, mv := range b.LegalMoves() {
			bb := *b
			bb.Apply(mv)
			fmt.Println(b.SAN(mv))
			fmt.Println(board.Draw(bb.Pieces(), false, mv.From, mv.To))
			fmt.Println(bb.FEN())
		}
	}
	return nil
}

func dumpMoves(b *board.Board) {
	mvs := b.LegalMoves()
	for i, mv := range mvs {
		c := b.Chain(mv)
		steps := make([]string, 0, len(c.Steps))
		for _, st := range c.Steps {
			steps = append(steps, st.String())
		}
		fmt.Printf("option %*d: [%s] [%s] %s %s %s => %s (cap=%v) (enp=%v) (cas=%s) (pro=%s) {%s}\n",
			len(strconv.Itoa(len(mvs))), i+1, mv.UCI(), c.Label, mv.IsTurn, mv.Piece, mv.From, mv.To,
			mv.IsCapture, mv.IsEnPassant, mv.IsCastle, mv.IsPromote, strings.Join(steps, " "))
	}
}
