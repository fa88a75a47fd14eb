package bench

import (
	"fmt"
	"strings"
	"testing"

	"github.com/daystram/chessboard/board"
)

func TestPerft(t *testing.T) {
	t.Parallel()

	// Results obtained from https://www.chessprogramming.org/Perft_Results.
	tests := map[string][]struct {
		depth     int
		wantNodes uint64
		onlyNodes bool
		wantCap   uint64
		wantEnp   uint64
		wantCas   uint64
		wantPro   uint64
		wantChk   uint64
	}{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1": {
			{
				depth:     0,
				wantNodes: 1,
			},
			{
				depth:     1,
				wantNodes: 20,
			},
			{
				depth:     2,
				wantNodes: 400,
			},
			{
				depth:     3,
				wantNodes: 8_902,
				wantCap:   34,
				wantChk:   12,
			},
			{
				depth:     4,
				wantNodes: 197_281,
				wantCap:   1_576,
				wantChk:   469,
			},
		},
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1": {
			{
				depth:     1,
				wantNodes: 48,
				wantCap:   8,
				wantCas:   2,
			},
			{
				depth:     2,
				wantNodes: 2_039,
				wantCap:   351,
				wantEnp:   1,
				wantCas:   91,
				wantChk:   3,
			},
			{
				depth:     3,
				wantNodes: 97_862,
				wantCap:   17_102,
				wantEnp:   45,
				wantCas:   3_162,
				wantChk:   993,
			},
		},
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1": {
			{
				depth:     1,
				wantNodes: 14,
				wantCap:   1,
				wantChk:   2,
			},
			{
				depth:     2,
				wantNodes: 191,
				wantCap:   14,
				wantChk:   10,
			},
			{
				depth:     3,
				wantNodes: 2_812,
				wantCap:   209,
				wantEnp:   2,
				wantChk:   267,
			},
		},
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1": {
			{
				depth:     1,
				wantNodes: 6,
			},
			{
				depth:     2,
				wantNodes: 264,
				wantCap:   87,
				wantCas:   6,
				wantPro:   48,
				wantChk:   10,
			},
			{
				depth:     3,
				wantNodes: 9_467,
				wantCap:   1_021,
				wantEnp:   4,
				wantPro:   120,
				wantChk:   38,
			},
		},
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8": {
			{
				depth:     1,
				wantNodes: 44,
				onlyNodes: true,
			},
			{
				depth:     2,
				wantNodes: 1_486,
				onlyNodes: true,
			},
			{
				depth:     3,
				wantNodes: 62_379,
				onlyNodes: true,
			},
		},
	}

	for fen, constraints := range tests {
		for _, tt := range constraints {
			fen, tt := fen, tt
			t.Run(fmt.Sprintf("perft(%d): %s", tt.depth, fen), func(t *testing.T) {
				t.Parallel()

				res, err := Perft(tt.depth, fen, false, false, nil)
				if err != nil {
					t.Fatal("unexpected error:", err)
				}

				if res.Nodes != tt.wantNodes {
					t.Errorf("unexpected nodes: got=%d want=%d", res.Nodes, tt.wantNodes)
				}
				if !tt.onlyNodes {
					if res.Captures != tt.wantCap {
						t.Errorf("unexpected cap: got=%d want=%d", res.Captures, tt.wantCap)
					}
					if res.EnPassants != tt.wantEnp {
						t.Errorf("unexpected enp: got=%d want=%d", res.EnPassants, tt.wantEnp)
					}
					if res.Castles != tt.wantCas {
						t.Errorf("unexpected cas: got=%d want=%d", res.Castles, tt.wantCas)
					}
					if res.Promotions != tt.wantPro {
						t.Errorf("unexpected pro: got=%d want=%d", res.Promotions, tt.wantPro)
					}
					if res.Checks != tt.wantChk {
						t.Errorf("unexpected chk: got=%d want=%d", res.Checks, tt.wantChk)
					}
				}
			})
		}
	}
}

func TestPerftParallel(t *testing.T) {
	t.Parallel()

	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	serial, err := Perft(3, fen, false, false, nil)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	parallel, err := Perft(3, fen, true, false, nil)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	serial.Elapsed, parallel.Elapsed = 0, 0
	if serial != parallel {
		t.Errorf("unexpected parallel result: got=%+v want=%+v", parallel, serial)
	}
}

func TestPerftOutput(t *testing.T) {
	t.Parallel()

	out := make(chan string, 64)
	if _, err := Perft(3, board.DefaultStartingPositionFEN, false, true, out); err != nil {
		t.Fatal("unexpected error:", err)
	}
	close(out)

	var lines []string
	for l := range out {
		lines = append(lines, l)
	}
	if len(lines) != 21 {
		t.Fatalf("unexpected line count: got=%d want=%d", len(lines), 21)
	}
	if lines[0] != "b1c3: 440" {
		t.Errorf("unexpected divide line: got=%s want=%s", lines[0], "b1c3: 440")
	}
	if summary := lines[20]; !strings.Contains(summary, "nodes=8,902") {
		t.Errorf("unexpected summary: got=%s", summary)
	}

	if _, err := Perft(1, "not a fen", false, false, nil); err == nil {
		t.Error("error expected: got=nil")
	}
}
