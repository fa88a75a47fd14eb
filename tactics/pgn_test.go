package tactics

import (
	"errors"
	"strings"
	"testing"

	"github.com/daystram/chessboard/board"
)

const samplePGN = `[Event "Mate in one"]
[White "Puzzle A"]
[Black "?"]
[Result "1-0"]
[SetUp "1"]
[FEN "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"]

1. Ra8# 1-0

[Event "Rook drill"]
[White "Puzzle B"]
[Black "?"]
[Result "*"]
[SetUp "1"]
[FEN "4k3/8/4K3/8/8/8/8/R7 w - - 0 1"]

1. Ra7 Kf8 2. Ra8+ *
`

func samplePuzzles(t *testing.T) []Puzzle {
	t.Helper()
	ps, err := LoadPGN(strings.NewReader(samplePGN))
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	return ps
}

func TestLoadPGN(t *testing.T) {
	t.Parallel()

	ps := samplePuzzles(t)
	if len(ps) != 2 {
		t.Fatalf("unexpected puzzle count: got=%d want=%d", len(ps), 2)
	}
	tests := []struct {
		index    int
		event    string
		white    string
		fen      string
		solution []string
	}{
		{0, "Mate in one", "Puzzle A", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", []string{"a1a8"}},
		{1, "Rook drill", "Puzzle B", "4k3/8/4K3/8/8/8/8/R7 w - - 0 1", []string{"a1a7", "e8f8", "a7a8"}},
	}
	for _, tt := range tests {
		p := ps[tt.index]
		if p.Index != tt.index || p.Event != tt.event || p.White != tt.white || p.FEN != tt.fen {
			t.Errorf("unexpected puzzle: got=%+v", p)
		}
		if strings.Join(p.Solution, " ") != strings.Join(tt.solution, " ") {
			t.Errorf("unexpected solution: got=%v want=%v", p.Solution, tt.solution)
		}
	}
	if got, want := ps[1].String(), "#2 - Puzzle B"; got != want {
		t.Errorf("unexpected string: got=%s want=%s", got, want)
	}
}

func TestLoadPGNDefaults(t *testing.T) {
	t.Parallel()

	ps, err := LoadPGN(strings.NewReader("[Event \"Open\"]\n\n1. e4 e5 2. Nf3 *\n"))
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if len(ps) != 1 || ps[0].FEN != board.DefaultStartingPositionFEN {
		t.Fatalf("unexpected puzzles: got=%+v", ps)
	}
	if got := strings.Join(ps[0].Solution, " "); got != "e2e4 e7e5 g1f3" {
		t.Errorf("unexpected solution: got=%s", got)
	}

	if _, err := LoadPGN(strings.NewReader("")); !errors.Is(err, ErrNoPuzzles) {
		t.Errorf("unexpected error: got=%v want=%v", err, ErrNoPuzzles)
	}
}

func TestPuzzleValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		puzzle  Puzzle
		wantErr bool
	}{
		{"valid", Puzzle{FEN: board.DefaultStartingPositionFEN, Solution: []string{"e2e4", "e7e5"}}, false},
		{"bad fen", Puzzle{FEN: "8/8 w - - 0 1", Solution: []string{"e2e4"}}, true},
		{"empty solution", Puzzle{FEN: board.DefaultStartingPositionFEN}, true},
		{"illegal move", Puzzle{FEN: board.DefaultStartingPositionFEN, Solution: []string{"e2e5"}}, true},
		{"out of turn", Puzzle{FEN: board.DefaultStartingPositionFEN, Solution: []string{"e7e5"}}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.puzzle.Validate()
			if tt.wantErr != (err != nil) {
				t.Errorf("unexpected error: got=%v wantErr=%v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrBadPuzzle) {
				t.Errorf("unexpected error: got=%v want=%v", err, ErrBadPuzzle)
			}
		})
	}
}
