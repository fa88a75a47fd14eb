package tactics

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/corentings/chess/v2"

	"github.com/daystram/chessboard/board"
)

var (
	ErrNoPuzzles = errors.New("no puzzles")
	ErrBadPuzzle = errors.New("bad puzzle")
)

// Puzzle is one game of a collection: a starting position and the main line
// the player has to find, in UCI notation.
type Puzzle struct {
	Index    int
	Event    string
	White    string
	Black    string
	FEN      string
	Solution []string
}

// LoadPGN reads every game of a PGN collection. Games without moves are
// skipped; a missing FEN tag means the standard starting position.
func LoadPGN(r io.Reader) ([]Puzzle, error) {
	var puzzles []Puzzle
	scanner := chess.NewScanner(r)
	for n := 0; scanner.HasNext(); n++ {
		scanned, err := scanner.ScanGame()
		if err != nil {
			return nil, fmt.Errorf("scan game %d: %w", n, err)
		}
		if strings.TrimSpace(scanned.Raw) == "" {
			continue
		}
		tokens, err := chess.TokenizeGame(scanned)
		if err != nil {
			return nil, fmt.Errorf("%w: game %d: %v", ErrBadPuzzle, n, err)
		}
		game, err := chess.NewParser(tokens).Parse()
		if err != nil {
			return nil, fmt.Errorf("%w: game %d: %v", ErrBadPuzzle, n, err)
		}

		p := Puzzle{
			Index: len(puzzles),
			Event: game.GetTagPair("Event"),
			White: game.GetTagPair("White"),
			Black: game.GetTagPair("Black"),
			FEN:   game.GetTagPair("FEN"),
		}
		if p.FEN == "" {
			p.FEN = board.DefaultStartingPositionFEN
		}
		for _, m := range game.Moves() {
			p.Solution = append(p.Solution, chess.UCINotation{}.Encode(nil, m))
		}
		if len(p.Solution) == 0 {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		puzzles = append(puzzles, p)
	}
	if len(puzzles) == 0 {
		return nil, ErrNoPuzzles
	}
	return puzzles, nil
}

// Validate replays the solution on our own board.
func (p Puzzle) Validate() error {
	b, _, err := board.NewBoard(board.WithFEN(p.FEN))
	if err != nil {
		return fmt.Errorf("%w: puzzle %d: %v", ErrBadPuzzle, p.Index, err)
	}
	if len(p.Solution) == 0 {
		return fmt.Errorf("%w: puzzle %d: empty solution", ErrBadPuzzle, p.Index)
	}
	for i, s := range p.Solution {
		mv, err := b.ParseUCI(s)
		if err != nil {
			return fmt.Errorf("%w: puzzle %d ply %d: %v", ErrBadPuzzle, p.Index, i, err)
		}
		b.Apply(mv)
	}
	return nil
}

func (p Puzzle) String() string {
	return fmt.Sprintf("#%d - %s", p.Index+1, p.White)
}
