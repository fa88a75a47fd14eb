package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/tactics"
	"github.com/daystram/chessboard/view"
)

func runScript(t *testing.T, script string, opts ...Option) []string {
	t.Helper()
	v, err := view.New(&view.Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer v.Close()

	var out bytes.Buffer
	i := NewInterface(v, &out, opts...)
	if err := i.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatal("unexpected error:", err)
	}
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func hasLine(lines []string, prefix string) bool {
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func TestRun(t *testing.T) {
	t.Parallel()

	lines := runScript(t, strings.Join([]string{
		"fen",
		"move e2e4",
		"moves",
		"setoption name events value true",
		"move e7e5",
		"sync",
		"drag-on",
		"drag g1 f3",
		"drag e8 e6",
		"sync",
		"setoption name events value false",
		"go perft 1",
		"bogus",
		"position fen 4k3/8/8/8/8/8/8/4K3 w - - 0 1",
		"fen",
		"quit",
		"move e2e4",
	}, "\n"))

	tests := []struct {
		name   string
		prefix string
	}{
		{"initial fen", board.DefaultStartingPositionFEN},
		{"black moves", "moves 20 a7a5 a7a6 b7b5 b7b6"},
		{"running state", "state StateRunning *"},
		{"move event start", "event animationStart e5"},
		{"move event highlight", "event highlight e7-e5"},
		{"move event complete", "event animationComplete e5"},
		{"drag", "dragged g1f3"},
		{"drag event", "event move g1f3"},
		{"snap back", "event snapBack e8"},
		{"illegal drag", "error: "},
		{"perft root move", "a7a6: 1"},
		{"unknown command", `error: unknown command "bogus"`},
		{"new fen", "4k3/8/8/8/8/8/8/4K3 w - - 0 1"},
	}
	for _, tt := range tests {
		if !hasLine(lines, tt.prefix) {
			t.Errorf("missing %s line %q in output:\n%s", tt.name, tt.prefix, strings.Join(lines, "\n"))
		}
	}
	var summary bool
	for _, l := range lines {
		summary = summary || strings.Contains(l, "nodes=29")
	}
	if !summary {
		t.Errorf("missing perft summary in output:\n%s", strings.Join(lines, "\n"))
	}
	if hasLine(lines, "event animationStart e4") {
		t.Error("unexpected event before events were enabled")
	}
}

func TestSetOptionEventsOrder(t *testing.T) {
	t.Parallel()

	lines := runScript(t, strings.Join([]string{
		"move e2e4",
		"setoption name events value true",
		"move e7e5",
		"setoption name events value false",
		"move g1f3",
		"sync",
	}, "\n"))
	tests := []struct {
		prefix string
		want   bool
	}{
		{"event animationStart e4", false},
		{"event highlight e2-e4", false},
		{"event animationStart e5", true},
		{"event animationComplete e5", true},
		{"event animationStart Nf3", false},
		{"event highlight g1-f3", false},
	}
	for _, tt := range tests {
		if got := hasLine(lines, tt.prefix); got != tt.want {
			t.Errorf("unexpected %q line: got=%t want=%t\n%s", tt.prefix, got, tt.want, strings.Join(lines, "\n"))
		}
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	lines := runScript(t, strings.Join([]string{
		"position",
		"position fen bad",
		"move e2e5",
		"move",
		"drag e3 e4",
		"drag zz e4",
		"go search",
		"setoption name nope value true",
		"hint",
	}, "\n"))
	if len(lines) != 9 {
		t.Fatalf("unexpected line count: got=%d want=%d\n%s", len(lines), 9, strings.Join(lines, "\n"))
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "error: ") {
			t.Errorf("unexpected line: got=%q want error", l)
		}
	}
}

func TestRunTactics(t *testing.T) {
	t.Parallel()

	v, err := view.New(&view.Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer v.Close()
	tr, err := tactics.NewTrainer([]tactics.Puzzle{
		{White: "Back rank", FEN: "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", Solution: []string{"a1a8"}},
	}, tactics.Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	sess, err := tactics.Bind(tr, v)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer sess.Close()

	var out bytes.Buffer
	i := NewInterface(v, &out, WithTactics(sess), WithEvents(true))
	if err := i.Run(context.Background(), strings.NewReader("hint\nsolution\nnext\n")); err != nil {
		t.Fatal("unexpected error:", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	for _, want := range []string{"event showHint a1", "event showSolution a1a8", "#1 - Back rank"} {
		if !hasLine(lines, want) {
			t.Errorf("missing line %q in output:\n%s", want, out.String())
		}
	}
}
