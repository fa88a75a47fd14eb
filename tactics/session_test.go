package tactics

import (
	"testing"
	"time"

	"github.com/daystram/chessboard/position"
	"github.com/daystram/chessboard/view"
)

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func draggableAt(v *view.View, pos position.Pos) (view.PieceObject, bool) {
	p, ok := v.PieceAt(pos)
	return p, ok && p.Draggable
}

func TestSession(t *testing.T) {
	t.Parallel()

	st := newMemStore()
	tr, err := NewTrainer(samplePuzzles(t), Config{Collection: "sample", AutoMoveDelay: time.Millisecond, Store: st})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if err := tr.Load(1); err != nil {
		t.Fatal("unexpected error:", err)
	}
	v, err := view.New(&view.Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer v.Close()

	s, err := Bind(tr, v)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer s.Close()
	if err := v.Sync(); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if got, want := v.FEN(), tr.Current().FEN; got != want {
		t.Fatalf("unexpected FEN: got=%s want=%s", got, want)
	}

	rook, ok := draggableAt(v, position.A1)
	if !ok {
		t.Fatal("unexpected non-draggable rook on a1")
	}
	if _, err := v.DragEnd(rook.ID, position.A7); err != nil {
		t.Fatal("unexpected error:", err)
	}
	eventually(t, "reply", func() bool {
		_, ok := draggableAt(v, position.A7)
		k, king := v.PieceAt(position.F8)
		return ok && king && !k.Draggable
	})
	b := tr.Board()
	if got := v.FEN(); got != b.FEN() {
		t.Errorf("unexpected FEN: got=%s want=%s", got, b.FEN())
	}

	rook, _ = v.PieceAt(position.A7)
	if _, err := v.DragEnd(rook.ID, position.A6); err != nil {
		t.Fatal("unexpected error:", err)
	}
	eventually(t, "take back", func() bool {
		return v.FEN() == b.FEN()
	})
	eventually(t, "drag enabled", func() bool {
		_, ok := draggableAt(v, position.A7)
		return ok
	})
	if got := tr.Progress().Failed; got != 1 {
		t.Errorf("unexpected failed count: got=%d want=%d", got, 1)
	}

	if err := s.Hint(); err != nil {
		t.Fatal("unexpected error:", err)
	}
	rook, _ = v.PieceAt(position.A7)
	if _, err := v.DragEnd(rook.ID, position.A8); err != nil {
		t.Fatal("unexpected error:", err)
	}
	eventually(t, "next puzzle", func() bool {
		return tr.Current().Index == 0 && v.FEN() == tr.puzzles[0].FEN
	})
	if got, _ := st.LoadProgress("sample"); got.Index != 0 || got.Solved != 1 || got.Failed != 1 {
		t.Errorf("unexpected progress: got=%+v", got)
	}
}

func TestSessionFlipsForBlack(t *testing.T) {
	t.Parallel()

	ps := []Puzzle{
		{FEN: "r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", Solution: []string{"a8a1"}},
	}
	tr, err := NewTrainer(ps, Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	v, err := view.New(&view.Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer v.Close()
	s, err := Bind(tr, v)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer s.Close()
	if !v.IsFlipped() {
		t.Error("unexpected flipped state: got=false want=true")
	}
	if err := s.Solution(); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if err := s.Next(); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !v.IsFlipped() {
		t.Error("unexpected flipped state: got=false want=true")
	}
}

func TestSessionBadReplyTakesBack(t *testing.T) {
	t.Parallel()

	fen := "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"
	ps := []Puzzle{{FEN: fen, Solution: []string{"a1a7", "e1e2", "a7a8"}}}
	tr, err := NewTrainer(ps, Config{AutoMoveDelay: -1})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	v, err := view.New(&view.Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer v.Close()
	s, err := Bind(tr, v)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer s.Close()
	if err := v.Sync(); err != nil {
		t.Fatal("unexpected error:", err)
	}

	rook, ok := draggableAt(v, position.A1)
	if !ok {
		t.Fatal("unexpected non-draggable rook on a1")
	}
	if _, err := v.DragEnd(rook.ID, position.A7); err != nil {
		t.Fatal("unexpected error:", err)
	}
	eventually(t, "take back", func() bool {
		_, ok := draggableAt(v, position.A1)
		return ok && v.FEN() == fen
	})
}
