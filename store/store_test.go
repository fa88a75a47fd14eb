package store

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestProgress(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	p, err := s.LoadProgress("sample")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if p != (Progress{}) {
		t.Errorf("unexpected progress: got=%+v want=zero", p)
	}

	if err := s.SaveProgress("sample", Progress{Index: 3, Solved: 2, Failed: 1}); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if err := s.SaveProgress("other", Progress{Index: 9}); err != nil {
		t.Fatal("unexpected error:", err)
	}
	p, err = s.LoadProgress("sample")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if p.Index != 3 || p.Solved != 2 || p.Failed != 1 {
		t.Errorf("unexpected progress: got=%+v", p)
	}
	if p.UpdatedAt.IsZero() {
		t.Error("unexpected zero update time")
	}
}

func TestFEN(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	if _, err := s.LoadFEN("b1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unexpected error: got=%v want=%v", err, ErrNotFound)
	}

	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if err := s.SaveFEN("b1", fen); err != nil {
		t.Fatal("unexpected error:", err)
	}
	got, err := s.LoadFEN("b1")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if got != fen {
		t.Errorf("unexpected FEN: got=%s want=%s", got, fen)
	}
}

func TestOpenDir(t *testing.T) {
	t.Parallel()

	if _, err := Open(Options{}); err == nil {
		t.Error("unexpected nil error for missing directory")
	}

	dir := t.TempDir()
	s, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if err := s.SaveFEN("b1", "8/8/8/8/8/8/8/8 w - - 0 1"); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal("unexpected error:", err)
	}

	s, err = Open(Options{Dir: dir})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer s.Close()
	got, err := s.LoadFEN("b1")
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if got != "8/8/8/8/8/8/8/8 w - - 0 1" {
		t.Errorf("unexpected FEN: got=%s", got)
	}
}
