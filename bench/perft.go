package bench

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daystram/chessboard/board"
)

// Result holds perft counters. Everything except Nodes counts the moves of
// the last ply only.
type Result struct {
	Depth      int
	Nodes      uint64
	Captures   uint64
	EnPassants uint64
	Castles    uint64
	Promotions uint64
	Checks     uint64
	Elapsed    time.Duration
}

func (r Result) String() string {
	rate := 0
	if s := r.Elapsed.Seconds(); s > 0 {
		rate = int(float64(r.Nodes) / s)
	}
	return message.NewPrinter(language.English).
		Sprintf("d=%d nodes=%d rate=%dn/s cap=%d enp=%d cas=%d pro=%d chk=%d (%.3fs elapsed)",
			r.Depth, r.Nodes, rate, r.Captures, r.EnPassants, r.Castles, r.Promotions, r.Checks, r.Elapsed.Seconds())
}

type counters struct {
	nodes, cap, enp, cas, pro, chk atomic.Uint64
}

func (c *counters) result(depth int, elapsed time.Duration) Result {
	return Result{
		Depth:      depth,
		Nodes:      c.nodes.Load(),
		Captures:   c.cap.Load(),
		EnPassants: c.enp.Load(),
		Castles:    c.cas.Load(),
		Promotions: c.pro.Load(),
		Checks:     c.chk.Load(),
		Elapsed:    elapsed,
	}
}

// Perft counts the leaf nodes of the legal move tree of fen. With verbose,
// the node count below each root move is sent to out. The summary line is
// always sent to out when out is non-nil.
func Perft(depth int, fen string, parallel, verbose bool, out chan string) (Result, error) {
	b, _, err := board.NewBoard(
		board.WithFEN(fen),
	)
	if err != nil {
		return Result{}, err
	}

	var run perftFunc
	if parallel {
		run = runPerftParallel
	} else {
		run = runPerft
	}

	var c counters
	start := time.Now()
	run(b, depth, true, verbose, out, &c)
	res := c.result(depth, time.Since(start))

	if out != nil {
		out <- res.String()
	}
	return res, nil
}

type perftFunc func(b *board.Board, d int, root, verbose bool, out chan string, c *counters) uint64

func runPerft(b *board.Board, d int, root, verbose bool, out chan string, c *counters) uint64 {
	if d == 0 {
		c.nodes.Add(1)
		return 1
	}

	mvs := b.LegalMoves()
	if d == 1 {
		countLeaves(mvs, c)
		if verbose && root && out != nil {
			for _, mv := range mvs {
				out <- fmt.Sprintf("%s: %d", mv.UCI(), 1)
			}
		}
		return uint64(len(mvs))
	}

	var sum uint64
	for _, mv := range mvs {
		bb := *b
		bb.Apply(mv)
		child := runPerft(&bb, d-1, false, verbose, out, c)
		if verbose && root && out != nil {
			out <- fmt.Sprintf("%s: %d", mv.UCI(), child)
		}
		sum += child
	}
	return sum
}

// runPerftParallel fans the root moves out to goroutines and searches each
// subtree serially.
func runPerftParallel(b *board.Board, d int, root, verbose bool, out chan string, c *counters) uint64 {
	if d <= 1 {
		return runPerft(b, d, root, verbose, out, c)
	}

	var sum atomic.Uint64
	var wg sync.WaitGroup
	for _, mv := range b.LegalMoves() {
		mv := mv
		wg.Add(1)
		go func() {
			defer wg.Done()
			bb := *b
			bb.Apply(mv)
			child := runPerft(&bb, d-1, false, verbose, out, c)
			if verbose && root && out != nil {
				out <- fmt.Sprintf("%s: %d", mv.UCI(), child)
			}
			sum.Add(child)
		}()
	}
	wg.Wait()
	return sum.Load()
}

func countLeaves(mvs []board.Move, c *counters) {
	c.nodes.Add(uint64(len(mvs)))
	for _, leaf := range mvs {
		if leaf.IsCapture {
			c.cap.Add(1)
		}
		if leaf.IsEnPassant {
			c.enp.Add(1)
		}
		if leaf.IsCastle != board.CastleDirectionUnknown {
			c.cas.Add(1)
		}
		if leaf.IsPromote != board.PieceUnknown {
			c.pro.Add(1)
		}
		if leaf.IsCheck {
			c.chk.Add(1)
		}
	}
}
