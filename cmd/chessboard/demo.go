package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/view"
)

func demo(ctx context.Context, log zerolog.Logger, fen string, steps int, seed uint64) error {
	fmt.Println("============ demo")
	v, err := view.New(&view.Config{
		FEN:               fen,
		AnimationDuration: *animation,
		Logger:            log,
	})
	if err != nil {
		return err
	}
	defer v.Close()

	var (
		timesGenerateMoves []time.Duration
		timesPlay          []time.Duration
	)
	v.On(view.EventAnimationComplete, func(e view.Event) {
		fmt.Printf("\n===== %s\n", e.Label)
		fmt.Println(v.Draw())
		fmt.Println(v.FEN())
	})

	r := board.NewPseudoRand(seed)
	for step := 0; step < steps && ctx.Err() == nil; step++ {
		b := v.Board()
		if !b.State().IsRunning() {
			break
		}
		t1 := time.Now()
		mv, ok := b.RandomMove(r)
		timesGenerateMoves = append(timesGenerateMoves, time.Since(t1))
		if !ok {
			return fmt.Errorf("unexpected move exhaustion: state=%s", b.State())
		}

		t1 = time.Now()
		if err := v.PlayMove(mv); err != nil {
			return err
		}
		timesPlay = append(timesPlay, time.Since(t1))
		if err := v.Sync(); err != nil {
			return err
		}
	}

	avg := func(ds []time.Duration) time.Duration {
		if len(ds) == 0 {
			return 0
		}
		var s time.Duration
		for _, d := range ds {
			s += d
		}
		return s / time.Duration(len(ds))
	}

	b := v.Board()
	fmt.Println()
	fmt.Println(b.State(), b.State().Result(b.Turn()))
	fmt.Println("genmv:", avg(timesGenerateMoves))
	fmt.Println("play:", avg(timesPlay))
	return nil
}
