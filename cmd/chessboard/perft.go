package main

import (
	"fmt"

	"github.com/daystram/chessboard/bench"
)

func perft(depth int, fen string) error {
	fmt.Printf("============ perft(%d): parallel dfs\n", depth)
	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			fmt.Println(s)
		}
	}()
	_, err := bench.Perft(depth, fen, true, true, out)
	close(out)
	<-done
	return err
}
