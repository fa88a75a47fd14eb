package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/daystram/chessboard/console"
	"github.com/daystram/chessboard/server"
	"github.com/daystram/chessboard/store"
	"github.com/daystram/chessboard/tactics"
	"github.com/daystram/chessboard/view"
)

const shutdownTimeout = 5 * time.Second

// setup opens the view and binds the trainer when a collection is given.
// With restore, a position saved in the database replaces fen.
func setup(log zerolog.Logger, fen string, restore bool) (*view.View, *store.Store, *tactics.Session, func(), error) {
	var st *store.Store
	id := boardID(*boardName)
	if *dbDir != "" {
		var err error
		st, err = store.Open(store.Options{Dir: *dbDir, Logger: log})
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if saved, err := st.LoadFEN(id.String()); err == nil && restore {
			log.Info().Str("fen", saved).Msg("restoring saved position")
			fen = saved
		}
	}

	v, err := view.New(&view.Config{
		ID:                id,
		FEN:               fen,
		AnimationDuration: *animation,
		Logger:            log,
	})
	if err != nil {
		closeStore(log, st)
		return nil, nil, nil, nil, err
	}

	var sess *tactics.Session
	cleanup := func() {
		if sess != nil {
			sess.Close()
		}
		_ = v.Close()
		closeStore(log, st)
	}
	if *tacticsPGN != "" {
		sess, err = loadTactics(log, v, st, *tacticsPGN)
	} else {
		err = v.EnableDragAndDrop()
	}
	if err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}
	return v, st, sess, cleanup, nil
}

func closeStore(log zerolog.Logger, st *store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		log.Warn().Err(err).Msg("cannot close store")
	}
}

func loadTactics(log zerolog.Logger, v *view.View, st *store.Store, path string) (*tactics.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	puzzles, err := tactics.LoadPGN(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	cfg := tactics.Config{Collection: path, Logger: log}
	if st != nil {
		cfg.Store = st
	}
	tr, err := tactics.NewTrainer(puzzles, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Int("puzzles", tr.Len()).Str("current", tr.Current().String()).Msg("tactics loaded")
	return tactics.Bind(tr, v)
}

func serve(ctx context.Context, log zerolog.Logger, fen, addr string, restore bool) error {
	v, st, sess, cleanup, err := setup(log, fen, restore)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := []server.Option{
		server.WithLogger(log),
		server.WithAccessLog(log.With().Str("component", "http").Logger()),
	}
	if st != nil {
		opts = append(opts, server.WithStore(st))
	}
	if sess != nil {
		opts = append(opts, server.WithTactics(sess))
	}
	s := server.New(v, opts...)
	defer s.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("board", v.ID().String()).Msg("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runConsole(ctx context.Context, log zerolog.Logger, fen string, restore bool) error {
	v, st, sess, cleanup, err := setup(log, fen, restore)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := []console.Option{console.WithLogger(log), console.WithEvents(*debug)}
	if sess != nil {
		opts = append(opts, console.WithTactics(sess))
	}
	if st != nil {
		defer func() {
			if err := st.SaveFEN(v.ID().String(), v.FEN()); err != nil {
				log.Warn().Err(err).Msg("cannot save position")
			}
		}()
	}
	return console.NewInterface(v, os.Stdout, opts...).Run(ctx, os.Stdin)
}
