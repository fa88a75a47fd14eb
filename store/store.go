package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

const (
	keyPrefixTactics = "tactics/"
	keyPrefixBoard   = "board/"
)

var ErrNotFound = errors.New("not found")

// Progress is the position of a player inside a puzzle collection.
type Progress struct {
	Index     int       `json:"index"`
	Solved    int       `json:"solved"`
	Failed    int       `json:"failed"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Options struct {
	// Dir holds the database files. Ignored when InMemory is set.
	Dir      string
	InMemory bool
	Logger   zerolog.Logger
}

// Store wraps BadgerDB for trainer progress and saved board positions.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("store: missing database directory")
	}
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = badgerLogger{opts.Logger}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	opts.Logger.Debug().Str("dir", opts.Dir).Bool("in_memory", opts.InMemory).Msg("store opened")
	return &Store{db: db, log: opts.Logger}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveProgress stores p for the collection, stamping UpdatedAt.
func (s *Store) SaveProgress(collection string, p Progress) error {
	p.UpdatedAt = time.Now()
	return s.put(keyPrefixTactics+collection, p)
}

// LoadProgress returns the saved progress of the collection, or the zero
// Progress when nothing was saved yet.
func (s *Store) LoadProgress(collection string) (Progress, error) {
	var p Progress
	err := s.get(keyPrefixTactics+collection, &p)
	if errors.Is(err, ErrNotFound) {
		return Progress{}, nil
	}
	return p, err
}

func (s *Store) SaveFEN(boardID, fen string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(fenKey(boardID), []byte(fen))
	})
}

// LoadFEN returns the last position saved for the board, or ErrNotFound.
func (s *Store) LoadFEN(boardID string) (string, error) {
	var fen string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(fenKey(boardID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: board %s", ErrNotFound, boardID)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			fen = string(val)
			return nil
		})
	})
	return fen, err
}

func fenKey(boardID string) []byte {
	return []byte(keyPrefixBoard + boardID + "/fen")
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Store) get(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// badgerLogger routes badger's own logging into zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(f string, args ...any)   { l.log.Error().Msgf(f, args...) }
func (l badgerLogger) Warningf(f string, args ...any) { l.log.Warn().Msgf(f, args...) }
func (l badgerLogger) Infof(f string, args ...any)    { l.log.Debug().Msgf(f, args...) }
func (l badgerLogger) Debugf(f string, args ...any)   { l.log.Trace().Msgf(f, args...) }
