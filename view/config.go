package view

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
)

const (
	DefaultAnimationDuration = 200 * time.Millisecond
	DefaultPoolSize          = 32
	defaultQueueSize         = 16
)

// Animator drives the visual slide of one piece. It must return once d has
// elapsed or ctx is done.
type Animator interface {
	Slide(ctx context.Context, piece PieceObject, from, to position.Pos, d time.Duration) error
}

type AnimatorFunc func(ctx context.Context, piece PieceObject, from, to position.Pos, d time.Duration) error

func (f AnimatorFunc) Slide(ctx context.Context, piece PieceObject, from, to position.Pos, d time.Duration) error {
	return f(ctx, piece, from, to, d)
}

// SleepAnimator waits out the slide duration.
var SleepAnimator = AnimatorFunc(func(ctx context.Context, _ PieceObject, _, _ position.Pos, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
})

// PromotionChooser picks the piece a pawn dropped on its last rank becomes.
// It is called synchronously from DragEnd; PieceUnknown selects the queen.
type PromotionChooser func(from, to position.Pos, s board.Side) board.Piece

type Config struct {
	// ID names the view, for instance to save its position. A nil ID is
	// replaced by a random one.
	ID uuid.UUID

	// FEN is the initial position. Empty means the standard starting position.
	FEN string

	// AnimationDuration is the time of one whole chain. Zero applies steps
	// without waiting.
	AnimationDuration time.Duration

	// QueueSize is the initial capacity of the task queue. The queue grows as needed.
	QueueSize int

	Animator         Animator
	PromotionChooser PromotionChooser
	Flipped          bool
	Logger           zerolog.Logger
}

func DefaultConfig() *Config {
	return &Config{
		FEN:               board.DefaultStartingPositionFEN,
		AnimationDuration: DefaultAnimationDuration,
		QueueSize:         defaultQueueSize,
		Animator:          SleepAnimator,
		Logger:            zerolog.Nop(),
	}
}
