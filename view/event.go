package view

import (
	"sync"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
)

type EventType uint8

const (
	EventUnknown EventType = iota

	// EventMove carries a move accepted from a drag, with the FEN after it.
	EventMove

	// EventFEN carries the FEN of a position that has just been shown.
	EventFEN

	// EventHighlight carries the first step of the last played chain.
	EventHighlight

	EventAnimationStart
	EventAnimationComplete
	EventClearHighlight
	EventResetBoard
	EventClearBoard

	// EventSnapBack carries the piece and square of a rejected drag.
	EventSnapBack

	EventFlip
	EventHint
	EventSolution
)

var eventTypes = []EventType{
	EventMove, EventFEN, EventHighlight, EventAnimationStart, EventAnimationComplete, EventClearHighlight,
	EventResetBoard, EventClearBoard, EventSnapBack, EventFlip, EventHint, EventSolution,
}

func (t EventType) String() string {
	switch t {
	case EventMove:
		return "move"
	case EventFEN:
		return "fen"
	case EventHighlight:
		return "highlight"
	case EventAnimationStart:
		return "animationStart"
	case EventAnimationComplete:
		return "animationComplete"
	case EventClearHighlight:
		return "clearHighlight"
	case EventResetBoard:
		return "resetboard"
	case EventClearBoard:
		return "clearboard"
	case EventSnapBack:
		return "snapBack"
	case EventFlip:
		return "flip"
	case EventHint:
		return "showHint"
	case EventSolution:
		return "showSolution"
	default:
		return ""
	}
}

type Event struct {
	Type    EventType
	FEN     string
	Label   string
	Move    board.Move
	Step    board.Step
	PieceID int
	Square  position.Pos
	Flipped bool
}

// Listener receives events on the view's worker goroutine. It may call any
// View method except Sync and Close, which would wait on the listener itself.
type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}

type bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[EventType][]listenerEntry
}

func newBus() *bus {
	return &bus{listeners: make(map[EventType][]listenerEntry)}
}

func (b *bus) on(t EventType, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners[t] = append(b.listeners[t], listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			entries := b.listeners[t]
			for i, e := range entries {
				if e.id == id {
					b.listeners[t] = append(entries[:i:i], entries[i+1:]...)
					return
				}
			}
		})
	}
}

func (b *bus) emit(e Event) {
	b.mu.RLock()
	entries := append([]listenerEntry(nil), b.listeners[e.Type]...)
	b.mu.RUnlock()
	for _, entry := range entries {
		entry.fn(e)
	}
}
