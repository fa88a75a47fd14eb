package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/daystram/chessboard/bench"
	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
	"github.com/daystram/chessboard/tactics"
	"github.com/daystram/chessboard/view"
)

var defaultOptions = options{
	events:        false,
	parallelPerft: true,
}

type options struct {
	events        bool
	parallelPerft bool
}

// Interface is a line based controller of a view: one command per line in,
// plain text out.
type Interface struct {
	v       *view.View
	session *tactics.Session
	out     io.Writer
	log     zerolog.Logger
	options options

	outMu sync.Mutex
}

type Option func(*Interface)

func WithTactics(s *tactics.Session) Option {
	return func(i *Interface) { i.session = s }
}

func WithLogger(log zerolog.Logger) Option {
	return func(i *Interface) { i.log = log }
}

// WithEvents prints every view event as an "event" line.
func WithEvents(on bool) Option {
	return func(i *Interface) { i.options.events = on }
}

func NewInterface(v *view.View, out io.Writer, opts ...Option) *Interface {
	i := &Interface{
		v:       v,
		out:     out,
		log:     zerolog.Nop(),
		options: defaultOptions,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run reads commands from r until quit or EOF. Pending animations are waited
// for before it returns.
func (i *Interface) Run(ctx context.Context, r io.Reader) error {
	off := i.v.OnAll(i.printEvent)
	defer off()
	defer func() { _ = i.v.Sync() }()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" {
			return nil
		}
		if err := i.dispatch(ctx, args[0], args[1:]); err != nil {
			i.log.Debug().Err(err).Str("command", args[0]).Msg("command failed")
			i.println("error:", err)
		}
	}
	return scanner.Err()
}

func (i *Interface) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "position":
		return i.commandPosition(ctx, args)
	case "d":
		return i.commandDraw(ctx)
	case "moves":
		return i.commandMoves(ctx)
	case "move":
		return i.commandMove(ctx, args)
	case "drag":
		return i.commandDrag(ctx, args)
	case "go":
		return i.commandGo(ctx, args)
	case "setoption":
		return i.commandSetOption(ctx, args)
	case "reset":
		return i.v.ResetBoard()
	case "clear":
		return i.v.ClearBoard()
	case "flip":
		return i.v.Flip()
	case "drag-on":
		return i.v.EnableDragAndDrop()
	case "drag-off":
		i.v.DisableDragAndDrop()
		return nil
	case "fen":
		i.println(i.v.FEN())
		return nil
	case "sync":
		return i.v.Sync()
	case "hint", "solution", "next":
		return i.commandTactics(ctx, cmd)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (i *Interface) commandPosition(_ context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing position", board.ErrMalformedFEN)
	}
	switch args[0] {
	case "fen":
		return i.v.ShowFEN(strings.Join(args[1:], " "))
	case "startpos":
		return i.v.ShowFEN(board.DefaultStartingPositionFEN)
	}
	return fmt.Errorf("%w: unknown position %q", board.ErrMalformedFEN, args[0])
}

func (i *Interface) commandDraw(_ context.Context) error {
	if err := i.v.Sync(); err != nil {
		return err
	}
	i.println(i.v.Draw())
	return nil
}

func (i *Interface) commandMoves(_ context.Context) error {
	b := i.v.Board()
	mvs := b.LegalMoves()
	ucis := make([]string, 0, len(mvs))
	for _, mv := range mvs {
		ucis = append(ucis, mv.UCI())
	}
	sort.Strings(ucis)
	i.println(fmt.Sprintf("moves %d %s", len(ucis), strings.Join(ucis, " ")))
	i.println("state", b.State(), b.State().Result(b.Turn()))
	return nil
}

func (i *Interface) commandMove(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage move <uci>", board.ErrIllegalMove)
	}
	b := i.v.Board()
	mv, err := b.ParseUCI(args[0])
	if err != nil {
		return err
	}
	return i.v.PlayMove(mv)
}

func (i *Interface) commandDrag(_ context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: usage drag <from> <to>", board.ErrIllegalMove)
	}
	from, err := position.NewPosFromNotation(args[0])
	if err != nil {
		return err
	}
	to, err := position.NewPosFromNotation(args[1])
	if err != nil {
		return err
	}
	if err := i.v.Sync(); err != nil {
		return err
	}
	p, ok := i.v.PieceAt(from)
	if !ok {
		return fmt.Errorf("%w: no piece on %s", board.ErrIllegalMove, from)
	}
	mv, err := i.v.DragEnd(p.ID, to)
	if err != nil {
		return err
	}
	i.println("dragged", mv.UCI())
	return nil
}

func (i *Interface) commandGo(_ context.Context, args []string) error {
	if len(args) != 2 || args[0] != "perft" {
		return fmt.Errorf("usage: go perft <depth>")
	}
	depth, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}

	out := make(chan string, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for s := range out {
			i.println(s)
		}
	}()
	_, err = bench.Perft(depth, i.v.FEN(), i.options.parallelPerft, true, out)
	close(out)
	<-done
	return err
}

func (i *Interface) commandSetOption(_ context.Context, args []string) error {
	if len(args) < 4 || args[0] != "name" || args[2] != "value" {
		return fmt.Errorf("usage: setoption name <name> value <value>")
	}
	value, err := strconv.ParseBool(args[3])
	if err != nil {
		return err
	}
	switch name := strings.ToLower(args[1]); name {
	case "events":
		// Events already queued keep the setting they were queued under.
		if err := i.v.Sync(); err != nil {
			return err
		}
		i.outMu.Lock()
		i.options.events = value
		i.outMu.Unlock()
	case "parallelperft":
		i.options.parallelPerft = value
	default:
		return fmt.Errorf("unknown option %q", name)
	}
	return nil
}

func (i *Interface) commandTactics(_ context.Context, cmd string) error {
	if i.session == nil {
		return fmt.Errorf("no puzzles loaded")
	}
	switch cmd {
	case "hint":
		return i.session.Hint()
	case "solution":
		return i.session.Solution()
	default:
		if err := i.session.Next(); err != nil {
			return err
		}
		i.println(i.session.Trainer().Current())
		return nil
	}
}

func (i *Interface) printEvent(e view.Event) {
	i.outMu.Lock()
	on := i.options.events
	i.outMu.Unlock()
	if !on {
		return
	}
	parts := []string{"event", e.Type.String()}
	switch e.Type {
	case view.EventMove:
		parts = append(parts, e.Move.UCI(), e.FEN)
	case view.EventFEN:
		parts = append(parts, e.FEN)
	case view.EventHighlight:
		parts = append(parts, e.Step.String())
	case view.EventAnimationStart, view.EventAnimationComplete:
		parts = append(parts, e.Label)
	case view.EventSnapBack, view.EventHint:
		parts = append(parts, e.Square.Notation())
	case view.EventSolution:
		parts = append(parts, e.Move.UCI())
	case view.EventFlip:
		parts = append(parts, strconv.FormatBool(e.Flipped))
	}
	i.println(strings.Join(parts, " "))
}

func (i *Interface) println(a ...any) {
	i.outMu.Lock()
	defer i.outMu.Unlock()
	fmt.Fprintln(i.out, a...)
}
