package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
	"github.com/daystram/chessboard/tactics"
	"github.com/daystram/chessboard/view"
)

// FENStore persists the position of a board.
type FENStore interface {
	SaveFEN(boardID, fen string) error
}

type Option func(*Server)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithAccessLog writes one Apache style line per request to w.
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) { s.accessLog = w }
}

// WithTactics exposes the trainer routes under /api/tactics.
func WithTactics(ts *tactics.Session) Option {
	return func(s *Server) { s.tactics = ts }
}

// WithStore saves the position after every settled change.
func WithStore(st FENStore) Option {
	return func(s *Server) { s.store = st }
}

// Server bridges a view to HTTP clients: a JSON API to drive it and a
// websocket pushing its events.
type Server struct {
	v         *view.View
	tactics   *tactics.Session
	store     FENStore
	log       zerolog.Logger
	accessLog io.Writer

	handler  http.Handler
	upgrader websocket.Upgrader

	clientsMu sync.RWMutex
	clients   map[uuid.UUID]*client

	offs []func()
}

func New(v *view.View, opts ...Option) *Server {
	s := &Server{
		v:         v,
		log:       zerolog.Nop(),
		accessLog: io.Discard,
		clients:   make(map[uuid.UUID]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/fen", s.getFENHandler).Methods(http.MethodGet)
	api.HandleFunc("/fen", s.postFENHandler).Methods(http.MethodPost)
	api.HandleFunc("/moves", s.movesHandler).Methods(http.MethodGet)
	api.HandleFunc("/move", s.moveHandler).Methods(http.MethodPost)
	api.HandleFunc("/pieces", s.piecesHandler).Methods(http.MethodGet)
	api.HandleFunc("/reset", s.actionHandler(v.ResetBoard)).Methods(http.MethodPost)
	api.HandleFunc("/clear", s.actionHandler(v.ClearBoard)).Methods(http.MethodPost)
	api.HandleFunc("/flip", s.actionHandler(v.Flip)).Methods(http.MethodPost)
	if s.tactics != nil {
		api.HandleFunc("/tactics/hint", s.actionHandler(s.tactics.Hint)).Methods(http.MethodPost)
		api.HandleFunc("/tactics/solution", s.actionHandler(s.tactics.Solution)).Methods(http.MethodPost)
		api.HandleFunc("/tactics/next", s.actionHandler(s.tactics.Next)).Methods(http.MethodPost)
	}
	r.HandleFunc("/ws", s.wsHandler)
	s.handler = handlers.RecoveryHandler()(handlers.LoggingHandler(s.accessLog, r))

	s.offs = append(s.offs, v.OnAll(s.broadcastEvent))
	if s.store != nil {
		s.offs = append(s.offs,
			v.On(view.EventFEN, s.saveFEN),
			v.On(view.EventAnimationComplete, s.saveFEN),
			v.On(view.EventMove, s.saveFEN),
		)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close detaches from the view and disconnects every client.
func (s *Server) Close() {
	for _, off := range s.offs {
		off()
	}
	s.offs = nil
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for id, c := range s.clients {
		c.close()
		delete(s.clients, id)
	}
}

func (s *Server) saveFEN(view.Event) {
	if err := s.store.SaveFEN(s.v.ID().String(), s.v.FEN()); err != nil {
		s.log.Warn().Err(err).Msg("cannot save position")
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

type fenBody struct {
	FEN string `json:"fen"`
}

type moveBody struct {
	Move string `json:"move"`
}

type movesBody struct {
	Moves map[string][]string `json:"moves"`
	State string              `json:"state"`
	Turn  string              `json:"turn"`
}

type pieceBody struct {
	ID        int    `json:"id"`
	Piece     string `json:"piece"`
	Square    string `json:"square"`
	Draggable bool   `json:"draggable"`
}

func (s *Server) getFENHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, fenBody{FEN: s.v.FEN()})
}

func (s *Server) postFENHandler(w http.ResponseWriter, r *http.Request) {
	var body fenBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.v.ShowFEN(body.FEN); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, fenBody{FEN: s.v.FEN()})
}

func (s *Server) movesHandler(w http.ResponseWriter, _ *http.Request) {
	b := s.v.Board()
	mm, st := b.ValidMovesAndResult()
	body := movesBody{Moves: make(map[string][]string, len(mm)), State: st.String(), Turn: b.Turn().String()}
	for from, tos := range mm {
		for _, to := range tos {
			body.Moves[from.Notation()] = append(body.Moves[from.Notation()], to.Notation())
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) moveHandler(w http.ResponseWriter, r *http.Request) {
	var body moveBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.playUCI(body.Move); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, fenBody{FEN: s.v.FEN()})
}

func (s *Server) playUCI(uci string) error {
	b := s.v.Board()
	mv, err := b.ParseUCI(uci)
	if err != nil {
		return err
	}
	return s.v.PlayMove(mv)
}

func (s *Server) piecesHandler(w http.ResponseWriter, _ *http.Request) {
	var body []pieceBody
	for _, p := range s.v.Pieces() {
		if !p.Visible {
			continue
		}
		body = append(body, pieceBody{
			ID:        p.ID,
			Piece:     p.Code.SymbolFEN(),
			Square:    p.Square.Notation(),
			Draggable: p.Draggable,
		})
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) actionHandler(fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := fn(); err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, board.ErrMalformedFEN), errors.Is(err, position.ErrInvalidNotation):
		return http.StatusBadRequest
	case errors.Is(err, board.ErrIllegalMove), errors.Is(err, view.ErrDragDisabled), errors.Is(err, tactics.ErrPuzzleSolved):
		return http.StatusUnprocessableEntity
	case errors.Is(err, view.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}
