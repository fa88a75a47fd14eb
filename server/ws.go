package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
	"github.com/daystram/chessboard/view"
)

const clientSendBuffer = 64

var errUnknownCommand = errors.New("unknown command")

// eventMessage is the JSON form of a view event pushed to every client.
type eventMessage struct {
	Type    string `json:"type"`
	FEN     string `json:"fen,omitempty"`
	Label   string `json:"label,omitempty"`
	Move    string `json:"move,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Capture string `json:"capture,omitempty"`
	Square  string `json:"square,omitempty"`
	PieceID int    `json:"pieceId"`
	Flipped bool   `json:"flipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// command is a request sent by a client over the websocket.
type command struct {
	Type    string `json:"type"`
	PieceID int    `json:"pieceId"`
	To      string `json:"to"`
	Move    string `json:"move"`
	FEN     string `json:"fen"`
}

func notation(p position.Pos) string {
	if !p.IsValid() {
		return ""
	}
	return p.Notation()
}

func newEventMessage(e view.Event) eventMessage {
	m := eventMessage{
		Type:    e.Type.String(),
		FEN:     e.FEN,
		Label:   e.Label,
		PieceID: e.PieceID,
		Flipped: e.Flipped,
	}
	if e.Step != (board.Step{}) {
		m.From, m.To = notation(e.Step.From), notation(e.Step.To)
		if e.Step.IsCapture {
			m.Capture = notation(e.Step.Capture)
		}
	}
	if e.Type == view.EventHint || e.Type == view.EventSnapBack {
		m.Square = notation(e.Square)
	}
	if e.Move.From.IsValid() && e.Move.To.IsValid() && e.Move.From != e.Move.To {
		m.Move = e.Move.UCI()
	}
	return m
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	log  zerolog.Logger
	send chan []byte

	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// writePump is the only writer of the connection.
func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.log.Debug().Err(err).Msg("write failed")
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}
	c.log = s.log.With().Str("client", c.id.String()).Logger()
	c.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client connected")

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()

	go c.writePump()
	s.sendTo(c, eventMessage{Type: view.EventFEN.String(), FEN: s.v.FEN(), Flipped: s.v.IsFlipped()})
	go s.readPump(c)
}

func (s *Server) readPump(c *client) {
	defer s.drop(c)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Debug().Err(err).Msg("client disconnected")
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.sendTo(c, eventMessage{Type: "error", Error: err.Error()})
			continue
		}
		if err := s.dispatch(cmd); err != nil {
			c.log.Debug().Err(err).Str("command", cmd.Type).Msg("command rejected")
			s.sendTo(c, eventMessage{Type: "error", Error: err.Error()})
		}
	}
}

func (s *Server) dispatch(cmd command) error {
	switch cmd.Type {
	case "drag":
		to, err := position.NewPosFromNotation(cmd.To)
		if err != nil {
			return err
		}
		_, err = s.v.DragEnd(cmd.PieceID, to)
		return err
	case "move":
		return s.playUCI(cmd.Move)
	case "fen":
		return s.v.ShowFEN(cmd.FEN)
	case "reset":
		return s.v.ResetBoard()
	case "clear":
		return s.v.ClearBoard()
	case "flip":
		return s.v.Flip()
	case "enableDrag":
		return s.v.EnableDragAndDrop()
	}
	return fmt.Errorf("%w: %q", errUnknownCommand, cmd.Type)
}

func (s *Server) drop(c *client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		c.close()
	}
}

func (s *Server) sendTo(c *client, m eventMessage) {
	data, err := json.Marshal(m)
	if err != nil {
		s.log.Error().Err(err).Msg("cannot encode message")
		return
	}
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn().Msg("client too slow, message dropped")
	}
}

func (s *Server) broadcastEvent(e view.Event) {
	data, err := json.Marshal(newEventMessage(e))
	if err != nil {
		s.log.Error().Err(err).Msg("cannot encode event")
		return
	}
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, c := range s.clients {
		select {
		case c.send <- data:
		default:
			c.log.Warn().Str("event", e.Type.String()).Msg("client too slow, event dropped")
		}
	}
}
