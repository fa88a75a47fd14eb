package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/daystram/chessboard/board"
	"github.com/daystram/chessboard/position"
	"github.com/daystram/chessboard/store"
	"github.com/daystram/chessboard/tactics"
	"github.com/daystram/chessboard/view"
)

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *view.View) {
	t.Helper()
	v, err := view.New(&view.Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	s := New(v, opts...)
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		ts.Close()
		s.Close()
		_ = v.Close()
	})
	return ts, v
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal("unexpected error:", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatal("unexpected error:", err)
		}
	}
	return res.StatusCode
}

func TestFENRoutes(t *testing.T) {
	t.Parallel()

	ts, v := newTestServer(t)

	var got fenBody
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/fen", nil, &got); code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", code, http.StatusOK)
	}
	if got.FEN != board.DefaultStartingPositionFEN {
		t.Errorf("unexpected FEN: got=%s want=%s", got.FEN, board.DefaultStartingPositionFEN)
	}

	fen := "4k3/8/8/8/8/8/8/4K3 w - - 0 1"
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/fen", fenBody{FEN: fen}, &got); code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", code, http.StatusOK)
	}
	if got.FEN != fen || v.FEN() != fen {
		t.Errorf("unexpected FEN: got=%s want=%s", got.FEN, fen)
	}

	var e struct {
		Error string `json:"error"`
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/fen", fenBody{FEN: "bad"}, &e); code != http.StatusBadRequest {
		t.Errorf("unexpected status: got=%d want=%d", code, http.StatusBadRequest)
	}
	if e.Error == "" {
		t.Error("unexpected empty error message")
	}
}

func TestMoveRoutes(t *testing.T) {
	t.Parallel()

	ts, v := newTestServer(t)

	var moves movesBody
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/moves", nil, &moves); code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", code, http.StatusOK)
	}
	var n int
	for _, tos := range moves.Moves {
		n += len(tos)
	}
	if n != 20 || len(moves.Moves) != 10 {
		t.Errorf("unexpected moves: got=%d from %d squares want=20 from 10", n, len(moves.Moves))
	}
	if moves.State != board.StateRunning.String() || moves.Turn != board.SideWhite.String() {
		t.Errorf("unexpected state: got=%s turn=%s", moves.State, moves.Turn)
	}

	var got fenBody
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/move", moveBody{Move: "e2e4"}, &got); code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", code, http.StatusOK)
	}
	if want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"; got.FEN != want {
		t.Errorf("unexpected FEN: got=%s want=%s", got.FEN, want)
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/move", moveBody{Move: "e2e4"}, nil); code != http.StatusUnprocessableEntity {
		t.Errorf("unexpected status: got=%d want=%d", code, http.StatusUnprocessableEntity)
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/move", moveBody{Move: "z9"}, nil); code != http.StatusUnprocessableEntity {
		t.Errorf("unexpected status: got=%d want=%d", code, http.StatusUnprocessableEntity)
	}

	if err := v.Sync(); err != nil {
		t.Fatal("unexpected error:", err)
	}
	var pieces []pieceBody
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/pieces", nil, &pieces); code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", code, http.StatusOK)
	}
	if len(pieces) != 32 {
		t.Errorf("unexpected piece count: got=%d want=%d", len(pieces), 32)
	}

	if code := doJSON(t, http.MethodPost, ts.URL+"/api/flip", nil, nil); code != http.StatusNoContent {
		t.Errorf("unexpected status: got=%d want=%d", code, http.StatusNoContent)
	}
	if !v.IsFlipped() {
		t.Error("unexpected flipped state: got=false want=true")
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/reset", nil, nil); code != http.StatusNoContent {
		t.Errorf("unexpected status: got=%d want=%d", code, http.StatusNoContent)
	}
	if v.FEN() != board.DefaultStartingPositionFEN {
		t.Errorf("unexpected FEN: got=%s want=%s", v.FEN(), board.DefaultStartingPositionFEN)
	}
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/tactics/hint", nil, nil); code != http.StatusNotFound {
		t.Errorf("unexpected status: got=%d want=%d", code, http.StatusNotFound)
	}
}

func TestTacticsRoutes(t *testing.T) {
	t.Parallel()

	v, err := view.New(&view.Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer v.Close()
	tr, err := tactics.NewTrainer([]tactics.Puzzle{
		{FEN: "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", Solution: []string{"a1a8"}},
	}, tactics.Config{})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	sess, err := tactics.Bind(tr, v)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer sess.Close()
	s := New(v, WithTactics(sess))
	defer s.Close()
	ts := httptest.NewServer(s)
	defer ts.Close()

	for _, route := range []string{"hint", "solution", "next"} {
		if code := doJSON(t, http.MethodPost, ts.URL+"/api/tactics/"+route, nil, nil); code != http.StatusNoContent {
			t.Errorf("unexpected status for %s: got=%d want=%d", route, code, http.StatusNoContent)
		}
	}
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) eventMessage {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal("unexpected error:", err)
	}
	var m eventMessage
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal("unexpected error:", err)
	}
	return m
}

func TestWebsocket(t *testing.T) {
	t.Parallel()

	st, err := store.Open(store.Options{InMemory: true})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	defer st.Close()
	ts, v := newTestServer(t, WithStore(st))
	conn := dialWS(t, ts)

	hello := readMessage(t, conn)
	if hello.Type != "fen" || hello.FEN != board.DefaultStartingPositionFEN {
		t.Fatalf("unexpected greeting: got=%+v", hello)
	}

	if err := conn.WriteJSON(command{Type: "move", Move: "e2e4"}); err != nil {
		t.Fatal("unexpected error:", err)
	}
	var types []string
	var highlight eventMessage
	for len(types) < 3 {
		m := readMessage(t, conn)
		types = append(types, m.Type)
		if m.Type == "highlight" {
			highlight = m
		}
	}
	if got, want := strings.Join(types, ","), "animationStart,highlight,animationComplete"; got != want {
		t.Errorf("unexpected events: got=%s want=%s", got, want)
	}
	if highlight.From != "e2" || highlight.To != "e4" || highlight.Label != "e4" {
		t.Errorf("unexpected highlight: got=%+v", highlight)
	}
	if err := v.Sync(); err != nil {
		t.Fatal("unexpected error:", err)
	}
	fen, err := st.LoadFEN(v.ID().String())
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if fen != v.FEN() {
		t.Errorf("unexpected saved FEN: got=%s want=%s", fen, v.FEN())
	}

	if err := conn.WriteJSON(command{Type: "bogus"}); err != nil {
		t.Fatal("unexpected error:", err)
	}
	if m := readMessage(t, conn); m.Type != "error" || !strings.Contains(m.Error, "unknown command") {
		t.Errorf("unexpected reply: got=%+v", m)
	}

	pawn, ok := v.PieceAt(position.E7)
	if !ok {
		t.Fatal("unexpected empty e7")
	}
	if err := conn.WriteJSON(command{Type: "drag", PieceID: pawn.ID, To: "e5"}); err != nil {
		t.Fatal("unexpected error:", err)
	}
	seen := map[string]eventMessage{}
	for len(seen) < 2 {
		m := readMessage(t, conn)
		seen[m.Type] = m
	}
	if m, ok := seen["snapBack"]; !ok || m.PieceID != pawn.ID || m.Square != "e7" {
		t.Errorf("unexpected snap back: got=%+v", seen)
	}
	if m, ok := seen["error"]; !ok || m.Error == "" {
		t.Errorf("unexpected error reply: got=%+v", seen)
	}
}
