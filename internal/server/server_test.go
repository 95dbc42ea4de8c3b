package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/hailam/bitchess/internal/engine"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	eng := engine.NewEngine()
	eng.SetDepth(1)
	ts := httptest.NewServer(New(eng, nil))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (int, State) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var st State
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode, st
}

func TestInitialState(t *testing.T) {
	ts := newTestServer(t)

	code, st := do(t, ts, http.MethodGet, "/api/state", "")
	if code != http.StatusOK {
		t.Fatalf("GET /api/state = %d", code)
	}
	if st.SideToMove != "White" || st.Status != "ongoing" || st.InCheck {
		t.Errorf("state = %+v", st)
	}
	if len(st.Legal) != 20 {
		t.Errorf("legal moves = %d, want 20", len(st.Legal))
	}
	wantBack := [8]string{"bR", "bN", "bB", "bQ", "bK", "bB", "bN", "bR"}
	if diff := cmp.Diff(wantBack, st.Board[0]); diff != "" {
		t.Errorf("row 0 mismatch (-want +got):\n%s", diff)
	}
	if st.Board[6][4] != "wp" || st.Board[4][4] != "" {
		t.Errorf("e2/e4 = %q/%q", st.Board[6][4], st.Board[4][4])
	}
}

func TestAccessLog(t *testing.T) {
	var accessLog bytes.Buffer
	srv := New(engine.NewEngine(), &accessLog)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/state = %d", rec.Code)
	}
	if !strings.Contains(accessLog.String(), `"GET /api/state HTTP/1.1" 200`) {
		t.Errorf("access log = %q", accessLog.String())
	}
}

func TestMoveAndUndo(t *testing.T) {
	ts := newTestServer(t)

	code, st := do(t, ts, http.MethodPost, "/api/move", `{"from":"e2","to":"e4"}`)
	if code != http.StatusOK {
		t.Fatalf("POST /api/move = %d", code)
	}
	if st.SideToMove != "Black" || st.LastMove != "e2e4" || st.Board[4][4] != "wp" {
		t.Errorf("after e2e4: %+v", st)
	}
	if diff := cmp.Diff([]string{"e4"}, st.MoveLog); diff != "" {
		t.Errorf("move log mismatch (-want +got):\n%s", diff)
	}

	code, st = do(t, ts, http.MethodPost, "/api/undo", "")
	if code != http.StatusOK {
		t.Fatalf("POST /api/undo = %d", code)
	}
	if st.SideToMove != "White" || len(st.MoveLog) != 0 || st.Board[6][4] != "wp" {
		t.Errorf("after undo: %+v", st)
	}

	// Undo with nothing played is a no-op.
	if code, _ := do(t, ts, http.MethodPost, "/api/undo", ""); code != http.StatusOK {
		t.Errorf("second undo = %d", code)
	}
}

func TestMoveErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		body string
		want int
	}{
		{`{"from":"e2","to":"e5"}`, http.StatusUnprocessableEntity},
		{`{"from":"e7","to":"e5"}`, http.StatusUnprocessableEntity},
		{`{"from":"z9","to":"e4"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		if code, _ := do(t, ts, http.MethodPost, "/api/move", tc.body); code != tc.want {
			t.Errorf("POST %s = %d, want %d", tc.body, code, tc.want)
		}
	}

	_, st := do(t, ts, http.MethodGet, "/api/state", "")
	if len(st.MoveLog) != 0 {
		t.Errorf("rejected moves changed the game: %v", st.MoveLog)
	}

	if code, _ := do(t, ts, http.MethodGet, "/api/move", ""); code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/move = %d, want 405", code)
	}
	if code, _ := do(t, ts, http.MethodGet, "/nope", ""); code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, want 404", code)
	}
}

func TestWrongMethodIsNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/move"},
		{http.MethodGet, "/api/undo"},
		{http.MethodGet, "/api/new"},
		{http.MethodGet, "/api/engine"},
		{http.MethodPost, "/api/state"},
		{http.MethodPost, "/board.svg"},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			if code, _ := do(t, ts, tc.method, tc.path, ""); code != http.StatusMethodNotAllowed {
				t.Errorf("%s %s = %d, want 405", tc.method, tc.path, code)
			}
		})
	}

	if code, _ := do(t, ts, http.MethodGet, "/api/nope", ""); code != http.StatusNotFound {
		t.Errorf("GET /api/nope = %d, want 404", code)
	}
}

func TestCheckmateOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	var st State
	for _, mv := range [][2]string{{"f2", "f3"}, {"e7", "e5"}, {"g2", "g4"}, {"d8", "h4"}} {
		body := `{"from":"` + mv[0] + `","to":"` + mv[1] + `"}`
		var code int
		if code, st = do(t, ts, http.MethodPost, "/api/move", body); code != http.StatusOK {
			t.Fatalf("POST %s = %d", body, code)
		}
	}
	if st.Status != "checkmate" || !st.InCheck || len(st.Legal) != 0 {
		t.Errorf("after fool's mate: %+v", st)
	}
	if st.Result != "Black wins by checkmate" {
		t.Errorf("result = %q", st.Result)
	}

	if code, _ := do(t, ts, http.MethodPost, "/api/move", `{"from":"a2","to":"a3"}`); code != http.StatusConflict {
		t.Errorf("move after mate = %d, want 409", code)
	}
	if code, _ := do(t, ts, http.MethodPost, "/api/engine", ""); code != http.StatusConflict {
		t.Errorf("engine after mate = %d, want 409", code)
	}

	code, st := do(t, ts, http.MethodPost, "/api/new", "")
	if code != http.StatusOK || st.Status != "ongoing" || len(st.Legal) != 20 {
		t.Errorf("POST /api/new = %d, %+v", code, st)
	}
}

func TestEngineMove(t *testing.T) {
	ts := newTestServer(t)

	code, st := do(t, ts, http.MethodPost, "/api/engine", "")
	if code != http.StatusOK {
		t.Fatalf("POST /api/engine = %d", code)
	}
	if st.SideToMove != "Black" || len(st.MoveLog) != 1 || st.LastMove == "" {
		t.Errorf("after engine move: %+v", st)
	}
	t.Logf("engine played %s", st.MoveLog[0])
}

func TestBoardSVG(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/move", `{"from":"e2","to":"e4"}`)

	resp, err := ts.Client().Get(ts.URL + "/board.svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	svg := string(body)
	if !strings.Contains(svg, "<svg") || !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Errorf("not an SVG document:\n%s", svg)
	}
	if n := strings.Count(svg, "♟"); n != 8 {
		t.Errorf("black pawns drawn = %d, want 8", n)
	}
	if !strings.Contains(svg, "#cdd26a") {
		t.Error("last move not highlighted")
	}
}

func TestWebSocketPushesState(t *testing.T) {
	ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var st State
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("initial state: %v", err)
	}
	if len(st.Legal) != 20 {
		t.Errorf("initial push has %d legal moves", len(st.Legal))
	}

	do(t, ts, http.MethodPost, "/api/move", `{"from":"g1","to":"f3"}`)
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("pushed state: %v", err)
	}
	if diff := cmp.Diff([]string{"Nf3"}, st.MoveLog); diff != "" {
		t.Errorf("pushed move log mismatch (-want +got):\n%s", diff)
	}
}
