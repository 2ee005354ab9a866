package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/game"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

func newSnapshot(t *testing.T) game.Snapshot {
	t.Helper()
	s, err := game.NewSession(game.DefaultSessionConfig(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	s.Tick()
	return s.Snapshot()
}

func newTestServer(t *testing.T, store storage.LedgerStore) (*Server, *registry.Registry, *game.Ledger) {
	t.Helper()
	reg := registry.New()
	ledger := game.NewLedger(5)
	var persister *storage.Persister
	if store != nil {
		persister = storage.NewPersister(store, ledger, nil)
	}
	return New(DefaultConfig(), reg, persister, nil), reg, ledger
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestStatusWithoutStore(t *testing.T) {
	s, reg, _ := newTestServer(t, nil)
	if err := reg.Register("a", "ann", "local"); err != nil {
		t.Fatal(err)
	}

	rec := get(t, s, "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var resp statusResponse
	decode(t, rec, &resp)
	if resp.Sessions != 1 || resp.BestScore != 0 || resp.Stats != nil {
		t.Errorf("status = %+v", resp)
	}
}

func TestStatusIncludesStats(t *testing.T) {
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer store.Close()

	s, _, ledger := newTestServer(t, store)
	ledger.Insert(game.HighScoreEntry{PlayerName: "ann", Score: 12})
	if err := store.RecordGame(context.Background(), storage.GameRecord{Score: 12, Length: 15, EndedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	var resp statusResponse
	decode(t, get(t, s, "/api/status"), &resp)
	if resp.BestScore != 12 || resp.Capacity != 5 {
		t.Errorf("status = %+v", resp)
	}
	if resp.Stats == nil || resp.Stats.GamesCount != 1 || resp.Stats.HighScore != 12 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}

func TestHighScores(t *testing.T) {
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "scores.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	s, _, ledger := newTestServer(t, store)
	ledger.Insert(game.HighScoreEntry{PlayerName: "bob", Score: 4})
	ledger.Insert(game.HighScoreEntry{PlayerName: "ann", Score: 9})

	var resp struct {
		HighScores []struct {
			Rank       int    `json:"rank"`
			PlayerName string `json:"player_name"`
			Score      int    `json:"score"`
		} `json:"highscores"`
	}
	decode(t, get(t, s, "/api/highscores"), &resp)

	if len(resp.HighScores) != 2 {
		t.Fatalf("got %d rows, want 2", len(resp.HighScores))
	}
	first := resp.HighScores[0]
	if first.Rank != 1 || first.PlayerName != "ann" || first.Score != 9 {
		t.Errorf("first row = %+v", first)
	}
}

func TestHighScoresWithoutStoreIsEmptyList(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	rec := get(t, s, "/api/highscores")
	if !strings.Contains(rec.Body.String(), `"highscores":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSessionEndpoints(t *testing.T) {
	s, reg, _ := newTestServer(t, nil)
	if err := reg.Register("a", "ann", "ssh"); err != nil {
		t.Fatal(err)
	}
	snap := newSnapshot(t)
	reg.Publish("a", snap)

	var list struct {
		Sessions []registry.SessionInfo `json:"sessions"`
	}
	decode(t, get(t, s, "/api/sessions"), &list)
	if len(list.Sessions) != 1 || list.Sessions[0].Player != "ann" {
		t.Errorf("sessions = %+v", list.Sessions)
	}

	var one registry.SessionInfo
	decode(t, get(t, s, "/api/sessions/a"), &one)
	if one.Snapshot.Tick != snap.Tick || one.Snapshot.Score != snap.Score {
		t.Errorf("snapshot = %+v, want tick %d", one.Snapshot, snap.Tick)
	}
	if one.Snapshot.PhaseName != "playing" {
		t.Errorf("phase = %q", one.Snapshot.PhaseName)
	}

	if rec := get(t, s, "/api/sessions/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("missing session code = %d", rec.Code)
	}
}

func TestBoardPNG(t *testing.T) {
	s, reg, _ := newTestServer(t, nil)
	if err := reg.Register("a", "ann", "local"); err != nil {
		t.Fatal(err)
	}
	reg.Publish("a", newSnapshot(t))

	rec := get(t, s, "/api/sessions/a/board.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if w := img.Bounds().Dx(); w != 20*16 {
		t.Errorf("width = %d, want %d", w, 20*16)
	}

	if rec := get(t, s, "/api/sessions/missing/board.png"); rec.Code != http.StatusNotFound {
		t.Errorf("missing board code = %d", rec.Code)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON() failed: %v", err)
	}
	return ev
}

func TestWatchStreamsUntilSessionEnds(t *testing.T) {
	s, reg, _ := newTestServer(t, nil)
	if err := reg.Register("a", "ann", "local"); err != nil {
		t.Fatal(err)
	}
	reg.Publish("a", game.Snapshot{Score: 1})

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/sessions/a"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer conn.Close()

	ev := readEvent(t, conn)
	if ev.Type != "frame" || ev.Snapshot == nil || ev.Snapshot.Score != 1 {
		t.Fatalf("first event = %+v", ev)
	}

	reg.Publish("a", game.Snapshot{Score: 2})
	ev = readEvent(t, conn)
	if ev.Type != "frame" || ev.Snapshot.Score != 2 {
		t.Fatalf("second event = %+v", ev)
	}

	reg.Unregister("a")
	ev = readEvent(t, conn)
	if ev.Type != "closed" {
		t.Errorf("final event = %+v, want closed", ev)
	}
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("ReadMessage() after closed = %v, want a normal close", err)
	}
}

func TestSendClosedReportsWriteError(t *testing.T) {
	serverConn := make(chan *websocket.Conn, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Upgrade(w, r, nil, 0, 0)
		if err != nil {
			t.Errorf("Upgrade() failed: %v", err)
			return
		}
		serverConn <- conn
	}))
	defer ts.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer client.Close()

	conn := <-serverConn
	conn.Close()
	if err := sendClosed(conn); err == nil {
		t.Error("sendClosed() on a closed connection should fail")
	}
}

func TestWatchUnknownSession(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/sessions/nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Dial() should fail for an unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %+v", resp)
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	cfg := Config{Address: "127.0.0.1:0", CellSize: 8}
	s := New(cfg, registry.New(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
