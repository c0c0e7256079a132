package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"crackthecode/internal/game"
	"crackthecode/internal/service"
)

type fakeRuns struct {
	err error
}

func (f *fakeRuns) NewRun(ctx context.Context, req service.PlayRequest, opts ...game.Option) (*game.Sequencer, error) {
	if f.err != nil {
		return nil, f.err
	}
	src := game.NewListSource([]game.Phrase{{Key: "p1", Text: "ab"}, {Key: "p2", Text: "cd"}})
	return game.NewSequencer(game.Category(), src, opts...), nil
}

func newTestServer(t *testing.T, runs RunFactory) (*httptest.Server, *Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/ws/play", NewWSHandler(hub, runs, service.NewAuth("secret"), "").HandleWS())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

type message struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	State *game.RunView   `json:"state"`
}

// readUntil читает сообщения, пока не встретит нужный тип
func readUntil(t *testing.T, conn *websocket.Conn, typ string) message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		var m message
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("bad message %s: %v", raw, err)
		}
		if m.Type == typ {
			return m
		}
	}
}

func waitCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for hub.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub count = %d, want %d", hub.Count(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPlayOverWebsocket(t *testing.T) {
	srv, hub := newTestServer(t, &fakeRuns{})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/play?mode=category&category=x"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	started := readUntil(t, conn, string(game.EventPhraseStarted))
	if started.State == nil || started.State.Puzzle == nil || started.State.Puzzle.Mask != "__" {
		t.Fatalf("phrase_started state = %+v", started.State)
	}
	waitCount(t, hub, 1)

	send := func(v any) {
		t.Helper()
		if err := conn.WriteJSON(v); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	send(map[string]any{"type": "bogus"})
	readUntil(t, conn, "error")

	send(map[string]any{"type": "submit", "index": 0, "letter": "a"})
	readUntil(t, conn, string(game.EventFocusAdvance))

	send(map[string]any{"type": "submit", "index": 1, "letter": "z"})
	wrong := readUntil(t, conn, string(game.EventWrongGuess))
	if wrong.State.Lives != wrong.State.LivesMax-1 {
		t.Fatalf("lives after wrong guess = %d", wrong.State.Lives)
	}

	send(map[string]any{"type": "hint"})
	hint := readUntil(t, conn, "hint")
	if !strings.Contains(string(hint.Data), game.PlaceholderHint) {
		t.Fatalf("hint = %s", hint.Data)
	}

	send(map[string]any{"type": "state"})
	if st := readUntil(t, conn, "state"); st.State.Status != game.RunPlaying {
		t.Fatalf("status = %s", st.State.Status)
	}

	conn.Close()
	waitCount(t, hub, 0)
}

func TestHandleWSRejects(t *testing.T) {
	tests := []struct {
		name  string
		runs  *fakeRuns
		query string
		code  int
	}{
		{"bad token", &fakeRuns{}, "?token=junk", http.StatusUnauthorized},
		{"unknown mode", &fakeRuns{err: service.ErrUnknownMode}, "?mode=arcade", http.StatusBadRequest},
		{"unknown category", &fakeRuns{err: service.ErrUnknownCategory}, "?mode=category&category=mars", http.StatusNotFound},
	}
	for _, tt := range tests {
		srv, _ := newTestServer(t, tt.runs)
		resp, err := http.Get(srv.URL + "/ws/play" + tt.query)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.code)
		}
	}
}
