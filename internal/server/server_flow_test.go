package server

import (
	"bufio"
	"net/http"
	"strings"
	"testing"
)

func TestRegisterRequiresName(t *testing.T) {
	ts := newTestServer(t)
	player := registerPlayer(t, ts, "Ada")

	resp := player.do(http.MethodPost, "/api/players", map[string]string{"name": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestRegisterRejectsOversizedBody(t *testing.T) {
	ts := newTestServer(t)
	body := strings.NewReader(`{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`)
	resp, err := http.Post(ts.URL+"/api/players", "application/json", body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestGameEndpointsRequireSession(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/games", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestFullGameOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	host := registerPlayer(t, ts, "Hosta")
	guest := registerPlayer(t, ts, "Bea")

	created := host.post("/api/games", nil, http.StatusCreated)
	gameID := created["id"].(string)
	if created["hostId"] != host.id {
		t.Fatalf("expected hostId %q, got %v", host.id, created["hostId"])
	}

	// Creating again lands the host in the same lobby.
	again := host.post("/api/games", nil, http.StatusOK)
	if again["id"] != gameID {
		t.Fatalf("expected idempotent create, got %v", again["id"])
	}

	joined := guest.post("/api/games/"+gameID+"/join", nil, http.StatusOK)
	if len(joined["players"].([]any)) != 2 {
		t.Fatalf("expected 2 players, got %v", joined["players"])
	}

	started := host.post("/api/games/"+gameID+"/start", nil, http.StatusOK)
	if started["turn"].(float64) != 0 {
		t.Fatalf("expected turn 0, got %v", started["turn"])
	}
	if started["monarchId"] != host.id {
		t.Fatalf("expected host as first monarch, got %v", started["monarchId"])
	}
	if _, ok := started["question"].(map[string]any); !ok {
		t.Fatalf("expected an active question, got %v", started["question"])
	}

	// While the round is open, answered ids leak but values stay hidden.
	mid := host.post("/api/games/"+gameID+"/answers", map[string]float64{"value": 0.2}, http.StatusOK)
	if mid["roundComplete"].(bool) {
		t.Fatal("round must not be complete with one answer")
	}
	if _, ok := mid["answers"]; ok {
		t.Fatal("answer values must stay hidden while the round is open")
	}
	if ids := mid["answeredPlayerIds"].([]any); len(ids) != 1 || ids[0] != host.id {
		t.Fatalf("expected only the host among answered ids, got %v", ids)
	}

	done := guest.post("/api/games/"+gameID+"/answers", map[string]float64{"value": 0.4}, http.StatusOK)
	if !done["roundComplete"].(bool) {
		t.Fatal("expected the round to complete")
	}
	answers, ok := done["answers"].([]any)
	if !ok || len(answers) != 2 {
		t.Fatalf("expected 2 revealed answers, got %v", done["answers"])
	}
	first := answers[0].(map[string]any)
	if first["playerId"] != host.id || first["monarch"] != true {
		t.Fatalf("expected the monarch row first, got %v", first)
	}

	advanced := host.post("/api/games/"+gameID+"/advance", nil, http.StatusOK)
	if advanced["turn"].(float64) != 1 {
		t.Fatalf("expected turn 1, got %v", advanced["turn"])
	}
	if advanced["monarchId"] != guest.id {
		t.Fatalf("expected the guest as monarch on turn 1, got %v", advanced["monarchId"])
	}

	finished := host.post("/api/games/"+gameID+"/finish", nil, http.StatusOK)
	if !finished["finished"].(bool) {
		t.Fatal("expected the game to be finished")
	}
}

func TestGuardViolationsMapToConflict(t *testing.T) {
	ts := newTestServer(t)
	host := registerPlayer(t, ts, "Hosta")
	guest := registerPlayer(t, ts, "Bea")

	created := host.post("/api/games", nil, http.StatusCreated)
	gameID := created["id"].(string)
	guest.post("/api/games/"+gameID+"/join", nil, http.StatusOK)

	resp := guest.do(http.MethodPost, "/api/games/"+gameID+"/start", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for non-host start, got %d", http.StatusConflict, resp.StatusCode)
	}

	resp = host.do(http.MethodPost, "/api/games/"+gameID+"/answers", map[string]float64{"value": 0.5})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d before start, got %d", http.StatusConflict, resp.StatusCode)
	}

	host.post("/api/games/"+gameID+"/start", nil, http.StatusOK)
	resp = host.do(http.MethodPost, "/api/games/"+gameID+"/answers", map[string]float64{"value": 7})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for out-of-range value, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	resp = host.do(http.MethodPost, "/api/games/missing/answers", map[string]float64{"value": 0.5})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d for unknown game, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestUnsubmitOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	host := registerPlayer(t, ts, "Hosta")
	guest := registerPlayer(t, ts, "Bea")

	created := host.post("/api/games", nil, http.StatusCreated)
	gameID := created["id"].(string)
	guest.post("/api/games/"+gameID+"/join", nil, http.StatusOK)
	host.post("/api/games/"+gameID+"/start", nil, http.StatusOK)

	host.post("/api/games/"+gameID+"/answers", map[string]float64{"value": 0.3}, http.StatusOK)
	resp := host.do(http.MethodDelete, "/api/games/"+gameID+"/answers", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if ids := body["answeredPlayerIds"].([]any); len(ids) != 0 {
		t.Fatalf("expected no answered ids after unsubmit, got %v", ids)
	}
}

func TestLobbyInvisibleToStrangers(t *testing.T) {
	ts := newTestServer(t)
	host := registerPlayer(t, ts, "Hosta")
	stranger := registerPlayer(t, ts, "Sol")

	created := host.post("/api/games", nil, http.StatusCreated)
	gameID := created["id"].(string)

	stranger.get("/api/games/"+gameID, http.StatusNotFound)
}

func TestSnapshotPullsStrangerIntoRunningRound(t *testing.T) {
	ts := newTestServer(t)
	host := registerPlayer(t, ts, "Hosta")
	guest := registerPlayer(t, ts, "Bea")
	late := registerPlayer(t, ts, "Lux")

	created := host.post("/api/games", nil, http.StatusCreated)
	gameID := created["id"].(string)
	guest.post("/api/games/"+gameID+"/join", nil, http.StatusOK)
	host.post("/api/games/"+gameID+"/start", nil, http.StatusOK)

	snap := late.get("/api/games/"+gameID, http.StatusOK)
	if len(snap["players"].([]any)) != 3 {
		t.Fatalf("expected the late viewer to be joined, got %v", snap["players"])
	}
}

func TestEventStreamDeliversSnapshotAndEvents(t *testing.T) {
	ts := newTestServer(t)
	host := registerPlayer(t, ts, "Hosta")
	guest := registerPlayer(t, ts, "Bea")

	created := host.post("/api/games", nil, http.StatusCreated)
	gameID := created["id"].(string)
	guest.post("/api/games/"+gameID+"/join", nil, http.StatusOK)

	resp := host.do(http.MethodGet, "/api/games/"+gameID+"/events", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	if name := readSSEEventName(t, reader); name != "snapshot" {
		t.Fatalf("expected initial snapshot event, got %q", name)
	}

	host.post("/api/games/"+gameID+"/start", nil, http.StatusOK)
	if name := readSSEEventName(t, reader); name != eventRoundStarted {
		t.Fatalf("expected %q event, got %q", eventRoundStarted, name)
	}
}

func readSSEEventName(t *testing.T, reader *bufio.Reader) string {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if strings.HasPrefix(line, "event: ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		}
	}
}
