package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"monarch-says/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(nil, config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts
}

// testPlayer is one browser: its cookie jar carries the session across
// requests.
type testPlayer struct {
	t      *testing.T
	ts     *httptest.Server
	client *http.Client
	id     string
}

func registerPlayer(t *testing.T, ts *httptest.Server, name string) *testPlayer {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	player := &testPlayer{
		t:      t,
		ts:     ts,
		client: &http.Client{Jar: jar},
	}
	resp := player.do(http.MethodPost, "/api/players", map[string]string{"name": name})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register %s: expected status %d, got %d", name, http.StatusOK, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	player.id = body["playerId"].(string)
	return player
}

func (p *testPlayer) do(method, path string, payload any) *http.Response {
	p.t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			p.t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, p.ts.URL+path, body)
	if err != nil {
		p.t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.t.Fatalf("do request: %v", err)
	}
	p.t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func (p *testPlayer) post(path string, payload any, wantStatus int) map[string]any {
	p.t.Helper()
	resp := p.do(http.MethodPost, path, payload)
	if resp.StatusCode != wantStatus {
		p.t.Fatalf("POST %s: expected status %d, got %d", path, wantStatus, resp.StatusCode)
	}
	if wantStatus == http.StatusNoContent {
		return nil
	}
	return decodeBody(p.t, resp)
}

func (p *testPlayer) get(path string, wantStatus int) map[string]any {
	p.t.Helper()
	resp := p.do(http.MethodGet, path, nil)
	if resp.StatusCode != wantStatus {
		p.t.Fatalf("GET %s: expected status %d, got %d", path, wantStatus, resp.StatusCode)
	}
	if wantStatus != http.StatusOK {
		return nil
	}
	return decodeBody(p.t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}
