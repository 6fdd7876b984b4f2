package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const sseKeepAlive = 30 * time.Second

// handleEvents streams game events to the caller as server-sent events. Each
// player holds one live stream per game; reconnecting replaces the old one.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	playerID, _, ok := s.requirePlayer(w, r)
	if !ok {
		return
	}
	game, err := s.store.ViewGame(gameID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if game.member(playerID) == nil {
		writeError(w, http.StatusForbidden, "join the game first")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub := s.hub.Subscribe(gameID, playerID)
	defer s.hub.Unsubscribe(sub)
	log.Printf("sse connected game_id=%s player_id=%s", gameID, playerID)

	writeSSE(w, "snapshot", snapshot(game))
	flusher.Flush()

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Printf("sse disconnected game_id=%s player_id=%s", gameID, playerID)
			return
		case event, open := <-sub.ch:
			if !open {
				return
			}
			writeSSE(w, event.Event, event)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
