package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

// handleWebsocket serves the same event stream as the SSE endpoint over a
// websocket. The client never sends anything meaningful; the read loop exists
// only to notice the peer going away.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
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
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected game_id=%s player_id=%s remote=%s", gameID, playerID, r.RemoteAddr)

	sub := s.hub.Subscribe(gameID, playerID)
	done := make(chan struct{})
	go s.writeWS(conn, sub, game, done)
	s.readWS(conn, gameID, playerID)
	close(done)
	s.hub.Unsubscribe(sub)
	_ = conn.Close()
}

func (s *Server) writeWS(conn *websocket.Conn, sub *subscription, game *Game, done <-chan struct{}) {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(snapshot(game)); err != nil {
		return
	}
	for {
		select {
		case <-done:
			return
		case event, open := <-sub.ch:
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

func (s *Server) readWS(conn *websocket.Conn, gameID, playerID string) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected game_id=%s player_id=%s error=%v", gameID, playerID, err)
			return
		}
	}
}
