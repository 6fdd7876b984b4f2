package server

import (
	"net/http"
	"time"

	"monarch-says/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	hub      *eventHub
	cfg      config.Config
	sessions *sessionStore
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	lifetime := time.Duration(cfg.SessionDays) * 24 * time.Hour
	return &Server{
		store:    NewStore(),
		db:       conn,
		hub:      newEventHub(cfg.EventBufferSize),
		cfg:      cfg,
		sessions: newSessionStore(conn, lifetime),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/players", s.handleRegister)
	mux.HandleFunc("GET /api/players/me", s.handleMe)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("POST /api/games/{id}/join", s.handleJoinGame)
	mux.HandleFunc("POST /api/games/{id}/leave", s.handleLeaveGame)
	mux.HandleFunc("POST /api/games/{id}/start", s.handleStartGame)
	mux.HandleFunc("POST /api/games/{id}/answers", s.handleSubmitAnswer)
	mux.HandleFunc("DELETE /api/games/{id}/answers", s.handleUnsubmitAnswer)
	mux.HandleFunc("POST /api/games/{id}/advance", s.handleAdvanceGame)
	mux.HandleFunc("POST /api/games/{id}/finish", s.handleFinishGame)
	mux.HandleFunc("GET /api/games/{id}/events", s.handleEvents)
	mux.HandleFunc("GET /ws/games/{id}", s.handleWebsocket)
	return mux
}

// Close shuts down every live event stream. In-memory game state is left
// alone; the database mirror is what survives a restart.
func (s *Server) Close() {
	s.hub.Close()
}
