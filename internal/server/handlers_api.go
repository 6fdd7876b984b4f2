package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const maxPlayerNameLen = 64

type registerRequest struct {
	Name string `json:"name"`
}

type submitRequest struct {
	Value *float64 `json:"value"`
}

// handleRegister names the caller and gives them a session. Registering again
// with an existing session just renames the player.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxPlayerNameLen {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	playerID, ok := s.sessions.PlayerID(w, r)
	if !ok {
		playerID = uuid.NewString()
		if err := s.sessions.Issue(w, playerID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
	}
	s.store.RegisterPlayer(playerID, name)
	s.persistPlayer(playerID, name)
	writeJSON(w, http.StatusOK, map[string]string{
		"playerId": playerID,
		"name":     name,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	playerID, name, ok := s.requirePlayer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"playerId": playerID,
		"name":     name,
	})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	playerID, name, ok := s.requirePlayer(w, r)
	if !ok {
		return
	}
	gameID, existing, err := s.CreateGame(playerID, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create game")
		return
	}
	status := http.StatusCreated
	if existing {
		status = http.StatusOK
	}
	s.writeSnapshot(w, status, gameID)
}

// handleGetGame returns the snapshot. A non-member with a session is pulled
// into a running round on sight; a lobby stays invisible until an explicit
// join.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	playerID, name, ok := s.requirePlayer(w, r)
	if !ok {
		return
	}
	game, err := s.store.ViewGame(gameID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if game.member(playerID) == nil {
		if !game.started() || game.Finished {
			http.NotFound(w, r)
			return
		}
		if err := s.Join(gameID, playerID, name); err != nil && !isGuardError(err) {
			writeError(w, http.StatusInternalServerError, "failed to join game")
			return
		}
	}
	s.writeSnapshot(w, http.StatusOK, gameID)
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	s.handleAction(w, r, s.Join)
}

func (s *Server) handleLeaveGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	playerID, _, ok := s.requirePlayer(w, r)
	if !ok {
		return
	}
	if err := s.Leave(gameID, playerID); err != nil {
		s.writeActionError(w, err)
		return
	}
	if _, err := s.store.ViewGame(gameID); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeSnapshot(w, http.StatusOK, gameID)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	s.handleSimpleAction(w, r, s.Start)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	playerID, _, ok := s.requirePlayer(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if err := readJSON(r.Body, &req); err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}
	if err := s.Submit(gameID, playerID, *req.Value); err != nil {
		s.writeActionError(w, err)
		return
	}
	s.writeSnapshot(w, http.StatusOK, gameID)
}

func (s *Server) handleUnsubmitAnswer(w http.ResponseWriter, r *http.Request) {
	s.handleSimpleAction(w, r, s.Unsubmit)
}

func (s *Server) handleAdvanceGame(w http.ResponseWriter, r *http.Request) {
	s.handleSimpleAction(w, r, s.Advance)
}

func (s *Server) handleFinishGame(w http.ResponseWriter, r *http.Request) {
	s.handleSimpleAction(w, r, s.Finish)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, action func(gameID, playerID, name string) error) {
	gameID := r.PathValue("id")
	playerID, name, ok := s.requirePlayer(w, r)
	if !ok {
		return
	}
	if err := action(gameID, playerID, name); err != nil {
		s.writeActionError(w, err)
		return
	}
	s.writeSnapshot(w, http.StatusOK, gameID)
}

func (s *Server) handleSimpleAction(w http.ResponseWriter, r *http.Request, action func(gameID, playerID string) error) {
	gameID := r.PathValue("id")
	playerID, _, ok := s.requirePlayer(w, r)
	if !ok {
		return
	}
	if err := action(gameID, playerID); err != nil {
		s.writeActionError(w, err)
		return
	}
	s.writeSnapshot(w, http.StatusOK, gameID)
}

// requirePlayer resolves the caller's session. Game endpoints refuse
// anonymous requests outright.
func (s *Server) requirePlayer(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	playerID, ok := s.sessions.PlayerID(w, r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return "", "", false
	}
	name, _ := s.store.PlayerName(playerID)
	return playerID, name, true
}

func (s *Server) writeSnapshot(w http.ResponseWriter, status int, gameID string) {
	game, err := s.store.ViewGame(gameID)
	if err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	writeJSON(w, status, snapshot(game))
}

func (s *Server) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errGameNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errValueOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case isGuardError(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isGuardError(err error) bool {
	for _, guard := range []error{
		errGameFinished,
		errNotStarted,
		errAlreadyStarted,
		errRoundComplete,
		errRoundIncomplete,
		errNotMember,
		errNotHost,
		errTooFewPlayers,
	} {
		if errors.Is(err, guard) {
			return true
		}
	}
	return false
}
