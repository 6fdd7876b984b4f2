package server

import (
	"errors"
	"sync"
)

var errGameNotFound = errors.New("game not found")

// Store holds every live game plus the player name registry. The store mutex
// is the serialization boundary the state machine relies on: every
// read-decide-write against a game happens inside UpdateGame, so two
// concurrent submits can never both observe an incomplete round and both
// claim its completion.
type Store struct {
	mu      sync.Mutex
	games   map[string]*Game
	players map[string]string
}

func NewStore() *Store {
	return &Store{
		games:   make(map[string]*Game),
		players: make(map[string]string),
	}
}

// AddGame registers a new game; the id must be fresh.
func (s *Store) AddGame(game *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; ok {
		return errors.New("game already exists")
	}
	s.games[game.ID] = game
	return nil
}

// UpdateGame applies update to the game under the store lock. When update
// returns an error the game is left untouched by convention: guards run
// before any mutation inside every action closure.
func (s *Store) UpdateGame(id string, update func(game *Game) error) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil, errGameNotFound
	}
	if err := update(game); err != nil {
		return nil, err
	}
	return copyGame(game), nil
}

// ViewGame returns a deep copy of the game, safe to read without the lock.
func (s *Store) ViewGame(id string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil, errGameNotFound
	}
	return copyGame(game), nil
}

func copyGame(game *Game) *Game {
	view := *game
	if game.Turn != nil {
		turn := *game.Turn
		view.Turn = &turn
	}
	if game.ActiveQuestion != nil {
		question := *game.ActiveQuestion
		view.ActiveQuestion = &question
	}
	view.Members = append([]Member(nil), game.Members...)
	view.Answers = append([]Answer(nil), game.Answers...)
	return &view
}

// DeleteGame drops a game entirely (abandoned lobby).
func (s *Store) DeleteGame(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// CreateForHost inserts the game unless its host already has an unfinished
// one, in which case the existing id is returned. Find and insert share one
// critical section, so concurrent creates by the same host settle on a
// single lobby.
func (s *Store) CreateForHost(game *Game) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.games {
		if existing.HostID == game.HostID && !existing.Finished {
			return id, true
		}
	}
	s.games[game.ID] = game
	return game.ID, false
}

// RegisterPlayer remembers a player's display name.
func (s *Store) RegisterPlayer(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[id] = name
}

// PlayerName looks up a registered player's name.
func (s *Store) PlayerName(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.players[id]
	return name, ok
}
