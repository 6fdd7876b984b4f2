package server

import (
	"log"
	"sync"
)

// subscription is one live delivery sink. The channel is closed exactly once:
// either by a replacing Subscribe for the same player or by Unsubscribe.
type subscription struct {
	gameID   string
	playerID string
	ch       chan Event
}

// eventHub fans game events out to connected subscribers. Sinks are keyed by
// player id, so a reconnect replaces the stale connection instead of piling
// up phantom sinks. The hub is owned by the Server and torn down with it; it
// is not a package-level singleton.
type eventHub struct {
	mu     sync.Mutex
	buffer int
	closed bool
	games  map[string]map[string]*subscription
}

func newEventHub(buffer int) *eventHub {
	if buffer <= 0 {
		buffer = 1
	}
	return &eventHub{
		buffer: buffer,
		games:  make(map[string]map[string]*subscription),
	}
}

// Subscribe registers a delivery sink for (game, player). Any prior sink for
// the same player is closed and dropped: the latest connection wins.
func (h *eventHub) Subscribe(gameID, playerID string) *subscription {
	sub := &subscription{
		gameID:   gameID,
		playerID: playerID,
		ch:       make(chan Event, h.buffer),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	sinks := h.games[gameID]
	if sinks == nil {
		sinks = make(map[string]*subscription)
		h.games[gameID] = sinks
	}
	if prior, ok := sinks[playerID]; ok {
		close(prior.ch)
	}
	sinks[playerID] = sub
	return sub
}

// Unsubscribe removes a sink. Safe to call twice, and safe to call with a
// stale handle after a reconnect: only the currently registered sink for the
// player is removed and closed.
func (h *eventHub) Unsubscribe(sub *subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	sinks := h.games[sub.gameID]
	if sinks == nil {
		return
	}
	current, ok := sinks[sub.playerID]
	if !ok || current != sub {
		return
	}
	delete(sinks, sub.playerID)
	close(sub.ch)
	if len(sinks) == 0 {
		delete(h.games, sub.gameID)
	}
}

// Publish delivers an event to every sink registered for the game. Delivery
// is fire and forget: a full sink is skipped and logged, never waited on, so
// a slow consumer cannot stall the mutation path. Sends happen under the hub
// lock, which is safe because they never block.
func (h *eventHub) Publish(gameID string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for playerID, sub := range h.games[gameID] {
		select {
		case sub.ch <- event:
		default:
			log.Printf("event dropped game_id=%s player_id=%s event=%s", gameID, playerID, event.Event)
		}
	}
}

// DropGame closes every sink for a game, used when the game itself goes away.
func (h *eventHub) DropGame(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.games[gameID] {
		close(sub.ch)
	}
	delete(h.games, gameID)
}

// Close drops every sink; used at server shutdown.
func (h *eventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, sinks := range h.games {
		for _, sub := range sinks {
			close(sub.ch)
		}
	}
	h.games = make(map[string]map[string]*subscription)
}

func (h *eventHub) subscriberCount(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.games[gameID])
}
