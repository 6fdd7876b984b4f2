package server

// Event names on the wire. Subscribers treat every event as a hint to
// re-fetch the authoritative snapshot, never as the state itself.
const (
	eventPlayerJoined  = "playerJoined"
	eventPlayerLeft    = "playerLeft"
	eventRoundStarted  = "roundStarted"
	eventRoundComplete = "roundComplete"
	eventRoundAdvanced = "roundAdvanced"
	eventGameFinished  = "gameFinished"
)

// Event is the minimal payload pushed to game subscribers.
type Event struct {
	Event        string `json:"event"`
	PlayerID     string `json:"playerId,omitempty"`
	LastPlayerID string `json:"lastPlayerId,omitempty"`
}
