package server

import "time"

// Game is the authoritative in-memory session state. All mutation goes
// through Store.UpdateGame so conflicting actions serialize per game.
type Game struct {
	ID             string
	HostID         string
	Hotness        float64
	Turn           *int
	ActiveQuestion *Question
	Finished       bool
	CreatedAt      time.Time
	Members        []Member
	Answers        []Answer
}

// Member is one player's seat in a game. Index is the 0-based join order and
// never changes; the host always sits at index 0.
type Member struct {
	PlayerID string
	Name     string
	Index    int
	Points   float64
}

// Answer is one player's value for one turn, on the [0,1] scale.
type Answer struct {
	PlayerID    string
	Turn        int
	Value       float64
	SubmittedAt time.Time
}

// Question is the server-side view of a bank entry; only the fields a round
// needs travel here.
type Question struct {
	ID      uint
	Text    string
	AnswerA string
	AnswerB string
	Hotness *float64
}

func (g *Game) started() bool {
	return g.Turn != nil
}

func (g *Game) member(playerID string) *Member {
	for i := range g.Members {
		if g.Members[i].PlayerID == playerID {
			return &g.Members[i]
		}
	}
	return nil
}

func (g *Game) nextIndex() int {
	next := 0
	for _, member := range g.Members {
		if member.Index >= next {
			next = member.Index + 1
		}
	}
	return next
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
