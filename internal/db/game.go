package db

import "time"

// Game holds a single party session. Turn and ActiveQuestionID are nil while
// the game sits in the lobby and set together when a round starts.
type Game struct {
	ID               string    `gorm:"primaryKey;size:36"`
	HostID           string    `gorm:"index;size:36;not null"`
	Hotness          float64   `gorm:"not null;default:2"`
	Turn             *int      `gorm:""`
	ActiveQuestionID *uint     `gorm:"index"`
	Finished         bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
	Members          []GameMember
	Answers          []Answer
	Events           []Event
}

// GameMember records membership and join order. Index 0 is always the host.
type GameMember struct {
	GameID    string    `gorm:"primaryKey;size:36"`
	PlayerID  string    `gorm:"primaryKey;size:36"`
	Index     int       `gorm:"not null"`
	Points    float64   `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
