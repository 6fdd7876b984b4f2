package db

import "time"

// Answer is one player's value for one turn of one game. The composite key
// guarantees at most one row per (game, player, turn); submits upsert it.
type Answer struct {
	GameID    string    `gorm:"primaryKey;size:36"`
	PlayerID  string    `gorm:"primaryKey;size:36"`
	Turn      int       `gorm:"primaryKey"`
	Value     float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
