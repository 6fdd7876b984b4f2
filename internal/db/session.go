package db

import "time"

// Session rows are keyed by the SHA-256 hex digest of the client token,
// never by the token itself.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	PlayerID  string    `gorm:"index;size:36;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
