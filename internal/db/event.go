package db

import (
	"time"

	"gorm.io/datatypes"
)

// Event is an audit mirror of every payload published to live subscribers.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    string         `gorm:"index;size:36;not null"`
	PlayerID  *string        `gorm:"index;size:36"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
