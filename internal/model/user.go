package model

import "time"

// User stores Telegram user metadata. Every gate entry upserts the row:
// FirstName is refreshed on each sighting, JoinedAt is written once.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	JoinedAt   time.Time
}
