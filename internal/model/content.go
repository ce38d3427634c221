package model

import "time"

// ContentItem is one entry in the free-stuff pool: a Telegram file id plus
// the admin who added it. Rows are append-only; the autoincrement ID is the
// dispensing order.
type ContentItem struct {
	ID      uint   `gorm:"primaryKey"`
	FileID  string `gorm:"not null"`
	AddedBy int64
	AddedAt time.Time `gorm:"autoCreateTime"`
}
