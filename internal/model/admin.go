package model

// Admin grants broadcast and registry management rights to a Telegram user.
// Membership is boolean; an admin does not have to be a known User.
type Admin struct {
	UserID int64 `gorm:"primaryKey"`
}
