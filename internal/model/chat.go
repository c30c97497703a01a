package model

import "time"

// Chat stores a Telegram chat that talked to the bot.
type Chat struct {
	ID         uint      `gorm:"primaryKey"`
	TelegramID int64     `gorm:"uniqueIndex"`
	LastSeenAt time.Time `gorm:"index"`
	CreatedAt  time.Time
}
