package model

import "time"

// Task is a recurring weekly activity: it happens on every listed weekday
// between StartTime and EndTime.
type Task struct {
	ID        uint     `gorm:"primaryKey"`
	Name      string   `gorm:"not null"`
	Weekdays  Weekdays `gorm:"not null"`
	StartTime Clock    `gorm:"not null;index"`
	EndTime   Clock    `gorm:"not null"`
	CreatedAt time.Time
}

// Ready reports whether the task carries everything needed to be stored.
func (t Task) Ready() bool {
	return t.Name != "" && len(t.Weekdays) > 0 && t.StartTime.Valid() && t.EndTime.Valid()
}
