package model

import "time"

// LogEntry is an append-only audit record. Rows are never updated or
// deleted by the application, and they outlive the account they refer to.
type LogEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"index"`
	Action    string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (LogEntry) TableName() string {
	return "logs"
}
