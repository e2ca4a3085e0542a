package model

type Task struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    uint   `gorm:"index;not null"`
	Text      string `gorm:"not null"`
	Completed bool   `gorm:"default:false"`
}

// The original schema calls this table todos
func (Task) TableName() string {
	return "todos"
}
