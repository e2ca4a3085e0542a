// Package model defines database models
package model

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	Verified     bool   `gorm:"default:false"`
	Admin        bool   `gorm:"default:false"`

	Tasks []Task `gorm:"foreignKey:UserID"`
}
