package models

import (
	"gorm.io/gorm"
)

// Player joins exactly one room and is never deleted.
// AttemptsUsed is incremented only inside the claim transaction and is
// bounded by the room's MaxAttempts.
type Player struct {
	gorm.Model
	RoomID       uint   `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	Phone        string
	AttemptsUsed int `gorm:"not null;default:0"`
}
