package models

import (
	"gorm.io/gorm"
)

// Result is the audit record of one allocation. Immutable once written;
// per prize, the number of results always equals Quantity - Remaining.
type Result struct {
	gorm.Model
	RoomID   uint `gorm:"index;not null"`
	PlayerID uint `gorm:"index;not null"`
	PrizeID  uint `gorm:"index;not null"`
}
