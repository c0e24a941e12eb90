package models

import (
	"gorm.io/gorm"
)

// Prize kinds.
const (
	PrizeCash = "cash"
	PrizeItem = "item"
)

// Prize is one prize category with a finite minted quantity.
// Quantity is immutable; Remaining only ever decreases, by exactly one per
// allocation, inside the claim transaction.
type Prize struct {
	gorm.Model
	RoomID    uint   `gorm:"index;not null"`
	Type      string `gorm:"not null"` // "cash" or "item"
	Name      string `gorm:"not null"`
	Value     int    `gorm:"not null"` // VND, 0 for items
	Quantity  int    `gorm:"not null"`
	Remaining int    `gorm:"not null"`
}
