package models

import (
	"strings"

	"gorm.io/gorm"
)

// Room lifecycle states.
const (
	RoomActive = "active"
	RoomEnded  = "ended"
)

// Room is one hosted event with its own prize pool and attempt budget.
// Immutable after creation except Status; ended only by explicit host action.
type Room struct {
	gorm.Model
	Code        string `gorm:"uniqueIndex;not null"` // 6 chars, unambiguous alphabet, stored uppercase
	HostName    string `gorm:"not null"`
	HostPhone   string
	MaxAttempts int    `gorm:"not null"` // per player, 1-10
	GameKinds   string `gorm:"not null"` // comma-separated enabled round kinds
	Status      string `gorm:"not null;default:active"`
	Prizes      []Prize
	Players     []Player
}

// Kinds splits the stored round-kind list.
func (r *Room) Kinds() []string {
	return strings.Split(r.GameKinds, ",")
}

// JoinKinds builds the stored form of an enabled-kind set.
func JoinKinds(kinds []string) string {
	return strings.Join(kinds, ",")
}
