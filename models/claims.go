package models

import (
	jwt "github.com/dgrijalva/jwt-go"
)

// Token roles.
const (
	RoleHost   = "host"
	RolePlayer = "player"
)

// SessionClaims is the JWT payload issued to hosts at room creation and to
// players at join time. Identity is self-reported; the token only binds a
// browser session to the row it created.
type SessionClaims struct {
	RoomID   uint   `json:"roomId"`
	PlayerID uint   `json:"playerId,omitempty"` // zero for host tokens
	Role     string `json:"role"`
	jwt.StandardClaims
}
