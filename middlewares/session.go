package middlewares

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sessionTTL keeps a join session restorable for a day, like the browser's
// remember-me cache it replaces.
const sessionTTL = 24 * time.Hour

type sessionInfo struct {
	RoomID   uint `json:"roomID"`
	PlayerID uint `json:"playerID"`
}

// StoreSession saves a player's join session in Redis and returns its id.
func StoreSession(ctx context.Context, rdb *redis.Client, roomID, playerID uint, logger *zap.Logger) (string, error) {
	sessionID := uuid.New().String()

	infoJSON, err := json.Marshal(sessionInfo{RoomID: roomID, PlayerID: playerID})
	if err != nil {
		logger.Error("Error encoding session info", zap.Error(err))
		return "", err
	}

	if err := rdb.Set(ctx, "session:"+sessionID, infoJSON, sessionTTL).Err(); err != nil {
		logger.Error("Error storing session info in Redis", zap.Error(err))
		return "", err
	}
	return sessionID, nil
}

// RestoreSession looks a join session up by id. A reconnecting player uses
// this to recover their identity without re-joining.
func RestoreSession(ctx context.Context, rdb *redis.Client, sessionID string, logger *zap.Logger) (roomID, playerID uint, err error) {
	infoJSON, err := rdb.Get(ctx, "session:"+sessionID).Result()
	if err != nil {
		logger.Warn("Failed to retrieve session info", zap.Error(err))
		return 0, 0, err
	}

	var info sessionInfo
	if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
		logger.Error("Failed to decode session info", zap.Error(err))
		return 0, 0, err
	}
	return info.RoomID, info.PlayerID, nil
}
