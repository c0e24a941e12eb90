package screens

import (
	"net/http"
	"strings"

	"locserver/middlewares"
	"locserver/models"
	"locserver/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JoinHandler handles POST /rooms/:code/join: creates the player and hands
// back their token plus a Redis session id for reconnects.
func JoinHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	room, ok := findRoomByCode(c, db)
	if !ok {
		return
	}
	if room.Status == models.RoomEnded {
		c.JSON(http.StatusGone, gin.H{"error": "Phòng đã kết thúc"})
		return
	}

	var req models.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request binding error"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vui lòng nhập tên"})
		return
	}
	if req.Phone != "" && !utils.IsValidPhone(req.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Số điện thoại không hợp lệ"})
		return
	}

	player := models.Player{
		RoomID: room.ID,
		Name:   name,
		Phone:  req.Phone,
	}
	if err := db.Create(&player).Error; err != nil {
		logger.Error("Failed to create player", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	token, err := middlewares.GenerateToken(room.ID, player.ID, models.RolePlayer)
	if err != nil {
		logger.Error("Failed to generate player token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	sessionID, err := middlewares.StoreSession(c.Request.Context(), rdb, room.ID, player.ID, logger)
	if err != nil {
		// The join still stands without a reconnect session.
		sessionID = ""
	}

	logger.Info("player joined",
		zap.Uint("roomID", room.ID),
		zap.Uint("playerID", player.ID),
	)
	c.JSON(http.StatusCreated, gin.H{
		"playerId":  player.ID,
		"token":     token,
		"sessionId": sessionID,
	})
}

// SessionRestoreHandler handles GET /session/:sessionID: a returning player
// recovers their identity and a fresh token.
func SessionRestoreHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	roomID, playerID, err := middlewares.RestoreSession(c.Request.Context(), rdb, c.Param("sessionID"), logger)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Phiên không tồn tại"})
		return
	}

	var room models.Room
	if err := db.First(&room, roomID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Phòng không tồn tại"})
		return
	}
	var player models.Player
	if err := db.Where("room_id = ?", roomID).First(&player, playerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Người chơi không tồn tại"})
		return
	}

	token, err := middlewares.GenerateToken(room.ID, player.ID, models.RolePlayer)
	if err != nil {
		logger.Error("Failed to generate player token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"playerId": player.ID,
		"name":     player.Name,
		"roomCode": room.Code,
		"token":    token,
	})
}
