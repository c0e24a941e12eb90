package screens

import (
	"net/http"
	"time"

	"locserver/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type historyView struct {
	RoomCode   string    `json:"roomCode"`
	HostName   string    `json:"hostName"`
	PrizeName  string    `json:"prizeName"`
	PrizeType  string    `json:"prizeType"`
	PrizeValue int       `json:"prizeValue"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HistoryHandler handles GET /history?phone=: everything a phone number has
// won across rooms.
func HistoryHandler(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	phone := c.Query("phone")
	if !utils.IsValidPhone(phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Số điện thoại không hợp lệ"})
		return
	}

	var views []historyView
	err := db.Table("results").
		Select("rooms.code AS room_code, rooms.host_name, prizes.name AS prize_name, prizes.type AS prize_type, prizes.value AS prize_value, results.created_at").
		Joins("JOIN players ON players.id = results.player_id").
		Joins("JOIN prizes ON prizes.id = results.prize_id").
		Joins("JOIN rooms ON rooms.id = results.room_id").
		Where("players.phone = ? AND results.deleted_at IS NULL", phone).
		Order("results.created_at DESC").
		Scan(&views).Error
	if err != nil {
		logger.Error("Failed to fetch history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": views})
}
