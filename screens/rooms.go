package screens

import (
	"math/rand"
	"net/http"
	"os"
	"time"

	"locserver/middlewares"
	"locserver/models"
	"locserver/rounds"
	"locserver/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var codeRng = rand.New(rand.NewSource(time.Now().UnixNano()))

// joinBase is the client origin used in shareable join links.
func joinBase() string {
	if base := os.Getenv("CLIENT_BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:3000"
}

// RoomCreate handles POST /rooms: creates the room and mints its prizes.
func RoomCreate(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request binding error"})
		return
	}

	if req.HostName == "" || len(req.Prizes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu thông tin"})
		return
	}
	if req.MaxAttempts == 0 {
		req.MaxAttempts = 1
	}
	if req.MaxAttempts < 1 || req.MaxAttempts > 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Số lượt không hợp lệ"})
		return
	}
	if req.HostPhone != "" && !utils.IsValidPhone(req.HostPhone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Số điện thoại không hợp lệ"})
		return
	}

	kinds := req.GameKinds
	if len(kinds) == 0 {
		kinds = []string{rounds.KindShake}
	}
	for _, k := range kinds {
		if !rounds.ValidKind(k) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Trò chơi không hợp lệ"})
			return
		}
	}

	prizes := make([]models.Prize, 0, len(req.Prizes))
	for _, p := range req.Prizes {
		if p.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu tên lộc"})
			return
		}
		if p.Type == "" {
			p.Type = models.PrizeCash
		}
		if p.Type != models.PrizeCash && p.Type != models.PrizeItem {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Loại lộc không hợp lệ"})
			return
		}
		if p.Quantity < 1 {
			p.Quantity = 1
		}
		if p.Value < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Giá trị lộc không hợp lệ"})
			return
		}
		prizes = append(prizes, models.Prize{
			Type:      p.Type,
			Name:      p.Name,
			Value:     p.Value,
			Quantity:  p.Quantity,
			Remaining: p.Quantity,
		})
	}

	// Roll until the code is free; ten collisions in a row means something
	// else is wrong.
	var code string
	for i := 0; i < 10; i++ {
		code = utils.GenerateRoomCode(codeRng)
		var count int64
		if err := db.Model(&models.Room{}).Where("code = ?", code).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
			return
		}
		if count == 0 {
			break
		}
		code = ""
	}
	if code == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không tạo được mã phòng"})
		return
	}

	room := models.Room{
		Code:        code,
		HostName:    req.HostName,
		HostPhone:   req.HostPhone,
		MaxAttempts: req.MaxAttempts,
		GameKinds:   models.JoinKinds(kinds),
		Status:      models.RoomActive,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		for i := range prizes {
			prizes[i].RoomID = room.ID
		}
		return tx.Create(&prizes).Error
	})
	if err != nil {
		logger.Error("Failed to create room", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	hostToken, err := middlewares.GenerateToken(room.ID, 0, models.RoleHost)
	if err != nil {
		logger.Error("Failed to generate host token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	logger.Info("room created", zap.Uint("roomID", room.ID), zap.String("code", room.Code))
	c.JSON(http.StatusCreated, gin.H{
		"id":        room.ID,
		"code":      room.Code,
		"joinUrl":   utils.JoinURL(joinBase(), room.Code),
		"hostToken": hostToken,
	})
}

// findRoomByCode loads a room or writes the 404 response.
func findRoomByCode(c *gin.Context, db *gorm.DB) (*models.Room, bool) {
	code := utils.NormalizeRoomCode(c.Param("code"))
	if !utils.ValidRoomCode(code) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Phòng không tồn tại"})
		return nil, false
	}

	var room models.Room
	if err := db.Where("code = ?", code).First(&room).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Phòng không tồn tại"})
		return nil, false
	}
	return &room, true
}

type resultView struct {
	ID           uint      `json:"id"`
	PlayerName   string    `json:"playerName"`
	PrizeName    string    `json:"prizeName"`
	PrizeType    string    `json:"prizeType"`
	PrizeValue   int       `json:"prizeValue"`
	ValueDisplay string    `json:"valueDisplay,omitempty"`
	Phone        string    `json:"-"`
	PlayerPhone  string    `json:"playerPhone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	MoMoLink     string    `json:"momoLink,omitempty"`
}

// decorateResults fills the display fields: short currency, formatted
// winner phone and the MoMo transfer link for cash prizes.
func decorateResults(views []resultView) {
	for i := range views {
		v := &views[i]
		if v.PrizeType == models.PrizeCash && v.PrizeValue > 0 {
			v.ValueDisplay = utils.FormatCurrency(v.PrizeValue)
		}
		if utils.IsValidPhone(v.Phone) {
			v.PlayerPhone = utils.FormatPhone(v.Phone)
			if v.PrizeType == models.PrizeCash && v.PrizeValue > 0 {
				v.MoMoLink = utils.MoMoLink(v.Phone, v.PrizeValue)
			}
		}
	}
}

func roomResults(db *gorm.DB, roomID uint) ([]resultView, error) {
	var views []resultView
	err := db.Table("results").
		Select("results.id, results.created_at, players.name AS player_name, players.phone, prizes.name AS prize_name, prizes.type AS prize_type, prizes.value AS prize_value").
		Joins("JOIN players ON players.id = results.player_id").
		Joins("JOIN prizes ON prizes.id = results.prize_id").
		Where("results.room_id = ? AND results.deleted_at IS NULL", roomID).
		Order("results.created_at DESC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	decorateResults(views)
	return views, nil
}

type prizeView struct {
	models.Prize
	ValueDisplay string `json:"valueDisplay,omitempty"`
}

func prizeViews(prizes []models.Prize) []prizeView {
	views := make([]prizeView, len(prizes))
	for i, p := range prizes {
		views[i] = prizeView{Prize: p}
		if p.Type == models.PrizeCash && p.Value > 0 {
			views[i].ValueDisplay = utils.FormatCurrency(p.Value)
		}
	}
	return views
}

// ViewerCounter reports how many live viewers a room has.
type ViewerCounter interface {
	Viewers(roomID uint) int
}

// RoomInfo handles GET /rooms/:code, the full room snapshot.
func RoomInfo(c *gin.Context, db *gorm.DB, viewers ViewerCounter, logger *zap.Logger) {
	room, ok := findRoomByCode(c, db)
	if !ok {
		return
	}
	if room.Status == models.RoomEnded {
		c.JSON(http.StatusGone, gin.H{"error": "Phòng đã kết thúc"})
		return
	}

	var prizes []models.Prize
	if err := db.Where("room_id = ?", room.ID).Order("id").Find(&prizes).Error; err != nil {
		logger.Error("Failed to fetch prizes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	var players []models.Player
	if err := db.Where("room_id = ?", room.ID).Order("created_at").Find(&players).Error; err != nil {
		logger.Error("Failed to fetch players", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	results, err := roomResults(db, room.ID)
	if err != nil {
		logger.Error("Failed to fetch results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":    room,
		"prizes":  prizeViews(prizes),
		"players": players,
		"results": results,
		"viewers": viewers.Viewers(room.ID),
	})
}

// RoomUpdate handles PATCH /rooms/:code. Only the host token may end a
// room, and ended is the only reachable state.
func RoomUpdate(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	room, ok := findRoomByCode(c, db)
	if !ok {
		return
	}

	claims := middlewares.Claims(c)
	if claims == nil || claims.RoomID != room.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Không có quyền"})
		return
	}

	var req models.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status != models.RoomEnded {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trạng thái không hợp lệ"})
		return
	}

	if err := db.Model(room).Update("status", models.RoomEnded).Error; err != nil {
		logger.Error("Failed to end room", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}

	logger.Info("room ended", zap.Uint("roomID", room.ID), zap.String("code", room.Code))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
