package screens

import (
	"net/http"

	"locserver/middlewares"
	"locserver/models"
	"locserver/rounds"
	"locserver/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptStart handles POST /rooms/:code/attempts: opens a gating round for
// the authenticated player.
func AttemptStart(c *gin.Context, db *gorm.DB, facade *session.Facade, logger *zap.Logger) {
	room, ok := findRoomByCode(c, db)
	if !ok {
		return
	}
	claims := middlewares.Claims(c)
	if claims == nil || claims.RoomID != room.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Không có quyền"})
		return
	}

	view, rejected, err := facade.StartAttempt(c.Request.Context(), room, claims.PlayerID)
	if err != nil {
		logger.Error("Failed to start attempt", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		return
	}
	if rejected != nil {
		c.JSON(http.StatusBadRequest, rejected)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"round": view})
}

// AttemptSubmit handles POST /rooms/:code/attempts/:roundID: resolves the
// round and reports the allocation outcome.
func AttemptSubmit(c *gin.Context, db *gorm.DB, facade *session.Facade, logger *zap.Logger) {
	room, ok := findRoomByCode(c, db)
	if !ok {
		return
	}
	claims := middlewares.Claims(c)
	if claims == nil || claims.RoomID != room.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Không có quyền"})
		return
	}

	var sub models.SubmitRequest
	if err := c.ShouldBindJSON(&sub); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request binding error"})
		return
	}

	outcome, err := facade.SubmitRoundResult(c.Request.Context(), room, claims.PlayerID, c.Param("roundID"), sub)
	if err != nil {
		switch err {
		case rounds.ErrRoundNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "RoundNotFound"})
		case rounds.ErrWrongPlayer:
			c.JSON(http.StatusForbidden, gin.H{"error": "Không có quyền"})
		case rounds.ErrQuietPeriod:
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Lắc chậm thôi"})
		case rounds.ErrNoInput:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu kết quả vòng chơi"})
		default:
			logger.Error("Failed to submit round", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
		}
		return
	}

	switch {
	case outcome.Success:
		c.JSON(http.StatusOK, outcome)
	case outcome.Error == session.CodeTransient:
		c.JSON(http.StatusServiceUnavailable, outcome)
	default:
		c.JSON(http.StatusBadRequest, outcome)
	}
}

// AttemptAbandon handles DELETE /rooms/:code/attempts/:roundID: the player
// walks away from an unresolved round without consuming anything.
func AttemptAbandon(c *gin.Context, db *gorm.DB, facade *session.Facade, logger *zap.Logger) {
	room, ok := findRoomByCode(c, db)
	if !ok {
		return
	}
	claims := middlewares.Claims(c)
	if claims == nil || claims.RoomID != room.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Không có quyền"})
		return
	}

	switch err := facade.Abandon(c.Param("roundID"), claims.PlayerID); err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case rounds.ErrRoundNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "RoundNotFound"})
	case rounds.ErrWrongPlayer:
		c.JSON(http.StatusForbidden, gin.H{"error": "Không có quyền"})
	case rounds.ErrAlreadyResolved:
		c.JSON(http.StatusConflict, gin.H{"error": "Vòng chơi đã kết thúc"})
	default:
		logger.Error("Failed to abandon round", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi server"})
	}
}
