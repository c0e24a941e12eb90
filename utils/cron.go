package utils

import (
	"time"

	"locserver/models"
	"locserver/session"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CronCleaner runs the periodic room lifecycle jobs and the round janitor.
func CronCleaner(db *gorm.DB, facade *session.Facade, logger *zap.Logger) {
	c := cron.New()

	// End rooms with no activity for 24 hours.
	c.AddFunc("@hourly", func() {
		result := db.Model(&models.Room{}).
			Where("status = ? AND updated_at <= ?", models.RoomActive, time.Now().Add(-24*time.Hour)).
			Update("status", models.RoomEnded)
		if result.Error != nil {
			logger.Error("failed to end idle rooms", zap.Error(result.Error))
		} else if result.RowsAffected > 0 {
			logger.Info("idle rooms ended", zap.Int("rooms", int(result.RowsAffected)))
		}
	})

	// Delete rooms 48 hours after they ended, children first.
	c.AddFunc("0 3 * * *", func() {
		endedRoomIDs := []uint{}
		db.Model(&models.Room{}).
			Where("status = ? AND updated_at <= ?", models.RoomEnded, time.Now().Add(-48*time.Hour)).
			Pluck("id", &endedRoomIDs)
		if len(endedRoomIDs) == 0 {
			return
		}

		db.Where("room_id IN ?", endedRoomIDs).Delete(&models.Result{})
		db.Where("room_id IN ?", endedRoomIDs).Delete(&models.Player{})
		db.Where("room_id IN ?", endedRoomIDs).Delete(&models.Prize{})
		result := db.Where("id IN ?", endedRoomIDs).Delete(&models.Room{})
		if result.Error != nil {
			logger.Error("failed to delete ended rooms", zap.Error(result.Error))
		} else {
			logger.Info("ended rooms deleted", zap.Int("rooms_deleted", int(result.RowsAffected)))
		}
	})

	// Abandoned rounds leave no trace; drop them once well past deadline.
	c.AddFunc("@every 5m", func() {
		if dropped := facade.SweepStale(time.Now()); dropped > 0 {
			logger.Info("stale rounds swept", zap.Int("rounds", dropped))
		}
	})

	c.Start()
}
