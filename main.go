package main

import (
	"net/http"
	"time"

	"locserver/allocation"
	"locserver/database"
	"locserver/live"
	"locserver/middlewares"
	"locserver/models"
	"locserver/rounds"
	"locserver/screens"
	"locserver/session"
	"locserver/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	logger, err := utils.InitLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Postgres and Redis come up concurrently.
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		config, err := database.LoadConfig("config.json")
		if err != nil {
			logger.Fatal("failed to load config.json", zap.Error(err))
		}
		db, err = database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("failed to initialize PostgreSQL", zap.Error(err))
		}
		done <- true
	}()

	go func() {
		rdb, err = database.InitRedis(logger)
		if err != nil {
			logger.Fatal("failed to initialize Redis", zap.Error(err))
		}
		done <- true
	}()

	<-done
	<-done

	hub := live.NewHub(logger)
	ctrl := rounds.NewController(logger)
	engine := allocation.NewEngine(database.NewClaimStore(db), logger)
	facade := session.New(db, engine, ctrl, hub, logger)

	go utils.CronCleaner(db, facade, logger)

	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"}, // web client origin
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	playerAuth := middlewares.RequireRole(models.RolePlayer, logger)
	hostAuth := middlewares.RequireRole(models.RoleHost, logger)

	router.POST("/rooms", func(c *gin.Context) {
		screens.RoomCreate(c, db, logger)
	})
	router.GET("/rooms/:code", func(c *gin.Context) {
		screens.RoomInfo(c, db, hub, logger)
	})
	router.PATCH("/rooms/:code", hostAuth, func(c *gin.Context) {
		screens.RoomUpdate(c, db, logger)
	})
	router.POST("/rooms/:code/join", func(c *gin.Context) {
		screens.JoinHandler(c, db, rdb, logger)
	})
	router.POST("/rooms/:code/attempts", playerAuth, func(c *gin.Context) {
		screens.AttemptStart(c, db, facade, logger)
	})
	router.POST("/rooms/:code/attempts/:roundID", playerAuth, func(c *gin.Context) {
		screens.AttemptSubmit(c, db, facade, logger)
	})
	router.DELETE("/rooms/:code/attempts/:roundID", playerAuth, func(c *gin.Context) {
		screens.AttemptAbandon(c, db, facade, logger)
	})
	router.GET("/rooms/:code/live", func(c *gin.Context) {
		var room models.Room
		if err := db.Where("code = ?", utils.NormalizeRoomCode(c.Param("code"))).First(&room).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Phòng không tồn tại"})
			return
		}
		hub.HandleConnection(c.Writer, c.Request, room.ID)
	})
	router.GET("/session/:sessionID", func(c *gin.Context) {
		screens.SessionRestoreHandler(c, db, rdb, logger)
	})
	router.GET("/history", func(c *gin.Context) {
		screens.HistoryHandler(c, db, logger)
	})

	router.Run()
}
