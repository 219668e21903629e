package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/feedline/feedline/config"
	"github.com/feedline/feedline/controllers"
	"github.com/feedline/feedline/middleware"
	"github.com/feedline/feedline/services"
	"github.com/feedline/feedline/utils"
)

// SetupRouter wires routes, middlewares, services, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap access log
	if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress); err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}
	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.CurrentUser())

	graph := services.NewFollowService(db)
	feed := services.NewFeedService(db, graph, cfg.PageSize)
	posts := services.NewPostService(db)
	cache := services.NewTimelineCache(
		utils.ReachableRedis(),
		time.Duration(cfg.TimelineCacheTTLSeconds)*time.Second,
	)

	authController := controllers.NewAuthController(db)
	feedController := controllers.NewFeedController(feed, posts, cache)
	postController := controllers.NewPostController(posts)
	followController := controllers.NewFollowController(graph)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/login", authController.LoginEntry)
	authGroup.GET("/me", middleware.LoginRequired(), authController.Me)

	// Public timelines
	api.GET("/posts", feedController.Index)
	api.GET("/posts/:id", feedController.Detail)
	api.GET("/groups/:slug/posts", feedController.GroupIndex)
	api.GET("/profiles/:username/posts", feedController.Profile)

	protected := api.Group("")
	protected.Use(middleware.LoginRequired(), middleware.RateLimit())
	protected.GET("/feed", feedController.FollowIndex)
	protected.POST("/posts", postController.Create)
	protected.PUT("/posts/:id", postController.Update)
	protected.DELETE("/posts/:id", postController.Delete)
	protected.POST("/posts/:id/comments", postController.CreateComment)
	protected.POST("/profiles/:username/follow", followController.Follow)
	protected.DELETE("/profiles/:username/follow", followController.Unfollow)
	protected.POST("/cache/clear", feedController.ClearCache)

	return r
}
