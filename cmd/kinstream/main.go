package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kinstream/kinstream/config"
	"github.com/kinstream/kinstream/internal/handlers"
	"github.com/kinstream/kinstream/internal/mail"
	"github.com/kinstream/kinstream/internal/metrics"
	"github.com/kinstream/kinstream/internal/middleware"
	"github.com/kinstream/kinstream/internal/redis"
	"github.com/kinstream/kinstream/internal/signaling"
	"github.com/kinstream/kinstream/internal/store"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg := config.Load()

	// Connect to Redis
	rdb, err := redis.Connect(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	log.Println("Redis connection established")

	users := store.NewUsers(rdb)
	presence := store.NewPresence(rdb)

	// Room presence core: explicitly owned state, no globals.
	relay := signaling.NewRelay(signaling.NewRegistry(), signaling.NewDirectory())
	peers := signaling.NewPeerRelay()

	authAPI := &handlers.AuthAPI{
		Users:     users,
		Mailer:    mail.New(cfg.SMTP),
		JWTSecret: cfg.JWTSecret,
		Secure:    cfg.Environment == "production",
	}

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.LoadHTMLGlob("web/templates/*")
	router.Static("/static", "web/static")

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	// Health check and metrics
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Auth API
	authGroup := router.Group("/api/v1/auth")
	{
		authGroup.POST("/register", authAPI.Register)
		authGroup.POST("/login", authAPI.Login)
		authGroup.GET("/me", middleware.JWTAuth(cfg.JWTSecret), authAPI.Me)
		authGroup.POST("/forgotpassword", authAPI.ForgotPassword)
		authGroup.PUT("/resetpassword/:token", authAPI.ResetPassword)
	}

	// Room info API (public)
	router.GET("/api/v1/rooms/:roomId", handlers.GetRoom(presence))

	// WebSocket channels
	wsGroup := router.Group("/ws")
	{
		wsGroup.GET("/signal/:roomId", handlers.Signal(relay, presence))
		wsGroup.GET("/peer/:participantId", handlers.Peer(peers))
	}

	// Room pages: root mints a fresh room id, any other path segment is a room
	router.GET("/", handlers.Index)
	router.GET("/:room", handlers.RoomPage)

	// Start server
	log.Printf("Starting Kinstream server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
