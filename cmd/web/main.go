// Package main はWebサーバーのエントリーポイントです。
package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/auth"
	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/config"
	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/user"
	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/web"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	logger := log.Default()

	// MongoDBへの接続（失敗したら起動させない）
	client, err := connectMongo(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer disconnectMongo(client, logger)

	users := user.NewStore(client.Database(cfg.MongoDatabase).Collection("users"))

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	// セッションストアの設定（セッションレコードはMongoDB側に保存）
	router.Use(sessions.Sessions(auth.SessionCookieName, newSessionStore(cfg, client)))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// フォーム検証用のカスタムバリデータを登録
	auth.RegisterValidators(auth.PolicyFromConfig(cfg))

	manager := auth.NewManager(cfg, users, auth.NewHasher(cfg.BcryptCost), logger)
	pages, err := web.NewPages(cfg.PublicDir, logger)
	if err != nil {
		log.Fatalf("Failed to initialize pages: %v", err)
	}

	// ルーティングの設定
	setupRoutes(router, manager, pages)

	// サーバーの起動
	addr := ":" + cfg.Port
	logger.Printf("Starting web server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "members-portal",
		"version": "0.1.0",
	})
}

// setupRoutes はページと認証周りの配線を行います。
func setupRoutes(router *gin.Engine, manager *auth.Manager, pages *web.Pages) {
	router.GET("/health", handleHealth)

	router.GET("/", pages.Landing)
	router.POST("/signUp", pages.SignUpForm)
	router.POST("/login", pages.LoginForm)
	router.POST("/submitUser", manager.SubmitUser)
	router.POST("/loggingin", manager.LoggingIn)
	router.GET("/members", manager.RequireSession(), pages.Members)
	router.POST("/logout", manager.Logout)

	// express.static 相当: 未登録ルートは public 配下を探し、なければ404
	router.NoRoute(pages.NotFound)
}
