// Package main はToDoリストWebアプリケーションのエントリーポイントです。
package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/todolist/internal/auth"
	"github.com/yourusername/todolist/internal/config"
	"github.com/yourusername/todolist/internal/store"
	"github.com/yourusername/todolist/internal/todo"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// データベースの接続とスキーマ適用
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	// HTMLテンプレートの読み込み
	router.LoadHTMLGlob("web/templates/*.html")

	// セッションストアの設定（クッキー署名鍵は必須）
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAgeSeconds(),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, sessionStore))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// ルーティングの設定
	setupRoutes(router, cfg, st)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "todolist",
		"version": "0.1.0",
	})
}

// setupRoutes は画面と認証周りの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, st *store.Store) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	authManager := auth.NewManager(cfg, st)

	// ルートはログイン状態に応じて振り分ける
	router.GET("/", authManager.Root)

	// 登録・ログインはセッション未生成でも叩けるため CSRF 検証は不要
	router.GET("/register", authManager.RegisterPage)
	router.POST("/register", authManager.Register)
	router.GET("/login", authManager.LoginPage)
	router.POST("/login", authManager.Login)
	router.GET("/logout", authManager.Logout)

	home := router.Group("/home")
	home.Use(authManager.RequireLogin())
	{
		home.GET("", todo.HomeHandler(st))
		home.POST("", authManager.VerifyCSRF(), todo.CreateTaskHandler(st))
	}

	router.GET("/deleteToDoListItem/:id",
		authManager.RequireLogin(),
		todo.DeleteTaskHandler(st),
	)
}
