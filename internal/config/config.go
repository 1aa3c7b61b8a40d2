// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// アプリケーション設定
	SessionSecret string // セッションクッキー署名用の秘密鍵
	BcryptCost    int    // パスワードハッシュの計算コスト

	// サーバー設定
	Port    string // サーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// データベース設定
	DatabasePath string // SQLiteデータベースファイルのパス

	// セッション設定
	SessionMaxAge      time.Duration // セッションの最大有効期間
	SessionIdleTimeout time.Duration // 無操作タイムアウト

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	// .env.local ファイルを読み込む（存在しない場合はスキップ）
	loadEnvFile()

	config := &Config{
		// アプリケーション設定
		SessionSecret: getEnv("SESSION_SECRET", ""),
		BcryptCost:    getEnvAsInt("BCRYPT_COST", bcrypt.DefaultCost),

		// サーバー設定
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// データベース設定
		DatabasePath: getEnv("DATABASE_PATH", "todolist.db"),

		// セッション設定
		SessionMaxAge:      time.Duration(getEnvAsInt("SESSION_MAX_AGE_MINUTES", 720)) * time.Minute,
		SessionIdleTimeout: time.Duration(getEnvAsInt("SESSION_IDLE_MINUTES", 30)) * time.Minute,

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	// ローカル開発では署名鍵は任意
	// 本番環境では厳格にチェックする想定
	if c.GinMode == "release" {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required in release mode")
		}
	}

	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}

// SessionMaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func (c *Config) SessionMaxAgeSeconds() int {
	return int(c.SessionMaxAge.Seconds())
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
