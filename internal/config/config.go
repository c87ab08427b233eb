// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// MongoDB設定
	MongoHost     string // MongoDBホスト名（mongodb+srv接続）
	MongoUser     string // MongoDBユーザー名
	MongoPassword string // MongoDBパスワード
	MongoDatabase string // ユーザーコレクションを保持するデータベース名

	// シークレット
	SessionSecret      string // セッションクッキー署名用の秘密鍵
	MongoSessionSecret string // セッションレコード暗号化用の鍵（16/24/32バイト）

	// サーバー設定
	Port    string // Webサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// 静的ファイル
	PublicDir string // 静的アセットのディレクトリ

	// 認証ポリシー（環境変数で上書き可能）
	SessionExpireHours     int      // セッションの有効期間（時間）
	BcryptCost             int      // bcryptのコストファクター
	PasswordMinLength      int      // パスワード最小長（既定0、下限なし）
	PasswordMaxLength      int      // パスワード最大長
	UsernameMaxLength      int      // ユーザー名最大長
	EmailAllowedTLDs       []string // 許可するトップレベルドメイン
	EmailMaxDomainSegments int      // ドメインセグメント数の上限
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	// .env.local ファイルを読み込む（存在しない場合はスキップ）
	loadEnvFile()

	config := &Config{
		// MongoDB設定
		MongoHost:     getEnv("MONGODB_HOST", ""),
		MongoUser:     getEnv("MONGODB_USER", ""),
		MongoPassword: getEnv("MONGODB_PASSWORD", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", ""),

		// シークレット
		SessionSecret:      getEnv("NODE_SESSION_SECRET", ""),
		MongoSessionSecret: getEnv("MONGODB_SESSION_SECRET", ""),

		// サーバー設定
		Port:    getEnv("PORT", "3000"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// CORS設定
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		// 静的ファイル
		PublicDir: getEnv("PUBLIC_DIR", "./public"),

		// 認証ポリシー
		SessionExpireHours:     getEnvAsInt("SESSION_EXPIRE_HOURS", 24),
		BcryptCost:             getEnvAsInt("BCRYPT_COST", 10),
		PasswordMinLength:      getEnvAsInt("PASSWORD_MIN_LENGTH", 0),
		PasswordMaxLength:      getEnvAsInt("PASSWORD_MAX_LENGTH", 20),
		UsernameMaxLength:      getEnvAsInt("USERNAME_MAX_LENGTH", 20),
		EmailAllowedTLDs:       getEnvAsList("EMAIL_ALLOWED_TLDS", []string{"com", "net", "ca"}),
		EmailMaxDomainSegments: getEnvAsInt("EMAIL_MAX_DOMAIN_SEGMENTS", 2),
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
	// セッション暗号化鍵はAES鍵として使うため、指定するなら長さが決まっている
	if n := len(c.MongoSessionSecret); n != 0 && n != 16 && n != 24 && n != 32 {
		return fmt.Errorf("MONGODB_SESSION_SECRET must be 16, 24 or 32 bytes, got %d", n)
	}

	// ローカル開発では接続設定は任意
	// 本番環境では厳格にチェックする想定
	if c.GinMode == "release" {
		if c.MongoHost == "" {
			return fmt.Errorf("MONGODB_HOST is required in release mode")
		}
		if c.MongoUser == "" {
			return fmt.Errorf("MONGODB_USER is required in release mode")
		}
		if c.MongoPassword == "" {
			return fmt.Errorf("MONGODB_PASSWORD is required in release mode")
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MONGODB_DATABASE is required in release mode")
		}
		if c.SessionSecret == "" {
			return fmt.Errorf("NODE_SESSION_SECRET is required in release mode")
		}
		if c.MongoSessionSecret == "" {
			return fmt.Errorf("MONGODB_SESSION_SECRET is required in release mode")
		}
	}

	return nil
}

// MongoURI はユーザー資格情報とホスト名から接続文字列を組み立てます。
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/",
		url.QueryEscape(c.MongoUser), url.QueryEscape(c.MongoPassword), c.MongoHost)
}

// SessionTTL はセッションの有効期間を返します。
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionExpireHours) * time.Hour
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

// getEnvAsList は環境変数をカンマ区切りのリストとして取得します。
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
