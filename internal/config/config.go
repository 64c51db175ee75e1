// Package config はWebクライアントと開発用バックエンドの設定を読み込む。
//
// 設定はYAMLファイル（任意）、環境変数、既定値の順に適用する。
// 環境変数はYAMLファイルの値を上書きし、どちらにも無い項目は既定値になる。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileEnv は設定ファイルのパスを指定する環境変数名。
const FileEnv = "BIDFLARE_CONFIG"

// セッションストアの種類。
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config は全体の設定。
type Config struct {
	// Web はWebクライアントの設定。
	Web WebConfig `yaml:"web"`
	// Session はセッションストアの設定。
	Session SessionConfig `yaml:"session"`
	// Backend は開発用バックエンドの設定。
	Backend BackendConfig `yaml:"backend"`
}

// WebConfig はWebクライアントの設定。
type WebConfig struct {
	// Port はリッスンポート。
	Port string `yaml:"port" env:"PORT"`
	// APIBaseURL はバックエンドREST APIのベースURL。
	APIBaseURL string `yaml:"api_base_url" env:"API_BASE_URL"`
	// SecureCookies はCookieにSecure属性を付与するかどうか。
	SecureCookies bool `yaml:"secure_cookies" env:"SECURE_COOKIES"`
}

// SessionConfig はセッションストアの設定。
type SessionConfig struct {
	// Store はストアの種類（memory / sqlite / redis）。
	Store string `yaml:"store" env:"SESSION_STORE"`
	// SQLitePath はSQLiteストアのデータベースファイル。
	SQLitePath string `yaml:"sqlite_path" env:"SESSION_SQLITE_PATH"`
	// Redis はRedisストアの設定。
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig はRedisの接続設定。
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	Prefix   string        `yaml:"prefix" env:"REDIS_PREFIX"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL"`
}

// BackendConfig は開発用バックエンドの設定。
type BackendConfig struct {
	// Port はリッスンポート。
	Port string `yaml:"port" env:"BACKEND_PORT"`
	// DatabasePath はSQLiteデータベースファイル。
	DatabasePath string `yaml:"database_path" env:"BACKEND_DATABASE_PATH"`
	// JWTSecret はJWT署名用の秘密鍵。
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	// Seed は起動時にサンプルデータを投入するかどうか。
	Seed bool `yaml:"seed" env:"BACKEND_SEED"`
}

// Load は設定を読み込む。pathが空の場合は環境変数FileEnvのパスを使用し、
// それも空の場合は設定ファイルを読まない。
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(FileEnv)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗: %w", err)
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv は環境変数からtargetに値を設定する。
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("環境変数の解析に失敗: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Web.Port == "" {
		c.Web.Port = "3000"
	}
	if c.Web.APIBaseURL == "" {
		c.Web.APIBaseURL = "http://localhost:8080/api"
	}
	if c.Session.Store == "" {
		c.Session.Store = StoreMemory
	}
	c.Session.Store = strings.ToLower(c.Session.Store)
	if c.Session.SQLitePath == "" {
		c.Session.SQLitePath = "/data/session.db"
	}
	if c.Session.Redis.Addr == "" {
		c.Session.Redis.Addr = "localhost:6379"
	}
	if c.Session.Redis.Prefix == "" {
		c.Session.Redis.Prefix = "bidflare:session:"
	}
	if c.Backend.Port == "" {
		c.Backend.Port = "8080"
	}
	if c.Backend.DatabasePath == "" {
		c.Backend.DatabasePath = "/data/backend.db"
	}
	if c.Backend.JWTSecret == "" {
		c.Backend.JWTSecret = "dev-secret-key"
	}
	if len(c.Backend.AllowedOrigins) == 0 {
		c.Backend.AllowedOrigins = []string{"http://localhost:3000"}
	}
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("不明なセッションストア: %q", c.Session.Store)
	}
	if c.Session.Redis.TTL < 0 {
		return errors.New("REDIS_TTLは0以上である必要があります")
	}
	return nil
}
