package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Log     LogConfig
	DB      DBConfig
	Redis   RedisConfig
	Feed    FeedConfig
	JWT     JWTConfig
	Blob    BlobConfig
	Session SessionConfig
}

type AppConfig struct {
	Port string
	Env  string
	// DeploymentID namespaces every document path: /artifacts/{DeploymentID}/users/...
	DeploymentID string
	// CORSOrigins lists allowed browser origins; "*" allows any.
	CORSOrigins []string
}

type LogConfig struct {
	Level string
}

type DBConfig struct {
	Driver   string // postgres | sqlite
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string // sqlite only
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type FeedConfig struct {
	// Transport is "redis" for multi-node fan-out or "memory" for a single process.
	Transport string
}

type JWTConfig struct {
	Secret        string
	SessionExpiry time.Duration
}

type BlobConfig struct {
	Dir     string
	URLPath string
}

type SessionConfig struct {
	IdleTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_DEPLOYMENT_ID", "default-app-id")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_PATH", "health-dashboard.db")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("FEED_TRANSPORT", "redis")
	v.SetDefault("BLOB_DIR", "data/blobs")
	v.SetDefault("BLOB_URL_PATH", "/blobs")

	// A missing .env is fine, the environment alone can carry everything.
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	sessionExpiry, err := time.ParseDuration(v.GetString("JWT_SESSION_EXPIRY"))
	if err != nil {
		sessionExpiry = 30 * 24 * time.Hour
	}

	idleTimeout, err := time.ParseDuration(v.GetString("SESSION_IDLE_TIMEOUT"))
	if err != nil {
		idleTimeout = 30 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:         v.GetString("APP_PORT"),
			Env:          v.GetString("APP_ENV"),
			DeploymentID: v.GetString("APP_DEPLOYMENT_ID"),
			CORSOrigins:  strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ","),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Path:     v.GetString("DB_PATH"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Feed: FeedConfig{
			Transport: v.GetString("FEED_TRANSPORT"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			SessionExpiry: sessionExpiry,
		},
		Blob: BlobConfig{
			Dir:     v.GetString("BLOB_DIR"),
			URLPath: v.GetString("BLOB_URL_PATH"),
		},
		Session: SessionConfig{
			IdleTimeout: idleTimeout,
		},
	}

	return config, nil
}
