package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
		// AllowedOrigins - CORS и Origin для websocket; пусто - любой (dev)
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"` // пусто - redis не используется
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Log struct {
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Storage struct {
		Type       string `yaml:"type"`      // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"` // local
		BaseURL    string `yaml:"base_url"`
		Bucket     string `yaml:"bucket"`
		Region     string `yaml:"region"`
		AccessKey  string `yaml:"access_key"`
		SecretKey  string `yaml:"secret_key"`
		Endpoint   string `yaml:"endpoint"`
		PublicRead bool   `yaml:"public_read"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`
		AllowedTypes []string `yaml:"allowed_types"`
		AvatarSize   int      `yaml:"avatar_size"`
		ImageQuality int      `yaml:"image_quality"`
	} `yaml:"upload"`

	Notice struct {
		Backend  string `yaml:"backend"` // memory | redis
		WindowMS int    `yaml:"window_ms"`
		Capacity int    `yaml:"capacity"`
	} `yaml:"notice"`

	Verification struct {
		Mode            string `yaml:"mode"` // stub | http
		DelayMS         int    `yaml:"delay_ms"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		BreakerFailures uint32 `yaml:"breaker_failures"`
		BreakerOpenSecs int    `yaml:"breaker_open_seconds"`
	} `yaml:"verification"`

	Support struct {
		AdminID string `yaml:"admin_id"`
	} `yaml:"support"`

	Workers struct {
		CleanupIntervalMinutes int `yaml:"cleanup_interval_minutes"`
		NotificationRetention  int `yaml:"notification_retention_days"`
	} `yaml:"workers"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig загружает конфиг в AppConfig. Ошибка загрузки фатальна.
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Не удалось прочитать .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load читает yaml (если файл есть), применяет переменные окружения и значения по умолчанию.
// Отсутствие файла допустимо, если DATABASE_URL задан в окружении (режим тестов / контейнера).
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && os.Getenv("DATABASE_URL") != "":
		log.Println("Конфиг-файл не найден, используем переменные окружения")
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.Database.DSN == "" {
		return nil, errors.New("database url is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.FirstAdminEmail, "FIRST_ADMIN_EMAIL")
	setString(&cfg.FirstAdminPassword, "FIRST_ADMIN_PASSWORD")
	setString(&cfg.Support.AdminID, "SUPPORT_ADMIN_ID")
	setString(&cfg.Log.File, "LOG_FILE")

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = cfg.Server.AllowedOrigins[:0]
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, o)
			}
		}
	}

	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Server.Port = port
		} else {
			log.Printf("Некорректный SERVER_PORT=%q, игнорируем", portStr)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60 * 24
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.Type == "local" {
		if cfg.Storage.BasePath == "" {
			cfg.Storage.BasePath = "./uploads"
		}
		if cfg.Storage.BaseURL == "" {
			cfg.Storage.BaseURL = "/api/v1/files"
		}
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if cfg.Upload.AvatarSize == 0 {
		cfg.Upload.AvatarSize = 400
	}
	if cfg.Upload.ImageQuality == 0 {
		cfg.Upload.ImageQuality = 85
	}
	if cfg.Notice.Backend == "" {
		cfg.Notice.Backend = "memory"
	}
	if cfg.Notice.WindowMS == 0 {
		cfg.Notice.WindowMS = 5000
	}
	if cfg.Notice.Capacity == 0 {
		cfg.Notice.Capacity = 1024
	}
	if cfg.Verification.Mode == "" {
		cfg.Verification.Mode = "stub"
	}
	if cfg.Verification.DelayMS == 0 {
		cfg.Verification.DelayMS = 1500
	}
	if cfg.Verification.TimeoutSeconds == 0 {
		cfg.Verification.TimeoutSeconds = 10
	}
	if cfg.Verification.BreakerFailures == 0 {
		cfg.Verification.BreakerFailures = 3
	}
	if cfg.Verification.BreakerOpenSecs == 0 {
		cfg.Verification.BreakerOpenSecs = 30
	}
	if cfg.Workers.CleanupIntervalMinutes == 0 {
		cfg.Workers.CleanupIntervalMinutes = 60
	}
	if cfg.Workers.NotificationRetention == 0 {
		cfg.Workers.NotificationRetention = 30
	}
}

// NoticeWindow - окно подавления повторных уведомлений
func (c *Config) NoticeWindow() time.Duration {
	return time.Duration(c.Notice.WindowMS) * time.Millisecond
}

// VerificationDelay - задержка заглушки верификации канала
func (c *Config) VerificationDelay() time.Duration {
	return time.Duration(c.Verification.DelayMS) * time.Millisecond
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
