package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Processor  ProcessorConfig
	Settlement SettlementConfig
	EmailVer   EmailVerConfig
	Widget     WidgetConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// ProcessorConfig holds the card processor credentials. AppID and LocationID
// come from the environment; leaving them empty makes session creation fail
// with a configuration error rather than a retryable one.
type ProcessorConfig struct {
	BaseURL    string
	AppID      string
	LocationID string
	UseStub    bool
}

// SettlementConfig points at the payment settlement service.
type SettlementConfig struct {
	BaseURL string
	APIKey  string
}

// EmailVerConfig points at the email validation service.
type EmailVerConfig struct {
	BaseURL string
}

// WidgetConfig tunes the widget initialization state machine.
type WidgetConfig struct {
	MaxRetries    int
	SettleDelay   time.Duration // wait after session creation before touching the container
	ContainerWait time.Duration // how long to poll for a client-reported container
	PollInterval  time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8088"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "bizlist:bizlist@tcp(localhost:3306)/bizlist?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  env("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: env("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "bizlist",
		},
		Processor: ProcessorConfig{
			BaseURL:    env("PROCESSOR_BASE_URL", "https://connect.cardproc.example.com"),
			AppID:      os.Getenv("PROCESSOR_APP_ID"),
			LocationID: os.Getenv("PROCESSOR_LOCATION_ID"),
			UseStub:    envBool("PROCESSOR_USE_STUB", false),
		},
		Settlement: SettlementConfig{
			BaseURL: env("SETTLEMENT_BASE_URL", "https://pay.bizlist.example.com"),
			APIKey:  os.Getenv("SETTLEMENT_API_KEY"),
		},
		EmailVer: EmailVerConfig{
			BaseURL: env("EMAILVER_BASE_URL", "https://verify.bizlist.example.com"),
		},
		Widget: WidgetConfig{
			MaxRetries:    3,
			SettleDelay:   500 * time.Millisecond,
			ContainerWait: 5 * time.Second,
			PollInterval:  100 * time.Millisecond,
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
