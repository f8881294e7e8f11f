package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Rule evaluation orders understood by the matcher.
const (
	MatchOrderList     = "list"
	MatchOrderPriority = "priority"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Import   ImportConfig
	Client   ClientConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
	Migrate  bool
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// ImportConfig controls the CSV staging pipeline.
type ImportConfig struct {
	MatchOrder      string
	PreviewPageSize int
	SessionTTL      time.Duration
	BankEncoding    string
}

// ClientConfig is used by command-line tools talking to a running server.
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work too.
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
			BodyLimit:    getEnvInt("SERVER_BODY_LIMIT_MB", 16) * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "agency_ledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			Migrate:  getEnv("DB_MIGRATE", "true") == "true",
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
			RefreshExp: time.Duration(getEnvInt("JWT_REFRESH_EXPIRATION_HOURS", 168)) * time.Hour,
		},
		Import: ImportConfig{
			MatchOrder:      strings.ToLower(getEnv("IMPORT_MATCH_ORDER", MatchOrderList)),
			PreviewPageSize: getEnvInt("IMPORT_PREVIEW_PAGE_SIZE", 50),
			SessionTTL:      time.Duration(getEnvInt("IMPORT_SESSION_TTL_MINUTES", 60)) * time.Minute,
			BankEncoding:    strings.ToLower(getEnv("IMPORT_BANK_ENCODING", "auto")),
		},
		Client: ClientConfig{
			BaseURL: strings.TrimRight(getEnv("LEDGER_API_URL", "http://localhost:8080/api/v1"), "/"),
			Token:   getEnv("LEDGER_API_TOKEN", ""),
			Timeout: time.Duration(getEnvInt("LEDGER_API_TIMEOUT", 30)) * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Import.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the import settings that have no safe fallback.
func (c ImportConfig) Validate() error {
	switch c.MatchOrder {
	case MatchOrderList, MatchOrderPriority:
	default:
		return fmt.Errorf("invalid IMPORT_MATCH_ORDER %q: want %q or %q", c.MatchOrder, MatchOrderList, MatchOrderPriority)
	}
	if c.PreviewPageSize <= 0 {
		return fmt.Errorf("invalid IMPORT_PREVIEW_PAGE_SIZE %d", c.PreviewPageSize)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}
