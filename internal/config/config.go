package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fastygo/contracts/internal/pricing"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Outbox      OutboxConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
	Contracts   ContractsConfig
	Webhook     WebhookConfig
	Tracking    TrackingConfig
	PDF         PDFConfig
}

type HTTPConfig struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxConn       int
	EnablePprof   bool
	EnableMetrics bool
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// OutboxConfig controls the bbolt notification outbox and its drain job.
type OutboxConfig struct {
	Path           string
	Bucket         string
	RetentionHours int
	DrainInterval  time.Duration
	BatchSize      int
	MaxRetry       int
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// ContractsConfig tunes the render pipeline.
type ContractsConfig struct {
	Tiers        pricing.Table
	TierKeywords []string
	Locale       string
	PlanLabel    string
	InvestLabel  string
	DueLabel     string
}

type WebhookConfig struct {
	Secret   string
	DedupTTL time.Duration
}

type TrackingConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

type PDFConfig struct {
	ControlURL string
	Bin        string
	Timeout    time.Duration
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "contracts"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:          getString("SERVER_HOST", "0.0.0.0"),
			Port:          getString("SERVER_PORT", "8080"),
			ReadTimeout:   getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:   getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:       getInt("SERVER_MAX_CONN", 0),
			EnablePprof:   getBool("SERVER_ENABLE_PPROF", false),
			EnableMetrics: getBool("SERVER_ENABLE_METRICS", false),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "contracts"),
			User:            getString("DB_USER", "contracts"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "contracts"),
		},
		Outbox: OutboxConfig{
			Path:           getString("BOLTDB_PATH", "./data/outbox.db"),
			Bucket:         getString("OUTBOX_BUCKET", "notifications"),
			RetentionHours: getInt("OUTBOX_RETENTION_HOURS", 72),
			DrainInterval:  getDuration("OUTBOX_DRAIN_INTERVAL", 30*time.Second),
			BatchSize:      getInt("OUTBOX_BATCH_SIZE", 50),
			MaxRetry:       getInt("MAX_RETRY_ATTEMPTS", 5),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
		Contracts: ContractsConfig{
			Tiers:        pricing.DefaultTable(),
			TierKeywords: getList("CONTRACT_TIER_KEYWORDS", []string{"software"}),
			Locale:       getString("CONTRACT_LOCALE", "pt-BR"),
			PlanLabel:    os.Getenv("CONTRACT_PLAN_LABEL"),
			InvestLabel:  os.Getenv("CONTRACT_INVESTMENT_LABEL"),
			DueLabel:     os.Getenv("CONTRACT_DUE_DATE_LABEL"),
		},
		Webhook: WebhookConfig{
			Secret:   os.Getenv("SIGNATURE_WEBHOOK_SECRET"),
			DedupTTL: getDuration("SIGNATURE_WEBHOOK_DEDUP_TTL", 72*time.Hour),
		},
		Tracking: TrackingConfig{
			URL:     os.Getenv("TRACKING_URL"),
			Token:   os.Getenv("TRACKING_TOKEN"),
			Timeout: getDuration("TRACKING_TIMEOUT", 5*time.Second),
		},
		PDF: PDFConfig{
			ControlURL: os.Getenv("PDF_BROWSER_URL"),
			Bin:        os.Getenv("PDF_BROWSER_BIN"),
			Timeout:    getDuration("PDF_TIMEOUT", 30*time.Second),
		},
	}

	if raw := os.Getenv("CONTRACT_TIERS"); raw != "" {
		tiers, err := pricing.ParseTable(raw)
		if err != nil {
			return nil, fmt.Errorf("CONTRACT_TIERS: %w", err)
		}
		cfg.Contracts.Tiers = tiers
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
