package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	News       NewsConfig       `envconfig:"NEWS"`
	Trend      TrendConfig      `envconfig:"TREND"`
	Database   DatabaseConfig   `envconfig:"DATABASE"`
	ClickHouse ClickHouseConfig `envconfig:"CLICKHOUSE"`
	Redis      RedisConfig      `envconfig:"REDIS"`
	Telegram   TelegramConfig   `envconfig:"TELEGRAM"`
	Server     ServerConfig     `envconfig:"SERVER"`
	Logging    LoggingConfig    `envconfig:"LOGGING"`
}

// NewsConfig represents news collection configuration
type NewsConfig struct {
	Enabled       bool          `envconfig:"NEWS_ENABLED" default:"true"`
	RSSEnabled    bool          `envconfig:"NEWS_RSS_ENABLED" default:"true"`
	SearchEnabled bool          `envconfig:"NEWS_SEARCH_ENABLED" default:"false"`
	SearchAPIKey  string        `envconfig:"NEWS_SEARCH_API_KEY" required:"false"`
	SearchBaseURL string        `envconfig:"NEWS_SEARCH_BASE_URL" default:"https://newsapi.org/v2/everything"`
	FeedsFile     string        `envconfig:"NEWS_FEEDS_FILE" default:"config/feeds.yaml"`
	Keywords      []string      `envconfig:"NEWS_KEYWORDS" default:"stocks,market,economy,earnings,fed,inflation"`
	FetchWindow   time.Duration `envconfig:"NEWS_FETCH_WINDOW" default:"6h"`
	FetchInterval time.Duration `envconfig:"NEWS_FETCH_INTERVAL" default:"15m"`
	RetentionDays int           `envconfig:"NEWS_RETENTION_DAYS" default:"180"`
}

// TrendConfig represents trend analysis parameters
type TrendConfig struct {
	ForecastPeriods int           `envconfig:"TREND_FORECAST_PERIODS" default:"30"`
	LookbackDays    int           `envconfig:"TREND_LOOKBACK_DAYS" default:"90"`
	Interval        time.Duration `envconfig:"TREND_INTERVAL" default:"1h"`
	SidecarPath     string        `envconfig:"TREND_SIDECAR_PATH" default:"results/logs/trend_prediction.json"`
	TemplatesDir    string        `envconfig:"TREND_TEMPLATES_DIR" default:"templates"`
}

// DatabaseConfig represents Postgres connection parameters
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"marketpulse"`
	User     string `envconfig:"DB_USER" required:"false"`
	Password string `envconfig:"DB_PASSWORD" required:"false"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// ClickHouseConfig represents ClickHouse connection parameters for the
// daily sentiment series
type ClickHouseConfig struct {
	Enabled  bool   `envconfig:"CLICKHOUSE_ENABLED" default:"false"`
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Name     string `envconfig:"CLICKHOUSE_DB" default:"marketpulse"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD" required:"false"`
}

// RedisConfig represents Redis connection for distributed run locks
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" required:"false"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// TelegramConfig represents Telegram notification configuration
type TelegramConfig struct {
	BotToken      string `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID        int64  `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
	AlertOnChange bool   `envconfig:"TELEGRAM_ALERT_ON_CHANGE" default:"true"`
	AlertOnErrors bool   `envconfig:"TELEGRAM_ALERT_ON_ERRORS" default:"true"`
}

// ServerConfig represents HTTP/websocket server configuration
type ServerConfig struct {
	Addr string `envconfig:"SERVER_ADDR" default:":8080"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" required:"false"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// ValidateService checks configuration required for service mode. One-shot
// CLI runs against local files do not need any of this.
func (c *Config) ValidateService() error {
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required in service mode")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required in service mode")
	}

	if c.News.SearchEnabled && c.News.SearchAPIKey == "" {
		return fmt.Errorf("NEWS_SEARCH_API_KEY is required when search provider is enabled")
	}

	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when bot token is set")
	}

	if c.Trend.ForecastPeriods < 1 {
		return fmt.Errorf("forecast_periods must be at least 1")
	}
	if c.Trend.LookbackDays < 1 {
		return fmt.Errorf("lookback_days must be at least 1")
	}

	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// GetDSN returns ClickHouse connection string
func (c *ClickHouseConfig) GetDSN() string {
	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Name,
	)
}
