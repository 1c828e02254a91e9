package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// SSOT: 所有环境变量只在这里读取
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data
	Market MarketConfig

	// Strategy
	Strategy StrategyConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketConfig holds market data source configuration
type MarketConfig struct {
	SinaBaseURL      string        // quote page host
	SinaKlineBaseURL string        // daily kline API host
	RequestTimeout   time.Duration
	RateLimitQPS     float64       // 行情接口限速 (requests per second)
	RateLimitBurst   int
	CacheTTL         time.Duration
}

// StrategyConfig holds strategy bootstrap configuration
// 策略参数本身在 YAML 里 (internal/strategyconfig), 这里只有启动项
type StrategyConfig struct {
	ConfigPath  string // strategy YAML path
	PaperMode   bool   // paper broker instead of live broker
	InitialCash float64
}

// Load reads configuration from environment variables
// SSOT: 只有这个函数调用 os.Getenv()
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8086"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Market data
		Market: MarketConfig{
			SinaBaseURL:      getEnv("SINA_BASE_URL", "https://finance.sina.com.cn"),
			SinaKlineBaseURL: getEnv("SINA_KLINE_BASE_URL", "https://quotes.sina.cn"),
			RequestTimeout:   getEnvAsDuration("MARKET_REQUEST_TIMEOUT", "10s"),
			RateLimitQPS:     getEnvAsFloat("MARKET_RATE_LIMIT_QPS", 5.0),
			RateLimitBurst:   getEnvAsInt("MARKET_RATE_LIMIT_BURST", 10),
			CacheTTL:         getEnvAsDuration("MARKET_CACHE_TTL", "5m"),
		},

		// Strategy
		Strategy: StrategyConfig{
			ConfigPath:  getEnv("STRATEGY_CONFIG", "config/strategy/value_momentum.yaml"),
			PaperMode:   getEnvAsBool("PAPER_MODE", true),
			InitialCash: getEnvAsFloat("PAPER_INITIAL_CASH", 1_000_000),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Strategy.InitialCash <= 0 {
		return fmt.Errorf("PAPER_INITIAL_CASH must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
