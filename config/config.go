package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Output modes for the JSON file.
const (
	OutputModeMerge  = "merge"
	OutputModeLegacy = "legacy"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	IndexURL      string
	OutputPath    string
	OutputMode    string
	CSVOutputPath string

	Headless  bool
	ChromeBin string
	UserAgent string
	LogLevel  string

	IndexTimeout    time.Duration
	IndexSettle     time.Duration
	DetailTimeout   time.Duration
	FeaturesTimeout time.Duration
	PageTimeout     time.Duration

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int

	RedisEnabled      bool
	RedisAddr         string
	RedisDB           int
	RedisStream       string
	RedisStreamMaxLen int
}

// Load reads the .env file (if any) and returns a populated Config struct.
// It reports whether a .env file was found so the caller can log it once the
// logger exists.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	return &Config{
		IndexURL:      getEnv("INDEX_URL", "https://emlaksiteniz.com/urunler"),
		OutputPath:    getEnv("OUTPUT_PATH", "compiled.json"),
		OutputMode:    strings.ToLower(getEnv("OUTPUT_MODE", OutputModeMerge)),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", ""),

		Headless:  getEnvBool("HEADLESS", true),
		ChromeBin: getEnv("CHROME_BIN", ""),
		UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		IndexTimeout:    getEnvSeconds("INDEX_TIMEOUT_SEC", 10),
		IndexSettle:     time.Duration(getEnvInt("INDEX_SETTLE_MS", 3000)) * time.Millisecond,
		DetailTimeout:   getEnvSeconds("DETAIL_TIMEOUT_SEC", 5),
		FeaturesTimeout: getEnvSeconds("FEATURES_TIMEOUT_SEC", 5),
		PageTimeout:     getEnvSeconds("PAGE_TIMEOUT_SEC", 60),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "emlak_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MaxRetries:       getEnvInt("MAX_RETRIES", 5),

		RedisEnabled:      getEnvBool("REDIS_ENABLED", false),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisStream:       getEnv("REDIS_STREAM", "emlak:listings"),
		RedisStreamMaxLen: getEnvInt("REDIS_STREAM_MAXLEN", 10000),
	}, envLoaded
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
