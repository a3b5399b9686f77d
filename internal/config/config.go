package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration values.
type Config struct {
	Secret       string
	DBDriver     string
	DatabaseDSN  string
	HTTPPort     string
	AuthRequired bool
	CORSOrigins  []string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	CacheTTL     time.Duration
	LogLevel     string
	LogFormat    string
}

// Load reads configuration from environment variables with reasonable defaults.
// A .env file in the working directory is honoured when present.
func Load() Config {
	_ = godotenv.Load()

	secret := getenv("SECRET", "dev_secret")

	port := getenv("HTTP_PORT", "5000")
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		logrus.Warnf("invalid HTTP_PORT value %q, defaulting to 5000", port)
		port = "5000"
	}

	driver := strings.ToLower(getenv("DB_DRIVER", "sqlite"))
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = DefaultDSN(driver)
	}

	redisDB, err := strconv.Atoi(getenv("REDIS_DB", "0"))
	if err != nil {
		logrus.Warnf("invalid REDIS_DB value %q, defaulting to 0", os.Getenv("REDIS_DB"))
		redisDB = 0
	}

	ttl, err := time.ParseDuration(getenv("CACHE_TTL", "60s"))
	if err != nil || ttl <= 0 {
		logrus.Warnf("invalid CACHE_TTL value %q, defaulting to 60s", os.Getenv("CACHE_TTL"))
		ttl = 60 * time.Second
	}

	authRequired, _ := strconv.ParseBool(getenv("AUTH_REQUIRED", "false"))

	return Config{
		Secret:       secret,
		DBDriver:     driver,
		DatabaseDSN:  dsn,
		HTTPPort:     port,
		AuthRequired: authRequired,
		CORSOrigins:  splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisDB:      redisDB,
		CacheTTL:     ttl,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFormat:    getenv("LOG_FORMAT", "text"),
	}
}

// DefaultDSN builds a DSN for driver from the DB_* variables.
func DefaultDSN(driver string) string {
	host := getenv("DB_HOST", "localhost")
	user := getenv("DB_USER", "root")
	password := os.Getenv("DB_PASSWORD")
	name := getenv("DB_NAME", "pms")

	switch driver {
	case "pgx", "postgres", "postgresql":
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, getenv("DB_PORT", "5432"), name)
	case "mysql":
		// parseTime scans DATETIME into time.Time; clientFoundRows makes RowsAffected count matched rows.
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&clientFoundRows=true", user, password, host, getenv("DB_PORT", "3306"), name)
	default:
		return name + ".db?_time_format=sqlite"
	}
}

// ConfigureLogging applies the level and formatter to the standard logrus logger.
func (c Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
