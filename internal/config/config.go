package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	AppEnv string
	Port   string

	// Database
	DBDriver   string // "postgres" or "sqlite"
	SQLitePath string
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGName     string

	// Cache
	CacheBackend  string // "memory" or "redis"
	RedisHost     string
	RedisPort     string
	RedisPassword string
	PriceCacheTTL time.Duration

	// Amadeus
	AmadeusAPIKey    string
	AmadeusAPISecret string
	AmadeusEnv       string
	AmadeusBaseURL   string
	AmadeusTimeout   time.Duration
	AmadeusRPS       float64
	UseMockData      bool

	// Resend
	ResendAPIKey    string
	ResendFromEmail string
	ResendBaseURL   string

	// Fetch scheduling
	FetchInterval     time.Duration
	FetchConcurrency  int
	FetchOnStartup    bool
	ReportingCurrency string
}

// Load loads configuration from the environment, reading a .env file first if present
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		SQLitePath: getEnv("SQLITE_PATH", "skywatch.db"),
		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGUser:     getEnv("PG_USER", "skywatch"),
		PGPassword: getEnv("PG_PASSWORD", "skywatch"),
		PGName:     getEnv("PG_DB", "skywatch"),

		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		PriceCacheTTL: getDuration("PRICE_CACHE_TTL", 5*time.Minute),

		AmadeusAPIKey:    os.Getenv("AMADEUS_API_KEY"),
		AmadeusAPISecret: os.Getenv("AMADEUS_API_SECRET"),
		AmadeusEnv:       getEnv("AMADEUS_ENV", "test"),
		AmadeusBaseURL:   os.Getenv("AMADEUS_BASE_URL"),
		AmadeusTimeout:   getDuration("AMADEUS_TIMEOUT", 30*time.Second),
		AmadeusRPS:       getFloat("AMADEUS_RPS", 5),
		UseMockData:      getBool("USE_MOCK_DATA", true),

		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		ResendFromEmail: getEnv("RESEND_FROM_EMAIL", "onboarding@resend.dev"),
		ResendBaseURL:   os.Getenv("RESEND_BASE_URL"),

		FetchInterval:     getDuration("FETCH_INTERVAL", time.Hour),
		FetchConcurrency:  getInt("FETCH_CONCURRENCY", 4),
		FetchOnStartup:    getBool("FETCH_ON_STARTUP", true),
		ReportingCurrency: strings.ToUpper(getEnv("REPORTING_CURRENCY", "USD")),
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite)", cfg.DBDriver)
	}
	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = 1
	}

	return cfg, nil
}

// PostgresDSN builds the postgres connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGName)
}

// RedisAddr returns host:port for the redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// LiveProviderEnabled reports whether live Amadeus lookups should be attempted
func (c *Config) LiveProviderEnabled() bool {
	return !c.UseMockData && c.AmadeusAPIKey != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, v, defaultValue)
		return defaultValue
	}
	return i
}

func getFloat(key string, defaultValue float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, v, defaultValue)
		return defaultValue
	}
	return f
}

func getBool(key string, defaultValue bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, v, defaultValue)
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, v, defaultValue)
		return defaultValue
	}
	return d
}
