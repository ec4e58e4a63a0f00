package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds server configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	BaseURL  string

	DatabaseURL string

	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	PricingConfigPath string

	GoogleCredentialsPath string
	PriceListFolderID     string
	ImageCacheDir         string

	ChromePath string

	QuoteRateLimitRPS   int
	QuoteRateLimitBurst int
}

// IsProduction reports whether ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load loads configuration from environment variables
func Load() *Config {
	port := getEnv("PORT", "8080")
	// PORT from some hosts comes with a leading colon
	port = strings.TrimPrefix(port, ":")

	return &Config{
		Port:                  port,
		Env:                   getEnv("ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		BaseURL:               getEnv("BASE_URL", "http://localhost:"+port),
		DatabaseURL:           databaseURL(),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		CatalogCacheTTL:       getDuration("CATALOG_CACHE_TTL", 30*time.Second),
		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:            getEnv("KAFKA_TOPIC", "counter-offers"),
		PricingConfigPath:     getEnv("PRICING_CONFIG_PATH", "pricing/pricing_config.json"),
		GoogleCredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		PriceListFolderID:     os.Getenv("PRICE_LIST_FOLDER_ID"),
		ImageCacheDir:         getEnv("IMAGE_CACHE_DIR", "cache/images"),
		ChromePath:            os.Getenv("CHROME_PATH"),
		QuoteRateLimitRPS:     getInt("QUOTE_RATE_LIMIT_RPS", 20),
		QuoteRateLimitBurst:   getInt("QUOTE_RATE_LIMIT_BURST", 40),
	}
}

// databaseURL uses DATABASE_URL or builds a DSN from DB_* variables
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		getEnv("DB_PORT", "5432"),
		user,
		os.Getenv("DB_PASSWORD"),
		dbname,
		getEnv("DB_SSLMODE", "disable"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
