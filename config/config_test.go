package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "compras")
	t.Setenv("DB_NAME", "compras")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CATALOG_CACHE_TTL", "2m")
	t.Setenv("QUOTE_RATE_LIMIT_RPS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "host=db port=5432 user=compras password=secret dbname=compras sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 2*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 20, cfg.QuoteRateLimitRPS)
}
