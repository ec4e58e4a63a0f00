package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"farmacia-compras/logger"
	"farmacia-compras/metric"
	"farmacia-compras/models"
)

const catalogCacheKey = "catalog:products:v1"

// CatalogCache stores the full product list between price list syncs.
// Implementations treat backend failures as misses.
type CatalogCache interface {
	Get(ctx context.Context) ([]models.Product, bool)
	Set(ctx context.Context, products []models.Product)
	Invalidate(ctx context.Context)
}

// RedisCatalogCache keeps the catalog as one JSON value in Redis
type RedisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Ensure RedisCatalogCache implements CatalogCache
var _ CatalogCache = (*RedisCatalogCache)(nil)

// NewRedisCatalogCache creates a cache backed by the Redis server at addr
func NewRedisCatalogCache(addr, password string, ttl time.Duration) *RedisCatalogCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
	return &RedisCatalogCache{client: rdb, ttl: ttl}
}

func (c *RedisCatalogCache) Get(ctx context.Context) ([]models.Product, bool) {
	data, err := c.client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warnf("⚠️  CatalogCache: redis get failed: %v", err)
		}
		metric.CacheHitsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		logger.Log.Warnf("⚠️  CatalogCache: discarding undecodable entry: %v", err)
		metric.CacheHitsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metric.CacheHitsTotal.WithLabelValues("hit").Inc()
	return products, true
}

func (c *RedisCatalogCache) Set(ctx context.Context, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		logger.Log.Warnf("⚠️  CatalogCache: failed to encode catalog: %v", err)
		return
	}
	if err := c.client.Set(ctx, catalogCacheKey, data, c.ttl).Err(); err != nil {
		logger.Log.Warnf("⚠️  CatalogCache: redis set failed: %v", err)
	}
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		logger.Log.Warnf("⚠️  CatalogCache: redis del failed: %v", err)
		return
	}
	logger.Log.Infof("🧹 CatalogCache: catalog invalidated")
}

// Ping checks the Redis connection
func (c *RedisCatalogCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}

// NoopCatalogCache never caches; used when Redis is not configured
type NoopCatalogCache struct{}

// Ensure NoopCatalogCache implements CatalogCache
var _ CatalogCache = NoopCatalogCache{}

func (NoopCatalogCache) Get(context.Context) ([]models.Product, bool) { return nil, false }
func (NoopCatalogCache) Set(context.Context, []models.Product)        {}
func (NoopCatalogCache) Invalidate(context.Context)                   {}
