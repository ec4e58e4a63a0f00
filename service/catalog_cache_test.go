package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedisCatalogCache_UnreachableIsMiss(t *testing.T) {
	cache := NewRedisCatalogCache("127.0.0.1:1", "", time.Minute)
	defer cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cache.Set(ctx, testCatalog())
	products, ok := cache.Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, products)
	cache.Invalidate(ctx)
	assert.Error(t, cache.Ping(ctx))
}

func TestNoopCatalogCache(t *testing.T) {
	var cache CatalogCache = NoopCatalogCache{}
	cache.Set(context.Background(), testCatalog())

	_, ok := cache.Get(context.Background())
	assert.False(t, ok)
}

func TestCatalogService_FallsBackWhenCacheUnavailable(t *testing.T) {
	repo := new(mockCatalogRepository)
	repo.On("ListProducts", context.Background()).Return(testCatalog(), nil)
	cache := NewRedisCatalogCache("127.0.0.1:1", "", time.Minute)
	defer cache.Close()

	resp, err := NewCatalogService(repo, cache, testEngine(), nil, nil, "").ListProducts(context.Background(), false)

	assert.NoError(t, err)
	assert.Len(t, resp.Products, 2)
}
