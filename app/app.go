package app

import (
	"context"
	"fmt"
	"net/http"

	"farmacia-compras/app/controller"
	"farmacia-compras/app/router"
	"farmacia-compras/config"
	"farmacia-compras/db"
	"farmacia-compras/events"
	"farmacia-compras/logger"
	"farmacia-compras/pricing"
	"farmacia-compras/repository"
	"farmacia-compras/service"
)

// App holds the HTTP handler and the resources to release on shutdown
type App struct {
	Handler http.Handler

	closers []func() error
}

// Close releases every resource opened by Initialize, in reverse order
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Log.Warnf("⚠️  Close: %v", err)
		}
	}
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	// Pricing rules
	engine, err := pricing.NewEngine(cfg.PricingConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing config: %w", err)
	}

	// Initialize database connection
	conn, err := db.InitDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, db.CloseDB)
	if err := db.Migrate(ctx, conn); err != nil {
		a.Close()
		return nil, err
	}

	// Catalog cache
	var cache service.CatalogCache = service.NoopCatalogCache{}
	if cfg.RedisAddr != "" {
		redisCache := service.NewRedisCatalogCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CatalogCacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Log.Warnf("⚠️  Redis at %s is unreachable, catalog cache disabled until it answers: %v", cfg.RedisAddr, err)
		}
		a.closers = append(a.closers, redisCache.Close)
		cache = redisCache
	}

	// Counter-offer events
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopicExists(cfg.KafkaBrokers, cfg.KafkaTopic); err != nil {
			logger.Log.Warnf("⚠️  Kafka topic check failed: %v", err)
		}
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, kafkaPublisher.Close)
		publisher = kafkaPublisher
	}

	// Google Drive is optional: without it price list sync and product images are disabled
	var driveService service.DriveServiceInterface
	if cfg.GoogleCredentialsPath != "" {
		ds, err := service.NewDriveService(ctx, cfg.GoogleCredentialsPath)
		if err != nil {
			a.Close()
			return nil, err
		}
		driveService = ds
	} else {
		logger.Log.Warnf("⚠️  GOOGLE_APPLICATION_CREDENTIALS is not set, price list sync and product images are disabled")
	}

	images, err := service.NewImageCache(cfg.ImageCacheDir)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(conn)
	orderRepo := repository.NewOrderRepository(conn)
	counterOfferRepo := repository.NewCounterOfferRepository(conn)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, cache, engine, driveService, images, cfg.BaseURL)
	orderService := service.NewOrderService(orderRepo, counterOfferRepo, catalogService, engine)
	counterOfferService := service.NewCounterOfferService(counterOfferRepo, orderService, publisher, engine)
	documentService := service.NewDocumentService(counterOfferService, orderService, engine, cfg.BaseURL, cfg.ChromePath)

	var syncService service.SyncServiceInterface
	if driveService != nil {
		syncService = service.NewSyncService(driveService, catalogRepo, cache)
	}

	// Create controllers
	controllers := &router.Controllers{
		Catalog:      controller.NewCatalogController(catalogService),
		Order:        controller.NewOrderController(orderService),
		CounterOffer: controller.NewCounterOfferController(counterOfferService, documentService),
		PriceList:    controller.NewPriceListController(syncService, cfg.PriceListFolderID),
	}

	limiter := router.NewRateLimiter(cfg.QuoteRateLimitRPS, cfg.QuoteRateLimitBurst)
	a.closers = append(a.closers, func() error { limiter.Stop(); return nil })

	a.Handler = router.NewRouter(controllers, limiter)
	return a, nil
}
