package service

import (
	"bytes"
	"context"
	"fmt"

	"farmacia-compras/logger"
	"farmacia-compras/metric"
	"farmacia-compras/models"
	"farmacia-compras/repository"
	"farmacia-compras/utils"
)

// SyncServiceInterface defines the contract for supplier price list synchronization
type SyncServiceInterface interface {
	SyncPriceLists(ctx context.Context, folderID string) (*models.PriceListSyncResult, error)
}

// SyncService loads supplier price lists from Google Drive into PostgreSQL
type SyncService struct {
	driveService DriveServiceInterface
	repository   repository.CatalogRepositoryInterface
	cache        CatalogCache
}

// NewSyncService creates a new SyncService
func NewSyncService(driveService DriveServiceInterface, repo repository.CatalogRepositoryInterface, cache CatalogCache) *SyncService {
	if cache == nil {
		cache = NoopCatalogCache{}
	}
	return &SyncService{
		driveService: driveService,
		repository:   repo,
		cache:        cache,
	}
}

// Ensure SyncService implements SyncServiceInterface
var _ SyncServiceInterface = (*SyncService)(nil)

// SyncPriceLists upserts every price list of the folder as supplier offers.
// A broken file is reported in the result and does not stop the others.
func (s *SyncService) SyncPriceLists(ctx context.Context, folderID string) (*models.PriceListSyncResult, error) {
	logger.Log.Infof("🔄 Starting price list synchronization for folder: %s", folderID)

	files, err := s.driveService.ListPriceLists(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list price lists from Drive: %w", err)
	}

	logger.Log.Infof("📦 Processing %d price lists from Google Drive", len(files))
	result := &models.PriceListSyncResult{Files: len(files)}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		data, err := s.driveService.DownloadFile(ctx, file.DriveFileID)
		if err != nil {
			logger.Log.Errorf("❌ Error downloading %s: %v", file.FileName, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.FileName, err))
			continue
		}

		rows, rowErrors, err := utils.ParsePriceListCSV(bytes.NewReader(data))
		if err != nil {
			logger.Log.Errorf("❌ Error parsing %s: %v", file.FileName, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.FileName, err))
			continue
		}
		for _, rowErr := range rowErrors {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", file.FileName, rowErr))
		}
		result.Skipped += len(rowErrors)

		upserted, unknown, err := s.repository.UpsertSupplierOffers(ctx, file.SupplierCode, rows)
		if err != nil {
			logger.Log.Errorf("❌ Error storing %s: %v", file.FileName, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.FileName, err))
			continue
		}
		for _, sku := range unknown {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: unknown sku %s", file.FileName, sku))
		}

		result.Upserted += upserted
		result.Skipped += len(unknown)
		logger.Log.Infof("✅ Successfully processed %s (supplier=%s, upserted=%d)", file.FileName, file.SupplierCode, upserted)
	}

	metric.PriceListRowsTotal.WithLabelValues("upserted").Add(float64(result.Upserted))
	metric.PriceListRowsTotal.WithLabelValues("skipped").Add(float64(result.Skipped))

	if result.Upserted > 0 {
		s.cache.Invalidate(ctx)
	}

	logger.Log.Infof("🎉 Synchronization completed: %d upserted, %d skipped, %d files", result.Upserted, result.Skipped, result.Files)
	return result, nil
}
