package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"farmacia-compras/logger"
	"farmacia-compras/models"
	"farmacia-compras/utils"
)

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListPriceLists(ctx context.Context, folderID string) ([]models.PriceListFile, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveService{client: driveService}, nil
}

// ListPriceLists lists the supplier CSV price lists in a Drive folder.
// Files whose names do not follow SUPPLIER_LABEL.csv are skipped.
func (ds *DriveService) ListPriceLists(ctx context.Context, folderID string) ([]models.PriceListFile, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var allFiles []*drive.File
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Context(ctx).
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		allFiles = append(allFiles, r.Files...)
		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	var priceLists []models.PriceListFile
	for _, file := range allFiles {
		if !strings.HasSuffix(strings.ToLower(file.Name), ".csv") {
			continue
		}

		parsed, err := utils.ParsePriceListFileName(file.Name)
		if err != nil {
			logger.Log.Warnf("warning: failed to parse filename %s: %v", file.Name, err)
			continue
		}
		parsed.DriveFileID = file.Id
		priceLists = append(priceLists, *parsed)
	}

	return priceLists, nil
}

// DownloadFile downloads the raw content of a Drive file
func (ds *DriveService) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}
