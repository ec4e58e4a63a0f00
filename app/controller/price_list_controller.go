package controller

import (
	"net/http"
	"strings"

	"farmacia-compras/logger"
	"farmacia-compras/service"
)

// PriceListController handles supplier price list synchronization
type PriceListController struct {
	syncService     service.SyncServiceInterface
	defaultFolderID string
}

// NewPriceListController creates a new PriceListController.
// syncService may be nil when Google Drive is not configured.
func NewPriceListController(syncService service.SyncServiceInterface, defaultFolderID string) *PriceListController {
	return &PriceListController{
		syncService:     syncService,
		defaultFolderID: defaultFolderID,
	}
}

// SyncPriceLists handles POST /admin/price-lists/sync?folderId=FOLDER_ID
// Example response:
// {
//   "files": 3,
//   "upserted": 412,
//   "skipped": 2,
//   "errors": ["LABFARMA_mayo.csv: line 14: invalid unit_price \"abc\""]
// }
func (c *PriceListController) SyncPriceLists(w http.ResponseWriter, r *http.Request) {
	logger.Log.Infof("📥 SyncPriceLists: Received %s request to %s", r.Method, r.URL.Path)

	if r.Method != http.MethodPost {
		methodNotAllowed(w, "SyncPriceLists", r)
		return
	}
	if c.syncService == nil {
		http.Error(w, "Google Drive is not configured", http.StatusServiceUnavailable)
		return
	}

	folderID := strings.TrimSpace(r.URL.Query().Get("folderId"))
	if folderID == "" {
		folderID = c.defaultFolderID
	}
	if folderID == "" {
		http.Error(w, "folderId query parameter is required", http.StatusBadRequest)
		return
	}

	result, err := c.syncService.SyncPriceLists(r.Context(), folderID)
	if err != nil {
		writeServiceError(w, "SyncPriceLists", err)
		return
	}

	logger.Log.Infof("✅ SyncPriceLists: %d upserted, %d skipped", result.Upserted, result.Skipped)
	writeJSON(w, "SyncPriceLists", http.StatusOK, result)
}
