package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"farmacia-compras/logger"
	"farmacia-compras/models"
	"farmacia-compras/service"
)

// CatalogController handles HTTP requests for the product catalog
type CatalogController struct {
	catalogService service.CatalogServiceInterface
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService service.CatalogServiceInterface) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// isAdminRequest reports whether the request came through the /admin/ surface
func isAdminRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/admin/")
}

// ListProducts handles GET /catalog/products and GET /admin/catalog/products.
// Buyers get consolidated tiers without supplier identities.
// Example response:
// {
//   "products": [
//     {
//       "id": 12,
//       "sku": "ACE500",
//       "name": "Acetaminofén 500mg",
//       "publicPrice": "14.28",
//       "vatRate": "19",
//       "bestPrice": "9.52",
//       "totalStock": 160,
//       "tiers": [{"unitPrice": "8", "totalStock": 60}, {"unitPrice": "8.5", "totalStock": 100}],
//       "imageUrl": "http://localhost:8080/catalog/products/12/image?size=thumb"
//     }
//   ]
// }
func (c *CatalogController) ListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "ListProducts", r)
		return
	}

	resp, err := c.catalogService.ListProducts(r.Context(), isAdminRequest(r))
	if err != nil {
		writeServiceError(w, "ListProducts", err)
		return
	}
	writeJSON(w, "ListProducts", http.StatusOK, resp)
}

// CreateProduct handles POST /admin/catalog/products
// Example request:
// {"sku": "ACE500", "name": "Acetaminofén 500mg", "publicPrice": "12.00", "vatRate": "19"}
func (c *CatalogController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	logger.Log.Infof("📥 CreateProduct: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CreateProductRequest
	if err := decodeRequest(r, &req); err != nil {
		logger.Log.Infof("❌ CreateProduct: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := c.catalogService.CreateProduct(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "CreateProduct", err)
		return
	}

	logger.Log.Infof("✅ CreateProduct: Successfully created product id=%d sku=%s", product.ID, product.SKU)
	writeJSON(w, "CreateProduct", http.StatusCreated, product)
}

// ProductRoutes dispatches /catalog/products/:id[/tiers|/tiers.csv|/quote|/image]
// and the same paths under /admin/.
func (c *CatalogController) ProductRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "ProductRoutes", r)
		return
	}

	prefix := "/catalog/products/"
	if isAdminRequest(r) {
		prefix = "/admin/catalog/products/"
	}
	id, action, err := idFromPath(r.URL.Path, prefix)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch action {
	case "":
		c.getProduct(w, r, id)
	case "tiers":
		c.getTiers(w, r, id)
	case "tiers.csv":
		c.exportTiers(w, r, id)
	case "quote":
		c.quote(w, r, id)
	case "image":
		c.getImage(w, r, id)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (c *CatalogController) getProduct(w http.ResponseWriter, r *http.Request, id int64) {
	product, err := c.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, "GetProduct", err)
		return
	}
	if !isAdminRequest(r) {
		product.Tiers = nil
	}
	writeJSON(w, "GetProduct", http.StatusOK, product)
}

// getTiers handles GET /catalog/products/:id/tiers
// Example response (buyer):
// [{"unitPrice": "8", "totalStock": 60}, {"unitPrice": "8.5", "totalStock": 100}]
func (c *CatalogController) getTiers(w http.ResponseWriter, r *http.Request, id int64) {
	tiers, err := c.catalogService.ConsolidatedTiers(r.Context(), id, isAdminRequest(r))
	if err != nil {
		writeServiceError(w, "GetTiers", err)
		return
	}
	writeJSON(w, "GetTiers", http.StatusOK, tiers)
}

func (c *CatalogController) exportTiers(w http.ResponseWriter, r *http.Request, id int64) {
	admin := isAdminRequest(r)
	product, err := c.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, "ExportTiers", err)
		return
	}
	tiers, err := c.catalogService.ConsolidatedTiers(r.Context(), id, admin)
	if err != nil {
		writeServiceError(w, "ExportTiers", err)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteConsolidatedTiersCSV(&buf, product, tiers, admin); err != nil {
		writeServiceError(w, "ExportTiers", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tiers_%s.csv"`, product.SKU))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// quote handles GET /catalog/products/:id/quote?quantity=120
// Example response:
// {
//   "productId": 12,
//   "quantity": 120,
//   "averageUnitPrice": "8.2917",
//   "lineTotal": "995.00",
//   "allocation": {...}
// }
func (c *CatalogController) quote(w http.ResponseWriter, r *http.Request, id int64) {
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		http.Error(w, "quantity query parameter must be an integer", http.StatusBadRequest)
		return
	}

	quote, err := c.catalogService.Quote(r.Context(), id, quantity)
	if err != nil {
		writeServiceError(w, "Quote", err)
		return
	}
	writeJSON(w, "Quote", http.StatusOK, quote)
}

// getImage handles GET /catalog/products/:id/image?size=thumb|medium
func (c *CatalogController) getImage(w http.ResponseWriter, r *http.Request, id int64) {
	size := r.URL.Query().Get("size")
	if size != "" && size != "thumb" && size != "medium" {
		http.Error(w, "size must be thumb or medium", http.StatusBadRequest)
		return
	}

	data, err := c.catalogService.ProductImage(r.Context(), id, size)
	if err != nil {
		writeServiceError(w, "GetImage", err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
