package router

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmacia-compras/app/controller"
)

type Controllers struct {
	Catalog      *controller.CatalogController
	Order        *controller.OrderController
	CounterOffer *controller.CounterOfferController
	PriceList    *controller.PriceListController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// NewRouter wires every route. Quote requests go through quoteLimiter when it is not nil.
func NewRouter(controllers *Controllers, quoteLimiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()

	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	// Catalog routes (buyer view)
	mux.HandleFunc("/catalog/products", controllers.Catalog.ListProducts)

	productRoutes := http.HandlerFunc(controllers.Catalog.ProductRoutes)
	var quoteHandler http.Handler = productRoutes
	if quoteLimiter != nil {
		quoteHandler = quoteLimiter.Middleware(productRoutes)
	}
	mux.HandleFunc("/catalog/products/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/quote") {
			quoteHandler.ServeHTTP(w, r)
			return
		}
		productRoutes(w, r)
	})

	// Catalog routes (admin view, includes supplier identities)
	mux.HandleFunc("/admin/catalog/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Catalog.CreateProduct(w, r)
			return
		}
		controllers.Catalog.ListProducts(w, r)
	})
	mux.HandleFunc("/admin/catalog/products/", controllers.Catalog.ProductRoutes)

	// Supplier price lists
	mux.HandleFunc("/admin/price-lists/sync", controllers.PriceList.SyncPriceLists)

	// Orders
	mux.HandleFunc("/orders", controllers.Order.Orders)
	mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/orders/")
		// Counter-offer actions (must be checked before the generic order routes)
		if id, rest, ok := splitCounterOfferPath(path); ok {
			controllers.CounterOffer.OrderRoutes(w, r, id, rest)
			return
		}
		controllers.Order.OrderRoutes(w, r)
	})

	// Admin order decisions and counter-offer proposals
	mux.HandleFunc("/admin/orders", controllers.Order.Orders)
	mux.HandleFunc("/admin/orders/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/orders/")
		if id, rest, ok := splitCounterOfferPath(path); ok && rest == "" {
			controllers.CounterOffer.Propose(w, r, id)
			return
		}
		controllers.Order.AdminOrderRoutes(w, r)
	})

	return metricsMiddleware(mux)
}

// splitCounterOfferPath parses ":id/counter-offer[/action]"
func splitCounterOfferPath(path string) (int64, string, bool) {
	idPart, rest, found := strings.Cut(path, "/")
	if !found {
		return 0, "", false
	}
	if rest != "counter-offer" && !strings.HasPrefix(rest, "counter-offer/") {
		return 0, "", false
	}
	id, err := parseID(idPart)
	if err != nil {
		return 0, "", false
	}
	return id, strings.Trim(strings.TrimPrefix(rest, "counter-offer"), "/"), true
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %d", id)
	}
	return id, nil
}
