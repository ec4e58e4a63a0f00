package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"farmacia-compras/logger"
	"farmacia-compras/models"
	"farmacia-compras/service"
)

// OrderController handles HTTP requests for buyer orders
type OrderController struct {
	orderService service.OrderServiceInterface
}

// NewOrderController creates a new OrderController
func NewOrderController(orderService service.OrderServiceInterface) *OrderController {
	return &OrderController{orderService: orderService}
}

// Orders handles POST /orders (create) and GET /orders?buyerId=&status= (list)
// Example request:
// POST /orders
// {"buyerId": "farmacia-central"}
func (c *OrderController) Orders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.createOrder(w, r)
	case http.MethodGet:
		c.listOrders(w, r)
	default:
		methodNotAllowed(w, "Orders", r)
	}
}

func (c *OrderController) createOrder(w http.ResponseWriter, r *http.Request) {
	logger.Log.Infof("📥 CreateOrder: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CreateOrderRequest
	if err := decodeRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := c.orderService.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "CreateOrder", err)
		return
	}

	logger.Log.Infof("✅ CreateOrder: Successfully created order id=%d", order.ID)
	writeJSON(w, "CreateOrder", http.StatusCreated, order)
}

func (c *OrderController) listOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.OrderFilter{
		BuyerID: strings.TrimSpace(query.Get("buyerId")),
		Status:  models.OrderStatus(strings.TrimSpace(query.Get("status"))),
	}

	orders, err := c.orderService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, "ListOrders", err)
		return
	}
	writeJSON(w, "ListOrders", http.StatusOK, orders)
}

// OrderRoutes dispatches the buyer order surface:
//
//	GET  /orders/:id
//	PUT  /orders/:id/lines              {"productId": 12, "quantity": 120}
//	POST /orders/:id/lines/select       {"productId": 12, "selected": true}
//	POST /orders/:id/submit
//	GET  /orders/:id/allocation.csv
func (c *OrderController) OrderRoutes(w http.ResponseWriter, r *http.Request) {
	id, action, err := idFromPath(r.URL.Path, "/orders/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		c.getOrder(w, r, id)
	case action == "lines" && (r.Method == http.MethodPut || r.Method == http.MethodPatch):
		c.setQuantity(w, r, id)
	case action == "lines/select" && r.Method == http.MethodPost:
		c.selectLine(w, r, id)
	case action == "submit" && r.Method == http.MethodPost:
		c.submit(w, r, id)
	case action == "allocation.csv" && r.Method == http.MethodGet:
		c.exportAllocation(w, r, id)
	case action == "" || action == "lines" || action == "lines/select" || action == "submit" || action == "allocation.csv":
		methodNotAllowed(w, "OrderRoutes", r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (c *OrderController) getOrder(w http.ResponseWriter, r *http.Request, id int64) {
	order, err := c.orderService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "GetOrder", err)
		return
	}
	writeJSON(w, "GetOrder", http.StatusOK, order)
}

func (c *OrderController) setQuantity(w http.ResponseWriter, r *http.Request, id int64) {
	var req models.SetQuantityRequest
	if err := decodeRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := c.orderService.SetQuantity(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, "SetQuantity", err)
		return
	}
	writeJSON(w, "SetQuantity", http.StatusOK, order)
}

func (c *OrderController) selectLine(w http.ResponseWriter, r *http.Request, id int64) {
	var req models.SelectLineRequest
	if err := decodeRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := c.orderService.SelectLine(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, "SelectLine", err)
		return
	}
	writeJSON(w, "SelectLine", http.StatusOK, order)
}

func (c *OrderController) submit(w http.ResponseWriter, r *http.Request, id int64) {
	logger.Log.Infof("📥 Submit: Received %s request to %s", r.Method, r.URL.Path)

	order, err := c.orderService.Submit(r.Context(), id)
	if err != nil {
		writeServiceError(w, "Submit", err)
		return
	}
	writeJSON(w, "Submit", http.StatusOK, order)
}

func (c *OrderController) exportAllocation(w http.ResponseWriter, r *http.Request, id int64) {
	order, err := c.orderService.Load(r.Context(), id)
	if err != nil {
		writeServiceError(w, "ExportAllocation", err)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteOrderAllocationCSV(&buf, order); err != nil {
		writeServiceError(w, "ExportAllocation", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pedido_%d.csv"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// decisions maps admin actions to the order status they move to
var decisions = map[string]models.OrderStatus{
	"approve": models.OrderStatusApproved,
	"reject":  models.OrderStatusRejected,
	"process": models.OrderStatusProcessing,
}

// AdminOrderRoutes handles POST /admin/orders/:id/approve|reject|process.
// POST /admin/orders/:id/counter-offer is served by CounterOfferController.
func (c *OrderController) AdminOrderRoutes(w http.ResponseWriter, r *http.Request) {
	id, action, err := idFromPath(r.URL.Path, "/admin/orders/")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if action == "" && r.Method == http.MethodGet {
		c.getOrder(w, r, id)
		return
	}

	to, ok := decisions[action]
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "Decide", r)
		return
	}

	logger.Log.Infof("📥 Decide: order_id=%d action=%s", id, action)
	order, err := c.orderService.Decide(r.Context(), id, to)
	if err != nil {
		writeServiceError(w, "Decide", err)
		return
	}
	writeJSON(w, "Decide", http.StatusOK, order)
}
