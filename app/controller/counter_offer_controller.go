package controller

import (
	"fmt"
	"net/http"

	"farmacia-compras/logger"
	"farmacia-compras/models"
	"farmacia-compras/service"
)

// CounterOfferController handles HTTP requests for counter-offers and their documents
type CounterOfferController struct {
	counterOfferService service.CounterOfferServiceInterface
	documentService     service.DocumentServiceInterface
}

// NewCounterOfferController creates a new CounterOfferController
func NewCounterOfferController(
	counterOfferService service.CounterOfferServiceInterface,
	documentService service.DocumentServiceInterface,
) *CounterOfferController {
	return &CounterOfferController{
		counterOfferService: counterOfferService,
		documentService:     documentService,
	}
}

// Propose handles POST /admin/orders/:id/counter-offer
// Example request:
// {
//   "changes": [
//     {"productId": 12, "quantity": 45, "unitPrice": "21.00", "reason": "stock ajustado"}
//   ]
// }
// Example response:
// {
//   "id": "8f14e45f-ceea-4f6a-9d5b-0c6f2b9e8a11",
//   "orderId": 7,
//   "originalAmount": "1125",
//   "proposedAmount": "945",
//   "productChanges": [...],
//   "status": "pending",
//   "expiryDate": "2025-05-13T09:00:00Z",
//   "createdAt": "2025-05-10T09:00:00Z",
//   "savings": "180.00",
//   "savingsPercent": "16.00"
// }
func (c *CounterOfferController) Propose(w http.ResponseWriter, r *http.Request, orderID int64) {
	logger.Log.Infof("📥 Propose: Received %s request to %s", r.Method, r.URL.Path)
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "Propose", r)
		return
	}

	var req models.CreateCounterOfferRequest
	if err := decodeRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	offer, err := c.counterOfferService.Propose(r.Context(), orderID, &req)
	if err != nil {
		writeServiceError(w, "Propose", err)
		return
	}
	writeJSON(w, "Propose", http.StatusCreated, offer)
}

// OrderRoutes dispatches the buyer counter-offer surface:
//
//	GET  /orders/:id/counter-offer
//	POST /orders/:id/counter-offer/accept
//	POST /orders/:id/counter-offer/reject
//	GET  /orders/:id/counter-offer/document   (HTML)
//	GET  /orders/:id/counter-offer/pdf
func (c *CounterOfferController) OrderRoutes(w http.ResponseWriter, r *http.Request, orderID int64, action string) {
	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, "GetCounterOffer", r)
			return
		}
		offer, err := c.counterOfferService.GetForOrder(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, "GetCounterOffer", err)
			return
		}
		writeJSON(w, "GetCounterOffer", http.StatusOK, offer)
	case "accept", "reject":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, "Respond", r)
			return
		}
		respond := c.counterOfferService.Accept
		if action == "reject" {
			respond = c.counterOfferService.Reject
		}
		logger.Log.Infof("📥 Respond: order_id=%d action=%s", orderID, action)
		offer, err := respond(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, "Respond", err)
			return
		}
		writeJSON(w, "Respond", http.StatusOK, offer)
	case "document":
		c.document(w, r, orderID)
	case "pdf":
		c.pdf(w, r, orderID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (c *CounterOfferController) document(w http.ResponseWriter, r *http.Request, orderID int64) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "CounterOfferDocument", r)
		return
	}
	html, err := c.documentService.RenderCounterOfferHTML(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "CounterOfferDocument", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (c *CounterOfferController) pdf(w http.ResponseWriter, r *http.Request, orderID int64) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "CounterOfferPDF", r)
		return
	}
	logger.Log.Infof("📄 CounterOfferPDF: generating for order_id=%d", orderID)
	data, err := c.documentService.GenerateCounterOfferPDF(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, "CounterOfferPDF", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="contraoferta_pedido_%d.pdf"`, orderID))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
