package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"farmacia-compras/counteroffer"
	"farmacia-compras/models"
	"farmacia-compras/pricing"
	"farmacia-compras/repository"
	"farmacia-compras/service"
	"farmacia-compras/workflow"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("order 3: %w", repository.ErrNotFound), http.StatusNotFound},
		{service.ErrLineNotFound, http.StatusNotFound},
		{&workflow.TransitionError{From: models.OrderStatusDraft, To: models.OrderStatusApproved}, http.StatusConflict},
		{service.ErrOrderNotEditable, http.StatusConflict},
		{fmt.Errorf("%w: offer is pending", service.ErrCounterOfferOpen), http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{pricing.ErrZeroQuantitySelection, http.StatusUnprocessableEntity},
		{service.ErrNothingSelected, http.StatusUnprocessableEntity},
		{counteroffer.ErrOfferExpired, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: status is accepted", counteroffer.ErrOfferNotPending), http.StatusUnprocessableEntity},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestIDFromPath(t *testing.T) {
	id, rest, err := idFromPath("/orders/7/lines/select", "/orders/")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "lines/select", rest)

	_, _, err = idFromPath("/orders/abc", "/orders/")
	assert.Error(t, err)
	_, _, err = idFromPath("/orders/0", "/orders/")
	assert.Error(t, err)
}

func TestCatalogController_ListProducts_BuyerAndAdmin(t *testing.T) {
	svc := new(mockCatalogService)
	svc.On("ListProducts", mock.Anything, false).Return(&models.ProductListResponse{Products: []models.ProductListItem{{ID: 1}}}, nil)
	svc.On("ListProducts", mock.Anything, true).Return(&models.ProductListResponse{}, nil)
	c := NewCatalogController(svc)

	rec := httptest.NewRecorder()
	c.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/catalog/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products":[{"id":1`)

	rec = httptest.NewRecorder()
	c.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/admin/catalog/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCatalogController_Quote(t *testing.T) {
	svc := new(mockCatalogService)
	svc.On("Quote", mock.Anything, int64(12), 120).Return(&models.QuoteResponse{
		ProductID: 12, Quantity: 120, AverageUnitPrice: "8.2917", LineTotal: "995.00",
	}, nil)
	c := NewCatalogController(svc)

	rec := httptest.NewRecorder()
	c.ProductRoutes(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/12/quote?quantity=120", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "995.00", body.LineTotal)
	assert.Equal(t, "8.2917", body.AverageUnitPrice)
}

func TestCatalogController_Quote_BadQuantity(t *testing.T) {
	c := NewCatalogController(new(mockCatalogService))

	rec := httptest.NewRecorder()
	c.ProductRoutes(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/12/quote?quantity=lots", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogController_GetProduct_HidesTiersFromBuyers(t *testing.T) {
	svc := new(mockCatalogService)
	product := func() *models.Product {
		return &models.Product{ID: 12, SKU: "ACE500", Tiers: []models.PriceTier{{SourceID: "S1", AvailableStock: 5}}}
	}
	svc.On("GetProduct", mock.Anything, int64(12)).Return(product(), nil).Once()
	svc.On("GetProduct", mock.Anything, int64(12)).Return(product(), nil).Once()
	c := NewCatalogController(svc)

	rec := httptest.NewRecorder()
	c.ProductRoutes(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/12", nil))
	assert.NotContains(t, rec.Body.String(), "S1")

	rec = httptest.NewRecorder()
	c.ProductRoutes(rec, httptest.NewRequest(http.MethodGet, "/admin/catalog/products/12", nil))
	assert.Contains(t, rec.Body.String(), "S1")
}

func TestCatalogController_ExportTiers(t *testing.T) {
	svc := new(mockCatalogService)
	svc.On("GetProduct", mock.Anything, int64(12)).Return(&models.Product{ID: 12, SKU: "ACE500"}, nil)
	svc.On("ConsolidatedTiers", mock.Anything, int64(12), false).Return([]models.ConsolidatedTier{
		{UnitPrice: decimal.RequireFromString("8"), TotalStock: 60},
	}, nil)
	c := NewCatalogController(svc)

	rec := httptest.NewRecorder()
	c.ProductRoutes(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/12/tiers.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "product_id,sku,unit_price,total_stock\n12,ACE500,8,60\n", rec.Body.String())
}

func TestCatalogController_Image_NotFound(t *testing.T) {
	svc := new(mockCatalogService)
	svc.On("ProductImage", mock.Anything, int64(3), "thumb").Return(nil, fmt.Errorf("image: %w", repository.ErrNotFound))
	c := NewCatalogController(svc)

	rec := httptest.NewRecorder()
	c.ProductRoutes(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/3/image?size=thumb", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogController_CreateProduct_Validation(t *testing.T) {
	c := NewCatalogController(new(mockCatalogService))

	rec := httptest.NewRecorder()
	c.CreateProduct(rec, httptest.NewRequest(http.MethodPost, "/admin/catalog/products", strings.NewReader(`{"name":"Sin SKU"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "SKU")
}

func TestOrderController_CreateOrder(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("Create", mock.Anything, &models.CreateOrderRequest{BuyerID: "farmacia-central"}).
		Return(&models.OrderResponse{Order: models.Order{ID: 7, Status: models.OrderStatusDraft}, DisplayTotal: "0.00"}, nil)
	c := NewOrderController(svc)

	rec := httptest.NewRecorder()
	c.Orders(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"buyerId":"farmacia-central"}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"draft"`)
}

func TestOrderController_CreateOrder_MissingBuyer(t *testing.T) {
	c := NewOrderController(new(mockOrderService))

	rec := httptest.NewRecorder()
	c.Orders(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderController_ListOrders_Filter(t *testing.T) {
	svc := new(mockOrderService)
	filter := models.OrderFilter{BuyerID: "farmacia-central", Status: models.OrderStatusPendingApproval}
	svc.On("List", mock.Anything, filter).Return(&models.OrderListResponse{Orders: []models.OrderListItem{}}, nil)
	c := NewOrderController(svc)

	rec := httptest.NewRecorder()
	c.Orders(rec, httptest.NewRequest(http.MethodGet, "/orders?buyerId=farmacia-central&status=pending_approval", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestOrderController_SelectLine_ZeroQuantity(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("SelectLine", mock.Anything, int64(7), &models.SelectLineRequest{ProductID: 12, Selected: true}).
		Return(nil, pricing.ErrZeroQuantitySelection)
	c := NewOrderController(svc)

	rec := httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodPost, "/orders/7/lines/select", strings.NewReader(`{"productId":12,"selected":true}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrderController_SetQuantity_NegativeRejected(t *testing.T) {
	c := NewOrderController(new(mockOrderService))

	rec := httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodPut, "/orders/7/lines", strings.NewReader(`{"productId":12,"quantity":-4}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderController_SetQuantity_AboveColumnRangeRejected(t *testing.T) {
	svc := new(mockOrderService)
	c := NewOrderController(svc)

	rec := httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodPut, "/orders/7/lines", strings.NewReader(`{"productId":12,"quantity":3000000000}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderController_Submit_NotEditable(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("Submit", mock.Anything, int64(7)).Return(nil, fmt.Errorf("order 7 is approved: %w", service.ErrOrderNotEditable))
	c := NewOrderController(svc)

	rec := httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodPost, "/orders/7/submit", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderController_WrongMethod(t *testing.T) {
	c := NewOrderController(new(mockOrderService))

	rec := httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodGet, "/orders/7/submit", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestOrderController_AdminDecide(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("Decide", mock.Anything, int64(7), models.OrderStatusApproved).
		Return(&models.OrderResponse{Order: models.Order{ID: 7, Status: models.OrderStatusApproved}}, nil)
	c := NewOrderController(svc)

	rec := httptest.NewRecorder()
	c.AdminOrderRoutes(rec, httptest.NewRequest(http.MethodPost, "/admin/orders/7/approve", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c.AdminOrderRoutes(rec, httptest.NewRequest(http.MethodPost, "/admin/orders/7/archive", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderController_ExportAllocation(t *testing.T) {
	svc := new(mockOrderService)
	svc.On("Load", mock.Anything, int64(7)).Return(&models.Order{ID: 7, LineItems: []models.OrderLineItem{}}, nil)
	c := NewOrderController(svc)

	rec := httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodGet, "/orders/7/allocation.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pedido_7.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "order_id,product_id"))
}

func TestCounterOfferController_Propose(t *testing.T) {
	svc := new(mockCounterOfferService)
	svc.On("Propose", mock.Anything, int64(7), mock.MatchedBy(func(req *models.CreateCounterOfferRequest) bool {
		return len(req.Changes) == 1 && *req.Changes[0].Quantity == 45 && req.Changes[0].UnitPrice.Equal(decimal.RequireFromString("21"))
	})).Return(&models.CounterOfferResponse{Savings: "180.00", SavingsPercent: "16.00"}, nil)
	c := NewCounterOfferController(svc, new(mockDocumentService))

	rec := httptest.NewRecorder()
	body := `{"changes":[{"productId":1,"quantity":45,"unitPrice":"21.00"}]}`
	c.Propose(rec, httptest.NewRequest(http.MethodPost, "/admin/orders/7/counter-offer", strings.NewReader(body)), 7)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"savingsPercent":"16.00"`)
}

func TestCounterOfferController_Propose_EmptyChanges(t *testing.T) {
	c := NewCounterOfferController(new(mockCounterOfferService), new(mockDocumentService))

	rec := httptest.NewRecorder()
	c.Propose(rec, httptest.NewRequest(http.MethodPost, "/admin/orders/7/counter-offer", strings.NewReader(`{"changes":[]}`)), 7)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCounterOfferController_AcceptExpired(t *testing.T) {
	svc := new(mockCounterOfferService)
	svc.On("Accept", mock.Anything, int64(7)).Return(nil, counteroffer.ErrOfferExpired)
	c := NewCounterOfferController(svc, new(mockDocumentService))

	rec := httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodPost, "/orders/7/counter-offer/accept", nil), 7, "accept")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCounterOfferController_Reject(t *testing.T) {
	svc := new(mockCounterOfferService)
	svc.On("Reject", mock.Anything, int64(7)).Return(&models.CounterOfferResponse{
		CounterOffer: models.CounterOffer{Status: models.CounterOfferRejected},
	}, nil)
	c := NewCounterOfferController(svc, new(mockDocumentService))

	rec := httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodPost, "/orders/7/counter-offer/reject", nil), 7, "reject")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"rejected"`)
	svc.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything)
}

func TestCounterOfferController_Document(t *testing.T) {
	docs := new(mockDocumentService)
	docs.On("RenderCounterOfferHTML", mock.Anything, int64(7)).Return("<html>ok</html>", nil)
	docs.On("GenerateCounterOfferPDF", mock.Anything, int64(7)).Return([]byte("%PDF-1.4"), nil)
	c := NewCounterOfferController(new(mockCounterOfferService), docs)

	rec := httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodGet, "/orders/7/counter-offer/document", nil), 7, "document")
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<html>ok</html>", rec.Body.String())

	rec = httptest.NewRecorder()
	c.OrderRoutes(rec, httptest.NewRequest(http.MethodGet, "/orders/7/counter-offer/pdf", nil), 7, "pdf")
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "contraoferta_pedido_7.pdf")
}

func TestPriceListController_SyncPriceLists(t *testing.T) {
	svc := new(mockSyncService)
	svc.On("SyncPriceLists", mock.Anything, "default-folder").Return(&models.PriceListSyncResult{Files: 1, Upserted: 3}, nil)
	c := NewPriceListController(svc, "default-folder")

	rec := httptest.NewRecorder()
	c.SyncPriceLists(rec, httptest.NewRequest(http.MethodPost, "/admin/price-lists/sync", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"upserted":3`)
}

func TestPriceListController_DriveDisabled(t *testing.T) {
	c := NewPriceListController(nil, "default-folder")

	rec := httptest.NewRecorder()
	c.SyncPriceLists(rec, httptest.NewRequest(http.MethodPost, "/admin/price-lists/sync", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
