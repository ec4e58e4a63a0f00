package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/shopspring/decimal"

	"farmacia-compras/counteroffer"
	"farmacia-compras/models"
	"farmacia-compras/pricing"
	"farmacia-compras/utils"
)

//go:embed templates/counter_offer.html
var templateFS embed.FS

var counterOfferTemplate = template.Must(template.ParseFS(templateFS, "templates/counter_offer.html"))

// CounterOfferReader returns the current counter-offer of an order
type CounterOfferReader interface {
	GetForOrder(ctx context.Context, orderID int64) (*models.CounterOfferResponse, error)
}

// DocumentService renders counter-offer documents as HTML and PDF
type DocumentService struct {
	offers     CounterOfferReader
	orders     OrderLoader
	engine     *pricing.Engine
	baseURL    string
	chromePath string
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(offers CounterOfferReader, orders OrderLoader, engine *pricing.Engine, baseURL, chromePath string) *DocumentService {
	return &DocumentService{
		offers:     offers,
		orders:     orders,
		engine:     engine,
		baseURL:    strings.TrimRight(baseURL, "/"),
		chromePath: chromePath,
	}
}

// Ensure DocumentService implements DocumentServiceInterface
var _ DocumentServiceInterface = (*DocumentService)(nil)

type counterOfferRow struct {
	Name              string
	Reason            string
	OriginalQuantity  int
	ProposedQuantity  int
	OriginalUnitPrice string
	ProposedUnitPrice string
	OriginalTotal     string
	ProposedTotal     string
	Difference        string
	Saving            bool
}

type counterOfferDocument struct {
	OrderID        int64
	BuyerID        string
	Status         models.CounterOfferStatus
	ExpiryDate     string
	Rows           []counterOfferRow
	OriginalAmount string
	ProposedAmount string
	Savings        string
	SavingsPercent string
}

// RenderCounterOfferHTML renders the latest counter-offer of an order
func (s *DocumentService) RenderCounterOfferHTML(ctx context.Context, orderID int64) (string, error) {
	offer, err := s.offers.GetForOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	order, err := s.orders.Load(ctx, orderID)
	if err != nil {
		return "", err
	}

	names := make(map[int64]string, len(order.LineItems))
	for _, line := range order.LineItems {
		names[line.ProductID] = line.ProductName
	}

	scale := s.engine.Config().DisplayScale
	unitScale := s.engine.Config().AveragePriceScale
	money := func(d decimal.Decimal) string { return utils.FormatMoney(d, scale) }

	doc := counterOfferDocument{
		OrderID:        order.ID,
		BuyerID:        order.BuyerID,
		Status:         offer.Status,
		ExpiryDate:     offer.ExpiryDate.Local().Format("02/01/2006 15:04"),
		OriginalAmount: money(offer.OriginalAmount),
		ProposedAmount: money(offer.ProposedAmount),
		Savings:        money(counteroffer.Savings(offer.CounterOffer)),
		SavingsPercent: utils.FormatPercent(counteroffer.SavingsPercent(offer.CounterOffer)),
	}
	for _, change := range offer.ProductChanges {
		name := names[change.ProductID]
		if name == "" {
			name = fmt.Sprintf("Producto %d", change.ProductID)
		}
		doc.Rows = append(doc.Rows, counterOfferRow{
			Name:              name,
			Reason:            change.Reason,
			OriginalQuantity:  change.OriginalQuantity,
			ProposedQuantity:  change.ProposedQuantity,
			OriginalUnitPrice: utils.FormatMoney(change.OriginalUnitPrice, unitScale),
			ProposedUnitPrice: utils.FormatMoney(change.ProposedUnitPrice, unitScale),
			OriginalTotal:     money(change.OriginalTotalPrice),
			ProposedTotal:     money(change.ProposedTotalPrice),
			Difference:        money(change.Difference),
			Saving:            !change.Difference.IsNegative(),
		})
	}

	var buf bytes.Buffer
	if err := counterOfferTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// detectChromePath returns the configured Chrome/Chromium path or the first common installation found
func detectChromePath(configured string) string {
	paths := []string{
		configured,
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// GenerateCounterOfferPDF prints the rendered counter-offer page to PDF with headless Chrome
func (s *DocumentService) GenerateCounterOfferPDF(ctx context.Context, orderID int64) ([]byte, error) {
	// make sure the offer exists before starting a browser
	if _, err := s.offers.GetForOrder(ctx, orderID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/orders/%d/counter-offer/document", s.baseURL, orderID)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).   // 210mm in inches
				WithPaperHeight(11.69). // 297mm in inches
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
