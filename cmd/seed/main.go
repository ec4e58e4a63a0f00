// Command seed fills a development database with fake products and supplier offers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"farmacia-compras/config"
	"farmacia-compras/db"
	"farmacia-compras/logger"
	"farmacia-compras/models"
	"farmacia-compras/repository"
)

var activeIngredients = []string{
	"Acetaminofén", "Ibuprofeno", "Naproxeno", "Loratadina", "Omeprazol",
	"Amoxicilina", "Losartán", "Metformina", "Atorvastatina", "Salbutamol",
}

var strengths = []string{"100mg", "200mg", "250mg", "400mg", "500mg", "850mg"}

func main() {
	products := flag.Int("products", 25, "number of products to create")
	suppliers := flag.Int("suppliers", 3, "number of suppliers per product")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel, false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	conn, err := db.InitDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("❌ %v", err)
	}
	defer db.CloseDB()
	if err := db.Migrate(ctx, conn); err != nil {
		logger.Log.Fatalf("❌ %v", err)
	}

	if err := run(ctx, repository.NewCatalogRepository(conn), gofakeit.New(*seed), *products, *suppliers); err != nil {
		logger.Log.Fatalf("❌ %v", err)
	}
}

func run(ctx context.Context, repo repository.CatalogRepositoryInterface, faker *gofakeit.Faker, products, suppliers int) error {
	supplierCodes := make([]string, suppliers)
	for i := range supplierCodes {
		supplierCodes[i] = strings.ToUpper(faker.LetterN(4)) + faker.Numerify("#")
	}
	offers := make(map[string][]models.PriceListRow, suppliers)

	for i := 0; i < products; i++ {
		ingredient := activeIngredients[faker.Number(0, len(activeIngredients)-1)]
		strength := strengths[faker.Number(0, len(strengths)-1)]
		public := decimal.NewFromFloat(faker.Price(3000, 90000)).Round(0)

		product, err := repo.CreateProduct(ctx, &models.CreateProductRequest{
			SKU:         fmt.Sprintf("%s%s-%03d", strings.ToUpper(ingredient[:3]), strings.TrimSuffix(strength, "mg"), i),
			Name:        fmt.Sprintf("%s %s x %d tabletas", ingredient, strength, faker.RandomInt([]int{10, 20, 30, 100})),
			PublicPrice: public,
			VATRate:     decimal.NewFromInt(int64(faker.RandomInt([]int{0, 5, 19}))),
		})
		if err != nil {
			return fmt.Errorf("failed to create product %d: %w", i, err)
		}

		for _, code := range supplierCodes {
			// suppliers undercut the public price by 10% to 45%
			discount := decimal.NewFromFloat(faker.Float64Range(0.55, 0.90))
			offers[code] = append(offers[code], models.PriceListRow{
				SKU:            product.SKU,
				UnitPrice:      public.Mul(discount).Round(0),
				AvailableStock: faker.Number(0, 500),
			})
		}
	}

	for _, code := range supplierCodes {
		upserted, _, err := repo.UpsertSupplierOffers(ctx, code, offers[code])
		if err != nil {
			return fmt.Errorf("failed to store offers of %s: %w", code, err)
		}
		logger.Log.Infof("✅ Supplier %s: %d offers", code, upserted)
	}

	logger.Log.Infof("🎉 Seeded %d products across %d suppliers", products, suppliers)
	return nil
}
