package catalog

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/floramarket/flora-backend/pkg/db/models"
	"github.com/floramarket/flora-backend/pkg/enums"
)

const sqliteSchema = `
CREATE TABLE categories (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  created_at DATETIME
);
CREATE TABLE products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price_cents INTEGER NOT NULL,
  price_range TEXT NOT NULL,
  image_url TEXT NOT NULL,
  in_stock BOOLEAN NOT NULL DEFAULT 1,
  stock_count INTEGER NOT NULL DEFAULT 0,
  type TEXT NOT NULL,
  category_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE product_facets (
  product_id TEXT NOT NULL,
  facet TEXT NOT NULL,
  value TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (product_id, facet, value)
);
`

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	for _, stmt := range strings.Split(sqliteSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

type productSeed struct {
	name       string
	desc       string
	cents      int
	kind       enums.ProductType
	inStock    bool
	categoryID *uuid.UUID
	occasions  []string
	seasons    []string
	moods      []string
	colors     []string
}

// mustCreateProduct inserts p with created_at set age hours before testEpoch.
func mustCreateProduct(t *testing.T, tx *gorm.DB, p productSeed, age int) *models.Product {
	t.Helper()
	priceRange, err := enums.PriceRangeFor(p.cents)
	if err != nil {
		t.Fatalf("price range: %v", err)
	}
	product := &models.Product{
		ID:          uuid.New(),
		Name:        p.name,
		Description: p.desc,
		PriceCents:  p.cents,
		PriceRange:  priceRange,
		ImageURL:    "https://images.flora.example/" + strings.ToLower(strings.ReplaceAll(p.name, " ", "-")) + ".jpg",
		InStock:     p.inStock,
		Type:        p.kind,
		CategoryID:  p.categoryID,
		CreatedAt:   testEpoch.Add(-time.Duration(age) * time.Hour),
		UpdatedAt:   testEpoch,
	}
	if p.inStock {
		product.StockCount = 5
	}
	for facet, values := range map[enums.Facet][]string{
		enums.FacetOccasion: p.occasions,
		enums.FacetSeason:   p.seasons,
		enums.FacetMood:     p.moods,
		enums.FacetColor:    p.colors,
	} {
		for i, v := range values {
			product.Facets = append(product.Facets, models.ProductFacet{Facet: facet, Value: v, Position: i})
		}
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product %s: %v", p.name, err)
	}
	return product
}

func mustCreateCategory(t *testing.T, tx *gorm.DB, slug, name string) *models.Category {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Slug: slug, Name: name, CreatedAt: testEpoch}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

// seedCatalog creates a small catalog. Index 0 is the newest product.
func seedCatalog(t *testing.T, tx *gorm.DB, categoryID *uuid.UUID) []*models.Product {
	t.Helper()
	seeds := []productSeed{
		{name: "Crimson Roses", desc: "Long-stemmed red roses", cents: 4599, kind: enums.ProductTypeRose, inStock: true, categoryID: categoryID,
			occasions: []string{"ANNIVERSARY", "VALENTINES_DAY"}, seasons: []string{"ALL_SEASON"}, moods: []string{"ROMANTIC"}, colors: []string{"RED"}},
		{name: "Sunny Sunflowers", desc: "Bright and cheerful", cents: 3299, kind: enums.ProductTypeSunflower, inStock: true,
			occasions: []string{"BIRTHDAY"}, seasons: []string{"SUMMER"}, moods: []string{"CHEERFUL", "VIBRANT"}, colors: []string{"YELLOW"}},
		{name: "Blush Peonies", desc: "Soft pink 100% peony bouquet", cents: 6850, kind: enums.ProductTypeBouquet, inStock: false, categoryID: categoryID,
			occasions: []string{"MOTHERS_DAY"}, seasons: []string{"SPRING"}, moods: []string{"ROMANTIC", "ELEGANT"}, colors: []string{"PINK", "PASTEL"}},
		{name: "White Orchid", desc: "Elegant phalaenopsis", cents: 8900, kind: enums.ProductTypeOrchid, inStock: true,
			occasions: []string{"SYMPATHY"}, seasons: []string{"ALL_SEASON"}, moods: []string{"ELEGANT"}, colors: []string{"WHITE"}},
		{name: "Succulent Trio", desc: "Easy care", cents: 2200, kind: enums.ProductTypeSucculent, inStock: true,
			occasions: []string{"JUST_BECAUSE"}, seasons: []string{"ALL_SEASON"}, moods: []string{"PEACEFUL"}, colors: []string{"GREEN"}},
	}
	out := make([]*models.Product, 0, len(seeds))
	for i, seed := range seeds {
		out = append(out, mustCreateProduct(t, tx, seed, i+1))
	}
	return out
}

func boolPtr(v bool) *bool {
	return &v
}
