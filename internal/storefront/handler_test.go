package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/floramarket/flora-backend/pkg/errors"
	"github.com/floramarket/flora-backend/pkg/logger"
)

type stubCatalog struct {
	mu         sync.Mutex
	selections []Selection
	fetchFn    func(sel Selection) (PageResult, error)
	productFn  func(id string) (*Product, error)
	categoryFn func(id string) ([]Product, error)
}

func (s *stubCatalog) Fetch(_ context.Context, sel Selection) (PageResult, error) {
	s.mu.Lock()
	s.selections = append(s.selections, sel)
	s.mu.Unlock()
	if s.fetchFn != nil {
		return s.fetchFn(sel)
	}
	return resultWith(), nil
}

func (s *stubCatalog) Product(_ context.Context, id string) (*Product, error) {
	if s.productFn != nil {
		return s.productFn(id)
	}
	return &Product{ID: id, Name: "White Orchid", PriceCents: 5500, InStock: true, Type: "ORCHID"}, nil
}

func (s *stubCatalog) ProductsByCategory(_ context.Context, id string) ([]Product, error) {
	if s.categoryFn != nil {
		return s.categoryFn(id)
	}
	return []Product{}, nil
}

func newTestServer(t *testing.T, catalog *stubCatalog) http.Handler {
	t.Helper()
	h, err := NewHandler(catalog, 12, logger.Nop(), nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	r := chi.NewRouter()
	h.Mount(r)
	return r
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewHandlerValidatesDependencies(t *testing.T) {
	if _, err := NewHandler(nil, 12, logger.Nop(), nil); err == nil {
		t.Fatal("expected error without catalog")
	}
	if _, err := NewHandler(&stubCatalog{}, 0, logger.Nop(), nil); err == nil {
		t.Fatal("expected error with zero page size")
	}
}

func TestProductsPageRendersListing(t *testing.T) {
	catalog := &stubCatalog{
		fetchFn: func(sel Selection) (PageResult, error) {
			return PageResult{
				Items: []Product{
					{ID: "p1", Name: "Crimson Roses", PriceCents: 4599, InStock: true, Occasions: []string{"ANNIVERSARY"}},
					{ID: "p2", Name: "Blush Peonies", PriceCents: 6200, InStock: false},
				},
				Pagination: Pagination{Page: 1, Limit: 12, Total: 14, TotalPages: 2},
				Facets:     FacetCatalog{Moods: []string{"ROMANTIC"}},
			}, nil
		},
	}
	rec := get(t, newTestServer(t, catalog), "/products?category=romantic")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Crimson Roses",
		"$45.99",
		"Out of Stock",
		"Showing 2 of 14 products (1 filter applied)",
		"Clear All Filters",
		`href="/products?limit=12&amp;mood=ROMANTIC&amp;page=2#top"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
	if strings.Contains(body, "retry-btn") {
		t.Fatal("filtered listing must not offer a retry control")
	}

	if len(catalog.selections) != 1 {
		t.Fatalf("expected one fetch, got %d", len(catalog.selections))
	}
	if got := catalog.selections[0].Query().Encode(); got != "limit=12&mood=ROMANTIC&page=1" {
		t.Fatalf("unexpected catalog query %s", got)
	}
}

func TestProductsPageShowsGenericErrorOnFailure(t *testing.T) {
	catalog := &stubCatalog{
		fetchFn: func(Selection) (PageResult, error) {
			return PageResult{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, errors.New("status 500"), UnavailableMessage)
		},
	}
	rec := get(t, newTestServer(t, catalog), "/products")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to load products. Please try again.") {
		t.Fatal("expected generic error banner")
	}
}

func TestProductDetailPage(t *testing.T) {
	rec := get(t, newTestServer(t, &stubCatalog{}), "/products/p1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "White Orchid") || !strings.Contains(body, "$55.00") {
		t.Fatalf("unexpected detail page %s", body)
	}
}

func TestProductDetailFailureOffersRetry(t *testing.T) {
	catalog := &stubCatalog{
		productFn: func(id string) (*Product, error) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, errors.New("timeout"), UnavailableMessage)
		},
	}
	rec := get(t, newTestServer(t, catalog), "/products/p1")
	body := rec.Body.String()
	if !strings.Contains(body, "retry-btn") || !strings.Contains(body, `href="/products/p1"`) {
		t.Fatalf("expected retry link, got %s", body)
	}
}

func TestProductDetailNotFound(t *testing.T) {
	catalog := &stubCatalog{
		productFn: func(id string) (*Product, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog resource not found")
		},
	}
	rec := get(t, newTestServer(t, catalog), "/products/missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCategoryPageUsesLegacyListing(t *testing.T) {
	var gotID string
	catalog := &stubCatalog{
		categoryFn: func(id string) ([]Product, error) {
			gotID = id
			return []Product{{ID: "p1", Name: "Sunny Sunflowers", PriceCents: 3500, InStock: true}}, nil
		},
	}
	rec := get(t, newTestServer(t, catalog), "/categories/cheerful")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "cheerful" {
		t.Fatalf("expected category id to reach client, got %q", gotID)
	}
	if !strings.Contains(rec.Body.String(), "Sunny Sunflowers") {
		t.Fatal("expected product card")
	}
}
