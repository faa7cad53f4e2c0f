package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"github.com/floramarket/flora-backend/pkg/config"
	"github.com/floramarket/flora-backend/pkg/db/models"
	"github.com/floramarket/flora-backend/pkg/enums"
	pkgerrors "github.com/floramarket/flora-backend/pkg/errors"
	"github.com/floramarket/flora-backend/pkg/metrics"
	"github.com/floramarket/flora-backend/pkg/pagination"
)

type fakeReader struct {
	listFn        func(ListFilters, pagination.Params) ([]models.Product, int, error)
	facetFn       func(enums.Facet, ListFilters) ([]string, error)
	findFn        func(uuid.UUID) (*models.Product, error)
	findCategory  func(string) (*models.Category, error)
	listByCatFn   func(uuid.UUID) ([]models.Product, error)
	facetRequests map[enums.Facet]ListFilters
	lastParams    pagination.Params
}

func (f *fakeReader) ListProducts(_ context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int, error) {
	f.lastParams = params
	if f.listFn == nil {
		return nil, 0, nil
	}
	return f.listFn(filters, params)
}

func (f *fakeReader) FacetValues(_ context.Context, facet enums.Facet, filters ListFilters) ([]string, error) {
	if f.facetRequests == nil {
		f.facetRequests = map[enums.Facet]ListFilters{}
	}
	f.facetRequests[facet] = filters
	if f.facetFn == nil {
		return nil, nil
	}
	return f.facetFn(facet, filters)
}

func (f *fakeReader) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	return f.findFn(id)
}

func (f *fakeReader) FindCategory(_ context.Context, ref string) (*models.Category, error) {
	return f.findCategory(ref)
}

func (f *fakeReader) ListByCategory(_ context.Context, id uuid.UUID) ([]models.Product, error) {
	return f.listByCatFn(id)
}

func newTestService(t *testing.T, repo *fakeReader, m *metrics.CatalogMetrics) Service {
	t.Helper()
	svc, err := NewService(repo, config.CatalogConfig{DefaultPageSize: 12, MaxPageSize: 50}, m)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil, config.CatalogConfig{}, nil); err == nil {
		t.Fatal("expected error without repository")
	}
}

func TestListProductsRejectsUnknownCodes(t *testing.T) {
	repo := &fakeReader{}
	svc := newTestService(t, repo, nil)

	_, err := svc.ListProducts(context.Background(), ListProductsInput{
		Filters: ListFilters{Mood: "GRUMPY", Color: "RED"},
	})
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", typed.Code())
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if _, ok := details["mood"]; !ok {
		t.Fatalf("expected mood in details, got %v", details)
	}
	if _, ok := details["color"]; ok {
		t.Fatalf("valid color reported as invalid: %v", details)
	}
}

func TestListProductsNormalizesPagination(t *testing.T) {
	repo := &fakeReader{
		listFn: func(_ ListFilters, p pagination.Params) ([]models.Product, int, error) {
			return []models.Product{{ID: uuid.New(), Name: "Roses"}}, 30, nil
		},
	}
	svc := newTestService(t, repo, nil)

	result, err := svc.ListProducts(context.Background(), ListProductsInput{
		Pagination: pagination.Params{Page: 0, Limit: 500},
	})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if want := (pagination.Params{Page: 1, Limit: 50}); repo.lastParams != want {
		t.Fatalf("repository params = %+v, want %+v", repo.lastParams, want)
	}
	if want := (pagination.Info{Page: 1, Limit: 50, Total: 30, Pages: 1}); result.Pagination != want {
		t.Fatalf("pagination = %+v, want %+v", result.Pagination, want)
	}

	if _, err = svc.ListProducts(context.Background(), ListProductsInput{}); err != nil {
		t.Fatalf("list products: %v", err)
	}
	if repo.lastParams.Limit != 12 {
		t.Fatalf("expected default page size 12, got %d", repo.lastParams.Limit)
	}
}

func TestListProductsBuildsFacetCatalogInDeclarationOrder(t *testing.T) {
	repo := &fakeReader{
		facetFn: func(facet enums.Facet, _ ListFilters) ([]string, error) {
			switch facet {
			case enums.FacetMood:
				return []string{"PEACEFUL", "ROMANTIC", "NOT_A_MOOD"}, nil
			case enums.FacetPriceRange:
				return []string{"OVER_100", "UNDER_25"}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(t, repo, nil)

	filters := ListFilters{Mood: "ROMANTIC", Color: "RED", InStock: boolPtr(true)}
	result, err := svc.ListProducts(context.Background(), ListProductsInput{Filters: filters})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}

	if want := []string{"ROMANTIC", "PEACEFUL"}; !reflect.DeepEqual(result.Filters.Moods, want) {
		t.Fatalf("moods = %v, want %v", result.Filters.Moods, want)
	}
	if want := []string{"UNDER_25", "OVER_100"}; !reflect.DeepEqual(result.Filters.PriceRanges, want) {
		t.Fatalf("price ranges = %v, want %v", result.Filters.PriceRanges, want)
	}
	if result.Filters.Colors == nil || len(result.Filters.Colors) != 0 {
		t.Fatalf("facets without values serialize as empty lists, got %#v", result.Filters.Colors)
	}
	if result.Products == nil {
		t.Fatal("expected non-nil products")
	}

	moodQuery := repo.facetRequests[enums.FacetMood]
	if moodQuery.Mood != "" {
		t.Fatalf("a facet's own selection is dropped when narrowing it, got %q", moodQuery.Mood)
	}
	if moodQuery.Color != "RED" || moodQuery.InStock == nil {
		t.Fatalf("other selections must narrow the mood facet, got %+v", moodQuery)
	}
	if got := repo.facetRequests[enums.FacetColor].Mood; got != "ROMANTIC" {
		t.Fatalf("expected mood to narrow colors, got %q", got)
	}
}

func TestListProductsWrapsRepositoryFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCatalogMetrics(reg)
	repo := &fakeReader{
		listFn: func(ListFilters, pagination.Params) ([]models.Product, int, error) {
			return nil, 0, errors.New("connection reset")
		},
	}
	svc := newTestService(t, repo, m)

	_, err := svc.ListProducts(context.Background(), ListProductsInput{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	count, err := testutil.GatherAndCount(reg, "catalog_query_failure")
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 failure series, got %d", count)
	}
}

func TestListProductsCountsEmptyResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewCatalogMetrics(reg)
	svc := newTestService(t, &fakeReader{}, m)

	result, err := svc.ListProducts(context.Background(), ListProductsInput{})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if result.Pagination.Pages != 0 || len(result.Products) != 0 {
		t.Fatalf("expected an empty page, got %+v", result.Pagination)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	var empty float64
	for _, mf := range mfs {
		if mf.GetName() == "catalog_empty_results" {
			empty = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if empty != 1 {
		t.Fatalf("expected 1 empty result, got %v", empty)
	}
}

func TestGetProduct(t *testing.T) {
	id := uuid.New()
	repo := &fakeReader{
		findFn: func(got uuid.UUID) (*models.Product, error) {
			if got != id {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.Product{
				ID:         id,
				Name:       "Crimson Roses",
				PriceCents: 4599,
				Facets: []models.ProductFacet{
					{Facet: enums.FacetColor, Value: "RED"},
					{Facet: enums.FacetOccasion, Value: "ANNIVERSARY"},
				},
			}, nil
		},
	}
	svc := newTestService(t, repo, nil)

	product, err := svc.GetProduct(context.Background(), id)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if !reflect.DeepEqual(product.Colors, []string{"RED"}) || !reflect.DeepEqual(product.Occasions, []string{"ANNIVERSARY"}) {
		t.Fatalf("unexpected facets colors=%v occasions=%v", product.Colors, product.Occasions)
	}
	if product.Moods == nil || len(product.Moods) != 0 {
		t.Fatalf("expected empty moods, got %#v", product.Moods)
	}

	if _, err = svc.GetProduct(context.Background(), uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListCategoryProductsUnknownCategoryIsEmpty(t *testing.T) {
	repo := &fakeReader{
		findCategory: func(string) (*models.Category, error) { return nil, gorm.ErrRecordNotFound },
	}
	svc := newTestService(t, repo, nil)

	result, err := svc.ListCategoryProducts(context.Background(), "nope")
	if err != nil {
		t.Fatalf("list category products: %v", err)
	}
	if result.Products == nil || len(result.Products) != 0 {
		t.Fatalf("expected empty non-nil products, got %#v", result.Products)
	}
}

func TestListCategoryProductsAgainstSQLite(t *testing.T) {
	conn := openTestDB(t)
	category := mustCreateCategory(t, conn, "elegant", "Elegant")
	seedCatalog(t, conn, &category.ID)

	svc, err := NewService(NewRepository(conn), config.CatalogConfig{DefaultPageSize: 12, MaxPageSize: 100}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.ListCategoryProducts(context.Background(), "elegant")
	if err != nil {
		t.Fatalf("list category products: %v", err)
	}
	if len(result.Products) != 2 {
		t.Fatalf("expected 2 category products, got %d", len(result.Products))
	}

	list, err := svc.ListProducts(context.Background(), ListProductsInput{
		Filters:    ListFilters{Mood: "ELEGANT"},
		Pagination: pagination.Params{Page: 1, Limit: 1},
	})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if want := (pagination.Info{Page: 1, Limit: 1, Total: 2, Pages: 2}); list.Pagination != want {
		t.Fatalf("pagination = %+v, want %+v", list.Pagination, want)
	}
	if want := []string{"ROMANTIC", "CHEERFUL", "ELEGANT", "PEACEFUL", "VIBRANT"}; !reflect.DeepEqual(list.Filters.Moods, want) {
		t.Fatalf("moods = %v, want %v", list.Filters.Moods, want)
	}
	if want := []string{"PINK", "WHITE", "PASTEL"}; !reflect.DeepEqual(list.Filters.Colors, want) {
		t.Fatalf("colors = %v, want %v", list.Filters.Colors, want)
	}
}
