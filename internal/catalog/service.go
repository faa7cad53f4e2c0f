package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/floramarket/flora-backend/pkg/config"
	"github.com/floramarket/flora-backend/pkg/db/models"
	"github.com/floramarket/flora-backend/pkg/enums"
	pkgerrors "github.com/floramarket/flora-backend/pkg/errors"
	"github.com/floramarket/flora-backend/pkg/metrics"
	"github.com/floramarket/flora-backend/pkg/pagination"
)

// Service exposes the public catalog read operations.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListCategoryProducts(ctx context.Context, categoryRef string) (*CategoryProductsResult, error)
}

type productReader interface {
	ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int, error)
	FacetValues(ctx context.Context, facet enums.Facet, filters ListFilters) ([]string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindCategory(ctx context.Context, ref string) (*models.Category, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
}

type service struct {
	repo    productReader
	cfg     config.CatalogConfig
	metrics *metrics.CatalogMetrics
}

// NewService constructs a catalog service instance. metrics may be nil.
func NewService(repo productReader, cfg config.CatalogConfig, m *metrics.CatalogMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = pagination.DefaultLimit
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = pagination.MaxLimit
	}
	return &service{repo: repo, cfg: cfg, metrics: m}, nil
}

// ListProducts returns one page of matching products, the pagination block and
// the facet catalog narrowed by the active filters.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (_ *ListResult, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveQuery("list", time.Since(start), err) }()

	if err := input.Filters.Validate(); err != nil {
		return nil, err
	}
	params := pagination.Params{
		Page:  pagination.NormalizePage(input.Pagination.Page),
		Limit: pagination.NormalizeLimitWith(input.Pagination.Limit, s.cfg.DefaultPageSize, s.cfg.MaxPageSize),
	}

	rows, total, err := s.repo.ListProducts(ctx, input.Filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list products")
	}
	if total == 0 {
		s.metrics.IncEmptyResult()
	}

	facets, err := s.facetCatalog(ctx, input.Filters)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Products:   newProductDTOs(rows),
		Pagination: pagination.NewInfo(params, total),
		Filters:    facets,
	}, nil
}

func (s *service) facetCatalog(ctx context.Context, filters ListFilters) (FacetCatalog, error) {
	var catalog FacetCatalog
	for _, facet := range enums.Facets {
		present, err := s.repo.FacetValues(ctx, facet, filters.Without(facet))
		if err != nil {
			return FacetCatalog{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load facet catalog").
				WithDetails(map[string]any{"facet": facet.String()})
		}
		catalog.set(facet, inDeclarationOrder(facet, present))
	}
	return catalog, nil
}

// inDeclarationOrder keeps the known codes of present, ordered as the facet's
// enum declares them. Unknown codes stored in the database are dropped.
func inDeclarationOrder(facet enums.Facet, present []string) []string {
	seen := make(map[string]struct{}, len(present))
	for _, v := range present {
		seen[v] = struct{}{}
	}
	out := []string{}
	for _, code := range facet.Values() {
		if _, ok := seen[code]; ok {
			out = append(out, code)
		}
	}
	return out
}

// GetProduct returns a single product by id.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (_ *ProductDTO, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveQuery("detail", time.Since(start), ignoreNotFound(err)) }()

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load product")
	}
	dto := NewProductDTO(*row)
	return &dto, nil
}

// ListCategoryProducts lists a category's products. An unknown category yields
// an empty list rather than an error.
func (s *service) ListCategoryProducts(ctx context.Context, categoryRef string) (_ *CategoryProductsResult, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveQuery("category", time.Since(start), err) }()

	category, err := s.repo.FindCategory(ctx, categoryRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CategoryProductsResult{Products: []ProductDTO{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load category")
	}

	rows, err := s.repo.ListByCategory(ctx, category.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list category products")
	}
	return &CategoryProductsResult{Products: newProductDTOs(rows)}, nil
}

func ignoreNotFound(err error) error {
	if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		return nil
	}
	return err
}
