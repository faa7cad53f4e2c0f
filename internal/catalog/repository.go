package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/floramarket/flora-backend/pkg/db/models"
	"github.com/floramarket/flora-backend/pkg/enums"
	"github.com/floramarket/flora-backend/pkg/pagination"
)

const facetExistsClause = `EXISTS (
  SELECT 1 FROM product_facets pf_filter
  WHERE pf_filter.product_id = products.id
    AND pf_filter.facet = ?
    AND pf_filter.value = ?
)`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository wires together the catalog read paths.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListProducts returns one page of products matching filters, newest first,
// plus the total number of matches.
func (r *Repository) ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(withFilters(filters)).
		Count(&total).
		Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.Product{}, 0, nil
	}

	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(withFilters(filters), preloadFacets).
		Order("products.created_at DESC").
		Order("products.id ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).
		Error; err != nil {
		return nil, 0, err
	}
	return rows, int(total), nil
}

// FacetValues returns the distinct codes of facet carried by products that
// match filters. Callers pass filters with the facet's own constraint removed
// so the catalog narrows by the other active selections only.
func (r *Repository) FacetValues(ctx context.Context, facet enums.Facet, filters ListFilters) ([]string, error) {
	var values []string
	var q *gorm.DB
	switch facet {
	case enums.FacetType:
		q = r.db.WithContext(ctx).
			Model(&models.Product{}).
			Scopes(withFilters(filters)).
			Distinct().
			Pluck("products.type", &values)
	case enums.FacetPriceRange:
		q = r.db.WithContext(ctx).
			Model(&models.Product{}).
			Scopes(withFilters(filters)).
			Distinct().
			Pluck("products.price_range", &values)
	default:
		q = r.db.WithContext(ctx).
			Table("product_facets AS pf").
			Joins("JOIN products ON products.id = pf.product_id").
			Where("pf.facet = ?", facet).
			Scopes(withFilters(filters)).
			Distinct().
			Pluck("pf.value", &values)
	}
	if q.Error != nil {
		return nil, q.Error
	}
	return values, nil
}

// FindByID loads a product with its facets.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Scopes(preloadFacets).
		First(&product, "products.id = ?", id).
		Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindCategory resolves a category by id or, failing that, by slug.
func (r *Repository) FindCategory(ctx context.Context, ref string) (*models.Category, error) {
	var category models.Category
	q := r.db.WithContext(ctx)
	if id, err := uuid.Parse(ref); err == nil {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("slug = ?", strings.ToLower(strings.TrimSpace(ref)))
	}
	if err := q.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByCategory returns every product of a category, newest first.
func (r *Repository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Scopes(preloadFacets).
		Where("products.category_id = ?", categoryID).
		Order("products.created_at DESC").
		Order("products.id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func withFilters(f ListFilters) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		for _, facet := range enums.Facets {
			value := f.Facet(facet)
			if value == "" {
				continue
			}
			switch facet {
			case enums.FacetType:
				q = q.Where("products.type = ?", value)
			case enums.FacetPriceRange:
				q = q.Where("products.price_range = ?", value)
			default:
				q = q.Where(facetExistsClause, facet, value)
			}
		}
		if f.InStock != nil {
			q = q.Where("products.in_stock = ?", *f.InStock)
		}
		if term := f.searchTerm(); term != "" {
			pattern := "%" + likeEscaper.Replace(term) + "%"
			q = q.Where(
				`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`,
				pattern, pattern,
			)
		}
		return q
	}
}

func preloadFacets(q *gorm.DB) *gorm.DB {
	return q.Preload("Facets", func(db *gorm.DB) *gorm.DB {
		return db.Order("facet ASC").Order("position ASC")
	})
}
