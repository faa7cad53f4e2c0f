package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/floramarket/flora-backend/pkg/db/models"
	"github.com/floramarket/flora-backend/pkg/enums"
	"github.com/floramarket/flora-backend/pkg/pagination"
)

// ProductDTO is the wire shape of a catalog product.
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PriceCents  int               `json:"priceCents"`
	PriceRange  enums.PriceRange  `json:"priceRange"`
	ImageURL    string            `json:"imageUrl"`
	InStock     bool              `json:"inStock"`
	StockCount  int               `json:"stockCount"`
	Occasions   []string          `json:"occasions"`
	Seasons     []string          `json:"seasons"`
	Moods       []string          `json:"moods"`
	Colors      []string          `json:"colors"`
	Type        enums.ProductType `json:"type"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// FacetCatalog lists, per facet, the codes available under the current filters.
type FacetCatalog struct {
	Occasions   []string `json:"occasions"`
	Seasons     []string `json:"seasons"`
	Moods       []string `json:"moods"`
	Colors      []string `json:"colors"`
	Types       []string `json:"types"`
	PriceRanges []string `json:"priceRanges"`
}

// ListResult is the response of the filtered product listing.
type ListResult struct {
	Products   []ProductDTO    `json:"products"`
	Pagination pagination.Info `json:"pagination"`
	Filters    FacetCatalog    `json:"filters"`
}

// CategoryProductsResult is the response of the category-scoped listing.
type CategoryProductsResult struct {
	Products []ProductDTO `json:"products"`
}

// NewProductDTO maps a product row, with its facets preloaded, to the wire shape.
func NewProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		PriceRange:  p.PriceRange,
		ImageURL:    p.ImageURL,
		InStock:     p.InStock,
		StockCount:  p.StockCount,
		Occasions:   p.FacetValues(enums.FacetOccasion),
		Seasons:     p.FacetValues(enums.FacetSeason),
		Moods:       p.FacetValues(enums.FacetMood),
		Colors:      p.FacetValues(enums.FacetColor),
		Type:        p.Type,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewProductDTO(row))
	}
	return out
}

func (c *FacetCatalog) set(facet enums.Facet, values []string) {
	switch facet {
	case enums.FacetOccasion:
		c.Occasions = values
	case enums.FacetSeason:
		c.Seasons = values
	case enums.FacetMood:
		c.Moods = values
	case enums.FacetColor:
		c.Colors = values
	case enums.FacetType:
		c.Types = values
	case enums.FacetPriceRange:
		c.PriceRanges = values
	}
}
