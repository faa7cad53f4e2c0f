package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/floramarket/flora-backend/pkg/enums"
)

// Product is a catalog listing. Multi-valued facets (occasions, seasons, moods,
// colors) live in product_facets.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	Description string            `gorm:"column:description;not null;default:''"`
	PriceCents  int               `gorm:"column:price_cents;not null"`
	PriceRange  enums.PriceRange  `gorm:"column:price_range;not null"`
	ImageURL    string            `gorm:"column:image_url;not null"`
	InStock     bool              `gorm:"column:in_stock;not null"`
	StockCount  int               `gorm:"column:stock_count;not null;default:0"`
	Type        enums.ProductType `gorm:"column:type;not null"`
	CategoryID  *uuid.UUID        `gorm:"column:category_id;type:uuid"`
	Facets      []ProductFacet    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns an id when the caller has not.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FacetValues returns the product's codes for a multi-valued facet in the order
// they were stored.
func (p Product) FacetValues(f enums.Facet) []string {
	out := []string{}
	for _, pf := range p.Facets {
		if pf.Facet == f {
			out = append(out, pf.Value)
		}
	}
	return out
}
