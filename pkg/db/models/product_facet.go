package models

import (
	"github.com/google/uuid"

	"github.com/floramarket/flora-backend/pkg/enums"
)

// ProductFacet attaches one code of a multi-valued facet to a product.
type ProductFacet struct {
	ProductID uuid.UUID   `gorm:"column:product_id;type:uuid;primaryKey"`
	Facet     enums.Facet `gorm:"column:facet;primaryKey"`
	Value     string      `gorm:"column:value;primaryKey"`
	Position  int         `gorm:"column:position;not null;default:0"`
}

func (ProductFacet) TableName() string { return "product_facets" }
