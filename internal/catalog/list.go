package catalog

import (
	"strings"

	"github.com/floramarket/flora-backend/pkg/enums"
	pkgerrors "github.com/floramarket/flora-backend/pkg/errors"
	"github.com/floramarket/flora-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
// Empty strings and a nil InStock mean "no constraint".
type ListFilters struct {
	Occasion   string `json:"occasion,omitempty"`
	Season     string `json:"season,omitempty"`
	Mood       string `json:"mood,omitempty"`
	Color      string `json:"color,omitempty"`
	Type       string `json:"type,omitempty"`
	PriceRange string `json:"priceRange,omitempty"`
	InStock    *bool  `json:"inStock,omitempty"`
	Search     string `json:"search,omitempty"`
}

// ListProductsInput captures the inputs needed to filter and paginate the catalog.
type ListProductsInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// Facet returns the selected code for a facet.
func (f ListFilters) Facet(facet enums.Facet) string {
	switch facet {
	case enums.FacetOccasion:
		return f.Occasion
	case enums.FacetSeason:
		return f.Season
	case enums.FacetMood:
		return f.Mood
	case enums.FacetColor:
		return f.Color
	case enums.FacetType:
		return f.Type
	case enums.FacetPriceRange:
		return f.PriceRange
	}
	return ""
}

// Without returns a copy of the filters with one facet constraint removed.
func (f ListFilters) Without(facet enums.Facet) ListFilters {
	switch facet {
	case enums.FacetOccasion:
		f.Occasion = ""
	case enums.FacetSeason:
		f.Season = ""
	case enums.FacetMood:
		f.Mood = ""
	case enums.FacetColor:
		f.Color = ""
	case enums.FacetType:
		f.Type = ""
	case enums.FacetPriceRange:
		f.PriceRange = ""
	}
	return f
}

// Validate checks every facet code against its closed domain.
func (f ListFilters) Validate() error {
	invalid := map[string]string{}
	for _, facet := range enums.Facets {
		value := f.Facet(facet)
		if value == "" {
			continue
		}
		if _, err := enums.ParseFacetValue(facet, value); err != nil {
			invalid[facet.String()] = "must be one of " + strings.Join(facet.Values(), ", ")
		}
	}
	if len(invalid) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid filter value").WithDetails(invalid)
	}
	return nil
}

func (f ListFilters) searchTerm() string {
	return strings.ToLower(strings.TrimSpace(f.Search))
}
