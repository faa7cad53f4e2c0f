package storefront

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/floramarket/flora-backend/pkg/pagination"
)

// Filter names accepted by SetFacet. They match the catalog API's query
// parameters.
const (
	FilterOccasion   = "occasion"
	FilterSeason     = "season"
	FilterMood       = "mood"
	FilterColor      = "color"
	FilterType       = "type"
	FilterPriceRange = "priceRange"
	FilterInStock    = "inStock"
	FilterSearch     = "search"
)

// FilterNames lists every settable filter in sidebar order.
var FilterNames = []string{
	FilterOccasion,
	FilterSeason,
	FilterMood,
	FilterColor,
	FilterType,
	FilterPriceRange,
	FilterInStock,
	FilterSearch,
}

// Selection is what the shopper currently wants to see. Codes are passed to
// the catalog API unchecked; the API decides validity. An empty string or a
// nil InStock means "no constraint".
type Selection struct {
	Occasion   string
	Season     string
	Mood       string
	Color      string
	Type       string
	PriceRange string
	InStock    *bool
	Search     string
	Page       int
	Limit      int
}

// NewSelection returns the default selection for a page size.
func NewSelection(limit int) Selection {
	if limit < 1 {
		limit = pagination.DefaultLimit
	}
	return Selection{Page: 1, Limit: limit}
}

// SetFacet sets the named filter, or clears it when value is empty, and
// always goes back to page 1. inStock only accepts "true" and "false";
// anything else clears it. Unknown names leave the selection untouched.
func (s Selection) SetFacet(name, value string) Selection {
	switch name {
	case FilterOccasion:
		s.Occasion = value
	case FilterSeason:
		s.Season = value
	case FilterMood:
		s.Mood = value
	case FilterColor:
		s.Color = value
	case FilterType:
		s.Type = value
	case FilterPriceRange:
		s.PriceRange = value
	case FilterSearch:
		s.Search = value
	case FilterInStock:
		s.InStock = parseStockFlag(value)
	default:
		return s
	}
	s.Page = 1
	return s
}

// SetPage moves to page n without touching any filter. n below 1 is clamped.
func (s Selection) SetPage(n int) Selection {
	if n < 1 {
		n = 1
	}
	s.Page = n
	return s
}

// ClearAll drops every filter and returns to page 1, keeping the page size.
func (s Selection) ClearAll() Selection {
	return NewSelection(s.Limit)
}

// Value returns the current value of a named filter as it would be sent.
func (s Selection) Value(name string) string {
	switch name {
	case FilterOccasion:
		return s.Occasion
	case FilterSeason:
		return s.Season
	case FilterMood:
		return s.Mood
	case FilterColor:
		return s.Color
	case FilterType:
		return s.Type
	case FilterPriceRange:
		return s.PriceRange
	case FilterSearch:
		return s.Search
	case FilterInStock:
		if s.InStock == nil {
			return ""
		}
		return strconv.FormatBool(*s.InStock)
	}
	return ""
}

// ActiveFilterCount counts the filters that constrain the listing.
func (s Selection) ActiveFilterCount() int {
	count := 0
	for _, name := range FilterNames {
		if s.Value(name) != "" {
			count++
		}
	}
	return count
}

// Query serializes every non-empty field. page and limit are always present.
func (s Selection) Query() url.Values {
	q := url.Values{}
	for _, name := range FilterNames {
		if v := s.Value(name); v != "" {
			q.Set(name, v)
		}
	}
	q.Set("page", strconv.Itoa(s.Page))
	q.Set("limit", strconv.Itoa(s.Limit))
	return q
}

// Equal compares two selections field by field.
func (s Selection) Equal(o Selection) bool {
	for _, name := range FilterNames {
		if s.Value(name) != o.Value(name) {
			return false
		}
	}
	return s.Page == o.Page && s.Limit == o.Limit
}

func parseStockFlag(value string) *bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
