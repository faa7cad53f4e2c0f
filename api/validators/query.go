package validators

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/floramarket/flora-backend/pkg/errors"
	"github.com/floramarket/flora-backend/pkg/pagination"
)

const maxSearchLength = 200

// ProductListQuery is the parsed query string of GET /api/products.
type ProductListQuery struct {
	Occasion   string `json:"occasion" validate:"omitempty,facet=occasion"`
	Season     string `json:"season" validate:"omitempty,facet=season"`
	Mood       string `json:"mood" validate:"omitempty,facet=mood"`
	Color      string `json:"color" validate:"omitempty,facet=color"`
	Type       string `json:"type" validate:"omitempty,facet=type"`
	PriceRange string `json:"priceRange" validate:"omitempty,facet=priceRange"`
	InStock    *bool  `json:"inStock"`
	Search     string `json:"search" validate:"max=200"`
	Page       int    `json:"page" validate:"min=1"`
	// Limit 0 means "use the configured default".
	Limit int `json:"limit" validate:"min=0"`
}

// ParseProductListQuery reads and validates the product listing filters.
// Unknown facet codes and malformed page, limit or inStock values are
// rejected with VALIDATION_ERROR.
func ParseProductListQuery(r *http.Request, maxLimit int) (ProductListQuery, error) {
	if maxLimit < 1 {
		maxLimit = pagination.MaxLimit
	}
	q := r.URL.Query()

	page, err := ParseQueryInt(r, "page", 1, 1, math.MaxInt32)
	if err != nil {
		return ProductListQuery{}, err
	}
	limit, err := ParseQueryInt(r, "limit", 0, 1, maxLimit)
	if err != nil {
		return ProductListQuery{}, err
	}
	inStock, err := ParseQueryBool(r, "inStock")
	if err != nil {
		return ProductListQuery{}, err
	}

	out := ProductListQuery{
		Occasion:   strings.TrimSpace(q.Get("occasion")),
		Season:     strings.TrimSpace(q.Get("season")),
		Mood:       strings.TrimSpace(q.Get("mood")),
		Color:      strings.TrimSpace(q.Get("color")),
		Type:       strings.TrimSpace(q.Get("type")),
		PriceRange: strings.TrimSpace(q.Get("priceRange")),
		InStock:    inStock,
		Search:     SanitizeString(q.Get("search"), maxSearchLength),
		Page:       page,
		Limit:      limit,
	}
	if err := validate.Struct(out); err != nil {
		return ProductListQuery{}, formatValidationErrors(err)
	}
	return out, nil
}

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryBool returns nil when key is absent and an error when it is not
// "true" or "false".
func ParseQueryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	switch raw {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be true or false").WithDetails(map[string]any{"field": key})
}
