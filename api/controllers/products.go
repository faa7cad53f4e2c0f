package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/floramarket/flora-backend/api/responses"
	"github.com/floramarket/flora-backend/api/validators"
	"github.com/floramarket/flora-backend/internal/catalog"
	pkgerrors "github.com/floramarket/flora-backend/pkg/errors"
	"github.com/floramarket/flora-backend/pkg/logger"
	"github.com/floramarket/flora-backend/pkg/pagination"
)

// ListProducts serves the filtered, paginated product listing. The body is
// {products, pagination, filters} without the {data} envelope.
func ListProducts(svc catalog.Service, maxLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query, err := validators.ParseProductListQuery(r, maxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Filters: catalog.ListFilters{
				Occasion:   query.Occasion,
				Season:     query.Season,
				Mood:       query.Mood,
				Color:      query.Color,
				Type:       query.Type,
				PriceRange: query.PriceRange,
				InStock:    query.InStock,
				Search:     query.Search,
			},
			Pagination: pagination.Params{Page: query.Page, Limit: query.Limit},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, result)
	}
}

// GetProduct returns a single product inside the {data} envelope.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "productId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// CategoryProducts serves the legacy category-scoped listing as {products}.
func CategoryProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		ref := strings.TrimSpace(chi.URLParam(r, "categoryId"))
		if ref == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category id required"))
			return
		}

		result, err := svc.ListCategoryProducts(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, result)
	}
}
