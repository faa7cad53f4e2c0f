package storefront

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/floramarket/flora-backend/pkg/errors"
	"github.com/floramarket/flora-backend/pkg/logger"
	"github.com/floramarket/flora-backend/pkg/metrics"
)

// CatalogSource is the part of Client the storefront pages use.
type CatalogSource interface {
	Fetch(ctx context.Context, sel Selection) (PageResult, error)
	Product(ctx context.Context, id string) (*Product, error)
	ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error)
}

// Handler serves the server-rendered storefront pages.
type Handler struct {
	catalog CatalogSource
	limit   int
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewHandler wires the storefront pages. m may be nil.
func NewHandler(catalog CatalogSource, limit int, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Handler, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if limit < 1 {
		return nil, fmt.Errorf("page size must be at least 1")
	}
	return &Handler{catalog: catalog, limit: limit, logg: logg, metrics: m}, nil
}

// Mount registers the storefront routes.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/", http.RedirectHandler(productsPath, http.StatusFound).ServeHTTP)
	r.Get("/products", h.Products)
	r.Get("/products/{productId}", h.ProductDetail)
	r.Get("/categories/{categoryId}", h.CategoryProducts)
}

// Products renders the filtered listing for the selection the URL encodes.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	page := NewPage(h.catalog, h.limit, h.logg, h.metrics)
	state := page.Load(r.Context(), SelectionFromRequest(r.URL.Query(), h.limit))

	view := BuildView(
		state.Result.Items,
		state.Result.Pagination,
		state.Result.Facets,
		state.Selection,
		state.Loading,
		state.Error,
	)
	h.write(w, r, http.StatusOK, func(buf *bytes.Buffer) error { return Render(buf, view) })
}

// ProductDetail renders one product. A failed load shows a retry link.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")

	start := time.Now()
	product, err := h.catalog.Product(r.Context(), id)
	elapsed := time.Since(start)

	status := http.StatusOK
	var view DetailView
	switch {
	case err == nil:
		h.metrics.ObserveFetch("product", metrics.OutcomeApplied, elapsed)
		view = BuildDetailView(id, product, "", false)
	case pkgerrors.HasCode(err, pkgerrors.CodeNotFound), pkgerrors.HasCode(err, pkgerrors.CodeValidation):
		h.metrics.ObserveFetch("product", metrics.OutcomeApplied, elapsed)
		status = http.StatusNotFound
		view = BuildDetailView(id, nil, "", true)
	default:
		h.observeFailure(r.Context(), "product", err, elapsed)
		view = BuildDetailView(id, nil, UnavailableMessage, false)
	}
	h.write(w, r, status, func(buf *bytes.Buffer) error { return RenderDetail(buf, view) })
}

// CategoryProducts renders the legacy category-scoped listing. It has no
// filters and no pagination.
func (h *Handler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")

	start := time.Now()
	items, err := h.catalog.ProductsByCategory(r.Context(), categoryID)
	elapsed := time.Since(start)

	errMsg := ""
	if err != nil {
		h.observeFailure(r.Context(), "category", err, elapsed)
		errMsg = UnavailableMessage
		items = []Product{}
	} else {
		h.metrics.ObserveFetch("category", metrics.OutcomeApplied, elapsed)
	}

	view := BuildView(
		items,
		Pagination{Page: 1, Limit: len(items), Total: len(items), TotalPages: 1},
		FacetCatalog{},
		NewSelection(h.limit),
		false,
		errMsg,
	)
	h.write(w, r, http.StatusOK, func(buf *bytes.Buffer) error { return Render(buf, view) })
}

func (h *Handler) observeFailure(ctx context.Context, endpoint string, err error, elapsed time.Duration) {
	if errors.Is(err, context.Canceled) {
		h.metrics.ObserveFetch(endpoint, metrics.OutcomeCancelled, elapsed)
		return
	}
	h.metrics.ObserveFetch(endpoint, metrics.OutcomeFailed, elapsed)
	h.logg.Warn(h.logg.WithFields(ctx, map[string]any{
		"endpoint": endpoint,
		"error":    err.Error(),
	}), "storefront.fetch_failed")
}

// write renders into a buffer first so a template error never leaves a
// half-written page.
func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.logg.Error(r.Context(), "storefront.render_failed", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
