package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/floramarket/flora-backend/pkg/errors"
)

const (
	defaultTimeout        = 10 * time.Second
	responseBodyReadLimit = 4 << 20
	errorBodyReadLimit    = 1024
	UnavailableMessage    = "Failed to load products. Please try again."
	notFoundMessage       = "catalog resource not found"
)

// ErrCatalogUnavailable is in the chain of every transport, status or decode
// failure returned by Client. The shopper only ever sees UnavailableMessage.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Product mirrors the catalog API's product. Codes are kept as plain strings.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	PriceRange  string    `json:"priceRange"`
	ImageURL    string    `json:"imageUrl"`
	InStock     bool      `json:"inStock"`
	StockCount  int       `json:"stockCount"`
	Occasions   []string  `json:"occasions"`
	Seasons     []string  `json:"seasons"`
	Moods       []string  `json:"moods"`
	Colors      []string  `json:"colors"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Pagination is the page metadata of one listing response.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// FacetCatalog lists the codes the API currently offers per facet.
type FacetCatalog struct {
	Occasions   []string `json:"occasions"`
	Seasons     []string `json:"seasons"`
	Moods       []string `json:"moods"`
	Colors      []string `json:"colors"`
	Types       []string `json:"types"`
	PriceRanges []string `json:"priceRanges"`
}

// PageResult is one listing response.
type PageResult struct {
	Items      []Product
	Pagination Pagination
	Facets     FacetCatalog
}

type listResponse struct {
	Products   []Product `json:"products"`
	Pagination struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
		Pages int `json:"pages"`
	} `json:"pagination"`
	Filters FacetCatalog `json:"filters"`
}

// Client talks to the catalog API. It never retries and never caches.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds a catalog client for an API base such as
// http://localhost:3001/api.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("catalog api url must be absolute, got %q", baseURL)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Fetch issues one listing request carrying every non-empty field of sel.
func (c *Client) Fetch(ctx context.Context, sel Selection) (PageResult, error) {
	var body listResponse
	if err := c.getJSON(ctx, "/products", sel.Query(), &body); err != nil {
		return PageResult{}, err
	}

	items := body.Products
	if items == nil {
		items = []Product{}
	}
	return PageResult{
		Items: items,
		Pagination: Pagination{
			Page:       body.Pagination.Page,
			Limit:      body.Pagination.Limit,
			Total:      body.Pagination.Total,
			TotalPages: body.Pagination.Pages,
		},
		Facets: body.Filters,
	}, nil
}

// Product loads a single product. The API wraps it in {data}; a bare object
// is accepted too.
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var raw json.RawMessage
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}

	var envelope struct {
		Data *Product `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}
	var product Product
	if err := json.Unmarshal(raw, &product); err != nil || product.ID == "" {
		return nil, unavailable(fmt.Errorf("unexpected product body"), "decode product response")
	}
	return &product, nil
}

// ProductsByCategory calls the legacy category listing. The body may be a
// bare array, {products: [...]} or either of those inside {data}.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}

	var raw json.RawMessage
	if err := c.getJSON(ctx, "/categories/"+url.PathEscape(categoryID)+"/products", nil, &raw); err != nil {
		return nil, err
	}
	products, err := decodeProductList(raw)
	if err != nil {
		return nil, unavailable(err, "decode category products response")
	}
	return products, nil
}

func decodeProductList(raw json.RawMessage) ([]Product, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var list []Product
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var envelope struct {
		Products []Product      `json:"products"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	if envelope.Products != nil {
		return envelope.Products, nil
	}
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return decodeProductList(envelope.Data)
	}
	return []Product{}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return unavailable(err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return unavailable(err, "execute catalog request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound && path != "/products" {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return unavailable(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "catalog request failed")
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(dest); err != nil {
		return unavailable(err, "decode catalog response")
	}
	return nil
}

// unavailable wraps cause so callers can match both ErrCatalogUnavailable and
// the original cause (context.Canceled in particular).
func unavailable(cause error, op string) error {
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, fmt.Errorf("%w: %s: %w", ErrCatalogUnavailable, op, cause), UnavailableMessage)
}
