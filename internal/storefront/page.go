package storefront

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/floramarket/flora-backend/pkg/logger"
	"github.com/floramarket/flora-backend/pkg/metrics"
)

const listEndpoint = "products"

type fetcher interface {
	Fetch(ctx context.Context, sel Selection) (PageResult, error)
}

// State is a snapshot of a Page.
type State struct {
	Selection Selection
	Result    PageResult
	Error     string
	Loading   bool
}

// Page owns one Selection and the result of the latest fetch for it. Every
// change to the selection issues a fetch tagged with a sequence number; a
// response is applied only when its number is still the highest issued, so a
// slow, superseded fetch can never overwrite a newer result.
type Page struct {
	client  fetcher
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics

	issued atomic.Uint64

	mu        sync.Mutex
	selection Selection
	result    PageResult
	err       string
	loading   bool
}

// NewPage builds a page with the default selection for limit. logg and m may
// be nil.
func NewPage(client fetcher, limit int, logg *logger.Logger, m *metrics.StorefrontMetrics) *Page {
	return &Page{
		client:    client,
		logg:      logg,
		metrics:   m,
		selection: NewSelection(limit),
		result:    PageResult{Items: []Product{}},
	}
}

// Navigate replaces the selection from the URL's category and search
// parameters and fetches.
func (p *Page) Navigate(ctx context.Context, values url.Values) State {
	return p.update(ctx, func(s Selection) Selection {
		return SelectionFromQuery(values, s.Limit)
	})
}

// Load installs sel as a whole and fetches.
func (p *Page) Load(ctx context.Context, sel Selection) State {
	return p.update(ctx, func(Selection) Selection { return sel })
}

func (p *Page) SetFacet(ctx context.Context, name, value string) State {
	return p.update(ctx, func(s Selection) Selection { return s.SetFacet(name, value) })
}

func (p *Page) SetPage(ctx context.Context, n int) State {
	return p.update(ctx, func(s Selection) Selection { return s.SetPage(n) })
}

func (p *Page) ClearAll(ctx context.Context) State {
	return p.update(ctx, func(s Selection) Selection { return s.ClearAll() })
}

// Refresh fetches again for the unchanged selection.
func (p *Page) Refresh(ctx context.Context) State {
	return p.update(ctx, func(s Selection) Selection { return s })
}

// State returns the current snapshot.
func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

func (p *Page) update(ctx context.Context, mutate func(Selection) Selection) State {
	p.mu.Lock()
	sel := mutate(p.selection)
	p.selection = sel
	seq := p.issued.Add(1)
	p.loading = true
	p.mu.Unlock()

	start := time.Now()
	result, err := p.client.Fetch(ctx, sel)
	elapsed := time.Since(start)

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.issued.Load() {
		p.metrics.ObserveFetch(listEndpoint, metrics.OutcomeStale, elapsed)
		if p.logg != nil {
			p.logg.Info(p.logg.WithFields(ctx, map[string]any{
				"seq":    seq,
				"latest": p.issued.Load(),
			}), "storefront.fetch_discarded")
		}
		return p.snapshot()
	}

	p.loading = false
	switch {
	case err == nil:
		p.result = result
		p.err = ""
		p.metrics.ObserveFetch(listEndpoint, metrics.OutcomeApplied, elapsed)
	case errors.Is(err, context.Canceled):
		p.metrics.ObserveFetch(listEndpoint, metrics.OutcomeCancelled, elapsed)
	default:
		p.err = UnavailableMessage
		p.metrics.ObserveFetch(listEndpoint, metrics.OutcomeFailed, elapsed)
		if p.logg != nil {
			p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "storefront.fetch_failed")
		}
	}
	return p.snapshot()
}

func (p *Page) snapshot() State {
	return State{
		Selection: p.selection,
		Result:    p.result,
		Error:     p.err,
		Loading:   p.loading,
	}
}
