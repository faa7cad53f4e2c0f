package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 12
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
// Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Info is the pagination block returned alongside a page of results.
type Info struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	return NormalizeLimitWith(limit, DefaultLimit, MaxLimit)
}

// NormalizeLimitWith is NormalizeLimit with caller-supplied bounds.
func NormalizeLimitWith(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		return maxLimit
	}
	return limit
}

// NormalizePage clamps page to be at least 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (NormalizePage(p.Page) - 1) * p.Limit
}

// TotalPages is ceil(total/limit). Zero results yield zero pages.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewInfo builds the response block for a page.
func NewInfo(p Params, total int) Info {
	return Info{
		Page:  NormalizePage(p.Page),
		Limit: p.Limit,
		Total: total,
		Pages: TotalPages(total, p.Limit),
	}
}

// HasPrev reports whether a previous page exists.
func (i Info) HasPrev() bool {
	return i.Page > 1
}

// HasNext reports whether a next page exists.
func (i Info) HasNext() bool {
	return i.Page < i.Pages
}
