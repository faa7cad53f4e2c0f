package storefront

import (
	"net/url"
	"strconv"
	"strings"
)

// categoryFacets maps the landing page's category slugs onto facet
// selections. seasonal and special are browsable but constrain nothing.
var categoryFacets = map[string]map[string]string{
	"romantic": {FilterMood: "ROMANTIC"},
	"cheerful": {FilterMood: "CHEERFUL"},
	"elegant":  {FilterMood: "ELEGANT"},
	"seasonal": {},
	"special":  {},
}

// SelectionFromQuery rebuilds the whole selection from the navigation
// parameters category and search. Previously chosen filters are not merged
// in. An unknown category applies no constraint.
func SelectionFromQuery(values url.Values, limit int) Selection {
	sel := NewSelection(limit)

	if category := strings.ToLower(strings.TrimSpace(values.Get("category"))); category != "" {
		for name, value := range categoryFacets[category] {
			sel = sel.SetFacet(name, value)
		}
	}
	if search := values.Get("search"); search != "" {
		sel = sel.SetFacet(FilterSearch, search)
	}
	return sel
}

// SelectionFromRequest is the selection a rendered /products URL stands for:
// the navigation parameters first, then the filters and page the shopper
// picked on the page itself, encoded back into the query string by the
// rendered links and the filter form.
func SelectionFromRequest(values url.Values, limit int) Selection {
	sel := SelectionFromQuery(values, limit)
	for _, name := range FilterNames {
		if name == FilterSearch {
			continue
		}
		if _, ok := values[name]; ok {
			sel = sel.SetFacet(name, values.Get(name))
		}
	}
	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			sel = sel.SetPage(n)
		}
	}
	return sel
}
