package storefront

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/floramarket/flora-backend/pkg/enums"
)

const (
	productsPath = "/products"
	topAnchor    = "#top"
	maxCardTags  = 2
)

// View is everything the products page template needs.
type View struct {
	Loading        bool
	Error          string
	Cards          []Card
	Empty          bool
	Summary        string
	Pagination     *PaginationView
	ActiveFilters  int
	ShowClearAll   bool
	ClearAllURL    string
	Filters        []FilterControl
	Search         string
	FilterFormPath string
}

// Card is one product tile.
type Card struct {
	ID         string
	Name       string
	Price      string
	ImageURL   string
	DetailURL  string
	Occasions  []Tag
	Colors     []Tag
	OutOfStock bool
}

type Tag struct {
	Code  string
	Label string
}

// PaginationView is only built when there is more than one page.
type PaginationView struct {
	Previous PageLink
	Next     PageLink
	Pages    []PageLink
	Page     int
	Total    int
}

type PageLink struct {
	Number   int
	URL      string
	Disabled bool
	Current  bool
}

// FilterControl is one sidebar select.
type FilterControl struct {
	Name     string
	AllLabel string
	Options  []FilterOption
}

type FilterOption struct {
	Value    string
	Label    string
	Selected bool
}

var filterAllLabels = map[string]string{
	FilterPriceRange: "All Prices",
	FilterColor:      "All Colors",
	FilterMood:       "All Moods",
	FilterSeason:     "All Seasons",
	FilterOccasion:   "All Occasions",
	FilterType:       "All Types",
	FilterInStock:    "All Products",
}

// sidebarOrder is the order of the selects on the page.
var sidebarOrder = []string{
	FilterPriceRange,
	FilterColor,
	FilterMood,
	FilterSeason,
	FilterOccasion,
	FilterType,
	FilterInStock,
}

// BuildView derives the products page from the latest fetch state. It has no
// side effects.
func BuildView(items []Product, pg Pagination, facets FacetCatalog, sel Selection, isLoading bool, errMsg string) View {
	active := sel.ActiveFilterCount()
	v := View{
		Loading:        isLoading && len(items) == 0,
		Error:          errMsg,
		Cards:          make([]Card, 0, len(items)),
		ActiveFilters:  active,
		ShowClearAll:   active > 0,
		Search:         sel.Search,
		FilterFormPath: productsPath,
	}
	for _, p := range items {
		v.Cards = append(v.Cards, newCard(p))
	}
	if v.ShowClearAll {
		v.ClearAllURL = selectionURL(sel.ClearAll())
	}
	if !isLoading {
		v.Summary = summary(len(items), pg.Total, active)
		v.Empty = len(items) == 0 && errMsg == ""
	}
	v.Pagination = buildPagination(pg, sel)
	v.Filters = buildFilterControls(facets, sel)
	return v
}

func newCard(p Product) Card {
	return Card{
		ID:         p.ID,
		Name:       p.Name,
		Price:      FormatPrice(p.PriceCents),
		ImageURL:   p.ImageURL,
		DetailURL:  productsPath + "/" + url.PathEscape(p.ID),
		Occasions:  tags(p.Occasions, maxCardTags),
		Colors:     tags(p.Colors, maxCardTags),
		OutOfStock: !p.InStock,
	}
}

func tags(codes []string, limit int) []Tag {
	if len(codes) > limit {
		codes = codes[:limit]
	}
	out := make([]Tag, 0, len(codes))
	for _, code := range codes {
		out = append(out, Tag{Code: code, Label: Label(code)})
	}
	return out
}

func buildPagination(pg Pagination, sel Selection) *PaginationView {
	if pg.TotalPages <= 1 {
		return nil
	}
	current := min(max(pg.Page, 1), pg.TotalPages)
	view := &PaginationView{
		Page:  current,
		Total: pg.TotalPages,
		Previous: PageLink{
			Number:   current - 1,
			Disabled: current <= 1,
		},
		Next: PageLink{
			Number:   current + 1,
			Disabled: current >= pg.TotalPages,
		},
		Pages: make([]PageLink, 0, pg.TotalPages),
	}
	if !view.Previous.Disabled {
		view.Previous.URL = selectionURL(sel.SetPage(current - 1))
	}
	if !view.Next.Disabled {
		view.Next.URL = selectionURL(sel.SetPage(current + 1))
	}
	for n := 1; n <= pg.TotalPages; n++ {
		view.Pages = append(view.Pages, PageLink{
			Number:  n,
			URL:     selectionURL(sel.SetPage(n)),
			Current: n == current,
		})
	}
	return view
}

func buildFilterControls(facets FacetCatalog, sel Selection) []FilterControl {
	available := map[string][]string{
		FilterOccasion:   facets.Occasions,
		FilterSeason:     facets.Seasons,
		FilterMood:       facets.Moods,
		FilterColor:      facets.Colors,
		FilterType:       facets.Types,
		FilterPriceRange: facets.PriceRanges,
		FilterInStock:    {"true", "false"},
	}

	controls := make([]FilterControl, 0, len(sidebarOrder))
	for _, name := range sidebarOrder {
		selected := sel.Value(name)
		values := available[name]
		// Keep the active value selectable even when the catalog no longer
		// offers it.
		if selected != "" && !slices.Contains(values, selected) {
			values = append(append([]string{}, values...), selected)
		}
		control := FilterControl{Name: name, AllLabel: filterAllLabels[name]}
		for _, value := range values {
			control.Options = append(control.Options, FilterOption{
				Value:    value,
				Label:    filterLabel(name, value),
				Selected: value == selected,
			})
		}
		controls = append(controls, control)
	}
	return controls
}

func summary(shown, total, active int) string {
	s := fmt.Sprintf("Showing %d of %d products", shown, total)
	switch {
	case active == 1:
		s += " (1 filter applied)"
	case active > 1:
		s += fmt.Sprintf(" (%d filters applied)", active)
	}
	return s
}

func selectionURL(sel Selection) string {
	return productsPath + "?" + sel.Query().Encode() + topAnchor
}

// FormatPrice renders minor units as dollars with two decimals: 4599 is
// "$45.99".
func FormatPrice(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

func filterLabel(name, value string) string {
	switch name {
	case FilterInStock:
		if value == "true" {
			return "In Stock Only"
		}
		return "Out of Stock"
	case FilterPriceRange:
		return PriceRangeLabel(value)
	}
	return Label(value)
}

// PriceRangeLabel renders a bucket code as "Under $25", "$25 - $50" or
// "Over $100". Unknown codes fall back to Label.
func PriceRangeLabel(code string) string {
	lo, hi, ok := enums.PriceRange(code).Bounds()
	if !ok {
		return Label(code)
	}
	switch {
	case lo == 0:
		return "Under " + wholeDollars(hi)
	case hi < 0:
		return "Over " + wholeDollars(lo)
	}
	return wholeDollars(lo) + " - " + wholeDollars(hi)
}

func wholeDollars(cents int) string {
	return "$" + decimal.New(int64(cents), -2).String()
}

// Label turns an enum code into display text: VALENTINES_DAY becomes
// "Valentines Day".
func Label(code string) string {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(code), "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
