package storefront

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatPrice(t *testing.T) {
	cases := map[int64]string{
		4599:  "$45.99",
		0:     "$0.00",
		5:     "$0.05",
		12000: "$120.00",
	}
	for cents, want := range cases {
		if got := FormatPrice(cents); got != want {
			t.Fatalf("FormatPrice(%d) = %q, want %q", cents, got, want)
		}
	}
}

func TestPaginationControls(t *testing.T) {
	sel := NewSelection(12)

	mid := buildPagination(Pagination{Page: 3, TotalPages: 5}, sel)
	if mid == nil {
		t.Fatal("expected pagination for 5 pages")
	}
	if mid.Previous.Disabled || mid.Next.Disabled {
		t.Fatalf("expected both controls enabled on page 3, got %+v / %+v", mid.Previous, mid.Next)
	}
	if len(mid.Pages) != 5 || !mid.Pages[2].Current {
		t.Fatalf("expected 5 page links with page 3 current, got %+v", mid.Pages)
	}
	if mid.Previous.URL != "/products?limit=12&page=2#top" {
		t.Fatalf("unexpected previous url %q", mid.Previous.URL)
	}
	if mid.Next.URL != "/products?limit=12&page=4#top" {
		t.Fatalf("unexpected next url %q", mid.Next.URL)
	}

	first := buildPagination(Pagination{Page: 1, TotalPages: 5}, sel)
	if first == nil || !first.Previous.Disabled || first.Previous.URL != "" || first.Next.Disabled {
		t.Fatalf("expected previous disabled on first page, got %+v", first)
	}

	last := buildPagination(Pagination{Page: 5, TotalPages: 5}, sel)
	if last == nil || last.Previous.Disabled || !last.Next.Disabled {
		t.Fatalf("expected next disabled on last page, got %+v", last)
	}

	for _, total := range []int{0, 1} {
		if got := buildPagination(Pagination{Page: 1, TotalPages: total}, sel); got != nil {
			t.Fatalf("expected no pagination for %d pages, got %+v", total, got)
		}
	}
}

func TestPaginationClampsPagePastTheEnd(t *testing.T) {
	view := buildPagination(Pagination{Page: 9, TotalPages: 5}, NewSelection(12))
	if view == nil {
		t.Fatal("expected pagination")
	}
	if view.Page != 5 {
		t.Fatalf("expected current page clamped to 5, got %d", view.Page)
	}
	if !view.Pages[4].Current {
		t.Fatalf("expected last page marked current, got %+v", view.Pages)
	}
	if !view.Next.Disabled {
		t.Fatal("expected next disabled")
	}
	if view.Previous.URL != "/products?limit=12&page=4#top" {
		t.Fatalf("expected previous to point at page 4, got %q", view.Previous.URL)
	}
}

func TestPaginationLinksKeepFilters(t *testing.T) {
	sel := NewSelection(12).SetFacet(FilterMood, "ROMANTIC")
	view := buildPagination(Pagination{Page: 1, TotalPages: 2}, sel)
	if view == nil {
		t.Fatal("expected pagination")
	}
	if want := "/products?limit=12&mood=ROMANTIC&page=2#top"; view.Next.URL != want {
		t.Fatalf("next url = %q, want %q", view.Next.URL, want)
	}
}

func TestBuildViewCards(t *testing.T) {
	items := []Product{
		{ID: "p1", Name: "Crimson Roses", PriceCents: 4599, InStock: true,
			Occasions: []string{"ANNIVERSARY", "VALENTINES_DAY", "BIRTHDAY"},
			Colors:    []string{"RED", "PINK", "WHITE"}},
		{ID: "p2", Name: "Blush Peonies", PriceCents: 6200, InStock: false},
	}
	v := BuildView(items, Pagination{Page: 1, Limit: 12, Total: 2, TotalPages: 1}, FacetCatalog{}, NewSelection(12), false, "")

	if len(v.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(v.Cards))
	}
	card := v.Cards[0]
	if card.Price != "$45.99" {
		t.Fatalf("unexpected price %q", card.Price)
	}
	wantOccasions := []Tag{{Code: "ANNIVERSARY", Label: "Anniversary"}, {Code: "VALENTINES_DAY", Label: "Valentines Day"}}
	if !reflect.DeepEqual(card.Occasions, wantOccasions) {
		t.Fatalf("occasions = %+v, want %+v", card.Occasions, wantOccasions)
	}
	if len(card.Colors) != 2 {
		t.Fatalf("expected colors capped at 2, got %d", len(card.Colors))
	}
	if card.OutOfStock || !v.Cards[1].OutOfStock {
		t.Fatal("out-of-stock badge must follow inStock")
	}
	if card.DetailURL != "/products/p1" {
		t.Fatalf("unexpected detail url %q", card.DetailURL)
	}

	if v.Pagination != nil || v.Loading || v.Empty {
		t.Fatalf("unexpected view flags %+v", v)
	}
	if v.Summary != "Showing 2 of 2 products" {
		t.Fatalf("unexpected summary %q", v.Summary)
	}
}

func TestBuildViewLoadingOnlyWithoutItems(t *testing.T) {
	empty := BuildView(nil, Pagination{}, FacetCatalog{}, NewSelection(12), true, "")
	if !empty.Loading || empty.Empty {
		t.Fatalf("expected loading without empty state, got %+v", empty)
	}

	withItems := BuildView([]Product{{ID: "p1"}}, Pagination{}, FacetCatalog{}, NewSelection(12), true, "")
	if withItems.Loading {
		t.Fatal("loading indicator must hide while items are shown")
	}
}

func TestBuildViewErrorKeepsItems(t *testing.T) {
	v := BuildView([]Product{{ID: "p1", Name: "White Orchid"}}, Pagination{Total: 1, TotalPages: 1}, FacetCatalog{}, NewSelection(12), false, UnavailableMessage)
	if v.Error != UnavailableMessage {
		t.Fatalf("unexpected error %q", v.Error)
	}
	if len(v.Cards) != 1 {
		t.Fatalf("expected previous items to stay, got %d", len(v.Cards))
	}
}

func TestBuildViewEmptyResultIsNotAnError(t *testing.T) {
	v := BuildView([]Product{}, Pagination{Page: 1, Limit: 12}, FacetCatalog{}, NewSelection(12).SetFacet(FilterColor, "GREEN"), false, "")
	if !v.Empty || v.Error != "" {
		t.Fatalf("expected empty state without error, got %+v", v)
	}
	if v.Summary != "Showing 0 of 0 products (1 filter applied)" {
		t.Fatalf("unexpected summary %q", v.Summary)
	}
}

func TestBuildViewClearAll(t *testing.T) {
	none := BuildView(nil, Pagination{}, FacetCatalog{}, NewSelection(12), false, "")
	if none.ShowClearAll || none.ActiveFilters != 0 {
		t.Fatalf("expected no clear all without filters, got %+v", none)
	}

	sel := NewSelection(12).SetFacet(FilterColor, "RED").SetFacet(FilterInStock, "true")
	v := BuildView(nil, Pagination{}, FacetCatalog{}, sel, false, "")
	if !v.ShowClearAll || v.ActiveFilters != 2 {
		t.Fatalf("expected clear all with 2 filters, got %+v", v)
	}
	if v.ClearAllURL != "/products?limit=12&page=1#top" {
		t.Fatalf("unexpected clear all url %q", v.ClearAllURL)
	}
	if !strings.Contains(v.Summary, "(2 filters applied)") {
		t.Fatalf("unexpected summary %q", v.Summary)
	}
}

func TestBuildViewFilterControls(t *testing.T) {
	facets := FacetCatalog{
		Moods:       []string{"ROMANTIC", "CHEERFUL"},
		PriceRanges: []string{"UNDER_25", "RANGE_25_50", "OVER_100"},
	}
	sel := NewSelection(12).SetFacet(FilterMood, "ELEGANT")
	v := BuildView(nil, Pagination{}, facets, sel, false, "")

	byName := map[string]FilterControl{}
	for _, c := range v.Filters {
		byName[c.Name] = c
	}

	prices := byName[FilterPriceRange]
	if prices.AllLabel != "All Prices" {
		t.Fatalf("unexpected all label %q", prices.AllLabel)
	}
	var priceLabels []string
	for _, o := range prices.Options {
		priceLabels = append(priceLabels, o.Label)
	}
	if want := []string{"Under $25", "$25 - $50", "Over $100"}; !reflect.DeepEqual(priceLabels, want) {
		t.Fatalf("price labels = %v, want %v", priceLabels, want)
	}

	moods := byName[FilterMood]
	if len(moods.Options) != 3 {
		t.Fatalf("expected selected mood appended, got %+v", moods.Options)
	}
	if moods.Options[2].Value != "ELEGANT" || !moods.Options[2].Selected {
		t.Fatalf("expected ELEGANT selected, got %+v", moods.Options[2])
	}

	stock := byName[FilterInStock]
	if len(stock.Options) != 2 || stock.Options[0].Label != "In Stock Only" {
		t.Fatalf("unexpected stock options %+v", stock.Options)
	}
}

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"ROMANTIC":      "Romantic",
		"GET_WELL_SOON": "Get Well Soon",
		"":              "",
		"RANGE_75_100":  "Range 75 100",
		"été":           "Été",
		"ÉTÉ_INDIEN":    "Été Indien",
	}
	for code, want := range cases {
		got := Label(code)
		if got != want {
			t.Fatalf("Label(%q) = %q, want %q", code, got, want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("Label(%q) produced invalid UTF-8", code)
		}
	}
	if got := PriceRangeLabel("RANGE_75_100"); got != "$75 - $100" {
		t.Fatalf("unexpected price range label %q", got)
	}
}

func TestSelectedValueFromURLRendersValidLabel(t *testing.T) {
	sel := NewSelection(12).SetFacet(FilterSeason, "été")
	v := BuildView(nil, Pagination{}, FacetCatalog{}, sel, false, "")
	for _, c := range v.Filters {
		if c.Name != FilterSeason {
			continue
		}
		if len(c.Options) != 1 || c.Options[0].Label != "Été" {
			t.Fatalf("unexpected season options %+v", c.Options)
		}
		return
	}
	t.Fatal("season control missing")
}
