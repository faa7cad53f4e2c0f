package storefront

import (
	"embed"
	"html/template"
	"io"
	"net/url"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// DetailView is the product detail page. Unlike the listing, a failed load
// offers a retry link.
type DetailView struct {
	Title    string
	Product  *DetailProduct
	Error    string
	NotFound bool
	RetryURL string
}

type DetailProduct struct {
	Name        string
	Description string
	Price       string
	ImageURL    string
	OutOfStock  bool
	StockCount  int
	Facets      []DetailFacet
}

type DetailFacet struct {
	Name string
	Tags []Tag
}

// BuildDetailView derives the detail page. p is nil when loading failed.
func BuildDetailView(id string, p *Product, errMsg string, notFound bool) DetailView {
	v := DetailView{
		Title:    "Product",
		Error:    errMsg,
		NotFound: notFound,
		RetryURL: productsPath + "/" + url.PathEscape(id),
	}
	if p == nil {
		return v
	}
	v.Title = p.Name
	v.Product = &DetailProduct{
		Name:        p.Name,
		Description: p.Description,
		Price:       FormatPrice(p.PriceCents),
		ImageURL:    p.ImageURL,
		OutOfStock:  !p.InStock,
		StockCount:  p.StockCount,
	}
	for _, f := range []struct {
		name  string
		codes []string
	}{
		{"Occasions", p.Occasions},
		{"Seasons", p.Seasons},
		{"Moods", p.Moods},
		{"Colors", p.Colors},
		{"Type", []string{p.Type}},
	} {
		if len(f.codes) == 0 || f.codes[0] == "" {
			continue
		}
		v.Product.Facets = append(v.Product.Facets, DetailFacet{Name: f.name, Tags: tags(f.codes, len(f.codes))})
	}
	return v
}

// Render writes the products page.
func Render(w io.Writer, v View) error {
	return pages.ExecuteTemplate(w, "products", v)
}

// RenderDetail writes the product detail page.
func RenderDetail(w io.Writer, v DetailView) error {
	return pages.ExecuteTemplate(w, "product", v)
}
