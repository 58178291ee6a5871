// Package render projects catalog and cart state into HTML fragments. Every call renders
// from scratch; nothing is cached between calls.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/drawer"
	"github.com/angelmondragon/storefront/pkg/money"
)

//go:embed templates/*.html
var templateFS embed.FS

// CartView is the cart area plus the two scalar displays that accompany it.
type CartView struct {
	HTML      template.HTML `json:"html"`
	ItemCount int           `json:"item_count"`
	Total     string        `json:"total"`
	Empty     bool          `json:"empty"`
}

// PageData feeds the full storefront page.
type PageData struct {
	Title       string
	SessionID   string
	CatalogHTML template.HTML
	Cart        CartView
	Drawer      drawer.View
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("storefront").
		Funcs(template.FuncMap{"money": money.Format}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Catalog renders one product card per item, in catalog order.
func (r *Renderer) Catalog(items []catalog.Item) (template.HTML, error) {
	return r.fragment("catalog", items)
}

// Cart renders the cart area. An empty cart yields only the empty-state placeholder.
func (r *Renderer) Cart(lines []cart.Line, itemCount int, total decimal.Decimal) (CartView, error) {
	view := CartView{
		ItemCount: itemCount,
		Total:     money.Format(total),
		Empty:     len(lines) == 0,
	}

	name, data := "cart-lines", any(lines)
	if view.Empty {
		name, data = "cart-empty", nil
	}
	html, err := r.fragment(name, data)
	if err != nil {
		return CartView{}, err
	}
	view.HTML = html
	return view, nil
}

// CartFromStore is a convenience over Cart reading aggregates straight from the store.
func (r *Renderer) CartFromStore(s *cart.Store) (CartView, error) {
	return r.Cart(s.Lines(), s.TotalItemCount(), s.TotalPrice())
}

// Page writes the full document.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	if err := r.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func (r *Renderer) fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
