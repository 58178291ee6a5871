package catalog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Item is a purchasable product definition. Items never change after the catalog is built.
type Item struct {
	ID          int             `yaml:"id" json:"id" validate:"gt=0"`
	Name        string          `yaml:"name" json:"name" validate:"required"`
	Price       decimal.Decimal `yaml:"price" json:"price"`
	Image       string          `yaml:"image" json:"image" validate:"required"`
	Description string          `yaml:"description" json:"description"`
	Badge       string          `yaml:"badge" json:"badge,omitempty"`
}

// Catalog is the read-only, ordered product list.
type Catalog struct {
	items []Item
	byID  map[int]int
}

var validate = validator.New()

// New validates items and freezes them into a Catalog. Every problem found is reported.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		byID:  make(map[int]int, len(items)),
	}
	names := make(map[string]struct{}, len(items))

	var errs error
	for i, item := range items {
		if err := validate.Struct(item); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		if item.Price.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("item %d: price cannot be negative", i))
			continue
		}
		if _, dup := c.byID[item.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("item %d: duplicate id %d", i, item.ID))
			continue
		}
		if _, dup := names[item.Name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("item %d: duplicate name %q", i, item.Name))
			continue
		}
		c.byID[item.ID] = len(c.items)
		names[item.Name] = struct{}{}
		c.items = append(c.items, item)
	}
	if errs != nil {
		problems := make([]string, 0)
		for _, e := range multierr.Errors(errs) {
			problems = append(problems, e.Error())
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid catalog").
			WithDetails(map[string]any{"problems": problems})
	}
	return c, nil
}

type fileFormat struct {
	Items []Item `yaml:"items"`
}

// LoadFile reads a YAML catalog of the form `items: [{id, name, price, image, description, badge}]`.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var doc fileFormat
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode catalog yaml")
	}
	return New(doc.Items)
}

// Items returns a copy of the catalog in display order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	return len(c.items)
}

func (c *Catalog) ByID(id int) (Item, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}
