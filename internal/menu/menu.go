// SPDX-License-Identifier: MIT

// Package menu holds the café menu and price resolution rules.
package menu

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/hazelbot/hazel/internal/textutil"
)

// Category classifies a menu item.
type Category string

const (
	CategoryHot    Category = "hot"
	CategoryCold   Category = "cold"
	CategoryFood   Category = "food"
	CategoryPastry Category = "pastry"
)

// SizePrice is one size label with its price, in declaration order.
type SizePrice struct {
	Size  string
	Price decimal.Decimal
}

// Option is a priced customization choice within a group.
type Option struct {
	Name  string
	Price decimal.Decimal
}

// Item is a single menu entry. An item carries either a base price or an
// ordered list of size prices; price resolution falls back to the first
// declared size when no base price exists.
type Item struct {
	Name           string
	Category       Category
	Description    string
	BasePrice      *decimal.Decimal
	Sizes          []SizePrice
	Customizations map[string][]Option
	Pairings       []string
	Suggestions    []string
}

// UnitPrice resolves the simple-add price: the base price when present,
// otherwise the first declared size price.
func (it Item) UnitPrice() decimal.Decimal {
	if it.BasePrice != nil {
		return *it.BasePrice
	}
	if len(it.Sizes) > 0 {
		return it.Sizes[0].Price
	}
	return decimal.Zero
}

// Menu is the read-only item catalogue, iterated in declaration order.
type Menu struct {
	Items []Item
}

// Lookup finds the first item whose name is contained in the message,
// case-insensitively. Overlapping names ("Latte" inside "Iced Latte")
// resolve to whichever item is declared first; there is no ranking.
func (m *Menu) Lookup(message string) (Item, bool) {
	if message == "" {
		return Item{}, false
	}
	folded := textutil.Fold(message)
	for _, it := range m.Items {
		if textutil.Contains(folded, it.Name) {
			return it, true
		}
	}
	return Item{}, false
}

// Get returns the item with the given name (case-insensitive exact match).
func (m *Menu) Get(name string) (Item, bool) {
	folded := textutil.Fold(name)
	for _, it := range m.Items {
		if textutil.Fold(it.Name) == folded {
			return it, true
		}
	}
	return Item{}, false
}

// ByCategory returns items of one category in declaration order.
func (m *Menu) ByCategory(c Category) []Item {
	var out []Item
	for _, it := range m.Items {
		if it.Category == c {
			out = append(out, it)
		}
	}
	return out
}

// yaml carrier types; prices travel as strings so decimals stay exact.

type rawOption struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

type rawSize struct {
	Size  string `yaml:"size"`
	Price string `yaml:"price"`
}

type rawItem struct {
	Name           string                 `yaml:"name"`
	Category       string                 `yaml:"category"`
	Description    string                 `yaml:"description"`
	Price          string                 `yaml:"price"`
	Sizes          []rawSize              `yaml:"sizes"`
	Customizations map[string][]rawOption `yaml:"customizations"`
	Pairings       []string               `yaml:"pairings"`
	Suggestions    []string               `yaml:"suggestions"`
}

type rawMenu struct {
	Items []rawItem `yaml:"items"`
}

// Parse decodes a YAML menu document and validates every item.
func Parse(data []byte) (*Menu, error) {
	var raw rawMenu
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	if len(raw.Items) == 0 {
		return nil, fmt.Errorf("menu has no items")
	}

	m := &Menu{Items: make([]Item, 0, len(raw.Items))}
	seen := make(map[string]bool, len(raw.Items))
	for _, ri := range raw.Items {
		if ri.Name == "" {
			return nil, fmt.Errorf("menu item with empty name")
		}
		key := textutil.Fold(ri.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate menu item %q", ri.Name)
		}
		seen[key] = true

		it := Item{
			Name:        ri.Name,
			Category:    Category(ri.Category),
			Description: ri.Description,
			Pairings:    ri.Pairings,
			Suggestions: ri.Suggestions,
		}
		switch it.Category {
		case CategoryHot, CategoryCold, CategoryFood, CategoryPastry:
		default:
			return nil, fmt.Errorf("menu item %q: unknown category %q", ri.Name, ri.Category)
		}

		if ri.Price != "" {
			p, err := decimal.NewFromString(ri.Price)
			if err != nil {
				return nil, fmt.Errorf("menu item %q: bad price %q: %w", ri.Name, ri.Price, err)
			}
			it.BasePrice = &p
		}
		for _, rs := range ri.Sizes {
			p, err := decimal.NewFromString(rs.Price)
			if err != nil {
				return nil, fmt.Errorf("menu item %q: bad price for size %q: %w", ri.Name, rs.Size, err)
			}
			it.Sizes = append(it.Sizes, SizePrice{Size: rs.Size, Price: p})
		}
		if it.BasePrice == nil && len(it.Sizes) == 0 {
			return nil, fmt.Errorf("menu item %q has neither price nor sizes", ri.Name)
		}
		if len(ri.Customizations) > 0 {
			it.Customizations = make(map[string][]Option, len(ri.Customizations))
			for group, opts := range ri.Customizations {
				for _, ro := range opts {
					p, err := decimal.NewFromString(ro.Price)
					if err != nil {
						return nil, fmt.Errorf("menu item %q: bad price for option %q: %w", ri.Name, ro.Name, err)
					}
					it.Customizations[group] = append(it.Customizations[group], Option{Name: ro.Name, Price: p})
				}
			}
		}
		m.Items = append(m.Items, it)
	}
	return m, nil
}

// Load reads and parses a menu YAML file.
func Load(path string) (*Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return Parse(data)
}
