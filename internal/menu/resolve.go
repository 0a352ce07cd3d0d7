// SPDX-License-Identifier: MIT

package menu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hazelbot/hazel/internal/textutil"
)

// Selection names a size and customization choices for a detailed order line.
type Selection struct {
	Size    string
	Options []string
}

// Resolve computes the unit price of an item under a selection: the size
// price (or base price when no size is chosen) plus the sum of option
// deltas. Unknown sizes and options are errors, not silent zero-adds.
func (m *Menu) Resolve(name string, sel Selection) (Item, decimal.Decimal, error) {
	it, ok := m.Get(name)
	if !ok {
		return Item{}, decimal.Zero, fmt.Errorf("unknown menu item %q", name)
	}

	price := it.UnitPrice()
	if sel.Size != "" {
		found := false
		for _, sp := range it.Sizes {
			if strings.EqualFold(sp.Size, sel.Size) {
				price = sp.Price
				found = true
				break
			}
		}
		if !found {
			return Item{}, decimal.Zero, fmt.Errorf("item %q has no size %q", it.Name, sel.Size)
		}
	}

	for _, want := range sel.Options {
		delta, ok := optionPrice(it, want)
		if !ok {
			return Item{}, decimal.Zero, fmt.Errorf("item %q has no option %q", it.Name, want)
		}
		price = price.Add(delta)
	}
	return it, price, nil
}

func optionPrice(it Item, name string) (decimal.Decimal, bool) {
	folded := textutil.Fold(name)
	for _, opts := range it.Customizations {
		for _, o := range opts {
			if textutil.Fold(o.Name) == folded {
				return o.Price, true
			}
		}
	}
	return decimal.Zero, false
}

// Listing formats the full menu grouped by category for a chat reply.
func (m *Menu) Listing() string {
	var b strings.Builder
	order := []struct {
		cat   Category
		title string
	}{
		{CategoryHot, "Hot Drinks"},
		{CategoryCold, "Cold Drinks"},
		{CategoryFood, "Food"},
		{CategoryPastry, "Pastries"},
	}
	for _, g := range order {
		items := m.ByCategory(g.cat)
		if len(items) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(g.title)
		b.WriteString(":\n")
		for _, it := range items {
			fmt.Fprintf(&b, "  %s - $%s", it.Name, it.UnitPrice().StringFixed(2))
			if len(it.Sizes) > 1 {
				var sizes []string
				for _, sp := range it.Sizes {
					sizes = append(sizes, fmt.Sprintf("%s $%s", sp.Size, sp.Price.StringFixed(2)))
				}
				fmt.Fprintf(&b, " (%s)", strings.Join(sizes, ", "))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// CustomizationGroups returns an item's customization group names sorted,
// so replies render deterministically.
func CustomizationGroups(it Item) []string {
	groups := make([]string, 0, len(it.Customizations))
	for g := range it.Customizations {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
