// SPDX-License-Identifier: MIT

package menu

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMenuYAML = `
items:
  - name: Latte
    category: hot
    description: Espresso with steamed milk
    sizes:
      - size: Small
        price: "4.00"
      - size: Medium
        price: "4.50"
      - size: Large
        price: "5.00"
    customizations:
      milk:
        - name: Oat Milk
          price: "0.60"
        - name: Almond Milk
          price: "0.60"
      shots:
        - name: Extra Shot
          price: "0.75"
  - name: Iced Latte
    category: cold
    sizes:
      - size: Medium
        price: "4.75"
      - size: Large
        price: "5.25"
  - name: Croissant
    category: pastry
    price: "3.25"
    pairings: [Latte]
`

func mustParse(t *testing.T) *Menu {
	t.Helper()
	m, err := Parse([]byte(testMenuYAML))
	require.NoError(t, err)
	return m
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty menu", `items: []`},
		{"missing name", "items:\n  - category: hot\n    price: \"1.00\""},
		{"unknown category", "items:\n  - name: X\n    category: soup\n    price: \"1.00\""},
		{"no price no sizes", "items:\n  - name: X\n    category: hot"},
		{"bad price", "items:\n  - name: X\n    category: hot\n    price: \"abc\""},
		{"duplicate item", "items:\n  - name: X\n    category: hot\n    price: \"1.00\"\n  - name: x\n    category: hot\n    price: \"2.00\""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestUnitPrice(t *testing.T) {
	m := mustParse(t)

	latte, ok := m.Get("latte")
	require.True(t, ok)
	assert.True(t, latte.UnitPrice().Equal(decimal.RequireFromString("4.00")), "sized item prices at first declared size")

	croissant, ok := m.Get("Croissant")
	require.True(t, ok)
	assert.True(t, croissant.UnitPrice().Equal(decimal.RequireFromString("3.25")))
}

func TestLookupDeclarationOrder(t *testing.T) {
	m := mustParse(t)

	// "Latte" is declared before "Iced Latte" and is contained in the
	// message, so declaration order decides the winner.
	it, ok := m.Lookup("I'd like an iced latte please")
	require.True(t, ok)
	assert.Equal(t, "Latte", it.Name)

	_, ok = m.Lookup("do you sell pizza")
	assert.False(t, ok)

	_, ok = m.Lookup("")
	assert.False(t, ok)
}

func TestLookupFoldsDiacritics(t *testing.T) {
	m, err := Parse([]byte("items:\n  - name: Crème Brûlée\n    category: pastry\n    price: \"5.50\""))
	require.NoError(t, err)

	it, ok := m.Lookup("one creme brulee to go")
	require.True(t, ok)
	assert.Equal(t, "Crème Brûlée", it.Name)
}

func TestResolve(t *testing.T) {
	m := mustParse(t)

	t.Run("size plus options", func(t *testing.T) {
		_, price, err := m.Resolve("Latte", Selection{Size: "Large", Options: []string{"Oat Milk", "Extra Shot"}})
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.RequireFromString("6.35")), "got %s", price)
	})

	t.Run("no selection falls back to unit price", func(t *testing.T) {
		_, price, err := m.Resolve("Latte", Selection{})
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.RequireFromString("4.00")))
	})

	t.Run("unknown size", func(t *testing.T) {
		_, _, err := m.Resolve("Latte", Selection{Size: "Venti"})
		assert.Error(t, err)
	})

	t.Run("unknown option", func(t *testing.T) {
		_, _, err := m.Resolve("Latte", Selection{Options: []string{"Whip"}})
		assert.Error(t, err)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, _, err := m.Resolve("Pizza", Selection{})
		assert.Error(t, err)
	})
}

func TestListing(t *testing.T) {
	m := mustParse(t)
	out := m.Listing()
	assert.Contains(t, out, "Hot Drinks:")
	assert.Contains(t, out, "Latte - $4.00")
	assert.Contains(t, out, "Small $4.00, Medium $4.50, Large $5.00")
	assert.Contains(t, out, "Croissant - $3.25")
}
