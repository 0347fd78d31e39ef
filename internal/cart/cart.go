// Package cart holds the client-side shopping cart for a single ordering
// session.
package cart

import (
	"strings"
	"unicode"

	"dosadelight/internal/model"

	"github.com/shopspring/decimal"
)

// currencySymbols are stripped from the front of a price before parsing.
const currencySymbols = "₹$€£"

// Cart is the ordered list of items a customer intends to buy.
//
// A Cart is not safe for concurrent use; it belongs to one session.
type Cart struct {
	Items []model.CartItem
	Open  bool
}

// New returns an empty, closed cart.
func New() *Cart {
	return &Cart{Items: []model.CartItem{}}
}

// Add puts one unit of item into the cart. An item already present by id has
// its quantity incremented instead.
func (c *Cart) Add(item model.CartItem) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity++
			return
		}
	}

	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// Remove drops the item with the given id. Unknown ids are ignored.
func (c *Cart) Remove(id string) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of an item. A quantity of zero or less
// removes the item.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.Remove(id)
		return
	}

	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []model.CartItem{}
}

// Toggle flips the visibility of the cart panel.
func (c *Cart) Toggle() {
	c.Open = !c.Open
}

// Quantity returns how many units of id the cart holds.
func (c *Cart) Quantity(id string) int {
	for _, item := range c.Items {
		if item.ID == id {
			return item.Quantity
		}
	}
	return 0
}

// Len returns the number of distinct items.
func (c *Cart) Len() int {
	return len(c.Items)
}

// Snapshot returns a copy of the items safe to hand to an order.
func (c *Cart) Snapshot() []model.CartItem {
	out := make([]model.CartItem, len(c.Items))
	copy(out, c.Items)
	return out
}

// TotalPrice sums price times quantity across all items.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(ParsePrice(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// ParsePrice reads a display price such as "₹120" or "$10.00". Prices that
// cannot be parsed count as zero.
func ParsePrice(price string) decimal.Decimal {
	trimmed := strings.TrimLeftFunc(price, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(currencySymbols, r)
	})

	d, err := decimal.NewFromString(strings.TrimSpace(trimmed))
	if err != nil {
		return decimal.Zero
	}
	return d
}
