package pricing

import (
	"math"

	"github.com/google/uuid"

	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
)

// Cart holds an ordered set of lines keyed by (productID, productType).
// It is a plain value type with no locking; a cart belongs to one request.
type Cart struct {
	lines []Line
}

// NewCart builds an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// NewCartFromLines builds a cart from existing lines, merging duplicates.
func NewCartFromLines(lines []Line) *Cart {
	c := NewCart()
	for _, l := range lines {
		c.Add(l, l.Quantity)
	}
	return c
}

// Add inserts a line or, when the same (productID, productType) already
// exists, increments its quantity. Quantity defaults to 1 when the caller
// passes zero or less.
func (c *Cart) Add(line Line, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].Key() == line.Key() {
			c.lines[i].Quantity += quantity
			return
		}
	}
	line.Quantity = quantity
	line.DiscountPercent = clampPercent(line.DiscountPercent)
	c.lines = append(c.lines, line)
}

// SetQuantity updates a line's quantity, flooring negative input to zero.
// Zero-quantity lines stay in the cart and are rejected at submission.
func (c *Cart) SetQuantity(id uuid.UUID, productType enums.ProductType, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	if l := c.find(id, productType); l != nil {
		l.Quantity = quantity
	}
}

// SetPrice records a manual unit price override, rounded and clamped at zero.
func (c *Cart) SetPrice(id uuid.UUID, productType enums.ProductType, price float64) {
	if l := c.find(id, productType); l != nil {
		rounded := int(math.Round(price))
		if rounded < 0 {
			rounded = 0
		}
		l.PriceOverride = &rounded
	}
}

// SetDiscount updates a line's discount, clamped to [0, 100].
func (c *Cart) SetDiscount(id uuid.UUID, productType enums.ProductType, percent float64) {
	if l := c.find(id, productType); l != nil {
		l.DiscountPercent = clampPercent(percent)
	}
}

// Remove drops the matching line. Removing an absent line is a no-op.
func (c *Cart) Remove(id uuid.UUID, productType enums.ProductType) {
	for i := range c.lines {
		if c.lines[i].ProductID == id && c.lines[i].ProductType == productType {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// ApplyBulkDiscount overwrites the discount on every line except net-rate
// lines and discount-locked lines. The exclusions are a business rule carried
// over from the price-list tables, not a generic cart behavior.
func (c *Cart) ApplyBulkDiscount(percent float64) {
	percent = clampPercent(percent)
	for i := range c.lines {
		if isNetRateCategory(c.lines[i]) {
			continue
		}
		if isDiscountLocked(c.lines[i]) {
			continue
		}
		c.lines[i].DiscountPercent = percent
	}
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len reports the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// HasZeroQuantityLine reports whether any line carries a zero quantity.
func (c *Cart) HasZeroQuantityLine() bool {
	for _, l := range c.lines {
		if l.Quantity == 0 {
			return true
		}
	}
	return false
}

func (c *Cart) find(id uuid.UUID, productType enums.ProductType) *Line {
	for i := range c.lines {
		if c.lines[i].ProductID == id && c.lines[i].ProductType == productType {
			return &c.lines[i]
		}
	}
	return nil
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
