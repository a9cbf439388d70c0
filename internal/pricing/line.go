package pricing

import (
	"github.com/google/uuid"

	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
)

// Line is one cart entry. Catalog fields are snapshotted at add time so the
// engine never reaches back into the catalog mid-computation.
type Line struct {
	ProductID              uuid.UUID
	ProductType            enums.ProductType
	ProductName            string
	BasePrice              int
	DirectCustomerPrice    int
	CatalogDiscountPercent float64
	DiscountPercent        float64
	Quantity               int
	Unit                   string
	PriceOverride          *int
}

// Key returns the composite identity a cart merges on.
func (l Line) Key() LineKey {
	return LineKey{ProductID: l.ProductID, ProductType: l.ProductType}
}

// LineKey identifies a line inside a cart.
type LineKey struct {
	ProductID   uuid.UUID
	ProductType enums.ProductType
}

// isNetRateCategory reports whether the line belongs to the fixed net-rate
// product table. Net-rate lines never take bulk discount overwrites.
func isNetRateCategory(l Line) bool {
	return l.ProductType == enums.ProductTypeNetRate
}

// isDiscountLocked reports whether the line's catalog discount was exactly
// zero when it entered the cart. Such lines keep their discount untouched
// during bulk updates.
func isDiscountLocked(l Line) bool {
	return l.CatalogDiscountPercent == 0
}
