package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
)

// PriceListEntry is one row of the per-type rate table the console prints.
type PriceListEntry struct {
	ProductID       uuid.UUID `json:"product_id"`
	SerialNumber    string    `json:"serial_number"`
	Name            string    `json:"name"`
	Unit            string    `json:"unit"`
	Rate            int       `json:"rate"`
	DiscountPercent float64   `json:"discount_percent"`
}

// PriceList derives the printable rate table for one product type.
func (s *service) PriceList(ctx context.Context, productType enums.ProductType) ([]PriceListEntry, error) {
	if !productType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}
	products, err := s.repo.ListByType(ctx, productType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products for price list")
	}

	entries := make([]PriceListEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, PriceListEntry{
			ProductID:       p.ID,
			SerialNumber:    p.SerialNumber,
			Name:            p.Name,
			Unit:            p.Unit,
			Rate:            priceListRate(p),
			DiscountPercent: p.DiscountPercent,
		})
	}
	return entries, nil
}

// priceListRate applies the legacy name-matched multiplier from the printed
// price list. "10*10" and "setout" rows print at five times the base price.
// TODO: confirm with the business owner whether the 5x rule still applies
// before extending it to any other product name.
func priceListRate(p models.Product) int {
	name := strings.ToLower(p.Name)
	if strings.Contains(name, "10*10") || strings.Contains(name, "setout") {
		return p.BasePrice * 5
	}
	return p.BasePrice
}
