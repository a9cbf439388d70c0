package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

// Calculator resolves unit prices and derives quotation totals. It is pure
// arithmetic over in-memory lines; the logger only carries diagnostics for
// degraded price resolution and is safe to leave nil in tests.
type Calculator struct {
	logg *logger.Logger
}

// NewCalculator builds a Calculator. A nil logger disables diagnostics.
func NewCalculator(logg *logger.Logger) *Calculator {
	return &Calculator{logg: logg}
}

// Totals bundles the three derived amounts for a cart.
type Totals struct {
	NetRate int `json:"net_rate"`
	YouSave int `json:"you_save"`
	Total   int `json:"total"`
}

// UnitPrice resolves the effective unit price for a line. A manual override
// wins; otherwise the customer classification selects between base price and
// direct customer price. Bad inputs degrade to zero with a diagnostic log
// rather than an error, matching the established booking-screen behavior.
func (c *Calculator) UnitPrice(ctx context.Context, line Line, customerType enums.CustomerType) int {
	if line.PriceOverride != nil {
		price := *line.PriceOverride
		if price < 0 {
			price = 0
		}
		if price == 0 {
			c.logDegraded(ctx, line, customerType, "override resolved to zero")
		}
		return price
	}

	price := line.BasePrice
	if customerType.IsDirectCustomer() {
		price = line.DirectCustomerPrice
	}
	if price < 0 {
		c.logDegraded(ctx, line, customerType, "negative catalog price")
		return 0
	}
	if price == 0 {
		c.logDegraded(ctx, line, customerType, "catalog price resolved to zero")
	}
	return price
}

// NetRate sums resolved unit price times quantity across the cart.
func (c *Calculator) NetRate(ctx context.Context, cart *Cart, customerType enums.CustomerType) int {
	if cart == nil {
		return 0
	}
	total := 0
	for _, l := range cart.Lines() {
		total += c.UnitPrice(ctx, l, customerType) * l.Quantity
	}
	return total
}

// YouSave sums the per-line discount amounts, rounded to whole rupees after
// accumulation so fractional paise do not drift across lines.
func (c *Calculator) YouSave(ctx context.Context, cart *Cart, customerType enums.CustomerType) int {
	if cart == nil {
		return 0
	}
	sum := decimal.Zero
	for _, l := range cart.Lines() {
		price := decimal.NewFromInt(int64(c.UnitPrice(ctx, l, customerType)))
		qty := decimal.NewFromInt(int64(l.Quantity))
		disc := decimal.NewFromFloat(clampPercent(l.DiscountPercent)).Div(decimal.NewFromInt(100))
		sum = sum.Add(price.Mul(qty).Mul(disc))
	}
	return int(sum.Round(0).IntPart())
}

// Total applies the order-level additional discount to net minus saved and
// floors the result at zero.
func (c *Calculator) Total(ctx context.Context, cart *Cart, customerType enums.CustomerType, additionalDiscountPercent float64) int {
	net := decimal.NewFromInt(int64(c.NetRate(ctx, cart, customerType)))
	save := decimal.NewFromInt(int64(c.YouSave(ctx, cart, customerType)))
	factor := decimal.NewFromInt(1).Sub(
		decimal.NewFromFloat(clampPercent(additionalDiscountPercent)).Div(decimal.NewFromInt(100)),
	)
	total := net.Sub(save).Mul(factor).Round(0)
	if total.IsNegative() {
		return 0
	}
	return int(total.IntPart())
}

// ComputeTotals derives all three amounts in one pass-friendly call.
func (c *Calculator) ComputeTotals(ctx context.Context, cart *Cart, customerType enums.CustomerType, additionalDiscountPercent float64) Totals {
	return Totals{
		NetRate: c.NetRate(ctx, cart, customerType),
		YouSave: c.YouSave(ctx, cart, customerType),
		Total:   c.Total(ctx, cart, customerType, additionalDiscountPercent),
	}
}

func (c *Calculator) logDegraded(ctx context.Context, line Line, customerType enums.CustomerType, reason string) {
	if c.logg == nil {
		return
	}
	fields := map[string]any{
		"product_id":    line.ProductID.String(),
		"product_type":  line.ProductType,
		"product_name":  line.ProductName,
		"customer_type": customerType,
		"reason":        reason,
	}
	c.logg.Warn(c.logg.WithFields(ctx, fields), "price resolution degraded to zero")
}
