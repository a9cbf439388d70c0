package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
)

func newLine(price int, qty int, discount float64) Line {
	return Line{
		ProductID:              uuid.New(),
		ProductType:            enums.ProductTypeStandard,
		ProductName:            "test product",
		BasePrice:              price,
		DirectCustomerPrice:    price,
		CatalogDiscountPercent: discount,
		DiscountPercent:        discount,
		Quantity:               qty,
		Unit:                   "Box",
	}
}

func TestUnitPriceNonNegativeInteger(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := context.Background()

	cases := []struct {
		name string
		line Line
		ct   enums.CustomerType
		want int
	}{
		{"base price for user", Line{BasePrice: 120, DirectCustomerPrice: 100}, enums.CustomerTypeUser, 120},
		{"direct price for customer", Line{BasePrice: 120, DirectCustomerPrice: 100}, enums.CustomerTypeCustomer, 100},
		{"direct price for other classification", Line{BasePrice: 120, DirectCustomerPrice: 100}, enums.CustomerType("Dealer"), 100},
		{"override wins", Line{BasePrice: 120, DirectCustomerPrice: 100, PriceOverride: intPtr(75)}, enums.CustomerTypeUser, 75},
		{"negative override clamps", Line{BasePrice: 120, PriceOverride: intPtr(-5)}, enums.CustomerTypeUser, 0},
		{"negative catalog price degrades", Line{BasePrice: -40, DirectCustomerPrice: -40}, enums.CustomerTypeUser, 0},
		{"missing prices degrade", Line{}, enums.CustomerTypeCustomer, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := calc.UnitPrice(ctx, tc.line, tc.ct)
			if got != tc.want {
				t.Fatalf("UnitPrice = %d, want %d", got, tc.want)
			}
			if got < 0 {
				t.Fatalf("UnitPrice returned negative %d", got)
			}
		})
	}
}

func TestAddMergesOnCompositeKey(t *testing.T) {
	cart := NewCart()
	line := newLine(100, 0, 10)

	cart.Add(line, 2)
	cart.Add(line, 3)

	if cart.Len() != 1 {
		t.Fatalf("expected 1 line after duplicate add, got %d", cart.Len())
	}
	if got := cart.Lines()[0].Quantity; got != 5 {
		t.Fatalf("expected merged quantity 5, got %d", got)
	}

	// same product id but different type is a distinct line
	other := line
	other.ProductType = enums.ProductTypeNetRate
	cart.Add(other, 1)
	if cart.Len() != 2 {
		t.Fatalf("expected distinct line for different product type, got %d", cart.Len())
	}
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	cart := NewCart()
	cart.Add(newLine(100, 0, 0), 0)
	if got := cart.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected default quantity 1, got %d", got)
	}
}

func TestExampleTotals(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := context.Background()

	cart := NewCart()
	cart.Add(newLine(100, 0, 10), 2)

	totals := calc.ComputeTotals(ctx, cart, enums.CustomerTypeUser, 0)
	if totals.NetRate != 200 {
		t.Errorf("NetRate = %d, want 200", totals.NetRate)
	}
	if totals.YouSave != 20 {
		t.Errorf("YouSave = %d, want 20", totals.YouSave)
	}
	if totals.Total != 180 {
		t.Errorf("Total = %d, want 180", totals.Total)
	}

	if got := calc.Total(ctx, cart, enums.CustomerTypeUser, 50); got != 90 {
		t.Errorf("Total with 50%% additional discount = %d, want 90", got)
	}
}

func TestNetRateNeverBelowYouSave(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := context.Background()

	cart := NewCart()
	cart.Add(newLine(100, 0, 100), 3)
	cart.Add(newLine(250, 0, 33.33), 2)
	cart.Add(newLine(7, 0, 50), 11)

	net := calc.NetRate(ctx, cart, enums.CustomerTypeUser)
	save := calc.YouSave(ctx, cart, enums.CustomerTypeUser)
	if net < save {
		t.Fatalf("netRate %d < youSave %d", net, save)
	}
}

func TestTotalMonotonicInAdditionalDiscount(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := context.Background()

	cart := NewCart()
	cart.Add(newLine(999, 0, 12.5), 4)

	prev := calc.Total(ctx, cart, enums.CustomerTypeUser, 0)
	for _, pct := range []float64{10, 25, 50, 75, 100} {
		got := calc.Total(ctx, cart, enums.CustomerTypeUser, pct)
		if got > prev {
			t.Fatalf("total increased from %d to %d at %.0f%%", prev, got, pct)
		}
		prev = got
	}
}

func TestTotalNeverNegative(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := context.Background()

	cart := NewCart()
	cart.Add(newLine(100, 0, 100), 2)

	if got := calc.Total(ctx, cart, enums.CustomerTypeUser, 100); got != 0 {
		t.Fatalf("Total = %d, want 0 when discounts stack past 100%%", got)
	}
	if got := calc.Total(ctx, cart, enums.CustomerTypeUser, 150); got < 0 {
		t.Fatalf("Total went negative: %d", got)
	}
}

func TestBulkDiscountExclusions(t *testing.T) {
	cart := NewCart()

	regular := newLine(100, 0, 5)
	netRate := newLine(100, 0, 5)
	netRate.ProductType = enums.ProductTypeNetRate
	locked := newLine(100, 0, 0)
	locked.CatalogDiscountPercent = 0

	cart.Add(regular, 1)
	cart.Add(netRate, 1)
	cart.Add(locked, 1)

	cart.ApplyBulkDiscount(25)

	lines := cart.Lines()
	if got := lines[0].DiscountPercent; got != 25 {
		t.Errorf("regular line discount = %v, want 25", got)
	}
	if got := lines[1].DiscountPercent; got != 5 {
		t.Errorf("net-rate line discount changed to %v, want 5", got)
	}
	if got := lines[2].DiscountPercent; got != 0 {
		t.Errorf("discount-locked line changed to %v, want 0", got)
	}
}

func TestBulkDiscountClampsRange(t *testing.T) {
	cart := NewCart()
	cart.Add(newLine(100, 0, 5), 1)

	cart.ApplyBulkDiscount(150)
	if got := cart.Lines()[0].DiscountPercent; got != 100 {
		t.Fatalf("discount = %v, want clamp to 100", got)
	}

	cart.ApplyBulkDiscount(-10)
	if got := cart.Lines()[0].DiscountPercent; got != 0 {
		t.Fatalf("discount = %v, want clamp to 0", got)
	}
}

func TestRemoveMissingLineIsNoOp(t *testing.T) {
	cart := NewCart()
	line := newLine(100, 0, 10)
	cart.Add(line, 1)

	cart.Remove(uuid.New(), enums.ProductTypeStandard)

	if cart.Len() != 1 {
		t.Fatalf("cart changed after removing missing line: %d lines", cart.Len())
	}

	cart.Remove(line.ProductID, line.ProductType)
	if cart.Len() != 0 {
		t.Fatalf("expected empty cart after remove, got %d lines", cart.Len())
	}
	// removing again stays a no-op
	cart.Remove(line.ProductID, line.ProductType)
}

func TestNegativeQuantityFloorsToZero(t *testing.T) {
	cart := NewCart()
	line := newLine(100, 0, 10)
	cart.Add(line, 3)

	cart.SetQuantity(line.ProductID, line.ProductType, -7)

	got := cart.Lines()[0].Quantity
	if got != 0 {
		t.Fatalf("quantity = %d, want 0", got)
	}
	if !cart.HasZeroQuantityLine() {
		t.Fatal("expected zero-quantity line to be reported")
	}
	if cart.Len() != 1 {
		t.Fatal("zero-quantity line should stay in the cart until submission")
	}
}

func TestSetPriceClampsAndRounds(t *testing.T) {
	cart := NewCart()
	line := newLine(100, 0, 0)
	cart.Add(line, 1)

	cart.SetPrice(line.ProductID, line.ProductType, 99.6)
	if got := cart.Lines()[0].PriceOverride; got == nil || *got != 100 {
		t.Fatalf("override = %v, want 100", got)
	}

	cart.SetPrice(line.ProductID, line.ProductType, -12)
	if got := cart.Lines()[0].PriceOverride; got == nil || *got != 0 {
		t.Fatalf("override = %v, want 0", got)
	}
}

func TestYouSaveRoundsAfterAccumulation(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := context.Background()

	// each line saves 0.5; summed before rounding this is 1, not 2x round(0.5)
	cart := NewCart()
	a := newLine(10, 0, 5)
	b := newLine(10, 0, 5)
	b.ProductID = uuid.New()
	cart.Add(a, 1)
	cart.Add(b, 1)

	if got := calc.YouSave(ctx, cart, enums.CustomerTypeUser); got != 1 {
		t.Fatalf("YouSave = %d, want 1", got)
	}
}

func intPtr(v int) *int {
	return &v
}
