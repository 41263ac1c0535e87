package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		unit     string
		qty      int
		expected string
	}{
		{"10.00", 2, "20.00"},
		{"0.10", 3, "0.30"},
		{"19.99", 0, "0.00"},
		{"1234567.89", 1, "1234567.89"},
	}

	for _, tt := range tests {
		got := LineTotal(price(tt.unit), tt.qty)
		if !got.Equal(price(tt.expected)) {
			t.Errorf("LineTotal(%s, %d) = %s, want %s", tt.unit, tt.qty, got, tt.expected)
		}
	}
}

func TestRecalculate(t *testing.T) {
	tests := []struct {
		name          string
		items         []LineItem
		totalProducts int
		finalPrice    string
	}{
		{
			name:          "empty cart",
			items:         nil,
			totalProducts: 0,
			finalPrice:    "0",
		},
		{
			name: "single line",
			items: []LineItem{
				{Quantity: 2, UnitPrice: price("10.00"), LineTotal: price("20.00")},
			},
			totalProducts: 2,
			finalPrice:    "20.00",
		},
		{
			name: "several lines",
			items: []LineItem{
				{Quantity: 1, UnitPrice: price("0.10"), LineTotal: price("0.10")},
				{Quantity: 2, UnitPrice: price("0.20"), LineTotal: price("0.40")},
				{Quantity: 3, UnitPrice: price("5.55"), LineTotal: price("16.65")},
			},
			totalProducts: 6,
			finalPrice:    "17.15",
		},
		{
			name: "uses frozen line totals, not current unit price",
			items: []LineItem{
				{Quantity: 2, UnitPrice: price("12.00"), LineTotal: price("20.00")},
			},
			totalProducts: 2,
			finalPrice:    "20.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recalculate(tt.items)
			if got.TotalProducts != tt.totalProducts {
				t.Errorf("TotalProducts = %d, want %d", got.TotalProducts, tt.totalProducts)
			}
			if !got.FinalPrice.Equal(price(tt.finalPrice)) {
				t.Errorf("FinalPrice = %s, want %s", got.FinalPrice, tt.finalPrice)
			}
		})
	}
}

func TestCart_OwnedBy(t *testing.T) {
	customerID := uuid.New()

	customerCart := &Cart{OwnerID: uuid.NullUUID{UUID: customerID, Valid: true}}
	anonCart := &Cart{SessionToken: "tok"}

	tests := []struct {
		name     string
		cart     *Cart
		owner    Owner
		expected bool
	}{
		{"customer owns own cart", customerCart, CustomerOwner(customerID), true},
		{"other customer", customerCart, CustomerOwner(uuid.New()), false},
		{"token does not own customer cart", customerCart, AnonymousOwner("tok"), false},
		{"token owns anonymous cart", anonCart, AnonymousOwner("tok"), true},
		{"wrong token", anonCart, AnonymousOwner("other"), false},
		{"customer does not own anonymous cart", anonCart, CustomerOwner(customerID), false},
		{"nobody owns anything", anonCart, Owner{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cart.OwnedBy(tt.owner); got != tt.expected {
				t.Errorf("OwnedBy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTotals_Fits(t *testing.T) {
	tests := []struct {
		name     string
		totals   Totals
		expected bool
	}{
		{"empty", Totals{FinalPrice: decimal.Zero}, true},
		{"at money limit", Totals{TotalProducts: 1, FinalPrice: price("9999999.99")}, true},
		{"over money limit", Totals{TotalProducts: 1, FinalPrice: price("10000000.00")}, false},
		{"over int32 count", Totals{TotalProducts: 1 << 31, FinalPrice: price("1.00")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.totals.Fits(); got != tt.expected {
				t.Errorf("Fits() = %v, want %v", got, tt.expected)
			}
		})
	}
}
