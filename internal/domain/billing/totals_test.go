package billing_test

import (
	"testing"

	"clinicdesk/internal/domain/billing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	items := []billing.BillItem{
		{Quantity: 2, UnitPrice: dec("100")},
		{Quantity: 1, UnitPrice: dec("50")},
	}

	tests := []struct {
		name         string
		discountType billing.DiscountType
		value        string
		wantDiscount string
		wantTotal    string
	}{
		{name: "percentage", discountType: billing.DiscountPercentage, value: "10", wantDiscount: "25", wantTotal: "225"},
		{name: "flat", discountType: billing.DiscountFlat, value: "30", wantDiscount: "30", wantTotal: "220"},
		{name: "flat above subtotal", discountType: billing.DiscountFlat, value: "400", wantDiscount: "400", wantTotal: "0"},
		{name: "no discount", discountType: "", value: "15", wantDiscount: "0", wantTotal: "250"},
		{name: "negative discount ignored", discountType: billing.DiscountFlat, value: "-5", wantDiscount: "0", wantTotal: "250"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := billing.ComputeTotals(items, tt.discountType, dec(tt.value))
			if !got.Subtotal.Equal(dec("250")) {
				t.Fatalf("expected subtotal 250, got %s", got.Subtotal)
			}
			if !got.DiscountAmount.Equal(dec(tt.wantDiscount)) {
				t.Fatalf("expected discount %s, got %s", tt.wantDiscount, got.DiscountAmount)
			}
			if !got.Total.Equal(dec(tt.wantTotal)) {
				t.Fatalf("expected total %s, got %s", tt.wantTotal, got.Total)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		currency string
		amount   string
		rate     string
		want     string
	}{
		{currency: "KHR", amount: "12.35", rate: "4100", want: "50635"},
		{currency: "jpy", amount: "10.01", rate: "151.37", want: "1515"},
		{currency: "EUR", amount: "10", rate: "0.9234", want: "9.23"},
	}

	for _, tt := range tests {
		got := billing.Convert(dec(tt.amount), dec(tt.rate), tt.currency)
		if !got.Equal(dec(tt.want)) {
			t.Fatalf("Convert(%s, %s, %s) = %s, want %s", tt.amount, tt.rate, tt.currency, got, tt.want)
		}
	}

	if billing.CurrencyDecimals("VND") != 0 || billing.CurrencyDecimals("USD") != 2 {
		t.Fatalf("unexpected currency decimals")
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	if billing.StatusFor(dec("0"), dec("100")) != billing.StatusUnpaid {
		t.Fatalf("expected UNPAID")
	}
	if billing.StatusFor(dec("40"), dec("100")) != billing.StatusPartial {
		t.Fatalf("expected PARTIAL")
	}
	if billing.StatusFor(dec("100"), dec("100")) != billing.StatusPaid {
		t.Fatalf("expected PAID")
	}
	if billing.StatusFor(dec("0"), dec("0")) != billing.StatusPaid {
		t.Fatalf("expected zero total to be PAID")
	}
}
