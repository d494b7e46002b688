package billing

import (
	"strings"

	"clinicdesk/internal/pkg"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotals aplica o desconto sobre a soma das linhas; o total nunca
// fica negativo.
func ComputeTotals(items []BillItem, discountType DiscountType, discountValue decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice))
	}

	discount := decimal.Zero
	switch discountType {
	case DiscountPercentage:
		discount = subtotal.Mul(pkg.NonNegative(discountValue)).Div(pkg.Hundred)
	case DiscountFlat:
		discount = pkg.NonNegative(discountValue)
	}

	return Totals{
		Subtotal:       pkg.RoundMoney(subtotal),
		DiscountAmount: pkg.RoundMoney(discount),
		Total:          pkg.RoundMoney(pkg.MaxZero(subtotal.Sub(discount))),
	}
}

var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
	"KHR": true,
}

func CurrencyDecimals(currency string) int32 {
	if zeroDecimalCurrencies[strings.ToUpper(strings.TrimSpace(currency))] {
		return 0
	}
	return 2
}

// Convert expressa amount na moeda secundária com as casas decimais dela.
func Convert(amount, rate decimal.Decimal, currency string) decimal.Decimal {
	return amount.Mul(rate).Round(CurrencyDecimals(currency))
}
