package pkg

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var Hundred = decimal.NewFromInt(100)

// RoundMoney arredonda para centavos (meio para cima em valores positivos).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func MaxZero(d decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, d)
}

// ParseAmount aceita valores vindos de planilhas: "1,250.50", "$ 30", " 12 ".
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimLeft(cleaned, "$€£¥៛R ")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Zero, errors.New("valor vazio")
	}
	return decimal.NewFromString(cleaned)
}

// CoerceAmount converte entradas inválidas ou negativas em zero.
func CoerceAmount(raw string) decimal.Decimal {
	d, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return NonNegative(d)
}
