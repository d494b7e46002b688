package billing

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
)

type ItemKind string

const (
	ItemService   ItemKind = "SERVICE"
	ItemMedicine  ItemKind = "MEDICINE"
	ItemInjection ItemKind = "INJECTION"
)

func (k ItemKind) IsValid() bool {
	switch k {
	case ItemService, ItemMedicine, ItemInjection:
		return true
	}
	return false
}

type Bill struct {
	Id                ulid.ULID       `json:"id"`
	Number            string          `json:"number"`
	PatientName       string          `json:"patientName"`
	Items             []BillItem      `json:"items"`
	DiscountType      DiscountType    `json:"discountType,omitempty"`
	DiscountValue     decimal.Decimal `json:"discountValue"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	Total             decimal.Decimal `json:"total"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	Status            Status          `json:"status"`
	Currency          string          `json:"currency"`
	SecondaryCurrency string          `json:"secondaryCurrency,omitempty"`
	ExchangeRate      decimal.Decimal `json:"exchangeRate"`
	SecondaryTotal    decimal.Decimal `json:"secondaryTotal"`
	IssuedAt          time.Time       `json:"issuedAt"`
	Note              string          `json:"note,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type BillItem struct {
	Id          ulid.ULID       `json:"id"`
	Kind        ItemKind        `json:"kind"`
	RefId       *ulid.ULID      `json:"refId,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// Balance é o valor ainda em aberto.
func (b *Bill) Balance() decimal.Decimal {
	return decimal.Max(decimal.Zero, b.Total.Sub(b.PaidAmount))
}

// medicineQuantities soma as quantidades de cada medicamento da fatura.
func (b *Bill) medicineQuantities() map[ulid.ULID]int {
	out := make(map[ulid.ULID]int)
	for _, item := range b.Items {
		if item.Kind == ItemMedicine && item.RefId != nil {
			out[*item.RefId] += item.Quantity
		}
	}
	return out
}

func StatusFor(paid, total decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

type Filters struct {
	Status Status
	Search string
	From   *time.Time
	To     *time.Time
}

type ItemInput struct {
	Kind        ItemKind
	RefId       *ulid.ULID
	Description string
	Quantity    int
	UnitPrice   *decimal.Decimal
}

type Input struct {
	PatientName   string
	Items         []ItemInput
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	PaidAmount    *decimal.Decimal
	IssuedAt      *time.Time
	Note          string
}
