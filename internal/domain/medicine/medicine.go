package medicine

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Medicine struct {
	Id           ulid.ULID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Stock        int             `json:"stock"`
	ReorderLevel int             `json:"reorderLevel"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ExpiryDate   *time.Time      `json:"expiryDate,omitempty"`
	Supplier     string          `json:"supplier,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (m *Medicine) IsLowStock() bool {
	return m.Stock <= m.ReorderLevel
}

func (m *Medicine) ExpiresBefore(t time.Time) bool {
	return m.ExpiryDate != nil && !m.ExpiryDate.After(t)
}

type Filters struct {
	Search   string
	Category string
	LowStock bool
}

type Input struct {
	Name         string
	Category     string
	Unit         string
	Stock        int
	ReorderLevel int
	UnitPrice    decimal.Decimal
	ExpiryDate   *time.Time
	Supplier     string
}
