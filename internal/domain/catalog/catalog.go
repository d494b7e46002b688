package catalog

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindService   Kind = "SERVICE"
	KindInjection Kind = "INJECTION"
)

func (k Kind) IsValid() bool {
	return k == KindService || k == KindInjection
}

type ServiceItem struct {
	Id        ulid.ULID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Kind      Kind            `json:"kind"`
	Price     decimal.Decimal `json:"price"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Filters struct {
	Kind       Kind
	Search     string
	OnlyActive bool
}

type Input struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Active   *bool
}
