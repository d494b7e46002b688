package investment

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusPlanned Status = "PLANNED"
	StatusClosed  Status = "CLOSED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPlanned, StatusClosed:
		return true
	}
	return false
}

type Investment struct {
	Id           ulid.ULID       `json:"id"`
	Title        string          `json:"title"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	InvestorName string          `json:"investorName,omitempty"`
	Shares       []InvestorShare `json:"investors"`
	Status       Status          `json:"status"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// HasShares diz se o investimento já usa a lista de investidores.
func (i *Investment) HasShares() bool {
	return len(i.Shares) > 0
}

// Weights devolve as participações atuais como pesos para renormalização.
func (i *Investment) Weights() []ShareInput {
	out := make([]ShareInput, 0, len(i.Shares))
	for _, s := range i.Shares {
		out = append(out, ShareInput{
			InvestorId:      s.InvestorId,
			Name:            s.Name,
			SharePercentage: s.SharePercentage,
		})
	}
	if len(out) == 0 && strings.TrimSpace(i.InvestorName) != "" {
		out = append(out, ShareInput{Name: i.InvestorName, SharePercentage: decimal.NewFromInt(100)})
	}
	return out
}

type Filters struct {
	Status   Status
	Category string
	Search   string
}

type CreateInput struct {
	Title        string
	Category     string
	Amount       decimal.Decimal
	InvestorName string
	Shares       []ShareInput
	Status       Status
	StartDate    *time.Time
	EndDate      *time.Time
	Note         string
}

type UpdateInput struct {
	Title        *string
	Category     *string
	Amount       *decimal.Decimal
	InvestorName *string
	Shares       *[]ShareInput
	Status       *Status
	StartDate    *time.Time
	EndDate      *time.Time
	Note         *string
}
