package investment

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Contribution struct {
	Id           ulid.ULID       `json:"id"`
	InvestmentId ulid.ULID       `json:"investmentId"`
	InvestorId   *ulid.ULID      `json:"investorId,omitempty"`
	InvestorName string          `json:"investorName"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Category     string          `json:"category,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type ContributionFilters struct {
	InvestmentId *ulid.ULID
	InvestorName string
	From         *time.Time
	To           *time.Time
}

type ContributionInput struct {
	InvestmentId ulid.ULID
	InvestorName string
	Amount       decimal.Decimal
	Date         *time.Time
	Category     string
	Note         string
}

type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Errors  []ImportRowError `json:"errors"`
}
