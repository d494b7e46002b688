package contracts

import "github.com/shopspring/decimal"

type ContributionRequest struct {
	InvestmentID string          `json:"investment_id" binding:"required"`
	InvestorName string          `json:"investor_name" binding:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date" binding:"omitempty"`
	Category     string          `json:"category" binding:"omitempty,max=100"`
	Note         string          `json:"note" binding:"omitempty,max=1000"`
}
