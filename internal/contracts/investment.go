package contracts

import "github.com/shopspring/decimal"

type ShareRequest struct {
	InvestorID      string          `json:"investor_id" binding:"omitempty"`
	Name            string          `json:"name"`
	SharePercentage decimal.Decimal `json:"share_percentage"`
}

type InvestmentCreateRequest struct {
	Title        string          `json:"title" binding:"required,max=200"`
	Category     string          `json:"category" binding:"omitempty,max=100"`
	Amount       decimal.Decimal `json:"amount"`
	InvestorName string          `json:"investor_name" binding:"omitempty"`
	Shares       []ShareRequest  `json:"shares" binding:"omitempty,dive"`
	Status       string          `json:"status" binding:"omitempty,oneof=ACTIVE CLOSED PLANNED"`
	StartDate    string          `json:"start_date" binding:"omitempty"`
	EndDate      string          `json:"end_date" binding:"omitempty"`
	Note         string          `json:"note" binding:"omitempty,max=1000"`
}

type InvestmentUpdateRequest struct {
	Title        *string          `json:"title" binding:"omitempty,max=200"`
	Category     *string          `json:"category" binding:"omitempty,max=100"`
	Amount       *decimal.Decimal `json:"amount"`
	InvestorName *string          `json:"investor_name"`
	Shares       *[]ShareRequest  `json:"shares"`
	Status       *string          `json:"status" binding:"omitempty,oneof=ACTIVE CLOSED PLANNED"`
	StartDate    *string          `json:"start_date"`
	EndDate      *string          `json:"end_date"`
	Note         *string          `json:"note" binding:"omitempty,max=1000"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

type BulkDeleteResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type RecapitalizeRequest struct {
	TotalCapital decimal.Decimal `json:"total_capital"`
}

type NormalizeRequest struct {
	Total  decimal.Decimal `json:"total"`
	Shares []ShareRequest  `json:"shares" binding:"omitempty,dive"`
}
