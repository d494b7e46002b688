package contracts

import "github.com/shopspring/decimal"

type BankTransactionRequest struct {
	Date        string          `json:"date" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" binding:"omitempty,max=300"`
	Reference   string          `json:"reference" binding:"omitempty,max=100"`
}

type BankBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}
