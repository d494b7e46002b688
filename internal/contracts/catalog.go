package contracts

import "github.com/shopspring/decimal"

type ServiceItemRequest struct {
	Name     string          `json:"name" binding:"required,max=200"`
	Category string          `json:"category" binding:"omitempty,max=100"`
	Price    decimal.Decimal `json:"price"`
	Active   *bool           `json:"active"`
}
