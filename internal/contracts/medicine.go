package contracts

import "github.com/shopspring/decimal"

type MedicineRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Category     string          `json:"category" binding:"omitempty,max=100"`
	Unit         string          `json:"unit" binding:"omitempty,max=40"`
	Stock        int             `json:"stock" binding:"gte=0"`
	ReorderLevel int             `json:"reorder_level" binding:"gte=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ExpiryDate   string          `json:"expiry_date" binding:"omitempty"`
	Supplier     string          `json:"supplier" binding:"omitempty,max=150"`
}

type StockAdjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}
