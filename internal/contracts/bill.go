package contracts

import "github.com/shopspring/decimal"

type BillItemRequest struct {
	Kind        string           `json:"kind" binding:"required,oneof=SERVICE MEDICINE INJECTION"`
	RefID       string           `json:"ref_id" binding:"omitempty"`
	Description string           `json:"description" binding:"omitempty,max=200"`
	Quantity    int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

type BillRequest struct {
	PatientName   string            `json:"patient_name" binding:"required,max=200"`
	Items         []BillItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountType  string            `json:"discount_type" binding:"omitempty,oneof=percentage flat"`
	DiscountValue decimal.Decimal   `json:"discount_value"`
	PaidAmount    *decimal.Decimal  `json:"paid_amount"`
	IssuedAt      string            `json:"issued_at" binding:"omitempty"`
	Note          string            `json:"note" binding:"omitempty,max=1000"`
}

type BillPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
