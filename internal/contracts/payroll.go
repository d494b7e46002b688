package contracts

import "github.com/shopspring/decimal"

type SalaryRequest struct {
	StaffName  string          `json:"staff_name" binding:"required,max=150"`
	Department string          `json:"department" binding:"omitempty,max=100"`
	BaseSalary decimal.Decimal `json:"base_salary"`
	Allowances decimal.Decimal `json:"allowances"`
	Deductions decimal.Decimal `json:"deductions"`
	Active     *bool           `json:"active"`
}

type LoanRequest struct {
	StaffName   string           `json:"staff_name" binding:"required,max=150"`
	Principal   decimal.Decimal  `json:"principal"`
	Installment decimal.Decimal  `json:"installment"`
	Balance     *decimal.Decimal `json:"balance"`
	StartDate   string           `json:"start_date" binding:"required"`
}

type PayrollRunRequest struct {
	Period string `json:"period" binding:"required,len=7"`
}
