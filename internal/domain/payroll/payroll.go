package payroll

import (
	"strings"
	"time"

	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const PeriodLayout = "2006-01"

type LoanStatus string

const (
	LoanActive  LoanStatus = "ACTIVE"
	LoanSettled LoanStatus = "SETTLED"
)

type Salary struct {
	Id         ulid.ULID       `json:"id"`
	StaffName  string          `json:"staffName"`
	Department string          `json:"department,omitempty"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	Allowances decimal.Decimal `json:"allowances"`
	Deductions decimal.Decimal `json:"deductions"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type Loan struct {
	Id          ulid.ULID       `json:"id"`
	StaffName   string          `json:"staffName"`
	Principal   decimal.Decimal `json:"principal"`
	Installment decimal.Decimal `json:"installment"`
	Balance     decimal.Decimal `json:"balance"`
	StartDate   time.Time       `json:"startDate"`
	Status      LoanStatus      `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// settle ajusta o status conforme o saldo.
func (l *Loan) settle() {
	if l.Balance.IsPositive() {
		l.Status = LoanActive
		return
	}
	l.Balance = decimal.Zero
	l.Status = LoanSettled
}

type PayrollRun struct {
	Id           ulid.ULID       `json:"id"`
	Period       string          `json:"period"`
	Lines        []PayrollLine   `json:"lines"`
	LoanPayments []LoanPayment   `json:"loanPayments"`
	TotalGross   decimal.Decimal `json:"totalGross"`
	TotalNet     decimal.Decimal `json:"totalNet"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type PayrollLine struct {
	SalaryId        ulid.ULID       `json:"salaryId"`
	StaffName       string          `json:"staffName"`
	Department      string          `json:"department,omitempty"`
	Gross           decimal.Decimal `json:"gross"`
	LoanDeduction   decimal.Decimal `json:"loanDeduction"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	Net             decimal.Decimal `json:"net"`
}

// LoanPayment registra quanto a folha abateu de cada empréstimo, para que a
// remoção da folha devolva o saldo.
type LoanPayment struct {
	LoanId    ulid.ULID       `json:"loanId"`
	StaffName string          `json:"staffName"`
	Amount    decimal.Decimal `json:"amount"`
}

// ComputeLine calcula a linha de um funcionário. Só empréstimos ativos do
// mesmo funcionário entram no desconto, limitados ao saldo de cada um.
func ComputeLine(salary *Salary, loans []*Loan) (PayrollLine, []LoanPayment) {
	gross := pkg.RoundMoney(pkg.NonNegative(salary.BaseSalary).Add(pkg.NonNegative(salary.Allowances)))
	other := pkg.RoundMoney(pkg.NonNegative(salary.Deductions))

	loanDeduction := decimal.Zero
	payments := make([]LoanPayment, 0)
	for _, loan := range loans {
		if loan.Status != LoanActive || !loan.Balance.IsPositive() || !sameStaff(loan.StaffName, salary.StaffName) {
			continue
		}
		amount := pkg.RoundMoney(decimal.Min(pkg.NonNegative(loan.Installment), loan.Balance))
		if !amount.IsPositive() {
			continue
		}
		loanDeduction = loanDeduction.Add(amount)
		payments = append(payments, LoanPayment{LoanId: loan.Id, StaffName: loan.StaffName, Amount: amount})
	}

	return PayrollLine{
		SalaryId:        salary.Id,
		StaffName:       salary.StaffName,
		Department:      salary.Department,
		Gross:           gross,
		LoanDeduction:   loanDeduction,
		OtherDeductions: other,
		Net:             pkg.MaxZero(gross.Sub(other).Sub(loanDeduction)),
	}, payments
}

func sameStaff(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

type SalaryInput struct {
	StaffName  string
	Department string
	BaseSalary decimal.Decimal
	Allowances decimal.Decimal
	Deductions decimal.Decimal
	Active     *bool
}

type LoanFilters struct {
	StaffName string
	Status    LoanStatus
}

type LoanInput struct {
	StaffName   string
	Principal   decimal.Decimal
	Installment decimal.Decimal
	Balance     *decimal.Decimal
	StartDate   time.Time
}
