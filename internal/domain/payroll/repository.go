package payroll

import (
	"context"

	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type SalaryRepository interface {
	Create(ctx context.Context, salary *Salary) error
	Update(ctx context.Context, salary *Salary) error
	Delete(ctx context.Context, id ulid.ULID) error
	GetByID(ctx context.Context, id ulid.ULID) (*Salary, error)
	List(ctx context.Context, search string, pagination *pkg.PaginationParams) ([]*Salary, int64, error)
	ListActive(ctx context.Context) ([]*Salary, error)
}

type LoanRepository interface {
	Create(ctx context.Context, loan *Loan) error
	Update(ctx context.Context, loan *Loan) error
	Delete(ctx context.Context, id ulid.ULID) error
	GetByID(ctx context.Context, id ulid.ULID) (*Loan, error)
	List(ctx context.Context, filters *LoanFilters, pagination *pkg.PaginationParams) ([]*Loan, int64, error)
	ListActive(ctx context.Context) ([]*Loan, error)
}

type RunRepository interface {
	// Create grava a folha e os novos saldos dos empréstimos numa única transação.
	Create(ctx context.Context, run *PayrollRun, loans []*Loan) error
	// Delete remove a folha e devolve os saldos dos empréstimos numa única transação.
	Delete(ctx context.Context, id ulid.ULID) error
	GetByID(ctx context.Context, id ulid.ULID) (*PayrollRun, error)
	ExistsForPeriod(ctx context.Context, period string) (bool, error)
	List(ctx context.Context, pagination *pkg.PaginationParams) ([]*PayrollRun, int64, error)
}
