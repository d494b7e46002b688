package payroll

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/logger"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Service struct {
	Salaries SalaryRepository
	Loans    LoanRepository
	Runs     RunRepository
	Cache    shared.Cache
}

func NewService(salaries SalaryRepository, loans LoanRepository, runs RunRepository, cache shared.Cache) *Service {
	return &Service{
		Salaries: salaries,
		Loans:    loans,
		Runs:     runs,
		Cache:    cache,
	}
}

type SalaryPage struct {
	Items []*Salary `json:"items"`
	Total int64     `json:"total"`
}

type LoanPage struct {
	Items []*Loan `json:"items"`
	Total int64   `json:"total"`
}

type RunPage struct {
	Items []*PayrollRun `json:"items"`
	Total int64         `json:"total"`
}

func (s *Service) CreateSalary(ctx context.Context, in SalaryInput) (*Salary, error) {
	salary, err := buildSalary(in)
	if err != nil {
		return nil, err
	}
	if err := s.Salaries.Create(ctx, salary); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionPayroll)
	return salary, nil
}

func (s *Service) UpdateSalary(ctx context.Context, id ulid.ULID, in SalaryInput) (*Salary, error) {
	existing, err := s.Salaries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Active == nil {
		in.Active = &existing.Active
	}
	salary, err := buildSalary(in)
	if err != nil {
		return nil, err
	}
	salary.Id = existing.Id
	salary.CreatedAt = existing.CreatedAt

	if err := s.Salaries.Update(ctx, salary); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionPayroll)
	return salary, nil
}

func (s *Service) DeleteSalary(ctx context.Context, id ulid.ULID) error {
	if err := s.Salaries.Delete(ctx, id); err != nil {
		return err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionPayroll)
	return nil
}

func (s *Service) GetSalary(ctx context.Context, id ulid.ULID) (*Salary, error) {
	return s.Salaries.GetByID(ctx, id)
}

func (s *Service) ListSalaries(ctx context.Context, search string, pagination *pkg.PaginationParams) ([]*Salary, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	key := shared.CacheKey("salaries", search, fmt.Sprintf("p%d", pagination.Page), fmt.Sprintf("l%d", pagination.Limit))

	page, err := shared.Remember(ctx, s.Cache, []string{shared.CollectionPayroll}, key, func() (*SalaryPage, error) {
		items, total, err := s.Salaries.List(ctx, search, pagination)
		if err != nil {
			return nil, err
		}
		return &SalaryPage{Items: items, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (s *Service) CreateLoan(ctx context.Context, in LoanInput) (*Loan, error) {
	loan, err := buildLoan(in)
	if err != nil {
		return nil, err
	}
	if err := s.Loans.Create(ctx, loan); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionPayroll)
	return loan, nil
}

func (s *Service) UpdateLoan(ctx context.Context, id ulid.ULID, in LoanInput) (*Loan, error) {
	existing, err := s.Loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Balance == nil {
		// mantém o que já foi pago quando só o principal muda
		paid := existing.Principal.Sub(existing.Balance)
		balance := pkg.MaxZero(in.Principal.Sub(paid))
		in.Balance = &balance
	}
	loan, err := buildLoan(in)
	if err != nil {
		return nil, err
	}
	loan.Id = existing.Id
	loan.CreatedAt = existing.CreatedAt

	if err := s.Loans.Update(ctx, loan); err != nil {
		return nil, err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionPayroll)
	return loan, nil
}

func (s *Service) DeleteLoan(ctx context.Context, id ulid.ULID) error {
	if err := s.Loans.Delete(ctx, id); err != nil {
		return err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionPayroll)
	return nil
}

func (s *Service) GetLoan(ctx context.Context, id ulid.ULID) (*Loan, error) {
	return s.Loans.GetByID(ctx, id)
}

func (s *Service) ListLoans(ctx context.Context, filters *LoanFilters, pagination *pkg.PaginationParams) ([]*Loan, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	if filters == nil {
		filters = &LoanFilters{}
	}
	key := shared.CacheKey("loans", filters.StaffName, string(filters.Status),
		fmt.Sprintf("p%d", pagination.Page), fmt.Sprintf("l%d", pagination.Limit))

	page, err := shared.Remember(ctx, s.Cache, []string{shared.CollectionPayroll}, key, func() (*LoanPage, error) {
		items, total, err := s.Loans.List(ctx, filters, pagination)
		if err != nil {
			return nil, err
		}
		return &LoanPage{Items: items, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

// CreateRun gera a folha do período para todos os salários ativos e abate as
// parcelas dos empréstimos. Um período só pode ter uma folha.
func (s *Service) CreateRun(ctx context.Context, period string) (*PayrollRun, error) {
	period = strings.TrimSpace(period)
	if _, err := time.Parse(PeriodLayout, period); err != nil {
		return nil, appErrors.NewValidationError("period", "deve estar no formato AAAA-MM")
	}

	exists, err := s.Runs.ExistsForPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErrors.ErrPayrollRunExists.WithDetails(map[string]interface{}{"period": period})
	}

	salaries, err := s.Salaries.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.Loans.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(salaries, func(i, j int) bool {
		return strings.ToLower(salaries[i].StaffName) < strings.ToLower(salaries[j].StaffName)
	})

	run := &PayrollRun{
		Id:           pkg.GenerateULIDObject(),
		Period:       period,
		Lines:        make([]PayrollLine, 0, len(salaries)),
		LoanPayments: make([]LoanPayment, 0),
		TotalGross:   decimal.Zero,
		TotalNet:     decimal.Zero,
		CreatedAt:    pkg.SetTimestamps(),
	}

	byID := make(map[ulid.ULID]*Loan, len(loans))
	for _, loan := range loans {
		byID[loan.Id] = loan
	}

	changed := make([]*Loan, 0)
	for _, salary := range salaries {
		line, payments := ComputeLine(salary, loans)
		run.Lines = append(run.Lines, line)
		run.TotalGross = run.TotalGross.Add(line.Gross)
		run.TotalNet = run.TotalNet.Add(line.Net)

		for _, p := range payments {
			loan := byID[p.LoanId]
			loan.Balance = pkg.RoundMoney(loan.Balance.Sub(p.Amount))
			loan.settle()
			loan.UpdatedAt = run.CreatedAt
			changed = append(changed, loan)
		}
		run.LoanPayments = append(run.LoanPayments, payments...)
	}

	if err := s.Runs.Create(ctx, run, changed); err != nil {
		return nil, err
	}

	logger.Info().
		Str("period", period).
		Int("lines", len(run.Lines)).
		Str("total_net", run.TotalNet.StringFixed(2)).
		Msg("Folha de pagamento gerada")

	shared.Invalidate(ctx, s.Cache, shared.CollectionPayroll)
	return run, nil
}

func (s *Service) DeleteRun(ctx context.Context, id ulid.ULID) error {
	if err := s.Runs.Delete(ctx, id); err != nil {
		return err
	}
	shared.Invalidate(ctx, s.Cache, shared.CollectionPayroll)
	return nil
}

func (s *Service) GetRun(ctx context.Context, id ulid.ULID) (*PayrollRun, error) {
	return s.Runs.GetByID(ctx, id)
}

func (s *Service) RunExists(ctx context.Context, period string) (bool, error) {
	return s.Runs.ExistsForPeriod(ctx, period)
}

func (s *Service) ListRuns(ctx context.Context, pagination *pkg.PaginationParams) ([]*PayrollRun, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	key := shared.CacheKey("runs", fmt.Sprintf("p%d", pagination.Page), fmt.Sprintf("l%d", pagination.Limit))

	page, err := shared.Remember(ctx, s.Cache, []string{shared.CollectionPayroll}, key, func() (*RunPage, error) {
		items, total, err := s.Runs.List(ctx, pagination)
		if err != nil {
			return nil, err
		}
		return &RunPage{Items: items, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func buildSalary(in SalaryInput) (*Salary, error) {
	name := shared.NormalizeName(in.StaffName)
	if name == "" {
		return nil, appErrors.NewValidationError("staff_name", "é obrigatório")
	}
	if in.BaseSalary.IsNegative() || in.Allowances.IsNegative() || in.Deductions.IsNegative() {
		return nil, appErrors.NewValidationError("base_salary", "valores não podem ser negativos")
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := pkg.SetTimestamps()
	return &Salary{
		Id:         pkg.GenerateULIDObject(),
		StaffName:  name,
		Department: strings.TrimSpace(in.Department),
		BaseSalary: pkg.RoundMoney(in.BaseSalary),
		Allowances: pkg.RoundMoney(in.Allowances),
		Deductions: pkg.RoundMoney(in.Deductions),
		Active:     active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func buildLoan(in LoanInput) (*Loan, error) {
	name := shared.NormalizeName(in.StaffName)
	if name == "" {
		return nil, appErrors.NewValidationError("staff_name", "é obrigatório")
	}
	if !in.Principal.IsPositive() {
		return nil, appErrors.NewValidationError("principal", "deve ser maior que zero")
	}
	if !in.Installment.IsPositive() {
		return nil, appErrors.NewValidationError("installment", "deve ser maior que zero")
	}

	balance := in.Principal
	if in.Balance != nil {
		balance = *in.Balance
	}
	if balance.IsNegative() || balance.GreaterThan(in.Principal) {
		return nil, appErrors.NewValidationError("balance", "deve estar entre zero e o principal")
	}

	start := in.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	now := pkg.SetTimestamps()
	loan := &Loan{
		Id:          pkg.GenerateULIDObject(),
		StaffName:   name,
		Principal:   pkg.RoundMoney(in.Principal),
		Installment: pkg.RoundMoney(in.Installment),
		Balance:     pkg.RoundMoney(balance),
		StartDate:   pkg.StartOfDay(start),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	loan.settle()
	return loan, nil
}
