package payroll_test

import (
	"context"
	"testing"

	"clinicdesk/internal/domain/payroll"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type fakeSalaryRepository struct {
	createFn     func(ctx context.Context, s *payroll.Salary) error
	updateFn     func(ctx context.Context, s *payroll.Salary) error
	getByIDFn    func(ctx context.Context, id ulid.ULID) (*payroll.Salary, error)
	listActiveFn func(ctx context.Context) ([]*payroll.Salary, error)
}

func (f *fakeSalaryRepository) Create(ctx context.Context, s *payroll.Salary) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeSalaryRepository) Update(ctx context.Context, s *payroll.Salary) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, s)
	}
	return nil
}

func (f *fakeSalaryRepository) Delete(context.Context, ulid.ULID) error {
	return nil
}

func (f *fakeSalaryRepository) GetByID(ctx context.Context, id ulid.ULID) (*payroll.Salary, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, appErrors.ErrSalaryNotFound
}

func (f *fakeSalaryRepository) List(context.Context, string, *pkg.PaginationParams) ([]*payroll.Salary, int64, error) {
	return nil, 0, nil
}

func (f *fakeSalaryRepository) ListActive(ctx context.Context) ([]*payroll.Salary, error) {
	if f.listActiveFn != nil {
		return f.listActiveFn(ctx)
	}
	return nil, nil
}

type fakeLoanRepository struct {
	getByIDFn    func(ctx context.Context, id ulid.ULID) (*payroll.Loan, error)
	updateFn     func(ctx context.Context, l *payroll.Loan) error
	listActiveFn func(ctx context.Context) ([]*payroll.Loan, error)
}

func (f *fakeLoanRepository) Create(context.Context, *payroll.Loan) error {
	return nil
}

func (f *fakeLoanRepository) Update(ctx context.Context, l *payroll.Loan) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLoanRepository) Delete(context.Context, ulid.ULID) error {
	return nil
}

func (f *fakeLoanRepository) GetByID(ctx context.Context, id ulid.ULID) (*payroll.Loan, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, appErrors.ErrLoanNotFound
}

func (f *fakeLoanRepository) List(context.Context, *payroll.LoanFilters, *pkg.PaginationParams) ([]*payroll.Loan, int64, error) {
	return nil, 0, nil
}

func (f *fakeLoanRepository) ListActive(ctx context.Context) ([]*payroll.Loan, error) {
	if f.listActiveFn != nil {
		return f.listActiveFn(ctx)
	}
	return nil, nil
}

type fakeRunRepository struct {
	createFn func(ctx context.Context, run *payroll.PayrollRun, loans []*payroll.Loan) error
	existsFn func(ctx context.Context, period string) (bool, error)
}

func (f *fakeRunRepository) Create(ctx context.Context, run *payroll.PayrollRun, loans []*payroll.Loan) error {
	if f.createFn != nil {
		return f.createFn(ctx, run, loans)
	}
	return nil
}

func (f *fakeRunRepository) Delete(context.Context, ulid.ULID) error {
	return nil
}

func (f *fakeRunRepository) GetByID(context.Context, ulid.ULID) (*payroll.PayrollRun, error) {
	return nil, appErrors.ErrPayrollRunNotFound
}

func (f *fakeRunRepository) ExistsForPeriod(ctx context.Context, period string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, period)
	}
	return false, nil
}

func (f *fakeRunRepository) List(context.Context, *pkg.PaginationParams) ([]*payroll.PayrollRun, int64, error) {
	return nil, 0, nil
}

func TestCreateRun(t *testing.T) {
	t.Parallel()

	loan := &payroll.Loan{Id: pkg.GenerateULIDObject(), StaffName: "Bruno Lima", Principal: dec("300"), Installment: dec("200"), Balance: dec("150"), Status: payroll.LoanActive}
	salaries := &fakeSalaryRepository{
		listActiveFn: func(context.Context) ([]*payroll.Salary, error) {
			return []*payroll.Salary{
				{Id: pkg.GenerateULIDObject(), StaffName: "Carla", BaseSalary: dec("900"), Active: true},
				{Id: pkg.GenerateULIDObject(), StaffName: "Bruno Lima", BaseSalary: dec("1000"), Allowances: dec("100"), Active: true},
			}, nil
		},
	}
	loans := &fakeLoanRepository{
		listActiveFn: func(context.Context) ([]*payroll.Loan, error) { return []*payroll.Loan{loan}, nil },
	}

	var savedLoans []*payroll.Loan
	runs := &fakeRunRepository{
		createFn: func(_ context.Context, _ *payroll.PayrollRun, changed []*payroll.Loan) error {
			savedLoans = changed
			return nil
		},
	}
	svc := payroll.NewService(salaries, loans, runs, nil)

	run, err := svc.CreateRun(context.Background(), "2024-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Lines) != 2 || run.Lines[0].StaffName != "Bruno Lima" {
		t.Fatalf("expected lines sorted by staff name, got %+v", run.Lines)
	}
	if !run.TotalGross.Equal(dec("2000")) || !run.TotalNet.Equal(dec("1850")) {
		t.Fatalf("unexpected totals: gross %s net %s", run.TotalGross, run.TotalNet)
	}
	if len(run.LoanPayments) != 1 || !run.LoanPayments[0].Amount.Equal(dec("150")) {
		t.Fatalf("unexpected loan payments: %+v", run.LoanPayments)
	}
	if len(savedLoans) != 1 || !savedLoans[0].Balance.IsZero() || savedLoans[0].Status != payroll.LoanSettled {
		t.Fatalf("expected loan settled, got %+v", savedLoans)
	}
}

func TestCreateRunRejectsDuplicatesAndBadPeriods(t *testing.T) {
	t.Parallel()

	runs := &fakeRunRepository{
		existsFn: func(_ context.Context, period string) (bool, error) { return period == "2024-05", nil },
	}
	svc := payroll.NewService(&fakeSalaryRepository{}, &fakeLoanRepository{}, runs, nil)

	_, err := svc.CreateRun(context.Background(), "2024-05")
	if appErr, ok := appErrors.AsAppError(err); !ok || appErr.Code != appErrors.ErrPayrollRunExists.Code {
		t.Fatalf("expected PAYROLL_RUN_EXISTS, got %v", err)
	}

	for _, period := range []string{"", "2024-13", "05/2024"} {
		_, err := svc.CreateRun(context.Background(), period)
		if appErr, ok := appErrors.AsAppError(err); !ok || appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("period %q: expected validation error, got %v", period, err)
		}
	}
}

func TestUpdateLoanKeepsPaidAmount(t *testing.T) {
	t.Parallel()

	existing := &payroll.Loan{Id: pkg.GenerateULIDObject(), StaffName: "Bruno", Principal: dec("1000"), Installment: dec("100"), Balance: dec("700"), Status: payroll.LoanActive}
	loans := &fakeLoanRepository{
		getByIDFn: func(context.Context, ulid.ULID) (*payroll.Loan, error) { return existing, nil },
	}
	svc := payroll.NewService(&fakeSalaryRepository{}, loans, &fakeRunRepository{}, nil)

	loan, err := svc.UpdateLoan(context.Background(), existing.Id, payroll.LoanInput{
		StaffName: "Bruno", Principal: dec("1200"), Installment: dec("100"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !loan.Balance.Equal(dec("900")) || loan.Status != payroll.LoanActive {
		t.Fatalf("expected balance 900 active, got %s %s", loan.Balance, loan.Status)
	}
}

func TestCreateSalaryValidation(t *testing.T) {
	t.Parallel()

	svc := payroll.NewService(&fakeSalaryRepository{}, &fakeLoanRepository{}, &fakeRunRepository{}, nil)

	if _, err := svc.CreateSalary(context.Background(), payroll.SalaryInput{StaffName: " "}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := svc.CreateSalary(context.Background(), payroll.SalaryInput{StaffName: "Ana", BaseSalary: dec("-1")}); err == nil {
		t.Fatalf("expected error for negative salary")
	}

	salary, err := svc.CreateSalary(context.Background(), payroll.SalaryInput{StaffName: "ana souza", BaseSalary: dec("1000")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if salary.StaffName != "Ana Souza" || !salary.Active {
		t.Fatalf("unexpected salary: %+v", salary)
	}
}
