package infrastructure

import (
	"context"
	"time"

	"clinicdesk/internal/domain/payroll"
	"clinicdesk/internal/domain/shared"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"
	"clinicdesk/internal/pkg/query"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalaryRepository struct {
	DB *gorm.DB
}

type LoanRepository struct {
	DB *gorm.DB
}

type PayrollRunRepository struct {
	DB *gorm.DB
}

var (
	_ payroll.SalaryRepository = (*SalaryRepository)(nil)
	_ payroll.LoanRepository   = (*LoanRepository)(nil)
	_ payroll.RunRepository    = (*PayrollRunRepository)(nil)
)

type salaryDB struct {
	Id         string          `gorm:"type:varchar(26);primaryKey"`
	StaffName  string          `gorm:"size:120;not null;index"`
	Department string          `gorm:"size:80"`
	BaseSalary decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Allowances decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Deductions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Active     bool            `gorm:"not null;default:true;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (salaryDB) TableName() string {
	return "salaries"
}

type loanDB struct {
	Id          string          `gorm:"type:varchar(26);primaryKey"`
	StaffName   string          `gorm:"size:120;not null;index"`
	Principal   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Installment decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Balance     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	StartDate   time.Time       `gorm:"not null"`
	Status      string          `gorm:"type:varchar(10);not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (loanDB) TableName() string {
	return "loans"
}

type payrollRunDB struct {
	Id           string                `gorm:"type:varchar(26);primaryKey"`
	Period       string                `gorm:"type:varchar(7);uniqueIndex:idx_payroll_runs_period;not null"`
	Lines        []payroll.PayrollLine `gorm:"type:jsonb;serializer:json"`
	LoanPayments []payroll.LoanPayment `gorm:"type:jsonb;serializer:json"`
	TotalGross   decimal.Decimal       `gorm:"type:numeric(14,2);not null;default:0"`
	TotalNet     decimal.Decimal       `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt    time.Time
}

func (payrollRunDB) TableName() string {
	return "payroll_runs"
}

func toDomainSalary(sdb *salaryDB) (*payroll.Salary, error) {
	id, err := pkg.ParseULID(sdb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &payroll.Salary{
		Id:         id,
		StaffName:  sdb.StaffName,
		Department: sdb.Department,
		BaseSalary: sdb.BaseSalary,
		Allowances: sdb.Allowances,
		Deductions: sdb.Deductions,
		Active:     sdb.Active,
		CreatedAt:  sdb.CreatedAt,
		UpdatedAt:  sdb.UpdatedAt,
	}, nil
}

func toDBSalary(s *payroll.Salary) *salaryDB {
	return &salaryDB{
		Id:         s.Id.String(),
		StaffName:  s.StaffName,
		Department: s.Department,
		BaseSalary: s.BaseSalary,
		Allowances: s.Allowances,
		Deductions: s.Deductions,
		Active:     s.Active,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func toDomainLoan(ldb *loanDB) (*payroll.Loan, error) {
	id, err := pkg.ParseULID(ldb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	return &payroll.Loan{
		Id:          id,
		StaffName:   ldb.StaffName,
		Principal:   ldb.Principal,
		Installment: ldb.Installment,
		Balance:     ldb.Balance,
		StartDate:   ldb.StartDate,
		Status:      payroll.LoanStatus(ldb.Status),
		CreatedAt:   ldb.CreatedAt,
		UpdatedAt:   ldb.UpdatedAt,
	}, nil
}

func toDBLoan(l *payroll.Loan) *loanDB {
	return &loanDB{
		Id:          l.Id.String(),
		StaffName:   l.StaffName,
		Principal:   l.Principal,
		Installment: l.Installment,
		Balance:     l.Balance,
		StartDate:   l.StartDate,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toDomainPayrollRun(rdb *payrollRunDB) (*payroll.PayrollRun, error) {
	id, err := pkg.ParseULID(rdb.Id)
	if err != nil {
		return nil, appErrors.ErrInternalServer.WithError(err)
	}
	run := &payroll.PayrollRun{
		Id:           id,
		Period:       rdb.Period,
		Lines:        rdb.Lines,
		LoanPayments: rdb.LoanPayments,
		TotalGross:   rdb.TotalGross,
		TotalNet:     rdb.TotalNet,
		CreatedAt:    rdb.CreatedAt,
	}
	if run.Lines == nil {
		run.Lines = []payroll.PayrollLine{}
	}
	if run.LoanPayments == nil {
		run.LoanPayments = []payroll.LoanPayment{}
	}
	return run, nil
}

func (r *SalaryRepository) Create(ctx context.Context, s *payroll.Salary) error {
	if err := r.DB.WithContext(ctx).Table("salaries").Create(toDBSalary(s)).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *SalaryRepository) Update(ctx context.Context, s *payroll.Salary) error {
	row := toDBSalary(s)
	return updateAll(r.DB.WithContext(ctx), "salaries", row.Id, row, appErrors.ErrSalaryNotFound)
}

func (r *SalaryRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return deleteByID(ctx, r.DB, "salaries", id.String(), &salaryDB{}, appErrors.ErrSalaryNotFound)
}

func (r *SalaryRepository) GetByID(ctx context.Context, id ulid.ULID) (*payroll.Salary, error) {
	var row salaryDB
	if err := r.DB.WithContext(ctx).Table("salaries").Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, notFoundOr(err, appErrors.ErrSalaryNotFound)
	}
	return toDomainSalary(&row)
}

func (r *SalaryRepository) List(ctx context.Context, search string, pagination *pkg.PaginationParams) ([]*payroll.Salary, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("salaries")
	if search != "" {
		pattern := likePattern(search)
		baseQuery = baseQuery.Where("(LOWER(staff_name) LIKE ? OR LOWER(department) LIKE ?)", pattern, pattern)
	}

	items, total, err := pkg.Paginate(baseQuery, pagination, "staff_name ASC", toDomainSalary)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return items, total, nil
}

func (r *SalaryRepository) ListActive(ctx context.Context) ([]*payroll.Salary, error) {
	q := query.New[salaryDB](r.DB, "salaries").Context(ctx).Where("active = ?", true).Order("staff_name ASC")
	items, err := query.ExecuteAll(q, toDomainSalary)
	if err != nil {
		return nil, txError(err)
	}
	return items, nil
}

func (r *LoanRepository) Create(ctx context.Context, l *payroll.Loan) error {
	if err := r.DB.WithContext(ctx).Table("loans").Create(toDBLoan(l)).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *LoanRepository) Update(ctx context.Context, l *payroll.Loan) error {
	row := toDBLoan(l)
	return updateAll(r.DB.WithContext(ctx), "loans", row.Id, row, appErrors.ErrLoanNotFound)
}

func (r *LoanRepository) Delete(ctx context.Context, id ulid.ULID) error {
	return deleteByID(ctx, r.DB, "loans", id.String(), &loanDB{}, appErrors.ErrLoanNotFound)
}

func (r *LoanRepository) GetByID(ctx context.Context, id ulid.ULID) (*payroll.Loan, error) {
	var row loanDB
	if err := r.DB.WithContext(ctx).Table("loans").Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, notFoundOr(err, appErrors.ErrLoanNotFound)
	}
	return toDomainLoan(&row)
}

func (r *LoanRepository) List(ctx context.Context, filters *payroll.LoanFilters, pagination *pkg.PaginationParams) ([]*payroll.Loan, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("loans")
	if filters != nil {
		if filters.StaffName != "" {
			baseQuery = baseQuery.Where("LOWER(staff_name) LIKE ?", likePattern(filters.StaffName))
		}
		if filters.Status != "" {
			baseQuery = baseQuery.Where("status = ?", string(filters.Status))
		}
	}

	items, total, err := pkg.Paginate(baseQuery, pagination, "start_date DESC, id DESC", toDomainLoan)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return items, total, nil
}

func (r *LoanRepository) ListActive(ctx context.Context) ([]*payroll.Loan, error) {
	q := query.New[loanDB](r.DB, "loans").
		Context(ctx).
		Where("status = ? AND balance > 0", string(payroll.LoanActive)).
		Order("start_date ASC, id ASC")
	items, err := query.ExecuteAll(q, toDomainLoan)
	if err != nil {
		return nil, txError(err)
	}
	return items, nil
}

// Create grava a folha e os saldos abatidos; um período repetido vira conflito.
func (r *PayrollRunRepository) Create(ctx context.Context, run *payroll.PayrollRun, loans []*payroll.Loan) error {
	row := &payrollRunDB{
		Id:           run.Id.String(),
		Period:       run.Period,
		Lines:        run.Lines,
		LoanPayments: run.LoanPayments,
		TotalGross:   run.TotalGross,
		TotalNet:     run.TotalNet,
		CreatedAt:    run.CreatedAt,
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("payroll_runs").Create(row).Error; err != nil {
			if shared.IsUniqueConstraintError(err) {
				return appErrors.ErrPayrollRunExists.WithError(err)
			}
			return err
		}
		for _, loan := range loans {
			if err := tx.Table("loans").
				Where("id = ?", loan.Id.String()).
				Updates(map[string]interface{}{
					"balance":    loan.Balance,
					"status":     string(loan.Status),
					"updated_at": loan.UpdatedAt,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return txError(err)
}

// Delete remove a folha e devolve a cada empréstimo o valor abatido.
func (r *PayrollRunRepository) Delete(ctx context.Context, id ulid.ULID) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row payrollRunDB
		if err := tx.Table("payroll_runs").Where("id = ?", id.String()).First(&row).Error; err != nil {
			return notFoundOr(err, appErrors.ErrPayrollRunNotFound)
		}

		now := time.Now()
		for _, p := range row.LoanPayments {
			if err := tx.Table("loans").
				Where("id = ?", p.LoanId.String()).
				Updates(map[string]interface{}{
					"balance":    gorm.Expr("balance + ?", p.Amount),
					"status":     string(payroll.LoanActive),
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		return tx.Table("payroll_runs").Where("id = ?", row.Id).Delete(&payrollRunDB{}).Error
	})
	return txError(err)
}

func (r *PayrollRunRepository) GetByID(ctx context.Context, id ulid.ULID) (*payroll.PayrollRun, error) {
	var row payrollRunDB
	if err := r.DB.WithContext(ctx).Table("payroll_runs").Where("id = ?", id.String()).First(&row).Error; err != nil {
		return nil, notFoundOr(err, appErrors.ErrPayrollRunNotFound)
	}
	return toDomainPayrollRun(&row)
}

func (r *PayrollRunRepository) ExistsForPeriod(ctx context.Context, period string) (bool, error) {
	exists, err := query.New[payrollRunDB](r.DB, "payroll_runs").
		Context(ctx).
		Where("period = ?", period).
		Exists()
	if err != nil {
		return false, appErrors.NewDatabaseError(err)
	}
	return exists, nil
}

func (r *PayrollRunRepository) List(ctx context.Context, pagination *pkg.PaginationParams) ([]*payroll.PayrollRun, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("payroll_runs")
	items, total, err := pkg.Paginate(baseQuery, pagination, "period DESC", toDomainPayrollRun)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return items, total, nil
}
