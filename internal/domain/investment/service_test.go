package investment_test

import (
	"context"
	"errors"
	"testing"

	"clinicdesk/internal/domain/investment"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type fakeInvestmentRepository struct {
	createFn     func(ctx context.Context, inv *investment.Investment) error
	updateFn     func(ctx context.Context, inv *investment.Investment) error
	updateManyFn func(ctx context.Context, invs []*investment.Investment) error
	deleteFn     func(ctx context.Context, id ulid.ULID) error
	bulkDeleteFn func(ctx context.Context, ids []ulid.ULID) (int64, error)
	getByIDFn    func(ctx context.Context, id ulid.ULID) (*investment.Investment, error)
	listFn       func(ctx context.Context, filters *investment.Filters, pagination *pkg.PaginationParams) ([]*investment.Investment, int64, error)
	listAllFn    func(ctx context.Context) ([]*investment.Investment, error)
}

func (f *fakeInvestmentRepository) Create(ctx context.Context, inv *investment.Investment) error {
	if f.createFn != nil {
		return f.createFn(ctx, inv)
	}
	return nil
}

func (f *fakeInvestmentRepository) Update(ctx context.Context, inv *investment.Investment) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, inv)
	}
	return nil
}

func (f *fakeInvestmentRepository) UpdateMany(ctx context.Context, invs []*investment.Investment) error {
	if f.updateManyFn != nil {
		return f.updateManyFn(ctx, invs)
	}
	return nil
}

func (f *fakeInvestmentRepository) Delete(ctx context.Context, id ulid.ULID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeInvestmentRepository) BulkDelete(ctx context.Context, ids []ulid.ULID) (int64, error) {
	if f.bulkDeleteFn != nil {
		return f.bulkDeleteFn(ctx, ids)
	}
	return int64(len(ids)), nil
}

func (f *fakeInvestmentRepository) GetByID(ctx context.Context, id ulid.ULID) (*investment.Investment, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, appErrors.ErrInvestmentNotFound
}

func (f *fakeInvestmentRepository) List(ctx context.Context, filters *investment.Filters, pagination *pkg.PaginationParams) ([]*investment.Investment, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filters, pagination)
	}
	return nil, 0, nil
}

func (f *fakeInvestmentRepository) ListAll(ctx context.Context) ([]*investment.Investment, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}
	return nil, nil
}

type fakeContributionRepository struct {
	createFn     func(ctx context.Context, c *investment.Contribution) error
	createManyFn func(ctx context.Context, cs []*investment.Contribution) error
	updateFn     func(ctx context.Context, c *investment.Contribution) error
	deleteFn     func(ctx context.Context, id ulid.ULID) error
	getByIDFn    func(ctx context.Context, id ulid.ULID) (*investment.Contribution, error)
	listFn       func(ctx context.Context, filters *investment.ContributionFilters, pagination *pkg.PaginationParams) ([]*investment.Contribution, int64, error)
	listAllFn    func(ctx context.Context, filters *investment.ContributionFilters) ([]*investment.Contribution, error)
}

func (f *fakeContributionRepository) Create(ctx context.Context, c *investment.Contribution) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeContributionRepository) CreateMany(ctx context.Context, cs []*investment.Contribution) error {
	if f.createManyFn != nil {
		return f.createManyFn(ctx, cs)
	}
	return nil
}

func (f *fakeContributionRepository) Update(ctx context.Context, c *investment.Contribution) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return nil
}

func (f *fakeContributionRepository) Delete(ctx context.Context, id ulid.ULID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeContributionRepository) GetByID(ctx context.Context, id ulid.ULID) (*investment.Contribution, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, appErrors.ErrContributionNotFound
}

func (f *fakeContributionRepository) List(ctx context.Context, filters *investment.ContributionFilters, pagination *pkg.PaginationParams) ([]*investment.Contribution, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filters, pagination)
	}
	return nil, 0, nil
}

func (f *fakeContributionRepository) ListAll(ctx context.Context, filters *investment.ContributionFilters) ([]*investment.Contribution, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx, filters)
	}
	return nil, nil
}

type recordingCache struct {
	invalidated []string
}

func (r *recordingCache) Get(context.Context, []string, string, interface{}) (string, bool) {
	return "", false
}

func (r *recordingCache) Set(context.Context, string, interface{}) {}

func (r *recordingCache) Invalidate(_ context.Context, collections ...string) {
	r.invalidated = append(r.invalidated, collections...)
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := appErrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected app error %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code)
	}
}

func TestServiceCreateInvestmentNormalizesShares(t *testing.T) {
	t.Parallel()

	var stored *investment.Investment
	repo := &fakeInvestmentRepository{
		createFn: func(_ context.Context, inv *investment.Investment) error {
			stored = inv
			return nil
		},
	}
	cache := &recordingCache{}
	svc := investment.NewService(repo, &fakeContributionRepository{}, cache, nil)

	inv, err := svc.CreateInvestment(context.Background(), investment.CreateInput{
		Title:  "  Ultrassom ",
		Amount: dec("1000"),
		Shares: shares("Alice", "3", "Bob", "2"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != inv {
		t.Fatalf("expected entity to be persisted")
	}
	if inv.Title != "Ultrassom" || inv.Status != investment.StatusActive {
		t.Fatalf("unexpected entity: %+v", inv)
	}
	if !inv.Shares[0].SharePercentage.Equal(dec("60")) || !inv.Shares[1].Amount.Equal(dec("400")) {
		t.Fatalf("shares not normalized: %+v", inv.Shares)
	}
	if inv.Shares[0].Id == (ulid.ULID{}) {
		t.Fatalf("expected share ids to be assigned")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "investments" {
		t.Fatalf("expected investments invalidation, got %v", cache.invalidated)
	}
}

func TestServiceCreateInvestmentLegacyInvestorName(t *testing.T) {
	t.Parallel()

	svc := investment.NewService(&fakeInvestmentRepository{}, &fakeContributionRepository{}, nil, nil)
	inv, err := svc.CreateInvestment(context.Background(), investment.CreateInput{
		Title:        "Sala",
		Amount:       dec("250"),
		InvestorName: "Dr. Lima",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inv.Shares) != 1 || !inv.Shares[0].SharePercentage.Equal(dec("100")) || !inv.Shares[0].Amount.Equal(dec("250")) {
		t.Fatalf("expected single 100%% share, got %+v", inv.Shares)
	}
}

func TestServiceCreateInvestmentValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input investment.CreateInput
	}{
		{name: "missing title", input: investment.CreateInput{Amount: dec("10")}},
		{name: "zero amount", input: investment.CreateInput{Title: "X", Amount: decimal.Zero}},
		{name: "negative amount", input: investment.CreateInput{Title: "X", Amount: dec("-5")}},
		{name: "bad status", input: investment.CreateInput{Title: "X", Amount: dec("5"), Status: "PAUSED"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &fakeInvestmentRepository{
				createFn: func(context.Context, *investment.Investment) error {
					t.Fatalf("create must not be called on invalid input")
					return nil
				},
			}
			svc := investment.NewService(repo, &fakeContributionRepository{}, nil, nil)
			_, err := svc.CreateInvestment(context.Background(), tt.input)
			requireCode(t, err, "VALIDATION_ERROR")
		})
	}
}

func TestServiceUpdateInvestmentRenormalizesOnRemoval(t *testing.T) {
	t.Parallel()

	existing := newInvestment("Raio-X", "1000", shares("Alice", "60", "Bob", "40")...)
	repo := &fakeInvestmentRepository{
		getByIDFn: func(context.Context, ulid.ULID) (*investment.Investment, error) {
			return existing, nil
		},
	}
	svc := investment.NewService(repo, &fakeContributionRepository{}, nil, nil)

	remaining := shares("Alice", "60")
	inv, err := svc.UpdateInvestment(context.Background(), existing.Id, investment.UpdateInput{Shares: &remaining})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inv.Shares) != 1 {
		t.Fatalf("expected 1 share, got %d", len(inv.Shares))
	}
	if !inv.Shares[0].SharePercentage.Equal(dec("100")) || inv.Shares[0].Amount.StringFixed(2) != "1000.00" {
		t.Fatalf("unexpected share: %+v", inv.Shares[0])
	}
}

func TestServiceUpdateInvestmentAmountRescalesShares(t *testing.T) {
	t.Parallel()

	existing := newInvestment("Raio-X", "1000", shares("Alice", "60", "Bob", "40")...)
	repo := &fakeInvestmentRepository{
		getByIDFn: func(context.Context, ulid.ULID) (*investment.Investment, error) {
			return existing, nil
		},
	}
	svc := investment.NewService(repo, &fakeContributionRepository{}, nil, nil)

	amount := dec("2000")
	inv, err := svc.UpdateInvestment(context.Background(), existing.Id, investment.UpdateInput{Amount: &amount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inv.Shares[0].Amount.Equal(dec("1200")) || !inv.Shares[1].Amount.Equal(dec("800")) {
		t.Fatalf("expected shares rescaled, got %+v", inv.Shares)
	}
}

func TestServiceUpdateInvestmentNotFound(t *testing.T) {
	t.Parallel()

	svc := investment.NewService(&fakeInvestmentRepository{}, &fakeContributionRepository{}, nil, nil)
	_, err := svc.UpdateInvestment(context.Background(), pkg.GenerateULIDObject(), investment.UpdateInput{})
	requireCode(t, err, "INVESTMENT_NOT_FOUND")
}

func TestServiceBulkDelete(t *testing.T) {
	t.Parallel()

	cache := &recordingCache{}
	svc := investment.NewService(&fakeInvestmentRepository{}, &fakeContributionRepository{}, cache, nil)

	if _, err := svc.BulkDelete(context.Background(), nil); err == nil {
		t.Fatalf("expected validation error for empty ids")
	}

	deleted, err := svc.BulkDelete(context.Background(), []ulid.ULID{pkg.GenerateULIDObject(), pkg.GenerateULIDObject()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}
	if len(cache.invalidated) != 2 {
		t.Fatalf("expected investments and contributions invalidated, got %v", cache.invalidated)
	}
}

func TestServiceRecapitalize(t *testing.T) {
	t.Parallel()

	a := newInvestment("A", "100", shares("Alice", "1", "Bob", "1", "Carol", "1")...)
	b := newInvestment("B", "200", shares("Dan", "1")...)

	var saved []*investment.Investment
	repo := &fakeInvestmentRepository{
		listAllFn: func(context.Context) ([]*investment.Investment, error) {
			return []*investment.Investment{a, b}, nil
		},
		updateManyFn: func(_ context.Context, invs []*investment.Investment) error {
			saved = invs
			return nil
		},
	}
	svc := investment.NewService(repo, &fakeContributionRepository{}, nil, nil)

	got, err := svc.Recapitalize(context.Background(), dec("1000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected a single batch with both investments, got %d", len(saved))
	}

	total := got[0].Amount.Add(got[1].Amount)
	if !total.Equal(dec("1000")) {
		t.Fatalf("expected amounts to sum to 1000, got %s", total)
	}
	if !got[0].Amount.Equal(dec("333.33")) || !got[1].Amount.Equal(dec("666.67")) {
		t.Fatalf("unexpected amounts: %s / %s", got[0].Amount, got[1].Amount)
	}
	if !got[1].Shares[0].Amount.Equal(dec("666.67")) {
		t.Fatalf("expected shares renormalized, got %+v", got[1].Shares)
	}
}

func TestServiceRecapitalizeFailureIsAllOrNothing(t *testing.T) {
	t.Parallel()

	a := newInvestment("A", "100", shares("Alice", "1")...)
	repo := &fakeInvestmentRepository{
		listAllFn: func(context.Context) ([]*investment.Investment, error) {
			return []*investment.Investment{a}, nil
		},
		updateManyFn: func(context.Context, []*investment.Investment) error {
			return appErrors.NewDatabaseError(errors.New("tx aborted"))
		},
	}
	cache := &recordingCache{}
	svc := investment.NewService(repo, &fakeContributionRepository{}, cache, nil)

	_, err := svc.Recapitalize(context.Background(), dec("500"))
	requireCode(t, err, "DATABASE_ERROR")
	if len(cache.invalidated) != 0 {
		t.Fatalf("cache must not be invalidated on failure")
	}
}

func TestServiceRecapitalizeValidation(t *testing.T) {
	t.Parallel()

	svc := investment.NewService(&fakeInvestmentRepository{}, &fakeContributionRepository{}, nil, nil)
	_, err := svc.Recapitalize(context.Background(), decimal.Zero)
	requireCode(t, err, "VALIDATION_ERROR")

	_, err = svc.Recapitalize(context.Background(), dec("100"))
	requireCode(t, err, "VALIDATION_ERROR")
}

func TestServiceLedger(t *testing.T) {
	t.Parallel()

	inv := newInvestment("Raio-X", "1000", shares("Alice", "100")...)
	repo := &fakeInvestmentRepository{
		getByIDFn: func(context.Context, ulid.ULID) (*investment.Investment, error) {
			return inv, nil
		},
	}
	contributions := &fakeContributionRepository{
		listAllFn: func(_ context.Context, filters *investment.ContributionFilters) ([]*investment.Contribution, error) {
			if filters.InvestmentId == nil || *filters.InvestmentId != inv.Id {
				t.Fatalf("expected contributions filtered by investment")
			}
			return []*investment.Contribution{contribution(inv, "Alice", "700"), contribution(inv, "Alice", "500")}, nil
		},
	}
	svc := investment.NewService(repo, contributions, nil, nil)

	ledger, err := svc.Ledger(context.Background(), &inv.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ledger.Rows) != 1 || !ledger.Rows[0].Overpaid.Equal(dec("200")) {
		t.Fatalf("unexpected ledger: %+v", ledger.Rows)
	}
	if !ledger.Summary.TotalPaid.Equal(dec("1200")) {
		t.Fatalf("unexpected summary: %+v", ledger.Summary)
	}
}

func TestServicePreviewUsesConfiguredApportioner(t *testing.T) {
	t.Parallel()

	svc := investment.NewService(&fakeInvestmentRepository{}, &fakeContributionRepository{}, nil, investment.Apportion)
	got := svc.Preview(dec("100"), shares("A", "1", "B", "1", "C", "1"))
	pct, amount := investment.SumShares(got)
	if !pct.Equal(dec("100")) || !amount.Equal(dec("100")) {
		t.Fatalf("expected exact partition, got pct=%s amount=%s", pct, amount)
	}
}
