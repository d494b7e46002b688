package investment_test

import (
	"context"
	"testing"

	"clinicdesk/internal/domain/investment"
	"clinicdesk/internal/pkg"
	"clinicdesk/internal/pkg/sheet"

	"github.com/oklog/ulid/v2"
)

func investmentWithInvestor(title string) (*investment.Investment, ulid.ULID) {
	aliceID := pkg.GenerateULIDObject()
	inv := newInvestment(title, "1000", investment.ShareInput{
		InvestorId:      &aliceID,
		Name:            "Alice",
		SharePercentage: dec("100"),
	})
	return inv, aliceID
}

func TestContributionCreateStampsInvestorID(t *testing.T) {
	t.Parallel()

	inv, aliceID := investmentWithInvestor("Raio-X")
	investments := &fakeInvestmentRepository{
		getByIDFn: func(context.Context, ulid.ULID) (*investment.Investment, error) {
			return inv, nil
		},
	}
	cache := &recordingCache{}
	svc := investment.NewContributionService(&fakeContributionRepository{}, investments, cache)

	c, err := svc.Create(context.Background(), investment.ContributionInput{
		InvestmentId: inv.Id,
		InvestorName: " Alice ",
		Amount:       dec("250.555"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.InvestorId == nil || *c.InvestorId != aliceID {
		t.Fatalf("expected investor id stamped, got %v", c.InvestorId)
	}
	if !c.Amount.Equal(dec("250.56")) {
		t.Fatalf("expected rounded amount, got %s", c.Amount)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "contributions" {
		t.Fatalf("expected contributions invalidated, got %v", cache.invalidated)
	}
}

func TestContributionCreateValidation(t *testing.T) {
	t.Parallel()

	inv, _ := investmentWithInvestor("Raio-X")
	investments := &fakeInvestmentRepository{
		getByIDFn: func(context.Context, ulid.ULID) (*investment.Investment, error) {
			return inv, nil
		},
	}
	repo := &fakeContributionRepository{
		createFn: func(context.Context, *investment.Contribution) error {
			t.Fatalf("create must not be called")
			return nil
		},
	}
	svc := investment.NewContributionService(repo, investments, nil)

	_, err := svc.Create(context.Background(), investment.ContributionInput{InvestmentId: inv.Id, InvestorName: "Alice", Amount: dec("0")})
	requireCode(t, err, "VALIDATION_ERROR")

	_, err = svc.Create(context.Background(), investment.ContributionInput{InvestmentId: inv.Id, InvestorName: "  ", Amount: dec("10")})
	requireCode(t, err, "VALIDATION_ERROR")
}

func TestContributionCreateUnknownInvestment(t *testing.T) {
	t.Parallel()

	svc := investment.NewContributionService(&fakeContributionRepository{}, &fakeInvestmentRepository{}, nil)
	_, err := svc.Create(context.Background(), investment.ContributionInput{
		InvestmentId: pkg.GenerateULIDObject(),
		InvestorName: "Alice",
		Amount:       dec("10"),
	})
	requireCode(t, err, "INVESTMENT_NOT_FOUND")
}

func TestContributionImportCSV(t *testing.T) {
	t.Parallel()

	inv, aliceID := investmentWithInvestor("Raio-X")
	investments := &fakeInvestmentRepository{
		listAllFn: func(context.Context) ([]*investment.Investment, error) {
			return []*investment.Investment{inv}, nil
		},
	}

	var created []*investment.Contribution
	repo := &fakeContributionRepository{
		createManyFn: func(_ context.Context, cs []*investment.Contribution) error {
			created = cs
			return nil
		},
	}
	svc := investment.NewContributionService(repo, investments, nil)

	data := []byte("Investment,Investor Name,Amount,Date\n" +
		"raio-x,Alice,\"1,200.50\",2024-02-01\n" +
		"Tomografia,Alice,10,2024-02-01\n" +
		"Raio-X,Bob,abc,\n" +
		inv.Id.String() + ",Bob,30,01/03/2024\n")

	result, err := svc.Import(context.Background(), "contributions.csv", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 2 || len(created) != 2 {
		t.Fatalf("expected 2 created, got %d (%d persisted)", result.Created, len(created))
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %+v", result.Errors)
	}
	if result.Errors[0].Line != 3 || result.Errors[1].Line != 4 {
		t.Fatalf("unexpected error lines: %+v", result.Errors)
	}
	if !created[0].Amount.Equal(dec("1200.5")) || created[0].InvestorId == nil || *created[0].InvestorId != aliceID {
		t.Fatalf("unexpected first contribution: %+v", created[0])
	}
	if created[1].Date.Month() != 3 || created[1].Date.Day() != 1 {
		t.Fatalf("expected day-first date, got %s", created[1].Date)
	}
}

func TestContributionImportRejectsMissingColumns(t *testing.T) {
	t.Parallel()

	svc := investment.NewContributionService(&fakeContributionRepository{}, &fakeInvestmentRepository{}, nil)
	_, err := svc.Import(context.Background(), "c.csv", []byte("Investor Name,Amount\nAlice,10\n"))
	requireCode(t, err, "VALIDATION_ERROR")

	_, err = svc.Import(context.Background(), "c.pdf", []byte("%PDF"))
	requireCode(t, err, "UNSUPPORTED_FILE_TYPE")
}

func TestContributionExport(t *testing.T) {
	t.Parallel()

	inv, _ := investmentWithInvestor("Raio-X")
	investments := &fakeInvestmentRepository{
		listAllFn: func(context.Context) ([]*investment.Investment, error) {
			return []*investment.Investment{inv}, nil
		},
	}
	repo := &fakeContributionRepository{
		listAllFn: func(context.Context, *investment.ContributionFilters) ([]*investment.Contribution, error) {
			return []*investment.Contribution{contribution(inv, "Alice", "99.5")}, nil
		},
	}
	svc := investment.NewContributionService(repo, investments, nil)

	data, err := svc.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := sheet.ReadRows("export.xlsx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and one row, got %d", len(rows))
	}
	if rows[1][0] != "Raio-X" || rows[1][2] != "99.50" {
		t.Fatalf("unexpected exported row: %v", rows[1])
	}
}

func TestContributionSampleTemplate(t *testing.T) {
	t.Parallel()

	svc := investment.NewContributionService(&fakeContributionRepository{}, &fakeInvestmentRepository{}, nil)
	data, err := svc.SampleTemplate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := sheet.ReadRows("template.xlsx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sheet.RequireColumns(rows, "investment", "investor_name", "amount"); err != nil {
		t.Fatalf("template misses required columns: %v", err)
	}
}
