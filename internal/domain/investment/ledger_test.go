package investment_test

import (
	"testing"

	"clinicdesk/internal/domain/investment"
	"clinicdesk/internal/pkg"
)

func newInvestment(title, amount string, entries ...investment.ShareInput) *investment.Investment {
	inv := &investment.Investment{
		Id:     pkg.GenerateULIDObject(),
		Title:  title,
		Amount: dec(amount),
	}
	inv.Shares = investment.Normalize(inv.Amount, entries)
	return inv
}

func contribution(inv *investment.Investment, name, amount string) *investment.Contribution {
	return &investment.Contribution{
		Id:           pkg.GenerateULIDObject(),
		InvestmentId: inv.Id,
		InvestorName: name,
		Amount:       dec(amount),
	}
}

func TestReconcileOverpaid(t *testing.T) {
	t.Parallel()

	inv := newInvestment("Raio-X", "1000", shares("Alice", "100")...)
	rows := investment.Reconcile(
		[]*investment.Investment{inv},
		[]*investment.Contribution{contribution(inv, "Alice", "700"), contribution(inv, "Alice", "500")},
	)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if !r.Paid.Equal(dec("1200")) || !r.Due.IsZero() || !r.Overpaid.Equal(dec("200")) {
		t.Fatalf("unexpected row: paid=%s due=%s overpaid=%s", r.Paid, r.Due, r.Overpaid)
	}
	if r.Status != investment.LedgerOverpaid {
		t.Fatalf("expected OVERPAID, got %s", r.Status)
	}
	if r.PaidPct != 100 {
		t.Fatalf("expected paidPct capped at 100, got %d", r.PaidPct)
	}
}

func TestReconcileStatuses(t *testing.T) {
	t.Parallel()

	inv := newInvestment("Laboratório", "1000", shares("Alice", "60", "Bob", "40")...)
	rows := investment.Reconcile(
		[]*investment.Investment{inv},
		[]*investment.Contribution{contribution(inv, "Alice", "600"), contribution(inv, "Bob", "100")},
	)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Status != investment.LedgerFullyPaid || rows[0].PaidPct != 100 {
		t.Fatalf("expected Alice fully paid, got %+v", rows[0])
	}
	if rows[1].Status != investment.LedgerDue || !rows[1].Due.Equal(dec("300")) || rows[1].PaidPct != 25 {
		t.Fatalf("expected Bob due 300 at 25%%, got %+v", rows[1])
	}

	for _, r := range rows {
		if !r.Due.IsZero() && !r.Overpaid.IsZero() {
			t.Fatalf("due and overpaid both set: %+v", r)
		}
	}
}

func TestReconcileSyntheticRow(t *testing.T) {
	t.Parallel()

	inv := newInvestment("Farmácia", "500", shares("Alice", "100")...)
	rows := investment.Reconcile(
		[]*investment.Investment{inv},
		[]*investment.Contribution{contribution(inv, "Carol", "50"), contribution(inv, "Carol", "25")},
	)

	if len(rows) != 2 {
		t.Fatalf("expected synthetic row, got %d rows", len(rows))
	}
	syn := rows[1]
	if !syn.Synthetic || syn.InvestorName != "Carol" {
		t.Fatalf("unexpected synthetic row: %+v", syn)
	}
	if !syn.ShareAmount.IsZero() || !syn.Paid.Equal(dec("75")) || !syn.Overpaid.Equal(dec("75")) {
		t.Fatalf("unexpected synthetic values: %+v", syn)
	}
	if syn.PaidPct != 0 {
		t.Fatalf("expected paidPct 0 for zero share, got %d", syn.PaidPct)
	}
}

func TestReconcileMatchesByInvestorID(t *testing.T) {
	t.Parallel()

	aliceID := pkg.GenerateULIDObject()
	inv := newInvestment("Consultório", "1000", investment.ShareInput{
		InvestorId:      &aliceID,
		Name:            "Alice Souza",
		SharePercentage: dec("100"),
	})

	renamed := contribution(inv, "Alice", "400")
	renamed.InvestorId = &aliceID

	otherID := pkg.GenerateULIDObject()
	sameNameOtherInvestor := contribution(inv, "Alice Souza", "10")
	sameNameOtherInvestor.InvestorId = &otherID

	rows := investment.Reconcile([]*investment.Investment{inv}, []*investment.Contribution{renamed, sameNameOtherInvestor})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Paid.Equal(dec("400")) {
		t.Fatalf("expected id match despite label drift, got paid %s", rows[0].Paid)
	}
	if !rows[1].Synthetic || !rows[1].Paid.Equal(dec("10")) {
		t.Fatalf("expected different investor id to stay apart, got %+v", rows[1])
	}
}

func TestReconcileLegacyInvestment(t *testing.T) {
	t.Parallel()

	inv := &investment.Investment{
		Id:           pkg.GenerateULIDObject(),
		Title:        "Antigo",
		Amount:       dec("800"),
		InvestorName: "Dr. Lima",
	}
	rows := investment.Reconcile([]*investment.Investment{inv}, []*investment.Contribution{contribution(inv, "Dr. Lima", "200")})

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].ShareAmount.Equal(dec("800")) || !rows[0].Due.Equal(dec("600")) {
		t.Fatalf("unexpected legacy row: %+v", rows[0])
	}
}

func TestReconcileIgnoresUnknownInvestments(t *testing.T) {
	t.Parallel()

	inv := newInvestment("A", "100", shares("Alice", "1")...)
	stray := &investment.Contribution{InvestmentId: pkg.GenerateULIDObject(), InvestorName: "Alice", Amount: dec("10")}

	rows := investment.Reconcile([]*investment.Investment{inv}, []*investment.Contribution{stray})
	if len(rows) != 1 || !rows[0].Paid.IsZero() {
		t.Fatalf("expected stray contribution to be ignored, got %+v", rows)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	inv := newInvestment("Laboratório", "1000", shares("Alice", "60", "Bob", "40")...)
	rows := investment.Reconcile(
		[]*investment.Investment{inv},
		[]*investment.Contribution{contribution(inv, "Alice", "700"), contribution(inv, "Bob", "100")},
	)
	s := investment.Summarize(rows)

	if !s.TotalShare.Equal(dec("1000")) || !s.TotalPaid.Equal(dec("800")) {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if !s.TotalDue.Equal(dec("300")) || !s.TotalOverpaid.Equal(dec("100")) {
		t.Fatalf("unexpected due/overpaid: %+v", s)
	}
	if s.DueCount != 1 || s.OverpaidCount != 1 || s.FullyPaid != 0 {
		t.Fatalf("unexpected counts: %+v", s)
	}
}
