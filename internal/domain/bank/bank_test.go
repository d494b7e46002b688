package bank_test

import (
	"testing"
	"time"

	"clinicdesk/internal/domain/bank"
	"clinicdesk/internal/pkg"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestRunningBalances(t *testing.T) {
	t.Parallel()

	first := &bank.Transaction{Id: pkg.GenerateULIDObject(), Date: day(2), Type: bank.TypeDeposit, Amount: dec("100")}
	second := &bank.Transaction{Id: pkg.GenerateULIDObject(), Date: day(2), Type: bank.TypeWithdrawal, Amount: dec("30")}
	earlier := &bank.Transaction{Id: pkg.GenerateULIDObject(), Date: day(1), Type: bank.TypeDeposit, Amount: dec("50")}
	if second.Id.Compare(first.Id) < 0 {
		first, second = second, first
	}

	rows := bank.RunningBalances(dec("10"), []*bank.Transaction{second, first, earlier})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Transaction != earlier || rows[1].Transaction != first || rows[2].Transaction != second {
		t.Fatalf("unexpected order")
	}

	want := dec("10").Add(dec("50"))
	if !rows[0].Balance.Equal(want) {
		t.Fatalf("row 0: expected %s, got %s", want, rows[0].Balance)
	}
	want = want.Add(first.Signed())
	if !rows[1].Balance.Equal(want) {
		t.Fatalf("row 1: expected %s, got %s", want, rows[1].Balance)
	}
	want = want.Add(second.Signed())
	if !rows[2].Balance.Equal(want) {
		t.Fatalf("row 2: expected %s, got %s", want, rows[2].Balance)
	}
	if !rows[2].Balance.Equal(dec("130")) {
		t.Fatalf("expected closing balance 130, got %s", rows[2].Balance)
	}
}

func TestRunningBalancesEmpty(t *testing.T) {
	t.Parallel()

	if rows := bank.RunningBalances(decimal.Zero, nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestSigned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind bank.Type
		want string
	}{
		{bank.TypeDeposit, "25.5"},
		{bank.TypeWithdrawal, "-25.5"},
	}
	for _, tt := range tests {
		tx := &bank.Transaction{Type: tt.kind, Amount: dec("25.5")}
		if !tx.Signed().Equal(dec(tt.want)) {
			t.Fatalf("%s: expected %s, got %s", tt.kind, tt.want, tx.Signed())
		}
	}
}
