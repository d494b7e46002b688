package bank

import (
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeDeposit    Type = "DEPOSIT"
	TypeWithdrawal Type = "WITHDRAWAL"
)

func (t Type) IsValid() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

type Transaction struct {
	Id          ulid.ULID       `json:"id"`
	Date        time.Time       `json:"date"`
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Signed devolve o valor com sinal: saques entram negativos.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TypeWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Before ordena por data e, no mesmo dia, pelo id.
func (t *Transaction) Before(other *Transaction) bool {
	if !t.Date.Equal(other.Date) {
		return t.Date.Before(other.Date)
	}
	return t.Id.Compare(other.Id) < 0
}

type Row struct {
	*Transaction
	Balance decimal.Decimal `json:"balance"`
}

// RunningBalances ordena as movimentações e acumula o saldo a partir de opening.
func RunningBalances(opening decimal.Decimal, txs []*Transaction) []Row {
	sorted := make([]*Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	rows := make([]Row, 0, len(sorted))
	balance := opening
	for _, tx := range sorted {
		balance = balance.Add(tx.Signed())
		rows = append(rows, Row{Transaction: tx, Balance: balance})
	}
	return rows
}

type Filters struct {
	From *time.Time
	To   *time.Time
}

type Input struct {
	Date        time.Time
	Type        Type
	Amount      decimal.Decimal
	Description string
	Reference   string
}
