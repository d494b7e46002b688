package investment

import (
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type LedgerStatus string

const (
	LedgerFullyPaid LedgerStatus = "FULLY_PAID"
	LedgerDue       LedgerStatus = "DUE"
	LedgerOverpaid  LedgerStatus = "OVERPAID"
)

type LedgerRow struct {
	InvestmentId    ulid.ULID       `json:"investmentId"`
	InvestmentTitle string          `json:"investmentTitle"`
	InvestorId      *ulid.ULID      `json:"investorId,omitempty"`
	InvestorName    string          `json:"investorName"`
	ShareAmount     decimal.Decimal `json:"shareAmount"`
	Paid            decimal.Decimal `json:"paid"`
	Due             decimal.Decimal `json:"due"`
	Overpaid        decimal.Decimal `json:"overpaid"`
	PaidPct         int64           `json:"paidPct"`
	Status          LedgerStatus    `json:"status"`
	Synthetic       bool            `json:"synthetic,omitempty"`
}

type LedgerSummary struct {
	TotalShare    decimal.Decimal `json:"totalShare"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalDue      decimal.Decimal `json:"totalDue"`
	TotalOverpaid decimal.Decimal `json:"totalOverpaid"`
	Rows          int             `json:"rows"`
	FullyPaid     int             `json:"fullyPaid"`
	DueCount      int             `json:"dueCount"`
	OverpaidCount int             `json:"overpaidCount"`
}

type Ledger struct {
	Rows    []LedgerRow   `json:"rows"`
	Summary LedgerSummary `json:"summary"`
}

// Reconcile cruza as participações de cada investimento com as contribuições
// registradas. A contribuição é atribuída pelo InvestorId quando os dois lados
// o possuem; sem id, vale a igualdade exata do nome. Pagamentos sem linha
// correspondente geram uma linha sintética com participação zero.
func Reconcile(investments []*Investment, contributions []*Contribution) []LedgerRow {
	index := make(map[ulid.ULID]int, len(investments))
	groups := make([][]LedgerRow, len(investments))

	for i, inv := range investments {
		index[inv.Id] = i
		rows := make([]LedgerRow, 0, len(inv.Shares)+1)
		for _, s := range inv.Shares {
			rows = append(rows, LedgerRow{
				InvestmentId:    inv.Id,
				InvestmentTitle: inv.Title,
				InvestorId:      s.InvestorId,
				InvestorName:    s.Name,
				ShareAmount:     s.Amount,
				Paid:            decimal.Zero,
			})
		}
		if len(inv.Shares) == 0 && inv.InvestorName != "" {
			rows = append(rows, LedgerRow{
				InvestmentId:    inv.Id,
				InvestmentTitle: inv.Title,
				InvestorName:    inv.InvestorName,
				ShareAmount:     inv.Amount,
				Paid:            decimal.Zero,
			})
		}
		groups[i] = rows
	}

	for _, c := range contributions {
		gi, ok := index[c.InvestmentId]
		if !ok {
			continue
		}
		rows := groups[gi]
		ri := matchRow(rows, c)
		if ri < 0 {
			inv := investments[gi]
			rows = append(rows, LedgerRow{
				InvestmentId:    inv.Id,
				InvestmentTitle: inv.Title,
				InvestorId:      c.InvestorId,
				InvestorName:    c.InvestorName,
				ShareAmount:     decimal.Zero,
				Paid:            decimal.Zero,
				Synthetic:       true,
			})
			ri = len(rows) - 1
		}
		rows[ri].Paid = rows[ri].Paid.Add(c.Amount)
		groups[gi] = rows
	}

	out := make([]LedgerRow, 0)
	for _, rows := range groups {
		for _, r := range rows {
			out = append(out, settle(r))
		}
	}
	return out
}

func matchRow(rows []LedgerRow, c *Contribution) int {
	if c.InvestorId != nil {
		for i, r := range rows {
			if r.InvestorId != nil && *r.InvestorId == *c.InvestorId {
				return i
			}
		}
	}
	for i, r := range rows {
		if r.InvestorName != c.InvestorName {
			continue
		}
		if c.InvestorId == nil || r.InvestorId == nil {
			return i
		}
	}
	return -1
}

func settle(r LedgerRow) LedgerRow {
	r.Due = pkg.MaxZero(r.ShareAmount.Sub(r.Paid))
	r.Overpaid = pkg.MaxZero(r.Paid.Sub(r.ShareAmount))
	r.PaidPct = 0
	if r.ShareAmount.IsPositive() {
		pct := r.Paid.Mul(pkg.Hundred).Div(r.ShareAmount).Round(0).IntPart()
		if pct > 100 {
			pct = 100
		}
		r.PaidPct = pct
	}
	switch {
	case r.Overpaid.IsPositive():
		r.Status = LedgerOverpaid
	case r.Due.IsPositive():
		r.Status = LedgerDue
	default:
		r.Status = LedgerFullyPaid
	}
	return r
}

func Summarize(rows []LedgerRow) LedgerSummary {
	s := LedgerSummary{
		TotalShare:    decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalDue:      decimal.Zero,
		TotalOverpaid: decimal.Zero,
		Rows:          len(rows),
	}
	for _, r := range rows {
		s.TotalShare = s.TotalShare.Add(r.ShareAmount)
		s.TotalPaid = s.TotalPaid.Add(r.Paid)
		s.TotalDue = s.TotalDue.Add(r.Due)
		s.TotalOverpaid = s.TotalOverpaid.Add(r.Overpaid)
		switch r.Status {
		case LedgerFullyPaid:
			s.FullyPaid++
		case LedgerDue:
			s.DueCount++
		case LedgerOverpaid:
			s.OverpaidCount++
		}
	}
	return s
}
