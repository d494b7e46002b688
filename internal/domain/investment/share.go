package investment

import (
	"encoding/json"
	"sort"
	"strings"

	"clinicdesk/config"
	"clinicdesk/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// ShareInput é o peso bruto informado para um investidor.
type ShareInput struct {
	InvestorId      *ulid.ULID      `json:"investorId,omitempty"`
	Name            string          `json:"name"`
	SharePercentage decimal.Decimal `json:"sharePercentage"`
}

type InvestorShare struct {
	Id              ulid.ULID       `json:"id"`
	InvestorId      *ulid.ULID      `json:"investorId,omitempty"`
	Name            string          `json:"name"`
	SharePercentage decimal.Decimal `json:"sharePercentage"`
	Amount          decimal.Decimal `json:"amount"`
}

// MarshalJSON emite o percentual como número e o valor como texto com 2 casas.
func (s InvestorShare) MarshalJSON() ([]byte, error) {
	type alias struct {
		Id              ulid.ULID   `json:"id"`
		InvestorId      *ulid.ULID  `json:"investorId,omitempty"`
		Name            string      `json:"name"`
		SharePercentage json.Number `json:"sharePercentage"`
		Amount          string      `json:"amount"`
	}
	return json.Marshal(alias{
		Id:              s.Id,
		InvestorId:      s.InvestorId,
		Name:            s.Name,
		SharePercentage: json.Number(s.SharePercentage.StringFixed(2)),
		Amount:          s.Amount.StringFixed(2),
	})
}

func (s *InvestorShare) UnmarshalJSON(data []byte) error {
	type alias struct {
		Id              ulid.ULID       `json:"id"`
		InvestorId      *ulid.ULID      `json:"investorId,omitempty"`
		Name            string          `json:"name"`
		SharePercentage decimal.Decimal `json:"sharePercentage"`
		Amount          decimal.Decimal `json:"amount"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = InvestorShare(a)
	return nil
}

// Apportioner transforma pesos brutos em participações normalizadas.
type Apportioner func(total decimal.Decimal, entries []ShareInput) []InvestorShare

func ApportionerFor(mode string) Apportioner {
	if mode == config.ApportionmentLargestRemainder {
		return Apportion
	}
	return Normalize
}

func cleanEntries(entries []ShareInput) []ShareInput {
	out := make([]ShareInput, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		out = append(out, ShareInput{
			InvestorId:      e.InvestorId,
			Name:            name,
			SharePercentage: pkg.NonNegative(e.SharePercentage),
		})
	}
	return out
}

func sumWeights(entries []ShareInput) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.SharePercentage)
	}
	return sum
}

// Normalize arredonda cada percentual e cada valor de forma independente
// para 2 casas; a soma pode diferir de 100 em até 0.01 por linha.
func Normalize(total decimal.Decimal, entries []ShareInput) []InvestorShare {
	kept := cleanEntries(entries)
	out := make([]InvestorShare, 0, len(kept))
	sum := sumWeights(kept)

	for _, e := range kept {
		pct := decimal.Zero
		if sum.IsPositive() {
			pct = e.SharePercentage.Mul(pkg.Hundred).Div(sum).Round(2)
		}
		out = append(out, InvestorShare{
			InvestorId:      e.InvestorId,
			Name:            e.Name,
			SharePercentage: pct,
			Amount:          pkg.RoundMoney(total.Mul(pct).Div(pkg.Hundred)),
		})
	}
	return out
}

// Apportion distribui os percentuais em centésimos e os valores em centavos
// pelo método do maior resto: a soma dos percentuais é exatamente 100 e a
// soma dos valores é exatamente o total.
func Apportion(total decimal.Decimal, entries []ShareInput) []InvestorShare {
	kept := cleanEntries(entries)
	out := make([]InvestorShare, 0, len(kept))
	if len(kept) == 0 {
		return out
	}

	weights := make([]decimal.Decimal, len(kept))
	for i, e := range kept {
		weights[i] = e.SharePercentage
	}

	if !sumWeights(kept).IsPositive() {
		for _, e := range kept {
			out = append(out, InvestorShare{InvestorId: e.InvestorId, Name: e.Name, SharePercentage: decimal.Zero, Amount: decimal.Zero})
		}
		return out
	}

	basisPoints := LargestRemainder(weights, 10000)
	pctWeights := make([]decimal.Decimal, len(basisPoints))
	for i, bp := range basisPoints {
		pctWeights[i] = decimal.NewFromInt(bp)
	}
	cents := LargestRemainder(pctWeights, pkg.RoundMoney(total).Shift(2).IntPart())

	for i, e := range kept {
		out = append(out, InvestorShare{
			InvestorId:      e.InvestorId,
			Name:            e.Name,
			SharePercentage: decimal.New(basisPoints[i], -2),
			Amount:          decimal.New(cents[i], -2),
		})
	}
	return out
}

// LargestRemainder reparte units inteiros proporcionalmente aos pesos.
// Empates no resto favorecem o índice menor.
func LargestRemainder(weights []decimal.Decimal, units int64) []int64 {
	out := make([]int64, len(weights))
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(pkg.NonNegative(w))
	}
	if len(weights) == 0 || !sum.IsPositive() || units <= 0 {
		return out
	}

	remainders := make([]decimal.Decimal, len(weights))
	var assigned int64
	for i, w := range weights {
		quota := pkg.NonNegative(w).Mul(decimal.NewFromInt(units)).Div(sum)
		floor := quota.Floor()
		out[i] = floor.IntPart()
		remainders[i] = quota.Sub(floor)
		assigned += out[i]
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})

	for k := int64(0); k < units-assigned; k++ {
		out[order[int(k)%len(order)]]++
	}
	return out
}

// SumShares soma percentuais e valores de uma lista normalizada.
func SumShares(shares []InvestorShare) (decimal.Decimal, decimal.Decimal) {
	pct := decimal.Zero
	amount := decimal.Zero
	for _, s := range shares {
		pct = pct.Add(s.SharePercentage)
		amount = amount.Add(s.Amount)
	}
	return pct, amount
}
