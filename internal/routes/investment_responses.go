package routes

import "clinicdesk/internal/domain/investment"

type InvestmentCreateResponse struct {
	Message    string                 `json:"message"`
	Investment *investment.Investment `json:"investment"`
}

type InvestmentSingleResponse struct {
	Investment *investment.Investment `json:"investment"`
}

type RecapitalizeResponse struct {
	Message     string                   `json:"message"`
	Investments []*investment.Investment `json:"investments"`
}

type NormalizeResponse struct {
	Shares []investment.InvestorShare `json:"shares"`
}

type ContributionSingleResponse struct {
	Contribution *investment.Contribution `json:"contribution"`
}
