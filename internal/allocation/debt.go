package allocation

import (
	"math"

	"github.com/bucketwise/backend/internal/model"
)

// payoffProjections computes debt payoff timelines for each preset tier.
// The tier's bucket amount goes on top of the minimum payments already
// carried in the Essential bucket, amortized against a single
// representative rate, the balance-weighted average APR. Interest saved is
// relative to a minimum-only payoff. These figures are heuristic, so every
// projection is marked estimated.
func (p *Planner) payoffProjections(pos model.FinancialPosition, debtMinimums float64, presets model.PresetOptions) []model.PayoffProjection {
	principal := pos.TotalDebt()
	apr := pos.WeightedAverageAPR()

	_, minInterest, minPaysOff := amortize(principal, apr, debtMinimums)

	var projections []model.PayoffProjection
	for _, tier := range model.PresetTiers {
		payment := round2(debtMinimums + presets.Amount(tier))
		months, interest, paysOff := amortize(principal, apr, payment)

		proj := model.PayoffProjection{
			Tier:           tier,
			MonthlyPayment: payment,
			MonthsToPayoff: months,
			TotalInterest:  round2(interest),
			PaysOff:        paysOff,
			Estimated:      true,
		}
		if paysOff && minPaysOff {
			proj.InterestSaved = round2(math.Max(0, minInterest-interest))
		}
		projections = append(projections, proj)
	}
	return projections
}

// amortize solves the standard level-payment amortization for the number
// of months to payoff and total interest paid. A payment that does not
// cover accruing interest never pays off.
func amortize(principal, apr, payment float64) (months int, totalInterest float64, paysOff bool) {
	if principal <= 0 {
		return 0, 0, true
	}
	if payment <= 0 {
		return 0, 0, false
	}
	if apr <= 0 {
		m := math.Ceil(principal / payment)
		return int(m), 0, true
	}
	monthly := apr / 12
	if payment <= principal*monthly {
		return 0, 0, false
	}
	// n = -ln(1 - i*B/P) / ln(1+i)
	n := -math.Log(1-monthly*principal/payment) / math.Log(1+monthly)
	months = int(math.Ceil(n))
	totalInterest = math.Max(0, n*payment-principal)
	return months, totalInterest, true
}
