package allocation

import (
	"math"

	"github.com/bucketwise/backend/internal/model"
)

// growthProjections projects investment balances for each preset tier's
// monthly contribution: future value of the current balance plus an
// ordinary annuity, compounded monthly at the configured nominal rate.
//
//	balance(n) = start*(1+r/12)^(12n) + c * ((1+r/12)^(12n) - 1) / (r/12)
func (p *Planner) growthProjections(startingBalance float64, presets model.PresetOptions) []model.GrowthProjection {
	var projections []model.GrowthProjection
	for _, tier := range model.PresetTiers {
		contribution := presets.Amount(tier)
		gp := model.GrowthProjection{
			Tier:                tier,
			MonthlyContribution: contribution,
			AnnualRate:          p.cfg.AnnualGrowthRate,
		}
		for _, years := range p.cfg.ProjectionYears {
			gp.Projections = append(gp.Projections, model.ProjectedBalance{
				Years:   years,
				Balance: round2(futureValue(startingBalance, contribution, p.cfg.AnnualGrowthRate, years)),
			})
		}
		projections = append(projections, gp)
	}
	return projections
}

func futureValue(start, monthlyContribution, annualRate float64, years int) float64 {
	n := float64(12 * years)
	if annualRate == 0 {
		return start + monthlyContribution*n
	}
	monthly := annualRate / 12
	growth := math.Pow(1+monthly, n)
	return start*growth + monthlyContribution*(growth-1)/monthly
}
