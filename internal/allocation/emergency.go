package allocation

import (
	"math"

	"github.com/bucketwise/backend/internal/model"
)

// emergencyDetail computes the coverage-duration options for the emergency
// fund. Each option targets N months of essential spending; contribution
// tiers close the option's shortfall over the configured horizons (Low
// slowest, High fastest). The option marked recommended is the smallest
// offered duration covering the stability target.
func (p *Planner) emergencyDetail(snap model.FinancialSnapshot, stability model.IncomeStability, allocated float64) *model.EmergencyFundDetail {
	essentialMonthly := snap.MonthlyFlow.EssentialExpenses.Total()
	cash := snap.Position.EmergencyCash
	target := p.cfg.coverage(stability)

	detail := &model.EmergencyFundDetail{}

	recommendedMarked := false
	for _, months := range p.cfg.EmergencyDurations {
		targetAmount := round2(essentialMonthly * float64(months))
		shortfall := round2(math.Max(0, targetAmount-cash))

		opt := model.EmergencyDurationOption{
			Months:       months,
			TargetAmount: targetAmount,
			Shortfall:    shortfall,
		}
		if shortfall > 0 {
			opt.Contributions = model.PresetOptions{
				Low:         round2(shortfall / p.cfg.EmergencyHorizons.Low),
				Recommended: round2(shortfall / p.cfg.EmergencyHorizons.Recommended),
				High:        round2(shortfall / p.cfg.EmergencyHorizons.High),
			}
		}
		if !recommendedMarked && months >= target {
			opt.IsRecommended = true
			recommendedMarked = true
			detail.TargetAmount = targetAmount
			detail.MonthsToTarget = monthsToTarget(shortfall, allocated)
		}
		detail.DurationOptions = append(detail.DurationOptions, opt)
	}

	// Stability targets longer than every offered duration fall back to the
	// longest option.
	if !recommendedMarked && len(detail.DurationOptions) > 0 {
		last := &detail.DurationOptions[len(detail.DurationOptions)-1]
		last.IsRecommended = true
		detail.TargetAmount = last.TargetAmount
		detail.MonthsToTarget = monthsToTarget(last.Shortfall, allocated)
	}

	return detail
}

// monthsToTarget is how long the current monthly allocation takes to close
// the shortfall; zero when the target is already met or nothing is
// allocated.
func monthsToTarget(shortfall, allocated float64) float64 {
	if shortfall <= 0 || allocated <= 0 {
		return 0
	}
	return math.Ceil(shortfall / allocated)
}
