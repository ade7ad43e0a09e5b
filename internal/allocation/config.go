// Package allocation turns a financial snapshot into a multi-bucket
// income-allocation plan and keeps that plan consistent under user edits.
// The percentage constants here are product policy, not invariants: tune
// them through Config, but the shape of the formulas (monthly compounding,
// the fixed absorption order) must be preserved.
package allocation

import "github.com/bucketwise/backend/internal/model"

// TierPercents are the Low/Recommended/High preset multipliers for one
// flexible bucket, as fractions of disposable income.
type TierPercents struct {
	Low         float64
	Recommended float64
	High        float64
}

// Percent returns the multiplier for a tier, defaulting to Recommended.
func (t TierPercents) Percent(tier model.PresetTier) float64 {
	switch tier {
	case model.PresetTierLow:
		return t.Low
	case model.PresetTierHigh:
		return t.High
	default:
		return t.Recommended
	}
}

// Config carries the allocation policy constants.
type Config struct {
	// DebtBucketThreshold is the total debt above which the plan carries a
	// Debt Paydown bucket.
	DebtBucketThreshold float64

	Discretionary TierPercents
	Investments   TierPercents
	DebtPaydown   TierPercents

	// EmergencyFloor is the minimum share of disposable income the
	// emergency fund receives in the initial allocation, per stability.
	EmergencyFloor map[model.IncomeStability]float64

	// RecommendedCoverage is the emergency coverage target in months of
	// essential spending, per stability.
	RecommendedCoverage map[model.IncomeStability]int

	// EmergencyDurations are the coverage-duration options offered.
	EmergencyDurations []int
	// EmergencyHorizons are the months over which each contribution tier
	// closes the shortfall (Low slowest, High fastest).
	EmergencyHorizons TierPercents

	// AnnualGrowthRate is the nominal investment growth rate, compounded
	// monthly.
	AnnualGrowthRate float64
	// ProjectionYears are the horizons reported in growth projections.
	ProjectionYears []int

	// Advisor thresholds, as fractions of monthly income.
	EssentialWarningRatio   float64
	DiscretionaryFloorRatio float64
	EmergencyFloorRatio     float64
}

// DefaultConfig returns the product policy constants.
func DefaultConfig() Config {
	return Config{
		DebtBucketThreshold: 1000,

		Discretionary: TierPercents{Low: 0.10, Recommended: 0.20, High: 0.30},
		Investments:   TierPercents{Low: 0.10, Recommended: 0.15, High: 0.25},
		DebtPaydown:   TierPercents{Low: 0.10, Recommended: 0.15, High: 0.20},

		EmergencyFloor: map[model.IncomeStability]float64{
			model.IncomeStabilityStable:       0.15,
			model.IncomeStabilityVariable:     0.25,
			model.IncomeStabilityInconsistent: 0.35,
		},
		RecommendedCoverage: map[model.IncomeStability]int{
			model.IncomeStabilityStable:       6,
			model.IncomeStabilityVariable:     9,
			model.IncomeStabilityInconsistent: 12,
		},

		EmergencyDurations: []int{3, 6, 12},
		EmergencyHorizons:  TierPercents{Low: 36, Recommended: 12, High: 6},

		AnnualGrowthRate: 0.07,
		ProjectionYears:  []int{10, 20, 30},

		EssentialWarningRatio:   0.80,
		DiscretionaryFloorRatio: 0.05,
		EmergencyFloorRatio:     0.03,
	}
}

// coverage returns the recommended emergency coverage for a stability
// class, defaulting to the stable target.
func (c Config) coverage(stability model.IncomeStability) int {
	if months, ok := c.RecommendedCoverage[stability]; ok {
		return months
	}
	return c.RecommendedCoverage[model.IncomeStabilityStable]
}
