package allocation

import (
	"fmt"

	"github.com/bucketwise/backend/internal/model"
)

// Warning codes.
const (
	WarnEssentialPressure = "essential_pressure"
	WarnDiscretionaryLow  = "discretionary_low"
	WarnEmergencyLow      = "emergency_low"
)

// Advise runs the stateless budget-health checks over a bucket set. Every
// triggered warning is returned; prioritization and display order belong to
// the caller.
func Advise(cfg Config, plan *model.AllocationPlan) []model.Warning {
	income := plan.MonthlyIncome
	if income <= 0 {
		return nil
	}

	var warnings []model.Warning

	if essential := plan.BucketByType(model.BucketTypeEssential); essential != nil {
		if share := essential.AllocatedAmount / income; share > cfg.EssentialWarningRatio {
			warnings = append(warnings, model.Warning{
				Code:       WarnEssentialPressure,
				Severity:   model.WarningSeverityHigh,
				BucketType: model.BucketTypeEssential,
				Message: fmt.Sprintf("Essential spending is %.0f%% of income, above the %.0f%% threshold. That leaves little room to absorb surprises.",
					share*100, cfg.EssentialWarningRatio*100),
			})
		}
	}

	if disc := plan.BucketByType(model.BucketTypeDiscretionary); disc != nil {
		if share := disc.AllocatedAmount / income; share < cfg.DiscretionaryFloorRatio {
			warnings = append(warnings, model.Warning{
				Code:       WarnDiscretionaryLow,
				Severity:   model.WarningSeverityInfo,
				BucketType: model.BucketTypeDiscretionary,
				Message: fmt.Sprintf("Discretionary spending is %.1f%% of income; plans this tight are hard to sustain.",
					share*100),
			})
		}
	}

	if ef := plan.BucketByType(model.BucketTypeEmergencyFund); ef != nil {
		if share := ef.AllocatedAmount / income; share < cfg.EmergencyFloorRatio {
			warnings = append(warnings, model.Warning{
				Code:       WarnEmergencyLow,
				Severity:   model.WarningSeverityHigh,
				BucketType: model.BucketTypeEmergencyFund,
				Message: fmt.Sprintf("Emergency fund contributions are %.1f%% of income, below the %.0f%% threshold.",
					share*100, cfg.EmergencyFloorRatio*100),
			})
		}
	}

	return warnings
}
