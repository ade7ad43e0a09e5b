// Package explain generates the plain-language blurb shown next to each
// bucket. Generators receive derived numbers only. Transactions, merchant
// names and account identifiers never leave the engine.
package explain

import (
	"context"

	"github.com/bucketwise/backend/internal/model"
)

// BucketFacts is the numeric summary of one bucket handed to a generator.
type BucketFacts struct {
	Type                model.BucketType `json:"type"`
	Name                string           `json:"name"`
	MonthlyAmount       float64          `json:"monthlyAmount"`
	PercentOfDisposable float64          `json:"percentOfDisposable"`

	// Emergency fund only.
	MonthsToTarget float64 `json:"monthsToTarget,omitempty"`
	TargetMonths   int     `json:"targetMonths,omitempty"`

	// Debt paydown only.
	MonthsToPayoff int     `json:"monthsToPayoff,omitempty"`
	InterestSaved  float64 `json:"interestSaved,omitempty"`
}

// PlanFacts is the plan-level context attached to every request.
type PlanFacts struct {
	DisposableIncome float64               `json:"disposableIncome"`
	IncomeStability  model.IncomeStability `json:"incomeStability"`
	Buckets          []BucketFacts         `json:"buckets"`
}

// Generator produces one short explanation per bucket. Implementations
// must tolerate partial output; the planner treats a missing explanation
// as empty text, never as an error.
type Generator interface {
	Explain(ctx context.Context, facts PlanFacts) (map[model.BucketType]string, error)
}

// Noop is the generator used when no model is configured. Plans render
// without explanation text.
type Noop struct{}

func (Noop) Explain(context.Context, PlanFacts) (map[model.BucketType]string, error) {
	return nil, nil
}

// FactsFromPlan derives the generator payload from a plan.
func FactsFromPlan(plan *model.AllocationPlan) PlanFacts {
	facts := PlanFacts{
		DisposableIncome: plan.DisposableIncome,
		IncomeStability:  plan.IncomeStability,
	}
	for _, b := range plan.Buckets {
		bf := BucketFacts{
			Type:                b.Type,
			Name:                b.Name,
			MonthlyAmount:       b.AllocatedAmount,
			PercentOfDisposable: b.PercentageOfIncome(plan.DisposableIncome),
		}
		if b.EmergencyFund != nil {
			for _, opt := range b.EmergencyFund.DurationOptions {
				if opt.IsRecommended {
					bf.TargetMonths = opt.Months
				}
			}
			bf.MonthsToTarget = b.EmergencyFund.MonthsToTarget
		}
		for _, proj := range b.PayoffProjections {
			if proj.Tier == b.SelectedTier && proj.PaysOff {
				bf.MonthsToPayoff = proj.MonthsToPayoff
				bf.InterestSaved = proj.InterestSaved
			}
		}
		facts.Buckets = append(facts.Buckets, bf)
	}
	return facts
}
