package allocation

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/bucketwise/backend/internal/model"
)

// ValidationError reports why a snapshot cannot seed an allocation plan.
// It is the only failure mode of plan generation: the planner never coerces
// an invalid snapshot into a zeroed or clamped plan.
type ValidationError struct {
	Reason model.InvalidReason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case model.InvalidReasonNoDisposableIncome:
		return "snapshot not valid for allocation: disposable income is not positive"
	case model.InvalidReasonInsufficientHistory:
		return fmt.Sprintf("snapshot not valid for allocation: overall confidence below %.2f", model.MinimumPlanningConfidence)
	default:
		return "snapshot not valid for allocation"
	}
}

// Planner proposes the initial bucket set for a snapshot.
type Planner struct {
	cfg Config
}

// NewPlanner creates a planner with the given policy.
func NewPlanner(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// bucketNamespace seeds deterministic bucket IDs so regenerating a plan
// from the same snapshot yields an identical bucket set.
var bucketNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func bucketID(userID string, t model.BucketType) string {
	return uuid.NewSHA1(bucketNamespace, []byte(userID+"/"+string(t))).String()
}

// Generate builds the initial allocation plan. The Essential bucket is
// fixed at what the data says is already being spent (essential expenses
// plus debt minimums); the flexible buckets distribute the full disposable
// income and always sum to it exactly, with any floating-point remainder
// folded into the emergency fund.
func (p *Planner) Generate(snap model.FinancialSnapshot, stability model.IncomeStability) (*model.AllocationPlan, error) {
	if valid, reason := snap.ValidForAllocation(); !valid {
		return nil, &ValidationError{Reason: reason}
	}
	if stability == "" {
		stability = model.IncomeStabilityStable
	}

	flow := snap.MonthlyFlow
	disposable := round2(flow.DisposableIncome())
	essentialMonthly := flow.EssentialExpenses.Total()
	includeDebt := snap.Position.TotalDebt() > p.cfg.DebtBucketThreshold

	coverageMonths := 0.0
	if essentialMonthly > 0 {
		coverageMonths = snap.Position.EmergencyCash / essentialMonthly
	}

	weights := p.targetWeights(stability, coverageMonths, includeDebt)

	plan := &model.AllocationPlan{
		ID:               bucketID(snap.UserID, "plan"),
		UserID:           snap.UserID,
		SnapshotID:       snap.ID,
		MonthlyIncome:    flow.Income,
		DisposableIncome: disposable,
		IncomeStability:  stability,
	}

	essential := &model.AllocationBucket{
		ID:           bucketID(snap.UserID, model.BucketTypeEssential),
		Type:         model.BucketTypeEssential,
		Name:         "Essentials",
		IsModifiable: false,
	}
	essential.SetAmount(round2(essentialMonthly + flow.DebtMinimums))
	plan.Buckets = append(plan.Buckets, essential)

	discretionary := p.flexibleBucket(snap.UserID, model.BucketTypeDiscretionary, "Discretionary",
		p.cfg.Discretionary, disposable, weights[model.BucketTypeDiscretionary])
	plan.Buckets = append(plan.Buckets, discretionary)

	investments := p.flexibleBucket(snap.UserID, model.BucketTypeInvestments, "Investments",
		p.cfg.Investments, disposable, weights[model.BucketTypeInvestments])
	investments.GrowthProjections = p.growthProjections(snap.Position.InvestmentBalances, *investments.PresetOptions)
	plan.Buckets = append(plan.Buckets, investments)

	if includeDebt {
		debt := p.flexibleBucket(snap.UserID, model.BucketTypeDebtPaydown, "Debt Paydown",
			p.cfg.DebtPaydown, disposable, weights[model.BucketTypeDebtPaydown])
		debt.PayoffProjections = p.payoffProjections(snap.Position, flow.DebtMinimums, *debt.PresetOptions)
		plan.Buckets = append(plan.Buckets, debt)
	}

	// Emergency fund absorbs the remainder so the flexible buckets sum to
	// disposable income exactly.
	emergency := &model.AllocationBucket{
		ID:           bucketID(snap.UserID, model.BucketTypeEmergencyFund),
		Type:         model.BucketTypeEmergencyFund,
		Name:         "Emergency Fund",
		IsModifiable: true,
		SelectedTier: model.PresetTierRecommended,
	}
	remainder := disposable
	for _, b := range plan.Buckets {
		if b.IsModifiable {
			remainder -= b.AllocatedAmount
		}
	}
	emergency.SetAmount(round2(math.Max(0, remainder)))
	emergency.EmergencyFund = p.emergencyDetail(snap, stability, emergency.AllocatedAmount)
	efPresets := model.PresetOptions{
		Low:         round2(emergency.AllocatedAmount * 0.5),
		Recommended: emergency.AllocatedAmount,
		High:        round2(emergency.AllocatedAmount * 1.5),
	}
	emergency.PresetOptions = &efPresets
	plan.Buckets = append(plan.Buckets, emergency)

	// Fold any residual rounding drift into the emergency fund.
	if drift := round2(disposable - plan.FlexibleTotal()); drift != 0 {
		emergency.SetAmount(round2(emergency.AllocatedAmount + drift))
	}

	return plan, nil
}

// flexibleBucket builds one modifiable bucket with its preset tiers; the
// initial amount comes from the target weight.
func (p *Planner) flexibleBucket(userID string, t model.BucketType, name string, tiers TierPercents, disposable, weight float64) *model.AllocationBucket {
	presets := model.PresetOptions{
		Low:         round2(disposable * tiers.Low),
		Recommended: round2(disposable * tiers.Recommended),
		High:        round2(disposable * tiers.High),
	}
	b := &model.AllocationBucket{
		ID:            bucketID(userID, t),
		Type:          t,
		Name:          name,
		IsModifiable:  true,
		PresetOptions: &presets,
		SelectedTier:  model.PresetTierRecommended,
	}
	b.SetAmount(round2(disposable * weight))
	return b
}

// targetWeights is the stability-seeded percentage table. It starts from
// the Recommended preset multipliers and rebalances so the emergency fund
// never falls below its stability floor, and is halved in favor of
// investments once existing coverage already meets the stability target.
func (p *Planner) targetWeights(stability model.IncomeStability, coverageMonths float64, includeDebt bool) map[model.BucketType]float64 {
	w := map[model.BucketType]float64{
		model.BucketTypeDiscretionary: p.cfg.Discretionary.Recommended,
		model.BucketTypeInvestments:   p.cfg.Investments.Recommended,
	}
	if includeDebt {
		w[model.BucketTypeDebtPaydown] = p.cfg.DebtPaydown.Recommended
	}

	floor := p.cfg.EmergencyFloor[stability]
	if floor == 0 {
		floor = p.cfg.EmergencyFloor[model.IncomeStabilityStable]
	}

	var spoken float64
	for _, v := range w {
		spoken += v
	}
	ef := 1 - spoken
	if ef < floor {
		// Scale the other buckets down proportionally to honor the floor.
		scale := (1 - floor) / spoken
		for k := range w {
			w[k] *= scale
		}
		ef = floor
	}

	if coverageMonths >= float64(p.cfg.coverage(stability)) {
		// Already covered: redirect half of the emergency share to
		// investments.
		w[model.BucketTypeInvestments] += ef / 2
		ef /= 2
	}

	w[model.BucketTypeEmergencyFund] = ef
	return w
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
