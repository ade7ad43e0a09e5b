package allocation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bucketwise/backend/internal/model"
)

func validSnapshot() model.FinancialSnapshot {
	return model.FinancialSnapshot{
		ID:     "snap1",
		UserID: "user1",
		MonthlyFlow: model.MonthlyFlow{
			Income: 6000,
			EssentialExpenses: model.ExpenseBreakdown{
				Housing:    1800,
				Food:       400,
				Utilities:  300,
				Confidence: 0.9,
			},
			DebtMinimums: 100,
		},
		Position: model.FinancialPosition{
			EmergencyCash: 10000,
			DebtBalances: []model.DebtAccount{
				{ID: "cc", Type: model.DebtTypeCreditCard, Balance: 5000, APR: 0.22, MinimumPayment: 100},
			},
			InvestmentBalances: 20000,
		},
		Metadata: model.SnapshotMetadata{
			MonthsAnalyzed:       6,
			TransactionsAnalyzed: 240,
			OverallConfidence:    0.85,
		},
	}
}

func TestGenerateBaselinePlan(t *testing.T) {
	planner := NewPlanner(DefaultConfig())
	snap := validSnapshot()

	plan, err := planner.Generate(snap, model.IncomeStabilityStable)
	require.NoError(t, err)

	// Essential is fixed from the snapshot: expenses plus debt minimums.
	essential := plan.BucketByType(model.BucketTypeEssential)
	require.NotNil(t, essential)
	assert.False(t, essential.IsModifiable)
	assert.InDelta(t, 2600, essential.AllocatedAmount, 0.001)
	assert.Nil(t, essential.PresetOptions)

	// Disposable = 6000 - 2500 - 100.
	assert.InDelta(t, 3400, plan.DisposableIncome, 0.001)

	// Flexible buckets sum to disposable income exactly.
	assert.InDelta(t, plan.DisposableIncome, plan.FlexibleTotal(), 0.01)
	assert.True(t, plan.CheckSum())

	// Debt over the threshold: paydown bucket present.
	require.NotNil(t, plan.BucketByType(model.BucketTypeDebtPaydown))

	for _, bt := range []model.BucketType{
		model.BucketTypeDiscretionary,
		model.BucketTypeInvestments,
		model.BucketTypeDebtPaydown,
		model.BucketTypeEmergencyFund,
	} {
		b := plan.BucketByType(bt)
		require.NotNil(t, b, "missing bucket %s", bt)
		assert.True(t, b.IsModifiable)
		require.NotNil(t, b.PresetOptions, "missing presets for %s", bt)
		assert.Equal(t, model.PresetTierRecommended, b.SelectedTier)
		assert.GreaterOrEqual(t, b.AllocatedAmount, 0.0)
		assert.Equal(t, model.Cents(b.AllocatedAmount), b.AllocatedCents)
	}

	// Preset multipliers of disposable income.
	disc := plan.BucketByType(model.BucketTypeDiscretionary)
	assert.InDelta(t, 340, disc.PresetOptions.Low, 0.01)
	assert.InDelta(t, 680, disc.PresetOptions.Recommended, 0.01)
	assert.InDelta(t, 1020, disc.PresetOptions.High, 0.01)

	// Percentage is derived on read.
	assert.InDelta(t, 20, disc.PercentageOfIncome(plan.DisposableIncome), 0.01)
}

func TestGenerateDebtBucketThreshold(t *testing.T) {
	planner := NewPlanner(DefaultConfig())

	snap := validSnapshot()
	snap.Position.DebtBalances = nil
	snap.MonthlyFlow.DebtMinimums = 0

	plan, err := planner.Generate(snap, model.IncomeStabilityStable)
	require.NoError(t, err)
	assert.Nil(t, plan.BucketByType(model.BucketTypeDebtPaydown))
	assert.True(t, plan.CheckSum())

	// Just under the threshold still omits the bucket.
	snap.Position.DebtBalances = []model.DebtAccount{
		{ID: "cc", Type: model.DebtTypeCreditCard, Balance: 900, APR: 0.2, MinimumPayment: 25},
	}
	plan, err = planner.Generate(snap, model.IncomeStabilityStable)
	require.NoError(t, err)
	assert.Nil(t, plan.BucketByType(model.BucketTypeDebtPaydown))
}

func TestGenerateRefusesInvalidSnapshots(t *testing.T) {
	planner := NewPlanner(DefaultConfig())

	negative := validSnapshot()
	negative.MonthlyFlow.EssentialExpenses.Housing = 7000
	_, err := planner.Generate(negative, model.IncomeStabilityStable)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.InvalidReasonNoDisposableIncome, verr.Reason)

	lowConfidence := validSnapshot()
	lowConfidence.Metadata.OverallConfidence = 0.3
	_, err = planner.Generate(lowConfidence, model.IncomeStabilityStable)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.InvalidReasonInsufficientHistory, verr.Reason)
}

func TestGenerateIsDeterministic(t *testing.T) {
	planner := NewPlanner(DefaultConfig())
	snap := validSnapshot()

	first, err := planner.Generate(snap, model.IncomeStabilityVariable)
	require.NoError(t, err)
	second, err := planner.Generate(snap, model.IncomeStabilityVariable)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEmergencyDurationOptions(t *testing.T) {
	planner := NewPlanner(DefaultConfig())
	snap := validSnapshot()
	// Essential total 2500, cash 10000.
	snap.MonthlyFlow.EssentialExpenses = model.ExpenseBreakdown{Housing: 2000, Food: 500, Confidence: 0.9}

	plan, err := planner.Generate(snap, model.IncomeStabilityStable)
	require.NoError(t, err)

	ef := plan.BucketByType(model.BucketTypeEmergencyFund)
	require.NotNil(t, ef)
	require.NotNil(t, ef.EmergencyFund)
	opts := ef.EmergencyFund.DurationOptions
	require.Len(t, opts, 3)

	// 3 months: already exceeded, zero shortfall and zero contributions.
	assert.Equal(t, 3, opts[0].Months)
	assert.InDelta(t, 7500, opts[0].TargetAmount, 0.001)
	assert.Zero(t, opts[0].Shortfall)
	assert.Zero(t, opts[0].Contributions.Recommended)

	// 6 months: 15000 target, 5000 shortfall, nonzero tiers closing faster
	// at higher tiers.
	assert.Equal(t, 6, opts[1].Months)
	assert.InDelta(t, 15000, opts[1].TargetAmount, 0.001)
	assert.InDelta(t, 5000, opts[1].Shortfall, 0.001)
	assert.InDelta(t, 5000.0/36, opts[1].Contributions.Low, 0.01)
	assert.InDelta(t, 5000.0/12, opts[1].Contributions.Recommended, 0.01)
	assert.InDelta(t, 5000.0/6, opts[1].Contributions.High, 0.01)
	assert.Greater(t, opts[1].Contributions.High, opts[1].Contributions.Low)

	// Stable income recommends 6-month coverage.
	assert.False(t, opts[0].IsRecommended)
	assert.True(t, opts[1].IsRecommended)
	assert.False(t, opts[2].IsRecommended)
}

func TestEmergencyRecommendationFollowsStability(t *testing.T) {
	planner := NewPlanner(DefaultConfig())
	snap := validSnapshot()
	snap.Position.EmergencyCash = 0

	// Variable income targets 9 months of coverage; the smallest offered
	// duration covering it is 12.
	plan, err := planner.Generate(snap, model.IncomeStabilityVariable)
	require.NoError(t, err)
	opts := plan.BucketByType(model.BucketTypeEmergencyFund).EmergencyFund.DurationOptions
	assert.True(t, opts[2].IsRecommended)
	assert.False(t, opts[1].IsRecommended)
}

func TestGrowthProjections(t *testing.T) {
	planner := NewPlanner(DefaultConfig())
	snap := validSnapshot()

	plan, err := planner.Generate(snap, model.IncomeStabilityStable)
	require.NoError(t, err)

	inv := plan.BucketByType(model.BucketTypeInvestments)
	require.Len(t, inv.GrowthProjections, 3)

	for _, gp := range inv.GrowthProjections {
		require.Len(t, gp.Projections, 3)
		assert.Equal(t, []int{10, 20, 30}, []int{gp.Projections[0].Years, gp.Projections[1].Years, gp.Projections[2].Years})
		// Balances grow with the horizon.
		assert.Greater(t, gp.Projections[1].Balance, gp.Projections[0].Balance)
		assert.Greater(t, gp.Projections[2].Balance, gp.Projections[1].Balance)
	}
}

func TestFutureValueFormula(t *testing.T) {
	// 20000 start, 500/month, 7% nominal over 10 years.
	monthly := 0.07 / 12
	growth := math.Pow(1+monthly, 120)
	want := 20000*growth + 500*(growth-1)/monthly
	assert.InDelta(t, want, futureValue(20000, 500, 0.07, 10), 0.01)

	// Zero rate degenerates to simple accumulation.
	assert.InDelta(t, 20000+500*120, futureValue(20000, 500, 0, 10), 0.001)
}

func TestPayoffProjections(t *testing.T) {
	planner := NewPlanner(DefaultConfig())
	snap := validSnapshot()

	plan, err := planner.Generate(snap, model.IncomeStabilityStable)
	require.NoError(t, err)

	debt := plan.BucketByType(model.BucketTypeDebtPaydown)
	require.NotNil(t, debt)
	require.Len(t, debt.PayoffProjections, 3)

	var prevMonths int
	for i, proj := range debt.PayoffProjections {
		assert.True(t, proj.Estimated, "payoff figures are always heuristic")
		assert.True(t, proj.PaysOff)
		assert.Greater(t, proj.MonthsToPayoff, 0)
		assert.GreaterOrEqual(t, proj.InterestSaved, 0.0)
		if i > 0 {
			// Higher tiers pay off sooner.
			assert.Less(t, proj.MonthsToPayoff, prevMonths)
		}
		prevMonths = proj.MonthsToPayoff
	}

	// Paying more than the minimum saves interest.
	assert.Greater(t, debt.PayoffProjections[2].InterestSaved, 0.0)
}

func TestAmortize(t *testing.T) {
	// Payment below monthly interest never pays off.
	_, _, paysOff := amortize(10000, 0.24, 150)
	assert.False(t, paysOff)

	// Zero APR divides evenly.
	months, interest, paysOff := amortize(1200, 0, 100)
	assert.True(t, paysOff)
	assert.Equal(t, 12, months)
	assert.Zero(t, interest)

	// Standard case: 5000 at 22% APR, 300/month.
	months, interest, paysOff = amortize(5000, 0.22, 300)
	assert.True(t, paysOff)
	assert.Greater(t, months, 16)
	assert.Less(t, months, 24)
	assert.Greater(t, interest, 0.0)
}

func TestValidationErrorUnwraps(t *testing.T) {
	err := error(&ValidationError{Reason: model.InvalidReasonNoDisposableIncome})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), "disposable income")
}
