package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bucketwise/backend/internal/model"
)

func advisorPlan(income float64, amounts map[model.BucketType]float64) *model.AllocationPlan {
	plan := &model.AllocationPlan{ID: "plan1", UserID: "user1", MonthlyIncome: income}
	for bt, amount := range amounts {
		b := &model.AllocationBucket{
			ID:           "b-" + string(bt),
			Type:         bt,
			IsModifiable: bt != model.BucketTypeEssential,
		}
		b.SetAmount(amount)
		plan.Buckets = append(plan.Buckets, b)
	}
	return plan
}

func warningCodes(warnings []model.Warning) []string {
	var codes []string
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}
	return codes
}

func TestAdviseHealthyPlanHasNoWarnings(t *testing.T) {
	plan := advisorPlan(5000, map[model.BucketType]float64{
		model.BucketTypeEssential:     3000,
		model.BucketTypeDiscretionary: 800,
		model.BucketTypeInvestments:   600,
		model.BucketTypeEmergencyFund: 600,
	})
	assert.Empty(t, Advise(DefaultConfig(), plan))
}

func TestAdviseEssentialPressure(t *testing.T) {
	plan := advisorPlan(5000, map[model.BucketType]float64{
		model.BucketTypeEssential:     4200,
		model.BucketTypeDiscretionary: 300,
		model.BucketTypeEmergencyFund: 500,
	})

	warnings := Advise(DefaultConfig(), plan)
	assert.Contains(t, warningCodes(warnings), WarnEssentialPressure)
	for _, w := range warnings {
		if w.Code == WarnEssentialPressure {
			assert.Equal(t, model.WarningSeverityHigh, w.Severity)
			assert.Equal(t, model.BucketTypeEssential, w.BucketType)
			assert.NotEmpty(t, w.Message)
		}
	}

	// Exactly at the threshold does not trigger.
	atThreshold := advisorPlan(5000, map[model.BucketType]float64{
		model.BucketTypeEssential:     4000,
		model.BucketTypeDiscretionary: 500,
		model.BucketTypeEmergencyFund: 500,
	})
	assert.NotContains(t, warningCodes(Advise(DefaultConfig(), atThreshold)), WarnEssentialPressure)
}

func TestAdviseDiscretionaryLow(t *testing.T) {
	plan := advisorPlan(5000, map[model.BucketType]float64{
		model.BucketTypeEssential:     3000,
		model.BucketTypeDiscretionary: 100,
		model.BucketTypeInvestments:   1000,
		model.BucketTypeEmergencyFund: 900,
	})

	warnings := Advise(DefaultConfig(), plan)
	require.Contains(t, warningCodes(warnings), WarnDiscretionaryLow)
	for _, w := range warnings {
		if w.Code == WarnDiscretionaryLow {
			assert.Equal(t, model.WarningSeverityInfo, w.Severity)
		}
	}
}

func TestAdviseEmergencyLow(t *testing.T) {
	plan := advisorPlan(5000, map[model.BucketType]float64{
		model.BucketTypeEssential:     3000,
		model.BucketTypeDiscretionary: 1000,
		model.BucketTypeInvestments:   900,
		model.BucketTypeEmergencyFund: 100,
	})

	warnings := Advise(DefaultConfig(), plan)
	require.Contains(t, warningCodes(warnings), WarnEmergencyLow)
	for _, w := range warnings {
		if w.Code == WarnEmergencyLow {
			assert.Equal(t, model.WarningSeverityHigh, w.Severity)
		}
	}
}

func TestAdviseMultipleWarningsCoexist(t *testing.T) {
	plan := advisorPlan(5000, map[model.BucketType]float64{
		model.BucketTypeEssential:     4300,
		model.BucketTypeDiscretionary: 100,
		model.BucketTypeInvestments:   500,
		model.BucketTypeEmergencyFund: 100,
	})

	codes := warningCodes(Advise(DefaultConfig(), plan))
	assert.Contains(t, codes, WarnEssentialPressure)
	assert.Contains(t, codes, WarnDiscretionaryLow)
	assert.Contains(t, codes, WarnEmergencyLow)
}

func TestAdviseSkipsNonPositiveIncome(t *testing.T) {
	plan := advisorPlan(0, map[model.BucketType]float64{
		model.BucketTypeEssential: 1000,
	})
	assert.Nil(t, Advise(DefaultConfig(), plan))
}

func TestAdviseSkipsMissingBuckets(t *testing.T) {
	// A plan without a debt bucket, or with buckets missing entirely, only
	// checks what exists.
	plan := advisorPlan(5000, map[model.BucketType]float64{
		model.BucketTypeEssential: 3000,
	})
	assert.Empty(t, Advise(DefaultConfig(), plan))
}
