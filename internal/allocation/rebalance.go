package allocation

import (
	"errors"
	"fmt"
	"math"

	"github.com/bucketwise/backend/internal/model"
)

// Rebalancing errors.
var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrNotModifiable  = errors.New("bucket is not modifiable")
	ErrNegativeAmount = errors.New("bucket amount cannot be negative")
)

// EditThreshold is the no-op floor: amount changes below one cent are not
// applied and not reported, so floating-point dust never generates
// notifications.
const EditThreshold = 0.01

// absorptionOrder is the fixed priority in which other buckets give up
// money when an edit increases a bucket. Discretionary spending is the most
// elastic; emergency-fund erosion has the highest long-term cost, so it is
// the last resort. This ordering is product policy and must be preserved
// exactly, including the tie-break: the first bucket in order absorbs as
// much as it can before the next is touched, never a proportional split.
var absorptionOrder = []model.BucketType{
	model.BucketTypeDiscretionary,
	model.BucketTypeInvestments,
	model.BucketTypeDebtPaydown,
	model.BucketTypeEmergencyFund,
}

// EditResult reports the outcome of one rebalancing pass.
type EditResult struct {
	// Plan is the updated bucket set; the input plan is never mutated.
	Plan *model.AllocationPlan `json:"plan"`
	// Adjustments lists every bucket other than the edited one that
	// changed, with old and new amounts.
	Adjustments []model.Adjustment `json:"adjustments,omitempty"`
	// Clamped is set when the requested edit could not be fully absorbed
	// (all other buckets at floor) and the applied amount was reduced to
	// keep the sum invariant. Distinct from failure: the plan is valid,
	// the change was partially applied.
	Clamped         bool    `json:"clamped,omitempty"`
	RequestedAmount float64 `json:"requestedAmount"`
	AppliedAmount   float64 `json:"appliedAmount"`
}

// ApplyEdit sets one bucket to a new amount and redistributes the
// difference across the remaining buckets so the flexible set still sums to
// disposable income. Increases drain other buckets in absorptionOrder, each
// down to its floor of zero before the next is touched. Decreases credit
// the freed money in reverse order, so the emergency fund is replenished
// first. The transient rebalancing state never escapes this call.
func ApplyEdit(plan *model.AllocationPlan, bucketID string, newAmount float64) (EditResult, error) {
	if math.IsNaN(newAmount) || math.IsInf(newAmount, 0) {
		return EditResult{}, fmt.Errorf("invalid amount %v", newAmount)
	}
	if newAmount < 0 {
		return EditResult{}, ErrNegativeAmount
	}

	target := plan.Bucket(bucketID)
	if target == nil {
		return EditResult{}, fmt.Errorf("%w: %s", ErrBucketNotFound, bucketID)
	}
	if !target.IsModifiable {
		return EditResult{}, fmt.Errorf("%w: %s", ErrNotModifiable, target.Type)
	}

	updated := clonePlan(plan)
	edited := updated.Bucket(bucketID)

	oldAmount := edited.AllocatedAmount
	delta := round2(newAmount - oldAmount)
	result := EditResult{
		Plan:            updated,
		RequestedAmount: newAmount,
		AppliedAmount:   oldAmount,
	}
	if math.Abs(delta) < EditThreshold {
		return result, nil
	}

	before := snapshotAmounts(updated)

	var applied float64
	if delta > 0 {
		applied = absorbIncrease(updated, edited, delta)
		result.Clamped = applied < delta
	} else {
		distributeDecrease(updated, edited, -delta)
		applied = delta
	}

	edited.SetAmount(round2(oldAmount + applied))
	result.AppliedAmount = edited.AllocatedAmount
	result.Adjustments = diffAmounts(updated, edited.ID, before)
	return result, nil
}

// absorbIncrease takes up to delta from the other buckets in priority
// order, each down to zero. Returns the amount actually absorbed, which is
// less than delta only when every other bucket is at its floor.
func absorbIncrease(plan *model.AllocationPlan, edited *model.AllocationBucket, delta float64) float64 {
	remaining := delta
	for _, t := range absorptionOrder {
		if remaining < EditThreshold {
			break
		}
		b := plan.BucketByType(t)
		if b == nil || b.ID == edited.ID || !b.IsModifiable {
			continue
		}
		take := math.Min(b.AllocatedAmount, remaining)
		if take < EditThreshold {
			continue
		}
		b.SetAmount(round2(b.AllocatedAmount - take))
		remaining = round2(remaining - take)
	}
	return round2(delta - math.Max(0, remaining))
}

// distributeDecrease credits the freed amount walking the priority order in
// reverse, so the emergency fund is the first to receive. Buckets have no
// ceiling, so the first eligible bucket takes the full amount.
func distributeDecrease(plan *model.AllocationPlan, edited *model.AllocationBucket, freed float64) {
	for i := len(absorptionOrder) - 1; i >= 0; i-- {
		b := plan.BucketByType(absorptionOrder[i])
		if b == nil || b.ID == edited.ID || !b.IsModifiable {
			continue
		}
		b.SetAmount(round2(b.AllocatedAmount + freed))
		return
	}
	// No other flexible bucket exists; the edit cannot free money without
	// breaking the sum, so put it back.
	edited.SetAmount(round2(edited.AllocatedAmount + freed))
}

func snapshotAmounts(plan *model.AllocationPlan) map[string]float64 {
	amounts := make(map[string]float64, len(plan.Buckets))
	for _, b := range plan.Buckets {
		amounts[b.ID] = b.AllocatedAmount
	}
	return amounts
}

func diffAmounts(plan *model.AllocationPlan, editedID string, before map[string]float64) []model.Adjustment {
	var adjustments []model.Adjustment
	for _, b := range plan.Buckets {
		if b.ID == editedID {
			continue
		}
		old := before[b.ID]
		if math.Abs(b.AllocatedAmount-old) < EditThreshold {
			continue
		}
		adjustments = append(adjustments, model.Adjustment{
			BucketID:   b.ID,
			BucketType: b.Type,
			OldAmount:  old,
			NewAmount:  b.AllocatedAmount,
		})
	}
	return adjustments
}

// clonePlan deep-copies a plan so callers observe either the old set or the
// fully rebalanced one, never an intermediate.
func clonePlan(plan *model.AllocationPlan) *model.AllocationPlan {
	cp := *plan
	cp.Buckets = make([]*model.AllocationBucket, len(plan.Buckets))
	for i, b := range plan.Buckets {
		nb := *b
		if b.PresetOptions != nil {
			po := *b.PresetOptions
			nb.PresetOptions = &po
		}
		if b.EmergencyFund != nil {
			ef := *b.EmergencyFund
			ef.DurationOptions = append([]model.EmergencyDurationOption(nil), b.EmergencyFund.DurationOptions...)
			nb.EmergencyFund = &ef
		}
		nb.GrowthProjections = append([]model.GrowthProjection(nil), b.GrowthProjections...)
		nb.PayoffProjections = append([]model.PayoffProjection(nil), b.PayoffProjections...)
		nb.LinkedAccountIDs = append([]string(nil), b.LinkedAccountIDs...)
		cp.Buckets[i] = &nb
	}
	return &cp
}
