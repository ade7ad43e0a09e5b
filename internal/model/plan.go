package model

import (
	"math"
	"time"
)

// BucketType identifies one slice of the allocation plan.
type BucketType string

const (
	BucketTypeEssential     BucketType = "essential"
	BucketTypeDiscretionary BucketType = "discretionary"
	BucketTypeEmergencyFund BucketType = "emergency_fund"
	BucketTypeInvestments   BucketType = "investments"
	BucketTypeDebtPaydown   BucketType = "debt_paydown"
)

// IncomeStability is the externally-determined income pattern
// classification that seeds the allocation percentage table.
type IncomeStability string

const (
	IncomeStabilityStable       IncomeStability = "stable"
	IncomeStabilityVariable     IncomeStability = "variable"
	IncomeStabilityInconsistent IncomeStability = "inconsistent"
)

// PresetTier names one of the three suggested amounts for a flexible bucket.
type PresetTier string

const (
	PresetTierLow         PresetTier = "low"
	PresetTierRecommended PresetTier = "recommended"
	PresetTierHigh        PresetTier = "high"
)

// PresetTiers lists tiers in ascending order.
var PresetTiers = []PresetTier{PresetTierLow, PresetTierRecommended, PresetTierHigh}

// PresetOptions holds the three suggested monthly amounts for a bucket.
type PresetOptions struct {
	Low         float64 `json:"low"`
	Recommended float64 `json:"recommended"`
	High        float64 `json:"high"`
}

// Amount returns the amount for the named tier, defaulting to Recommended.
func (p PresetOptions) Amount(tier PresetTier) float64 {
	switch tier {
	case PresetTierLow:
		return p.Low
	case PresetTierHigh:
		return p.High
	default:
		return p.Recommended
	}
}

// EmergencyDurationOption is one coverage-duration variant for the
// emergency fund (3, 6 or 12 months of essential expenses).
type EmergencyDurationOption struct {
	Months        int           `json:"months"`
	TargetAmount  float64       `json:"targetAmount"`
	Shortfall     float64       `json:"shortfall"`
	Contributions PresetOptions `json:"contributions"`
	IsRecommended bool          `json:"isRecommended,omitempty"`
}

// EmergencyFundDetail carries the emergency-fund-only bucket fields.
type EmergencyFundDetail struct {
	TargetAmount    float64                   `json:"targetAmount"`
	MonthsToTarget  float64                   `json:"monthsToTarget"`
	DurationOptions []EmergencyDurationOption `json:"durationOptions"`
}

// ProjectedBalance is one point of an investment growth projection.
type ProjectedBalance struct {
	Years   int     `json:"years"`
	Balance float64 `json:"balance"`
}

// GrowthProjection projects investment balances for one preset tier's
// monthly contribution, compounded monthly at the configured nominal rate.
type GrowthProjection struct {
	Tier                PresetTier         `json:"tier"`
	MonthlyContribution float64            `json:"monthlyContribution"`
	AnnualRate          float64            `json:"annualRate"`
	Projections         []ProjectedBalance `json:"projections"`
}

// PayoffProjection is a debt payoff timeline for one preset tier's payment
// level, computed against the weighted-average APR. Always heuristic, never
// provider data, so it is always marked estimated.
type PayoffProjection struct {
	Tier           PresetTier `json:"tier"`
	MonthlyPayment float64    `json:"monthlyPayment"`
	MonthsToPayoff int        `json:"monthsToPayoff"`
	TotalInterest  float64    `json:"totalInterest"`
	InterestSaved  float64    `json:"interestSaved"`
	// PaysOff is false when the payment does not cover accruing interest.
	PaysOff   bool `json:"paysOff"`
	Estimated bool `json:"estimated"`
}

// AllocationBucket is one named slice of the plan.
type AllocationBucket struct {
	ID              string     `json:"id"`
	Type            BucketType `json:"type"`
	Name            string     `json:"name"`
	AllocatedAmount float64    `json:"allocatedAmount"`
	AllocatedCents  int64      `json:"allocatedCents"`
	// IsModifiable is false only for Essential, which is fixed from the
	// snapshot rather than chosen.
	IsModifiable     bool           `json:"isModifiable"`
	PresetOptions    *PresetOptions `json:"presetOptions,omitempty"`
	SelectedTier     PresetTier     `json:"selectedTier,omitempty"`
	LinkedAccountIDs []string       `json:"linkedAccountIds,omitempty"`
	Explanation      string         `json:"explanation,omitempty"`

	EmergencyFund     *EmergencyFundDetail `json:"emergencyFund,omitempty"`
	GrowthProjections []GrowthProjection   `json:"growthProjections,omitempty"`
	PayoffProjections []PayoffProjection   `json:"payoffProjections,omitempty"`
}

// PercentageOfIncome is the bucket's share of disposable income, recomputed
// on read to avoid drift against the stored amount.
func (b AllocationBucket) PercentageOfIncome(disposableIncome float64) float64 {
	if disposableIncome == 0 {
		return 0
	}
	return b.AllocatedAmount / disposableIncome * 100
}

// SetAmount updates the allocated amount, keeping the cents mirror in sync.
func (b *AllocationBucket) SetAmount(amount float64) {
	b.AllocatedAmount = amount
	b.AllocatedCents = Cents(amount)
}

// PlanSumTolerance is the relative tolerance on the flexible-bucket sum
// invariant (0.1% of disposable income).
const PlanSumTolerance = 0.001

// AllocationPlan is the bucket set for one user. The Essential bucket is
// funded from income ahead of the disposable pool; the flexible buckets
// always sum to disposable income.
type AllocationPlan struct {
	ID               string              `json:"id"`
	UserID           string              `json:"userId"`
	SnapshotID       string              `json:"snapshotId"`
	MonthlyIncome    float64             `json:"monthlyIncome"`
	DisposableIncome float64             `json:"disposableIncome"`
	IncomeStability  IncomeStability     `json:"incomeStability"`
	Buckets          []*AllocationBucket `json:"buckets"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// Bucket returns the bucket with the given ID, or nil.
func (p *AllocationPlan) Bucket(id string) *AllocationBucket {
	for _, b := range p.Buckets {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// BucketByType returns the bucket of the given type, or nil.
func (p *AllocationPlan) BucketByType(t BucketType) *AllocationBucket {
	for _, b := range p.Buckets {
		if b.Type == t {
			return b
		}
	}
	return nil
}

// FlexibleTotal sums the modifiable buckets.
func (p *AllocationPlan) FlexibleTotal() float64 {
	var total float64
	for _, b := range p.Buckets {
		if b.IsModifiable {
			total += b.AllocatedAmount
		}
	}
	return total
}

// CheckSum reports whether the flexible buckets sum to disposable income
// within tolerance. Violations after a Planner run or a rebalance pass are
// bugs, not valid transients.
func (p *AllocationPlan) CheckSum() bool {
	tolerance := math.Abs(p.DisposableIncome) * PlanSumTolerance
	if tolerance < 0.01 {
		tolerance = 0.01
	}
	return math.Abs(p.FlexibleTotal()-p.DisposableIncome) <= tolerance
}

// Adjustment records one bucket changed by a rebalance pass.
type Adjustment struct {
	BucketID   string     `json:"bucketId"`
	BucketType BucketType `json:"bucketType"`
	OldAmount  float64    `json:"oldAmount"`
	NewAmount  float64    `json:"newAmount"`
}

// WarningSeverity grades an advisor warning.
type WarningSeverity string

const (
	WarningSeverityInfo WarningSeverity = "info"
	WarningSeverityHigh WarningSeverity = "high"
)

// Warning is one budget-health condition flagged by the advisor.
type Warning struct {
	Code       string          `json:"code"`
	Severity   WarningSeverity `json:"severity"`
	BucketType BucketType      `json:"bucketType,omitempty"`
	Message    string          `json:"message"`
}

// ReviewItem is a transaction the classifier could not confidently label as
// internal-transfer vs external movement. It is surfaced for user
// confirmation, never defaulted silently in either direction.
type ReviewItem struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	TransactionID string    `json:"transactionId"`
	MerchantName  string    `json:"merchantName"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	Reason        string    `json:"reason"`
	Resolved      bool      `json:"resolved"`
	// Resolution is "internal" or "external" once the user has decided.
	Resolution string    `json:"resolution,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Review resolution vocabulary. Internal means the movement stays between
// the user's own accounts; external means real money left or entered the
// household and counts in the monthly flow.
const (
	ResolutionInternal = "internal"
	ResolutionExternal = "external"
)

// AccountLink associates bank accounts with a bucket for display
// aggregation. Keyed by bucket type, not ID, so links survive plan
// regeneration.
type AccountLink struct {
	UserID     string     `json:"userId"`
	BucketType BucketType `json:"bucketType"`
	AccountIDs []string   `json:"accountIds"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// PresetSelection records the user's chosen tier for a bucket type; like
// account links it survives plan regeneration.
type PresetSelection struct {
	UserID     string     `json:"userId"`
	BucketType BucketType `json:"bucketType"`
	Tier       PresetTier `json:"tier"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
