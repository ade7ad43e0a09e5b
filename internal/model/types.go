// Package model defines the plain value types the planning engine operates
// on. Everything here is JSON-serializable and safe to cache or persist;
// derived figures are computed on read rather than stored, so they can never
// drift from the fields they are derived from.
package model

import "time"

// Amount sign convention throughout the engine: positive = outflow from the
// account, negative = inflow. This matches the banking provider feed.

// AccountType is the provider's coarse account classification.
type AccountType string

const (
	AccountTypeDepository AccountType = "depository"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeInvestment AccountType = "investment"
)

// Transaction is a single provider-synced transaction. The engine never
// mutates transactions, it only derives classifications from them.
type Transaction struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"`
	// MerchantName is the provider's cleaned merchant string; Description is
	// the raw statement text. Either may be empty.
	MerchantName string `json:"merchantName,omitempty"`
	Description  string `json:"description,omitempty"`
	// CategoryLabels is the provider taxonomy path, most specific first.
	CategoryLabels []string `json:"categoryLabels,omitempty"`
	// CategoryConfidence is the provider's own confidence in its labels,
	// 0..1. Zero means the provider supplied none.
	CategoryConfidence float64 `json:"categoryConfidence,omitempty"`
	Pending            bool    `json:"pending,omitempty"`
}

// Text returns the best available merchant text for heuristic matching.
func (t Transaction) Text() string {
	if t.MerchantName != "" {
		return t.MerchantName
	}
	return t.Description
}

// IsInflow reports whether money moved into the account.
func (t Transaction) IsInflow() bool { return t.Amount < 0 }

// IsOutflow reports whether money moved out of the account.
func (t Transaction) IsOutflow() bool { return t.Amount > 0 }

// Account is a provider-synced account. Optional provider fields are
// pointers so "absent" is distinguishable from zero; the aggregator
// substitutes deterministic estimates for missing credit/loan fields.
type Account struct {
	ID               string      `json:"id"`
	Name             string      `json:"name,omitempty"`
	Type             AccountType `json:"type"`
	Subtype          string      `json:"subtype,omitempty"`
	CurrentBalance   float64     `json:"currentBalance"`
	AvailableBalance *float64    `json:"availableBalance,omitempty"`
	MinimumPayment   *float64    `json:"minimumPayment,omitempty"`
	APR              *float64    `json:"apr,omitempty"`
}

// ExpenseCategory is one of the eight fixed essential-expense breakdown
// categories.
type ExpenseCategory string

const (
	ExpenseCategoryHousing        ExpenseCategory = "housing"
	ExpenseCategoryFood           ExpenseCategory = "food"
	ExpenseCategoryTransportation ExpenseCategory = "transportation"
	ExpenseCategoryUtilities      ExpenseCategory = "utilities"
	ExpenseCategoryInsurance      ExpenseCategory = "insurance"
	ExpenseCategorySubscriptions  ExpenseCategory = "subscriptions"
	ExpenseCategoryHealthcare     ExpenseCategory = "healthcare"
	ExpenseCategoryOther          ExpenseCategory = "other"
)

// ExpenseCategories lists all breakdown categories in display order.
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategoryHousing,
	ExpenseCategoryFood,
	ExpenseCategoryTransportation,
	ExpenseCategoryUtilities,
	ExpenseCategoryInsurance,
	ExpenseCategorySubscriptions,
	ExpenseCategoryHealthcare,
	ExpenseCategoryOther,
}

// ExpenseBreakdown decomposes monthly essential spending into the eight
// fixed categories. All amounts are non-negative monthly averages.
type ExpenseBreakdown struct {
	Housing        float64 `json:"housing"`
	Food           float64 `json:"food"`
	Transportation float64 `json:"transportation"`
	Utilities      float64 `json:"utilities"`
	Insurance      float64 `json:"insurance"`
	Subscriptions  float64 `json:"subscriptions"`
	Healthcare     float64 `json:"healthcare"`
	Other          float64 `json:"other"`
	Confidence     float64 `json:"confidence"`
}

// Total is the sum of all categories. Recomputed on read so it cannot drift.
func (b ExpenseBreakdown) Total() float64 {
	return b.Housing + b.Food + b.Transportation + b.Utilities +
		b.Insurance + b.Subscriptions + b.Healthcare + b.Other
}

// Add accumulates amount into the named category.
func (b *ExpenseBreakdown) Add(cat ExpenseCategory, amount float64) {
	switch cat {
	case ExpenseCategoryHousing:
		b.Housing += amount
	case ExpenseCategoryFood:
		b.Food += amount
	case ExpenseCategoryTransportation:
		b.Transportation += amount
	case ExpenseCategoryUtilities:
		b.Utilities += amount
	case ExpenseCategoryInsurance:
		b.Insurance += amount
	case ExpenseCategorySubscriptions:
		b.Subscriptions += amount
	case ExpenseCategoryHealthcare:
		b.Healthcare += amount
	default:
		b.Other += amount
	}
}

// Get returns the amount in the named category.
func (b ExpenseBreakdown) Get(cat ExpenseCategory) float64 {
	switch cat {
	case ExpenseCategoryHousing:
		return b.Housing
	case ExpenseCategoryFood:
		return b.Food
	case ExpenseCategoryTransportation:
		return b.Transportation
	case ExpenseCategoryUtilities:
		return b.Utilities
	case ExpenseCategoryInsurance:
		return b.Insurance
	case ExpenseCategorySubscriptions:
		return b.Subscriptions
	case ExpenseCategoryHealthcare:
		return b.Healthcare
	default:
		return b.Other
	}
}

// Scale divides every category by the given divisor in place.
func (b *ExpenseBreakdown) Scale(divisor float64) {
	if divisor == 0 {
		return
	}
	b.Housing /= divisor
	b.Food /= divisor
	b.Transportation /= divisor
	b.Utilities /= divisor
	b.Insurance /= divisor
	b.Subscriptions /= divisor
	b.Healthcare /= divisor
	b.Other /= divisor
}

// MonthlyFlow is the monthly cash-flow summary over the analysis window.
type MonthlyFlow struct {
	Income            float64          `json:"income"`
	EssentialExpenses ExpenseBreakdown `json:"essentialExpenses"`
	DebtMinimums      float64          `json:"debtMinimums"`
	// DebtMinimumsEstimated is set when any minimum payment was estimated
	// rather than provider-sourced.
	DebtMinimumsEstimated bool `json:"debtMinimumsEstimated,omitempty"`
}

// DisposableIncome may be negative; that signals a budget-health failure,
// not an error.
func (f MonthlyFlow) DisposableIncome() float64 {
	return f.Income - f.EssentialExpenses.Total() - f.DebtMinimums
}

// DebtType classifies a debt account for payoff planning.
type DebtType string

const (
	DebtTypeCreditCard   DebtType = "credit-card"
	DebtTypeStudentLoan  DebtType = "student-loan"
	DebtTypeAutoLoan     DebtType = "auto-loan"
	DebtTypePersonalLoan DebtType = "personal-loan"
	DebtTypeMortgage     DebtType = "mortgage"
	DebtTypeOther        DebtType = "other"
)

// DebtAccount is one credit or loan account in the financial position.
type DebtAccount struct {
	ID             string   `json:"id"`
	Name           string   `json:"name,omitempty"`
	Type           DebtType `json:"type"`
	Balance        float64  `json:"balance"`
	APR            float64  `json:"apr"`
	MinimumPayment float64  `json:"minimumPayment"`
	// Estimated marks APR/minimum figures produced by heuristic rather than
	// provider data, so the UI can distinguish them from bank-sourced values.
	Estimated bool `json:"estimated,omitempty"`
}

// MonthlyInterestCost is the interest accruing per month at the current
// balance and APR.
func (d DebtAccount) MonthlyInterestCost() float64 {
	return d.Balance * d.APR / 12
}

// FinancialPosition is the point-in-time balance summary.
type FinancialPosition struct {
	EmergencyCash                  float64       `json:"emergencyCash"`
	DebtBalances                   []DebtAccount `json:"debtBalances,omitempty"`
	InvestmentBalances             float64       `json:"investmentBalances"`
	MonthlyInvestmentContributions float64       `json:"monthlyInvestmentContributions"`
}

// TotalDebt is the sum of all debt balances.
func (p FinancialPosition) TotalDebt() float64 {
	var total float64
	for _, d := range p.DebtBalances {
		total += d.Balance
	}
	return total
}

// WeightedAverageAPR is the balance-weighted APR across debt accounts,
// zero when there is no debt.
func (p FinancialPosition) WeightedAverageAPR() float64 {
	total := p.TotalDebt()
	if total == 0 {
		return 0
	}
	var weighted float64
	for _, d := range p.DebtBalances {
		weighted += d.Balance * d.APR
	}
	return weighted / total
}

// NetWorth is liquid cash plus investments minus debt.
func (p FinancialPosition) NetWorth() float64 {
	return p.EmergencyCash + p.InvestmentBalances - p.TotalDebt()
}

// SnapshotMetadata describes how the snapshot was derived.
type SnapshotMetadata struct {
	MonthsAnalyzed       int       `json:"monthsAnalyzed"`
	TransactionsAnalyzed int       `json:"transactionsAnalyzed"`
	RejectedRecords      int       `json:"rejectedRecords,omitempty"`
	OverallConfidence    float64   `json:"overallConfidence"`
	AnalysisStartDate    time.Time `json:"analysisStartDate"`
	AnalysisEndDate      time.Time `json:"analysisEndDate"`
	// ContainsEstimates is set when any figure in the snapshot (debt
	// minimums, APRs) was estimated rather than provider-sourced.
	ContainsEstimates bool `json:"containsEstimates,omitempty"`
}

// MinimumPlanningConfidence is the overall-confidence floor below which a
// snapshot cannot seed an allocation plan.
const MinimumPlanningConfidence = 0.5

// FinancialSnapshot combines monthly flow and position with analysis
// metadata. It is recomputed as a whole when new data arrives; there is no
// incremental patching.
type FinancialSnapshot struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	MonthlyFlow MonthlyFlow       `json:"monthlyFlow"`
	Position    FinancialPosition `json:"position"`
	Metadata    SnapshotMetadata  `json:"metadata"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// InvalidReason identifies which allocation precondition a snapshot fails.
type InvalidReason string

const (
	InvalidReasonNone                InvalidReason = ""
	InvalidReasonNoDisposableIncome  InvalidReason = "no_disposable_income"
	InvalidReasonInsufficientHistory InvalidReason = "insufficient_confidence"
)

// ValidForAllocation reports whether the snapshot can seed a plan and, when
// it cannot, which condition failed. Negative disposable income is checked
// first so the caller always sees the more actionable failure.
func (s FinancialSnapshot) ValidForAllocation() (bool, InvalidReason) {
	if s.MonthlyFlow.DisposableIncome() <= 0 {
		return false, InvalidReasonNoDisposableIncome
	}
	if s.Metadata.OverallConfidence < MinimumPlanningConfidence {
		return false, InvalidReasonInsufficientHistory
	}
	return true, InvalidReasonNone
}

// Cents converts a dollar amount to integer cents, rounding half away from
// zero.
func Cents(amount float64) int64 {
	if amount < 0 {
		return -Cents(-amount)
	}
	return int64(amount*100 + 0.5)
}
