package classify

import (
	"strings"

	"github.com/bucketwise/backend/internal/model"
)

// Kind is the classification of a single transaction.
type Kind string

const (
	KindIncome                 Kind = "income"
	KindInvestmentContribution Kind = "investment_contribution"
	KindInternalTransfer       Kind = "internal_transfer"
	KindEssentialExpense       Kind = "essential_expense"
	KindDiscretionaryExpense   Kind = "discretionary_expense"
	// KindExcluded covers inflows with no income signal: better to
	// undercount income than to count a transfer as income.
	KindExcluded Kind = "excluded"
)

// Result is the full classification of one transaction.
type Result struct {
	Kind       Kind
	Category   Category
	Breakdown  model.ExpenseCategory
	Confidence float64
	// NeedsReview marks ambiguous cross-institution transfers that must be
	// confirmed by the user rather than silently included or excluded.
	NeedsReview bool
}

// Classify labels a transaction. Precedence: investment contributions win
// over income (a 401k match must never inflate income), transfers win over
// expenses, then essential vs discretionary for outflows.
func Classify(t model.Transaction) Result {
	cat := MapCategory(t.CategoryLabels)
	text := strings.ToLower(t.Text())

	if IsInvestmentContribution(t) {
		return Result{Kind: KindInvestmentContribution, Category: CategoryInvestment, Confidence: confidence(t, CategoryInvestment, text)}
	}

	internal, needsReview := IsInternalTransfer(t)
	if internal {
		return Result{Kind: KindInternalTransfer, Category: CategoryTransfer, Confidence: confidence(t, CategoryTransfer, text)}
	}
	if needsReview {
		return Result{Kind: KindExcluded, Category: CategoryTransfer, NeedsReview: true, Confidence: 0.3}
	}

	if t.IsInflow() {
		if IsActualIncome(t) {
			return Result{Kind: KindIncome, Category: CategoryIncome, Confidence: confidence(t, CategoryIncome, text)}
		}
		// Inflow with no income match: excluded from both income and
		// expense.
		return Result{Kind: KindExcluded, Category: cat, Confidence: 0.5}
	}

	if t.IsOutflow() {
		if ess, bc := isEssential(t, cat, text); ess {
			return Result{Kind: KindEssentialExpense, Category: cat, Breakdown: bc, Confidence: confidence(t, cat, text)}
		}
		return Result{Kind: KindDiscretionaryExpense, Category: cat, Breakdown: model.ExpenseCategoryOther, Confidence: confidence(t, cat, text)}
	}

	// Zero-amount records carry no information.
	return Result{Kind: KindExcluded, Category: cat, Confidence: 0}
}

// IsActualIncome reports whether the transaction is real income: an inflow
// matching the income vocabulary that is not an investment contribution.
// Transfer-labelled inflows are excluded unconditionally; provider
// taxonomies overload "credit" transactions, and without this exclusion
// employer 401k matches and savings sweeps inflate income badly.
func IsActualIncome(t model.Transaction) bool {
	if !t.IsInflow() {
		return false
	}
	if IsInvestmentContribution(t) {
		return false
	}
	cat := MapCategory(t.CategoryLabels)
	if cat == CategoryTransfer {
		return false
	}
	for _, label := range t.CategoryLabels {
		if strings.Contains(strings.ToLower(label), "transfer") {
			return false
		}
	}
	if cat == CategoryIncome {
		return true
	}
	return containsAny(strings.ToLower(t.Text()), incomeTerms)
}

// IsInvestmentContribution reports whether the transaction moves money into
// a retirement or brokerage position. Direction does not matter: these are
// never income and never expense, only position contributions.
func IsInvestmentContribution(t model.Transaction) bool {
	if MapCategory(t.CategoryLabels) == CategoryInvestment {
		return true
	}
	text := strings.ToLower(t.Text())
	if containsAny(text, retirementTerms) || containsAnyToken(text, retirementTokens) {
		return true
	}
	if containsAny(text, brokerageNames) {
		// Outbound flows to a brokerage are contributions even without a
		// contribution term; inbound needs the explicit term.
		if t.IsOutflow() {
			return true
		}
		return containsAny(text, contributionTerms)
	}
	return false
}

// IsInternalTransfer reports whether the transaction is same-institution
// account-to-account movement. Deliberately conservative: ambiguous
// cross-institution transfers return (false, true), flagged for user
// review, not silently classified either way. False negatives double-count
// the same cash movement; false positives hide real spending.
func IsInternalTransfer(t model.Transaction) (internal, needsReview bool) {
	text := strings.ToLower(t.Text())
	if containsAny(text, internalTransferTerms) {
		return true, false
	}
	if containsAny(text, ambiguousTransferTerms) {
		return false, true
	}
	if MapCategory(t.CategoryLabels) == CategoryTransfer {
		// Transfer-labelled but no internal marker in the text: ambiguous.
		return false, true
	}
	return false, false
}

// IsEssentialExpense reports whether an outflow is a non-negotiable living
// cost. Transfers and contributions are never expenses of either kind.
func IsEssentialExpense(t model.Transaction) bool {
	if !t.IsOutflow() || IsInvestmentContribution(t) {
		return false
	}
	if internal, review := IsInternalTransfer(t); internal || review {
		return false
	}
	ess, _ := isEssential(t, MapCategory(t.CategoryLabels), strings.ToLower(t.Text()))
	return ess
}

func isEssential(t model.Transaction, cat Category, text string) (bool, model.ExpenseCategory) {
	if _, ok := essentialCategories[cat]; ok {
		// Transportation is essential only for commuting-shaped spend; the
		// breakdown slot is the same either way.
		return true, BreakdownCategory(cat)
	}
	// Recurring-pattern heuristic for unmatched categories. These land in
	// the "other" slot; non-recurring unmatched outflows stay discretionary
	// so one-off purchases that leak through category gaps cannot creep
	// into essential spend.
	if containsAny(text, recurringTerms) {
		return true, model.ExpenseCategoryOther
	}
	return false, model.ExpenseCategoryOther
}

// Confidence bounds applied on top of the provider's own score.
const (
	unambiguousFloor = 0.9
	ambiguousCeiling = 0.6
	defaultHeuristic = 0.7
)

// unambiguousCategories always score at least unambiguousFloor.
var unambiguousCategories = map[Category]bool{
	CategoryHousing:   true,
	CategoryUtilities: true,
	CategoryIncome:    true,
}

// confidence derives the classification confidence from the provider score
// where present, boosted for unambiguous categories and capped for known
// payment-rail merchants that are frequently miscategorized.
func confidence(t model.Transaction, cat Category, text string) float64 {
	score := t.CategoryConfidence
	if score <= 0 {
		score = defaultHeuristic
	}
	if unambiguousCategories[cat] && score < unambiguousFloor {
		score = unambiguousFloor
	}
	if containsAny(text, p2pRails) && score > ambiguousCeiling {
		score = ambiguousCeiling
	}
	if score > 1 {
		score = 1
	}
	return score
}
