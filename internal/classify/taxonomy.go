// Package classify labels individual bank transactions as income,
// investment contribution, internal transfer, essential expense or
// discretionary expense. All functions are pure and never return errors:
// missing or unparseable category data falls through to text heuristics,
// and total absence of signal defaults conservatively (outflow to
// discretionary, unmatched inflow excluded from both income and expense).
package classify

import (
	"strings"
	"unicode"

	"github.com/bucketwise/backend/internal/model"
)

// Category is the closed internal taxonomy. Provider label strings are
// mapped onto it by MapCategory, isolating the fragile text matching from
// the rest of the engine, which operates only on this enumeration.
type Category string

const (
	CategoryUnknown     Category = "unknown"
	CategoryIncome      Category = "income"
	CategoryTransfer    Category = "transfer"
	CategoryInvestment  Category = "investment"
	CategoryDebtPayment Category = "debt_payment"

	CategoryHousing        Category = "housing"
	CategoryGroceries      Category = "groceries"
	CategoryDining         Category = "dining"
	CategoryTransportation Category = "transportation"
	CategoryUtilities      Category = "utilities"
	CategoryInsurance      Category = "insurance"
	CategorySubscriptions  Category = "subscriptions"
	CategoryHealthcare     Category = "healthcare"
	CategoryEducation      Category = "education"
	CategoryFees           Category = "fees"
	CategoryShopping       Category = "shopping"
	CategoryEntertainment  Category = "entertainment"
	CategoryTravel         Category = "travel"
)

// labelKeywords maps provider-label substrings to internal categories.
// Order matters for overlapping keywords, so matching walks labelRules.
var labelRules = []struct {
	keyword  string
	category Category
}{
	// Money movement first: these must win over spending categories because
	// provider taxonomies overload them onto both directions.
	{"401k", CategoryInvestment},
	{"retirement", CategoryInvestment},
	{"ira contribution", CategoryInvestment},
	{"brokerage", CategoryInvestment},
	{"investment", CategoryInvestment},
	{"transfer", CategoryTransfer},

	{"payroll", CategoryIncome},
	{"salary", CategoryIncome},
	{"direct deposit", CategoryIncome},
	{"interest earned", CategoryIncome},
	{"interest income", CategoryIncome},
	{"dividend", CategoryIncome},
	{"tax refund", CategoryIncome},
	{"unemployment", CategoryIncome},
	{"social security", CategoryIncome},
	{"pension", CategoryIncome},

	{"credit card payment", CategoryDebtPayment},
	{"loan payment", CategoryDebtPayment},
	{"student loan", CategoryDebtPayment},
	{"mortgage payment", CategoryDebtPayment},

	{"rent", CategoryHousing},
	{"mortgage", CategoryHousing},
	{"housing", CategoryHousing},

	{"groceries", CategoryGroceries},
	{"grocery", CategoryGroceries},
	{"supermarket", CategoryGroceries},
	{"restaurant", CategoryDining},
	{"fast food", CategoryDining},
	{"coffee", CategoryDining},
	{"food and drink", CategoryDining},

	{"gas station", CategoryTransportation},
	{"fuel", CategoryTransportation},
	{"public transit", CategoryTransportation},
	{"parking", CategoryTransportation},
	{"ride share", CategoryTransportation},
	{"taxi", CategoryTransportation},
	{"automotive", CategoryTransportation},

	{"electric", CategoryUtilities},
	{"water utility", CategoryUtilities},
	{"gas utility", CategoryUtilities},
	{"internet", CategoryUtilities},
	{"phone", CategoryUtilities},
	{"telecommunication", CategoryUtilities},
	{"utilities", CategoryUtilities},
	{"utility", CategoryUtilities},

	{"insurance", CategoryInsurance},

	{"subscription", CategorySubscriptions},
	{"streaming", CategorySubscriptions},
	{"membership", CategorySubscriptions},

	{"pharmacy", CategoryHealthcare},
	{"medical", CategoryHealthcare},
	{"dentist", CategoryHealthcare},
	{"doctor", CategoryHealthcare},
	{"healthcare", CategoryHealthcare},
	{"hospital", CategoryHealthcare},

	{"childcare", CategoryEducation},
	{"tuition", CategoryEducation},
	{"education", CategoryEducation},

	{"bank fee", CategoryFees},
	{"overdraft", CategoryFees},
	{"atm fee", CategoryFees},
	{"service charge", CategoryFees},

	{"travel", CategoryTravel},
	{"airline", CategoryTravel},
	{"hotel", CategoryTravel},
	{"entertainment", CategoryEntertainment},
	{"recreation", CategoryEntertainment},
	{"shopping", CategoryShopping},
	{"merchandise", CategoryShopping},
	{"clothing", CategoryShopping},
}

// MapCategory maps the provider's label path to the internal taxonomy.
// Labels are most-specific first, so the first label that matches any rule
// wins; later labels are only consulted when earlier ones match nothing.
func MapCategory(labels []string) Category {
	for _, label := range labels {
		l := strings.ToLower(label)
		for _, rule := range labelRules {
			if strings.Contains(l, rule.keyword) {
				return rule.category
			}
		}
	}
	return CategoryUnknown
}

// essentialCategories are the taxonomy entries treated as non-negotiable
// living costs, with the expense-breakdown category each feeds.
var essentialCategories = map[Category]model.ExpenseCategory{
	CategoryHousing:        model.ExpenseCategoryHousing,
	CategoryGroceries:      model.ExpenseCategoryFood,
	CategoryUtilities:      model.ExpenseCategoryUtilities,
	CategoryInsurance:      model.ExpenseCategoryInsurance,
	CategorySubscriptions:  model.ExpenseCategorySubscriptions,
	CategoryHealthcare:     model.ExpenseCategoryHealthcare,
	CategoryEducation:      model.ExpenseCategoryOther,
	CategoryFees:           model.ExpenseCategoryOther,
	CategoryDebtPayment:    model.ExpenseCategoryOther,
	CategoryTransportation: model.ExpenseCategoryTransportation,
}

// BreakdownCategory returns the expense-breakdown slot for an internal
// category, defaulting to Other.
func BreakdownCategory(cat Category) model.ExpenseCategory {
	if bc, ok := essentialCategories[cat]; ok {
		return bc
	}
	return model.ExpenseCategoryOther
}

// incomeTerms match merchant text for income when the provider labels give
// no signal.
var incomeTerms = []string{
	"payroll", "direct dep", "dir dep", "salary", "paycheck",
	"tax refund", "irs treas", "unemployment", "social security",
	"ssa treas", "dividend", "interest payment", "pension",
}

// brokerageNames is a fixed list of retirement/brokerage platforms. Known
// gap: brokerages not on this list are not recognized by merchant text.
var brokerageNames = []string{
	"vanguard", "fidelity", "schwab", "charles schwab", "etrade",
	"e*trade", "robinhood", "wealthfront", "betterment", "merrill",
	"t. rowe price", "t rowe price", "tiaa", "acorns", "m1 finance",
	"computershare", "empower retirement", "principal financial",
}

// contributionTerms are the contribution-indicating words required next to
// a brokerage name before merchant text alone classifies as a contribution.
var contributionTerms = []string{
	"contribution", "contrib", "transfer", "deposit", "buy", "purchase", "invest",
}

// retirementTerms classify regardless of direction when present in merchant
// text.
var retirementTerms = []string{"401k", "401(k)", "roth ira", "sep ira", "403b", "hsa contribution"}

// retirementTokens match as whole words only. "ira" as a substring hits
// unrelated merchants ("ADMIRAL INSURANCE", "MIRACLE CLEANERS").
var retirementTokens = []string{"ira"}

// internalTransferTerms mark explicit same-institution movement.
var internalTransferTerms = []string{
	"online transfer to", "online transfer from", "transfer to savings",
	"transfer from savings", "transfer to checking", "transfer from checking",
	"internal transfer", "own account",
}

// ambiguousTransferTerms look like transfers but may cross institutions;
// these are flagged for review rather than auto-classified either way.
var ambiguousTransferTerms = []string{
	"wire transfer", "ach transfer", "external transfer", "xfer",
}

// p2pRails are payment-rail merchants that are frequently miscategorized;
// classifier confidence is capped for them regardless of provider
// confidence.
var p2pRails = []string{
	"venmo", "zelle", "cash app", "cashapp", "paypal", "apple cash", "atm withdrawal", "atm",
}

// recurringTerms is the recurring-pattern text heuristic used when category
// matching produced nothing specific.
var recurringTerms = []string{"monthly", "subscription", "membership", "bill pay", "autopay", "auto pay"}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func containsAnyToken(text string, tokens []string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, field := range fields {
		for _, token := range tokens {
			if field == token {
				return true
			}
		}
	}
	return false
}
