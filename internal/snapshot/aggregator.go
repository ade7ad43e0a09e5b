// Package snapshot builds the FinancialSnapshot: it applies the classifier
// to a provider transaction feed, restricts to the trailing analysis
// window, and aggregates monthly cash flow and point-in-time position.
// Everything here is a deterministic function of its inputs: identical
// inputs produce bit-identical snapshots.
package snapshot

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bucketwise/backend/internal/classify"
	"github.com/bucketwise/backend/internal/model"
)

// WindowMonths is the trailing analysis window.
const WindowMonths = 6

// snapshotNamespace seeds deterministic snapshot IDs so rebuilding from the
// same feed at the same time yields the same snapshot, and plans can
// reference the snapshot they were derived from.
var snapshotNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

// Build aggregates the transaction and account feeds into a snapshot as of
// the given time, plus the review items for transactions the classifier
// could not confidently place. Pending transactions and malformed records
// are dropped before aggregation; malformed records are counted in
// metadata, never absorbed as zero.
//
// resolutions carries the user's prior review decisions keyed by
// transaction ID. A transaction the classifier would flag again is instead
// classified per the decision: internal stays out of the flow as an own
// account transfer, external counts in the flow like any classified
// transaction. Unresolved flags surface as review items as usual.
func Build(userID string, txns []model.Transaction, accounts []model.Account, resolutions map[string]string, now time.Time) (model.FinancialSnapshot, []model.ReviewItem) {
	cutoff := now.AddDate(0, -WindowMonths, 0)

	var (
		window   []model.Transaction
		rejected int
	)
	for _, t := range txns {
		if malformed(t) {
			rejected++
			continue
		}
		if t.Pending {
			continue
		}
		if t.Date.Before(cutoff) || t.Date.After(now) {
			continue
		}
		window = append(window, t)
	}

	snap := model.FinancialSnapshot{
		ID:        uuid.NewSHA1(snapshotNamespace, []byte(userID+"/"+now.UTC().Format(time.RFC3339))).String(),
		UserID:    userID,
		CreatedAt: now,
		Metadata: model.SnapshotMetadata{
			TransactionsAnalyzed: len(window),
			RejectedRecords:      rejected,
		},
	}

	if len(window) == 0 {
		// Zeroed flow and position, confidence zero. Never divide by zero
		// months.
		snap.Metadata.MonthsAnalyzed = 1
		snap.Position = buildPosition(accounts, nil, 1)
		snap.MonthlyFlow.DebtMinimums, snap.MonthlyFlow.DebtMinimumsEstimated = debtMinimums(accounts)
		snap.Metadata.ContainsEstimates = snap.MonthlyFlow.DebtMinimumsEstimated
		return snap, nil
	}

	start, end := dateRange(window)
	months := monthsBetween(start, end)
	snap.Metadata.AnalysisStartDate = start
	snap.Metadata.AnalysisEndDate = end
	snap.Metadata.MonthsAnalyzed = months

	var (
		incomeTotal     float64
		contributions   []model.Transaction
		breakdown       model.ExpenseBreakdown
		confidenceSum   float64
		classifiedCount int
		essentialConf   float64
		essentialCount  int
		reviews         []model.ReviewItem
	)

	for _, t := range window {
		res := classify.Classify(t)

		if res.NeedsReview {
			switch resolutions[t.ID] {
			case model.ResolutionInternal:
				res = classify.Result{Kind: classify.KindInternalTransfer, Category: classify.CategoryTransfer, Confidence: 1}
			case model.ResolutionExternal:
				// Confirmed real money movement. Inflows count as income,
				// outflows as essential spend in the Other slot.
				if t.IsInflow() {
					res = classify.Result{Kind: classify.KindIncome, Category: classify.CategoryIncome, Confidence: 1}
				} else {
					res = classify.Result{Kind: classify.KindEssentialExpense, Breakdown: model.ExpenseCategoryOther, Confidence: 1}
				}
			default:
				reviews = append(reviews, reviewItem(userID, t))
				continue
			}
		}

		switch res.Kind {
		case classify.KindIncome:
			incomeTotal += math.Abs(t.Amount)
		case classify.KindEssentialExpense:
			breakdown.Add(res.Breakdown, t.Amount)
			essentialConf += res.Confidence
			essentialCount++
		case classify.KindInvestmentContribution:
			contributions = append(contributions, t)
		case classify.KindInternalTransfer, classify.KindDiscretionaryExpense, classify.KindExcluded:
			// Transfers and discretionary spend do not enter the monthly
			// flow; excluded inflows are counted toward neither side.
		}

		if res.Kind != classify.KindExcluded {
			confidenceSum += res.Confidence
			classifiedCount++
		}
	}

	breakdown.Scale(float64(months))
	if essentialCount > 0 {
		breakdown.Confidence = round2(essentialConf / float64(essentialCount))
	}

	snap.MonthlyFlow.Income = incomeTotal / float64(months)
	snap.MonthlyFlow.EssentialExpenses = breakdown
	snap.MonthlyFlow.DebtMinimums, snap.MonthlyFlow.DebtMinimumsEstimated = debtMinimums(accounts)

	snap.Position = buildPosition(accounts, contributions, months)

	if classifiedCount > 0 {
		snap.Metadata.OverallConfidence = round2(confidenceSum / float64(classifiedCount))
	}
	snap.Metadata.ContainsEstimates = snap.MonthlyFlow.DebtMinimumsEstimated || positionHasEstimates(snap.Position)

	return snap, reviews
}

// malformed reports whether a record cannot be aggregated at all.
func malformed(t model.Transaction) bool {
	if t.ID == "" || t.Date.IsZero() {
		return true
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return true
	}
	return false
}

func dateRange(txns []model.Transaction) (start, end time.Time) {
	start, end = txns[0].Date, txns[0].Date
	for _, t := range txns[1:] {
		if t.Date.Before(start) {
			start = t.Date
		}
		if t.Date.After(end) {
			end = t.Date
		}
	}
	return start, end
}

// averageMonthLength in days, accounting for leap years.
const averageMonthLength = 30.44

// monthsBetween is the span between two dates in average-length months,
// floored at 1 so a single-day window still averages over one month.
func monthsBetween(start, end time.Time) int {
	days := end.Sub(start).Hours() / 24
	months := int(math.Round(days / averageMonthLength))
	if months < 1 {
		return 1
	}
	return months
}

func reviewItem(userID string, t model.Transaction) model.ReviewItem {
	return model.ReviewItem{
		// Deterministic ID: rebuilding the snapshot from the same feed must
		// not duplicate review items.
		ID:            "review-" + t.ID,
		UserID:        userID,
		TransactionID: t.ID,
		MerchantName:  classify.NormalizeMerchant(t.Text()),
		Amount:        t.Amount,
		Date:          t.Date,
		Reason:        "ambiguous transfer: confirm whether this moves money between your own accounts",
		CreatedAt:     t.Date,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
