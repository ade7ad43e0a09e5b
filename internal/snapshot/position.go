package snapshot

import (
	"math"
	"strings"

	"github.com/bucketwise/backend/internal/model"
)

// Deterministic estimates substituted when a credit/loan account is missing
// provider minimum-payment or APR data. Estimated figures are flagged, never
// presented as provider-sourced.
const (
	creditCardMinimumRate  = 0.025
	creditCardMinimumFloor = 25.0
	loanMinimumRate        = 0.02
	defaultCreditCardAPR   = 0.2199
	defaultLoanAPR         = 0.08
)

func isDebtAccount(a model.Account) bool {
	return a.Type == model.AccountTypeCredit || a.Type == model.AccountTypeLoan
}

// estimateMinimumPayment is the deterministic fallback for a missing
// provider minimum: credit cards pay the greater of 2.5% of balance or $25,
// other loans 2% of balance.
func estimateMinimumPayment(a model.Account) float64 {
	balance := math.Abs(a.CurrentBalance)
	if a.Type == model.AccountTypeCredit {
		return math.Max(balance*creditCardMinimumRate, creditCardMinimumFloor)
	}
	return balance * loanMinimumRate
}

// debtMinimums sums minimum payments across credit/loan accounts,
// substituting estimates where the provider gave none. The second return
// reports whether any estimate was used.
func debtMinimums(accounts []model.Account) (total float64, estimated bool) {
	for _, a := range accounts {
		if !isDebtAccount(a) {
			continue
		}
		if math.Abs(a.CurrentBalance) == 0 {
			continue
		}
		if a.MinimumPayment != nil {
			total += *a.MinimumPayment
		} else {
			total += estimateMinimumPayment(a)
			estimated = true
		}
	}
	return total, estimated
}

// debtTypeFor maps a provider subtype onto the payoff-planning debt type.
func debtTypeFor(a model.Account) model.DebtType {
	sub := strings.ToLower(a.Subtype)
	switch {
	case a.Type == model.AccountTypeCredit, strings.Contains(sub, "credit"):
		return model.DebtTypeCreditCard
	case strings.Contains(sub, "student"):
		return model.DebtTypeStudentLoan
	case strings.Contains(sub, "auto"):
		return model.DebtTypeAutoLoan
	case strings.Contains(sub, "mortgage"), strings.Contains(sub, "home"):
		return model.DebtTypeMortgage
	case strings.Contains(sub, "personal"):
		return model.DebtTypePersonalLoan
	default:
		return model.DebtTypeOther
	}
}

// isCD reports whether a depository account is a certificate of deposit,
// which is excluded from emergency cash because it is not liquid.
func isCD(a model.Account) bool {
	sub := strings.ToLower(a.Subtype)
	return sub == "cd" || strings.Contains(sub, "certificate")
}

// buildPosition derives the point-in-time position from the account feed
// and the window's investment-contribution transactions.
func buildPosition(accounts []model.Account, contributions []model.Transaction, months int) model.FinancialPosition {
	var pos model.FinancialPosition

	for _, a := range accounts {
		switch {
		case a.Type == model.AccountTypeDepository && !isCD(a):
			if a.AvailableBalance != nil {
				pos.EmergencyCash += *a.AvailableBalance
			} else {
				pos.EmergencyCash += a.CurrentBalance
			}
		case isDebtAccount(a):
			balance := math.Abs(a.CurrentBalance)
			if balance == 0 {
				continue
			}
			debt := model.DebtAccount{
				ID:      a.ID,
				Name:    a.Name,
				Type:    debtTypeFor(a),
				Balance: balance,
			}
			if a.APR != nil {
				debt.APR = *a.APR
			} else {
				debt.Estimated = true
				if debt.Type == model.DebtTypeCreditCard {
					debt.APR = defaultCreditCardAPR
				} else {
					debt.APR = defaultLoanAPR
				}
			}
			if a.MinimumPayment != nil {
				debt.MinimumPayment = *a.MinimumPayment
			} else {
				debt.MinimumPayment = estimateMinimumPayment(a)
				debt.Estimated = true
			}
			pos.DebtBalances = append(pos.DebtBalances, debt)
		case a.Type == model.AccountTypeInvestment:
			pos.InvestmentBalances += a.CurrentBalance
		}
	}

	var contributed float64
	for _, t := range contributions {
		contributed += math.Abs(t.Amount)
	}
	if months < 1 {
		months = 1
	}
	pos.MonthlyInvestmentContributions = contributed / float64(months)

	return pos
}

func positionHasEstimates(pos model.FinancialPosition) bool {
	for _, d := range pos.DebtBalances {
		if d.Estimated {
			return true
		}
	}
	return false
}
