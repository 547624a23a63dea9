// Package calc derives a workpaper's deductible rental position from its
// inputs, the owning property's ownership share and the active settings.
//
// Calculate is pure and recomputes every amount from scratch. Arithmetic is
// carried out in decimal so sums of currency amounts stay exact; the results
// are converted back to float64 only at the end.
package calc

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// Calculate runs the derivation pipeline for wp.
// It never fails: non-finite numbers are treated as zero and degenerate
// inputs simply yield zero-valued amounts.
func Calculate(wp *models.Workpaper, ownershipPercentage float64, settings models.Settings) models.Calculation {
	if wp == nil {
		return models.Calculation{}
	}

	ownership := finite(ownershipPercentage)
	rate := finite(settings.InterestDeductibilityRate)

	totalExpenses := decimal.Zero
	capitalExcluded := decimal.Zero
	interestTotal := decimal.Zero
	for _, line := range wp.ExpenseLines {
		amount := finite(line.Amount)
		totalExpenses = totalExpenses.Add(amount)
		if line.IsCapital {
			capitalExcluded = capitalExcluded.Add(amount)
			continue
		}
		if line.Category == models.CategoryInterest {
			interestTotal = interestTotal.Add(amount)
		}
	}

	deductibleBase := totalExpenses.Sub(capitalExcluded)
	ownedExpenses := deductibleBase.Mul(ownership)
	apportioned := Apportion(ownedExpenses, wp.MixedUse, wp.DaysRented, wp.DaysPrivate)

	deductibleInterest := interestTotal.Mul(rate)

	// Interest stays inside the apportioned figure and is then swapped for
	// its deductibility-limited amount on the whole-property total.
	adjustedExpenses := apportioned.Sub(interestTotal).Add(deductibleInterest)

	adjustedIncome := finite(wp.GrossRentalIncome).Mul(ownership)
	netRentalIncome := adjustedIncome.Sub(adjustedExpenses)

	lossCarryForward := decimal.Zero
	if netRentalIncome.IsNegative() {
		lossCarryForward = netRentalIncome.Neg()
	}

	return models.Calculation{
		TotalExpenses:              totalExpenses.InexactFloat64(),
		CapitalExcludedTotal:       capitalExcluded.InexactFloat64(),
		DeductibleExpenseBase:      deductibleBase.InexactFloat64(),
		OwnedExpenses:              ownedExpenses.InexactFloat64(),
		ApportionedExpenses:        apportioned.InexactFloat64(),
		InterestTotal:              interestTotal.InexactFloat64(),
		DeductibleInterest:         deductibleInterest.InexactFloat64(),
		AdjustedDeductibleExpenses: adjustedExpenses.InexactFloat64(),
		AdjustedIncome:             adjustedIncome.InexactFloat64(),
		NetRentalIncome:            netRentalIncome.InexactFloat64(),
		LossCarryForward:           lossCarryForward.InexactFloat64(),
	}
}

// Apportion scales amount by the rented share of the rented plus private
// days when mixedUse is set. A non-positive day total leaves amount as is.
func Apportion(amount decimal.Decimal, mixedUse bool, daysRented, daysPrivate int) decimal.Decimal {
	if !mixedUse {
		return amount
	}
	totalDays := daysRented + daysPrivate
	if totalDays <= 0 {
		return amount
	}
	return amount.Mul(decimal.NewFromInt(int64(daysRented))).Div(decimal.NewFromInt(int64(totalDays)))
}

func finite(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
