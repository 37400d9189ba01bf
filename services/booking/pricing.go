package booking

import (
	"math"

	"soothe/models"
)

// Payout split policy. These are fixed business constants, not per-call
// configuration.
const (
	basePayRate  = 0.70
	addonPayRate = 0.60
)

// SumSurcharges totals the surcharge amounts.
func SumSurcharges(surcharges []models.Surcharge) float64 {
	var total float64
	for _, s := range surcharges {
		total += s.Amount
	}
	return total
}

// ComputePriceBreakdown freezes the itemized price of a booking at
// creation time. finalAmount = basePrice + addons + totalSurcharges −
// discount − covered amounts, clamped at zero. The result is
// referentially transparent: identical input yields identical output.
func ComputePriceBreakdown(basePrice, addonsTotal float64, surcharges []models.Surcharge,
	discount, voucherApplied float64, coveredBySubscription bool) models.PriceBreakdown {

	totalSurcharges := SumSurcharges(surcharges)

	covered := voucherApplied
	if coveredBySubscription {
		covered += basePrice
	}

	final := basePrice + addonsTotal + totalSurcharges - discount - covered
	if final < 0 {
		final = 0
	}

	return models.PriceBreakdown{
		BasePrice:             basePrice,
		AddonsTotal:           addonsTotal,
		Surcharges:            surcharges,
		TotalSurcharges:       totalSurcharges,
		DiscountAmount:        discount,
		VoucherAppliedAmount:  voucherApplied,
		CoveredBySubscription: coveredBySubscription,
		FinalAmount:           final,
	}
}

// surchargeShare returns the professional's cut of one surcharge per its
// share rule; surcharges without a rule contribute nothing.
func surchargeShare(s models.Surcharge) float64 {
	switch s.ShareKind {
	case models.SharePercentage:
		return s.Amount * s.ShareValue / 100
	case models.ShareFixed:
		return s.ShareValue
	}
	return 0
}

// ComputePayout derives the frozen professional-pay / system-fee split at
// payment-success time. The system fee is NOT clamped: when the
// professional pay exceeds the amount paid it goes negative, which is
// accepted business behavior (callers log it for monitoring).
func ComputePayout(basePrice, addonsTotal float64, surcharges []models.Surcharge, amountPaid float64) models.PayoutSnapshot {
	pay := math.Round(basePrice*basePayRate) + math.Round(addonsTotal*addonPayRate)
	for _, s := range surcharges {
		pay += surchargeShare(s)
	}

	return models.PayoutSnapshot{
		BasePrice:       basePrice,
		AddonsTotal:     addonsTotal,
		TotalPrice:      basePrice + addonsTotal,
		AmountPaid:      amountPaid,
		ProfessionalPay: pay,
		SystemFee:       amountPaid - pay,
	}
}
