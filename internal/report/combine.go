package report

import (
	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Combine merges a cumulative and a live bundle over the union of their
// metrics, rounding every sum to two decimal places.
func Combine(cumulative, live entity.Bundle) entity.Bundle {
	out := make(entity.Bundle, len(cumulative)+len(live))
	for m := range cumulative {
		out[m] = round2(cumulative.Get(m).Add(live.Get(m)))
	}
	for m := range live {
		if _, ok := out[m]; !ok {
			out[m] = round2(live.Get(m))
		}
	}
	return out
}

// Derived composites. Each step rounds before the next consumes it, so the
// figures reproduce exactly across recomputations.

func ScGgr(scStaked, scWin decimal.Decimal) decimal.Decimal {
	return round2(scStaked.Sub(scWin))
}

func NetScGgr(scGgr, scAwarded, jackpotRevenue decimal.Decimal) decimal.Decimal {
	return round2(scGgr.Sub(scAwarded).Add(jackpotRevenue))
}

// RedemptionRate is redemption as a percentage of purchases, zero when there
// were no purchases.
func RedemptionRate(redemptionSum, purchaseSum decimal.Decimal) decimal.Decimal {
	if purchaseSum.IsZero() {
		return decimal.Zero
	}
	return round2(redemptionSum.Div(purchaseSum).Mul(hundred))
}

// HouseEdge is 100 minus the payout percentage; with nothing staked the full
// hundred is reported.
func HouseEdge(scStaked, scWin decimal.Decimal) decimal.Decimal {
	if !scStaked.IsPositive() {
		return hundred
	}
	payout := round2(scWin.Div(scStaked).Mul(hundred))
	return round2(hundred.Sub(payout))
}

func NetRevenue(purchaseSum, pendingRedemption, approvedRedemption decimal.Decimal) decimal.Decimal {
	return round2(purchaseSum.Sub(round2(pendingRedemption.Add(approvedRedemption))))
}

// AveragePurchaseAmount is zero when there were no purchases.
func AveragePurchaseAmount(purchaseSum, purchaseCount decimal.Decimal) decimal.Decimal {
	if purchaseCount.IsZero() {
		return decimal.Zero
	}
	return round2(purchaseSum.Div(purchaseCount))
}
