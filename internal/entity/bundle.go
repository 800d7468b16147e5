package entity

import "github.com/shopspring/decimal"

// Metric names a single additive or derived figure inside a metric bundle.
// Names follow the materialized aggregate's column aliases.
type Metric string

const (
	// Wagering.
	MetricScStakedSum    Metric = "scStakedSum"
	MetricScWinSum       Metric = "scWinSum"
	MetricJackpotRevenue Metric = "jackpotRevenue"

	// Awards (bonus issuance).
	MetricScAwardedSum Metric = "scAwardedAmountSum"
	MetricGcAwardedSum Metric = "gcAwardedAmountSum"

	// Purchases.
	MetricPurchaseSum        Metric = "purchaseSum"
	MetricPurchaseCount      Metric = "purchaseCount"
	MetricFirstPurchaseSum   Metric = "firstPurchaseSum"
	MetricFirstPurchaseCount Metric = "firstPurchaseCount"

	// Redemptions.
	MetricRedemptionSum           Metric = "redemptionSum"
	MetricRequestRedemptionSum    Metric = "requestRedemptionSum"
	MetricRequestRedemptionCount  Metric = "requestRedemptionCount"
	MetricPendingRedemptionSum    Metric = "pendingRedemptionSum"
	MetricPendingRedemptionCount  Metric = "pendingRedemptionCount"
	MetricApprovedRedemptionSum   Metric = "approvedRedemptionSum"
	MetricApprovedRedemptionCount Metric = "approvedRedemptionCount"
	MetricCancelledRedemptionSum  Metric = "cancelledRedemptionSum"
	MetricCancelledRedemptionCount Metric = "cancelledRedemptionCount"
	MetricFailedRedemptionSum     Metric = "failedRedemptionSum"
	MetricFailedRedemptionCount   Metric = "failedRedemptionCount"

	// Acquisition.
	MetricNewRegisteredPlayers Metric = "newRegisteredPlayer"

	// Coin economy.
	MetricGcCreditPurchaseSum Metric = "gcCreditPurchaseSum"
	MetricScCreditPurchaseSum Metric = "scCreditPurchaseSum"
)

// Bundle maps metric names to decimal values. Missing keys read as zero, so a
// nil Bundle is a valid zero bundle.
type Bundle map[Metric]decimal.Decimal

// Get returns the named metric, or zero when absent.
func (b Bundle) Get(m Metric) decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}
	return b[m]
}

// Clone returns a copy of the bundle.
func (b Bundle) Clone() Bundle {
	out := make(Bundle, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
