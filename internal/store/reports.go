package store

import (
	"context"
	"fmt"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/dependency"
	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/shopspring/decimal"
)

type reportsStore struct {
	*PGStore
}

// Reports returns an object implementing the Reports interface
func (ps *PGStore) Reports() dependency.Reports {
	return &reportsStore{
		PGStore: ps,
	}
}

// nd unwraps a nullable decimal; SUM over zero rows yields NULL.
func nd(v decimal.NullDecimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return decimal.Zero
}

type dashboardCumulativeRow struct {
	ScStakedSum    decimal.NullDecimal `db:"scStakedSum"`
	ScWinSum       decimal.NullDecimal `db:"scWinSum"`
	ScAwardedSum   decimal.NullDecimal `db:"scAwardedAmountSum"`
	GcAwardedSum   decimal.NullDecimal `db:"gcAwardedAmountSum"`
	JackpotRevenue decimal.NullDecimal `db:"jackpotRevenue"`
	RedemptionSum  decimal.NullDecimal `db:"redemptionSum"`
	PurchaseSum    decimal.NullDecimal `db:"purchaseSum"`
}

// CumulativeDashboard reads today's headline figures from the materialized
// aggregate. Redemption, purchase and jackpot figures are not split by
// segment in the aggregate, so they collapse to zero for the internal view.
func (ps *PGStore) CumulativeDashboard(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error) {
	query := `
	SELECT
		ROUND(SUM(CASE WHEN :segment = 'real' THEN sc_real_staked_sum WHEN :segment = 'internal' THEN sc_test_staked_sum ELSE sc_real_staked_sum + sc_test_staked_sum END)::numeric, 2) AS "scStakedSum",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN sc_real_win_sum WHEN :segment = 'internal' THEN sc_test_win_sum ELSE sc_real_win_sum + sc_test_win_sum END)::numeric, 2) AS "scWinSum",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_sc_awarded_amount WHEN :segment = 'internal' THEN test_sc_awarded_amount ELSE real_sc_awarded_amount + test_sc_awarded_amount END)::numeric, 2) AS "scAwardedAmountSum",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_gc_awarded_amount WHEN :segment = 'internal' THEN test_gc_awarded_amount ELSE real_gc_awarded_amount + test_gc_awarded_amount END)::numeric, 2) AS "gcAwardedAmountSum",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN jackpot_revenue ELSE 0 END)::numeric, 2) AS "jackpotRevenue",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN pending_redemption_amount + approved_redemption_amount ELSE 0 END)::numeric, 2) AS "redemptionSum",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN real_purchase_amount + test_purchase_amount ELSE 0 END)::numeric, 2) AS "purchaseSum"
	FROM dashboard_reports
	WHERE "timestamp" BETWEEN :startDate AND :endDate`

	row, err := QueryNamedOne[dashboardCumulativeRow](ctx, ps.db, query, map[string]any{
		"segment":   seg.String(),
		"startDate": start,
		"endDate":   end,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get cumulative dashboard data: %w", err)
	}

	return entity.Bundle{
		entity.MetricScStakedSum:    nd(row.ScStakedSum),
		entity.MetricScWinSum:       nd(row.ScWinSum),
		entity.MetricScAwardedSum:   nd(row.ScAwardedSum),
		entity.MetricGcAwardedSum:   nd(row.GcAwardedSum),
		entity.MetricJackpotRevenue: nd(row.JackpotRevenue),
		entity.MetricRedemptionSum:  nd(row.RedemptionSum),
		entity.MetricPurchaseSum:    nd(row.PurchaseSum),
	}, nil
}

type funnelRow struct {
	RedemptionSum decimal.NullDecimal `db:"redemptionSum"`
	PurchaseSum   decimal.NullDecimal `db:"purchaseSum"`
}

// CumulativeFunnel reads just the redemption and purchase totals used for
// redemption-rate denominators, usually over the whole aggregate history.
func (ps *PGStore) CumulativeFunnel(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error) {
	query := `
	SELECT
		ROUND(SUM(pending_redemption_amount)::numeric, 2) + ROUND(SUM(approved_redemption_amount)::numeric, 2) AS "redemptionSum",
		ROUND(SUM(real_purchase_amount)::numeric, 2) + ROUND(SUM(test_purchase_amount)::numeric, 2) AS "purchaseSum"
	FROM dashboard_reports
	WHERE "timestamp" BETWEEN :startDate AND :endDate`

	row, err := QueryNamedOne[funnelRow](ctx, ps.db, query, map[string]any{
		"startDate": start,
		"endDate":   end,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get cumulative funnel data: %w", err)
	}

	return entity.Bundle{
		entity.MetricRedemptionSum: nd(row.RedemptionSum),
		entity.MetricPurchaseSum:   nd(row.PurchaseSum),
	}, nil
}

type customerCumulativeRow struct {
	NewRegisteredPlayer      decimal.NullDecimal `db:"newRegisteredPlayer"`
	FirstPurchaseCount       decimal.NullDecimal `db:"firstPurchaseCount"`
	FirstPurchaseSum         decimal.NullDecimal `db:"firstPurchaseSum"`
	PurchaseSum              decimal.NullDecimal `db:"purchaseSum"`
	PurchaseCount            decimal.NullDecimal `db:"purchaseCount"`
	RequestRedemptionSum     decimal.NullDecimal `db:"requestRedemptionSum"`
	RequestRedemptionCount   decimal.NullDecimal `db:"requestRedemptionCount"`
	ApprovedRedemptionSum    decimal.NullDecimal `db:"approvedRedemptionSum"`
	ApprovedRedemptionCount  decimal.NullDecimal `db:"approvedRedemptionCount"`
	CancelledRedemptionSum   decimal.NullDecimal `db:"cancelledRedemptionSum"`
	CancelledRedemptionCount decimal.NullDecimal `db:"cancelledRedemptionCount"`
	PendingRedemptionCount   decimal.NullDecimal `db:"pendingRedemptionCount"`
	PendingRedemptionSum     decimal.NullDecimal `db:"pendingRedemptionSum"`
	FailedRedemptionCount    decimal.NullDecimal `db:"failedRedemptionCount"`
	FailedRedemptionSum      decimal.NullDecimal `db:"failedRedemptionSum"`
}

// CumulativeCustomer reads the acquisition, purchase and redemption figures
// from the materialized aggregate. Registration and redemption columns are
// not segment-split, so the internal view reads them as zero.
func (ps *PGStore) CumulativeCustomer(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error) {
	query := `
	SELECT
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN registered_player_count ELSE 0 END)::numeric, 2) AS "newRegisteredPlayer",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_first_time_purchaser_count WHEN :segment = 'internal' THEN test_first_time_purchaser_count ELSE real_first_time_purchaser_count + test_first_time_purchaser_count END)::numeric, 2) AS "firstPurchaseCount",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_first_time_purchaser_amount WHEN :segment = 'internal' THEN test_first_time_purchaser_amount ELSE real_first_time_purchaser_amount + test_first_time_purchaser_amount END)::numeric, 2) AS "firstPurchaseSum",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_purchase_amount WHEN :segment = 'internal' THEN test_purchase_amount ELSE real_purchase_amount + test_purchase_amount END)::numeric, 2) AS "purchaseSum",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_purchase_count WHEN :segment = 'internal' THEN test_purchase_count ELSE real_purchase_count + test_purchase_count END)::numeric, 2) AS "purchaseCount",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN request_redemption_amount ELSE 0 END)::numeric, 2) AS "requestRedemptionSum",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN request_redemption_count ELSE 0 END)::numeric, 2) AS "requestRedemptionCount",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN approved_redemption_amount ELSE 0 END)::numeric, 2) AS "approvedRedemptionSum",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN approved_redemption_count ELSE 0 END)::numeric, 2) AS "approvedRedemptionCount",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN cancelled_redemption_amount ELSE 0 END)::numeric, 2) AS "cancelledRedemptionSum",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN cancelled_redemption_count ELSE 0 END)::numeric, 2) AS "cancelledRedemptionCount",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN pending_redemption_count ELSE 0 END)::numeric, 2) AS "pendingRedemptionCount",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN pending_redemption_amount ELSE 0 END)::numeric, 2) AS "pendingRedemptionSum",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN failed_redemption_count ELSE 0 END)::numeric, 2) AS "failedRedemptionCount",
		ROUND(SUM(CASE WHEN :segment != 'internal' THEN failed_redemption_amount ELSE 0 END)::numeric, 2) AS "failedRedemptionSum"
	FROM dashboard_reports
	WHERE "timestamp" BETWEEN :startDate AND :endDate`

	row, err := QueryNamedOne[customerCumulativeRow](ctx, ps.db, query, map[string]any{
		"segment":   seg.String(),
		"startDate": start,
		"endDate":   end,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get cumulative customer data: %w", err)
	}

	return entity.Bundle{
		entity.MetricNewRegisteredPlayers:     nd(row.NewRegisteredPlayer),
		entity.MetricFirstPurchaseCount:       nd(row.FirstPurchaseCount),
		entity.MetricFirstPurchaseSum:         nd(row.FirstPurchaseSum),
		entity.MetricPurchaseSum:              nd(row.PurchaseSum),
		entity.MetricPurchaseCount:            nd(row.PurchaseCount),
		entity.MetricRequestRedemptionSum:     nd(row.RequestRedemptionSum),
		entity.MetricRequestRedemptionCount:   nd(row.RequestRedemptionCount),
		entity.MetricApprovedRedemptionSum:    nd(row.ApprovedRedemptionSum),
		entity.MetricApprovedRedemptionCount:  nd(row.ApprovedRedemptionCount),
		entity.MetricCancelledRedemptionSum:   nd(row.CancelledRedemptionSum),
		entity.MetricCancelledRedemptionCount: nd(row.CancelledRedemptionCount),
		entity.MetricPendingRedemptionCount:   nd(row.PendingRedemptionCount),
		entity.MetricPendingRedemptionSum:     nd(row.PendingRedemptionSum),
		entity.MetricFailedRedemptionCount:    nd(row.FailedRedemptionCount),
		entity.MetricFailedRedemptionSum:      nd(row.FailedRedemptionSum),
	}, nil
}

type economyCumulativeRow struct {
	GcCreditPurchaseSum decimal.NullDecimal `db:"gcCreditPurchaseSum"`
	ScCreditPurchaseSum decimal.NullDecimal `db:"scCreditPurchaseSum"`
	GcAwardedSum        decimal.NullDecimal `db:"gcAwardedAmountSum"`
	ScAwardedSum        decimal.NullDecimal `db:"scAwardedAmountSum"`
}

// CumulativeEconomy reads the coin economy figures from the materialized
// aggregate.
func (ps *PGStore) CumulativeEconomy(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error) {
	query := `
	SELECT
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_gc_credit_purchase_amount WHEN :segment = 'internal' THEN test_gc_credit_purchase_amount ELSE real_gc_credit_purchase_amount + test_gc_credit_purchase_amount END)::numeric, 2) AS "gcCreditPurchaseSum",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_sc_credit_purchase_amount WHEN :segment = 'internal' THEN test_sc_credit_purchase_amount ELSE real_sc_credit_purchase_amount + test_sc_credit_purchase_amount END)::numeric, 2) AS "scCreditPurchaseSum",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_gc_awarded_amount WHEN :segment = 'internal' THEN test_gc_awarded_amount ELSE real_gc_awarded_amount + test_gc_awarded_amount END)::numeric, 2) AS "gcAwardedAmountSum",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN real_sc_awarded_amount WHEN :segment = 'internal' THEN test_sc_awarded_amount ELSE real_sc_awarded_amount + test_sc_awarded_amount END)::numeric, 2) AS "scAwardedAmountSum"
	FROM dashboard_reports
	WHERE "timestamp" BETWEEN :startDate AND :endDate`

	row, err := QueryNamedOne[economyCumulativeRow](ctx, ps.db, query, map[string]any{
		"segment":   seg.String(),
		"startDate": start,
		"endDate":   end,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get cumulative economy data: %w", err)
	}

	return entity.Bundle{
		entity.MetricGcCreditPurchaseSum: nd(row.GcCreditPurchaseSum),
		entity.MetricScCreditPurchaseSum: nd(row.ScCreditPurchaseSum),
		entity.MetricGcAwardedSum:        nd(row.GcAwardedSum),
		entity.MetricScAwardedSum:        nd(row.ScAwardedSum),
	}, nil
}

type transactionCumulativeRow struct {
	ScStakedSum    decimal.NullDecimal `db:"scStakedSum"`
	ScWinSum       decimal.NullDecimal `db:"scWinSum"`
	JackpotRevenue decimal.NullDecimal `db:"jackpotRevenue"`
}

// CumulativeTransaction reads staked/win sums and precomputed jackpot revenue
// from the materialized aggregate. Jackpot revenue has no per-segment columns
// and is always the overall figure.
func (ps *PGStore) CumulativeTransaction(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error) {
	query := `
	SELECT
		ROUND(SUM(CASE WHEN :segment = 'real' THEN sc_real_staked_sum WHEN :segment = 'internal' THEN sc_test_staked_sum ELSE sc_real_staked_sum + sc_test_staked_sum END)::numeric, 2) AS "scStakedSum",
		ROUND(SUM(CASE WHEN :segment = 'real' THEN sc_real_win_sum WHEN :segment = 'internal' THEN sc_test_win_sum ELSE sc_real_win_sum + sc_test_win_sum END)::numeric, 2) AS "scWinSum",
		ROUND(SUM(jackpot_revenue)::numeric, 2) AS "jackpotRevenue"
	FROM dashboard_reports
	WHERE "timestamp" BETWEEN :startDate AND :endDate`

	row, err := QueryNamedOne[transactionCumulativeRow](ctx, ps.db, query, map[string]any{
		"segment":   seg.String(),
		"startDate": start,
		"endDate":   end,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get cumulative transaction data: %w", err)
	}

	return entity.Bundle{
		entity.MetricScStakedSum:    nd(row.ScStakedSum),
		entity.MetricScWinSum:       nd(row.ScWinSum),
		entity.MetricJackpotRevenue: nd(row.JackpotRevenue),
	}, nil
}

type walletTotalsRow struct {
	WalletScCoin decimal.NullDecimal `db:"totalWalletScCoin"`
	VaultScCoin  decimal.NullDecimal `db:"totalVaultScCoin"`
}

// WalletCoinTotals sums the live SC balances across every wallet. The coin
// columns are jsonb maps keyed by bucket (bsc/psc/wsc).
func (ps *PGStore) WalletCoinTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	query := `
	SELECT
		ROUND(SUM(COALESCE(CAST(sc_coin ->> 'bsc' AS NUMERIC), 0) + COALESCE(CAST(sc_coin ->> 'psc' AS NUMERIC), 0) + COALESCE(CAST(sc_coin ->> 'wsc' AS NUMERIC), 0)), 2) AS "totalWalletScCoin",
		ROUND(SUM(COALESCE(CAST(vault_sc_coin ->> 'bsc' AS NUMERIC), 0) + COALESCE(CAST(vault_sc_coin ->> 'psc' AS NUMERIC), 0) + COALESCE(CAST(vault_sc_coin ->> 'wsc' AS NUMERIC), 0)), 2) AS "totalVaultScCoin"
	FROM wallets`

	row, err := QueryNamedOne[walletTotalsRow](ctx, ps.db, query, map[string]any{})
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("can't get wallet coin totals: %w", err)
	}
	return nd(row.WalletScCoin), nd(row.VaultScCoin), nil
}
