package store

import (
	"context"
	"fmt"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// segmentCondition returns the raw-table filter fragment for a player
// segment. The id list itself is always bound, never interpolated.
func segmentCondition(column string, seg entity.PlayerSegment) string {
	switch seg {
	case entity.SegmentReal:
		return " AND " + column + " NOT IN (:internalIds)"
	case entity.SegmentInternal:
		return " AND " + column + " IN (:internalIds)"
	}
	return ""
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

type liveWagerRow struct {
	ScStakedSum decimal.NullDecimal `db:"scStakedSum"`
	ScWinSum    decimal.NullDecimal `db:"scWinSum"`
	ScBonusSum  decimal.NullDecimal `db:"scBonusSum"`
	GcBonusSum  decimal.NullDecimal `db:"gcBonusSum"`
}

type liveBankingBonusRow struct {
	ScBonusDeposit decimal.NullDecimal `db:"scBonusDeposit"`
	GcBonusDeposit decimal.NullDecimal `db:"gcBonusDeposit"`
	ScBonusDirect  decimal.NullDecimal `db:"scBonusDirect"`
	GcBonusDirect  decimal.NullDecimal `db:"gcBonusDirect"`
}

type liveRedemptionSplitRow struct {
	PendingRedemptionSum  decimal.NullDecimal `db:"pendingRedemptionSum"`
	ApprovedRedemptionSum decimal.NullDecimal `db:"approvedRedemptionSum"`
}

type livePurchaseSumRow struct {
	PurchaseSum decimal.NullDecimal `db:"purchaseSum"`
}

// LiveDashboard computes today's headline delta directly from the raw fact
// tables for the range not yet covered by the aggregate. Jackpot revenue is
// attributed separately and is not part of this bundle.
func (ps *PGStore) LiveDashboard(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.Bundle, error) {
	var (
		wager      liveWagerRow
		banking    liveBankingBonusRow
		redemption liveRedemptionSplitRow
		purchase   livePurchaseSumRow
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := `
		SELECT
			ROUND(SUM(CASE WHEN action_type = 'bet' AND amount_type = 1 THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "scStakedSum",
			ROUND(SUM(CASE WHEN action_type = 'win' AND amount_type = 1 THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "scWinSum",
			ROUND(SUM(CASE WHEN action_id = '1' AND action_type IN (:bonusTypes) THEN COALESCE(sc, 0) ELSE 0 END)::numeric, 2) AS "scBonusSum",
			ROUND(SUM(CASE WHEN action_id = '1' AND action_type IN (:bonusTypes) THEN COALESCE(gc, 0) ELSE 0 END)::numeric, 2) AS "gcBonusSum"
		FROM casino_transactions
		WHERE created_at BETWEEN :startDate AND :endDate AND status = 1` + segmentCondition("user_id", seg)

		row, err := QueryNamedOne[liveWagerRow](gctx, ps.db, query, map[string]any{
			"startDate":   start,
			"endDate":     end,
			"bonusTypes":  entity.CasinoBonusActionTypes,
			"internalIds": internalIDs,
		})
		if err != nil {
			return fmt.Errorf("can't get live wager data: %w", err)
		}
		wager = row
		return nil
	})

	g.Go(func() error {
		query := `
		SELECT
			ROUND(SUM(CASE WHEN transaction_type = 'deposit' THEN COALESCE(bonus_sc, 0) ELSE 0 END)::numeric, 2) AS "scBonusDeposit",
			ROUND(SUM(CASE WHEN transaction_type = 'deposit' THEN COALESCE(bonus_gc, 0) ELSE 0 END)::numeric, 2) AS "gcBonusDeposit",
			ROUND(SUM(CASE WHEN transaction_type = 'addSc' THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "scBonusDirect",
			ROUND(SUM(CASE WHEN transaction_type = 'addGc' THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "gcBonusDirect"
		FROM transaction_bankings
		WHERE is_success = true AND updated_at BETWEEN :startDate AND :endDate` + segmentCondition("actionee_id", seg)

		row, err := QueryNamedOne[liveBankingBonusRow](gctx, ps.db, query, map[string]any{
			"startDate":   start,
			"endDate":     end,
			"internalIds": internalIDs,
		})
		if err != nil {
			return fmt.Errorf("can't get live banking bonus data: %w", err)
		}
		banking = row
		return nil
	})

	g.Go(func() error {
		query := `
		SELECT
			ROUND(SUM(CASE WHEN created_at BETWEEN :startDate AND :endDate AND status IN (0, 8) THEN COALESCE(amount, 0) ELSE 0 END)) AS "pendingRedemptionSum",
			ROUND(SUM(CASE WHEN updated_at BETWEEN :startDate AND :endDate AND status IN (1, 7) THEN COALESCE(amount, 0) ELSE 0 END)) AS "approvedRedemptionSum"
		FROM withdraw_requests
		WHERE :segment != 'internal'`

		row, err := QueryNamedOne[liveRedemptionSplitRow](gctx, ps.db, query, map[string]any{
			"segment":   seg.String(),
			"startDate": start,
			"endDate":   end,
		})
		if err != nil {
			return fmt.Errorf("can't get live redemption data: %w", err)
		}
		redemption = row
		return nil
	})

	g.Go(func() error {
		query := `
		SELECT
			ROUND(SUM(CASE WHEN transaction_type = 'deposit' THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "purchaseSum"
		FROM transaction_bankings
		WHERE is_success = true AND updated_at BETWEEN :startDate AND :endDate`

		row, err := QueryNamedOne[livePurchaseSumRow](gctx, ps.db, query, map[string]any{
			"startDate": start,
			"endDate":   end,
		})
		if err != nil {
			return fmt.Errorf("can't get live purchase data: %w", err)
		}
		purchase = row
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entity.Bundle{
		entity.MetricScStakedSum:   nd(wager.ScStakedSum),
		entity.MetricScWinSum:      nd(wager.ScWinSum),
		entity.MetricScAwardedSum:  round2(nd(wager.ScBonusSum).Add(nd(banking.ScBonusDeposit)).Add(nd(banking.ScBonusDirect))),
		entity.MetricGcAwardedSum:  round2(nd(wager.GcBonusSum).Add(nd(banking.GcBonusDeposit)).Add(nd(banking.GcBonusDirect))),
		entity.MetricRedemptionSum: round2(nd(redemption.PendingRedemptionSum).Add(nd(redemption.ApprovedRedemptionSum))),
		entity.MetricPurchaseSum:   nd(purchase.PurchaseSum),
	}, nil
}

type liveRegistrationRow struct {
	NewRegisteredPlayer int64 `db:"newRegisteredPlayer"`
}

type liveWithdrawRow struct {
	RequestRedemptionCount   int64               `db:"requestRedemptionCount"`
	RequestRedemptionSum     decimal.NullDecimal `db:"requestRedemptionSum"`
	CancelledRedemptionCount int64               `db:"cancelledRedemptionCount"`
	CancelledRedemptionSum   decimal.NullDecimal `db:"cancelledRedemptionSum"`
	PendingRedemptionCount   int64               `db:"pendingRedemptionCount"`
	PendingRedemptionSum     decimal.NullDecimal `db:"pendingRedemptionSum"`
	FailedRedemptionCount    int64               `db:"failedRedemptionCount"`
	FailedRedemptionSum      decimal.NullDecimal `db:"failedRedemptionSum"`
}

type liveApprovedRedemptionRow struct {
	ApprovedRedemptionCount int64               `db:"approvedRedemptionCount"`
	ApprovedRedemptionSum   decimal.NullDecimal `db:"approvedRedemptionSum"`
}

type livePurchasesRow struct {
	FirstPurchaseCount int64               `db:"firstPurchaseCount"`
	FirstPurchaseSum   decimal.NullDecimal `db:"firstPurchaseSum"`
	PurchaseSum        decimal.NullDecimal `db:"purchaseSum"`
	PurchaseCount      int64               `db:"purchaseCount"`
}

// LiveCustomer computes the acquisition, purchase and redemption delta from
// the raw tables. Pending redemptions key on created_at, approved/cancelled/
// failed on updated_at, matching how the refresh job fills the aggregate.
func (ps *PGStore) LiveCustomer(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.Bundle, error) {
	var (
		reg       liveRegistrationRow
		withdraws liveWithdrawRow
		approved  liveApprovedRedemptionRow
		purchases livePurchasesRow
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := `SELECT COUNT(*) AS "newRegisteredPlayer" FROM users WHERE created_at BETWEEN :startDate AND :endDate AND :segment != 'internal'`
		row, err := QueryNamedOne[liveRegistrationRow](gctx, ps.db, query, map[string]any{
			"startDate": start,
			"endDate":   end,
			"segment":   seg.String(),
		})
		if err != nil {
			return fmt.Errorf("can't get live registration data: %w", err)
		}
		reg = row
		return nil
	})

	g.Go(func() error {
		query := `
		SELECT
			COUNT(CASE WHEN created_at BETWEEN :startDate AND :endDate THEN 1 END) AS "requestRedemptionCount",
			ROUND(SUM(CASE WHEN created_at BETWEEN :startDate AND :endDate THEN COALESCE(amount, 0) ELSE 0 END)) AS "requestRedemptionSum",
			COUNT(CASE WHEN updated_at BETWEEN :startDate AND :endDate AND status = 2 THEN 1 END) AS "cancelledRedemptionCount",
			ROUND(SUM(CASE WHEN updated_at BETWEEN :startDate AND :endDate AND status = 2 THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "cancelledRedemptionSum",
			COUNT(CASE WHEN created_at BETWEEN :startDate AND :endDate AND status = 0 THEN 1 END) AS "pendingRedemptionCount",
			ROUND(SUM(CASE WHEN created_at BETWEEN :startDate AND :endDate AND status = 0 THEN COALESCE(amount, 0) ELSE 0 END)) AS "pendingRedemptionSum",
			COUNT(CASE WHEN updated_at BETWEEN :startDate AND :endDate AND status IN (3, 6) THEN 1 END) AS "failedRedemptionCount",
			ROUND(SUM(CASE WHEN updated_at BETWEEN :startDate AND :endDate AND status IN (3, 6) THEN COALESCE(amount, 0) ELSE 0 END)) AS "failedRedemptionSum"
		FROM withdraw_requests
		WHERE :segment != 'internal'`

		row, err := QueryNamedOne[liveWithdrawRow](gctx, ps.db, query, map[string]any{
			"segment":   seg.String(),
			"startDate": start,
			"endDate":   end,
		})
		if err != nil {
			return fmt.Errorf("can't get live withdraw data: %w", err)
		}
		withdraws = row
		return nil
	})

	g.Go(func() error {
		query := `
		SELECT
			COUNT(*) AS "approvedRedemptionCount",
			ROUND(SUM(COALESCE(amount, 0))::numeric, 2) AS "approvedRedemptionSum"
		FROM transaction_bankings
		WHERE transaction_type = 'redeem' AND status IN (1, 7) AND created_at BETWEEN :startDate AND :endDate AND :segment != 'internal'`

		row, err := QueryNamedOne[liveApprovedRedemptionRow](gctx, ps.db, query, map[string]any{
			"segment":   seg.String(),
			"startDate": start,
			"endDate":   end,
		})
		if err != nil {
			return fmt.Errorf("can't get live approved redemption data: %w", err)
		}
		approved = row
		return nil
	})

	g.Go(func() error {
		query := `
		SELECT
			COUNT(CASE WHEN transaction_type = 'deposit' AND is_first_deposit = true THEN 1 END) AS "firstPurchaseCount",
			ROUND(SUM(CASE WHEN transaction_type = 'deposit' AND is_first_deposit = true THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "firstPurchaseSum",
			ROUND(SUM(CASE WHEN transaction_type = 'deposit' THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "purchaseSum",
			COUNT(CASE WHEN transaction_type = 'deposit' THEN 1 END) AS "purchaseCount"
		FROM transaction_bankings
		WHERE is_success = true AND updated_at BETWEEN :startDate AND :endDate` + segmentCondition("actionee_id", seg)

		row, err := QueryNamedOne[livePurchasesRow](gctx, ps.db, query, map[string]any{
			"startDate":   start,
			"endDate":     end,
			"internalIds": internalIDs,
		})
		if err != nil {
			return fmt.Errorf("can't get live purchase data: %w", err)
		}
		purchases = row
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entity.Bundle{
		entity.MetricNewRegisteredPlayers:     decimal.NewFromInt(reg.NewRegisteredPlayer),
		entity.MetricRequestRedemptionCount:   decimal.NewFromInt(withdraws.RequestRedemptionCount),
		entity.MetricRequestRedemptionSum:     nd(withdraws.RequestRedemptionSum),
		entity.MetricCancelledRedemptionCount: decimal.NewFromInt(withdraws.CancelledRedemptionCount),
		entity.MetricCancelledRedemptionSum:   nd(withdraws.CancelledRedemptionSum),
		entity.MetricPendingRedemptionCount:   decimal.NewFromInt(withdraws.PendingRedemptionCount),
		entity.MetricPendingRedemptionSum:     nd(withdraws.PendingRedemptionSum),
		entity.MetricFailedRedemptionCount:    decimal.NewFromInt(withdraws.FailedRedemptionCount),
		entity.MetricFailedRedemptionSum:      nd(withdraws.FailedRedemptionSum),
		entity.MetricApprovedRedemptionCount:  decimal.NewFromInt(approved.ApprovedRedemptionCount),
		entity.MetricApprovedRedemptionSum:    nd(approved.ApprovedRedemptionSum),
		entity.MetricFirstPurchaseCount:       decimal.NewFromInt(purchases.FirstPurchaseCount),
		entity.MetricFirstPurchaseSum:         nd(purchases.FirstPurchaseSum),
		entity.MetricPurchaseSum:              nd(purchases.PurchaseSum),
		entity.MetricPurchaseCount:            decimal.NewFromInt(purchases.PurchaseCount),
	}, nil
}

type liveCasinoBonusSumRow struct {
	ScBonusSum decimal.NullDecimal `db:"scBonusSum"`
	GcBonusSum decimal.NullDecimal `db:"gcBonusSum"`
}

type liveEconomyBankingRow struct {
	ScBonusSum          decimal.NullDecimal `db:"scBonusSum"`
	GcBonusSum          decimal.NullDecimal `db:"gcBonusSum"`
	ScCreditPurchaseSum decimal.NullDecimal `db:"scCreditPurchaseSum"`
	GcCreditPurchaseSum decimal.NullDecimal `db:"gcCreditPurchaseSum"`
}

// LiveEconomy computes the coin economy delta from the raw tables.
func (ps *PGStore) LiveEconomy(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.Bundle, error) {
	var (
		casino  liveCasinoBonusSumRow
		banking liveEconomyBankingRow
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := `
		SELECT
			ROUND(SUM(COALESCE(sc, 0))::numeric, 2) AS "scBonusSum",
			ROUND(SUM(COALESCE(gc, 0))::numeric, 2) AS "gcBonusSum"
		FROM casino_transactions
		WHERE created_at BETWEEN :startDate AND :endDate AND status = 1 AND action_id = '1' AND action_type IN (:bonusTypes)` + segmentCondition("user_id", seg)

		row, err := QueryNamedOne[liveCasinoBonusSumRow](gctx, ps.db, query, map[string]any{
			"startDate":   start,
			"endDate":     end,
			"bonusTypes":  entity.CasinoBonusActionTypes,
			"internalIds": internalIDs,
		})
		if err != nil {
			return fmt.Errorf("can't get live casino bonus data: %w", err)
		}
		casino = row
		return nil
	})

	g.Go(func() error {
		query := `
		SELECT
			ROUND(SUM(CASE WHEN transaction_type = 'deposit' THEN COALESCE(bonus_sc, 0) WHEN transaction_type = 'addSc' THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "scBonusSum",
			ROUND(SUM(CASE WHEN transaction_type = 'deposit' THEN COALESCE(bonus_gc, 0) WHEN transaction_type = 'addGc' THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "gcBonusSum",
			ROUND(SUM(CASE WHEN transaction_type = 'deposit' THEN COALESCE(sc_coin, 0) ELSE 0 END)::numeric, 2) AS "scCreditPurchaseSum",
			ROUND(SUM(CASE WHEN transaction_type = 'deposit' THEN COALESCE(gc_coin, 0) ELSE 0 END)::numeric, 2) AS "gcCreditPurchaseSum"
		FROM transaction_bankings
		WHERE is_success = true AND updated_at BETWEEN :startDate AND :endDate` + segmentCondition("actionee_id", seg)

		row, err := QueryNamedOne[liveEconomyBankingRow](gctx, ps.db, query, map[string]any{
			"startDate":   start,
			"endDate":     end,
			"internalIds": internalIDs,
		})
		if err != nil {
			return fmt.Errorf("can't get live banking economy data: %w", err)
		}
		banking = row
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entity.Bundle{
		entity.MetricGcCreditPurchaseSum: nd(banking.GcCreditPurchaseSum),
		entity.MetricScCreditPurchaseSum: nd(banking.ScCreditPurchaseSum),
		entity.MetricScAwardedSum:        round2(nd(casino.ScBonusSum).Add(nd(banking.ScBonusSum))),
		entity.MetricGcAwardedSum:        round2(nd(casino.GcBonusSum).Add(nd(banking.GcBonusSum))),
	}, nil
}

type liveTransactionRow struct {
	ScStakedSum decimal.NullDecimal `db:"scStakedSum"`
	ScWinSum    decimal.NullDecimal `db:"scWinSum"`
}

// LiveTransaction computes the staked/win delta from settled SC wagers.
// Jackpot revenue for the same range is attributed separately.
func (ps *PGStore) LiveTransaction(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.Bundle, error) {
	query := `
	SELECT
		ROUND(SUM(CASE WHEN action_type = 'bet' THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "scStakedSum",
		ROUND(SUM(CASE WHEN action_type = 'win' THEN COALESCE(amount, 0) ELSE 0 END)::numeric, 2) AS "scWinSum"
	FROM casino_transactions
	WHERE created_at BETWEEN :startDate AND :endDate AND amount_type = 1 AND status = 1` + segmentCondition("user_id", seg)

	row, err := QueryNamedOne[liveTransactionRow](ctx, ps.db, query, map[string]any{
		"startDate":   start,
		"endDate":     end,
		"internalIds": internalIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get live transaction data: %w", err)
	}

	return entity.Bundle{
		entity.MetricScStakedSum: nd(row.ScStakedSum),
		entity.MetricScWinSum:    nd(row.ScWinSum),
	}, nil
}
