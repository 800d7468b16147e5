package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type bonusJSONRow struct {
	BonusData []byte `db:"bonusData"`
}

// CumulativeBonus unrolls the per-interval bonus_data jsonb documents of the
// materialized aggregate and re-aggregates them by category. Bonus figures
// carry no per-segment columns, so the breakdown is always overall.
func (ps *PGStore) CumulativeBonus(ctx context.Context, start, end time.Time) (entity.BonusBreakdown, error) {
	query := `
	WITH summary AS (
		SELECT
			entry.key                                  AS bonus_type,
			SUM((entry.value->>'scBonus')::numeric)    AS sc_bonus,
			SUM((entry.value->>'gcBonus')::numeric)    AS gc_bonus,
			SUM((entry.value->>'totalNoOfUsers')::int) AS total_users
		FROM dashboard_reports dr
		CROSS JOIN LATERAL jsonb_each(dr.bonus_data) AS entry(key, value)
		WHERE dr."timestamp" BETWEEN :startDate AND :endDate
		GROUP BY entry.key
	)
	SELECT
		jsonb_object_agg(
			bonus_type,
			jsonb_build_object(
				'scBonus',        ROUND(sc_bonus::numeric, 2),
				'gcBonus',        ROUND(gc_bonus::numeric, 2),
				'totalNoOfUsers', total_users
			)
		) AS "bonusData"
	FROM summary`

	row, err := QueryNamedOne[bonusJSONRow](ctx, ps.db, query, map[string]any{
		"startDate": start,
		"endDate":   end,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get cumulative bonus data: %w", err)
	}
	if len(row.BonusData) == 0 {
		return entity.BonusBreakdown{}, nil
	}

	breakdown := entity.BonusBreakdown{}
	if err := json.Unmarshal(row.BonusData, &breakdown); err != nil {
		return nil, fmt.Errorf("can't decode cumulative bonus data: %w", err)
	}
	return breakdown, nil
}

type livePromoBonusRow struct {
	PurchasePromocodeScBonus decimal.NullDecimal `db:"purchasePromocodeScBonus"`
	PurchasePromocodeGcBonus decimal.NullDecimal `db:"purchasePromocodeGcBonus"`
	PurchasePromocodeUsers   sql.NullInt64       `db:"purchasePromocodeUsers"`
	CrmPromocodeScBonus      decimal.NullDecimal `db:"crmPromocodeScBonus"`
	CrmPromocodeGcBonus      decimal.NullDecimal `db:"crmPromocodeGcBonus"`
	CrmPromocodeUsers        sql.NullInt64       `db:"crmPromocodeUsers"`
	PackageScBonus           decimal.NullDecimal `db:"packageScBonus"`
	PackageGcBonus           decimal.NullDecimal `db:"packageGcBonus"`
	PackageUsers             sql.NullInt64       `db:"packageUsers"`
	AdminAddedScBonus        decimal.NullDecimal `db:"adminAddedScBonus"`
	AdminAddedUsers          sql.NullInt64       `db:"adminAddedUsers"`
}

type liveFreeSpinRow struct {
	TotalUsers int64               `db:"totalUsers"`
	ScAmount   decimal.NullDecimal `db:"scAmount"`
	GcAmount   decimal.NullDecimal `db:"gcAmount"`
}

type casinoBonusJSONRow struct {
	CasinoBonusData []byte `db:"casinoBonusData"`
}

// casinoBonusCategory maps a casino_transactions action type to its report
// category. package-bonus and first-purchase-bonus fold into packageBonus
// together with the deposit package grants and are handled separately.
var casinoBonusCategory = map[string]entity.BonusCategory{
	"amoe-bonus":              entity.BonusAmoe,
	"tier-bonus":              entity.BonusTier,
	"daily-bonus":             entity.BonusDaily,
	"raffle-payout":           entity.BonusRafflePayout,
	"welcome bonus":           entity.BonusWelcome,
	"jackpotWinner":           entity.BonusJackpotWinner,
	"provider-bonus":          entity.BonusProvider,
	"referral-bonus":          entity.BonusReferral,
	"affiliate-bonus":         entity.BonusAffiliate,
	"promotion-bonus":         entity.BonusPromotion,
	"weekly-tier-bonus":       entity.BonusWeeklyTier,
	"monthly-tier-bonus":      entity.BonusMonthlyTier,
	"tournament":              entity.BonusTournamentWinner,
	"scratch-card-bonus":      entity.BonusScratchCard,
	"vip-questionnaire-bonus": entity.BonusVipQuestionnaire,
}

// LiveBonus computes the bonus distribution delta from the raw tables:
// promocode and package grants from bankings, direct wallet grants from
// casino transactions and claimed free spins from user_bonus.
func (ps *PGStore) LiveBonus(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.BonusBreakdown, error) {
	var (
		promo    livePromoBonusRow
		casino   map[string]entity.BonusAmount
		freeSpin liveFreeSpinRow
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := `
		SELECT
			ROUND(SUM(CASE WHEN tb.transaction_type = 'deposit' AND tb.promocode_id <> 0 AND pc.is_discount_on_amount = false AND pc.crm_promocode = false THEN (pc.discount_percentage * (pkg.sc_coin + pkg.bonus_sc)) / 100.0 ELSE 0 END)::numeric, 2) AS "purchasePromocodeScBonus",
			ROUND(SUM(CASE WHEN tb.transaction_type = 'deposit' AND tb.promocode_id <> 0 AND pc.is_discount_on_amount = false AND pc.crm_promocode = false THEN (pc.discount_percentage * (pkg.gc_coin + pkg.bonus_gc)) / 100.0 ELSE 0 END)::numeric, 2) AS "purchasePromocodeGcBonus",
			SUM(CASE WHEN tb.transaction_type = 'deposit' AND tb.promocode_id <> 0 AND pc.is_discount_on_amount = false AND pc.crm_promocode = false THEN 1 ELSE 0 END) AS "purchasePromocodeUsers",
			ROUND(SUM(CASE WHEN tb.transaction_type = 'deposit' AND tb.promocode_id <> 0 AND pc.is_discount_on_amount = false AND pc.crm_promocode = true THEN (pc.discount_percentage * (pkg.sc_coin + pkg.bonus_sc)) / 100.0 ELSE 0 END)::numeric, 2) AS "crmPromocodeScBonus",
			ROUND(SUM(CASE WHEN tb.transaction_type = 'deposit' AND tb.promocode_id <> 0 AND pc.is_discount_on_amount = false AND pc.crm_promocode = true THEN (pc.discount_percentage * (pkg.gc_coin + pkg.bonus_gc)) / 100.0 ELSE 0 END)::numeric, 2) AS "crmPromocodeGcBonus",
			SUM(CASE WHEN tb.transaction_type = 'deposit' AND tb.promocode_id <> 0 AND pc.is_discount_on_amount = false AND pc.crm_promocode = true THEN 1 ELSE 0 END) AS "crmPromocodeUsers",
			TRUNC(SUM(CASE WHEN tb.transaction_type = 'deposit' THEN pkg.bonus_sc ELSE 0 END)::numeric, 2) AS "packageScBonus",
			TRUNC(SUM(CASE WHEN tb.transaction_type = 'deposit' THEN pkg.bonus_gc ELSE 0 END)::numeric, 2) AS "packageGcBonus",
			SUM(CASE WHEN tb.transaction_type = 'deposit' THEN 1 ELSE 0 END) AS "packageUsers",
			TRUNC(SUM(CASE WHEN tb.transaction_type = 'addSc' THEN tb.sc_coin ELSE 0 END)::numeric, 2) AS "adminAddedScBonus",
			SUM(CASE WHEN tb.transaction_type = 'addSc' THEN 1 ELSE 0 END) AS "adminAddedUsers"
		FROM transaction_bankings tb
			LEFT JOIN packages pkg ON tb.package_id = pkg.package_id
			LEFT JOIN promo_codes pc ON tb.promocode_id = pc.promocode_id AND pc.is_discount_on_amount = false
		WHERE tb.status = 1 AND tb.is_success = true AND tb.updated_at BETWEEN :startDate AND :endDate AND (tb.transaction_type = 'deposit' OR tb.transaction_type = 'addSc')` + segmentCondition("tb.actionee_id", seg)

		row, err := QueryNamedOne[livePromoBonusRow](gctx, ps.db, query, map[string]any{
			"startDate":   start,
			"endDate":     end,
			"internalIds": internalIDs,
		})
		if err != nil {
			return fmt.Errorf("can't get live promo bonus data: %w", err)
		}
		promo = row
		return nil
	})

	g.Go(func() error {
		query := `
		WITH casino_bonus AS (
			SELECT action_type AS bonus_type, TRUNC(SUM(sc)::numeric, 2) AS sc_amount, TRUNC(SUM(gc)::numeric, 2) AS gc_amount, COUNT(*) AS total_users
			FROM casino_transactions
			WHERE created_at BETWEEN :startDate AND :endDate AND action_id = '1' AND action_type IN (:bonusTypes) AND status = 1` + segmentCondition("user_id", seg) + `
			GROUP BY action_type
		)
		SELECT jsonb_object_agg(bonus_type, jsonb_build_object('scBonus', sc_amount::numeric, 'gcBonus', gc_amount::numeric, 'totalNoOfUsers', total_users::int)) AS "casinoBonusData" FROM casino_bonus`

		row, err := QueryNamedOne[casinoBonusJSONRow](gctx, ps.db, query, map[string]any{
			"startDate":   start,
			"endDate":     end,
			"bonusTypes":  entity.CasinoBonusActionTypes,
			"internalIds": internalIDs,
		})
		if err != nil {
			return fmt.Errorf("can't get live casino bonus data: %w", err)
		}
		if len(row.CasinoBonusData) > 0 {
			if err := json.Unmarshal(row.CasinoBonusData, &casino); err != nil {
				return fmt.Errorf("can't decode live casino bonus data: %w", err)
			}
		}
		return nil
	})

	g.Go(func() error {
		query := `
		SELECT
			COUNT(*) AS "totalUsers",
			ROUND(SUM(sc_amount)::numeric, 2) AS "scAmount",
			ROUND(SUM(gc_amount)::numeric, 2) AS "gcAmount"
		FROM user_bonus
		WHERE updated_at BETWEEN :startDate AND :endDate AND bonus_type = 'free-spin-bonus' AND status = 'CLAIMED'`

		row, err := QueryNamedOne[liveFreeSpinRow](gctx, ps.db, query, map[string]any{
			"startDate": start,
			"endDate":   end,
		})
		if err != nil {
			return fmt.Errorf("can't get live free spin data: %w", err)
		}
		freeSpin = row
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	breakdown := entity.BonusBreakdown{}
	for actionType, category := range casinoBonusCategory {
		breakdown[category] = casinoAmount(casino, actionType)
	}

	pkg := casinoAmount(casino, "package-bonus")
	firstPurchase := casinoAmount(casino, "first-purchase-bonus")
	breakdown[entity.BonusPackage] = entity.BonusAmount{
		ScBonus:    round2(nd(promo.PackageScBonus).Add(pkg.ScBonus).Add(firstPurchase.ScBonus)),
		GcBonus:    round2(nd(promo.PackageGcBonus).Add(pkg.GcBonus).Add(firstPurchase.GcBonus)),
		TotalUsers: promo.PackageUsers.Int64 + pkg.TotalUsers + firstPurchase.TotalUsers,
	}
	breakdown[entity.BonusAdminAddedSc] = entity.BonusAmount{
		ScBonus:    nd(promo.AdminAddedScBonus),
		GcBonus:    decimal.Zero,
		TotalUsers: promo.AdminAddedUsers.Int64,
	}
	breakdown[entity.BonusCrmPromocode] = entity.BonusAmount{
		ScBonus:    nd(promo.CrmPromocodeScBonus),
		GcBonus:    nd(promo.CrmPromocodeGcBonus),
		TotalUsers: promo.CrmPromocodeUsers.Int64,
	}
	breakdown[entity.BonusPurchasePromocode] = entity.BonusAmount{
		ScBonus:    nd(promo.PurchasePromocodeScBonus),
		GcBonus:    nd(promo.PurchasePromocodeGcBonus),
		TotalUsers: promo.PurchasePromocodeUsers.Int64,
	}
	breakdown[entity.BonusFreeSpin] = entity.BonusAmount{
		ScBonus:    nd(freeSpin.ScAmount),
		GcBonus:    nd(freeSpin.GcAmount),
		TotalUsers: freeSpin.TotalUsers,
	}

	return breakdown, nil
}

func casinoAmount(casino map[string]entity.BonusAmount, actionType string) entity.BonusAmount {
	a, ok := casino[actionType]
	if !ok {
		return entity.BonusAmount{ScBonus: decimal.Zero, GcBonus: decimal.Zero}
	}
	return a
}
