// Package report implements the aggregation-and-reconciliation engine behind
// the operational dashboards: every figure is a cumulative read from the
// half-hourly materialized aggregate merged with a live delta computed from
// the raw fact tables past the aggregation watermark.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/dependency"
	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ReportType selects which dashboard report to compute.
type ReportType string

const (
	ReportDashboard     ReportType = "dashboard"
	ReportLogin         ReportType = "login"
	ReportLoginTillDate ReportType = "loginTillDate"
	ReportCustomer      ReportType = "customer"
	ReportEconomy       ReportType = "economy"
	ReportTransaction   ReportType = "transaction"
	ReportBonus         ReportType = "bonus"
)

// ParseReportType validates a caller-supplied report type.
func ParseReportType(s string) (ReportType, error) {
	switch ReportType(s) {
	case ReportDashboard, ReportLogin, ReportLoginTillDate, ReportCustomer,
		ReportEconomy, ReportTransaction, ReportBonus:
		return ReportType(s), nil
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

// Params is one report request.
type Params struct {
	ReportType ReportType
	PlayerType entity.PlayerSegment
	StartDate  string
	EndDate    string
	Timezone   string
}

// Engine computes report payloads. It owns no state beyond its dependencies
// and is safe for concurrent use.
type Engine struct {
	rep     dependency.Repository
	kv      dependency.KV
	users   *InternalUserProvider
	jackpot *JackpotRevenueCalculator
}

func New(rep dependency.Repository, kv dependency.KV) *Engine {
	return &Engine{
		rep:     rep,
		kv:      kv,
		users:   NewInternalUserProvider(kv, rep.Users()),
		jackpot: NewJackpotRevenueCalculator(rep.Jackpots()),
	}
}

// ComputeReport resolves the request's windows and computes the payload for
// the requested report type.
func (e *Engine) ComputeReport(ctx context.Context, p Params) (map[string]any, error) {
	now := e.rep.Now().UTC()
	windows := ResolveWindows(now, p.StartDate, p.EndDate, p.Timezone)
	seg := p.PlayerType

	ids, err := e.users.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't resolve internal users: %w", err)
	}

	switch p.ReportType {
	case ReportDashboard:
		return e.dashboardReport(ctx, now, windows, seg, ids)
	case ReportLogin:
		return e.loginReport(ctx, windows, seg, ids)
	case ReportLoginTillDate:
		return e.loginTillDateReport(ctx, seg, ids)
	case ReportCustomer:
		return e.customerReport(ctx, now, windows, seg, ids)
	case ReportEconomy:
		return e.economyReport(ctx, now, windows, seg, ids)
	case ReportTransaction:
		return e.transactionReport(ctx, now, windows, seg, ids)
	case ReportBonus:
		return e.bonusReport(ctx, now, windows, seg, ids)
	}
	return nil, fmt.Errorf("unknown report type %q", p.ReportType)
}

// windowSplits carries the watermark split of every distinct window end.
// Today's split also bounds the month-to-date and till-date windows, which
// deliberately reuse today's live delta when merging.
type windowSplits struct {
	windows   entity.WindowSet
	today     entity.WatermarkSplit
	yesterday entity.WatermarkSplit
	lastMonth entity.WatermarkSplit
	custom    entity.WatermarkSplit
}

func splitAll(now time.Time, w entity.WindowSet) windowSplits {
	return windowSplits{
		windows:   w,
		today:     SplitWindow(now, w.TodayEnd),
		yesterday: SplitWindow(now, w.YesterdayEnd),
		lastMonth: SplitWindow(now, w.EndOfLastMonth),
		custom:    SplitWindow(now, w.EndDate),
	}
}

var epoch = time.Unix(0, 0).UTC()

type rangeReader[T any] func(ctx context.Context, start, end time.Time) (T, error)

// gatherWindows runs the six cumulative reads and up to four live reads of a
// report domain concurrently, then merges them per window. Month-to-date and
// till-date merge today's live delta; a window whose watermark split carries
// no live range merges the zero value.
func gatherWindows[T any](
	ctx context.Context,
	ws windowSplits,
	cumulative rangeReader[T],
	live rangeReader[T],
	merge func(cum, live T) T,
) (map[entity.WindowKind]T, error) {
	var (
		cums  [6]T
		lives [4]T
	)

	cumRanges := [6]struct{ start, end time.Time }{
		{ws.windows.TodayStart, ws.today.CumulativeEnd},
		{ws.windows.YesterdayStart, ws.yesterday.CumulativeEnd},
		{ws.windows.StartOfMonth, ws.today.CumulativeEnd},
		{ws.windows.StartOfLastMonth, ws.lastMonth.CumulativeEnd},
		{ws.windows.StartDate, ws.custom.CumulativeEnd},
		{epoch, ws.today.CumulativeEnd},
	}
	liveRanges := [4]struct {
		split entity.WatermarkSplit
		end   time.Time
	}{
		{ws.today, ws.windows.TodayEnd},
		{ws.yesterday, ws.windows.YesterdayEnd},
		{ws.lastMonth, ws.windows.EndOfLastMonth},
		{ws.custom, ws.windows.EndDate},
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range cumRanges {
		g.Go(func() error {
			out, err := cumulative(gctx, r.start, r.end)
			if err != nil {
				return err
			}
			cums[i] = out
			return nil
		})
	}
	for i, r := range liveRanges {
		if !r.split.Live() {
			continue
		}
		g.Go(func() error {
			out, err := live(gctx, *r.split.LiveStart, r.end)
			if err != nil {
				return err
			}
			lives[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return map[entity.WindowKind]T{
		entity.WindowToday:       merge(cums[0], lives[0]),
		entity.WindowYesterday:   merge(cums[1], lives[1]),
		entity.WindowMonthToDate: merge(cums[2], lives[0]),
		entity.WindowLastMonth:   merge(cums[3], lives[2]),
		entity.WindowCustom:      merge(cums[4], lives[3]),
		entity.WindowTillDate:    merge(cums[5], lives[0]),
	}, nil
}

// windowValues projects one metric out of the merged per-window bundles.
func windowValues(merged map[entity.WindowKind]entity.Bundle, m entity.Metric) map[entity.WindowKind]decimal.Decimal {
	out := make(map[entity.WindowKind]decimal.Decimal, len(entity.WindowKinds))
	for _, k := range entity.WindowKinds {
		out[k] = merged[k].Get(m)
	}
	return out
}

func deriveWindows(merged map[entity.WindowKind]entity.Bundle, derive func(entity.Bundle) decimal.Decimal) map[entity.WindowKind]decimal.Decimal {
	out := make(map[entity.WindowKind]decimal.Decimal, len(entity.WindowKinds))
	for _, k := range entity.WindowKinds {
		out[k] = derive(merged[k])
	}
	return out
}

func (e *Engine) customerReport(ctx context.Context, now time.Time, w entity.WindowSet, seg entity.PlayerSegment, ids []int64) (map[string]any, error) {
	reports := e.rep.Reports()
	merged, err := gatherWindows(ctx, splitAll(now, w),
		func(ctx context.Context, start, end time.Time) (entity.Bundle, error) {
			return reports.CumulativeCustomer(ctx, start, end, seg)
		},
		func(ctx context.Context, start, end time.Time) (entity.Bundle, error) {
			return reports.LiveCustomer(ctx, start, end, seg, ids)
		},
		Combine,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"NEW_REGISTRATION":    windowValues(merged, entity.MetricNewRegisteredPlayers),
		"FIRST_DEPOSIT_COUNT": windowValues(merged, entity.MetricFirstPurchaseCount),
		"FIRST_DEPOSIT_SUM":   windowValues(merged, entity.MetricFirstPurchaseSum),
		"PURCHASE_COUNT":      windowValues(merged, entity.MetricPurchaseCount),
		"PURCHASE_SUM":        windowValues(merged, entity.MetricPurchaseSum),
		"AVERAGE_PURCHASE_AMOUNT": deriveWindows(merged, func(b entity.Bundle) decimal.Decimal {
			return AveragePurchaseAmount(b.Get(entity.MetricPurchaseSum), b.Get(entity.MetricPurchaseCount))
		}),
		"REQUESTED_REDEMPTION_COUNT": windowValues(merged, entity.MetricRequestRedemptionCount),
		"PENDING_REDEMPTION_COUNT":   windowValues(merged, entity.MetricPendingRedemptionCount),
		"APPROVAL_REDEMPTION_COUNT":  windowValues(merged, entity.MetricApprovedRedemptionCount),
		"CANCELLED_REDEMPTION_COUNT": windowValues(merged, entity.MetricCancelledRedemptionCount),
		"FAILED_REDEMPTION_COUNT":    windowValues(merged, entity.MetricFailedRedemptionCount),
		"REQUESTED_REDEMPTION_SUM":   windowValues(merged, entity.MetricRequestRedemptionSum),
		"PENDING_REDEMPTION_SUM":     windowValues(merged, entity.MetricPendingRedemptionSum),
		"APPROVAL_REDEMPTION_SUM":    windowValues(merged, entity.MetricApprovedRedemptionSum),
		"CANCELLED_REDEMPTION_SUM":   windowValues(merged, entity.MetricCancelledRedemptionSum),
		"FAILED_REDEMPTION_SUM":      windowValues(merged, entity.MetricFailedRedemptionSum),
		"NET_REVENUE": deriveWindows(merged, func(b entity.Bundle) decimal.Decimal {
			return NetRevenue(b.Get(entity.MetricPurchaseSum), b.Get(entity.MetricPendingRedemptionSum), b.Get(entity.MetricApprovedRedemptionSum))
		}),
	}, nil
}

func (e *Engine) economyReport(ctx context.Context, now time.Time, w entity.WindowSet, seg entity.PlayerSegment, ids []int64) (map[string]any, error) {
	reports := e.rep.Reports()
	merged, err := gatherWindows(ctx, splitAll(now, w),
		func(ctx context.Context, start, end time.Time) (entity.Bundle, error) {
			return reports.CumulativeEconomy(ctx, start, end, seg)
		},
		func(ctx context.Context, start, end time.Time) (entity.Bundle, error) {
			return reports.LiveEconomy(ctx, start, end, seg, ids)
		},
		Combine,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"GC_CREDITED_PURCHASE": windowValues(merged, entity.MetricGcCreditPurchaseSum),
		"SC_CREDITED_PURCHASE": windowValues(merged, entity.MetricScCreditPurchaseSum),
		"GC_AWARDED_TOTAL":     windowValues(merged, entity.MetricGcAwardedSum),
		"SC_AWARDED_TOTAL":     windowValues(merged, entity.MetricScAwardedSum),
	}, nil
}

func (e *Engine) transactionReport(ctx context.Context, now time.Time, w entity.WindowSet, seg entity.PlayerSegment, ids []int64) (map[string]any, error) {
	reports := e.rep.Reports()
	merged, err := gatherWindows(ctx, splitAll(now, w),
		func(ctx context.Context, start, end time.Time) (entity.Bundle, error) {
			return reports.CumulativeTransaction(ctx, start, end, seg)
		},
		func(ctx context.Context, start, end time.Time) (entity.Bundle, error) {
			bundle, err := reports.LiveTransaction(ctx, start, end, seg, ids)
			if err != nil {
				return nil, err
			}
			revenue, err := e.jackpot.Revenue(ctx, start, end, seg, ids)
			if err != nil {
				return nil, err
			}
			bundle[entity.MetricJackpotRevenue] = revenue
			return bundle, nil
		},
		Combine,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"JACKPOT_REVENUE": windowValues(merged, entity.MetricJackpotRevenue),
		"SC_STAKED_TOTAL": windowValues(merged, entity.MetricScStakedSum),
		"SC_WIN_TOTAL":    windowValues(merged, entity.MetricScWinSum),
		"SC_GGR_TOTAL": deriveWindows(merged, func(b entity.Bundle) decimal.Decimal {
			return ScGgr(b.Get(entity.MetricScStakedSum), b.Get(entity.MetricScWinSum))
		}),
		"HOUSE_EDGE": deriveWindows(merged, func(b entity.Bundle) decimal.Decimal {
			return HouseEdge(b.Get(entity.MetricScStakedSum), b.Get(entity.MetricScWinSum))
		}),
	}, nil
}

// bonusWindowLabel maps window kinds to the bonus report's payload keys.
var bonusWindowLabel = map[entity.WindowKind]string{
	entity.WindowToday:       "TODAY_BONUS_REPORT",
	entity.WindowYesterday:   "YESTERDAY_BONUS_REPORT",
	entity.WindowMonthToDate: "MONTH_TO_DATE_BONUS_REPORT",
	entity.WindowLastMonth:   "LAST_MONTH_BONUS_REPORT",
	entity.WindowCustom:      "CUSTOM_DATE_BONUS_REPORT",
	entity.WindowTillDate:    "TILL_DATE_BONUS_REPORT",
}

func (e *Engine) bonusReport(ctx context.Context, now time.Time, w entity.WindowSet, seg entity.PlayerSegment, ids []int64) (map[string]any, error) {
	reports := e.rep.Reports()
	merged, err := gatherWindows(ctx, splitAll(now, w),
		func(ctx context.Context, start, end time.Time) (entity.BonusBreakdown, error) {
			return reports.CumulativeBonus(ctx, start, end)
		},
		func(ctx context.Context, start, end time.Time) (entity.BonusBreakdown, error) {
			return reports.LiveBonus(ctx, start, end, seg, ids)
		},
		MergeBonus,
	)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(merged))
	for kind, breakdown := range merged {
		out[bonusWindowLabel[kind]] = breakdown
	}
	return out, nil
}

func (e *Engine) loginReport(ctx context.Context, w entity.WindowSet, seg entity.PlayerSegment, ids []int64) (map[string]any, error) {
	counts, err := e.rep.Reports().LoginCounts(ctx, w, seg, ids)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"UNIQ_LOGIN": map[entity.WindowKind]int64{
			entity.WindowToday:       counts.TodayUnique,
			entity.WindowYesterday:   counts.YesterdayUnique,
			entity.WindowMonthToDate: counts.MonthUnique,
			entity.WindowLastMonth:   counts.LastMonthUnique,
			entity.WindowCustom:      counts.CustomUnique,
		},
		"TOTAL_LOGIN": map[entity.WindowKind]int64{
			entity.WindowToday:       counts.TodayTotal,
			entity.WindowYesterday:   counts.YesterdayTotal,
			entity.WindowMonthToDate: counts.MonthTotal,
			entity.WindowLastMonth:   counts.LastMonthTotal,
			entity.WindowCustom:      counts.CustomTotal,
		},
	}, nil
}

func (e *Engine) loginTillDateReport(ctx context.Context, seg entity.PlayerSegment, ids []int64) (map[string]any, error) {
	totals, err := e.rep.Reports().LoginCountsTillDate(ctx, seg, ids)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"UNIQ_LOGIN":  totals.Unique,
		"TOTAL_LOGIN": totals.Total,
	}, nil
}

func (e *Engine) dashboardReport(ctx context.Context, now time.Time, w entity.WindowSet, seg entity.PlayerSegment, ids []int64) (map[string]any, error) {
	reports := e.rep.Reports()
	split := SplitWindow(now, w.TodayEnd)

	var (
		today        entity.Bundle
		overall      entity.Bundle
		live         entity.Bundle
		liveJackpot  decimal.Decimal
		currentLogin int64
		activePlay   int64
		walletSc     decimal.Decimal
		vaultSc      decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		today, err = reports.CumulativeDashboard(gctx, w.TodayStart, split.CumulativeEnd, seg)
		return err
	})
	g.Go(func() error {
		var err error
		overall, err = reports.CumulativeFunnel(gctx, epoch, split.CumulativeEnd, seg)
		return err
	})
	if split.Live() {
		g.Go(func() error {
			var err error
			live, err = reports.LiveDashboard(gctx, *split.LiveStart, w.TodayEnd, seg, ids)
			return err
		})
		g.Go(func() error {
			var err error
			liveJackpot, err = e.jackpot.Revenue(gctx, *split.LiveStart, w.TodayEnd, seg, ids)
			return err
		})
	}
	g.Go(func() error {
		currentLogin, activePlay = e.playerPresence(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		walletSc, vaultSc, err = reports.WalletCoinTotals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scStaked := round2(today.Get(entity.MetricScStakedSum).Add(live.Get(entity.MetricScStakedSum)))
	scWin := round2(today.Get(entity.MetricScWinSum).Add(live.Get(entity.MetricScWinSum)))
	scAwarded := round2(today.Get(entity.MetricScAwardedSum).Add(live.Get(entity.MetricScAwardedSum)))
	gcAwarded := round2(today.Get(entity.MetricGcAwardedSum).Add(live.Get(entity.MetricGcAwardedSum)))
	scGgr := ScGgr(scStaked, scWin)
	jackpotRevenue := round2(today.Get(entity.MetricJackpotRevenue).Add(liveJackpot))
	netScGgr := NetScGgr(scGgr, scAwarded, jackpotRevenue)

	liveRedemption := live.Get(entity.MetricRedemptionSum)
	livePurchase := live.Get(entity.MetricPurchaseSum)
	rateToday := RedemptionRate(
		today.Get(entity.MetricRedemptionSum).Add(liveRedemption),
		today.Get(entity.MetricPurchaseSum).Add(livePurchase),
	)
	rateOverall := RedemptionRate(
		overall.Get(entity.MetricRedemptionSum).Add(liveRedemption),
		overall.Get(entity.MetricPurchaseSum).Add(livePurchase),
	)

	return map[string]any{
		"DASHBOARD_REPORT": map[string]any{
			"scStakedTodayCount":        scStaked,
			"scWinTodayCount":           scWin,
			"scAwardedTotalSumForToday": scAwarded,
			"gcAwardedTotalSumForToday": gcAwarded,
			"scGgr":                     scGgr,
			"netScGgr":                  netScGgr,
			"jackpotRevenue":            jackpotRevenue,
			"currentLogin":              currentLogin,
			"activePlayersCount":        activePlay,
			"totalWalletScCoin":         walletSc,
			"totalVaultScCoin":          vaultSc,
			"redemptionRateOverall":     rateOverall,
			"redemptionRateToday":       rateToday,
		},
	}, nil
}

// playerPresence counts live sessions from the KV keyspace, zero when the
// cache is unavailable. Presence is decoration on the dashboard, never a
// reason to fail the report.
func (e *Engine) playerPresence(ctx context.Context) (loggedIn, active int64) {
	if e.kv == nil || !e.kv.Ready(ctx) {
		return 0, 0
	}
	loggedIn, _ = e.kv.ScanCount(ctx, "user:*")
	active, _ = e.kv.ScanCount(ctx, "gamePlay:*")
	return loggedIn, active
}
