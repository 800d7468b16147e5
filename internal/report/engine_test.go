package report

import (
	"context"
	"testing"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/dependency"
	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReports struct {
	cumDashboard    entity.Bundle
	cumFunnel       entity.Bundle
	cumCustomer     entity.Bundle
	cumEconomy      entity.Bundle
	cumTransaction  entity.Bundle
	cumBonus        entity.BonusBreakdown
	liveDashboard   entity.Bundle
	liveCustomer    entity.Bundle
	liveEconomy     entity.Bundle
	liveTransaction entity.Bundle
	liveBonus       entity.BonusBreakdown
	loginCounts     entity.LoginCounts
	loginTotals     entity.LoginTotals
	wallet, vault   decimal.Decimal
}

func (f *fakeReports) CumulativeDashboard(context.Context, time.Time, time.Time, entity.PlayerSegment) (entity.Bundle, error) {
	return f.cumDashboard.Clone(), nil
}
func (f *fakeReports) CumulativeFunnel(context.Context, time.Time, time.Time, entity.PlayerSegment) (entity.Bundle, error) {
	return f.cumFunnel.Clone(), nil
}
func (f *fakeReports) CumulativeCustomer(context.Context, time.Time, time.Time, entity.PlayerSegment) (entity.Bundle, error) {
	return f.cumCustomer.Clone(), nil
}
func (f *fakeReports) CumulativeEconomy(context.Context, time.Time, time.Time, entity.PlayerSegment) (entity.Bundle, error) {
	return f.cumEconomy.Clone(), nil
}
func (f *fakeReports) CumulativeTransaction(context.Context, time.Time, time.Time, entity.PlayerSegment) (entity.Bundle, error) {
	return f.cumTransaction.Clone(), nil
}
func (f *fakeReports) CumulativeBonus(context.Context, time.Time, time.Time) (entity.BonusBreakdown, error) {
	return f.cumBonus, nil
}
func (f *fakeReports) LiveDashboard(context.Context, time.Time, time.Time, entity.PlayerSegment, []int64) (entity.Bundle, error) {
	return f.liveDashboard.Clone(), nil
}
func (f *fakeReports) LiveCustomer(context.Context, time.Time, time.Time, entity.PlayerSegment, []int64) (entity.Bundle, error) {
	return f.liveCustomer.Clone(), nil
}
func (f *fakeReports) LiveEconomy(context.Context, time.Time, time.Time, entity.PlayerSegment, []int64) (entity.Bundle, error) {
	return f.liveEconomy.Clone(), nil
}
func (f *fakeReports) LiveTransaction(context.Context, time.Time, time.Time, entity.PlayerSegment, []int64) (entity.Bundle, error) {
	return f.liveTransaction.Clone(), nil
}
func (f *fakeReports) LiveBonus(context.Context, time.Time, time.Time, entity.PlayerSegment, []int64) (entity.BonusBreakdown, error) {
	return f.liveBonus, nil
}
func (f *fakeReports) LoginCounts(context.Context, entity.WindowSet, entity.PlayerSegment, []int64) (entity.LoginCounts, error) {
	return f.loginCounts, nil
}
func (f *fakeReports) LoginCountsTillDate(context.Context, entity.PlayerSegment, []int64) (entity.LoginTotals, error) {
	return f.loginTotals, nil
}
func (f *fakeReports) WalletCoinTotals(context.Context) (decimal.Decimal, decimal.Decimal, error) {
	return f.wallet, f.vault, nil
}

type fakeJackpots struct {
	started     []entity.JackpotCampaign
	overlapping []entity.JackpotCampaign
	entries     []entity.JackpotEntry
}

func (f *fakeJackpots) CampaignsStartedBetween(context.Context, time.Time, time.Time) ([]entity.JackpotCampaign, error) {
	return f.started, nil
}
func (f *fakeJackpots) CampaignsOverlapping(context.Context, time.Time, time.Time) ([]entity.JackpotCampaign, error) {
	return f.overlapping, nil
}
func (f *fakeJackpots) JackpotEntries(context.Context, time.Time, time.Time, entity.PlayerSegment, []int64) ([]entity.JackpotEntry, error) {
	return f.entries, nil
}

type fakeRepo struct {
	reports  *fakeReports
	jackpots *fakeJackpots
	users    *fakeUsers
	now      time.Time
}

func (f *fakeRepo) Reports() dependency.Reports   { return f.reports }
func (f *fakeRepo) Jackpots() dependency.Jackpots { return f.jackpots }
func (f *fakeRepo) Users() dependency.Users       { return f.users }
func (f *fakeRepo) DB() dependency.DB             { return nil }
func (f *fakeRepo) Now() time.Time                { return f.now }
func (f *fakeRepo) Ping(context.Context) error    { return nil }
func (f *fakeRepo) Close()                        {}

func newFakeRepo(reports *fakeReports) *fakeRepo {
	return &fakeRepo{
		reports:  reports,
		jackpots: &fakeJackpots{},
		users:    &fakeUsers{ids: []int64{1}},
		// afternoon request, so today's window has a live tail past the
		// watermark while yesterday and last month are fully aggregated
		now: time.Date(2026, 8, 31, 12, 47, 13, 0, time.UTC),
	}
}

func TestParseReportType(t *testing.T) {
	for _, s := range []string{"dashboard", "login", "loginTillDate", "customer", "economy", "transaction", "bonus"} {
		rt, err := ParseReportType(s)
		require.NoError(t, err)
		assert.Equal(t, ReportType(s), rt)
	}

	_, err := ParseReportType("payments")
	assert.Error(t, err)
}

func TestComputeTransactionReport(t *testing.T) {
	repo := newFakeRepo(&fakeReports{
		cumTransaction: entity.Bundle{
			entity.MetricScStakedSum: dec("10"),
			entity.MetricScWinSum:    dec("4"),
		},
		liveTransaction: entity.Bundle{
			entity.MetricScStakedSum: dec("5"),
			entity.MetricScWinSum:    dec("1"),
		},
	})

	payload, err := New(repo, nil).ComputeReport(context.Background(), Params{
		ReportType: ReportTransaction,
		PlayerType: entity.SegmentAll,
		Timezone:   "UTC",
	})
	require.NoError(t, err)

	staked, ok := payload["SC_STAKED_TOTAL"].(map[entity.WindowKind]decimal.Decimal)
	require.True(t, ok)
	assertDecimal(t, "15", staked[entity.WindowToday])
	assertDecimal(t, "10", staked[entity.WindowYesterday])
	// month-to-date and till-date merge today's live delta
	assertDecimal(t, "15", staked[entity.WindowMonthToDate])
	assertDecimal(t, "10", staked[entity.WindowLastMonth])
	assertDecimal(t, "15", staked[entity.WindowCustom])
	assertDecimal(t, "15", staked[entity.WindowTillDate])

	ggr := payload["SC_GGR_TOTAL"].(map[entity.WindowKind]decimal.Decimal)
	assertDecimal(t, "10", ggr[entity.WindowToday])
	assertDecimal(t, "6", ggr[entity.WindowYesterday])

	edge := payload["HOUSE_EDGE"].(map[entity.WindowKind]decimal.Decimal)
	assertDecimal(t, "66.67", edge[entity.WindowToday])
	assertDecimal(t, "60", edge[entity.WindowYesterday])

	jackpot := payload["JACKPOT_REVENUE"].(map[entity.WindowKind]decimal.Decimal)
	assertDecimal(t, "0", jackpot[entity.WindowToday])
}

func TestComputeCustomerReport(t *testing.T) {
	repo := newFakeRepo(&fakeReports{
		cumCustomer: entity.Bundle{
			entity.MetricPurchaseSum:           dec("100"),
			entity.MetricPurchaseCount:         dec("3"),
			entity.MetricPendingRedemptionSum:  dec("5"),
			entity.MetricApprovedRedemptionSum: dec("5"),
		},
	})

	payload, err := New(repo, nil).ComputeReport(context.Background(), Params{
		ReportType: ReportCustomer,
		Timezone:   "UTC",
	})
	require.NoError(t, err)

	avg := payload["AVERAGE_PURCHASE_AMOUNT"].(map[entity.WindowKind]decimal.Decimal)
	assertDecimal(t, "33.33", avg[entity.WindowYesterday])

	net := payload["NET_REVENUE"].(map[entity.WindowKind]decimal.Decimal)
	assertDecimal(t, "90", net[entity.WindowYesterday])
}

func TestComputeBonusReport(t *testing.T) {
	repo := newFakeRepo(&fakeReports{
		cumBonus: entity.BonusBreakdown{
			entity.BonusDaily: {ScBonus: dec("10"), TotalUsers: 1},
		},
		liveBonus: entity.BonusBreakdown{
			entity.BonusDaily: {ScBonus: dec("1"), TotalUsers: 1},
		},
	})

	payload, err := New(repo, nil).ComputeReport(context.Background(), Params{
		ReportType: ReportBonus,
		Timezone:   "UTC",
	})
	require.NoError(t, err)

	for _, key := range []string{
		"TODAY_BONUS_REPORT", "YESTERDAY_BONUS_REPORT", "MONTH_TO_DATE_BONUS_REPORT",
		"LAST_MONTH_BONUS_REPORT", "CUSTOM_DATE_BONUS_REPORT", "TILL_DATE_BONUS_REPORT",
	} {
		assert.Contains(t, payload, key)
	}

	today := payload["TODAY_BONUS_REPORT"].(entity.BonusBreakdown)
	assertDecimal(t, "11", today[entity.BonusDaily].ScBonus)
	yesterday := payload["YESTERDAY_BONUS_REPORT"].(entity.BonusBreakdown)
	assertDecimal(t, "10", yesterday[entity.BonusDaily].ScBonus)
}

func TestComputeLoginReports(t *testing.T) {
	repo := newFakeRepo(&fakeReports{
		loginCounts: entity.LoginCounts{TodayUnique: 3, TodayTotal: 8, LastMonthTotal: 40},
		loginTotals: entity.LoginTotals{Unique: 5, Total: 9},
	})
	engine := New(repo, nil)

	payload, err := engine.ComputeReport(context.Background(), Params{ReportType: ReportLogin, Timezone: "UTC"})
	require.NoError(t, err)
	uniq := payload["UNIQ_LOGIN"].(map[entity.WindowKind]int64)
	assert.Equal(t, int64(3), uniq[entity.WindowToday])
	total := payload["TOTAL_LOGIN"].(map[entity.WindowKind]int64)
	assert.Equal(t, int64(40), total[entity.WindowLastMonth])

	payload, err = engine.ComputeReport(context.Background(), Params{ReportType: ReportLoginTillDate})
	require.NoError(t, err)
	assert.Equal(t, int64(5), payload["UNIQ_LOGIN"])
	assert.Equal(t, int64(9), payload["TOTAL_LOGIN"])
}

func TestComputeDashboardReport(t *testing.T) {
	repo := newFakeRepo(&fakeReports{
		cumDashboard: entity.Bundle{
			entity.MetricScStakedSum:    dec("100"),
			entity.MetricScWinSum:       dec("40"),
			entity.MetricScAwardedSum:   dec("10"),
			entity.MetricGcAwardedSum:   dec("5"),
			entity.MetricJackpotRevenue: dec("2"),
			entity.MetricRedemptionSum:  dec("20"),
			entity.MetricPurchaseSum:    dec("50"),
		},
		cumFunnel: entity.Bundle{
			entity.MetricRedemptionSum: dec("200"),
			entity.MetricPurchaseSum:   dec("1000"),
		},
		wallet: dec("11.5"),
		vault:  dec("3"),
	})

	payload, err := New(repo, &fakeKV{ready: false}).ComputeReport(context.Background(), Params{
		ReportType: ReportDashboard,
		Timezone:   "UTC",
	})
	require.NoError(t, err)

	body, ok := payload["DASHBOARD_REPORT"].(map[string]any)
	require.True(t, ok)

	assertDecimal(t, "100", body["scStakedTodayCount"].(decimal.Decimal))
	assertDecimal(t, "60", body["scGgr"].(decimal.Decimal))
	assertDecimal(t, "52", body["netScGgr"].(decimal.Decimal))
	assertDecimal(t, "2", body["jackpotRevenue"].(decimal.Decimal))
	assertDecimal(t, "40", body["redemptionRateToday"].(decimal.Decimal))
	assertDecimal(t, "20", body["redemptionRateOverall"].(decimal.Decimal))
	assertDecimal(t, "11.5", body["totalWalletScCoin"].(decimal.Decimal))
	assertDecimal(t, "3", body["totalVaultScCoin"].(decimal.Decimal))
	// cache down, presence counters degrade to zero
	assert.Equal(t, int64(0), body["currentLogin"])
	assert.Equal(t, int64(0), body["activePlayersCount"])
}
