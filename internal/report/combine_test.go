package report

import (
	"testing"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s got %s", want, got.String())
}

func TestCombineUnionAndRounding(t *testing.T) {
	cumulative := entity.Bundle{
		entity.MetricScStakedSum: dec("10.005"),
		entity.MetricScWinSum:    dec("4"),
	}
	live := entity.Bundle{
		entity.MetricScStakedSum: dec("1.001"),
		entity.MetricPurchaseSum: dec("7.777"),
	}

	out := Combine(cumulative, live)
	assertDecimal(t, "11.01", out[entity.MetricScStakedSum])
	assertDecimal(t, "4", out[entity.MetricScWinSum])
	assertDecimal(t, "7.78", out[entity.MetricPurchaseSum])
	assert.Len(t, out, 3)
}

func TestCombineNilBundles(t *testing.T) {
	out := Combine(nil, nil)
	assert.Empty(t, out)
	assertDecimal(t, "0", out.Get(entity.MetricScStakedSum))
}

func TestScGgr(t *testing.T) {
	assertDecimal(t, "5.99", ScGgr(dec("10.50"), dec("4.513")))
}

func TestNetScGgr(t *testing.T) {
	assertDecimal(t, "52", NetScGgr(dec("60"), dec("10"), dec("2")))
	assertDecimal(t, "-3.50", NetScGgr(dec("1"), dec("4.5"), dec("0")))
}

func TestRedemptionRate(t *testing.T) {
	assertDecimal(t, "40", RedemptionRate(dec("20"), dec("50")))
	assertDecimal(t, "33.33", RedemptionRate(dec("1"), dec("3")))
	// no purchases means no rate, not a division error
	assertDecimal(t, "0", RedemptionRate(dec("20"), dec("0")))
}

func TestHouseEdge(t *testing.T) {
	assertDecimal(t, "60", HouseEdge(dec("100"), dec("40")))
	// payout is rounded before subtraction
	assertDecimal(t, "66.67", HouseEdge(dec("3"), dec("1")))
	// nothing staked reports the full house edge
	assertDecimal(t, "100", HouseEdge(dec("0"), dec("0")))
	assertDecimal(t, "100", HouseEdge(dec("-5"), dec("0")))
}

func TestNetRevenue(t *testing.T) {
	// the redemption side is rounded before the subtraction
	assertDecimal(t, "89.99", NetRevenue(dec("100"), dec("5.004"), dec("5.004")))
}

func TestAveragePurchaseAmount(t *testing.T) {
	assertDecimal(t, "33.33", AveragePurchaseAmount(dec("100"), dec("3")))
	assertDecimal(t, "0", AveragePurchaseAmount(dec("100"), dec("0")))
}
