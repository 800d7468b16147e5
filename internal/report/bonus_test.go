package report

import (
	"testing"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeBonus(t *testing.T) {
	cumulative := entity.BonusBreakdown{
		entity.BonusDaily:   {ScBonus: dec("15"), GcBonus: dec("2"), TotalUsers: 2},
		entity.BonusWelcome: {ScBonus: dec("3.50"), GcBonus: dec("0"), TotalUsers: 1},
	}
	live := entity.BonusBreakdown{
		entity.BonusDaily: {ScBonus: dec("1"), GcBonus: dec("1"), TotalUsers: 1},
	}

	out := MergeBonus(cumulative, live)
	require.Len(t, out, 3)

	daily := out[entity.BonusDaily]
	assertDecimal(t, "16", daily.ScBonus)
	assertDecimal(t, "3", daily.GcBonus)
	assert.Equal(t, int64(3), daily.TotalUsers)

	total := out[entity.BonusTotal]
	assertDecimal(t, "19.50", total.ScBonus)
	assertDecimal(t, "3", total.GcBonus)
	assert.Equal(t, int64(4), total.TotalUsers)
}

func TestMergeBonusKeepsUnknownCategories(t *testing.T) {
	live := entity.BonusBreakdown{
		entity.BonusCategory("seasonalBonus"): {ScBonus: dec("2"), TotalUsers: 1},
	}

	out := MergeBonus(nil, live)
	assert.Contains(t, out, entity.BonusCategory("seasonalBonus"))
	assertDecimal(t, "2", out[entity.BonusTotal].ScBonus)
}

func TestMergeBonusRecomputesTotal(t *testing.T) {
	// a stale total from the stored aggregate must not be double counted
	cumulative := entity.BonusBreakdown{
		entity.BonusDaily: {ScBonus: dec("10"), TotalUsers: 1},
		entity.BonusTotal: {ScBonus: dec("999"), TotalUsers: 99},
	}

	out := MergeBonus(cumulative, nil)
	require.Len(t, out, 2)
	assertDecimal(t, "10", out[entity.BonusTotal].ScBonus)
	assert.Equal(t, int64(1), out[entity.BonusTotal].TotalUsers)
}

func TestMergeBonusEmpty(t *testing.T) {
	out := MergeBonus(nil, nil)
	require.Len(t, out, 1)
	assertDecimal(t, "0", out[entity.BonusTotal].ScBonus)
	assert.Equal(t, int64(0), out[entity.BonusTotal].TotalUsers)
}
