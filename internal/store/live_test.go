package store

import (
	"testing"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSegmentCondition(t *testing.T) {
	assert.Equal(t, "", segmentCondition("user_id", entity.SegmentAll))
	assert.Equal(t, " AND user_id NOT IN (:internalIds)", segmentCondition("user_id", entity.SegmentReal))
	assert.Equal(t, " AND tb.actionee_id IN (:internalIds)", segmentCondition("tb.actionee_id", entity.SegmentInternal))
}

func TestNullDecimalUnwrap(t *testing.T) {
	assert.True(t, nd(decimal.NullDecimal{}).IsZero())

	v := decimal.NullDecimal{Valid: true, Decimal: decimal.RequireFromString("4.2")}
	assert.True(t, nd(v).Equal(decimal.RequireFromString("4.2")))
}

func TestCasinoAmountMissingActionType(t *testing.T) {
	casino := map[string]entity.BonusAmount{
		"daily-bonus": {ScBonus: decimal.NewFromInt(3), TotalUsers: 2},
	}

	got := casinoAmount(casino, "daily-bonus")
	assert.Equal(t, int64(2), got.TotalUsers)

	missing := casinoAmount(casino, "tier-bonus")
	assert.True(t, missing.ScBonus.IsZero())
	assert.Zero(t, missing.TotalUsers)
}

func TestCasinoBonusCategoryCoversActionTypes(t *testing.T) {
	// every casino grant type maps to a category except the two folded into
	// the package bucket
	for _, at := range entity.CasinoBonusActionTypes {
		if at == "package-bonus" || at == "first-purchase-bonus" {
			_, ok := casinoBonusCategory[at]
			assert.False(t, ok, at)
			continue
		}
		_, ok := casinoBonusCategory[at]
		assert.True(t, ok, at)
	}
}
