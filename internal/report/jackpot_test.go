package report

import (
	"testing"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/stretchr/testify/assert"
)

func jt(hour int) time.Time {
	return time.Date(2026, 8, 31, hour, 0, 0, 0, time.UTC)
}

func campaign(id int64, start time.Time, end *time.Time, share, seed string) entity.JackpotCampaign {
	return entity.JackpotCampaign{
		ID:         id,
		StartDate:  start,
		EndDate:    end,
		AdminShare: dec(share),
		SeedAmount: dec(seed),
		Status:     entity.JackpotStatusRunning,
	}
}

func entry(at time.Time, amount string) entity.JackpotEntry {
	return entity.JackpotEntry{CreatedAt: at, Amount: dec(amount)}
}

func TestAttributeRevenueNoCampaigns(t *testing.T) {
	got := attributeRevenue(jt(0), jt(10), nil, nil, []entity.JackpotEntry{entry(jt(1), "100")})
	assertDecimal(t, "0", got)
}

func TestAttributeRevenueSingleCampaign(t *testing.T) {
	end := jt(12)
	overlapping := []entity.JackpotCampaign{campaign(1, jt(0), &end, "0.3", "500")}
	// seeds are never deducted for a single campaign, even when it started in range
	started := overlapping

	entries := []entity.JackpotEntry{
		entry(jt(1), "120.50"),
		entry(jt(3), "79.53"),
		entry(jt(11), "999"), // outside [start, end]
	}

	got := attributeRevenue(jt(0), jt(10), started, overlapping, entries)
	// (120.50 + 79.53) * 0.3 = 60.009
	assertDecimal(t, "60.01", got)
}

func TestAttributeRevenueMultipleCampaigns(t *testing.T) {
	c1End := jt(4)
	c1 := campaign(1, jt(0), &c1End, "0.5", "100")
	c2 := campaign(2, jt(2), nil, "0.2", "30")

	overlapping := []entity.JackpotCampaign{c2, c1} // unsorted on purpose
	started := []entity.JackpotCampaign{c2}

	entries := []entity.JackpotEntry{
		entry(jt(1), "100"), // first bucket, share 0.5
		entry(jt(4), "100"), // bucket boundary belongs to the earlier campaign
		entry(jt(5), "100"), // second bucket, share 0.2
	}

	got := attributeRevenue(jt(0), jt(10), started, overlapping, entries)
	// 50 + 50 + 20 = 120, minus the 30 seed of the campaign started in range
	assertDecimal(t, "90", got)
}

func TestAttributeRevenueSeedsCanExceedRevenue(t *testing.T) {
	c1End := jt(4)
	c1 := campaign(1, jt(0), &c1End, "0.5", "0")
	c2 := campaign(2, jt(2), nil, "0.2", "1000")

	got := attributeRevenue(jt(0), jt(10),
		[]entity.JackpotCampaign{c2},
		[]entity.JackpotCampaign{c1, c2},
		[]entity.JackpotEntry{entry(jt(1), "100")},
	)
	assert.True(t, got.IsNegative())
	assertDecimal(t, "-950", got)
}

func TestAttributeRevenueEntryOutsideEveryBucket(t *testing.T) {
	c1End := jt(2)
	c2End := jt(4)
	c1 := campaign(1, jt(0), &c1End, "0.5", "0")
	c2 := campaign(2, jt(1), &c2End, "0.2", "0")

	// range ends at the last campaign's end, entries after it attribute nothing
	got := attributeRevenue(jt(0), jt(4), nil,
		[]entity.JackpotCampaign{c1, c2},
		[]entity.JackpotEntry{entry(jt(3), "100"), entry(jt(5), "100")},
	)
	assertDecimal(t, "20", got)
}

func TestInRange(t *testing.T) {
	assert.True(t, inRange(jt(0), jt(0), jt(2)))
	assert.True(t, inRange(jt(2), jt(0), jt(2)))
	assert.False(t, inRange(jt(3), jt(0), jt(2)))
}
