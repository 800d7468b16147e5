package report

import (
	"context"
	"sort"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/dependency"
	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// JackpotRevenueCalculator attributes platform jackpot revenue for a time
// range: the admin share of every pool entry, attributed through the campaign
// active when the entry was made, minus the seed capital of campaigns newly
// started in the range.
type JackpotRevenueCalculator struct {
	jackpots dependency.Jackpots
}

func NewJackpotRevenueCalculator(jackpots dependency.Jackpots) *JackpotRevenueCalculator {
	return &JackpotRevenueCalculator{jackpots: jackpots}
}

// Revenue computes attributed jackpot revenue for [start, end].
func (c *JackpotRevenueCalculator) Revenue(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (decimal.Decimal, error) {
	var (
		started     []entity.JackpotCampaign
		overlapping []entity.JackpotCampaign
		entries     []entity.JackpotEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		started, err = c.jackpots.CampaignsStartedBetween(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		overlapping, err = c.jackpots.CampaignsOverlapping(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = c.jackpots.JackpotEntries(gctx, start, end, seg, internalIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	return attributeRevenue(start, end, started, overlapping, entries), nil
}

// attributeRevenue is the pure attribution sweep. With a single overlapping
// campaign every in-range entry carries its admin share and no seed is
// deducted. With several, the range is cut into contiguous buckets bounded by
// successive campaign end dates; an entry pays the share of its bucket's
// campaign, entries outside every bucket pay nothing, and seeds of campaigns
// newly started in range come off the total.
func attributeRevenue(start, end time.Time, started, overlapping []entity.JackpotCampaign, entries []entity.JackpotEntry) decimal.Decimal {
	if len(overlapping) == 0 {
		return decimal.Zero
	}

	if len(overlapping) == 1 {
		sum := decimal.Zero
		for _, e := range entries {
			if inRange(e.CreatedAt, start, end) {
				sum = sum.Add(e.Amount)
			}
		}
		return round2(sum.Mul(overlapping[0].AdminShare))
	}

	campaigns := make([]entity.JackpotCampaign, len(overlapping))
	copy(campaigns, overlapping)
	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].StartDate.Before(campaigns[j].StartDate)
	})

	type bucket struct {
		lo, hi time.Time
		share  decimal.Decimal
	}
	var buckets []bucket
	lo := start
	for i, c := range campaigns {
		hi := end
		if i < len(campaigns)-1 {
			if c.EndDate == nil {
				// open-ended campaign mid-list contributes no bounded bucket
				continue
			}
			hi = *c.EndDate
		}
		if hi.Before(lo) {
			continue
		}
		buckets = append(buckets, bucket{lo: lo, hi: hi, share: c.AdminShare})
		lo = hi
	}

	total := decimal.Zero
	for _, e := range entries {
		for i, b := range buckets {
			// the first bucket includes its lower bound, later ones do not
			if inRange(e.CreatedAt, b.lo, b.hi) && (i == 0 || e.CreatedAt.After(b.lo)) {
				total = total.Add(e.Amount.Mul(b.share))
				break
			}
		}
	}

	seeds := decimal.Zero
	for _, c := range started {
		seeds = seeds.Add(c.SeedAmount)
	}
	return round2(total).Sub(seeds)
}

func inRange(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}
