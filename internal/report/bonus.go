package report

import (
	"github.com/amitd-dev/icebarcatmf/internal/entity"
)

// MergeBonus merges a cumulative and a live bonus breakdown per category over
// the union of both key sets, so an unexpected category from either side is
// surfaced rather than dropped, and appends the synthetic total summing every
// real category. A total carried by either input is discarded and recomputed.
func MergeBonus(cumulative, live entity.BonusBreakdown) entity.BonusBreakdown {
	keys := make(map[entity.BonusCategory]struct{}, len(cumulative)+len(live))
	for k := range cumulative {
		keys[k] = struct{}{}
	}
	for k := range live {
		keys[k] = struct{}{}
	}
	delete(keys, entity.BonusTotal)

	out := make(entity.BonusBreakdown, len(keys)+1)
	total := entity.BonusAmount{}
	for k := range keys {
		c := cumulative.Get(k)
		l := live.Get(k)
		merged := entity.BonusAmount{
			ScBonus:    c.ScBonus.Add(l.ScBonus),
			GcBonus:    c.GcBonus.Add(l.GcBonus),
			TotalUsers: c.TotalUsers + l.TotalUsers,
		}
		out[k] = merged
		total.ScBonus = total.ScBonus.Add(merged.ScBonus)
		total.GcBonus = total.GcBonus.Add(merged.GcBonus)
		total.TotalUsers += merged.TotalUsers
	}
	out[entity.BonusTotal] = total
	return out
}
