package report

import (
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
)

// AggregationWatermark is the last instant guaranteed fully captured by the
// half-hourly refresh job: now floored to the most recent 30-minute boundary,
// shifted back 61 minutes, sub-second pinned to .999. Recomputed per request.
func AggregationWatermark(now time.Time) time.Time {
	floored := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(),
		now.Minute()/30*30, 0, 0, now.Location())
	return floored.Add(-61*time.Minute + 59*time.Second + 999*time.Millisecond)
}

// SplitWindow divides a window end between the materialized aggregate and the
// raw tables. When the watermark already covers the whole window the split
// carries no live range.
func SplitWindow(now, windowEnd time.Time) entity.WatermarkSplit {
	watermark := AggregationWatermark(now)
	if watermark.After(windowEnd) {
		return entity.WatermarkSplit{CumulativeEnd: windowEnd}
	}
	liveStart := watermark.Add(time.Millisecond)
	return entity.WatermarkSplit{CumulativeEnd: watermark, LiveStart: &liveStart}
}
