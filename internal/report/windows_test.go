package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ms(n int) int { return n * int(time.Millisecond) }

func TestResolveWindowsUTC(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	w := ResolveWindows(now, "", "", "UTC")

	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), w.TodayStart)
	assert.Equal(t, time.Date(2026, 8, 31, 23, 59, 59, ms(999), time.UTC), w.TodayEnd)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), w.YesterdayStart)
	assert.Equal(t, time.Date(2026, 8, 30, 23, 59, 59, ms(999), time.UTC), w.YesterdayEnd)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), w.StartOfMonth)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), w.StartOfLastMonth)
	assert.Equal(t, time.Date(2026, 7, 31, 23, 59, 59, ms(999), time.UTC), w.EndOfLastMonth)

	// default custom range is the last three months up to today
	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), w.StartDate)
	assert.Equal(t, w.TodayEnd, w.EndDate)
}

func TestResolveWindowsCustomRange(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	w := ResolveWindows(now, "2026-06-15", "2026-06-20", "UTC")

	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), w.StartDate)
	assert.Equal(t, time.Date(2026, 6, 20, 23, 59, 59, ms(999), time.UTC), w.EndDate)
}

func TestResolveWindowsUnparseableDates(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	w := ResolveWindows(now, "not-a-date", "31/12/2026", "UTC")

	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), w.StartDate)
	assert.Equal(t, w.TodayEnd, w.EndDate)
}

func TestResolveWindowsDefaultStartClampsDay(t *testing.T) {
	// three months before May 31 is February 28, not a rollover into March
	now := time.Date(2026, 5, 31, 10, 0, 0, 0, time.UTC)
	w := ResolveWindows(now, "", "", "UTC")

	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), w.StartDate)
}

func TestResolveWindowsTimezoneOffset(t *testing.T) {
	// 03:00 UTC on Jan 15 is still Jan 14 evening in New York
	now := time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)
	w := ResolveWindows(now, "", "", "EST")

	assert.Equal(t, time.Date(2026, 1, 14, 5, 0, 0, 0, time.UTC), w.TodayStart)
	assert.Equal(t, time.Date(2026, 1, 15, 4, 59, 59, ms(999), time.UTC), w.TodayEnd)
}

func TestResolveWindowsUnknownCodeFallsBack(t *testing.T) {
	// unknown codes resolve to Europe/London, UTC+1 in August
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	w := ResolveWindows(now, "", "", "XYZ")

	assert.Equal(t, time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC), w.TodayStart)
}

func TestResolveWindowsMonthBoundaryInJanuary(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	w := ResolveWindows(now, "", "", "UTC")

	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), w.StartOfLastMonth)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, ms(999), time.UTC), w.EndOfLastMonth)
}
