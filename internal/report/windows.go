package report

import (
	"strings"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
)

// timezonesWithDaylightSavings maps the short jurisdiction codes dashboards
// send to IANA zone names, so daylight saving shifts day boundaries the way
// the operator expects. Unknown codes fall back to Europe/London.
var timezonesWithDaylightSavings = map[string]string{
	"UTC":  "UTC",
	"GMT":  "Europe/London",
	"BST":  "Europe/London",
	"WET":  "Europe/Lisbon",
	"CET":  "Europe/Paris",
	"CEST": "Europe/Paris",
	"EET":  "Europe/Helsinki",
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
	"MST":  "America/Denver",
	"MDT":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"AKST": "America/Anchorage",
	"HST":  "Pacific/Honolulu",
	"AST":  "America/Halifax",
	"NST":  "America/St_Johns",
	"BRT":  "America/Sao_Paulo",
	"CLT":  "America/Santiago",
	"SAST": "Africa/Johannesburg",
	"IST":  "Asia/Kolkata",
	"JST":  "Asia/Tokyo",
	"SGT":  "Asia/Singapore",
	"HKT":  "Asia/Hong_Kong",
	"AWST": "Australia/Perth",
	"ACST": "Australia/Adelaide",
	"AEST": "Australia/Sydney",
	"AEDT": "Australia/Sydney",
	"NZST": "Pacific/Auckland",
}

const defaultCustomRangeMonths = 3

// ResolveWindows computes every reporting instant for a request, anchored at
// now in the caller's timezone and returned in UTC. startDate/endDate are the
// optional custom range as yyyy-mm-dd strings; unparseable or empty values
// fall back to the default range of the last three months up to now.
func ResolveWindows(now time.Time, startDate, endDate, tzCode string) entity.WindowSet {
	loc := resolveLocation(tzCode)
	local := now.In(loc)

	todayStart := startOfDay(local)
	todayEnd := endOfDay(local)
	yesterday := local.AddDate(0, 0, -1)
	startOfMonth := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	startOfLastMonth := time.Date(local.Year(), local.Month()-1, 1, 0, 0, 0, 0, loc)
	endOfLastMonth := startOfMonth.Add(-time.Millisecond)

	customStart := startOfDay(addMonthsClamped(local, -defaultCustomRangeMonths))
	if t, ok := parseInZone(startDate, loc); ok {
		customStart = startOfDay(t)
	}
	customEnd := todayEnd
	if t, ok := parseInZone(endDate, loc); ok {
		customEnd = endOfDay(t)
	}

	return entity.WindowSet{
		StartDate:        customStart.UTC(),
		EndDate:          customEnd.UTC(),
		TodayStart:       todayStart.UTC(),
		TodayEnd:         todayEnd.UTC(),
		YesterdayStart:   startOfDay(yesterday).UTC(),
		YesterdayEnd:     endOfDay(yesterday).UTC(),
		StartOfMonth:     startOfMonth.UTC(),
		StartOfLastMonth: startOfLastMonth.UTC(),
		EndOfLastMonth:   endOfLastMonth.UTC(),
	}
}

func resolveLocation(tzCode string) *time.Location {
	if tzCode == "" {
		tzCode = "UTC"
	}
	name, ok := timezonesWithDaylightSavings[strings.ToUpper(tzCode)]
	if !ok {
		name = "Europe/London"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseInZone(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay is 23:59:59.999, millisecond precision like the aggregate rows.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// addMonthsClamped shifts by whole months, clamping the day of month instead
// of rolling over (Mar 31 − 1 month is Feb 28, not Mar 3).
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := daysInMonth(firstOfTarget); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
