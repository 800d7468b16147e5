package entity

import "time"

// WindowKind labels one of the standard reporting windows.
type WindowKind string

const (
	WindowToday       WindowKind = "TODAY"
	WindowYesterday   WindowKind = "YESTERDAY"
	WindowMonthToDate WindowKind = "MONTH_TO_DATE"
	WindowLastMonth   WindowKind = "LAST_MONTH"
	WindowCustom      WindowKind = "CUSTOM"
	WindowTillDate    WindowKind = "TILL_DATE"
)

// WindowKinds is the canonical ordering used when assembling report payloads.
var WindowKinds = []WindowKind{
	WindowToday,
	WindowYesterday,
	WindowMonthToDate,
	WindowLastMonth,
	WindowCustom,
	WindowTillDate,
}

// Window is a half-open-ish reporting window in UTC. TILL_DATE windows start
// at the Unix epoch.
type Window struct {
	Kind  WindowKind
	Start time.Time
	End   time.Time
}

// WindowSet holds every resolved instant a report request needs, all in UTC.
// StartDate/EndDate are the custom range; the rest are derived from "now" in
// the caller's timezone.
type WindowSet struct {
	StartDate        time.Time
	EndDate          time.Time
	TodayStart       time.Time
	TodayEnd         time.Time
	YesterdayStart   time.Time
	YesterdayEnd     time.Time
	StartOfMonth     time.Time
	StartOfLastMonth time.Time
	EndOfLastMonth   time.Time
}

// WatermarkSplit is the boundary between the materialized aggregate and the
// raw-table live range for a single window end. A nil LiveStart means the
// aggregate fully covers the window and no live computation is needed.
type WatermarkSplit struct {
	CumulativeEnd time.Time
	LiveStart     *time.Time
}

// Live reports whether the split requires a live delta query.
func (s WatermarkSplit) Live() bool { return s.LiveStart != nil }
