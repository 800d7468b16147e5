package entity

// LoginCounts carries unique and total login counts for the five
// calendar-bound windows of the login report. The till-date figures live in
// LoginTotals since they are served by a separate report type.
type LoginCounts struct {
	TodayUnique     int64 `db:"todayUniqueLoginCount"`
	TodayTotal      int64 `db:"todayLoginCount"`
	YesterdayUnique int64 `db:"yesterdayUniqueLoginCount"`
	YesterdayTotal  int64 `db:"yesterdayLoginCount"`
	MonthUnique     int64 `db:"mtdUniqueLoginCount"`
	MonthTotal      int64 `db:"mtdLoginCount"`
	LastMonthUnique int64 `db:"lastMonthUniqueLoginCount"`
	LastMonthTotal  int64 `db:"lastMonthLoginCount"`
	CustomUnique    int64 `db:"selectedDateUniqueLoginCount"`
	CustomTotal     int64 `db:"selectedDateLoginCount"`
}

// LoginTotals is the all-time login report.
type LoginTotals struct {
	Unique int64 `db:"uniqueLoginCountTillDate"`
	Total  int64 `db:"loginCountTillDate"`
}
