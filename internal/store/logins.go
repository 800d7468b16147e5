package store

import (
	"context"
	"fmt"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
)

// LoginCounts counts unique and total logins for every standard window in
// one pass over user_activities.
func (ps *PGStore) LoginCounts(ctx context.Context, w entity.WindowSet, seg entity.PlayerSegment, internalIDs []int64) (entity.LoginCounts, error) {
	query := `
	SELECT
		COUNT(DISTINCT user_id) FILTER (WHERE created_at >= :todayStart AND created_at < :todayEnd) AS "todayUniqueLoginCount",
		COUNT(user_id) FILTER (WHERE created_at >= :todayStart AND created_at < :todayEnd) AS "todayLoginCount",
		COUNT(DISTINCT user_id) FILTER (WHERE created_at >= :yesterdayStart AND created_at < :yesterdayEnd) AS "yesterdayUniqueLoginCount",
		COUNT(user_id) FILTER (WHERE created_at >= :yesterdayStart AND created_at < :yesterdayEnd) AS "yesterdayLoginCount",
		COUNT(DISTINCT user_id) FILTER (WHERE created_at >= :startOfMonth AND created_at < :todayEnd) AS "mtdUniqueLoginCount",
		COUNT(user_id) FILTER (WHERE created_at >= :startOfMonth AND created_at < :todayEnd) AS "mtdLoginCount",
		COUNT(DISTINCT user_id) FILTER (WHERE created_at >= :startOfLastMonth AND created_at < :startOfMonth) AS "lastMonthUniqueLoginCount",
		COUNT(user_id) FILTER (WHERE created_at >= :startOfLastMonth AND created_at < :startOfMonth) AS "lastMonthLoginCount",
		COUNT(DISTINCT user_id) FILTER (WHERE created_at >= :startDate AND created_at < :endDate) AS "selectedDateUniqueLoginCount",
		COUNT(user_id) FILTER (WHERE created_at >= :startDate AND created_at < :endDate) AS "selectedDateLoginCount"
	FROM user_activities
	WHERE activity_type = 'login'` + segmentCondition("user_id", seg)

	counts, err := QueryNamedOne[entity.LoginCounts](ctx, ps.db, query, map[string]any{
		"todayStart":       w.TodayStart,
		"todayEnd":         w.TodayEnd,
		"yesterdayStart":   w.YesterdayStart,
		"yesterdayEnd":     w.YesterdayEnd,
		"startOfMonth":     w.StartOfMonth,
		"startOfLastMonth": w.StartOfLastMonth,
		"startDate":        w.StartDate,
		"endDate":          w.EndDate,
		"internalIds":      internalIDs,
	})
	if err != nil {
		return entity.LoginCounts{}, fmt.Errorf("can't get login counts: %w", err)
	}
	return counts, nil
}

// LoginCountsTillDate counts unique and total logins over all history.
func (ps *PGStore) LoginCountsTillDate(ctx context.Context, seg entity.PlayerSegment, internalIDs []int64) (entity.LoginTotals, error) {
	query := `
	SELECT
		COUNT(DISTINCT user_id) AS "uniqueLoginCountTillDate",
		COUNT(user_id) AS "loginCountTillDate"
	FROM user_activities
	WHERE activity_type = 'login'` + segmentCondition("user_id", seg)

	totals, err := QueryNamedOne[entity.LoginTotals](ctx, ps.db, query, map[string]any{
		"internalIds": internalIDs,
	})
	if err != nil {
		return entity.LoginTotals{}, fmt.Errorf("can't get till date login counts: %w", err)
	}
	return totals, nil
}
