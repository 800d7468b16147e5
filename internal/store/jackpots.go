package store

import (
	"context"
	"fmt"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/dependency"
	"github.com/amitd-dev/icebarcatmf/internal/entity"
)

type jackpotStore struct {
	*PGStore
}

// Jackpots returns an object implementing the Jackpots interface
func (ps *PGStore) Jackpots() dependency.Jackpots {
	return &jackpotStore{
		PGStore: ps,
	}
}

// CampaignsStartedBetween lists running or completed campaigns whose start
// falls inside the range. Their seeds are deducted from attributed revenue.
func (ps *PGStore) CampaignsStartedBetween(ctx context.Context, start, end time.Time) ([]entity.JackpotCampaign, error) {
	query := `
	SELECT jackpot_id, seed_amount, start_date, end_date, admin_share, status
	FROM jackpots
	WHERE start_date BETWEEN :startDate AND :endDate AND status IN (:statuses)
	ORDER BY jackpot_id ASC`

	campaigns, err := QueryListNamed[entity.JackpotCampaign](ctx, ps.db, query, map[string]any{
		"startDate": start,
		"endDate":   end,
		"statuses":  []int{int(entity.JackpotStatusRunning), int(entity.JackpotStatusCompleted)},
	})
	if err != nil {
		return nil, fmt.Errorf("can't get jackpot campaigns started in range: %w", err)
	}
	return campaigns, nil
}

// CampaignsOverlapping lists running or completed campaigns whose start or
// end falls inside the range, plus open-ended ones.
func (ps *PGStore) CampaignsOverlapping(ctx context.Context, start, end time.Time) ([]entity.JackpotCampaign, error) {
	query := `
	SELECT jackpot_id, seed_amount, start_date, end_date, admin_share, status
	FROM jackpots
	WHERE (end_date BETWEEN :startDate AND :endDate OR start_date BETWEEN :startDate AND :endDate OR end_date IS NULL)
		AND status IN (:statuses)
	ORDER BY jackpot_id ASC`

	campaigns, err := QueryListNamed[entity.JackpotCampaign](ctx, ps.db, query, map[string]any{
		"startDate": start,
		"endDate":   end,
		"statuses":  []int{int(entity.JackpotStatusRunning), int(entity.JackpotStatusCompleted)},
	})
	if err != nil {
		return nil, fmt.Errorf("can't get overlapping jackpot campaigns: %w", err)
	}
	return campaigns, nil
}

// JackpotEntries fetches settled pool entries in the range for the in-process
// revenue attribution sweep.
func (ps *PGStore) JackpotEntries(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) ([]entity.JackpotEntry, error) {
	query := `
	SELECT created_at, COALESCE(amount, 0) AS amount
	FROM casino_transactions
	WHERE action_type = 'jackpotEntry' AND status = 1 AND created_at BETWEEN :startDate AND :endDate` + segmentCondition("user_id", seg) + `
	ORDER BY created_at ASC`

	entries, err := QueryListNamed[entity.JackpotEntry](ctx, ps.db, query, map[string]any{
		"startDate":   start,
		"endDate":     end,
		"internalIds": internalIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("can't get jackpot entries: %w", err)
	}
	return entries, nil
}
