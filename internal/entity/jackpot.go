package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// JackpotStatus is the lifecycle state of a jackpot campaign. Only running
// and completed campaigns participate in revenue attribution.
type JackpotStatus int

const (
	JackpotStatusPending   JackpotStatus = 0
	JackpotStatusRunning   JackpotStatus = 1
	JackpotStatusCompleted JackpotStatus = 2
	JackpotStatusCancelled JackpotStatus = 3
)

// JackpotCampaign is an immutable campaign snapshot used for revenue
// attribution. EndDate is nil for open-ended campaigns.
type JackpotCampaign struct {
	ID         int64           `db:"jackpot_id"`
	SeedAmount decimal.Decimal `db:"seed_amount"`
	StartDate  time.Time       `db:"start_date"`
	EndDate    *time.Time      `db:"end_date"`
	AdminShare decimal.Decimal `db:"admin_share"`
	Status     JackpotStatus   `db:"status"`
}

// JackpotEntry is a single wager entry into a jackpot pool, fetched for the
// in-process attribution sweep.
type JackpotEntry struct {
	CreatedAt time.Time       `db:"created_at"`
	Amount    decimal.Decimal `db:"amount"`
}
