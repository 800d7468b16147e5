package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type (
	// Reports is the read-only analytical interface the engine computes from:
	// cumulative bundles come from the half-hourly materialized aggregate,
	// live bundles directly from the raw fact tables.
	Reports interface {
		// Cumulative readers over dashboard_reports, [start, end] inclusive.
		CumulativeDashboard(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error)
		CumulativeFunnel(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error)
		CumulativeCustomer(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error)
		CumulativeEconomy(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error)
		CumulativeTransaction(ctx context.Context, start, end time.Time, seg entity.PlayerSegment) (entity.Bundle, error)
		CumulativeBonus(ctx context.Context, start, end time.Time) (entity.BonusBreakdown, error)

		// Live readers over the raw fact tables, (start, end] after the
		// aggregation watermark. internalIDs is never empty (sentinel -1).
		LiveDashboard(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.Bundle, error)
		LiveCustomer(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.Bundle, error)
		LiveEconomy(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.Bundle, error)
		LiveTransaction(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.Bundle, error)
		LiveBonus(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) (entity.BonusBreakdown, error)

		// Login activity.
		LoginCounts(ctx context.Context, w entity.WindowSet, seg entity.PlayerSegment, internalIDs []int64) (entity.LoginCounts, error)
		LoginCountsTillDate(ctx context.Context, seg entity.PlayerSegment, internalIDs []int64) (entity.LoginTotals, error)

		// WalletCoinTotals sums live wallet and vault SC balances.
		WalletCoinTotals(ctx context.Context) (wallet, vault decimal.Decimal, err error)
	}

	// Jackpots is the jackpot campaign directory plus the entry feed used by
	// the in-process revenue attribution.
	Jackpots interface {
		CampaignsStartedBetween(ctx context.Context, start, end time.Time) ([]entity.JackpotCampaign, error)
		CampaignsOverlapping(ctx context.Context, start, end time.Time) ([]entity.JackpotCampaign, error)
		JackpotEntries(ctx context.Context, start, end time.Time, seg entity.PlayerSegment, internalIDs []int64) ([]entity.JackpotEntry, error)
	}

	// Users is the internal-user directory, queried on cache miss/error.
	Users interface {
		ListInternalUserIDs(ctx context.Context) ([]int64, error)
	}

	// Repository bundles the store interfaces behind one connection.
	Repository interface {
		Reports() Reports
		Jackpots() Jackpots
		Users() Users
		DB() DB
		Now() time.Time
		Ping(ctx context.Context) error
		Close()
	}

	// DB represents the database interface.
	DB interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// KV is the optional-accelerator key-value cache. Implementations must
	// degrade gracefully: Ready gates whether the cache is attempted at all,
	// and Get/Set failures must never block the read path.
	KV interface {
		Ready(ctx context.Context) bool
		Get(ctx context.Context, key string) ([]byte, error)
		Set(ctx context.Context, key string, value []byte) error
		// ScanCount counts keys matching a glob pattern, best effort.
		ScanCount(ctx context.Context, pattern string) (int64, error)
	}
)
