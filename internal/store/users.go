package store

import (
	"context"
	"fmt"

	"github.com/amitd-dev/icebarcatmf/internal/dependency"
)

type userStore struct {
	*PGStore
}

// Users returns an object implementing the Users interface
func (ps *PGStore) Users() dependency.Users {
	return &userStore{
		PGStore: ps,
	}
}

// ListInternalUserIDs lists the ids of every internal/test account.
func (ps *PGStore) ListInternalUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	query := `SELECT user_id FROM users WHERE is_internal_user = true`
	if err := ps.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("can't list internal user ids: %w", err)
	}
	return ids, nil
}
