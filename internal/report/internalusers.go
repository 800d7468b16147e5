package report

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/amitd-dev/icebarcatmf/internal/dependency"
)

const internalUsersKey = "internalUsers"

// sentinelInternalUserID keeps exclusion lists non-empty so a segment filter
// never degenerates into IN ().
const sentinelInternalUserID int64 = -1

// InternalUserProvider resolves the internal/test account id set, cache-aside
// over the optional KV accelerator. The cache is only consulted when it
// answers a ping, and any cache failure falls through to the user directory.
type InternalUserProvider struct {
	kv    dependency.KV
	users dependency.Users
}

func NewInternalUserProvider(kv dependency.KV, users dependency.Users) *InternalUserProvider {
	return &InternalUserProvider{kv: kv, users: users}
}

// IDs returns the internal user id set, never empty.
func (p *InternalUserProvider) IDs(ctx context.Context) ([]int64, error) {
	cacheReady := p.kv != nil && p.kv.Ready(ctx)

	if cacheReady {
		if raw, err := p.kv.Get(ctx, internalUsersKey); err == nil && len(raw) > 0 {
			var ids []int64
			if err := json.Unmarshal(raw, &ids); err == nil && len(ids) > 0 {
				return ids, nil
			}
		} else if err != nil {
			slog.Default().DebugContext(ctx, "internal users cache read failed", "error", err)
		}
	}

	ids, err := p.users.ListInternalUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		ids = []int64{sentinelInternalUserID}
	}

	if cacheReady {
		if raw, err := json.Marshal(ids); err == nil {
			if err := p.kv.Set(ctx, internalUsersKey, raw); err != nil {
				slog.Default().DebugContext(ctx, "internal users cache write failed", "error", err)
			}
		}
	}

	return ids, nil
}
