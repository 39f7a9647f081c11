package account

import (
	"context"
	"time"
)

// Repository exposes account persistence. ClaimNextPending must be atomic:
// when several schedulers race for the same pending account, exactly one
// receives it and the rest see no claimable account.
type Repository interface {
	Create(ctx context.Context, acc Account) (Account, error)
	GetByID(ctx context.Context, id int64) (Account, bool, error)
	GetByPUUID(ctx context.Context, puuid string) (Account, bool, error)
	List(ctx context.Context) ([]Account, error)
	ClaimNextPending(ctx context.Context) (Account, bool, error)
	UpdateSyncStatus(ctx context.Context, id int64, status string, lastSyncAt *time.Time) error
	UpdateSyncProgress(ctx context.Context, id int64, processed, total int) error
	ResetStuckSyncing(ctx context.Context, olderThan time.Time) (int, error)
	MarkPending(ctx context.Context, id int64) error
}
