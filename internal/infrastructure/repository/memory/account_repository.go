package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riftpulse/riftpulse/internal/domain/account"
)

// AccountRepository is a mutex-guarded in-memory implementation of
// account.Repository. The claim transition happens under the lock, so it
// gives the same single-winner guarantee as the SQL implementation.
type AccountRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]account.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{rows: make(map[int64]account.Account)}
}

func (r *AccountRepository) Create(_ context.Context, acc account.Account) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.PUUID == acc.PUUID {
			return account.Account{}, fmt.Errorf("account with puuid already exists")
		}
	}

	r.nextID++
	acc.ID = r.nextID
	if acc.SyncStatus == "" {
		acc.SyncStatus = account.SyncStatusPending
	}
	now := time.Now().UTC()
	acc.CreatedAt = now
	acc.UpdatedAt = now
	r.rows[acc.ID] = acc
	return acc, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id int64) (account.Account, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	return row, ok, nil
}

func (r *AccountRepository) GetByPUUID(_ context.Context, puuid string) (account.Account, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.PUUID == puuid {
			return row, true, nil
		}
	}
	return account.Account{}, false, nil
}

func (r *AccountRepository) List(_ context.Context) ([]account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]account.Account, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AccountRepository) ClaimNextPending(_ context.Context) (account.Account, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		row := r.rows[id]
		if row.SyncStatus != account.SyncStatusPending {
			continue
		}
		now := time.Now().UTC()
		row.SyncStatus = account.SyncStatusSyncing
		row.SyncClaimedAt = &now
		row.UpdatedAt = now
		r.rows[id] = row
		return row, true, nil
	}
	return account.Account{}, false, nil
}

func (r *AccountRepository) UpdateSyncStatus(_ context.Context, id int64, status string, lastSyncAt *time.Time) error {
	if !account.IsValidSyncStatus(status) {
		return fmt.Errorf("invalid sync status %q", status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("account id=%d not found", id)
	}
	row.SyncStatus = status
	if status != account.SyncStatusSyncing {
		row.SyncClaimedAt = nil
	}
	if lastSyncAt != nil {
		t := lastSyncAt.UTC()
		row.LastSyncAt = &t
	}
	row.UpdatedAt = time.Now().UTC()
	r.rows[id] = row
	return nil
}

func (r *AccountRepository) UpdateSyncProgress(_ context.Context, id int64, processed, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("account id=%d not found", id)
	}
	row.SyncProcessed = processed
	row.SyncTotal = total
	row.UpdatedAt = time.Now().UTC()
	r.rows[id] = row
	return nil
}

func (r *AccountRepository) ResetStuckSyncing(_ context.Context, olderThan time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reset := 0
	for id, row := range r.rows {
		if row.SyncStatus != account.SyncStatusSyncing || row.SyncClaimedAt == nil {
			continue
		}
		if !row.SyncClaimedAt.Before(olderThan) {
			continue
		}
		row.SyncStatus = account.SyncStatusPending
		row.SyncClaimedAt = nil
		row.UpdatedAt = time.Now().UTC()
		r.rows[id] = row
		reset++
	}
	return reset, nil
}

func (r *AccountRepository) MarkPending(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("account id=%d not found", id)
	}
	row.SyncStatus = account.SyncStatusPending
	row.SyncClaimedAt = nil
	row.UpdatedAt = time.Now().UTC()
	r.rows[id] = row
	return nil
}
