package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riftpulse/riftpulse/internal/domain/account"
	qb "github.com/riftpulse/riftpulse/internal/platform/querybuilder"
)

// claimPendingQuery picks the oldest pending account and flips it to
// syncing in one statement. SKIP LOCKED keeps concurrent schedulers from
// blocking on or double-claiming the same row.
const claimPendingQuery = `UPDATE accounts
SET sync_status = 'syncing', sync_claimed_at = NOW(), updated_at = NOW()
WHERE id = (
    SELECT id FROM accounts
    WHERE sync_status = 'pending'
    ORDER BY id
    FOR UPDATE SKIP LOCKED
    LIMIT 1
)
RETURNING *`

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, acc account.Account) (account.Account, error) {
	insertModel := accountInsertModel{
		PUUID:       acc.PUUID,
		DisplayName: acc.DisplayName,
		Region:      acc.Region,
		SyncStatus:  account.NormalizeSyncStatus(acc.SyncStatus),
	}

	query, args, err := qb.InsertModel("accounts", insertModel, "RETURNING id, created_at, updated_at")
	if err != nil {
		return account.Account{}, fmt.Errorf("build create account query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return account.Account{}, fmt.Errorf("create account: %w", err)
	}
	acc.SyncStatus = insertModel.SyncStatus
	return acc, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (account.Account, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *AccountRepository) GetByPUUID(ctx context.Context, puuid string) (account.Account, bool, error) {
	return r.getOne(ctx, qb.Eq("puuid", puuid))
}

func (r *AccountRepository) getOne(ctx context.Context, condition qb.Condition) (account.Account, bool, error) {
	query, args, err := qb.Select("*").From("accounts").Where(condition).ToSQL()
	if err != nil {
		return account.Account{}, false, fmt.Errorf("build get account query: %w", err)
	}

	var row accountTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return account.Account{}, false, nil
		}
		return account.Account{}, false, fmt.Errorf("get account: %w", err)
	}
	return accountFromRow(row), true, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]account.Account, error) {
	query, args, err := qb.Select("*").From("accounts").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list accounts query: %w", err)
	}

	var rows []accountTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out := make([]account.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, accountFromRow(row))
	}
	return out, nil
}

func (r *AccountRepository) ClaimNextPending(ctx context.Context) (account.Account, bool, error) {
	var row accountTableModel
	if err := r.db.GetContext(ctx, &row, claimPendingQuery); err != nil {
		if isNotFound(err) {
			return account.Account{}, false, nil
		}
		return account.Account{}, false, fmt.Errorf("claim pending account: %w", err)
	}
	return accountFromRow(row), true, nil
}

func (r *AccountRepository) UpdateSyncStatus(ctx context.Context, id int64, status string, lastSyncAt *time.Time) error {
	if !account.IsValidSyncStatus(status) {
		return fmt.Errorf("invalid sync status %q", status)
	}

	builder := qb.Update("accounts").
		Set("sync_status", status).
		SetExpr("updated_at", "NOW()")
	if status != account.SyncStatusSyncing {
		builder = builder.SetExpr("sync_claimed_at", "NULL")
	}
	if lastSyncAt != nil {
		builder = builder.Set("last_sync_at", lastSyncAt.UTC())
	}

	query, args, err := builder.Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build update sync status query: %w", err)
	}
	return r.execExpectingRow(ctx, id, "update sync status", query, args)
}

func (r *AccountRepository) UpdateSyncProgress(ctx context.Context, id int64, processed, total int) error {
	query, args, err := qb.Update("accounts").
		Set("sync_processed", processed).
		Set("sync_total", total).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update sync progress query: %w", err)
	}
	return r.execExpectingRow(ctx, id, "update sync progress", query, args)
}

func (r *AccountRepository) ResetStuckSyncing(ctx context.Context, olderThan time.Time) (int, error) {
	query, args, err := qb.Update("accounts").
		Set("sync_status", account.SyncStatusPending).
		SetExpr("sync_claimed_at", "NULL").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.EqLiteral("sync_status", account.SyncStatusSyncing),
			qb.Lt("sync_claimed_at", olderThan.UTC()),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build reset stuck syncing query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset stuck syncing accounts: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count reset accounts: %w", err)
	}
	return int(affected), nil
}

func (r *AccountRepository) MarkPending(ctx context.Context, id int64) error {
	query, args, err := qb.Update("accounts").
		Set("sync_status", account.SyncStatusPending).
		SetExpr("sync_claimed_at", "NULL").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark pending query: %w", err)
	}
	return r.execExpectingRow(ctx, id, "mark account pending", query, args)
}

func (r *AccountRepository) execExpectingRow(ctx context.Context, id int64, op, query string, args []any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: account id=%d not found", op, id)
	}
	return nil
}
