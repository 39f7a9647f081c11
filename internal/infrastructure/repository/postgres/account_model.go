package postgres

import (
	"time"

	"github.com/riftpulse/riftpulse/internal/domain/account"
)

type accountTableModel struct {
	ID            int64      `db:"id"`
	PUUID         string     `db:"puuid"`
	DisplayName   string     `db:"display_name"`
	Region        string     `db:"region"`
	SyncStatus    string     `db:"sync_status"`
	SyncProcessed int        `db:"sync_processed"`
	SyncTotal     int        `db:"sync_total"`
	SyncClaimedAt *time.Time `db:"sync_claimed_at"`
	LastSyncAt    *time.Time `db:"last_sync_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

type accountInsertModel struct {
	PUUID       string `db:"puuid"`
	DisplayName string `db:"display_name"`
	Region      string `db:"region"`
	SyncStatus  string `db:"sync_status"`
}

func accountFromRow(row accountTableModel) account.Account {
	return account.Account{
		ID:            row.ID,
		PUUID:         row.PUUID,
		DisplayName:   row.DisplayName,
		Region:        row.Region,
		SyncStatus:    row.SyncStatus,
		SyncProcessed: row.SyncProcessed,
		SyncTotal:     row.SyncTotal,
		SyncClaimedAt: row.SyncClaimedAt,
		LastSyncAt:    row.LastSyncAt,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
