package account

import (
	"strings"
	"time"
)

const (
	SyncStatusPending   = "pending"
	SyncStatusSyncing   = "syncing"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// Account is a linked player whose match history gets synchronized.
type Account struct {
	ID            int64
	PUUID         string
	DisplayName   string
	Region        string
	SyncStatus    string
	SyncProcessed int
	SyncTotal     int
	SyncClaimedAt *time.Time
	LastSyncAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NormalizeSyncStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return SyncStatusPending
	}
	return status
}

func IsValidSyncStatus(status string) bool {
	switch NormalizeSyncStatus(status) {
	case SyncStatusPending, SyncStatusSyncing, SyncStatusCompleted, SyncStatusFailed:
		return true
	default:
		return false
	}
}
