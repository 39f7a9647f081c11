package match

import "context"

// Repository exposes match persistence. Upserts are keyed on the natural key
// so re-processing the same match never duplicates rows.
type Repository interface {
	UpsertMatch(ctx context.Context, m Match) error
	UpsertParticipants(ctx context.Context, participants []Participant) error
	GetMatch(ctx context.Context, matchID string) (Match, bool, error)
	GetExistingMatchIDs(ctx context.Context, puuid string) (map[string]struct{}, error)
	ListRecentByPUUID(ctx context.Context, puuid string, limit int) ([]Participant, error)
}
