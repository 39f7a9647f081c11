package metrics

import "context"

// Repository persists derived metric rows. All writes are idempotent upserts
// keyed on the natural keys of the corresponding tables.
type Repository interface {
	UpsertCheckpoints(ctx context.Context, rows []Checkpoint) error
	UpsertParticipantMetrics(ctx context.Context, rows []ParticipantMetric) error
	UpsertTeamObjectives(ctx context.Context, rows []TeamObjective) error
	UpsertParticipantObjectives(ctx context.Context, rows []ParticipantObjective) error
	UpsertTeamMatchMetrics(ctx context.Context, rows []TeamMatchMetric) error
	UpsertDuoMetrics(ctx context.Context, rows []DuoMetric) error
	GetAccountSummary(ctx context.Context, puuid string) (AccountSummary, error)
}
