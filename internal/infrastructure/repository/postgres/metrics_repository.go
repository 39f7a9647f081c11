package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	"github.com/riftpulse/riftpulse/internal/domain/metrics"
	qb "github.com/riftpulse/riftpulse/internal/platform/querybuilder"
)

type MetricsRepository struct {
	db *sqlx.DB
}

func NewMetricsRepository(db *sqlx.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

func (r *MetricsRepository) UpsertCheckpoints(ctx context.Context, rows []metrics.Checkpoint) error {
	return upsertAll(ctx, r.db, "checkpoints", rows, func(row metrics.Checkpoint) (string, any, string) {
		return "timeline_checkpoints", checkpointInsertFromDomain(row), `ON CONFLICT (match_id, puuid, minute)
DO UPDATE SET
    gold = EXCLUDED.gold,
    creep_score = EXCLUDED.creep_score,
    experience = EXCLUDED.experience,
    gold_diff = EXCLUDED.gold_diff,
    creep_diff = EXCLUDED.creep_diff,
    ahead = EXCLUDED.ahead`
	})
}

func (r *MetricsRepository) UpsertParticipantMetrics(ctx context.Context, rows []metrics.ParticipantMetric) error {
	return upsertAll(ctx, r.db, "participant metrics", rows, func(row metrics.ParticipantMetric) (string, any, string) {
		return "participant_metrics", participantMetricInsertFromDomain(row), `ON CONFLICT (match_id, puuid)
DO UPDATE SET
    kill_participation_pct = EXCLUDED.kill_participation_pct,
    damage_share_pct = EXCLUDED.damage_share_pct,
    damage_to_champions = EXCLUDED.damage_to_champions,
    damage_taken = EXCLUDED.damage_taken,
    damage_mitigated = EXCLUDED.damage_mitigated,
    vision_score = EXCLUDED.vision_score,
    vision_per_minute = EXCLUDED.vision_per_minute,
    deaths_pre_10 = EXCLUDED.deaths_pre_10,
    deaths_10_20 = EXCLUDED.deaths_10_20,
    deaths_20_30 = EXCLUDED.deaths_20_30,
    deaths_post_30 = EXCLUDED.deaths_post_30,
    first_death_minute = EXCLUDED.first_death_minute,
    first_kill_participation_minute = EXCLUDED.first_kill_participation_minute`
	})
}

func (r *MetricsRepository) UpsertTeamObjectives(ctx context.Context, rows []metrics.TeamObjective) error {
	return upsertAll(ctx, r.db, "team objectives", rows, func(row metrics.TeamObjective) (string, any, string) {
		model := teamObjectiveInsertModel{
			MatchID: row.MatchID,
			TeamID:  row.TeamID,
			Dragons: row.Dragons,
			Heralds: row.Heralds,
			Barons:  row.Barons,
			Towers:  row.Towers,
		}
		return "team_objectives", model, `ON CONFLICT (match_id, team_id)
DO UPDATE SET
    dragons = EXCLUDED.dragons,
    heralds = EXCLUDED.heralds,
    barons = EXCLUDED.barons,
    towers = EXCLUDED.towers`
	})
}

func (r *MetricsRepository) UpsertParticipantObjectives(ctx context.Context, rows []metrics.ParticipantObjective) error {
	return upsertAll(ctx, r.db, "participant objectives", rows, func(row metrics.ParticipantObjective) (string, any, string) {
		model := participantObjectiveInsertModel{
			MatchID: row.MatchID,
			PUUID:   row.PUUID,
			Dragons: row.Dragons,
			Heralds: row.Heralds,
			Barons:  row.Barons,
			Towers:  row.Towers,
		}
		return "participant_objectives", model, `ON CONFLICT (match_id, puuid)
DO UPDATE SET
    dragons = EXCLUDED.dragons,
    heralds = EXCLUDED.heralds,
    barons = EXCLUDED.barons,
    towers = EXCLUDED.towers`
	})
}

func (r *MetricsRepository) UpsertTeamMatchMetrics(ctx context.Context, rows []metrics.TeamMatchMetric) error {
	return upsertAll(ctx, r.db, "team metrics", rows, func(row metrics.TeamMatchMetric) (string, any, string) {
		model := teamMatchMetricInsertModel{
			MatchID:          row.MatchID,
			TeamID:           row.TeamID,
			GoldLeadAt15:     row.GoldLeadAt15,
			LargestGoldLead:  row.LargestGoldLead,
			GoldSwingPost20:  row.GoldSwingPost20,
			WinWhenAheadAt20: row.WinWhenAheadAt20,
		}
		return "team_match_metrics", model, `ON CONFLICT (match_id, team_id)
DO UPDATE SET
    gold_lead_at_15 = EXCLUDED.gold_lead_at_15,
    largest_gold_lead = EXCLUDED.largest_gold_lead,
    gold_swing_post_20 = EXCLUDED.gold_swing_post_20,
    win_when_ahead_at_20 = EXCLUDED.win_when_ahead_at_20`
	})
}

func (r *MetricsRepository) UpsertDuoMetrics(ctx context.Context, rows []metrics.DuoMetric) error {
	return upsertAll(ctx, r.db, "duo metrics", rows, func(row metrics.DuoMetric) (string, any, string) {
		model := duoMetricInsertModel{
			MatchID:       row.MatchID,
			TeamID:        row.TeamID,
			BottomPUUID:   row.BottomPUUID,
			SupportPUUID:  row.SupportPUUID,
			GoldDeltaAt10: row.GoldDeltaAt10,
			GoldDeltaAt15: row.GoldDeltaAt15,
			AheadAt15:     row.AheadAt15,
			Win:           row.Win,
		}
		return "duo_metrics", model, `ON CONFLICT (match_id, team_id)
DO UPDATE SET
    bottom_puuid = EXCLUDED.bottom_puuid,
    support_puuid = EXCLUDED.support_puuid,
    gold_delta_at_10 = EXCLUDED.gold_delta_at_10,
    gold_delta_at_15 = EXCLUDED.gold_delta_at_15,
    ahead_at_15 = EXCLUDED.ahead_at_15,
    win = EXCLUDED.win`
	})
}

// upsertAll wraps a batch of single-row upserts in one transaction so a
// partially written match never becomes visible.
func upsertAll[T any](ctx context.Context, db *sqlx.DB, label string, rows []T, build func(T) (string, any, string)) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert %s: %w", label, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range rows {
		table, model, suffix := build(row)
		query, args, err := qb.InsertModel(table, model, suffix)
		if err != nil {
			return fmt.Errorf("build upsert %s query: %w", label, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert %s: %w", label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert %s tx: %w", label, err)
	}
	return nil
}

type summaryBaseRow struct {
	Matches    int     `db:"matches"`
	Wins       int     `db:"wins"`
	AvgKills   float64 `db:"avg_kills"`
	AvgDeaths  float64 `db:"avg_deaths"`
	AvgAssists float64 `db:"avg_assists"`
}

type summaryMetricRow struct {
	AvgKillParticipationPct float64 `db:"avg_kill_participation_pct"`
	AvgDamageSharePct       float64 `db:"avg_damage_share_pct"`
	AvgVisionPerMinute      float64 `db:"avg_vision_per_minute"`
}

func (r *MetricsRepository) GetAccountSummary(ctx context.Context, puuid string) (metrics.AccountSummary, error) {
	summary := metrics.AccountSummary{PUUID: puuid}

	baseQuery, baseArgs, err := qb.Select(
		"COUNT(1) AS matches",
		"COALESCE(SUM(CASE WHEN win THEN 1 ELSE 0 END), 0) AS wins",
		"COALESCE(AVG(kills), 0) AS avg_kills",
		"COALESCE(AVG(deaths), 0) AS avg_deaths",
		"COALESCE(AVG(assists), 0) AS avg_assists",
	).From("match_participants").
		Where(qb.Eq("puuid", puuid)).
		ToSQL()
	if err != nil {
		return metrics.AccountSummary{}, fmt.Errorf("build summary base query: %w", err)
	}

	var base summaryBaseRow
	if err := r.db.GetContext(ctx, &base, baseQuery, baseArgs...); err != nil {
		return metrics.AccountSummary{}, fmt.Errorf("get summary base: %w", err)
	}
	summary.Matches = base.Matches
	summary.Wins = base.Wins
	if base.Matches == 0 {
		return summary, nil
	}
	summary.AvgKills = roundPct(base.AvgKills)
	summary.AvgDeaths = roundPct(base.AvgDeaths)
	summary.AvgAssists = roundPct(base.AvgAssists)

	metricQuery, metricArgs, err := qb.Select(
		"COALESCE(AVG(kill_participation_pct), 0) AS avg_kill_participation_pct",
		"COALESCE(AVG(damage_share_pct), 0) AS avg_damage_share_pct",
		"COALESCE(AVG(vision_per_minute), 0) AS avg_vision_per_minute",
	).From("participant_metrics").
		Where(qb.Eq("puuid", puuid)).
		ToSQL()
	if err != nil {
		return metrics.AccountSummary{}, fmt.Errorf("build summary metrics query: %w", err)
	}

	var metric summaryMetricRow
	if err := r.db.GetContext(ctx, &metric, metricQuery, metricArgs...); err != nil {
		return metrics.AccountSummary{}, fmt.Errorf("get summary metrics: %w", err)
	}
	summary.AvgKillParticipationPct = roundPct(metric.AvgKillParticipationPct)
	summary.AvgDamageSharePct = roundPct(metric.AvgDamageSharePct)
	summary.AvgVisionPerMinute = roundPct(metric.AvgVisionPerMinute)

	goldQuery, goldArgs, err := qb.Select(
		"COALESCE(AVG(gold_diff), 0) AS avg_gold_diff",
	).From("timeline_checkpoints").
		Where(
			qb.Eq("puuid", puuid),
			qb.Eq("minute", 15),
			qb.Expr("gold_diff IS NOT NULL"),
		).
		ToSQL()
	if err != nil {
		return metrics.AccountSummary{}, fmt.Errorf("build summary gold diff query: %w", err)
	}

	var avgGoldDiff float64
	if err := r.db.GetContext(ctx, &avgGoldDiff, goldQuery, goldArgs...); err != nil {
		return metrics.AccountSummary{}, fmt.Errorf("get summary gold diff: %w", err)
	}
	summary.AvgGoldDiffAt15 = roundPct(avgGoldDiff)

	return summary, nil
}

func roundPct(v float64) float64 {
	return math.Round(v*100) / 100
}
