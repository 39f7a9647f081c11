package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riftpulse/riftpulse/internal/domain/match"
	qb "github.com/riftpulse/riftpulse/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) UpsertMatch(ctx context.Context, m match.Match) error {
	insertModel := matchInsertModel{
		MatchID:         m.MatchID,
		QueueID:         m.QueueID,
		GameDurationSec: m.GameDurationSec,
		GameStartedAt:   m.GameStartedAt.UTC(),
		GameVersion:     m.GameVersion,
	}

	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (match_id)
DO UPDATE SET
    queue_id = EXCLUDED.queue_id,
    game_duration_sec = EXCLUDED.game_duration_sec,
    game_started_at = EXCLUDED.game_started_at,
    game_version = EXCLUDED.game_version`)
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match %s: %w", m.MatchID, err)
	}
	return nil
}

func (r *MatchRepository) UpsertParticipants(ctx context.Context, participants []match.Participant) error {
	if len(participants) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert participants: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range participants {
		query, args, err := qb.InsertModel("match_participants", participantInsertFromDomain(p), `ON CONFLICT (match_id, puuid)
DO UPDATE SET
    participant_id = EXCLUDED.participant_id,
    team_id = EXCLUDED.team_id,
    role = EXCLUDED.role,
    champion = EXCLUDED.champion,
    kills = EXCLUDED.kills,
    deaths = EXCLUDED.deaths,
    assists = EXCLUDED.assists,
    gold_earned = EXCLUDED.gold_earned,
    creep_score = EXCLUDED.creep_score,
    time_dead_sec = EXCLUDED.time_dead_sec,
    damage_to_champions = EXCLUDED.damage_to_champions,
    damage_taken = EXCLUDED.damage_taken,
    damage_mitigated = EXCLUDED.damage_mitigated,
    vision_score = EXCLUDED.vision_score,
    win = EXCLUDED.win`)
		if err != nil {
			return fmt.Errorf("build upsert participant query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert participant match=%s puuid=%s: %w", p.MatchID, p.PUUID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert participants tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetMatch(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").Where(qb.Eq("match_id", matchID)).ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) GetExistingMatchIDs(ctx context.Context, puuid string) (map[string]struct{}, error) {
	query, args, err := qb.Select("match_id").
		From("match_participants").
		Where(qb.Eq("puuid", puuid)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build existing match ids query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list existing match ids: %w", err)
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *MatchRepository) ListRecentByPUUID(ctx context.Context, puuid string, limit int) ([]match.Participant, error) {
	builder := qb.Select("mp.*").
		From("match_participants mp JOIN matches m ON m.match_id = mp.match_id").
		Where(qb.Eq("mp.puuid", puuid)).
		OrderBy("m.game_started_at DESC", "m.match_id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build recent matches query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent matches: %w", err)
	}

	out := make([]match.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participantFromRow(row))
	}
	return out, nil
}
