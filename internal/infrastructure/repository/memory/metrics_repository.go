package memory

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/riftpulse/riftpulse/internal/domain/metrics"
)

// MetricsRepository keeps derived rows keyed on their natural keys. The
// summary aggregation reads participant rows from the match repository, so
// both must share the same data set.
type MetricsRepository struct {
	mu                    sync.RWMutex
	matches               *MatchRepository
	checkpoints           map[string]metrics.Checkpoint
	participantMetrics    map[string]metrics.ParticipantMetric
	teamObjectives        map[string]metrics.TeamObjective
	participantObjectives map[string]metrics.ParticipantObjective
	teamMetrics           map[string]metrics.TeamMatchMetric
	duoMetrics            map[string]metrics.DuoMetric
}

func NewMetricsRepository(matches *MatchRepository) *MetricsRepository {
	return &MetricsRepository{
		matches:               matches,
		checkpoints:           make(map[string]metrics.Checkpoint),
		participantMetrics:    make(map[string]metrics.ParticipantMetric),
		teamObjectives:        make(map[string]metrics.TeamObjective),
		participantObjectives: make(map[string]metrics.ParticipantObjective),
		teamMetrics:           make(map[string]metrics.TeamMatchMetric),
		duoMetrics:            make(map[string]metrics.DuoMetric),
	}
}

func (r *MetricsRepository) UpsertCheckpoints(_ context.Context, rows []metrics.Checkpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.checkpoints[fmt.Sprintf("%s|%s|%d", row.MatchID, row.PUUID, row.Minute)] = row
	}
	return nil
}

func (r *MetricsRepository) UpsertParticipantMetrics(_ context.Context, rows []metrics.ParticipantMetric) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.participantMetrics[row.MatchID+"|"+row.PUUID] = row
	}
	return nil
}

func (r *MetricsRepository) UpsertTeamObjectives(_ context.Context, rows []metrics.TeamObjective) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.teamObjectives[fmt.Sprintf("%s|%d", row.MatchID, row.TeamID)] = row
	}
	return nil
}

func (r *MetricsRepository) UpsertParticipantObjectives(_ context.Context, rows []metrics.ParticipantObjective) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.participantObjectives[row.MatchID+"|"+row.PUUID] = row
	}
	return nil
}

func (r *MetricsRepository) UpsertTeamMatchMetrics(_ context.Context, rows []metrics.TeamMatchMetric) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.teamMetrics[fmt.Sprintf("%s|%d", row.MatchID, row.TeamID)] = row
	}
	return nil
}

func (r *MetricsRepository) UpsertDuoMetrics(_ context.Context, rows []metrics.DuoMetric) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.duoMetrics[fmt.Sprintf("%s|%d", row.MatchID, row.TeamID)] = row
	}
	return nil
}

func (r *MetricsRepository) GetAccountSummary(ctx context.Context, puuid string) (metrics.AccountSummary, error) {
	participants, err := r.matches.ListRecentByPUUID(ctx, puuid, 0)
	if err != nil {
		return metrics.AccountSummary{}, err
	}

	summary := metrics.AccountSummary{PUUID: puuid, Matches: len(participants)}
	if len(participants) == 0 {
		return summary, nil
	}

	var kills, deaths, assists int
	for _, p := range participants {
		kills += p.Kills
		deaths += p.Deaths
		assists += p.Assists
		if p.Win {
			summary.Wins++
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var kp, damageShare, visionPerMinute float64
	var metricCount int
	for _, p := range participants {
		if row, ok := r.participantMetrics[p.MatchID+"|"+p.PUUID]; ok {
			kp += row.KillParticipationPct
			damageShare += row.DamageSharePct
			visionPerMinute += row.VisionPerMinute
			metricCount++
		}
	}

	var goldDiffAt15 float64
	var goldDiffCount int
	for _, p := range participants {
		row, ok := r.checkpoints[fmt.Sprintf("%s|%s|%d", p.MatchID, p.PUUID, 15)]
		if !ok || row.GoldDiff == nil {
			continue
		}
		goldDiffAt15 += float64(*row.GoldDiff)
		goldDiffCount++
	}

	n := float64(len(participants))
	summary.AvgKills = roundHundredth(float64(kills) / n)
	summary.AvgDeaths = roundHundredth(float64(deaths) / n)
	summary.AvgAssists = roundHundredth(float64(assists) / n)
	if metricCount > 0 {
		m := float64(metricCount)
		summary.AvgKillParticipationPct = roundHundredth(kp / m)
		summary.AvgDamageSharePct = roundHundredth(damageShare / m)
		summary.AvgVisionPerMinute = roundHundredth(visionPerMinute / m)
	}
	if goldDiffCount > 0 {
		summary.AvgGoldDiffAt15 = roundHundredth(goldDiffAt15 / float64(goldDiffCount))
	}
	return summary, nil
}

func roundHundredth(v float64) float64 {
	return math.Round(v*100) / 100
}
