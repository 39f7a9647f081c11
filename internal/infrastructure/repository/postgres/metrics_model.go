package postgres

import (
	"github.com/riftpulse/riftpulse/internal/domain/metrics"
)

type checkpointInsertModel struct {
	MatchID    string `db:"match_id"`
	PUUID      string `db:"puuid"`
	Minute     int    `db:"minute"`
	Gold       int    `db:"gold"`
	CreepScore int    `db:"creep_score"`
	Experience int    `db:"experience"`
	GoldDiff   *int   `db:"gold_diff"`
	CreepDiff  *int   `db:"creep_diff"`
	Ahead      *bool  `db:"ahead"`
}

type participantMetricInsertModel struct {
	MatchID                      string  `db:"match_id"`
	PUUID                        string  `db:"puuid"`
	KillParticipationPct         float64 `db:"kill_participation_pct"`
	DamageSharePct               float64 `db:"damage_share_pct"`
	DamageToChampions            int     `db:"damage_to_champions"`
	DamageTaken                  int     `db:"damage_taken"`
	DamageMitigated              int     `db:"damage_mitigated"`
	VisionScore                  int     `db:"vision_score"`
	VisionPerMinute              float64 `db:"vision_per_minute"`
	DeathsPre10                  int     `db:"deaths_pre_10"`
	Deaths10To20                 int     `db:"deaths_10_20"`
	Deaths20To30                 int     `db:"deaths_20_30"`
	DeathsPost30                 int     `db:"deaths_post_30"`
	FirstDeathMinute             *int    `db:"first_death_minute"`
	FirstKillParticipationMinute *int    `db:"first_kill_participation_minute"`
}

type teamObjectiveInsertModel struct {
	MatchID string `db:"match_id"`
	TeamID  int    `db:"team_id"`
	Dragons int    `db:"dragons"`
	Heralds int    `db:"heralds"`
	Barons  int    `db:"barons"`
	Towers  int    `db:"towers"`
}

type participantObjectiveInsertModel struct {
	MatchID string `db:"match_id"`
	PUUID   string `db:"puuid"`
	Dragons int    `db:"dragons"`
	Heralds int    `db:"heralds"`
	Barons  int    `db:"barons"`
	Towers  int    `db:"towers"`
}

type teamMatchMetricInsertModel struct {
	MatchID          string `db:"match_id"`
	TeamID           int    `db:"team_id"`
	GoldLeadAt15     int    `db:"gold_lead_at_15"`
	LargestGoldLead  int    `db:"largest_gold_lead"`
	GoldSwingPost20  int    `db:"gold_swing_post_20"`
	WinWhenAheadAt20 *bool  `db:"win_when_ahead_at_20"`
}

type duoMetricInsertModel struct {
	MatchID       string `db:"match_id"`
	TeamID        int    `db:"team_id"`
	BottomPUUID   string `db:"bottom_puuid"`
	SupportPUUID  string `db:"support_puuid"`
	GoldDeltaAt10 int    `db:"gold_delta_at_10"`
	GoldDeltaAt15 int    `db:"gold_delta_at_15"`
	AheadAt15     *bool  `db:"ahead_at_15"`
	Win           bool   `db:"win"`
}

func checkpointInsertFromDomain(row metrics.Checkpoint) checkpointInsertModel {
	return checkpointInsertModel{
		MatchID:    row.MatchID,
		PUUID:      row.PUUID,
		Minute:     row.Minute,
		Gold:       row.Gold,
		CreepScore: row.CreepScore,
		Experience: row.Experience,
		GoldDiff:   row.GoldDiff,
		CreepDiff:  row.CreepDiff,
		Ahead:      row.Ahead,
	}
}

func participantMetricInsertFromDomain(row metrics.ParticipantMetric) participantMetricInsertModel {
	return participantMetricInsertModel{
		MatchID:                      row.MatchID,
		PUUID:                        row.PUUID,
		KillParticipationPct:         row.KillParticipationPct,
		DamageSharePct:               row.DamageSharePct,
		DamageToChampions:            row.DamageToChampions,
		DamageTaken:                  row.DamageTaken,
		DamageMitigated:              row.DamageMitigated,
		VisionScore:                  row.VisionScore,
		VisionPerMinute:              row.VisionPerMinute,
		DeathsPre10:                  row.DeathsPre10,
		Deaths10To20:                 row.Deaths10To20,
		Deaths20To30:                 row.Deaths20To30,
		DeathsPost30:                 row.DeathsPost30,
		FirstDeathMinute:             row.FirstDeathMinute,
		FirstKillParticipationMinute: row.FirstKillParticipationMinute,
	}
}
