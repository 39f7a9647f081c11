package postgres

import (
	"time"

	"github.com/riftpulse/riftpulse/internal/domain/match"
)

type matchInsertModel struct {
	MatchID         string    `db:"match_id"`
	QueueID         int       `db:"queue_id"`
	GameDurationSec int       `db:"game_duration_sec"`
	GameStartedAt   time.Time `db:"game_started_at"`
	GameVersion     string    `db:"game_version"`
}

type matchTableModel struct {
	MatchID         string    `db:"match_id"`
	QueueID         int       `db:"queue_id"`
	GameDurationSec int       `db:"game_duration_sec"`
	GameStartedAt   time.Time `db:"game_started_at"`
	GameVersion     string    `db:"game_version"`
	CreatedAt       time.Time `db:"created_at"`
}

type participantInsertModel struct {
	MatchID           string `db:"match_id"`
	PUUID             string `db:"puuid"`
	ParticipantID     int    `db:"participant_id"`
	TeamID            int    `db:"team_id"`
	Role              string `db:"role"`
	Champion          string `db:"champion"`
	Kills             int    `db:"kills"`
	Deaths            int    `db:"deaths"`
	Assists           int    `db:"assists"`
	GoldEarned        int    `db:"gold_earned"`
	CreepScore        int    `db:"creep_score"`
	TimeDeadSec       int    `db:"time_dead_sec"`
	DamageToChampions int    `db:"damage_to_champions"`
	DamageTaken       int    `db:"damage_taken"`
	DamageMitigated   int    `db:"damage_mitigated"`
	VisionScore       int    `db:"vision_score"`
	Win               bool   `db:"win"`
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		MatchID:         row.MatchID,
		QueueID:         row.QueueID,
		GameDurationSec: row.GameDurationSec,
		GameStartedAt:   row.GameStartedAt,
		GameVersion:     row.GameVersion,
	}
}

func participantInsertFromDomain(p match.Participant) participantInsertModel {
	return participantInsertModel{
		MatchID:           p.MatchID,
		PUUID:             p.PUUID,
		ParticipantID:     p.ParticipantID,
		TeamID:            p.TeamID,
		Role:              p.Role,
		Champion:          p.Champion,
		Kills:             p.Kills,
		Deaths:            p.Deaths,
		Assists:           p.Assists,
		GoldEarned:        p.GoldEarned,
		CreepScore:        p.CreepScore,
		TimeDeadSec:       p.TimeDeadSec,
		DamageToChampions: p.DamageToChampions,
		DamageTaken:       p.DamageTaken,
		DamageMitigated:   p.DamageMitigated,
		VisionScore:       p.VisionScore,
		Win:               p.Win,
	}
}

type participantTableModel struct {
	participantInsertModel
}

func participantFromRow(row participantTableModel) match.Participant {
	return match.Participant{
		MatchID:           row.MatchID,
		PUUID:             row.PUUID,
		ParticipantID:     row.ParticipantID,
		TeamID:            row.TeamID,
		Role:              row.Role,
		Champion:          row.Champion,
		Kills:             row.Kills,
		Deaths:            row.Deaths,
		Assists:           row.Assists,
		GoldEarned:        row.GoldEarned,
		CreepScore:        row.CreepScore,
		TimeDeadSec:       row.TimeDeadSec,
		DamageToChampions: row.DamageToChampions,
		DamageTaken:       row.DamageTaken,
		DamageMitigated:   row.DamageMitigated,
		VisionScore:       row.VisionScore,
		Win:               row.Win,
	}
}
