package match

import (
	"strings"
	"time"
)

const (
	TeamBlue = 100
	TeamRed  = 200
)

const (
	RoleTop     = "TOP"
	RoleJungle  = "JUNGLE"
	RoleMiddle  = "MIDDLE"
	RoleBottom  = "BOTTOM"
	RoleUtility = "UTILITY"
)

// Match is one row per external match ID.
type Match struct {
	MatchID         string
	QueueID         int
	GameDurationSec int
	GameStartedAt   time.Time
	GameVersion     string
}

// Participant is one row per (match, player) pair.
type Participant struct {
	MatchID           string
	PUUID             string
	ParticipantID     int
	TeamID            int
	Role              string
	Champion          string
	Kills             int
	Deaths            int
	Assists           int
	GoldEarned        int
	CreepScore        int
	TimeDeadSec       int
	DamageToChampions int
	DamageTaken       int
	DamageMitigated   int
	VisionScore       int
	Win               bool
}

func NormalizeRole(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func EnemyTeam(teamID int) int {
	if teamID == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}
