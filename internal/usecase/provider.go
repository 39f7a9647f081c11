package usecase

import (
	"context"
	"time"
)

// MatchDataProvider fetches match-ID pages, match detail, and match timeline
// from the game vendor's API. Implementations must return ErrMatchNotFound
// for missing matches and ErrProviderTimeout for request timeouts; other
// failures are treated as transient.
type MatchDataProvider interface {
	ListMatchIDs(ctx context.Context, puuid string, start, count int, since *time.Time) ([]string, error)
	GetMatchDetail(ctx context.Context, matchID string) (ExternalMatchDetail, error)
	GetMatchTimeline(ctx context.Context, matchID string) (ExternalMatchTimeline, error)
}

// ExternalMatchDetail is the provider's match document mapped to the fields
// the pipeline consumes.
type ExternalMatchDetail struct {
	MatchID         string
	QueueID         int
	GameDurationSec int
	GameStartedAt   time.Time
	GameVersion     string
	Participants    []ExternalParticipant
}

type ExternalParticipant struct {
	ParticipantID     int
	PUUID             string
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

// ExternalMatchTimeline is the provider's timeline document: ordered frames,
// each with per-participant snapshots and the discrete events that happened
// inside the frame window.
type ExternalMatchTimeline struct {
	MatchID         string
	FrameIntervalMs int64
	Frames          []ExternalTimelineFrame
}

type ExternalTimelineFrame struct {
	TimestampMs       int64
	ParticipantFrames map[int]ExternalParticipantFrame
	Events            []ExternalTimelineEvent
}

type ExternalParticipantFrame struct {
	TotalGold           int
	MinionsKilled       int
	JungleMinionsKilled int
	XP                  int
}

type ExternalTimelineEvent struct {
	Type                    string
	TimestampMs             int64
	KillerID                int
	VictimID                int
	AssistingParticipantIDs []int
	MonsterType             string
	BuildingType            string
}

// Timeline event and field constants as the provider emits them.
const (
	EventChampionKill     = "CHAMPION_KILL"
	EventEliteMonsterKill = "ELITE_MONSTER_KILL"
	EventBuildingKill     = "BUILDING_KILL"

	MonsterDragon = "DRAGON"
	MonsterHerald = "RIFTHERALD"
	MonsterBaron  = "BARON_NASHOR"

	BuildingTower = "TOWER_BUILDING"
)
