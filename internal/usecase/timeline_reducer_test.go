package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/riftpulse/riftpulse/internal/domain/match"
	"github.com/riftpulse/riftpulse/internal/domain/metrics"
	"github.com/riftpulse/riftpulse/internal/platform/logging"
)

func testPUUID(participantID int) string {
	return fmt.Sprintf("puuid-%d", participantID)
}

// fullMatchDetail builds a standard 5v5 detail document: participants 1-5
// on blue, 6-10 on red, one of each role per team, blue winning.
func fullMatchDetail() ExternalMatchDetail {
	roles := []string{match.RoleTop, match.RoleJungle, match.RoleMiddle, match.RoleBottom, match.RoleUtility}

	participants := make([]ExternalParticipant, 0, 10)
	for i := 1; i <= 10; i++ {
		teamID := match.TeamBlue
		if i > 5 {
			teamID = match.TeamRed
		}
		participants = append(participants, ExternalParticipant{
			ParticipantID:     i,
			PUUID:             testPUUID(i),
			TeamID:            teamID,
			Role:              roles[(i-1)%5],
			Champion:          "Ahri",
			Kills:             2,
			Deaths:            2,
			Assists:           2,
			GoldEarned:        10000,
			CreepScore:        150,
			DamageToChampions: 1000,
			DamageTaken:       15000,
			DamageMitigated:   8000,
			VisionScore:       30,
			Win:               teamID == match.TeamBlue,
		})
	}

	return ExternalMatchDetail{
		MatchID:         "NA1_100",
		QueueID:         420,
		GameDurationSec: 1800,
		GameStartedAt:   time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		GameVersion:     "16.11.1",
		Participants:    participants,
	}
}

// frameAt builds a frame at the given minute. Every participant gets the
// same baseline snapshot unless overridden in gold.
func frameAt(minute int, gold map[int]int) ExternalTimelineFrame {
	snapshots := make(map[int]ExternalParticipantFrame, 10)
	for i := 1; i <= 10; i++ {
		g := 1000 * minute
		if v, ok := gold[i]; ok {
			g = v
		}
		snapshots[i] = ExternalParticipantFrame{
			TotalGold:           g,
			MinionsKilled:       8 * minute,
			JungleMinionsKilled: minute,
			XP:                  600 * minute,
		}
	}
	return ExternalTimelineFrame{
		TimestampMs:       int64(minute) * 60000,
		ParticipantFrames: snapshots,
	}
}

func findCheckpoint(t *testing.T, rows []metrics.Checkpoint, puuid string, minute int) metrics.Checkpoint {
	t.Helper()
	for _, row := range rows {
		if row.PUUID == puuid && row.Minute == minute {
			return row
		}
	}
	t.Fatalf("checkpoint puuid=%s minute=%d not found", puuid, minute)
	return metrics.Checkpoint{}
}

func findParticipantMetric(t *testing.T, rows []metrics.ParticipantMetric, puuid string) metrics.ParticipantMetric {
	t.Helper()
	for _, row := range rows {
		if row.PUUID == puuid {
			return row
		}
	}
	t.Fatalf("participant metric puuid=%s not found", puuid)
	return metrics.ParticipantMetric{}
}

func findTeamMetric(t *testing.T, rows []metrics.TeamMatchMetric, teamID int) metrics.TeamMatchMetric {
	t.Helper()
	for _, row := range rows {
		if row.TeamID == teamID {
			return row
		}
	}
	t.Fatalf("team metric team=%d not found", teamID)
	return metrics.TeamMatchMetric{}
}

func TestReduce_RejectsInvalidDetail(t *testing.T) {
	t.Parallel()

	reducer := NewTimelineReducer(logging.NewNop())

	_, err := reducer.Reduce(ExternalMatchDetail{}, ExternalMatchTimeline{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing match id, got %v", err)
	}

	_, err = reducer.Reduce(ExternalMatchDetail{MatchID: "NA1_100"}, ExternalMatchTimeline{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty participants, got %v", err)
	}
}

func TestReduce_CheckpointLaneDiffs(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	timeline := ExternalMatchTimeline{
		MatchID:         detail.MatchID,
		FrameIntervalMs: 60000,
		Frames: []ExternalTimelineFrame{
			frameAt(10, map[int]int{4: 4300, 9: 3800}),
		},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	if len(records.Checkpoints) != 10 {
		t.Fatalf("expected 10 checkpoint rows, got %d", len(records.Checkpoints))
	}

	bottom := findCheckpoint(t, records.Checkpoints, testPUUID(4), 10)
	if bottom.Gold != 4300 {
		t.Fatalf("expected bottom gold 4300, got %d", bottom.Gold)
	}
	if bottom.CreepScore != 90 {
		t.Fatalf("expected creep score 90, got %d", bottom.CreepScore)
	}
	if bottom.GoldDiff == nil || *bottom.GoldDiff != 500 {
		t.Fatalf("expected gold diff 500, got %v", bottom.GoldDiff)
	}
	if bottom.Ahead == nil || !*bottom.Ahead {
		t.Fatalf("expected bottom to be ahead")
	}

	enemyBottom := findCheckpoint(t, records.Checkpoints, testPUUID(9), 10)
	if enemyBottom.GoldDiff == nil || *enemyBottom.GoldDiff != -500 {
		t.Fatalf("expected enemy gold diff -500, got %v", enemyBottom.GoldDiff)
	}
	if enemyBottom.Ahead == nil || *enemyBottom.Ahead {
		t.Fatalf("expected enemy bottom to be behind")
	}
}

func TestReduce_CheckpointWithoutLaneOpponent(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	// Red has two junglers and no middle, so neither side of those
	// lanes can be paired.
	detail.Participants[7].Role = match.RoleJungle

	timeline := ExternalMatchTimeline{
		MatchID: detail.MatchID,
		Frames:  []ExternalTimelineFrame{frameAt(10, nil)},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	for _, participantID := range []int{2, 3, 7, 8} {
		row := findCheckpoint(t, records.Checkpoints, testPUUID(participantID), 10)
		if row.GoldDiff != nil || row.CreepDiff != nil || row.Ahead != nil {
			t.Fatalf("expected nil diffs for unpaired participant %d, got %+v", participantID, row)
		}
	}

	top := findCheckpoint(t, records.Checkpoints, testPUUID(1), 10)
	if top.GoldDiff == nil {
		t.Fatalf("expected paired top lane to keep its diff")
	}
}

func TestReduce_CheckpointsOnlyAtMarkMinutes(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	nearMark := frameAt(10, nil)
	nearMark.TimestampMs = 580000 // 9m40s rounds to minute 10
	timeline := ExternalMatchTimeline{
		MatchID:         detail.MatchID,
		FrameIntervalMs: 60000,
		Frames: []ExternalTimelineFrame{
			frameAt(5, nil),
			nearMark,
			frameAt(12, nil),
			frameAt(21, nil),
		},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	if len(records.Checkpoints) != 10 {
		t.Fatalf("expected 10 checkpoint rows from the rounded minute-10 frame, got %d", len(records.Checkpoints))
	}
	for _, row := range records.Checkpoints {
		if row.Minute != 10 {
			t.Fatalf("unexpected checkpoint at minute %d for puuid=%s", row.Minute, row.PUUID)
		}
	}
}

func TestReduce_DeathBucketsAndFirstMinutes(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	kill := func(ms int64, killer, victim int, assists ...int) ExternalTimelineEvent {
		return ExternalTimelineEvent{
			Type:                    EventChampionKill,
			TimestampMs:             ms,
			KillerID:                killer,
			VictimID:                victim,
			AssistingParticipantIDs: assists,
		}
	}
	timeline := ExternalMatchTimeline{
		MatchID: detail.MatchID,
		Frames: []ExternalTimelineFrame{
			{TimestampMs: 0, Events: []ExternalTimelineEvent{
				kill(9*60000+59999, 6, 1, 7),
			}},
			{TimestampMs: 600000, Events: []ExternalTimelineEvent{
				kill(10*60000, 6, 1),
				kill(29*60000+500, 6, 1),
				kill(30*60000, 6, 1),
			}},
		},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	victim := findParticipantMetric(t, records.ParticipantMetrics, testPUUID(1))
	if victim.DeathsPre10 != 1 || victim.Deaths10To20 != 1 || victim.Deaths20To30 != 1 || victim.DeathsPost30 != 1 {
		t.Fatalf("unexpected death buckets: %+v", victim)
	}
	if victim.FirstDeathMinute == nil || *victim.FirstDeathMinute != 9 {
		t.Fatalf("expected first death minute 9, got %v", victim.FirstDeathMinute)
	}

	killer := findParticipantMetric(t, records.ParticipantMetrics, testPUUID(6))
	if killer.FirstKillParticipationMinute == nil || *killer.FirstKillParticipationMinute != 9 {
		t.Fatalf("expected killer first kill participation minute 9, got %v", killer.FirstKillParticipationMinute)
	}
	assister := findParticipantMetric(t, records.ParticipantMetrics, testPUUID(7))
	if assister.FirstKillParticipationMinute == nil || *assister.FirstKillParticipationMinute != 9 {
		t.Fatalf("expected assister first kill participation minute 9, got %v", assister.FirstKillParticipationMinute)
	}
}

func TestReduce_ObjectiveCredits(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	timeline := ExternalMatchTimeline{
		MatchID: detail.MatchID,
		Frames: []ExternalTimelineFrame{
			{TimestampMs: 0, Events: []ExternalTimelineEvent{
				{Type: EventEliteMonsterKill, TimestampMs: 8 * 60000, KillerID: 2, AssistingParticipantIDs: []int{3}, MonsterType: MonsterDragon},
				{Type: EventEliteMonsterKill, TimestampMs: 14 * 60000, KillerID: 2, MonsterType: MonsterHerald},
				{Type: EventEliteMonsterKill, TimestampMs: 25 * 60000, KillerID: 7, AssistingParticipantIDs: []int{6, 8}, MonsterType: MonsterBaron},
				{Type: EventBuildingKill, TimestampMs: 16 * 60000, KillerID: 4, AssistingParticipantIDs: []int{5}, BuildingType: BuildingTower},
				// Minion tower kills carry no killer and get no credit.
				{Type: EventBuildingKill, TimestampMs: 17 * 60000, KillerID: 0, BuildingType: BuildingTower},
			}},
		},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	var blue, red metrics.TeamObjective
	for _, row := range records.TeamObjectives {
		switch row.TeamID {
		case match.TeamBlue:
			blue = row
		case match.TeamRed:
			red = row
		}
	}
	if blue.Dragons != 1 || blue.Heralds != 1 || blue.Barons != 0 || blue.Towers != 1 {
		t.Fatalf("unexpected blue objectives: %+v", blue)
	}
	if red.Barons != 1 || red.Dragons != 0 {
		t.Fatalf("unexpected red objectives: %+v", red)
	}

	var jungler, assister, towerTaker, support metrics.ParticipantObjective
	for _, row := range records.ParticipantObjectives {
		switch row.PUUID {
		case testPUUID(2):
			jungler = row
		case testPUUID(3):
			assister = row
		case testPUUID(4):
			towerTaker = row
		case testPUUID(5):
			support = row
		}
	}
	if jungler.Dragons != 1 || jungler.Heralds != 1 {
		t.Fatalf("unexpected jungler objectives: %+v", jungler)
	}
	if assister.Dragons != 1 {
		t.Fatalf("expected assist credit on dragon, got %+v", assister)
	}
	if towerTaker.Towers != 1 {
		t.Fatalf("expected tower credit for killer, got %+v", towerTaker)
	}
	if support.Towers != 0 {
		t.Fatalf("tower assists must not be credited, got %+v", support)
	}
}

func TestReduce_ShareMetrics(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	detail.Participants[0].Kills = 5
	detail.Participants[0].Assists = 3
	detail.Participants[0].DamageToChampions = 3000
	detail.Participants[0].VisionScore = 45
	// Blue team: kills 5+2+2+2+2 = 13, damage 3000+4*1000 = 7000.

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, ExternalMatchTimeline{MatchID: detail.MatchID})
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	row := findParticipantMetric(t, records.ParticipantMetrics, testPUUID(1))
	if row.KillParticipationPct != 61.54 {
		t.Fatalf("expected kill participation 61.54, got %v", row.KillParticipationPct)
	}
	if row.DamageSharePct != 42.86 {
		t.Fatalf("expected damage share 42.86, got %v", row.DamageSharePct)
	}
	// 45 vision over a 30 minute game.
	if row.VisionPerMinute != 1.5 {
		t.Fatalf("expected vision per minute 1.5, got %v", row.VisionPerMinute)
	}
}

func TestReduce_ZeroTeamKillsUsesUnitDenominator(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	for i := range detail.Participants {
		detail.Participants[i].Kills = 0
		detail.Participants[i].Assists = 0
		detail.Participants[i].DamageToChampions = 0
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, ExternalMatchTimeline{MatchID: detail.MatchID})
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	row := findParticipantMetric(t, records.ParticipantMetrics, testPUUID(1))
	if row.KillParticipationPct != 0 || row.DamageSharePct != 0 {
		t.Fatalf("expected zero shares without division error, got %+v", row)
	}
}

func TestReduce_TeamGoldMetrics(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	timeline := ExternalMatchTimeline{
		MatchID: detail.MatchID,
		Frames: []ExternalTimelineFrame{
			// Blue +500 at 15, +1000 at 20, -200 at 25.
			frameAt(15, map[int]int{1: 15500}),
			frameAt(20, map[int]int{1: 21000}),
			frameAt(25, map[int]int{6: 25200}),
		},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	blue := findTeamMetric(t, records.TeamMetrics, match.TeamBlue)
	red := findTeamMetric(t, records.TeamMetrics, match.TeamRed)

	if blue.GoldLeadAt15 != 500 || red.GoldLeadAt15 != -500 {
		t.Fatalf("unexpected leads at 15: blue=%d red=%d", blue.GoldLeadAt15, red.GoldLeadAt15)
	}
	if blue.LargestGoldLead != 1000 || red.LargestGoldLead != 1000 {
		t.Fatalf("unexpected largest lead: blue=%d red=%d", blue.LargestGoldLead, red.LargestGoldLead)
	}
	if blue.GoldSwingPost20 != 1200 || red.GoldSwingPost20 != 1200 {
		t.Fatalf("unexpected post-20 swing: blue=%d red=%d", blue.GoldSwingPost20, red.GoldSwingPost20)
	}
	if blue.WinWhenAheadAt20 == nil || !*blue.WinWhenAheadAt20 {
		t.Fatalf("blue led at 20 and won, expected true, got %v", blue.WinWhenAheadAt20)
	}
	if red.WinWhenAheadAt20 == nil || !*red.WinWhenAheadAt20 {
		t.Fatalf("rows answer whether the leading team won, got %v", red.WinWhenAheadAt20)
	}
}

func TestReduce_WinWhenAheadAt20NullOnTie(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	timeline := ExternalMatchTimeline{
		MatchID: detail.MatchID,
		Frames:  []ExternalTimelineFrame{frameAt(20, nil)},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	for _, row := range records.TeamMetrics {
		if row.WinWhenAheadAt20 != nil {
			t.Fatalf("expected nil on exact gold tie at 20, got %v for team %d", *row.WinWhenAheadAt20, row.TeamID)
		}
	}
}

func TestReduce_DuoMetrics(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	timeline := ExternalMatchTimeline{
		MatchID: detail.MatchID,
		Frames: []ExternalTimelineFrame{
			// Blue duo (4+5) 7000 vs red duo (9+10) 6600 at 10.
			frameAt(10, map[int]int{4: 4000, 5: 3000, 9: 3600, 10: 3000}),
			// Blue duo 10800 vs red duo 10000 at 15.
			frameAt(15, map[int]int{4: 6000, 5: 4800, 9: 5500, 10: 4500}),
		},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	if len(records.DuoMetrics) != 2 {
		t.Fatalf("expected 2 duo rows, got %d", len(records.DuoMetrics))
	}

	var blue, red metrics.DuoMetric
	for _, row := range records.DuoMetrics {
		switch row.TeamID {
		case match.TeamBlue:
			blue = row
		case match.TeamRed:
			red = row
		}
	}

	if blue.BottomPUUID != testPUUID(4) || blue.SupportPUUID != testPUUID(5) {
		t.Fatalf("unexpected blue duo pair: %+v", blue)
	}
	if blue.GoldDeltaAt10 != 400 || blue.GoldDeltaAt15 != 800 {
		t.Fatalf("unexpected blue duo deltas: %+v", blue)
	}
	if blue.AheadAt15 == nil || !*blue.AheadAt15 {
		t.Fatalf("expected blue duo ahead at 15")
	}
	if !blue.Win {
		t.Fatalf("expected blue duo marked as winners")
	}

	if red.GoldDeltaAt10 != -400 || red.GoldDeltaAt15 != -800 {
		t.Fatalf("unexpected red duo deltas: %+v", red)
	}
	if red.AheadAt15 == nil || *red.AheadAt15 {
		t.Fatalf("expected red duo behind at 15")
	}
	if red.Win {
		t.Fatalf("expected red duo marked as losers")
	}
}

func TestReduce_DuoAheadAt15NullOnTie(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	timeline := ExternalMatchTimeline{
		MatchID: detail.MatchID,
		Frames: []ExternalTimelineFrame{
			frameAt(10, map[int]int{4: 4000, 9: 3900}),
			frameAt(15, nil),
		},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	for _, row := range records.DuoMetrics {
		if row.AheadAt15 != nil {
			t.Fatalf("expected nil ahead flag on tie, got %v for team %d", *row.AheadAt15, row.TeamID)
		}
	}
}

func TestReduce_DuoSkippedWhenRolesUnresolvable(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	// Two bottoms on red: neither pair can be resolved.
	detail.Participants[9].Role = match.RoleBottom

	timeline := ExternalMatchTimeline{
		MatchID: detail.MatchID,
		Frames: []ExternalTimelineFrame{
			frameAt(10, nil),
			frameAt(15, nil),
		},
	}

	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}
	if len(records.DuoMetrics) != 0 {
		t.Fatalf("expected no duo rows, got %d", len(records.DuoMetrics))
	}
}

func TestReduce_EmptyTimeline(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	records, err := NewTimelineReducer(logging.NewNop()).Reduce(detail, ExternalMatchTimeline{MatchID: detail.MatchID})
	if err != nil {
		t.Fatalf("Reduce returned error: %v", err)
	}

	if len(records.Checkpoints) != 0 {
		t.Fatalf("expected no checkpoints without frames, got %d", len(records.Checkpoints))
	}
	if len(records.Participants) != 10 || len(records.ParticipantMetrics) != 10 {
		t.Fatalf("expected base rows from the detail document alone")
	}
	if records.Match.MatchID != detail.MatchID || records.Match.QueueID != 420 {
		t.Fatalf("unexpected match row: %+v", records.Match)
	}
}

func TestReduce_Deterministic(t *testing.T) {
	t.Parallel()

	detail := fullMatchDetail()
	timeline := ExternalMatchTimeline{
		MatchID: detail.MatchID,
		Frames: []ExternalTimelineFrame{
			frameAt(10, map[int]int{4: 4000}),
			frameAt(15, map[int]int{4: 6000}),
			frameAt(20, map[int]int{1: 21000}),
		},
	}

	reducer := NewTimelineReducer(logging.NewNop())
	first, err := reducer.Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("first Reduce returned error: %v", err)
	}
	second, err := reducer.Reduce(detail, timeline)
	if err != nil {
		t.Fatalf("second Reduce returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical input")
	}
}
