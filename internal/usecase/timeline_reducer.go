package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/riftpulse/riftpulse/internal/domain/match"
	"github.com/riftpulse/riftpulse/internal/domain/metrics"
	"github.com/riftpulse/riftpulse/internal/platform/logging"
)

// MatchRecords is the full set of rows derived from one match. Row order is
// deterministic so re-running the reducer yields identical output.
type MatchRecords struct {
	Match                 match.Match
	Participants          []match.Participant
	Checkpoints           []metrics.Checkpoint
	ParticipantMetrics    []metrics.ParticipantMetric
	TeamObjectives        []metrics.TeamObjective
	ParticipantObjectives []metrics.ParticipantObjective
	TeamMetrics           []metrics.TeamMatchMetric
	DuoMetrics            []metrics.DuoMetric
}

// TimelineReducer turns one match's detail and timeline documents into
// derived rows. Reduce holds no state between matches; a malformed
// participant or event is skipped with a warning instead of failing the
// match.
type TimelineReducer struct {
	logger *logging.Logger
}

func NewTimelineReducer(logger *logging.Logger) *TimelineReducer {
	if logger == nil {
		logger = logging.Default()
	}
	return &TimelineReducer{logger: logger}
}

type participantState struct {
	ext          ExternalParticipant
	deathsPre10  int
	deaths10To20 int
	deaths20To30 int
	deathsPost30 int
	firstDeath   *int
	firstKP      *int
	dragons      int
	heralds      int
	barons       int
	towers       int
}

type teamState struct {
	kills   int
	damage  int
	win     bool
	dragons int
	heralds int
	barons  int
	towers  int
}

func (r *TimelineReducer) Reduce(detail ExternalMatchDetail, timeline ExternalMatchTimeline) (MatchRecords, error) {
	if strings.TrimSpace(detail.MatchID) == "" {
		return MatchRecords{}, fmt.Errorf("%w: match detail is missing a match id", ErrInvalidInput)
	}
	if len(detail.Participants) == 0 {
		return MatchRecords{}, fmt.Errorf("%w: match %s detail has no participants", ErrInvalidInput, detail.MatchID)
	}

	byIdx := make(map[int]*participantState, len(detail.Participants))
	order := make([]int, 0, len(detail.Participants))
	teams := map[int]*teamState{
		match.TeamBlue: {},
		match.TeamRed:  {},
	}

	for _, ext := range detail.Participants {
		if ext.ParticipantID <= 0 || strings.TrimSpace(ext.PUUID) == "" {
			r.logger.Warn("skipping malformed participant",
				"match_id", detail.MatchID,
				"participant_id", ext.ParticipantID,
			)
			continue
		}
		team, ok := teams[ext.TeamID]
		if !ok {
			r.logger.Warn("skipping participant with unknown team",
				"match_id", detail.MatchID,
				"participant_id", ext.ParticipantID,
				"team_id", ext.TeamID,
			)
			continue
		}
		byIdx[ext.ParticipantID] = &participantState{ext: ext}
		order = append(order, ext.ParticipantID)
		team.kills += ext.Kills
		team.damage += ext.DamageToChampions
		team.win = team.win || ext.Win
	}
	if len(byIdx) == 0 {
		return MatchRecords{}, fmt.Errorf("%w: match %s has no usable participants", ErrInvalidInput, detail.MatchID)
	}

	laneOpponentByIdx := resolveLaneOpponents(byIdx, order)

	// Frame pass: checkpoints and the team gold-lead series.
	checkpoints := make([]metrics.Checkpoint, 0, len(byIdx)*len(metrics.CheckpointMinutes))
	goldByMinuteAndPUUID := make(map[string]map[int]int, len(byIdx))
	leadByMinute := make(map[int]int, len(timeline.Frames))
	emittedCheckpoint := make(map[int]bool, len(metrics.CheckpointMinutes))

	for _, frame := range timeline.Frames {
		minute := nearestMinute(frame.TimestampMs)

		blueGold, redGold := 0, 0
		for idx, snapshot := range frame.ParticipantFrames {
			state, ok := byIdx[idx]
			if !ok {
				continue
			}
			if state.ext.TeamID == match.TeamBlue {
				blueGold += snapshot.TotalGold
			} else {
				redGold += snapshot.TotalGold
			}
		}
		leadByMinute[minute] = blueGold - redGold

		if !isCheckpointMinute(minute) || emittedCheckpoint[minute] {
			continue
		}
		emittedCheckpoint[minute] = true

		for _, idx := range order {
			state := byIdx[idx]
			snapshot, ok := frame.ParticipantFrames[idx]
			if !ok {
				r.logger.Warn("participant missing from frame",
					"match_id", detail.MatchID,
					"participant_id", idx,
					"minute", minute,
				)
				continue
			}

			row := metrics.Checkpoint{
				MatchID:    detail.MatchID,
				PUUID:      state.ext.PUUID,
				Minute:     minute,
				Gold:       snapshot.TotalGold,
				CreepScore: snapshot.MinionsKilled + snapshot.JungleMinionsKilled,
				Experience: snapshot.XP,
			}
			if opponentIdx, ok := laneOpponentByIdx[idx]; ok {
				if enemySnapshot, ok := frame.ParticipantFrames[opponentIdx]; ok {
					goldDiff := snapshot.TotalGold - enemySnapshot.TotalGold
					creepDiff := (snapshot.MinionsKilled + snapshot.JungleMinionsKilled) -
						(enemySnapshot.MinionsKilled + enemySnapshot.JungleMinionsKilled)
					ahead := goldDiff > 0
					row.GoldDiff = &goldDiff
					row.CreepDiff = &creepDiff
					row.Ahead = &ahead
				}
			}
			checkpoints = append(checkpoints, row)

			perMinute, ok := goldByMinuteAndPUUID[state.ext.PUUID]
			if !ok {
				perMinute = make(map[int]int, len(metrics.CheckpointMinutes))
				goldByMinuteAndPUUID[state.ext.PUUID] = perMinute
			}
			perMinute[minute] = snapshot.TotalGold
		}
	}

	// Event pass, in timestamp order within the ordered frames.
	for _, frame := range timeline.Frames {
		for _, event := range frame.Events {
			switch event.Type {
			case EventChampionKill:
				r.applyChampionKill(detail.MatchID, byIdx, event)
			case EventEliteMonsterKill:
				r.applyEliteMonsterKill(detail.MatchID, byIdx, teams, event)
			case EventBuildingKill:
				r.applyBuildingKill(byIdx, teams, event)
			}
		}
	}

	records := MatchRecords{
		Match: match.Match{
			MatchID:         detail.MatchID,
			QueueID:         detail.QueueID,
			GameDurationSec: detail.GameDurationSec,
			GameStartedAt:   detail.GameStartedAt,
			GameVersion:     detail.GameVersion,
		},
		Checkpoints: checkpoints,
	}

	gameMinutes := float64(detail.GameDurationSec) / 60
	if gameMinutes < 1 {
		gameMinutes = 1
	}

	for _, idx := range order {
		state := byIdx[idx]
		ext := state.ext
		team := teams[ext.TeamID]

		records.Participants = append(records.Participants, match.Participant{
			MatchID:           detail.MatchID,
			PUUID:             ext.PUUID,
			ParticipantID:     ext.ParticipantID,
			TeamID:            ext.TeamID,
			Role:              match.NormalizeRole(ext.Role),
			Champion:          ext.Champion,
			Kills:             ext.Kills,
			Deaths:            ext.Deaths,
			Assists:           ext.Assists,
			GoldEarned:        ext.GoldEarned,
			CreepScore:        ext.CreepScore,
			TimeDeadSec:       ext.TimeDeadSec,
			DamageToChampions: ext.DamageToChampions,
			DamageTaken:       ext.DamageTaken,
			DamageMitigated:   ext.DamageMitigated,
			VisionScore:       ext.VisionScore,
			Win:               ext.Win,
		})

		records.ParticipantMetrics = append(records.ParticipantMetrics, metrics.ParticipantMetric{
			MatchID:                      detail.MatchID,
			PUUID:                        ext.PUUID,
			KillParticipationPct:         round2(100 * float64(ext.Kills+ext.Assists) / float64(maxInt(team.kills, 1))),
			DamageSharePct:               round2(100 * float64(ext.DamageToChampions) / float64(maxInt(team.damage, 1))),
			DamageToChampions:            ext.DamageToChampions,
			DamageTaken:                  ext.DamageTaken,
			DamageMitigated:              ext.DamageMitigated,
			VisionScore:                  ext.VisionScore,
			VisionPerMinute:              round2(float64(ext.VisionScore) / gameMinutes),
			DeathsPre10:                  state.deathsPre10,
			Deaths10To20:                 state.deaths10To20,
			Deaths20To30:                 state.deaths20To30,
			DeathsPost30:                 state.deathsPost30,
			FirstDeathMinute:             state.firstDeath,
			FirstKillParticipationMinute: state.firstKP,
		})

		records.ParticipantObjectives = append(records.ParticipantObjectives, metrics.ParticipantObjective{
			MatchID: detail.MatchID,
			PUUID:   ext.PUUID,
			Dragons: state.dragons,
			Heralds: state.heralds,
			Barons:  state.barons,
			Towers:  state.towers,
		})
	}

	records.TeamObjectives, records.TeamMetrics = buildTeamRows(detail.MatchID, teams, leadByMinute)
	records.DuoMetrics = buildDuoMetrics(detail.MatchID, byIdx, order, teams, goldByMinuteAndPUUID)

	return records, nil
}

func (r *TimelineReducer) applyChampionKill(matchID string, byIdx map[int]*participantState, event ExternalTimelineEvent) {
	minute := flooredMinute(event.TimestampMs)

	victim, ok := byIdx[event.VictimID]
	if !ok {
		r.logger.Warn("champion kill with unknown victim",
			"match_id", matchID,
			"victim_id", event.VictimID,
		)
	} else {
		switch {
		case minute < 10:
			victim.deathsPre10++
		case minute < 20:
			victim.deaths10To20++
		case minute < 30:
			victim.deaths20To30++
		default:
			victim.deathsPost30++
		}
		if victim.firstDeath == nil {
			m := minute
			victim.firstDeath = &m
		}
	}

	if killer, ok := byIdx[event.KillerID]; ok && killer.firstKP == nil {
		m := minute
		killer.firstKP = &m
	}
	for _, assistID := range event.AssistingParticipantIDs {
		if assister, ok := byIdx[assistID]; ok && assister.firstKP == nil {
			m := minute
			assister.firstKP = &m
		}
	}
}

func (r *TimelineReducer) applyEliteMonsterKill(matchID string, byIdx map[int]*participantState, teams map[int]*teamState, event ExternalTimelineEvent) {
	killer, ok := byIdx[event.KillerID]
	if !ok {
		r.logger.Warn("elite monster kill with unknown killer",
			"match_id", matchID,
			"killer_id", event.KillerID,
		)
		return
	}

	credited := make([]*participantState, 0, 1+len(event.AssistingParticipantIDs))
	credited = append(credited, killer)
	for _, assistID := range event.AssistingParticipantIDs {
		if assister, ok := byIdx[assistID]; ok {
			credited = append(credited, assister)
		}
	}

	team := teams[killer.ext.TeamID]
	switch {
	case strings.Contains(event.MonsterType, "DRAGON"):
		team.dragons++
		for _, p := range credited {
			p.dragons++
		}
	case event.MonsterType == MonsterHerald:
		team.heralds++
		for _, p := range credited {
			p.heralds++
		}
	case event.MonsterType == MonsterBaron:
		team.barons++
		for _, p := range credited {
			p.barons++
		}
	}
}

func (r *TimelineReducer) applyBuildingKill(byIdx map[int]*participantState, teams map[int]*teamState, event ExternalTimelineEvent) {
	if event.BuildingType != BuildingTower {
		return
	}
	// Towers can fall to minions; only player kills get credited.
	killer, ok := byIdx[event.KillerID]
	if !ok {
		return
	}
	killer.towers++
	teams[killer.ext.TeamID].towers++
}

// resolveLaneOpponents pairs each participant with the single enemy holding
// the same role. Duplicate or missing roles leave the participant unpaired.
func resolveLaneOpponents(byIdx map[int]*participantState, order []int) map[int]int {
	byTeamAndRole := make(map[int]map[string][]int, 2)
	for _, idx := range order {
		state := byIdx[idx]
		role := match.NormalizeRole(state.ext.Role)
		if role == "" {
			continue
		}
		perRole, ok := byTeamAndRole[state.ext.TeamID]
		if !ok {
			perRole = make(map[string][]int, 5)
			byTeamAndRole[state.ext.TeamID] = perRole
		}
		perRole[role] = append(perRole[role], idx)
	}

	out := make(map[int]int, len(order))
	for _, idx := range order {
		state := byIdx[idx]
		role := match.NormalizeRole(state.ext.Role)
		if role == "" {
			continue
		}
		mine := byTeamAndRole[state.ext.TeamID][role]
		enemies := byTeamAndRole[match.EnemyTeam(state.ext.TeamID)][role]
		if len(mine) != 1 || len(enemies) != 1 {
			continue
		}
		out[idx] = enemies[0]
	}
	return out
}

func buildTeamRows(matchID string, teams map[int]*teamState, leadByMinute map[int]int) ([]metrics.TeamObjective, []metrics.TeamMatchMetric) {
	minutes := make([]int, 0, len(leadByMinute))
	for minute := range leadByMinute {
		minutes = append(minutes, minute)
	}
	sort.Ints(minutes)

	largestLead := 0
	post20Max, post20Min := math.MinInt, math.MaxInt
	for _, minute := range minutes {
		lead := leadByMinute[minute]
		if abs := absInt(lead); abs > largestLead {
			largestLead = abs
		}
		if minute >= 20 {
			if lead > post20Max {
				post20Max = lead
			}
			if lead < post20Min {
				post20Min = lead
			}
		}
	}
	swing := 0
	if post20Max != math.MinInt {
		swing = post20Max - post20Min
	}

	leadAt15 := leadByMinute[15]
	leadAt20, hasLeadAt20 := leadByMinute[20]

	var winWhenAhead *bool
	if hasLeadAt20 && leadAt20 != 0 {
		aheadTeam := match.TeamBlue
		if leadAt20 < 0 {
			aheadTeam = match.TeamRed
		}
		v := teams[aheadTeam].win
		winWhenAhead = &v
	}

	objectives := make([]metrics.TeamObjective, 0, 2)
	teamMetrics := make([]metrics.TeamMatchMetric, 0, 2)
	for _, teamID := range []int{match.TeamBlue, match.TeamRed} {
		team := teams[teamID]
		objectives = append(objectives, metrics.TeamObjective{
			MatchID: matchID,
			TeamID:  teamID,
			Dragons: team.dragons,
			Heralds: team.heralds,
			Barons:  team.barons,
			Towers:  team.towers,
		})

		teamLeadAt15 := leadAt15
		if teamID == match.TeamRed {
			teamLeadAt15 = -teamLeadAt15
		}
		teamMetrics = append(teamMetrics, metrics.TeamMatchMetric{
			MatchID:          matchID,
			TeamID:           teamID,
			GoldLeadAt15:     teamLeadAt15,
			LargestGoldLead:  largestLead,
			GoldSwingPost20:  swing,
			WinWhenAheadAt20: copyBoolPtr(winWhenAhead),
		})
	}
	return objectives, teamMetrics
}

// buildDuoMetrics compares each team's bottom/support pair to the enemy
// pair using the minute-10 and minute-15 checkpoints. Teams whose roles do
// not resolve to exactly one bottom and one support produce no row.
func buildDuoMetrics(matchID string, byIdx map[int]*participantState, order []int, teams map[int]*teamState, goldByMinuteAndPUUID map[string]map[int]int) []metrics.DuoMetric {
	type duoPair struct {
		bottom  string
		support string
		found   bool
	}

	pairs := make(map[int]duoPair, 2)
	for _, teamID := range []int{match.TeamBlue, match.TeamRed} {
		var bottoms, supports []string
		for _, idx := range order {
			state := byIdx[idx]
			if state.ext.TeamID != teamID {
				continue
			}
			switch match.NormalizeRole(state.ext.Role) {
			case match.RoleBottom:
				bottoms = append(bottoms, state.ext.PUUID)
			case match.RoleUtility:
				supports = append(supports, state.ext.PUUID)
			}
		}
		if len(bottoms) == 1 && len(supports) == 1 {
			pairs[teamID] = duoPair{bottom: bottoms[0], support: supports[0], found: true}
		}
	}

	pairGoldAt := func(pair duoPair, minute int) (int, bool) {
		bottomGold, ok := goldByMinuteAndPUUID[pair.bottom][minute]
		if !ok {
			return 0, false
		}
		supportGold, ok := goldByMinuteAndPUUID[pair.support][minute]
		if !ok {
			return 0, false
		}
		return bottomGold + supportGold, true
	}

	out := make([]metrics.DuoMetric, 0, 2)
	for _, teamID := range []int{match.TeamBlue, match.TeamRed} {
		mine, ok := pairs[teamID]
		if !ok || !mine.found {
			continue
		}
		enemy, ok := pairs[match.EnemyTeam(teamID)]
		if !ok || !enemy.found {
			continue
		}

		myGold10, ok1 := pairGoldAt(mine, 10)
		enemyGold10, ok2 := pairGoldAt(enemy, 10)
		myGold15, ok3 := pairGoldAt(mine, 15)
		enemyGold15, ok4 := pairGoldAt(enemy, 15)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}

		deltaAt15 := myGold15 - enemyGold15
		row := metrics.DuoMetric{
			MatchID:       matchID,
			TeamID:        teamID,
			BottomPUUID:   mine.bottom,
			SupportPUUID:  mine.support,
			GoldDeltaAt10: myGold10 - enemyGold10,
			GoldDeltaAt15: deltaAt15,
			Win:           teams[teamID].win,
		}
		if deltaAt15 != 0 {
			ahead := deltaAt15 > 0
			row.AheadAt15 = &ahead
		}
		out = append(out, row)
	}
	return out
}

func isCheckpointMinute(minute int) bool {
	for _, mark := range metrics.CheckpointMinutes {
		if minute == mark {
			return true
		}
	}
	return false
}

func nearestMinute(timestampMs int64) int {
	return int((timestampMs + 30000) / 60000)
}

func flooredMinute(timestampMs int64) int {
	return int(timestampMs / 60000)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func copyBoolPtr(v *bool) *bool {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
