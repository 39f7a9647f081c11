package metrics

// CheckpointMinutes are the fixed minute marks at which lane checkpoints are
// captured.
var CheckpointMinutes = []int{10, 15, 20, 25, 30}

// Checkpoint snapshots a participant's gold/creep/experience at a fixed
// minute mark. Diff fields are nil when no lane opponent was identified.
type Checkpoint struct {
	MatchID    string
	PUUID      string
	Minute     int
	Gold       int
	CreepScore int
	Experience int
	GoldDiff   *int
	CreepDiff  *int
	Ahead      *bool
}

// ParticipantMetric is derived once per participant per match.
type ParticipantMetric struct {
	MatchID                      string
	PUUID                        string
	KillParticipationPct         float64
	DamageSharePct               float64
	DamageToChampions            int
	DamageTaken                  int
	DamageMitigated              int
	VisionScore                  int
	VisionPerMinute              float64
	DeathsPre10                  int
	Deaths10To20                 int
	Deaths20To30                 int
	DeathsPost30                 int
	FirstDeathMinute             *int
	FirstKillParticipationMinute *int
}

// TeamObjective counts objectives credited to one team in one match.
type TeamObjective struct {
	MatchID string
	TeamID  int
	Dragons int
	Heralds int
	Barons  int
	Towers  int
}

// ParticipantObjective counts objectives credited to one participant.
// Monster credit is shared with assisters; tower credit goes to the killer
// only.
type ParticipantObjective struct {
	MatchID string
	PUUID   string
	Dragons int
	Heralds int
	Barons  int
	Towers  int
}

// TeamMatchMetric captures team-level gold-lead dynamics for one match.
// WinWhenAheadAt20 is nil when the teams were exactly tied at minute 20.
type TeamMatchMetric struct {
	MatchID          string
	TeamID           int
	GoldLeadAt15     int
	LargestGoldLead  int
	GoldSwingPost20  int
	WinWhenAheadAt20 *bool
}

// DuoMetric compares a team's bottom-lane pair to the enemy pair.
// AheadAt15 is nil when the pairs were exactly tied at minute 15.
type DuoMetric struct {
	MatchID       string
	TeamID        int
	BottomPUUID   string
	SupportPUUID  string
	GoldDeltaAt10 int
	GoldDeltaAt15 int
	AheadAt15     *bool
	Win           bool
}

// AccountSummary aggregates derived metrics for one player across stored
// matches. Read-only, used by the dashboard endpoint.
type AccountSummary struct {
	PUUID                   string
	Matches                 int
	Wins                    int
	AvgKills                float64
	AvgDeaths               float64
	AvgAssists              float64
	AvgKillParticipationPct float64
	AvgDamageSharePct       float64
	AvgVisionPerMinute      float64
	AvgGoldDiffAt15         float64
}
