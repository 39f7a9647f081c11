package riot

// Wire envelopes for the match-v5 API. Only the fields the pipeline consumes
// are declared; everything else in the payload is ignored on decode.

type matchEnvelope struct {
	Metadata matchMetadata `json:"metadata"`
	Info     matchInfo     `json:"info"`
}

type matchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type matchInfo struct {
	GameStartTimestamp int64              `json:"gameStartTimestamp"`
	GameCreation       int64              `json:"gameCreation"`
	GameDuration       int                `json:"gameDuration"`
	GameVersion        string             `json:"gameVersion"`
	QueueID            int                `json:"queueId"`
	Participants       []matchParticipant `json:"participants"`
}

type matchParticipant struct {
	ParticipantID               int    `json:"participantId"`
	PUUID                       string `json:"puuid"`
	TeamID                      int    `json:"teamId"`
	TeamPosition                string `json:"teamPosition"`
	ChampionName                string `json:"championName"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	GoldEarned                  int    `json:"goldEarned"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
	TotalTimeSpentDead          int    `json:"totalTimeSpentDead"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int    `json:"totalDamageTaken"`
	DamageSelfMitigated         int    `json:"damageSelfMitigated"`
	VisionScore                 int    `json:"visionScore"`
	Win                         bool   `json:"win"`
}

type timelineEnvelope struct {
	Metadata matchMetadata `json:"metadata"`
	Info     timelineInfo  `json:"info"`
}

type timelineInfo struct {
	FrameInterval int64           `json:"frameInterval"`
	Frames        []timelineFrame `json:"frames"`
}

type timelineFrame struct {
	Timestamp         int64                           `json:"timestamp"`
	ParticipantFrames map[string]participantFrameItem `json:"participantFrames"`
	Events            []timelineEventItem             `json:"events"`
}

type participantFrameItem struct {
	TotalGold           int `json:"totalGold"`
	MinionsKilled       int `json:"minionsKilled"`
	JungleMinionsKilled int `json:"jungleMinionsKilled"`
	XP                  int `json:"xp"`
}

type timelineEventItem struct {
	Type                    string `json:"type"`
	Timestamp               int64  `json:"timestamp"`
	KillerID                int    `json:"killerId"`
	VictimID                int    `json:"victimId"`
	AssistingParticipantIDs []int  `json:"assistingParticipantIds"`
	MonsterType             string `json:"monsterType"`
	BuildingType            string `json:"buildingType"`
}
