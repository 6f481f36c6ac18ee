package riot

import (
	"strings"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/usecase"
)

type leagueEntry struct {
	LeagueID     string `json:"leagueId"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	SummonerID   string `json:"summonerId"`
	Puuid        string `json:"puuid"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type matchResponse struct {
	Metadata matchMetadata `json:"metadata"`
	Info     matchInfo     `json:"info"`
}

type matchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type matchInfo struct {
	GameCreation       int64              `json:"gameCreation"`
	GameDuration       int64              `json:"gameDuration"`
	GameEndTimestamp   int64              `json:"gameEndTimestamp"`
	GameStartTimestamp int64              `json:"gameStartTimestamp"`
	GameID             int64              `json:"gameId"`
	GameVersion        string             `json:"gameVersion"`
	PlatformID         string             `json:"platformId"`
	QueueID            int                `json:"queueId"`
	Teams              []matchTeam        `json:"teams"`
	Participants       []matchParticipant `json:"participants"`
}

type matchTeam struct {
	TeamID     int                       `json:"teamId"`
	Win        bool                      `json:"win"`
	Bans       []matchBan                `json:"bans"`
	Objectives map[string]matchObjective `json:"objectives"`
}

type matchBan struct {
	ChampionID int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

type matchObjective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

type matchParticipant struct {
	Puuid                          string           `json:"puuid"`
	SummonerID                     string           `json:"summonerId"`
	RiotIDGameName                 string           `json:"riotIdGameName"`
	RiotIDTagline                  string           `json:"riotIdTagline"`
	ProfileIcon                    int              `json:"profileIcon"`
	SummonerLevel                  int              `json:"summonerLevel"`
	TeamID                         int              `json:"teamId"`
	Win                            bool             `json:"win"`
	ChampionID                     int              `json:"championId"`
	ChampLevel                     int              `json:"champLevel"`
	TeamPosition                   string           `json:"teamPosition"`
	GameEndedInSurrender           bool             `json:"gameEndedInSurrender"`
	GameEndedInEarlySurrender      bool             `json:"gameEndedInEarlySurrender"`
	Kills                          int              `json:"kills"`
	Deaths                         int              `json:"deaths"`
	Assists                        int              `json:"assists"`
	LargestMultiKill               int              `json:"largestMultiKill"`
	DoubleKills                    int              `json:"doubleKills"`
	TripleKills                    int              `json:"tripleKills"`
	QuadraKills                    int              `json:"quadraKills"`
	PentaKills                     int              `json:"pentaKills"`
	TotalMinionsKilled             int              `json:"totalMinionsKilled"`
	NeutralMinionsKilled           int              `json:"neutralMinionsKilled"`
	GoldEarned                     int              `json:"goldEarned"`
	TotalDamageDealtToChampions    int              `json:"totalDamageDealtToChampions"`
	TotalDamageTaken               int              `json:"totalDamageTaken"`
	PhysicalDamageDealtToChampions int              `json:"physicalDamageDealtToChampions"`
	MagicDamageDealtToChampions    int              `json:"magicDamageDealtToChampions"`
	TrueDamageDealtToChampions     int              `json:"trueDamageDealtToChampions"`
	PhysicalDamageTaken            int              `json:"physicalDamageTaken"`
	MagicDamageTaken               int              `json:"magicDamageTaken"`
	TrueDamageTaken                int              `json:"trueDamageTaken"`
	TotalHeal                      int              `json:"totalHeal"`
	WardsPlaced                    int              `json:"wardsPlaced"`
	WardsKilled                    int              `json:"wardsKilled"`
	VisionScore                    int              `json:"visionScore"`
	AllInPings                     int              `json:"allInPings"`
	AssistMePings                  int              `json:"assistMePings"`
	BasicPings                     int              `json:"basicPings"`
	CommandPings                   int              `json:"commandPings"`
	DangerPings                    int              `json:"dangerPings"`
	EnemyMissingPings              int              `json:"enemyMissingPings"`
	EnemyVisionPings               int              `json:"enemyVisionPings"`
	GetBackPings                   int              `json:"getBackPings"`
	HoldPings                      int              `json:"holdPings"`
	NeedVisionPings                int              `json:"needVisionPings"`
	OnMyWayPings                   int              `json:"onMyWayPings"`
	PushPings                      int              `json:"pushPings"`
	RetreatPings                   int              `json:"retreatPings"`
	VisionClearedPings             int              `json:"visionClearedPings"`
	Item0                          int              `json:"item0"`
	Item1                          int              `json:"item1"`
	Item2                          int              `json:"item2"`
	Item3                          int              `json:"item3"`
	Item4                          int              `json:"item4"`
	Item5                          int              `json:"item5"`
	Item6                          int              `json:"item6"`
	Summoner1ID                    int              `json:"summoner1Id"`
	Summoner1Casts                 int              `json:"summoner1Casts"`
	Summoner2ID                    int              `json:"summoner2Id"`
	Summoner2Casts                 int              `json:"summoner2Casts"`
	Perks                          matchPerks       `json:"perks"`
	Challenges                     *matchChallenges `json:"challenges"`
}

type matchPerks struct {
	StatPerks matchStatPerks   `json:"statPerks"`
	Styles    []matchPerkStyle `json:"styles"`
}

type matchStatPerks struct {
	Offense int `json:"offense"`
	Flex    int `json:"flex"`
	Defense int `json:"defense"`
}

type matchPerkStyle struct {
	Description string               `json:"description"`
	Style       int                  `json:"style"`
	Selections  []matchPerkSelection `json:"selections"`
}

type matchPerkSelection struct {
	Perk int `json:"perk"`
}

type matchChallenges struct {
	KDA               float64 `json:"kda"`
	KillParticipation float64 `json:"killParticipation"`
}

func mapLeagueEntries(items []leagueEntry, pair ladder.Pair) []ladder.PlayerEntry {
	out := make([]ladder.PlayerEntry, 0, len(items))
	for _, item := range items {
		tier, err := ladder.ParseTier(item.Tier)
		if err != nil {
			tier = pair.Tier
		}
		division, err := ladder.ParseDivision(item.Rank)
		if err != nil {
			division = pair.Division
		}
		out = append(out, ladder.PlayerEntry{
			Puuid:        strings.TrimSpace(item.Puuid),
			SummonerID:   strings.TrimSpace(item.SummonerID),
			Tier:         tier,
			Division:     division,
			LeaguePoints: item.LeaguePoints,
			Wins:         item.Wins,
			Losses:       item.Losses,
		})
	}
	return out
}

func mapMatch(src matchResponse) usecase.ExternalMatch {
	info := src.Info
	out := usecase.ExternalMatch{
		MatchID:         strings.TrimSpace(src.Metadata.MatchID),
		PlatformID:      strings.TrimSpace(info.PlatformID),
		GameID:          info.GameID,
		QueueID:         info.QueueID,
		GameVersion:     strings.TrimSpace(info.GameVersion),
		GameCreation:    unixMillis(info.GameCreation),
		GameStart:       unixMillis(info.GameStartTimestamp),
		GameEnd:         unixMillis(info.GameEndTimestamp),
		DurationSeconds: durationSeconds(info),
		Teams:           make([]usecase.ExternalMatchTeam, 0, len(info.Teams)),
		Participants:    make([]usecase.ExternalParticipant, 0, len(info.Participants)),
	}
	for _, team := range info.Teams {
		out.Teams = append(out.Teams, mapTeam(team))
	}
	for _, participant := range info.Participants {
		out.Participants = append(out.Participants, mapParticipant(participant))
	}
	return out
}

// durationSeconds handles the pre-11.20 payloads where gameDuration was in milliseconds.
func durationSeconds(info matchInfo) int64 {
	if info.GameEndTimestamp == 0 {
		return info.GameDuration / 1000
	}
	return info.GameDuration
}

func unixMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func mapTeam(src matchTeam) usecase.ExternalMatchTeam {
	out := usecase.ExternalMatchTeam{
		TeamID:     src.TeamID,
		Win:        src.Win,
		Bans:       make([]usecase.ExternalBan, 0, len(src.Bans)),
		Objectives: make(map[string]usecase.ExternalObjective, len(src.Objectives)),
	}
	for _, ban := range src.Bans {
		out.Bans = append(out.Bans, usecase.ExternalBan{ChampionID: ban.ChampionID, PickTurn: ban.PickTurn})
	}
	for key, objective := range src.Objectives {
		out.Objectives[key] = usecase.ExternalObjective{First: objective.First, Kills: objective.Kills}
	}
	return out
}

func mapParticipant(src matchParticipant) usecase.ExternalParticipant {
	out := usecase.ExternalParticipant{
		Puuid:                     strings.TrimSpace(src.Puuid),
		SummonerID:                strings.TrimSpace(src.SummonerID),
		RiotIDGameName:            src.RiotIDGameName,
		RiotIDTagline:             src.RiotIDTagline,
		ProfileIcon:               src.ProfileIcon,
		SummonerLevel:             src.SummonerLevel,
		TeamID:                    src.TeamID,
		Win:                       src.Win,
		ChampionID:                src.ChampionID,
		ChampLevel:                src.ChampLevel,
		TeamPosition:              src.TeamPosition,
		GameEndedInSurrender:      src.GameEndedInSurrender,
		GameEndedInEarlySurrender: src.GameEndedInEarlySurrender,
		Kills:                     src.Kills,
		Deaths:                    src.Deaths,
		Assists:                   src.Assists,
		LargestMultiKill:          src.LargestMultiKill,
		DoubleKills:               src.DoubleKills,
		TripleKills:               src.TripleKills,
		QuadraKills:               src.QuadraKills,
		PentaKills:                src.PentaKills,
		TotalMinionsKilled:        src.TotalMinionsKilled,
		NeutralMinionsKilled:      src.NeutralMinionsKilled,
		GoldEarned:                src.GoldEarned,
		TotalDamageToChamps:       src.TotalDamageDealtToChampions,
		TotalDamageTaken:          src.TotalDamageTaken,
		PhysicalDamageToChamps:    src.PhysicalDamageDealtToChampions,
		MagicDamageToChamps:       src.MagicDamageDealtToChampions,
		TrueDamageToChamps:        src.TrueDamageDealtToChampions,
		PhysicalDamageTaken:       src.PhysicalDamageTaken,
		MagicDamageTaken:          src.MagicDamageTaken,
		TrueDamageTaken:           src.TrueDamageTaken,
		TotalHeal:                 src.TotalHeal,
		WardsPlaced:               src.WardsPlaced,
		WardsKilled:               src.WardsKilled,
		VisionScore:               src.VisionScore,
		Pings:                     src.totalPings(),
		Items:                     [7]int{src.Item0, src.Item1, src.Item2, src.Item3, src.Item4, src.Item5, src.Item6},
		Summoner1ID:               src.Summoner1ID,
		Summoner1Casts:            src.Summoner1Casts,
		Summoner2ID:               src.Summoner2ID,
		Summoner2Casts:            src.Summoner2Casts,
		Perks: usecase.ExternalPerks{
			Offense: src.Perks.StatPerks.Offense,
			Flex:    src.Perks.StatPerks.Flex,
			Defense: src.Perks.StatPerks.Defense,
			Styles:  make([]usecase.ExternalPerkStyle, 0, len(src.Perks.Styles)),
		},
	}
	for _, style := range src.Perks.Styles {
		selections := make([]int, 0, len(style.Selections))
		for _, selection := range style.Selections {
			selections = append(selections, selection.Perk)
		}
		out.Perks.Styles = append(out.Perks.Styles, usecase.ExternalPerkStyle{
			Description: style.Description,
			Style:       style.Style,
			Selections:  selections,
		})
	}
	if src.Challenges != nil {
		out.Challenges = &usecase.ExternalChallenges{
			KDA:               src.Challenges.KDA,
			KillParticipation: src.Challenges.KillParticipation,
		}
	}
	return out
}

func (p matchParticipant) totalPings() int {
	return p.AllInPings + p.AssistMePings + p.BasicPings + p.CommandPings + p.DangerPings +
		p.EnemyMissingPings + p.EnemyVisionPings + p.GetBackPings + p.HoldPings + p.NeedVisionPings +
		p.OnMyWayPings + p.PushPings + p.RetreatPings + p.VisionClearedPings
}
