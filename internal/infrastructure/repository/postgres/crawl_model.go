package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/statikk-crawler/internal/domain/audit"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
)

type summonerInsertModel struct {
	Puuid         string    `db:"puuid"`
	Region        string    `db:"region"`
	SummonerID    string    `db:"summoner_id"`
	RiotID        string    `db:"riot_id"`
	ProfileIconID int       `db:"profile_icon_id"`
	SummonerLevel int       `db:"summoner_level"`
	LastUpdated   time.Time `db:"last_updated"`
}

type summonerRankTableModel struct {
	SummonerID   int64     `db:"summoner_id"`
	Queue        string    `db:"queue"`
	Tier         string    `db:"tier"`
	Division     string    `db:"division"`
	LeaguePoints int       `db:"league_points"`
	Wins         int       `db:"wins"`
	Losses       int       `db:"losses"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	Region                string    `db:"region"`
	GameID                int64     `db:"game_id"`
	QueueID               int       `db:"queue_id"`
	PatchID               int       `db:"patch_id"`
	PlayedAt              time.Time `db:"played_at"`
	DurationSeconds       int64     `db:"duration_seconds"`
	WinningTeam           int       `db:"winning_team"`
	Tier                  string    `db:"tier"`
	Division              string    `db:"division"`
	LeaguePoints          int       `db:"league_points"`
	EndedInSurrender      bool      `db:"ended_in_surrender"`
	EndedInEarlySurrender bool      `db:"ended_in_early_surrender"`
}

type matchTeamInsertModel struct {
	MatchID         int64 `db:"match_id"`
	TeamSide        int   `db:"team_side"`
	Win             bool  `db:"win"`
	FirstBlood      bool  `db:"first_blood"`
	FirstTower      bool  `db:"first_tower"`
	BaronKills      int   `db:"baron_kills"`
	ChampionKills   int   `db:"champion_kills"`
	DragonKills     int   `db:"dragon_kills"`
	HordeKills      int   `db:"horde_kills"`
	InhibitorKills  int   `db:"inhibitor_kills"`
	RiftHeraldKills int   `db:"rift_herald_kills"`
	TowerKills      int   `db:"tower_kills"`
	AtakhanKills    int   `db:"atakhan_kills"`
}

type matchTeamBanInsertModel struct {
	MatchTeamID int64 `db:"match_team_id"`
	PickTurn    int   `db:"pick_turn"`
	ChampionID  int   `db:"champion_id"`
}

type participantInsertModel struct {
	MatchID             int64         `db:"match_id"`
	MatchTeamID         int64         `db:"match_team_id"`
	SummonerID          int64         `db:"summoner_id"`
	ChampionID          int           `db:"champion_id"`
	ChampLevel          int           `db:"champ_level"`
	Role                string        `db:"role"`
	Win                 bool          `db:"win"`
	PrimaryStyle        int           `db:"primary_style"`
	SecondaryStyle      int           `db:"secondary_style"`
	Keystone            int           `db:"keystone"`
	Perks               pq.Int64Array `db:"perks"`
	StatOffense         int           `db:"stat_offense"`
	StatFlex            int           `db:"stat_flex"`
	StatDefense         int           `db:"stat_defense"`
	Kills               int           `db:"kills"`
	Deaths              int           `db:"deaths"`
	Assists             int           `db:"assists"`
	LargestMultiKill    int           `db:"largest_multi_kill"`
	DoubleKills         int           `db:"double_kills"`
	TripleKills         int           `db:"triple_kills"`
	QuadraKills         int           `db:"quadra_kills"`
	PentaKills          int           `db:"penta_kills"`
	CreepScore          int           `db:"creep_score"`
	GoldEarned          int           `db:"gold_earned"`
	DamageDealt         int           `db:"damage_dealt"`
	DamageTaken         int           `db:"damage_taken"`
	PhysicalDamageDealt int           `db:"physical_damage_dealt"`
	MagicDamageDealt    int           `db:"magic_damage_dealt"`
	TrueDamageDealt     int           `db:"true_damage_dealt"`
	PhysicalDamageTaken int           `db:"physical_damage_taken"`
	MagicDamageTaken    int           `db:"magic_damage_taken"`
	TrueDamageTaken     int           `db:"true_damage_taken"`
	Healing             int           `db:"healing"`
	WardsPlaced         int           `db:"wards_placed"`
	WardsKilled         int           `db:"wards_killed"`
	VisionScore         int           `db:"vision_score"`
	Pings               int           `db:"pings"`
	KDA                 float64       `db:"kda"`
	KillParticipation   float64       `db:"kill_participation"`
}

type participantItemInsertModel struct {
	ParticipantID int64 `db:"participant_id"`
	Slot          int   `db:"slot"`
	ItemID        int   `db:"item_id"`
}

type participantSpellInsertModel struct {
	ParticipantID int64 `db:"participant_id"`
	SortOrder     int   `db:"sort_order"`
	SpellID       int   `db:"spell_id"`
	Casts         int   `db:"casts"`
}

type patchTableModel struct {
	ID       int       `db:"id"`
	Version  string    `db:"version"`
	StartAt  time.Time `db:"start_at"`
	IsLatest bool      `db:"is_latest"`
}

type patchInsertModel struct {
	Version  string    `db:"version"`
	StartAt  time.Time `db:"start_at"`
	IsLatest bool      `db:"is_latest"`
}

type namedInsertModel struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

type auditInsertModel struct {
	RunID      string    `db:"run_id"`
	Method     string    `db:"method"`
	Input      string    `db:"input"`
	Message    string    `db:"message"`
	StackTrace string    `db:"stack_trace"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

func summonerToInsertModel(s summoner.Summoner) summonerInsertModel {
	return summonerInsertModel{
		Puuid:         s.Puuid,
		Region:        string(s.Region),
		SummonerID:    s.SummonerID,
		RiotID:        s.RiotID,
		ProfileIconID: s.ProfileIconID,
		SummonerLevel: s.SummonerLevel,
		LastUpdated:   s.LastUpdated.UTC(),
	}
}

func rankToTableModel(r summoner.Rank) summonerRankTableModel {
	return summonerRankTableModel{
		SummonerID:   r.SummonerID,
		Queue:        r.Queue,
		Tier:         string(r.Tier),
		Division:     string(r.Division),
		LeaguePoints: r.LeaguePoints,
		Wins:         r.Wins,
		Losses:       r.Losses,
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func matchToInsertModel(m match.Match) matchInsertModel {
	return matchInsertModel{
		Region:                string(m.Region),
		GameID:                m.GameID,
		QueueID:               m.QueueID,
		PatchID:               m.PatchID,
		PlayedAt:              m.PlayedAt.UTC(),
		DurationSeconds:       int64(m.Duration.Seconds()),
		WinningTeam:           int(m.WinningTeam),
		Tier:                  string(m.Tier),
		Division:              string(m.Division),
		LeaguePoints:          m.LeaguePoints,
		EndedInSurrender:      m.EndedInSurrender,
		EndedInEarlySurrender: m.EndedInEarlySurrender,
	}
}

func teamToInsertModel(matchID int64, t match.Team) matchTeamInsertModel {
	return matchTeamInsertModel{
		MatchID:         matchID,
		TeamSide:        int(t.Side),
		Win:             t.Win,
		FirstBlood:      t.FirstBlood,
		FirstTower:      t.FirstTower,
		BaronKills:      t.Objectives.Baron,
		ChampionKills:   t.Objectives.Champion,
		DragonKills:     t.Objectives.Dragon,
		HordeKills:      t.Objectives.Horde,
		InhibitorKills:  t.Objectives.Inhibitor,
		RiftHeraldKills: t.Objectives.RiftHerald,
		TowerKills:      t.Objectives.Tower,
		AtakhanKills:    t.Objectives.Atakhan,
	}
}

// participantToInsertModel requires a resolved summoner reference.
func participantToInsertModel(matchID, teamID, summonerID int64, p match.Participant) participantInsertModel {
	perks := make(pq.Int64Array, 0, len(p.Runes.Perks))
	for _, perk := range p.Runes.Perks {
		perks = append(perks, int64(perk))
	}
	return participantInsertModel{
		MatchID:             matchID,
		MatchTeamID:         teamID,
		SummonerID:          summonerID,
		ChampionID:          p.ChampionID,
		ChampLevel:          p.ChampLevel,
		Role:                string(p.Role),
		Win:                 p.Win,
		PrimaryStyle:        p.Runes.PrimaryStyle,
		SecondaryStyle:      p.Runes.SecondaryStyle,
		Keystone:            p.Runes.Keystone,
		Perks:               perks,
		StatOffense:         p.Runes.StatOffense,
		StatFlex:            p.Runes.StatFlex,
		StatDefense:         p.Runes.StatDefense,
		Kills:               p.Stats.Kills,
		Deaths:              p.Stats.Deaths,
		Assists:             p.Stats.Assists,
		LargestMultiKill:    p.Stats.LargestMultiKill,
		DoubleKills:         p.Stats.DoubleKills,
		TripleKills:         p.Stats.TripleKills,
		QuadraKills:         p.Stats.QuadraKills,
		PentaKills:          p.Stats.PentaKills,
		CreepScore:          p.Stats.CreepScore,
		GoldEarned:          p.Stats.GoldEarned,
		DamageDealt:         p.Stats.DamageDealt,
		DamageTaken:         p.Stats.DamageTaken,
		PhysicalDamageDealt: p.Stats.PhysicalDamageDealt,
		MagicDamageDealt:    p.Stats.MagicDamageDealt,
		TrueDamageDealt:     p.Stats.TrueDamageDealt,
		PhysicalDamageTaken: p.Stats.PhysicalDamageTaken,
		MagicDamageTaken:    p.Stats.MagicDamageTaken,
		TrueDamageTaken:     p.Stats.TrueDamageTaken,
		Healing:             p.Stats.Healing,
		WardsPlaced:         p.Stats.WardsPlaced,
		WardsKilled:         p.Stats.WardsKilled,
		VisionScore:         p.Stats.VisionScore,
		Pings:               p.Stats.Pings,
		KDA:                 p.Stats.KDA,
		KillParticipation:   p.Stats.KillParticipation,
	}
}

func auditToInsertModel(e audit.Entry) auditInsertModel {
	input := string(e.Input)
	if input == "" {
		input = "{}"
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return auditInsertModel{
		RunID:      e.RunID,
		Method:     e.Method,
		Input:      input,
		Message:    e.Message,
		StackTrace: e.StackTrace,
		Status:     e.Status,
		CreatedAt:  createdAt.UTC(),
	}
}
