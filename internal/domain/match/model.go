package match

import (
	"fmt"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/domain/identity"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
)

// TeamSide is the upstream team id.
type TeamSide int

const (
	TeamBlue TeamSide = 100
	TeamRed  TeamSide = 200
)

func (s TeamSide) Valid() bool {
	return s == TeamBlue || s == TeamRed
}

// Role is the lane a participant played.
type Role string

const (
	RoleNone    Role = "NONE"
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMid     Role = "MID"
	RoleBottom  Role = "BOTTOM"
	RoleSupport Role = "SUPPORT"
)

// Match is a normalized, immutable match graph.
type Match struct {
	ID                    int64
	Region                ladder.Region
	GameID                int64
	QueueID               int
	PatchVersion          string
	PatchID               int
	PlayedAt              time.Time
	Duration              time.Duration
	WinningTeam           TeamSide
	Tier                  ladder.Tier
	Division              ladder.Division
	LeaguePoints          int
	EndedInSurrender      bool
	EndedInEarlySurrender bool
	Teams                 []Team
	Participants          []Participant
}

// Key is the natural dedup key of a match.
func (m Match) Key() string {
	return FormatMatchID(m.Region, m.GameID)
}

// Team holds per-side objectives and bans.
type Team struct {
	Side       TeamSide
	Win        bool
	FirstBlood bool
	FirstTower bool
	Objectives Objectives
	Bans       []Ban
}

type Objectives struct {
	Baron      int
	Champion   int
	Dragon     int
	Horde      int
	Inhibitor  int
	RiftHerald int
	Tower      int
	Atakhan    int
}

// Ban is a champion banned in draft. Cancelled bans are never stored.
type Ban struct {
	PickTurn   int
	ChampionID int
}

// Participant is one player of a match. SummonerRef is resolved by the writer
// before the row can be persisted.
type Participant struct {
	ID          int64
	Side        TeamSide
	Summoner    summoner.Summoner
	SummonerRef identity.Ref
	ChampionID  int
	ChampLevel  int
	Role        Role
	Win         bool
	Runes       RunePage
	Spells      []Spell
	Items       []Item
	Stats       Stats
}

type RunePage struct {
	PrimaryStyle   int
	SecondaryStyle int
	Keystone       int
	Perks          []int
	StatOffense    int
	StatFlex       int
	StatDefense    int
}

type Spell struct {
	SortOrder int
	SpellID   int
	Casts     int
}

type Item struct {
	Slot   int
	ItemID int
}

type Stats struct {
	Kills               int
	Deaths              int
	Assists             int
	LargestMultiKill    int
	DoubleKills         int
	TripleKills         int
	QuadraKills         int
	PentaKills          int
	CreepScore          int
	GoldEarned          int
	DamageDealt         int
	DamageTaken         int
	PhysicalDamageDealt int
	MagicDamageDealt    int
	TrueDamageDealt     int
	PhysicalDamageTaken int
	MagicDamageTaken    int
	TrueDamageTaken     int
	Healing             int
	WardsPlaced         int
	WardsKilled         int
	VisionScore         int
	Pings               int
	KDA                 float64
	KillParticipation   float64
}

// Validate checks the invariants a graph must satisfy before insert.
func (m Match) Validate() error {
	if m.Region == "" || m.GameID <= 0 {
		return fmt.Errorf("match region and game id are required")
	}
	if m.PatchID <= 0 {
		return fmt.Errorf("match %s has no resolved patch", m.Key())
	}
	for _, team := range m.Teams {
		if !team.Side.Valid() {
			return fmt.Errorf("match %s has invalid team %d", m.Key(), team.Side)
		}
		if len(team.Bans) > MaxBansPerTeam {
			return fmt.Errorf("match %s team %d has %d bans", m.Key(), team.Side, len(team.Bans))
		}
	}
	for _, p := range m.Participants {
		if !p.SummonerRef.IsResolved() {
			return fmt.Errorf("match %s participant %s has unresolved summoner", m.Key(), p.Summoner.Puuid)
		}
	}
	return nil
}
