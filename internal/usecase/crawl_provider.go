package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
)

// LadderProvider lists one page of a ranked ladder bracket. Pages start at 1.
type LadderProvider interface {
	ListLadder(ctx context.Context, region ladder.Region, pair ladder.Pair, page int) ([]ladder.PlayerEntry, error)
}

// MatchProvider lists and fetches matches through the routing domain of a region.
type MatchProvider interface {
	ListMatchIDs(ctx context.Context, region ladder.Region, puuid string, query MatchIDQuery) ([]string, error)
	GetMatch(ctx context.Context, region ladder.Region, matchID string) (ExternalMatch, error)
}

// ReferenceDataProvider serves patch, champion and queue catalogs.
type ReferenceDataProvider interface {
	FetchPatches(ctx context.Context) ([]patch.Patch, error)
	FetchChampions(ctx context.Context) ([]catalog.Champion, error)
	FetchQueues(ctx context.Context) ([]catalog.Queue, error)
}

type MatchIDQuery struct {
	QueueID int
	Start   time.Time
	End     time.Time
	Count   int
}

// MatchWindow is the half-open crawl interval [Start, End).
type MatchWindow struct {
	Start time.Time
	End   time.Time
}

// DailyWindow ends at the start of the current UTC day and spans length backwards.
func DailyWindow(now time.Time, length time.Duration) MatchWindow {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if length <= 0 {
		length = 24 * time.Hour
	}
	return MatchWindow{Start: end.Add(-length), End: end}
}

type ExternalMatch struct {
	MatchID         string
	PlatformID      string
	GameID          int64
	QueueID         int
	GameVersion     string
	GameCreation    time.Time
	GameStart       time.Time
	GameEnd         time.Time
	DurationSeconds int64
	Teams           []ExternalMatchTeam
	Participants    []ExternalParticipant
}

type ExternalMatchTeam struct {
	TeamID     int
	Win        bool
	Bans       []ExternalBan
	Objectives map[string]ExternalObjective
}

type ExternalBan struct {
	ChampionID int
	PickTurn   int
}

type ExternalObjective struct {
	First bool
	Kills int
}

type ExternalParticipant struct {
	Puuid                     string
	SummonerID                string
	RiotIDGameName            string
	RiotIDTagline             string
	ProfileIcon               int
	SummonerLevel             int
	TeamID                    int
	Win                       bool
	ChampionID                int
	ChampLevel                int
	TeamPosition              string
	GameEndedInSurrender      bool
	GameEndedInEarlySurrender bool
	Kills                     int
	Deaths                    int
	Assists                   int
	LargestMultiKill          int
	DoubleKills               int
	TripleKills               int
	QuadraKills               int
	PentaKills                int
	TotalMinionsKilled        int
	NeutralMinionsKilled      int
	GoldEarned                int
	TotalDamageToChamps       int
	TotalDamageTaken          int
	PhysicalDamageToChamps    int
	MagicDamageToChamps       int
	TrueDamageToChamps        int
	PhysicalDamageTaken       int
	MagicDamageTaken          int
	TrueDamageTaken           int
	TotalHeal                 int
	WardsPlaced               int
	WardsKilled               int
	VisionScore               int
	Pings                     int
	Items                     [7]int
	Summoner1ID               int
	Summoner1Casts            int
	Summoner2ID               int
	Summoner2Casts            int
	Perks                     ExternalPerks
	Challenges                *ExternalChallenges
}

type ExternalPerks struct {
	Offense int
	Flex    int
	Defense int
	Styles  []ExternalPerkStyle
}

type ExternalPerkStyle struct {
	Description string
	Style       int
	Selections  []int
}

type ExternalChallenges struct {
	KDA               float64
	KillParticipation float64
}

// CrawlMetrics receives pipeline counters. Labels are platform regions.
type CrawlMetrics interface {
	PageWalked(region string)
	MatchesDiscovered(region string, n int)
	MatchesFetched(region string, n int)
	MatchFetchFailed(region string, n int)
	MatchRejected(region, reason string)
	MatchesExcluded(region, reason string, n int)
	MatchesWritten(region string, n int)
	UnitFailed(region, method string)
	RunCompleted(duration time.Duration)
}

type noopCrawlMetrics struct{}

func (noopCrawlMetrics) PageWalked(string) {}
func (noopCrawlMetrics) MatchesDiscovered(string, int) {}
func (noopCrawlMetrics) MatchesFetched(string, int) {}
func (noopCrawlMetrics) MatchFetchFailed(string, int) {}
func (noopCrawlMetrics) MatchRejected(string, string) {}
func (noopCrawlMetrics) MatchesExcluded(string, string, int) {}
func (noopCrawlMetrics) MatchesWritten(string, int) {}
func (noopCrawlMetrics) UnitFailed(string, string) {}
func (noopCrawlMetrics) RunCompleted(time.Duration) {}
