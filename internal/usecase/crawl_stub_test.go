package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
	"github.com/riskibarqy/statikk-crawler/internal/platform/resilience"
)

type ladderCall struct {
	Region ladder.Region
	Pair   ladder.Pair
	Page   int
}

type stubLadderProvider struct {
	mu    sync.Mutex
	pages map[ladder.Pair][][]ladder.PlayerEntry
	fail  map[ladder.Pair]error
	calls []ladderCall
}

func (s *stubLadderProvider) ListLadder(_ context.Context, region ladder.Region, pair ladder.Pair, page int) ([]ladder.PlayerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, ladderCall{Region: region, Pair: pair, Page: page})
	if err := s.fail[pair]; err != nil {
		return nil, err
	}
	pages := s.pages[pair]
	if page-1 < len(pages) {
		return pages[page-1], nil
	}
	return nil, nil
}

func (s *stubLadderProvider) Calls() []ladderCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ladderCall, len(s.calls))
	copy(out, s.calls)
	return out
}

type stubMatchProvider struct {
	mu         sync.Mutex
	idsByPuuid map[string][]string
	matches    map[string]ExternalMatch
	listErr    map[string]error
	getErr     map[string][]error
	listCalls  map[string]int
	getCalls   map[string]int
	panicPuuid string
}

func newStubMatchProvider() *stubMatchProvider {
	return &stubMatchProvider{
		idsByPuuid: map[string][]string{},
		matches:    map[string]ExternalMatch{},
		listErr:    map[string]error{},
		getErr:     map[string][]error{},
		listCalls:  map[string]int{},
		getCalls:   map[string]int{},
	}
}

func (s *stubMatchProvider) ListMatchIDs(_ context.Context, _ ladder.Region, puuid string, _ MatchIDQuery) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listCalls[puuid]++
	if s.panicPuuid != "" && puuid == s.panicPuuid {
		panic("match list exploded for " + puuid)
	}
	if err := s.listErr[puuid]; err != nil {
		return nil, err
	}
	return append([]string(nil), s.idsByPuuid[puuid]...), nil
}

// GetMatch fails with the queued errors for an id first, then serves the stored body.
func (s *stubMatchProvider) GetMatch(_ context.Context, _ ladder.Region, matchID string) (ExternalMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt := s.getCalls[matchID]
	s.getCalls[matchID]++
	if errs := s.getErr[matchID]; attempt < len(errs) {
		return ExternalMatch{}, errs[attempt]
	}
	raw, ok := s.matches[matchID]
	if !ok {
		return ExternalMatch{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return raw, nil
}

func (s *stubMatchProvider) ListCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.listCalls {
		total += n
	}
	return total
}

func (s *stubMatchProvider) GetCalls(matchID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getCalls[matchID]
}

func testRetryPolicy() resilience.RetryPolicy {
	return resilience.RetryPolicy{Attempts: 3}
}

var testPositions = []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"}

// testRawMatch builds a finished 5v5 where blue wins. Puuids beyond the first
// ten are ignored; fewer than ten produces a partial lobby.
func testRawMatch(platform string, gameID int64, puuids ...string) ExternalMatch {
	participants := make([]ExternalParticipant, 0, len(puuids))
	for i, puuid := range puuids {
		if i >= 10 {
			break
		}
		teamID := 100
		if i >= 5 {
			teamID = 200
		}
		participants = append(participants, ExternalParticipant{
			Puuid:                  puuid,
			SummonerID:             "enc-" + puuid,
			RiotIDGameName:         "Player " + puuid,
			RiotIDTagline:          platform,
			ProfileIcon:            4000 + i,
			SummonerLevel:          100 + i,
			TeamID:                 teamID,
			Win:                    teamID == 100,
			ChampionID:             i + 1,
			ChampLevel:             16,
			TeamPosition:           testPositions[i%5],
			GameEndedInSurrender:   true,
			Kills:                  5,
			Deaths:                 2,
			Assists:                7,
			TotalMinionsKilled:     180,
			NeutralMinionsKilled:   20,
			GoldEarned:             12000,
			TotalDamageToChamps:    21000,
			PhysicalDamageToChamps: 15000,
			MagicDamageToChamps:    4000,
			TrueDamageToChamps:     2000,
			TotalDamageTaken:       16000,
			MagicDamageTaken:       9000,
			Items:                  [7]int{3031, 0, 3006, 0, 0, 0, 3340},
			Summoner1ID:            4,
			Summoner1Casts:         3,
			Summoner2ID:            7,
			Summoner2Casts:         5,
			Perks: ExternalPerks{
				Offense: 5008,
				Flex:    5008,
				Defense: 5001,
				Styles: []ExternalPerkStyle{
					{Description: "primaryStyle", Style: 8000, Selections: []int{8005, 9111, 9104, 8014}},
					{Description: "subStyle", Style: 8100, Selections: []int{8139, 8135}},
				},
			},
			Challenges: &ExternalChallenges{KDA: 6, KillParticipation: 0.57},
		})
	}

	start := time.Date(2024, 2, 20, 18, 30, 0, 0, time.UTC)
	return ExternalMatch{
		MatchID:         fmt.Sprintf("%s_%d", platform, gameID),
		PlatformID:      platform,
		GameID:          gameID,
		QueueID:         ladder.QueueIDRankedSolo,
		GameVersion:     "14.3.561.5678",
		GameCreation:    start.Add(-time.Minute),
		GameStart:       start,
		GameEnd:         start.Add(30 * time.Minute),
		DurationSeconds: 1800,
		Teams: []ExternalMatchTeam{
			{
				TeamID: 100,
				Win:    true,
				Bans: []ExternalBan{
					{ChampionID: 55, PickTurn: 1},
					{ChampionID: -1, PickTurn: 2},
					{ChampionID: 64, PickTurn: 3},
				},
				Objectives: map[string]ExternalObjective{
					"baron":    {First: true, Kills: 1},
					"champion": {First: true, Kills: 30},
					"dragon":   {First: false, Kills: 3},
					"tower":    {First: true, Kills: 9},
				},
			},
			{
				TeamID: 200,
				Win:    false,
				Bans:   []ExternalBan{{ChampionID: 157, PickTurn: 6}},
				Objectives: map[string]ExternalObjective{
					"champion": {Kills: 14},
					"dragon":   {First: true, Kills: 1},
					"tower":    {Kills: 2},
				},
			},
		},
		Participants: participants,
	}
}

func testLobby(prefix string, first ...string) []string {
	out := append([]string(nil), first...)
	for i := len(out); i < 10; i++ {
		out = append(out, fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}

func testLogger() *logging.Logger {
	return logging.NewNop()
}
