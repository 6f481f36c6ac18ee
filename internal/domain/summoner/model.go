package summoner

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
)

// Summoner is a player snapshot keyed by puuid.
type Summoner struct {
	ID            int64
	Puuid         string
	Region        ladder.Region
	SummonerID    string
	RiotID        string
	ProfileIconID int
	SummonerLevel int
	LastUpdated   time.Time
}

func (s Summoner) Validate() error {
	if strings.TrimSpace(s.Puuid) == "" {
		return fmt.Errorf("summoner puuid is required")
	}
	if strings.TrimSpace(string(s.Region)) == "" {
		return fmt.Errorf("summoner region is required")
	}
	return nil
}

// Merge folds incoming into s. Omitted fields are kept, and a snapshot older
// than s only fills fields s does not know yet.
func (s Summoner) Merge(incoming Summoner) Summoner {
	out := s
	newer := !incoming.LastUpdated.Before(s.LastUpdated)
	if incoming.SummonerID != "" && (newer || out.SummonerID == "") {
		out.SummonerID = incoming.SummonerID
	}
	if incoming.RiotID != "" && (newer || out.RiotID == "") {
		out.RiotID = incoming.RiotID
	}
	if incoming.ProfileIconID > 0 && (newer || out.ProfileIconID == 0) {
		out.ProfileIconID = incoming.ProfileIconID
	}
	if incoming.SummonerLevel > 0 && (newer || out.SummonerLevel == 0) {
		out.SummonerLevel = incoming.SummonerLevel
	}
	if incoming.Region != "" && (newer || out.Region == "") {
		out.Region = incoming.Region
	}
	if incoming.LastUpdated.After(out.LastUpdated) {
		out.LastUpdated = incoming.LastUpdated
	}
	return out
}

// Rank is the current ladder standing of a summoner in one queue.
type Rank struct {
	SummonerID   int64
	Queue        string
	Tier         ladder.Tier
	Division     ladder.Division
	LeaguePoints int
	Wins         int
	Losses       int
	UpdatedAt    time.Time
}

func RankFromEntry(summonerID int64, queue string, entry ladder.PlayerEntry, at time.Time) Rank {
	return Rank{
		SummonerID:   summonerID,
		Queue:        queue,
		Tier:         entry.Tier,
		Division:     entry.Division,
		LeaguePoints: entry.LeaguePoints,
		Wins:         entry.Wins,
		Losses:       entry.Losses,
		UpdatedAt:    at,
	}
}
