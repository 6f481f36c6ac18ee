package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/statikk-crawler/internal/domain/audit"
	"github.com/riskibarqy/statikk-crawler/internal/domain/identity"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
	qb "github.com/riskibarqy/statikk-crawler/internal/platform/querybuilder"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	t.Run("splits into bounded parts", func(t *testing.T) {
		got := chunk([]int{1, 2, 3, 4, 5}, 2)
		if len(got) != 3 || len(got[2]) != 1 || got[2][0] != 5 {
			t.Fatalf("unexpected chunks: %v", got)
		}
	})

	t.Run("empty input has no chunks", func(t *testing.T) {
		if got := chunk([]int(nil), 2); len(got) != 0 {
			t.Fatalf("expected no chunks, got %v", got)
		}
	})
}

func TestDedupeSummoners_MergesRepeatedPuuid(t *testing.T) {
	older := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows, err := dedupeSummoners([]summoner.Summoner{
		{Puuid: "b", Region: "NA1", SummonerID: "s-b", LastUpdated: older},
		{Puuid: "a", Region: "NA1", RiotID: "first#NA1", LastUpdated: older},
		{Puuid: "a", Region: "NA1", SummonerID: "s-a", LastUpdated: older.Add(time.Hour)},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "a", rows[0].Puuid)
	require.Equal(t, "first#NA1", rows[0].RiotID)
	require.Equal(t, "s-a", rows[0].SummonerID)
	require.Equal(t, older.Add(time.Hour), rows[0].LastUpdated)

	_, err = dedupeSummoners([]summoner.Summoner{{Puuid: "", Region: "NA1"}})
	require.Error(t, err)
}

func TestDedupeRanks_KeepsLatestPerQueue(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := dedupeRanks([]summoner.Rank{
		{SummonerID: 2, Queue: ladder.QueueRankedSolo, Tier: ladder.TierGold, UpdatedAt: at.Add(time.Minute)},
		{SummonerID: 2, Queue: ladder.QueueRankedSolo, Tier: ladder.TierSilver, UpdatedAt: at},
		{SummonerID: 1, Queue: ladder.QueueRankedSolo, Tier: ladder.TierIron, UpdatedAt: at},
		{SummonerID: 0, Queue: ladder.QueueRankedSolo, Tier: ladder.TierIron, UpdatedAt: at},
	})
	require.Len(t, rows, 2)
	require.Equal(t, int64(1), rows[0].SummonerID)
	require.Equal(t, "GOLD", rows[1].Tier)
}

func TestUpsertSummonersQuery(t *testing.T) {
	rows := []summonerInsertModel{
		summonerToInsertModel(summoner.Summoner{Puuid: "a", Region: "NA1"}),
		summonerToInsertModel(summoner.Summoner{Puuid: "b", Region: "NA1"}),
	}
	query, args, err := qb.InsertModels("summoners", rows, upsertSummonersSuffix)
	require.NoError(t, err)
	require.Len(t, args, 14)
	require.True(t, strings.HasPrefix(query, "INSERT INTO summoners (puuid, region, summoner_id, riot_id, profile_icon_id, summoner_level, last_updated) VALUES ($1"), query)
	require.Contains(t, query, "($8, $9, $10, $11, $12, $13, $14)")
	require.Contains(t, query, "ON CONFLICT (puuid) DO UPDATE SET")
	require.Contains(t, query, "riot_id = CASE WHEN EXCLUDED.riot_id <> '' AND (EXCLUDED.last_updated >= summoners.last_updated")
	require.Contains(t, query, "summoner_level = CASE WHEN EXCLUDED.summoner_level > 0 AND (EXCLUDED.last_updated >= summoners.last_updated")
	require.True(t, strings.HasSuffix(query, "RETURNING id, puuid"), query)
}

func TestParticipantToInsertModel(t *testing.T) {
	p := match.Participant{
		Side:        match.TeamRed,
		SummonerRef: identity.Resolved(77),
		ChampionID:  103,
		Role:        match.RoleMid,
		Runes:       match.RunePage{PrimaryStyle: 8100, Keystone: 8112, Perks: []int{8112, 8139}},
		Stats:       match.Stats{Kills: 9, KDA: 10, MagicDamageDealt: 18000, TrueDamageTaken: 700},
	}
	row := participantToInsertModel(5, 9, 77, p)
	require.Equal(t, int64(5), row.MatchID)
	require.Equal(t, int64(9), row.MatchTeamID)
	require.Equal(t, int64(77), row.SummonerID)
	require.Equal(t, "MID", row.Role)
	require.Equal(t, pq.Int64Array{8112, 8139}, row.Perks)
	require.Equal(t, 9, row.Kills)
	require.Equal(t, 18000, row.MagicDamageDealt)
	require.Equal(t, 700, row.TrueDamageTaken)
}

func TestMatchToInsertModel(t *testing.T) {
	played := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	row := matchToInsertModel(match.Match{
		Region:      "EUW1",
		GameID:      42,
		PatchID:     3,
		PlayedAt:    played,
		Duration:    31*time.Minute + 4*time.Second,
		WinningTeam: match.TeamBlue,
		Tier:        ladder.TierNone,
		Division:    ladder.DivisionNone,
	})
	require.Equal(t, int64(1864), row.DurationSeconds)
	require.Equal(t, 100, row.WinningTeam)
	require.Equal(t, time.UTC, row.PlayedAt.Location())
	require.Equal(t, "NONE", row.Tier)
}

func TestAuditToInsertModel_DefaultsInput(t *testing.T) {
	row := auditToInsertModel(audit.Entry{Method: "CrawlService.page", Status: audit.StatusFailed})
	if row.Input != "{}" {
		t.Fatalf("expected empty json object, got %q", row.Input)
	}
	if row.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to default to now")
	}
}
