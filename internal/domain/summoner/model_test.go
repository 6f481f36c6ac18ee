package summoner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSummonerMerge_OlderSnapshotDoesNotRollBack(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	current := Summoner{Puuid: "p1", Region: "NA1", RiotID: "New#NA1", SummonerLevel: 120, LastUpdated: at}

	merged := current.Merge(Summoner{
		Puuid:         "p1",
		Region:        "NA1",
		SummonerID:    "enc-1",
		RiotID:        "Old#NA1",
		ProfileIconID: 7,
		SummonerLevel: 90,
		LastUpdated:   at.Add(-24 * time.Hour),
	})

	require.Equal(t, "New#NA1", merged.RiotID)
	require.Equal(t, 120, merged.SummonerLevel)
	require.Equal(t, "enc-1", merged.SummonerID, "older snapshots still fill unknown fields")
	require.Equal(t, 7, merged.ProfileIconID)
	require.Equal(t, at, merged.LastUpdated)
}

func TestSummonerMerge_NewerSnapshotWins(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	current := Summoner{Puuid: "p1", Region: "NA1", RiotID: "Old#NA1", ProfileIconID: 3, LastUpdated: at}

	merged := current.Merge(Summoner{Puuid: "p1", RiotID: "New#NA1", LastUpdated: at.Add(time.Hour)})

	require.Equal(t, "New#NA1", merged.RiotID)
	require.Equal(t, 3, merged.ProfileIconID)
	require.EqualValues(t, "NA1", merged.Region)
	require.Equal(t, at.Add(time.Hour), merged.LastUpdated)
}
