package summoner

import "context"

// Repository persists summoner snapshots.
type Repository interface {
	// UpsertMany returns the surrogate id of every row, inserted or pre-existing, keyed by puuid.
	UpsertMany(ctx context.Context, summoners []Summoner) (map[string]int64, error)
	IDsByPuuid(ctx context.Context, puuids []string) (map[string]int64, error)
}

// RankRepository persists current rank snapshots keyed by (summoner id, queue).
type RankRepository interface {
	UpsertRanks(ctx context.Context, ranks []Rank) error
	RanksBySummonerIDs(ctx context.Context, queue string, summonerIDs []int64) (map[int64]Rank, error)
}
