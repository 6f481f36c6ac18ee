package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
)

type SummonerRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byPuuid map[string]summoner.Summoner
}

func NewSummonerRepository() *SummonerRepository {
	return &SummonerRepository{byPuuid: make(map[string]summoner.Summoner)}
}

func (r *SummonerRepository) UpsertMany(_ context.Context, summoners []summoner.Summoner) (map[string]int64, error) {
	for _, item := range summoners {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("upsert summoner: %w", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[string]int64, len(summoners))
	for _, item := range summoners {
		existing, ok := r.byPuuid[item.Puuid]
		if !ok {
			r.nextID++
			item.ID = r.nextID
			r.byPuuid[item.Puuid] = item
			ids[item.Puuid] = item.ID
			continue
		}
		merged := existing.Merge(item)
		merged.ID = existing.ID
		r.byPuuid[item.Puuid] = merged
		ids[item.Puuid] = existing.ID
	}
	return ids, nil
}

func (r *SummonerRepository) IDsByPuuid(_ context.Context, puuids []string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64, len(puuids))
	for _, puuid := range puuids {
		if item, ok := r.byPuuid[puuid]; ok {
			out[puuid] = item.ID
		}
	}
	return out, nil
}

func (r *SummonerRepository) GetByPuuid(_ context.Context, puuid string) (summoner.Summoner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byPuuid[puuid]
	return item, ok
}

type rankKey struct {
	summonerID int64
	queue      string
}

type RankRepository struct {
	mu    sync.RWMutex
	ranks map[rankKey]summoner.Rank
}

func NewRankRepository() *RankRepository {
	return &RankRepository{ranks: make(map[rankKey]summoner.Rank)}
}

// UpsertRanks overwrites the current snapshot of each (summoner, queue).
func (r *RankRepository) UpsertRanks(_ context.Context, ranks []summoner.Rank) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rank := range ranks {
		if rank.SummonerID <= 0 {
			return fmt.Errorf("upsert rank: summoner id is required")
		}
		r.ranks[rankKey{summonerID: rank.SummonerID, queue: rank.Queue}] = rank
	}
	return nil
}

func (r *RankRepository) RanksBySummonerIDs(_ context.Context, queue string, summonerIDs []int64) (map[int64]summoner.Rank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]summoner.Rank, len(summonerIDs))
	for _, id := range summonerIDs {
		if rank, ok := r.ranks[rankKey{summonerID: id, queue: queue}]; ok {
			out[id] = rank
		}
	}
	return out, nil
}
