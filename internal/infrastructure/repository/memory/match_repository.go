package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
)

type MatchRepository struct {
	mu                 sync.RWMutex
	nextMatchID        int64
	nextParticipantID  int64
	byKey              map[string]match.Match
	aggregateRefreshes atomic.Int64
}

func NewMatchRepository(seed ...match.Match) *MatchRepository {
	r := &MatchRepository{byKey: make(map[string]match.Match)}
	for _, item := range seed {
		r.nextMatchID++
		item.ID = r.nextMatchID
		r.byKey[item.Key()] = item
	}
	return r
}

func (r *MatchRepository) ExistingGameIDs(_ context.Context, region ladder.Region, gameIDs []int64) (map[int64]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]struct{})
	for _, gameID := range gameIDs {
		if _, ok := r.byKey[match.FormatMatchID(region, gameID)]; ok {
			out[gameID] = struct{}{}
		}
	}
	return out, nil
}

// InsertMatches skips matches whose (region, game id) is already stored and
// returns only the inserted ones with their generated ids.
func (r *MatchRepository) InsertMatches(_ context.Context, matches []match.Match) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := make([]match.Match, 0, len(matches))
	for _, item := range matches {
		key := item.Key()
		if _, ok := r.byKey[key]; ok {
			continue
		}
		r.nextMatchID++
		item.ID = r.nextMatchID

		participants := make([]match.Participant, len(item.Participants))
		for i, p := range item.Participants {
			r.nextParticipantID++
			p.ID = r.nextParticipantID
			participants[i] = p
		}
		item.Participants = participants

		r.byKey[key] = item
		inserted = append(inserted, item)
	}
	return inserted, nil
}

func (r *MatchRepository) RefreshAggregates(context.Context) error {
	r.aggregateRefreshes.Add(1)
	return nil
}

func (r *MatchRepository) AggregateRefreshes() int {
	return int(r.aggregateRefreshes.Load())
}

// List returns stored matches ordered by id.
func (r *MatchRepository) List() []match.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.byKey))
	for _, item := range r.byKey {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
