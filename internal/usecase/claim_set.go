package usecase

import (
	"sync"

	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
)

// ClaimSet remembers which matches a run has already handed to a fetcher, so
// brackets crawled in parallel never fetch the same match twice.
type ClaimSet struct {
	mu   sync.Mutex
	seen map[ladder.Region]map[int64]struct{}
}

func NewClaimSet() *ClaimSet {
	return &ClaimSet{seen: make(map[ladder.Region]map[int64]struct{})}
}

// Claim returns true only for the first caller of a (region, game id).
func (c *ClaimSet) Claim(region ladder.Region, gameID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids, ok := c.seen[region]
	if !ok {
		ids = make(map[int64]struct{})
		c.seen[region] = ids
	}
	if _, ok := ids[gameID]; ok {
		return false
	}
	ids[gameID] = struct{}{}
	return true
}

func (c *ClaimSet) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, ids := range c.seen {
		total += len(ids)
	}
	return total
}
