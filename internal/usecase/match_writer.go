package usecase

import (
	"context"
	"sort"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/statikk-crawler/internal/domain/identity"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
)

const (
	writeStageSummoners = "summoners"
	writeStageRanks     = "ranks"
	writeStageAverages  = "averages"
	writeStageMatches   = "matches"

	ExcludeUnresolvedSummoner = "unresolved_summoner"
	ExcludeUnknownPatch       = "unknown_patch"
	ExcludeInvalidGraph       = "invalid_graph"
)

// MatchWriter persists normalized matches in dependency order: summoners, then
// identity rewrite, patch resolution, rank snapshots, and finally the match graphs.
type MatchWriter struct {
	summoners summoner.Repository
	ranks     summoner.RankRepository
	matches   match.Repository
	patches   patch.Lookup
	queue     string
	now       func() time.Time
	logger    *logging.Logger
}

type WriteInput struct {
	Region ladder.Region
	// Players are ladder observations of this page; they get summoner rows and rank snapshots.
	Players []ladder.PlayerEntry
	Matches []match.Match
}

type WriteResult struct {
	SummonersUpserted int
	RanksUpserted     int
	Written           []match.Match
	Excluded          map[string]int
}

func (r WriteResult) ExcludedTotal() int {
	total := 0
	for _, n := range r.Excluded {
		total += n
	}
	return total
}

func NewMatchWriter(
	summoners summoner.Repository,
	ranks summoner.RankRepository,
	matches match.Repository,
	patches patch.Lookup,
	queue string,
	logger *logging.Logger,
) *MatchWriter {
	if logger == nil {
		logger = logging.Default()
	}
	if queue == "" {
		queue = ladder.QueueRankedSolo
	}
	return &MatchWriter{
		summoners: summoners,
		ranks:     ranks,
		matches:   matches,
		patches:   patches,
		queue:     queue,
		now:       time.Now,
		logger:    logger,
	}
}

// Write never retries. A failing stage aborts the batch before any later stage runs,
// so no match row is inserted against a summoner that was not resolved first.
func (w *MatchWriter) Write(ctx context.Context, input WriteInput) (WriteResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchWriter.Write")
	defer span.End()

	result := WriteResult{Written: []match.Match{}, Excluded: map[string]int{}}
	if len(input.Matches) == 0 && len(input.Players) == 0 {
		return result, nil
	}
	now := w.now().UTC()

	// Stage 1: summoners from participants and the ladder page.
	snapshots := w.collectSummoners(input, now)
	ids, err := w.resolveSummonerIDs(ctx, snapshots)
	if err != nil {
		return result, crerr.Wrapf(err, "match writer stage=%s region=%s", writeStageSummoners, input.Region)
	}
	result.SummonersUpserted = len(snapshots)

	// Stage 2: rewrite participant references; any miss excludes the whole match.
	resolved := make([]match.Match, 0, len(input.Matches))
	for _, item := range input.Matches {
		rewritten, ok := bindSummonerRefs(item, ids)
		if !ok {
			result.Excluded[ExcludeUnresolvedSummoner]++
			w.logger.WarnContext(ctx, "exclude match with unresolved summoner",
				"region", item.Region,
				"match", item.Key(),
			)
			continue
		}
		resolved = append(resolved, rewritten)
	}

	// Stage 3: patch ids from the run's lookup.
	patched := make([]match.Match, 0, len(resolved))
	for _, item := range resolved {
		patchID, ok := w.patches.Resolve(item.PatchVersion)
		if !ok {
			result.Excluded[ExcludeUnknownPatch]++
			w.logger.WarnContext(ctx, "exclude match with unknown patch",
				"region", item.Region,
				"match", item.Key(),
				"patch", item.PatchVersion,
			)
			continue
		}
		item.PatchID = patchID
		patched = append(patched, item)
	}

	// Stage 4: current ladder standing of observed players.
	ranks := make([]summoner.Rank, 0, len(input.Players))
	for _, entry := range input.Players {
		summonerID, ok := ids[entry.Puuid]
		if !ok || summonerID <= 0 || entry.Tier.Order() == 0 {
			continue
		}
		ranks = append(ranks, summoner.RankFromEntry(summonerID, w.queue, entry, now))
	}
	if len(ranks) > 0 {
		if err := w.ranks.UpsertRanks(ctx, ranks); err != nil {
			return result, crerr.Wrapf(err, "match writer stage=%s region=%s", writeStageRanks, input.Region)
		}
	}
	result.RanksUpserted = len(ranks)

	if len(patched) == 0 {
		return result, nil
	}

	// Stage 5: average rank and insert.
	if err := w.applyAverageRanks(ctx, patched); err != nil {
		return result, crerr.Wrapf(err, "match writer stage=%s region=%s", writeStageAverages, input.Region)
	}
	valid := patched[:0]
	for _, item := range patched {
		if err := item.Validate(); err != nil {
			result.Excluded[ExcludeInvalidGraph]++
			w.logger.WarnContext(ctx, "exclude invalid match graph", "match", item.Key(), "error", err)
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return result, nil
	}

	written, err := w.matches.InsertMatches(ctx, valid)
	if err != nil {
		return result, crerr.Wrapf(err, "match writer stage=%s region=%s", writeStageMatches, input.Region)
	}
	result.Written = written
	return result, nil
}

// collectSummoners dedups by puuid, merging partial snapshots of the same player.
func (w *MatchWriter) collectSummoners(input WriteInput, now time.Time) []summoner.Summoner {
	byPuuid := make(map[string]summoner.Summoner)
	add := func(s summoner.Summoner) {
		if s.Puuid == "" || match.IsBot(s.Puuid) {
			return
		}
		if existing, ok := byPuuid[s.Puuid]; ok {
			byPuuid[s.Puuid] = existing.Merge(s)
			return
		}
		byPuuid[s.Puuid] = s
	}

	for _, item := range input.Matches {
		for _, p := range item.Participants {
			add(p.Summoner)
		}
	}
	for _, entry := range input.Players {
		add(summoner.Summoner{
			Puuid:       entry.Puuid,
			Region:      input.Region,
			SummonerID:  entry.SummonerID,
			LastUpdated: now,
		})
	}

	out := make([]summoner.Summoner, 0, len(byPuuid))
	for _, s := range byPuuid {
		if s.Region == "" {
			s.Region = input.Region
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Puuid < out[j].Puuid })
	return out
}

// resolveSummonerIDs upserts and falls back to a lookup for rows the upsert did not return.
func (w *MatchWriter) resolveSummonerIDs(ctx context.Context, snapshots []summoner.Summoner) (map[string]int64, error) {
	if len(snapshots) == 0 {
		return map[string]int64{}, nil
	}
	ids, err := w.summoners.UpsertMany(ctx, snapshots)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = make(map[string]int64, len(snapshots))
	}

	missing := make([]string, 0)
	for _, s := range snapshots {
		if id, ok := ids[s.Puuid]; !ok || id <= 0 {
			missing = append(missing, s.Puuid)
		}
	}
	if len(missing) == 0 {
		return ids, nil
	}

	found, err := w.summoners.IDsByPuuid(ctx, missing)
	if err != nil {
		return nil, err
	}
	for puuid, id := range found {
		if id > 0 {
			ids[puuid] = id
		}
	}
	return ids, nil
}

func bindSummonerRefs(item match.Match, ids map[string]int64) (match.Match, bool) {
	participants := make([]match.Participant, len(item.Participants))
	for i, p := range item.Participants {
		p.SummonerRef = identity.Resolved(ids[p.Summoner.Puuid])
		if !p.SummonerRef.IsResolved() {
			return item, false
		}
		p.Summoner.ID, _ = p.SummonerRef.Get()
		participants[i] = p
	}
	item.Participants = participants
	return item, true
}

func (w *MatchWriter) applyAverageRanks(ctx context.Context, matches []match.Match) error {
	seen := make(map[int64]struct{})
	summonerIDs := make([]int64, 0)
	for _, item := range matches {
		for _, p := range item.Participants {
			id, _ := p.SummonerRef.Get()
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			summonerIDs = append(summonerIDs, id)
		}
	}
	sort.Slice(summonerIDs, func(i, j int) bool { return summonerIDs[i] < summonerIDs[j] })

	current, err := w.ranks.RanksBySummonerIDs(ctx, w.queue, summonerIDs)
	if err != nil {
		return err
	}

	for i := range matches {
		participantRanks := make([]summoner.Rank, 0, len(matches[i].Participants))
		for _, p := range matches[i].Participants {
			id, _ := p.SummonerRef.Get()
			if rank, ok := current[id]; ok {
				participantRanks = append(participantRanks, rank)
			}
		}
		tier, division, lp, _ := match.AverageRank(participantRanks)
		matches[i].Tier = tier
		matches[i].Division = division
		matches[i].LeaguePoints = lp
	}
	return nil
}
