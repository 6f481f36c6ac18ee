package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
	qb "github.com/riskibarqy/statikk-crawler/internal/platform/querybuilder"
)

const upsertSummonersSuffix = `
ON CONFLICT (puuid) DO UPDATE SET
    region = CASE WHEN EXCLUDED.last_updated >= summoners.last_updated THEN EXCLUDED.region ELSE summoners.region END,
    summoner_id = CASE WHEN EXCLUDED.summoner_id <> '' AND (EXCLUDED.last_updated >= summoners.last_updated OR summoners.summoner_id = '')
        THEN EXCLUDED.summoner_id ELSE summoners.summoner_id END,
    riot_id = CASE WHEN EXCLUDED.riot_id <> '' AND (EXCLUDED.last_updated >= summoners.last_updated OR summoners.riot_id = '')
        THEN EXCLUDED.riot_id ELSE summoners.riot_id END,
    profile_icon_id = CASE WHEN EXCLUDED.profile_icon_id > 0 AND (EXCLUDED.last_updated >= summoners.last_updated OR summoners.profile_icon_id = 0)
        THEN EXCLUDED.profile_icon_id ELSE summoners.profile_icon_id END,
    summoner_level = CASE WHEN EXCLUDED.summoner_level > 0 AND (EXCLUDED.last_updated >= summoners.last_updated OR summoners.summoner_level = 0)
        THEN EXCLUDED.summoner_level ELSE summoners.summoner_level END,
    last_updated = GREATEST(summoners.last_updated, EXCLUDED.last_updated)
RETURNING id, puuid`

const upsertRanksSuffix = `
ON CONFLICT (summoner_id, queue) DO UPDATE SET
    tier = EXCLUDED.tier,
    division = EXCLUDED.division,
    league_points = EXCLUDED.league_points,
    wins = EXCLUDED.wins,
    losses = EXCLUDED.losses,
    updated_at = EXCLUDED.updated_at
WHERE summoner_ranks.updated_at <= EXCLUDED.updated_at`

type SummonerRepository struct {
	db *sqlx.DB
}

func NewSummonerRepository(db *sqlx.DB) *SummonerRepository {
	return &SummonerRepository{db: db}
}

func (r *SummonerRepository) UpsertMany(ctx context.Context, summoners []summoner.Summoner) (map[string]int64, error) {
	rows, err := dedupeSummoners(summoners)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	err = withTx(ctx, r.db, "summoner upsert", func(tx *sqlx.Tx) error {
		for _, part := range chunk(rows, insertChunkSize) {
			query, args, err := qb.InsertModels("summoners", part, upsertSummonersSuffix)
			if err != nil {
				return fmt.Errorf("build upsert summoners query: %w", err)
			}

			var returned []struct {
				ID    int64  `db:"id"`
				Puuid string `db:"puuid"`
			}
			if err := tx.SelectContext(ctx, &returned, query, args...); err != nil {
				return fmt.Errorf("upsert summoners count=%d: %w", len(part), err)
			}
			for _, row := range returned {
				out[row.Puuid] = row.ID
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SummonerRepository) IDsByPuuid(ctx context.Context, puuids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(puuids))
	if len(puuids) == 0 {
		return out, nil
	}

	query, args, err := qb.Select("id", "puuid").From("summoners").
		Where(qb.Any("puuid", pq.Array(puuids))).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select summoner ids query: %w", err)
	}

	var rows []struct {
		ID    int64  `db:"id"`
		Puuid string `db:"puuid"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select summoner ids by puuid: %w", err)
	}
	for _, row := range rows {
		out[row.Puuid] = row.ID
	}
	return out, nil
}

// dedupeSummoners merges repeated puuids; one statement cannot update the same row twice.
func dedupeSummoners(in []summoner.Summoner) ([]summonerInsertModel, error) {
	byPuuid := make(map[string]summoner.Summoner, len(in))
	for _, s := range in {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid summoner: %w", err)
		}
		if existing, ok := byPuuid[s.Puuid]; ok {
			s = existing.Merge(s)
		}
		byPuuid[s.Puuid] = s
	}

	out := make([]summonerInsertModel, 0, len(byPuuid))
	for _, s := range byPuuid {
		out = append(out, summonerToInsertModel(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Puuid < out[j].Puuid })
	return out, nil
}

type RankRepository struct {
	db *sqlx.DB
}

func NewRankRepository(db *sqlx.DB) *RankRepository {
	return &RankRepository{db: db}
}

func (r *RankRepository) UpsertRanks(ctx context.Context, ranks []summoner.Rank) error {
	rows := dedupeRanks(ranks)
	if len(rows) == 0 {
		return nil
	}

	return withTx(ctx, r.db, "rank upsert", func(tx *sqlx.Tx) error {
		for _, part := range chunk(rows, insertChunkSize) {
			query, args, err := qb.InsertModels("summoner_ranks", part, upsertRanksSuffix)
			if err != nil {
				return fmt.Errorf("build upsert ranks query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert summoner ranks count=%d: %w", len(part), err)
			}
		}
		return nil
	})
}

func (r *RankRepository) RanksBySummonerIDs(ctx context.Context, queue string, summonerIDs []int64) (map[int64]summoner.Rank, error) {
	out := make(map[int64]summoner.Rank, len(summonerIDs))
	if len(summonerIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select("summoner_id", "queue", "tier", "division", "league_points", "wins", "losses", "updated_at").
		From("summoner_ranks").
		Where(
			qb.Eq("queue", queue),
			qb.Any("summoner_id", pq.Array(summonerIDs)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select ranks query: %w", err)
	}

	var rows []summonerRankTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ranks queue=%s: %w", queue, err)
	}
	for _, row := range rows {
		out[row.SummonerID] = summoner.Rank{
			SummonerID:   row.SummonerID,
			Queue:        row.Queue,
			Tier:         ladder.Tier(row.Tier),
			Division:     ladder.Division(row.Division),
			LeaguePoints: row.LeaguePoints,
			Wins:         row.Wins,
			Losses:       row.Losses,
			UpdatedAt:    row.UpdatedAt,
		}
	}
	return out, nil
}

func dedupeRanks(in []summoner.Rank) []summonerRankTableModel {
	type key struct {
		summonerID int64
		queue      string
	}
	latest := make(map[key]summoner.Rank, len(in))
	for _, rank := range in {
		if rank.SummonerID <= 0 || rank.Queue == "" {
			continue
		}
		k := key{summonerID: rank.SummonerID, queue: rank.Queue}
		if existing, ok := latest[k]; ok && existing.UpdatedAt.After(rank.UpdatedAt) {
			continue
		}
		latest[k] = rank
	}

	out := make([]summonerRankTableModel, 0, len(latest))
	for _, rank := range latest {
		out = append(out, rankToTableModel(rank))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SummonerID == out[j].SummonerID {
			return out[i].Queue < out[j].Queue
		}
		return out[i].SummonerID < out[j].SummonerID
	})
	return out
}
