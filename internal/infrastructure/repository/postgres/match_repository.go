package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/statikk-crawler/internal/domain/ladder"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	qb "github.com/riskibarqy/statikk-crawler/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ExistingGameIDs(ctx context.Context, region ladder.Region, gameIDs []int64) (map[int64]struct{}, error) {
	out := make(map[int64]struct{}, len(gameIDs))
	if len(gameIDs) == 0 {
		return out, nil
	}

	query, args, err := qb.Select("game_id").From("matches").
		Where(
			qb.Eq("region", string(region)),
			qb.Any("game_id", pq.Array(gameIDs)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select existing matches query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select existing matches region=%s: %w", region, err)
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// InsertMatches writes every graph in one transaction. Matches whose (region, game_id)
// already exists are skipped without touching their children.
func (r *MatchRepository) InsertMatches(ctx context.Context, matches []match.Match) ([]match.Match, error) {
	if len(matches) == 0 {
		return []match.Match{}, nil
	}
	for _, m := range matches {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("invalid match graph: %w", err)
		}
	}

	inserted := make([]match.Match, 0, len(matches))
	err := withTx(ctx, r.db, "match insert", func(tx *sqlx.Tx) error {
		for _, m := range matches {
			stored, ok, err := insertMatchGraph(ctx, tx, m)
			if err != nil {
				return fmt.Errorf("insert match %s: %w", m.Key(), err)
			}
			if ok {
				inserted = append(inserted, stored)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (r *MatchRepository) RefreshAggregates(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "SELECT refresh_match_aggregates()"); err != nil {
		return fmt.Errorf("refresh match aggregates: %w", err)
	}
	return nil
}

func insertMatchGraph(ctx context.Context, tx *sqlx.Tx, m match.Match) (match.Match, bool, error) {
	query, args, err := qb.InsertModel("matches", matchToInsertModel(m), "ON CONFLICT (region, game_id) DO NOTHING RETURNING id")
	if err != nil {
		return m, false, fmt.Errorf("build insert match query: %w", err)
	}
	var matchIDs []int64
	if err := tx.SelectContext(ctx, &matchIDs, query, args...); err != nil {
		return m, false, fmt.Errorf("insert match row: %w", err)
	}
	if len(matchIDs) == 0 {
		return m, false, nil
	}
	m.ID = matchIDs[0]

	teamIDs, err := insertTeams(ctx, tx, m)
	if err != nil {
		return m, false, err
	}
	if err := insertParticipants(ctx, tx, &m, teamIDs); err != nil {
		return m, false, err
	}
	return m, true, nil
}

func insertTeams(ctx context.Context, tx *sqlx.Tx, m match.Match) (map[match.TeamSide]int64, error) {
	teamIDs := make(map[match.TeamSide]int64, len(m.Teams))
	if len(m.Teams) == 0 {
		return teamIDs, nil
	}

	rows := make([]matchTeamInsertModel, 0, len(m.Teams))
	for _, team := range m.Teams {
		rows = append(rows, teamToInsertModel(m.ID, team))
	}
	query, args, err := qb.InsertModels("match_teams", rows, "RETURNING id, team_side")
	if err != nil {
		return nil, fmt.Errorf("build insert teams query: %w", err)
	}
	var returned []struct {
		ID       int64 `db:"id"`
		TeamSide int   `db:"team_side"`
	}
	if err := tx.SelectContext(ctx, &returned, query, args...); err != nil {
		return nil, fmt.Errorf("insert match teams: %w", err)
	}
	for _, row := range returned {
		teamIDs[match.TeamSide(row.TeamSide)] = row.ID
	}

	var bans []matchTeamBanInsertModel
	for _, team := range m.Teams {
		for _, ban := range team.Bans {
			bans = append(bans, matchTeamBanInsertModel{
				MatchTeamID: teamIDs[team.Side],
				PickTurn:    ban.PickTurn,
				ChampionID:  ban.ChampionID,
			})
		}
	}
	if len(bans) > 0 {
		query, args, err := qb.InsertModels("match_team_bans", bans, "")
		if err != nil {
			return nil, fmt.Errorf("build insert bans query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert match team bans: %w", err)
		}
	}
	return teamIDs, nil
}

func insertParticipants(ctx context.Context, tx *sqlx.Tx, m *match.Match, teamIDs map[match.TeamSide]int64) error {
	if len(m.Participants) == 0 {
		return nil
	}

	rows := make([]participantInsertModel, 0, len(m.Participants))
	for _, p := range m.Participants {
		summonerID, ok := p.SummonerRef.Get()
		if !ok {
			return fmt.Errorf("participant %s has unresolved summoner", p.Summoner.Puuid)
		}
		teamID, ok := teamIDs[p.Side]
		if !ok {
			return fmt.Errorf("participant %s references missing team %d", p.Summoner.Puuid, p.Side)
		}
		rows = append(rows, participantToInsertModel(m.ID, teamID, summonerID, p))
	}

	query, args, err := qb.InsertModels("participants", rows, "RETURNING id, summoner_id")
	if err != nil {
		return fmt.Errorf("build insert participants query: %w", err)
	}
	var returned []struct {
		ID         int64 `db:"id"`
		SummonerID int64 `db:"summoner_id"`
	}
	if err := tx.SelectContext(ctx, &returned, query, args...); err != nil {
		return fmt.Errorf("insert participants: %w", err)
	}
	bySummoner := make(map[int64]int64, len(returned))
	for _, row := range returned {
		bySummoner[row.SummonerID] = row.ID
	}

	var items []participantItemInsertModel
	var spells []participantSpellInsertModel
	for i := range m.Participants {
		p := &m.Participants[i]
		summonerID, _ := p.SummonerRef.Get()
		p.ID = bySummoner[summonerID]
		for _, item := range p.Items {
			items = append(items, participantItemInsertModel{ParticipantID: p.ID, Slot: item.Slot, ItemID: item.ItemID})
		}
		for _, spell := range p.Spells {
			spells = append(spells, participantSpellInsertModel{
				ParticipantID: p.ID,
				SortOrder:     spell.SortOrder,
				SpellID:       spell.SpellID,
				Casts:         spell.Casts,
			})
		}
	}

	if len(items) > 0 {
		query, args, err := qb.InsertModels("participant_items", items, "")
		if err != nil {
			return fmt.Errorf("build insert participant items query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert participant items: %w", err)
		}
	}
	if len(spells) > 0 {
		query, args, err := qb.InsertModels("participant_summoner_spells", spells, "")
		if err != nil {
			return fmt.Errorf("build insert participant spells query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert participant spells: %w", err)
		}
	}
	return nil
}
