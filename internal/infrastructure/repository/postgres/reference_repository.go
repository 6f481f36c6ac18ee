package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
	qb "github.com/riskibarqy/statikk-crawler/internal/platform/querybuilder"
)

type PatchRepository struct {
	db *sqlx.DB
}

func NewPatchRepository(db *sqlx.DB) *PatchRepository {
	return &PatchRepository{db: db}
}

func (r *PatchRepository) ListRecent(ctx context.Context, limit int) ([]patch.Patch, error) {
	query, args, err := qb.Select("id", "version", "start_at", "is_latest").From("patches").
		OrderBy("start_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent patches query: %w", err)
	}

	var rows []patchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent patches: %w", err)
	}

	out := make([]patch.Patch, 0, len(rows))
	for _, row := range rows {
		out = append(out, patch.Patch{
			ID:       row.ID,
			Version:  row.Version,
			StartAt:  row.StartAt.UTC(),
			IsLatest: row.IsLatest,
		})
	}
	return out, nil
}

// UpsertPatches keeps ids stable by version and moves the latest flag in the same transaction.
func (r *PatchRepository) UpsertPatches(ctx context.Context, patches []patch.Patch) error {
	rows := make([]patchInsertModel, 0, len(patches))
	for _, p := range patches {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid patch: %w", err)
		}
		rows = append(rows, patchInsertModel{Version: p.Version, StartAt: p.StartAt.UTC(), IsLatest: p.IsLatest})
	}
	if len(rows) == 0 {
		return nil
	}

	return withTx(ctx, r.db, "patch upsert", func(tx *sqlx.Tx) error {
		clearQuery, clearArgs, err := qb.Update("patches").
			Set("is_latest", false).
			Where(qb.Eq("is_latest", true)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear latest patch query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear latest patch: %w", err)
		}

		for _, part := range chunk(rows, insertChunkSize) {
			query, args, err := qb.InsertModels("patches", part,
				"ON CONFLICT (version) DO UPDATE SET start_at = EXCLUDED.start_at, is_latest = EXCLUDED.is_latest")
			if err != nil {
				return fmt.Errorf("build upsert patches query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert patches count=%d: %w", len(part), err)
			}
		}
		return nil
	})
}

type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListChampionIDs(ctx context.Context) ([]int, error) {
	query, args, err := qb.Select("id").From("champions").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select champion ids query: %w", err)
	}
	var ids []int
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select champion ids: %w", err)
	}
	return ids, nil
}

func (r *CatalogRepository) UpsertChampions(ctx context.Context, champions []catalog.Champion) error {
	rows := make([]namedInsertModel, 0, len(champions))
	for _, c := range champions {
		rows = append(rows, namedInsertModel{ID: c.ID, Name: catalog.TruncateName(c.Name)})
	}
	return r.upsertNamed(ctx, "champions", rows)
}

func (r *CatalogRepository) UpsertQueues(ctx context.Context, queues []catalog.Queue) error {
	rows := make([]namedInsertModel, 0, len(queues))
	for _, q := range queues {
		rows = append(rows, namedInsertModel{ID: q.ID, Name: catalog.TruncateName(q.Name)})
	}
	return r.upsertNamed(ctx, "queues", rows)
}

func (r *CatalogRepository) upsertNamed(ctx context.Context, table string, rows []namedInsertModel) error {
	if len(rows) == 0 {
		return nil
	}
	return withTx(ctx, r.db, table+" upsert", func(tx *sqlx.Tx) error {
		for _, part := range chunk(rows, insertChunkSize) {
			query, args, err := qb.InsertModels(table, part, "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name")
			if err != nil {
				return fmt.Errorf("build upsert %s query: %w", table, err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert %s count=%d: %w", table, len(part), err)
			}
		}
		return nil
	})
}
