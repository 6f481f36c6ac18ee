package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/statikk-crawler/internal/config"
	"github.com/riskibarqy/statikk-crawler/internal/domain/audit"
	"github.com/riskibarqy/statikk-crawler/internal/domain/catalog"
	"github.com/riskibarqy/statikk-crawler/internal/domain/match"
	"github.com/riskibarqy/statikk-crawler/internal/domain/patch"
	"github.com/riskibarqy/statikk-crawler/internal/domain/summoner"
	cacherepo "github.com/riskibarqy/statikk-crawler/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/statikk-crawler/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/statikk-crawler/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/statikk-crawler/internal/platform/cache"
)

// stores groups the repositories behind one backend.
type stores struct {
	summoners summoner.Repository
	ranks     summoner.RankRepository
	matches   match.Repository
	patches   patch.Repository
	catalog   catalog.Repository
	audit     audit.Repository
	db        *sqlx.DB
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	var out *stores
	switch cfg.StoreBackend {
	case config.StoreMemory:
		out = &stores{
			summoners: memory.NewSummonerRepository(),
			ranks:     memory.NewRankRepository(),
			matches:   memory.NewMatchRepository(),
			patches:   memory.NewPatchRepository(),
			catalog:   memory.NewCatalogRepository(),
			audit:     memory.NewAuditRepository(),
		}
	case config.StorePostgres:
		db, err := openDB(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, err
		}
		out = &stores{
			summoners: postgres.NewSummonerRepository(db),
			ranks:     postgres.NewRankRepository(db),
			matches:   postgres.NewMatchRepository(db),
			patches:   postgres.NewPatchRepository(db),
			catalog:   postgres.NewCatalogRepository(db),
			audit:     postgres.NewAuditRepository(db),
			db:        db,
		}
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}

	if cfg.CacheEnabled {
		out.patches = cacherepo.NewPatchRepository(out.patches, basecache.NewStore[[]patch.Patch](cfg.CacheTTL))
		out.catalog = cacherepo.NewCatalogRepository(out.catalog, basecache.NewStore[[]int](cfg.CacheTTL))
	}
	return out, nil
}

// Ping reports store reachability for the readiness probe.
func (s *stores) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

func (s *stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
