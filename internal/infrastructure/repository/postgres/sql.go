package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/statikk-crawler/internal/platform/tracing"
	"go.opentelemetry.io/otel/codes"
)

var repoTracer = tracing.New("statikk-crawler/internal/infrastructure/repository/postgres", nil)

// insertChunkSize keeps multi-row inserts well below the 65535 bind parameter limit.
const insertChunkSize = 500

func withTx(ctx context.Context, db *sqlx.DB, name string, fn func(tx *sqlx.Tx) error) (err error) {
	ctx, span := repoTracer.Child(ctx, "postgres.tx "+name)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, name+" failed")
		}
		span.End()
	}()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for %s: %w", name, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s tx: %w", name, err)
	}
	return nil
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = insertChunkSize
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
