package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/statikk-crawler/internal/domain/audit"
	qb "github.com/riskibarqy/statikk-crawler/internal/platform/querybuilder"
)

type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, entry audit.Entry) error {
	query, args, err := qb.InsertModel("audits", auditToInsertModel(entry), "")
	if err != nil {
		return fmt.Errorf("build insert audit query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit method=%s: %w", entry.Method, err)
	}
	return nil
}
