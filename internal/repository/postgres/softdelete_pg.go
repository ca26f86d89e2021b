package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

// softDeleteTable implements the shared delete, restore and purge
// statements for tables carrying deleted and deleted_expiry columns.
type softDeleteTable struct {
	store *Store
	table string
}

func (t softDeleteTable) SoftDelete(ctx context.Context, id uuid.UUID, expiry time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted = TRUE, deleted_expiry = $2 WHERE id = $1 AND NOT deleted`, t.table)
	return t.exec(ctx, query, id, expiry)
}

func (t softDeleteTable) Restore(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted = FALSE, deleted_expiry = NULL WHERE id = $1 AND deleted`, t.table)
	return t.exec(ctx, query, id)
}

func (t softDeleteTable) Purge(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND deleted`, t.table)
	return t.exec(ctx, query, id)
}

func (t softDeleteTable) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.ExpiredRecord, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE deleted AND deleted_expiry IS NOT NULL AND deleted_expiry < $1
		ORDER BY deleted_expiry
	`, t.table)
	var records []domain.ExpiredRecord
	if err := t.store.q(ctx).SelectContext(ctx, &records, query, cutoff); err != nil {
		return nil, err
	}
	return records, nil
}

func (t softDeleteTable) exec(ctx context.Context, query string, args ...any) error {
	result, err := t.store.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
