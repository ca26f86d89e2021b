package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

// SoftDeleteStore is implemented by every repository whose rows follow the
// delete, undo, purge lifecycle.
type SoftDeleteStore interface {
	SoftDelete(ctx context.Context, id uuid.UUID, expiry time.Time) error
	Restore(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error
	ListExpired(ctx context.Context, cutoff time.Time) ([]domain.ExpiredRecord, error)
}

// TxRunner executes fn inside a single database transaction. Repositories
// called with the ctx passed to fn join that transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
