package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

const sessionColumns = `id, user_id, token, created_at, expires_at, revoked_at`

type SessionRepository struct {
	store *Store
}

func NewSessionRepo(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	const query = `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING ` + sessionColumns
	var session domain.Session
	if err := r.store.q(ctx).QueryRowxContext(ctx, query, userID, token, expiresAt).StructScan(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) RevokeSession(ctx context.Context, token string) error {
	const query = `UPDATE sessions SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`
	_, err := r.store.q(ctx).ExecContext(ctx, query, token)
	return err
}

func (r *SessionRepository) FindActiveSession(ctx context.Context, token string) (*domain.Session, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE token = $1 AND revoked_at IS NULL AND expires_at > NOW()
	`
	var session domain.Session
	if err := r.store.q(ctx).GetContext(ctx, &session, query, token); err != nil {
		return nil, err
	}
	return &session, nil
}

var _ ports.SessionRepository = (*SessionRepository)(nil)
