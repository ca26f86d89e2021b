package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

const userColumns = `id, email, username, full_name, user_image_url, password_hash, password_salt, created_at, updated_at`

type UserRepository struct {
	store *Store
}

func NewUserRepo(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) CreateEmailUser(ctx context.Context, email string, username *string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
		INSERT INTO user_account (email, username, password_hash, password_salt)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	var user domain.User
	if err := r.store.q(ctx).QueryRowxContext(ctx, query, email, nullString(username), passwordHash, passwordSalt).StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpsertGoogleUser(ctx context.Context, email string, fullName *string, imageURL *string) (*domain.User, error) {
	const query = `
		INSERT INTO user_account (email, full_name, user_image_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE
		SET full_name = COALESCE(EXCLUDED.full_name, user_account.full_name),
		    user_image_url = COALESCE(EXCLUDED.user_image_url, user_account.user_image_url),
		    updated_at = NOW()
		RETURNING ` + userColumns
	var user domain.User
	if err := r.store.q(ctx).QueryRowxContext(ctx, query, email, nullString(fullName), nullString(imageURL)).StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE lower(email) = lower($1)`
	var user domain.User
	if err := r.store.q(ctx).GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE id = $1`
	var user domain.User
	if err := r.store.q(ctx).GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
