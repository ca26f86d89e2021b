package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

const treasureHuntColumns = `id, owner_id, destination_id, name, riddle, start_date, end_date, created_at, updated_at`

type TreasureHuntRepository struct {
	store *Store
}

func NewTreasureHuntRepo(store *Store) *TreasureHuntRepository {
	return &TreasureHuntRepository{store: store}
}

func (r *TreasureHuntRepository) Create(ctx context.Context, hunt *domain.TreasureHunt) (*domain.TreasureHunt, error) {
	const query = `
		INSERT INTO treasure_hunt (owner_id, destination_id, name, riddle, start_date, end_date)
		VALUES (:owner_id, :destination_id, :name, :riddle, :start_date, :end_date)
		RETURNING ` + treasureHuntColumns
	return r.namedRow(ctx, query, hunt)
}

func (r *TreasureHuntRepository) Update(ctx context.Context, hunt *domain.TreasureHunt) (*domain.TreasureHunt, error) {
	const query = `
		UPDATE treasure_hunt
		SET destination_id = :destination_id,
		    name = :name,
		    riddle = :riddle,
		    start_date = :start_date,
		    end_date = :end_date,
		    updated_at = NOW()
		WHERE id = :id
		RETURNING ` + treasureHuntColumns
	return r.namedRow(ctx, query, hunt)
}

func (r *TreasureHuntRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.TreasureHunt, error) {
	const query = `SELECT ` + treasureHuntColumns + ` FROM treasure_hunt WHERE id = $1`
	var hunt domain.TreasureHunt
	if err := r.store.q(ctx).GetContext(ctx, &hunt, query, id); err != nil {
		return nil, err
	}
	return &hunt, nil
}

func (r *TreasureHuntRepository) List(ctx context.Context, ownerID *uuid.UUID) ([]domain.TreasureHunt, error) {
	const query = `
		SELECT ` + treasureHuntColumns + `
		FROM treasure_hunt
		WHERE $1::uuid IS NULL OR owner_id = $1
		ORDER BY start_date, name, id
	`
	hunts := []domain.TreasureHunt{}
	if err := r.store.q(ctx).SelectContext(ctx, &hunts, query, nullUUID(ownerID)); err != nil {
		return nil, err
	}
	return hunts, nil
}

func (r *TreasureHuntRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM treasure_hunt WHERE id = $1`, id)
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

func (r *TreasureHuntRepository) namedRow(ctx context.Context, query string, hunt *domain.TreasureHunt) (*domain.TreasureHunt, error) {
	rows, err := sqlx.NamedQueryContext(ctx, r.store.q(ctx), query, hunt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var row domain.TreasureHunt
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		return &row, nil
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return nil, sql.ErrNoRows
}

var _ ports.TreasureHuntRepository = (*TreasureHuntRepository)(nil)
