package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

const destinationColumns = `
	id, name, type_id, district, latitude, longitude, country_id, owner_id,
	is_public, traveller_types, deleted, deleted_expiry, created_at, updated_at
`

type DestinationRepository struct {
	softDeleteTable
	store *Store
}

func NewDestinationRepo(store *Store) *DestinationRepository {
	return &DestinationRepository{
		softDeleteTable: softDeleteTable{store: store, table: "destination"},
		store:           store,
	}
}

func (r *DestinationRepository) Create(ctx context.Context, dest *domain.Destination) (*domain.Destination, error) {
	const query = `
		INSERT INTO destination (
			name, type_id, district, latitude, longitude, country_id,
			owner_id, is_public, traveller_types
		) VALUES (
			:name, :type_id, :district, :latitude, :longitude, :country_id,
			:owner_id, :is_public, :traveller_types
		)
		RETURNING ` + destinationColumns

	rows, err := sqlx.NamedQueryContext(ctx, r.store.q(ctx), query, destinationArgs(dest))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var created domain.Destination
		if err = rows.StructScan(&created); err != nil {
			return nil, err
		}
		return &created, nil
	}
	return nil, sql.ErrNoRows
}

func (r *DestinationRepository) Update(ctx context.Context, dest *domain.Destination) (*domain.Destination, error) {
	const query = `
		UPDATE destination
		SET name = :name,
		    type_id = :type_id,
		    district = :district,
		    latitude = :latitude,
		    longitude = :longitude,
		    country_id = :country_id,
		    owner_id = :owner_id,
		    is_public = :is_public,
		    traveller_types = :traveller_types,
		    updated_at = NOW()
		WHERE id = :id AND NOT deleted
		RETURNING ` + destinationColumns

	args := destinationArgs(dest)
	args["id"] = dest.ID

	rows, err := sqlx.NamedQueryContext(ctx, r.store.q(ctx), query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var updated domain.Destination
		if err = rows.StructScan(&updated); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, sql.ErrNoRows
}

func (r *DestinationRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Destination, error) {
	const query = `SELECT ` + destinationColumns + ` FROM destination WHERE id = $1 AND ($2 OR NOT deleted)`
	var dest domain.Destination
	if err := r.store.q(ctx).GetContext(ctx, &dest, query, id, includeDeleted); err != nil {
		return nil, err
	}
	return &dest, nil
}

func (r *DestinationRepository) FindSamePlace(ctx context.Context, name string, typeID, countryID int64) ([]domain.Destination, error) {
	const query = `
		SELECT ` + destinationColumns + `
		FROM destination
		WHERE lower(btrim(name)) = lower(btrim($1))
		  AND type_id = $2
		  AND country_id = $3
		  AND NOT deleted
		ORDER BY created_at
	`
	var results []domain.Destination
	if err := r.store.q(ctx).SelectContext(ctx, &results, query, name, typeID, countryID); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *DestinationRepository) ListPublic(ctx context.Context, filter domain.DestinationListFilter) ([]domain.Destination, error) {
	const query = `
		SELECT ` + destinationColumns + `
		FROM destination
		WHERE is_public AND NOT deleted
		  AND ($1 = '' OR name ILIKE $1 || '%')
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DestinationPageSize
	}
	var results []domain.Destination
	if err := r.store.q(ctx).SelectContext(ctx, &results, query, escapeLike(filter.Search), limit, filter.Offset); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *DestinationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, publicOnly bool) ([]domain.Destination, error) {
	const query = `
		SELECT ` + destinationColumns + `
		FROM destination
		WHERE owner_id = $1 AND NOT deleted AND (NOT $2 OR is_public)
		ORDER BY name, id
	`
	var results []domain.Destination
	if err := r.store.q(ctx).SelectContext(ctx, &results, query, ownerID, publicOnly); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *DestinationRepository) IsUsedInTrips(ctx context.Context, id uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM trip_destination WHERE destination_id = $1)`
	var used bool
	if err := r.store.q(ctx).GetContext(ctx, &used, query, id); err != nil {
		return false, err
	}
	return used, nil
}

func destinationArgs(dest *domain.Destination) map[string]any {
	return map[string]any{
		"name":            strings.TrimSpace(dest.Name),
		"type_id":         dest.TypeID,
		"district":        nullString(dest.District),
		"latitude":        nullFloat(dest.Latitude),
		"longitude":       nullFloat(dest.Longitude),
		"country_id":      dest.CountryID,
		"owner_id":        nullUUID(dest.OwnerID),
		"is_public":       dest.IsPublic,
		"traveller_types": domain.NewTravellerTypeSet(dest.TravellerTypes...),
	}
}

var _ ports.DestinationRepository = (*DestinationRepository)(nil)
