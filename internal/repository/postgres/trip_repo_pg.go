package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

const tripColumns = `id, user_id, name, description, created_at, updated_at`

type TripRepository struct {
	store *Store
}

func NewTripRepo(store *Store) *TripRepository {
	return &TripRepository{store: store}
}

func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) (*domain.Trip, error) {
	var created *domain.Trip
	err := r.store.RunInTx(ctx, func(ctx context.Context) error {
		const query = `
			INSERT INTO trip (user_id, name, description)
			VALUES ($1, $2, $3)
			RETURNING ` + tripColumns
		var row domain.Trip
		if err := r.store.q(ctx).GetContext(ctx, &row, query, trip.UserID, trip.Name, nullString(trip.Description)); err != nil {
			return err
		}
		stops, err := r.replaceStops(ctx, row.ID, trip.Destinations)
		if err != nil {
			return err
		}
		row.Destinations = stops
		created = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) (*domain.Trip, error) {
	var updated *domain.Trip
	err := r.store.RunInTx(ctx, func(ctx context.Context) error {
		const query = `
			UPDATE trip SET name = $2, description = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + tripColumns
		var row domain.Trip
		if err := r.store.q(ctx).GetContext(ctx, &row, query, trip.ID, trip.Name, nullString(trip.Description)); err != nil {
			return err
		}
		stops, err := r.replaceStops(ctx, row.ID, trip.Destinations)
		if err != nil {
			return err
		}
		row.Destinations = stops
		updated = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *TripRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	const query = `SELECT ` + tripColumns + ` FROM trip WHERE id = $1`
	var trip domain.Trip
	if err := r.store.q(ctx).GetContext(ctx, &trip, query, id); err != nil {
		return nil, err
	}
	stops, err := r.listStops(ctx, []uuid.UUID{trip.ID})
	if err != nil {
		return nil, err
	}
	trip.Destinations = stops[trip.ID]
	return &trip, nil
}

func (r *TripRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const query = `SELECT ` + tripColumns + ` FROM trip WHERE user_id = $1 ORDER BY created_at DESC, id`
	var trips []domain.Trip
	if err := r.store.q(ctx).SelectContext(ctx, &trips, query, userID); err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return trips, nil
	}
	ids := make([]uuid.UUID, 0, len(trips))
	for _, t := range trips {
		ids = append(ids, t.ID)
	}
	stops, err := r.listStops(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range trips {
		trips[i].Destinations = stops[trips[i].ID]
	}
	return trips, nil
}

func (r *TripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM trip WHERE id = $1`, id)
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

func (r *TripRepository) replaceStops(ctx context.Context, tripID uuid.UUID, stops []domain.TripDestination) ([]domain.TripDestination, error) {
	if _, err := r.store.q(ctx).ExecContext(ctx, `DELETE FROM trip_destination WHERE trip_id = $1`, tripID); err != nil {
		return nil, err
	}
	const insert = `
		INSERT INTO trip_destination (trip_id, destination_id, ordinal, arrival_date, departure_date)
		VALUES (:trip_id, :destination_id, :ordinal, :arrival_date, :departure_date)
	`
	out := make([]domain.TripDestination, 0, len(stops))
	for i, stop := range stops {
		stop.TripID = tripID
		stop.Ordinal = i
		if _, err := sqlx.NamedExecContext(ctx, r.store.q(ctx), insert, stop); err != nil {
			return nil, err
		}
		out = append(out, stop)
	}
	return out, nil
}

func (r *TripRepository) listStops(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID][]domain.TripDestination, error) {
	const query = `
		SELECT trip_id, destination_id, ordinal, arrival_date, departure_date
		FROM trip_destination
		WHERE trip_id = ANY($1::uuid[])
		ORDER BY trip_id, ordinal
	`
	ids := make(pq.StringArray, 0, len(tripIDs))
	for _, id := range tripIDs {
		ids = append(ids, id.String())
	}
	var rows []domain.TripDestination
	if err := r.store.q(ctx).SelectContext(ctx, &rows, query, ids); err != nil {
		return nil, err
	}
	grouped := make(map[uuid.UUID][]domain.TripDestination, len(tripIDs))
	for _, row := range rows {
		grouped[row.TripID] = append(grouped[row.TripID], row)
	}
	return grouped, nil
}

var _ ports.TripRepository = (*TripRepository)(nil)
