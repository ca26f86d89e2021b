package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

type ReferenceRepository struct {
	store *Store
}

func NewReferenceRepo(store *Store) *ReferenceRepository {
	return &ReferenceRepository{store: store}
}

func (r *ReferenceRepository) ListCountries(ctx context.Context) ([]domain.Country, error) {
	const query = `SELECT id, name, iso_code, is_valid FROM country ORDER BY name`
	var countries []domain.Country
	if err := r.store.q(ctx).SelectContext(ctx, &countries, query); err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *ReferenceRepository) ListDestinationTypes(ctx context.Context) ([]domain.DestinationType, error) {
	const query = `SELECT id, name FROM destination_type ORDER BY name`
	var types []domain.DestinationType
	if err := r.store.q(ctx).SelectContext(ctx, &types, query); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *ReferenceRepository) ListTravellerTypes(ctx context.Context) ([]domain.TravellerType, error) {
	const query = `SELECT id, name FROM traveller_type ORDER BY name`
	var types []domain.TravellerType
	if err := r.store.q(ctx).SelectContext(ctx, &types, query); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *ReferenceRepository) CountTravellerTypes(ctx context.Context, ids []int64) (int, error) {
	const query = `SELECT COUNT(*) FROM traveller_type WHERE id = ANY($1)`
	var count int
	if err := r.store.q(ctx).GetContext(ctx, &count, query, pq.Int64Array(ids)); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReferenceRepository) DestinationTypeExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.store.q(ctx).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM destination_type WHERE id = $1)`, id)
	return exists, err
}

func (r *ReferenceRepository) CountryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.store.q(ctx).GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM country WHERE id = $1)`, id)
	return exists, err
}

func (r *ReferenceRepository) UpsertCountries(ctx context.Context, countries []domain.Country) (int, error) {
	var upserted int
	err := r.store.RunInTx(ctx, func(ctx context.Context) error {
		const upsert = `
			INSERT INTO country (name, iso_code, is_valid)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (iso_code) DO UPDATE
			SET name = EXCLUDED.name, is_valid = TRUE
		`
		codes := make(pq.StringArray, 0, len(countries))
		for _, c := range countries {
			if _, err := r.store.q(ctx).ExecContext(ctx, upsert, c.Name, c.ISOCode); err != nil {
				return err
			}
			codes = append(codes, c.ISOCode)
			upserted++
		}
		const invalidate = `UPDATE country SET is_valid = FALSE WHERE NOT (iso_code = ANY($1))`
		_, err := r.store.q(ctx).ExecContext(ctx, invalidate, codes)
		return err
	})
	if err != nil {
		return 0, err
	}
	return upserted, nil
}

var _ ports.ReferenceRepository = (*ReferenceRepository)(nil)
