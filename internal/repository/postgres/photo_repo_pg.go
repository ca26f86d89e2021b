package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

const photoColumns = `
	id, owner_id, object_key, thumbnail_key, url, thumbnail_url, content_type,
	is_public, deleted, deleted_expiry, created_at
`

type PhotoRepository struct {
	softDeleteTable
	store *Store
}

func NewPhotoRepo(store *Store) *PhotoRepository {
	return &PhotoRepository{
		softDeleteTable: softDeleteTable{store: store, table: "photo"},
		store:           store,
	}
}

func (r *PhotoRepository) Create(ctx context.Context, photo *domain.Photo) (*domain.Photo, error) {
	const query = `
		INSERT INTO photo (owner_id, object_key, thumbnail_key, url, thumbnail_url, content_type, is_public)
		VALUES (:owner_id, :object_key, :thumbnail_key, :url, :thumbnail_url, :content_type, :is_public)
		RETURNING ` + photoColumns

	args := map[string]any{
		"owner_id":      photo.OwnerID,
		"object_key":    photo.ObjectKey,
		"thumbnail_key": nullString(photo.ThumbnailKey),
		"url":           photo.URL,
		"thumbnail_url": nullString(photo.ThumbnailURL),
		"content_type":  photo.ContentType,
		"is_public":     photo.IsPublic,
	}
	rows, err := sqlx.NamedQueryContext(ctx, r.store.q(ctx), query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var created domain.Photo
		if err = rows.StructScan(&created); err != nil {
			return nil, err
		}
		return &created, nil
	}
	return nil, sql.ErrNoRows
}

func (r *PhotoRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Photo, error) {
	const query = `SELECT ` + photoColumns + ` FROM photo WHERE id = $1 AND ($2 OR NOT deleted)`
	var photo domain.Photo
	if err := r.store.q(ctx).GetContext(ctx, &photo, query, id, includeDeleted); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, publicOnly bool) ([]domain.Photo, error) {
	const query = `
		SELECT ` + photoColumns + `
		FROM photo
		WHERE owner_id = $1 AND NOT deleted AND (NOT $2 OR is_public)
		ORDER BY created_at DESC
	`
	var photos []domain.Photo
	if err := r.store.q(ctx).SelectContext(ctx, &photos, query, ownerID, publicOnly); err != nil {
		return nil, err
	}
	return photos, nil
}

// ListExpired also reports the object keys of each photo so the blobs can be
// removed before the row.
func (r *PhotoRepository) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.ExpiredRecord, error) {
	const query = `
		SELECT ` + photoColumns + `
		FROM photo
		WHERE deleted AND deleted_expiry IS NOT NULL AND deleted_expiry < $1
		ORDER BY deleted_expiry
	`
	var photos []domain.Photo
	if err := r.store.q(ctx).SelectContext(ctx, &photos, query, cutoff); err != nil {
		return nil, err
	}
	records := make([]domain.ExpiredRecord, 0, len(photos))
	for i := range photos {
		records = append(records, domain.ExpiredRecord{ID: photos[i].ID, ObjectKeys: photos[i].ObjectKeys()})
	}
	return records, nil
}

const destinationPhotoSelect = `
	SELECT dp.id, dp.destination_id, dp.photo_id, dp.deleted, dp.deleted_expiry, dp.created_at,
	       p.owner_id AS photo_owner_id,
	       p.is_public AS photo_is_public,
	       p.url AS photo_url,
	       p.thumbnail_url AS photo_thumbnail_url
	FROM destination_photo dp
	JOIN photo p ON p.id = dp.photo_id
`

type DestinationPhotoRepository struct {
	softDeleteTable
	store *Store
}

func NewDestinationPhotoRepo(store *Store) *DestinationPhotoRepository {
	return &DestinationPhotoRepository{
		softDeleteTable: softDeleteTable{store: store, table: "destination_photo"},
		store:           store,
	}
}

func (r *DestinationPhotoRepository) Create(ctx context.Context, destinationID, photoID uuid.UUID) (*domain.DestinationPhoto, error) {
	const insert = `
		INSERT INTO destination_photo (destination_id, photo_id)
		VALUES ($1, $2)
		RETURNING id
	`
	var id uuid.UUID
	if err := r.store.q(ctx).GetContext(ctx, &id, insert, destinationID, photoID); err != nil {
		return nil, err
	}
	var link domain.DestinationPhoto
	if err := r.store.q(ctx).GetContext(ctx, &link, destinationPhotoSelect+` WHERE dp.id = $1`, id); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *DestinationPhotoRepository) Find(ctx context.Context, destinationID, photoID uuid.UUID, includeDeleted bool) (*domain.DestinationPhoto, error) {
	query := destinationPhotoSelect + `
		WHERE dp.destination_id = $1 AND dp.photo_id = $2 AND ($3 OR NOT dp.deleted)
	`
	var link domain.DestinationPhoto
	if err := r.store.q(ctx).GetContext(ctx, &link, query, destinationID, photoID, includeDeleted); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *DestinationPhotoRepository) ListByDestination(ctx context.Context, destinationID uuid.UUID) ([]domain.DestinationPhoto, error) {
	query := destinationPhotoSelect + `
		WHERE dp.destination_id = $1 AND NOT dp.deleted AND NOT p.deleted
		ORDER BY dp.created_at
	`
	var links []domain.DestinationPhoto
	if err := r.store.q(ctx).SelectContext(ctx, &links, query, destinationID); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *DestinationPhotoRepository) Relink(ctx context.Context, from, to uuid.UUID) (int, error) {
	const query = `
		UPDATE destination_photo AS dp
		SET destination_id = $2
		WHERE dp.destination_id = $1
		  AND NOT EXISTS (
		      SELECT 1 FROM destination_photo existing
		      WHERE existing.destination_id = $2 AND existing.photo_id = dp.photo_id
		  )
	`
	result, err := r.store.q(ctx).ExecContext(ctx, query, from, to)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

var (
	_ ports.PhotoRepository            = (*PhotoRepository)(nil)
	_ ports.DestinationPhotoRepository = (*DestinationPhotoRepository)(nil)
)
