package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photo is a personal photo uploaded by a user.
type Photo struct {
	ID           uuid.UUID `db:"id" json:"id"`
	OwnerID      uuid.UUID `db:"owner_id" json:"owner_id"`
	ObjectKey    string    `db:"object_key" json:"-"`
	ThumbnailKey *string   `db:"thumbnail_key" json:"-"`
	URL          string    `db:"url" json:"url"`
	ThumbnailURL *string   `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	ContentType  string    `db:"content_type" json:"content_type"`
	IsPublic     bool      `db:"is_public" json:"is_public"`
	SoftDelete
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (p *Photo) ObjectKeys() []string {
	keys := []string{p.ObjectKey}
	if p.ThumbnailKey != nil && *p.ThumbnailKey != "" {
		keys = append(keys, *p.ThumbnailKey)
	}
	return keys
}

// DestinationPhoto links a personal photo to a destination. Its lifecycle is
// independent from both the destination and the photo.
type DestinationPhoto struct {
	ID            uuid.UUID `db:"id" json:"id"`
	DestinationID uuid.UUID `db:"destination_id" json:"destination_id"`
	PhotoID       uuid.UUID `db:"photo_id" json:"photo_id"`
	SoftDelete
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	PhotoOwnerID      uuid.UUID `db:"photo_owner_id" json:"photo_owner_id"`
	PhotoIsPublic     bool      `db:"photo_is_public" json:"photo_is_public"`
	PhotoURL          string    `db:"photo_url" json:"photo_url"`
	PhotoThumbnailURL *string   `db:"photo_thumbnail_url" json:"photo_thumbnail_url,omitempty"`
}
