package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

type PhotoRepository interface {
	SoftDeleteStore
	Create(ctx context.Context, photo *domain.Photo) (*domain.Photo, error)
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Photo, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, publicOnly bool) ([]domain.Photo, error)
}

type DestinationPhotoRepository interface {
	SoftDeleteStore
	Create(ctx context.Context, destinationID, photoID uuid.UUID) (*domain.DestinationPhoto, error)
	Find(ctx context.Context, destinationID, photoID uuid.UUID, includeDeleted bool) (*domain.DestinationPhoto, error)
	ListByDestination(ctx context.Context, destinationID uuid.UUID) ([]domain.DestinationPhoto, error)
	// Relink moves every link of from onto to, skipping photos already
	// linked to to. It returns the number of links moved.
	Relink(ctx context.Context, from, to uuid.UUID) (int, error)
}
