package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

type DestinationRepository interface {
	SoftDeleteStore
	Create(ctx context.Context, dest *domain.Destination) (*domain.Destination, error)
	Update(ctx context.Context, dest *domain.Destination) (*domain.Destination, error)
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Destination, error)
	// FindSamePlace returns non-deleted destinations with the same
	// case-insensitive name, type and country.
	FindSamePlace(ctx context.Context, name string, typeID, countryID int64) ([]domain.Destination, error)
	ListPublic(ctx context.Context, filter domain.DestinationListFilter) ([]domain.Destination, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, publicOnly bool) ([]domain.Destination, error)
	IsUsedInTrips(ctx context.Context, id uuid.UUID) (bool, error)
}
