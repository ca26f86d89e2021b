package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

type ProposalRepository interface {
	SoftDeleteStore
	Create(ctx context.Context, proposal *domain.DestinationProposal) (*domain.DestinationProposal, error)
	UpdateTravellerTypes(ctx context.Context, id uuid.UUID, types domain.TravellerTypeSet) (*domain.DestinationProposal, error)
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.DestinationProposal, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]domain.DestinationProposal, error)
}
