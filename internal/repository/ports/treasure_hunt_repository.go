package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

type TreasureHuntRepository interface {
	Create(ctx context.Context, hunt *domain.TreasureHunt) (*domain.TreasureHunt, error)
	Update(ctx context.Context, hunt *domain.TreasureHunt) (*domain.TreasureHunt, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.TreasureHunt, error)
	// List returns every hunt, or only ownerID's when it is set.
	List(ctx context.Context, ownerID *uuid.UUID) ([]domain.TreasureHunt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
