package ports

import (
	"context"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

type ReferenceRepository interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
	ListDestinationTypes(ctx context.Context) ([]domain.DestinationType, error)
	ListTravellerTypes(ctx context.Context) ([]domain.TravellerType, error)
	CountTravellerTypes(ctx context.Context, ids []int64) (int, error)
	DestinationTypeExists(ctx context.Context, id int64) (bool, error)
	CountryExists(ctx context.Context, id int64) (bool, error)
	// UpsertCountries inserts or renames countries by ISO code and flags
	// every country missing from the batch as invalid.
	UpsertCountries(ctx context.Context, countries []domain.Country) (int, error)
}
