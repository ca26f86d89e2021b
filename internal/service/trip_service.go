package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

type TripStopInput struct {
	DestinationID uuid.UUID
	ArrivalDate   *time.Time
	DepartureDate *time.Time
}

type TripInput struct {
	Name        string
	Description *string
	Stops       []TripStopInput
}

type TripService struct {
	trips        ports.TripRepository
	destinations ports.DestinationRepository
	tx           ports.TxRunner
}

func NewTripService(trips ports.TripRepository, destinations ports.DestinationRepository, tx ports.TxRunner) *TripService {
	return &TripService{trips: trips, destinations: destinations, tx: tx}
}

// Create stores a trip for userID. Every public destination on the route that
// is still attributed to another user loses that owner.
func (s *TripService) Create(ctx context.Context, actor Actor, userID uuid.UUID, input TripInput) (*domain.Trip, error) {
	if err := actor.requireActsFor(userID); err != nil {
		return nil, err
	}
	trip, err := buildTrip(userID, input)
	if err != nil {
		return nil, err
	}
	var created *domain.Trip
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.claimStops(ctx, userID, trip.Destinations); err != nil {
			return err
		}
		result, err := s.trips.Create(ctx, trip)
		if err != nil {
			return s.writeErr("create trip", err)
		}
		created = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TripService) Update(ctx context.Context, actor Actor, userID, tripID uuid.UUID, input TripInput) (*domain.Trip, error) {
	if err := actor.requireActsFor(userID); err != nil {
		return nil, err
	}
	if _, err := s.findOwned(ctx, userID, tripID); err != nil {
		return nil, err
	}
	trip, err := buildTrip(userID, input)
	if err != nil {
		return nil, err
	}
	trip.ID = tripID
	var updated *domain.Trip
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.claimStops(ctx, userID, trip.Destinations); err != nil {
			return err
		}
		result, err := s.trips.Update(ctx, trip)
		if err != nil {
			return s.writeErr("update trip", err)
		}
		updated = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TripService) Get(ctx context.Context, actor Actor, userID, tripID uuid.UUID) (*domain.Trip, error) {
	if err := actor.requireActsFor(userID); err != nil {
		return nil, err
	}
	return s.findOwned(ctx, userID, tripID)
}

func (s *TripService) List(ctx context.Context, actor Actor, userID uuid.UUID) ([]domain.Trip, error) {
	if err := actor.requireActsFor(userID); err != nil {
		return nil, err
	}
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr("list trips", err)
	}
	return trips, nil
}

func (s *TripService) Delete(ctx context.Context, actor Actor, userID, tripID uuid.UUID) error {
	if err := actor.requireActsFor(userID); err != nil {
		return err
	}
	if _, err := s.findOwned(ctx, userID, tripID); err != nil {
		return err
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return lookupErr("delete trip", err, ErrTripNotFound)
	}
	return nil
}

// claimStops checks every destination on the route is usable by userID and
// applies the ownership policy to it.
func (s *TripService) claimStops(ctx context.Context, userID uuid.UUID, stops []domain.TripDestination) error {
	seen := make(map[uuid.UUID]struct{}, len(stops))
	for _, stop := range stops {
		if _, ok := seen[stop.DestinationID]; ok {
			continue
		}
		seen[stop.DestinationID] = struct{}{}

		dest, err := s.destinations.FindByID(ctx, stop.DestinationID, false)
		if err != nil {
			return lookupErr("find destination", err, ErrDestinationNotFound)
		}
		if !dest.IsPublic && !dest.OwnedBy(userID) {
			return fmt.Errorf("%w: destination %s is private", ErrForbidden, dest.ID)
		}
		if cleared, changed := MaybeClearOwner(*dest, userID); changed {
			if _, err := s.destinations.Update(ctx, &cleared); err != nil {
				return storageErr("clear destination owner", err)
			}
		}
	}
	return nil
}

func (s *TripService) findOwned(ctx context.Context, userID, tripID uuid.UUID) (*domain.Trip, error) {
	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		return nil, lookupErr("find trip", err, ErrTripNotFound)
	}
	if trip.UserID != userID {
		return nil, ErrTripNotFound
	}
	return trip, nil
}

func (s *TripService) writeErr(op string, err error) error {
	switch {
	case isNotFound(err):
		return ErrTripNotFound
	case isForeignKeyViolation(err):
		return ErrDestinationNotFound
	default:
		return storageErr(op, err)
	}
}

func buildTrip(userID uuid.UUID, input TripInput) (*domain.Trip, error) {
	var problems []string
	name := strings.TrimSpace(input.Name)
	if name == "" {
		problems = append(problems, "name is required")
	}
	if len(input.Stops) == 0 {
		problems = append(problems, "at least one destination is required")
	}
	stops := make([]domain.TripDestination, 0, len(input.Stops))
	for i, stop := range input.Stops {
		if stop.DestinationID == uuid.Nil {
			problems = append(problems, fmt.Sprintf("destinations[%d] destination_id is required", i))
		}
		if stop.ArrivalDate != nil && stop.DepartureDate != nil && stop.DepartureDate.Before(*stop.ArrivalDate) {
			problems = append(problems, fmt.Sprintf("destinations[%d] departure is before arrival", i))
		}
		if i > 0 && stop.DestinationID == input.Stops[i-1].DestinationID {
			problems = append(problems, fmt.Sprintf("destinations[%d] repeats the previous destination", i))
		}
		stops = append(stops, domain.TripDestination{
			DestinationID: stop.DestinationID,
			Ordinal:       i,
			ArrivalDate:   stop.ArrivalDate,
			DepartureDate: stop.DepartureDate,
		})
	}
	if len(problems) > 0 {
		return nil, validationError(problems)
	}
	return &domain.Trip{
		UserID:       userID,
		Name:         name,
		Description:  normalizeString(input.Description),
		Destinations: stops,
	}, nil
}
