package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTripService_ClearsOwnerOfPublicDestination(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	dest, err := f.destinationSvc.Create(ctx, f.user1, f.user1.ID, destinationInput(true))
	if err != nil {
		t.Fatalf("Create destination: %v", err)
	}

	if _, err := f.tripSvc.Create(ctx, f.user1, f.user1.ID, TripInput{
		Name:  "Own trip",
		Stops: []TripStopInput{{DestinationID: dest.ID}},
	}); err != nil {
		t.Fatalf("Create own trip: %v", err)
	}
	current, _ := f.destinations.FindByID(ctx, dest.ID, false)
	if !current.OwnedBy(f.user1.ID) {
		t.Fatalf("owner's own trip must keep the owner")
	}

	trip, err := f.tripSvc.Create(ctx, f.user2, f.user2.ID, TripInput{
		Name:  "Andes",
		Stops: []TripStopInput{{DestinationID: dest.ID}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(trip.Destinations) != 1 || trip.Destinations[0].DestinationID != dest.ID {
		t.Fatalf("unexpected stops %+v", trip.Destinations)
	}

	current, _ = f.destinations.FindByID(ctx, dest.ID, false)
	if current.OwnerID != nil {
		t.Fatalf("expected owner cleared, got %s", *current.OwnerID)
	}
	if _, err := f.destinationSvc.Get(ctx, f.user3, dest.ID); err != nil {
		t.Fatalf("user3 Get: %v", err)
	}
	if err := f.destinationSvc.Delete(ctx, f.user1, dest.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("former owner must lose control, got %v", err)
	}
}

func TestTripService_PrivateDestinationOfAnotherUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	dest, err := f.destinationSvc.Create(ctx, f.user1, f.user1.ID, destinationInput(false))
	if err != nil {
		t.Fatalf("Create destination: %v", err)
	}
	_, err = f.tripSvc.Create(ctx, f.user2, f.user2.ID, TripInput{
		Name:  "Sneaky",
		Stops: []TripStopInput{{DestinationID: dest.ID}},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if trips, _ := f.trips.ListByUser(ctx, f.user2.ID); len(trips) != 0 {
		t.Fatalf("rejected trip must not be stored")
	}
}

func TestTripService_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	dest, err := f.destinationSvc.Create(ctx, f.user1, f.user1.ID, destinationInput(true))
	if err != nil {
		t.Fatalf("Create destination: %v", err)
	}
	arrive := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	leave := arrive.Add(-24 * time.Hour)

	cases := []struct {
		name  string
		input TripInput
		want  error
	}{
		{"missing name", TripInput{Stops: []TripStopInput{{DestinationID: dest.ID}}}, ErrBadRequest},
		{"no stops", TripInput{Name: "Empty"}, ErrBadRequest},
		{"departure before arrival", TripInput{Name: "Backwards", Stops: []TripStopInput{{DestinationID: dest.ID, ArrivalDate: &arrive, DepartureDate: &leave}}}, ErrBadRequest},
		{"repeated stop", TripInput{Name: "Loop", Stops: []TripStopInput{{DestinationID: dest.ID}, {DestinationID: dest.ID}}}, ErrBadRequest},
		{"unknown destination", TripInput{Name: "Nowhere", Stops: []TripStopInput{{DestinationID: uuid.New()}}}, ErrDestinationNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.tripSvc.Create(ctx, f.user2, f.user2.ID, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTripService_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	lima, err := f.destinationSvc.Create(ctx, f.admin, f.admin.ID, destinationInput(true))
	if err != nil {
		t.Fatalf("Create destination: %v", err)
	}
	cuscoInput := destinationInput(true)
	cuscoInput.Name = strPtr("Cusco")
	cusco, err := f.destinationSvc.Create(ctx, f.admin, f.admin.ID, cuscoInput)
	if err != nil {
		t.Fatalf("Create destination: %v", err)
	}

	trip, err := f.tripSvc.Create(ctx, f.user1, f.user1.ID, TripInput{Name: "Peru", Stops: []TripStopInput{{DestinationID: lima.ID}}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.tripSvc.Get(ctx, f.user2, f.user1.ID, trip.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.tripSvc.Get(ctx, f.user2, f.user2.ID, trip.ID); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound for someone else's trip, got %v", err)
	}

	updated, err := f.tripSvc.Update(ctx, f.user1, f.user1.ID, trip.ID, TripInput{
		Name:  "Peru again",
		Stops: []TripStopInput{{DestinationID: lima.ID}, {DestinationID: cusco.ID}},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Peru again" || len(updated.Destinations) != 2 || updated.Destinations[1].Ordinal != 1 {
		t.Fatalf("unexpected trip %+v", updated)
	}

	list, err := f.tripSvc.List(ctx, f.admin, f.user1.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}

	if err := f.tripSvc.Delete(ctx, f.user1, f.user1.ID, trip.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.tripSvc.Get(ctx, f.user1, f.user1.ID, trip.ID); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}
