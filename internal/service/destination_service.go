package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

type DestinationInput struct {
	Name      *string
	TypeID    *int64
	District  *string
	Latitude  *float64
	Longitude *float64
	CountryID *int64
	IsPublic  *bool
	// TravellerTypes replaces the current set when non-nil.
	TravellerTypes []int64
}

type DestinationServiceConfig struct {
	PageSize int
	Logger   logrus.FieldLogger
}

type DestinationService struct {
	destinations ports.DestinationRepository
	links        ports.DestinationPhotoRepository
	reference    ports.ReferenceRepository
	users        ports.UserRepository
	tx           ports.TxRunner
	resolver     *DuplicateResolver
	lifecycle    *LifecycleManager

	pageSize int
	log      logrus.FieldLogger
}

func NewDestinationService(
	destinations ports.DestinationRepository,
	links ports.DestinationPhotoRepository,
	reference ports.ReferenceRepository,
	users ports.UserRepository,
	tx ports.TxRunner,
	lifecycle *LifecycleManager,
	cfg DestinationServiceConfig,
) *DestinationService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = domain.DestinationPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DestinationService{
		destinations: destinations,
		links:        links,
		reference:    reference,
		users:        users,
		tx:           tx,
		resolver:     NewDuplicateResolver(destinations),
		lifecycle:    lifecycle,
		pageSize:     pageSize,
		log:          logger.WithField("component", "destinations"),
	}
}

func (s *DestinationService) List(ctx context.Context, search string, offset int) ([]domain.Destination, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must be non-negative", ErrBadRequest)
	}
	items, err := s.destinations.ListPublic(ctx, domain.DestinationListFilter{
		Search: strings.TrimSpace(search),
		Limit:  s.pageSize,
		Offset: offset,
	})
	if err != nil {
		return nil, storageErr("list destinations", err)
	}
	return items, nil
}

func (s *DestinationService) PageSize() int {
	return s.pageSize
}

// Get returns a live destination visible to the actor.
func (s *DestinationService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Destination, error) {
	dest, err := s.find(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !canView(actor, dest) {
		return nil, ErrForbidden
	}
	return dest, nil
}

// ListForUser returns the destinations owned by userID. Other users only see
// the public ones.
func (s *DestinationService) ListForUser(ctx context.Context, actor Actor, userID uuid.UUID) ([]domain.Destination, error) {
	items, err := s.destinations.ListByOwner(ctx, userID, !actor.ActsFor(userID))
	if err != nil {
		return nil, storageErr("list user destinations", err)
	}
	return items, nil
}

func (s *DestinationService) Create(ctx context.Context, actor Actor, ownerID uuid.UUID, input DestinationInput) (*domain.Destination, error) {
	if err := actor.requireActsFor(ownerID); err != nil {
		return nil, err
	}
	if actor.ID != ownerID {
		if _, err := s.users.FindByID(ctx, ownerID); err != nil {
			return nil, lookupErr("find owner", err, ErrUserNotFound)
		}
	}

	dest := domain.Destination{OwnerID: uuidPtr(ownerID)}
	applyDestinationInput(&dest, input)
	if err := s.validate(ctx, &dest, true, input); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckCreate(ctx, dest.Draft()); err != nil {
		return nil, err
	}

	created, err := s.destinations.Create(ctx, &dest)
	if err != nil {
		return nil, s.writeErr("create destination", err)
	}
	s.log.WithFields(logrus.Fields{"destination_id": created.ID, "owner_id": ownerID}).Info("destination created")
	return created, nil
}

// Update applies input to a destination. A destination that is public after
// the update absorbs its private duplicates: their photo links move over and
// they are soft-deleted, all in the same transaction as the update.
func (s *DestinationService) Update(ctx context.Context, actor Actor, id uuid.UUID, input DestinationInput) (*domain.Destination, error) {
	current, err := s.find(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, current) {
		return nil, ErrForbidden
	}

	updated := *current
	applyDestinationInput(&updated, input)
	if err := s.validate(ctx, &updated, false, input); err != nil {
		return nil, err
	}

	plan, err := s.resolver.PlanUpdate(ctx, updated)
	if err != nil {
		return nil, err
	}

	var saved *domain.Destination
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, dup := range plan.Absorb {
			if err := s.absorb(ctx, updated.ID, dup.ID); err != nil {
				return err
			}
		}
		result, err := s.destinations.Update(ctx, &updated)
		if err != nil {
			return s.writeErr("update destination", err)
		}
		saved = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(plan.Absorb) > 0 {
		s.log.WithFields(logrus.Fields{
			"destination_id": saved.ID,
			"absorbed":       len(plan.Absorb),
		}).Info("merged private duplicates")
	}
	return saved, nil
}

func (s *DestinationService) absorb(ctx context.Context, into, dup uuid.UUID) error {
	if _, err := s.links.Relink(ctx, dup, into); err != nil {
		return storageErr("relink photos", err)
	}
	if _, err := s.lifecycle.Delete(ctx, domain.EntityDestination, dup); err != nil {
		return err
	}
	return nil
}

func (s *DestinationService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	dest, err := s.find(ctx, id, false)
	if err != nil {
		return err
	}
	if !canManage(actor, dest) {
		return ErrForbidden
	}
	_, err = s.lifecycle.Delete(ctx, domain.EntityDestination, id)
	return err
}

func (s *DestinationService) Undo(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Destination, error) {
	dest, err := s.find(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, dest) {
		return nil, ErrForbidden
	}
	if err := s.lifecycle.Undo(ctx, domain.EntityDestination, id, dest.Deleted); err != nil {
		return nil, err
	}
	return s.find(ctx, id, false)
}

func (s *DestinationService) IsUsed(ctx context.Context, actor Actor, id uuid.UUID) (bool, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return false, err
	}
	used, err := s.destinations.IsUsedInTrips(ctx, id)
	if err != nil {
		return false, storageErr("check destination usage", err)
	}
	return used, nil
}

func (s *DestinationService) find(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Destination, error) {
	dest, err := s.destinations.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, lookupErr("find destination", err, ErrDestinationNotFound)
	}
	return dest, nil
}

func (s *DestinationService) writeErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return ErrDuplicateConflict
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: unknown reference", ErrBadRequest)
	case isNotFound(err):
		return ErrDestinationNotFound
	default:
		return storageErr(op, err)
	}
}

func (s *DestinationService) validate(ctx context.Context, dest *domain.Destination, creating bool, input DestinationInput) error {
	var problems []string
	if strings.TrimSpace(dest.Name) == "" {
		problems = append(problems, "name is required")
	}
	if creating && input.TypeID == nil {
		problems = append(problems, "type_id is required")
	}
	if creating && input.CountryID == nil {
		problems = append(problems, "country_id is required")
	}
	if dest.Latitude != nil && (*dest.Latitude < -90 || *dest.Latitude > 90) {
		problems = append(problems, "latitude must be between -90 and 90")
	}
	if dest.Longitude != nil && (*dest.Longitude < -180 || *dest.Longitude > 180) {
		problems = append(problems, "longitude must be between -180 and 180")
	}
	if len(problems) > 0 {
		return validationError(problems)
	}

	if ok, err := s.reference.DestinationTypeExists(ctx, dest.TypeID); err != nil {
		return storageErr("check destination type", err)
	} else if !ok {
		problems = append(problems, fmt.Sprintf("destination type %d does not exist", dest.TypeID))
	}
	if ok, err := s.reference.CountryExists(ctx, dest.CountryID); err != nil {
		return storageErr("check country", err)
	} else if !ok {
		problems = append(problems, fmt.Sprintf("country %d does not exist", dest.CountryID))
	}
	if err := checkTravellerTypes(ctx, s.reference, dest.TravellerTypes, false); err != nil {
		return err
	}
	if len(problems) > 0 {
		return validationError(problems)
	}
	return nil
}

func checkTravellerTypes(ctx context.Context, reference ports.ReferenceRepository, ids domain.TravellerTypeSet, required bool) error {
	if len(ids) == 0 {
		if required {
			return fmt.Errorf("%w: at least one traveller type is required", ErrBadRequest)
		}
		return nil
	}
	count, err := reference.CountTravellerTypes(ctx, ids)
	if err != nil {
		return storageErr("check traveller types", err)
	}
	if count != len(ids) {
		return fmt.Errorf("%w: unknown traveller type", ErrBadRequest)
	}
	return nil
}

func applyDestinationInput(dest *domain.Destination, input DestinationInput) {
	if input.Name != nil {
		dest.Name = strings.TrimSpace(*input.Name)
	}
	if input.TypeID != nil {
		dest.TypeID = *input.TypeID
	}
	if input.District != nil {
		dest.District = normalizeString(input.District)
	}
	if input.Latitude != nil {
		dest.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		dest.Longitude = input.Longitude
	}
	if input.CountryID != nil {
		dest.CountryID = *input.CountryID
	}
	if input.IsPublic != nil {
		dest.IsPublic = *input.IsPublic
	}
	if input.TravellerTypes != nil {
		dest.TravellerTypes = domain.NewTravellerTypeSet(input.TravellerTypes...)
	}
}

// canView: public destinations are visible to everyone, private ones to
// their owner and admins.
func canView(actor Actor, dest *domain.Destination) bool {
	return dest.IsPublic || actor.Admin || dest.OwnedBy(actor.ID)
}

// canManage: ownerless destinations are managed by admins only.
func canManage(actor Actor, dest *domain.Destination) bool {
	return actor.Admin || dest.OwnedBy(actor.ID)
}
