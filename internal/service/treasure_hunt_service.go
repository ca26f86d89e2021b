package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

// TreasureHuntInput carries create and edit fields. On edit, nil fields keep
// their current value.
type TreasureHuntInput struct {
	Name          *string
	DestinationID *uuid.UUID
	Riddle        *string
	StartDate     *time.Time
	EndDate       *time.Time
}

type TreasureHuntFilter struct {
	OwnerID *uuid.UUID
	// OpenOnly keeps the hunts running today.
	OpenOnly bool
}

type TreasureHuntService struct {
	hunts        ports.TreasureHuntRepository
	destinations ports.DestinationRepository
	now          func() time.Time
	log          logrus.FieldLogger
}

func NewTreasureHuntService(hunts ports.TreasureHuntRepository, destinations ports.DestinationRepository, log logrus.FieldLogger) *TreasureHuntService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TreasureHuntService{
		hunts:        hunts,
		destinations: destinations,
		now:          time.Now,
		log:          log.WithField("component", "treasure_hunts"),
	}
}

func (s *TreasureHuntService) SetClock(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Create stores a hunt owned by the actor. Every field is required.
func (s *TreasureHuntService) Create(ctx context.Context, actor Actor, input TreasureHuntInput) (*domain.TreasureHunt, error) {
	var problems []string
	if input.Name == nil {
		problems = append(problems, "name is required")
	}
	if input.DestinationID == nil {
		problems = append(problems, "destination_id is required")
	}
	if input.Riddle == nil {
		problems = append(problems, "riddle is required")
	}
	if input.StartDate == nil {
		problems = append(problems, "start_date is required")
	}
	if input.EndDate == nil {
		problems = append(problems, "end_date is required")
	}
	if len(problems) > 0 {
		return nil, validationError(problems)
	}

	hunt := domain.TreasureHunt{OwnerID: actor.ID}
	applyTreasureHuntInput(&hunt, input)
	if err := s.validate(ctx, &hunt); err != nil {
		return nil, err
	}
	created, err := s.hunts.Create(ctx, &hunt)
	if err != nil {
		return nil, s.writeErr("create treasure hunt", err)
	}
	s.log.WithFields(logrus.Fields{"treasure_hunt_id": created.ID, "owner_id": actor.ID}).Info("treasure hunt created")
	return created, nil
}

// Update edits a hunt. Only its owner or an admin may edit it.
func (s *TreasureHuntService) Update(ctx context.Context, actor Actor, id uuid.UUID, input TreasureHuntInput) (*domain.TreasureHunt, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.requireActsFor(current.OwnerID); err != nil {
		return nil, err
	}
	updated := *current
	applyTreasureHuntInput(&updated, input)
	if err := s.validate(ctx, &updated); err != nil {
		return nil, err
	}
	saved, err := s.hunts.Update(ctx, &updated)
	if err != nil {
		return nil, s.writeErr("update treasure hunt", err)
	}
	return saved, nil
}

func (s *TreasureHuntService) Get(ctx context.Context, id uuid.UUID) (*domain.TreasureHunt, error) {
	return s.find(ctx, id)
}

func (s *TreasureHuntService) List(ctx context.Context, filter TreasureHuntFilter) ([]domain.TreasureHunt, error) {
	hunts, err := s.hunts.List(ctx, filter.OwnerID)
	if err != nil {
		return nil, storageErr("list treasure hunts", err)
	}
	if !filter.OpenOnly {
		return hunts, nil
	}
	now := s.now()
	open := hunts[:0]
	for _, h := range hunts {
		if h.Open(now) {
			open = append(open, h)
		}
	}
	return open, nil
}

// Delete removes a hunt permanently.
func (s *TreasureHuntService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	hunt, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := actor.requireActsFor(hunt.OwnerID); err != nil {
		return err
	}
	if err := s.hunts.Delete(ctx, id); err != nil {
		return lookupErr("delete treasure hunt", err, ErrTreasureHuntNotFound)
	}
	s.log.WithField("treasure_hunt_id", id).Info("treasure hunt deleted")
	return nil
}

// validate checks the fields and that the destination is live and visible
// to the hunt's owner. An unusable destination is a bad request, not a
// missing hunt.
func (s *TreasureHuntService) validate(ctx context.Context, hunt *domain.TreasureHunt) error {
	var problems []string
	if hunt.Name == "" {
		problems = append(problems, "name must not be empty")
	}
	if hunt.Riddle == "" {
		problems = append(problems, "riddle must not be empty")
	}
	if hunt.EndDate.Before(hunt.StartDate) {
		problems = append(problems, "start_date must not be after end_date")
	}
	if len(problems) > 0 {
		return validationError(problems)
	}

	dest, err := s.destinations.FindByID(ctx, hunt.DestinationID, false)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: destination %s does not exist", ErrBadRequest, hunt.DestinationID)
		}
		return storageErr("find destination", err)
	}
	if !dest.IsPublic && !dest.OwnedBy(hunt.OwnerID) {
		return fmt.Errorf("%w: destination %s is private", ErrBadRequest, hunt.DestinationID)
	}
	return nil
}

func (s *TreasureHuntService) find(ctx context.Context, id uuid.UUID) (*domain.TreasureHunt, error) {
	hunt, err := s.hunts.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("find treasure hunt", err, ErrTreasureHuntNotFound)
	}
	return hunt, nil
}

func (s *TreasureHuntService) writeErr(op string, err error) error {
	switch {
	case isNotFound(err):
		return ErrTreasureHuntNotFound
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: destination does not exist", ErrBadRequest)
	default:
		return storageErr(op, err)
	}
}

func applyTreasureHuntInput(hunt *domain.TreasureHunt, input TreasureHuntInput) {
	if input.Name != nil {
		hunt.Name = strings.TrimSpace(*input.Name)
	}
	if input.DestinationID != nil {
		hunt.DestinationID = *input.DestinationID
	}
	if input.Riddle != nil {
		hunt.Riddle = strings.TrimSpace(*input.Riddle)
	}
	if input.StartDate != nil {
		hunt.StartDate = dateOnly(*input.StartDate)
	}
	if input.EndDate != nil {
		hunt.EndDate = dateOnly(*input.EndDate)
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
