package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

type ProposalServiceConfig struct {
	PageSize int
	Logger   logrus.FieldLogger
}

// ProposalService runs the traveller type proposal workflow: pending
// proposals are either accepted into their destination or rejected, and a
// rejection can be undone until it expires.
type ProposalService struct {
	proposals    ports.ProposalRepository
	destinations ports.DestinationRepository
	reference    ports.ReferenceRepository
	users        ports.UserRepository
	tx           ports.TxRunner
	lifecycle    *LifecycleManager

	pageSize int
	log      logrus.FieldLogger
}

func NewProposalService(
	proposals ports.ProposalRepository,
	destinations ports.DestinationRepository,
	reference ports.ReferenceRepository,
	users ports.UserRepository,
	tx ports.TxRunner,
	lifecycle *LifecycleManager,
	cfg ProposalServiceConfig,
) *ProposalService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = domain.ProposalPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProposalService{
		proposals:    proposals,
		destinations: destinations,
		reference:    reference,
		users:        users,
		tx:           tx,
		lifecycle:    lifecycle,
		pageSize:     pageSize,
		log:          logger.WithField("component", "proposals"),
	}
}

func (s *ProposalService) Create(ctx context.Context, actor Actor, userID, destinationID uuid.UUID, travellerTypes []int64) (*domain.DestinationProposal, error) {
	if err := actor.requireActsFor(userID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, lookupErr("find user", err, ErrUserNotFound)
	}
	dest, err := s.destinations.FindByID(ctx, destinationID, false)
	if err != nil {
		return nil, lookupErr("find destination", err, ErrDestinationNotFound)
	}
	// Owners edit their destination directly.
	if !dest.IsPublic || dest.OwnedBy(userID) {
		return nil, ErrForbidden
	}
	types := domain.NewTravellerTypeSet(travellerTypes...)
	if err := checkTravellerTypes(ctx, s.reference, types, true); err != nil {
		return nil, err
	}

	proposal, err := s.proposals.Create(ctx, &domain.DestinationProposal{
		DestinationID:  destinationID,
		UserID:         userID,
		TravellerTypes: types,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrDestinationNotFound
		}
		return nil, storageErr("create proposal", err)
	}
	return proposal, nil
}

func (s *ProposalService) Modify(ctx context.Context, actor Actor, id uuid.UUID, travellerTypes []int64) (*domain.DestinationProposal, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if _, err := s.find(ctx, id, false); err != nil {
		return nil, err
	}
	types := domain.NewTravellerTypeSet(travellerTypes...)
	if err := checkTravellerTypes(ctx, s.reference, types, true); err != nil {
		return nil, err
	}
	updated, err := s.proposals.UpdateTravellerTypes(ctx, id, types)
	if err != nil {
		return nil, lookupErr("update proposal", err, ErrProposalNotFound)
	}
	return updated, nil
}

// Accept copies the proposed traveller types onto the destination and removes
// the proposal for good.
func (s *ProposalService) Accept(ctx context.Context, actor Actor, id uuid.UUID) (*domain.Destination, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	var saved *domain.Destination
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		proposal, err := s.find(ctx, id, false)
		if err != nil {
			return err
		}
		dest, err := s.destinations.FindByID(ctx, proposal.DestinationID, false)
		if err != nil {
			return lookupErr("find destination", err, ErrDestinationNotFound)
		}
		dest.TravellerTypes = domain.NewTravellerTypeSet(proposal.TravellerTypes...)
		updated, err := s.destinations.Update(ctx, dest)
		if err != nil {
			return lookupErr("update destination", err, ErrDestinationNotFound)
		}
		if err := s.proposals.Delete(ctx, proposal.ID); err != nil {
			return lookupErr("delete proposal", err, ErrProposalNotFound)
		}
		saved = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"proposal_id": id, "destination_id": saved.ID}).Info("proposal accepted")
	return saved, nil
}

// Reject soft-deletes a proposal. userID names the user the request is made
// for; the proposal's author or an admin may reject.
func (s *ProposalService) Reject(ctx context.Context, actor Actor, userID, id uuid.UUID) error {
	if err := actor.requireActsFor(userID); err != nil {
		return err
	}
	proposal, err := s.find(ctx, id, false)
	if err != nil {
		return err
	}
	if err := actor.requireActsFor(proposal.UserID); err != nil {
		return err
	}
	_, err = s.lifecycle.Delete(ctx, domain.EntityProposal, proposal.ID)
	return err
}

func (s *ProposalService) UndoReject(ctx context.Context, actor Actor, id uuid.UUID) (*domain.DestinationProposal, error) {
	proposal, err := s.find(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := actor.requireActsFor(proposal.UserID); err != nil {
		return nil, err
	}
	if err := s.lifecycle.Undo(ctx, domain.EntityProposal, proposal.ID, proposal.Deleted); err != nil {
		return nil, err
	}
	proposal.Restore()
	return proposal, nil
}

func (s *ProposalService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*domain.DestinationProposal, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	return s.find(ctx, id, false)
}

// List returns one page of pending proposals; pages start at 1.
func (s *ProposalService) List(ctx context.Context, actor Actor, page int) ([]domain.DestinationProposal, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrBadRequest)
	}
	items, err := s.proposals.List(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, storageErr("list proposals", err)
	}
	return items, nil
}

func (s *ProposalService) find(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.DestinationProposal, error) {
	proposal, err := s.proposals.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, lookupErr("find proposal", err, ErrProposalNotFound)
	}
	return proposal, nil
}
