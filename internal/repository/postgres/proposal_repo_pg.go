package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

const proposalColumns = `
	id, destination_id, user_id, traveller_types, deleted, deleted_expiry, created_at, updated_at
`

type ProposalRepository struct {
	softDeleteTable
	store *Store
}

func NewProposalRepo(store *Store) *ProposalRepository {
	return &ProposalRepository{
		softDeleteTable: softDeleteTable{store: store, table: "destination_proposal"},
		store:           store,
	}
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *domain.DestinationProposal) (*domain.DestinationProposal, error) {
	const query = `
		INSERT INTO destination_proposal (destination_id, user_id, traveller_types)
		VALUES (:destination_id, :user_id, :traveller_types)
		RETURNING ` + proposalColumns

	args := map[string]any{
		"destination_id":  proposal.DestinationID,
		"user_id":         proposal.UserID,
		"traveller_types": domain.NewTravellerTypeSet(proposal.TravellerTypes...),
	}
	rows, err := sqlx.NamedQueryContext(ctx, r.store.q(ctx), query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if rows.Next() {
		var created domain.DestinationProposal
		if err = rows.StructScan(&created); err != nil {
			return nil, err
		}
		return &created, nil
	}
	return nil, sql.ErrNoRows
}

func (r *ProposalRepository) UpdateTravellerTypes(ctx context.Context, id uuid.UUID, types domain.TravellerTypeSet) (*domain.DestinationProposal, error) {
	const query = `
		UPDATE destination_proposal
		SET traveller_types = $2, updated_at = NOW()
		WHERE id = $1 AND NOT deleted
		RETURNING ` + proposalColumns
	var proposal domain.DestinationProposal
	if err := r.store.q(ctx).GetContext(ctx, &proposal, query, id, domain.NewTravellerTypeSet(types...)); err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.DestinationProposal, error) {
	const query = `SELECT ` + proposalColumns + ` FROM destination_proposal WHERE id = $1 AND ($2 OR NOT deleted)`
	var proposal domain.DestinationProposal
	if err := r.store.q(ctx).GetContext(ctx, &proposal, query, id, includeDeleted); err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepository) List(ctx context.Context, limit, offset int) ([]domain.DestinationProposal, error) {
	const query = `
		SELECT ` + proposalColumns + `
		FROM destination_proposal
		WHERE NOT deleted
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`
	var proposals []domain.DestinationProposal
	if err := r.store.q(ctx).SelectContext(ctx, &proposals, query, limit, offset); err != nil {
		return nil, err
	}
	return proposals, nil
}

// Delete removes an accepted proposal immediately.
func (r *ProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `DELETE FROM destination_proposal WHERE id = $1`, id)
}

var _ ports.ProposalRepository = (*ProposalRepository)(nil)
