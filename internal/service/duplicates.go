package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

// DuplicateResolver decides whether a destination write collides with an
// existing destination describing the same place.
//
// The unique indexes on the destination table remain the real guard against
// concurrent writers; these checks give callers a precise error before the
// write is attempted.
type DuplicateResolver struct {
	destinations ports.DestinationRepository
}

func NewDuplicateResolver(destinations ports.DestinationRepository) *DuplicateResolver {
	return &DuplicateResolver{destinations: destinations}
}

// FindDuplicates returns every live destination with the same business key
// as draft, except the one identified by exclude.
func (r *DuplicateResolver) FindDuplicates(ctx context.Context, draft domain.DestinationDraft, exclude uuid.UUID) ([]domain.Destination, error) {
	matches, err := r.destinations.FindSamePlace(ctx, draft.Name, draft.TypeID, draft.CountryID)
	if err != nil {
		return nil, storageErr("find duplicates", err)
	}
	out := make([]domain.Destination, 0, len(matches))
	for _, m := range matches {
		if m.ID == exclude || !draft.SamePlace(m) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// CheckCreate rejects a new destination that collides with an existing one.
func (r *DuplicateResolver) CheckCreate(ctx context.Context, draft domain.DestinationDraft) error {
	matches, err := r.FindDuplicates(ctx, draft, uuid.Nil)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if conflicts(m, draft) {
			return ErrDuplicateConflict
		}
	}
	return nil
}

// MergePlan lists the private duplicates an update to a public destination
// absorbs.
type MergePlan struct {
	Absorb []domain.Destination
}

// PlanUpdate checks an updated destination against its duplicates. When the
// destination is public, private duplicates are absorbed instead of
// conflicting.
func (r *DuplicateResolver) PlanUpdate(ctx context.Context, updated domain.Destination) (*MergePlan, error) {
	draft := updated.Draft()
	matches, err := r.FindDuplicates(ctx, draft, updated.ID)
	if err != nil {
		return nil, err
	}
	plan := &MergePlan{}
	for _, m := range matches {
		if draft.IsPublic && !m.IsPublic {
			plan.Absorb = append(plan.Absorb, m)
			continue
		}
		if conflicts(m, draft) {
			return nil, ErrDuplicateConflict
		}
	}
	return plan, nil
}

// conflicts applies the coexistence rules: two public destinations never
// coexist, and one owner never holds two copies of a place, whatever their
// visibility.
func conflicts(match domain.Destination, draft domain.DestinationDraft) bool {
	if match.IsPublic && draft.IsPublic {
		return true
	}
	if match.OwnerID != nil && draft.OwnerID != nil && *match.OwnerID == *draft.OwnerID {
		return true
	}
	return false
}
