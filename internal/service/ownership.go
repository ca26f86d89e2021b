package service

import (
	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

// MaybeClearOwner drops the individual owner of a public destination once a
// different user builds on it. The returned flag reports whether dest changed
// and needs saving. Applying it twice is the same as applying it once.
func MaybeClearOwner(dest domain.Destination, actingUserID uuid.UUID) (domain.Destination, bool) {
	if !dest.IsPublic || dest.OwnerID == nil || *dest.OwnerID == actingUserID {
		return dest, false
	}
	dest.OwnerID = nil
	return dest, true
}
