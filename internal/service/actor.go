package service

import (
	"github.com/google/uuid"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
)

// Actor is the authenticated user a request is performed as.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

func ActorFromUser(user *domain.User) Actor {
	return Actor{ID: user.ID, Admin: user.IsAdmin()}
}

// ActsFor reports whether the actor may act on behalf of userID.
func (a Actor) ActsFor(userID uuid.UUID) bool {
	return a.Admin || a.ID == userID
}

func (a Actor) requireActsFor(userID uuid.UUID) error {
	if !a.ActsFor(userID) {
		return ErrForbidden
	}
	return nil
}

func (a Actor) requireAdmin() error {
	if !a.Admin {
		return ErrForbidden
	}
	return nil
}
