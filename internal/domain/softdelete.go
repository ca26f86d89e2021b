package domain

import (
	"time"

	"github.com/google/uuid"
)

// SoftDelete is embedded by every entity that can be deleted and later
// restored until its expiry passes.
type SoftDelete struct {
	Deleted       bool       `db:"deleted" json:"deleted"`
	DeletedExpiry *time.Time `db:"deleted_expiry" json:"deleted_expiry,omitempty"`
}

func (s *SoftDelete) MarkDeleted(expiry time.Time) {
	s.Deleted = true
	e := expiry
	s.DeletedExpiry = &e
}

func (s *SoftDelete) Restore() {
	s.Deleted = false
	s.DeletedExpiry = nil
}

// Expired reports whether a soft-deleted record may be purged at now. A
// record is still restorable at the exact expiry instant.
func (s SoftDelete) Expired(now time.Time) bool {
	if !s.Deleted || s.DeletedExpiry == nil {
		return false
	}
	return s.DeletedExpiry.Before(now)
}

type EntityKind string

const (
	EntityDestination      EntityKind = "destination"
	EntityDestinationPhoto EntityKind = "destination_photo"
	EntityProposal         EntityKind = "destination_proposal"
	EntityPhoto            EntityKind = "photo"
)

// ExpiredRecord is a soft-deleted row whose expiry has passed, together with
// any blobs that must be removed before the row itself is purged.
type ExpiredRecord struct {
	ID         uuid.UUID `db:"id"`
	ObjectKeys []string  `db:"-"`
}
