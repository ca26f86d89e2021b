package domain

import (
	"time"

	"github.com/google/uuid"
)

// DestinationProposal suggests a new traveller type set for a public
// destination. Accepting merges it into the destination.
type DestinationProposal struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	DestinationID  uuid.UUID        `db:"destination_id" json:"destination_id"`
	UserID         uuid.UUID        `db:"user_id" json:"user_id"`
	TravellerTypes TravellerTypeSet `db:"traveller_types" json:"traveller_types"`
	SoftDelete
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const ProposalPageSize = 5
