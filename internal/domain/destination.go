package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TravellerTypeSet is an ordered, duplicate free set of traveller type ids.
// It is persisted as a JSON array.
type TravellerTypeSet []int64

func NewTravellerTypeSet(ids ...int64) TravellerTypeSet {
	seen := make(map[int64]struct{}, len(ids))
	out := make(TravellerTypeSet, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s TravellerTypeSet) Value() (driver.Value, error) {
	if s == nil {
		s = TravellerTypeSet{}
	}
	data, err := json.Marshal([]int64(s))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *TravellerTypeSet) Scan(value any) error {
	if value == nil {
		*s = TravellerTypeSet{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("traveller type set must be []byte")
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return err
	}
	*s = NewTravellerTypeSet(ids...)
	return nil
}

type Destination struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	Name           string           `db:"name" json:"name"`
	TypeID         int64            `db:"type_id" json:"type_id"`
	District       *string          `db:"district" json:"district,omitempty"`
	Latitude       *float64         `db:"latitude" json:"latitude,omitempty"`
	Longitude      *float64         `db:"longitude" json:"longitude,omitempty"`
	CountryID      int64            `db:"country_id" json:"country_id"`
	OwnerID        *uuid.UUID       `db:"owner_id" json:"owner_id,omitempty"`
	IsPublic       bool             `db:"is_public" json:"is_public"`
	TravellerTypes TravellerTypeSet `db:"traveller_types" json:"traveller_types"`
	SoftDelete
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DestinationDraft carries the attributes that decide whether two
// destinations describe the same place.
type DestinationDraft struct {
	Name      string
	TypeID    int64
	CountryID int64
	IsPublic  bool
	OwnerID   *uuid.UUID
}

func (d Destination) Draft() DestinationDraft {
	return DestinationDraft{
		Name:      d.Name,
		TypeID:    d.TypeID,
		CountryID: d.CountryID,
		IsPublic:  d.IsPublic,
		OwnerID:   d.OwnerID,
	}
}

// SamePlace compares lowercased names and type/country by id. Names are
// lowercased rather than case-folded so the result agrees with the lower()
// based unique indexes.
func (d DestinationDraft) SamePlace(other Destination) bool {
	return placeName(d.Name) == placeName(other.Name) &&
		d.TypeID == other.TypeID &&
		d.CountryID == other.CountryID
}

func placeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (d *Destination) OwnedBy(userID uuid.UUID) bool {
	return d.OwnerID != nil && *d.OwnerID == userID
}

type DestinationListFilter struct {
	Search string
	Limit  int
	Offset int
}

const DestinationPageSize = 30
