package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/media"
)

var errUniqueViolation = &pgconn.PgError{Code: "23505"}

// softRows is an in-memory table of soft-deletable rows.
type softRows[T any] struct {
	mu     sync.Mutex
	rows   map[uuid.UUID]*T
	state  func(*T) *domain.SoftDelete
	blobs  func(*T) []string
	purged []uuid.UUID
	// restoreCheck lets a table reject a restore the way a unique index
	// would.
	restoreCheck func(*T) error
}

func newSoftRows[T any](state func(*T) *domain.SoftDelete) *softRows[T] {
	return &softRows[T]{rows: map[uuid.UUID]*T{}, state: state}
}

func (s *softRows[T]) getLocked(id uuid.UUID, includeDeleted bool) (T, error) {
	var zero T
	row, ok := s.rows[id]
	if !ok || (!includeDeleted && s.state(row).Deleted) {
		return zero, sql.ErrNoRows
	}
	return *row, nil
}

func (s *softRows[T]) SoftDelete(ctx context.Context, id uuid.UUID, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || s.state(row).Deleted {
		return sql.ErrNoRows
	}
	s.state(row).MarkDeleted(expiry)
	return nil
}

func (s *softRows[T]) Restore(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || !s.state(row).Deleted {
		return sql.ErrNoRows
	}
	if s.restoreCheck != nil {
		if err := s.restoreCheck(row); err != nil {
			return err
		}
	}
	s.state(row).Restore()
	return nil
}

func (s *softRows[T]) Purge(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || !s.state(row).Deleted {
		return sql.ErrNoRows
	}
	delete(s.rows, id)
	s.purged = append(s.purged, id)
	return nil
}

// snapshot copies the table and returns a func that puts the copy back.
func (s *softRows[T]) snapshot() func() {
	s.mu.Lock()
	saved := make(map[uuid.UUID]T, len(s.rows))
	for id, row := range s.rows {
		saved[id] = *row
	}
	purged := append([]uuid.UUID(nil), s.purged...)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = make(map[uuid.UUID]*T, len(saved))
		for id, row := range saved {
			row := row
			s.rows[id] = &row
		}
		s.purged = purged
	}
}

func (s *softRows[T]) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.ExpiredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ExpiredRecord
	for id, row := range s.rows {
		if !s.state(row).Expired(cutoff) {
			continue
		}
		rec := domain.ExpiredRecord{ID: id}
		if s.blobs != nil {
			rec.ObjectKeys = s.blobs(row)
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

type memoryDestinations struct {
	*softRows[domain.Destination]
	usedInTrips map[uuid.UUID]bool
	updates     int
	updateErr   error
}

func newMemoryDestinations() *memoryDestinations {
	m := &memoryDestinations{
		softRows:    newSoftRows(func(d *domain.Destination) *domain.SoftDelete { return &d.SoftDelete }),
		usedInTrips: map[uuid.UUID]bool{},
	}
	m.restoreCheck = func(d *domain.Destination) error { return m.uniqueLocked(*d) }
	return m
}

// uniqueLocked mirrors the partial unique indexes on the destination table.
func (m *memoryDestinations) uniqueLocked(d domain.Destination) error {
	for id, other := range m.rows {
		if id == d.ID || other.Deleted || !d.Draft().SamePlace(*other) {
			continue
		}
		if d.IsPublic && other.IsPublic {
			return errUniqueViolation
		}
		sameOwner := (d.OwnerID == nil && other.OwnerID == nil) ||
			(d.OwnerID != nil && other.OwnerID != nil && *d.OwnerID == *other.OwnerID)
		if sameOwner && d.IsPublic == other.IsPublic {
			return errUniqueViolation
		}
	}
	return nil
}

func (m *memoryDestinations) add(d domain.Destination) domain.Destination {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	m.rows[d.ID] = &d
	return d
}

func (m *memoryDestinations) Create(ctx context.Context, dest *domain.Destination) (*domain.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := *dest
	d.ID = uuid.New()
	d.Name = strings.TrimSpace(d.Name)
	if err := m.uniqueLocked(d); err != nil {
		return nil, err
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	m.rows[d.ID] = &d
	out := d
	return &out, nil
}

func (m *memoryDestinations) Update(ctx context.Context, dest *domain.Destination) (*domain.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	current, ok := m.rows[dest.ID]
	if !ok || current.Deleted {
		return nil, sql.ErrNoRows
	}
	d := *dest
	if err := m.uniqueLocked(d); err != nil {
		return nil, err
	}
	d.SoftDelete = current.SoftDelete
	d.CreatedAt = current.CreatedAt
	d.UpdatedAt = time.Now()
	m.rows[d.ID] = &d
	m.updates++
	out := d
	return &out, nil
}

func (m *memoryDestinations) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.getLocked(id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *memoryDestinations) FindSamePlace(ctx context.Context, name string, typeID, countryID int64) ([]domain.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	draft := domain.DestinationDraft{Name: name, TypeID: typeID, CountryID: countryID}
	var out []domain.Destination
	for _, d := range m.rows {
		if !d.Deleted && draft.SamePlace(*d) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memoryDestinations) ListPublic(ctx context.Context, filter domain.DestinationListFilter) ([]domain.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Destination
	for _, d := range m.rows {
		if d.Deleted || !d.IsPublic {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(d.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if filter.Offset >= len(out) {
		return []domain.Destination{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memoryDestinations) ListByOwner(ctx context.Context, ownerID uuid.UUID, publicOnly bool) ([]domain.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Destination
	for _, d := range m.rows {
		if d.Deleted || !d.OwnedBy(ownerID) || (publicOnly && !d.IsPublic) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *memoryDestinations) IsUsedInTrips(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usedInTrips[id], nil
}

type memoryPhotos struct {
	*softRows[domain.Photo]
}

func newMemoryPhotos() *memoryPhotos {
	m := &memoryPhotos{softRows: newSoftRows(func(p *domain.Photo) *domain.SoftDelete { return &p.SoftDelete })}
	m.blobs = func(p *domain.Photo) []string { return p.ObjectKeys() }
	return m
}

func (m *memoryPhotos) add(p domain.Photo) domain.Photo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ObjectKey == "" {
		p.ObjectKey = "photos/" + p.OwnerID.String() + "/" + p.ID.String() + ".jpg"
	}
	p.CreatedAt = time.Now()
	m.rows[p.ID] = &p
	return p
}

func (m *memoryPhotos) Create(ctx context.Context, photo *domain.Photo) (*domain.Photo, error) {
	p := *photo
	p.ID = uuid.New()
	out := m.add(p)
	return &out, nil
}

func (m *memoryPhotos) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.getLocked(id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *memoryPhotos) ListByOwner(ctx context.Context, ownerID uuid.UUID, publicOnly bool) ([]domain.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Photo
	for _, p := range m.rows {
		if p.Deleted || p.OwnerID != ownerID || (publicOnly && !p.IsPublic) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

type memoryLinks struct {
	*softRows[domain.DestinationPhoto]
	photos *memoryPhotos
	// relinkErr fails Relink calls moving links away from the keyed
	// destination.
	relinkErr map[uuid.UUID]error
}

func newMemoryLinks(photos *memoryPhotos) *memoryLinks {
	return &memoryLinks{
		softRows: newSoftRows(func(l *domain.DestinationPhoto) *domain.SoftDelete { return &l.SoftDelete }),
		photos:    photos,
		relinkErr: map[uuid.UUID]error{},
	}
}

// joined fills the photo columns the way the SQL join does.
func (m *memoryLinks) joined(l domain.DestinationPhoto) domain.DestinationPhoto {
	if p, err := m.photos.FindByID(context.Background(), l.PhotoID, true); err == nil {
		l.PhotoOwnerID = p.OwnerID
		l.PhotoIsPublic = p.IsPublic
		l.PhotoURL = p.URL
		l.PhotoThumbnailURL = p.ThumbnailURL
	}
	return l
}

func (m *memoryLinks) Create(ctx context.Context, destinationID, photoID uuid.UUID) (*domain.DestinationPhoto, error) {
	m.mu.Lock()
	for _, l := range m.rows {
		if l.DestinationID == destinationID && l.PhotoID == photoID {
			m.mu.Unlock()
			return nil, errUniqueViolation
		}
	}
	l := domain.DestinationPhoto{ID: uuid.New(), DestinationID: destinationID, PhotoID: photoID, CreatedAt: time.Now()}
	m.rows[l.ID] = &l
	m.mu.Unlock()
	out := m.joined(l)
	return &out, nil
}

func (m *memoryLinks) Find(ctx context.Context, destinationID, photoID uuid.UUID, includeDeleted bool) (*domain.DestinationPhoto, error) {
	m.mu.Lock()
	var found *domain.DestinationPhoto
	for _, l := range m.rows {
		if l.DestinationID == destinationID && l.PhotoID == photoID && (includeDeleted || !l.Deleted) {
			c := *l
			found = &c
		}
	}
	m.mu.Unlock()
	if found == nil {
		return nil, sql.ErrNoRows
	}
	out := m.joined(*found)
	return &out, nil
}

func (m *memoryLinks) ListByDestination(ctx context.Context, destinationID uuid.UUID) ([]domain.DestinationPhoto, error) {
	m.mu.Lock()
	var raw []domain.DestinationPhoto
	for _, l := range m.rows {
		if l.DestinationID == destinationID && !l.Deleted {
			raw = append(raw, *l)
		}
	}
	m.mu.Unlock()
	out := make([]domain.DestinationPhoto, 0, len(raw))
	for _, l := range raw {
		out = append(out, m.joined(l))
	}
	return out, nil
}

func (m *memoryLinks) Relink(ctx context.Context, from, to uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.relinkErr[from]; err != nil {
		return 0, err
	}
	linked := map[uuid.UUID]bool{}
	for _, l := range m.rows {
		if l.DestinationID == to {
			linked[l.PhotoID] = true
		}
	}
	moved := 0
	for _, l := range m.rows {
		if l.DestinationID == from && !linked[l.PhotoID] {
			l.DestinationID = to
			linked[l.PhotoID] = true
			moved++
		}
	}
	return moved, nil
}

type memoryProposals struct {
	*softRows[domain.DestinationProposal]
	hardDeleted []uuid.UUID
	deleteErr   error
}

func newMemoryProposals() *memoryProposals {
	return &memoryProposals{softRows: newSoftRows(func(p *domain.DestinationProposal) *domain.SoftDelete { return &p.SoftDelete })}
}

func (m *memoryProposals) Create(ctx context.Context, proposal *domain.DestinationProposal) (*domain.DestinationProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := *proposal
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.rows[p.ID] = &p
	out := p
	return &out, nil
}

func (m *memoryProposals) UpdateTravellerTypes(ctx context.Context, id uuid.UUID, types domain.TravellerTypeSet) (*domain.DestinationProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok || p.Deleted {
		return nil, sql.ErrNoRows
	}
	p.TravellerTypes = append(domain.TravellerTypeSet(nil), types...)
	out := *p
	return &out, nil
}

func (m *memoryProposals) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.DestinationProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.getLocked(id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *memoryProposals) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.rows, id)
	m.hardDeleted = append(m.hardDeleted, id)
	return nil
}

func (m *memoryProposals) snapshot() func() {
	restoreRows := m.softRows.snapshot()
	m.mu.Lock()
	hard := append([]uuid.UUID(nil), m.hardDeleted...)
	m.mu.Unlock()
	return func() {
		restoreRows()
		m.mu.Lock()
		m.hardDeleted = hard
		m.mu.Unlock()
	}
}

func (m *memoryProposals) List(ctx context.Context, limit, offset int) ([]domain.DestinationProposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DestinationProposal
	for _, p := range m.rows {
		if !p.Deleted {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if offset >= len(out) {
		return []domain.DestinationProposal{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memoryTrips struct {
	mu    sync.Mutex
	trips map[uuid.UUID]domain.Trip
}

func newMemoryTrips() *memoryTrips {
	return &memoryTrips{trips: map[uuid.UUID]domain.Trip{}}
}

func cloneTrip(t domain.Trip) domain.Trip {
	t.Destinations = append([]domain.TripDestination(nil), t.Destinations...)
	return t
}

func (m *memoryTrips) Create(ctx context.Context, trip *domain.Trip) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := cloneTrip(*trip)
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	for i := range t.Destinations {
		t.Destinations[i].TripID = t.ID
	}
	m.trips[t.ID] = t
	out := cloneTrip(t)
	return &out, nil
}

func (m *memoryTrips) Update(ctx context.Context, trip *domain.Trip) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.trips[trip.ID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	t := cloneTrip(*trip)
	t.CreatedAt = current.CreatedAt
	t.UpdatedAt = time.Now()
	m.trips[t.ID] = t
	out := cloneTrip(t)
	return &out, nil
}

func (m *memoryTrips) FindByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := cloneTrip(t)
	return &out, nil
}

func (m *memoryTrips) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Trip
	for _, t := range m.trips {
		if t.UserID == userID {
			out = append(out, cloneTrip(t))
		}
	}
	return out, nil
}

func (m *memoryTrips) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.trips, id)
	return nil
}

type memoryTreasureHunts struct {
	mu    sync.Mutex
	hunts map[uuid.UUID]domain.TreasureHunt
}

func newMemoryTreasureHunts() *memoryTreasureHunts {
	return &memoryTreasureHunts{hunts: map[uuid.UUID]domain.TreasureHunt{}}
}

func (m *memoryTreasureHunts) Create(ctx context.Context, hunt *domain.TreasureHunt) (*domain.TreasureHunt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := *hunt
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	m.hunts[h.ID] = h
	return &h, nil
}

func (m *memoryTreasureHunts) Update(ctx context.Context, hunt *domain.TreasureHunt) (*domain.TreasureHunt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.hunts[hunt.ID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	h := *hunt
	h.OwnerID = current.OwnerID
	h.CreatedAt = current.CreatedAt
	h.UpdatedAt = time.Now()
	m.hunts[h.ID] = h
	return &h, nil
}

func (m *memoryTreasureHunts) FindByID(ctx context.Context, id uuid.UUID) (*domain.TreasureHunt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hunts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &h, nil
}

func (m *memoryTreasureHunts) List(ctx context.Context, ownerID *uuid.UUID) ([]domain.TreasureHunt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.TreasureHunt{}
	for _, h := range m.hunts {
		if ownerID == nil || h.OwnerID == *ownerID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *memoryTreasureHunts) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hunts[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.hunts, id)
	return nil
}

type memoryReference struct {
	mu             sync.Mutex
	countries      map[string]domain.Country
	types          map[int64]bool
	travellerTypes map[int64]bool
	upserted       [][]domain.Country
}

func newMemoryReference() *memoryReference {
	return &memoryReference{
		countries: map[string]domain.Country{
			"PER": {ID: 1, Name: "Peru", ISOCode: "PER", IsValid: true},
			"NZL": {ID: 2, Name: "New Zealand", ISOCode: "NZL", IsValid: true},
		},
		types:          map[int64]bool{1: true, 2: true},
		travellerTypes: map[int64]bool{1: true, 2: true, 3: true},
	}
}

func (m *memoryReference) ListCountries(ctx context.Context) ([]domain.Country, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Country, 0, len(m.countries))
	for _, c := range m.countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryReference) ListDestinationTypes(ctx context.Context) ([]domain.DestinationType, error) {
	return []domain.DestinationType{{ID: 1, Name: "City"}, {ID: 2, Name: "Beach"}}, nil
}

func (m *memoryReference) ListTravellerTypes(ctx context.Context) ([]domain.TravellerType, error) {
	return []domain.TravellerType{{ID: 1, Name: "Backpacker"}, {ID: 2, Name: "Family"}, {ID: 3, Name: "Luxury"}}, nil
}

func (m *memoryReference) CountTravellerTypes(ctx context.Context, ids []int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range ids {
		if m.travellerTypes[id] {
			n++
		}
	}
	return n, nil
}

func (m *memoryReference) DestinationTypeExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[id], nil
}

func (m *memoryReference) CountryExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.countries {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryReference) UpsertCountries(ctx context.Context, countries []domain.Country) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, append([]domain.Country(nil), countries...))
	seen := map[string]bool{}
	for _, c := range countries {
		seen[c.ISOCode] = true
		existing, ok := m.countries[c.ISOCode]
		if !ok {
			existing = domain.Country{ID: int64(len(m.countries) + 1), ISOCode: c.ISOCode}
		}
		existing.Name = c.Name
		existing.IsValid = true
		m.countries[c.ISOCode] = existing
	}
	for code, c := range m.countries {
		if !seen[code] {
			c.IsValid = false
			m.countries[code] = c
		}
	}
	return len(countries), nil
}

type memoryUsers struct {
	mu     sync.Mutex
	users  map[uuid.UUID]domain.User
	emails map[string]uuid.UUID
}

func newMemoryUsers(users ...domain.User) *memoryUsers {
	m := &memoryUsers{users: map[uuid.UUID]domain.User{}, emails: map[string]uuid.UUID{}}
	for _, u := range users {
		m.users[u.ID] = u
		if u.Email != "" {
			m.emails[u.Email] = u.ID
		}
	}
	return m
}

func (m *memoryUsers) CreateEmailUser(ctx context.Context, email string, username *string, hash, salt []byte) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.emails[email]; ok {
		return nil, errUniqueViolation
	}
	u := domain.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: append([]byte(nil), hash...),
		PasswordSalt: append([]byte(nil), salt...),
		CreatedAt:    time.Now(),
	}
	m.users[u.ID] = u
	m.emails[email] = u.ID
	return &u, nil
}

func (m *memoryUsers) UpsertGoogleUser(ctx context.Context, email string, fullName, imageURL *string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.emails[email]
	u := m.users[id]
	if !ok {
		u = domain.User{ID: uuid.New(), Email: email, CreatedAt: time.Now()}
		m.emails[email] = u.ID
	}
	u.FullName = fullName
	u.ImageURL = imageURL
	m.users[u.ID] = u
	return &u, nil
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.emails[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u := m.users[id]
	return &u, nil
}

func (m *memoryUsers) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

type memoryRoles struct {
	mu        sync.Mutex
	roles     map[string]domain.Role
	userRoles map[uuid.UUID]map[uuid.UUID]bool
}

func newMemoryRoles() *memoryRoles {
	return &memoryRoles{roles: map[string]domain.Role{}, userRoles: map[uuid.UUID]map[uuid.UUID]bool{}}
}

func (m *memoryRoles) GetOrCreateRole(ctx context.Context, name, description string) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[name]
	if !ok {
		r = domain.Role{ID: uuid.New(), Name: name}
		m.roles[name] = r
	}
	return &r, nil
}

func (m *memoryRoles) AssignUserRole(ctx context.Context, userID, roleID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userRoles[userID] == nil {
		m.userRoles[userID] = map[uuid.UUID]bool{}
	}
	m.userRoles[userID][roleID] = true
	return nil
}

func (m *memoryRoles) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Role
	for _, r := range m.roles {
		if m.userRoles[userID][r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]domain.Session{}}
}

func (m *memorySessions) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := domain.Session{ID: int64(len(m.sessions) + 1), UserID: userID, Token: token, CreatedAt: time.Now(), ExpiresAt: expiresAt}
	m.sessions[token] = s
	return &s, nil
}

func (m *memorySessions) RevokeSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	s.RevokedAt = &now
	m.sessions[token] = s
	return nil
}

func (m *memorySessions) FindActiveSession(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || !s.Active(time.Now()) {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

type memoryStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	failKeys  map[string]bool
	uploadErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, failKeys: map[string]bool{}}
}

func (m *memoryStorage) Upload(ctx context.Context, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = data
	return "https://cdn.example.com/" + objectName, nil
}

func (m *memoryStorage) Remove(ctx context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failKeys[objectName] {
		return errors.New("storage offline")
	}
	delete(m.objects, objectName)
	return nil
}

func (m *memoryStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

type snapshotter interface {
	snapshot() (restore func())
}

// inlineTx runs fn directly and, when fn fails, puts every registered table
// back the way it was before fn ran.
type inlineTx struct {
	calls      int
	rolledBack int
	tables     []snapshotter
}

func (t *inlineTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	restores := make([]func(), 0, len(t.tables))
	for _, table := range t.tables {
		restores = append(restores, table.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		t.rolledBack++
		return err
	}
	return nil
}

type stubProcessor struct {
	err   error
	calls int
}

func (s *stubProcessor) Render(ctx context.Context, upload media.Upload, opts media.Options) (*media.Variants, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, err
	}
	return &media.Variants{
		Full:      media.Rendition{Bytes: data, ContentType: upload.ContentType, Width: 800, Height: 600},
		Thumbnail: media.Rendition{Bytes: bytes.Repeat([]byte{1}, 4), ContentType: upload.ContentType, Width: 320, Height: 240, Resized: true},
	}, nil
}

// fixture wires every service against the memory fakes.
type fixture struct {
	destinations *memoryDestinations
	photos       *memoryPhotos
	links        *memoryLinks
	proposals    *memoryProposals
	trips        *memoryTrips
	hunts        *memoryTreasureHunts
	reference    *memoryReference
	users        *memoryUsers
	storage      *memoryStorage
	tx           *inlineTx
	processor    *stubProcessor
	lifecycle    *LifecycleManager
	clock        *fakeClock

	destinationSvc *DestinationService
	photoSvc       *PhotoService
	proposalSvc    *ProposalService
	tripSvc        *TripService
	huntSvc        *TreasureHuntService

	admin Actor
	user1 Actor
	user2 Actor
	user3 Actor
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFixture() *fixture {
	f := &fixture{
		destinations: newMemoryDestinations(),
		photos:       newMemoryPhotos(),
		proposals:    newMemoryProposals(),
		trips:        newMemoryTrips(),
		hunts:        newMemoryTreasureHunts(),
		reference:    newMemoryReference(),
		storage:      newMemoryStorage(),
		tx:           &inlineTx{},
		processor:    &stubProcessor{},
		clock:        &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		admin:        Actor{ID: uuid.New(), Admin: true},
		user1:        Actor{ID: uuid.New()},
		user2:        Actor{ID: uuid.New()},
		user3:        Actor{ID: uuid.New()},
	}
	f.links = newMemoryLinks(f.photos)
	f.tx.tables = []snapshotter{f.destinations, f.photos, f.links, f.proposals}
	f.users = newMemoryUsers(
		domain.User{ID: f.admin.ID, Email: "admin@example.com"},
		domain.User{ID: f.user1.ID, Email: "one@example.com"},
		domain.User{ID: f.user2.ID, Email: "two@example.com"},
		domain.User{ID: f.user3.ID, Email: "three@example.com"},
	)
	f.lifecycle = NewLifecycleManager(
		LifecycleConfig{Storage: f.storage},
		KindStore{Kind: domain.EntityDestinationPhoto, Store: f.links},
		KindStore{Kind: domain.EntityProposal, Store: f.proposals},
		KindStore{Kind: domain.EntityPhoto, Store: f.photos},
		KindStore{Kind: domain.EntityDestination, Store: f.destinations},
	)
	f.lifecycle.SetClock(f.clock.Now)

	f.destinationSvc = NewDestinationService(f.destinations, f.links, f.reference, f.users, f.tx, f.lifecycle, DestinationServiceConfig{})
	f.photoSvc = NewPhotoService(f.photos, f.links, f.destinations, f.storage, f.tx, f.lifecycle, PhotoServiceConfig{Processor: f.processor})
	f.proposalSvc = NewProposalService(f.proposals, f.destinations, f.reference, f.users, f.tx, f.lifecycle, ProposalServiceConfig{})
	f.tripSvc = NewTripService(f.trips, f.destinations, f.tx)
	f.huntSvc = NewTreasureHuntService(f.hunts, f.destinations, nil)
	f.huntSvc.SetClock(f.clock.Now)
	return f
}

func strPtr(v string) *string { return &v }

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }

// destinationInput describes "Test City", a city in Peru.
func destinationInput(public bool) DestinationInput {
	return DestinationInput{
		Name:      strPtr("Test City"),
		TypeID:    int64Ptr(1),
		CountryID: int64Ptr(1),
		IsPublic:  boolPtr(public),
	}
}
