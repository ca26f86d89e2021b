package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

const DefaultSoftDeleteTTL = time.Hour

type LifecycleConfig struct {
	TTL time.Duration
	// Storage removes photo blobs during the purge sweep.
	Storage ports.ObjectStorage
	Logger  logrus.FieldLogger
}

// LifecycleManager moves deletable entities between active, soft-deleted and
// purged.
type LifecycleManager struct {
	stores  map[domain.EntityKind]ports.SoftDeleteStore
	order   []domain.EntityKind
	storage ports.ObjectStorage
	ttl     time.Duration
	now     func() time.Time
	log     logrus.FieldLogger
}

// KindStore pairs an entity kind with the store that owns its rows. Kinds are
// swept in the order given.
type KindStore struct {
	Kind  domain.EntityKind
	Store ports.SoftDeleteStore
}

func NewLifecycleManager(cfg LifecycleConfig, stores ...KindStore) *LifecycleManager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSoftDeleteTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	m := &LifecycleManager{
		stores:  make(map[domain.EntityKind]ports.SoftDeleteStore, len(stores)),
		storage: cfg.Storage,
		ttl:     ttl,
		now:     time.Now,
		log:     logger.WithField("component", "lifecycle"),
	}
	for _, ks := range stores {
		m.stores[ks.Kind] = ks.Store
		m.order = append(m.order, ks.Kind)
	}
	return m
}

func (m *LifecycleManager) SetClock(now func() time.Time) {
	if now == nil {
		m.now = time.Now
		return
	}
	m.now = now
}

func (m *LifecycleManager) store(kind domain.EntityKind) (ports.SoftDeleteStore, error) {
	s, ok := m.stores[kind]
	if !ok {
		return nil, fmt.Errorf("lifecycle: no store registered for %s", kind)
	}
	return s, nil
}

// Delete soft-deletes the entity and returns the moment it becomes eligible
// for purging. Callers check authorisation first.
func (m *LifecycleManager) Delete(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (time.Time, error) {
	s, err := m.store(kind)
	if err != nil {
		return time.Time{}, err
	}
	expiry := m.now().Add(m.ttl)
	if err := s.SoftDelete(ctx, id, expiry); err != nil {
		return time.Time{}, lookupErr("soft delete "+string(kind), err, notFoundFor(kind))
	}
	return expiry, nil
}

// Undo restores a soft-deleted entity. deleted is the entity's current flag
// as read by the caller; undoing an active entity is rejected untouched.
func (m *LifecycleManager) Undo(ctx context.Context, kind domain.EntityKind, id uuid.UUID, deleted bool) error {
	if !deleted {
		return fmt.Errorf("%w: %s has not been deleted", ErrBadRequest, kind)
	}
	s, err := m.store(kind)
	if err != nil {
		return err
	}
	if err := s.Restore(ctx, id); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateConflict
		}
		return lookupErr("restore "+string(kind), err, notFoundFor(kind))
	}
	return nil
}

type PurgeCount struct {
	Purged int `json:"purged"`
	Failed int `json:"failed"`
}

type PurgeReport struct {
	StartedAt time.Time                        `json:"started_at"`
	Counts    map[domain.EntityKind]PurgeCount `json:"counts"`
}

func (r PurgeReport) Failed() int {
	total := 0
	for _, c := range r.Counts {
		total += c.Failed
	}
	return total
}

// PurgeSweep permanently removes every soft-deleted entity whose expiry is
// strictly before now. Rows whose blobs cannot be removed are left for the next
// sweep; no single failure stops the sweep.
func (m *LifecycleManager) PurgeSweep(ctx context.Context) PurgeReport {
	now := m.now()
	report := PurgeReport{StartedAt: now, Counts: make(map[domain.EntityKind]PurgeCount, len(m.order))}

	for _, kind := range m.order {
		count := PurgeCount{}
		entry := m.log.WithField("kind", kind)

		records, err := m.stores[kind].ListExpired(ctx, now)
		if err != nil {
			entry.WithError(err).Error("list expired records")
			count.Failed++
			report.Counts[kind] = count
			continue
		}

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				entry.WithError(err).Warn("purge sweep interrupted")
				report.Counts[kind] = count
				return report
			}
			if err := m.purgeOne(ctx, kind, rec); err != nil {
				entry.WithError(err).WithField("id", rec.ID).Warn("purge failed")
				count.Failed++
				continue
			}
			count.Purged++
		}

		report.Counts[kind] = count
		entry.WithFields(logrus.Fields{
			"purged": count.Purged,
			"failed": count.Failed,
		}).Info("purge sweep finished")
	}
	return report
}

func (m *LifecycleManager) purgeOne(ctx context.Context, kind domain.EntityKind, rec domain.ExpiredRecord) error {
	if len(rec.ObjectKeys) > 0 {
		if m.storage == nil {
			return fmt.Errorf("no object storage configured for %d blobs", len(rec.ObjectKeys))
		}
		for _, key := range rec.ObjectKeys {
			if err := m.storage.Remove(ctx, key); err != nil {
				return fmt.Errorf("remove blob %s: %w", key, err)
			}
		}
	}
	if err := m.stores[kind].Purge(ctx, rec.ID); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func notFoundFor(kind domain.EntityKind) error {
	switch kind {
	case domain.EntityDestination:
		return ErrDestinationNotFound
	case domain.EntityDestinationPhoto, domain.EntityPhoto:
		return ErrPhotoNotFound
	case domain.EntityProposal:
		return ErrProposalNotFound
	default:
		return ErrNotFound
	}
}
