package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/repository/ports"
)

// CountrySource provides the authoritative country list.
type CountrySource interface {
	FetchCountries(ctx context.Context) ([]domain.Country, error)
}

type ReferenceService struct {
	reference ports.ReferenceRepository
	source    CountrySource
	log       logrus.FieldLogger
}

func NewReferenceService(reference ports.ReferenceRepository, source CountrySource, logger logrus.FieldLogger) *ReferenceService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReferenceService{
		reference: reference,
		source:    source,
		log:       logger.WithField("component", "reference"),
	}
}

func (s *ReferenceService) ListCountries(ctx context.Context) ([]domain.Country, error) {
	items, err := s.reference.ListCountries(ctx)
	if err != nil {
		return nil, storageErr("list countries", err)
	}
	return items, nil
}

func (s *ReferenceService) ListDestinationTypes(ctx context.Context) ([]domain.DestinationType, error) {
	items, err := s.reference.ListDestinationTypes(ctx)
	if err != nil {
		return nil, storageErr("list destination types", err)
	}
	return items, nil
}

func (s *ReferenceService) ListTravellerTypes(ctx context.Context) ([]domain.TravellerType, error) {
	items, err := s.reference.ListTravellerTypes(ctx)
	if err != nil {
		return nil, storageErr("list traveller types", err)
	}
	return items, nil
}

// SyncCountries refreshes the country table from the configured source.
// Countries the source no longer lists stay in place but are marked invalid.
func (s *ReferenceService) SyncCountries(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, nil
	}
	fetched, err := s.source.FetchCountries(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch countries: %w", err)
	}

	seen := make(map[string]struct{}, len(fetched))
	batch := make([]domain.Country, 0, len(fetched))
	for _, c := range fetched {
		code := strings.ToUpper(strings.TrimSpace(c.ISOCode))
		name := strings.TrimSpace(c.Name)
		if code == "" || name == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		batch = append(batch, domain.Country{Name: name, ISOCode: code, IsValid: true})
	}
	// An empty response would invalidate every country.
	if len(batch) == 0 {
		return 0, fmt.Errorf("fetch countries: source returned no usable countries")
	}

	n, err := s.reference.UpsertCountries(ctx, batch)
	if err != nil {
		return 0, storageErr("upsert countries", err)
	}
	s.log.WithField("countries", n).Info("country list synchronised")
	return n, nil
}
