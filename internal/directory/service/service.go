package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"rolloff_directory_backend/internal/directory/repository"
	"rolloff_directory_backend/internal/directory/transport"
	"rolloff_directory_backend/platform/apperr"
	"rolloff_directory_backend/platform/config"
	"rolloff_directory_backend/platform/logger"
)

const storeUnavailableMessage = "directory store unavailable"

// Service provides the directory read model: city resolution, ordered
// business listings, curated pricing, and nearby-city ranking.
type Service struct {
	repo         repository.Repository
	log          *logger.Logger
	fetchTimeout time.Duration
}

// New creates a new directory service.
func New(repo repository.Repository, cfg config.DirectoryConfig, log *logger.Logger) *Service {
	return &Service{
		repo:         repo,
		log:          log,
		fetchTimeout: cfg.GetFetchTimeout(),
	}
}

// storeError passes typed domain errors through untouched and wraps
// everything else (connection loss, timeout) as store-unavailable, so
// callers can tell "no such city" from "could not ask".
func storeError(op string, err error) error {
	if apperr.GetKind(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Wrap(apperr.KindUnavailable, storeUnavailableMessage, err).WithOp(op)
}

// GetCityBySlug resolves a city by its (state, city) slug pair.
// A city with zero businesses still resolves; NotFound means the city
// itself is unknown.
func (s *Service) GetCityBySlug(ctx context.Context, stateSlug, citySlug string) (repository.City, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	city, err := s.repo.GetCityBySlug(fctx, stateSlug, citySlug)
	if err != nil {
		return repository.City{}, storeError("directory.GetCityBySlug", err)
	}
	return city, nil
}

// ListBusinessesByCity returns a city's businesses in display order.
// An empty result is valid, not an error.
func (s *Service) ListBusinessesByCity(ctx context.Context, cityID uuid.UUID) ([]repository.Business, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	businesses, err := s.repo.ListBusinessesByCity(fctx, cityID)
	if err != nil {
		return nil, storeError("directory.ListBusinessesByCity", err)
	}

	// The repository already orders rows; re-applying the comparator keeps
	// the policy definition in one auditable place.
	sortBusinesses(businesses)
	return businesses, nil
}

// ListCityPricing returns curated pricing for a city, one row per size.
// Empty means no curated pricing; the caller falls back to a national
// estimate, which is a presentational concern.
func (s *Service) ListCityPricing(ctx context.Context, cityID uuid.UUID) ([]repository.PricingRow, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	pricing, err := s.repo.ListCityPricing(fctx, cityID)
	if err != nil {
		return nil, storeError("directory.ListCityPricing", err)
	}
	return pricing, nil
}

// NearbyCities returns up to limit cities nearest to (lat, lon), excluding
// the reference city itself. It never fails on valid-but-meaningless
// coordinates such as the (0, 0) sentinel.
func (s *Service) NearbyCities(ctx context.Context, cityID uuid.UUID, lat, lon float64, limit int) ([]transport.NearbyCityResponse, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	candidates, err := s.repo.ListCandidateCities(fctx, cityID)
	if err != nil {
		return nil, storeError("directory.NearbyCities", err)
	}

	ranked := nearestCities(lat, lon, candidates, limit)
	out := make([]transport.NearbyCityResponse, 0, len(ranked))
	for _, n := range ranked {
		out = append(out, transport.NearbyCityResponse{
			StateSlug:     n.StateSlug,
			CitySlug:      n.CitySlug,
			Name:          n.Name,
			StateAbbr:     n.StateAbbr,
			DistanceMiles: math.Round(n.DistanceMiles*10) / 10,
		})
	}
	return out, nil
}

// averageRating is the mean of present ratings rounded to one decimal.
// Unrated businesses are excluded from both numerator and denominator;
// nil means no business is rated (distinct from 0.0).
func averageRating(businesses []repository.Business) *float64 {
	var sum float64
	var count int
	for _, b := range businesses {
		if b.Rating != nil {
			sum += *b.Rating
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := math.Round(sum/float64(count)*10) / 10
	return &avg
}
