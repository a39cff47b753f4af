package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"rolloff_directory_backend/internal/directory/repository"
	"rolloff_directory_backend/platform/apperr"
	"rolloff_directory_backend/platform/logger"
)

type stubDirectoryConfig struct{}

func (stubDirectoryConfig) GetFetchTimeout() time.Duration { return 3 * time.Second }
func (stubDirectoryConfig) GetNearbyLimit() int            { return 5 }
func (stubDirectoryConfig) GetNearbyLimitMax() int         { return 25 }

// fakeRepo lets each test inject per-operation behavior.
type fakeRepo struct {
	getCityBySlug       func(ctx context.Context, stateSlug, citySlug string) (repository.City, error)
	getCityByID         func(ctx context.Context, id uuid.UUID) (repository.City, error)
	listBusinesses      func(ctx context.Context, cityID uuid.UUID) ([]repository.Business, error)
	listPricing         func(ctx context.Context, cityID uuid.UUID) ([]repository.PricingRow, error)
	listCandidateCities func(ctx context.Context, excludeID uuid.UUID) ([]repository.CandidateCity, error)
}

func (f *fakeRepo) GetCityBySlug(ctx context.Context, stateSlug, citySlug string) (repository.City, error) {
	return f.getCityBySlug(ctx, stateSlug, citySlug)
}

func (f *fakeRepo) GetCityByID(ctx context.Context, id uuid.UUID) (repository.City, error) {
	return f.getCityByID(ctx, id)
}

func (f *fakeRepo) ListBusinessesByCity(ctx context.Context, cityID uuid.UUID) ([]repository.Business, error) {
	return f.listBusinesses(ctx, cityID)
}

func (f *fakeRepo) ListCityPricing(ctx context.Context, cityID uuid.UUID) ([]repository.PricingRow, error) {
	return f.listPricing(ctx, cityID)
}

func (f *fakeRepo) ListCandidateCities(ctx context.Context, excludeID uuid.UUID) ([]repository.CandidateCity, error) {
	return f.listCandidateCities(ctx, excludeID)
}

var _ repository.Repository = (*fakeRepo)(nil)

func austin() repository.City {
	return repository.City{
		ID:         uuid.MustParse("0195f2a0-0000-4000-8000-000000000001"),
		StateSlug:  "tx",
		CitySlug:   "austin",
		Name:       "Austin",
		StateAbbr:  "TX",
		County:     "Travis",
		Population: 960000,
		Latitude:   30.2672,
		Longitude:  -97.7431,
	}
}

func healthyRepo() *fakeRepo {
	city := austin()
	return &fakeRepo{
		getCityBySlug: func(ctx context.Context, stateSlug, citySlug string) (repository.City, error) {
			if stateSlug == city.StateSlug && citySlug == city.CitySlug {
				return city, nil
			}
			return repository.City{}, apperr.NotFound("city not found")
		},
		getCityByID: func(ctx context.Context, id uuid.UUID) (repository.City, error) {
			return city, nil
		},
		listBusinesses: func(ctx context.Context, cityID uuid.UUID) ([]repository.Business, error) {
			return []repository.Business{
				{ID: uuid.New(), CityID: cityID, Name: "Alpha Haulers", Tier: repository.TierFeatured, Rating: rating(5.0), ReviewCount: 40},
				{ID: uuid.New(), CityID: cityID, Name: "Budget Bins", Tier: repository.TierFree, Rating: rating(4.0), ReviewCount: 10},
				{ID: uuid.New(), CityID: cityID, Name: "No Stars Yet", Tier: repository.TierFree},
			}, nil
		},
		listPricing: func(ctx context.Context, cityID uuid.UUID) ([]repository.PricingRow, error) {
			return []repository.PricingRow{
				{CityID: cityID, SizeYards: 10, LowPriceCents: 29900, HighPriceCents: 39900},
				{CityID: cityID, SizeYards: 20, LowPriceCents: 39900, HighPriceCents: 54900},
			}, nil
		},
		listCandidateCities: func(ctx context.Context, excludeID uuid.UUID) ([]repository.CandidateCity, error) {
			return []repository.CandidateCity{
				candidate("round-rock", 120000, 30.5083, -97.6789),
				candidate("san-marcos", 67000, 29.8833, -97.9414),
			}, nil
		},
	}
}

func newTestService(repo *fakeRepo) *Service {
	return New(repo, stubDirectoryConfig{}, logger.New("test"))
}

func TestGetCityDirectoryViewComplete(t *testing.T) {
	svc := newTestService(healthyRepo())

	view, err := svc.GetCityDirectoryView(context.Background(), "tx", "austin", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.City.CitySlug != "austin" {
		t.Fatalf("got city %q, want austin", view.City.CitySlug)
	}
	if len(view.Businesses) != 3 {
		t.Fatalf("got %d businesses, want 3", len(view.Businesses))
	}
	if view.Businesses[0].Name != "Alpha Haulers" {
		t.Fatalf("featured listing must lead, got %q", view.Businesses[0].Name)
	}
	if len(view.Pricing) != 2 || view.Pricing[0].SizeYards != 10 {
		t.Fatalf("pricing not mapped in size order: %+v", view.Pricing)
	}
	if len(view.NearbyCities) != 2 || view.NearbyCities[0].CitySlug != "round-rock" {
		t.Fatalf("nearby cities not ranked by distance: %+v", view.NearbyCities)
	}
	if view.AverageRating == nil || *view.AverageRating != 4.5 {
		t.Fatalf("got average %v, want 4.5", view.AverageRating)
	}
	if view.Degraded != nil {
		t.Fatalf("complete view must not be marked degraded: %v", view.Degraded)
	}
}

func TestGetCityDirectoryViewNoBusinesses(t *testing.T) {
	repo := healthyRepo()
	repo.listBusinesses = func(ctx context.Context, cityID uuid.UUID) ([]repository.Business, error) {
		return []repository.Business{}, nil
	}
	svc := newTestService(repo)

	view, err := svc.GetCityDirectoryView(context.Background(), "tx", "austin", 5)
	if err != nil {
		t.Fatalf("a city with zero businesses must still resolve: %v", err)
	}
	if view.Businesses == nil || len(view.Businesses) != 0 {
		t.Fatalf("want empty non-nil businesses, got %v", view.Businesses)
	}
	if view.AverageRating != nil {
		t.Fatalf("average must be absent with no listings, got %v", *view.AverageRating)
	}
	if view.Degraded != nil {
		t.Fatalf("an empty result is not a degraded result")
	}
}

func TestGetCityDirectoryViewDegradedFetch(t *testing.T) {
	repo := healthyRepo()
	repo.listPricing = func(ctx context.Context, cityID uuid.UUID) ([]repository.PricingRow, error) {
		return nil, errors.New("connection reset")
	}
	svc := newTestService(repo)

	view, err := svc.GetCityDirectoryView(context.Background(), "tx", "austin", 5)
	if err != nil {
		t.Fatalf("a failed sub-fetch must not fail the view: %v", err)
	}
	if len(view.Degraded) != 1 || view.Degraded[0] != "pricing" {
		t.Fatalf("got degraded %v, want [pricing]", view.Degraded)
	}
	if len(view.Pricing) != 0 {
		t.Fatalf("degraded field must come back empty, got %+v", view.Pricing)
	}
	if len(view.Businesses) != 3 {
		t.Fatalf("healthy fields must survive a sibling failure")
	}
}

func TestGetCityDirectoryViewAllDependentFetchesFail(t *testing.T) {
	repo := healthyRepo()
	boom := errors.New("store down")
	repo.listBusinesses = func(ctx context.Context, cityID uuid.UUID) ([]repository.Business, error) { return nil, boom }
	repo.listPricing = func(ctx context.Context, cityID uuid.UUID) ([]repository.PricingRow, error) { return nil, boom }
	repo.listCandidateCities = func(ctx context.Context, excludeID uuid.UUID) ([]repository.CandidateCity, error) { return nil, boom }
	svc := newTestService(repo)

	view, err := svc.GetCityDirectoryView(context.Background(), "tx", "austin", 5)
	if err != nil {
		t.Fatalf("the city alone is enough to serve a page: %v", err)
	}

	want := []string{"businesses", "pricing", "nearbyCities"}
	if len(view.Degraded) != len(want) {
		t.Fatalf("got degraded %v, want %v", view.Degraded, want)
	}
	for i, field := range want {
		if view.Degraded[i] != field {
			t.Fatalf("degraded[%d] = %q, want %q", i, view.Degraded[i], field)
		}
	}
	if view.NearbyCities == nil {
		t.Fatalf("nearby cities must be empty, not null")
	}
}

func TestGetCityDirectoryViewUnknownCity(t *testing.T) {
	svc := newTestService(healthyRepo())

	_, err := svc.GetCityDirectoryView(context.Background(), "tx", "nowhere", 5)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("got %v, want a not-found error", err)
	}
}

func TestGetCityDirectoryViewStoreUnavailable(t *testing.T) {
	repo := healthyRepo()
	repo.getCityBySlug = func(ctx context.Context, stateSlug, citySlug string) (repository.City, error) {
		return repository.City{}, errors.New("dial tcp: connection refused")
	}
	svc := newTestService(repo)

	_, err := svc.GetCityDirectoryView(context.Background(), "tx", "austin", 5)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("a store failure must not masquerade as not-found: %v", err)
	}
}

func TestNearbyCitiesRoundsDistance(t *testing.T) {
	svc := newTestService(healthyRepo())

	nearby, err := svc.NearbyCities(context.Background(), austin().ID, 30.2672, -97.7431, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, n := range nearby {
		rounded := float64(int(n.DistanceMiles*10+0.5)) / 10
		if n.DistanceMiles != rounded {
			t.Fatalf("distance %v not rounded to one decimal", n.DistanceMiles)
		}
	}
}
