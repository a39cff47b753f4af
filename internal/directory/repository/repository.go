package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rolloff_directory_backend/platform/apperr"
)

const cityNotFoundMessage = "city not found"

// tierRankSQL mirrors the declarative comparator in the service layer.
// Keep the two in sync; the comparator test is the source of truth.
const tierRankSQL = `CASE tier WHEN 'featured' THEN 2 WHEN 'verified' THEN 1 ELSE 0 END`

// Repo implements the directory repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new directory repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetCityBySlug retrieves the unique city for a (state, city) slug pair.
func (r *Repo) GetCityBySlug(ctx context.Context, stateSlug, citySlug string) (City, error) {
	query := `
		SELECT id, state_slug, city_slug, name, state_abbr, county, metro,
			population, latitude, longitude, intro
		FROM cities
		WHERE state_slug = $1 AND city_slug = $2`

	var city City
	if err := r.pool.QueryRow(ctx, query, stateSlug, citySlug).Scan(
		&city.ID, &city.StateSlug, &city.CitySlug, &city.Name, &city.StateAbbr,
		&city.County, &city.Metro, &city.Population, &city.Latitude,
		&city.Longitude, &city.Intro,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return City{}, apperr.NotFound(cityNotFoundMessage)
		}
		return City{}, fmt.Errorf("get city by slug: %w", err)
	}

	return city, nil
}

// GetCityByID retrieves a city by primary key.
func (r *Repo) GetCityByID(ctx context.Context, id uuid.UUID) (City, error) {
	query := `
		SELECT id, state_slug, city_slug, name, state_abbr, county, metro,
			population, latitude, longitude, intro
		FROM cities
		WHERE id = $1`

	var city City
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&city.ID, &city.StateSlug, &city.CitySlug, &city.Name, &city.StateAbbr,
		&city.County, &city.Metro, &city.Population, &city.Latitude,
		&city.Longitude, &city.Intro,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return City{}, apperr.NotFound(cityNotFoundMessage)
		}
		return City{}, fmt.Errorf("get city by id: %w", err)
	}

	return city, nil
}

// ListBusinessesByCity lists a city's businesses in display order.
// The ORDER BY encodes the paid-tier ordering policy: tier rank desc,
// rating desc with unrated last, review count desc, id asc for determinism.
func (r *Repo) ListBusinessesByCity(ctx context.Context, cityID uuid.UUID) ([]Business, error) {
	query := fmt.Sprintf(`
		SELECT id, city_id, name, address, phone, website, contact_email, rating, review_count, tier
		FROM businesses
		WHERE city_id = $1
		ORDER BY %s DESC, rating DESC NULLS LAST, review_count DESC, id ASC`, tierRankSQL)

	rows, err := r.pool.Query(ctx, query, cityID)
	if err != nil {
		return nil, fmt.Errorf("list businesses by city: %w", err)
	}
	defer rows.Close()

	businesses := make([]Business, 0)
	for rows.Next() {
		var b Business
		if err := rows.Scan(
			&b.ID, &b.CityID, &b.Name, &b.Address, &b.Phone, &b.Website,
			&b.ContactEmail, &b.Rating, &b.ReviewCount, &b.Tier,
		); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list businesses by city: %w", err)
	}

	return businesses, nil
}

// ListCityPricing lists curated pricing rows for a city by size ascending.
func (r *Repo) ListCityPricing(ctx context.Context, cityID uuid.UUID) ([]PricingRow, error) {
	query := `
		SELECT city_id, size_yards, low_price_cents, high_price_cents
		FROM city_pricing
		WHERE city_id = $1
		ORDER BY size_yards ASC`

	rows, err := r.pool.Query(ctx, query, cityID)
	if err != nil {
		return nil, fmt.Errorf("list city pricing: %w", err)
	}
	defer rows.Close()

	pricing := make([]PricingRow, 0)
	for rows.Next() {
		var p PricingRow
		if err := rows.Scan(&p.CityID, &p.SizeYards, &p.LowPriceCents, &p.HighPriceCents); err != nil {
			return nil, fmt.Errorf("scan pricing row: %w", err)
		}
		pricing = append(pricing, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list city pricing: %w", err)
	}

	return pricing, nil
}

// ListCandidateCities returns every city except excludeID, projected to
// the fields the proximity scan needs. A full-table scan is acceptable at
// this dataset's scale (tens of thousands of rows).
func (r *Repo) ListCandidateCities(ctx context.Context, excludeID uuid.UUID) ([]CandidateCity, error) {
	query := `
		SELECT id, state_slug, city_slug, name, state_abbr, population, latitude, longitude
		FROM cities
		WHERE id <> $1`

	rows, err := r.pool.Query(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list candidate cities: %w", err)
	}
	defer rows.Close()

	candidates := make([]CandidateCity, 0)
	for rows.Next() {
		var c CandidateCity
		if err := rows.Scan(
			&c.ID, &c.StateSlug, &c.CitySlug, &c.Name, &c.StateAbbr,
			&c.Population, &c.Latitude, &c.Longitude,
		); err != nil {
			return nil, fmt.Errorf("scan candidate city: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candidate cities: %w", err)
	}

	return candidates, nil
}
