package repository

import (
	"context"

	"github.com/google/uuid"
)

// Tier is a business's paid listing level controlling display prominence.
type Tier string

const (
	TierFree     Tier = "free"
	TierVerified Tier = "verified"
	TierFeatured Tier = "featured"
)

// City represents a canonical city record. Cities are maintained by an
// offline ingestion process and are read-only here.
type City struct {
	ID        uuid.UUID `db:"id"`
	StateSlug string    `db:"state_slug"`
	CitySlug  string    `db:"city_slug"`
	Name      string    `db:"name"`
	StateAbbr string    `db:"state_abbr"`
	County    string    `db:"county"`
	Metro     *string   `db:"metro"`
	Population int      `db:"population"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	Intro     *string   `db:"intro"`
}

// Business represents a listed business in a city.
// Rating is nil for unrated businesses; a nil rating sorts after any
// numeric rating within the same tier.
type Business struct {
	ID          uuid.UUID `db:"id"`
	CityID      uuid.UUID `db:"city_id"`
	Name        string    `db:"name"`
	Address     string    `db:"address"`
	Phone       *string   `db:"phone"`
	Website     *string   `db:"website"`
	// ContactEmail is where lead notifications are routed. It is never
	// exposed on the public read API.
	ContactEmail *string  `db:"contact_email"`
	Rating       *float64 `db:"rating"`
	ReviewCount  int      `db:"review_count"`
	Tier         Tier     `db:"tier"`
}

// PricingRow is a curated price range for one container size in one city.
// Prices are stored in cents, low <= high.
type PricingRow struct {
	CityID        uuid.UUID `db:"city_id"`
	SizeYards     int       `db:"size_yards"`
	LowPriceCents int64     `db:"low_price_cents"`
	HighPriceCents int64    `db:"high_price_cents"`
}

// CandidateCity is the projection the nearby-city scan reads: identity,
// slugs, and coordinates only.
type CandidateCity struct {
	ID         uuid.UUID `db:"id"`
	StateSlug  string    `db:"state_slug"`
	CitySlug   string    `db:"city_slug"`
	Name       string    `db:"name"`
	StateAbbr  string    `db:"state_abbr"`
	Population int       `db:"population"`
	Latitude   float64   `db:"latitude"`
	Longitude  float64   `db:"longitude"`
}

// Repository defines directory storage operations. All operations are
// pure reads; the directory dataset is maintained offline.
type Repository interface {
	// GetCityBySlug returns the unique city for a (state, city) slug pair.
	// Returns apperr.NotFound when no such city exists.
	GetCityBySlug(ctx context.Context, stateSlug, citySlug string) (City, error)

	// GetCityByID returns a city by primary key.
	GetCityByID(ctx context.Context, id uuid.UUID) (City, error)

	// ListBusinessesByCity returns all businesses for a city ordered by
	// tier rank desc, rating desc (nulls last), review count desc, id asc.
	// An empty slice is a valid result.
	ListBusinessesByCity(ctx context.Context, cityID uuid.UUID) ([]Business, error)

	// ListCityPricing returns curated pricing rows for a city, one per
	// container size, ordered by size ascending. Empty means no curated
	// pricing exists and callers fall back to national estimates.
	ListCityPricing(ctx context.Context, cityID uuid.UUID) ([]PricingRow, error)

	// ListCandidateCities returns every city except the one identified by
	// excludeID, projected down to what the proximity scan needs.
	ListCandidateCities(ctx context.Context, excludeID uuid.UUID) ([]CandidateCity, error)
}
