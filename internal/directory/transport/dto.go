package transport

import (
	"regexp"

	"github.com/google/uuid"

	"rolloff_directory_backend/internal/directory/repository"
)

// slugPattern matches lowercase hyphenated tokens ("fort-worth", "tx").
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a well-formed lowercase hyphenated slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// NearbyQueryRequest is the query-string contract for the nearby endpoint.
type NearbyQueryRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1"`
}

// CityResponse is the wire representation of a city record.
type CityResponse struct {
	ID         uuid.UUID `json:"id"`
	StateSlug  string    `json:"stateSlug"`
	CitySlug   string    `json:"citySlug"`
	Name       string    `json:"name"`
	StateAbbr  string    `json:"stateAbbr"`
	County     string    `json:"county"`
	Metro      *string   `json:"metro,omitempty"`
	Population int       `json:"population"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Intro      *string   `json:"intro,omitempty"`
}

// BusinessResponse is the wire representation of a business listing.
type BusinessResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       *string   `json:"phone,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	ReviewCount int       `json:"reviewCount"`
	Tier        string    `json:"tier"`
}

// PricingRowResponse is the wire representation of a curated price range.
type PricingRowResponse struct {
	SizeYards      int   `json:"sizeYards"`
	LowPriceCents  int64 `json:"lowPriceCents"`
	HighPriceCents int64 `json:"highPriceCents"`
}

// NearbyCityResponse is a nearby city with its computed distance.
type NearbyCityResponse struct {
	StateSlug     string  `json:"stateSlug"`
	CitySlug      string  `json:"citySlug"`
	Name          string  `json:"name"`
	StateAbbr     string  `json:"stateAbbr"`
	DistanceMiles float64 `json:"distanceMiles"`
}

// DirectoryViewResponse is the composed read model one directory page needs.
// Degraded lists the sub-fetches that failed and were replaced with empty
// results; an empty list means the view is complete.
type DirectoryViewResponse struct {
	City          CityResponse         `json:"city"`
	Businesses    []BusinessResponse   `json:"businesses"`
	Pricing       []PricingRowResponse `json:"pricing"`
	NearbyCities  []NearbyCityResponse `json:"nearbyCities"`
	AverageRating *float64             `json:"averageRating,omitempty"`
	Degraded      []string             `json:"degraded,omitempty"`
}

// ToCityResponse maps a repository city to its wire representation.
func ToCityResponse(c repository.City) CityResponse {
	return CityResponse{
		ID:         c.ID,
		StateSlug:  c.StateSlug,
		CitySlug:   c.CitySlug,
		Name:       c.Name,
		StateAbbr:  c.StateAbbr,
		County:     c.County,
		Metro:      c.Metro,
		Population: c.Population,
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
		Intro:      c.Intro,
	}
}

// ToBusinessResponses maps businesses preserving their order.
func ToBusinessResponses(businesses []repository.Business) []BusinessResponse {
	out := make([]BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, BusinessResponse{
			ID:          b.ID,
			Name:        b.Name,
			Address:     b.Address,
			Phone:       b.Phone,
			Website:     b.Website,
			Rating:      b.Rating,
			ReviewCount: b.ReviewCount,
			Tier:        string(b.Tier),
		})
	}
	return out
}

// ToPricingResponses maps pricing rows preserving their order.
func ToPricingResponses(rows []repository.PricingRow) []PricingRowResponse {
	out := make([]PricingRowResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, PricingRowResponse{
			SizeYards:      p.SizeYards,
			LowPriceCents:  p.LowPriceCents,
			HighPriceCents: p.HighPriceCents,
		})
	}
	return out
}
