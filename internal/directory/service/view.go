package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"rolloff_directory_backend/internal/directory/repository"
	"rolloff_directory_backend/internal/directory/transport"
)

// Degraded-field identifiers recorded on a partial view.
const (
	fieldBusinesses = "businesses"
	fieldPricing    = "pricing"
	fieldNearby     = "nearbyCities"
)

// GetCityDirectoryView composes the full read model one directory page
// needs: the city, its ordered businesses, curated pricing, and nearby
// cities. The three dependent fetches run concurrently and join before
// composition.
//
// Partial-failure policy: a missing city fails the whole view (NotFound or
// store-unavailable). A failed dependent fetch does not; that field comes
// back empty and is named in Degraded, because a directory page with
// missing pricing is still useful.
func (s *Service) GetCityDirectoryView(ctx context.Context, stateSlug, citySlug string, nearbyLimit int) (transport.DirectoryViewResponse, error) {
	city, err := s.GetCityBySlug(ctx, stateSlug, citySlug)
	if err != nil {
		return transport.DirectoryViewResponse{}, err
	}

	var (
		businesses []repository.Business
		pricing    []repository.PricingRow
		nearby     []transport.NearbyCityResponse

		businessesErr error
		pricingErr    error
		nearbyErr     error
	)

	// Each fetch owns its timeout and reports into its own slot; the group
	// is only a join barrier, never a shared cancellation.
	var g errgroup.Group
	g.Go(func() error {
		businesses, businessesErr = s.ListBusinessesByCity(ctx, city.ID)
		return nil
	})
	g.Go(func() error {
		pricing, pricingErr = s.ListCityPricing(ctx, city.ID)
		return nil
	})
	g.Go(func() error {
		nearby, nearbyErr = s.NearbyCities(ctx, city.ID, city.Latitude, city.Longitude, nearbyLimit)
		return nil
	})
	_ = g.Wait()

	degraded := make([]string, 0, 3)
	if businessesErr != nil {
		s.log.DegradedFetch(fieldBusinesses, citySlug, businessesErr)
		degraded = append(degraded, fieldBusinesses)
		businesses = nil
	}
	if pricingErr != nil {
		s.log.DegradedFetch(fieldPricing, citySlug, pricingErr)
		degraded = append(degraded, fieldPricing)
		pricing = nil
	}
	if nearbyErr != nil {
		s.log.DegradedFetch(fieldNearby, citySlug, nearbyErr)
		degraded = append(degraded, fieldNearby)
		nearby = nil
	}

	view := transport.DirectoryViewResponse{
		City:          transport.ToCityResponse(city),
		Businesses:    transport.ToBusinessResponses(businesses),
		Pricing:       transport.ToPricingResponses(pricing),
		NearbyCities:  nearby,
		AverageRating: averageRating(businesses),
	}
	if view.NearbyCities == nil {
		view.NearbyCities = []transport.NearbyCityResponse{}
	}
	if len(degraded) > 0 {
		view.Degraded = degraded
	}
	return view, nil
}
