// Package adapters wires cross-module dependencies behind each module's
// own port interfaces, keeping the bounded contexts decoupled.
package adapters

import (
	"context"

	"github.com/google/uuid"

	"rolloff_directory_backend/internal/directory/repository"
	"rolloff_directory_backend/internal/leadintake/ports"
)

// DirectoryCityResolver adapts the directory repository to the lead
// intake module's CityResolver port.
type DirectoryCityResolver struct {
	repo repository.Repository
}

// NewDirectoryCityResolver creates the adapter.
func NewDirectoryCityResolver(repo repository.Repository) *DirectoryCityResolver {
	return &DirectoryCityResolver{repo: repo}
}

// ResolveCity looks up a city by id and projects it down to the slice
// lead intake needs.
func (a *DirectoryCityResolver) ResolveCity(ctx context.Context, id uuid.UUID) (ports.TargetCity, error) {
	city, err := a.repo.GetCityByID(ctx, id)
	if err != nil {
		return ports.TargetCity{}, err
	}
	return ports.TargetCity{
		ID:        city.ID,
		Name:      city.Name,
		StateAbbr: city.StateAbbr,
		CitySlug:  city.CitySlug,
		StateSlug: city.StateSlug,
	}, nil
}

// Compile-time check that the adapter implements the port.
var _ ports.CityResolver = (*DirectoryCityResolver)(nil)
