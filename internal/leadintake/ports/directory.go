// Package ports defines the interfaces the lead intake domain requires from
// external systems. These keep the intake service decoupled from the
// directory module and the delivery queue: it only knows about the data it
// needs, formatted the way it wants.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// TargetCity is the slice of a city record lead intake needs: enough to
// confirm the city exists and to address the notification.
type TargetCity struct {
	ID        uuid.UUID
	Name      string
	StateAbbr string
	CitySlug  string
	StateSlug string
}

// CityResolver confirms that a submitted city reference points at a known
// city. The adapter composes the directory repository under the hood.
type CityResolver interface {
	// ResolveCity returns the city for the given id, or apperr.NotFound
	// when the id does not correspond to any known city.
	ResolveCity(ctx context.Context, id uuid.UUID) (TargetCity, error)
}
