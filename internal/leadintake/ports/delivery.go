package ports

import (
	"context"

	"github.com/google/uuid"
)

// LeadDelivery is the handoff to the downstream notification collaborator.
// An error from Deliver is the Submission_Failed terminal state: it must be
// reported to the caller, never masked as success.
type LeadDelivery interface {
	// Deliver queues the lead for notification to the city's businesses.
	Deliver(ctx context.Context, leadID uuid.UUID) error
}
