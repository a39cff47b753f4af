// Package events defines the application's domain events.
package events

import (
	"github.com/google/uuid"

	platformevents "rolloff_directory_backend/platform/events"
)

// LeadSubmitted is published after a validated lead has been handed to the
// delivery queue.
type LeadSubmitted struct {
	platformevents.BaseEvent
	LeadID    uuid.UUID
	CityID    uuid.UUID
	CitySlug  string
	StateSlug string
}

// EventName returns the unique identifier for the event type.
func (e LeadSubmitted) EventName() string { return "leadintake.lead.submitted" }

// LeadDeliveryFailed is published when a validated lead could not be handed
// to the delivery queue.
type LeadDeliveryFailed struct {
	platformevents.BaseEvent
	LeadID uuid.UUID
	Reason string
}

// EventName returns the unique identifier for the event type.
func (e LeadDeliveryFailed) EventName() string { return "leadintake.lead.delivery_failed" }
