package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskLeadDelivery notifies a city's listed businesses about a new lead.
const TaskLeadDelivery = "leads.delivery"

// LeadDeliveryPayload identifies the lead to deliver. The worker re-reads
// the lead and the city's businesses at processing time so retries always
// see current data.
type LeadDeliveryPayload struct {
	LeadID string `json:"leadId"`
}

// NewLeadDeliveryTask builds the asynq task for a lead delivery.
func NewLeadDeliveryTask(payload LeadDeliveryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadDelivery, data), nil
}

// ParseLeadDeliveryPayload decodes a lead delivery task payload.
func ParseLeadDeliveryPayload(task *asynq.Task) (LeadDeliveryPayload, error) {
	var payload LeadDeliveryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadDeliveryPayload{}, err
	}
	return payload, nil
}
