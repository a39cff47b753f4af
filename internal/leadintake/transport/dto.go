package transport

import (
	"time"

	"github.com/google/uuid"
)

// SubmitLeadRequest is the lead submission wire contract. External
// business-notification tooling depends on these exact field names; do not
// rename them.
type SubmitLeadRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"required,min=5,max=20"`
	CityID    string `json:"city_id" validate:"required,uuid4"`
	CityName  string `json:"city_name" validate:"omitempty,max=100"`
	StateAbbr string `json:"state_abbr" validate:"omitempty,len=2"`
	Message   string `json:"message" validate:"omitempty,max=2000"`
}

// SubmitLeadResponse acknowledges an accepted lead.
type SubmitLeadResponse struct {
	ID          uuid.UUID `json:"id"`
	State       string    `json:"state"`
	SubmittedAt time.Time `json:"submittedAt"`
}
