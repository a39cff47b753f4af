package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"rolloff_directory_backend/internal/events"
	"rolloff_directory_backend/internal/leadintake/domain"
	"rolloff_directory_backend/internal/leadintake/ports"
	"rolloff_directory_backend/internal/leadintake/repository"
	"rolloff_directory_backend/internal/leadintake/transport"
	"rolloff_directory_backend/platform/apperr"
	"rolloff_directory_backend/platform/config"
	"rolloff_directory_backend/platform/logger"
	"rolloff_directory_backend/platform/phone"
	"rolloff_directory_backend/platform/validator"
)

const (
	msgValidationFailed = "lead validation failed"
	msgSubmissionFailed = "lead could not be submitted"
	msgStoreUnavailable = "lead store unavailable"
)

// Service runs the lead intake state machine: validate the submission,
// persist it, and hand it to the delivery queue. Validation failures and
// delivery failures are distinct error kinds and must stay that way.
type Service struct {
	repo          repository.Repository
	cities        ports.CityResolver
	delivery      ports.LeadDelivery
	bus           events.Bus
	val           *validator.Validator
	log           *logger.Logger
	submitTimeout time.Duration
}

// New creates a new lead intake service.
func New(
	repo repository.Repository,
	cities ports.CityResolver,
	delivery ports.LeadDelivery,
	bus events.Bus,
	val *validator.Validator,
	cfg config.LeadIntakeConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:          repo,
		cities:        cities,
		delivery:      delivery,
		bus:           bus,
		val:           val,
		log:           log,
		submitTimeout: cfg.GetSubmitTimeout(),
	}
}

// Submit moves a lead from Received through the intake state machine.
// On success the lead is Submitted. Validation failures reject with
// field-level details keyed by wire field names; a delivery failure is
// reported as Submission_Failed, never masked as success.
func (s *Service) Submit(ctx context.Context, req transport.SubmitLeadRequest) (transport.SubmitLeadResponse, error) {
	city, validationErr, err := s.validate(ctx, req)
	if err != nil {
		return transport.SubmitLeadResponse{}, err
	}
	if validationErr != nil {
		// Received → Rejected: terminal, nothing is persisted.
		return transport.SubmitLeadResponse{}, validationErr
	}

	// Received → Validated: persist the audit record.
	lead, err := s.repo.CreateLead(ctx, repository.CreateLeadParams{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   phone.NormalizeE164(req.Phone),
		CityID:  city.ID,
		Message: strings.TrimSpace(req.Message),
	})
	if err != nil {
		return transport.SubmitLeadResponse{}, apperr.Wrap(apperr.KindUnavailable, msgStoreUnavailable, err).WithOp("leadintake.Submit")
	}

	dctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	if err := s.delivery.Deliver(dctx, lead.ID); err != nil {
		s.advance(ctx, lead.ID, lead.State, domain.StateSubmissionFailed)
		s.log.LeadEvent("lead_delivery", lead.ID.String(), city.CitySlug, false, err.Error())
		s.bus.Publish(ctx, events.LeadDeliveryFailed{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Reason:    err.Error(),
		})
		return transport.SubmitLeadResponse{}, apperr.Wrap(apperr.KindUnavailable, msgSubmissionFailed, err).WithOp("leadintake.Submit")
	}

	s.advance(ctx, lead.ID, lead.State, domain.StateSubmitted)
	s.log.LeadEvent("lead_submitted", lead.ID.String(), city.CitySlug, true, "")
	s.bus.Publish(ctx, events.LeadSubmitted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		CityID:    city.ID,
		CitySlug:  city.CitySlug,
		StateSlug: city.StateSlug,
	})

	return transport.SubmitLeadResponse{
		ID:          lead.ID,
		State:       string(domain.StateSubmitted),
		SubmittedAt: lead.SubmittedAt,
	}, nil
}

// wireFieldNames maps DTO struct fields to the wire field names external
// tooling depends on. Validation details must always cite the wire name.
var wireFieldNames = map[string]string{
	"Name":      "name",
	"Email":     "email",
	"Phone":     "phone",
	"CityID":    "city_id",
	"CityName":  "city_name",
	"StateAbbr": "state_abbr",
	"Message":   "message",
}

// fieldMessage turns a failed validator tag into a user-facing message for
// one wire field.
func fieldMessage(wireField, tag string) string {
	switch tag {
	case "required":
		return wireField + " is required"
	case "email":
		return "a valid email address is required"
	case "min":
		return wireField + " is too short"
	case "max":
		return wireField + " is too long"
	case "uuid4":
		return "city_id must be a valid id"
	case "len":
		return "state_abbr must be a two-letter state code"
	default:
		return wireField + " is invalid"
	}
}

// validate applies the intake rules and returns either the resolved target
// city, a typed validation error with field details, or a store error.
func (s *Service) validate(ctx context.Context, req transport.SubmitLeadRequest) (ports.TargetCity, error, error) {
	details := make(map[string]string)

	// The DTO's declared tag constraints (lengths, shapes) run first; the
	// trimming-sensitive checks below may overwrite with sharper messages.
	if err := s.val.Struct(req); err != nil {
		for field, tag := range validator.FieldErrors(err) {
			wireField, ok := wireFieldNames[field]
			if !ok {
				wireField = field
			}
			details[wireField] = fieldMessage(wireField, tag)
		}
	}

	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "name is required"
	}
	if err := s.val.Var(strings.TrimSpace(req.Email), "required,email"); err != nil {
		details["email"] = "a valid email address is required"
	}
	if strings.TrimSpace(req.Phone) == "" {
		details["phone"] = "phone is required"
	}

	var city ports.TargetCity
	cityID, err := uuid.Parse(strings.TrimSpace(req.CityID))
	if err != nil {
		details["city_id"] = "city_id must be a valid id"
	} else {
		city, err = s.cities.ResolveCity(ctx, cityID)
		switch {
		case err == nil:
			// ok
		case apperr.Is(err, apperr.KindNotFound):
			details["city_id"] = "unknown city"
		default:
			// The store being down is not the submitter's fault; never
			// report it as a validation problem.
			return ports.TargetCity{}, nil, apperr.Wrap(apperr.KindUnavailable, msgStoreUnavailable, err).WithOp("leadintake.validate")
		}
	}

	if len(details) > 0 {
		return ports.TargetCity{}, apperr.Validation(msgValidationFailed).WithDetails(details), nil
	}
	return city, nil, nil
}

// advance moves a lead to the next state, enforcing the state machine
// edges. State updates are best-effort once the outcome is decided; a
// failed write is logged, not surfaced to the submitter.
func (s *Service) advance(ctx context.Context, id uuid.UUID, from, to domain.State) {
	if !domain.CanTransition(from, to) {
		s.log.Error("invalid lead state transition", "lead_id", id.String(), "from", string(from), "to", string(to))
		return
	}
	if err := s.repo.UpdateLeadState(context.WithoutCancel(ctx), id, to); err != nil {
		s.log.DatabaseError("update lead state", err)
	}
}
