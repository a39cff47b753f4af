package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"rolloff_directory_backend/internal/events"
	"rolloff_directory_backend/internal/leadintake/domain"
	"rolloff_directory_backend/internal/leadintake/ports"
	"rolloff_directory_backend/internal/leadintake/repository"
	"rolloff_directory_backend/internal/leadintake/transport"
	"rolloff_directory_backend/platform/apperr"
	"rolloff_directory_backend/platform/logger"
	"rolloff_directory_backend/platform/validator"
)

type stubLeadConfig struct{}

func (stubLeadConfig) GetSubmitTimeout() time.Duration { return 5 * time.Second }

type fakeLeadRepo struct {
	created     []repository.CreateLeadParams
	createErr   error
	stateByID   map[uuid.UUID]domain.State
	updateCalls int
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{stateByID: make(map[uuid.UUID]domain.State)}
}

func (f *fakeLeadRepo) CreateLead(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	if f.createErr != nil {
		return repository.Lead{}, f.createErr
	}
	f.created = append(f.created, params)
	lead := repository.Lead{
		ID:          uuid.New(),
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		CityID:      params.CityID,
		Message:     params.Message,
		State:       domain.StateValidated,
		SubmittedAt: time.Now(),
	}
	f.stateByID[lead.ID] = lead.State
	return lead, nil
}

func (f *fakeLeadRepo) UpdateLeadState(ctx context.Context, id uuid.UUID, state domain.State) error {
	f.updateCalls++
	f.stateByID[id] = state
	return nil
}

func (f *fakeLeadRepo) GetLeadByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	return repository.Lead{ID: id, State: f.stateByID[id]}, nil
}

var _ repository.Repository = (*fakeLeadRepo)(nil)

type fakeResolver struct {
	cities map[uuid.UUID]ports.TargetCity
	err    error
}

func (f *fakeResolver) ResolveCity(ctx context.Context, id uuid.UUID) (ports.TargetCity, error) {
	if f.err != nil {
		return ports.TargetCity{}, f.err
	}
	city, ok := f.cities[id]
	if !ok {
		return ports.TargetCity{}, apperr.NotFound("city not found")
	}
	return city, nil
}

type fakeDelivery struct {
	err   error
	calls []uuid.UUID
}

func (f *fakeDelivery) Deliver(ctx context.Context, leadID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, leadID)
	return nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(eventName string, handler events.Handler) {}

type fixture struct {
	svc      *Service
	repo     *fakeLeadRepo
	delivery *fakeDelivery
	bus      *fakeBus
	cityID   uuid.UUID
}

func newFixture() *fixture {
	cityID := uuid.New()
	repo := newFakeLeadRepo()
	resolver := &fakeResolver{cities: map[uuid.UUID]ports.TargetCity{
		cityID: {ID: cityID, Name: "Austin", StateAbbr: "TX", CitySlug: "austin", StateSlug: "tx"},
	}}
	delivery := &fakeDelivery{}
	bus := &fakeBus{}

	svc := New(repo, resolver, delivery, bus, validator.New(), stubLeadConfig{}, logger.New("test"))
	return &fixture{svc: svc, repo: repo, delivery: delivery, bus: bus, cityID: cityID}
}

func validRequest(cityID uuid.UUID) transport.SubmitLeadRequest {
	return transport.SubmitLeadRequest{
		Name:      "Jordan Smith",
		Email:     "jordan@example.com",
		Phone:     "512-555-0147",
		CityID:    cityID.String(),
		CityName:  "Austin",
		StateAbbr: "TX",
		Message:   "Need a 20 yard dumpster next week.",
	}
}

func TestSubmitSuccess(t *testing.T) {
	fx := newFixture()

	resp, err := fx.svc.Submit(context.Background(), validRequest(fx.cityID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.State != string(domain.StateSubmitted) {
		t.Fatalf("got state %q, want %q", resp.State, domain.StateSubmitted)
	}
	if len(fx.delivery.calls) != 1 || fx.delivery.calls[0] != resp.ID {
		t.Fatalf("delivery not invoked for lead %s", resp.ID)
	}
	if got := fx.repo.stateByID[resp.ID]; got != domain.StateSubmitted {
		t.Fatalf("persisted state %q, want %q", got, domain.StateSubmitted)
	}
	if len(fx.bus.published) != 1 {
		t.Fatalf("got %d events, want 1", len(fx.bus.published))
	}
	if _, ok := fx.bus.published[0].(events.LeadSubmitted); !ok {
		t.Fatalf("got event %T, want LeadSubmitted", fx.bus.published[0])
	}
}

func TestSubmitNormalizesPhone(t *testing.T) {
	fx := newFixture()

	req := validRequest(fx.cityID)
	req.Phone = "(512) 555-0147"

	if _, err := fx.svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fx.repo.created) != 1 {
		t.Fatalf("lead not persisted")
	}
	if got := fx.repo.created[0].Phone; got != "+15125550147" {
		t.Fatalf("got phone %q, want E.164 +15125550147", got)
	}
}

func TestSubmitRejectsInvalidEmail(t *testing.T) {
	fx := newFixture()

	req := validRequest(fx.cityID)
	req.Email = "not-an-email"

	_, err := fx.svc.Submit(context.Background(), req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("got %v, want a validation error", err)
	}

	details := err.(*apperr.Error).Details.(map[string]string)
	if _, ok := details["email"]; !ok {
		t.Fatalf("validation details must cite the email field, got %v", details)
	}
	if len(fx.repo.created) != 0 {
		t.Fatalf("a rejected lead must never be persisted")
	}
	if len(fx.delivery.calls) != 0 {
		t.Fatalf("a rejected lead must never reach delivery")
	}
}

func TestSubmitRejectsUnknownCity(t *testing.T) {
	fx := newFixture()

	req := validRequest(fx.cityID)
	req.CityID = uuid.New().String()

	_, err := fx.svc.Submit(context.Background(), req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("got %v, want a validation error", err)
	}

	details := err.(*apperr.Error).Details.(map[string]string)
	if details["city_id"] != "unknown city" {
		t.Fatalf("got details %v, want city_id cited as unknown", details)
	}
}

func TestSubmitCollectsAllFieldErrors(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Submit(context.Background(), transport.SubmitLeadRequest{
		Name:   "  ",
		Email:  "nope",
		Phone:  "",
		CityID: "not-a-uuid",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("got %v, want a validation error", err)
	}

	details := err.(*apperr.Error).Details.(map[string]string)
	for _, field := range []string{"name", "email", "phone", "city_id"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("details missing field %q: %v", field, details)
		}
	}
}

func TestSubmitEnforcesFieldLengthLimits(t *testing.T) {
	fx := newFixture()

	req := validRequest(fx.cityID)
	req.Name = strings.Repeat("x", 10000)
	req.Message = strings.Repeat("y", 100000)
	req.StateAbbr = "TEXAS"

	_, err := fx.svc.Submit(context.Background(), req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("got %v, want a validation error", err)
	}

	details := err.(*apperr.Error).Details.(map[string]string)
	for _, field := range []string{"name", "message", "state_abbr"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("details missing field %q: %v", field, details)
		}
	}
	if len(fx.repo.created) != 0 {
		t.Fatalf("an oversized lead must never be persisted")
	}
}

func TestSubmitBoundaryLengthsAccepted(t *testing.T) {
	fx := newFixture()

	req := validRequest(fx.cityID)
	req.Name = strings.Repeat("x", 200)
	req.Message = strings.Repeat("y", 2000)

	if _, err := fx.svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("values at the declared caps must pass: %v", err)
	}
}

func TestSubmitResolverOutageIsNotValidation(t *testing.T) {
	fx := newFixture()
	resolver := &fakeResolver{err: errors.New("dial tcp: connection refused")}
	fx.svc.cities = resolver

	_, err := fx.svc.Submit(context.Background(), validRequest(fx.cityID))
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("a store outage must surface as unavailable, got %v", err)
	}
	if apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("a store outage is not the submitter's fault")
	}
}

func TestSubmitDeliveryFailure(t *testing.T) {
	fx := newFixture()
	fx.delivery.err = errors.New("queue unreachable")

	_, err := fx.svc.Submit(context.Background(), validRequest(fx.cityID))
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("got %v, want an unavailable error", err)
	}

	if len(fx.repo.created) != 1 {
		t.Fatalf("the audit record must persist even when delivery fails")
	}
	var state domain.State
	for _, s := range fx.repo.stateByID {
		state = s
	}
	if state != domain.StateSubmissionFailed {
		t.Fatalf("got state %q, want %q", state, domain.StateSubmissionFailed)
	}
	if len(fx.bus.published) != 1 {
		t.Fatalf("got %d events, want 1", len(fx.bus.published))
	}
	if _, ok := fx.bus.published[0].(events.LeadDeliveryFailed); !ok {
		t.Fatalf("got event %T, want LeadDeliveryFailed", fx.bus.published[0])
	}
}

func TestSubmitStoreFailureOnPersist(t *testing.T) {
	fx := newFixture()
	fx.repo.createErr = errors.New("connection reset")

	_, err := fx.svc.Submit(context.Background(), validRequest(fx.cityID))
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("got %v, want an unavailable error", err)
	}
	if len(fx.delivery.calls) != 0 {
		t.Fatalf("an unpersisted lead must never reach delivery")
	}
}
