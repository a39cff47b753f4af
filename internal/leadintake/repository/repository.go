package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"rolloff_directory_backend/internal/leadintake/domain"
)

// Lead is the audit record of a validated submission. Leads are written
// once at intake and only their state advances afterwards; there is no
// update or delete contract.
type Lead struct {
	ID          uuid.UUID    `db:"id"`
	Name        string       `db:"name"`
	Email       string       `db:"email"`
	Phone       string       `db:"phone"`
	CityID      uuid.UUID    `db:"city_id"`
	Message     string       `db:"message"`
	State       domain.State `db:"state"`
	SubmittedAt time.Time    `db:"submitted_at"`
}

// CreateLeadParams contains data for persisting a validated lead.
type CreateLeadParams struct {
	Name    string
	Email   string
	Phone   string
	CityID  uuid.UUID
	Message string
}

// Repository defines lead storage operations.
type Repository interface {
	CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error)
	UpdateLeadState(ctx context.Context, id uuid.UUID, state domain.State) error
	GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error)
}

// Repo implements the lead repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lead repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateLead inserts a validated lead.
func (r *Repo) CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error) {
	query := `
		INSERT INTO leads (name, email, phone, city_id, message, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, phone, city_id, message, state, submitted_at`

	var lead Lead
	if err := r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.Phone, params.CityID, params.Message, domain.StateValidated,
	).Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.CityID,
		&lead.Message, &lead.State, &lead.SubmittedAt,
	); err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return lead, nil
}

// UpdateLeadState advances a lead's state.
func (r *Repo) UpdateLeadState(ctx context.Context, id uuid.UUID, state domain.State) error {
	query := `UPDATE leads SET state = $2 WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id, state); err != nil {
		return fmt.Errorf("update lead state: %w", err)
	}
	return nil
}

// GetLeadByID retrieves a lead by primary key.
func (r *Repo) GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `
		SELECT id, name, email, phone, city_id, message, state, submitted_at
		FROM leads
		WHERE id = $1`

	var lead Lead
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.CityID,
		&lead.Message, &lead.State, &lead.SubmittedAt,
	); err != nil {
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}

	return lead, nil
}
