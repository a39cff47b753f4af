package scheduler

import (
	"context"
	"fmt"

	directoryrepo "rolloff_directory_backend/internal/directory/repository"
	"rolloff_directory_backend/internal/email"
	leadrepo "rolloff_directory_backend/internal/leadintake/repository"
	"rolloff_directory_backend/platform/config"
	"rolloff_directory_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes lead delivery tasks: it re-reads the lead, resolves the
// target city's businesses, and emails every listing with a contact
// address. A returned error makes asynq retry the task.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	leads     leadrepo.Repository
	directory directoryrepo.Repository
	sender    email.Sender
	log       *logger.Logger
}

// NewWorker creates the task queue worker.
func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		leads:     leadrepo.New(pool),
		directory: directoryrepo.New(pool),
		sender:    sender,
		log:       log,
	}

	mux.HandleFunc(TaskLeadDelivery, w.handleLeadDelivery)

	return w, nil
}

// Run starts the worker and blocks until shutdown.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleLeadDelivery(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadDeliveryPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("lead delivery: bad lead id %q: %w", payload.LeadID, err)
	}

	lead, err := w.leads.GetLeadByID(ctx, leadID)
	if err != nil {
		return err
	}

	city, err := w.directory.GetCityByID(ctx, lead.CityID)
	if err != nil {
		return err
	}

	businesses, err := w.directory.ListBusinessesByCity(ctx, city.ID)
	if err != nil {
		return err
	}

	notified := 0
	for _, b := range businesses {
		if b.ContactEmail == nil || *b.ContactEmail == "" {
			continue
		}
		err := w.sender.SendLeadNotification(ctx, *b.ContactEmail, email.LeadNotificationData{
			BusinessName: b.Name,
			LeadName:     lead.Name,
			LeadEmail:    lead.Email,
			LeadPhone:    lead.Phone,
			CityName:     city.Name,
			StateAbbr:    city.StateAbbr,
			Message:      lead.Message,
		})
		if err != nil {
			// Partial sends are retried whole; sends are idempotent enough
			// (a duplicate notification beats a dropped lead).
			return fmt.Errorf("lead delivery: notify %s: %w", b.Name, err)
		}
		notified++
	}

	w.log.Info("lead delivered",
		"lead_id", lead.ID.String(),
		"city", city.CitySlug,
		"businesses_notified", notified,
	)
	return nil
}
