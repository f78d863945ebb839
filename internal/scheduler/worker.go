package scheduler

import (
	"context"
	"fmt"

	bookingsdomain "marketplace_backend/internal/bookings/domain"
	"marketplace_backend/internal/bookings/repository"
	"marketplace_backend/internal/email"
	"marketplace_backend/platform/apperr"
	"marketplace_backend/platform/config"
	"marketplace_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes deferred jobs from Redis. It runs in its own process
// (cmd/worker) so slow mail delivery never competes with request
// handling.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg *config.Config, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	if !cfg.SchedulerEnabled() {
		return nil, fmt.Errorf("REDIS_URL is required to run the worker")
	}

	opt, err := redisClientOpt(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskBalanceReminder, w.handleBalanceReminder)

	return w, nil
}

// handleBalanceReminder sends the balance-due reminder scheduled at
// acceptance time. The booking is re-read first: a booking that was paid,
// cancelled or deleted since then gets no reminder.
func (w *Worker) handleBalanceReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBalanceReminderPayload(task)
	if err != nil {
		return err
	}

	bookingID, err := uuid.Parse(payload.BookingID)
	if err != nil {
		return err
	}

	booking, err := w.repo.GetByID(ctx, bookingID, nil, nil)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if booking.Status != string(bookingsdomain.StatusPendingPayment) {
		return nil
	}

	if err := w.sender.SendBalanceReminderEmail(ctx, payload.ClientEmail, payload.ClientName, payload.QuoteNumber, payload.BalanceCents, payload.DueDate); err != nil {
		w.log.NotificationError("email", payload.ClientEmail, err)
		return err
	}

	w.log.Info("balance reminder sent", "bookingId", payload.BookingID)
	return nil
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
