package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tiendahub/backoffice/internal/jobs"
	"github.com/tiendahub/backoffice/internal/notifications"
	"github.com/tiendahub/backoffice/internal/observability"
	"github.com/tiendahub/backoffice/internal/queue/redisclient"
)

// Queue is the subset of the redis client the worker consumes.
type Queue interface {
	Enqueue(ctx context.Context, j jobs.Job) error
	Dequeue(ctx context.Context, timeout time.Duration) (jobs.Job, error)
}

type Config struct {
	// how long Dequeue blocks before checking for shutdown
	PollTimeout time.Duration
	WorkerID    string
}

type Worker struct {
	cfg      Config
	queue    Queue
	notifier notifications.Notifier
	log      *slog.Logger
	prom     *observability.Prom

	readyMu sync.RWMutex
	ready   bool
}

func New(cfg Config, queue Queue, notifier notifications.Notifier, log *slog.Logger, prom *observability.Prom) *Worker {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 2 * time.Second
	}

	return &Worker{
		cfg:      cfg,
		queue:    queue,
		notifier: notifier,
		log:      log,
		prom:     prom,
	}
}

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("worker started", "worker_id", w.cfg.WorkerID)
	w.setReady(true)
	defer w.setReady(false)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal")
			return nil
		default:
		}

		processed, err := w.ProcessOne(ctx)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}

			w.log.Error("dequeue failed", "err", err)

			// redis is likely down; do not spin
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		_ = processed
	}
}

// ProcessOne pops and executes a single job. Returns false when the queue was
// empty for the poll window.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	j, err := w.queue.Dequeue(ctx, w.cfg.PollTimeout)

	if err != nil {
		if errors.Is(err, redisclient.ErrQueueEmpty) {
			return false, nil
		}

		return false, err
	}

	w.prom.JobsInFlight.Inc()
	defer w.prom.JobsInFlight.Dec()

	start := time.Now()
	err = w.execute(ctx, j)
	secs := time.Since(start).Seconds()

	if err == nil {
		w.prom.JobDuration.WithLabelValues(string(j.Type), "done").Observe(secs)
		w.prom.JobResults.WithLabelValues(string(j.Type), "done").Inc()
		w.log.Info("job done", "job_id", j.ID, "type", j.Type, "attempt", j.Attempts)
		return true, nil
	}

	w.handleFailure(ctx, j, err, secs)
	return true, nil
}

func (w *Worker) execute(ctx context.Context, j jobs.Job) error {
	payload, err := jobs.DecodePayload(j)

	if err != nil {
		return err
	}

	if err := jobs.ValidatePayload(j.Type, payload); err != nil {
		return err
	}

	switch p := payload.(type) {
	case jobs.LowStockAlertPayload:
		return w.notifier.SendLowStockAlert(ctx, notifications.SendLowStockAlertInput{
			ItemID:   p.ItemID,
			SKU:      p.SKU,
			Name:     p.Name,
			Stock:    p.Stock,
			MinStock: p.MinStock,
		})

	default:
		return jobs.ErrInvalidJobType
	}
}

func (w *Worker) handleFailure(ctx context.Context, j jobs.Job, execErr error, secs float64) {
	// malformed jobs can never succeed; drop them instead of retrying
	permanent := errors.Is(execErr, jobs.ErrInvalidJobType) ||
		errors.Is(execErr, jobs.ErrInvalidJobPayload) ||
		errors.Is(execErr, jobs.ErrPayloadTypeMismatch)

	j.Attempts++

	if permanent || j.Attempts >= j.MaxTries {
		w.prom.JobDuration.WithLabelValues(string(j.Type), "failed").Observe(secs)
		w.prom.JobResults.WithLabelValues(string(j.Type), "failed").Inc()
		w.log.Error("job failed permanently",
			"job_id", j.ID, "type", j.Type, "attempts", j.Attempts, "err", execErr)
		return
	}

	w.prom.JobDuration.WithLabelValues(string(j.Type), "retry").Observe(secs)
	w.prom.JobResults.WithLabelValues(string(j.Type), "retry").Inc()

	delay := ExponentialBackoff(j.Attempts - 1)
	w.log.Warn("job retry scheduled",
		"job_id", j.ID, "type", j.Type, "attempt", j.Attempts, "delay", delay.String(), "err", execErr)

	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}

	if err := w.queue.Enqueue(ctx, j); err != nil {
		w.log.Error("requeue failed", "job_id", j.ID, "err", err)
	}
}
