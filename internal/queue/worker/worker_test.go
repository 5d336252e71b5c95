package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tiendahub/backoffice/internal/jobs"
	"github.com/tiendahub/backoffice/internal/notifications"
	"github.com/tiendahub/backoffice/internal/observability"
	"github.com/tiendahub/backoffice/internal/queue/redisclient"
)

type fakeQueue struct {
	pending  []jobs.Job
	requeued []jobs.Job
}

func (q *fakeQueue) Enqueue(ctx context.Context, j jobs.Job) error {
	q.requeued = append(q.requeued, j)
	return nil
}

func (q *fakeQueue) Dequeue(ctx context.Context, timeout time.Duration) (jobs.Job, error) {
	if len(q.pending) == 0 {
		return jobs.Job{}, redisclient.ErrQueueEmpty
	}

	j := q.pending[0]
	q.pending = q.pending[1:]
	return j, nil
}

type fakeNotifier struct {
	sent []notifications.SendLowStockAlertInput
	err  error
}

func (n *fakeNotifier) SendLowStockAlert(ctx context.Context, in notifications.SendLowStockAlertInput) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, in)
	return nil
}

func lowStockJob(t *testing.T) jobs.Job {
	t.Helper()

	b, err := jobs.EncodePayload(jobs.JobLowStockAlert, jobs.LowStockAlertPayload{
		ItemID: 7, SKU: "W-1", Name: "Widget", Stock: 1, MinStock: 5,
	})
	if err != nil {
		t.Fatalf("EncodePayload error: %v", err)
	}

	j, err := jobs.NewJob(jobs.JobLowStockAlert, b)
	if err != nil {
		t.Fatalf("NewJob error: %v", err)
	}

	return j
}

func newTestWorker(q Queue, n notifications.Notifier) *Worker {
	prom := observability.NewProm(prometheus.NewRegistry())
	log := slog.Default()

	return New(Config{PollTimeout: 10 * time.Millisecond, WorkerID: "test-1"}, q, n, log, prom)
}

func TestProcessOne_Done(t *testing.T) {
	q := &fakeQueue{pending: []jobs.Job{lowStockJob(t)}}
	n := &fakeNotifier{}
	w := newTestWorker(q, n)

	processed, err := w.ProcessOne(context.Background())
	if err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}
	if !processed {
		t.Fatalf("expected a processed job")
	}

	if len(n.sent) != 1 {
		t.Fatalf("expected 1 alert sent, got %d", len(n.sent))
	}
	if n.sent[0].SKU != "W-1" || n.sent[0].MinStock != 5 {
		t.Fatalf("unexpected alert input: %+v", n.sent[0])
	}
	if len(q.requeued) != 0 {
		t.Fatalf("successful job must not be requeued")
	}
}

func TestProcessOne_EmptyQueue(t *testing.T) {
	w := newTestWorker(&fakeQueue{}, &fakeNotifier{})

	processed, err := w.ProcessOne(context.Background())
	if err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}
	if processed {
		t.Fatalf("expected no job processed")
	}
}

func TestProcessOne_RetryOnProviderFailure(t *testing.T) {
	q := &fakeQueue{pending: []jobs.Job{lowStockJob(t)}}
	n := &fakeNotifier{err: errors.New("provider down")}
	w := newTestWorker(q, n)

	// cancelled context skips the backoff sleep; the requeue itself
	// does not depend on it
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processed, err := w.ProcessOne(ctx)
	if err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}
	if !processed {
		t.Fatalf("expected the job to be processed")
	}

	if len(q.requeued) != 1 {
		t.Fatalf("expected 1 requeued job, got %d", len(q.requeued))
	}
	if q.requeued[0].Attempts != 1 {
		t.Fatalf("expected attempts=1, got %d", q.requeued[0].Attempts)
	}
}

func TestProcessOne_DropsAfterMaxTries(t *testing.T) {
	j := lowStockJob(t)
	j.Attempts = j.MaxTries - 1

	q := &fakeQueue{pending: []jobs.Job{j}}
	w := newTestWorker(q, &fakeNotifier{err: errors.New("provider down")})

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}

	if len(q.requeued) != 0 {
		t.Fatalf("exhausted job must not be requeued, got %d", len(q.requeued))
	}
}

func TestProcessOne_DropsMalformedJob(t *testing.T) {
	bad := jobs.Job{ID: "x", Type: jobs.JobType("bogus"), Payload: []byte(`{}`), MaxTries: 5}

	q := &fakeQueue{pending: []jobs.Job{bad}}
	w := newTestWorker(q, &fakeNotifier{})

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}

	// retrying a malformed job can never succeed
	if len(q.requeued) != 0 {
		t.Fatalf("malformed job must not be requeued, got %d", len(q.requeued))
	}
}

func TestExponentialBackoff(t *testing.T) {
	for i, min := range []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second} {
		d := ExponentialBackoff(i)
		if d < min || d > min+300*time.Millisecond {
			t.Fatalf("attempt %d: expected around %v, got %v", i, min, d)
		}
	}

	// capped with jitter headroom
	if d := ExponentialBackoff(20); d > 5*time.Minute+300*time.Millisecond {
		t.Fatalf("expected cap near 5m, got %v", d)
	}
}
