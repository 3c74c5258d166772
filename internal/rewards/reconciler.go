package rewards

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/models"
)

// PeriodReconciler recomputes the total of one customer period.
type PeriodReconciler interface {
	Reconcile(ctx context.Context, customerID int64, period models.Period) (models.RewardPoints, error)
}

// Job identifies a period to reconcile.
type Job struct {
	CustomerID int64
	Period     models.Period
}

// ReconcilerConfig tunes the worker pool.
type ReconcilerConfig struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	RetryDelay  time.Duration
}

// ReconcilerStats is a snapshot of the queue counters.
type ReconcilerStats struct {
	Enqueued  int64 `json:"enqueued"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Retried   int64 `json:"retried"`
	Dropped   int64 `json:"dropped"`
}

// Reconciler runs period reconciliations on a bounded queue drained by a fixed
// set of workers. Failed jobs are retried with a linearly growing delay and
// logged once they exhaust their attempts.
type Reconciler struct {
	target PeriodReconciler
	cfg    ReconcilerConfig
	jobs   chan Job
	log    *zap.Logger

	enqueued  atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	retried   atomic.Int64
	dropped   atomic.Int64
}

// NewReconciler constructs the queue. Non-positive settings fall back to one
// worker, a queue of 64, a single attempt and no retry delay.
func NewReconciler(target PeriodReconciler, cfg ReconcilerConfig, log *zap.Logger) *Reconciler {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	return &Reconciler{
		target: target,
		cfg:    cfg,
		jobs:   make(chan Job, cfg.QueueSize),
		log:    log.Named("reconciler"),
	}
}

// Enqueue schedules a job without blocking. It reports false when the queue is full.
func (r *Reconciler) Enqueue(job Job) bool {
	select {
	case r.jobs <- job:
		r.enqueued.Add(1)
		return true
	default:
		r.dropped.Add(1)
		r.log.Warn("reconciliation queue full, job dropped",
			zap.Int64("customer_id", job.CustomerID),
			zap.Stringer("period", job.Period),
		)
		return false
	}
}

// Run starts the workers and blocks until ctx is cancelled and every worker has returned.
func (r *Reconciler) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.work(ctx)
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// Stats returns the current counters.
func (r *Reconciler) Stats() ReconcilerStats {
	return ReconcilerStats{
		Enqueued:  r.enqueued.Load(),
		Succeeded: r.succeeded.Load(),
		Failed:    r.failed.Load(),
		Retried:   r.retried.Load(),
		Dropped:   r.dropped.Load(),
	}
}

func (r *Reconciler) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-r.jobs:
			r.process(ctx, job)
		}
	}
}

func (r *Reconciler) process(ctx context.Context, job Job) {
	for attempt := 1; ; attempt++ {
		_, err := r.target.Reconcile(ctx, job.CustomerID, job.Period)
		if err == nil {
			r.succeeded.Add(1)
			return
		}

		fields := []zap.Field{
			zap.Int64("customer_id", job.CustomerID),
			zap.Int("month", job.Period.Month),
			zap.Int("year", job.Period.Year),
			zap.Int("attempt", attempt),
			zap.Error(err),
		}
		if attempt >= r.cfg.MaxAttempts {
			r.failed.Add(1)
			r.log.Error("reconciliation abandoned", fields...)
			return
		}
		r.retried.Add(1)
		r.log.Warn("reconciliation failed, retrying", fields...)

		select {
		case <-ctx.Done():
			r.failed.Add(1)
			return
		case <-time.After(time.Duration(attempt) * r.cfg.RetryDelay):
		}
	}
}
