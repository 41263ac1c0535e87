package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/stshop/internal/jobs"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/telemetry"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often to check for new jobs
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of jobs to process concurrently
	MaxConcurrency int

	// Queue name to process (empty string = all queues)
	Queue string

	// CleanupInterval schedules expired session cleanup. Zero disables it.
	CleanupInterval time.Duration
}

// JobStore is the slice of the repository the worker needs.
type JobStore interface {
	jobs.Enqueuer
	jobs.SessionCleaner
	ClaimNextJob(ctx context.Context, arg repository.ClaimNextJobParams) (repository.Job, error)
	CompleteJob(ctx context.Context, id uuid.UUID) error
	FailJob(ctx context.Context, arg repository.FailJobParams) (repository.Job, error)
}

// Worker processes background jobs
type Worker struct {
	config Config
	store  JobStore
	orders jobs.OrderHandlers
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewWorker creates a new background job worker
func NewWorker(store JobStore, orders jobs.OrderHandlers, config Config, logger *slog.Logger) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 5
	}

	return &Worker{
		config: config,
		store:  store,
		orders: orders,
		logger: logger.With("worker_id", config.WorkerID),
	}
}

// Start processes jobs until ctx is cancelled, then waits for in-flight jobs.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"queue", w.config.Queue,
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
		"cleanup_interval", w.config.CleanupInterval,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	var cleanup <-chan time.Time
	if w.config.CleanupInterval > 0 {
		cleanupTicker := time.NewTicker(w.config.CleanupInterval)
		defer cleanupTicker.Stop()
		cleanup = cleanupTicker.C
	}

	sem := make(chan struct{}, w.config.MaxConcurrency)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down")
			w.wg.Wait()
			return ctx.Err()

		case <-cleanup:
			if err := jobs.EnqueueCleanupExpiredSessions(ctx, w.store); err != nil {
				w.logger.Error("failed to enqueue session cleanup", "error", err)
			} else if telemetry.Business != nil {
				telemetry.Business.JobsEnqueued.WithLabelValues(jobs.JobTypeCleanupExpiredSessions).Inc()
			}

		case <-ticker.C:
			select {
			case sem <- struct{}{}:
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()
					w.claimAndProcess(ctx)
				}()
			default:
				// at max concurrency, skip this poll
			}
		}
	}
}

// claimAndProcess claims and processes a single job. It reports whether a
// job was claimed.
func (w *Worker) claimAndProcess(ctx context.Context) bool {
	job, err := w.store.ClaimNextJob(ctx, repository.ClaimNextJobParams{
		WorkerID: w.config.WorkerID,
		Queue:    w.config.Queue,
	})
	if err != nil {
		if !repository.IsNoRows(err) && ctx.Err() == nil {
			w.logger.Error("failed to claim job", "error", err)
		}
		return false
	}

	logger := w.logger.With("job_id", job.ID, "job_type", job.JobType, "retry_count", job.RetryCount)
	logger.Debug("processing job")

	start := time.Now()
	err = w.processJob(ctx, &job, logger)
	if telemetry.Business != nil {
		telemetry.Business.JobDuration.WithLabelValues(job.JobType).Observe(time.Since(start).Seconds())
	}

	// Bookkeeping outlives the worker context so a shutdown mid-job
	// does not leave the row stuck in running.
	bookkeeping := context.WithoutCancel(ctx)

	if err != nil {
		logger.Error("job failed", "error", err)
		if telemetry.Business != nil {
			telemetry.Business.JobsFailed.WithLabelValues(job.JobType).Inc()
		}
		failed, ferr := w.store.FailJob(bookkeeping, repository.FailJobParams{
			ID:           job.ID,
			ErrorMessage: err.Error(),
		})
		if ferr != nil {
			logger.Error("failed to record job failure", "error", ferr)
		} else if failed.Status == "failed" {
			logger.Warn("job exhausted retries", "max_retries", failed.MaxRetries)
			telemetry.CaptureError(err, map[string]any{
				"job_id":   job.ID.String(),
				"job_type": job.JobType,
				"retries":  failed.RetryCount,
			})
		}
		return true
	}

	if err := w.store.CompleteJob(bookkeeping, job.ID); err != nil {
		logger.Error("failed to mark job completed", "error", err)
		return true
	}
	if telemetry.Business != nil {
		telemetry.Business.JobsProcessed.WithLabelValues(job.JobType).Inc()
	}
	logger.Info("job completed", "duration", time.Since(start))
	return true
}

// processJob processes a single job
func (w *Worker) processJob(ctx context.Context, job *repository.Job, logger *slog.Logger) error {
	timeout := time.Duration(job.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch {
	case jobs.IsOrderJob(job.JobType):
		return jobs.ProcessOrderJob(jobCtx, job, w.orders)

	case jobs.IsCleanupJob(job.JobType):
		result, err := jobs.ProcessCleanupJob(jobCtx, job, w.store)
		if err != nil {
			return err
		}
		logger.Info("expired sessions deleted", "count", result.SessionsDeleted)
		return nil
	}

	return fmt.Errorf("unknown job type: %s", job.JobType)
}
