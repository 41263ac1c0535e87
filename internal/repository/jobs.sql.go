package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const jobColumns = `id, job_type, queue, payload, status, priority, retry_count, max_retries, timeout_seconds, scheduled_at, worker_id, started_at, completed_at, error_message, created_at`

func scanJob(row scanner) (Job, error) {
	var i Job
	err := row.Scan(
		&i.ID,
		&i.JobType,
		&i.Queue,
		&i.Payload,
		&i.Status,
		&i.Priority,
		&i.RetryCount,
		&i.MaxRetries,
		&i.TimeoutSeconds,
		&i.ScheduledAt,
		&i.WorkerID,
		&i.StartedAt,
		&i.CompletedAt,
		&i.ErrorMessage,
		&i.CreatedAt,
	)
	return i, err
}

const enqueueJob = `-- name: EnqueueJob :one
INSERT INTO jobs (job_type, queue, payload, priority, max_retries, timeout_seconds, scheduled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + jobColumns

type EnqueueJobParams struct {
	JobType        string
	Queue          string
	Payload        []byte
	Priority       int32
	MaxRetries     int32
	TimeoutSeconds int32
	ScheduledAt    time.Time
}

func (q *Queries) EnqueueJob(ctx context.Context, arg EnqueueJobParams) (Job, error) {
	row := q.db.QueryRow(ctx, enqueueJob,
		arg.JobType,
		arg.Queue,
		arg.Payload,
		arg.Priority,
		arg.MaxRetries,
		arg.TimeoutSeconds,
		arg.ScheduledAt,
	)
	return scanJob(row)
}

// SKIP LOCKED lets several workers poll the same queue without blocking on
// each other's claimed rows.
const claimNextJob = `-- name: ClaimNextJob :one
UPDATE jobs SET status = 'running', worker_id = $1, started_at = now()
WHERE id = (
    SELECT id FROM jobs
    WHERE status = 'pending'
      AND scheduled_at <= now()
      AND ($2::text = '' OR queue = $2::text)
    ORDER BY priority DESC, scheduled_at
    LIMIT 1
    FOR UPDATE SKIP LOCKED
)
RETURNING ` + jobColumns

type ClaimNextJobParams struct {
	WorkerID string
	Queue    string
}

func (q *Queries) ClaimNextJob(ctx context.Context, arg ClaimNextJobParams) (Job, error) {
	return scanJob(q.db.QueryRow(ctx, claimNextJob, arg.WorkerID, arg.Queue))
}

const completeJob = `-- name: CompleteJob :exec
UPDATE jobs SET status = 'completed', completed_at = now(), error_message = NULL WHERE id = $1`

func (q *Queries) CompleteJob(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, completeJob, id)
	return err
}

// A failed job goes back to pending with exponential backoff until it has
// used up max_retries.
const failJob = `-- name: FailJob :one
UPDATE jobs SET
    retry_count = retry_count + 1,
    error_message = $2,
    worker_id = NULL,
    status = CASE WHEN retry_count + 1 >= max_retries THEN 'failed' ELSE 'pending' END,
    completed_at = CASE WHEN retry_count + 1 >= max_retries THEN now() ELSE NULL END,
    scheduled_at = CASE WHEN retry_count + 1 >= max_retries THEN scheduled_at
                        ELSE now() + make_interval(secs => power(2, retry_count + 1)) END
WHERE id = $1
RETURNING ` + jobColumns

type FailJobParams struct {
	ID           uuid.UUID
	ErrorMessage string
}

func (q *Queries) FailJob(ctx context.Context, arg FailJobParams) (Job, error) {
	return scanJob(q.db.QueryRow(ctx, failJob, arg.ID, arg.ErrorMessage))
}
