package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/stshop/internal/repository"
)

// Job type constants for cleanup jobs
const (
	JobTypeCleanupExpiredSessions = "cleanup:expired_sessions"
)

// CleanupExpiredSessionsPayload is empty; the job removes every expired session.
type CleanupExpiredSessionsPayload struct{}

// EnqueueCleanupExpiredSessions enqueues a job to delete expired login sessions.
// The worker schedules it periodically.
func EnqueueCleanupExpiredSessions(ctx context.Context, q Enqueuer) error {
	payloadJSON, err := json.Marshal(CleanupExpiredSessionsPayload{})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = q.EnqueueJob(ctx, repository.EnqueueJobParams{
		JobType:        JobTypeCleanupExpiredSessions,
		Queue:          "cleanup",
		Payload:        payloadJSON,
		Priority:       10, // maintenance
		MaxRetries:     1,  // runs again on the next tick anyway
		ScheduledAt:    time.Now(),
		TimeoutSeconds: 60,
	})

	return err
}

// SessionCleaner deletes expired login sessions.
type SessionCleaner interface {
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	SessionsDeleted int64 `json:"sessions_deleted"`
}

// ProcessCleanupJob processes a cleanup job based on its type
func ProcessCleanupJob(ctx context.Context, job *repository.Job, q SessionCleaner) (*CleanupResult, error) {
	switch job.JobType {
	case JobTypeCleanupExpiredSessions:
		n, err := q.DeleteExpiredSessions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to delete expired sessions: %w", err)
		}
		return &CleanupResult{SessionsDeleted: n}, nil
	default:
		return nil, fmt.Errorf("unknown cleanup job type: %s", job.JobType)
	}
}

// IsCleanupJob checks if a job type is a cleanup job
func IsCleanupJob(jobType string) bool {
	return jobType == JobTypeCleanupExpiredSessions
}
