// Package jobs defines the background job types, their payloads and the
// functions that enqueue and process them.
package jobs

import (
	"context"

	"github.com/dukerupert/stshop/internal/repository"
)

// Enqueuer inserts job rows. Both the pool-backed store and a
// transaction-bound Querier satisfy it.
type Enqueuer interface {
	EnqueueJob(ctx context.Context, arg repository.EnqueueJobParams) (repository.Job, error)
}
