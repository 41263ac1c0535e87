package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/stshop/internal/email"
	"github.com/dukerupert/stshop/internal/events"
	"github.com/dukerupert/stshop/internal/repository"
)

// Job type constants for order jobs
const (
	JobTypeOrderPlaced = "order:placed"
)

const orderQueue = "orders"

// OrderPlacedPayload is both the job payload and the event body published to
// subscribers once the order is committed.
type OrderPlacedPayload struct {
	OrderID       uuid.UUID       `json:"order_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerEmail string          `json:"customer_email"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Phone         string          `json:"phone"`
	BuyingType    string          `json:"buying_type"`
	Address       string          `json:"address,omitempty"`
	Comment       string          `json:"comment,omitempty"`
	OrderDate     string          `json:"order_date"`
	TotalProducts int             `json:"total_products"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	PlacedAt      time.Time       `json:"placed_at"`
}

// EnqueueOrderPlaced enqueues the post-checkout notification job. It writes
// through q so checkout can enqueue inside its own transaction.
func EnqueueOrderPlaced(ctx context.Context, q Enqueuer, payload OrderPlacedPayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = q.EnqueueJob(ctx, repository.EnqueueJobParams{
		JobType:        JobTypeOrderPlaced,
		Queue:          orderQueue,
		Payload:        payloadJSON,
		Priority:       100,
		MaxRetries:     5,
		ScheduledAt:    time.Now(),
		TimeoutSeconds: 30,
	})

	return err
}

// OrderPublisher is the event side of order processing.
type OrderPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// OrderNotifier tells the shop manager about a new order.
type OrderNotifier interface {
	SendOrderPlaced(ctx context.Context, data email.OrderPlacedEmail) error
}

// OrderHandlers carries the collaborators an order job needs. Either may be
// nil, in which case that step is skipped.
type OrderHandlers struct {
	Publisher OrderPublisher
	Subject   string
	Notifier  OrderNotifier
}

// ProcessOrderJob processes an order job based on its type
func ProcessOrderJob(ctx context.Context, job *repository.Job, h OrderHandlers) error {
	switch job.JobType {
	case JobTypeOrderPlaced:
		return processOrderPlaced(ctx, job, h)
	default:
		return fmt.Errorf("unknown order job type: %s", job.JobType)
	}
}

func processOrderPlaced(ctx context.Context, job *repository.Job, h OrderHandlers) error {
	var payload OrderPlacedPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal order placed payload: %w", err)
	}

	// A retry after a failed email publishes again; subscribers dedupe on order_id.
	if h.Publisher != nil {
		subject := h.Subject
		if subject == "" {
			subject = events.SubjectOrderPlaced
		}
		if err := h.Publisher.Publish(ctx, subject, job.Payload); err != nil {
			return fmt.Errorf("failed to publish order event: %w", err)
		}
	}

	if h.Notifier != nil {
		err := h.Notifier.SendOrderPlaced(ctx, email.OrderPlacedEmail{
			OrderID:       payload.OrderID.String(),
			CustomerName:  payload.FirstName + " " + payload.LastName,
			CustomerEmail: payload.CustomerEmail,
			Phone:         payload.Phone,
			BuyingType:    payload.BuyingType,
			Address:       payload.Address,
			Comment:       payload.Comment,
			OrderDate:     payload.OrderDate,
			TotalProducts: payload.TotalProducts,
			FinalPrice:    payload.FinalPrice.StringFixed(2),
		})
		if err != nil {
			return fmt.Errorf("failed to send order notification: %w", err)
		}
	}

	return nil
}

// IsOrderJob checks if a job type is an order job
func IsOrderJob(jobType string) bool {
	return jobType == JobTypeOrderPlaced
}
