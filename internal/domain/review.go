package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReviewParams is the customer feedback form.
type ReviewParams struct {
	Title string `form:"title" validate:"required,max=60"`
	Name  string `form:"name" validate:"required,max=60"`
	Phone string `form:"phone" validate:"required,max=30"`
	Email string `form:"email" validate:"required,email,max=60"`
	Body  string `form:"body" validate:"required,max=5000"`
}

type Review struct {
	ID        uuid.UUID
	Title     string
	Name      string
	Phone     string
	Email     string
	Body      string
	CreatedAt time.Time
}

type ReviewService interface {
	Submit(ctx context.Context, params ReviewParams) (*Review, error)
}
