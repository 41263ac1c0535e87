package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/telemetry"
)

// ReviewService stores customer feedback.
type ReviewService struct {
	q      repository.Querier
	logger *slog.Logger
}

var _ domain.ReviewService = (*ReviewService)(nil)

func NewReviewService(q repository.Querier, logger *slog.Logger) *ReviewService {
	return &ReviewService{q: q, logger: logger}
}

func (s *ReviewService) Submit(ctx context.Context, params domain.ReviewParams) (*domain.Review, error) {
	const op = "review.submit"

	params.Title = strings.TrimSpace(params.Title)
	params.Name = strings.TrimSpace(params.Name)
	params.Phone = strings.TrimSpace(params.Phone)
	params.Email = strings.TrimSpace(params.Email)
	params.Body = strings.TrimSpace(params.Body)

	if err := validateStruct(op, params); err != nil {
		return nil, err
	}

	row, err := s.q.CreateReview(ctx, repository.CreateReviewParams{
		Title: params.Title,
		Name:  params.Name,
		Phone: params.Phone,
		Email: params.Email,
		Body:  params.Body,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to save review")
	}

	if telemetry.Business != nil {
		telemetry.Business.Reviews.Inc()
	}
	s.logger.Info("review submitted", "review_id", row.ID)

	return &domain.Review{
		ID:        row.ID,
		Title:     row.Title,
		Name:      row.Name,
		Phone:     row.Phone,
		Email:     row.Email,
		Body:      row.Body,
		CreatedAt: row.CreatedAt,
	}, nil
}
