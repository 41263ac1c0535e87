package service

import (
	"context"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
)

// PageService serves the "how to order" and "how to pay" pages.
type PageService struct {
	q repository.Querier
}

var _ domain.PageService = (*PageService)(nil)

func NewPageService(q repository.Querier) *PageService {
	return &PageService{q: q}
}

func (s *PageService) ListSections(ctx context.Context, page string) ([]domain.InfoSection, error) {
	const op = "page.list_sections"

	if !domain.IsInfoPage(page) {
		return nil, domain.ErrPageNotFound.WithOp(op)
	}

	rows, err := s.q.ListInfoSections(ctx, page)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load page")
	}

	sections := make([]domain.InfoSection, 0, len(rows))
	for _, r := range rows {
		sections = append(sections, domain.InfoSection{Title: r.Title, Body: r.Body})
	}
	return sections, nil
}
