package service

import (
	"context"
	"strings"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/telemetry"
)

const defaultPageSize = 2

// CatalogService reads categories, products and shops.
type CatalogService struct {
	q        repository.Querier
	pageSize int
}

var _ domain.CatalogService = (*CatalogService)(nil)

func NewCatalogService(q repository.Querier, pageSize int) *CatalogService {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &CatalogService{q: q, pageSize: pageSize}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.q.ListCategories(ctx)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_categories", "failed to list categories")
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, c := range rows {
		categories = append(categories, toDomainCategory(c))
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	const op = "catalog.get_category"

	c, err := s.q.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrCategoryNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to get category")
	}
	category := toDomainCategory(c)
	return &category, nil
}

// ListProducts returns one page of all products, newest first. page is the
// raw query parameter.
func (s *CatalogService) ListProducts(ctx context.Context, page string) (*domain.ProductPage, error) {
	const op = "catalog.list_products"

	total, err := s.q.CountProducts(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count products")
	}

	p := domain.NewPage(page, int(total), s.pageSize)

	rows, err := s.q.ListProducts(ctx, repository.ListProductsParams{
		Limit:  int32(p.PageSize),
		Offset: int32(p.Offset()),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list products")
	}

	return &domain.ProductPage{Products: toDomainProducts(rows), Page: p}, nil
}

func (s *CatalogService) ListCategoryProducts(ctx context.Context, slug, query string) (*domain.Category, []domain.Product, error) {
	const op = "catalog.list_category_products"

	category, err := s.GetCategory(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	query = strings.TrimSpace(query)
	rows, err := s.q.ListProductsByCategory(ctx, repository.ListProductsByCategoryParams{
		CategoryID: category.ID,
		Search:     strings.ToLower(query),
	})
	if err != nil {
		return nil, nil, domain.Internal(err, op, "failed to list products")
	}

	if query != "" && telemetry.Business != nil {
		telemetry.Business.ProductSearches.Inc()
	}
	return category, toDomainProducts(rows), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	const op = "catalog.get_product"

	row, err := s.q.GetProductBySlug(ctx, slug)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrProductNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to get product")
	}

	if telemetry.Business != nil {
		telemetry.Business.ProductViews.WithLabelValues(row.Slug).Inc()
	}
	product := toDomainProduct(row)
	return &product, nil
}

func (s *CatalogService) ListShops(ctx context.Context) ([]domain.Shop, error) {
	rows, err := s.q.ListShops(ctx)
	if err != nil {
		return nil, domain.Internal(err, "catalog.list_shops", "failed to list shops")
	}

	shops := make([]domain.Shop, 0, len(rows))
	for _, r := range rows {
		shops = append(shops, domain.Shop{ID: r.ID, Name: r.Name, Address: r.Address, Phone: r.Phone})
	}
	return shops, nil
}
