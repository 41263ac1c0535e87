package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/storage"
)

// maxImageSize caps uploaded product images.
const maxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProductAdminService changes catalog rows from operator tooling. Price
// changes never touch existing cart lines: they keep the price captured
// when they were added.
type ProductAdminService struct {
	q      repository.Querier
	images storage.Storage
	logger *slog.Logger
}

func NewProductAdminService(q repository.Querier, images storage.Storage, logger *slog.Logger) *ProductAdminService {
	return &ProductAdminService{q: q, images: images, logger: logger}
}

func (s *ProductAdminService) SetPrice(ctx context.Context, slug string, price decimal.Decimal) (*domain.Product, error) {
	const op = "product.set_price"

	if price.IsNegative() {
		return nil, domain.NewValidationError(op, "price", "Price cannot be negative")
	}

	product, err := s.q.GetProductBySlug(ctx, slug)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrProductNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to get product")
	}

	updated, err := s.q.UpdateProductPrice(ctx, repository.UpdateProductPriceParams{
		ID:    product.ID,
		Price: price.Round(2),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to update price")
	}

	s.logger.Info("product price changed",
		"slug", slug,
		"old_price", product.Price.StringFixed(2),
		"new_price", updated.Price.StringFixed(2),
	)
	p := toDomainProduct(updated)
	return &p, nil
}

// SetImage stores an image for the product and points image_url at it. The
// content type is sniffed from the bytes, not taken from the file name.
func (s *ProductAdminService) SetImage(ctx context.Context, slug string, content io.Reader) (*domain.Product, error) {
	const op = "product.set_image"

	data, err := io.ReadAll(io.LimitReader(content, maxImageSize+1))
	if err != nil {
		return nil, domain.Internal(err, op, "failed to read image")
	}
	if len(data) > maxImageSize {
		return nil, domain.NewValidationError(op, "image", fmt.Sprintf("Image must be at most %d MB", maxImageSize>>20))
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, domain.NewValidationError(op, "image", "Unsupported image type "+contentType)
	}

	if _, err := s.q.GetProductBySlug(ctx, slug); err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrProductNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to get product")
	}

	key := path.Join("products", slug, strings.ReplaceAll(uuid.NewString(), "-", "")+ext)
	url, err := s.images.Put(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to store image")
	}

	updated, err := s.q.UpdateProductImage(ctx, repository.UpdateProductImageParams{
		Slug:     slug,
		ImageUrl: pgtype.Text{String: url, Valid: true},
	})
	if err != nil {
		if derr := s.images.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.logger.Error("failed to remove orphaned image", "key", key, "error", derr)
		}
		if repository.IsNoRows(err) {
			return nil, domain.ErrProductNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to update product image")
	}

	s.logger.Info("product image stored", "slug", slug, "key", key, "content_type", contentType)
	p := toDomainProduct(updated)
	return &p, nil
}
