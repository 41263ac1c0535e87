package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const productColumns = `id, category_id, title, title_lower, slug, description, image_url, price, created_at, updated_at`

type scanner interface {
	Scan(...interface{}) error
}

func scanProduct(row scanner) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.CategoryID,
		&i.Title,
		&i.TitleLower,
		&i.Slug,
		&i.Description,
		&i.ImageUrl,
		&i.Price,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanCategory(row scanner) (Category, error) {
	var i Category
	err := row.Scan(&i.ID, &i.Name, &i.Slug, &i.ImageUrl, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (name, slug, image_url)
VALUES ($1, $2, $3)
RETURNING id, name, slug, image_url, created_at, updated_at`

type CreateCategoryParams struct {
	Name     string
	Slug     string
	ImageUrl pgtype.Text
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, createCategory, arg.Name, arg.Slug, arg.ImageUrl))
}

const listCategories = `-- name: ListCategories :many
SELECT id, name, slug, image_url, created_at, updated_at FROM categories ORDER BY name`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		i, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getCategoryBySlug = `-- name: GetCategoryBySlug :one
SELECT id, name, slug, image_url, created_at, updated_at FROM categories WHERE slug = $1`

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, getCategoryBySlug, slug))
}

// title_lower is maintained here so searches never depend on the caller.
const createProduct = `-- name: CreateProduct :one
INSERT INTO products (category_id, title, title_lower, slug, description, image_url, price)
VALUES ($1, $2, lower($2), $3, $4, $5, $6)
RETURNING ` + productColumns

type CreateProductParams struct {
	CategoryID  uuid.UUID
	Title       string
	Slug        string
	Description pgtype.Text
	ImageUrl    pgtype.Text
	Price       decimal.Decimal
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.CategoryID,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.ImageUrl,
		arg.Price,
	)
	return scanProduct(row)
}

const updateProductPrice = `-- name: UpdateProductPrice :one
UPDATE products SET price = $2, updated_at = now() WHERE id = $1
RETURNING ` + productColumns

type UpdateProductPriceParams struct {
	ID    uuid.UUID
	Price decimal.Decimal
}

func (q *Queries) UpdateProductPrice(ctx context.Context, arg UpdateProductPriceParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProductPrice, arg.ID, arg.Price))
}

const updateProductImage = `-- name: UpdateProductImage :one
UPDATE products SET image_url = $2, updated_at = now() WHERE slug = $1
RETURNING ` + productColumns

type UpdateProductImageParams struct {
	Slug     string
	ImageUrl pgtype.Text
}

func (q *Queries) UpdateProductImage(ctx context.Context, arg UpdateProductImageParams) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProductImage, arg.Slug, arg.ImageUrl))
}

const countProducts = `-- name: CountProducts :one
SELECT count(*) FROM products`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countProducts).Scan(&count)
	return count, err
}

const listProducts = `-- name: ListProducts :many
SELECT ` + productColumns + ` FROM products
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

type ListProductsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	return q.queryProducts(ctx, listProducts, arg.Limit, arg.Offset)
}

const listProductsByCategory = `-- name: ListProductsByCategory :many
SELECT ` + productColumns + ` FROM products
WHERE category_id = $1
  AND ($2::text = '' OR strpos(title_lower, lower($2::text)) > 0)
ORDER BY title_lower`

type ListProductsByCategoryParams struct {
	CategoryID uuid.UUID
	Search     string
}

func (q *Queries) ListProductsByCategory(ctx context.Context, arg ListProductsByCategoryParams) ([]Product, error) {
	return q.queryProducts(ctx, listProductsByCategory, arg.CategoryID, arg.Search)
}

func (q *Queries) queryProducts(ctx context.Context, query string, args ...interface{}) ([]Product, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getProductBySlug = `-- name: GetProductBySlug :one
SELECT ` + productColumns + ` FROM products WHERE slug = $1`

func (q *Queries) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductBySlug, slug))
}

const createShop = `-- name: CreateShop :one
INSERT INTO shops (name, address, phone) VALUES ($1, $2, $3)
RETURNING id, name, address, phone`

type CreateShopParams struct {
	Name    string
	Address string
	Phone   string
}

func (q *Queries) CreateShop(ctx context.Context, arg CreateShopParams) (Shop, error) {
	var i Shop
	err := q.db.QueryRow(ctx, createShop, arg.Name, arg.Address, arg.Phone).Scan(&i.ID, &i.Name, &i.Address, &i.Phone)
	return i, err
}

const listShops = `-- name: ListShops :many
SELECT id, name, address, phone FROM shops ORDER BY name`

func (q *Queries) ListShops(ctx context.Context) ([]Shop, error) {
	rows, err := q.db.Query(ctx, listShops)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Shop
	for rows.Next() {
		var i Shop
		if err := rows.Scan(&i.ID, &i.Name, &i.Address, &i.Phone); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createInfoSection = `-- name: CreateInfoSection :one
INSERT INTO info_sections (page, title, body, position) VALUES ($1, $2, $3, $4)
RETURNING id, page, title, body, position`

type CreateInfoSectionParams struct {
	Page     string
	Title    string
	Body     string
	Position int32
}

func (q *Queries) CreateInfoSection(ctx context.Context, arg CreateInfoSectionParams) (InfoSection, error) {
	var i InfoSection
	err := q.db.QueryRow(ctx, createInfoSection, arg.Page, arg.Title, arg.Body, arg.Position).Scan(
		&i.ID,
		&i.Page,
		&i.Title,
		&i.Body,
		&i.Position,
	)
	return i, err
}

const listInfoSections = `-- name: ListInfoSections :many
SELECT id, page, title, body, position FROM info_sections
WHERE page = $1
ORDER BY position, title`

func (q *Queries) ListInfoSections(ctx context.Context, page string) ([]InfoSection, error) {
	rows, err := q.db.Query(ctx, listInfoSections, page)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InfoSection
	for rows.Next() {
		var i InfoSection
		if err := rows.Scan(&i.ID, &i.Page, &i.Title, &i.Body, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
