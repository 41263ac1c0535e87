package domain

import (
	"context"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}
)

type Category struct {
	ID       uuid.UUID
	Name     string
	Slug     string
	ImageURL string
}

type Product struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Title       string
	Slug        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
}

// Shop is a pickup point shown on the storefront.
type Shop struct {
	ID      uuid.UUID
	Name    string
	Address string
	Phone   string
}

// Page describes one page of a paginated listing.
type Page struct {
	Number     int
	TotalPages int
	PageSize   int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PageSize
}

// NewPage resolves a raw page parameter against the listing size.
// Non-numeric input yields the first page and out-of-range input the last.
func NewPage(raw string, totalItems, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	number, err := strconv.Atoi(raw)
	switch {
	case err != nil, number < 1:
		number = 1
	case number > totalPages:
		number = totalPages
	}

	return Page{Number: number, TotalPages: totalPages, PageSize: pageSize}
}

// ProductPage is a page of products.
type ProductPage struct {
	Products []Product
	Page     Page
}

// CatalogService is the read side of the catalog.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, slug string) (*Category, error)
	ListProducts(ctx context.Context, page string) (*ProductPage, error)

	// ListCategoryProducts filters by a case-insensitive title search when
	// query is non-empty.
	ListCategoryProducts(ctx context.Context, slug, query string) (*Category, []Product, error)
	GetProduct(ctx context.Context, slug string) (*Product, error)
	ListShops(ctx context.Context) ([]Shop, error)
}
