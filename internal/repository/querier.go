package repository

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	// Customers and sessions
	CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (Customer, error)
	GetCustomerByUsername(ctx context.Context, username string) (Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (Customer, error)
	CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error)
	GetSessionByToken(ctx context.Context, token string) (Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)

	// Catalog
	CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (Category, error)
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	UpdateProductPrice(ctx context.Context, arg UpdateProductPriceParams) (Product, error)
	UpdateProductImage(ctx context.Context, arg UpdateProductImageParams) (Product, error)
	CountProducts(ctx context.Context) (int64, error)
	ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error)
	ListProductsByCategory(ctx context.Context, arg ListProductsByCategoryParams) ([]Product, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	CreateShop(ctx context.Context, arg CreateShopParams) (Shop, error)
	ListShops(ctx context.Context) ([]Shop, error)
	CreateInfoSection(ctx context.Context, arg CreateInfoSectionParams) (InfoSection, error)
	ListInfoSections(ctx context.Context, page string) ([]InfoSection, error)

	// Carts
	GetOpenCartByOwner(ctx context.Context, ownerID uuid.UUID) (Cart, error)
	GetOpenCartBySessionToken(ctx context.Context, sessionToken string) (Cart, error)
	CreateCart(ctx context.Context, arg CreateCartParams) (Cart, error)
	GetCartByID(ctx context.Context, id uuid.UUID) (Cart, error)
	GetCartForUpdate(ctx context.Context, id uuid.UUID) (Cart, error)
	UpdateCartTotals(ctx context.Context, arg UpdateCartTotalsParams) (Cart, error)
	MarkCartInOrder(ctx context.Context, id uuid.UUID) (Cart, error)
	ListCartLineItems(ctx context.Context, cartID uuid.UUID) ([]CartLineItem, error)
	ListCartItemsWithProducts(ctx context.Context, cartID uuid.UUID) ([]ListCartItemsWithProductsRow, error)
	GetCartLineItem(ctx context.Context, arg GetCartLineItemParams) (CartLineItem, error)
	CreateCartLineItem(ctx context.Context, arg CreateCartLineItemParams) (CartLineItem, error)
	UpdateCartLineItem(ctx context.Context, arg UpdateCartLineItemParams) (CartLineItem, error)
	DeleteCartLineItem(ctx context.Context, id uuid.UUID) error
	DeleteCartLineItems(ctx context.Context, cartID uuid.UUID) error

	// Orders
	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	AddCustomerOrder(ctx context.Context, arg AddCustomerOrderParams) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)

	// Reviews
	CreateReview(ctx context.Context, arg CreateReviewParams) (Review, error)

	// Jobs
	EnqueueJob(ctx context.Context, arg EnqueueJobParams) (Job, error)
	ClaimNextJob(ctx context.Context, arg ClaimNextJobParams) (Job, error)
	CompleteJob(ctx context.Context, id uuid.UUID) error
	FailJob(ctx context.Context, arg FailJobParams) (Job, error)
}

var _ Querier = (*Queries)(nil)
