package storefront

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/handler"
	"github.com/dukerupert/stshop/web"
)

func newTestRenderer(t *testing.T) *handler.Renderer {
	t.Helper()
	renderer, err := handler.NewRenderer(web.Templates())
	require.NoError(t, err)
	return renderer
}

// asCustomer returns r with a logged-in customer in its context.
func asCustomer(r *http.Request, id uuid.UUID) *http.Request {
	user := &domain.User{ID: id, Username: "alice", Email: "alice@example.com"}
	return r.WithContext(domain.NewContextWithUser(r.Context(), user))
}

// asGuest returns r carrying an anonymous cart token.
func asGuest(r *http.Request, token string) *http.Request {
	return r.WithContext(domain.NewContextWithCartToken(r.Context(), token))
}

// mockCatalogService implements domain.CatalogService for testing
type mockCatalogService struct {
	listCategoriesFunc       func(ctx context.Context) ([]domain.Category, error)
	getCategoryFunc          func(ctx context.Context, slug string) (*domain.Category, error)
	listProductsFunc         func(ctx context.Context, page string) (*domain.ProductPage, error)
	listCategoryProductsFunc func(ctx context.Context, slug, query string) (*domain.Category, []domain.Product, error)
	getProductFunc           func(ctx context.Context, slug string) (*domain.Product, error)
	listShopsFunc            func(ctx context.Context) ([]domain.Shop, error)
}

func (m *mockCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.listCategoriesFunc != nil {
		return m.listCategoriesFunc(ctx)
	}
	return nil, nil
}

func (m *mockCatalogService) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	if m.getCategoryFunc != nil {
		return m.getCategoryFunc(ctx, slug)
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *mockCatalogService) ListProducts(ctx context.Context, page string) (*domain.ProductPage, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, page)
	}
	return &domain.ProductPage{Page: domain.Page{Number: 1, TotalPages: 1, PageSize: 10}}, nil
}

func (m *mockCatalogService) ListCategoryProducts(ctx context.Context, slug, query string) (*domain.Category, []domain.Product, error) {
	if m.listCategoryProductsFunc != nil {
		return m.listCategoryProductsFunc(ctx, slug, query)
	}
	return nil, nil, domain.ErrCategoryNotFound
}

func (m *mockCatalogService) GetProduct(ctx context.Context, slug string) (*domain.Product, error) {
	if m.getProductFunc != nil {
		return m.getProductFunc(ctx, slug)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockCatalogService) ListShops(ctx context.Context) ([]domain.Shop, error) {
	if m.listShopsFunc != nil {
		return m.listShopsFunc(ctx)
	}
	return nil, nil
}

// mockCartService implements domain.CartService for testing
type mockCartService struct {
	ensureCartFunc     func(ctx context.Context, owner domain.Owner) (*domain.Cart, error)
	getCartSummaryFunc func(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error)
	addItemFunc        func(ctx context.Context, cartID uuid.UUID, slug string, quantity int, setExact bool) (*domain.CartSummary, error)
	removeItemFunc     func(ctx context.Context, cartID uuid.UUID, slug string) (*domain.CartSummary, error)
	setQuantityFunc    func(ctx context.Context, cartID uuid.UUID, slug string, quantity int) (*domain.CartSummary, error)
	clearCartFunc      func(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error)
}

func (m *mockCartService) EnsureCart(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	if m.ensureCartFunc != nil {
		return m.ensureCartFunc(ctx, owner)
	}
	if owner.IsZero() {
		return nil, domain.ErrNoCartOwner
	}
	return &domain.Cart{ID: testCartID}, nil
}

func (m *mockCartService) GetCartSummary(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error) {
	if m.getCartSummaryFunc != nil {
		return m.getCartSummaryFunc(ctx, cartID)
	}
	return &domain.CartSummary{Cart: domain.Cart{ID: cartID}}, nil
}

func (m *mockCartService) AddItem(ctx context.Context, cartID uuid.UUID, slug string, quantity int, setExact bool) (*domain.CartSummary, error) {
	if m.addItemFunc != nil {
		return m.addItemFunc(ctx, cartID, slug, quantity, setExact)
	}
	return &domain.CartSummary{Cart: domain.Cart{ID: cartID}}, nil
}

func (m *mockCartService) RemoveItem(ctx context.Context, cartID uuid.UUID, slug string) (*domain.CartSummary, error) {
	if m.removeItemFunc != nil {
		return m.removeItemFunc(ctx, cartID, slug)
	}
	return &domain.CartSummary{Cart: domain.Cart{ID: cartID}}, nil
}

func (m *mockCartService) SetQuantity(ctx context.Context, cartID uuid.UUID, slug string, quantity int) (*domain.CartSummary, error) {
	if m.setQuantityFunc != nil {
		return m.setQuantityFunc(ctx, cartID, slug, quantity)
	}
	return &domain.CartSummary{Cart: domain.Cart{ID: cartID}}, nil
}

func (m *mockCartService) ClearCart(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error) {
	if m.clearCartFunc != nil {
		return m.clearCartFunc(ctx, cartID)
	}
	return &domain.CartSummary{Cart: domain.Cart{ID: cartID}}, nil
}

// mockOrderService implements domain.OrderService for testing
type mockOrderService struct {
	placeOrderFunc         func(ctx context.Context, customerID, cartID uuid.UUID, details domain.OrderDetails) (*domain.Order, error)
	getOrderFunc           func(ctx context.Context, customerID, orderID uuid.UUID) (*domain.Order, error)
	listCustomerOrdersFunc func(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)
}

func (m *mockOrderService) PlaceOrder(ctx context.Context, customerID, cartID uuid.UUID, details domain.OrderDetails) (*domain.Order, error) {
	if m.placeOrderFunc != nil {
		return m.placeOrderFunc(ctx, customerID, cartID, details)
	}
	return nil, domain.ErrEmptyCart
}

func (m *mockOrderService) GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (*domain.Order, error) {
	if m.getOrderFunc != nil {
		return m.getOrderFunc(ctx, customerID, orderID)
	}
	return nil, domain.ErrOrderNotFound
}

func (m *mockOrderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	if m.listCustomerOrdersFunc != nil {
		return m.listCustomerOrdersFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockOrderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

// mockUserService implements domain.UserService for testing
type mockUserService struct {
	registerFunc      func(ctx context.Context, params domain.RegisterParams) (*domain.Customer, error)
	authenticateFunc  func(ctx context.Context, username, password string) (*domain.Customer, error)
	deleteSessionFunc func(ctx context.Context, token string) error
	sessions          []uuid.UUID
}

func (m *mockUserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.Customer, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, params)
	}
	return nil, domain.Errorf(domain.EINTERNAL, "", "not configured")
}

func (m *mockUserService) Authenticate(ctx context.Context, username, password string) (*domain.Customer, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, username, password)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *mockUserService) CreateSession(ctx context.Context, customerID uuid.UUID) (*domain.Session, error) {
	m.sessions = append(m.sessions, customerID)
	return &domain.Session{
		Token:      "session-token",
		CustomerID: customerID,
		ExpiresAt:  time.Now().Add(time.Hour),
	}, nil
}

func (m *mockUserService) GetCustomerBySessionToken(ctx context.Context, token string) (*domain.Customer, error) {
	return nil, domain.ErrSessionNotFound
}

func (m *mockUserService) DeleteSession(ctx context.Context, token string) error {
	if m.deleteSessionFunc != nil {
		return m.deleteSessionFunc(ctx, token)
	}
	return nil
}

// mockReviewService implements domain.ReviewService for testing
type mockReviewService struct {
	submitFunc func(ctx context.Context, params domain.ReviewParams) (*domain.Review, error)
}

func (m *mockReviewService) Submit(ctx context.Context, params domain.ReviewParams) (*domain.Review, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, params)
	}
	return &domain.Review{ID: uuid.New(), CreatedAt: time.Now()}, nil
}

var testCartID = uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

// mockPageService implements domain.PageService for testing
type mockPageService struct {
	listSectionsFunc func(ctx context.Context, page string) ([]domain.InfoSection, error)
}

func (m *mockPageService) ListSections(ctx context.Context, page string) ([]domain.InfoSection, error) {
	if m.listSectionsFunc != nil {
		return m.listSectionsFunc(ctx, page)
	}
	return nil, nil
}
