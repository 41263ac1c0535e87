package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/stshop/internal/repository"
)

// fakeStore is an in-memory repository.Store. InTx snapshots the state and
// restores it when fn fails, which is enough to observe rollback.
type fakeStore struct {
	state

	// failOn makes the named Querier method return the error.
	failOn map[string]error

	// beforeCreateCart runs before CreateCart checks uniqueness, letting a
	// test simulate a concurrent request winning the race.
	beforeCreateCart func(f *fakeStore)

	txCount int
	clock   time.Time
}

type state struct {
	customers      []repository.Customer
	sessions       map[string]repository.Session
	categories     []repository.Category
	products       []repository.Product
	shops          []repository.Shop
	infoSections   []repository.InfoSection
	carts          []repository.Cart
	lines          []repository.CartLineItem
	orders         []repository.Order
	customerOrders []repository.AddCustomerOrderParams
	reviews        []repository.Review
	jobs           []repository.Job
}

func (s state) clone() state {
	c := state{
		customers:      append([]repository.Customer(nil), s.customers...),
		sessions:       make(map[string]repository.Session, len(s.sessions)),
		categories:     append([]repository.Category(nil), s.categories...),
		products:       append([]repository.Product(nil), s.products...),
		shops:          append([]repository.Shop(nil), s.shops...),
		infoSections:   append([]repository.InfoSection(nil), s.infoSections...),
		carts:          append([]repository.Cart(nil), s.carts...),
		lines:          append([]repository.CartLineItem(nil), s.lines...),
		orders:         append([]repository.Order(nil), s.orders...),
		customerOrders: append([]repository.AddCustomerOrderParams(nil), s.customerOrders...),
		reviews:        append([]repository.Review(nil), s.reviews...),
		jobs:           append([]repository.Job(nil), s.jobs...),
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	return c
}

var _ repository.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		state:  state{sessions: make(map[string]repository.Session)},
		failOn: make(map[string]error),
		clock:  time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fakeStore) InTx(ctx context.Context, fn func(repository.Querier) error) error {
	f.txCount++
	snapshot := f.state.clone()
	if err := fn(f); err != nil {
		f.state = snapshot
		return err
	}
	return nil
}

func (f *fakeStore) fail(method string) error {
	return f.failOn[method]
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// Seed helpers

func (f *fakeStore) addProduct(slug, price string) repository.Product {
	p := repository.Product{
		ID:         uuid.New(),
		CategoryID: uuid.Nil,
		Title:      strings.ToUpper(slug[:1]) + slug[1:],
		TitleLower: slug,
		Slug:       slug,
		Price:      decimal.RequireFromString(price),
		CreatedAt:  f.tick(),
	}
	f.products = append(f.products, p)
	return p
}

func (f *fakeStore) addCustomer(username string) repository.Customer {
	c := repository.Customer{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "Customer",
		CreatedAt: f.tick(),
	}
	f.customers = append(f.customers, c)
	return c
}

func (f *fakeStore) cart(id uuid.UUID) repository.Cart {
	for _, c := range f.carts {
		if c.ID == id {
			return c
		}
	}
	return repository.Cart{}
}

func (f *fakeStore) setProductPrice(slug, price string) {
	for i := range f.products {
		if f.products[i].Slug == slug {
			f.products[i].Price = decimal.RequireFromString(price)
		}
	}
}

// Customers and sessions

func (f *fakeStore) CreateCustomer(_ context.Context, arg repository.CreateCustomerParams) (repository.Customer, error) {
	if err := f.fail("CreateCustomer"); err != nil {
		return repository.Customer{}, err
	}
	for _, c := range f.customers {
		if c.Username == arg.Username {
			return repository.Customer{}, uniqueViolation(repository.ConstraintCustomersUsername)
		}
		if c.Email == strings.ToLower(arg.Email) {
			return repository.Customer{}, uniqueViolation(repository.ConstraintCustomersEmail)
		}
	}
	c := repository.Customer{
		ID:           uuid.New(),
		Username:     arg.Username,
		Email:        strings.ToLower(arg.Email),
		PasswordHash: arg.PasswordHash,
		FirstName:    arg.FirstName,
		LastName:     arg.LastName,
		Phone:        arg.Phone,
		Address:      arg.Address,
		CreatedAt:    f.tick(),
	}
	f.customers = append(f.customers, c)
	return c, nil
}

func (f *fakeStore) GetCustomerByID(_ context.Context, id uuid.UUID) (repository.Customer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return repository.Customer{}, pgx.ErrNoRows
}

func (f *fakeStore) GetCustomerByUsername(_ context.Context, username string) (repository.Customer, error) {
	if err := f.fail("GetCustomerByUsername"); err != nil {
		return repository.Customer{}, err
	}
	for _, c := range f.customers {
		if c.Username == username {
			return c, nil
		}
	}
	return repository.Customer{}, pgx.ErrNoRows
}

func (f *fakeStore) GetCustomerByEmail(_ context.Context, email string) (repository.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return repository.Customer{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateSession(_ context.Context, arg repository.CreateSessionParams) (repository.Session, error) {
	s := repository.Session{Token: arg.Token, CustomerID: arg.CustomerID, ExpiresAt: arg.ExpiresAt, CreatedAt: f.tick()}
	f.sessions[arg.Token] = s
	return s, nil
}

func (f *fakeStore) GetSessionByToken(_ context.Context, token string) (repository.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return repository.Session{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeStore) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeStore) DeleteExpiredSessions(_ context.Context) (int64, error) {
	var n int64
	for token, s := range f.sessions {
		if s.ExpiresAt.Before(f.clock) {
			delete(f.sessions, token)
			n++
		}
	}
	return n, nil
}

// Catalog

func (f *fakeStore) CreateCategory(_ context.Context, arg repository.CreateCategoryParams) (repository.Category, error) {
	c := repository.Category{ID: uuid.New(), Name: arg.Name, Slug: arg.Slug, ImageUrl: arg.ImageUrl}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]repository.Category, error) {
	if err := f.fail("ListCategories"); err != nil {
		return nil, err
	}
	return append([]repository.Category(nil), f.categories...), nil
}

func (f *fakeStore) GetCategoryBySlug(_ context.Context, slug string) (repository.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return repository.Category{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateProduct(_ context.Context, arg repository.CreateProductParams) (repository.Product, error) {
	p := repository.Product{
		ID:          uuid.New(),
		CategoryID:  arg.CategoryID,
		Title:       arg.Title,
		TitleLower:  strings.ToLower(arg.Title),
		Slug:        arg.Slug,
		Description: arg.Description,
		ImageUrl:    arg.ImageUrl,
		Price:       arg.Price,
		CreatedAt:   f.tick(),
	}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeStore) UpdateProductPrice(_ context.Context, arg repository.UpdateProductPriceParams) (repository.Product, error) {
	for i := range f.products {
		if f.products[i].ID == arg.ID {
			f.products[i].Price = arg.Price
			return f.products[i], nil
		}
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (f *fakeStore) UpdateProductImage(_ context.Context, arg repository.UpdateProductImageParams) (repository.Product, error) {
	if err := f.fail("UpdateProductImage"); err != nil {
		return repository.Product{}, err
	}
	for i := range f.products {
		if f.products[i].Slug == arg.Slug {
			f.products[i].ImageUrl = arg.ImageUrl
			return f.products[i], nil
		}
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (f *fakeStore) CountProducts(_ context.Context) (int64, error) {
	return int64(len(f.products)), nil
}

func (f *fakeStore) ListProducts(_ context.Context, arg repository.ListProductsParams) ([]repository.Product, error) {
	sorted := append([]repository.Product(nil), f.products...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	start := int(arg.Offset)
	if start > len(sorted) {
		return nil, nil
	}
	end := start + int(arg.Limit)
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end], nil
}

func (f *fakeStore) ListProductsByCategory(_ context.Context, arg repository.ListProductsByCategoryParams) ([]repository.Product, error) {
	var out []repository.Product
	for _, p := range f.products {
		if p.CategoryID != arg.CategoryID {
			continue
		}
		if arg.Search != "" && !strings.Contains(p.TitleLower, strings.ToLower(arg.Search)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) GetProductBySlug(_ context.Context, slug string) (repository.Product, error) {
	if err := f.fail("GetProductBySlug"); err != nil {
		return repository.Product{}, err
	}
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateShop(_ context.Context, arg repository.CreateShopParams) (repository.Shop, error) {
	s := repository.Shop{ID: uuid.New(), Name: arg.Name, Address: arg.Address, Phone: arg.Phone}
	f.shops = append(f.shops, s)
	return s, nil
}

func (f *fakeStore) ListShops(_ context.Context) ([]repository.Shop, error) {
	return append([]repository.Shop(nil), f.shops...), nil
}

func (f *fakeStore) CreateInfoSection(_ context.Context, arg repository.CreateInfoSectionParams) (repository.InfoSection, error) {
	s := repository.InfoSection{ID: uuid.New(), Page: arg.Page, Title: arg.Title, Body: arg.Body, Position: arg.Position}
	f.infoSections = append(f.infoSections, s)
	return s, nil
}

func (f *fakeStore) ListInfoSections(_ context.Context, page string) ([]repository.InfoSection, error) {
	if err := f.fail("ListInfoSections"); err != nil {
		return nil, err
	}
	var out []repository.InfoSection
	for _, s := range f.infoSections {
		if s.Page == page {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// Carts

func (f *fakeStore) GetOpenCartByOwner(_ context.Context, ownerID uuid.UUID) (repository.Cart, error) {
	for _, c := range f.carts {
		if c.OwnerID.Valid && c.OwnerID.UUID == ownerID && !c.InOrder {
			return c, nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) GetOpenCartBySessionToken(_ context.Context, token string) (repository.Cart, error) {
	for _, c := range f.carts {
		if c.SessionToken.Valid && c.SessionToken.String == token && !c.InOrder {
			return c, nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateCart(ctx context.Context, arg repository.CreateCartParams) (repository.Cart, error) {
	if f.beforeCreateCart != nil {
		hook := f.beforeCreateCart
		f.beforeCreateCart = nil
		hook(f)
	}
	if err := f.fail("CreateCart"); err != nil {
		return repository.Cart{}, err
	}

	// Partial unique indexes on open carts.
	if arg.OwnerID.Valid {
		if _, err := f.GetOpenCartByOwner(ctx, arg.OwnerID.UUID); err == nil {
			return repository.Cart{}, uniqueViolation(repository.ConstraintOpenOwnerCart)
		}
	}
	if arg.SessionToken.Valid {
		if _, err := f.GetOpenCartBySessionToken(ctx, arg.SessionToken.String); err == nil {
			return repository.Cart{}, uniqueViolation(repository.ConstraintOpenSessionCart)
		}
	}

	now := f.tick()
	c := repository.Cart{
		ID:           uuid.New(),
		OwnerID:      arg.OwnerID,
		SessionToken: arg.SessionToken,
		FinalPrice:   decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.carts = append(f.carts, c)
	return c, nil
}

func (f *fakeStore) GetCartByID(_ context.Context, id uuid.UUID) (repository.Cart, error) {
	for _, c := range f.carts {
		if c.ID == id {
			return c, nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) GetCartForUpdate(ctx context.Context, id uuid.UUID) (repository.Cart, error) {
	return f.GetCartByID(ctx, id)
}

func (f *fakeStore) UpdateCartTotals(_ context.Context, arg repository.UpdateCartTotalsParams) (repository.Cart, error) {
	if err := f.fail("UpdateCartTotals"); err != nil {
		return repository.Cart{}, err
	}
	for i := range f.carts {
		if f.carts[i].ID == arg.ID {
			f.carts[i].TotalProducts = arg.TotalProducts
			f.carts[i].FinalPrice = arg.FinalPrice
			f.carts[i].UpdatedAt = f.tick()
			return f.carts[i], nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) MarkCartInOrder(_ context.Context, id uuid.UUID) (repository.Cart, error) {
	if err := f.fail("MarkCartInOrder"); err != nil {
		return repository.Cart{}, err
	}
	for i := range f.carts {
		if f.carts[i].ID == id && !f.carts[i].InOrder {
			f.carts[i].InOrder = true
			return f.carts[i], nil
		}
	}
	return repository.Cart{}, pgx.ErrNoRows
}

func (f *fakeStore) ListCartLineItems(_ context.Context, cartID uuid.UUID) ([]repository.CartLineItem, error) {
	var out []repository.CartLineItem
	for _, l := range f.lines {
		if l.CartID == cartID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCartItemsWithProducts(_ context.Context, cartID uuid.UUID) ([]repository.ListCartItemsWithProductsRow, error) {
	var out []repository.ListCartItemsWithProductsRow
	for _, l := range f.lines {
		if l.CartID != cartID {
			continue
		}
		row := repository.ListCartItemsWithProductsRow{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
		for _, p := range f.products {
			if p.ID == l.ProductID {
				row.ProductTitle = p.Title
				row.ProductSlug = p.Slug
				row.ImageUrl = p.ImageUrl
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeStore) GetCartLineItem(_ context.Context, arg repository.GetCartLineItemParams) (repository.CartLineItem, error) {
	for _, l := range f.lines {
		if l.CartID == arg.CartID && l.ProductID == arg.ProductID {
			return l, nil
		}
	}
	return repository.CartLineItem{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateCartLineItem(_ context.Context, arg repository.CreateCartLineItemParams) (repository.CartLineItem, error) {
	if err := f.fail("CreateCartLineItem"); err != nil {
		return repository.CartLineItem{}, err
	}
	now := f.tick()
	l := repository.CartLineItem{
		ID:         uuid.New(),
		CartID:     arg.CartID,
		CustomerID: arg.CustomerID,
		ProductID:  arg.ProductID,
		Quantity:   arg.Quantity,
		UnitPrice:  arg.UnitPrice,
		LineTotal:  arg.LineTotal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.lines = append(f.lines, l)
	return l, nil
}

func (f *fakeStore) UpdateCartLineItem(_ context.Context, arg repository.UpdateCartLineItemParams) (repository.CartLineItem, error) {
	for i := range f.lines {
		if f.lines[i].ID == arg.ID {
			f.lines[i].Quantity = arg.Quantity
			f.lines[i].UnitPrice = arg.UnitPrice
			f.lines[i].LineTotal = arg.LineTotal
			f.lines[i].UpdatedAt = f.tick()
			return f.lines[i], nil
		}
	}
	return repository.CartLineItem{}, pgx.ErrNoRows
}

func (f *fakeStore) DeleteCartLineItem(_ context.Context, id uuid.UUID) error {
	kept := f.lines[:0:0]
	for _, l := range f.lines {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	f.lines = kept
	return nil
}

func (f *fakeStore) DeleteCartLineItems(_ context.Context, cartID uuid.UUID) error {
	kept := f.lines[:0:0]
	for _, l := range f.lines {
		if l.CartID != cartID {
			kept = append(kept, l)
		}
	}
	f.lines = kept
	return nil
}

// Orders

func (f *fakeStore) CreateOrder(_ context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	if err := f.fail("CreateOrder"); err != nil {
		return repository.Order{}, err
	}
	for _, o := range f.orders {
		if o.CartID == arg.CartID {
			return repository.Order{}, uniqueViolation(repository.ConstraintOrdersCart)
		}
	}
	now := f.tick()
	o := repository.Order{
		ID:            uuid.New(),
		CustomerID:    arg.CustomerID,
		CartID:        arg.CartID,
		FirstName:     arg.FirstName,
		LastName:      arg.LastName,
		Phone:         arg.Phone,
		Address:       arg.Address,
		BuyingType:    arg.BuyingType,
		Status:        "new",
		Comment:       arg.Comment,
		OrderDate:     arg.OrderDate,
		TotalProducts: arg.TotalProducts,
		FinalPrice:    arg.FinalPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeStore) AddCustomerOrder(_ context.Context, arg repository.AddCustomerOrderParams) error {
	f.customerOrders = append(f.customerOrders, arg)
	return nil
}

func (f *fakeStore) GetOrderByID(_ context.Context, id uuid.UUID) (repository.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return repository.Order{}, pgx.ErrNoRows
}

func (f *fakeStore) ListOrdersByCustomer(_ context.Context, customerID uuid.UUID) ([]repository.Order, error) {
	var out []repository.Order
	for i := len(f.customerOrders) - 1; i >= 0; i-- {
		co := f.customerOrders[i]
		if co.CustomerID != customerID {
			continue
		}
		for _, o := range f.orders {
			if o.ID == co.OrderID {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateOrderStatus(_ context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == arg.ID && f.orders[i].Status == arg.FromStatus {
			f.orders[i].Status = arg.ToStatus
			f.orders[i].UpdatedAt = f.tick()
			return f.orders[i], nil
		}
	}
	return repository.Order{}, pgx.ErrNoRows
}

// Reviews

func (f *fakeStore) CreateReview(_ context.Context, arg repository.CreateReviewParams) (repository.Review, error) {
	r := repository.Review{
		ID:        uuid.New(),
		Title:     arg.Title,
		Name:      arg.Name,
		Phone:     arg.Phone,
		Email:     arg.Email,
		Body:      arg.Body,
		CreatedAt: f.tick(),
	}
	f.reviews = append(f.reviews, r)
	return r, nil
}

// Jobs

func (f *fakeStore) EnqueueJob(_ context.Context, arg repository.EnqueueJobParams) (repository.Job, error) {
	if err := f.fail("EnqueueJob"); err != nil {
		return repository.Job{}, err
	}
	j := repository.Job{
		ID:             uuid.New(),
		JobType:        arg.JobType,
		Queue:          arg.Queue,
		Payload:        arg.Payload,
		Status:         "pending",
		Priority:       arg.Priority,
		MaxRetries:     arg.MaxRetries,
		TimeoutSeconds: arg.TimeoutSeconds,
		ScheduledAt:    arg.ScheduledAt,
		CreatedAt:      f.tick(),
	}
	f.jobs = append(f.jobs, j)
	return j, nil
}

func (f *fakeStore) ClaimNextJob(_ context.Context, arg repository.ClaimNextJobParams) (repository.Job, error) {
	for i := range f.jobs {
		if f.jobs[i].Status == "pending" {
			f.jobs[i].Status = "running"
			f.jobs[i].WorkerID = pgtype.Text{String: arg.WorkerID, Valid: true}
			return f.jobs[i], nil
		}
	}
	return repository.Job{}, pgx.ErrNoRows
}

func (f *fakeStore) CompleteJob(_ context.Context, id uuid.UUID) error {
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			f.jobs[i].Status = "completed"
		}
	}
	return nil
}

func (f *fakeStore) FailJob(_ context.Context, arg repository.FailJobParams) (repository.Job, error) {
	for i := range f.jobs {
		if f.jobs[i].ID == arg.ID {
			f.jobs[i].RetryCount++
			f.jobs[i].ErrorMessage = pgtype.Text{String: arg.ErrorMessage, Valid: true}
			f.jobs[i].Status = "pending"
			if f.jobs[i].RetryCount >= f.jobs[i].MaxRetries {
				f.jobs[i].Status = "failed"
			}
			return f.jobs[i], nil
		}
	}
	return repository.Job{}, pgx.ErrNoRows
}
