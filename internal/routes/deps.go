package routes

import (
	"net/http"

	"github.com/dukerupert/stshop/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Catalog (home, categories, products, shops)
	CatalogHandler *storefront.CatalogHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Auth (login, logout, registration)
	AuthHandler *storefront.AuthHandler

	// Checkout
	CheckoutHandler *storefront.CheckoutHandler

	// Account (order history)
	AccountHandler *storefront.AccountHandler

	// Feedback form
	ReviewHandler *storefront.ReviewHandler

	// How to order / how to pay
	PagesHandler *storefront.PagesHandler

	// RequireAuth guards checkout and account pages.
	RequireAuth func(http.Handler) http.Handler

	// StrictRateLimit guards credential and order submission.
	StrictRateLimit func(http.Handler) http.Handler
}
