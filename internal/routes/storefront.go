package routes

import (
	"github.com/dukerupert/stshop/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes.
// Anonymous visitors can browse, fill a cart and send feedback; checkout and
// order history need a logged-in customer.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Catalog
	r.Get("/{$}", deps.CatalogHandler.Home)
	r.Get("/categories", deps.CatalogHandler.Categories)
	r.Get("/category/{slug}", deps.CatalogHandler.Category)
	r.Get("/products/{slug}", deps.CatalogHandler.Product)
	r.Get("/shops", deps.CatalogHandler.Shops)

	// Info pages
	r.Get("/how-to-order", deps.PagesHandler.HowToOrder)
	r.Get("/how-to-pay", deps.PagesHandler.HowToPay)

	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/add/{slug}", deps.CartHandler.Add)
	r.Post("/cart/remove/{slug}", deps.CartHandler.Remove)
	r.Post("/cart/change-qty/{slug}", deps.CartHandler.ChangeQty)
	r.Post("/cart/clear", deps.CartHandler.Clear)

	// Feedback
	r.Get("/review", deps.ReviewHandler.Form)
	r.Post("/review", deps.ReviewHandler.Submit)

	// Authentication (POST login/registration registered below with rate limiting)
	r.Get("/login", deps.AuthHandler.LoginForm)
	r.Get("/registration", deps.AuthHandler.RegistrationForm)
	r.Post("/logout", deps.AuthHandler.Logout)

	limited := r.Group(deps.StrictRateLimit)
	limited.Post("/login", deps.AuthHandler.Login)
	limited.Post("/registration", deps.AuthHandler.Register)

	// Checkout and account routes (require authentication)
	account := r.Group(deps.RequireAuth)
	account.Get("/checkout", deps.CheckoutHandler.Page)
	account.Post("/checkout/make-order", deps.CheckoutHandler.MakeOrder, deps.StrictRateLimit)
	account.Get("/account/orders", deps.AccountHandler.Orders)
	account.Get("/account/orders/{id}", deps.AccountHandler.Order)
}
