package storefront

import (
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/stshop/internal/cookie"
	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/handler"
	"github.com/dukerupert/stshop/internal/middleware"
)

// AuthHandler serves login, logout and registration.
type AuthHandler struct {
	users    domain.UserService
	cookies  *cookie.Config
	renderer *handler.Renderer
}

func NewAuthHandler(users domain.UserService, cookies *cookie.Config, renderer *handler.Renderer) *AuthHandler {
	return &AuthHandler{
		users:    users,
		cookies:  cookies,
		renderer: renderer,
	}
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	returnTo := safeReturnTo(r.URL.Query().Get("return_to"))
	if domain.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, returnTo, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, "", returnTo, "")
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	values, err := formValues(r)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	username := strings.TrimSpace(values.Get("username"))
	returnTo := safeReturnTo(values.Get("return_to"))

	customer, err := h.users.Authenticate(r.Context(), username, values.Get("password"))
	if err != nil {
		if domain.ErrorCode(err) == domain.EUNAUTHORIZED && !handler.AcceptsJSON(r) {
			handler.LogError(r, err, http.StatusUnauthorized)
			h.renderLogin(w, r, http.StatusUnauthorized, domain.ErrorMessage(err), returnTo, username)
			return
		}
		renderError(w, r, h.renderer, err)
		return
	}

	if err := h.startSession(w, r, customer); err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	redirect(w, r, returnTo, customerView(customer))
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, message, returnTo, username string) {
	data := BaseTemplateData(r)
	data["Title"] = "Log in"
	data["ReturnTo"] = returnTo
	data["Username"] = username
	if message != "" {
		data["Error"] = message
	}
	h.renderer.RenderStatus(w, r, status, "login", data)
}

// RegistrationForm handles GET /registration
func (h *AuthHandler) RegistrationForm(w http.ResponseWriter, r *http.Request) {
	if domain.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderRegistration(w, r, http.StatusOK, domain.RegisterParams{}, nil, "")
}

// Register handles POST /registration. A new customer is logged in
// straight away.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	values, err := formValues(r)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	params := domain.RegisterParams{
		Username:        strings.TrimSpace(values.Get("username")),
		Email:           strings.TrimSpace(values.Get("email")),
		Password:        values.Get("password"),
		ConfirmPassword: values.Get("confirm_password"),
		FirstName:       values.Get("first_name"),
		LastName:        values.Get("last_name"),
		Phone:           values.Get("phone"),
		Address:         values.Get("address"),
	}

	customer, err := h.users.Register(r.Context(), params)
	if err != nil {
		code := domain.ErrorCode(err)
		if (code == domain.EINVALID || code == domain.ECONFLICT) && !handler.AcceptsJSON(r) {
			handler.LogError(r, err, handler.ErrorCodeToHTTPStatus(code))
			params.Password, params.ConfirmPassword = "", ""
			message := ""
			if code == domain.ECONFLICT {
				message = domain.ErrorMessage(err)
			}
			h.renderRegistration(w, r, handler.ErrorCodeToHTTPStatus(code), params, domain.GetValidationFields(err), message)
			return
		}
		renderError(w, r, h.renderer, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("customer registered", "customer_id", customer.ID)

	if err := h.startSession(w, r, customer); err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		handler.WriteJSON(w, http.StatusCreated, customerView(customer))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) renderRegistration(w http.ResponseWriter, r *http.Request, status int, form domain.RegisterParams, fields map[string]string, message string) {
	if fields == nil {
		fields = map[string]string{}
	}

	data := BaseTemplateData(r)
	data["Title"] = "Registration"
	data["Form"] = form
	data["Errors"] = fields
	if message != "" {
		data["Error"] = message
	}
	h.renderer.RenderStatus(w, r, status, "registration", data)
}

// Logout handles POST /logout. It is idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := cookie.Get(r, cookie.SessionCookieName); token != "" {
		if err := h.users.DeleteSession(r.Context(), token); err != nil && domain.ErrorCode(err) != domain.ENOTFOUND {
			// the cookie is cleared regardless; the row expires on its own
			middleware.GetLogger(r.Context()).Error("failed to delete session", "error", err)
		}
	}
	h.cookies.ClearSession(w, cookie.SessionCookieName)

	if handler.AcceptsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, customer *domain.Customer) error {
	session, err := h.users.CreateSession(r.Context(), customer.ID)
	if err != nil {
		return err
	}
	h.cookies.SetSession(w, cookie.SessionCookieName, session.Token, time.Until(session.ExpiresAt))
	return nil
}

type customerJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func customerView(c *domain.Customer) customerJSON {
	return customerJSON{ID: c.ID.String(), Username: c.Username, Email: c.Email}
}
