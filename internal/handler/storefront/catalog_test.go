package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/stshop/internal/domain"
)

var (
	testProduct = domain.Product{
		ID:          uuid.MustParse("523e4567-e89b-12d3-a456-426614174000"),
		Title:       "Claw Hammer",
		Slug:        "claw-hammer",
		Description: "16oz steel head",
		Price:       decimal.RequireFromString("12.5"),
	}
	testCategory = domain.Category{
		ID:   uuid.MustParse("623e4567-e89b-12d3-a456-426614174000"),
		Name: "Hand Tools",
		Slug: "hand-tools",
	}
)

func TestCatalogHandler_Home(t *testing.T) {
	var gotPage string
	catalog := &mockCatalogService{
		listProductsFunc: func(ctx context.Context, page string) (*domain.ProductPage, error) {
			gotPage = page
			return &domain.ProductPage{
				Products: []domain.Product{testProduct},
				Page:     domain.Page{Number: 2, TotalPages: 3, PageSize: 10},
			}, nil
		},
		listCategoriesFunc: func(ctx context.Context) ([]domain.Category, error) {
			return []domain.Category{testCategory}, nil
		},
	}
	h := NewCatalogHandler(catalog, newTestRenderer(t))

	t.Run("html", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Home(rec, httptest.NewRequest(http.MethodGet, "/?page=2", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", gotPage)
		body := rec.Body.String()
		assert.Contains(t, body, "Claw Hammer")
		assert.Contains(t, body, "12.50")
		assert.Contains(t, body, `href="/category/hand-tools"`)
		assert.Contains(t, body, `href="/?page=1"`)
		assert.Contains(t, body, `href="/?page=3"`)
	})

	t.Run("json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.Home(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Products []productView `json:"products"`
			Page     pageView      `json:"page"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Products, 1)
		assert.Equal(t, "12.50", body.Products[0].Price)
		assert.Equal(t, 3, body.Page.TotalPages)
	})
}

func TestCatalogHandler_Category(t *testing.T) {
	tests := []struct {
		name       string
		slug       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "lists products",
			slug:       "hand-tools",
			wantStatus: http.StatusOK,
			wantBody:   "Claw Hammer",
		},
		{
			name:       "passes search through",
			slug:       "hand-tools",
			query:      "hammer",
			wantStatus: http.StatusOK,
			wantBody:   `value="hammer"`,
		},
		{
			name:       "unknown category is 404",
			slug:       "nope",
			wantStatus: http.StatusNotFound,
			wantBody:   "Category not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			catalog := &mockCatalogService{
				listCategoryProductsFunc: func(ctx context.Context, slug, query string) (*domain.Category, []domain.Product, error) {
					gotQuery = query
					if slug != testCategory.Slug {
						return nil, nil, domain.ErrCategoryNotFound
					}
					return &testCategory, []domain.Product{testProduct}, nil
				},
			}
			h := NewCatalogHandler(catalog, newTestRenderer(t))

			req := httptest.NewRequest(http.MethodGet, "/category/"+tt.slug+"?search="+tt.query, nil)
			req.SetPathValue("slug", tt.slug)
			rec := httptest.NewRecorder()
			h.Category(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Equal(t, tt.query, gotQuery)
		})
	}
}

func TestCatalogHandler_Product(t *testing.T) {
	catalog := &mockCatalogService{
		getProductFunc: func(ctx context.Context, slug string) (*domain.Product, error) {
			if slug == testProduct.Slug {
				return &testProduct, nil
			}
			return nil, domain.ErrProductNotFound
		},
	}
	h := NewCatalogHandler(catalog, newTestRenderer(t))

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/claw-hammer", nil)
		req.SetPathValue("slug", "claw-hammer")
		rec := httptest.NewRecorder()
		h.Product(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `action="/cart/add/claw-hammer"`)
		assert.Contains(t, rec.Body.String(), "16oz steel head")
	})

	t.Run("missing as json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/nope", nil)
		req.SetPathValue("slug", "nope")
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.Product(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"not_found"`)
	})
}

func TestCatalogHandler_Shops(t *testing.T) {
	catalog := &mockCatalogService{
		listShopsFunc: func(ctx context.Context) ([]domain.Shop, error) {
			return []domain.Shop{{Name: "Central", Address: "1 Main St", Phone: "555-0100"}}, nil
		},
	}
	h := NewCatalogHandler(catalog, newTestRenderer(t))

	rec := httptest.NewRecorder()
	h.Shops(rec, httptest.NewRequest(http.MethodGet, "/shops", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 Main St")
}
