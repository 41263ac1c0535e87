package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
)

func TestCatalogService_ListProducts(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		store.addProduct(slug, "1.00")
	}
	svc := NewCatalogService(store, 2)

	tests := []struct {
		name      string
		page      string
		wantPage  int
		wantSlugs []string
	}{
		{name: "first page", page: "1", wantPage: 1, wantSlugs: []string{"e", "d"}},
		{name: "second page", page: "2", wantPage: 2, wantSlugs: []string{"c", "b"}},
		{name: "non-numeric falls back to first", page: "abc", wantPage: 1, wantSlugs: []string{"e", "d"}},
		{name: "empty falls back to first", page: "", wantPage: 1, wantSlugs: []string{"e", "d"}},
		{name: "past the end clamps to last", page: "42", wantPage: 3, wantSlugs: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ListProducts(ctx, tt.page)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPage, result.Page.Number)
			assert.Equal(t, 3, result.Page.TotalPages)

			var slugs []string
			for _, p := range result.Products {
				slugs = append(slugs, p.Slug)
			}
			assert.Equal(t, tt.wantSlugs, slugs)
		})
	}
}

func TestCatalogService_DefaultPageSize(t *testing.T) {
	svc := NewCatalogService(newFakeStore(), 0)
	assert.Equal(t, defaultPageSize, svc.pageSize)
}

func TestCatalogService_ListCategoryProducts(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	coffee, err := store.CreateCategory(ctx, repository.CreateCategoryParams{Name: "Coffee", Slug: "coffee"})
	require.NoError(t, err)
	tea, err := store.CreateCategory(ctx, repository.CreateCategoryParams{Name: "Tea", Slug: "tea"})
	require.NoError(t, err)

	for _, p := range []repository.CreateProductParams{
		{CategoryID: coffee.ID, Title: "Ethiopia Yirgacheffe", Slug: "ethiopia", Price: dec("12.00")},
		{CategoryID: coffee.ID, Title: "Colombia Huila", Slug: "colombia", Price: dec("11.00")},
		{CategoryID: tea.ID, Title: "Earl Grey", Slug: "earl-grey", Price: dec("5.00")},
	} {
		_, err := store.CreateProduct(ctx, p)
		require.NoError(t, err)
	}

	svc := NewCatalogService(store, 2)

	category, products, err := svc.ListCategoryProducts(ctx, "coffee", "")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", category.Name)
	assert.Len(t, products, 2)

	_, products, err = svc.ListCategoryProducts(ctx, "coffee", "  YIRGA ")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "ethiopia", products[0].Slug)

	_, products, err = svc.ListCategoryProducts(ctx, "coffee", "grey")
	require.NoError(t, err)
	assert.Empty(t, products)

	_, _, err = svc.ListCategoryProducts(ctx, "juice", "")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestCatalogService_GetProduct(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addProduct("espresso", "10.00")
	svc := NewCatalogService(store, 2)

	product, err := svc.GetProduct(ctx, "espresso")
	require.NoError(t, err)
	assert.True(t, product.Price.Equal(dec("10.00")))

	_, err = svc.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestCatalogService_ListShops(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	_, err := store.CreateShop(ctx, repository.CreateShopParams{Name: "Central", Address: "1 Main St", Phone: "555"})
	require.NoError(t, err)

	shops, err := NewCatalogService(store, 2).ListShops(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "Central", shops[0].Name)
}
