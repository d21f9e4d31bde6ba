package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"furnish/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomePage(t *testing.T) {
	var captured catalog.SearchInput
	price := 129.0
	store := &stubStore{
		getPublishedProducts: func(ctx context.Context, in catalog.SearchInput) (*catalog.SearchResult, error) {
			captured = in
			return &catalog.SearchResult{
				Items: []*catalog.Product{{
					ID: "0b7a2ffe-13b5-4a0c-8a4e-2b5a9f4c9c01", Title: "Oak Coffee Table",
					Slug: "oak-coffee-table", CategorySlug: "tables", ImageURL: "https://cdn.example.com/t.jpg",
					Price: &price, Currency: catalog.Currency, IsPublished: true,
					CreatedAt: time.Now(), UpdatedAt: time.Now(),
				}},
				Total: 1, Page: 1, Limit: 12, TotalPages: 1,
			}, nil
		},
	}
	app := newTestApplication(t, store)

	req := httptest.NewRequest(http.MethodGet, "/?q=oak&category=tables&minPrice=100&maxPrice=200&page=2", nil)
	rr := do(app, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Oak Coffee Table")
	assert.Contains(t, rr.Body.String(), "$129.00")

	assert.Equal(t, "oak", captured.Query)
	assert.Equal(t, "tables", captured.Category)
	require.NotNil(t, captured.MinPrice)
	require.NotNil(t, captured.MaxPrice)
	assert.Equal(t, 100.0, *captured.MinPrice)
	assert.Equal(t, 200.0, *captured.MaxPrice)
	assert.Equal(t, 2, captured.Page)
}

func TestProductPage(t *testing.T) {
	t.Run("unknown slug", func(t *testing.T) {
		store := &stubStore{
			getProductBySlug: func(ctx context.Context, slug string, includeUnpublished bool) (*catalog.Product, error) {
				// the public page never sees unpublished products
				require.False(t, includeUnpublished)
				return nil, catalog.ErrNotFound
			},
		}
		app := newTestApplication(t, store)

		req := httptest.NewRequest(http.MethodGet, "/products/ghost", nil)
		rr := do(app, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("renders detail with related strip", func(t *testing.T) {
		product := &catalog.Product{
			ID: "0b7a2ffe-13b5-4a0c-8a4e-2b5a9f4c9c01", Title: "Furniture Set",
			Slug: "furniture-set", CategorySlug: "living-room",
			DescriptionHTML: "<p>A full set.</p>", ImageURL: "https://cdn.example.com/set.jpg",
			Currency: catalog.Currency, IsPublished: true,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		store := &stubStore{
			getProductBySlug: func(ctx context.Context, slug string, includeUnpublished bool) (*catalog.Product, error) {
				return product, nil
			},
			getRelatedProducts: func(ctx context.Context, categorySlug, excludeID string, limit int) ([]*catalog.Product, error) {
				assert.Equal(t, "living-room", categorySlug)
				assert.Equal(t, product.ID, excludeID)
				assert.Equal(t, catalog.DefaultRelatedLimit, limit)
				return []*catalog.Product{{
					ID: "57b15f27-2e0a-4232-a5d0-1f04312fd9e3", Title: "Lounge Chair",
					Slug: "lounge-chair", CategorySlug: "living-room",
					Currency: catalog.Currency, IsPublished: true,
					CreatedAt: time.Now(), UpdatedAt: time.Now(),
				}}, nil
			},
		}
		app := newTestApplication(t, store)

		req := httptest.NewRequest(http.MethodGet, "/products/furniture-set", nil)
		rr := do(app, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Furniture Set")
		assert.Contains(t, rr.Body.String(), "<p>A full set.</p>", "rich text renders unescaped")
		assert.Contains(t, rr.Body.String(), "Lounge Chair")
	})
}
