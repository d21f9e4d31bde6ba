package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"furnish/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	t.Run("derives slug from name when absent", func(t *testing.T) {
		var captured *catalog.CategoryInput
		store := &stubStore{
			createCategory: func(ctx context.Context, in *catalog.CategoryInput) (*catalog.Category, error) {
				captured = in
				return &catalog.Category{
					ID: "7bb08cde-56a7-40ef-b10e-5f4e00bfefee", Name: in.Name, Slug: in.Slug,
					IsActive: in.IsActive, CreatedAt: time.Now(), UpdatedAt: time.Now(),
				}, nil
			},
		}
		app := newTestApplication(t, store)

		body := `{"name":" Living Room "}`
		req := withSession(t, app, httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(body)))
		rr := do(app, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "Living Room", captured.Name)
		assert.Equal(t, "living-room", captured.Slug)
		assert.True(t, captured.IsActive, "isActive defaults to true")
	})

	t.Run("first violation is reported", func(t *testing.T) {
		app := newTestApplication(t, &stubStore{})

		body := `{"name":"x"}`
		req := withSession(t, app, httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(body)))
		rr := do(app, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"name must be at least 2 characters."}`, rr.Body.String())
	})

	t.Run("duplicate surfaces as conflict", func(t *testing.T) {
		store := &stubStore{
			createCategory: func(ctx context.Context, in *catalog.CategoryInput) (*catalog.Category, error) {
				return nil, catalog.ErrConflict
			},
		}
		app := newTestApplication(t, store)

		body := `{"name":"Living Room"}`
		req := withSession(t, app, httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(body)))
		rr := do(app, req)

		require.Equal(t, http.StatusConflict, rr.Code)
		assert.JSONEq(t, `{"error":"Category slug/name must be unique."}`, rr.Body.String())
	})

	t.Run("requires a session", func(t *testing.T) {
		app := newTestApplication(t, &stubStore{})

		req := httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(`{"name":"Living Room"}`))
		rr := do(app, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUpdateCategoryNotFound(t *testing.T) {
	store := &stubStore{
		updateCategory: func(ctx context.Context, id string, in *catalog.CategoryInput) (*catalog.Category, error) {
			return nil, catalog.ErrNotFound
		},
	}
	app := newTestApplication(t, store)

	body := `{"name":"Living Room"}`
	req := withSession(t, app, httptest.NewRequest(http.MethodPatch, "/admin/categories/nope", strings.NewReader(body)))
	rr := do(app, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Category not found."}`, rr.Body.String())
}

func TestDeleteCategory(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var deletedID string
		store := &stubStore{
			deleteCategory: func(ctx context.Context, id string) error {
				deletedID = id
				return nil
			},
		}
		app := newTestApplication(t, store)

		req := withSession(t, app, httptest.NewRequest(http.MethodDelete, "/admin/categories/7bb08cde-56a7-40ef-b10e-5f4e00bfefee", nil))
		rr := do(app, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
		assert.Equal(t, "7bb08cde-56a7-40ef-b10e-5f4e00bfefee", deletedID)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := &stubStore{
			deleteCategory: func(ctx context.Context, id string) error {
				return catalog.ErrNotFound
			},
		}
		app := newTestApplication(t, store)

		req := withSession(t, app, httptest.NewRequest(http.MethodDelete, "/admin/categories/nope", nil))
		rr := do(app, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListCategoriesIncludesInactive(t *testing.T) {
	var includeInactive bool
	store := &stubStore{
		getCategories: func(ctx context.Context, inc bool) ([]*catalog.Category, error) {
			includeInactive = inc
			return []*catalog.Category{}, nil
		},
	}
	app := newTestApplication(t, store)

	req := withSession(t, app, httptest.NewRequest(http.MethodGet, "/admin/categories", nil))
	rr := do(app, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, includeInactive, "admin listing must not hide disabled categories")
}
