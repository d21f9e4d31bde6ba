package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"furnish/internal/auth"
	"furnish/internal/catalog"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

const testPasscode = "test-passcode"

// stubStore implements catalog.Store with overridable function fields so
// each test wires only the calls it expects.
type stubStore struct {
	getCategories        func(ctx context.Context, includeInactive bool) ([]*catalog.Category, error)
	getCategoryByID      func(ctx context.Context, id string) (*catalog.Category, error)
	createCategory       func(ctx context.Context, in *catalog.CategoryInput) (*catalog.Category, error)
	updateCategory       func(ctx context.Context, id string, in *catalog.CategoryInput) (*catalog.Category, error)
	deleteCategory       func(ctx context.Context, id string) error
	getPublishedProducts func(ctx context.Context, in catalog.SearchInput) (*catalog.SearchResult, error)
	getAdminProducts     func(ctx context.Context, in catalog.SearchInput) (*catalog.SearchResult, error)
	getRelatedProducts   func(ctx context.Context, categorySlug, excludeID string, limit int) ([]*catalog.Product, error)
	getProductByID       func(ctx context.Context, id string) (*catalog.Product, error)
	getProductBySlug     func(ctx context.Context, slug string, includeUnpublished bool) (*catalog.Product, error)
	createProduct        func(ctx context.Context, in *catalog.ProductInput) (*catalog.Product, error)
	updateProduct        func(ctx context.Context, id string, in *catalog.ProductInput) (*catalog.Product, error)
	deleteProduct        func(ctx context.Context, id string) error
}

var errUnexpectedCall = errors.New("unexpected store call")

func emptyResult() *catalog.SearchResult {
	return &catalog.SearchResult{Items: []*catalog.Product{}, Total: 0, Page: 1, Limit: 12, TotalPages: 1}
}

func (s *stubStore) GetCategories(ctx context.Context, includeInactive bool) ([]*catalog.Category, error) {
	if s.getCategories == nil {
		return nil, nil
	}
	return s.getCategories(ctx, includeInactive)
}

func (s *stubStore) GetCategoryByID(ctx context.Context, id string) (*catalog.Category, error) {
	if s.getCategoryByID == nil {
		return nil, errUnexpectedCall
	}
	return s.getCategoryByID(ctx, id)
}

func (s *stubStore) CreateCategory(ctx context.Context, in *catalog.CategoryInput) (*catalog.Category, error) {
	if s.createCategory == nil {
		return nil, errUnexpectedCall
	}
	return s.createCategory(ctx, in)
}

func (s *stubStore) UpdateCategory(ctx context.Context, id string, in *catalog.CategoryInput) (*catalog.Category, error) {
	if s.updateCategory == nil {
		return nil, errUnexpectedCall
	}
	return s.updateCategory(ctx, id, in)
}

func (s *stubStore) DeleteCategory(ctx context.Context, id string) error {
	if s.deleteCategory == nil {
		return errUnexpectedCall
	}
	return s.deleteCategory(ctx, id)
}

func (s *stubStore) GetPublishedProducts(ctx context.Context, in catalog.SearchInput) (*catalog.SearchResult, error) {
	if s.getPublishedProducts == nil {
		return emptyResult(), nil
	}
	return s.getPublishedProducts(ctx, in)
}

func (s *stubStore) GetAdminProducts(ctx context.Context, in catalog.SearchInput) (*catalog.SearchResult, error) {
	if s.getAdminProducts == nil {
		return emptyResult(), nil
	}
	return s.getAdminProducts(ctx, in)
}

func (s *stubStore) GetRelatedProducts(ctx context.Context, categorySlug, excludeID string, limit int) ([]*catalog.Product, error) {
	if s.getRelatedProducts == nil {
		return nil, nil
	}
	return s.getRelatedProducts(ctx, categorySlug, excludeID, limit)
}

func (s *stubStore) GetProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	if s.getProductByID == nil {
		return nil, errUnexpectedCall
	}
	return s.getProductByID(ctx, id)
}

func (s *stubStore) GetProductBySlug(ctx context.Context, slug string, includeUnpublished bool) (*catalog.Product, error) {
	if s.getProductBySlug == nil {
		return nil, errUnexpectedCall
	}
	return s.getProductBySlug(ctx, slug, includeUnpublished)
}

func (s *stubStore) CreateProduct(ctx context.Context, in *catalog.ProductInput) (*catalog.Product, error) {
	if s.createProduct == nil {
		return nil, errUnexpectedCall
	}
	return s.createProduct(ctx, in)
}

func (s *stubStore) UpdateProduct(ctx context.Context, id string, in *catalog.ProductInput) (*catalog.Product, error) {
	if s.updateProduct == nil {
		return nil, errUnexpectedCall
	}
	return s.updateProduct(ctx, id, in)
}

func (s *stubStore) DeleteProduct(ctx context.Context, id string) error {
	if s.deleteProduct == nil {
		return errUnexpectedCall
	}
	return s.deleteProduct(ctx, id)
}

func newTestApplication(t *testing.T, store catalog.Store) *application {
	t.Helper()
	if store == nil {
		store = &stubStore{}
	}
	return &application{
		config: config{
			addr:  ":0",
			env:   "test",
			admin: adminConfig{passcode: testPasscode},
		},
		store:         store,
		logger:        nopLogger(),
		authenticator: auth.NewJWTAuthenticator(testPasscode, "furnish"),
		templates:     parseTemplates(),
	}
}

func newForeignAuthenticator(t *testing.T) auth.Authenticator {
	t.Helper()
	return auth.NewJWTAuthenticator("a-different-secret", "furnish")
}

func withSession(t *testing.T, app *application, req *http.Request) *http.Request {
	t.Helper()
	token, err := app.authenticator.IssueSessionToken()
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	return req
}

func do(app *application, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)
	return rr
}
