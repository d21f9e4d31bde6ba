package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"furnish/internal/catalog"

	"github.com/go-chi/chi/v5"
)

// render buffers the template output so a mid-render failure can still
// produce a clean 500 instead of a half-written page.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := app.templates.ExecuteTemplate(&buf, name, data); err != nil {
		app.internalServerError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type homePageData struct {
	Query      string
	Category   string
	MinPrice   string
	MaxPrice   string
	Categories []*catalog.Category
	Result     *catalog.SearchResult
	PrevURL    string
	NextURL    string
}

func listingURL(params url.Values, page int) string {
	q := url.Values{}
	for _, key := range []string{"q", "category", "minPrice", "maxPrice"} {
		if v := params.Get(key); v != "" {
			q.Set(key, v)
		}
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return nil
	}
	return &f
}

// homePageHandler renders the public storefront listing: published products
// only, filtered by q, category, minPrice, maxPrice and page.
func (app *application) homePageHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page, _ := strconv.Atoi(params.Get("page"))

	input := catalog.SearchInput{
		Query:    params.Get("q"),
		Category: params.Get("category"),
		MinPrice: parsePrice(params.Get("minPrice")),
		MaxPrice: parsePrice(params.Get("maxPrice")),
		Page:     page,
	}

	result, err := app.store.GetPublishedProducts(r.Context(), input)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	categories, err := app.store.GetCategories(r.Context(), false)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	data := homePageData{
		Query:      params.Get("q"),
		Category:   params.Get("category"),
		MinPrice:   params.Get("minPrice"),
		MaxPrice:   params.Get("maxPrice"),
		Categories: categories,
		Result:     result,
	}
	if result.Page > 1 {
		data.PrevURL = listingURL(params, result.Page-1)
	}
	if result.Page < result.TotalPages {
		data.NextURL = listingURL(params, result.Page+1)
	}

	app.render(w, r, http.StatusOK, "home.tmpl", data)
}

type productPageData struct {
	Product *catalog.Product
	Related []*catalog.Product
}

func (app *application) productPageHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := app.store.GetProductBySlug(r.Context(), slug, false)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	related, err := app.store.GetRelatedProducts(r.Context(), product.CategorySlug, product.ID, catalog.DefaultRelatedLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "product.tmpl", productPageData{
		Product: product,
		Related: related,
	})
}

type loginPageData struct {
	From string
}

func (app *application) adminLoginPageHandler(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	// only ever forward back into the admin area
	if from == "" || from[0] != '/' {
		from = "/admin"
	}
	app.render(w, r, http.StatusOK, "admin_login.tmpl", loginPageData{From: from})
}

type consolePageData struct {
	Result *catalog.SearchResult
}

func (app *application) adminConsolePageHandler(w http.ResponseWriter, r *http.Request) {
	result, err := app.store.GetAdminProducts(r.Context(), catalog.SearchInput{})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "admin_console.tmpl", consolePageData{Result: result})
}
