package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"furnish/internal/catalog"
	"furnish/internal/slug"

	"github.com/go-chi/chi/v5"
)

// Price coerces its JSON value to a number: clients have historically sent
// both `"price": 12` and `"price": "12"`.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 0 && s[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		s = strings.TrimSpace(raw)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", s)
	}
	*p = Price(f)
	return nil
}

type ProductPayload struct {
	Title           string         `json:"title" validate:"required,min=3,max=140"`
	Slug            string         `json:"slug" validate:"required,min=3,max=160,slugfmt"`
	DescriptionHTML string         `json:"descriptionHtml" validate:"required"`
	DescriptionJSON map[string]any `json:"descriptionJson"`
	ImageURL        string         `json:"imageUrl" validate:"required,url"`
	CategoryID      string         `json:"categoryId" validate:"required"`
	CategorySlug    string         `json:"categorySlug" validate:"required,min=2,max=100,slugfmt"`
	SourceURL       *string        `json:"sourceUrl" validate:"omitempty,url"`
	Price           *Price         `json:"price" validate:"omitempty,gte=0"`
	Currency        string         `json:"currency" validate:"omitempty,eq=$"`
	IsPublished     *bool          `json:"isPublished"`
}

func (p *ProductPayload) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.DescriptionHTML = strings.TrimSpace(p.DescriptionHTML)
	if p.SourceURL != nil {
		s := strings.TrimSpace(*p.SourceURL)
		if s == "" {
			p.SourceURL = nil
		} else {
			p.SourceURL = &s
		}
	}
	source := p.Slug
	if strings.TrimSpace(source) == "" {
		source = p.Title
	}
	p.Slug = slug.Make(source)
}

// toInput drops the submitted categorySlug: the store re-derives it from the
// category assignment on every write.
func (p *ProductPayload) toInput() *catalog.ProductInput {
	isPublished := true
	if p.IsPublished != nil {
		isPublished = *p.IsPublished
	}
	return &catalog.ProductInput{
		Title:           p.Title,
		Slug:            p.Slug,
		DescriptionHTML: p.DescriptionHTML,
		DescriptionJSON: p.DescriptionJSON,
		ImageURL:        p.ImageURL,
		CategoryID:      p.CategoryID,
		SourceURL:       p.SourceURL,
		Price:           (*float64)(p.Price),
		IsPublished:     isPublished,
	}
}

// listAdminProductsHandler godoc
//
//	@Summary	List products for the admin console
//	@Tags		admin-products
//	@Produce	json
//	@Param		page		query		int		false	"Page number"
//	@Param		query		query		string	false	"Full-text search over titles"
//	@Param		category	query		string	false	"Category slug filter"
//	@Success	200			{object}	catalog.SearchResult
//	@Failure	401			{object}	map[string]string
//	@Router		/admin/products [get]
func (app *application) listAdminProductsHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	page, _ := strconv.Atoi(params.Get("page"))

	result, err := app.store.GetAdminProducts(r.Context(), catalog.SearchInput{
		Page:     page,
		Query:    params.Get("query"),
		Category: params.Get("category"),
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// createProductHandler godoc
//
//	@Summary	Create a product
//	@Tags		admin-products
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		ProductPayload	true	"Product"
//	@Success	201		{object}	map[string]catalog.Product
//	@Failure	400		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/admin/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload ProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, errors.New("Invalid payload."))
		return
	}

	payload.normalize()
	if err := Validate.Struct(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, firstValidationMessage(err))
		return
	}

	item, err := app.store.CreateProduct(r.Context(), payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrConflict):
			app.conflictResponse(w, r, errors.New("Product slug must be unique."))
		case errors.Is(err, catalog.ErrUnknownCategory):
			app.badRequestResponse(w, r, errors.New("categoryId does not reference an existing category."))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"item": item})
}

// getAdminProductHandler godoc
//
//	@Summary	Fetch one product, published or not
//	@Tags		admin-products
//	@Produce	json
//	@Param		id	path		string	true	"Product id"
//	@Success	200	{object}	map[string]catalog.Product
//	@Failure	404	{object}	map[string]string
//	@Router		/admin/products/{id} [get]
func (app *application) getAdminProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := app.store.GetProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Product not found."))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

// updateProductHandler godoc
//
//	@Summary	Update a product
//	@Tags		admin-products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Product id"
//	@Param		payload	body		ProductPayload	true	"Product"
//	@Success	200		{object}	map[string]catalog.Product
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/admin/products/{id} [patch]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload ProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, errors.New("Invalid payload."))
		return
	}

	payload.normalize()
	if err := Validate.Struct(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, firstValidationMessage(err))
		return
	}

	item, err := app.store.UpdateProduct(r.Context(), id, payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			app.notFoundResponse(w, r, errors.New("Product not found."))
		case errors.Is(err, catalog.ErrConflict):
			app.conflictResponse(w, r, errors.New("Product slug must be unique."))
		case errors.Is(err, catalog.ErrUnknownCategory):
			app.badRequestResponse(w, r, errors.New("categoryId does not reference an existing category."))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

// deleteProductHandler godoc
//
//	@Summary	Delete a product
//	@Tags		admin-products
//	@Produce	json
//	@Param		id	path		string	true	"Product id"
//	@Success	200	{object}	map[string]bool
//	@Failure	404	{object}	map[string]string
//	@Router		/admin/products/{id} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := app.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Product not found."))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
