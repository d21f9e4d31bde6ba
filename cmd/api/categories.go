package main

import (
	"errors"
	"strings"

	"net/http"

	"furnish/internal/catalog"
	"furnish/internal/slug"

	"github.com/go-chi/chi/v5"
)

type CategoryPayload struct {
	Name        string  `json:"name" validate:"required,min=2,max=80"`
	Slug        string  `json:"slug" validate:"required,min=2,max=100,slugfmt"`
	Description *string `json:"description" validate:"omitempty,max=400"`
	IsActive    *bool   `json:"isActive"`
}

// normalize trims free-text fields and derives the slug from the submitted
// slug or, failing that, the name. Runs before validation so the slug rules
// apply to the derived value.
func (p *CategoryPayload) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		if d == "" {
			p.Description = nil
		} else {
			p.Description = &d
		}
	}
	source := p.Slug
	if strings.TrimSpace(source) == "" {
		source = p.Name
	}
	p.Slug = slug.Make(source)
}

func (p *CategoryPayload) toInput() *catalog.CategoryInput {
	isActive := true
	if p.IsActive != nil {
		isActive = *p.IsActive
	}
	return &catalog.CategoryInput{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		IsActive:    isActive,
	}
}

// listCategoriesHandler godoc
//
//	@Summary	List all categories, inactive included
//	@Tags		admin-categories
//	@Produce	json
//	@Success	200	{object}	map[string][]catalog.Category
//	@Failure	401	{object}	map[string]string
//	@Router		/admin/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	items, err := app.store.GetCategories(r.Context(), true)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// createCategoryHandler godoc
//
//	@Summary	Create a category
//	@Tags		admin-categories
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CategoryPayload	true	"Category"
//	@Success	201		{object}	map[string]catalog.Category
//	@Failure	400		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/admin/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, errors.New("Invalid payload."))
		return
	}

	payload.normalize()
	if err := Validate.Struct(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, firstValidationMessage(err))
		return
	}

	item, err := app.store.CreateCategory(r.Context(), payload.toInput())
	if err != nil {
		if errors.Is(err, catalog.ErrConflict) {
			app.conflictResponse(w, r, errors.New("Category slug/name must be unique."))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"item": item})
}

// updateCategoryHandler godoc
//
//	@Summary	Update a category
//	@Tags		admin-categories
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Category id"
//	@Param		payload	body		CategoryPayload	true	"Category"
//	@Success	200		{object}	map[string]catalog.Category
//	@Failure	400		{object}	map[string]string
//	@Failure	404		{object}	map[string]string
//	@Failure	409		{object}	map[string]string
//	@Router		/admin/categories/{id} [patch]
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload CategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, errors.New("Invalid payload."))
		return
	}

	payload.normalize()
	if err := Validate.Struct(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, firstValidationMessage(err))
		return
	}

	item, err := app.store.UpdateCategory(r.Context(), id, payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			app.notFoundResponse(w, r, errors.New("Category not found."))
		case errors.Is(err, catalog.ErrConflict):
			app.conflictResponse(w, r, errors.New("Category slug/name must be unique."))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

// deleteCategoryHandler godoc
//
//	@Summary	Delete a category, unlinking its products first
//	@Tags		admin-categories
//	@Produce	json
//	@Param		id	path		string	true	"Category id"
//	@Success	200	{object}	map[string]bool
//	@Failure	404	{object}	map[string]string
//	@Router		/admin/categories/{id} [delete]
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := app.store.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Category not found."))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
