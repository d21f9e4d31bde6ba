package catalog

import "time"

// UncategorizedSlug is the sentinel written to products whose category was
// deleted out from under them.
const UncategorizedSlug = "uncategorized"

// Currency is fixed for the whole catalog.
const Currency = "$"

// DefaultRelatedLimit caps the related-products strip on detail pages.
const DefaultRelatedLimit = 4

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product.CategorySlug is a denormalized copy of the owning category's slug
// taken at the last product write. It is not refreshed when the category is
// renamed; only the category-delete unlink path resets it.
type Product struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	DescriptionHTML string         `json:"descriptionHtml"`
	DescriptionJSON map[string]any `json:"descriptionJson,omitempty"`
	ImageURL        string         `json:"imageUrl"`
	CategoryID      *string        `json:"categoryId,omitempty"`
	CategorySlug    string         `json:"categorySlug"`
	SourceURL       *string        `json:"sourceUrl,omitempty"`
	Price           *float64       `json:"price,omitempty"`
	Currency        string         `json:"currency"`
	IsPublished     bool           `json:"isPublished"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type CategoryInput struct {
	Name        string
	Slug        string
	Description *string
	IsActive    bool
}

// ProductInput carries a full product mutation. CategorySlug is not part of
// the input: it is re-derived from CategoryID on every write.
type ProductInput struct {
	Title           string
	Slug            string
	DescriptionHTML string
	DescriptionJSON map[string]any
	ImageURL        string
	CategoryID      string
	SourceURL       *string
	Price           *float64
	IsPublished     bool
}

type SearchInput struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

type SearchResult struct {
	Items      []*Product `json:"items"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}
