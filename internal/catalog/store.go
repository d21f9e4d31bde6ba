package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("resource not found")
	// ErrConflict surfaces a uniqueness violation (duplicate name or slug).
	// The database's unique indexes are the authority; application-level
	// checks are advisory only.
	ErrConflict = errors.New("resource already exists")
	// ErrUnknownCategory is returned when a product mutation references a
	// category id that does not exist.
	ErrUnknownCategory = errors.New("unknown category")
)

// Store is the data access abstraction for the catalog domain.
// Implemented by Repository (which uses pgxpool.Pool).
type Store interface {
	// Categories
	GetCategories(ctx context.Context, includeInactive bool) ([]*Category, error)
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
	CreateCategory(ctx context.Context, in *CategoryInput) (*Category, error)
	UpdateCategory(ctx context.Context, id string, in *CategoryInput) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Products
	GetPublishedProducts(ctx context.Context, in SearchInput) (*SearchResult, error)
	GetAdminProducts(ctx context.Context, in SearchInput) (*SearchResult, error)
	GetRelatedProducts(ctx context.Context, categorySlug, excludeID string, limit int) ([]*Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetProductBySlug(ctx context.Context, slug string, includeUnpublished bool) (*Product, error)
	CreateProduct(ctx context.Context, in *ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id string, in *ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the two tables and their indexes if absent:
// unique slug and name on categories; unique slug, full-text title and
// secondary category_slug/price/is_published indexes on products. Run once
// at startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			description TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS categories_slug_key ON categories (slug)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS categories_name_key ON categories (name)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			description_html TEXT NOT NULL,
			description_json JSONB,
			image_url TEXT NOT NULL,
			category_id UUID,
			category_slug TEXT NOT NULL,
			source_url TEXT,
			price DOUBLE PRECISION,
			currency TEXT NOT NULL DEFAULT '$',
			is_published BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS products_slug_key ON products (slug)`,
		`CREATE INDEX IF NOT EXISTS products_title_fts ON products USING GIN (to_tsvector('english', title))`,
		`CREATE INDEX IF NOT EXISTS products_category_slug_idx ON products (category_slug)`,
		`CREATE INDEX IF NOT EXISTS products_price_idx ON products (price)`,
		`CREATE INDEX IF NOT EXISTS products_is_published_idx ON products (is_published)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	// 23505 = unique_violation
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ------------------------------------
// Categories
// ------------------------------------

const categoryColumns = `id, name, slug, description, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*Category, error) {
	c := &Category{}
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repository) GetCategories(ctx context.Context, includeInactive bool) ([]*Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE ($1::boolean OR is_active = TRUE)
		ORDER BY name ASC;
	`
	rows, err := r.db.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return list, nil
}

func (r *Repository) GetCategoryByID(ctx context.Context, id string) (*Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1;`
	c, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *Repository) CreateCategory(ctx context.Context, in *CategoryInput) (*Category, error) {
	query := `
		INSERT INTO categories (id, name, slug, description, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns + `;
	`
	row := r.db.QueryRow(ctx, query, uuid.NewString(), in.Name, in.Slug, in.Description, in.IsActive)
	c, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, id string, in *CategoryInput) (*Category, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, is_active = $4, updated_at = now()
		WHERE id = $5
		RETURNING ` + categoryColumns + `;
	`
	row := r.db.QueryRow(ctx, query, in.Name, in.Slug, in.Description, in.IsActive, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// DeleteCategory unlinks dependent products first (category reference
// cleared, category_slug reset to the sentinel), then removes the category.
// The two steps run in order but not inside a transaction; a crash between
// them leaves products unlinked and the category still present, which a
// retry resolves.
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	unlink := `
		UPDATE products
		SET category_id = NULL, category_slug = $1, updated_at = now()
		WHERE category_id = $2;
	`
	if _, err := r.db.Exec(ctx, unlink, UncategorizedSlug, id); err != nil {
		return fmt.Errorf("unlink products: %w", err)
	}

	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// resolveCategorySlug re-derives the denormalized category slug for a
// product write from the submitted category assignment.
func (r *Repository) resolveCategorySlug(ctx context.Context, categoryID string) (string, error) {
	if _, err := uuid.Parse(categoryID); err != nil {
		return "", ErrUnknownCategory
	}
	var catSlug string
	err := r.db.QueryRow(ctx, `SELECT slug FROM categories WHERE id = $1;`, categoryID).Scan(&catSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUnknownCategory
		}
		return "", fmt.Errorf("resolve category: %w", err)
	}
	return catSlug, nil
}

// ------------------------------------
// Products
// ------------------------------------

const productColumns = `id, title, slug, description_html, description_json, image_url,
	category_id, category_slug, source_url, price, currency, is_published, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.DescriptionHTML, &p.DescriptionJSON, &p.ImageURL,
		&p.CategoryID, &p.CategorySlug, &p.SourceURL, &p.Price, &p.Currency, &p.IsPublished,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPublishedProducts runs the public listing: always restricted to
// published products, fuzzy ordered-substring search over title,
// category_slug and slug, exact category filter, and a price range that by
// SQL comparison semantics excludes products with no price.
func (r *Repository) GetPublishedProducts(ctx context.Context, in SearchInput) (*SearchResult, error) {
	page := normalizePage(in.Page)
	limit := clampLimit(in.Limit, publicDefaultLimit, publicMaxLimit)
	offset := (page - 1) * limit

	pattern := fuzzyPattern(in.Query)

	where := `
		WHERE is_published = TRUE
		  AND ($1::text IS NULL OR title ~* $1 OR category_slug ~* $1 OR slug ~* $1)
		  AND ($2::text IS NULL OR category_slug = $2)
		  AND ($3::float8 IS NULL OR price >= $3)
		  AND ($4::float8 IS NULL OR price <= $4)
	`
	filterArgs := []any{nullIfEmpty(pattern), nullIfEmpty(trimmed(in.Category)), in.MinPrice, in.MaxPrice}

	return r.searchProducts(ctx, where, filterArgs, page, limit, offset)
}

// GetAdminProducts lists without a publish-state restriction and searches
// with the indexed full-text match instead of the public fuzzy regex. The
// asymmetry is deliberate: admin search is token/stemmed, public search is
// ordered-substring.
func (r *Repository) GetAdminProducts(ctx context.Context, in SearchInput) (*SearchResult, error) {
	page := normalizePage(in.Page)
	limit := clampLimit(in.Limit, adminDefaultLimit, adminMaxLimit)
	offset := (page - 1) * limit

	where := `
		WHERE ($1::text IS NULL OR to_tsvector('english', title) @@ plainto_tsquery('english', $1))
		  AND ($2::text IS NULL OR category_slug = $2)
		  AND ($3::float8 IS NULL OR price >= $3)
		  AND ($4::float8 IS NULL OR price <= $4)
	`
	filterArgs := []any{nullIfEmpty(trimmed(in.Query)), nullIfEmpty(trimmed(in.Category)), nil, nil}

	return r.searchProducts(ctx, where, filterArgs, page, limit, offset)
}

// searchProducts executes a filter twice: once for the true total
// (independent of the pagination window) and once for the page itself,
// most-recently-updated first.
func (r *Repository) searchProducts(ctx context.Context, where string, filterArgs []any, page, limit, offset int) (*SearchResult, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM products ` + where
	if err := r.db.QueryRow(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	pageQuery := `
		SELECT ` + productColumns + `
		FROM products ` + where + `
		ORDER BY updated_at DESC
		LIMIT $5 OFFSET $6;
	`
	args := append(filterArgs, limit, offset)
	rows, err := r.db.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return &SearchResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: pageCount(total, limit),
	}, nil
}

func (r *Repository) GetRelatedProducts(ctx context.Context, categorySlug, excludeID string, limit int) ([]*Product, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_published = TRUE
		  AND category_slug = $1
		  AND ($2::uuid IS NULL OR id <> $2)
		ORDER BY updated_at DESC
		LIMIT $3;
	`
	var exclude *string
	if _, err := uuid.Parse(excludeID); err == nil {
		exclude = &excludeID
	}
	rows, err := r.db.Query(ctx, query, categorySlug, exclude, limit)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	defer rows.Close()

	var list []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return list, nil
}

func (r *Repository) GetProductByID(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) GetProductBySlug(ctx context.Context, slug string, includeUnpublished bool) (*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE slug = $1 AND ($2::boolean OR is_published = TRUE);
	`
	p, err := scanProduct(r.db.QueryRow(ctx, query, slug, includeUnpublished))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, in *ProductInput) (*Product, error) {
	categorySlug, err := r.resolveCategorySlug(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO products (
			id, title, slug, description_html, description_json, image_url,
			category_id, category_slug, source_url, price, currency, is_published
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + productColumns + `;
	`
	row := r.db.QueryRow(ctx, query,
		uuid.NewString(), in.Title, in.Slug, in.DescriptionHTML, in.DescriptionJSON, in.ImageURL,
		in.CategoryID, categorySlug, in.SourceURL, in.Price, Currency, in.IsPublished,
	)
	p, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, id string, in *ProductInput) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	categorySlug, err := r.resolveCategorySlug(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE products
		SET title = $1, slug = $2, description_html = $3, description_json = $4,
		    image_url = $5, category_id = $6, category_slug = $7, source_url = $8,
		    price = $9, currency = $10, is_published = $11, updated_at = now()
		WHERE id = $12
		RETURNING ` + productColumns + `;
	`
	row := r.db.QueryRow(ctx, query,
		in.Title, in.Slug, in.DescriptionHTML, in.DescriptionJSON, in.ImageURL,
		in.CategoryID, categorySlug, in.SourceURL, in.Price, Currency, in.IsPublished, id,
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
