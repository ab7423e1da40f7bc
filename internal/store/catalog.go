package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// relatedLimit caps the same-category suggestions on a product page.
const relatedLimit = 4

// ProductFilter narrows ListProducts. Empty fields do not filter.
type ProductFilter struct {
	Search   string
	Category string
}

// NewProduct is the input for product creation.
type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Stock       int
	Image       string
}

const productColumns = "id, name, slug, description, price, category, stock, image, created_at"

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var image sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price,
		&p.Category, &p.Stock, &image, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Image = stringPtr(image)
	return &p, nil
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// likeEscaper escapes LIKE wildcards with '!' so a search is a plain substring match.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ListProducts filters by case-insensitive name substring and exact
// category, newest first. An unknown category matches nothing.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + productColumns + " FROM products WHERE 1 = 1")
	if search := strings.TrimSpace(f.Search); search != "" {
		query.WriteString(" AND LOWER(name) LIKE ? ESCAPE '!'")
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(search))+"%")
	}
	if f.Category != "" {
		query.WriteString(" AND category = ?")
		args = append(args, f.Category)
	}
	query.WriteString(" ORDER BY created_at DESC, id DESC")

	return s.queryProducts(ctx, query.String(), args...)
}

// ListCategories returns the distinct categories of stored products, sorted.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT category FROM products ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// AllCategories returns the full category enum in display order.
func (s *Store) AllCategories(ctx context.Context) ([]models.CategoryInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT label, position FROM categories ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query category enum: %w", err)
	}
	defer rows.Close()

	categories := []models.CategoryInfo{}
	for rows.Next() {
		var c models.CategoryInfo
		if err := rows.Scan(&c.Label, &c.Position); err != nil {
			return nil, fmt.Errorf("scan category enum: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ProductIDsInCategory lists the ids of every product in the category.
func (s *Store) ProductIDsInCategory(ctx context.Context, category models.Category) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM products WHERE category = ? ORDER BY id", category)
	if err != nil {
		return nil, fmt.Errorf("query category products: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetProduct returns a product and up to four others from its category.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("product %d", id)
		}
		return nil, fmt.Errorf("query product: %w", err)
	}

	related, err := s.queryProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE category = ? AND id <> ? ORDER BY id LIMIT ?",
		p.Category, p.ID, relatedLimit)
	if err != nil {
		return nil, err
	}
	return &models.ProductDetail{Product: *p, Related: related}, nil
}

// CreateProduct validates the input against the category enum and inserts it.
func (s *Store) CreateProduct(ctx context.Context, in NewProduct) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return nil, invalidf("name is required")
	case len(in.Name) > 100:
		return nil, invalidf("name must be at most 100 characters")
	case in.Price.IsNegative():
		return nil, invalidf("price must not be negative")
	case in.Stock < 0:
		return nil, invalidf("stock must not be negative")
	}
	if in.Category == "" {
		in.Category = string(models.DefaultCategory)
	}

	var known string
	err := s.db.QueryRowContext(ctx, "SELECT label FROM categories WHERE label = ?", in.Category).Scan(&known)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, invalidf("unknown category %q", in.Category)
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}

	p := &models.Product{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Category:    models.Category(in.Category),
		Stock:       in.Stock,
		CreatedAt:   time.Now().UTC(),
	}
	if in.Image != "" {
		p.Image = &in.Image
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, slug, description, price, category, stock, image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Slug, p.Description, p.Price.StringFixed(2), in.Category, p.Stock, nullString(in.Image), p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("product id: %w", err)
	}
	return p, nil
}

// SetProductPrice changes the live price. Past orders keep their snapshot.
func (s *Store) SetProductPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	if price.IsNegative() {
		return invalidf("price must not be negative")
	}

	var found int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM products WHERE id = ?", id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return notFoundf("product %d", id)
	}
	if err != nil {
		return fmt.Errorf("query product: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "UPDATE products SET price = ? WHERE id = ?", price.StringFixed(2), id); err != nil {
		return fmt.Errorf("update product price: %w", err)
	}
	return nil
}
