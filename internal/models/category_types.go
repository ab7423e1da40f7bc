package models

// Category is a product category label. The allowed set is owned by the
// 'categories' table and only changes through a schema migration.
type Category string

// DefaultCategory is assigned to products created without a category.
const DefaultCategory Category = "Home & Living"

// CategoryInfo is one row of the 'categories' table.
type CategoryInfo struct {
	Label    Category `json:"label" db:"label"`
	Position int      `json:"position" db:"position"`
}
