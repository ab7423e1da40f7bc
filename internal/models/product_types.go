package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    Category        `json:"category" db:"category"`
	Stock       int             `json:"stock" db:"stock"`
	Image       *string         `json:"image,omitempty" db:"image"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// ProductDetail is a product plus up to four others from the same category.
type ProductDetail struct {
	Product Product   `json:"product"`
	Related []Product `json:"related"`
}
