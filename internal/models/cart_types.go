package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart defines the struct for the 'carts' table
type Cart struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem defines the struct for the 'cart_items' table, joined with the
// product columns needed to price the line.
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	CartID    int64     `json:"cartId" db:"cart_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	ProductName string          `json:"productName" db:"-"`
	Price       decimal.Decimal `json:"price" db:"-"`
}

// TotalPrice is price × quantity.
func (i CartItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartLine is the JSON shape of a cart item, including its derived total.
type CartLine struct {
	CartItem
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// CartView is a cart with its lines and total.
type CartView struct {
	Cart       Cart            `json:"cart"`
	Items      []CartLine      `json:"items"`
	Total      decimal.Decimal `json:"total"`
	TotalItems int             `json:"totalItems"`
}

// NewCartView prices every line and sums the cart total.
func NewCartView(cart Cart, items []CartItem) CartView {
	view := CartView{Cart: cart, Items: make([]CartLine, 0, len(items)), Total: decimal.Zero}
	for _, item := range items {
		line := CartLine{CartItem: item, TotalPrice: item.TotalPrice()}
		view.Total = view.Total.Add(line.TotalPrice)
		view.TotalItems += item.Quantity
		view.Items = append(view.Items, line)
	}
	return view
}
