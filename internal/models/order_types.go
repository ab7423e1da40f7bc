package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the model for the 'orders' table
type Order struct {
	ID                 int64     `json:"id" db:"id"`
	UserID             int64     `json:"userId" db:"user_id"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	IsPaid             bool      `json:"isPaid" db:"is_paid"`
	PaymentMethodID    *int64    `json:"paymentMethodId,omitempty" db:"payment_method_id"`
	DeliveryServiceID  *int64    `json:"deliveryServiceId,omitempty" db:"delivery_service_id"`
	DeliveryAddress    string    `json:"deliveryAddress" db:"delivery_address"`
	DeliveryPostalCode string    `json:"deliveryPostalCode" db:"delivery_postal_code"`
	DeliveryCountry    string    `json:"deliveryCountry" db:"delivery_country"`

	// Names of the referenced reference-data rows, when they still exist.
	PaymentMethod   *string `json:"paymentMethod,omitempty" db:"-"`
	DeliveryService *string `json:"deliveryService,omitempty" db:"-"`
}

// OrderItem is the model for the 'order_items' table
type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"orderId" db:"order_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"` // Price at the time of purchase

	ProductName  string          `json:"productName" db:"-"`
	CurrentPrice decimal.Decimal `json:"currentPrice" db:"-"` // Live product price, may have drifted
}

// LineTotal uses the snapshotted unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderDetail is an order with its items and subtotal.
type OrderDetail struct {
	Order    Order           `json:"order"`
	Items    []OrderItem     `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
