package models

import "github.com/shopspring/decimal"

// PaymentMethodNames is the closed set of payment method names.
var PaymentMethodNames = map[string]string{
	"paypal": "PayPal",
	"cod":    "Cash on Delivery",
	"square": "Square",
}

// PaymentMethod is the model for the 'payment_methods' table
type PaymentMethod struct {
	ID      int64   `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Details *string `json:"details,omitempty" db:"details"`
	Label   string  `json:"label" db:"-"`
}

// PaymentMethodLabel is the human label for a payment method name.
func PaymentMethodLabel(name string) string {
	if label, ok := PaymentMethodNames[name]; ok {
		return label
	}
	return name
}

// DeliveryService is the model for the 'delivery_services' table
type DeliveryService struct {
	ID                    int64           `json:"id" db:"id"`
	Name                  string          `json:"name" db:"name"`
	Price                 decimal.Decimal `json:"price" db:"price"`
	EstimatedDeliveryTime string          `json:"estimatedDeliveryTime" db:"estimated_delivery_time"`
	Address               *string         `json:"address,omitempty" db:"address"`
	PostalCode            *string         `json:"postalCode,omitempty" db:"postal_code"`
}
