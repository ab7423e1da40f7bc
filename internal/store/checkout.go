package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/go-playground/validator/v10"
)

// CheckoutInput is the order placement form. DeliveryService is optional.
type CheckoutInput struct {
	PaymentMethod      string `json:"payment_method" form:"payment_method" validate:"required"`
	DeliveryService    string `json:"delivery_service" form:"delivery_service"`
	DeliveryAddress    string `json:"delivery_address" form:"delivery_address" validate:"required"`
	DeliveryPostalCode string `json:"delivery_postal_code" form:"delivery_postal_code" validate:"required"`
	DeliveryCountry    string `json:"delivery_country" form:"delivery_country" validate:"required"`
}

func (in *CheckoutInput) trim() {
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.DeliveryService = strings.TrimSpace(in.DeliveryService)
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	in.DeliveryPostalCode = strings.TrimSpace(in.DeliveryPostalCode)
	in.DeliveryCountry = strings.TrimSpace(in.DeliveryCountry)
}

// CheckoutSummary is everything the checkout page shows before an order is placed.
type CheckoutSummary struct {
	Cart             models.CartView          `json:"cart"`
	PaymentMethods   []models.PaymentMethod   `json:"paymentMethods"`
	DeliveryServices []models.DeliveryService `json:"deliveryServices"`
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Store) validateCheckout(in CheckoutInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate checkout: %w", err)
	}
	missing := &MissingFieldError{}
	for _, fe := range verrs {
		missing.Fields = append(missing.Fields, fe.Field())
	}
	return missing
}

// cartIDForCheckout finds the user's cart without creating one.
func (s *Store) cartIDForCheckout(ctx context.Context, q Querier, userID int64, lock string) (int64, error) {
	var cartID int64
	err := q.QueryRowContext(ctx, "SELECT id FROM carts WHERE user_id = ?"+lock, userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrEmptyCart
	}
	if err != nil {
		return 0, fmt.Errorf("query cart: %w", err)
	}
	return cartID, nil
}

// Checkout converts the user's cart into an order.
//
// Validation runs before any write: an empty or missing cart, missing
// fields, or unknown reference data abort without touching the database.
// The order, its items and the cart clear then commit together under the
// cart row lock, so a concurrent checkout of the same cart finds it empty
// and a concurrent add cannot slip a line in between read and clear.
func (s *Store) Checkout(ctx context.Context, userID int64, in CheckoutInput) (*models.Order, error) {
	in.trim()

	cartID, err := s.cartIDForCheckout(ctx, s.db, userID, "")
	if err != nil {
		return nil, err
	}
	var lines int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cart_items WHERE cart_id = ?", cartID).Scan(&lines); err != nil {
		return nil, fmt.Errorf("count cart items: %w", err)
	}
	if lines == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.validateCheckout(in); err != nil {
		return nil, err
	}

	paymentID, err := s.paymentMethodID(ctx, s.db, in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	order := &models.Order{
		UserID:             userID,
		IsPaid:             false,
		PaymentMethodID:    &paymentID,
		DeliveryAddress:    in.DeliveryAddress,
		DeliveryPostalCode: in.DeliveryPostalCode,
		DeliveryCountry:    in.DeliveryCountry,
		PaymentMethod:      &in.PaymentMethod,
	}
	var deliveryID sql.NullInt64
	if in.DeliveryService != "" {
		id, err := s.deliveryServiceID(ctx, s.db, in.DeliveryService)
		if err != nil {
			return nil, err
		}
		deliveryID = sql.NullInt64{Int64: id, Valid: true}
		order.DeliveryServiceID = &id
		order.DeliveryService = &in.DeliveryService
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := s.cartIDForCheckout(ctx, tx, userID, s.dialect.LockClause())
		if err != nil {
			return err
		}
		items, err := s.cartItems(ctx, tx, cartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		order.CreatedAt = time.Now().UTC()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO orders (user_id, created_at, is_paid, payment_method_id, delivery_service_id,
				delivery_address, delivery_postal_code, delivery_country)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, order.CreatedAt, false, paymentID, deliveryID,
			order.DeliveryAddress, order.DeliveryPostalCode, order.DeliveryCountry)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if order.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("order id: %w", err)
		}

		for _, item := range items {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, ?, ?)",
				order.ID, item.ProductID, item.Quantity, item.Price.StringFixed(2)); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = ?", cartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return s.touchCart(ctx, tx, cartID, order.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CheckoutSummary returns the cart and the reference data needed to place an order.
func (s *Store) CheckoutSummary(ctx context.Context, userID int64) (*CheckoutSummary, error) {
	view, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	methods, err := s.ListPaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	services, err := s.ListDeliveryServices(ctx)
	if err != nil {
		return nil, err
	}
	return &CheckoutSummary{Cart: *view, PaymentMethods: methods, DeliveryServices: services}, nil
}
