package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/shopspring/decimal"
)

const orderQuery = `
	SELECT o.id, o.user_id, o.created_at, o.is_paid, o.payment_method_id, o.delivery_service_id,
		o.delivery_address, o.delivery_postal_code, o.delivery_country, pm.name, ds.name
	FROM orders o
	LEFT JOIN payment_methods pm ON pm.id = o.payment_method_id
	LEFT JOIN delivery_services ds ON ds.id = o.delivery_service_id`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var paymentID, deliveryID sql.NullInt64
	var address, postal, country, paymentName, deliveryName sql.NullString
	if err := row.Scan(&o.ID, &o.UserID, &o.CreatedAt, &o.IsPaid, &paymentID, &deliveryID,
		&address, &postal, &country, &paymentName, &deliveryName); err != nil {
		return nil, err
	}
	if paymentID.Valid {
		o.PaymentMethodID = &paymentID.Int64
	}
	if deliveryID.Valid {
		o.DeliveryServiceID = &deliveryID.Int64
	}
	o.DeliveryAddress = address.String
	o.DeliveryPostalCode = postal.String
	o.DeliveryCountry = country.String
	o.PaymentMethod = stringPtr(paymentName)
	o.DeliveryService = stringPtr(deliveryName)
	return &o, nil
}

// ListOrders returns the user's orders, newest first.
func (s *Store) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, orderQuery+" WHERE o.user_id = ? ORDER BY o.created_at DESC, o.id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// GetOrder returns one of the user's orders with its items. Orders of other
// users are reported as not found.
func (s *Store) GetOrder(ctx context.Context, userID, orderID int64) (*models.OrderDetail, error) {
	order, err := scanOrder(s.db.QueryRowContext(ctx, orderQuery+" WHERE o.id = ? AND o.user_id = ?", orderID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("order %d", orderID)
		}
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, p.name, p.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	detail := &models.OrderDetail{Order: *order, Items: []models.OrderItem{}, Subtotal: decimal.Zero}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.ProductName, &item.CurrentPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		detail.Subtotal = detail.Subtotal.Add(item.LineTotal())
		detail.Items = append(detail.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return detail, nil
}
