package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/shopspring/decimal"
)

// NewDeliveryService is the input for creating a delivery service.
type NewDeliveryService struct {
	Name                  string
	Price                 decimal.Decimal
	EstimatedDeliveryTime string
	Address               string
	PostalCode            string
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func (s *Store) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, details FROM payment_methods ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	methods := []models.PaymentMethod{}
	for rows.Next() {
		var m models.PaymentMethod
		var details sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &details); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		m.Details = stringPtr(details)
		m.Label = models.PaymentMethodLabel(m.Name)
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

// CreatePaymentMethod accepts only names from the closed set in
// models.PaymentMethodNames, each at most once.
func (s *Store) CreatePaymentMethod(ctx context.Context, name, details string) (*models.PaymentMethod, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := models.PaymentMethodNames[name]; !ok {
		return nil, invalidf("unsupported payment method %q", name)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO payment_methods (name, details) VALUES (?, ?)", name, nullString(details))
	if err != nil {
		if isDuplicateKey(err) {
			return nil, invalidf("payment method %q already exists", name)
		}
		return nil, fmt.Errorf("insert payment method: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("payment method id: %w", err)
	}

	m := &models.PaymentMethod{ID: id, Name: name, Label: models.PaymentMethodLabel(name)}
	if details != "" {
		m.Details = &details
	}
	return m, nil
}

// DeletePaymentMethod removes the method; orders that used it keep a NULL reference.
func (s *Store) DeletePaymentMethod(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM payment_methods WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundf("payment method %d", id)
	}
	return nil
}

func (s *Store) paymentMethodID(ctx context.Context, q Querier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT id FROM payment_methods WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFoundf("payment method %q", name)
	}
	if err != nil {
		return 0, fmt.Errorf("query payment method: %w", err)
	}
	return id, nil
}

const deliveryServiceColumns = "id, name, price, estimated_delivery_time, address, postal_code"

func scanDeliveryService(row interface{ Scan(...any) error }) (*models.DeliveryService, error) {
	var d models.DeliveryService
	var address, postal sql.NullString
	if err := row.Scan(&d.ID, &d.Name, &d.Price, &d.EstimatedDeliveryTime, &address, &postal); err != nil {
		return nil, err
	}
	d.Address = stringPtr(address)
	d.PostalCode = stringPtr(postal)
	return &d, nil
}

func (s *Store) ListDeliveryServices(ctx context.Context) ([]models.DeliveryService, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+deliveryServiceColumns+" FROM delivery_services ORDER BY price, id")
	if err != nil {
		return nil, fmt.Errorf("query delivery services: %w", err)
	}
	defer rows.Close()

	services := []models.DeliveryService{}
	for rows.Next() {
		d, err := scanDeliveryService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery service: %w", err)
		}
		services = append(services, *d)
	}
	return services, rows.Err()
}

func (s *Store) CreateDeliveryService(ctx context.Context, in NewDeliveryService) (*models.DeliveryService, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.EstimatedDeliveryTime) == "" {
		return nil, invalidf("name and estimated delivery time are required")
	}
	if in.Price.IsNegative() {
		return nil, invalidf("price must not be negative")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO delivery_services (name, price, estimated_delivery_time, address, postal_code)
		VALUES (?, ?, ?, ?, ?)`,
		in.Name, in.Price.StringFixed(2), in.EstimatedDeliveryTime, nullString(in.Address), nullString(in.PostalCode))
	if err != nil {
		if isDuplicateKey(err) {
			return nil, invalidf("delivery service %q already exists", in.Name)
		}
		return nil, fmt.Errorf("insert delivery service: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("delivery service id: %w", err)
	}
	return scanDeliveryService(s.db.QueryRowContext(ctx,
		"SELECT "+deliveryServiceColumns+" FROM delivery_services WHERE id = ?", id))
}

// DeleteDeliveryService removes the service; orders that used it keep a NULL reference.
func (s *Store) DeleteDeliveryService(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM delivery_services WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete delivery service: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundf("delivery service %d", id)
	}
	return nil
}

func (s *Store) deliveryServiceID(ctx context.Context, q Querier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT id FROM delivery_services WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFoundf("delivery service %q", name)
	}
	if err != nil {
		return 0, fmt.Errorf("query delivery service: %w", err)
	}
	return id, nil
}
