package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/storefront-golang/internal/models"
)

// getOrCreateCartID returns the id of the user's cart, creating it on first use.
// A concurrent creator losing the race on the unique user_id re-reads the row.
func (s *Store) getOrCreateCartID(ctx context.Context, q Querier, userID int64) (int64, error) {
	var cartID int64
	err := q.QueryRowContext(ctx, "SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("query cart: %w", err)
	}

	now := time.Now().UTC()
	res, err := q.ExecContext(ctx,
		"INSERT INTO carts (user_id, created_at, updated_at) VALUES (?, ?, ?)", userID, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			if err := q.QueryRowContext(ctx, "SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID); err != nil {
				return 0, fmt.Errorf("query cart: %w", err)
			}
			return cartID, nil
		}
		return 0, fmt.Errorf("insert cart: %w", err)
	}
	return res.LastInsertId()
}

// lockCart takes the per-cart row lock every cart mutation and checkout
// serializes on. It creates the cart if the user has none yet.
func (s *Store) lockCart(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var cartID int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM carts WHERE user_id = ?"+s.dialect.LockClause(), userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lock cart: %w", err)
	}
	return s.getOrCreateCartID(ctx, tx, userID)
}

func (s *Store) touchCart(ctx context.Context, tx *sql.Tx, cartID int64, now time.Time) error {
	if _, err := tx.ExecContext(ctx, "UPDATE carts SET updated_at = ? WHERE id = ?", now, cartID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}

// GetOrCreateCart returns the user's cart, creating an empty one if needed.
func (s *Store) GetOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	cartID, err := s.getOrCreateCartID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	err = s.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at, updated_at FROM carts WHERE id = ?", cartID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	return &cart, nil
}

const cartItemQuery = `
	SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at, p.name, p.price
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id`

func scanCartItem(row interface{ Scan(...any) error }) (*models.CartItem, error) {
	var item models.CartItem
	err := row.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
		&item.CreatedAt, &item.UpdatedAt, &item.ProductName, &item.Price)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) cartItems(ctx context.Context, q Querier, cartID int64) ([]models.CartItem, error) {
	rows, err := q.QueryContext(ctx, cartItemQuery+" WHERE ci.cart_id = ? ORDER BY ci.id", cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	return items, nil
}

func (s *Store) cartItem(ctx context.Context, q Querier, itemID int64) (*models.CartItem, error) {
	item, err := scanCartItem(q.QueryRowContext(ctx, cartItemQuery+" WHERE ci.id = ?", itemID))
	if err != nil {
		return nil, fmt.Errorf("query cart item: %w", err)
	}
	return item, nil
}

// GetCart returns the user's cart with priced lines and the cart total.
func (s *Store) GetCart(ctx context.Context, userID int64) (*models.CartView, error) {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartItems(ctx, s.db, cart.ID)
	if err != nil {
		return nil, err
	}
	view := models.NewCartView(*cart, items)
	return &view, nil
}

// AddItem adds quantity units of a product to the user's cart. An existing
// line is incremented; a new line starts at exactly the requested quantity.
func (s *Store) AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, invalidf("quantity must be positive")
	}

	var itemID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := s.lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		var exists int64
		err = tx.QueryRowContext(ctx, "SELECT id FROM products WHERE id = ?", productID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return notFoundf("product %d", productID)
		}
		if err != nil {
			return fmt.Errorf("query product: %w", err)
		}

		now := time.Now().UTC()
		err = tx.QueryRowContext(ctx,
			"SELECT id FROM cart_items WHERE cart_id = ? AND product_id = ?", cartID, productID).Scan(&itemID)
		switch {
		case err == nil:
			if _, err := tx.ExecContext(ctx,
				"UPDATE cart_items SET quantity = quantity + ?, updated_at = ? WHERE id = ?",
				quantity, now, itemID); err != nil {
				return fmt.Errorf("increment cart item: %w", err)
			}
		case errors.Is(err, sql.ErrNoRows):
			res, err := tx.ExecContext(ctx, `
				INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`, cartID, productID, quantity, now, now)
			if err != nil {
				return fmt.Errorf("insert cart item: %w", err)
			}
			if itemID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("cart item id: %w", err)
			}
		default:
			return fmt.Errorf("query cart item: %w", err)
		}
		return s.touchCart(ctx, tx, cartID, now)
	})
	if err != nil {
		return nil, err
	}
	return s.cartItem(ctx, s.db, itemID)
}

// UpdateItem sets the absolute quantity of a line in the user's cart.
func (s *Store) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, invalidf("quantity must be positive")
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := s.lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		// Existence is checked up front: MySQL reports 0 affected rows when
		// the quantity is already set.
		err = tx.QueryRowContext(ctx,
			"SELECT id FROM cart_items WHERE id = ? AND cart_id = ?", itemID, cartID).Scan(&itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFoundf("cart item %d", itemID)
		}
		if err != nil {
			return fmt.Errorf("query cart item: %w", err)
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ?", quantity, now, itemID); err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}
		return s.touchCart(ctx, tx, cartID, now)
	})
	if err != nil {
		return nil, err
	}
	return s.cartItem(ctx, s.db, itemID)
}

// RemoveItem deletes a line from the user's cart. Removing a line that is
// absent, or that belongs to someone else's cart, is a silent no-op.
func (s *Store) RemoveItem(ctx context.Context, userID, itemID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := s.lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM cart_items WHERE id = ? AND cart_id = ?", itemID, cartID); err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		return s.touchCart(ctx, tx, cartID, time.Now().UTC())
	})
}
