package repositories

import (
	"context"
	"fmt"

	"storefront/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const cartItemColumns = `
	ci.id, ci.cart_id, ci.product_id, p.name, p.sku, p.image_url, p.stock_quantity,
	p.is_active, ci.quantity, ci.unit_price, ci.created_at`

type CartRepository struct {
	db DBPool
}

func NewCartRepository(db DBPool) *CartRepository {
	return &CartRepository{db: db}
}

func scanCartItem(row pgx.Row) (models.CartItem, error) {
	var it models.CartItem
	err := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.ProductName, &it.ProductSKU, &it.ImageURL,
		&it.StockQuantity, &it.IsActive, &it.Quantity, &it.UnitPrice, &it.CreatedAt)
	return it, err
}

// GetOrCreate returns the user's cart, creating it on first use.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID int) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.QueryRow(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at, updated_at`, userID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", translate(err))
	}

	if cart.Items, err = r.Items(ctx, cart.ID); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) FindByUser(ctx context.Context, userID int) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.QueryRow(ctx, `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	if cart.Items, err = r.Items(ctx, cart.ID); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Items(ctx context.Context, cartID int) ([]models.CartItem, error) {
	rows, err := r.db.Query(ctx, `SELECT`+cartItemColumns+`
		FROM cart_items ci JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1 ORDER BY ci.created_at, ci.id`, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItem loads a cart line only if it belongs to the user's cart.
func (r *CartRepository) GetItem(ctx context.Context, userID, itemID int) (*models.CartItem, error) {
	it, err := scanCartItem(r.db.QueryRow(ctx, `SELECT`+cartItemColumns+`
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN products p ON p.id = ci.product_id
		WHERE ci.id = $1 AND c.user_id = $2`, itemID, userID))
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *CartRepository) FindItemByProduct(ctx context.Context, cartID, productID int) (*models.CartItem, error) {
	it, err := scanCartItem(r.db.QueryRow(ctx, `SELECT`+cartItemColumns+`
		FROM cart_items ci JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1 AND ci.product_id = $2`, cartID, productID))
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

// AddItem inserts a line or merges into the existing one for the same product.
// An existing line keeps its unit price snapshot.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID, qty int, unitPrice decimal.Decimal) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id`, cartID, productID, qty, unitPrice).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add cart item: %w", translate(err))
	}
	if _, err := r.db.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return 0, fmt.Errorf("touch cart: %w", err)
	}
	return id, nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID, qty int) error {
	return requireAffected(r.db.Exec(ctx, `UPDATE cart_items SET quantity = $1 WHERE id = $2`, qty, itemID))
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID int) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID))
}

func (r *CartRepository) Clear(ctx context.Context, userID int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)`, userID)
	return err
}

func (r *CartRepository) Count(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(ci.quantity), 0)::int
		FROM cart_items ci JOIN carts c ON c.id = ci.cart_id
		WHERE c.user_id = $1`, userID).Scan(&n)
	return n, err
}
