package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/models"

	"github.com/jackc/pgx/v5"
)

var ErrCouponExhausted = errors.New("coupon usage limit reached")

const orderColumns = `
	o.id, o.user_id, o.order_number, o.subtotal, o.tax_amount, o.shipping_amount,
	o.discount_amount, o.total_amount, o.coupon_code, o.order_status, o.payment_status,
	o.shipping_first_name, o.shipping_last_name, o.shipping_address, o.shipping_city,
	o.shipping_postal_code, o.shipping_country, o.shipping_phone, o.tracking_number,
	o.notes, o.payment_id, o.order_date, o.shipping_date, o.delivery_date, o.updated_at,
	u.email, TRIM(u.first_name || ' ' || u.last_name)`

const orderFrom = ` FROM orders o JOIN users u ON u.id = o.user_id`

type OrderRepository struct {
	db DBPool
}

func NewOrderRepository(db DBPool) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &o.Subtotal, &o.TaxAmount, &o.ShippingAmount,
		&o.DiscountAmount, &o.TotalAmount, &o.CouponCode, &o.OrderStatus, &o.PaymentStatus,
		&o.Shipping.FirstName, &o.Shipping.LastName, &o.Shipping.Address, &o.Shipping.City,
		&o.Shipping.PostalCode, &o.Shipping.Country, &o.Shipping.Phone, &o.TrackingNumber,
		&o.Notes, &o.PaymentID, &o.OrderDate, &o.ShippingDate, &o.DeliveryDate, &o.UpdatedAt,
		&o.CustomerEmail, &o.CustomerName,
	)
	return o, err
}

func collectOrders(rows pgx.Rows) ([]models.Order, error) {
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Create persists the order and its items, takes the stock, redeems the
// coupon (couponID > 0) and empties the user's cart in a single transaction.
// Any line whose product no longer has enough stock aborts the whole order
// with ErrInsufficientStock.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order, couponID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, order_number, subtotal, tax_amount, shipping_amount,
			discount_amount, total_amount, coupon_code, order_status, payment_status,
			shipping_first_name, shipping_last_name, shipping_address, shipping_city,
			shipping_postal_code, shipping_country, shipping_phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, order_date, updated_at`,
		o.UserID, o.OrderNumber, o.Subtotal, o.TaxAmount, o.ShippingAmount,
		o.DiscountAmount, o.TotalAmount, o.CouponCode, o.OrderStatus, o.PaymentStatus,
		o.Shipping.FirstName, o.Shipping.LastName, o.Shipping.Address, o.Shipping.City,
		o.Shipping.PostalCode, o.Shipping.Country, o.Shipping.Phone, o.Notes,
	).Scan(&o.ID, &o.OrderDate, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", translate(err))
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		tag, err := tx.Exec(ctx, `
			UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW()
			WHERE id = $2 AND is_active = TRUE AND stock_quantity >= $1`,
			item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%s: %w", item.ProductName, ErrInsufficientStock)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_sku, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, item.ProductID, item.ProductName, item.ProductSKU, item.Quantity, item.UnitPrice); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if couponID > 0 {
		tag, err := tx.Exec(ctx, `
			UPDATE coupons SET used_count = used_count + 1
			WHERE id = $1 AND is_active = TRUE AND (usage_limit = 0 OR used_count < usage_limit)`, couponID)
		if err != nil {
			return fmt.Errorf("redeem coupon: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrCouponExhausted
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)`, o.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, "SELECT"+orderColumns+orderFrom+" WHERE o.id = $1", id))
	if err != nil {
		return nil, translate(err)
	}

	if o.Items, err = r.Items(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Items(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, product_sku, quantity, unit_price, created_at
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductSKU,
			&it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, "SELECT"+orderColumns+orderFrom+
		" WHERE o.user_id = $1 ORDER BY o.order_date DESC, o.id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].Items, err = r.Items(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error) {
	where := []string{}
	args := []any{}

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("o.order_status = $%d", len(args)))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, containsPattern(term))
		where = append(where, fmt.Sprintf(`(o.order_number ILIKE $%d ESCAPE '\' OR u.email ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)"+orderFrom+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	rows, err := r.db.Query(ctx, "SELECT"+orderColumns+orderFrom+cond+
		fmt.Sprintf(" ORDER BY o.order_date DESC, o.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	orders, err := collectOrders(rows)
	return orders, total, err
}

func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, "SELECT"+orderColumns+orderFrom+" ORDER BY o.order_date DESC, o.id DESC LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	return collectOrders(rows)
}

func (r *OrderRepository) UpdatePayment(ctx context.Context, id int, payment models.PaymentStatus, status models.OrderStatus, paymentID string) error {
	return requireAffected(r.db.Exec(ctx, `
		UPDATE orders SET payment_status = $1, order_status = $2, payment_id = $3, updated_at = NOW()
		WHERE id = $4`, payment, status, paymentID, id))
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *models.Order) error {
	return requireAffected(r.db.Exec(ctx, `
		UPDATE orders SET order_status = $1, tracking_number = $2, shipping_date = $3,
			delivery_date = $4, updated_at = NOW()
		WHERE id = $5`, o.OrderStatus, o.TrackingNumber, o.ShippingDate, o.DeliveryDate, o.ID))
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

func (r *OrderRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE order_date >= $1`, since).Scan(&n)
	return n, err
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status models.OrderStatus) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE order_status = $1`, status).Scan(&n)
	return n, err
}
