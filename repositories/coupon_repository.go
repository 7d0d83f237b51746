package repositories

import (
	"context"
	"fmt"
	"strings"

	"storefront/models"

	"github.com/jackc/pgx/v5"
)

const couponColumns = `id, code, description, type, value, minimum_order_amount, usage_limit,
	used_count, start_date, end_date, is_active, created_at`

type CouponRepository struct {
	db DBPool
}

func NewCouponRepository(db DBPool) *CouponRepository {
	return &CouponRepository{db: db}
}

func scanCoupon(row pgx.Row) (models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.Description, &c.Type, &c.Value, &c.MinimumOrderAmount,
		&c.UsageLimit, &c.UsedCount, &c.StartDate, &c.EndDate, &c.IsActive, &c.CreatedAt)
	return c, err
}

// GetByCode is case-insensitive; codes are stored upper case.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	c, err := scanCoupon(r.db.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE code = $1`,
		strings.ToUpper(strings.TrimSpace(code))))
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	rows, err := r.db.Query(ctx, `SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []models.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *CouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	err := r.db.QueryRow(ctx, `
		INSERT INTO coupons (code, description, type, value, minimum_order_amount, usage_limit,
			start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, used_count, created_at`,
		c.Code, c.Description, c.Type, c.Value, c.MinimumOrderAmount, c.UsageLimit,
		c.StartDate, c.EndDate, c.IsActive,
	).Scan(&c.ID, &c.UsedCount, &c.CreatedAt)
	return translate(err)
}

func (r *CouponRepository) Deactivate(ctx context.Context, id int) error {
	return requireAffected(r.db.Exec(ctx, `UPDATE coupons SET is_active = FALSE WHERE id = $1`, id))
}
