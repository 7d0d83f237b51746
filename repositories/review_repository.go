package repositories

import (
	"context"
	"fmt"

	"storefront/models"
)

type ReviewRepository struct {
	db DBPool
}

func NewReviewRepository(db DBPool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *models.ProductReview) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO product_reviews (product_id, user_id, rating, comment, is_approved)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at`,
		rv.ProductID, rv.UserID, rv.Rating, rv.Comment,
	).Scan(&rv.ID, &rv.CreatedAt)
	return translate(err)
}

func (r *ReviewRepository) list(ctx context.Context, where string, args ...any) ([]models.ProductReview, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.product_id, r.user_id, TRIM(u.first_name || ' ' || u.last_name),
			r.rating, r.comment, r.is_approved, r.created_at
		FROM product_reviews r JOIN users u ON u.id = r.user_id
		WHERE `+where+` ORDER BY r.created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.ProductReview{}
	for rows.Next() {
		var rv models.ProductReview
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.UserName, &rv.Rating,
			&rv.Comment, &rv.IsApproved, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) ListApproved(ctx context.Context, productID int) ([]models.ProductReview, error) {
	return r.list(ctx, "r.product_id = $1 AND r.is_approved = TRUE", productID)
}

func (r *ReviewRepository) ListPending(ctx context.Context) ([]models.ProductReview, error) {
	return r.list(ctx, "r.is_approved = FALSE")
}

func (r *ReviewRepository) Approve(ctx context.Context, id int) error {
	return requireAffected(r.db.Exec(ctx, `UPDATE product_reviews SET is_approved = TRUE WHERE id = $1`, id))
}

func (r *ReviewRepository) Delete(ctx context.Context, id int) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM product_reviews WHERE id = $1`, id))
}
