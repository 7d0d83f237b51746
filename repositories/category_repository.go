package repositories

import (
	"context"
	"fmt"

	"storefront/models"

	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, name, description, image_url, parent_id, is_active, created_at, updated_at`

type CategoryRepository struct {
	db DBPool
}

func NewCategoryRepository(db DBPool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CategoryRepository) list(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM categories WHERE is_active = TRUE ORDER BY name`)
}

func (r *CategoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
}

func (r *CategoryRepository) Children(ctx context.Context, parentID int) ([]models.Category, error) {
	return r.list(ctx, `SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 AND is_active = TRUE ORDER BY name`, parentID)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, description, image_url, parent_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Description, c.ImageURL, c.ParentID, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRow(ctx, `
		UPDATE categories SET name = $1, description = $2, image_url = $3, parent_id = $4,
			is_active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`,
		c.Name, c.Description, c.ImageURL, c.ParentID, c.IsActive, c.ID,
	).Scan(&c.UpdatedAt)
	return translate(err)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id))
}

func (r *CategoryRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}
