package repositories

import (
	"context"
	"fmt"
	"strings"

	"storefront/models"

	"github.com/jackc/pgx/v5"
)

const productColumns = `
	p.id, p.name, p.description, p.sku, p.price, p.discounted_price,
	p.stock_quantity, p.min_stock_quantity, p.image_url, p.is_active,
	p.is_featured, p.category_id, c.name, p.created_at, p.updated_at`

const productFrom = ` FROM products p JOIN categories c ON c.id = p.category_id`

type ProductRepository struct {
	db DBPool
}

func NewProductRepository(db DBPool) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.SKU, &p.Price, &p.DiscountedPrice,
		&p.StockQuantity, &p.MinStockQuantity, &p.ImageURL, &p.IsActive,
		&p.IsFeatured, &p.CategoryID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]models.Product, error) {
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListActive returns storefront-visible products (active and in stock),
// newest first, together with the total number of matches.
func (r *ProductRepository) ListActive(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	where := []string{"p.is_active = TRUE", "p.stock_quantity > 0"}
	args := []any{}

	if f.CategoryID > 0 {
		args = append(args, f.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.FeaturedOnly {
		where = append(where, "p.is_featured = TRUE")
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, containsPattern(term))
		where = append(where, fmt.Sprintf(`(p.name ILIKE $%d ESCAPE '\' OR p.description ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)"+productFrom+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit, f.Offset)
	query := "SELECT" + productColumns + productFrom + cond +
		fmt.Sprintf(" ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("scan products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, "SELECT"+productColumns+productFrom+" WHERE p.id = $1", id))
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepository) Related(ctx context.Context, categoryID, excludeID, limit int) ([]models.Product, error) {
	query := "SELECT" + productColumns + productFrom + `
		WHERE p.category_id = $1 AND p.id <> $2 AND p.is_active = TRUE AND p.stock_quantity > 0
		ORDER BY p.created_at DESC LIMIT $3`

	rows, err := r.db.Query(ctx, query, categoryID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepository) Images(ctx context.Context, productID int) ([]models.ProductImage, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, image_url, public_id, alt_text, display_order, created_at
		FROM product_images WHERE product_id = $1 ORDER BY display_order, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("product images: %w", err)
	}
	defer rows.Close()

	images := []models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.PublicID, &img.AltText, &img.DisplayOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// ListAll is the back office listing and includes inactive and sold out products.
func (r *ProductRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Product, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.Query(ctx, "SELECT"+productColumns+productFrom+
		" ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products, err := collectProducts(rows)
	return products, total, err
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, sku, price, discounted_price, stock_quantity,
			min_stock_quantity, image_url, is_active, is_featured, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.SKU, p.Price, p.DiscountedPrice, p.StockQuantity,
		p.MinStockQuantity, p.ImageURL, p.IsActive, p.IsFeatured, p.CategoryID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate(err)
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRow(ctx, `
		UPDATE products SET name = $1, description = $2, sku = $3, price = $4, discounted_price = $5,
			stock_quantity = $6, min_stock_quantity = $7, image_url = $8, is_active = $9,
			is_featured = $10, category_id = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at`,
		p.Name, p.Description, p.SKU, p.Price, p.DiscountedPrice, p.StockQuantity,
		p.MinStockQuantity, p.ImageURL, p.IsActive, p.IsFeatured, p.CategoryID, p.ID,
	).Scan(&p.UpdatedAt)
	return translate(err)
}

// Delete removes the product. Products referenced by past orders yield ErrInUse.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	return requireAffected(r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id))
}

func (r *ProductRepository) AddImage(ctx context.Context, img *models.ProductImage) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO product_images (product_id, image_url, public_id, alt_text, display_order)
		VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(display_order) + 1, 0) FROM product_images WHERE product_id = $1))
		RETURNING id, display_order, created_at`,
		img.ProductID, img.ImageURL, img.PublicID, img.AltText,
	).Scan(&img.ID, &img.DisplayOrder, &img.CreatedAt)
	return translate(err)
}

// SetMainImageIfEmpty sets the listing image only when the product has none yet.
func (r *ProductRepository) SetMainImageIfEmpty(ctx context.Context, productID int, url string) error {
	_, err := r.db.Exec(ctx, `UPDATE products SET image_url = $1, updated_at = NOW() WHERE id = $2 AND image_url = ''`, url, productID)
	return err
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func (r *ProductRepository) CountLowStock(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active = TRUE AND stock_quantity <= min_stock_quantity`).Scan(&n)
	return n, err
}
